// Package tabula loads delimited text files into typed, immutable columnar
// tables and answers projection, filter and sort queries over them.
//
// # Pipeline
//
// Loading runs in two explicit phases:
//
//  1. The loader splits the file into a header and data rows on a single
//     separator and produces a raw table whose columns are all text.
//  2. Inference picks a type for every column (boolean, integer, float or
//     string) and coercion converts the raw values into typed columns.
//
// Queries never modify a table; each returns a new one:
//
//	raw, err := loader.Load("quakes.csv", loader.DefaultOptions())
//	if err != nil {
//		return err
//	}
//	quakes, err := table.Coerce(raw, table.Infer(raw))
//	if err != nil {
//		return err
//	}
//	strong, err := quakes.Filter("magnitude", table.GreaterEqual, 6.5)
//	if err != nil {
//		return err
//	}
//	ranked, err := strong.Sort("magnitude", true)
//
// dataset.Reader wraps the same steps behind a stateful handle that logs,
// records Prometheus metrics and opens OpenTelemetry spans for every
// operation.
//
// # Key Packages
//
//	pkg/table         - Typed columns, inference, coercion, project/filter/sort
//	pkg/loader        - Delimited text tokenizer with compressed input support
//	pkg/dataset       - Instrumented Reader facade over loader and table
//	pkg/formats       - JSON, NDJSON, Arrow, Parquet and Avro export
//	pkg/compression   - gzip, snappy, lz4, zstd and s2 streams
//	pkg/config        - YAML configuration with ${VAR} substitution
//	pkg/tableerrors   - Structured, typed errors
//	pkg/logger        - Structured logging on zap
//	pkg/metrics       - Prometheus counters and histograms
//	pkg/observability - OpenTelemetry tracing
//
// # Command Line
//
// The tabula command exposes the same operations:
//
//	tabula schema quakes.csv
//	tabula filter quakes.csv magnitude ">=" 6.5 --sort magnitude --desc
//	tabula export quakes.csv --format parquet --compression zstd -o quakes.parquet
//
// Settings come from defaults, a YAML file given by --config, TABULA_*
// environment variables and flags, in increasing priority.
package tabula
