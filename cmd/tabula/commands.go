package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tabula/pkg/compression"
	"github.com/ajitpratap0/tabula/pkg/formats"
	"github.com/ajitpratap0/tabula/pkg/json"
	"github.com/ajitpratap0/tabula/pkg/loader"
	"github.com/ajitpratap0/tabula/pkg/metrics"
	"github.com/ajitpratap0/tabula/pkg/observability"
	"github.com/ajitpratap0/tabula/pkg/table"
	"github.com/ajitpratap0/tabula/pkg/tableerrors"
)

// Values of the --output flag of the query commands.
const (
	outputText   = "text"
	outputJSON   = "json"
	outputNDJSON = "ndjson"
)

func addOutputFlag(cmd *cobra.Command) *string {
	return cmd.Flags().StringP("output", "o", outputText, "Output style (text, json, ndjson)")
}

// writeTable prints t in the requested output style.
func writeTable(w io.Writer, t *table.Table, output string) error {
	switch output {
	case outputText:
		_, err := io.WriteString(w, t.String())
		return err
	case outputJSON:
		return formats.Write(w, t, formats.Options{Format: formats.JSON})
	case outputNDJSON:
		return formats.Write(w, t, formats.Options{Format: formats.NDJSON})
	default:
		return tableerrors.Newf(tableerrors.ErrorTypeValidation, "unknown output style %q", output)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tabula v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show FILE",
		Short: "Print a typed table",
		Args:  cobra.ExactArgs(1),
	}
	output := addOutputFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		r, err := a.open(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		t, err := r.Table()
		if err != nil {
			return err
		}
		return writeTable(cmd.OutOrStdout(), t, *output)
	}
	return cmd
}

type schemaEntry struct {
	Column     string   `json:"column"`
	Type       string   `json:"type"`
	Candidates []string `json:"candidates"`
}

func newSchemaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema FILE",
		Short: "Print the inferred type of every column",
		Long: `Print the inferred type of every column together with the types that
stayed compatible with all of its values.`,
		Args: cobra.ExactArgs(1),
	}
	output := addOutputFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		opts := a.loaderOptions()
		opts.Logger = a.log
		raw, err := loader.Load(args[0], opts)
		if err != nil {
			return err
		}

		decisions := table.Infer(raw)
		entries := make([]schemaEntry, len(decisions))
		for i, d := range decisions {
			entries[i] = schemaEntry{
				Column:     d.Column,
				Type:       d.Type.String(),
				Candidates: candidateNames(d.Candidates),
			}
		}

		out := cmd.OutOrStdout()
		switch *output {
		case outputText:
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "COLUMN\tTYPE\tCANDIDATES")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Column, e.Type, strings.Join(e.Candidates, ","))
			}
			fmt.Fprintf(tw, "\n%d rows\n", raw.Len())
			return tw.Flush()
		case outputJSON:
			return json.MarshalToWriter(out, entries)
		case outputNDJSON:
			enc := json.NewStreamingEncoder(out, false)
			for _, e := range entries {
				if err := enc.Encode(e); err != nil {
					return err
				}
			}
			return enc.Close()
		default:
			return tableerrors.Newf(tableerrors.ErrorTypeValidation, "unknown output style %q", *output)
		}
	}
	return cmd
}

func candidateNames(c table.Candidacy) []string {
	names := []string{}
	if c.Boolean {
		names = append(names, table.Boolean.String())
	}
	if c.Integer {
		names = append(names, table.Integer.String())
	}
	if c.Float {
		names = append(names, table.Float.String())
	}
	return names
}

func newProjectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project FILE COLUMN...",
		Short: "Print the named columns in the given order",
		Long: `Print the named columns in the given order. Unknown names are skipped and a
repeated name is printed once.`,
		Args: cobra.MinimumNArgs(2),
	}
	output := addOutputFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		r, err := a.open(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		t, err := r.FilterColumns(cmd.Context(), args[1:]...)
		if err != nil {
			return err
		}
		return writeTable(cmd.OutOrStdout(), t, *output)
	}
	return cmd
}

func newFilterCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter FILE COLUMN OPERATOR VALUE",
		Short: "Print the rows where COLUMN OPERATOR VALUE holds",
		Long: `Print the rows where COLUMN OPERATOR VALUE holds.

OPERATOR is one of EQUAL, NOT_EQUAL, GREATER, GREATER_EQUAL, LESS, LESS_EQUAL
or a symbol such as ">=". VALUE is converted to the column type.`,
		Example: `  tabula filter quakes.csv magnitude ">=" 6.5 --sort magnitude --desc`,
		Args:    cobra.ExactArgs(4),
	}
	output := addOutputFlag(cmd)
	sortBy := cmd.Flags().String("sort", "", "Sort the matching rows by this column")
	desc := cmd.Flags().Bool("desc", false, "Sort descending")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		op, err := table.ParseOperator(args[2])
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		r, err := a.open(ctx, args[0])
		if err != nil {
			return err
		}
		t, err := r.FilterResults(ctx, args[1], op, args[3])
		if err != nil {
			return err
		}
		if *sortBy != "" {
			if t, err = r.SortTable(ctx, t, *sortBy, *desc); err != nil {
				return err
			}
		}
		return writeTable(cmd.OutOrStdout(), t, *output)
	}
	return cmd
}

func newSortCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sort FILE COLUMN",
		Short: "Print the table stably sorted by a column",
		Args:  cobra.ExactArgs(2),
	}
	output := addOutputFlag(cmd)
	desc := cmd.Flags().Bool("desc", false, "Sort descending")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		r, err := a.open(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		t, err := r.SortResults(cmd.Context(), args[1], *desc)
		if err != nil {
			return err
		}
		return writeTable(cmd.OutOrStdout(), t, *output)
	}
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Write a typed table as JSON, NDJSON, Arrow, Parquet or Avro",
		Long: `Write a typed table as JSON, NDJSON, Arrow, Parquet or Avro.

The format and compression default to the export section of the
configuration. JSON and NDJSON output is compressed as a whole stream; Arrow,
Parquet and Avro compress inside the file and accept only the codecs they
define.`,
		Example: `  tabula export quakes.csv --format parquet --compression zstd -o quakes.parquet`,
		Args:    cobra.ExactArgs(1),
	}
	format := cmd.Flags().String("format", "", "Export format (json, ndjson, arrow, parquet, avro)")
	alg := cmd.Flags().String("compression", "", "Compression (none, gzip, snappy, lz4, zstd, s2)")
	dest := cmd.Flags().StringP("output", "o", "", "Output file; empty or - writes to stdout")
	columns := cmd.Flags().StringSlice("columns", nil, "Export only these columns, in this order")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		opts, err := a.exportOptions(*format, *alg)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		r, err := a.open(ctx, args[0])
		if err != nil {
			return err
		}
		t, err := r.Table()
		if err != nil {
			return err
		}
		if len(*columns) > 0 {
			if t, err = r.FilterColumns(ctx, *columns...); err != nil {
				return err
			}
		}
		return a.export(ctx, cmd.OutOrStdout(), t, *dest, opts)
	}
	return cmd
}

// exportOptions resolves flag values over the configured defaults.
func (a *app) exportOptions(format, alg string) (formats.Options, error) {
	if format == "" {
		format = a.cfg.Export.Format
	}
	if alg == "" {
		alg = a.cfg.Export.Compression
	}

	f, err := formats.ParseFormat(format)
	if err != nil {
		return formats.Options{}, err
	}
	c, err := compression.ParseAlgorithm(alg)
	if err != nil {
		return formats.Options{}, err
	}
	return formats.Options{Format: f, Compression: c}, nil
}

func (a *app) export(ctx context.Context, stdout io.Writer, t *table.Table, dest string, opts formats.Options) error {
	var timer *metrics.Timer
	if a.cfg.Observability.EnableMetrics {
		timer = metrics.NewTimer(metrics.OpExport)
	}

	err := observability.Trace(ctx, metrics.OpExport, func(_ context.Context, span *observability.Span) error {
		span.SetAttribute("tabula.format", string(opts.Format))
		span.SetAttribute("tabula.compression", string(opts.Compression))
		span.SetAttribute("tabula.rows", t.Len())

		if dest == "" || dest == "-" {
			return formats.Write(stdout, t, opts)
		}
		return writeFile(dest, t, opts)
	})

	if timer != nil {
		timer.Stop()
		metrics.RecordError(metrics.OpExport, err)
	}
	if err != nil {
		return err
	}

	a.log.Info("table exported",
		zap.String("source", t.Name()),
		zap.String("destination", dest),
		zap.String("format", string(opts.Format)),
		zap.String("compression", string(opts.Compression)),
		zap.Int("rows", t.Len()))
	return nil
}

// writeFile writes the export to path and removes the partial file on
// failure.
func writeFile(path string, t *table.Table, opts formats.Options) error {
	f, err := os.Create(path) //nolint:gosec // G304: output path is chosen by the user
	if err != nil {
		return tableerrors.Wrap(err, tableerrors.ErrorTypeFile, "failed to create output file").
			WithDetail("path", path)
	}

	err = formats.Write(f, t, opts)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = tableerrors.Wrap(cerr, tableerrors.ErrorTypeFile, "failed to close output file").
			WithDetail("path", path)
	}
	if err != nil {
		_ = os.Remove(path)
	}
	return err
}
