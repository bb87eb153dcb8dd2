// Package formats exports typed tables to file formats and reads the typed
// binary formats back.
//
// Supported formats:
//   - json: one object mapping column name to its value list, in column order
//   - ndjson: one object per row
//   - arrow: Arrow IPC file with a single record batch
//   - parquet: Parquet file written through the Arrow bridge
//   - avro: Avro object container file with one record per row
//
// Column types map to int64, float64, boolean and string (UTF-8) in every
// binary format. JSON has no encoding for NaN or infinities, so those floats
// are written as null.
package formats

import (
	"io"
	"strings"

	"github.com/ajitpratap0/tabula/pkg/compression"
	"github.com/ajitpratap0/tabula/pkg/table"
	"github.com/ajitpratap0/tabula/pkg/tableerrors"
)

// Format identifies an export format.
type Format string

const (
	// JSON writes a single column-oriented object
	JSON Format = "json"
	// NDJSON writes one JSON object per row
	NDJSON Format = "ndjson"
	// Arrow writes an Arrow IPC file
	Arrow Format = "arrow"
	// Parquet writes an Apache Parquet file
	Parquet Format = "parquet"
	// Avro writes an Avro object container file
	Avro Format = "avro"
)

// ParseFormat converts a configuration value such as "parquet" into a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case JSON, NDJSON, Arrow, Parquet, Avro:
		return f, nil
	case "jsonl":
		return NDJSON, nil
	default:
		return "", tableerrors.Newf(tableerrors.ErrorTypeValidation, "unsupported export format %q", s)
	}
}

// Extension returns the file suffix for the format, including the suffix of
// the compression when the whole stream is compressed.
func (f Format) Extension(alg compression.Algorithm) string {
	ext := "." + string(f)
	if f.streamCompressed() {
		ext += alg.Extension()
	}
	return ext
}

// streamCompressed reports whether compression wraps the whole output rather
// than being applied inside the format.
func (f Format) streamCompressed() bool {
	return f == JSON || f == NDJSON
}

// Options controls an export.
type Options struct {
	Format      Format
	Compression compression.Algorithm
	// Level applies where the codec supports one. Zero means Default.
	Level compression.Level
}

// Write encodes t to w. w is not closed.
func Write(w io.Writer, t *table.Table, opts Options) error {
	if opts.Level == 0 {
		opts.Level = compression.Default
	}
	if opts.Compression == "" {
		opts.Compression = compression.None
	}

	// Some encoders close their sink; the caller owns w.
	sink := writerOnly{w}

	var err error
	switch opts.Format {
	case JSON, NDJSON:
		err = writeJSONStream(sink, t, opts)
	case Arrow:
		err = writeArrow(sink, t, opts.Compression)
	case Parquet:
		err = writeParquet(sink, t, opts.Compression)
	case Avro:
		err = writeAvro(sink, t, opts.Compression)
	default:
		return tableerrors.Newf(tableerrors.ErrorTypeValidation, "unsupported export format %q", opts.Format)
	}
	if err != nil && !tableerrors.IsType(err, tableerrors.ErrorTypeValidation) {
		return tableerrors.Wrap(err, tableerrors.ErrorTypeFormat, "export failed").
			WithDetail("format", string(opts.Format))
	}
	return err
}

// Read decodes a table written in one of the binary formats.
func Read(r io.Reader, format Format, name string) (*table.Table, error) {
	var (
		t   *table.Table
		err error
	)
	switch format {
	case Arrow:
		t, err = readArrow(r, name)
	case Parquet:
		t, err = readParquet(r, name)
	case Avro:
		t, err = readAvro(r, name)
	default:
		return nil, tableerrors.Newf(tableerrors.ErrorTypeValidation, "format %q cannot be read", format)
	}
	if err != nil && !tableerrors.IsType(err, tableerrors.ErrorTypeValidation) {
		return nil, tableerrors.Wrap(err, tableerrors.ErrorTypeFormat, "import failed").
			WithDetail("format", string(format))
	}
	return t, err
}

func writeJSONStream(w io.Writer, t *table.Table, opts Options) error {
	cw, err := compression.NewWriter(opts.Compression, opts.Level, w)
	if err != nil {
		return err
	}
	if opts.Format == JSON {
		err = writeJSON(cw, t)
	} else {
		err = writeNDJSON(cw, t)
	}
	if cerr := cw.Close(); err == nil {
		err = cerr
	}
	return err
}

func unsupportedCompression(f Format, alg compression.Algorithm) error {
	return tableerrors.Newf(tableerrors.ErrorTypeValidation, "%s export does not support %s compression", f, alg).
		WithDetail("format", string(f)).
		WithDetail("compression", string(alg))
}

type writerOnly struct{ io.Writer }
