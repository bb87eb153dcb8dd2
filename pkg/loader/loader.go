// Package loader reads delimited text files into raw tables.
//
// The first line is the header; every following line is a data row split on
// a single separator rune. Fields are trimmed of surrounding whitespace and
// kept as text. There is no quoting or escaping, so a separator inside a
// field always splits it. Rows whose field count differs from the header
// are rejected with a format error.
//
// Files ending in a CSV suffix (".csv" unless configured otherwise) are
// split on commas; all others use the configured default separator. When
// decompression is enabled, compressed inputs such as "data.csv.gz" are
// decoded first and the compression suffix is ignored for separator
// detection.
package loader

import (
	"bytes"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/tabula/pkg/compression"
	stringpool "github.com/ajitpratap0/tabula/pkg/strings"
	"github.com/ajitpratap0/tabula/pkg/table"
	"github.com/ajitpratap0/tabula/pkg/tableerrors"
)

// Options controls how a file is read.
type Options struct {
	// Separator splits fields of files without a CSV suffix. Zero means ','.
	Separator rune
	// CSVSuffixes are matched case-insensitively against the file name.
	// Nil means ".csv".
	CSVSuffixes []string
	// Decompress enables decoding of .gz, .zst, .lz4, .sz and .s2 inputs.
	Decompress bool
	// Logger receives debug-level progress. Nil disables logging.
	Logger *zap.Logger
}

// DefaultOptions returns comma-separated loading with decompression enabled.
func DefaultOptions() Options {
	return Options{
		Separator:   ',',
		CSVSuffixes: []string{".csv"},
		Decompress:  true,
	}
}

func (o Options) withDefaults() Options {
	if o.Separator == 0 {
		o.Separator = ','
	}
	if o.CSVSuffixes == nil {
		o.CSVSuffixes = []string{".csv"}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// SeparatorFor returns the separator used for path: a comma for CSV
// suffixes, the default separator otherwise. A recognised compression
// suffix is stripped first when decompression is enabled.
func SeparatorFor(path string, opts Options) rune {
	opts = opts.withDefaults()
	if opts.Decompress {
		_, path = compression.AlgorithmForPath(path)
	}
	if stringpool.HasAnySuffix(path, opts.CSVSuffixes...) {
		return ','
	}
	return opts.Separator
}

// Load reads the file at path into a raw table whose columns are all
// strings. The table is named after path.
func Load(path string, opts Options) (*table.Table, error) {
	opts = opts.withDefaults()
	start := time.Now()

	alg := compression.None
	if opts.Decompress {
		alg, _ = compression.AlgorithmForPath(path)
	}
	sep := SeparatorFor(path, opts)

	log := opts.Logger.With(zap.String("path", path))
	log.Debug("loading file",
		zap.String("separator", string(sep)),
		zap.String("compression", string(alg)))

	data, err := readFile(path, alg)
	if err != nil {
		log.Debug("read failed", zap.Error(err))
		return nil, err
	}

	raw, err := Parse(path, stringpool.BytesToString(data), sep)
	if err != nil {
		log.Debug("parse failed", zap.Error(err))
		return nil, err
	}

	log.Debug("file loaded",
		zap.Int("rows", raw.Len()),
		zap.Int("columns", raw.Width()),
		zap.Int("bytes", len(data)),
		zap.Duration("duration", time.Since(start)))
	return raw, nil
}

// LoadTyped loads path and infers and coerces every column.
func LoadTyped(path string, opts Options) (*table.Table, error) {
	raw, err := Load(path, opts)
	if err != nil {
		return nil, err
	}
	return table.Typed(raw)
}

func readFile(path string, alg compression.Algorithm) ([]byte, error) {
	f, err := os.Open(path) //nolint:gosec // G304: reading caller-chosen files is the purpose
	if err != nil {
		return nil, tableerrors.Wrap(err, tableerrors.ErrorTypeFile, "failed to open file").
			WithDetail("path", path)
	}
	defer f.Close()

	if alg == compression.None {
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, tableerrors.Wrap(err, tableerrors.ErrorTypeFile, "failed to read file").
				WithDetail("path", path)
		}
		return data, nil
	}

	comp, err := compression.NewCompressor(&compression.Config{Algorithm: alg})
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := comp.DecompressStream(&buf, f); err != nil {
		return nil, tableerrors.Wrap(err, tableerrors.ErrorTypeFormat, "failed to decompress file").
			WithDetail("path", path).
			WithDetail("compression", string(comp.Algorithm()))
	}
	return buf.Bytes(), nil
}
