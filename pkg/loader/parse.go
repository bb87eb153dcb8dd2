package loader

import (
	"strings"

	stringpool "github.com/ajitpratap0/tabula/pkg/strings"
	"github.com/ajitpratap0/tabula/pkg/table"
	"github.com/ajitpratap0/tabula/pkg/tableerrors"
)

// Parse splits text into a header and data rows on sep and returns a raw
// table named name. A trailing newline does not produce a row. Blank lines
// inside the body are rows like any other.
func Parse(name, text string, sep rune) (*table.Table, error) {
	lines := stringpool.SplitLines(text)
	if len(lines) == 0 {
		return nil, tableerrors.New(tableerrors.ErrorTypeFormat, "file is empty").
			WithDetail("path", name)
	}

	if stringpool.TrimSpace(lines[0]) == "" {
		return nil, tableerrors.New(tableerrors.ErrorTypeFormat, "header line is blank").
			WithDetail("path", name).
			WithDetail("line", 1)
	}

	header := stringpool.SplitTrimmed(lines[0], sep)
	seen := make(map[string]int, len(header))
	for i, h := range header {
		if first, dup := seen[h]; dup {
			return nil, tableerrors.Newf(tableerrors.ErrorTypeFormat,
				"duplicate column name %q in header (fields %d and %d)", h, first+1, i+1).
				WithDetail("path", name).
				WithDetail("column", h)
		}
		seen[h] = i
	}

	body := lines[1:]
	columns := make([][]string, len(header))
	for c := range columns {
		columns[c] = make([]string, len(body))
	}

	for r, line := range body {
		fields := stringpool.SplitTrimmed(line, sep)
		if len(fields) != len(header) {
			return nil, tableerrors.Newf(tableerrors.ErrorTypeFormat,
				"line %d has %d fields, header has %d", r+2, len(fields), len(header)).
				WithDetail("path", name).
				WithDetail("line", r+2).
				WithDetail("expected", len(header)).
				WithDetail("actual", len(fields))
		}
		for c, f := range fields {
			columns[c][r] = f
		}
	}

	// Names outlive text; values are copied later by coercion.
	cols := make([]table.Column, len(header))
	for c, h := range header {
		cols[c] = table.NewStringColumn(strings.Clone(h), columns[c])
	}
	return table.New(name, cols...)
}
