package table

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// rawTable builds an untyped table from a header and rows of text.
func rawTable(t *testing.T, header []string, rows ...[]string) *Table {
	t.Helper()
	cols := make([]Column, len(header))
	for c, name := range header {
		values := make([]string, len(rows))
		for r, row := range rows {
			values[r] = row[c]
		}
		cols[c] = NewStringColumn(name, values)
	}
	tbl, err := New("test.csv", cols...)
	require.NoError(t, err)
	return tbl
}

func typedTable(t *testing.T, header []string, rows ...[]string) *Table {
	t.Helper()
	tbl, err := Typed(rawTable(t, header, rows...))
	require.NoError(t, err)
	return tbl
}

func values(t *testing.T, tbl *Table, name string) []interface{} {
	t.Helper()
	col, ok := tbl.Column(name)
	require.True(t, ok, "column %q missing", name)
	return col.Values()
}

// scenario is the two-column table used across the operation tests.
func scenario(t *testing.T) *Table {
	return typedTable(t, []string{"a", "b"},
		[]string{"1", "true"},
		[]string{"2", "false"},
		[]string{"3", "true"},
	)
}
