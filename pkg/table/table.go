package table

import (
	"github.com/ajitpratap0/tabula/pkg/tableerrors"
)

// Field describes one column of a table.
type Field struct {
	Name string
	Type ScalarType
}

// Table is an immutable, ordered collection of equal-length columns.
type Table struct {
	name    string
	columns []Column
	index   map[string]int
	rows    int
}

// New builds a table named after its source from the given columns, in
// order. Column names must be unique and all columns must have the same
// length.
func New(name string, columns ...Column) (*Table, error) {
	t := &Table{
		name:    name,
		columns: make([]Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}

	for i, col := range columns {
		if col == nil {
			return nil, tableerrors.Newf(tableerrors.ErrorTypeValidation, "column %d is nil", i)
		}
		if _, dup := t.index[col.Name()]; dup {
			return nil, tableerrors.Newf(tableerrors.ErrorTypeValidation, "duplicate column name %q", col.Name()).
				WithDetail("column", col.Name())
		}
		if i == 0 {
			t.rows = col.Len()
		} else if col.Len() != t.rows {
			return nil, tableerrors.Newf(tableerrors.ErrorTypeValidation,
				"column %q has %d rows, expected %d", col.Name(), col.Len(), t.rows).
				WithDetail("column", col.Name())
		}
		t.index[col.Name()] = i
		t.columns = append(t.columns, col)
	}

	return t, nil
}

// derive builds a table from columns already known to be consistent.
func (t *Table) derive(columns []Column, rows int) *Table {
	out := &Table{
		name:    t.name,
		columns: columns,
		index:   make(map[string]int, len(columns)),
		rows:    rows,
	}
	for i, col := range columns {
		out.index[col.Name()] = i
	}
	return out
}

// Name returns the name of the source the table was loaded from.
func (t *Table) Name() string { return t.name }

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.columns) }

// ColumnNames returns the column names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name()
	}
	return names
}

// Column returns the named column.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// Columns returns the columns in table order.
func (t *Table) Columns() []Column {
	return append([]Column(nil), t.columns...)
}

// Schema returns the name and type of every column in table order.
func (t *Table) Schema() []Field {
	fields := make([]Field, len(t.columns))
	for i, col := range t.columns {
		fields[i] = Field{Name: col.Name(), Type: col.Type()}
	}
	return fields
}

// Row returns the values of row i in column order.
func (t *Table) Row(i int) ([]interface{}, error) {
	if i < 0 || i >= t.rows {
		return nil, tableerrors.Newf(tableerrors.ErrorTypeValidation, "row %d out of range [0, %d)", i, t.rows)
	}
	row := make([]interface{}, len(t.columns))
	for c, col := range t.columns {
		row[c] = col.Value(i)
	}
	return row, nil
}

// ToMap returns the table as a mapping from column name to its values.
func (t *Table) ToMap() map[string][]interface{} {
	out := make(map[string][]interface{}, len(t.columns))
	for _, col := range t.columns {
		out[col.Name()] = col.Values()
	}
	return out
}

// MemoryUsage estimates the bytes held by column data.
func (t *Table) MemoryUsage() int64 {
	var total int64
	for _, col := range t.columns {
		total += int64(len(col.Name()))
		total += col.MemoryUsage()
	}
	return total
}
