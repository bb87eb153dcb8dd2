package table

import (
	"strconv"
	"strings"

	"github.com/ajitpratap0/tabula/pkg/pool"
	"github.com/ajitpratap0/tabula/pkg/tableerrors"
)

// Coerce builds a typed table from a raw table and one decision per column.
// Each column is converted to its decided type; the raw table is left
// untouched. Decisions are matched to columns by position and must name the
// same column.
func Coerce(raw *Table, decisions []TypeDecision) (*Table, error) {
	if len(decisions) != len(raw.columns) {
		return nil, tableerrors.Newf(tableerrors.ErrorTypeInternal,
			"got %d type decisions for %d columns", len(decisions), len(raw.columns))
	}

	columns := make([]Column, len(raw.columns))
	for i, col := range raw.columns {
		d := decisions[i]
		if d.Column != col.Name() {
			return nil, tableerrors.Newf(tableerrors.ErrorTypeInternal,
				"type decision %d is for column %q, not %q", i, d.Column, col.Name())
		}

		sc, ok := col.(*StringColumn)
		if !ok {
			if col.Type() != d.Type {
				return nil, tableerrors.Newf(tableerrors.ErrorTypeCoercion,
					"column %q is already %s, cannot coerce to %s", col.Name(), col.Type(), d.Type).
					WithDetail("column", col.Name())
			}
			columns[i] = col
			continue
		}

		typed, err := coerceColumn(sc, d.Type)
		if err != nil {
			return nil, err
		}
		columns[i] = typed
	}

	return raw.derive(columns, raw.rows), nil
}

// Typed infers a type for every raw column and coerces it.
func Typed(raw *Table) (*Table, error) {
	return Coerce(raw, Infer(raw))
}

// ParseBool converts a Boolean-compatible value: "1" and "true" in any case
// are true and every other value is false.
func ParseBool(s string) bool {
	return s == "1" || strings.EqualFold(s, "true")
}

func coerceColumn(col *StringColumn, typ ScalarType) (Column, error) {
	switch typ {
	case String:
		return internStrings(col), nil

	case Boolean:
		out := make([]bool, len(col.values))
		for i, v := range col.values {
			if !IsBool(v) {
				return nil, coercionError(col.name, i, v, typ)
			}
			out[i] = ParseBool(v)
		}
		return NewBoolColumn(col.name, out), nil

	case Integer:
		out := make([]int64, len(col.values))
		for i, v := range col.values {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, tableerrors.Wrap(err, tableerrors.ErrorTypeCoercion, "integer parse failed").
					WithDetail("column", col.name).
					WithDetail("row", i).
					WithDetail("value", v)
			}
			out[i] = n
		}
		return newIntColumn(col.name, out), nil

	case Float:
		out := make([]float64, len(col.values))
		for i, v := range col.values {
			f, err := parseFloat(v)
			if err != nil {
				return nil, tableerrors.Wrap(err, tableerrors.ErrorTypeCoercion, "float parse failed").
					WithDetail("column", col.name).
					WithDetail("row", i).
					WithDetail("value", v)
			}
			out[i] = f
		}
		return &FloatColumn{name: col.name, values: out}, nil

	default:
		return nil, tableerrors.Newf(tableerrors.ErrorTypeInternal, "unknown scalar type %d", int(typ)).
			WithDetail("column", col.name)
	}
}

// internStrings copies a text column so it no longer shares memory with the
// loaded file. Equal values share one copy.
func internStrings(col *StringColumn) *StringColumn {
	in := pool.NewStringInternPool(pool.DefaultInternLimit)
	out := make([]string, len(col.values))
	for i, v := range col.values {
		out[i] = in.Intern(v)
	}
	return &StringColumn{name: col.name, values: out}
}

func coercionError(column string, row int, value string, typ ScalarType) *tableerrors.Error {
	return tableerrors.Newf(tableerrors.ErrorTypeCoercion, "cannot coerce %q to %s", value, typ).
		WithDetail("column", column).
		WithDetail("row", row).
		WithDetail("value", value)
}
