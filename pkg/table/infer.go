package table

import (
	"strconv"
	"strings"
)

// Candidacy records which typed interpretations are still possible for a
// column while it is being scanned.
type Candidacy struct {
	Boolean bool
	Integer bool
	Float   bool
}

// TypeDecision is the outcome of inference for one column.
type TypeDecision struct {
	Column     string
	Type       ScalarType
	Candidates Candidacy
}

// IsBool reports whether s is one of "true", "false", "1" or "0", ignoring case.
func IsBool(s string) bool {
	return strings.EqualFold(s, "true") || strings.EqualFold(s, "false") || s == "1" || s == "0"
}

// IsInt reports whether s is a base-10 integer with an optional sign that
// fits in 64 bits.
func IsInt(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

// IsFloat reports whether s is a decimal floating-point number. Magnitudes
// beyond float64 range are accepted and saturate to ±Inf; hexadecimal forms
// are rejected.
func IsFloat(s string) bool {
	_, err := parseFloat(s)
	return err == nil
}

func parseFloat(s string) (float64, error) {
	if strings.ContainsAny(s, "xX") {
		return 0, strconv.ErrSyntax
	}
	f, err := strconv.ParseFloat(s, 64)
	if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
		return f, nil
	}
	return f, err
}

// InferValues chooses the type of a column from its raw values.
//
// Candidacy is seeded by the first value only and then narrowed: a type
// stays a candidate while every following value is compatible with it. A
// type the first value is incompatible with is never chosen, even if all
// later values would fit. The narrowest surviving candidate wins:
// Boolean, then Integer, then Float. Every integer is also a valid float, so
// Float is only chosen once Integer has been ruled out. With no candidate
// left the column stays String.
func InferValues(values []string) (ScalarType, Candidacy) {
	if len(values) == 0 {
		return String, Candidacy{}
	}

	first := values[0]
	c := Candidacy{
		Boolean: IsBool(first),
		Integer: IsInt(first),
		Float:   IsFloat(first),
	}

	for _, v := range values[1:] {
		if !c.Boolean && !c.Integer && !c.Float {
			break
		}
		if c.Float && !IsFloat(v) {
			c.Float = false
		}
		if c.Integer && !IsInt(v) {
			c.Integer = false
		}
		if c.Boolean && !IsBool(v) {
			c.Boolean = false
		}
	}

	switch {
	case c.Boolean:
		return Boolean, c
	case c.Integer:
		return Integer, c
	case c.Float:
		return Float, c
	default:
		return String, c
	}
}

// Infer decides a type for every column of a raw table. Columns that are
// already typed keep their type.
func Infer(raw *Table) []TypeDecision {
	decisions := make([]TypeDecision, len(raw.columns))
	for i, col := range raw.columns {
		d := TypeDecision{Column: col.Name(), Type: col.Type()}
		if sc, ok := col.(*StringColumn); ok {
			d.Type, d.Candidates = InferValues(sc.values)
		}
		decisions[i] = d
	}
	return decisions
}
