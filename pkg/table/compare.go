package table

import (
	"math"
	"strconv"

	stringpool "github.com/ajitpratap0/tabula/pkg/strings"
	"github.com/ajitpratap0/tabula/pkg/tableerrors"
)

// comparand is a filter value converted to the native type of a column.
type comparand struct {
	i       int64
	f       float64
	b       bool
	s       string
	isFloat bool
}

// toComparand converts a caller-supplied filter value for comparison
// against col.
func toComparand(col Column, value interface{}) (comparand, error) {
	switch col.Type() {
	case Integer:
		if n, ok := asInt64(value); ok {
			return comparand{i: n}, nil
		}
		if f, ok := asFloat64(value); ok {
			return comparand{f: f, isFloat: true}, nil
		}
		if s, ok := value.(string); ok {
			s = stringpool.TrimSpace(s)
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return comparand{i: n}, nil
			}
			if f, err := parseFloat(s); err == nil {
				return comparand{f: f, isFloat: true}, nil
			}
		}

	case Float:
		if f, ok := asFloat64(value); ok {
			return comparand{f: f}, nil
		}
		if s, ok := value.(string); ok {
			if f, err := parseFloat(stringpool.TrimSpace(s)); err == nil {
				return comparand{f: f}, nil
			}
		}

	case Boolean:
		switch v := value.(type) {
		case bool:
			return comparand{b: v}, nil
		case string:
			if v = stringpool.TrimSpace(v); IsBool(v) {
				return comparand{b: ParseBool(v)}, nil
			}
		default:
			if n, ok := asInt64(value); ok && (n == 0 || n == 1) {
				return comparand{b: n == 1}, nil
			}
		}

	case String:
		if value != nil {
			return comparand{s: stringpool.ValueToString(value)}, nil
		}
	}

	return comparand{}, tableerrors.Newf(tableerrors.ErrorTypeCoercion,
		"cannot compare %s column %q with %T value %v", col.Type(), col.Name(), value, value).
		WithDetail("column", col.Name()).
		WithDetail("value", value)
}

// asInt64 converts integer kinds and bools. Unsigned values beyond the int64
// range are reported as not convertible so that asFloat64 can take them.
func asInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), uint64(v) <= math.MaxInt64
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), v <= math.MaxInt64
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func asFloat64(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	}
	if n, ok := asInt64(value); ok {
		return float64(n), true
	}
	return 0, false
}
