package table

import (
	"strings"

	"github.com/ajitpratap0/tabula/pkg/tableerrors"
)

// ComparisonOperator selects the predicate applied by Filter.
type ComparisonOperator int

const (
	Equal ComparisonOperator = iota + 1
	NotEqual
	Greater
	GreaterEqual
	Less
	LessEqual
)

var operatorNames = map[ComparisonOperator]string{
	Equal:        "EQUAL",
	NotEqual:     "NOT_EQUAL",
	Greater:      "GREATER",
	GreaterEqual: "GREATER_EQUAL",
	Less:         "LESS",
	LessEqual:    "LESS_EQUAL",
}

var operatorAliases = map[string]ComparisonOperator{
	"EQUAL": Equal, "EQ": Equal, "=": Equal, "==": Equal,
	"NOT_EQUAL": NotEqual, "NE": NotEqual, "!=": NotEqual, "<>": NotEqual,
	"GREATER": Greater, "GT": Greater, ">": Greater,
	"GREATER_EQUAL": GreaterEqual, "GE": GreaterEqual, "GTE": GreaterEqual, ">=": GreaterEqual,
	"LESS": Less, "LT": Less, "<": Less,
	"LESS_EQUAL": LessEqual, "LE": LessEqual, "LTE": LessEqual, "<=": LessEqual,
}

// String returns the canonical operator name, e.g. "GREATER_EQUAL".
func (op ComparisonOperator) String() string {
	if name, ok := operatorNames[op]; ok {
		return name
	}
	return "UNKNOWN"
}

// Valid reports whether op is one of the defined operators.
func (op ComparisonOperator) Valid() bool {
	_, ok := operatorNames[op]
	return ok
}

// ParseOperator accepts canonical names ("GREATER_EQUAL"), short names
// ("ge") and symbols (">="), ignoring case and surrounding space.
func ParseOperator(s string) (ComparisonOperator, error) {
	if op, ok := operatorAliases[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return op, nil
	}
	return 0, tableerrors.Newf(tableerrors.ErrorTypeValidation, "unknown comparison operator %q", s)
}

// holds evaluates the operator against the result of comparing a column
// value with the filter value. Unordered pairs (NaN) only satisfy NotEqual.
func (op ComparisonOperator) holds(c int, ordered bool) bool {
	if !ordered {
		return op == NotEqual
	}
	switch op {
	case Equal:
		return c == 0
	case NotEqual:
		return c != 0
	case Greater:
		return c > 0
	case GreaterEqual:
		return c >= 0
	case Less:
		return c < 0
	case LessEqual:
		return c <= 0
	default:
		return false
	}
}
