package table

import (
	"cmp"
	"math"
)

// ScalarType is the uniform type of every value in a column.
type ScalarType int

const (
	String ScalarType = iota
	Integer
	Float
	Boolean
)

// String returns the lowercase name of the type.
func (t ScalarType) String() string {
	switch t {
	case String:
		return "string"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Boolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// Column is a named, immutable sequence of values of one ScalarType.
//
// The unexported methods keep the set of implementations closed: filter and
// sort rely on every column knowing how to gather rows and order its values.
type Column interface {
	Name() string
	Type() ScalarType
	Len() int
	// Value returns the value at row i as bool, int64, float64 or string.
	Value(i int) interface{}
	// Values returns a boxed copy of every value.
	Values() []interface{}
	MemoryUsage() int64

	compare(i, j int) int
	compareTo(i int, v comparand) (int, bool)
	gather(indices []int) Column
}

// StringColumn stores textual values.
type StringColumn struct {
	name   string
	values []string
}

// NewStringColumn creates a string column holding a copy of values.
func NewStringColumn(name string, values []string) *StringColumn {
	return &StringColumn{name: name, values: append([]string(nil), values...)}
}

func (c *StringColumn) Name() string            { return c.name }
func (c *StringColumn) Type() ScalarType        { return String }
func (c *StringColumn) Len() int                { return len(c.values) }
func (c *StringColumn) Value(i int) interface{} { return c.values[i] }

// Strings returns a copy of the column values.
func (c *StringColumn) Strings() []string { return append([]string(nil), c.values...) }

func (c *StringColumn) Values() []interface{} {
	out := make([]interface{}, len(c.values))
	for i, v := range c.values {
		out[i] = v
	}
	return out
}

func (c *StringColumn) MemoryUsage() int64 {
	var total int64
	for _, v := range c.values {
		total += int64(len(v))
		total += 16 // string header overhead
	}
	return total
}

func (c *StringColumn) compare(i, j int) int { return cmp.Compare(c.values[i], c.values[j]) }

func (c *StringColumn) compareTo(i int, v comparand) (int, bool) {
	return cmp.Compare(c.values[i], v.s), true
}

func (c *StringColumn) gather(indices []int) Column {
	out := make([]string, len(indices))
	for k, i := range indices {
		out[k] = c.values[i]
	}
	return &StringColumn{name: c.name, values: out}
}

// IntColumn stores 64-bit signed integers.
type IntColumn struct {
	name     string
	values   []int64
	min, max int64
}

// NewIntColumn creates an integer column holding a copy of values.
func NewIntColumn(name string, values []int64) *IntColumn {
	return newIntColumn(name, append([]int64(nil), values...))
}

// newIntColumn takes ownership of values.
func newIntColumn(name string, values []int64) *IntColumn {
	c := &IntColumn{name: name, values: values}
	for i, v := range values {
		if i == 0 || v < c.min {
			c.min = v
		}
		if i == 0 || v > c.max {
			c.max = v
		}
	}
	return c
}

func (c *IntColumn) Name() string            { return c.name }
func (c *IntColumn) Type() ScalarType        { return Integer }
func (c *IntColumn) Len() int                { return len(c.values) }
func (c *IntColumn) Value(i int) interface{} { return c.values[i] }

// Ints returns a copy of the column values.
func (c *IntColumn) Ints() []int64 { return append([]int64(nil), c.values...) }

// Bounds returns the smallest and largest value. Both are zero for an empty column.
func (c *IntColumn) Bounds() (min, max int64) { return c.min, c.max }

func (c *IntColumn) Values() []interface{} {
	out := make([]interface{}, len(c.values))
	for i, v := range c.values {
		out[i] = v
	}
	return out
}

func (c *IntColumn) MemoryUsage() int64 { return int64(len(c.values) * 8) }

func (c *IntColumn) compare(i, j int) int { return cmp.Compare(c.values[i], c.values[j]) }

func (c *IntColumn) compareTo(i int, v comparand) (int, bool) {
	if v.isFloat {
		return compareIntFloat(c.values[i], v.f)
	}
	return cmp.Compare(c.values[i], v.i), true
}

func (c *IntColumn) gather(indices []int) Column {
	out := make([]int64, len(indices))
	for k, i := range indices {
		out[k] = c.values[i]
	}
	return newIntColumn(c.name, out)
}

// FloatColumn stores 64-bit floating point values.
type FloatColumn struct {
	name   string
	values []float64
}

// NewFloatColumn creates a float column holding a copy of values.
func NewFloatColumn(name string, values []float64) *FloatColumn {
	return &FloatColumn{name: name, values: append([]float64(nil), values...)}
}

func (c *FloatColumn) Name() string            { return c.name }
func (c *FloatColumn) Type() ScalarType        { return Float }
func (c *FloatColumn) Len() int                { return len(c.values) }
func (c *FloatColumn) Value(i int) interface{} { return c.values[i] }

// Floats returns a copy of the column values.
func (c *FloatColumn) Floats() []float64 { return append([]float64(nil), c.values...) }

func (c *FloatColumn) Values() []interface{} {
	out := make([]interface{}, len(c.values))
	for i, v := range c.values {
		out[i] = v
	}
	return out
}

func (c *FloatColumn) MemoryUsage() int64 { return int64(len(c.values) * 8) }

// compare orders NaN before every other value, matching cmp.Compare.
func (c *FloatColumn) compare(i, j int) int { return cmp.Compare(c.values[i], c.values[j]) }

func (c *FloatColumn) compareTo(i int, v comparand) (int, bool) {
	return compareFloats(c.values[i], v.f)
}

func (c *FloatColumn) gather(indices []int) Column {
	out := make([]float64, len(indices))
	for k, i := range indices {
		out[k] = c.values[i]
	}
	return &FloatColumn{name: c.name, values: out}
}

// BoolColumn stores booleans bit-packed, 64 per word.
type BoolColumn struct {
	name  string
	words []uint64
	count int
}

// NewBoolColumn creates a boolean column from values.
func NewBoolColumn(name string, values []bool) *BoolColumn {
	c := &BoolColumn{name: name, words: make([]uint64, (len(values)+63)/64), count: len(values)}
	for i, v := range values {
		if v {
			c.words[i/64] |= 1 << (i % 64)
		}
	}
	return c
}

func (c *BoolColumn) Name() string     { return c.name }
func (c *BoolColumn) Type() ScalarType { return Boolean }
func (c *BoolColumn) Len() int         { return c.count }

// Bool returns the value at row i.
func (c *BoolColumn) Bool(i int) bool {
	if i < 0 || i >= c.count {
		panic("table: bool column index out of range")
	}
	return c.words[i/64]&(1<<(i%64)) != 0
}

func (c *BoolColumn) Value(i int) interface{} { return c.Bool(i) }

// Bools returns the column values unpacked.
func (c *BoolColumn) Bools() []bool {
	out := make([]bool, c.count)
	for i := range out {
		out[i] = c.Bool(i)
	}
	return out
}

func (c *BoolColumn) Values() []interface{} {
	out := make([]interface{}, c.count)
	for i := range out {
		out[i] = c.Bool(i)
	}
	return out
}

func (c *BoolColumn) MemoryUsage() int64 { return int64(len(c.words) * 8) }

func (c *BoolColumn) compare(i, j int) int { return compareBools(c.Bool(i), c.Bool(j)) }

func (c *BoolColumn) compareTo(i int, v comparand) (int, bool) {
	return compareBools(c.Bool(i), v.b), true
}

func (c *BoolColumn) gather(indices []int) Column {
	out := make([]bool, len(indices))
	for k, i := range indices {
		out[k] = c.Bool(i)
	}
	return NewBoolColumn(c.name, out)
}

func compareBools(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// compareFloats reports ok=false when either side is NaN: such pairs are
// unordered and only NOT_EQUAL holds for them.
// compareIntFloat compares exactly, without rounding a through float64.
func compareIntFloat(a int64, b float64) (int, bool) {
	switch {
	case math.IsNaN(b):
		return 0, false
	case b >= 1<<63:
		return -1, true
	case b < -1<<63:
		return 1, true
	}
	whole := math.Trunc(b)
	if c := cmp.Compare(a, int64(whole)); c != 0 {
		return c, true
	}
	return cmp.Compare(whole, b), true
}

func compareFloats(a, b float64) (int, bool) {
	if math.IsNaN(a) || math.IsNaN(b) {
		return 0, false
	}
	return cmp.Compare(a, b), true
}
