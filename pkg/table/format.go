package table

import (
	"math"
	"strconv"
	"strings"

	stringpool "github.com/ajitpratap0/tabula/pkg/strings"
)

// String dumps the source name followed by every column name and its value
// list. The layout is meant for diagnostics and is not a stable format.
func (t *Table) String() string {
	size := stringpool.SizeFor(int(t.MemoryUsage()) + len(t.name))
	return stringpool.BuildWith(size, func(b *stringpool.Builder) {
		b.WriteString(t.name)
		_ = b.WriteByte('\n')
		for _, col := range t.columns {
			b.WriteString(col.Name())
			_ = b.WriteByte('\n')
			writeValues(b, col)
			b.WriteString("\n\n")
		}
	})
}

func writeValues(b *stringpool.Builder, col Column) {
	_ = b.WriteByte('[')
	for i := 0; i < col.Len(); i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(FormatValue(col.Value(i)))
	}
	_ = b.WriteByte(']')
}

// FormatValue renders a single cell: strings quoted, floats always showing
// a fractional part or exponent so they stay distinguishable from integers.
func FormatValue(v interface{}) string {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	case float64:
		s := strconv.FormatFloat(x, 'g', -1, 64)
		if !math.IsInf(x, 0) && !math.IsNaN(x) && !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
		return s
	default:
		return stringpool.ValueToString(v)
	}
}
