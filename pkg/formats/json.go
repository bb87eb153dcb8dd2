package formats

import (
	"bufio"
	"io"
	"math"

	"github.com/ajitpratap0/tabula/pkg/json"
	"github.com/ajitpratap0/tabula/pkg/table"
)

// writeJSON writes {"col": [v, ...], ...} keeping column order.
func writeJSON(w io.Writer, t *table.Table) error {
	bw := bufio.NewWriter(w)
	columns := t.Columns()

	bw.WriteByte('{')
	for i, col := range columns {
		if i > 0 {
			bw.WriteByte(',')
		}
		key, err := json.Marshal(col.Name())
		if err != nil {
			return err
		}
		bw.Write(key)
		bw.WriteByte(':')

		values, err := json.MarshalArray(jsonValues(col))
		if err != nil {
			return err
		}
		bw.Write(values)
	}
	bw.WriteString("}\n")
	return bw.Flush()
}

// writeNDJSON writes one object per row with keys in column order.
func writeNDJSON(w io.Writer, t *table.Table) error {
	bw := bufio.NewWriter(w)
	columns := t.Columns()

	keys := make([][]byte, len(columns))
	for i, col := range columns {
		key, err := json.Marshal(col.Name())
		if err != nil {
			return err
		}
		keys[i] = key
	}

	buf := json.GetBuffer()
	defer json.PutBuffer(buf)

	for r := 0; r < t.Len(); r++ {
		buf.Reset()
		buf.WriteByte('{')
		for i, col := range columns {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.Write(keys[i])
			buf.WriteByte(':')
			data, err := json.Marshal(jsonValue(col.Value(r)))
			if err != nil {
				return err
			}
			buf.Write(data)
		}
		buf.WriteString("}\n")
		if _, err := bw.Write(buf.Bytes()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func jsonValues(col table.Column) []interface{} {
	values := col.Values()
	if col.Type() == table.Float {
		for i, v := range values {
			values[i] = jsonValue(v)
		}
	}
	return values
}

func jsonValue(v interface{}) interface{} {
	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return nil
	}
	return v
}
