package formats

import (
	"bytes"
	"io"
	"strconv"

	"github.com/linkedin/goavro/v2"

	"github.com/ajitpratap0/tabula/pkg/compression"
	"github.com/ajitpratap0/tabula/pkg/json"
	"github.com/ajitpratap0/tabula/pkg/table"
	"github.com/ajitpratap0/tabula/pkg/tableerrors"
)

const avroBatchSize = 1024

// avroField keeps the column name in tabula_name when it is not a valid
// Avro name.
type avroField struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Column string `json:"tabula_name,omitempty"`
}

type avroSchema struct {
	Type   string      `json:"type"`
	Name   string      `json:"name"`
	Doc    string      `json:"doc,omitempty"`
	Fields []avroField `json:"fields"`
}

func avroType(typ table.ScalarType) string {
	switch typ {
	case table.Integer:
		return "long"
	case table.Float:
		return "double"
	case table.Boolean:
		return "boolean"
	default:
		return "string"
	}
}

// AvroName converts a column name to a valid Avro field name: characters
// outside [A-Za-z0-9_] become '_' and a leading digit gets a '_' prefix.
func AvroName(name string) string {
	out := []byte(name)
	for i, c := range out {
		if !(c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			out[i] = '_'
		}
	}
	if len(out) == 0 || out[0] >= '0' && out[0] <= '9' {
		out = append([]byte{'_'}, out...)
	}
	return string(out)
}

// avroFieldNames maps every column to a unique Avro field name.
func avroFieldNames(t *table.Table) []string {
	names := make([]string, t.Width())
	used := make(map[string]bool, t.Width())
	for i, col := range t.ColumnNames() {
		base := AvroName(col)
		name := base
		for n := 2; used[name]; n++ {
			name = base + "_" + strconv.Itoa(n)
		}
		used[name] = true
		names[i] = name
	}
	return names
}

func avroCodecName(alg compression.Algorithm) (string, bool) {
	switch alg {
	case compression.None:
		return goavro.CompressionNullLabel, true
	case compression.Snappy:
		return goavro.CompressionSnappyLabel, true
	case compression.Gzip:
		return goavro.CompressionDeflateLabel, true
	default:
		return "", false
	}
}

func writeAvro(w io.Writer, t *table.Table, alg compression.Algorithm) error {
	codecName, ok := avroCodecName(alg)
	if !ok {
		return unsupportedCompression(Avro, alg)
	}

	names := avroFieldNames(t)
	schema := avroSchema{Type: "record", Name: "Row", Doc: t.Name()}
	for i, f := range t.Schema() {
		field := avroField{Name: names[i], Type: avroType(f.Type)}
		if names[i] != f.Name {
			field.Column = f.Name
		}
		schema.Fields = append(schema.Fields, field)
	}
	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return err
	}

	codec, err := goavro.NewCodec(string(schemaJSON))
	if err != nil {
		return err
	}
	ocf, err := goavro.NewOCFWriter(goavro.OCFConfig{
		W:               w,
		Codec:           codec,
		CompressionName: codecName,
	})
	if err != nil {
		return err
	}

	columns := t.Columns()
	batch := make([]interface{}, 0, avroBatchSize)
	for r := 0; r < t.Len(); r++ {
		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			row[names[i]] = col.Value(r)
		}
		batch = append(batch, row)
		if len(batch) == avroBatchSize {
			if err := ocf.Append(batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		return ocf.Append(batch)
	}
	return nil
}

func readAvro(r io.Reader, name string) (*table.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	ocf, err := goavro.NewOCFReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var schema avroSchema
	if err := json.Unmarshal([]byte(ocf.Codec().Schema()), &schema); err != nil {
		return nil, err
	}

	builders := make([]avroColumn, len(schema.Fields))
	for i, f := range schema.Fields {
		builders[i] = avroColumn{field: f.Name, name: f.Name, typ: f.Type}
		if f.Column != "" {
			builders[i].name = f.Column
		}
	}

	for ocf.Scan() {
		datum, err := ocf.Read()
		if err != nil {
			return nil, err
		}
		row, ok := datum.(map[string]interface{})
		if !ok {
			return nil, tableerrors.Newf(tableerrors.ErrorTypeFormat, "avro datum is %T, not a record", datum)
		}
		for i := range builders {
			if err := builders[i].append(row[builders[i].field]); err != nil {
				return nil, err
			}
		}
	}
	if err := ocf.Err(); err != nil {
		return nil, err
	}

	cols := make([]table.Column, len(builders))
	for i := range builders {
		col, err := builders[i].column()
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}
	return table.New(name, cols...)
}

type avroColumn struct {
	field   string
	name    string
	typ     string
	ints    []int64
	floats  []float64
	bools   []bool
	strings []string
}

func (c *avroColumn) append(v interface{}) error {
	var ok bool
	switch c.typ {
	case "long":
		var n int64
		n, ok = v.(int64)
		c.ints = append(c.ints, n)
	case "double":
		var f float64
		f, ok = v.(float64)
		c.floats = append(c.floats, f)
	case "boolean":
		var b bool
		b, ok = v.(bool)
		c.bools = append(c.bools, b)
	case "string":
		var s string
		s, ok = v.(string)
		c.strings = append(c.strings, s)
	}
	if !ok {
		return tableerrors.Newf(tableerrors.ErrorTypeFormat, "avro field %q has %T value for type %s", c.name, v, c.typ).
			WithDetail("column", c.name)
	}
	return nil
}

func (c *avroColumn) column() (table.Column, error) {
	switch c.typ {
	case "long":
		return table.NewIntColumn(c.name, c.ints), nil
	case "double":
		return table.NewFloatColumn(c.name, c.floats), nil
	case "boolean":
		return table.NewBoolColumn(c.name, c.bools), nil
	case "string":
		return table.NewStringColumn(c.name, c.strings), nil
	default:
		return nil, tableerrors.Newf(tableerrors.ErrorTypeFormat, "avro field %q has unsupported type %s", c.name, c.typ).
			WithDetail("column", c.name)
	}
}
