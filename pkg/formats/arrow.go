package formats

import (
	"bytes"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/tabula/pkg/compression"
	"github.com/ajitpratap0/tabula/pkg/table"
	"github.com/ajitpratap0/tabula/pkg/tableerrors"
)

// ArrowType returns the Arrow type a column of typ is stored as.
func ArrowType(typ table.ScalarType) arrow.DataType {
	switch typ {
	case table.Integer:
		return arrow.PrimitiveTypes.Int64
	case table.Float:
		return arrow.PrimitiveTypes.Float64
	case table.Boolean:
		return arrow.FixedWidthTypes.Boolean
	default:
		return arrow.BinaryTypes.String
	}
}

// ToArrowSchema converts the table schema. Columns are never nullable.
func ToArrowSchema(t *table.Table) *arrow.Schema {
	schema := t.Schema()
	fields := make([]arrow.Field, len(schema))
	for i, f := range schema {
		fields[i] = arrow.Field{Name: f.Name, Type: ArrowType(f.Type)}
	}
	md := arrow.NewMetadata([]string{"tabula.source"}, []string{t.Name()})
	return arrow.NewSchema(fields, &md)
}

// ToArrowRecord copies t into a single Arrow record. The caller must
// Release the record.
func ToArrowRecord(t *table.Table, mem memory.Allocator) arrow.Record {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	b := array.NewRecordBuilder(mem, ToArrowSchema(t))
	defer b.Release()

	for i, col := range t.Columns() {
		switch c := col.(type) {
		case *table.IntColumn:
			b.Field(i).(*array.Int64Builder).AppendValues(c.Ints(), nil)
		case *table.FloatColumn:
			b.Field(i).(*array.Float64Builder).AppendValues(c.Floats(), nil)
		case *table.BoolColumn:
			b.Field(i).(*array.BooleanBuilder).AppendValues(c.Bools(), nil)
		case *table.StringColumn:
			b.Field(i).(*array.StringBuilder).AppendValues(c.Strings(), nil)
		}
	}
	return b.NewRecord()
}

// FromArrowRecords builds a table from records sharing one schema. Arrow
// types other than int64, float64, bool and string are rejected, as are
// null values.
func FromArrowRecords(name string, schema *arrow.Schema, records []arrow.Record) (*table.Table, error) {
	fields := schema.Fields()
	cols := make([]table.Column, len(fields))

	for i, f := range fields {
		switch f.Type.ID() {
		case arrow.INT64:
			var values []int64
			for _, rec := range records {
				arr := rec.Column(i).(*array.Int64)
				if err := rejectNulls(f.Name, arr); err != nil {
					return nil, err
				}
				values = append(values, arr.Int64Values()...)
			}
			cols[i] = table.NewIntColumn(f.Name, values)

		case arrow.FLOAT64:
			var values []float64
			for _, rec := range records {
				arr := rec.Column(i).(*array.Float64)
				if err := rejectNulls(f.Name, arr); err != nil {
					return nil, err
				}
				values = append(values, arr.Float64Values()...)
			}
			cols[i] = table.NewFloatColumn(f.Name, values)

		case arrow.BOOL:
			var values []bool
			for _, rec := range records {
				arr := rec.Column(i).(*array.Boolean)
				if err := rejectNulls(f.Name, arr); err != nil {
					return nil, err
				}
				for j := 0; j < arr.Len(); j++ {
					values = append(values, arr.Value(j))
				}
			}
			cols[i] = table.NewBoolColumn(f.Name, values)

		case arrow.STRING:
			var values []string
			for _, rec := range records {
				arr := rec.Column(i).(*array.String)
				if err := rejectNulls(f.Name, arr); err != nil {
					return nil, err
				}
				for j := 0; j < arr.Len(); j++ {
					values = append(values, arr.Value(j))
				}
			}
			cols[i] = table.NewStringColumn(f.Name, values)

		default:
			return nil, tableerrors.Newf(tableerrors.ErrorTypeFormat, "column %q has unsupported arrow type %s", f.Name, f.Type).
				WithDetail("column", f.Name)
		}
	}
	return table.New(name, cols...)
}

func rejectNulls(name string, arr arrow.Array) error {
	if arr.NullN() > 0 {
		return tableerrors.Newf(tableerrors.ErrorTypeFormat, "column %q contains %d nulls", name, arr.NullN()).
			WithDetail("column", name)
	}
	return nil
}

func writeArrow(w io.Writer, t *table.Table, alg compression.Algorithm) error {
	mem := memory.NewGoAllocator()
	opts := []ipc.Option{ipc.WithSchema(ToArrowSchema(t)), ipc.WithAllocator(mem)}
	switch alg {
	case compression.None:
	case compression.Zstd:
		opts = append(opts, ipc.WithZstd())
	case compression.LZ4:
		opts = append(opts, ipc.WithLZ4())
	default:
		return unsupportedCompression(Arrow, alg)
	}

	fw, err := ipc.NewFileWriter(w, opts...)
	if err != nil {
		return err
	}

	rec := ToArrowRecord(t, mem)
	defer rec.Release()

	if err := fw.Write(rec); err != nil {
		_ = fw.Close()
		return err
	}
	return fw.Close()
}

func readArrow(r io.Reader, name string) (*table.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	fr, err := ipc.NewFileReader(bytes.NewReader(data), ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, err
	}
	defer fr.Close()

	records := make([]arrow.Record, 0, fr.NumRecords())
	for i := 0; i < fr.NumRecords(); i++ {
		rec, err := fr.RecordAt(i)
		if err != nil {
			return nil, err
		}
		defer rec.Release()
		records = append(records, rec)
	}
	return FromArrowRecords(name, fr.Schema(), records)
}
