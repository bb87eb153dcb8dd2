package formats

import (
	"bytes"
	"context"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/ajitpratap0/tabula/pkg/compression"
	"github.com/ajitpratap0/tabula/pkg/table"
)

func parquetCodec(alg compression.Algorithm) (compress.Compression, bool) {
	switch alg {
	case compression.None:
		return compress.Codecs.Uncompressed, true
	case compression.Snappy:
		return compress.Codecs.Snappy, true
	case compression.Gzip:
		return compress.Codecs.Gzip, true
	case compression.Zstd:
		return compress.Codecs.Zstd, true
	default:
		return compress.Codecs.Uncompressed, false
	}
}

func writeParquet(w io.Writer, t *table.Table, alg compression.Algorithm) error {
	codec, ok := parquetCodec(alg)
	if !ok {
		return unsupportedCompression(Parquet, alg)
	}

	mem := memory.NewGoAllocator()
	props := parquet.NewWriterProperties(
		parquet.WithCompression(codec),
		parquet.WithAllocator(mem),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(
		pqarrow.WithAllocator(mem),
		pqarrow.WithStoreSchema(),
	)

	rec := ToArrowRecord(t, mem)
	defer rec.Release()

	fw, err := pqarrow.NewFileWriter(rec.Schema(), w, props, arrowProps)
	if err != nil {
		return err
	}
	if err := fw.Write(rec); err != nil {
		_ = fw.Close()
		return err
	}
	return fw.Close()
}

func readParquet(r io.Reader, name string) (*table.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	mem := memory.NewGoAllocator()
	tbl, err := pqarrow.ReadTable(context.Background(), bytes.NewReader(data),
		parquet.NewReaderProperties(mem), pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, err
	}
	defer tbl.Release()

	tr := array.NewTableReader(tbl, -1)
	defer tr.Release()

	var records []arrow.Record
	for tr.Next() {
		rec := tr.Record()
		rec.Retain()
		defer rec.Release()
		records = append(records, rec)
	}
	return FromArrowRecords(name, tbl.Schema(), records)
}
