package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/ajitpratap0/tabula/pkg/table"
	"github.com/ajitpratap0/tabula/pkg/tableerrors"
)

func TestRecordLoad(t *testing.T) {
	tables := testutil.ToFloat64(TablesLoaded)
	rows := testutil.ToFloat64(RowsLoaded)
	ints := testutil.ToFloat64(ColumnsInferred.WithLabelValues("integer"))
	bools := testutil.ToFloat64(ColumnsInferred.WithLabelValues("boolean"))

	RecordLoad(3, []table.Field{{Name: "a", Type: table.Integer}, {Name: "b", Type: table.Boolean}, {Name: "c", Type: table.Integer}})

	assert.Equal(t, tables+1, testutil.ToFloat64(TablesLoaded))
	assert.Equal(t, rows+3, testutil.ToFloat64(RowsLoaded))
	assert.Equal(t, ints+2, testutil.ToFloat64(ColumnsInferred.WithLabelValues("integer")))
	assert.Equal(t, bools+1, testutil.ToFloat64(ColumnsInferred.WithLabelValues("boolean")))
}

func TestRecordError(t *testing.T) {
	counter := OperationErrors.WithLabelValues(OpFilter, "column_not_found")
	before := testutil.ToFloat64(counter)

	RecordError(OpFilter, tableerrors.ColumnNotFound("x"))
	RecordError(OpFilter, nil)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestTimer(t *testing.T) {
	d := NewTimer("timer_test").Stop()

	assert.GreaterOrEqual(t, int64(d), int64(0))
	assert.GreaterOrEqual(t, testutil.CollectAndCount(OperationDuration, "tabula_operation_duration_seconds"), 1)
}
