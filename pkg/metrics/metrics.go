// Package metrics records table loading and query activity as Prometheus
// metrics.
//
// # Basic Usage
//
//	timer := metrics.NewTimer(metrics.OpFilter)
//	out, err := tbl.Filter("magnitude", table.Greater, 6)
//	timer.Stop()
//
//	metrics.RecordLoad(tbl.Len(), tbl.Schema())
//
// All metrics register with the default Prometheus registerer and carry the
// "tabula_" prefix.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ajitpratap0/tabula/pkg/table"
	"github.com/ajitpratap0/tabula/pkg/tableerrors"
)

// Operation label values.
const (
	OpLoad    = "load"
	OpProject = "project"
	OpFilter  = "filter"
	OpSort    = "sort"
	OpExport  = "export"
)

var (
	// TablesLoaded counts files successfully loaded and typed.
	TablesLoaded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tabula_tables_loaded_total",
		Help: "Total number of tables loaded",
	})

	// RowsLoaded counts data rows across all loaded tables.
	RowsLoaded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tabula_rows_loaded_total",
		Help: "Total number of data rows loaded",
	})

	// ColumnsInferred counts loaded columns by their inferred type.
	// Labels: type (boolean/integer/float/string)
	ColumnsInferred = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tabula_columns_inferred_total",
			Help: "Total number of loaded columns by inferred type",
		},
		[]string{"type"},
	)

	// OperationErrors counts failed operations.
	// Labels: operation, error_type (file/format/column_not_found/...)
	OperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tabula_operation_errors_total",
			Help: "Total number of failed operations by error type",
		},
		[]string{"operation", "error_type"},
	)

	// OperationDuration tracks how long operations take in seconds.
	// Labels: operation
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tabula_operation_duration_seconds",
			Help:    "Duration of table operations in seconds",
			Buckets: prometheus.ExponentialBuckets(1e-5, 10, 8), // 10µs .. 100s
		},
		[]string{"operation"},
	)
)

// RecordLoad counts one loaded table with its rows and column types.
func RecordLoad(rows int, schema []table.Field) {
	TablesLoaded.Inc()
	RowsLoaded.Add(float64(rows))
	for _, f := range schema {
		ColumnsInferred.WithLabelValues(f.Type.String()).Inc()
	}
}

// RecordError counts a failed operation under the error's type.
func RecordError(operation string, err error) {
	if err == nil {
		return
	}
	OperationErrors.WithLabelValues(operation, string(tableerrors.TypeOf(err))).Inc()
}

// Timer measures one operation and reports it to OperationDuration.
type Timer struct {
	operation string
	start     time.Time
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer(operation string) *Timer {
	return &Timer{operation: operation, start: time.Now()}
}

// Stop observes the elapsed time and returns it.
func (t *Timer) Stop() time.Duration {
	d := time.Since(t.start)
	OperationDuration.WithLabelValues(t.operation).Observe(d.Seconds())
	return d
}
