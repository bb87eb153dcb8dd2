package dataset

import (
	"context"
	"path/filepath"
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ajitpratap0/tabula/pkg/loader"
	"github.com/ajitpratap0/tabula/pkg/metrics"
	"github.com/ajitpratap0/tabula/pkg/table"
	"github.com/ajitpratap0/tabula/pkg/tableerrors"
	"github.com/ajitpratap0/tabula/pkg/testutil"
)

const scenario = "a,b\n1,true\n2,false\n3,true\n"

func quietReader(path string, opts ...Option) *Reader {
	return NewReader(path, append([]Option{WithLogger(zap.NewNop())}, opts...)...)
}

func parsed(t *testing.T, content string) *Reader {
	t.Helper()
	r := quietReader(testutil.WriteFile(t, "data.csv", content))
	require.NoError(t, r.Parse(testutil.TestContext(t)))
	return r
}

func values(t *testing.T, tbl *table.Table, name string) []interface{} {
	t.Helper()
	col, ok := tbl.Column(name)
	require.True(t, ok, "column %q missing", name)
	return col.Values()
}

func TestReader_Parse(t *testing.T) {
	r := parsed(t, scenario)
	assert.True(t, r.Parsed())

	tbl, err := r.Table()
	require.NoError(t, err)
	assert.Equal(t, []table.Field{{Name: "a", Type: table.Integer}, {Name: "b", Type: table.Boolean}}, tbl.Schema())
	assert.Equal(t, []interface{}{int64(1), int64(2), int64(3)}, values(t, tbl, "a"))
	assert.Equal(t, []interface{}{true, false, true}, values(t, tbl, "b"))
}

func TestReader_BeforeParse(t *testing.T) {
	r := quietReader("never-read.csv")
	ctx := context.Background()

	_, err := r.Table()
	assert.True(t, tableerrors.IsType(err, tableerrors.ErrorTypeValidation))

	_, err = r.FilterColumns(ctx, "a")
	assert.True(t, tableerrors.IsType(err, tableerrors.ErrorTypeValidation))

	_, err = r.FilterResults(ctx, "a", table.Equal, 1)
	assert.True(t, tableerrors.IsType(err, tableerrors.ErrorTypeValidation))

	_, err = r.SortResults(ctx, "a", false)
	assert.True(t, tableerrors.IsType(err, tableerrors.ErrorTypeValidation))

	assert.Equal(t, "unparsed never-read.csv\n", r.String())
}

func TestReader_ParseErrors(t *testing.T) {
	err := quietReader("").Parse(context.Background())
	assert.True(t, tableerrors.IsType(err, tableerrors.ErrorTypeValidation))

	err = quietReader(filepath.Join(t.TempDir(), "missing.csv")).Parse(context.Background())
	assert.True(t, tableerrors.IsFile(err))

	err = quietReader(testutil.WriteFile(t, "ragged.csv", "a,b\n1\n")).Parse(context.Background())
	assert.True(t, tableerrors.IsFormat(err))
}

func TestReader_FailedParseKeepsTable(t *testing.T) {
	r := parsed(t, scenario)
	before, err := r.Table()
	require.NoError(t, err)

	r.path = filepath.Join(t.TempDir(), "missing.csv")
	require.Error(t, r.Parse(context.Background()))

	after, err := r.Table()
	require.NoError(t, err)
	assert.Same(t, before, after)
}

func TestReader_SetFile(t *testing.T) {
	r := parsed(t, scenario)

	next := testutil.WriteFile(t, "other.csv", "name\nada\n")
	r.SetFile(next)
	assert.Equal(t, next, r.Path())
	assert.False(t, r.Parsed())

	require.NoError(t, r.Parse(context.Background()))
	tbl, err := r.Table()
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, tbl.ColumnNames())
}

func TestReader_Queries(t *testing.T) {
	r := parsed(t, scenario)
	ctx := context.Background()

	projected, err := r.FilterColumns(ctx, "b", "missing")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, projected.ColumnNames())
	assert.Equal(t, 3, projected.Len())

	filtered, err := r.FilterResults(ctx, "a", table.GreaterEqual, 2)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{int64(2), int64(3)}, values(t, filtered, "a"))
	assert.Equal(t, []interface{}{false, true}, values(t, filtered, "b"))

	sorted, err := r.SortResults(ctx, "a", true)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{int64(3), int64(2), int64(1)}, values(t, sorted, "a"))
	assert.Equal(t, []interface{}{true, false, true}, values(t, sorted, "b"))

	// Queries never change the parsed table.
	tbl, err := r.Table()
	require.NoError(t, err)
	assert.Equal(t, []interface{}{int64(1), int64(2), int64(3)}, values(t, tbl, "a"))
}

func TestReader_QueryErrors(t *testing.T) {
	r := parsed(t, scenario)
	ctx := context.Background()

	_, err := r.FilterResults(ctx, "c", table.Equal, 1)
	assert.True(t, tableerrors.IsColumnNotFound(err))

	_, err = r.FilterResults(ctx, "a", table.Equal, "x")
	assert.True(t, tableerrors.IsCoercion(err))

	_, err = r.SortResults(ctx, "c", false)
	assert.True(t, tableerrors.IsColumnNotFound(err))
}

func TestReader_SortTable(t *testing.T) {
	r := parsed(t, "name,score\nada,2\nlin,1\nbob,2\n")
	ctx := context.Background()

	projected, err := r.FilterColumns(ctx, "score", "name")
	require.NoError(t, err)

	sorted, err := r.SortTable(ctx, projected, "score", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"score", "name"}, sorted.ColumnNames())
	assert.Equal(t, []interface{}{"ada", "bob", "lin"}, values(t, sorted, "name"))

	_, err = r.SortTable(ctx, nil, "score", false)
	assert.True(t, tableerrors.IsType(err, tableerrors.ErrorTypeValidation))
}

func TestReader_String(t *testing.T) {
	r := parsed(t, scenario)
	tbl, err := r.Table()
	require.NoError(t, err)
	assert.Equal(t, tbl.String(), r.String())
}

func TestReader_LoaderOptions(t *testing.T) {
	path := testutil.WriteFile(t, "data.txt", "a;b\n1;2\n")
	r := quietReader(path, WithLoaderOptions(loader.Options{Separator: ';'}))
	require.NoError(t, r.Parse(context.Background()))

	tbl, err := r.Table()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tbl.ColumnNames())
}

func TestReader_Logging(t *testing.T) {
	log, logs := testutil.ObservedLogger(zapcore.DebugLevel)
	path := testutil.WriteFile(t, "data.csv", scenario)
	r := NewReader(path, WithLogger(log))
	ctx := context.Background()

	require.NoError(t, r.Parse(ctx))
	_, err := r.SortResults(ctx, "missing", false)
	require.Error(t, err)

	inferred := logs.FilterMessage("types inferred").All()
	require.Len(t, inferred, 1)
	ctxMap := inferred[0].ContextMap()
	assert.Equal(t, path, ctxMap["source"])
	assert.Equal(t, metrics.OpLoad, ctxMap["operation"])

	failed := logs.FilterMessage("operation failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.WarnLevel, failed[0].Level)
	assert.Equal(t, metrics.OpSort, failed[0].ContextMap()["operation"])
	assert.Equal(t, "column_not_found", failed[0].ContextMap()["error_type"])
}

func TestReader_LoggingWithoutMetrics(t *testing.T) {
	log, logs := testutil.ObservedLogger(zapcore.DebugLevel)
	path := testutil.WriteFile(t, "data.csv", scenario)
	r := NewReader(path, WithLogger(log), WithMetrics(false))
	ctx := context.Background()

	require.NoError(t, r.Parse(ctx))
	_, err := r.SortResults(ctx, "a", true)
	require.NoError(t, err)

	done := logs.FilterMessage("operation complete").All()
	require.Len(t, done, 2)
	assert.Equal(t, metrics.OpLoad, done[0].ContextMap()["operation"])
	assert.Equal(t, metrics.OpSort, done[1].ContextMap()["operation"])
	assert.Contains(t, done[1].ContextMap(), "duration")
}

func TestReader_Metrics(t *testing.T) {
	r := parsed(t, scenario)
	ctx := context.Background()

	errs := metrics.OperationErrors.WithLabelValues(metrics.OpFilter, string(tableerrors.ErrorTypeColumnNotFound))
	before := promtest.ToFloat64(errs)
	_, err := r.FilterResults(ctx, "missing", table.Equal, 1)
	require.Error(t, err)
	assert.Equal(t, before+1, promtest.ToFloat64(errs))

	quiet := quietReader(r.Path(), WithMetrics(false))
	require.NoError(t, quiet.Parse(ctx))
	before = promtest.ToFloat64(errs)
	_, err = quiet.FilterResults(ctx, "missing", table.Equal, 1)
	require.Error(t, err)
	assert.Equal(t, before, promtest.ToFloat64(errs))
}

func TestReader_Tracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	r := parsed(t, scenario)
	_, err := r.FilterResults(context.Background(), "a", table.Less, 3)
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "tabula.load", spans[0].Name())
	assert.Equal(t, "tabula.filter", spans[1].Name())

	attrs := map[string]string{}
	for _, kv := range spans[1].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "LESS", attrs["tabula.operator"])
	assert.Equal(t, "2", attrs["tabula.rows"])
}
