// Package dataset provides Reader, a stateful handle on one delimited file
// that loads it into a typed table and answers projection, filter and sort
// queries against it.
//
// Every Reader operation is logged, timed in Prometheus and wrapped in an
// OpenTelemetry span. The underlying table is immutable, so query results
// never affect later queries. A Reader itself is not safe for concurrent
// use; tables it returns are.
package dataset

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/tabula/pkg/loader"
	"github.com/ajitpratap0/tabula/pkg/logger"
	"github.com/ajitpratap0/tabula/pkg/metrics"
	"github.com/ajitpratap0/tabula/pkg/observability"
	"github.com/ajitpratap0/tabula/pkg/table"
	"github.com/ajitpratap0/tabula/pkg/tableerrors"
)

// Option configures a Reader.
type Option func(*Reader)

// WithLoaderOptions sets the separator, CSV suffixes and decompression
// policy. Its Logger field is ignored; use WithLogger.
func WithLoaderOptions(opts loader.Options) Option {
	return func(r *Reader) {
		r.loadOpts = opts
	}
}

// WithLogger sets the base logger. The default is the process logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Reader) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics toggles Prometheus recording. It is on by default.
func WithMetrics(enabled bool) Option {
	return func(r *Reader) {
		r.metrics = enabled
	}
}

// Reader loads a file on Parse and queries the resulting table.
type Reader struct {
	path     string
	loadOpts loader.Options
	logger   *zap.Logger
	metrics  bool
	table    *table.Table
}

// NewReader creates a Reader for path. Nothing is read until Parse.
func NewReader(path string, opts ...Option) *Reader {
	r := &Reader{
		path:     path,
		loadOpts: loader.DefaultOptions(),
		logger:   logger.Get(),
		metrics:  true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Path returns the file the Reader points at.
func (r *Reader) Path() string { return r.path }

// SetFile points the Reader at another file and discards the parsed table.
func (r *Reader) SetFile(path string) {
	r.path = path
	r.table = nil
}

// Parsed reports whether Parse has succeeded since the last SetFile.
func (r *Reader) Parsed() bool { return r.table != nil }

// Parse loads the file, infers a type for every column and coerces the
// values. On failure the previously parsed table, if any, is kept.
func (r *Reader) Parse(ctx context.Context) error {
	if r.path == "" {
		return tableerrors.New(tableerrors.ErrorTypeValidation, "no file set")
	}

	var parsed *table.Table
	err := r.run(ctx, metrics.OpLoad, func(ctx context.Context, span *observability.Span, log *zap.Logger) error {
		opts := r.loadOpts
		opts.Logger = log

		raw, err := loader.Load(r.path, opts)
		if err != nil {
			return err
		}

		decisions := table.Infer(raw)
		typed, err := table.Coerce(raw, decisions)
		if err != nil {
			return err
		}

		types := make([]string, len(decisions))
		for i, d := range decisions {
			types[i] = d.Column + ":" + d.Type.String()
		}
		log.Debug("types inferred", zap.Strings("columns", types))

		span.SetAttribute("tabula.rows", typed.Len())
		span.SetAttribute("tabula.columns", typed.Width())
		parsed = typed
		return nil
	})
	if err != nil {
		return err
	}

	r.table = parsed
	if r.metrics {
		metrics.RecordLoad(parsed.Len(), parsed.Schema())
	}
	return nil
}

// Table returns the parsed table.
func (r *Reader) Table() (*table.Table, error) {
	if r.table == nil {
		return nil, r.notParsed()
	}
	return r.table, nil
}

// FilterColumns returns the parsed table restricted to the named columns
// in the given order. Unknown names are skipped.
func (r *Reader) FilterColumns(ctx context.Context, names ...string) (*table.Table, error) {
	if r.table == nil {
		return nil, r.notParsed()
	}

	var out *table.Table
	err := r.run(ctx, metrics.OpProject, func(_ context.Context, span *observability.Span, _ *zap.Logger) error {
		span.SetAttribute("tabula.requested", names)
		out = r.table.Project(names...)
		span.SetAttribute("tabula.columns", out.Width())
		return nil
	})
	return out, err
}

// FilterResults returns the rows of the parsed table where column op value
// holds.
func (r *Reader) FilterResults(ctx context.Context, column string, op table.ComparisonOperator, value interface{}) (*table.Table, error) {
	if r.table == nil {
		return nil, r.notParsed()
	}

	var out *table.Table
	err := r.run(ctx, metrics.OpFilter, func(_ context.Context, span *observability.Span, _ *zap.Logger) error {
		span.SetAttribute("tabula.column", column)
		span.SetAttribute("tabula.operator", op.String())

		var err error
		out, err = r.table.Filter(column, op, value)
		if err != nil {
			return err
		}
		span.SetAttribute("tabula.rows", out.Len())
		return nil
	})
	return out, err
}

// SortResults returns the parsed table stably sorted by column.
func (r *Reader) SortResults(ctx context.Context, column string, descending bool) (*table.Table, error) {
	if r.table == nil {
		return nil, r.notParsed()
	}
	return r.sort(ctx, r.table, column, descending)
}

// SortTable stably sorts any table, typically one returned by
// FilterColumns or FilterResults, with the same instrumentation as
// SortResults.
func (r *Reader) SortTable(ctx context.Context, t *table.Table, column string, descending bool) (*table.Table, error) {
	if t == nil {
		return nil, tableerrors.New(tableerrors.ErrorTypeValidation, "nil table")
	}
	return r.sort(ctx, t, column, descending)
}

func (r *Reader) sort(ctx context.Context, t *table.Table, column string, descending bool) (*table.Table, error) {
	var out *table.Table
	err := r.run(ctx, metrics.OpSort, func(_ context.Context, span *observability.Span, _ *zap.Logger) error {
		span.SetAttribute("tabula.column", column)
		span.SetAttribute("tabula.descending", descending)

		var err error
		out, err = t.Sort(column, descending)
		return err
	})
	return out, err
}

// String renders the parsed table, or a placeholder before Parse.
func (r *Reader) String() string {
	if r.table == nil {
		return "unparsed " + r.path + "\n"
	}
	return r.table.String()
}

// run instruments one operation: a span, a duration sample, a debug line on
// success and a warning plus an error count on failure.
func (r *Reader) run(ctx context.Context, op string, fn func(context.Context, *observability.Span, *zap.Logger) error) error {
	ctx = logger.ContextWith(ctx, r.path, op)
	log := logger.FromContext(ctx, r.logger)

	start := time.Now()
	var timer *metrics.Timer
	if r.metrics {
		timer = metrics.NewTimer(op)
	}

	err := observability.Trace(ctx, op, func(ctx context.Context, span *observability.Span) error {
		span.SetAttribute("tabula.source", r.path)
		return fn(ctx, span, log)
	})

	d := time.Since(start)
	if timer != nil {
		d = timer.Stop()
	}
	if err == nil {
		log.Debug("operation complete", zap.Duration("duration", d))
	}
	if err != nil {
		log.Warn("operation failed",
			zap.String("error_type", string(tableerrors.TypeOf(err))),
			zap.Error(err))
		if r.metrics {
			metrics.RecordError(op, err)
		}
	}
	return err
}

func (r *Reader) notParsed() error {
	return tableerrors.New(tableerrors.ErrorTypeValidation, "dataset has not been parsed").
		WithDetail("path", r.path)
}
