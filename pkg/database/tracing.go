package database

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/utafrali/storefront/pkg/tracing"
)

// slowQueryLog reports statements that ran for at least threshold.
type slowQueryLog struct {
	threshold time.Duration
	logger    *slog.Logger
}

var slowLog atomic.Pointer[slowQueryLog]

// SetSlowQueryLogging configures slow query detection. Statements running for
// at least threshold are logged as warnings and counted in
// db_slow_queries_total. A zero threshold or nil logger disables it.
func SetSlowQueryLogging(threshold time.Duration, logger *slog.Logger) {
	if threshold <= 0 || logger == nil {
		slowLog.Store(nil)
		return
	}
	slowLog.Store(&slowQueryLog{threshold: threshold, logger: logger})
}

func (s *slowQueryLog) observe(ctx context.Context, operation, statement string, elapsed time.Duration, err error) {
	if s == nil || elapsed < s.threshold {
		return
	}
	slowQueries.WithLabelValues(operation).Inc()

	attrs := []any{
		slog.String("operation", operation),
		slog.String("statement", statement),
		slog.Duration("duration", elapsed),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.WarnContext(ctx, "slow query detected", attrs...)
}

// TraceQuery starts a span for a database operation. The returned function
// must be called when the operation completes (typically via defer):
//
//	ctx, end := database.TraceQuery(ctx, "KVGet", getQuery)
//	defer func() { end(err) }()
//
// The statement is recorded with its whitespace collapsed.
func TraceQuery(ctx context.Context, operation, statement string) (context.Context, func(error)) {
	start := time.Now()
	statement = compact(statement)
	tracer := tracing.Tracer("pkg/database")
	ctx, span := tracer.Start(ctx, "db."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.operation", operation),
			attribute.String("db.statement", statement),
		),
	)

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()

		slowLog.Load().observe(ctx, operation, statement, time.Since(start), err)
	}
}

// compact collapses runs of whitespace so multi-line SQL reads as one line.
func compact(statement string) string {
	return strings.Join(strings.Fields(statement), " ")
}
