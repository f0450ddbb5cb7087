// Package telemetry provides OpenTelemetry tracing spans around the
// scheduler's tag processing and reaction firing, for cross-process
// correlation in a larger deployment. It is an optional collaborator:
// a nil *Tracer is never required for App.Start to run.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/reactor-core/internal/domain"
	"github.com/ahrav/reactor-core/internal/ports"
)

// Tracer wraps an OpenTelemetry tracer scoped to the reactor runtime,
// optionally forwarding latency and violation counts to a metrics
// collector the way the scheduler's own deadline/mutation bookkeeping
// does.
type Tracer struct {
	metrics ports.MetricsCollector
	name    string
}

// NewTracer creates a Tracer that reports spans under name and,
// optionally, forwards summary metrics to collector (may be nil).
func NewTracer(name string, collector ports.MetricsCollector) *Tracer {
	return &Tracer{metrics: collector, name: name}
}

// TagSpan starts a span covering one tag's processing (drain, firing-set
// computation, level-ordered firing, presence clear). Callers must
// invoke the returned end function exactly once, passing the error the
// tag processing returned, if any.
func (t *Tracer) TagSpan(ctx context.Context, tag domain.Tag) (context.Context, func(err error)) {
	tracer := otel.Tracer(t.name)
	spanCtx, span := tracer.Start(ctx, "scheduler.process_tag")
	span.SetAttributes(
		attribute.Int64("tag.time_ns", int64(tag.Time)),
		attribute.Int64("tag.microstep", int64(tag.Microstep)),
	)

	start := time.Now()
	return spanCtx, func(err error) {
		defer span.End()
		elapsed := time.Since(start)

		if t.metrics != nil {
			t.metrics.RecordLatency("process_tag", elapsed, map[string]string{"unit": "tag"})
		}

		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return
		}
		span.SetStatus(codes.Ok, "tag processed")
	}
}

// ReactionSpan starts a span covering a single reaction firing.
func (t *Tracer) ReactionSpan(ctx context.Context, fqName string) (context.Context, func(err error)) {
	tracer := otel.Tracer(t.name)
	spanCtx, span := tracer.Start(ctx, "scheduler.fire_reaction",
		trace.WithAttributes(attribute.String("reaction.fq_name", fqName)))

	start := time.Now()
	return spanCtx, func(err error) {
		defer span.End()
		elapsed := time.Since(start)

		if t.metrics != nil {
			t.metrics.RecordLatency(fqName, elapsed, map[string]string{"unit": "reaction"})
		}

		if err != nil {
			span.AddEvent("reaction.failed", trace.WithAttributes(
				attribute.String("error", err.Error()),
			))
			span.SetStatus(codes.Error, err.Error())
			return
		}
		span.SetStatus(codes.Ok, "reaction fired")
	}
}

// DeadlineViolation records a deadline-violation event on the current
// span and, if a metrics collector was configured, increments its
// violation counter. A deadline violation never aborts the run, so
// this only annotates — it never returns an error.
func (t *Tracer) DeadlineViolation(ctx context.Context, violation *domain.DeadlineViolationError) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent("reaction.deadline_violated", trace.WithAttributes(
		attribute.String("reaction.fq_name", violation.Reaction),
		attribute.Int64("deadline_ns", int64(violation.Deadline)),
		attribute.Int64("elapsed_ns", int64(violation.Elapsed)),
	))
	if t.metrics != nil {
		t.metrics.RecordCounter("deadline_violations_total", 1, map[string]string{"unit": violation.Reaction})
	}
}
