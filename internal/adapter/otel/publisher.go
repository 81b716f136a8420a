package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/growspace/internal/app"
	"github.com/neomorfeo/growspace/internal/domain"
)

// TracingPublisher wraps a domain.EventPublisher with OpenTelemetry tracing.
type TracingPublisher struct {
	next   domain.EventPublisher
	tracer trace.Tracer
}

// Compile-time check: TracingPublisher implements domain.EventPublisher.
var _ domain.EventPublisher = (*TracingPublisher)(nil)

// NewTracingPublisher creates a tracing decorator around the given publisher.
func NewTracingPublisher(next domain.EventPublisher) *TracingPublisher {
	return &TracingPublisher{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (p *TracingPublisher) Publish(ctx context.Context, events []domain.Event) error {
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = string(e.Type)
	}
	attrs := []attribute.KeyValue{
		attribute.Int("event.count", len(events)),
		attribute.StringSlice("event.types", types),
	}
	if len(events) > 0 {
		attrs = append(attrs,
			attribute.String("aggregate.id", events[0].AggregateID),
			attribute.String("aggregate.type", string(events[0].AggregateType)),
		)
	}

	ctx, span := p.tracer.Start(ctx, "EventPublisher.Publish", trace.WithAttributes(attrs...))
	err := p.next.Publish(ctx, events)
	endSpan(span, err)
	return err
}

// TracingProjector wraps an app.Projector with a span per event and counts
// projection outcomes.
type TracingProjector struct {
	next     app.Projector
	tracer   trace.Tracer
	projects metric.Int64Counter
}

// Compile-time check: TracingProjector implements app.Projector.
var _ app.Projector = (*TracingProjector)(nil)

// NewTracingProjector creates a tracing decorator around the given projector.
func NewTracingProjector(next app.Projector) *TracingProjector {
	counter, err := otel.Meter(tracerName).Int64Counter("growspace.projections",
		metric.WithDescription("Events handled by projectors, by outcome."),
	)
	if err != nil {
		otel.Handle(err)
	}
	return &TracingProjector{
		next:     next,
		tracer:   otel.Tracer(tracerName),
		projects: counter,
	}
}

// WrapProjectors decorates every projector in ps.
func WrapProjectors(ps []app.Projector) []app.Projector {
	out := make([]app.Projector, len(ps))
	for i, p := range ps {
		out[i] = NewTracingProjector(p)
	}
	return out
}

func (p *TracingProjector) Name() string                   { return p.next.Name() }
func (p *TracingProjector) EventTypes() []domain.EventType { return p.next.EventTypes() }

func (p *TracingProjector) Project(ctx context.Context, evt domain.Event) (err error) {
	ctx, span := p.tracer.Start(ctx, "Projector.Project",
		trace.WithAttributes(
			attribute.String("projector.name", p.next.Name()),
			attribute.String("event.type", string(evt.Type)),
			attribute.String("event.id", evt.ID),
			attribute.String("aggregate.id", evt.AggregateID),
		),
	)
	completed := false
	defer func() {
		spanErr := err
		if !completed {
			spanErr = fmt.Errorf("projector %s panicked", p.next.Name())
		}
		endSpan(span, spanErr)
		p.record(ctx, spanErr != nil)
	}()

	err = p.next.Project(ctx, evt)
	completed = true
	return err
}

func (p *TracingProjector) record(ctx context.Context, failed bool) {
	if p.projects == nil {
		return
	}
	outcome := "ok"
	if failed {
		outcome = "error"
	}
	p.projects.Add(ctx, 1, metric.WithAttributes(
		attribute.String("projector", p.next.Name()),
		attribute.String("outcome", outcome),
	))
}
