package app

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/neomorfeo/growspace/internal/domain"
)

// Projector reacts to domain events, typically by rebuilding read models.
type Projector interface {
	// Name identifies the projector in logs and traces.
	Name() string
	// EventTypes lists the events the projector subscribes to.
	EventTypes() []domain.EventType
	Project(ctx context.Context, evt domain.Event) error
}

// Registry maps event types to the projectors subscribed to them, in
// registration order. It is built once at startup and only read afterwards.
type Registry struct {
	handlers map[domain.EventType][]Projector
}

// NewRegistry subscribes each projector to the event types it declares.
func NewRegistry(projectors ...Projector) *Registry {
	r := &Registry{handlers: make(map[domain.EventType][]Projector)}
	for _, p := range projectors {
		for _, t := range p.EventTypes() {
			r.handlers[t] = append(r.handlers[t], p)
		}
	}
	return r
}

// Handlers returns the projectors subscribed to t.
func (r *Registry) Handlers(t domain.EventType) []Projector {
	return r.handlers[t]
}

// FailureHandler is told about every projector failure after it was logged.
type FailureHandler func(ctx context.Context, evt domain.Event, projector string, err error)

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithFailureHandler registers a hook for projector failures, e.g. to schedule a repair.
func WithFailureHandler(h FailureHandler) DispatcherOption {
	return func(d *Dispatcher) { d.onFailure = h }
}

// Dispatcher delivers events to registered projectors in-process.
// Delivery is at-most-once: a failing projector is logged and skipped,
// and never blocks its siblings or the next event.
type Dispatcher struct {
	registry  *Registry
	logger    *slog.Logger
	onFailure FailureHandler
}

// Compile-time check: Dispatcher implements domain.EventPublisher.
var _ domain.EventPublisher = (*Dispatcher)(nil)

// NewDispatcher creates a dispatcher over a fixed registry.
func NewDispatcher(registry *Registry, logger *slog.Logger, opts ...DispatcherOption) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{registry: registry, logger: logger}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Publish runs every subscribed projector for each event, in emission order.
// It always returns nil: projection failures are not the caller's concern.
func (d *Dispatcher) Publish(ctx context.Context, events []domain.Event) error {
	for _, evt := range events {
		for _, p := range d.registry.Handlers(evt.Type) {
			if err := d.run(ctx, p, evt); err != nil {
				d.logger.ErrorContext(ctx, "projection failed",
					"projector", p.Name(),
					"event", string(evt.Type),
					"event_id", evt.ID,
					"aggregate_id", evt.AggregateID,
					"error", err,
				)
				if d.onFailure != nil {
					d.onFailure(ctx, evt, p.Name(), err)
				}
			}
		}
	}
	return nil
}

func (d *Dispatcher) run(ctx context.Context, p Projector, evt domain.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("projector panicked: %v\n%s", r, debug.Stack())
		}
	}()
	return p.Project(ctx, evt)
}
