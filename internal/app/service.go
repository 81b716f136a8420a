package app

import (
	"context"
	"log/slog"

	"github.com/neomorfeo/growspace/internal/domain"
)

// aggregate is the event-buffer half of an aggregate root.
type aggregate interface {
	UncommittedEvents() []domain.Event
	Commit()
}

// flusher hands an aggregate's buffered events to the publisher once the
// aggregate was persisted, then clears the buffer.
type flusher struct {
	publisher domain.EventPublisher
	logger    *slog.Logger
}

func newFlusher(publisher domain.EventPublisher, logger *slog.Logger) flusher {
	if logger == nil {
		logger = slog.Default()
	}
	return flusher{publisher: publisher, logger: logger}
}

// flush never fails the command: the write already succeeded and the read
// side is repaired by reconciliation.
func (f flusher) flush(ctx context.Context, agg aggregate) {
	events := agg.UncommittedEvents()
	if len(events) == 0 {
		return
	}
	if err := f.publisher.Publish(ctx, events); err != nil {
		f.logger.ErrorContext(ctx, "publishing events",
			"aggregate_id", events[0].AggregateID,
			"events", len(events),
			"error", err,
		)
	}
	agg.Commit()
}
