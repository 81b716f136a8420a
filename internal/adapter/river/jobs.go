package river

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/riverqueue/river"

	"github.com/neomorfeo/growspace/internal/app"
	"github.com/neomorfeo/growspace/internal/domain"
)

// Target selects what a reconcile job rebuilds.
type Target string

const (
	TargetGrowingUnit Target = "growing_unit"
	TargetLocation    Target = "location"
	TargetAll         Target = "all"
)

// ReconcileArgs asks a worker to rebuild read-model views from the current
// aggregate state. ID is empty for TargetAll.
type ReconcileArgs struct {
	Target Target `json:"target"`
	ID     string `json:"id,omitempty"`
}

// Kind returns the unique job type identifier used by River's job routing.
func (ReconcileArgs) Kind() string { return "projection.reconcile" }

// InsertOpts bounds retries for reconcile jobs.
func (ReconcileArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{MaxAttempts: 5}
}

// Client is the River client type parameterized for SQLite (*sql.Tx).
type Client = river.Client[*sql.Tx]

// Scheduler enqueues reconcile jobs.
type Scheduler struct {
	client *Client
	logger *slog.Logger
}

// NewScheduler creates a scheduler backed by the given River client.
func NewScheduler(client *Client, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{client: client, logger: logger}
}

// Enqueue inserts a reconcile job.
func (s *Scheduler) Enqueue(ctx context.Context, args ReconcileArgs) error {
	if _, err := s.client.Insert(ctx, args, nil); err != nil {
		return fmt.Errorf("enqueuing reconcile job: %w", err)
	}
	return nil
}

// FailureHandler returns a dispatcher hook that schedules a repair for the
// views a failed projection left behind.
func (s *Scheduler) FailureHandler() app.FailureHandler {
	return func(ctx context.Context, evt domain.Event, projector string, _ error) {
		args := RepairFor(evt, projector)
		if err := s.Enqueue(ctx, args); err != nil {
			s.logger.ErrorContext(ctx, "scheduling view repair",
				"projector", projector,
				"event", evt.Type,
				"target", args.Target,
				"error", err,
			)
			return
		}
		s.logger.InfoContext(ctx, "view repair scheduled",
			"projector", projector,
			"event", evt.Type,
			"target", args.Target,
			"id", args.ID,
		)
	}
}

// RepairFor picks the narrowest reconcile that covers a failed projection.
// Location views touched by a growing unit event may belong to a location the
// unit has since left, so those fall back to a full pass.
func RepairFor(evt domain.Event, projector string) ReconcileArgs {
	switch {
	case evt.AggregateType == domain.AggregateLocation && projector == "location_view":
		return ReconcileArgs{Target: TargetLocation, ID: evt.AggregateID}
	case evt.AggregateType == domain.AggregateGrowingUnit && projector == "growing_unit_view":
		return ReconcileArgs{Target: TargetGrowingUnit, ID: evt.AggregateID}
	}
	return ReconcileArgs{Target: TargetAll}
}
