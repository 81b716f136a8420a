package river

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/riverqueue/river"
)

// Reconciler rebuilds read-model views from aggregate state.
type Reconciler interface {
	ReconcileGrowingUnit(ctx context.Context, id string) error
	ReconcileLocation(ctx context.Context, id string) error
	ReconcileAll(ctx context.Context) error
}

// ReconcileWorker processes reconcile jobs from the River queue.
type ReconcileWorker struct {
	river.WorkerDefaults[ReconcileArgs]
	reconciler Reconciler
	logger     *slog.Logger
}

// NewReconcileWorker creates a worker that delegates to reconciler.
func NewReconcileWorker(reconciler Reconciler, logger *slog.Logger) *ReconcileWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReconcileWorker{reconciler: reconciler, logger: logger}
}

// Timeout caps a single reconcile run.
func (w *ReconcileWorker) Timeout(*river.Job[ReconcileArgs]) time.Duration {
	return 2 * time.Minute
}

// Work processes a single reconcile job.
func (w *ReconcileWorker) Work(ctx context.Context, job *river.Job[ReconcileArgs]) error {
	w.logger.InfoContext(ctx, "reconciling views",
		"target", job.Args.Target,
		"id", job.Args.ID,
		"job_id", job.ID,
		"attempt", job.Attempt,
	)

	var err error
	switch job.Args.Target {
	case TargetGrowingUnit:
		err = w.reconciler.ReconcileGrowingUnit(ctx, job.Args.ID)
	case TargetLocation:
		err = w.reconciler.ReconcileLocation(ctx, job.Args.ID)
	case TargetAll:
		err = w.reconciler.ReconcileAll(ctx)
	default:
		return river.JobCancel(fmt.Errorf("unknown reconcile target %q", job.Args.Target))
	}
	if err != nil {
		return fmt.Errorf("reconciling %s %s: %w", job.Args.Target, job.Args.ID, err)
	}
	return nil
}
