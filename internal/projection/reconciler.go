package projection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/neomorfeo/growspace/internal/domain"
)

// Aggregates is the read-only view of the write side that projections need.
type Aggregates interface {
	GrowingUnit(ctx context.Context, id string) (*domain.GrowingUnit, error)
	Location(ctx context.Context, id string) (*domain.Location, error)
	GrowingUnitsInLocation(ctx context.Context, locationID string) ([]*domain.GrowingUnit, error)
	GrowingUnitIDs(ctx context.Context) ([]string, error)
	LocationIDs(ctx context.Context) ([]string, error)
}

// maxConcurrentWrites bounds the view writes issued by one reconcile.
const maxConcurrentWrites = 8

// Reconciler recomputes views from current aggregate state. It is the single
// code path behind projectors and the periodic repair job, and is idempotent.
type Reconciler struct {
	aggregates Aggregates
	units      domain.GrowingUnitViewRepository
	plants     domain.PlantViewRepository
	locations  domain.LocationViewRepository
	logger     *slog.Logger
}

// NewReconciler creates a reconciler writing to the given view repositories.
func NewReconciler(
	aggregates Aggregates,
	units domain.GrowingUnitViewRepository,
	plants domain.PlantViewRepository,
	locations domain.LocationViewRepository,
	logger *slog.Logger,
) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		aggregates: aggregates,
		units:      units,
		plants:     plants,
		locations:  locations,
		logger:     logger,
	}
}

// ReconcileGrowingUnit rewrites the growing unit view and the views of all
// its plants, and deletes plant views that no longer belong to it. If the
// unit is gone, its views are deleted.
func (r *Reconciler) ReconcileGrowingUnit(ctx context.Context, id string) error {
	unit, err := r.aggregates.GrowingUnit(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return r.dropGrowingUnit(ctx, id)
	}
	if err != nil {
		return fmt.Errorf("loading growing unit: %w", err)
	}

	loc, err := r.aggregates.Location(ctx, unit.LocationID())
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("loading location: %w", err)
	}

	stale, err := r.plantViewIDs(ctx, id)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentWrites)

	view := BuildGrowingUnitView(unit, loc)
	g.Go(func() error {
		if err := r.units.Save(gctx, view); err != nil {
			return fmt.Errorf("saving growing unit view: %w", err)
		}
		return nil
	})
	for _, p := range unit.Plants() {
		delete(stale, p.ID())
		pv := BuildPlantView(unit, p)
		g.Go(func() error {
			if err := r.plants.Save(gctx, pv); err != nil {
				return fmt.Errorf("saving plant view: %w", err)
			}
			return nil
		})
	}
	for plantID := range stale {
		g.Go(func() error { return r.deletePlantView(gctx, plantID) })
	}
	return g.Wait()
}

// ReconcileGrowingUnitsInLocation reconciles every live growing unit of a location.
func (r *Reconciler) ReconcileGrowingUnitsInLocation(ctx context.Context, locationID string) error {
	units, err := r.aggregates.GrowingUnitsInLocation(ctx, locationID)
	if err != nil {
		return fmt.Errorf("listing growing units of location: %w", err)
	}
	for _, u := range units {
		if err := r.ReconcileGrowingUnit(ctx, u.ID()); err != nil {
			return err
		}
	}
	return nil
}

// ReconcileLocation rewrites the location view, or deletes it if the location is gone.
func (r *Reconciler) ReconcileLocation(ctx context.Context, id string) error {
	loc, err := r.aggregates.Location(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return ignoreNotFound(r.locations.Delete(ctx, id))
	}
	if err != nil {
		return fmt.Errorf("loading location: %w", err)
	}

	units, err := r.aggregates.GrowingUnitsInLocation(ctx, id)
	if err != nil {
		return fmt.Errorf("listing growing units of location: %w", err)
	}
	if err := r.locations.Save(ctx, BuildLocationView(loc, units)); err != nil {
		return fmt.Errorf("saving location view: %w", err)
	}
	return nil
}

// ReconcileAll rebuilds every view from the write side and removes views
// whose aggregate no longer exists. Individual failures are logged and the
// sweep continues; the first error is returned at the end.
func (r *Reconciler) ReconcileAll(ctx context.Context) error {
	var firstErr error
	fail := func(msg string, err error, args ...any) {
		r.logger.ErrorContext(ctx, msg, append(args, "error", err)...)
		if firstErr == nil {
			firstErr = err
		}
	}

	locationIDs, err := r.aggregates.LocationIDs(ctx)
	if err != nil {
		return fmt.Errorf("listing locations: %w", err)
	}
	unitIDs, err := r.aggregates.GrowingUnitIDs(ctx)
	if err != nil {
		return fmt.Errorf("listing growing units: %w", err)
	}

	for _, id := range locationIDs {
		if err := r.ReconcileLocation(ctx, id); err != nil {
			fail("reconciling location", err, "location_id", id)
		}
	}
	for _, id := range unitIDs {
		if err := r.ReconcileGrowingUnit(ctx, id); err != nil {
			fail("reconciling growing unit", err, "growing_unit_id", id)
		}
	}

	live := make(map[string]bool, len(unitIDs))
	for _, id := range unitIDs {
		live[id] = true
	}
	orphans, err := viewIDs(ctx, r.units, domain.Criteria{})
	if err != nil {
		fail("listing growing unit views", err)
	}
	for id := range orphans {
		if !live[id] {
			if err := r.dropGrowingUnit(ctx, id); err != nil {
				fail("dropping orphaned growing unit view", err, "growing_unit_id", id)
			}
		}
	}

	// Plant views whose unit vanished without a unit view left behind.
	plantViews, err := allViews(ctx, r.plants, domain.Criteria{})
	if err != nil {
		fail("listing plant views", err)
	}
	for _, pv := range plantViews {
		if !live[pv.GrowingUnitID] {
			if err := r.deletePlantView(ctx, pv.ID); err != nil {
				fail("dropping orphaned plant view", err, "plant_id", pv.ID)
			}
		}
	}

	liveLocations := make(map[string]bool, len(locationIDs))
	for _, id := range locationIDs {
		liveLocations[id] = true
	}
	locationViews, err := viewIDs(ctx, r.locations, domain.Criteria{})
	if err != nil {
		fail("listing location views", err)
	}
	for id := range locationViews {
		if !liveLocations[id] {
			if err := ignoreNotFound(r.locations.Delete(ctx, id)); err != nil {
				fail("dropping orphaned location view", err, "location_id", id)
			}
		}
	}
	return firstErr
}

func (r *Reconciler) dropGrowingUnit(ctx context.Context, id string) error {
	plantIDs, err := r.plantViewIDs(ctx, id)
	if err != nil {
		return err
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentWrites)
	g.Go(func() error { return ignoreNotFound(r.units.Delete(gctx, id)) })
	for plantID := range plantIDs {
		g.Go(func() error { return r.deletePlantView(gctx, plantID) })
	}
	return g.Wait()
}

func (r *Reconciler) deletePlantView(ctx context.Context, id string) error {
	if err := ignoreNotFound(r.plants.Delete(ctx, id)); err != nil {
		return fmt.Errorf("deleting plant view: %w", err)
	}
	return nil
}

// plantViewIDs returns the ids of plant views currently attributed to a growing unit.
func (r *Reconciler) plantViewIDs(ctx context.Context, growingUnitID string) (map[string]struct{}, error) {
	ids, err := viewIDs(ctx, r.plants, domain.Criteria{
		Filters: []domain.Filter{{Field: "growingUnitId", Operator: domain.OpEqual, Value: growingUnitID}},
	})
	if err != nil {
		return nil, fmt.Errorf("listing plant views: %w", err)
	}
	return ids, nil
}

func viewIDs[V domain.View](ctx context.Context, repo domain.ViewRepository[V], c domain.Criteria) (map[string]struct{}, error) {
	views, err := allViews(ctx, repo, c)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]struct{}, len(views))
	for _, v := range views {
		ids[v.ViewID()] = struct{}{}
	}
	return ids, nil
}

// allViews walks every page of a criteria query.
func allViews[V domain.View](ctx context.Context, repo domain.ViewRepository[V], c domain.Criteria) ([]V, error) {
	c.Pagination = domain.Pagination{Page: 1, PerPage: domain.MaxPerPage}
	var out []V
	for {
		page, err := repo.FindByCriteria(ctx, c)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Items...)
		if c.Pagination.Page >= page.TotalPages {
			return out, nil
		}
		c.Pagination.Page++
	}
}

func ignoreNotFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}
