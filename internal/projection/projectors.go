package projection

import (
	"context"
	"errors"
	"fmt"

	"github.com/neomorfeo/growspace/internal/app"
	"github.com/neomorfeo/growspace/internal/domain"
)

// Compile-time checks: projectors implement app.Projector.
var (
	_ app.Projector = (*GrowingUnitProjector)(nil)
	_ app.Projector = (*LocationProjector)(nil)
)

// GrowingUnitProjector maintains growing unit and plant views.
type GrowingUnitProjector struct {
	reconciler *Reconciler
}

func NewGrowingUnitProjector(r *Reconciler) *GrowingUnitProjector {
	return &GrowingUnitProjector{reconciler: r}
}

func (p *GrowingUnitProjector) Name() string { return "growing_unit_view" }

func (p *GrowingUnitProjector) EventTypes() []domain.EventType {
	return []domain.EventType{
		domain.EventGrowingUnitCreated,
		domain.EventGrowingUnitDeleted,
		domain.EventGrowingUnitNameChanged,
		domain.EventGrowingUnitTypeChanged,
		domain.EventGrowingUnitCapacityChanged,
		domain.EventGrowingUnitDimensionsChanged,
		domain.EventGrowingUnitLocationChanged,
		domain.EventPlantAdded,
		domain.EventPlantRemoved,
		domain.EventPlantNameChanged,
		domain.EventPlantSpeciesChanged,
		domain.EventPlantPlantedDateChanged,
		domain.EventPlantNotesChanged,
		domain.EventPlantStatusChanged,
		// The location summary embedded in growing unit views.
		domain.EventLocationNameChanged,
		domain.EventLocationTypeChanged,
	}
}

func (p *GrowingUnitProjector) Project(ctx context.Context, evt domain.Event) error {
	if evt.AggregateType == domain.AggregateLocation {
		return p.reconciler.ReconcileGrowingUnitsInLocation(ctx, evt.AggregateID)
	}
	return p.reconciler.ReconcileGrowingUnit(ctx, evt.AggregateID)
}

// LocationProjector maintains location views, including the growing unit
// summaries and totals they embed.
type LocationProjector struct {
	reconciler *Reconciler
	aggregates Aggregates
}

func NewLocationProjector(r *Reconciler, aggregates Aggregates) *LocationProjector {
	return &LocationProjector{reconciler: r, aggregates: aggregates}
}

func (p *LocationProjector) Name() string { return "location_view" }

func (p *LocationProjector) EventTypes() []domain.EventType {
	return []domain.EventType{
		domain.EventLocationCreated,
		domain.EventLocationDeleted,
		domain.EventLocationNameChanged,
		domain.EventLocationTypeChanged,
		domain.EventLocationDimensionsChanged,
		domain.EventGrowingUnitCreated,
		domain.EventGrowingUnitDeleted,
		domain.EventGrowingUnitNameChanged,
		domain.EventGrowingUnitTypeChanged,
		domain.EventGrowingUnitCapacityChanged,
		domain.EventGrowingUnitLocationChanged,
		domain.EventPlantAdded,
		domain.EventPlantRemoved,
	}
}

func (p *LocationProjector) Project(ctx context.Context, evt domain.Event) error {
	ids, err := p.affectedLocations(ctx, evt)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := p.reconciler.ReconcileLocation(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// affectedLocations resolves which location views an event touches. Created
// and deleted payloads carry the location id so a vanished unit can still be
// attributed; a move touches both the old and the new location.
func (p *LocationProjector) affectedLocations(ctx context.Context, evt domain.Event) ([]string, error) {
	if evt.AggregateType == domain.AggregateLocation {
		return []string{evt.AggregateID}, nil
	}

	switch payload := evt.Payload.(type) {
	case domain.GrowingUnitPrimitives:
		return []string{payload.LocationID}, nil
	case domain.FieldChanged:
		if evt.Type == domain.EventGrowingUnitLocationChanged {
			var ids []string
			for _, v := range []any{payload.OldValue, payload.NewValue} {
				if id, ok := v.(string); ok && id != "" {
					ids = append(ids, id)
				}
			}
			return ids, nil
		}
	}

	unit, err := p.aggregates.GrowingUnit(ctx, evt.AggregateID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading growing unit: %w", err)
	}
	return []string{unit.LocationID()}, nil
}

// NewProjectors returns the projectors in the order they should be registered.
func NewProjectors(r *Reconciler, aggregates Aggregates) []app.Projector {
	return []app.Projector{
		NewGrowingUnitProjector(r),
		NewLocationProjector(r, aggregates),
	}
}
