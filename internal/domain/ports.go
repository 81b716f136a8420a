package domain

import "context"

// GrowingUnitRepository is the write-side persistence contract for growing units.
// Only command handlers and the aggregate query bus use it.
type GrowingUnitRepository interface {
	FindByID(ctx context.Context, id string) (*GrowingUnit, error)
	FindByLocationID(ctx context.Context, locationID string) ([]*GrowingUnit, error)
	ListIDs(ctx context.Context) ([]string, error)
	Save(ctx context.Context, unit *GrowingUnit) error
	Delete(ctx context.Context, id string) error
}

// LocationRepository is the write-side persistence contract for locations.
type LocationRepository interface {
	FindByID(ctx context.Context, id string) (*Location, error)
	FindByName(ctx context.Context, name string) (*Location, error)
	ListIDs(ctx context.Context) ([]string, error)
	Save(ctx context.Context, location *Location) error
	Delete(ctx context.Context, id string) error
}

// ViewRepository is the read-side persistence contract for one kind of view
// model. Save replaces the whole document.
type ViewRepository[V View] interface {
	FindByID(ctx context.Context, id string) (V, error)
	FindByCriteria(ctx context.Context, criteria Criteria) (Page[V], error)
	Save(ctx context.Context, view V) error
	Delete(ctx context.Context, id string) error
}

// Read repositories per view model.
type (
	GrowingUnitViewRepository = ViewRepository[GrowingUnitView]
	PlantViewRepository       = ViewRepository[PlantView]
	LocationViewRepository    = ViewRepository[LocationView]
)

// EventPublisher hands committed events to whoever projects them.
type EventPublisher interface {
	Publish(ctx context.Context, events []Event) error
}

// TransitionValidator checks plant lifecycle moves and returns the new status.
type TransitionValidator interface {
	Apply(ctx context.Context, current, target PlantStatus) (PlantStatus, error)
}
