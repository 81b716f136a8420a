package app

import (
	"context"

	"github.com/neomorfeo/growspace/internal/domain"
)

// QueryService answers read queries from the view store only. It never
// touches the write repositories.
type QueryService struct {
	units     domain.GrowingUnitViewRepository
	plants    domain.PlantViewRepository
	locations domain.LocationViewRepository
}

// NewQueryService creates a query service over the read repositories.
func NewQueryService(units domain.GrowingUnitViewRepository, plants domain.PlantViewRepository, locations domain.LocationViewRepository) *QueryService {
	return &QueryService{units: units, plants: plants, locations: locations}
}

func (s *QueryService) GrowingUnit(ctx context.Context, id string) (domain.GrowingUnitView, error) {
	return s.units.FindByID(ctx, id)
}

func (s *QueryService) Plant(ctx context.Context, id string) (domain.PlantView, error) {
	return s.plants.FindByID(ctx, id)
}

func (s *QueryService) Location(ctx context.Context, id string) (domain.LocationView, error) {
	return s.locations.FindByID(ctx, id)
}

// SearchGrowingUnits filters, sorts and pages growing unit views.
func (s *QueryService) SearchGrowingUnits(ctx context.Context, c domain.Criteria) (domain.Page[domain.GrowingUnitView], error) {
	return search(ctx, s.units, c)
}

// SearchPlants filters, sorts and pages plant views.
func (s *QueryService) SearchPlants(ctx context.Context, c domain.Criteria) (domain.Page[domain.PlantView], error) {
	return search(ctx, s.plants, c)
}

// SearchLocations filters, sorts and pages location views.
func (s *QueryService) SearchLocations(ctx context.Context, c domain.Criteria) (domain.Page[domain.LocationView], error) {
	return search(ctx, s.locations, c)
}

func search[V domain.View](ctx context.Context, repo domain.ViewRepository[V], c domain.Criteria) (domain.Page[V], error) {
	c, err := c.Normalize()
	if err != nil {
		return domain.Page[V]{}, err
	}
	return repo.FindByCriteria(ctx, c)
}

// AggregateQueries is the read-only query bus projectors use to load
// current aggregate state. It exposes no mutators and publishes nothing.
type AggregateQueries struct {
	units     domain.GrowingUnitRepository
	locations domain.LocationRepository
}

// NewAggregateQueries wraps the write repositories for read-only access.
func NewAggregateQueries(units domain.GrowingUnitRepository, locations domain.LocationRepository) *AggregateQueries {
	return &AggregateQueries{units: units, locations: locations}
}

func (q *AggregateQueries) GrowingUnit(ctx context.Context, id string) (*domain.GrowingUnit, error) {
	return q.units.FindByID(ctx, id)
}

func (q *AggregateQueries) Location(ctx context.Context, id string) (*domain.Location, error) {
	return q.locations.FindByID(ctx, id)
}

// GrowingUnitsInLocation lists the live growing units of a location.
func (q *AggregateQueries) GrowingUnitsInLocation(ctx context.Context, locationID string) ([]*domain.GrowingUnit, error) {
	return q.units.FindByLocationID(ctx, locationID)
}

func (q *AggregateQueries) GrowingUnitIDs(ctx context.Context) ([]string, error) {
	return q.units.ListIDs(ctx)
}

func (q *AggregateQueries) LocationIDs(ctx context.Context) ([]string, error) {
	return q.locations.ListIDs(ctx)
}
