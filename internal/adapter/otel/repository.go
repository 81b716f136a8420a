package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/growspace/internal/domain"
)

const tracerName = "github.com/neomorfeo/growspace/internal/adapter/otel"

// endSpan records err on span, if any, and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// TracingGrowingUnitRepository wraps a domain.GrowingUnitRepository with
// OpenTelemetry tracing. Each method creates a span and records errors.
type TracingGrowingUnitRepository struct {
	next   domain.GrowingUnitRepository
	tracer trace.Tracer
}

// Compile-time check: TracingGrowingUnitRepository implements domain.GrowingUnitRepository.
var _ domain.GrowingUnitRepository = (*TracingGrowingUnitRepository)(nil)

// NewTracingGrowingUnitRepository creates a tracing decorator around the given repository.
func NewTracingGrowingUnitRepository(next domain.GrowingUnitRepository) *TracingGrowingUnitRepository {
	return &TracingGrowingUnitRepository{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (r *TracingGrowingUnitRepository) FindByID(ctx context.Context, id string) (*domain.GrowingUnit, error) {
	ctx, span := r.tracer.Start(ctx, "GrowingUnitRepository.FindByID",
		trace.WithAttributes(attribute.String("growing_unit.id", id)),
	)
	unit, err := r.next.FindByID(ctx, id)
	if err == nil {
		span.SetAttributes(
			attribute.Int("growing_unit.plants", unit.PlantCount()),
			attribute.Int("growing_unit.version", unit.Version()),
		)
	}
	endSpan(span, err)
	return unit, err
}

func (r *TracingGrowingUnitRepository) FindByLocationID(ctx context.Context, locationID string) ([]*domain.GrowingUnit, error) {
	ctx, span := r.tracer.Start(ctx, "GrowingUnitRepository.FindByLocationID",
		trace.WithAttributes(attribute.String("location.id", locationID)),
	)
	units, err := r.next.FindByLocationID(ctx, locationID)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", len(units)))
	}
	endSpan(span, err)
	return units, err
}

func (r *TracingGrowingUnitRepository) ListIDs(ctx context.Context) ([]string, error) {
	ctx, span := r.tracer.Start(ctx, "GrowingUnitRepository.ListIDs")
	ids, err := r.next.ListIDs(ctx)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", len(ids)))
	}
	endSpan(span, err)
	return ids, err
}

func (r *TracingGrowingUnitRepository) Save(ctx context.Context, unit *domain.GrowingUnit) error {
	ctx, span := r.tracer.Start(ctx, "GrowingUnitRepository.Save",
		trace.WithAttributes(
			attribute.String("growing_unit.id", unit.ID()),
			attribute.Int("growing_unit.version", unit.Version()),
			attribute.Int("growing_unit.plants", unit.PlantCount()),
		),
	)
	err := r.next.Save(ctx, unit)
	endSpan(span, err)
	return err
}

func (r *TracingGrowingUnitRepository) Delete(ctx context.Context, id string) error {
	ctx, span := r.tracer.Start(ctx, "GrowingUnitRepository.Delete",
		trace.WithAttributes(attribute.String("growing_unit.id", id)),
	)
	err := r.next.Delete(ctx, id)
	endSpan(span, err)
	return err
}

// TracingLocationRepository wraps a domain.LocationRepository with OpenTelemetry tracing.
type TracingLocationRepository struct {
	next   domain.LocationRepository
	tracer trace.Tracer
}

// Compile-time check: TracingLocationRepository implements domain.LocationRepository.
var _ domain.LocationRepository = (*TracingLocationRepository)(nil)

// NewTracingLocationRepository creates a tracing decorator around the given repository.
func NewTracingLocationRepository(next domain.LocationRepository) *TracingLocationRepository {
	return &TracingLocationRepository{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (r *TracingLocationRepository) FindByID(ctx context.Context, id string) (*domain.Location, error) {
	ctx, span := r.tracer.Start(ctx, "LocationRepository.FindByID",
		trace.WithAttributes(attribute.String("location.id", id)),
	)
	loc, err := r.next.FindByID(ctx, id)
	endSpan(span, err)
	return loc, err
}

func (r *TracingLocationRepository) FindByName(ctx context.Context, name string) (*domain.Location, error) {
	ctx, span := r.tracer.Start(ctx, "LocationRepository.FindByName",
		trace.WithAttributes(attribute.String("location.name", name)),
	)
	loc, err := r.next.FindByName(ctx, name)
	endSpan(span, err)
	return loc, err
}

func (r *TracingLocationRepository) ListIDs(ctx context.Context) ([]string, error) {
	ctx, span := r.tracer.Start(ctx, "LocationRepository.ListIDs")
	ids, err := r.next.ListIDs(ctx)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", len(ids)))
	}
	endSpan(span, err)
	return ids, err
}

func (r *TracingLocationRepository) Save(ctx context.Context, loc *domain.Location) error {
	ctx, span := r.tracer.Start(ctx, "LocationRepository.Save",
		trace.WithAttributes(
			attribute.String("location.id", loc.ID()),
			attribute.Int("location.version", loc.Version()),
		),
	)
	err := r.next.Save(ctx, loc)
	endSpan(span, err)
	return err
}

func (r *TracingLocationRepository) Delete(ctx context.Context, id string) error {
	ctx, span := r.tracer.Start(ctx, "LocationRepository.Delete",
		trace.WithAttributes(attribute.String("location.id", id)),
	)
	err := r.next.Delete(ctx, id)
	endSpan(span, err)
	return err
}
