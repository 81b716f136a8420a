package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/neomorfeo/growspace/internal/domain"
)

// GrowingUnitService handles growing unit commands.
type GrowingUnitService struct {
	units     domain.GrowingUnitRepository
	locations domain.LocationRepository
	flusher   flusher
}

// NewGrowingUnitService creates a service with the given adapters.
func NewGrowingUnitService(units domain.GrowingUnitRepository, locations domain.LocationRepository, publisher domain.EventPublisher, logger *slog.Logger) *GrowingUnitService {
	return &GrowingUnitService{
		units:     units,
		locations: locations,
		flusher:   newFlusher(publisher, logger),
	}
}

// Create persists a new, empty growing unit inside an existing location.
func (s *GrowingUnitService) Create(ctx context.Context, cmd CreateGrowingUnitCommand) (string, error) {
	unit, err := domain.NewGrowingUnit(domain.NewGrowingUnitParams{
		LocationID: cmd.LocationID,
		Name:       cmd.Name,
		Type:       cmd.Type,
		Capacity:   cmd.Capacity,
		Dimensions: cmd.Dimensions,
	})
	if err != nil {
		return "", err
	}
	if _, err := s.locations.FindByID(ctx, unit.LocationID()); err != nil {
		return "", err
	}

	if err := s.units.Save(ctx, unit); err != nil {
		return "", fmt.Errorf("saving growing unit: %w", err)
	}
	s.flusher.flush(ctx, unit)
	return unit.ID(), nil
}

// Update applies the non-nil fields of cmd in a single transaction. Any
// rejected change aborts the whole command before persistence.
func (s *GrowingUnitService) Update(ctx context.Context, cmd UpdateGrowingUnitCommand) error {
	unit, err := s.units.FindByID(ctx, cmd.ID)
	if err != nil {
		return err
	}

	if cmd.Name != nil {
		if err := unit.ChangeName(*cmd.Name); err != nil {
			return err
		}
	}
	if cmd.Type != nil {
		if err := unit.ChangeType(*cmd.Type); err != nil {
			return err
		}
	}
	if cmd.Capacity != nil {
		if err := unit.ChangeCapacity(*cmd.Capacity); err != nil {
			return err
		}
	}
	if cmd.ClearDimensions {
		if err := unit.ChangeDimensions(nil); err != nil {
			return err
		}
	} else if cmd.Dimensions != nil {
		if err := unit.ChangeDimensions(cmd.Dimensions); err != nil {
			return err
		}
	}
	if cmd.LocationID != nil {
		locationID, err := domain.ParseID("location id", *cmd.LocationID)
		if err != nil {
			return err
		}
		if locationID != unit.LocationID() {
			if _, err := s.locations.FindByID(ctx, locationID); err != nil {
				return err
			}
			if err := unit.ChangeLocation(locationID); err != nil {
				return err
			}
		}
	}

	if len(unit.UncommittedEvents()) == 0 {
		return nil
	}
	if err := s.units.Save(ctx, unit); err != nil {
		return fmt.Errorf("saving growing unit: %w", err)
	}
	s.flusher.flush(ctx, unit)
	return nil
}

// Delete removes a growing unit together with the plants it holds.
func (s *GrowingUnitService) Delete(ctx context.Context, cmd DeleteGrowingUnitCommand) error {
	unit, err := s.units.FindByID(ctx, cmd.ID)
	if err != nil {
		return err
	}

	unit.MarkDeleted()
	if err := s.units.Delete(ctx, unit.ID()); err != nil {
		return fmt.Errorf("deleting growing unit: %w", err)
	}
	s.flusher.flush(ctx, unit)
	return nil
}
