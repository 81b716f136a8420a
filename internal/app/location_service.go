package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/neomorfeo/growspace/internal/domain"
)

// LocationService handles location commands.
type LocationService struct {
	locations domain.LocationRepository
	units     domain.GrowingUnitRepository
	flusher   flusher
}

// NewLocationService creates a service with the given adapters.
func NewLocationService(locations domain.LocationRepository, units domain.GrowingUnitRepository, publisher domain.EventPublisher, logger *slog.Logger) *LocationService {
	return &LocationService{
		locations: locations,
		units:     units,
		flusher:   newFlusher(publisher, logger),
	}
}

// Create persists a new location and returns its id. Names are unique among
// live locations.
func (s *LocationService) Create(ctx context.Context, cmd CreateLocationCommand) (string, error) {
	loc, err := domain.NewLocation(domain.NewLocationParams{
		Name:       cmd.Name,
		Type:       cmd.Type,
		Dimensions: cmd.Dimensions,
	})
	if err != nil {
		return "", err
	}
	if err := s.ensureNameFree(ctx, loc.Name(), ""); err != nil {
		return "", err
	}

	if err := s.locations.Save(ctx, loc); err != nil {
		return "", fmt.Errorf("saving location: %w", err)
	}
	s.flusher.flush(ctx, loc)
	return loc.ID(), nil
}

// Update applies the non-nil fields of cmd. Fields equal to their current
// value produce no event; a command without effective changes is not saved.
func (s *LocationService) Update(ctx context.Context, cmd UpdateLocationCommand) error {
	loc, err := s.locations.FindByID(ctx, cmd.ID)
	if err != nil {
		return err
	}

	if cmd.Name != nil {
		if err := loc.ChangeName(*cmd.Name); err != nil {
			return err
		}
		if err := s.ensureNameFree(ctx, loc.Name(), loc.ID()); err != nil {
			return err
		}
	}
	if cmd.Type != nil {
		if err := loc.ChangeType(*cmd.Type); err != nil {
			return err
		}
	}
	if cmd.ClearDimensions {
		if err := loc.ChangeDimensions(nil); err != nil {
			return err
		}
	} else if cmd.Dimensions != nil {
		if err := loc.ChangeDimensions(cmd.Dimensions); err != nil {
			return err
		}
	}

	if len(loc.UncommittedEvents()) == 0 {
		return nil
	}
	if err := s.locations.Save(ctx, loc); err != nil {
		return fmt.Errorf("saving location: %w", err)
	}
	s.flusher.flush(ctx, loc)
	return nil
}

// Delete removes a location. A location that still holds growing units
// cannot be deleted.
func (s *LocationService) Delete(ctx context.Context, cmd DeleteLocationCommand) error {
	loc, err := s.locations.FindByID(ctx, cmd.ID)
	if err != nil {
		return err
	}

	units, err := s.units.FindByLocationID(ctx, loc.ID())
	if err != nil {
		return fmt.Errorf("listing growing units of location: %w", err)
	}
	if len(units) > 0 {
		return &domain.LocationInUseError{LocationID: loc.ID(), GrowingUnits: len(units)}
	}

	loc.MarkDeleted()
	if err := s.locations.Delete(ctx, loc.ID()); err != nil {
		return fmt.Errorf("deleting location: %w", err)
	}
	s.flusher.flush(ctx, loc)
	return nil
}

func (s *LocationService) ensureNameFree(ctx context.Context, name, selfID string) error {
	existing, err := s.locations.FindByName(ctx, name)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("checking location name: %w", err)
	case existing.ID() == selfID:
		return nil
	default:
		return &domain.ConflictError{Kind: "location", Field: "name", Value: name}
	}
}
