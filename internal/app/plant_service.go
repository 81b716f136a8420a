package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/neomorfeo/growspace/internal/domain"
)

// PlantService handles plant commands. Plants are reached only through
// their owning growing unit.
type PlantService struct {
	units     domain.GrowingUnitRepository
	validator domain.TransitionValidator
	flusher   flusher
	logger    *slog.Logger
}

// NewPlantService creates a service with the given adapters.
func NewPlantService(units domain.GrowingUnitRepository, publisher domain.EventPublisher, validator domain.TransitionValidator, logger *slog.Logger) *PlantService {
	f := newFlusher(publisher, logger)
	return &PlantService{
		units:     units,
		validator: validator,
		flusher:   f,
		logger:    f.logger,
	}
}

// Add creates a plant inside a growing unit and returns the plant id.
func (s *PlantService) Add(ctx context.Context, cmd AddPlantCommand) (string, error) {
	unit, err := s.units.FindByID(ctx, cmd.GrowingUnitID)
	if err != nil {
		return "", err
	}

	plant, err := domain.NewPlant(domain.NewPlantParams{
		Name:        cmd.Name,
		Species:     cmd.Species,
		PlantedDate: cmd.PlantedDate,
		Notes:       cmd.Notes,
		Status:      cmd.Status,
	})
	if err != nil {
		return "", err
	}
	if err := unit.AddPlant(plant); err != nil {
		return "", err
	}

	if err := s.units.Save(ctx, unit); err != nil {
		return "", fmt.Errorf("saving growing unit: %w", err)
	}
	s.flusher.flush(ctx, unit)
	return plant.ID(), nil
}

// Update applies the non-nil fields of cmd to a plant. Status changes must
// follow the plant lifecycle.
func (s *PlantService) Update(ctx context.Context, cmd UpdatePlantCommand) error {
	unit, err := s.units.FindByID(ctx, cmd.GrowingUnitID)
	if err != nil {
		return err
	}
	plant, ok := unit.Plant(cmd.PlantID)
	if !ok {
		return &domain.NotFoundError{Kind: "plant", ID: cmd.PlantID}
	}

	if cmd.Name != nil {
		if err := unit.ChangePlantName(cmd.PlantID, *cmd.Name); err != nil {
			return err
		}
	}
	if cmd.Species != nil {
		if err := unit.ChangePlantSpecies(cmd.PlantID, *cmd.Species); err != nil {
			return err
		}
	}
	if cmd.ClearPlantedDate {
		if err := unit.ChangePlantPlantedDate(cmd.PlantID, nil); err != nil {
			return err
		}
	} else if cmd.PlantedDate != nil {
		if err := unit.ChangePlantPlantedDate(cmd.PlantID, cmd.PlantedDate); err != nil {
			return err
		}
	}
	if cmd.Notes != nil {
		if err := unit.ChangePlantNotes(cmd.PlantID, *cmd.Notes); err != nil {
			return err
		}
	}
	if cmd.Status != nil {
		target, err := domain.ParsePlantStatus(*cmd.Status)
		if err != nil {
			return err
		}
		if target != plant.Status() {
			next, err := s.validator.Apply(ctx, plant.Status(), target)
			if err != nil {
				return err
			}
			if err := unit.ChangePlantStatus(cmd.PlantID, string(next)); err != nil {
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

// Remove deletes a plant from its growing unit.
func (s *PlantService) Remove(ctx context.Context, cmd RemovePlantCommand) error {
	unit, err := s.units.FindByID(ctx, cmd.GrowingUnitID)
	if err != nil {
		return err
	}
	if err := unit.RemovePlant(cmd.PlantID); err != nil {
		return err
	}

	if err := s.units.Save(ctx, unit); err != nil {
		return fmt.Errorf("saving growing unit: %w", err)
	}
	s.flusher.flush(ctx, unit)
	return nil
}

// Transplant moves a plant to another growing unit, keeping its identity.
// Target capacity is checked before the source is touched. The move spans
// two aggregate transactions: if adding to the target fails after the
// source was saved, the plant is put back into the source on a best-effort basis.
func (s *PlantService) Transplant(ctx context.Context, cmd TransplantPlantCommand) error {
	if cmd.SourceGrowingUnitID == cmd.TargetGrowingUnitID {
		return &domain.InvalidValueError{Field: "target growing unit id", Value: cmd.TargetGrowingUnitID, Reason: "must differ from the source"}
	}

	source, err := s.units.FindByID(ctx, cmd.SourceGrowingUnitID)
	if err != nil {
		return err
	}
	target, err := s.units.FindByID(ctx, cmd.TargetGrowingUnitID)
	if err != nil {
		return err
	}
	plant, ok := source.Plant(cmd.PlantID)
	if !ok {
		return &domain.NotFoundError{Kind: "plant", ID: cmd.PlantID}
	}
	if !target.HasCapacity() {
		return &domain.CapacityExceededError{
			GrowingUnitID: target.ID(),
			Capacity:      target.Capacity().Int(),
			Requested:     target.PlantCount() + 1,
		}
	}
	moved, err := domain.PlantFromPrimitives(plant.ToPrimitives())
	if err != nil {
		return err
	}

	if err := source.RemovePlant(plant.ID()); err != nil {
		return err
	}
	if err := s.units.Save(ctx, source); err != nil {
		return fmt.Errorf("saving source growing unit: %w", err)
	}
	s.flusher.flush(ctx, source)

	if err := s.addToTarget(ctx, target, moved); err != nil {
		s.logger.ErrorContext(ctx, "transplant target failed, restoring plant to source",
			"plant_id", moved.ID(),
			"source_id", source.ID(),
			"target_id", target.ID(),
			"error", err,
		)
		s.restore(ctx, source.ID(), moved)
		return err
	}
	return nil
}

func (s *PlantService) addToTarget(ctx context.Context, target *domain.GrowingUnit, plant *domain.Plant) error {
	if err := target.AddPlant(plant); err != nil {
		return err
	}
	if err := s.units.Save(ctx, target); err != nil {
		return fmt.Errorf("saving target growing unit: %w", err)
	}
	s.flusher.flush(ctx, target)
	return nil
}

func (s *PlantService) restore(ctx context.Context, sourceID string, plant *domain.Plant) {
	source, err := s.units.FindByID(ctx, sourceID)
	if err == nil {
		err = source.AddPlant(plant)
	}
	if err == nil {
		err = s.units.Save(ctx, source)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "restoring transplanted plant",
			"plant_id", plant.ID(),
			"source_id", sourceID,
			"error", err,
		)
		return
	}
	s.flusher.flush(ctx, source)
}
