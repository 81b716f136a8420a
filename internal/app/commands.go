package app

import (
	"time"

	"github.com/neomorfeo/growspace/internal/domain"
)

// Optional fields use nil for "leave unchanged". Dimensions and planted date
// have an explicit Clear flag because nil already means "unchanged".

type CreateLocationCommand struct {
	Name       string
	Type       string
	Dimensions *domain.DimensionsPrimitives
}

type UpdateLocationCommand struct {
	ID              string
	Name            *string
	Type            *string
	Dimensions      *domain.DimensionsPrimitives
	ClearDimensions bool
}

type DeleteLocationCommand struct {
	ID string
}

type CreateGrowingUnitCommand struct {
	LocationID string
	Name       string
	Type       string
	Capacity   int
	Dimensions *domain.DimensionsPrimitives
}

type UpdateGrowingUnitCommand struct {
	ID              string
	LocationID      *string
	Name            *string
	Type            *string
	Capacity        *int
	Dimensions      *domain.DimensionsPrimitives
	ClearDimensions bool
}

type DeleteGrowingUnitCommand struct {
	ID string
}

type AddPlantCommand struct {
	GrowingUnitID string
	Name          string
	Species       string
	PlantedDate   *time.Time
	Notes         string
	Status        string
}

type UpdatePlantCommand struct {
	GrowingUnitID    string
	PlantID          string
	Name             *string
	Species          *string
	PlantedDate      *time.Time
	ClearPlantedDate bool
	Notes            *string
	Status           *string
}

type RemovePlantCommand struct {
	GrowingUnitID string
	PlantID       string
}

// TransplantPlantCommand moves a plant between growing units as two
// separate aggregate transactions.
type TransplantPlantCommand struct {
	PlantID             string
	SourceGrowingUnitID string
	TargetGrowingUnitID string
}
