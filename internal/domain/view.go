package domain

import "time"

// View is implemented by every read view model. ViewID is the read-store key.
type View interface {
	ViewID() string
}

// DimensionsView is the flattened form of Dimensions in read models.
type DimensionsView struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Unit   string  `json:"unit"`
}

// LocationSummary is the location sub-object embedded in other views.
type LocationSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// GrowingUnitSummary is the growing unit sub-object embedded in other views.
type GrowingUnitSummary struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Type              string `json:"type"`
	Capacity          int    `json:"capacity"`
	NumberOfPlants    int    `json:"numberOfPlants"`
	RemainingCapacity int    `json:"remainingCapacity"`
}

// PlantSummary is the plant sub-object embedded in growing unit views.
type PlantSummary struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Species     string     `json:"species"`
	PlantedDate *time.Time `json:"plantedDate,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	Status      string     `json:"status"`
}

// GrowingUnitView is the denormalized read model of a growing unit.
type GrowingUnitView struct {
	ID                     string           `json:"id"`
	LocationID             string           `json:"locationId"`
	Location               *LocationSummary `json:"location,omitempty"`
	Name                   string           `json:"name"`
	Type                   string           `json:"type"`
	Capacity               int              `json:"capacity"`
	Dimensions             *DimensionsView  `json:"dimensions,omitempty"`
	Volume                 *float64         `json:"volume,omitempty"`
	Plants                 []PlantSummary   `json:"plants"`
	NumberOfPlants         int              `json:"numberOfPlants"`
	RemainingCapacity      int              `json:"remainingCapacity"`
	UsedCapacityPercentage float64          `json:"usedCapacityPercentage"`
	CreatedAt              time.Time        `json:"createdAt"`
	UpdatedAt              time.Time        `json:"updatedAt"`
}

func (v GrowingUnitView) ViewID() string { return v.ID }

// PlantView is the denormalized read model of a plant.
type PlantView struct {
	ID            string              `json:"id"`
	GrowingUnitID string              `json:"growingUnitId"`
	GrowingUnit   *GrowingUnitSummary `json:"growingUnit,omitempty"`
	LocationID    string              `json:"locationId"`
	Name          string              `json:"name"`
	Species       string              `json:"species"`
	PlantedDate   *time.Time          `json:"plantedDate,omitempty"`
	Notes         string              `json:"notes,omitempty"`
	Status        string              `json:"status"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

func (v PlantView) ViewID() string { return v.ID }

// LocationView is the denormalized read model of a location.
type LocationView struct {
	ID                   string               `json:"id"`
	Name                 string               `json:"name"`
	Type                 string               `json:"type"`
	Dimensions           *DimensionsView      `json:"dimensions,omitempty"`
	Area                 *float64             `json:"area,omitempty"`
	Volume               *float64             `json:"volume,omitempty"`
	GrowingUnits         []GrowingUnitSummary `json:"growingUnits"`
	NumberOfGrowingUnits int                  `json:"numberOfGrowingUnits"`
	TotalCapacity        int                  `json:"totalCapacity"`
	TotalPlants          int                  `json:"totalPlants"`
	CreatedAt            time.Time            `json:"createdAt"`
	UpdatedAt            time.Time            `json:"updatedAt"`
}

func (v LocationView) ViewID() string { return v.ID }
