package domain

import "time"

// Plant is an entity owned by exactly one growing unit. It has no exported
// mutators; changes go through the owning GrowingUnit.
type Plant struct {
	id          string
	name        string
	species     string
	plantedDate *time.Time
	notes       string
	status      PlantStatus
	createdAt   time.Time
	updatedAt   time.Time
}

// PlantPrimitives is the storage and event form of a Plant.
type PlantPrimitives struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Species     string     `json:"species"`
	PlantedDate *time.Time `json:"plantedDate,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewPlantParams carries validated-on-construction input for a new plant.
type NewPlantParams struct {
	Name        string
	Species     string
	PlantedDate *time.Time
	Notes       string
	Status      string // optional, defaults to PLANTED
}

// NewPlant creates a plant with a fresh identity.
func NewPlant(p NewPlantParams) (*Plant, error) {
	name, err := requireText("plant name", p.Name)
	if err != nil {
		return nil, err
	}
	species, err := requireText("plant species", p.Species)
	if err != nil {
		return nil, err
	}
	status := PlantPlanted
	if p.Status != "" {
		if status, err = ParsePlantStatus(p.Status); err != nil {
			return nil, err
		}
	}
	now := time.Now().UTC()
	return &Plant{
		id:          NewID(),
		name:        name,
		species:     species,
		plantedDate: utcDate(p.PlantedDate),
		notes:       p.Notes,
		status:      status,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// PlantFromPrimitives rebuilds a plant from storage without emitting events.
func PlantFromPrimitives(p PlantPrimitives) (*Plant, error) {
	status, err := ParsePlantStatus(p.Status)
	if err != nil {
		return nil, err
	}
	return &Plant{
		id:          p.ID,
		name:        p.Name,
		species:     p.Species,
		plantedDate: utcDate(p.PlantedDate),
		notes:       p.Notes,
		status:      status,
		createdAt:   p.CreatedAt.UTC(),
		updatedAt:   p.UpdatedAt.UTC(),
	}, nil
}

func (p *Plant) ID() string              { return p.id }
func (p *Plant) Name() string            { return p.name }
func (p *Plant) Species() string         { return p.species }
func (p *Plant) Notes() string           { return p.notes }
func (p *Plant) Status() PlantStatus     { return p.status }
func (p *Plant) CreatedAt() time.Time    { return p.createdAt }
func (p *Plant) UpdatedAt() time.Time    { return p.updatedAt }
func (p *Plant) PlantedDate() *time.Time { return utcDate(p.plantedDate) }

// ToPrimitives flattens the plant.
func (p *Plant) ToPrimitives() PlantPrimitives {
	return PlantPrimitives{
		ID:          p.id,
		Name:        p.name,
		Species:     p.species,
		PlantedDate: utcDate(p.plantedDate),
		Notes:       p.notes,
		Status:      string(p.status),
		CreatedAt:   p.createdAt,
		UpdatedAt:   p.updatedAt,
	}
}

// utcDate copies t so callers never share the pointer.
func utcDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := t.UTC()
	return &c
}

func equalDates(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
