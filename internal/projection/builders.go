package projection

import "github.com/neomorfeo/growspace/internal/domain"

// BuildGrowingUnitView flattens a growing unit for the read store. loc may be
// nil when the parent location is gone, in which case the summary is omitted.
func BuildGrowingUnitView(unit *domain.GrowingUnit, loc *domain.Location) domain.GrowingUnitView {
	plants := unit.Plants()
	summaries := make([]domain.PlantSummary, len(plants))
	for i, p := range plants {
		summaries[i] = plantSummary(p)
	}

	v := domain.GrowingUnitView{
		ID:                     unit.ID(),
		LocationID:             unit.LocationID(),
		Name:                   unit.Name(),
		Type:                   string(unit.Type()),
		Capacity:               unit.Capacity().Int(),
		Plants:                 summaries,
		NumberOfPlants:         len(plants),
		RemainingCapacity:      unit.RemainingCapacity(),
		UsedCapacityPercentage: unit.Capacity().UsedPercentage(len(plants)),
		CreatedAt:              unit.CreatedAt(),
		UpdatedAt:              unit.UpdatedAt(),
	}
	if loc != nil {
		v.Location = &domain.LocationSummary{ID: loc.ID(), Name: loc.Name(), Type: string(loc.Type())}
	}
	if d := unit.Dimensions(); d != nil {
		v.Dimensions = dimensionsView(d)
		volume := d.Volume()
		v.Volume = &volume
	}
	return v
}

// BuildPlantView flattens one plant of unit for the read store.
func BuildPlantView(unit *domain.GrowingUnit, plant *domain.Plant) domain.PlantView {
	summary := growingUnitSummary(unit)
	return domain.PlantView{
		ID:            plant.ID(),
		GrowingUnitID: unit.ID(),
		GrowingUnit:   &summary,
		LocationID:    unit.LocationID(),
		Name:          plant.Name(),
		Species:       plant.Species(),
		PlantedDate:   plant.PlantedDate(),
		Notes:         plant.Notes(),
		Status:        string(plant.Status()),
		CreatedAt:     plant.CreatedAt(),
		UpdatedAt:     plant.UpdatedAt(),
	}
}

// BuildLocationView aggregates a location and the growing units it holds.
func BuildLocationView(loc *domain.Location, units []*domain.GrowingUnit) domain.LocationView {
	v := domain.LocationView{
		ID:                   loc.ID(),
		Name:                 loc.Name(),
		Type:                 string(loc.Type()),
		GrowingUnits:         make([]domain.GrowingUnitSummary, len(units)),
		NumberOfGrowingUnits: len(units),
		CreatedAt:            loc.CreatedAt(),
		UpdatedAt:            loc.UpdatedAt(),
	}
	for i, u := range units {
		v.GrowingUnits[i] = growingUnitSummary(u)
		v.TotalCapacity += u.Capacity().Int()
		v.TotalPlants += u.PlantCount()
	}
	if d := loc.Dimensions(); d != nil {
		v.Dimensions = dimensionsView(d)
		area, volume := d.Area(), d.Volume()
		v.Area = &area
		v.Volume = &volume
	}
	return v
}

func growingUnitSummary(u *domain.GrowingUnit) domain.GrowingUnitSummary {
	return domain.GrowingUnitSummary{
		ID:                u.ID(),
		Name:              u.Name(),
		Type:              string(u.Type()),
		Capacity:          u.Capacity().Int(),
		NumberOfPlants:    u.PlantCount(),
		RemainingCapacity: u.RemainingCapacity(),
	}
}

func plantSummary(p *domain.Plant) domain.PlantSummary {
	return domain.PlantSummary{
		ID:          p.ID(),
		Name:        p.Name(),
		Species:     p.Species(),
		PlantedDate: p.PlantedDate(),
		Notes:       p.Notes(),
		Status:      string(p.Status()),
	}
}

func dimensionsView(d *domain.Dimensions) *domain.DimensionsView {
	return &domain.DimensionsView{
		Length: d.Length(),
		Width:  d.Width(),
		Height: d.Height(),
		Unit:   string(d.Unit()),
	}
}
