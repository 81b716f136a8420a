package domain

import (
	"slices"
	"time"
)

// GrowingUnit is the aggregate root for a container of plants. It is the
// only writer of its plant collection and enforces len(plants) <= capacity.
type GrowingUnit struct {
	id         string
	locationID string
	name       string
	typ        GrowingUnitType
	capacity   Capacity
	dimensions *Dimensions
	plants     []*Plant
	createdAt  time.Time
	updatedAt  time.Time
	version    int

	events EventQueue
}

// GrowingUnitPrimitives is the storage form of a GrowingUnit.
type GrowingUnitPrimitives struct {
	ID         string                `json:"id"`
	LocationID string                `json:"locationId"`
	Name       string                `json:"name"`
	Type       string                `json:"type"`
	Capacity   int                   `json:"capacity"`
	Dimensions *DimensionsPrimitives `json:"dimensions,omitempty"`
	Plants     []PlantPrimitives     `json:"plants"`
	CreatedAt  time.Time             `json:"createdAt"`
	UpdatedAt  time.Time             `json:"updatedAt"`
	Version    int                   `json:"version"`
}

// NewGrowingUnitParams is the creation input for a growing unit.
type NewGrowingUnitParams struct {
	LocationID string
	Name       string
	Type       string
	Capacity   int
	Dimensions *DimensionsPrimitives
}

// NewGrowingUnit creates an empty growing unit with a fresh identity and
// records a growing_unit.created event.
func NewGrowingUnit(p NewGrowingUnitParams) (*GrowingUnit, error) {
	locationID, err := ParseID("location id", p.LocationID)
	if err != nil {
		return nil, err
	}
	name, err := requireText("growing unit name", p.Name)
	if err != nil {
		return nil, err
	}
	typ, err := ParseGrowingUnitType(p.Type)
	if err != nil {
		return nil, err
	}
	capacity, err := NewCapacity(p.Capacity)
	if err != nil {
		return nil, err
	}
	dims, err := optionalDimensions(p.Dimensions)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	g := &GrowingUnit{
		id:         NewID(),
		locationID: locationID,
		name:       name,
		typ:        typ,
		capacity:   capacity,
		dimensions: dims,
		createdAt:  now,
		updatedAt:  now,
	}
	g.record(EntityGrowingUnit, g.id, EventGrowingUnitCreated, now, g.ToPrimitives())
	return g, nil
}

// GrowingUnitFromPrimitives rebuilds a growing unit from storage. No events are recorded.
func GrowingUnitFromPrimitives(p GrowingUnitPrimitives) (*GrowingUnit, error) {
	typ, err := ParseGrowingUnitType(p.Type)
	if err != nil {
		return nil, err
	}
	capacity, err := NewCapacity(p.Capacity)
	if err != nil {
		return nil, err
	}
	dims, err := optionalDimensions(p.Dimensions)
	if err != nil {
		return nil, err
	}
	plants := make([]*Plant, 0, len(p.Plants))
	for _, pp := range p.Plants {
		plant, err := PlantFromPrimitives(pp)
		if err != nil {
			return nil, err
		}
		plants = append(plants, plant)
	}
	return &GrowingUnit{
		id:         p.ID,
		locationID: p.LocationID,
		name:       p.Name,
		typ:        typ,
		capacity:   capacity,
		dimensions: dims,
		plants:     plants,
		createdAt:  p.CreatedAt.UTC(),
		updatedAt:  p.UpdatedAt.UTC(),
		version:    p.Version,
	}, nil
}

func (g *GrowingUnit) ID() string            { return g.id }
func (g *GrowingUnit) LocationID() string    { return g.locationID }
func (g *GrowingUnit) Name() string          { return g.name }
func (g *GrowingUnit) Type() GrowingUnitType { return g.typ }
func (g *GrowingUnit) Capacity() Capacity    { return g.capacity }
func (g *GrowingUnit) CreatedAt() time.Time  { return g.createdAt }
func (g *GrowingUnit) UpdatedAt() time.Time  { return g.updatedAt }
func (g *GrowingUnit) Version() int          { return g.version }

// Dimensions returns a copy of the dimensions, or nil when unset.
func (g *GrowingUnit) Dimensions() *Dimensions {
	if g.dimensions == nil {
		return nil
	}
	d := *g.dimensions
	return &d
}

// Plants returns the plants in insertion order.
func (g *GrowingUnit) Plants() []*Plant {
	return slices.Clone(g.plants)
}

// PlantCount returns the number of plants held.
func (g *GrowingUnit) PlantCount() int {
	return len(g.plants)
}

// Plant looks up an owned plant by id.
func (g *GrowingUnit) Plant(plantID string) (*Plant, bool) {
	i := g.plantIndex(plantID)
	if i < 0 {
		return nil, false
	}
	return g.plants[i], true
}

// HasPlant reports whether the plant belongs to this unit.
func (g *GrowingUnit) HasPlant(plantID string) bool {
	return g.plantIndex(plantID) >= 0
}

// RemainingCapacity returns capacity minus the current plant count.
func (g *GrowingUnit) RemainingCapacity() int {
	return g.capacity.Remaining(len(g.plants))
}

// HasCapacity reports whether one more plant fits.
func (g *GrowingUnit) HasCapacity() bool {
	return g.capacity.HasCapacity(len(g.plants))
}

// AddPlant appends a plant. It fails with CapacityExceededError when the unit
// is full and leaves the unit unchanged.
func (g *GrowingUnit) AddPlant(p *Plant) error {
	if !g.HasCapacity() {
		return &CapacityExceededError{GrowingUnitID: g.id, Capacity: g.capacity.Int(), Requested: len(g.plants) + 1}
	}
	if g.HasPlant(p.id) {
		return &ConflictError{Kind: "plant", Field: "id", Value: p.id}
	}
	now := time.Now().UTC()
	g.plants = append(g.plants, p)
	g.updatedAt = now
	g.record(EntityPlant, p.id, EventPlantAdded, now, PlantSnapshot{GrowingUnitID: g.id, Plant: p.ToPrimitives()})
	return nil
}

// RemovePlant removes a plant by identity.
func (g *GrowingUnit) RemovePlant(plantID string) error {
	i := g.plantIndex(plantID)
	if i < 0 {
		return &NotFoundError{Kind: "plant", ID: plantID}
	}
	p := g.plants[i]
	now := time.Now().UTC()
	g.plants = slices.Delete(g.plants, i, i+1)
	g.updatedAt = now
	g.record(EntityPlant, p.id, EventPlantRemoved, now, PlantSnapshot{GrowingUnitID: g.id, Plant: p.ToPrimitives()})
	return nil
}

// ChangeName renames the unit.
func (g *GrowingUnit) ChangeName(name string) error {
	name, err := requireText("growing unit name", name)
	if err != nil {
		return err
	}
	if name == g.name {
		return nil
	}
	old := g.name
	g.name = name
	g.changed(EntityGrowingUnit, g.id, EventGrowingUnitNameChanged, old, name)
	return nil
}

// ChangeType changes the container kind.
func (g *GrowingUnit) ChangeType(s string) error {
	typ, err := ParseGrowingUnitType(s)
	if err != nil {
		return err
	}
	if typ == g.typ {
		return nil
	}
	old := g.typ
	g.typ = typ
	g.changed(EntityGrowingUnit, g.id, EventGrowingUnitTypeChanged, string(old), string(typ))
	return nil
}

// ChangeCapacity redefines the capacity ceiling. It cannot drop below the
// number of plants currently held.
func (g *GrowingUnit) ChangeCapacity(n int) error {
	capacity, err := NewCapacity(n)
	if err != nil {
		return err
	}
	if capacity == g.capacity {
		return nil
	}
	if len(g.plants) > capacity.Int() {
		return &CapacityExceededError{GrowingUnitID: g.id, Capacity: capacity.Int(), Requested: len(g.plants)}
	}
	old := g.capacity
	g.capacity = capacity
	g.changed(EntityGrowingUnit, g.id, EventGrowingUnitCapacityChanged, old.Int(), capacity.Int())
	return nil
}

// ChangeDimensions replaces the dimensions; nil clears them.
func (g *GrowingUnit) ChangeDimensions(p *DimensionsPrimitives) error {
	dims, err := optionalDimensions(p)
	if err != nil {
		return err
	}
	if equalDimensions(g.dimensions, dims) {
		return nil
	}
	old := dimensionsPrimitives(g.dimensions)
	g.dimensions = dims
	g.changed(EntityGrowingUnit, g.id, EventGrowingUnitDimensionsChanged, old, dimensionsPrimitives(dims))
	return nil
}

// ChangeLocation moves the unit under another location. The caller checks
// that the location exists.
func (g *GrowingUnit) ChangeLocation(locationID string) error {
	id, err := ParseID("location id", locationID)
	if err != nil {
		return err
	}
	if id == g.locationID {
		return nil
	}
	old := g.locationID
	g.locationID = id
	g.changed(EntityGrowingUnit, g.id, EventGrowingUnitLocationChanged, old, id)
	return nil
}

// ChangePlantName renames an owned plant.
func (g *GrowingUnit) ChangePlantName(plantID, name string) error {
	p, err := g.ownedPlant(plantID)
	if err != nil {
		return err
	}
	if name, err = requireText("plant name", name); err != nil {
		return err
	}
	if name == p.name {
		return nil
	}
	old := p.name
	p.name = name
	g.plantChanged(p, EventPlantNameChanged, old, name)
	return nil
}

// ChangePlantSpecies changes an owned plant's species.
func (g *GrowingUnit) ChangePlantSpecies(plantID, species string) error {
	p, err := g.ownedPlant(plantID)
	if err != nil {
		return err
	}
	if species, err = requireText("plant species", species); err != nil {
		return err
	}
	if species == p.species {
		return nil
	}
	old := p.species
	p.species = species
	g.plantChanged(p, EventPlantSpeciesChanged, old, species)
	return nil
}

// ChangePlantPlantedDate sets or clears an owned plant's planted date.
func (g *GrowingUnit) ChangePlantPlantedDate(plantID string, date *time.Time) error {
	p, err := g.ownedPlant(plantID)
	if err != nil {
		return err
	}
	if equalDates(p.plantedDate, date) {
		return nil
	}
	old := utcDate(p.plantedDate)
	p.plantedDate = utcDate(date)
	g.plantChanged(p, EventPlantPlantedDateChanged, old, utcDate(date))
	return nil
}

// ChangePlantNotes replaces an owned plant's notes.
func (g *GrowingUnit) ChangePlantNotes(plantID, notes string) error {
	p, err := g.ownedPlant(plantID)
	if err != nil {
		return err
	}
	if notes == p.notes {
		return nil
	}
	old := p.notes
	p.notes = notes
	g.plantChanged(p, EventPlantNotesChanged, old, notes)
	return nil
}

// ChangePlantStatus sets an owned plant's status. Only the enum is validated
// here; any status may follow any other. Lifecycle order is enforced by
// app.PlantService.Update, which runs the change through a TransitionValidator
// first, so callers outside that path must validate transitions themselves.
func (g *GrowingUnit) ChangePlantStatus(plantID, status string) error {
	p, err := g.ownedPlant(plantID)
	if err != nil {
		return err
	}
	st, err := ParsePlantStatus(status)
	if err != nil {
		return err
	}
	if st == p.status {
		return nil
	}
	old := p.status
	p.status = st
	g.plantChanged(p, EventPlantStatusChanged, string(old), string(st))
	return nil
}

// MarkDeleted records a growing_unit.deleted event carrying the final state.
// Removing the record is the repository's job.
func (g *GrowingUnit) MarkDeleted() {
	now := time.Now().UTC()
	g.record(EntityGrowingUnit, g.id, EventGrowingUnitDeleted, now, g.ToPrimitives())
}

// MarkPersisted records the version assigned by the write store after a
// successful save. It is persistence metadata and records no event.
func (g *GrowingUnit) MarkPersisted(version int) {
	g.version = version
}

// UncommittedEvents returns the buffered events in emission order.
func (g *GrowingUnit) UncommittedEvents() []Event {
	return g.events.Uncommitted()
}

// Commit clears the event buffer after the events were handed to a publisher.
func (g *GrowingUnit) Commit() {
	g.events.Commit()
}

// ToPrimitives flattens the aggregate for persistence.
func (g *GrowingUnit) ToPrimitives() GrowingUnitPrimitives {
	plants := make([]PlantPrimitives, len(g.plants))
	for i, p := range g.plants {
		plants[i] = p.ToPrimitives()
	}
	return GrowingUnitPrimitives{
		ID:         g.id,
		LocationID: g.locationID,
		Name:       g.name,
		Type:       string(g.typ),
		Capacity:   g.capacity.Int(),
		Dimensions: dimensionsPrimitives(g.dimensions),
		Plants:     plants,
		CreatedAt:  g.createdAt,
		UpdatedAt:  g.updatedAt,
		Version:    g.version,
	}
}

func (g *GrowingUnit) plantIndex(plantID string) int {
	return slices.IndexFunc(g.plants, func(p *Plant) bool { return p.id == plantID })
}

func (g *GrowingUnit) ownedPlant(plantID string) (*Plant, error) {
	p, ok := g.Plant(plantID)
	if !ok {
		return nil, &NotFoundError{Kind: "plant", ID: plantID}
	}
	return p, nil
}

func (g *GrowingUnit) changed(entType EntityType, entID string, typ EventType, oldValue, newValue any) {
	now := time.Now().UTC()
	g.updatedAt = now
	g.record(entType, entID, typ, now, FieldChanged{ID: entID, OldValue: oldValue, NewValue: newValue})
}

func (g *GrowingUnit) plantChanged(p *Plant, typ EventType, oldValue, newValue any) {
	now := time.Now().UTC()
	p.updatedAt = now
	g.updatedAt = now
	g.record(EntityPlant, p.id, typ, now, FieldChanged{ID: p.id, OldValue: oldValue, NewValue: newValue})
}

func (g *GrowingUnit) record(entType EntityType, entID string, typ EventType, at time.Time, payload any) {
	g.events.Record(newEvent(AggregateGrowingUnit, g.id, entType, entID, typ, at, payload))
}

func optionalDimensions(p *DimensionsPrimitives) (*Dimensions, error) {
	if p == nil {
		return nil, nil
	}
	d, err := DimensionsFromPrimitives(*p)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
