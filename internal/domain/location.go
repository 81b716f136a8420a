package domain

import "time"

// Location is the aggregate root for a growing space (a room, a balcony).
// Growing units reference it by id; it does not own them.
type Location struct {
	id         string
	name       string
	typ        LocationType
	dimensions *Dimensions
	createdAt  time.Time
	updatedAt  time.Time
	version    int

	events EventQueue
}

// LocationPrimitives is the storage form of a Location.
type LocationPrimitives struct {
	ID         string                `json:"id"`
	Name       string                `json:"name"`
	Type       string                `json:"type"`
	Dimensions *DimensionsPrimitives `json:"dimensions,omitempty"`
	CreatedAt  time.Time             `json:"createdAt"`
	UpdatedAt  time.Time             `json:"updatedAt"`
	Version    int                   `json:"version"`
}

// NewLocationParams is the creation input for a location.
type NewLocationParams struct {
	Name       string
	Type       string
	Dimensions *DimensionsPrimitives
}

// NewLocation creates a location with a fresh identity and records location.created.
func NewLocation(p NewLocationParams) (*Location, error) {
	name, err := requireText("location name", p.Name)
	if err != nil {
		return nil, err
	}
	typ, err := ParseLocationType(p.Type)
	if err != nil {
		return nil, err
	}
	dims, err := optionalDimensions(p.Dimensions)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	l := &Location{
		id:         NewID(),
		name:       name,
		typ:        typ,
		dimensions: dims,
		createdAt:  now,
		updatedAt:  now,
	}
	l.record(EventLocationCreated, now, l.ToPrimitives())
	return l, nil
}

// LocationFromPrimitives rebuilds a location from storage. No events are recorded.
func LocationFromPrimitives(p LocationPrimitives) (*Location, error) {
	typ, err := ParseLocationType(p.Type)
	if err != nil {
		return nil, err
	}
	dims, err := optionalDimensions(p.Dimensions)
	if err != nil {
		return nil, err
	}
	return &Location{
		id:         p.ID,
		name:       p.Name,
		typ:        typ,
		dimensions: dims,
		createdAt:  p.CreatedAt.UTC(),
		updatedAt:  p.UpdatedAt.UTC(),
		version:    p.Version,
	}, nil
}

func (l *Location) ID() string           { return l.id }
func (l *Location) Name() string         { return l.name }
func (l *Location) Type() LocationType   { return l.typ }
func (l *Location) CreatedAt() time.Time { return l.createdAt }
func (l *Location) UpdatedAt() time.Time { return l.updatedAt }
func (l *Location) Version() int         { return l.version }

// Dimensions returns a copy of the dimensions, or nil when unset.
func (l *Location) Dimensions() *Dimensions {
	if l.dimensions == nil {
		return nil
	}
	d := *l.dimensions
	return &d
}

// ChangeName renames the location. Uniqueness is checked by the caller.
func (l *Location) ChangeName(name string) error {
	name, err := requireText("location name", name)
	if err != nil {
		return err
	}
	if name == l.name {
		return nil
	}
	old := l.name
	l.name = name
	l.changed(EventLocationNameChanged, old, name)
	return nil
}

// ChangeType changes the kind of space.
func (l *Location) ChangeType(s string) error {
	typ, err := ParseLocationType(s)
	if err != nil {
		return err
	}
	if typ == l.typ {
		return nil
	}
	old := l.typ
	l.typ = typ
	l.changed(EventLocationTypeChanged, string(old), string(typ))
	return nil
}

// ChangeDimensions replaces the dimensions; nil clears them.
func (l *Location) ChangeDimensions(p *DimensionsPrimitives) error {
	dims, err := optionalDimensions(p)
	if err != nil {
		return err
	}
	if equalDimensions(l.dimensions, dims) {
		return nil
	}
	old := dimensionsPrimitives(l.dimensions)
	l.dimensions = dims
	l.changed(EventLocationDimensionsChanged, old, dimensionsPrimitives(dims))
	return nil
}

// MarkDeleted records a location.deleted event carrying the final state.
func (l *Location) MarkDeleted() {
	l.record(EventLocationDeleted, time.Now().UTC(), l.ToPrimitives())
}

// MarkPersisted records the version assigned by the write store after a
// successful save. It is persistence metadata and records no event.
func (l *Location) MarkPersisted(version int) {
	l.version = version
}

// UncommittedEvents returns the buffered events in emission order.
func (l *Location) UncommittedEvents() []Event {
	return l.events.Uncommitted()
}

// Commit clears the event buffer.
func (l *Location) Commit() {
	l.events.Commit()
}

// ToPrimitives flattens the aggregate for persistence.
func (l *Location) ToPrimitives() LocationPrimitives {
	return LocationPrimitives{
		ID:         l.id,
		Name:       l.name,
		Type:       string(l.typ),
		Dimensions: dimensionsPrimitives(l.dimensions),
		CreatedAt:  l.createdAt,
		UpdatedAt:  l.updatedAt,
		Version:    l.version,
	}
}

func (l *Location) changed(typ EventType, oldValue, newValue any) {
	now := time.Now().UTC()
	l.updatedAt = now
	l.record(typ, now, FieldChanged{ID: l.id, OldValue: oldValue, NewValue: newValue})
}

func (l *Location) record(typ EventType, at time.Time, payload any) {
	l.events.Record(newEvent(AggregateLocation, l.id, EntityLocation, l.id, typ, at, payload))
}
