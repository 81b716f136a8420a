package domain

import "time"

// EventType identifies what happened. Values are stable and used as
// registry keys by the dispatcher.
type EventType string

const (
	EventLocationCreated           EventType = "location.created"
	EventLocationDeleted           EventType = "location.deleted"
	EventLocationNameChanged       EventType = "location.name_changed"
	EventLocationTypeChanged       EventType = "location.type_changed"
	EventLocationDimensionsChanged EventType = "location.dimensions_changed"

	EventGrowingUnitCreated           EventType = "growing_unit.created"
	EventGrowingUnitDeleted           EventType = "growing_unit.deleted"
	EventGrowingUnitNameChanged       EventType = "growing_unit.name_changed"
	EventGrowingUnitTypeChanged       EventType = "growing_unit.type_changed"
	EventGrowingUnitCapacityChanged   EventType = "growing_unit.capacity_changed"
	EventGrowingUnitDimensionsChanged EventType = "growing_unit.dimensions_changed"
	EventGrowingUnitLocationChanged   EventType = "growing_unit.location_changed"
	EventPlantAdded                   EventType = "growing_unit.plant_added"
	EventPlantRemoved                 EventType = "growing_unit.plant_removed"

	EventPlantNameChanged        EventType = "plant.name_changed"
	EventPlantSpeciesChanged     EventType = "plant.species_changed"
	EventPlantPlantedDateChanged EventType = "plant.planted_date_changed"
	EventPlantNotesChanged       EventType = "plant.notes_changed"
	EventPlantStatusChanged      EventType = "plant.status_changed"
)

// AggregateType names the aggregate an event belongs to.
type AggregateType string

const (
	AggregateLocation    AggregateType = "location"
	AggregateGrowingUnit AggregateType = "growing_unit"
)

// EntityType names the object inside the aggregate that the event is about.
type EntityType string

const (
	EntityLocation    EntityType = "location"
	EntityGrowingUnit EntityType = "growing_unit"
	EntityPlant       EntityType = "plant"
)

// Event is an immutable record of a state change, emitted by an aggregate
// method in the same call that mutated state.
type Event struct {
	ID            string
	AggregateID   string
	AggregateType AggregateType
	EntityID      string
	EntityType    EntityType
	Type          EventType
	OccurredAt    time.Time
	Payload       any
}

// FieldChanged is the payload of every *_changed event.
type FieldChanged struct {
	ID       string `json:"id"`
	OldValue any    `json:"oldValue"`
	NewValue any    `json:"newValue"`
}

// PlantSnapshot is the payload of plant_added and plant_removed.
type PlantSnapshot struct {
	GrowingUnitID string          `json:"growingUnitId"`
	Plant         PlantPrimitives `json:"plant"`
}

// EventQueue buffers uncommitted events. Aggregates embed it by value as a
// named field; it is not shared between aggregate instances.
type EventQueue struct {
	pending []Event
}

// Record appends an event to the buffer.
func (q *EventQueue) Record(e Event) {
	q.pending = append(q.pending, e)
}

// Uncommitted returns a copy of the buffered events in emission order.
func (q *EventQueue) Uncommitted() []Event {
	out := make([]Event, len(q.pending))
	copy(out, q.pending)
	return out
}

// Commit clears the buffer. Calling it again is a no-op.
func (q *EventQueue) Commit() {
	q.pending = nil
}

// Len returns the number of buffered events.
func (q *EventQueue) Len() int {
	return len(q.pending)
}

func newEvent(aggType AggregateType, aggID string, entType EntityType, entID string, typ EventType, at time.Time, payload any) Event {
	return Event{
		ID:            NewID(),
		AggregateID:   aggID,
		AggregateType: aggType,
		EntityID:      entID,
		EntityType:    entType,
		Type:          typ,
		OccurredAt:    at,
		Payload:       payload,
	}
}
