package domain_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/neomorfeo/growspace/internal/domain"
)

const testLocationID = "6f1c2a1e-3b52-4b8e-9a39-0d7c1f0b5e11"

func newUnit(t *testing.T, capacity int) *domain.GrowingUnit {
	t.Helper()
	unit, err := domain.NewGrowingUnit(domain.NewGrowingUnitParams{
		LocationID: testLocationID,
		Name:       "Herb pot",
		Type:       "POT",
		Capacity:   capacity,
	})
	if err != nil {
		t.Fatalf("NewGrowingUnit: %v", err)
	}
	unit.Commit()
	return unit
}

func newPlant(t *testing.T, name string) *domain.Plant {
	t.Helper()
	p, err := domain.NewPlant(domain.NewPlantParams{Name: name, Species: "Ocimum basilicum"})
	if err != nil {
		t.Fatalf("NewPlant: %v", err)
	}
	return p
}

func TestNewGrowingUnit_RecordsCreated(t *testing.T) {
	unit, err := domain.NewGrowingUnit(domain.NewGrowingUnitParams{
		LocationID: testLocationID,
		Name:       "Bed A",
		Type:       "GARDEN_BED",
		Capacity:   10,
		Dimensions: &domain.DimensionsPrimitives{Length: 2, Width: 1, Height: 0.5, Unit: "METERS"},
	})
	if err != nil {
		t.Fatalf("NewGrowingUnit: %v", err)
	}

	events := unit.UncommittedEvents()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Type != domain.EventGrowingUnitCreated {
		t.Errorf("event type = %q, want %q", events[0].Type, domain.EventGrowingUnitCreated)
	}
	if events[0].AggregateID != unit.ID() {
		t.Errorf("AggregateID = %q, want %q", events[0].AggregateID, unit.ID())
	}
	if unit.RemainingCapacity() != 10 {
		t.Errorf("RemainingCapacity() = %d, want 10", unit.RemainingCapacity())
	}
}

func TestNewGrowingUnit_InvalidInput(t *testing.T) {
	cases := []struct {
		name   string
		params domain.NewGrowingUnitParams
	}{
		{"zero capacity", domain.NewGrowingUnitParams{LocationID: testLocationID, Name: "x", Type: "POT", Capacity: 0}},
		{"negative capacity", domain.NewGrowingUnitParams{LocationID: testLocationID, Name: "x", Type: "POT", Capacity: -1}},
		{"bad type", domain.NewGrowingUnitParams{LocationID: testLocationID, Name: "x", Type: "BUCKET", Capacity: 1}},
		{"empty name", domain.NewGrowingUnitParams{LocationID: testLocationID, Name: "  ", Type: "POT", Capacity: 1}},
		{"bad location", domain.NewGrowingUnitParams{LocationID: "nope", Name: "x", Type: "POT", Capacity: 1}},
	}
	for _, tc := range cases {
		_, err := domain.NewGrowingUnit(tc.params)
		if !domain.IsInvariantViolation(err) {
			t.Errorf("%s: expected invariant violation, got %v", tc.name, err)
		}
	}
}

func TestGrowingUnitFromPrimitives_RecordsNoEvents(t *testing.T) {
	original := newUnit(t, 3)
	if err := original.AddPlant(newPlant(t, "Basil")); err != nil {
		t.Fatalf("AddPlant: %v", err)
	}

	rebuilt, err := domain.GrowingUnitFromPrimitives(original.ToPrimitives())
	if err != nil {
		t.Fatalf("GrowingUnitFromPrimitives: %v", err)
	}
	if n := len(rebuilt.UncommittedEvents()); n != 0 {
		t.Errorf("got %d events, want 0", n)
	}
	if !reflect.DeepEqual(rebuilt.ToPrimitives(), original.ToPrimitives()) {
		t.Errorf("primitives differ after rebuild:\n got %+v\nwant %+v", rebuilt.ToPrimitives(), original.ToPrimitives())
	}
}

func TestAddPlant_CapacityScenario(t *testing.T) {
	unit := newUnit(t, 10)

	var plants []*domain.Plant
	for i := range 10 {
		p := newPlant(t, fmt.Sprintf("plant-%d", i))
		if err := unit.AddPlant(p); err != nil {
			t.Fatalf("AddPlant #%d: %v", i+1, err)
		}
		plants = append(plants, p)
	}

	before := unit.ToPrimitives()
	eventsBefore := len(unit.UncommittedEvents())

	err := unit.AddPlant(newPlant(t, "one too many"))
	var capErr *domain.CapacityExceededError
	if !errors.As(err, &capErr) {
		t.Fatalf("11th AddPlant: expected CapacityExceededError, got %v", err)
	}
	if !reflect.DeepEqual(unit.ToPrimitives(), before) {
		t.Error("failed AddPlant changed aggregate state")
	}
	if len(unit.UncommittedEvents()) != eventsBefore {
		t.Error("failed AddPlant recorded an event")
	}
	if unit.RemainingCapacity() != 0 {
		t.Errorf("RemainingCapacity() = %d, want 0", unit.RemainingCapacity())
	}

	if err := unit.RemovePlant(plants[0].ID()); err != nil {
		t.Fatalf("RemovePlant: %v", err)
	}
	if unit.RemainingCapacity() != 1 {
		t.Errorf("RemainingCapacity() after remove = %d, want 1", unit.RemainingCapacity())
	}

	if err := unit.AddPlant(newPlant(t, "replacement")); err != nil {
		t.Fatalf("re-add after remove: %v", err)
	}
	if unit.RemainingCapacity() != 0 {
		t.Errorf("RemainingCapacity() after re-add = %d, want 0", unit.RemainingCapacity())
	}
}

func TestAddPlant_RecordsSnapshot(t *testing.T) {
	unit := newUnit(t, 2)
	p := newPlant(t, "Basil")

	if err := unit.AddPlant(p); err != nil {
		t.Fatalf("AddPlant: %v", err)
	}

	events := unit.UncommittedEvents()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	evt := events[0]
	if evt.Type != domain.EventPlantAdded {
		t.Errorf("type = %q, want %q", evt.Type, domain.EventPlantAdded)
	}
	snap, ok := evt.Payload.(domain.PlantSnapshot)
	if !ok {
		t.Fatalf("payload type = %T, want PlantSnapshot", evt.Payload)
	}
	if snap.GrowingUnitID != unit.ID() || snap.Plant.ID != p.ID() {
		t.Errorf("snapshot = %+v, want unit %q plant %q", snap, unit.ID(), p.ID())
	}
	if evt.EntityType != domain.EntityPlant || evt.EntityID != p.ID() {
		t.Errorf("entity = %s/%s, want plant/%s", evt.EntityType, evt.EntityID, p.ID())
	}
}

func TestRemovePlant_Unknown(t *testing.T) {
	unit := newUnit(t, 2)

	err := unit.RemovePlant("missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if len(unit.UncommittedEvents()) != 0 {
		t.Error("RemovePlant of unknown plant recorded an event")
	}
}

func TestCapacityInvariant_RandomSequence(t *testing.T) {
	unit := newUnit(t, 3)
	var held []string

	// Deterministic interleaving of adds and removes.
	ops := "aaaaraaarrraaaaaar"
	for i, op := range ops {
		switch op {
		case 'a':
			p := newPlant(t, fmt.Sprintf("p%d", i))
			if err := unit.AddPlant(p); err == nil {
				held = append(held, p.ID())
			}
		case 'r':
			if len(held) > 0 {
				if err := unit.RemovePlant(held[0]); err != nil {
					t.Fatalf("RemovePlant: %v", err)
				}
				held = held[1:]
			}
		}
		if unit.PlantCount() > unit.Capacity().Int() {
			t.Fatalf("after op %d: %d plants exceeds capacity %d", i, unit.PlantCount(), unit.Capacity().Int())
		}
	}
}

func TestFieldChanges_PairEachMutationWithOneEvent(t *testing.T) {
	unit := newUnit(t, 5)
	p := newPlant(t, "Basil")
	if err := unit.AddPlant(p); err != nil {
		t.Fatalf("AddPlant: %v", err)
	}
	unit.Commit()

	planted := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	steps := []struct {
		name     string
		mutate   func() error
		typ      domain.EventType
		oldValue any
		newValue any
	}{
		{"name", func() error { return unit.ChangeName("Kitchen pot") }, domain.EventGrowingUnitNameChanged, "Herb pot", "Kitchen pot"},
		{"type", func() error { return unit.ChangeType("WINDOW_BOX") }, domain.EventGrowingUnitTypeChanged, "POT", "WINDOW_BOX"},
		{"capacity", func() error { return unit.ChangeCapacity(8) }, domain.EventGrowingUnitCapacityChanged, 5, 8},
		{"plant name", func() error { return unit.ChangePlantName(p.ID(), "Thai basil") }, domain.EventPlantNameChanged, "Basil", "Thai basil"},
		{"plant notes", func() error { return unit.ChangePlantNotes(p.ID(), "water daily") }, domain.EventPlantNotesChanged, "", "water daily"},
		{"plant status", func() error { return unit.ChangePlantStatus(p.ID(), "GROWING") }, domain.EventPlantStatusChanged, "PLANTED", "GROWING"},
		{"plant species", func() error { return unit.ChangePlantSpecies(p.ID(), "Ocimum tenuiflorum") }, domain.EventPlantSpeciesChanged, "Ocimum basilicum", "Ocimum tenuiflorum"},
	}

	for _, step := range steps {
		before := len(unit.UncommittedEvents())
		if err := step.mutate(); err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		events := unit.UncommittedEvents()
		if len(events) != before+1 {
			t.Fatalf("%s: buffer grew by %d, want 1", step.name, len(events)-before)
		}
		last := events[len(events)-1]
		if last.Type != step.typ {
			t.Errorf("%s: type = %q, want %q", step.name, last.Type, step.typ)
		}
		payload, ok := last.Payload.(domain.FieldChanged)
		if !ok {
			t.Fatalf("%s: payload type = %T, want FieldChanged", step.name, last.Payload)
		}
		if payload.OldValue != step.oldValue || payload.NewValue != step.newValue {
			t.Errorf("%s: old/new = %v/%v, want %v/%v", step.name, payload.OldValue, payload.NewValue, step.oldValue, step.newValue)
		}
	}

	before := len(unit.UncommittedEvents())
	if err := unit.ChangePlantPlantedDate(p.ID(), &planted); err != nil {
		t.Fatalf("planted date: %v", err)
	}
	if len(unit.UncommittedEvents()) != before+1 {
		t.Error("planted date change did not record exactly one event")
	}
}

func TestFieldChanges_SameValueIsNoop(t *testing.T) {
	unit := newUnit(t, 5)

	if err := unit.ChangeName("Herb pot"); err != nil {
		t.Fatalf("ChangeName: %v", err)
	}
	if err := unit.ChangeCapacity(5); err != nil {
		t.Fatalf("ChangeCapacity: %v", err)
	}
	if n := len(unit.UncommittedEvents()); n != 0 {
		t.Errorf("got %d events for unchanged values, want 0", n)
	}
}

func TestChangeCapacity_BelowPlantCount(t *testing.T) {
	unit := newUnit(t, 3)
	for i := range 3 {
		if err := unit.AddPlant(newPlant(t, fmt.Sprintf("p%d", i))); err != nil {
			t.Fatalf("AddPlant: %v", err)
		}
	}
	unit.Commit()

	err := unit.ChangeCapacity(2)
	var capErr *domain.CapacityExceededError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected CapacityExceededError, got %v", err)
	}
	if unit.Capacity().Int() != 3 {
		t.Errorf("capacity = %d, want 3", unit.Capacity().Int())
	}
	if len(unit.UncommittedEvents()) != 0 {
		t.Error("rejected capacity change recorded an event")
	}
}

func TestChangeDimensions_SetAndClear(t *testing.T) {
	unit := newUnit(t, 1)
	dims := &domain.DimensionsPrimitives{Length: 30, Width: 30, Height: 25, Unit: "CENTIMETERS"}

	if err := unit.ChangeDimensions(dims); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := unit.ChangeDimensions(dims); err != nil {
		t.Fatalf("set again: %v", err)
	}
	if err := unit.ChangeDimensions(nil); err != nil {
		t.Fatalf("clear: %v", err)
	}

	events := unit.UncommittedEvents()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	cleared := events[1].Payload.(domain.FieldChanged)
	if cleared.NewValue != (*domain.DimensionsPrimitives)(nil) {
		t.Errorf("cleared NewValue = %v, want nil", cleared.NewValue)
	}
	if unit.Dimensions() != nil {
		t.Error("Dimensions() should be nil after clear")
	}
}

func TestCommit_Idempotent(t *testing.T) {
	unit := newUnit(t, 2)
	if err := unit.AddPlant(newPlant(t, "Basil")); err != nil {
		t.Fatalf("AddPlant: %v", err)
	}

	unit.Commit()
	if n := len(unit.UncommittedEvents()); n != 0 {
		t.Fatalf("after first Commit: %d events, want 0", n)
	}
	unit.Commit()
	if n := len(unit.UncommittedEvents()); n != 0 {
		t.Errorf("after second Commit: %d events, want 0", n)
	}
}

func TestUncommittedEvents_ReturnsCopy(t *testing.T) {
	unit := newUnit(t, 2)
	if err := unit.ChangeName("Renamed"); err != nil {
		t.Fatalf("ChangeName: %v", err)
	}

	events := unit.UncommittedEvents()
	events[0].Type = "tampered"

	if unit.UncommittedEvents()[0].Type != domain.EventGrowingUnitNameChanged {
		t.Error("mutating the returned slice changed the aggregate buffer")
	}
}

func TestChangePlantStatus_InvalidEnum(t *testing.T) {
	unit := newUnit(t, 1)
	p := newPlant(t, "Basil")
	if err := unit.AddPlant(p); err != nil {
		t.Fatalf("AddPlant: %v", err)
	}
	unit.Commit()

	var enumErr *domain.InvalidEnumError
	if err := unit.ChangePlantStatus(p.ID(), "WILTING"); !errors.As(err, &enumErr) {
		t.Errorf("expected InvalidEnumError, got %v", err)
	}
}

func TestChangePlantStatus_LeavesLifecycleOrderToCaller(t *testing.T) {
	unit := newUnit(t, 1)
	p := newPlant(t, "Basil")
	if err := unit.AddPlant(p); err != nil {
		t.Fatalf("AddPlant: %v", err)
	}
	unit.Commit()

	if err := unit.ChangePlantStatus(p.ID(), "HARVESTED"); err != nil {
		t.Fatalf("PLANTED -> HARVESTED at the aggregate: %v", err)
	}
	if got := unit.Plants()[0].Status(); got != domain.PlantHarvested {
		t.Errorf("Status = %q, want %q", got, domain.PlantHarvested)
	}
}

func TestMarkDeleted_CarriesFinalState(t *testing.T) {
	unit := newUnit(t, 2)
	p := newPlant(t, "Basil")
	if err := unit.AddPlant(p); err != nil {
		t.Fatalf("AddPlant: %v", err)
	}
	unit.Commit()

	unit.MarkDeleted()

	events := unit.UncommittedEvents()
	if len(events) != 1 || events[0].Type != domain.EventGrowingUnitDeleted {
		t.Fatalf("events = %+v, want one growing_unit.deleted", events)
	}
	prims, ok := events[0].Payload.(domain.GrowingUnitPrimitives)
	if !ok {
		t.Fatalf("payload type = %T, want GrowingUnitPrimitives", events[0].Payload)
	}
	if len(prims.Plants) != 1 || prims.Plants[0].ID != p.ID() {
		t.Errorf("payload plants = %+v, want [%s]", prims.Plants, p.ID())
	}
}
