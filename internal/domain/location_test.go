package domain_test

import (
	"testing"

	"github.com/neomorfeo/growspace/internal/domain"
)

func TestNewLocation(t *testing.T) {
	loc, err := domain.NewLocation(domain.NewLocationParams{Name: "Balcony", Type: "BALCONY"})
	if err != nil {
		t.Fatalf("NewLocation: %v", err)
	}

	if loc.Name() != "Balcony" {
		t.Errorf("Name = %q, want %q", loc.Name(), "Balcony")
	}
	if loc.Type() != domain.LocationBalcony {
		t.Errorf("Type = %q, want %q", loc.Type(), domain.LocationBalcony)
	}
	if loc.UpdatedAt() != loc.CreatedAt() {
		t.Error("UpdatedAt should equal CreatedAt on new location")
	}

	events := loc.UncommittedEvents()
	if len(events) != 1 || events[0].Type != domain.EventLocationCreated {
		t.Fatalf("events = %+v, want one location.created", events)
	}
	if events[0].AggregateType != domain.AggregateLocation {
		t.Errorf("AggregateType = %q, want %q", events[0].AggregateType, domain.AggregateLocation)
	}
}

func TestNewLocation_InvalidType(t *testing.T) {
	_, err := domain.NewLocation(domain.NewLocationParams{Name: "Attic", Type: "ATTIC"})
	if !domain.IsInvariantViolation(err) {
		t.Errorf("expected invariant violation, got %v", err)
	}
}

func TestLocation_Changes(t *testing.T) {
	loc, _ := domain.NewLocation(domain.NewLocationParams{Name: "Balcony", Type: "BALCONY"})
	loc.Commit()

	if err := loc.ChangeName("South balcony"); err != nil {
		t.Fatalf("ChangeName: %v", err)
	}
	if err := loc.ChangeType("TERRACE"); err != nil {
		t.Fatalf("ChangeType: %v", err)
	}
	if err := loc.ChangeDimensions(&domain.DimensionsPrimitives{Length: 4, Width: 2, Height: 3, Unit: "METERS"}); err != nil {
		t.Fatalf("ChangeDimensions: %v", err)
	}

	want := []domain.EventType{
		domain.EventLocationNameChanged,
		domain.EventLocationTypeChanged,
		domain.EventLocationDimensionsChanged,
	}
	events := loc.UncommittedEvents()
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, typ := range want {
		if events[i].Type != typ {
			t.Errorf("event %d = %q, want %q", i, events[i].Type, typ)
		}
	}
	if loc.Dimensions().Area() != 8 {
		t.Errorf("Area = %v, want 8", loc.Dimensions().Area())
	}
}

func TestLocationFromPrimitives_RoundTrip(t *testing.T) {
	loc, _ := domain.NewLocation(domain.NewLocationParams{Name: "Greenhouse", Type: "GREENHOUSE"})

	rebuilt, err := domain.LocationFromPrimitives(loc.ToPrimitives())
	if err != nil {
		t.Fatalf("LocationFromPrimitives: %v", err)
	}
	if rebuilt.ToPrimitives() != loc.ToPrimitives() {
		t.Errorf("got %+v, want %+v", rebuilt.ToPrimitives(), loc.ToPrimitives())
	}
	if len(rebuilt.UncommittedEvents()) != 0 {
		t.Error("reconstruction recorded events")
	}
}
