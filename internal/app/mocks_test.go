package app_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/neomorfeo/growspace/internal/app"
	"github.com/neomorfeo/growspace/internal/domain"
)

// --- Mocks ---

// mockUnitRepo stores primitives so every load returns a fresh aggregate,
// like a real store would.
type mockUnitRepo struct {
	mu      sync.Mutex
	units   map[string]domain.GrowingUnitPrimitives
	saveErr func(domain.GrowingUnitPrimitives) error
	saves   int
}

func newMockUnitRepo() *mockUnitRepo {
	return &mockUnitRepo{units: make(map[string]domain.GrowingUnitPrimitives)}
}

func (m *mockUnitRepo) FindByID(_ context.Context, id string) (*domain.GrowingUnit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.units[id]
	if !ok {
		return nil, &domain.NotFoundError{Kind: "growing unit", ID: id}
	}
	return domain.GrowingUnitFromPrimitives(p)
}

func (m *mockUnitRepo) FindByLocationID(_ context.Context, locationID string) ([]*domain.GrowingUnit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.GrowingUnit
	for _, p := range m.units {
		if p.LocationID != locationID {
			continue
		}
		u, err := domain.GrowingUnitFromPrimitives(p)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

func (m *mockUnitRepo) ListIDs(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.units))
	for id := range m.units {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (m *mockUnitRepo) Save(_ context.Context, u *domain.GrowingUnit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		if err := m.saveErr(u.ToPrimitives()); err != nil {
			return err
		}
	}
	m.saves++
	u.MarkPersisted(u.Version() + 1)
	m.units[u.ID()] = u.ToPrimitives()
	return nil
}

func (m *mockUnitRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.units[id]; !ok {
		return &domain.NotFoundError{Kind: "growing unit", ID: id}
	}
	delete(m.units, id)
	return nil
}

func (m *mockUnitRepo) stored(id string) (domain.GrowingUnitPrimitives, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.units[id]
	return p, ok
}

type mockLocationRepo struct {
	mu        sync.Mutex
	locations map[string]domain.LocationPrimitives
}

func newMockLocationRepo() *mockLocationRepo {
	return &mockLocationRepo{locations: make(map[string]domain.LocationPrimitives)}
}

func (m *mockLocationRepo) FindByID(_ context.Context, id string) (*domain.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.locations[id]
	if !ok {
		return nil, &domain.NotFoundError{Kind: "location", ID: id}
	}
	return domain.LocationFromPrimitives(p)
}

func (m *mockLocationRepo) FindByName(_ context.Context, name string) (*domain.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.locations {
		if p.Name == name {
			return domain.LocationFromPrimitives(p)
		}
	}
	return nil, &domain.NotFoundError{Kind: "location", ID: name}
}

func (m *mockLocationRepo) ListIDs(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.locations))
	for id := range m.locations {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (m *mockLocationRepo) Save(_ context.Context, l *domain.Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.MarkPersisted(l.Version() + 1)
	m.locations[l.ID()] = l.ToPrimitives()
	return nil
}

func (m *mockLocationRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locations, id)
	return nil
}

type mockPublisher struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (m *mockPublisher) Publish(_ context.Context, events []domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return m.err
}

func (m *mockPublisher) types() []domain.EventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.EventType, len(m.events))
	for i, e := range m.events {
		out[i] = e.Type
	}
	return out
}

func (m *mockPublisher) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}

// mockValidator allows only the transitions it was given.
type mockValidator struct {
	allowed map[domain.PlantStatus][]domain.PlantStatus
}

func newMockValidator() *mockValidator {
	allowed := make(map[domain.PlantStatus][]domain.PlantStatus)
	for _, tr := range domain.PlantTransitions {
		allowed[tr.Src] = append(allowed[tr.Src], tr.Dst)
	}
	return &mockValidator{allowed: allowed}
}

func (m *mockValidator) Apply(_ context.Context, current, target domain.PlantStatus) (domain.PlantStatus, error) {
	if slices.Contains(m.allowed[current], target) {
		return target, nil
	}
	return current, &domain.TransitionError{Current: current, Target: target}
}

var errBoom = errors.New("boom")

// --- Fixtures ---

type fixture struct {
	units     *mockUnitRepo
	locations *mockLocationRepo
	pub       *mockPublisher
	locSvc    *app.LocationService
	unitSvc   *app.GrowingUnitService
	plantSvc  *app.PlantService
}

func newFixture() *fixture {
	f := &fixture{
		units:     newMockUnitRepo(),
		locations: newMockLocationRepo(),
		pub:       &mockPublisher{},
	}
	f.locSvc = app.NewLocationService(f.locations, f.units, f.pub, nil)
	f.unitSvc = app.NewGrowingUnitService(f.units, f.locations, f.pub, nil)
	f.plantSvc = app.NewPlantService(f.units, f.pub, newMockValidator(), nil)
	return f
}

func (f *fixture) location(t *testing.T, name string) string {
	t.Helper()
	id, err := f.locSvc.Create(context.Background(), app.CreateLocationCommand{Name: name, Type: "BALCONY"})
	if err != nil {
		t.Fatalf("creating location: %v", err)
	}
	return id
}

func (f *fixture) unit(t *testing.T, locationID string, capacity int) string {
	t.Helper()
	id, err := f.unitSvc.Create(context.Background(), app.CreateGrowingUnitCommand{
		LocationID: locationID,
		Name:       "Pot",
		Type:       "POT",
		Capacity:   capacity,
	})
	if err != nil {
		t.Fatalf("creating growing unit: %v", err)
	}
	return id
}

func (f *fixture) plant(t *testing.T, unitID, name string) string {
	t.Helper()
	id, err := f.plantSvc.Add(context.Background(), app.AddPlantCommand{GrowingUnitID: unitID, Name: name, Species: "Ocimum basilicum"})
	if err != nil {
		t.Fatalf("adding plant: %v", err)
	}
	return id
}
