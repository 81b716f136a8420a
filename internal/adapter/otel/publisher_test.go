package otel_test

import (
	"context"
	"fmt"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	adapter "github.com/neomorfeo/growspace/internal/adapter/otel"
	"github.com/neomorfeo/growspace/internal/app"
	"github.com/neomorfeo/growspace/internal/domain"
)

// --- Mock publisher ---

type mockPublisher struct {
	batches [][]domain.Event
}

func (m *mockPublisher) Publish(_ context.Context, events []domain.Event) error {
	m.batches = append(m.batches, events)
	return nil
}

type failingPublisher struct{}

func (p *failingPublisher) Publish(_ context.Context, _ []domain.Event) error {
	return fmt.Errorf("publish failed")
}

// --- Mock projector ---

type stubProjector struct {
	err   error
	calls int
}

func (p *stubProjector) Name() string { return "stub_view" }

func (p *stubProjector) EventTypes() []domain.EventType {
	return []domain.EventType{domain.EventPlantAdded}
}

func (p *stubProjector) Project(_ context.Context, _ domain.Event) error {
	p.calls++
	return p.err
}

type panickingProjector struct{ stubProjector }

func (p *panickingProjector) Project(_ context.Context, _ domain.Event) error {
	panic("boom")
}

func setupTestMeter(t *testing.T) *sdkmetric.ManualReader {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(mp)
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return reader
}

// projectionOutcomes sums the projections counter by outcome attribute.
func projectionOutcomes(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collecting metrics: %v", err)
	}
	out := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "growspace.projections" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("projections data = %T, want Sum[int64]", m.Data)
			}
			for _, dp := range sum.DataPoints {
				v, _ := dp.Attributes.Value("outcome")
				out[v.AsString()] += dp.Value
			}
		}
	}
	return out
}

func sampleEvents() []domain.Event {
	return []domain.Event{
		{ID: "e-1", AggregateID: "u-1", AggregateType: domain.AggregateGrowingUnit, Type: domain.EventGrowingUnitCreated},
		{ID: "e-2", AggregateID: "u-1", AggregateType: domain.AggregateGrowingUnit, Type: domain.EventPlantAdded},
	}
}

// --- Tests ---

func TestTracingPublisher_Publish_RecordsSpan(t *testing.T) {
	exporter := setupTestTracer(t)
	inner := &mockPublisher{}
	pub := adapter.NewTracingPublisher(inner)

	if err := pub.Publish(context.Background(), sampleEvents()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Name != "EventPublisher.Publish" {
		t.Errorf("span name = %q, want %q", spans[0].Name, "EventPublisher.Publish")
	}

	assertAttribute(t, spans[0], "event.count", "2")
	assertAttribute(t, spans[0], "aggregate.id", "u-1")
	assertAttribute(t, spans[0], "aggregate.type", "growing_unit")

	if len(inner.batches) != 1 || len(inner.batches[0]) != 2 {
		t.Fatalf("expected one batch of 2 events, got %v", inner.batches)
	}
}

func TestTracingPublisher_Publish_RecordsError(t *testing.T) {
	exporter := setupTestTracer(t)
	pub := adapter.NewTracingPublisher(&failingPublisher{})

	err := pub.Publish(context.Background(), sampleEvents())
	if err == nil {
		t.Fatal("expected error")
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Status.Code != codes.Error {
		t.Errorf("span status = %v, want %v", spans[0].Status.Code, codes.Error)
	}
}

func TestTracingProjector_DelegatesAndRecordsSpan(t *testing.T) {
	exporter := setupTestTracer(t)
	inner := &stubProjector{}
	wrapped := adapter.WrapProjectors([]app.Projector{inner})
	p := wrapped[0]

	if p.Name() != "stub_view" {
		t.Errorf("Name = %q, want %q", p.Name(), "stub_view")
	}
	if got := p.EventTypes(); len(got) != 1 || got[0] != domain.EventPlantAdded {
		t.Errorf("EventTypes = %v, want [%s]", got, domain.EventPlantAdded)
	}

	if err := p.Project(context.Background(), sampleEvents()[1]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Name != "Projector.Project" {
		t.Errorf("span name = %q, want %q", spans[0].Name, "Projector.Project")
	}
	assertAttribute(t, spans[0], "projector.name", "stub_view")
	assertAttribute(t, spans[0], "event.type", "growing_unit.plant_added")
}

func TestTracingProjector_RecordsError(t *testing.T) {
	exporter := setupTestTracer(t)
	p := adapter.NewTracingProjector(&stubProjector{err: fmt.Errorf("view store down")})

	if err := p.Project(context.Background(), sampleEvents()[1]); err == nil {
		t.Fatal("expected error")
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Status.Code != codes.Error {
		t.Errorf("span status = %v, want %v", spans[0].Status.Code, codes.Error)
	}
}

func TestTracingProjector_PanicEndsSpanAndCountsError(t *testing.T) {
	exporter := setupTestTracer(t)
	reader := setupTestMeter(t)
	p := adapter.NewTracingProjector(&panickingProjector{})

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected the panic to propagate")
			}
		}()
		_ = p.Project(context.Background(), sampleEvents()[1])
	}()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d ended spans, want 1", len(spans))
	}
	if spans[0].Status.Code != codes.Error {
		t.Errorf("span status = %v, want %v", spans[0].Status.Code, codes.Error)
	}
	if got := projectionOutcomes(t, reader); got["error"] != 1 || got["ok"] != 0 {
		t.Errorf("outcomes = %v, want one error", got)
	}
}

func TestTracingProjector_CountsSuccess(t *testing.T) {
	setupTestTracer(t)
	reader := setupTestMeter(t)
	p := adapter.NewTracingProjector(&stubProjector{})

	if err := p.Project(context.Background(), sampleEvents()[1]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := projectionOutcomes(t, reader); got["ok"] != 1 {
		t.Errorf("outcomes = %v, want one ok", got)
	}
}
