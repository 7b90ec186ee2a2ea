package component

import (
	"context"
	"fmt"
	"testing"
)

// mockComponent implements Component for testing.
type mockComponent struct {
	name       string
	startErr   error
	stopErr    error
	health     Health
	startOrder *[]string
	stopOrder  *[]string
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	if m.startOrder != nil {
		*m.startOrder = append(*m.startOrder, m.name)
	}
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	if m.stopOrder != nil {
		*m.stopOrder = append(*m.stopOrder, m.name)
	}
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) Health {
	return m.health
}

func TestRegister(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&mockComponent{name: "records"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register(&mockComponent{name: "records"}); err == nil {
		t.Error("expected error for duplicate registration")
	}
	if len(r.All()) != 1 {
		t.Errorf("expected 1 component, got %d", len(r.All()))
	}
}

func TestGet(t *testing.T) {
	r := NewRegistry()
	c := &mockComponent{name: "debugserver"}
	r.Register(c)

	if got := r.Get("debugserver"); got != c {
		t.Error("expected Get to return the registered component")
	}
	if r.Get("missing") != nil {
		t.Error("expected nil for unknown component")
	}
}

func TestStartAll(t *testing.T) {
	r := NewRegistry()
	order := []string{}

	r.Register(&mockComponent{name: "records", startOrder: &order})
	r.Register(&mockComponent{name: "radio", startOrder: &order})

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	if len(order) != 2 || order[0] != "records" || order[1] != "radio" {
		t.Errorf("expected start order [records radio], got %v", order)
	}

	// A second StartAll does not restart anything.
	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("second StartAll failed: %v", err)
	}
	if len(order) != 2 {
		t.Errorf("expected no restarts, got %v", order)
	}
}

func TestStartAllErrorThenStop(t *testing.T) {
	r := NewRegistry()
	stops := []string{}
	r.Register(&mockComponent{name: "records", stopOrder: &stops})
	r.Register(&mockComponent{name: "radio", startErr: fmt.Errorf("device missing"), stopOrder: &stops})

	if err := r.StartAll(context.Background()); err == nil {
		t.Fatal("expected error from StartAll")
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if len(stops) != 1 || stops[0] != "records" {
		t.Errorf("expected only the started component to stop, got %v", stops)
	}
}

func TestStopAllReverseOrder(t *testing.T) {
	r := NewRegistry()
	order := []string{}

	r.Register(&mockComponent{name: "records", stopOrder: &order})
	r.Register(&mockComponent{name: "notification", stopOrder: &order})
	r.Register(&mockComponent{name: "menu", stopOrder: &order})

	r.StartAll(context.Background())
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if len(order) != 3 || order[0] != "menu" || order[1] != "notification" || order[2] != "records" {
		t.Errorf("expected reverse stop order, got %v", order)
	}
}

func TestStopAllSkipsUnstarted(t *testing.T) {
	r := NewRegistry()
	order := []string{}
	r.Register(&mockComponent{name: "records", stopOrder: &order})

	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if len(order) != 0 {
		t.Errorf("expected 0 stops for unstarted components, got %d", len(order))
	}
}

func TestStopAllWithErrors(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockComponent{name: "records", stopErr: fmt.Errorf("stop failed")})
	r.StartAll(context.Background())

	if err := r.StopAll(context.Background()); err == nil {
		t.Error("expected error from StopAll")
	}
}

func TestHealthAll(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockComponent{
		name:   "records",
		health: Health{Name: "records", Status: StatusHealthy, Message: "3 entries"},
	})
	r.Register(&mockComponent{
		name:   "radio",
		health: Health{Status: StatusDegraded},
	})

	results := r.HealthAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Status != StatusHealthy {
		t.Errorf("expected records healthy, got %s", results[0].Status)
	}
	if results[1].Status != StatusDegraded {
		t.Errorf("expected radio degraded, got %s", results[1].Status)
	}
	if results[1].Name != "radio" {
		t.Errorf("expected missing name to be filled from component, got %q", results[1].Name)
	}
}
