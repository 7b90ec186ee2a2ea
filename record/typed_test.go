package record

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/recordkit/errors"
)

type notifier interface {
	Notify(msg string) string
}

type led struct{}

func (led) Notify(msg string) string { return "blink:" + msg }

func TestTypedOpen(t *testing.T) {
	r := newTestRegistry()
	want := &radio{freq: 433_920_000}
	r.Create("radio", want)

	got := Open[*radio](r, "radio")
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
	r.Close("radio")
}

func TestTypedOpenInterface(t *testing.T) {
	r := newTestRegistry()
	r.Create("notification", led{})

	n := Open[notifier](r, "notification")
	if n.Notify("x") != "blink:x" {
		t.Error("expected the notifier payload")
	}
	r.Close("notification")
}

func TestTypedOpenNilPayload(t *testing.T) {
	r := newTestRegistry()
	r.Create("storage", nil)

	if got := Open[*radio](r, "storage"); got != nil {
		t.Errorf("expected nil pointer, got %v", got)
	}
	r.Close("storage")
	mustPanic(t, errors.ErrCodeTypeMismatch, func() { Open[int](r, "storage") })
}

func TestTypedOpenMismatchReleasesHolder(t *testing.T) {
	r := newTestRegistry()
	r.Create("radio", "not a radio")

	mustPanic(t, errors.ErrCodeTypeMismatch, func() { Open[*radio](r, "radio") })
	if r.Holders("radio") != 0 {
		t.Errorf("expected mismatch to release its holder, got %d", r.Holders("radio"))
	}
	mustPanic(t, errors.ErrCodeTypeMismatch, func() {
		_, _ = OpenContext[int](context.Background(), r, "radio")
	})
	if r.Holders("radio") != 0 {
		t.Errorf("expected 0 holders, got %d", r.Holders("radio"))
	}
}

func TestTypedOpenContext(t *testing.T) {
	r := newTestRegistry()
	go func() {
		time.Sleep(5 * time.Millisecond)
		r.Create("gui", 42)
	}()

	v, err := OpenContext[int](context.Background(), r, "gui")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42 {
		t.Errorf("expected 42, got %d", v)
	}
	r.Close("gui")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	if _, err := OpenContext[int](ctx, r, "dialogs"); err == nil {
		t.Error("expected timeout error")
	}
}

func TestAcquireAndRelease(t *testing.T) {
	r := newTestRegistry()
	payload := &radio{freq: 915_000_000}
	r.Create("radio", payload)

	lease, err := Acquire[*radio](context.Background(), r, "radio")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if lease.Value() != payload || lease.Name() != "radio" {
		t.Errorf("unexpected lease %+v", lease)
	}
	if _, err := uuid.Parse(lease.ID()); err != nil {
		t.Errorf("expected UUID lease id, got %q", lease.ID())
	}
	if r.Holders("radio") != 1 {
		t.Errorf("expected 1 holder, got %d", r.Holders("radio"))
	}

	leases := r.Leases()
	if len(leases) != 1 || leases[0].ID != lease.ID() || leases[0].Type != "*record.radio" {
		t.Fatalf("unexpected lease table %+v", leases)
	}
	if info, ok := r.LookupLease(lease.ID()); !ok || info.Name != "radio" {
		t.Errorf("expected lease lookup to succeed, got %+v", info)
	}

	lease.Release()
	lease.Release()
	if r.Holders("radio") != 0 {
		t.Errorf("expected Release to close exactly once, got %d holders", r.Holders("radio"))
	}
	if len(r.Leases()) != 0 {
		t.Error("expected lease table to be empty")
	}
	if !r.Destroy("radio") {
		t.Error("expected destroy after release")
	}
}

func TestAcquireCanceled(t *testing.T) {
	r := newTestRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	lease, err := Acquire[string](ctx, r, "gui")
	if err == nil || lease != nil {
		t.Fatalf("expected error and no lease, got %v, %v", lease, err)
	}
	if len(r.Leases()) != 0 || r.Holders("gui") != 0 {
		t.Error("expected nothing to be held after a failed acquire")
	}
}

func TestLeasesOrdered(t *testing.T) {
	r := newTestRegistry()
	r.Create("gui", 1)
	r.Create("radio", 2)

	first, _ := Acquire[int](context.Background(), r, "gui")
	time.Sleep(time.Millisecond)
	second, _ := Acquire[int](context.Background(), r, "radio")
	defer first.Release()
	defer second.Release()

	leases := r.Leases()
	if len(leases) != 2 || leases[0].ID != first.ID() || leases[1].ID != second.ID() {
		t.Errorf("expected leases oldest first, got %+v", leases)
	}
}
