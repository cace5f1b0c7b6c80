package workspace

import (
	"errors"
	"testing"
)

func TestActiveEmptySlot(t *testing.T) {
	w := New()
	w.Activate()
	w.Close()

	if _, err := Active(); !errors.Is(err, ErrNoActiveWorkspace) {
		t.Fatalf("expected ErrNoActiveWorkspace, got %v", err)
	}
}

func TestActivateLastWins(t *testing.T) {
	a := New()
	defer a.Close()
	b := New()
	defer b.Close()

	a.Activate()
	b.Activate()

	got, err := Active()
	if err != nil {
		t.Fatalf("Active failed: %v", err)
	}
	if got != b {
		t.Fatal("last activated workspace must win")
	}
}

func TestDeactivateOnlyOwnSlot(t *testing.T) {
	a := New()
	defer a.Close()
	b := New()
	defer b.Close()

	a.Activate()
	b.Deactivate() // not active, must not clear a's slot

	got, err := Active()
	if err != nil {
		t.Fatalf("Active failed: %v", err)
	}
	if got != a {
		t.Fatal("deactivating a non-active workspace must not clear the slot")
	}

	a.Deactivate()
	if _, err := Active(); !errors.Is(err, ErrNoActiveWorkspace) {
		t.Fatalf("expected ErrNoActiveWorkspace after deactivation, got %v", err)
	}
}

func TestActivateClosedWorkspace(t *testing.T) {
	w := New()
	w.Close()
	w.Activate()

	if _, err := Active(); !errors.Is(err, ErrNoActiveWorkspace) {
		t.Fatalf("closed workspace must not become active, got %v", err)
	}
}

func TestCloseDeactivates(t *testing.T) {
	w := New()
	w.Activate()
	w.Close()

	if _, err := Active(); !errors.Is(err, ErrNoActiveWorkspace) {
		t.Fatalf("expected ErrNoActiveWorkspace after Close, got %v", err)
	}
}

func TestWithActiveRestoresPrevious(t *testing.T) {
	outer := New()
	defer outer.Close()
	inner := New()
	defer inner.Close()

	outer.Activate()

	err := WithActive(inner, func() error {
		got, err := Active()
		if err != nil {
			return err
		}
		if got != inner {
			t.Fatal("inner workspace must be active inside the scope")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithActive failed: %v", err)
	}

	got, err := Active()
	if err != nil {
		t.Fatalf("Active failed after scope: %v", err)
	}
	if got != outer {
		t.Fatal("previous workspace must be restored after the scope")
	}
}

func TestWithActiveRestoresNone(t *testing.T) {
	w := New()
	defer w.Close()

	// Start with an empty slot.
	if active, err := Active(); err == nil {
		active.Deactivate()
	}

	if err := WithActive(w, func() error { return nil }); err != nil {
		t.Fatalf("WithActive failed: %v", err)
	}

	if _, err := Active(); !errors.Is(err, ErrNoActiveWorkspace) {
		t.Fatalf("expected empty slot to be restored, got %v", err)
	}
}

func TestWithActiveRestoresOnError(t *testing.T) {
	outer := New()
	defer outer.Close()
	inner := New()
	defer inner.Close()

	outer.Activate()

	wantErr := errors.New("scoped failure")
	if err := WithActive(inner, func() error { return wantErr }); !errors.Is(err, wantErr) {
		t.Fatalf("expected scoped error to propagate, got %v", err)
	}

	got, err := Active()
	if err != nil {
		t.Fatalf("Active failed after failing scope: %v", err)
	}
	if got != outer {
		t.Fatal("previous workspace must be restored even when the scope fails")
	}
}
