package chat

import (
	"errors"
	"testing"
)

func TestRegistryCeiling(t *testing.T) {
	r := NewRegistry(2)

	if err := r.Add(newFakeConn("a")); err != nil {
		t.Fatalf("add a: %v", err)
	}
	if err := r.Add(newFakeConn("b")); err != nil {
		t.Fatalf("add b: %v", err)
	}
	if err := r.Add(newFakeConn("c")); !errors.Is(err, ErrServerFull) {
		t.Fatalf("expected ErrServerFull, got %v", err)
	}
	if r.Len() != 2 {
		t.Fatalf("rejected connect must create no state, len %d", r.Len())
	}
}

func TestRegistryNames(t *testing.T) {
	r := NewRegistry(0)

	c := newFakeConn("a")
	if err := r.Add(c); err != nil {
		t.Fatalf("add: %v", err)
	}

	if got := r.Name("a"); got != fallbackName {
		t.Fatalf("unbound name should fall back, got %q", got)
	}

	r.BindName("a", "alice")
	if got := r.Name("a"); got != "alice" {
		t.Fatalf("expected bound name, got %q", got)
	}

	// Names only bind to registered connections.
	r.BindName("ghost", "nobody")
	if got := r.Name("ghost"); got != fallbackName {
		t.Fatalf("unregistered conn must not bind a name, got %q", got)
	}

	r.Remove("a")
	if got := r.Name("a"); got != fallbackName {
		t.Fatalf("removed conn should lose its name, got %q", got)
	}
}

func TestRegistryRemoveIdempotent(t *testing.T) {
	r := NewRegistry(0)
	c := newFakeConn("a")
	if err := r.Add(c); err != nil {
		t.Fatalf("add: %v", err)
	}

	if !r.Remove("a") {
		t.Fatal("first remove should report removal")
	}
	if r.Remove("a") {
		t.Fatal("second remove must be a no-op")
	}
}
