package presence

import (
	"testing"

	"github.com/mehular0ra/pingme/pkg/models"
)

type fakeSession struct {
	delivered []models.Event
	accept    bool
}

func (s *fakeSession) Deliver(event models.Event) bool {
	s.delivered = append(s.delivered, event)
	return s.accept
}

func TestBindAndLookup(t *testing.T) {
	r := NewRegistry()
	s := &fakeSession{accept: true}

	r.Bind("1234", s)

	got, ok := r.Lookup("1234")
	if !ok {
		t.Fatal("Lookup after Bind returned ok=false")
	}
	if got != s {
		t.Error("Lookup returned a different session than was bound")
	}
	if _, ok := r.Lookup("5678"); ok {
		t.Error("Lookup of unbound code returned ok=true")
	}
}

func TestLastRegisterWins(t *testing.T) {
	r := NewRegistry()
	old := &fakeSession{accept: true}
	fresh := &fakeSession{accept: true}

	r.Bind("1234", old)
	r.Bind("1234", fresh)

	got, ok := r.Lookup("1234")
	if !ok {
		t.Fatal("Lookup returned ok=false after rebind")
	}
	if got != fresh {
		t.Error("rebind did not replace the old session")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestUnbindReturnsCode(t *testing.T) {
	r := NewRegistry()
	s := &fakeSession{}
	r.Bind("4321", s)

	code, ok := r.Unbind(s)
	if !ok {
		t.Fatal("Unbind of bound session returned ok=false")
	}
	if code != "4321" {
		t.Errorf("Unbind returned code %q, want %q", code, "4321")
	}
	if _, ok := r.Lookup("4321"); ok {
		t.Error("session still reachable after Unbind")
	}
}

// A session replaced by a newer bind must not tear down the new binding
// when its own disconnect is processed.
func TestUnbindStaleSessionIsNoOp(t *testing.T) {
	r := NewRegistry()
	old := &fakeSession{}
	fresh := &fakeSession{}

	r.Bind("1234", old)
	r.Bind("1234", fresh)

	if _, ok := r.Unbind(old); ok {
		t.Fatal("Unbind of superseded session returned ok=true")
	}

	got, ok := r.Lookup("1234")
	if !ok || got != fresh {
		t.Error("stale unbind removed the fresh session")
	}
}

func TestUnbindNeverRegistered(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Unbind(&fakeSession{}); ok {
		t.Error("Unbind of never-registered session returned ok=true")
	}
}

func TestCodesSnapshot(t *testing.T) {
	r := NewRegistry()
	r.Bind("1111", &fakeSession{})
	r.Bind("2222", &fakeSession{})

	codes := r.Codes()
	if len(codes) != 2 {
		t.Fatalf("Codes() returned %d entries, want 2", len(codes))
	}
	seen := map[string]bool{}
	for _, c := range codes {
		seen[c] = true
	}
	if !seen["1111"] || !seen["2222"] {
		t.Errorf("Codes() = %v, want both 1111 and 2222", codes)
	}
}
