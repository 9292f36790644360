package viewer

import (
	"testing"
)

func TestRoster_DuplicatesPreserved(t *testing.T) {
	r := NewRoster(NewController())

	r.OnAdd("bob")
	r.OnAdd("bob")

	entries := r.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for i, e := range entries {
		if e.Name != "bob" {
			t.Errorf("entry %d: expected bob, got %q", i, e.Name)
		}
	}
}

func TestRoster_KeepsArrivalOrder(t *testing.T) {
	r := NewRoster(NewController())

	for _, name := range []string{"carol", "alice", "dave"} {
		r.OnAdd(name)
	}

	names := r.Names()
	want := []string{"carol", "alice", "dave"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("entry %d: expected %q, got %q", i, want[i], names[i])
		}
	}
}

func TestRoster_OnClear(t *testing.T) {
	c := NewController()
	r := NewRoster(c)
	c.SetName("erin")
	r.OnAdd("carol")

	r.OnClear()

	if r.Len() != 0 {
		t.Errorf("expected empty roster, got %d", r.Len())
	}
	s := c.Snapshot()
	if s.UIState != AwaitingName || s.PendingName != "" {
		t.Errorf("expected controller reset, got %s %q", s.UIState, s.PendingName)
	}
}

func TestRoster_RemoveRequestLeavesEntry(t *testing.T) {
	cmd := &mockCommander{}
	r := NewRoster(NewController())
	r.SetCommander(cmd)
	r.OnAdd("alice")

	if err := r.OnRemoveRequested("alice"); err != nil {
		t.Fatalf("OnRemoveRequested: %v", err)
	}

	if len(cmd.sent) != 1 || cmd.sent[0] != "remove:alice" {
		t.Errorf("expected [remove:alice], got %v", cmd.sent)
	}
	if r.Len() != 1 {
		t.Errorf("expected the entry to stay until the device clears, got %d", r.Len())
	}
}

func TestRoster_EntriesIsACopy(t *testing.T) {
	r := NewRoster(NewController())
	r.OnAdd("alice")

	entries := r.Entries()
	entries[0].Name = "mallory"

	if r.Names()[0] != "alice" {
		t.Error("Entries must not expose internal storage")
	}
}
