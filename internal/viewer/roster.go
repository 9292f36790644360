package viewer

import (
	"sync"

	"facecam/remote/internal/domain"
)

// Roster mirrors the device's face list. Its content depends only on the
// add and clear events received since the session opened.
type Roster struct {
	cmd        domain.Commander
	controller *Controller

	mu      sync.RWMutex
	entries []domain.FaceEntry
}

// NewRoster creates an empty roster. A clear resets controller.
func NewRoster(controller *Controller) *Roster {
	return &Roster{controller: controller}
}

// SetCommander injects the command encoder.
func (r *Roster) SetCommander(cmd domain.Commander) {
	r.cmd = cmd
}

// OnAdd appends an entry. Duplicate names produce duplicate entries.
func (r *Roster) OnAdd(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, domain.FaceEntry{Name: name})
}

// OnRemoveRequested asks the device to delete name. The local entry stays
// until the device clears the roster; the device sends no per-entry removal.
func (r *Roster) OnRemoveRequested(name string) error {
	return r.cmd.RequestRemove(name)
}

// OnClear empties the roster and resets the capture gate.
func (r *Roster) OnClear() {
	r.mu.Lock()
	r.entries = nil
	r.mu.Unlock()

	if r.controller != nil {
		r.controller.Reset()
	}
}

// Entries returns the entries in arrival order.
func (r *Roster) Entries() []domain.FaceEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]domain.FaceEntry(nil), r.entries...)
}

// Names returns the entry names in arrival order.
func (r *Roster) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Name
	}
	return names
}

// Len returns the number of entries.
func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
