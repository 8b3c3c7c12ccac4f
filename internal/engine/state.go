package engine

import (
	"sync"

	"github.com/pnm-media/filmsync/internal/mapping"
)

// Status is the lifecycle state of one sync group.
type Status string

const (
	StatusPending     Status = "pending"
	StatusDownloading Status = "downloading"
	StatusCompleted   Status = "completed"
	StatusPartial     Status = "partial"
	StatusSkipped     Status = "skipped"
	StatusStopped     Status = "stopped"
)

// GroupState tracks one remote group for the lifetime of a session. Created
// on refresh, mutated by the orchestrator during sync, never persisted; only
// the completion flag survives a restart, through the ledger.
type GroupState struct {
	Prefix      string
	DisplayName string
	Plan        *mapping.GroupPlan

	// Total is the number of objects expected for the group: the mapping
	// count when sidecar data parsed, the raw filtered key count otherwise.
	Total int

	// Downloaded counts objects confirmed present locally this run,
	// including pre-existing files found during the pass. Never exceeds
	// Total.
	Downloaded int

	Status Status
}

// StopRegistry holds cooperative cancellation flags. A group is stopped when
// it is individually flagged or when a stop-all is in effect. Flags are
// checked by the orchestrator before each group and before each object;
// setting one never interrupts an in-flight transfer.
type StopRegistry struct {
	mu       sync.Mutex
	all      bool
	prefixes map[string]bool
}

func NewStopRegistry() *StopRegistry {
	return &StopRegistry{prefixes: make(map[string]bool)}
}

// Stop flags the given groups for cancellation.
func (r *StopRegistry) Stop(prefixes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range prefixes {
		r.prefixes[p] = true
	}
}

// StopAll flags every group, current and future.
func (r *StopRegistry) StopAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = true
}

// IsStopped reports whether prefix has been flagged.
func (r *StopRegistry) IsStopped(prefix string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.all || r.prefixes[prefix]
}

// Reset clears all flags, individual and global.
func (r *StopRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = false
	r.prefixes = make(map[string]bool)
}
