// Package ledger persists the set of groups that have fully synced. The
// ledger is a single small JSON document mapping group prefix to true;
// presence means "treat this group as completed on future refreshes".
//
// Writes are whole-document rewrites through a temp file and rename, which
// is acceptable because they happen once per group completion and the system
// assumes a single active orchestrator.
package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// DefaultFileName is the ledger file name inside the config directory.
const DefaultFileName = "sync_ledger.json"

// Ledger is the durable completion set. Safe for concurrent use.
type Ledger struct {
	path string

	mu       sync.Mutex
	complete map[string]bool
}

// Open loads the ledger at path, creating an empty one if the file does not
// exist. A corrupt ledger file is an error rather than silently starting
// over, so completed groups are never re-downloaded by accident.
func Open(path string) (*Ledger, error) {
	l := &Ledger{
		path:     path,
		complete: make(map[string]bool),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &l.complete); err != nil {
		return nil, fmt.Errorf("failed to parse ledger %s: %w", path, err)
	}
	return l, nil
}

// IsComplete reports whether prefix is recorded as fully synced.
func (l *Ledger) IsComplete(prefix string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.complete[prefix]
}

// MarkComplete records prefix as fully synced and persists the ledger.
func (l *Ledger) MarkComplete(prefix string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.complete[prefix] = true
	return l.save()
}

// Clear removes prefix from the ledger and persists it. Clearing an absent
// prefix is a no-op rewrite.
func (l *Ledger) Clear(prefix string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.complete, prefix)
	return l.save()
}

// Prefixes returns the recorded prefixes, sorted.
func (l *Ledger) Prefixes() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]string, 0, len(l.complete))
	for p := range l.complete {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// save rewrites the whole document. Caller holds l.mu.
func (l *Ledger) save() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create ledger directory: %w", err)
	}

	data, err := json.MarshalIndent(l.complete, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ledger: %w", err)
	}

	tmpPath := l.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write ledger temp file: %w", err)
	}
	if err := os.Rename(tmpPath, l.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace ledger file: %w", err)
	}
	return nil
}
