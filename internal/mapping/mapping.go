// Package mapping turns a remote group's object keys into local destination
// paths. Two interchangeable strategies exist: Structured derives names from
// a CSV sidecar's metadata rows, Passthrough keeps keys as-is. Both are
// selected by the configured method, never by runtime loading.
package mapping

import (
	"context"
	"strings"
)

// Sidecar files carry the structured-data extension.
const sidecarExtension = ".csv"

// FileMapping translates one remote object (relative to its group prefix)
// into a local destination path. Original values are unique within a group.
type FileMapping struct {
	Original string
	New      string
}

// GroupPlan is the result of resolving one group.
type GroupPlan struct {
	Prefix      string
	DisplayName string
	Mappings    []FileMapping

	// DataParsed reports whether sidecar metadata drove the mappings. When
	// false the group's total falls back to the raw filtered key count.
	DataParsed bool

	// Warning carries a non-fatal sidecar problem (fetch or parse failure)
	// that the caller should log. The plan itself is still valid: it holds
	// the fallback (empty) mapping set.
	Warning error
}

// Find returns the mapping whose Original matches rel, if any.
func (p *GroupPlan) Find(rel string) (FileMapping, bool) {
	for _, m := range p.Mappings {
		if m.Original == rel {
			return m, true
		}
	}
	return FileMapping{}, false
}

// Resolver produces the file mappings for a remote group from its prefix and
// raw key listing.
type Resolver interface {
	Resolve(ctx context.Context, prefix string, keys []string) (*GroupPlan, error)
}

// ParseError indicates a sidecar file was malformed or unreadable. It is
// caught at the group level: the resolver falls back to an empty mapping set
// so the group still appears with raw-count totals.
type ParseError struct {
	Key string
	Err error
}

func (e *ParseError) Error() string {
	return "failed to parse sidecar " + e.Key + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

// IncludeKey applies the sync filters to one object key, in order: drop
// directory markers, drop .mp4 keys when the inclusion flag is off, drop
// keys hidden relative to the group prefix (leading dot convention).
func IncludeKey(prefix, key string, includeMP4 bool) bool {
	if strings.HasSuffix(key, "/") {
		return false
	}
	if !includeMP4 && strings.HasSuffix(key, ".mp4") {
		return false
	}
	if strings.HasPrefix(Relative(prefix, key), ".") {
		return false
	}
	return true
}

// FilterKeys returns the keys that survive IncludeKey, preserving order.
func FilterKeys(prefix string, keys []string, includeMP4 bool) []string {
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		if IncludeKey(prefix, key, includeMP4) {
			out = append(out, key)
		}
	}
	return out
}

// Relative strips the group prefix from a key. Keys outside the prefix are
// returned unchanged, matching the store's listing behavior.
func Relative(prefix, key string) string {
	return strings.TrimPrefix(key, prefix)
}
