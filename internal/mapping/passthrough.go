package mapping

import (
	"context"

	"github.com/pnm-media/filmsync/internal/normalize"
)

// Passthrough maps every surviving key to itself: the local tree mirrors the
// remote layout with no renaming.
type Passthrough struct {
	IncludeMP4 bool
}

// Resolve emits an identity mapping for each filtered key. DataParsed is
// true iff at least one mapping was produced.
func (r *Passthrough) Resolve(_ context.Context, prefix string, keys []string) (*GroupPlan, error) {
	plan := &GroupPlan{
		Prefix:      prefix,
		DisplayName: normalize.DisplayName(prefix),
	}

	seen := make(map[string]bool)
	for _, key := range keys {
		if !IncludeKey(prefix, key, r.IncludeMP4) {
			continue
		}
		rel := Relative(prefix, key)
		if seen[rel] {
			continue
		}
		seen[rel] = true
		plan.Mappings = append(plan.Mappings, FileMapping{Original: rel, New: rel})
	}

	plan.DataParsed = len(plan.Mappings) > 0
	return plan, nil
}

var _ Resolver = (*Passthrough)(nil)
