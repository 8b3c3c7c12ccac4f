// Package engine drives the sync lifecycle: refresh enumerates remote groups
// and resolves their file mappings, sync downloads each group's objects into
// the local tree. Progress and status stream to the event bus; the engine
// never blocks on a consumer.
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/pnm-media/filmsync/internal/config"
	"github.com/pnm-media/filmsync/internal/events"
	"github.com/pnm-media/filmsync/internal/ledger"
	"github.com/pnm-media/filmsync/internal/logging"
	"github.com/pnm-media/filmsync/internal/mapping"
	"github.com/pnm-media/filmsync/internal/normalize"
	"github.com/pnm-media/filmsync/internal/store"
)

// Session holds the state of one refresh-then-sync cycle. A session is bound
// to one store, one resolver, and one ledger; group state is rebuilt on every
// Refresh and mutated in place by Sync.
//
// Refresh and Sync must not run concurrently with each other. The stop
// registry and the accessors are safe to use from other goroutines while a
// sync runs.
type Session struct {
	cfg      *config.Config
	store    store.ObjectStore
	resolver mapping.Resolver
	ledger   *ledger.Ledger
	bus      *events.Bus
	log      *logging.Logger
	stops    *StopRegistry

	groups map[string]*GroupState
	order  []string
}

func NewSession(cfg *config.Config, st store.ObjectStore, resolver mapping.Resolver, led *ledger.Ledger, bus *events.Bus, log *logging.Logger) *Session {
	return &Session{
		cfg:      cfg,
		store:    st,
		resolver: resolver,
		ledger:   led,
		bus:      bus,
		log:      log,
		stops:    NewStopRegistry(),
		groups:   make(map[string]*GroupState),
	}
}

// Stops returns the session's cancellation registry.
func (s *Session) Stops() *StopRegistry { return s.stops }

// Groups returns the group states in enumeration order.
func (s *Session) Groups() []*GroupState {
	out := make([]*GroupState, 0, len(s.order))
	for _, prefix := range s.order {
		out = append(out, s.groups[prefix])
	}
	return out
}

// Group returns the state for one prefix.
func (s *Session) Group(prefix string) (*GroupState, bool) {
	g, ok := s.groups[prefix]
	return g, ok
}

// Refresh enumerates the bucket's top-level groups and resolves each group's
// mappings. Groups recorded complete in the ledger are reported as completed
// without any listing or sidecar fetch. Listing failures abort the whole
// refresh; sidecar problems degrade the affected group to raw key counts.
func (s *Session) Refresh(ctx context.Context) ([]*GroupState, error) {
	prefixes, err := s.store.ListTopLevelGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate groups: %w", err)
	}

	s.groups = make(map[string]*GroupState, len(prefixes))
	s.order = s.order[:0]

	for _, prefix := range prefixes {
		if s.ledger.IsComplete(prefix) {
			s.addGroup(&GroupState{
				Prefix:      prefix,
				DisplayName: normalize.DisplayName(prefix),
				Status:      StatusCompleted,
			})
			continue
		}

		keys, err := s.store.ListObjects(ctx, prefix)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", prefix, err)
		}

		plan, err := s.resolver.Resolve(ctx, prefix, keys)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", prefix, err)
		}
		if plan.Warning != nil {
			s.log.Warn().Str("group", prefix).Err(plan.Warning).Msg("sidecar problem, using raw file counts")
			s.bus.PublishLog(events.WarnLevel, prefix, "sidecar problem, using raw file counts", plan.Warning)
		}

		total := len(plan.Mappings)
		if !plan.DataParsed {
			total = len(mapping.FilterKeys(prefix, keys, s.cfg.Sync.IncludeMP4))
		}

		s.addGroup(&GroupState{
			Prefix:      prefix,
			DisplayName: plan.DisplayName,
			Plan:        plan,
			Total:       total,
			Status:      StatusPending,
		})
	}

	return s.Groups(), nil
}

func (s *Session) addGroup(g *GroupState) {
	s.groups[g.Prefix] = g
	s.order = append(s.order, g.Prefix)
}

// Sync downloads the named groups, or every non-completed group when
// prefixes is empty. Each group runs to its own terminal status; one group's
// failure never aborts the others. Object listings are taken live at sync
// time so additions since the refresh are picked up.
func (s *Session) Sync(ctx context.Context, prefixes []string) error {
	start := time.Now()

	selected := s.selectGroups(prefixes)
	defer func() { s.bus.PublishDone(len(selected), time.Since(start)) }()

	for _, g := range selected {
		if s.groupStopped(ctx, g.Prefix) {
			s.setStatus(g, StatusStopped)
			continue
		}
		// Counters restart per run; files landed by earlier runs are
		// re-counted through the exists check, keeping downloaded <= total.
		g.Downloaded = 0
		s.setStatus(g, StatusPending)
	}

	for _, g := range selected {
		if g.Status == StatusStopped {
			continue
		}
		s.syncGroup(ctx, g)
	}

	s.log.Info().Int("groups", len(selected)).Msg("sync run finished")
	return nil
}

func (s *Session) selectGroups(prefixes []string) []*GroupState {
	var out []*GroupState
	if len(prefixes) == 0 {
		for _, prefix := range s.order {
			if g := s.groups[prefix]; g.Status != StatusCompleted {
				out = append(out, g)
			}
		}
		return out
	}
	for _, prefix := range prefixes {
		if g, ok := s.groups[prefix]; ok {
			out = append(out, g)
		}
	}
	return out
}

func (s *Session) syncGroup(ctx context.Context, g *GroupState) {
	if s.groupStopped(ctx, g.Prefix) {
		s.setStatus(g, StatusStopped)
		return
	}

	if g.Total == 0 {
		s.bus.PublishLog(events.InfoLevel, g.Prefix, "no files to download", nil)
		s.setStatus(g, StatusSkipped)
		return
	}

	// Live re-list so objects added since the refresh are included. A
	// listing failure ends this group only; siblings keep syncing.
	keys, err := s.store.ListObjects(ctx, g.Prefix)
	if err != nil {
		s.bus.PublishLog(events.ErrorLevel, g.Prefix, "failed to list objects", err)
		s.log.Error().Str("group", g.Prefix).Err(err).Msg("listing failed")
		s.setStatus(g, StatusSkipped)
		return
	}

	s.setStatus(g, StatusDownloading)
	stopped := false

	for _, key := range keys {
		if s.groupStopped(ctx, g.Prefix) {
			stopped = true
			break
		}
		if !mapping.IncludeKey(g.Prefix, key, s.cfg.Sync.IncludeMP4) {
			continue
		}

		rel := mapping.Relative(g.Prefix, key)
		m, ok := g.Plan.Find(rel)
		if !ok {
			// No mapping: not downloaded, not counted.
			s.log.Debug().Str("group", g.Prefix).Str("key", key).Msg("no mapping, skipping")
			continue
		}

		dest := filepath.Join(s.cfg.Sync.TargetPath, g.DisplayName, filepath.FromSlash(m.New))
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			ioErr := &store.LocalIOError{Path: filepath.Dir(dest), Err: err}
			s.bus.PublishLog(events.ErrorLevel, g.Prefix, "failed to create directory for "+dest, ioErr)
			s.log.Error().Str("group", g.Prefix).Err(ioErr).Msg("failed to create directory")
			continue
		}

		if _, err := os.Stat(dest); err == nil {
			g.Downloaded++
			s.bus.PublishLog(events.InfoLevel, g.Prefix, "skipped, already present: "+dest, nil)
			s.bus.PublishProgress(g.Prefix, g.Downloaded, g.Total)
			continue
		}

		size, err := s.store.DownloadObject(ctx, key, dest)
		if err != nil {
			s.bus.PublishLog(events.ErrorLevel, g.Prefix, "failed to download "+key, err)
			s.log.Error().Str("group", g.Prefix).Str("key", key).Err(err).Msg("download failed")
			continue
		}

		g.Downloaded++
		s.bus.PublishLog(events.InfoLevel, g.Prefix,
			fmt.Sprintf("downloaded %s (%s)", m.New, humanize.Bytes(uint64(size))), nil)
		s.bus.PublishProgress(g.Prefix, g.Downloaded, g.Total)
	}

	switch {
	case g.Downloaded == g.Total:
		if err := s.ledger.MarkComplete(g.Prefix); err != nil {
			s.log.Error().Str("group", g.Prefix).Err(err).Msg("failed to persist completion")
			s.bus.PublishLog(events.ErrorLevel, g.Prefix, "failed to persist completion", err)
		}
		s.bus.PublishLog(events.InfoLevel, g.Prefix, "completed", nil)
		s.setStatus(g, StatusCompleted)
	case stopped || s.groupStopped(ctx, g.Prefix):
		s.bus.PublishLog(events.InfoLevel, g.Prefix, "stopped", nil)
		s.setStatus(g, StatusStopped)
	case g.Downloaded > 0:
		s.bus.PublishLog(events.InfoLevel, g.Prefix, "partially done", nil)
		s.setStatus(g, StatusPartial)
	default:
		s.bus.PublishLog(events.InfoLevel, g.Prefix, "skipped", nil)
		s.setStatus(g, StatusSkipped)
	}
}

// groupStopped folds context cancellation into the stop flags: a canceled
// context stops every group.
func (s *Session) groupStopped(ctx context.Context, prefix string) bool {
	return ctx.Err() != nil || s.stops.IsStopped(prefix)
}

func (s *Session) setStatus(g *GroupState, status Status) {
	g.Status = status
	s.bus.PublishStatus(g.Prefix, string(status))
}
