package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pnm-media/filmsync/internal/engine"
	"github.com/pnm-media/filmsync/internal/events"
	"github.com/pnm-media/filmsync/internal/progressui"
	"github.com/pnm-media/filmsync/internal/store"
)

// newSyncCmd downloads groups into the local target tree.
func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync [prefix ...]",
		Short: "Download remote groups into the local target tree",
		Long: `Refreshes the group list, then downloads each selected group. With no
arguments every group not already completed is synced.

Files already present locally are counted as downloaded without a transfer,
so an interrupted run can simply be re-run. A group whose every file landed
is recorded in the ledger and skipped entirely on future runs.

Ctrl-C requests a cooperative stop: in-flight transfers finish, remaining
objects are abandoned and affected groups end as "stopped". A second Ctrl-C
aborts immediately.`,
		RunE: runSync,
	}
	addSyncFlags(cmd)
	return cmd
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	applyOverrides(cmd, cfg)

	bus := events.NewBus(0)
	defer bus.Close()

	session, err := buildSession(cmd, cfg, bus)
	if err != nil {
		return err
	}

	stopSpinner := startRefreshSpinner("Refreshing groups...")
	groups, err := session.Refresh(cmd.Context())
	stopSpinner()
	if err != nil {
		if store.IsCredentialsError(err) {
			return fmt.Errorf("credential check failed, verify access keys in config: %w", err)
		}
		return err
	}

	selected, err := selectForSync(session, groups, args)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		fmt.Println("All groups are up to date.")
		return nil
	}

	ui := progressui.New()
	logger.SetOutput(ui.Writer())
	for _, g := range selected {
		if g.Total > 0 {
			ui.AddGroup(g.Prefix, g.DisplayName, g.Total)
		}
	}

	sub := bus.SubscribeAll()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	installInterruptHandler(ctx, cancel, session, ui)

	prefixes := make([]string, len(selected))
	for i, g := range selected {
		prefixes[i] = g.Prefix
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- session.Sync(ctx, prefixes)
	}()

	consumeEvents(sub, session, ui)

	err = <-errCh
	ui.Wait()
	logger.SetOutput(os.Stdout)

	printSummary(selected)
	return err
}

// selectForSync picks the groups to download: the named prefixes, or every
// non-completed group.
func selectForSync(session *engine.Session, groups []*engine.GroupState, args []string) ([]*engine.GroupState, error) {
	if len(args) == 0 {
		var out []*engine.GroupState
		for _, g := range groups {
			if g.Status != engine.StatusCompleted {
				out = append(out, g)
			}
		}
		return out, nil
	}

	out := make([]*engine.GroupState, 0, len(args))
	for _, prefix := range args {
		g, ok := session.Group(prefix)
		if !ok {
			return nil, fmt.Errorf("unknown group %q (run \"filmsync groups\")", prefix)
		}
		out = append(out, g)
	}
	return out, nil
}

// installInterruptHandler maps the first interrupt to a cooperative stop-all
// and a second interrupt to a hard context cancel.
func installInterruptHandler(ctx context.Context, cancel context.CancelFunc, session *engine.Session, ui *progressui.SyncUI) {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
		case <-ctx.Done():
			return
		}
		fmt.Fprintln(ui.Writer(), "stopping... in-flight transfers will finish (Ctrl-C again to abort)")
		session.Stops().StopAll()

		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()
}

// consumeEvents drains the bus into the progress UI and logger until the
// end-of-run marker arrives.
func consumeEvents(sub <-chan events.Event, session *engine.Session, ui *progressui.SyncUI) {
	for ev := range sub {
		switch e := ev.(type) {
		case *events.GroupProgressEvent:
			ui.SetProgress(e.Prefix, e.Downloaded, e.Total)
		case *events.GroupStatusEvent:
			ui.SetStatus(e.Prefix, groupName(session, e.Prefix), e.Status)
		case *events.LogEvent:
			logEvent(e)
		case *events.DoneEvent:
			return
		}
	}
}

func groupName(session *engine.Session, prefix string) string {
	if g, ok := session.Group(prefix); ok {
		return g.DisplayName
	}
	return prefix
}

func logEvent(e *events.LogEvent) {
	var zev = logger.Info()
	switch e.Level {
	case events.DebugLevel:
		zev = logger.Debug()
	case events.WarnLevel:
		zev = logger.Warn()
	case events.ErrorLevel:
		zev = logger.Error()
	}
	if e.Prefix != "" {
		zev = zev.Str("group", e.Prefix)
	}
	if e.Err != nil {
		zev = zev.Err(e.Err)
	}
	zev.Msg(e.Message)
}

func printSummary(groups []*engine.GroupState) {
	counts := make(map[engine.Status]int)
	for _, g := range groups {
		counts[g.Status]++
	}

	fmt.Printf("Sync finished: %d completed, %d partial, %d skipped, %d stopped\n",
		counts[engine.StatusCompleted],
		counts[engine.StatusPartial],
		counts[engine.StatusSkipped],
		counts[engine.StatusStopped])
}
