package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pnm-media/filmsync/internal/engine"
	"github.com/pnm-media/filmsync/internal/events"
	"github.com/pnm-media/filmsync/internal/store"
)

// newGroupsCmd lists the remote groups with their resolved names and totals.
func newGroupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "List remote groups and their sync status",
		Long: `Enumerates the bucket's top-level groups, resolves each group's file
mappings, and prints the expected file count and status. Groups already
recorded complete in the ledger are shown without touching the remote.`,
		Args: cobra.NoArgs,
		RunE: runGroups,
	}
	addSyncFlags(cmd)
	return cmd
}

func runGroups(cmd *cobra.Command, args []string) error {
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

	printGroups(groups)
	return nil
}

func printGroups(groups []*engine.GroupState) {
	if len(groups) == 0 {
		fmt.Println("No groups found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PREFIX\tNAME\tFILES\tSTATUS")
	for _, g := range groups {
		total := fmt.Sprintf("%d", g.Total)
		if g.Status == engine.StatusCompleted && g.Total == 0 {
			// Ledger-complete groups skip remote listing, so the count
			// is unknown.
			total = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", g.Prefix, g.DisplayName, total, g.Status)
	}
	w.Flush()
}

// startRefreshSpinner shows an indeterminate spinner while the remote
// listing pages through. The returned func stops and clears it. No-op on
// non-terminals.
func startRefreshSpinner(description string) func() {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return func() {}
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()

	return func() {
		close(done)
		<-stopped
		_ = bar.Finish()
	}
}
