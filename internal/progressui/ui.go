// Package progressui renders per-group sync progress as terminal bars. On a
// TTY each group gets an mpb bar tracking its downloaded count; without a TTY
// the package degrades to plain text lines. Log output is routed through
// Writer so lines print above active bars instead of tearing them.
package progressui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"
)

// SyncUI manages one progress bar per sync group. Counts are whole objects,
// not bytes.
type SyncUI struct {
	progress   *mpb.Progress
	isTerminal bool

	mu   sync.Mutex
	bars map[string]*mpb.Bar
}

// New creates the UI, rendering to stderr when it is a terminal.
func New() *SyncUI {
	isTerminal := term.IsTerminal(int(os.Stderr.Fd()))

	var p *mpb.Progress
	if isTerminal {
		enableANSIOnWindows(os.Stderr)
		p = mpb.New(
			mpb.WithOutput(os.Stderr),
			mpb.WithRefreshRate(300*time.Millisecond),
			mpb.WithWidth(80),
		)
	} else {
		p = mpb.New(mpb.WithOutput(io.Discard))
	}

	return &SyncUI{
		progress:   p,
		isTerminal: isTerminal,
		bars:       make(map[string]*mpb.Bar),
	}
}

// AddGroup registers a bar for one group.
func (u *SyncUI) AddGroup(prefix, displayName string, total int) {
	if !u.isTerminal {
		fmt.Fprintf(os.Stderr, "syncing %s (%d files)\n", displayName, total)
		return
	}

	bar := u.progress.New(int64(total),
		mpb.BarStyle().Lbound("[").Filler("█").Tip("█").Padding("░").Rbound("]"),
		mpb.PrependDecorators(
			decor.Name(displayName, decor.WCSyncSpaceR),
		),
		mpb.AppendDecorators(
			decor.CountersNoUnit("%d / %d", decor.WCSyncSpace),
			decor.Name("  "),
			decor.Percentage(decor.WCSyncSpace),
		),
		mpb.BarRemoveOnComplete(),
	)

	u.mu.Lock()
	u.bars[prefix] = bar
	u.mu.Unlock()
}

// SetProgress moves a group's bar to the given downloaded count.
func (u *SyncUI) SetProgress(prefix string, downloaded, total int) {
	u.mu.Lock()
	bar := u.bars[prefix]
	u.mu.Unlock()

	if bar == nil {
		return
	}
	bar.SetCurrent(int64(downloaded))
}

// SetStatus handles a group's status transition. Terminal statuses finish or
// abort the bar and print a summary line above the remaining bars.
func (u *SyncUI) SetStatus(prefix, displayName, status string) {
	u.mu.Lock()
	bar := u.bars[prefix]
	u.mu.Unlock()

	switch status {
	case "completed":
		if bar != nil {
			bar.SetTotal(-1, true)
		}
		u.println(fmt.Sprintf("✓ %s completed", displayName))
	case "stopped", "partial", "skipped":
		if bar != nil {
			bar.Abort(true)
		}
		u.println(fmt.Sprintf("• %s %s", displayName, status))
	}
}

// Writer returns a writer that prints safely above active bars. Route log
// output through it while bars are rendering.
func (u *SyncUI) Writer() io.Writer {
	if u.isTerminal {
		return u.progress
	}
	return os.Stderr
}

// Wait blocks until every bar has completed or aborted.
func (u *SyncUI) Wait() {
	u.progress.Wait()
}

func (u *SyncUI) println(line string) {
	if u.isTerminal {
		u.progress.Write([]byte(line + "\n"))
		return
	}
	fmt.Fprintln(os.Stderr, line)
}
