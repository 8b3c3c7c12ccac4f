package ledger

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestOpenMissingFile(t *testing.T) {
	l, err := Open(filepath.Join(t.TempDir(), "sync_ledger.json"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if l.IsComplete("showA/") {
		t.Error("empty ledger reported a completed group")
	}
}

func TestMarkCompletePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync_ledger.json")

	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := l.MarkComplete("showA/"); err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}
	if err := l.MarkComplete("movieB/"); err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}

	// Reload from disk: completion must survive a restart.
	reloaded, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if !reloaded.IsComplete("showA/") || !reloaded.IsComplete("movieB/") {
		t.Error("completion did not survive reload")
	}
	if got, want := reloaded.Prefixes(), []string{"movieB/", "showA/"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Prefixes = %v, want %v", got, want)
	}
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync_ledger.json")

	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := l.MarkComplete("showA/"); err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}
	if err := l.Clear("showA/"); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	reloaded, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reloaded.IsComplete("showA/") {
		t.Error("cleared group still reported complete")
	}
}

func TestOpenCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync_ledger.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Error("expected error for corrupt ledger file")
	}
}

func TestNoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sync_ledger.json")

	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := l.MarkComplete("showA/"); err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind after save")
	}
}
