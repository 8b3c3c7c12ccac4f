package cli

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/pnm-media/filmsync/internal/config"
	"github.com/pnm-media/filmsync/internal/mapping"
)

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"abc", "***"},
		{"abcd", "****"},
		{"secretkey1234", "*********1234"},
	}

	for _, tt := range tests {
		if got := maskSecret(tt.in); got != tt.want {
			t.Errorf("maskSecret(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestApplyOverrides(t *testing.T) {
	cmd := &cobra.Command{}
	addSyncFlags(cmd)

	cfg := config.Default()
	cfg.Sync.TargetPath = "/mnt/media"

	// No flags set: config untouched, including the include-mp4 default.
	cfg.Sync.IncludeMP4 = false
	applyOverrides(cmd, cfg)
	if cfg.Sync.IncludeMP4 {
		t.Error("unset flag must not override config")
	}
	if cfg.Sync.TargetPath != "/mnt/media" {
		t.Errorf("target changed unexpectedly: %s", cfg.Sync.TargetPath)
	}

	if err := cmd.Flags().Set("method", config.MethodPassthrough); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("include-mp4", "true"); err != nil {
		t.Fatal(err)
	}
	applyOverrides(cmd, cfg)

	if cfg.Sync.Method != config.MethodPassthrough {
		t.Errorf("method = %s, want passthrough", cfg.Sync.Method)
	}
	if !cfg.Sync.IncludeMP4 {
		t.Error("set flag must override config")
	}
}

func TestNewResolver(t *testing.T) {
	cfg := config.Default()

	cfg.Sync.Method = config.MethodStructured
	r, err := newResolver(cfg, nil)
	if err != nil {
		t.Fatalf("structured: %v", err)
	}
	if _, ok := r.(*mapping.Structured); !ok {
		t.Errorf("got %T, want *mapping.Structured", r)
	}

	cfg.Sync.Method = config.MethodPassthrough
	r, err = newResolver(cfg, nil)
	if err != nil {
		t.Fatalf("passthrough: %v", err)
	}
	if _, ok := r.(*mapping.Passthrough); !ok {
		t.Errorf("got %T, want *mapping.Passthrough", r)
	}

	cfg.Sync.Method = "bogus"
	if _, err := newResolver(cfg, nil); err == nil {
		t.Error("expected error for unknown method")
	}
}
