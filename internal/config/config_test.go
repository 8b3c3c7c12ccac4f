package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Sync.IncludeMP4 {
		t.Error("expected IncludeMP4 default true")
	}
	if cfg.Sync.Method != MethodStructured {
		t.Errorf("expected default method %q, got %q", MethodStructured, cfg.Sync.Method)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")

	want := Default()
	want.S3 = S3Config{
		AccessKeyID:     "AKIATEST",
		SecretAccessKey: "secret",
		Region:          "eu-west-1",
		EndpointURL:     "https://s3.example.com",
		Bucket:          "media",
	}
	want.Sync = SyncConfig{
		TargetPath: "/mnt/media",
		IncludeMP4: false,
		Method:     MethodPassthrough,
	}

	if err := want.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *want {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected file mode 0600, got %o", perm)
	}
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.S3.Bucket = "media"
	valid.Sync.TargetPath = "/mnt/media"

	if err := valid.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"missing bucket", func(c *Config) { c.S3.Bucket = "" }, ErrMissingBucket},
		{"missing target", func(c *Config) { c.Sync.TargetPath = "" }, ErrMissingTargetPath},
		{"bad method", func(c *Config) { c.Sync.Method = "magic" }, ErrInvalidMethod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *valid
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
