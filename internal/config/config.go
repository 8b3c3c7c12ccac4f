// Package config provides configuration management for filmsync.
//
// Config file location:
//   - Windows: %USERPROFILE%\.config\filmsync\config
//   - Unix: ~/.config/filmsync/config
//
// INI format:
//
//	[s3]
//	access_key_id = AKIA...
//	secret_access_key = ...
//	region = us-east-1
//	endpoint_url =
//	bucket = my-bucket
//
//	[sync]
//	target_path = /mnt/media
//	include_mp4 = true
//	method = structured
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/ini.v1"
)

// Mapping strategy selectors.
const (
	MethodStructured  = "structured"
	MethodPassthrough = "passthrough"
)

// S3Config holds object-store connection settings.
type S3Config struct {
	AccessKeyID     string `ini:"access_key_id"`
	SecretAccessKey string `ini:"secret_access_key"`
	Region          string `ini:"region"`
	EndpointURL     string `ini:"endpoint_url"`
	Bucket          string `ini:"bucket"`
}

// SyncConfig holds sync behavior settings.
type SyncConfig struct {
	// TargetPath is the local root directory the groups are mirrored into.
	TargetPath string `ini:"target_path"`

	// IncludeMP4 controls whether .mp4 objects are mapped and transferred.
	IncludeMP4 bool `ini:"include_mp4"`

	// Method selects the mapping strategy: "structured" or "passthrough".
	Method string `ini:"method"`
}

// Config is the complete filmsync configuration.
type Config struct {
	S3   S3Config
	Sync SyncConfig
}

// Validation errors.
var (
	ErrMissingBucket     = errors.New("bucket is required")
	ErrMissingTargetPath = errors.New("target_path is required")
	ErrInvalidMethod     = errors.New("method must be \"structured\" or \"passthrough\"")
)

// Default returns a config with default values applied.
func Default() *Config {
	return &Config{
		Sync: SyncConfig{
			IncludeMP4: true,
			Method:     MethodStructured,
		},
	}
}

// DefaultDir returns the directory holding the config file and the
// completion ledger.
//   - Windows: %USERPROFILE%\.config\filmsync
//   - Unix: ~/.config/filmsync
func DefaultDir() (string, error) {
	if runtime.GOOS == "windows" {
		userProfile := os.Getenv("USERPROFILE")
		if userProfile == "" {
			return "", errors.New("USERPROFILE environment variable not set")
		}
		return filepath.Join(userProfile, ".config", "filmsync"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "filmsync"), nil
}

// DefaultPath returns the default config file path.
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config"), nil
}

// Load reads the config file at path. A missing file yields defaults so a
// fresh install can run `filmsync config set` before anything else.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}

	if err := file.Section("s3").MapTo(&cfg.S3); err != nil {
		return nil, fmt.Errorf("failed to parse [s3] section: %w", err)
	}
	if err := file.Section("sync").MapTo(&cfg.Sync); err != nil {
		return nil, fmt.Errorf("failed to parse [sync] section: %w", err)
	}

	if cfg.Sync.Method == "" {
		cfg.Sync.Method = MethodStructured
	}

	return cfg, nil
}

// Save writes the config to path, creating parent directories as needed.
// The file is written 0600 because it holds credentials.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file := ini.Empty()
	if err := file.Section("s3").ReflectFrom(&c.S3); err != nil {
		return fmt.Errorf("failed to encode [s3] section: %w", err)
	}
	if err := file.Section("sync").ReflectFrom(&c.Sync); err != nil {
		return fmt.Errorf("failed to encode [sync] section: %w", err)
	}

	if err := file.SaveTo(path); err != nil {
		return fmt.Errorf("failed to save config file %s: %w", path, err)
	}
	return os.Chmod(path, 0600)
}

// Validate checks that the config is usable for a sync run.
func (c *Config) Validate() error {
	if c.S3.Bucket == "" {
		return ErrMissingBucket
	}
	if c.Sync.TargetPath == "" {
		return ErrMissingTargetPath
	}
	if c.Sync.Method != MethodStructured && c.Sync.Method != MethodPassthrough {
		return ErrInvalidMethod
	}
	return nil
}
