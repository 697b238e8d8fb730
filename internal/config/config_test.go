package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codemap.toml")
	content := `
roots = ["/srv/project"]

[limits]
token_budget = 4000

[exclude]
dirs = ["generated"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if len(cfg.Roots) != 1 || cfg.Roots[0] != "/srv/project" {
		t.Errorf("Roots not read: %v", cfg.Roots)
	}
	if cfg.Limits.TokenBudget != 4000 {
		t.Errorf("TokenBudget not read: %d", cfg.Limits.TokenBudget)
	}
	if cfg.Limits.MaxTypes != 1000 {
		t.Errorf("MaxTypes default missing: %d", cfg.Limits.MaxTypes)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("Debounce default missing: %v", cfg.Watch.Debounce)
	}
	if cfg.Server.RateLimit != 10 || cfg.Server.RateBurst != 20 {
		t.Errorf("Rate limit defaults missing: %+v", cfg.Server)
	}
	if cfg.History.Path != "codemap.db" {
		t.Errorf("History path default missing: %s", cfg.History.Path)
	}
	if len(cfg.Exclude.Dirs) != 1 || cfg.Exclude.Dirs[0] != "generated" {
		t.Errorf("Exclude dirs not read: %v", cfg.Exclude.Dirs)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("roots = [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Expected decode error")
	}
}
