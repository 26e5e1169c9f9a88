package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Relabel.PageSize != 500 || cfg.Relabel.BatchSize != 1000 {
		t.Fatalf("relabel defaults = %+v", cfg.Relabel)
	}
	if cfg.Relabel.UserPrefix != "Label_" {
		t.Fatalf("user prefix = %q", cfg.Relabel.UserPrefix)
	}
	if cfg.Relabel.InheritSystem {
		t.Fatal("system labels must not be inherited by default")
	}
	found := false
	for _, l := range cfg.Relabel.ExcludeLabels {
		if l == "UNREAD" {
			found = true
		}
	}
	if !found {
		t.Fatalf("UNREAD missing from default exclusions: %v", cfg.Relabel.ExcludeLabels)
	}
	if cfg.Quota.UnitsPerSecond != 250 || cfg.Quota.BatchModify != 50 {
		t.Fatalf("quota defaults = %+v", cfg.Quota)
	}
	if cfg.Retry.MaxAttempts != 5 || cfg.Retry.InitialInterval != "1s" {
		t.Fatalf("retry defaults = %+v", cfg.Retry)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Relabel.PageSize != 500 {
		t.Fatalf("page size = %d, want default", cfg.Relabel.PageSize)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[relabel]
exclude_labels = ["UNREAD", "STARRED"]
inherit_system = true
page_size = 100

[quota]
units_per_second = 50
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(cfg.Relabel.ExcludeLabels) != 2 {
		t.Fatalf("exclusions = %v", cfg.Relabel.ExcludeLabels)
	}
	if !cfg.Relabel.InheritSystem || cfg.Relabel.PageSize != 100 {
		t.Fatalf("relabel = %+v", cfg.Relabel)
	}
	if cfg.Quota.UnitsPerSecond != 50 {
		t.Fatalf("units per second = %d", cfg.Quota.UnitsPerSecond)
	}
	// untouched sections keep their defaults
	if cfg.Relabel.BatchSize != 1000 || cfg.Quota.ThreadsGet != 10 {
		t.Fatalf("defaults lost: %+v %+v", cfg.Relabel, cfg.Quota)
	}
}

func TestLoadBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not toml ["), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
