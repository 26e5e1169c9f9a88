package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all labelmend configuration.
type Config struct {
	Relabel RelabelConfig `toml:"relabel"`
	Quota   QuotaConfig   `toml:"quota"`
	Retry   RetryConfig   `toml:"retry"`
}

// RelabelConfig controls which labels a thread confers on its messages and
// how aggressively writes are batched.
type RelabelConfig struct {
	// ExcludeLabels are never inherited. The defaults are Gmail's
	// per-message state and category labels; the provider may grow this
	// list, so it is configuration rather than code.
	ExcludeLabels []string `toml:"exclude_labels"`
	// UserPrefix marks user-defined label ids; those are always inheritable.
	UserPrefix string `toml:"user_prefix"`
	// InheritSystem also inherits system labels not listed in ExcludeLabels.
	InheritSystem bool `toml:"inherit_system"`
	PageSize      int  `toml:"page_size"`
	BatchSize     int  `toml:"batch_size"`
}

// QuotaConfig mirrors Gmail's per-method quota unit charges.
// https://developers.google.com/gmail/api/reference/quota
type QuotaConfig struct {
	UnitsPerSecond int `toml:"units_per_second"`
	LabelsList     int `toml:"labels_list"`
	ThreadsList    int `toml:"threads_list"`
	ThreadsGet     int `toml:"threads_get"`
	BatchModify    int `toml:"batch_modify"`
}

// RetryConfig bounds transient-failure retries.
type RetryConfig struct {
	MaxAttempts     int    `toml:"max_attempts"`
	InitialInterval string `toml:"initial_interval"`
}

func defaults() Config {
	return Config{
		Relabel: RelabelConfig{
			ExcludeLabels: []string{
				"CHAT",
				"SENT",
				"INBOX",
				"IMPORTANT",
				"TRASH",
				"DRAFT",
				"SPAM",
				"CATEGORY_FORUMS",
				"CATEGORY_UPDATES",
				"CATEGORY_PERSONAL",
				"CATEGORY_PROMOTIONS",
				"CATEGORY_SOCIAL",
				"STARRED",
				"UNREAD",
			},
			UserPrefix: "Label_",
			PageSize:   500,
			BatchSize:  1000,
		},
		Quota: QuotaConfig{
			UnitsPerSecond: 250,
			LabelsList:     1,
			ThreadsList:    10,
			ThreadsGet:     10,
			BatchModify:    50,
		},
		Retry: RetryConfig{
			MaxAttempts:     5,
			InitialInterval: "1s",
		},
	}
}

// Load reads config from path. A missing file is not an error: defaults are
// always valid on their own.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		return &cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Dir returns the labelmend config directory path.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "labelmend")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "labelmend")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}
