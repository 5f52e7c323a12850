package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/tech-hub161/samity/internal/ledger"
	"github.com/tech-hub161/samity/internal/store"
)

// FileName is the configuration file kept in the data directory.
const FileName = "samity.yaml"

// Config represents the top-level samity.yaml configuration.
type Config struct {
	Group   GroupConfig   `yaml:"group"`
	Ledger  LedgerConfig  `yaml:"ledger"`
	Storage StorageConfig `yaml:"storage"`
	Git     GitConfig     `yaml:"git"`
}

// GroupConfig identifies the savings group.
type GroupConfig struct {
	Name string `yaml:"name"`
}

// LedgerConfig tunes the calculation rules and the key namespace.
type LedgerConfig struct {
	Namespace    string `yaml:"namespace"`
	InterestRate string `yaml:"interest_rate"` // decimal string, e.g. "0.01"
	GraceDays    int    `yaml:"grace_days"`
}

// StorageConfig selects the record store backend.
type StorageConfig struct {
	Backend string `yaml:"backend"` // "file" or "sqlite"
	Path    string `yaml:"path"`
}

// GitConfig controls auto-commit of the data directory.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a samity.yaml file from disk and applies the environment
// overlay.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.ApplyEnv()
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the standing group terms.
func Default(groupName string) *Config {
	return &Config{
		Group: GroupConfig{Name: groupName},
		Ledger: LedgerConfig{
			Namespace:    store.DefaultNamespace,
			InterestRate: "0.01",
			GraceDays:    7,
		},
		Storage: StorageConfig{
			Backend: "file",
			Path:    "samity.json",
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "Samity Keeper",
			AuthorEmail: "keeper@samity.local",
		},
	}
}

// ApplyEnv overlays SAMITY_* environment variables. Load calls this; it is
// exported for callers running without a config file.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("SAMITY_NAMESPACE"); v != "" {
		c.Ledger.Namespace = v
	}
	if v := os.Getenv("SAMITY_INTEREST_RATE"); v != "" {
		c.Ledger.InterestRate = v
	}
	if v := os.Getenv("SAMITY_GRACE_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Ledger.GraceDays = n
		}
	}
	if v := os.Getenv("SAMITY_STORAGE_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("SAMITY_STORAGE_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("SAMITY_GIT_AUTOCOMMIT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Git.AutoCommit = b
		}
	}
}

// Rules converts the ledger section into calculation rules.
func (c *Config) Rules() (ledger.Rules, error) {
	rules := ledger.DefaultRules()
	if c.Ledger.InterestRate != "" {
		rate, err := decimal.NewFromString(c.Ledger.InterestRate)
		if err != nil {
			return ledger.Rules{}, fmt.Errorf("parsing interest_rate %q: %w", c.Ledger.InterestRate, err)
		}
		rules.InterestRate = rate
	}
	if c.Ledger.GraceDays > 0 {
		rules.GraceDays = c.Ledger.GraceDays
	}
	return rules, nil
}
