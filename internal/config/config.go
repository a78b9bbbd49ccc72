package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the default config file written by `releve init`.
const FileName = "releve.yaml"

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config represents the top-level releve.yaml configuration.
type Config struct {
	Owner   string        `yaml:"owner"`
	Store   StoreConfig   `yaml:"store"`
	Import  ImportConfig  `yaml:"import"`
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig selects where reconciled transactions are persisted.
type StoreConfig struct {
	Driver   string `yaml:"driver"`
	Path     string `yaml:"path,omitempty"`
	LabelKey string `yaml:"label_key,omitempty"` // base64, 32 bytes
}

// ImportConfig controls the import command.
type ImportConfig struct {
	Workers int           `yaml:"workers"`
	LogDir  string        `yaml:"log_dir"`
	Timeout time.Duration `yaml:"timeout"`
}

// LoggingConfig controls the zerolog output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// Load reads a releve.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Driver: DriverSQLite,
			Path:   "releve.db",
		},
		Import: ImportConfig{
			Workers: 4,
			LogDir:  "logs",
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// ApplyEnv overrides fields from RELEVE_* environment variables.
func (c *Config) ApplyEnv() {
	set := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	set("RELEVE_OWNER", &c.Owner)
	set("RELEVE_STORE_DRIVER", &c.Store.Driver)
	set("RELEVE_DB_PATH", &c.Store.Path)
	set("RELEVE_LABEL_KEY", &c.Store.LabelKey)
	set("RELEVE_LOG_LEVEL", &c.Logging.Level)
}

// ResolvePaths makes relative store and log paths relative to base, the
// directory holding the config file.
func (c *Config) ResolvePaths(base string) {
	for _, p := range []*string{&c.Store.Path, &c.Import.LogDir} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

// Validate reports every problem with the config at once.
func (c *Config) Validate() error {
	var errs []error
	switch c.Store.Driver {
	case DriverMemory:
	case DriverSQLite:
		if strings.TrimSpace(c.Store.Path) == "" {
			errs = append(errs, errors.New("store.path is required for the sqlite driver"))
		}
		if c.Store.LabelKey == "" {
			errs = append(errs, errors.New("store.label_key is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store.driver %q", c.Store.Driver))
	}
	if c.Import.Workers < 1 {
		errs = append(errs, fmt.Errorf("import.workers must be at least 1, got %d", c.Import.Workers))
	}
	if c.Import.Timeout < 0 {
		errs = append(errs, errors.New("import.timeout must not be negative"))
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown logging.format %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}
