package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Owner = "alice"
	cfg.Store.LabelKey = "c2VjcmV0"
	cfg.Import.Timeout = 90 * time.Second

	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Empty(t, cfg.Owner)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "releve.db", cfg.Store.Path)
	assert.Equal(t, 4, cfg.Import.Workers)
	assert.Equal(t, "logs", cfg.Import.LogDir)
	assert.Equal(t, 30*time.Second, cfg.Import.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("owner: bob\nstore:\n  driver: memory\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bob", cfg.Owner)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, 4, cfg.Import.Workers)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestYAMLFormat(t *testing.T) {
	cfg := Default()
	cfg.Owner = "alice"
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "owner: alice")
	assert.Contains(t, contents, "driver: sqlite")
	assert.Contains(t, contents, "workers: 4")
	assert.Contains(t, contents, "timeout: 30s")
	assert.NotContains(t, contents, "label_key")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("RELEVE_OWNER", "carol")
	t.Setenv("RELEVE_STORE_DRIVER", "memory")
	t.Setenv("RELEVE_DB_PATH", "/tmp/other.db")
	t.Setenv("RELEVE_LABEL_KEY", "a2V5")
	t.Setenv("RELEVE_LOG_LEVEL", "debug")

	cfg := Default()
	cfg.Owner = "alice"
	cfg.ApplyEnv()

	assert.Equal(t, "carol", cfg.Owner)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, "/tmp/other.db", cfg.Store.Path)
	assert.Equal(t, "a2V5", cfg.Store.LabelKey)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestApplyEnvEmptyIgnored(t *testing.T) {
	t.Setenv("RELEVE_OWNER", "")
	cfg := Default()
	cfg.Owner = "alice"
	cfg.ApplyEnv()
	assert.Equal(t, "alice", cfg.Owner)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"memory ok", func(c *Config) { c.Store.Driver = DriverMemory }, ""},
		{"sqlite ok", func(c *Config) { c.Store.LabelKey = "k" }, ""},
		{"sqlite without key", func(c *Config) {}, "store.label_key"},
		{"sqlite without path", func(c *Config) { c.Store.LabelKey = "k"; c.Store.Path = " " }, "store.path"},
		{"unknown driver", func(c *Config) { c.Store.Driver = "postgres" }, `unknown store.driver "postgres"`},
		{"zero workers", func(c *Config) { c.Store.Driver = DriverMemory; c.Import.Workers = 0 }, "import.workers"},
		{"negative timeout", func(c *Config) { c.Store.Driver = DriverMemory; c.Import.Timeout = -time.Second }, "import.timeout"},
		{"bad format", func(c *Config) { c.Store.Driver = DriverMemory; c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResolvePaths(t *testing.T) {
	cfg := Default()
	cfg.Import.LogDir = "/var/log/releve"
	cfg.ResolvePaths("/home/alice/books")

	assert.Equal(t, filepath.Join("/home/alice/books", "releve.db"), cfg.Store.Path)
	assert.Equal(t, "/var/log/releve", cfg.Import.LogDir)
}
