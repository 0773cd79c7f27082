package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CRYPTOPULSE_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, int64(10485760), cfg.Import.MaxBodyBytes)
	assert.Equal(t, 10, cfg.Analytics.DefaultLimit)
	assert.Equal(t, 50, cfg.Analytics.MaxLimit)
	assert.Equal(t, 50, cfg.Analytics.BatchSize)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CRYPTOPULSE_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("CRYPTOPULSE_SERVER_PORT", "9090")
	t.Setenv("CRYPTOPULSE_LOGGING_LEVEL", "debug")
	t.Setenv("CRYPTOPULSE_DATABASE_URL", "postgres://db:5432/test?sslmode=disable")
	t.Setenv("CRYPTOPULSE_ANALYTICS_BATCH_SIZE", "100")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "postgres://db:5432/test?sslmode=disable", cfg.Database.URL)
	assert.Equal(t, 100, cfg.Analytics.BatchSize)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "port out of range", key: "CRYPTOPULSE_SERVER_PORT", value: "70000"},
		{name: "bad log level", key: "CRYPTOPULSE_LOGGING_LEVEL", value: "verbose"},
		{name: "non-postgres url", key: "CRYPTOPULSE_DATABASE_URL", value: "mysql://host/db"},
		{name: "zero default limit", key: "CRYPTOPULSE_ANALYTICS_DEFAULT_LIMIT", value: "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CRYPTOPULSE_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 9999
logging:
  level: warn
database:
  url: postgres://file-host:5432/app
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := loadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "postgres://file-host:5432/app", cfg.Database.URL)
}

func TestMergeConfigs_EnvWins(t *testing.T) {
	file := Config{}
	file.Server.Port = 9999
	file.Logging.Level = "warn"
	file.Analytics.BatchSize = 20

	env := Config{}
	env.Server.Port = 8080

	merged := mergeConfigs(file, env)

	// Env value kept, file fills the gaps.
	assert.Equal(t, 8080, merged.Server.Port)
	assert.Equal(t, "warn", merged.Logging.Level)
	assert.Equal(t, 20, merged.Analytics.BatchSize)
}
