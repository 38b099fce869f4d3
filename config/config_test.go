package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
database:
  dsn: "file::memory:"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "X-Owner-ID", cfg.Server.OwnerHeader)
	assert.Equal(t, 300*time.Second, cfg.Reminders.Interval)
	assert.Equal(t, 1, cfg.WorkerPool.Size)
	assert.Equal(t, 7, cfg.Care.DefaultIntervalDays)
	assert.Equal(t, 10, cfg.Care.HistoryPreviewLimit)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_ExampleFile(t *testing.T) {
	cfg, err := Load("config.yaml")
	require.NoError(t, err)

	assert.True(t, cfg.Reminders.Enabled)
	assert.Equal(t, 4, cfg.WorkerPool.Size)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, "warn", cfg.Database.LogLevel)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
database:
  dsn: "from-file.db"
`)
	t.Setenv(EnvDatabaseDSN, "postgres://plants@localhost/bloompal")
	t.Setenv(EnvPort, "9100")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://plants@localhost/bloompal", cfg.Database.DSN)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		body string
		env  map[string]string
	}{
		{name: "missing dsn", body: "server:\n  port: 8080\n"},
		{name: "port out of range", body: "server:\n  port: 70000\ndatabase:\n  dsn: x.db\n"},
		{name: "unknown log format", body: "database:\n  dsn: x.db\nlog:\n  format: xml\n"},
		{name: "unknown gorm log level", body: "database:\n  dsn: x.db\n  log_level: loud\n"},
		{name: "non-numeric port env", body: "database:\n  dsn: x.db\n", env: map[string]string{EnvPort: "eighty"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
