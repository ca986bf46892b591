package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[server]
http_port = 8085

[database]
driver = "memory"

[auth]
jwt_secret = "from-file"

[court_directory]
source = "file"
file = "courts.yaml"

[scheduling]
cancellation_window_minutes = 45
timezone = "UTC"
`

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, t.TempDir(), sampleConfig)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8085, cfg.Server.HTTPPort)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	assert.Equal(t, 45*time.Minute, cfg.Scheduling.CancellationWindow())
	assert.Equal(t, 7, cfg.Scheduling.MaxRangeDays)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "court.events", cfg.Notifications.Exchange)
}

func TestLoad_EnvOverridesSecrets(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, sampleConfig)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DATABASE_PASSWORD=from-dotenv\n"), 0o644))
	t.Setenv("AUTH_JWT_SECRET", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("DATABASE_PASSWORD") })

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "from-dotenv", cfg.Database.Password)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Database.Driver = DriverMemory
		cfg.Auth.JWTSecret = "secret"
		cfg.CourtDirectory.URL = "http://courts"
		return cfg
	}

	require.NoError(t, valid().Validate())

	cases := map[string]func(c *Config){
		"bad port":           func(c *Config) { c.Server.HTTPPort = 0 },
		"unknown driver":     func(c *Config) { c.Database.Driver = "sqlite" },
		"postgres no dbname": func(c *Config) { c.Database.Driver = DriverPostgres },
		"no secret":          func(c *Config) { c.Auth.JWTSecret = "" },
		"http without url":   func(c *Config) { c.CourtDirectory.URL = "" },
		"file without path":  func(c *Config) { c.CourtDirectory.Source = CourtSourceFile },
		"amqp without url":   func(c *Config) { c.Notifications.Enabled = true },
		"negative window":    func(c *Config) { c.Scheduling.CancellationWindowMinutes = -1 },
		"bad timezone":       func(c *Config) { c.Scheduling.Timezone = "Mars/Olympus" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
