package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strongSecret = "a-very-long-secret-for-production-use-0123"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "dev-secret-123456")
	dir := t.TempDir()

	cfg, err := load(filepath.Join(dir, ".env"), dir)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "data/board.db", cfg.DBPath)
	assert.Equal(t, time.Duration(0), cfg.TokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "dev-secret-123456")
	t.Setenv("PORT", "9090")
	t.Setenv("TOKEN_TTL", "12h")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("DB_DRIVER", " Postgres ")
	t.Setenv("DATABASE_URL", "postgres://localhost/board")
	dir := t.TempDir()

	cfg, err := load(filepath.Join(dir, ".env"), dir)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
}

func TestLoad_DotEnvAndConfigFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("JWT_SECRET=from-dotenv-123456\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte("LOG_LEVEL: debug\nCACHE_TTL: 5s\n"), 0o600))
	// t.Setenv restores the variable that godotenv is about to set
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")

	cfg, err := load(envFile, dir)
	require.NoError(t, err)

	assert.Equal(t, "from-dotenv-123456", cfg.JWTSecret)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.CacheTTL)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	dir := t.TempDir()

	_, err := load(filepath.Join(dir, ".env"), dir)
	assert.ErrorContains(t, err, "JWT_SECRET is required")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			Port:      8080,
			AppEnv:    "development",
			DBDriver:  DriverSQLite,
			DBPath:    "data/board.db",
			JWTSecret: "dev-secret-123456",
			LogLevel:  "info",
			LogFormat: "text",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid development", func(*Config) {}, false},
		{"short secret", func(c *Config) { c.JWTSecret = "short" }, true},
		{"production needs 32 chars", func(c *Config) { c.AppEnv = "production" }, true},
		{"production with strong secret", func(c *Config) { c.AppEnv = "production"; c.JWTSecret = strongSecret }, false},
		{"bad port", func(c *Config) { c.Port = 0 }, true},
		{"negative ttl", func(c *Config) { c.TokenTTL = -time.Second }, true},
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }, true},
		{"postgres without url", func(c *Config) { c.DBDriver = DriverPostgres }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_SlogLevel(t *testing.T) {
	c := Config{LogLevel: "warn"}
	level, err := c.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)
}
