package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 10*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.Empty(t, cfg.Server.TrustedProxies)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
server:
  port: 9090
  trusted_proxies: [10.0.0.0/8]
database:
  driver: postgres
  dsn: host=db
users:
  - username: admin
    password_hash: x
    authorities: [ROLE_ADMIN, ROLE_USER]
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))
	t.Setenv("BLOG_LOG_LEVEL", "debug")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.Server.TrustedProxies)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	require.Len(t, cfg.Users, 1)
	assert.Equal(t, []string{"ROLE_ADMIN", "ROLE_USER"}, cfg.Users[0].Authorities)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Server:   ServerConfig{Mode: "debug", RateLimitRPS: 1, RateBurst: 1},
			Database: DatabaseConfig{Driver: "sqlite"},
		}
	}

	cfg := base()
	assert.NoError(t, cfg.Validate())

	cfg = base()
	cfg.Database.Driver = "mysql"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Server.Mode = "release"
	assert.Error(t, cfg.Validate())
	cfg.JWT.Secret = "s3cret"
	assert.NoError(t, cfg.Validate())

	cfg = base()
	cfg.Server.RateBurst = 0
	assert.Error(t, cfg.Validate())
}
