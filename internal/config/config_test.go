package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteEnabled(t *testing.T) {
	tests := []struct {
		host     string
		password string
		want     bool
	}{
		{"db.internal", "s3cret", true},
		{"", "s3cret", false},
		{"db.internal", "", false},
		{"your-db-host", "s3cret", false},
		{"db.internal", "YOUR-DB-PASSWORD", false},
		{"  ", "s3cret", false},
		{"db.internal", "changeme", false},
	}

	for _, tt := range tests {
		cfg := &Config{Database: DatabaseConfig{Host: tt.host, Password: tt.password}}
		assert.Equal(t, tt.want, cfg.RemoteEnabled(), "host=%q password=%q", tt.host, tt.password)
	}
}

func TestLoad_Defaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "repairtrack", cfg.Local.Namespace)
	assert.Equal(t, 24*time.Hour, cfg.JWT.AccessTokenExpire)
	assert.Equal(t, time.Second, cfg.Tracking.Delay)
	assert.False(t, cfg.RemoteEnabled())
}

func TestLoad_FileEnvAndFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  host: your-db-host
  password: your-db-password
local:
  namespace: shop
tracking:
  delay: 0s
`), 0o600))

	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PASSWORD", "s3cret")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config", "", "")
	flags.Int("port", 8080, "")
	require.NoError(t, flags.Parse([]string{"--config", path, "--port", "9090"}))

	cfg, err := Load(flags)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "shop", cfg.Local.Namespace)
	assert.Equal(t, time.Duration(0), cfg.Tracking.Delay)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.True(t, cfg.RemoteEnabled())
}

func TestLoad_ExplicitFileWinsOverSearchPath(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	cwd := t.TempDir()
	require.NoError(t, os.Chdir(cwd))
	t.Cleanup(func() { os.Chdir(wd) })
	require.NoError(t, os.WriteFile(filepath.Join(cwd, "config.yaml"), []byte("local:\n  namespace: searched\n"), 0o600))

	explicit := filepath.Join(t.TempDir(), "explicit.yaml")
	require.NoError(t, os.WriteFile(explicit, []byte("local:\n  namespace: explicit\n"), 0o600))
	t.Setenv("CONFIG_FILE", explicit)

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "explicit", cfg.Local.Namespace)

	t.Setenv("CONFIG_FILE", "")
	cfg, err = Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "searched", cfg.Local.Namespace)

	t.Setenv("CONFIG_FILE", filepath.Join(cwd, "missing.yaml"))
	_, err = Load(nil)
	assert.Error(t, err)
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("REPAIRTRACK_TEST_VALUE", "set")
	assert.Equal(t, "set", GetEnvOrDefault("REPAIRTRACK_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", GetEnvOrDefault("REPAIRTRACK_TEST_UNSET", "fallback"))
}
