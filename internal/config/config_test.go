package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	require.Error(t, err, "explicit missing config file should fail")

	t.Setenv("CONFIG_FILE", "")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "memory", cfg.Database.Driver)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte("server:\n  port: 9000\ndatabase:\n  driver: file\n  state_path: /tmp/state.json\n")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVER_PORT", "9100")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "file", cfg.Database.Driver)
	require.Equal(t, "/tmp/state.json", cfg.Database.StatePath)
	require.Equal(t, 9100, cfg.Server.Port, "environment should override the file")
}

func TestValidateRejectsBadConfig(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "postgres")
	_, err := Load()
	require.Error(t, err, "postgres without dsn must be rejected")

	t.Setenv("DATABASE_DRIVER", "memory")
	t.Setenv("SERVER_PORT", "70000")
	_, err = Load()
	require.Error(t, err, "out-of-range port must be rejected")
}
