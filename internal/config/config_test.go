package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8181", cfg.Listen)
	assert.Equal(t, "default", cfg.Calendar.DefaultName)
	assert.Equal(t, "UTC", cfg.Calendar.DefaultZone)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "application.yaml")
	content := `listen: ":9000"
calendar:
  defaultname: "work"
  defaultzone: "Europe/Warsaw"
metrics:
  enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Listen)
	assert.Equal(t, "work", cfg.Calendar.DefaultName)
	assert.Equal(t, "Europe/Warsaw", cfg.Calendar.DefaultZone)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MULTICAL_LISTEN", ":7777")
	t.Setenv("MULTICAL_CALENDAR_DEFAULTZONE", "Asia/Tokyo")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":7777", cfg.Listen)
	assert.Equal(t, "Asia/Tokyo", cfg.Calendar.DefaultZone)
	// untouched keys keep their defaults
	assert.Equal(t, "default", cfg.Calendar.DefaultName)
}
