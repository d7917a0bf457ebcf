package toolbox

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "toolbox-mcp", cfg.Name)
	assert.NotEmpty(t, cfg.Workspace)
	assert.False(t, cfg.Analytics)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "toolbox-mcp", cfg.Name)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `name: custom-server
version: 2.3.4
workspace: /tmp/ws
analytics: true
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "custom-server", cfg.Name)
	assert.Equal(t, "2.3.4", cfg.Version)
	assert.Equal(t, "/tmp/ws", cfg.Workspace)
	assert.True(t, cfg.Analytics)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadConfigMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("[not, a, mapping]"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestConfigEnvOverrides(t *testing.T) {
	t.Setenv("TOOLBOX_WORKSPACE", "/tmp/env-ws")
	t.Setenv("TOOLBOX_ANALYTICS", "true")
	t.Setenv("TOOLBOX_LOG_LEVEL", "warn")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env-ws", cfg.Workspace)
	assert.True(t, cfg.Analytics)
	assert.Equal(t, slog.LevelWarn, cfg.SlogLevel())
}

func TestConfigAnalyticsRequiresExactlyTrue(t *testing.T) {
	// Any value other than "true" leaves analytics disabled.
	for _, v := range []string{"1", "yes", "TRUE", "false", "on"} {
		t.Setenv("TOOLBOX_ANALYTICS", v)
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.False(t, cfg.Analytics, "value %q should not enable analytics", v)
	}
}

func TestSlogLevelFallback(t *testing.T) {
	cfg := Config{LogLevel: "chatty"}
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}
