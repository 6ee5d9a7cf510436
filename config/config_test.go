package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	data := `
api:
  addr: ":9999"
engine:
  tick_seconds: 30
mqtt:
  enabled: true
  broker: tcp://localhost:1883
metrics:
  prometheus_enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.API.Addr)
	assert.Equal(t, 30, cfg.Engine.TickSeconds)
	assert.True(t, cfg.MQTT.Enabled)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTT.Broker)
	assert.True(t, cfg.Metrics.PrometheusEnabled)
	// Defaults applied where the file is silent.
	assert.Equal(t, ":9090", cfg.Metrics.PrometheusAddr)
	assert.Equal(t, "railctl/trains/updates", cfg.MQTT.UpdateTopic)
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.json")
	data := `{"api":{"addr":":7070"},"engine":{"tick_seconds":10}}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.API.Addr)
	assert.Equal(t, 10, cfg.Engine.TickSeconds)
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  addr: \":8080\"\n"), 0o644))
	t.Setenv("RAILCTL_API__ADDR", ":6060")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":6060", cfg.API.Addr)
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	_, err := Load("config.toml")
	assert.Error(t, err)
}

func TestLoadRejectsNegativeTick(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  tick_seconds: -5\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
