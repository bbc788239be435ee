package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Screen.Width)
	assert.Equal(t, 600, cfg.Screen.Height)
	assert.Equal(t, 120, cfg.Render.Rays)
	assert.InDelta(t, math.Pi/3, cfg.Render.FovRadians(), 1e-12)
	assert.Equal(t, 800.0, cfg.Render.MaxDepth)
	assert.Equal(t, 100.0, cfg.Level.TileSize)
	assert.Equal(t, 3.0, cfg.Player.Speed)
	assert.Equal(t, 250*time.Millisecond, cfg.Net.ReadTimeout)
	assert.Equal(t, "tcp://127.0.0.1:5555", cfg.Net.Address)

	scheme, hostport, err := cfg.Net.Endpoint()
	require.NoError(t, err)
	assert.Equal(t, "tcp", scheme)
	assert.Equal(t, "127.0.0.1:5555", hostport)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
render:
  rays: 240
net:
  address: tcp://0.0.0.0:6000
  read_timeout: 100ms
log:
  level: debug
`), 0o644))

	t.Setenv("ARENA_NET_ADDRESS", "ws://localhost:9000/play")
	t.Setenv("ARENA_PLAYER_SPEED", "4.5")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 240, cfg.Render.Rays)
	assert.Equal(t, 100*time.Millisecond, cfg.Net.ReadTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 4.5, cfg.Player.Speed)

	scheme, hostport, err := cfg.Net.Endpoint()
	require.NoError(t, err)
	assert.Equal(t, "ws", scheme)
	assert.Equal(t, "localhost:9000", hostport)
	assert.Equal(t, "/play", cfg.Net.WebSocketPath())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base, err := Load("")
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero rays", func(c *Config) { c.Render.Rays = 0 }},
		{"flat fov", func(c *Config) { c.Render.FovDegrees = 180 }},
		{"no tile", func(c *Config) { c.Level.TileSize = 0 }},
		{"no read timeout", func(c *Config) { c.Net.ReadTimeout = 0 }},
		{"udp address", func(c *Config) { c.Net.Address = "udp://127.0.0.1:5555" }},
		{"missing host", func(c *Config) { c.Net.Address = "tcp://" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *base
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	assert.Equal(t, "/ws", base.Net.WebSocketPath())
}

func TestWebSocketPathDefaults(t *testing.T) {
	for _, address := range []string{"ws://127.0.0.1:5555", "ws://127.0.0.1:5555/"} {
		assert.Equal(t, "/ws", NetConfig{Address: address}.WebSocketPath(), address)
	}
	assert.Equal(t, "/play", NetConfig{Address: "ws://127.0.0.1:5555/play"}.WebSocketPath())
}
