package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 4, cfg.Engine.RoomGap)
	assert.InDelta(t, 0.65, cfg.Camera.PullBack, 1e-9)
}

func TestLoadKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deckview.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"seed": 42, "engine": {"corridor_view_range": 14}}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 14, cfg.Engine.CorridorViewRange)
	assert.Equal(t, 8, cfg.Engine.BucketSize)
	assert.Equal(t, 12.0, cfg.Camera.Zoom)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"camera": {"zoom_min": 40}}`), 0o644))
	_, err = Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidateRanges(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative gap", func(c *Config) { c.Engine.RoomGap = -1 }},
		{"zero range", func(c *Config) { c.Engine.CorridorViewRange = 0 }},
		{"zero bucket", func(c *Config) { c.Engine.BucketSize = 0 }},
		{"memory factor", func(c *Config) { c.Engine.MemoryFactor = 1.5 }},
		{"elevation", func(c *Config) { c.Camera.ElevationMax = 90 }},
		{"pull back", func(c *Config) { c.Camera.PullBack = 0 }},
		{"epsilon", func(c *Config) { c.Camera.Epsilon = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}
