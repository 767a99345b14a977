// Package config holds the tunable constants of the renderer and the demo host.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the root configuration document.
type Config struct {
	Engine EngineConfig `json:"engine"`
	Camera CameraConfig `json:"camera"`
	Window WindowConfig `json:"window"`

	Seed   int64  `json:"seed"`   // station generator seed
	Layout string `json:"layout"` // optional JSON layout path, overrides the generator
	Debug  bool   `json:"debug"`  // turn precondition violations into panics
}

// EngineConfig tunes culling, colouring and decoration.
type EngineConfig struct {
	RoomGap           int `json:"room_gap"`            // max bbox gap for neighbouring rooms to stay visible
	CorridorViewRange int `json:"corridor_view_range"` // torch radius in cells
	BucketSize        int `json:"bucket_size"`         // corridor bucket edge in cells

	MemoryFactor       float64 `json:"memory_factor"`        // brightness of explored-but-not-visible cells
	RoomTintWeight     float64 `json:"room_tint_weight"`     // room floor tint blend
	CorridorTintWeight float64 `json:"corridor_tint_weight"` // corridor floor near a room
	WallTintWeight     float64 `json:"wall_tint_weight"`     // wall near a room
	TintReach          int     `json:"tint_reach"`           // cells from a room that still take its tint

	DecorSeed        uint32 `json:"decor_seed"`
	DecorMaxProps    int    `json:"decor_max_props"`
	DecorDeferFrames int    `json:"decor_defer_frames"` // frames to wait for missing geometry before using the fallback
}

// CameraConfig tunes the camera rig.
type CameraConfig struct {
	FollowSpeed float64 `json:"follow_speed"`
	LookSpeed   float64 `json:"look_speed"`
	ChaseSpeed  float64 `json:"chase_speed"`
	Epsilon     float64 `json:"epsilon"`

	Zoom    float64 `json:"zoom"` // orthographic half-height in cells
	ZoomMin float64 `json:"zoom_min"`
	ZoomMax float64 `json:"zoom_max"`

	Elevation    float64 `json:"elevation"` // degrees above the horizon
	ElevationMin float64 `json:"elevation_min"`
	ElevationMax float64 `json:"elevation_max"`

	RoomDistance     float64 `json:"room_distance"`
	RoomHeight       float64 `json:"room_height"`
	CorridorDistance float64 `json:"corridor_distance"`
	CorridorHeight   float64 `json:"corridor_height"`
	PullBack         float64 `json:"pull_back"`  // fraction pulled toward the player when the candidate is in a wall
	LookAhead        float64 `json:"look_ahead"` // cells ahead of the player the chase camera looks at

	FOV       float64 `json:"fov"`
	FOVMoving float64 `json:"fov_moving"`
	FOVSpeed  float64 `json:"fov_speed"`
}

// WindowConfig sizes the host window.
type WindowConfig struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Title  string `json:"title"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			RoomGap:            4,
			CorridorViewRange:  10,
			BucketSize:         8,
			MemoryFactor:       0.45,
			RoomTintWeight:     0.45,
			CorridorTintWeight: 0.20,
			WallTintWeight:     0.30,
			TintReach:          2,
			DecorSeed:          0x5a,
			DecorMaxProps:      8,
			DecorDeferFrames:   120,
		},
		Camera: CameraConfig{
			FollowSpeed:      8,
			LookSpeed:        10,
			ChaseSpeed:       6,
			Epsilon:          1e-3,
			Zoom:             12,
			ZoomMin:          6,
			ZoomMax:          30,
			Elevation:        60,
			ElevationMin:     35,
			ElevationMax:     89,
			RoomDistance:     6,
			RoomHeight:       5,
			CorridorDistance: 3,
			CorridorHeight:   2.2,
			PullBack:         0.65,
			LookAhead:        1.5,
			FOV:              60,
			FOVMoving:        64,
			FOVSpeed:         3,
		},
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "deckview",
		},
		Seed: 1,
	}
}

// Load reads a JSON config file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks ranges that would otherwise break the renderer.
func (c Config) Validate() error {
	e, cam := c.Engine, c.Camera
	switch {
	case e.RoomGap < 0:
		return fmt.Errorf("%w: room_gap %d", ErrInvalid, e.RoomGap)
	case e.CorridorViewRange <= 0:
		return fmt.Errorf("%w: corridor_view_range %d", ErrInvalid, e.CorridorViewRange)
	case e.BucketSize <= 0:
		return fmt.Errorf("%w: bucket_size %d", ErrInvalid, e.BucketSize)
	case e.MemoryFactor < 0 || e.MemoryFactor > 1:
		return fmt.Errorf("%w: memory_factor %.2f", ErrInvalid, e.MemoryFactor)
	case e.DecorMaxProps < 0:
		return fmt.Errorf("%w: decor_max_props %d", ErrInvalid, e.DecorMaxProps)
	case cam.ZoomMin <= 0 || cam.ZoomMin > cam.ZoomMax:
		return fmt.Errorf("%w: zoom bounds [%.1f, %.1f]", ErrInvalid, cam.ZoomMin, cam.ZoomMax)
	case cam.ElevationMin <= 0 || cam.ElevationMin > cam.ElevationMax || cam.ElevationMax >= 90:
		return fmt.Errorf("%w: elevation bounds [%.1f, %.1f]", ErrInvalid, cam.ElevationMin, cam.ElevationMax)
	case cam.PullBack <= 0 || cam.PullBack > 1:
		return fmt.Errorf("%w: pull_back %.2f", ErrInvalid, cam.PullBack)
	case cam.Epsilon <= 0:
		return fmt.Errorf("%w: epsilon %g", ErrInvalid, cam.Epsilon)
	}
	return nil
}
