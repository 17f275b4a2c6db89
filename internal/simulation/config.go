// Package simulation provides configuration for the real-time simulation.
// Values are loaded from a JSON file so a deployment can retune movement and
// display without rebuilding.
package simulation

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"chosenoffset.com/crewmate/internal/core/geom"
	"chosenoffset.com/crewmate/internal/core/motion"
)

// Config holds all simulation settings for a session
type Config struct {
	// Movement rules
	Movement MovementConfig `json:"movement"`

	// Window and surface
	Display DisplayConfig `json:"display"`

	// Where the local participant starts
	Spawn SpawnConfig `json:"spawn"`

	// Map store location
	Maps MapsConfig `json:"maps"`

	// Size of the input event queue drained each tick
	InputQueueSize int `json:"input_queue_size"`
}

// MovementConfig defines movement mechanics
type MovementConfig struct {
	Speed      float64 `json:"speed"`        // World units per second
	Radius     float64 `json:"radius"`       // Entity body radius, also the bounds margin
	MaxDeltaMS int     `json:"max_delta_ms"` // Cap on a single frame step
}

// DisplayConfig defines the window the renderer draws into
type DisplayConfig struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Title       string `json:"title"`
	SurfaceName string `json:"surface_name"` // Logical name of the drawing surface
	Resizable   bool   `json:"resizable"`
}

// SpawnConfig defines start positions
type SpawnConfig struct {
	Start    geom.Point `json:"start"`    // Position before any map is loaded
	Fallback geom.Point `json:"fallback"` // Position on a map without spawn points
}

// MapsConfig defines where map records are stored
type MapsConfig struct {
	Dir string `json:"dir"`
}

// DefaultConfig returns the stock settings
func DefaultConfig() *Config {
	return &Config{
		Movement: MovementConfig{
			Speed:      motion.DefaultSpeed,
			Radius:     motion.DefaultRadius,
			MaxDeltaMS: int(motion.DefaultMaxDelta / time.Millisecond),
		},
		Display: DisplayConfig{
			Width:       1280,
			Height:      800,
			Title:       "Crewmate",
			SurfaceName: "world-canvas",
			Resizable:   true,
		},
		Spawn: SpawnConfig{
			Start:    geom.Point{X: 400, Y: 300},
			Fallback: geom.Point{X: 100, Y: 100},
		},
		Maps: MapsConfig{
			Dir: "data/maps",
		},
		InputQueueSize: 64,
	}
}

// LoadConfig loads simulation config from a JSON file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// Return defaults if file doesn't exist
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read simulation config: %w", err)
	}

	config := DefaultConfig() // Start with defaults
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse simulation config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config %s: %w", path, err)
	}

	return config, nil
}

// Validate rejects settings the loop cannot run with
func (c *Config) Validate() error {
	if c.Movement.Speed < 0 {
		return fmt.Errorf("movement speed must not be negative: %v", c.Movement.Speed)
	}
	if c.Movement.Radius < 0 {
		return fmt.Errorf("movement radius must not be negative: %v", c.Movement.Radius)
	}
	if c.Movement.MaxDeltaMS <= 0 {
		return fmt.Errorf("max_delta_ms must be positive: %d", c.Movement.MaxDeltaMS)
	}
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return fmt.Errorf("invalid display size: %dx%d", c.Display.Width, c.Display.Height)
	}
	return nil
}

// MotionParams converts the movement settings for the integrator
func (c *Config) MotionParams() motion.Params {
	return motion.Params{
		Speed:    c.Movement.Speed,
		Radius:   c.Movement.Radius,
		MaxDelta: time.Duration(c.Movement.MaxDeltaMS) * time.Millisecond,
	}
}
