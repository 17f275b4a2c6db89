// Package motion advances entity positions from held movement keys.
package motion

import (
	"math"
	"time"

	"chosenoffset.com/crewmate/internal/core/geom"
	"chosenoffset.com/crewmate/internal/render"
	"chosenoffset.com/crewmate/internal/world/entity"
)

const (
	// DefaultSpeed is the movement speed in world units per second.
	DefaultSpeed = 250.0
	// DefaultRadius is the visual radius of an entity body.
	DefaultRadius = 20.0
	// DefaultMaxDelta caps a single step (six frames at 60Hz).
	DefaultMaxDelta = 100 * time.Millisecond
)

// KeyReader is the read side of the input state.
type KeyReader interface {
	IsHeld(key render.Key) bool
}

// Params are the tunables of the integrator.
type Params struct {
	Speed    float64
	Radius   float64
	MaxDelta time.Duration
}

// DefaultParams returns the stock movement tuning.
func DefaultParams() Params {
	return Params{
		Speed:    DefaultSpeed,
		Radius:   DefaultRadius,
		MaxDelta: DefaultMaxDelta,
	}
}

// ClampDelta limits dt to [0, max] seconds.
func ClampDelta(dt float64, max time.Duration) float64 {
	return geom.Clamp(dt, 0, max.Seconds())
}

// Direction returns the raw per-axis direction for the held keys:
// W/S map to -y/+y and A/D to -x/+x.
func Direction(in KeyReader) (dx, dy float64) {
	if in.IsHeld(render.KeyW) {
		dy--
	}
	if in.IsHeld(render.KeyS) {
		dy++
	}
	if in.IsHeld(render.KeyA) {
		dx--
	}
	if in.IsHeld(render.KeyD) {
		dx++
	}
	return dx, dy
}

// Integrate moves e for dt seconds according to the held keys.
// Diagonal movement is normalized so it is no faster than axis movement.
// When b is known the position is kept within [radius, size-radius].
func Integrate(e *entity.Entity, in KeyReader, dt float64, b geom.Bounds, p Params) {
	dt = ClampDelta(dt, p.MaxDelta)

	dx, dy := Direction(in)
	e.SetDirection(dx, dy)

	if dx != 0 || dy != 0 {
		length := math.Hypot(dx, dy)
		e.X += dx / length * p.Speed * dt
		e.Y += dy / length * p.Speed * dt
	}

	if b.Known() {
		e.X = geom.Clamp(e.X, p.Radius, b.Width-p.Radius)
		e.Y = geom.Clamp(e.Y, p.Radius, b.Height-p.Radius)
	}
}
