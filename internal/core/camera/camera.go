// Package camera maps world coordinates to the visible viewport.
package camera

import (
	"chosenoffset.com/crewmate/internal/core/geom"
)

// Camera tracks the viewport position for scrolling large maps.
type Camera struct {
	X, Y float64 // Top-left corner of the viewport in world coords
}

// New returns a camera at the world origin.
func New() *Camera {
	return &Camera{}
}

// Follow centers the viewport on the target. With known bounds the offset is
// clamped to [0, size-viewport] per axis; a map smaller than the viewport pins
// the offset to 0.
func (c *Camera) Follow(targetX, targetY float64, b geom.Bounds, viewportWidth, viewportHeight float64) {
	c.X = targetX - viewportWidth/2
	c.Y = targetY - viewportHeight/2

	if !b.Known() {
		return
	}
	c.X = geom.Clamp(c.X, 0, b.Width-viewportWidth)
	c.Y = geom.Clamp(c.Y, 0, b.Height-viewportHeight)
}

// ToScreen converts a world position to screen coordinates.
func (c *Camera) ToScreen(worldX, worldY float64) (screenX, screenY float64) {
	return worldX - c.X, worldY - c.Y
}
