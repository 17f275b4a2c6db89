// Package entity defines the positioned, drawable participants of a session.
package entity

import (
	"fmt"
	"image/color"
	"strings"
)

// LocalID is the identity of the participant driven by this process.
const LocalID = "local"

// DefaultColor is the body color used when none is configured (#f43f5e).
var DefaultColor = color.RGBA{0xf4, 0x3f, 0x5e, 0xff}

// Entity is one participant in the simulation.
type Entity struct {
	ID    string
	Name  string
	X, Y  float64
	Color color.RGBA

	// DirX, DirY hold the raw per-axis input direction of the last tick
	// (-1, 0 or 1 each).
	DirX, DirY float64

	// FacingLeft is updated only when DirX is non-zero so an idle entity
	// keeps looking the way it last moved.
	FacingLeft bool
}

// New creates an entity at the given position facing right.
func New(id, name string, x, y float64, c color.RGBA) *Entity {
	return &Entity{
		ID:    id,
		Name:  name,
		X:     x,
		Y:     y,
		Color: c,
	}
}

// SetDirection records the raw input direction and derives facing.
func (e *Entity) SetDirection(dx, dy float64) {
	e.DirX = dx
	e.DirY = dy
	if dx < 0 {
		e.FacingLeft = true
	} else if dx > 0 {
		e.FacingLeft = false
	}
}

// ParseHexColor parses "#rrggbb" or "#rgb" (leading '#' optional).
func ParseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	c := color.RGBA{A: 0xff}

	var err error
	switch len(s) {
	case 6:
		_, err = fmt.Sscanf(s, "%2x%2x%2x", &c.R, &c.G, &c.B)
	case 3:
		_, err = fmt.Sscanf(s, "%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R *= 17
		c.G *= 17
		c.B *= 17
	default:
		return color.RGBA{}, fmt.Errorf("invalid color %q: want #rrggbb or #rgb", s)
	}
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}
