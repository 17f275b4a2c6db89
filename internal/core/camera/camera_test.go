package camera

import (
	"math/rand"
	"testing"

	"chosenoffset.com/crewmate/internal/core/geom"
)

func TestFollowCentersWithoutBounds(t *testing.T) {
	c := New()
	c.Follow(400, 300, geom.Bounds{}, 800, 600)
	if c.X != 0 || c.Y != 0 {
		t.Errorf("offset = (%v, %v), want (0, 0)", c.X, c.Y)
	}

	c.Follow(-1000, 5000, geom.Bounds{}, 800, 600)
	if c.X != -1400 || c.Y != 4700 {
		t.Errorf("offset = (%v, %v), want (-1400, 4700) in void mode", c.X, c.Y)
	}
}

func TestFollowClampsToBounds(t *testing.T) {
	b := geom.Bounds{Width: 2000, Height: 1500}
	rng := rand.New(rand.NewSource(7))
	c := New()

	for i := 0; i < 2000; i++ {
		tx := rng.Float64()*4000 - 1000
		ty := rng.Float64()*3000 - 750
		c.Follow(tx, ty, b, 800, 600)

		if c.X < 0 || c.X > b.Width-800 {
			t.Fatalf("target (%v, %v): x offset %v outside [0, %v]", tx, ty, c.X, b.Width-800)
		}
		if c.Y < 0 || c.Y > b.Height-600 {
			t.Fatalf("target (%v, %v): y offset %v outside [0, %v]", tx, ty, c.Y, b.Height-600)
		}
	}
}

func TestFollowPinsSmallMapToOrigin(t *testing.T) {
	c := New()
	b := geom.Bounds{Width: 640, Height: 480}
	for _, target := range []geom.Point{{X: 0, Y: 0}, {X: 320, Y: 240}, {X: 640, Y: 480}, {X: 10000, Y: -10000}} {
		c.Follow(target.X, target.Y, b, 1280, 800)
		if c.X != 0 || c.Y != 0 {
			t.Errorf("target %+v: offset = (%v, %v), want (0, 0)", target, c.X, c.Y)
		}
	}
}

func TestFollowPinsOnlyTheSmallAxis(t *testing.T) {
	c := New()
	c.Follow(1900, 100, geom.Bounds{Width: 2000, Height: 300}, 800, 600)
	if c.X != 1200 {
		t.Errorf("x offset = %v, want 1200", c.X)
	}
	if c.Y != 0 {
		t.Errorf("y offset = %v, want 0", c.Y)
	}
}

func TestToScreen(t *testing.T) {
	c := &Camera{X: 150, Y: -20}
	sx, sy := c.ToScreen(200, 30)
	if sx != 50 || sy != 50 {
		t.Errorf("ToScreen = (%v, %v), want (50, 50)", sx, sy)
	}
	ox, oy := c.ToScreen(0, 0)
	if ox != -150 || oy != 20 {
		t.Errorf("origin on screen = (%v, %v), want (-150, 20)", ox, oy)
	}
}
