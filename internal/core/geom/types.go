package geom

// Point represents a 2D point in world space
type Point struct {
	X, Y float64
}

// Bounds is the playable world rectangle [0,0]-[Width,Height].
// The zero value means the bounds are not known yet.
type Bounds struct {
	Width, Height float64
}

// Known reports whether the bounds describe a real map area.
func (b Bounds) Known() bool {
	return b.Width > 0 && b.Height > 0
}

// Clamp limits v to [lo, hi]. When the range is inverted v is pinned to lo.
func Clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
