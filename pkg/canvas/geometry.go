package canvas

import (
	"math"

	"UIAnnotator/internal/entity"
)

// Normalize turns two raw pointer positions into an axis-aligned rectangle
// with x1 <= x2 and y1 <= y2. Equal points yield a zero-area rectangle.
func Normalize(p1, p2 entity.Point) entity.Coordinates {
	return entity.Coordinates{
		math.Min(p1.X, p2.X),
		math.Min(p1.Y, p2.Y),
		math.Max(p1.X, p2.X),
		math.Max(p1.Y, p2.Y),
	}
}

func NormalizeCoordinates(c entity.Coordinates) entity.Coordinates {
	return Normalize(entity.Point{X: c[0], Y: c[1]}, entity.Point{X: c[2], Y: c[3]})
}

// Clamp confines normalized coordinates to an image of the given native size.
// A non-positive dimension leaves that axis untouched.
func Clamp(c entity.Coordinates, width, height int) entity.Coordinates {
	if width > 0 {
		c[0] = clamp(c[0], 0, float64(width))
		c[2] = clamp(c[2], 0, float64(width))
	}
	if height > 0 {
		c[1] = clamp(c[1], 0, float64(height))
		c[3] = clamp(c[3], 0, float64(height))
	}
	return c
}

func IoU(a, b entity.Coordinates) float64 {
	inter := entity.Coordinates{
		math.Max(a[0], b[0]),
		math.Max(a[1], b[1]),
		math.Min(a[2], b[2]),
		math.Min(a[3], b[3]),
	}
	interArea := inter.Area()
	union := a.Area() + b.Area() - interArea
	if union <= 0 {
		return 0
	}
	return interArea / union
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
