package costumy

import "math"

// Rect is an axis-aligned rectangle, used for panel bounding boxes.
type Rect struct {
	Min, Max Point
}

// NewRect creates a rectangle from two corner points in any order.
func NewRect(p1, p2 Point) Rect {
	return Rect{
		Min: Pt(math.Min(p1.X, p2.X), math.Min(p1.Y, p2.Y)),
		Max: Pt(math.Max(p1.X, p2.X), math.Max(p1.Y, p2.Y)),
	}
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Center returns the rectangle's center point.
func (r Rect) Center() Point {
	return Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
}

// expand grows the rectangle to include p.
func (r Rect) expand(p Point) Rect {
	return Rect{
		Min: Pt(math.Min(r.Min.X, p.X), math.Min(r.Min.Y, p.Y)),
		Max: Pt(math.Max(r.Max.X, p.X), math.Max(r.Max.Y, p.Y)),
	}
}
