package costumy

import "math"

// Point represents a 2D point or vector in panel-local cartesian space.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points (vector addition).
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns the point scaled by a scalar.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// MulXY returns the point scaled elementwise. MulXY(1, -1) flips the
// point vertically, which converts between SVG space and cartesian space.
func (p Point) MulXY(sx, sy float64) Point {
	return Point{X: p.X * sx, Y: p.Y * sy}
}

// Div returns the point divided by a scalar.
func (p Point) Div(s float64) Point {
	return Point{X: p.X / s, Y: p.Y / s}
}

// Dot returns the dot product of two vectors.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Cross returns the 2D cross product (scalar).
func (p Point) Cross(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Length returns the length of the vector.
func (p Point) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// Distance returns the distance between two points.
func (p Point) Distance(q Point) float64 {
	return p.Sub(q).Length()
}

// ManhattanDistance returns the sum of the absolute coordinate
// differences. Edge ordering uses it to pick the start edge nearest a
// bounding-box corner.
func (p Point) ManhattanDistance(q Point) float64 {
	return math.Abs(p.X-q.X) + math.Abs(p.Y-q.Y)
}

// Lerp performs linear interpolation between two points.
// t=0 returns p, t=1 returns q, intermediate values interpolate.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

// Round returns the point with both coordinates rounded to the given
// number of decimal digits.
func (p Point) Round(digits int) Point {
	return Point{X: roundTo(p.X, digits), Y: roundTo(p.Y, digits)}
}

// roundTo rounds x to the given number of decimal digits.
func roundTo(x float64, digits int) float64 {
	f := math.Pow(10, float64(digits))
	return math.Round(x*f) / f
}

// RotateAround returns the point rotated by angle degrees around the
// pivot. The result is rounded to 4 decimal digits to keep repeated
// panel rotations stable.
func (p Point) RotateAround(pivot Point, degrees float64) Point {
	rad := degrees * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	d := p.Sub(pivot)
	return Point{
		X: pivot.X + cos*d.X - sin*d.Y,
		Y: pivot.Y + sin*d.X + cos*d.Y,
	}.Round(4)
}

// ReflectAcross returns the reflection of p across the infinite line
// through a and b, using the line's implicit form ax+by+c=0.
func (p Point) ReflectAcross(a, b Point) Point {
	la := a.Y - b.Y
	lb := b.X - a.X
	lc := -(la*a.X + lb*a.Y)

	den := la*la + lb*lb
	return Point{
		X: ((lb*lb-la*la)*p.X - 2*la*lb*p.Y - 2*lc*la) / den,
		Y: (-2*la*lb*p.X + (la*la-lb*lb)*p.Y - 2*lc*lb) / den,
	}
}
