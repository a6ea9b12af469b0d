package costumy

// Edge is one segment of a panel's boundary loop: either a straight
// Line or a quadratic Curve. The two variants share endpoint indices
// into the owning panel's vertex list and an optional provenance id.
//
// The provenance id tags an edge with the 1-based ordinal of the
// source-path segment it was approximated from; 0 means unassigned.
// Mirrored copies created by unfolding carry the negated id, which is
// how seam rules distinguish the two halves of an unfolded panel.
type Edge interface {
	// Start returns the edge's first point.
	Start() Point
	// End returns the edge's last point.
	End() Point
	// PointAt evaluates the edge at parameter t in [0,1].
	PointAt(t float64) Point
	// Center returns PointAt(0.5).
	Center() Point
	// Length returns the edge length. For a Curve this is the polyline
	// length over Sample(20), an approximation rather than exact arc
	// length.
	Length() float64
	// Sample returns n+1 points at t=i/n for i in 0..n, starting with
	// Start and ending with End.
	Sample(n int) []Point
	// Ends returns the endpoint indices into the panel vertex list.
	Ends() (int, int)
	// SetEnds assigns the endpoint indices.
	SetEnds(i, j int)
	// ID returns the provenance id (0 if unassigned).
	ID() int
	// SetID assigns the provenance id.
	SetID(id int)
	// Reverse flips the edge direction in place, swapping the start and
	// end points and the endpoint indices.
	Reverse()
	// Clone returns an independent copy of the edge.
	Clone() Edge

	// transform applies f to every defining point of the edge.
	transform(f func(Point) Point)
	isEdge()
}

// edgeInfo carries the bookkeeping shared by both edge variants.
type edgeInfo struct {
	ends [2]int
	id   int
}

func (b *edgeInfo) Ends() (int, int) { return b.ends[0], b.ends[1] }

func (b *edgeInfo) SetEnds(i, j int) { b.ends = [2]int{i, j} }

func (b *edgeInfo) ID() int { return b.id }

func (b *edgeInfo) SetID(id int) { b.id = id }

func (b *edgeInfo) swapEnds() { b.ends[0], b.ends[1] = b.ends[1], b.ends[0] }

// Line is a straight edge between two points.
type Line struct {
	P0, P1 Point
	edgeInfo
}

// NewLine creates a straight edge from p0 to p1.
func NewLine(p0, p1 Point) *Line {
	return &Line{P0: p0, P1: p1}
}

func (*Line) isEdge() {}

// Start returns the edge's first point.
func (l *Line) Start() Point { return l.P0 }

// End returns the edge's last point.
func (l *Line) End() Point { return l.P1 }

// PointAt evaluates the line at parameter t in [0,1].
func (l *Line) PointAt(t float64) Point {
	return l.P0.Lerp(l.P1, t)
}

// Center returns the line's midpoint.
func (l *Line) Center() Point { return l.PointAt(0.5) }

// Length returns the Euclidean distance between the endpoints.
func (l *Line) Length() float64 { return l.P0.Distance(l.P1) }

// Sample returns n+1 points uniformly spaced along the line.
func (l *Line) Sample(n int) []Point {
	return sampleEdge(l, n)
}

// Reverse flips the line direction in place.
func (l *Line) Reverse() {
	l.P0, l.P1 = l.P1, l.P0
	l.swapEnds()
}

// Clone returns an independent copy of the line.
func (l *Line) Clone() Edge {
	c := *l
	return &c
}

func (l *Line) transform(f func(Point) Point) {
	l.P0 = f(l.P0)
	l.P1 = f(l.P1)
}

// Curve is a quadratic Bezier edge. PC is the control point in absolute
// coordinates; the interchange format stores it in a curve-local
// relative frame instead (see CurvatureToRelative).
type Curve struct {
	P0, P1 Point
	PC     Point
	edgeInfo
}

// NewCurve creates a quadratic edge from p0 to p1 with control point pc.
func NewCurve(p0, p1, pc Point) *Curve {
	return &Curve{P0: p0, P1: p1, PC: pc}
}

func (*Curve) isEdge() {}

// Start returns the edge's first point.
func (c *Curve) Start() Point { return c.P0 }

// End returns the edge's last point.
func (c *Curve) End() Point { return c.P1 }

// PointAt evaluates the quadratic Bezier at parameter t in [0,1]:
// (1-t)^2*p0 + 2(1-t)t*pc + t^2*p1.
func (c *Curve) PointAt(t float64) Point {
	u := 1 - t
	return Point{
		X: u*u*c.P0.X + 2*u*t*c.PC.X + t*t*c.P1.X,
		Y: u*u*c.P0.Y + 2*u*t*c.PC.Y + t*t*c.P1.Y,
	}
}

// Center returns the point at t=0.5.
func (c *Curve) Center() Point { return c.PointAt(0.5) }

// Length returns the polyline length over Sample(20). This is an
// approximation, not exact arc length.
func (c *Curve) Length() float64 {
	pts := c.Sample(20)
	var total float64
	for i := 1; i < len(pts); i++ {
		total += pts[i-1].Distance(pts[i])
	}
	return total
}

// Sample returns n+1 points uniformly spaced in parameter along the curve.
func (c *Curve) Sample(n int) []Point {
	return sampleEdge(c, n)
}

// Reverse flips the curve direction in place. The control point is
// unchanged; a quadratic traversed backwards keeps the same shape.
func (c *Curve) Reverse() {
	c.P0, c.P1 = c.P1, c.P0
	c.swapEnds()
}

// Clone returns an independent copy of the curve.
func (c *Curve) Clone() Edge {
	cp := *c
	return &cp
}

func (c *Curve) transform(f func(Point) Point) {
	c.P0 = f(c.P0)
	c.P1 = f(c.P1)
	c.PC = f(c.PC)
}

// AsLine returns a straight edge spanning the curve's endpoints.
// Endpoint indices and provenance id carry over.
func (c *Curve) AsLine() *Line {
	l := NewLine(c.P0, c.P1)
	l.edgeInfo = c.edgeInfo
	return l
}

// ChordRatio returns chord length over curve length, a flatness measure
// in (0,1]. A perfectly straight curve has ratio 1.
func (c *Curve) ChordRatio() float64 {
	return c.P0.Distance(c.P1) / c.Length()
}

// sampleEdge evaluates e at n+1 uniform parameter steps. n must be at
// least 1; the first and last samples are the exact endpoints.
func sampleEdge(e Edge, n int) []Point {
	if n < 1 {
		n = 1
	}
	pts := make([]Point, 0, n+1)
	pts = append(pts, e.Start())
	for i := 1; i < n; i++ {
		pts = append(pts, e.PointAt(float64(i)/float64(n)))
	}
	pts = append(pts, e.End())
	return pts
}
