package costumy

import (
	"fmt"
	"math"
)

// Panel is one flat pattern piece: a closed loop of edges and vertices
// plus a 3D placement used when the piece is draped around a body.
//
// The boundary invariant is that Edges forms exactly one closed loop:
// each edge's end point equals the next edge's start point, and the
// last edge's second endpoint index is 0. Vertices always holds every
// edge's start point in order, so len(Vertices) == len(Edges). Any
// operation that mutates the edge list calls RemakeVertices to restore
// this.
//
// Translation is in the authoring convention (X right, Y up, Z forward);
// Rotation is XYZ Euler angles in degrees.
type Panel struct {
	Name        string
	Translation [3]float64
	Rotation    [3]float64
	Vertices    []Point
	Edges       []Edge

	// Source notes where the panel came from (an SVG path id, a design
	// name, "interchange"). Informational only.
	Source string
}

// NewPanel creates an empty panel with the given name.
func NewPanel(name string) *Panel {
	return &Panel{Name: name}
}

// PanelFromSVG creates a panel from the d attribute of an SVG path
// element, like "M 0,0 L 10,0 L 10,10 L 0,10 Z". Only move, line and
// quadratic segments are supported; a cubic segment is rejected with
// ErrMalformedGeometry (resolve cubics first, see PathApproximator).
func PanelFromSVG(name, d string) (*Panel, error) {
	cmds, err := ParsePathData(d)
	if err != nil {
		return nil, err
	}
	return PanelFromPath(name, cmds)
}

// PanelFromPath creates a panel from parsed path commands.
//
// The source geometry is interpreted in SVG convention (Y down). The
// result is normalized to panel space: Y up, bounding box aligned to
// the origin, so a 10x10 square path yields a panel with bounding box
// [(0,0),(10,10)] and center (5,5). Zero-length segments are skipped.
func PanelFromPath(name string, cmds []PathCommand) (*Panel, error) {
	p := NewPanel(name)
	p.Source = "path"

	var cur, start Point
	started := false
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case MoveTo:
			if started && len(p.Edges) > 0 {
				return nil, fmt.Errorf("%w: panel %q: path has more than one subpath", ErrMalformedGeometry, name)
			}
			cur, start = c.Point, c.Point
			started = true
		case LineTo:
			if c.Point != cur {
				p.Edges = append(p.Edges, NewLine(cur, c.Point))
			}
			cur = c.Point
		case QuadTo:
			if c.Point != cur {
				p.Edges = append(p.Edges, NewCurve(cur, c.Point, c.Control))
			}
			cur = c.Point
		case CubicTo:
			return nil, fmt.Errorf("%w: panel %q: cubic Bezier segments are not supported", ErrMalformedGeometry, name)
		case ClosePath:
			if cur != start {
				p.Edges = append(p.Edges, NewLine(cur, start))
			}
			cur = start
		}
	}
	if len(p.Edges) == 0 {
		return nil, fmt.Errorf("%w: panel %q: path contains no segments", ErrMalformedGeometry, name)
	}

	// SVG space (Y down, arbitrary offset) to panel space (Y up,
	// bounding box at the origin) in one transform.
	box := rawBBox(p.Edges)
	for _, e := range p.Edges {
		e.transform(func(pt Point) Point {
			return Pt(pt.X-box.Min.X, box.Max.Y-pt.Y)
		})
	}
	p.RemakeVertices()
	return p, nil
}

// RemakeVertices rebuilds the vertex list from the edges' start points
// and reassigns each edge's endpoint indices to (i, i+1 mod n). Call it
// after any mutation of the edge list.
func (p *Panel) RemakeVertices() {
	p.Vertices = p.Vertices[:0]
	for i, e := range p.Edges {
		p.Vertices = append(p.Vertices, e.Start())
		e.SetEnds(i, i+1)
	}
	if n := len(p.Edges); n > 0 {
		p.Edges[n-1].SetEnds(n-1, 0)
	}
}

// OrderEdges rotates the edge list so the edge whose start point is
// nearest to origin (by Manhattan distance, first minimum wins) comes
// first, then enforces counter-clockwise winding: if the shoelace sum
// over the loop is positive the loop is clockwise, so the edge list is
// reversed and every edge flipped. Ends by calling RemakeVertices.
func (p *Panel) OrderEdges(origin Point) {
	if len(p.Edges) == 0 {
		return
	}

	first := 0
	firstDist := math.Inf(1)
	var area float64
	for i, e := range p.Edges {
		s, t := e.Start(), e.End()
		area += (t.X - s.X) * (t.Y + s.Y)
		if d := s.ManhattanDistance(origin); d < firstDist {
			firstDist = d
			first = i
		}
	}

	rotated := make([]Edge, 0, len(p.Edges))
	rotated = append(rotated, p.Edges[first:]...)
	rotated = append(rotated, p.Edges[:first]...)
	p.Edges = rotated

	if area > 0 {
		for i, j := 0, len(p.Edges)-1; i < j; i, j = i+1, j-1 {
			p.Edges[i], p.Edges[j] = p.Edges[j], p.Edges[i]
		}
		for _, e := range p.Edges {
			e.Reverse()
		}
	}
	p.RemakeVertices()
}

// NormalizeEdgeOrder puts the panel into canonical form: counter-
// clockwise winding with the first edge starting nearest the bounding
// box minimum corner. Used before serialization and comparison.
func (p *Panel) NormalizeEdgeOrder() {
	p.OrderEdges(p.BBox().Min)
}

// BBox estimates the panel bounding box from 5-step samples of every
// edge. The extremes are seeded with the origin (0,0): a panel living
// entirely in positive coordinates always reports Min (0,0). Edge-order
// normalization depends on this seeding, so it is kept as is.
func (p *Panel) BBox() Rect {
	var r Rect
	for _, e := range p.Edges {
		for _, pt := range e.Sample(5) {
			r = r.expand(pt)
		}
	}
	return r
}

// rawBBox is the bounding box of the given edges without the origin
// seeding BBox applies. Used during construction, where the source
// geometry has not been aligned yet.
func rawBBox(edges []Edge) Rect {
	if len(edges) == 0 {
		return Rect{}
	}
	r := NewRect(edges[0].Start(), edges[0].Start())
	for _, e := range edges {
		for _, pt := range e.Sample(5) {
			r = r.expand(pt)
		}
	}
	return r
}

// Center returns the center of the panel bounding box, rounded to 4
// decimal digits.
func (p *Panel) Center() Point {
	return p.BBox().Center().Round(4)
}

// Width returns the horizontal extent of the panel bounding box.
func (p *Panel) Width() float64 { return p.BBox().Width() }

// Height returns the vertical extent of the panel bounding box.
func (p *Panel) Height() float64 { return p.BBox().Height() }

// CurveCount returns how many edges are quadratic curves.
func (p *Panel) CurveCount() int {
	n := 0
	for _, e := range p.Edges {
		if _, ok := e.(*Curve); ok {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the panel.
func (p *Panel) Clone() *Panel {
	c := *p
	c.Vertices = append([]Point(nil), p.Vertices...)
	c.Edges = make([]Edge, len(p.Edges))
	for i, e := range p.Edges {
		c.Edges[i] = e.Clone()
	}
	return &c
}
