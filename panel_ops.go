package costumy

import "fmt"

// applyToAll runs f over every edge point and every vertex.
func (p *Panel) applyToAll(f func(Point) Point) {
	for _, e := range p.Edges {
		e.transform(f)
	}
	for i, v := range p.Vertices {
		p.Vertices[i] = f(v)
	}
}

// Scale multiplies every coordinate elementwise. Scale(1, -1) flips the
// panel vertically, which converts between SVG space and cartesian
// space. Scaling happens about the origin; Recenter first to scale
// about the shape's middle.
func (p *Panel) Scale(sx, sy float64) {
	p.applyToAll(func(pt Point) Point { return pt.MulXY(sx, sy) })
}

// Move offsets every vertex and edge point by (dx, dy).
func (p *Panel) Move(dx, dy float64) {
	d := Pt(dx, dy)
	p.applyToAll(func(pt Point) Point { return pt.Add(d) })
}

// Rotate rotates the whole panel around the pivot point by angle
// degrees. Pass p.Center() to rotate in place.
func (p *Panel) Rotate(degrees float64, pivot Point) {
	p.applyToAll(func(pt Point) Point { return pt.RotateAround(pivot, degrees) })
}

// Recenter moves the panel so its bounding-box center lands on the
// origin.
func (p *Panel) Recenter() {
	c := p.Center()
	p.Move(-c.X, -c.Y)
}

// Round rounds every vertex and edge point to the given number of
// decimal digits.
func (p *Panel) Round(digits int) {
	p.applyToAll(func(pt Point) Point { return pt.Round(digits) })
}

// StraightenCurves replaces curves that are nearly straight with lines
// between the same endpoints, keeping endpoint indices and provenance.
// A curve qualifies when its chord-to-length ratio, rounded to 3
// decimals, is at least threshold: 1 straightens only perfectly flat
// curves, 0 straightens every curve.
func (p *Panel) StraightenCurves(threshold float64) {
	for i, e := range p.Edges {
		c, ok := e.(*Curve)
		if !ok {
			continue
		}
		if roundTo(c.ChordRatio(), 3) >= threshold {
			p.Edges[i] = c.AsLine()
		}
	}
}

// UnsplitLines fuses consecutive nearly-collinear straight edges.
// For each pair of adjacent lines the directness ratio is
// dist(first.P0, second.P1) / (dist(first.P0, first.P1) + dist(first.P1,
// second.P1)); pairs at or above threshold merge into one line spanning
// first.P0 to second.P1. The merged edge keeps the smaller provenance
// id when the removed edge carries one, so mirrored (negative) ids win.
// Curves are never merged, in either position. Scanning resumes after
// the removed edge, and the final wrap-around pair is left alone.
func (p *Panel) UnsplitLines(threshold float64) {
	for i := 0; i < len(p.Edges)-1; i++ {
		cur, ok := p.Edges[i].(*Line)
		if !ok {
			continue
		}
		next, ok := p.Edges[i+1].(*Line)
		if !ok {
			continue
		}
		direct := cur.P0.Distance(next.P1)
		detour := cur.P0.Distance(cur.P1) + cur.P1.Distance(next.P1)
		if direct/detour >= threshold {
			if next.ID() != 0 {
				cur.SetID(min(cur.ID(), next.ID()))
			}
			cur.P1 = next.P1
			p.Edges = append(p.Edges[:i+1], p.Edges[i+2:]...)
		}
	}
	p.RemakeVertices()
}

// Unfold mirrors the panel across the edge at edgeIndex, turning a half
// piece drawn against a fold line into the full piece: |] becomes [|].
//
// The symmetry edge is removed, the remaining loop is reordered to
// start at its end point, and a reflected copy of every remaining edge
// is appended in reversed order with flipped direction so the combined
// loop stays consistent. Mirrored edges carry negated provenance ids.
// The result is recentered on the origin and normalized, so the edge
// count afterwards is 2*(n-1) for an n-edge panel.
func (p *Panel) Unfold(edgeIndex int) error {
	if edgeIndex < 0 || edgeIndex >= len(p.Edges) {
		return fmt.Errorf("costumy: unfold: edge index %d out of range for panel %q with %d edges",
			edgeIndex, p.Name, len(p.Edges))
	}
	sym := p.Edges[edgeIndex]
	p.Edges = append(p.Edges[:edgeIndex], p.Edges[edgeIndex+1:]...)

	// The edge following the fold becomes the first of the open run.
	p.OrderEdges(sym.End())

	a, b := sym.Start(), sym.End()
	mirrored := make([]Edge, 0, len(p.Edges))
	for _, e := range p.Edges {
		m := e.Clone()
		m.transform(func(pt Point) Point { return pt.ReflectAcross(a, b) })
		m.SetID(-m.ID())
		mirrored = append(mirrored, m)
	}
	for i, j := 0, len(mirrored)-1; i < j; i, j = i+1, j-1 {
		mirrored[i], mirrored[j] = mirrored[j], mirrored[i]
	}
	for _, m := range mirrored {
		m.Reverse()
	}

	p.Edges = append(p.Edges, mirrored...)
	p.RemakeVertices()
	p.Recenter()
	p.NormalizeEdgeOrder()
	return nil
}

// AlignTranslation sets the panel's 3D translation so that the 2D
// point p2 on the panel projects onto the 3D anchor p3. When fromZUp is
// true the anchor is first converted from the simulator's Z-up
// convention into the authoring convention: (x,y,z) -> (x, z, -y).
func (p *Panel) AlignTranslation(p2 Point, p3 [3]float64, fromZUp bool) {
	if fromZUp {
		p3 = [3]float64{p3[0], p3[2], -p3[1]}
	}
	c := p.Center()
	p.Translation = [3]float64{
		c.X - (p2.X - p3[0]),
		c.Y - (p2.Y - p3[1]),
		p3[2],
	}
}
