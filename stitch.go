package costumy

import (
	"fmt"
	"math"
)

// Curve approximation and simplification replace the edges that seam
// declarations were authored against. Provenance ids bridge the gap:
// every edge of a finished panel is tagged with the id of the original
// path segment it came from, and seams are declared against those ids
// instead of edge indices. Ids are 1-based; 0 means unassigned.
// Mirrored edges produced by unfolding carry the negated id.

// ReferenceSegment is the start, parametric midpoint and end of one
// original path segment, in panel construction space.
type ReferenceSegment struct {
	Start Point
	Mid   Point
	End   Point
}

// ReferenceSegmentsFromPath samples the segments of raw path data for
// provenance matching. Segment k of the result carries provenance id
// k+1. Cubic segments are sampled directly, so the reference can be
// built from the path as authored, before any curve approximation.
//
// The segments are mapped into the same frame PanelFromPath uses: Y
// flipped and the path's own bounding-box minimum at the origin. The
// two frames can drift by the distance the approximation moves the
// bounding box, which is bounded by the approximation tolerance.
func ReferenceSegmentsFromPath(cmds []PathCommand) []ReferenceSegment {
	type rawSegment struct {
		pts  []Point
		kind byte
	}

	var (
		segs       []rawSegment
		cur, start Point
		began      bool
	)
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case MoveTo:
			cur, start = c.Point, c.Point
			began = true
		case LineTo:
			segs = append(segs, rawSegment{kind: 'L', pts: []Point{cur, c.Point}})
			cur = c.Point
		case QuadTo:
			segs = append(segs, rawSegment{kind: 'Q', pts: []Point{cur, c.Control, c.Point}})
			cur = c.Point
		case CubicTo:
			segs = append(segs, rawSegment{kind: 'C', pts: []Point{cur, c.Control1, c.Control2, c.Point}})
			cur = c.Point
		case ClosePath:
			if began {
				segs = append(segs, rawSegment{kind: 'L', pts: []Point{cur, start}})
				cur = start
			}
		}
	}
	if len(segs) == 0 {
		return nil
	}

	sampleAt := func(s rawSegment, t float64) Point {
		switch s.kind {
		case 'Q':
			return quadPoint(s.pts[0], s.pts[1], s.pts[2], t)
		case 'C':
			return cubicPoint(s.pts[0], s.pts[1], s.pts[2], s.pts[3], t)
		default:
			return s.pts[0].Lerp(s.pts[1], t)
		}
	}

	var box Rect
	seeded := false
	for _, s := range segs {
		for i := 0; i <= 5; i++ {
			p := sampleAt(s, float64(i)/5)
			if !seeded {
				box = NewRect(p, p)
				seeded = true
			} else {
				box = box.expand(p)
			}
		}
	}

	flip := func(p Point) Point {
		return Pt(p.X-box.Min.X, box.Max.Y-p.Y)
	}

	refs := make([]ReferenceSegment, len(segs))
	for i, s := range segs {
		refs[i] = ReferenceSegment{
			Start: flip(sampleAt(s, 0)),
			Mid:   flip(sampleAt(s, 0.5)),
			End:   flip(sampleAt(s, 1)),
		}
	}
	return refs
}

func quadPoint(p0, pc, p1 Point, t float64) Point {
	u := 1 - t
	return Pt(
		u*u*p0.X+2*u*t*pc.X+t*t*p1.X,
		u*u*p0.Y+2*u*t*pc.Y+t*t*p1.Y,
	)
}

func cubicPoint(p0, c1, c2, p1 Point, t float64) Point {
	u := 1 - t
	return Pt(
		u*u*u*p0.X+3*u*u*t*c1.X+3*u*t*t*c2.X+t*t*t*p1.X,
		u*u*u*p0.Y+3*u*u*t*c1.Y+3*u*t*t*c2.Y+t*t*t*p1.Y,
	)
}

// AssignProvenance tags every edge of the panel with the id of the
// nearest reference segment. The distance of an edge to a candidate is
// the sum of the start-to-start, center-to-mid and end-to-end
// distances; the first minimum wins. With no reference segments the
// edges are left untouched.
func AssignProvenance(p *Panel, refs []ReferenceSegment) {
	if len(refs) == 0 {
		return
	}
	for _, e := range p.Edges {
		best := 0
		bestDist := math.Inf(1)
		for i, ref := range refs {
			d := e.Start().Distance(ref.Start) +
				e.Center().Distance(ref.Mid) +
				e.End().Distance(ref.End)
			if d < bestDist {
				bestDist = d
				best = i + 1
			}
		}
		e.SetID(best)
	}
}

// SeamEnd is one side of an abstract seam declaration: a panel name
// and the provenance id of the run of edges to sew.
type SeamEnd struct {
	Panel string `yaml:"panel"`
	ID    int    `yaml:"id"`
}

// SeamRule declares a seam between two provenance-identified edge
// runs. Negative ids select the mirrored half of an unfolded panel.
type SeamRule struct {
	A SeamEnd `yaml:"a"`
	B SeamEnd `yaml:"b"`
}

func (r SeamRule) String() string {
	return fmt.Sprintf("(%s,%d)-(%s,%d)", r.A.Panel, r.A.ID, r.B.Panel, r.B.ID)
}

// ResolveSeam maps one abstract seam onto concrete stitches. Both
// sides collect every edge in their panel whose provenance id matches;
// simplification can split one original segment into several edges, so
// each side may yield a run. The two runs must be the same length and
// are paired positionally, one stitch per pair.
func ResolveSeam(pat *Pattern, rule SeamRule) error {
	edgesA, err := seamEdges(pat, rule.A)
	if err != nil {
		return err
	}
	edgesB, err := seamEdges(pat, rule.B)
	if err != nil {
		return err
	}
	if len(edgesA) != len(edgesB) {
		return fmt.Errorf("%w: seam %s requires equal edge runs on both panels, found %d and %d",
			ErrConfigurationMismatch, rule, len(edgesA), len(edgesB))
	}
	if len(edgesA) == 0 {
		Logger().Warn("seam resolved to no edges", "seam", rule.String())
		return nil
	}
	for i := range edgesA {
		if err := pat.AddStitch(rule.A.Panel, edgesA[i], rule.B.Panel, edgesB[i]); err != nil {
			return err
		}
	}
	return nil
}

// ResolveSeams applies ResolveSeam to every rule, stopping at the
// first failure.
func ResolveSeams(pat *Pattern, rules []SeamRule) error {
	for _, rule := range rules {
		if err := ResolveSeam(pat, rule); err != nil {
			return err
		}
	}
	return nil
}

func seamEdges(pat *Pattern, end SeamEnd) ([]int, error) {
	p, ok := pat.Panel(end.Panel)
	if !ok {
		return nil, fmt.Errorf("%w: seam references unknown panel %q", ErrConfigurationMismatch, end.Panel)
	}
	var indices []int
	for i, e := range p.Edges {
		if e.ID() == end.ID {
			indices = append(indices, i)
		}
	}
	return indices, nil
}
