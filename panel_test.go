package costumy

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPanelFromSVGSquare(t *testing.T) {
	p, err := PanelFromSVG("square", "M 0,0 L 10,0 L 10,10 L 0,10 Z")
	if err != nil {
		t.Fatalf("PanelFromSVG failed: %v", err)
	}

	if len(p.Edges) != 4 {
		t.Fatalf("len(Edges) = %d, want 4", len(p.Edges))
	}
	if len(p.Vertices) != 4 {
		t.Fatalf("len(Vertices) = %d, want 4", len(p.Vertices))
	}
	if got := p.BBox(); got.Min != Pt(0, 0) || got.Max != Pt(10, 10) {
		t.Errorf("BBox() = %+v, want [(0,0),(10,10)]", got)
	}
	if got := p.Center(); got != Pt(5, 5) {
		t.Errorf("Center() = %v, want (5,5)", got)
	}
	if p.Width() != 10 || p.Height() != 10 {
		t.Errorf("Width(), Height() = %v, %v, want 10, 10", p.Width(), p.Height())
	}
	// The SVG origin is the top-left corner, so the path's first point
	// lands at the top of the panel after the flip to cartesian space.
	if got := p.Vertices[0]; got != Pt(0, 10) {
		t.Errorf("Vertices[0] = %v, want (0,10)", got)
	}
	assertClosedLoop(t, p)
}

// assertClosedLoop checks the boundary invariant: consecutive edges
// share endpoints, vertices mirror edge start points, and endpoint
// indices run (i, i+1 mod n).
func assertClosedLoop(t *testing.T, p *Panel) {
	t.Helper()
	n := len(p.Edges)
	for i, e := range p.Edges {
		next := p.Edges[(i+1)%n]
		if e.End() != next.Start() {
			t.Errorf("edge %d ends at %v but edge %d starts at %v", i, e.End(), (i+1)%n, next.Start())
		}
		if p.Vertices[i] != e.Start() {
			t.Errorf("Vertices[%d] = %v, want edge start %v", i, p.Vertices[i], e.Start())
		}
		a, b := e.Ends()
		if a != i || b != (i+1)%n {
			t.Errorf("edge %d Ends() = (%d,%d), want (%d,%d)", i, a, b, i, (i+1)%n)
		}
	}
}

func TestPanelFromSVGSkipsZeroLengthSegments(t *testing.T) {
	p, err := PanelFromSVG("square", "M 0,0 L 0,0 L 10,0 L 10,10 L 0,10 L 0,10 Z")
	if err != nil {
		t.Fatalf("PanelFromSVG failed: %v", err)
	}
	if len(p.Edges) != 4 {
		t.Errorf("len(Edges) = %d, want 4", len(p.Edges))
	}
}

func TestPanelFromSVGErrors(t *testing.T) {
	tests := []struct {
		name string
		d    string
	}{
		{"two subpaths", "M 0,0 L 1,0 L 1,1 Z M 5,5 L 6,5 L 6,6 Z"},
		{"cubic segment", "M 0,0 C 1,1 2,2 3,0 Z"},
		{"no segments", "M 0,0 Z"},
		{"empty path", ""},
		{"invalid data", "M 0,0 L"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PanelFromSVG("bad", tt.d)
			if err == nil {
				t.Fatalf("PanelFromSVG(%q) succeeded, want error", tt.d)
			}
			if !errors.Is(err, ErrMalformedGeometry) {
				t.Errorf("PanelFromSVG(%q) error = %v, want ErrMalformedGeometry", tt.d, err)
			}
		})
	}
}

func TestNormalizeEdgeOrderSquare(t *testing.T) {
	p, err := PanelFromSVG("square", "M 0,0 L 10,0 L 10,10 L 0,10 Z")
	if err != nil {
		t.Fatalf("PanelFromSVG failed: %v", err)
	}
	p.NormalizeEdgeOrder()

	want := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if diff := cmp.Diff(want, p.Vertices); diff != "" {
		t.Errorf("Vertices mismatch (-want +got):\n%s", diff)
	}
	assertClosedLoop(t, p)
}

func TestOrderEdgesRotatesToNearestStart(t *testing.T) {
	p, err := PanelFromSVG("square", "M 0,0 L 10,0 L 10,10 L 0,10 Z")
	if err != nil {
		t.Fatalf("PanelFromSVG failed: %v", err)
	}
	p.NormalizeEdgeOrder()
	p.OrderEdges(Pt(10, 10))

	if got := p.Vertices[0]; got != Pt(10, 10) {
		t.Errorf("Vertices[0] = %v, want (10,10)", got)
	}
	if got := shoelace(p); got >= 0 {
		t.Errorf("shoelace sum = %v, want negative (counter-clockwise)", got)
	}
	assertClosedLoop(t, p)
}

// shoelace returns the clockwise-positive shoelace sum OrderEdges uses
// to detect winding.
func shoelace(p *Panel) float64 {
	var area float64
	for _, e := range p.Edges {
		s, t := e.Start(), e.End()
		area += (t.X - s.X) * (t.Y + s.Y)
	}
	return area
}

func TestNormalizeEdgeOrderRandomPolygons(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for trial := 0; trial < 50; trial++ {
		n := 4 + r.Intn(6)
		cx, cy := 5+r.Float64()*20, 5+r.Float64()*20
		vs := make([]Point, n)
		for i := range vs {
			angle := (float64(i) + r.Float64()*0.9) * 2 * math.Pi / float64(n)
			radius := 1 + r.Float64()*4
			vs[i] = Pt(cx+radius*math.Cos(angle), cy+radius*math.Sin(angle))
		}
		if r.Intn(2) == 0 {
			for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
				vs[i], vs[j] = vs[j], vs[i]
			}
		}
		rot := r.Intn(n)

		p := NewPanel("poly")
		for i := 0; i < n; i++ {
			a := vs[(rot+i)%n]
			b := vs[(rot+i+1)%n]
			p.Edges = append(p.Edges, NewLine(a, b))
		}
		p.RemakeVertices()

		p.NormalizeEdgeOrder()
		if got := shoelace(p); got >= 0 {
			t.Fatalf("trial %d: shoelace sum after normalize = %v, want negative", trial, got)
		}
		assertClosedLoop(t, p)

		once := append([]Point(nil), p.Vertices...)
		p.NormalizeEdgeOrder()
		if diff := cmp.Diff(once, p.Vertices); diff != "" {
			t.Fatalf("trial %d: normalize is not idempotent (-once +twice):\n%s", trial, diff)
		}
	}
}

func TestBBoxSeededAtOrigin(t *testing.T) {
	p := NewPanel("far")
	p.Edges = []Edge{
		NewLine(Pt(100, 100), Pt(110, 100)),
		NewLine(Pt(110, 100), Pt(110, 110)),
		NewLine(Pt(110, 110), Pt(100, 110)),
		NewLine(Pt(100, 110), Pt(100, 100)),
	}
	p.RemakeVertices()

	got := p.BBox()
	if got.Min != Pt(0, 0) {
		t.Errorf("BBox().Min = %v, want origin seed (0,0)", got.Min)
	}
	if got.Max != Pt(110, 110) {
		t.Errorf("BBox().Max = %v, want (110,110)", got.Max)
	}
}

func TestCurveCount(t *testing.T) {
	p, err := PanelFromSVG("curved", "M 0,0 Q 5,5 10,0 L 10,10 Q 5,8 0,10 Z")
	if err != nil {
		t.Fatalf("PanelFromSVG failed: %v", err)
	}
	if got := p.CurveCount(); got != 2 {
		t.Errorf("CurveCount() = %d, want 2", got)
	}
}

func TestPanelClone(t *testing.T) {
	p, err := PanelFromSVG("square", "M 0,0 L 10,0 L 10,10 L 0,10 Z")
	if err != nil {
		t.Fatalf("PanelFromSVG failed: %v", err)
	}
	p.Translation = [3]float64{1, 2, 3}

	c := p.Clone()
	p.Edges[0].Reverse()
	p.Vertices[0] = Pt(-99, -99)
	p.Translation[0] = 42

	if got := c.Edges[0].Start(); got != Pt(0, 10) {
		t.Errorf("clone Edges[0].Start() = %v, want (0,10)", got)
	}
	if got := c.Vertices[0]; got != Pt(0, 10) {
		t.Errorf("clone Vertices[0] = %v, want (0,10)", got)
	}
	if got := c.Translation; got != [3]float64{1, 2, 3} {
		t.Errorf("clone Translation = %v, want [1 2 3]", got)
	}
	if c.Name != "square" {
		t.Errorf("clone Name = %q, want %q", c.Name, "square")
	}
}

func TestRemakeVertices(t *testing.T) {
	p := NewPanel("tri")
	p.Edges = []Edge{
		NewLine(Pt(0, 0), Pt(4, 0)),
		NewLine(Pt(4, 0), Pt(2, 3)),
		NewLine(Pt(2, 3), Pt(0, 0)),
	}
	p.RemakeVertices()

	want := []Point{{0, 0}, {4, 0}, {2, 3}}
	if diff := cmp.Diff(want, p.Vertices); diff != "" {
		t.Errorf("Vertices mismatch (-want +got):\n%s", diff)
	}
	assertClosedLoop(t, p)
}
