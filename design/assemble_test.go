package design

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	costumy "github.com/zalo/Costumy"
)

// stubGenerator returns a fixed SVG document and records the request.
type stubGenerator struct {
	svg          string
	measurements map[string]float64
	options      map[string]float64
}

func (g *stubGenerator) Generate(_ context.Context, measurements, options map[string]float64) ([]byte, error) {
	g.measurements = measurements
	g.options = options
	return []byte(g.svg), nil
}

// recordingApproximator passes paths through unchanged and records the
// tolerances it was called with.
type recordingApproximator struct {
	tolerances []float64
}

func (a *recordingApproximator) ApproximatePath(_ context.Context, d string, tolerance float64) (string, error) {
	a.tolerances = append(a.tolerances, tolerance)
	return d, nil
}

const squaresSVG = `<svg xmlns="http://www.w3.org/2000/svg">
<g id="fs.box.front"><path d="M 0 0 L 10 0 L 10 10 L 0 10 Z"/></g>
<g id="fs.box.back"><path d="M 0 0 L 10 0 L 10 10 L 0 10 Z"/></g>
</svg>`

const squaresYAML = `
name: boxes
panel_prefix: fs
scale: 1
seams:
  - a: {panel: front, id: 3}
    b: {panel: back, id: 3}
rotation:
  back: [0, 180, 0]
`

func mustLoad(t *testing.T, yaml string) *Definition {
	t.Helper()
	def, err := Load(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return def
}

func pointsClose(a, b costumy.Point) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

// TestNewPatternSquares drafts two identical squares and checks the
// full cleanup: canonical edge order, provenance ids, centering,
// placement rotations and seam resolution.
func TestNewPatternSquares(t *testing.T) {
	d := New(mustLoad(t, squaresYAML), nil)
	d.Generator = &stubGenerator{svg: squaresSVG}

	pat, err := d.NewPattern(context.Background())
	if err != nil {
		t.Fatalf("NewPattern failed: %v", err)
	}

	if pat.Source != "boxes" {
		t.Errorf("Source = %q, want %q", pat.Source, "boxes")
	}
	order := pat.PanelOrder()
	if len(order) != 2 || order[0] != "front" || order[1] != "back" {
		t.Fatalf("PanelOrder = %v, want [front back]", order)
	}

	for _, name := range order {
		p, _ := pat.Panel(name)
		if len(p.Edges) != 4 || len(p.Vertices) != 4 {
			t.Fatalf("panel %s has %d edges and %d vertices, want 4 and 4",
				name, len(p.Edges), len(p.Vertices))
		}
		if c := p.Center(); !pointsClose(c, costumy.Pt(0, 0)) {
			t.Errorf("panel %s center = %v, want origin", name, c)
		}

		// Canonical form starts at the bottom left corner and runs
		// counter-clockwise, so the bottom edge comes first. It was
		// the third segment of the source path.
		wantIDs := []int{3, 2, 1, 4}
		for i, e := range p.Edges {
			if e.ID() != wantIDs[i] {
				t.Errorf("panel %s edge %d id = %d, want %d", name, i, e.ID(), wantIDs[i])
			}
		}
		if s := p.Edges[0].Start(); !pointsClose(s, costumy.Pt(-5, -5)) {
			t.Errorf("panel %s edge 0 starts at %v, want (-5,-5)", name, s)
		}
		if e := p.Edges[0].End(); !pointsClose(e, costumy.Pt(5, -5)) {
			t.Errorf("panel %s edge 0 ends at %v, want (5,-5)", name, e)
		}
	}

	front, _ := pat.Panel("front")
	back, _ := pat.Panel("back")
	if front.Rotation != ([3]float64{}) {
		t.Errorf("front rotation = %v, want zero", front.Rotation)
	}
	if back.Rotation != ([3]float64{0, 180, 0}) {
		t.Errorf("back rotation = %v, want [0 180 0]", back.Rotation)
	}

	want := costumy.Stitch{
		costumy.StitchSide{Panel: "front", Edge: 0},
		costumy.StitchSide{Panel: "back", Edge: 0},
	}
	if len(pat.Stitches) != 1 || pat.Stitches[0] != want {
		t.Errorf("Stitches = %v, want [%v]", pat.Stitches, want)
	}
}

const foldedSVG = `<svg xmlns="http://www.w3.org/2000/svg">
<g id="fs.front"><path d="M 0 0 L 5 0 L 5 10 L 0 10 Z"/></g>
<g id="fs.back"><path d="M 0 0 L 10 0 L 10 10 L 0 10 Z"/></g>
</svg>`

const foldedYAML = `
name: folded
panel_prefix: fs
scale: 1
unfold:
  front: 3
seams:
  - a: {panel: front, id: 2}
    b: {panel: back, id: 2}
  - a: {panel: front, id: -2}
    b: {panel: back, id: 4}
`

// TestNewPatternUnfold drafts a half square against a fold line and an
// ordinary square, unfolds the half, and checks that the mirrored
// edges carry negated ids and that fold-adjacent collinear halves fuse
// with the mirrored id surviving.
func TestNewPatternUnfold(t *testing.T) {
	d := New(mustLoad(t, foldedYAML), nil)
	d.Generator = &stubGenerator{svg: foldedSVG}

	pat, err := d.NewPattern(context.Background())
	if err != nil {
		t.Fatalf("NewPattern failed: %v", err)
	}

	front, ok := pat.Panel("front")
	if !ok {
		t.Fatal("no front panel")
	}
	if front.Width() != 10 || front.Height() != 10 {
		t.Errorf("front is %gx%g, want 10x10 after unfolding", front.Width(), front.Height())
	}
	if c := front.Center(); !pointsClose(c, costumy.Pt(0, 0)) {
		t.Errorf("front center = %v, want origin", c)
	}

	// Unfolding the 4-edge half gives 6 edges; fusing the collinear
	// bottom and top halves leaves 4, with the negative ids winning.
	wantIDs := []int{-3, 2, -1, -2}
	if len(front.Edges) != len(wantIDs) {
		t.Fatalf("front has %d edges, want %d", len(front.Edges), len(wantIDs))
	}
	for i, e := range front.Edges {
		if e.ID() != wantIDs[i] {
			t.Errorf("front edge %d id = %d, want %d", i, e.ID(), wantIDs[i])
		}
	}

	wantStitches := []costumy.Stitch{
		{costumy.StitchSide{Panel: "front", Edge: 1}, costumy.StitchSide{Panel: "back", Edge: 1}},
		{costumy.StitchSide{Panel: "front", Edge: 3}, costumy.StitchSide{Panel: "back", Edge: 3}},
	}
	if len(pat.Stitches) != len(wantStitches) {
		t.Fatalf("Stitches = %v, want %v", pat.Stitches, wantStitches)
	}
	for i := range wantStitches {
		if pat.Stitches[i] != wantStitches[i] {
			t.Errorf("Stitches[%d] = %v, want %v", i, pat.Stitches[i], wantStitches[i])
		}
	}
}

// TestNewPatternFakeCubic checks that a cubic with a degenerate handle
// is rewritten to a quadratic during assembly, with no approximator
// configured.
func TestNewPatternFakeCubic(t *testing.T) {
	svg := `<svg xmlns="http://www.w3.org/2000/svg">
<g id="fs.front"><path d="M 0 0 C 0 0 5 -3 10 0 L 10 10 L 0 10 Z"/></g>
</svg>`
	d := New(mustLoad(t, "name: curved\nscale: 1\n"), nil)
	d.Generator = &stubGenerator{svg: svg}

	pat, err := d.NewPattern(context.Background())
	if err != nil {
		t.Fatalf("NewPattern failed: %v", err)
	}
	front, _ := pat.Panel("front")
	if front == nil {
		t.Fatal("no front panel")
	}
	if n := front.CurveCount(); n != 1 {
		t.Errorf("CurveCount = %d, want 1", n)
	}
}

func TestNewPatternApproximator(t *testing.T) {
	approx := &recordingApproximator{}
	d := New(mustLoad(t, squaresYAML), nil)
	d.Generator = &stubGenerator{svg: squaresSVG}
	d.Approximator = approx

	if _, err := d.NewPattern(context.Background()); err != nil {
		t.Fatalf("NewPattern failed: %v", err)
	}
	if len(approx.tolerances) != 2 {
		t.Fatalf("approximator called %d times, want once per panel", len(approx.tolerances))
	}
	for _, tol := range approx.tolerances {
		if tol != 0.8 {
			t.Errorf("tolerance = %v, want the definition default 0.8", tol)
		}
	}

	approx.tolerances = nil
	if _, err := d.NewPattern(context.Background(), WithTolerance(5)); err != nil {
		t.Fatalf("NewPattern failed: %v", err)
	}
	for _, tol := range approx.tolerances {
		if tol != 5 {
			t.Errorf("tolerance = %v, want the override 5", tol)
		}
	}
}

func TestNewPatternOptionResolution(t *testing.T) {
	yaml := squaresYAML + `
options:
  lengthBonus: {min: -0.2, default: 0.1, max: 0.6}
styles:
  croptop: {lengthBonus: -0.13}
`
	gen := &stubGenerator{svg: squaresSVG}
	d := New(mustLoad(t, yaml), nil)
	d.Generator = gen

	if _, err := d.NewPattern(context.Background()); err != nil {
		t.Fatalf("NewPattern failed: %v", err)
	}
	if gen.options["lengthBonus"] != 0.1 {
		t.Errorf("default options = %v, want lengthBonus 0.1", gen.options)
	}

	if _, err := d.NewPattern(context.Background(), WithStyle("croptop")); err != nil {
		t.Fatalf("NewPattern failed: %v", err)
	}
	if gen.options["lengthBonus"] != -0.13 {
		t.Errorf("croptop options = %v, want lengthBonus -0.13", gen.options)
	}

	if _, err := d.NewPattern(context.Background(), WithOptions(map[string]float64{"lengthBonus": 0.5})); err != nil {
		t.Fatalf("NewPattern failed: %v", err)
	}
	if gen.options["lengthBonus"] != 0.5 {
		t.Errorf("explicit options = %v, want lengthBonus 0.5", gen.options)
	}

	if _, err := d.NewPattern(context.Background(), WithStyle("vaporwave")); !errors.Is(err, costumy.ErrConfigurationMismatch) {
		t.Errorf("unknown style error = %v, want ErrConfigurationMismatch", err)
	}
}

func TestNewPatternMeasurements(t *testing.T) {
	yaml := squaresYAML + `
required_measurements: [chest, hips]
`
	gen := &stubGenerator{svg: squaresSVG}
	d := New(mustLoad(t, yaml), map[string]float64{"chest": 1080})
	d.Generator = gen

	_, err := d.NewPattern(context.Background(), WithoutCompletion())
	if !errors.Is(err, costumy.ErrConfigurationMismatch) {
		t.Fatalf("missing measurements error = %v, want ErrConfigurationMismatch", err)
	}
	if !strings.Contains(err.Error(), "hips") {
		t.Errorf("error %q does not name the missing measurement", err)
	}

	// Completion fails without reference sets.
	if _, err := d.NewPattern(context.Background()); !errors.Is(err, costumy.ErrConfigurationMismatch) {
		t.Errorf("completion without sets error = %v, want ErrConfigurationMismatch", err)
	}

	d.ReferenceSets = []MeasurementSet{
		{Name: "ref", Measurements: map[string]float64{"chest": 1000, "hips": 980}},
	}
	if _, err := d.NewPattern(context.Background()); err != nil {
		t.Fatalf("NewPattern failed: %v", err)
	}
	if gen.measurements["hips"] != 980 {
		t.Errorf("generator measurements = %v, want hips filled with 980", gen.measurements)
	}
	if gen.measurements["chest"] != 1080 {
		t.Errorf("generator measurements = %v, measured chest must win", gen.measurements)
	}
}

func TestAssembleFromSources(t *testing.T) {
	d := New(mustLoad(t, "name: plain\nscale: 1\n"), nil)
	sources := map[string]string{
		"zeta":  "M 0 0 L 10 0 L 10 10 L 0 10 Z",
		"alpha": "M 0 0 L 4 0 L 4 4 L 0 4 Z",
	}
	pat, err := d.Assemble(context.Background(), sources)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	order := pat.PanelOrder()
	if len(order) != 2 || order[0] != "alpha" || order[1] != "zeta" {
		t.Errorf("PanelOrder = %v, want sorted [alpha zeta]", order)
	}
}

func TestNewPatternErrors(t *testing.T) {
	d := New(mustLoad(t, squaresYAML), nil)
	if _, err := d.NewPattern(context.Background()); !errors.Is(err, costumy.ErrConfigurationMismatch) {
		t.Errorf("no generator error = %v, want ErrConfigurationMismatch", err)
	}

	d.Generator = &stubGenerator{svg: `<svg xmlns="http://www.w3.org/2000/svg"><path id="loose" d="M 0 0 L 1 0 L 1 1 Z"/></svg>`}
	if _, err := d.NewPattern(context.Background()); !errors.Is(err, costumy.ErrMalformedGeometry) {
		t.Errorf("no panel groups error = %v, want ErrMalformedGeometry", err)
	}

	d.Generator = &stubGenerator{svg: `not an svg at all`}
	if _, err := d.NewPattern(context.Background()); err == nil {
		t.Error("expected an error for non-SVG generator output")
	}
}
