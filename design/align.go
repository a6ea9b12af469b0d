package design

import (
	"fmt"
	"sort"

	costumy "github.com/zalo/Costumy"
)

// BodyReferences carries named positions measured on a posed body:
// full 3D anchor points and scalar depth bounds. Alignment places
// panels by matching pattern points against these references.
type BodyReferences struct {
	Points map[string][3]float64 `yaml:"points" json:"points"`
	Bounds map[string]float64    `yaml:"bounds" json:"bounds"`
}

// Aligner places the panels of an assembled pattern around a body by
// setting their translations and rotations.
type Aligner interface {
	Align(pat *costumy.Pattern, refs BodyReferences) error
}

// AnchorSpec configures a ProvenanceAnchorAligner: which edge run
// marks the anchor point on the pattern, and which body reference each
// panel is pinned to.
type AnchorSpec struct {
	// Panel names the panel whose edges locate the 2D anchor point.
	Panel string `yaml:"panel"`

	// ID is the provenance id magnitude of the anchor edges. Both the
	// original id and its mirrored negative count.
	ID int `yaml:"id"`

	// Targets maps panel names to the body reference each panel is
	// pinned to. Panels without an entry keep their translation.
	Targets map[string]AnchorTarget `yaml:"targets"`
}

// AnchorTarget names the body reference one panel is pinned to. When
// Bound is set, the named scalar replaces the point's depth
// coordinate, pushing the panel to its side of the body.
type AnchorTarget struct {
	Point string `yaml:"point"`
	Bound string `yaml:"bound,omitempty"`
}

// ProvenanceAnchorAligner aligns panels by pinning a single anchor
// point, located through edge provenance ids, to per-panel body
// references. It covers designs whose panels hang from one shared
// feature, like a shirt hanging from the neckline.
type ProvenanceAnchorAligner struct {
	Anchor   AnchorSpec
	Rotation map[string][3]float64
}

// Aligner builds the definition's aligner from its anchor and
// rotation tables.
func (def *Definition) Aligner() (Aligner, error) {
	if def.Anchor == nil {
		return nil, fmt.Errorf("%w: design %q declares no anchor", costumy.ErrConfigurationMismatch, def.Name)
	}
	return &ProvenanceAnchorAligner{Anchor: *def.Anchor, Rotation: def.Rotation}, nil
}

// Align implements Aligner. The anchor point is the center of the
// single edge carrying the anchor id, or the lowest endpoint of the
// run when simplification left several. References are taken in the
// simulator's Z-up frame.
func (a *ProvenanceAnchorAligner) Align(pat *costumy.Pattern, refs BodyReferences) error {
	for _, p := range pat.Panels {
		if rot, ok := a.Rotation[p.Name]; ok {
			p.Rotation = rot
		}
	}

	anchor, err := a.anchorPoint(pat)
	if err != nil {
		return err
	}

	for _, p := range pat.Panels {
		target, ok := a.Anchor.Targets[p.Name]
		if !ok {
			continue
		}
		point, ok := refs.Points[target.Point]
		if !ok {
			return fmt.Errorf("%w: unknown body reference point %q", costumy.ErrConfigurationMismatch, target.Point)
		}
		if target.Bound != "" {
			bound, ok := refs.Bounds[target.Bound]
			if !ok {
				return fmt.Errorf("%w: unknown body reference bound %q", costumy.ErrConfigurationMismatch, target.Bound)
			}
			point[1] = bound
		}
		p.AlignTranslation(anchor, point, true)
	}
	return nil
}

func (a *ProvenanceAnchorAligner) anchorPoint(pat *costumy.Pattern) (costumy.Point, error) {
	p, ok := pat.Panel(a.Anchor.Panel)
	if !ok {
		return costumy.Point{}, fmt.Errorf("%w: anchor panel %q not in pattern",
			costumy.ErrConfigurationMismatch, a.Anchor.Panel)
	}

	var run []costumy.Edge
	for _, e := range p.Edges {
		if e.ID() == a.Anchor.ID || e.ID() == -a.Anchor.ID {
			run = append(run, e)
		}
	}
	switch len(run) {
	case 0:
		return costumy.Point{}, fmt.Errorf("%w: no edge of panel %q carries anchor id %d",
			costumy.ErrConfigurationMismatch, a.Anchor.Panel, a.Anchor.ID)
	case 1:
		return run[0].Center(), nil
	}

	// The run was split by simplification. Its lowest point is the
	// most stable feature to pin.
	points := make([]costumy.Point, 0, 2*len(run))
	for _, e := range run {
		points = append(points, e.Start())
	}
	for _, e := range run {
		points = append(points, e.End())
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Y < points[j].Y })
	return points[0], nil
}
