package costumy

import (
	"encoding/json"
	"fmt"
	"sort"
)

// CurvatureCoords selects how curve control points are written to the
// interchange format.
type CurvatureCoords string

const (
	// CurvatureRelative stores control points in the curve-local frame
	// produced by CurvatureToRelative. This is the canonical form.
	CurvatureRelative CurvatureCoords = "relative"
	// CurvatureAbsolute stores control points in panel coordinates.
	CurvatureAbsolute CurvatureCoords = "absolute"
)

// The interchange format is the GarmentPattern specification JSON
// (v1). The properties block only matters to downstream GarmentPattern
// tooling; parameters and constraints are carried empty.

type interchangeDoc struct {
	Pattern         interchangePattern     `json:"pattern"`
	Properties      interchangeProperties  `json:"properties"`
	Parameters      map[string]interface{} `json:"parameters"`
	ParameterOrder  []string               `json:"parameter_order"`
	Constraints     map[string]interface{} `json:"constraints"`
	ConstraintOrder []string               `json:"constraint_order"`
}

type interchangePattern struct {
	Panels     map[string]interchangePanel `json:"panels"`
	Stitches   []Stitch                    `json:"stitches"`
	PanelOrder []string                    `json:"panel_order"`
}

type interchangePanel struct {
	Translation [3]float64        `json:"translation"`
	Rotation    [3]float64        `json:"rotation"`
	Vertices    [][2]float64      `json:"vertices"`
	Edges       []interchangeEdge `json:"edges"`
}

type interchangeEdge struct {
	Endpoints [2]int      `json:"endpoints"`
	Curvature *[2]float64 `json:"curvature,omitempty"`
}

type interchangeProperties struct {
	CurvatureCoords           CurvatureCoords `json:"curvature_coords"`
	NormalizePanelTranslation bool            `json:"normalize_panel_translation"`
	UnitsInMeter              float64         `json:"units_in_meter"`
	NormalizedEdgeLoops       bool            `json:"normalized_edge_loops"`
}

// MarshalInterchange serializes a pattern to interchange JSON. Panel
// order is preserved through the panel_order list; the panels object
// itself is keyed by name.
func MarshalInterchange(pat *Pattern, coords CurvatureCoords) ([]byte, error) {
	if coords != CurvatureRelative && coords != CurvatureAbsolute {
		return nil, fmt.Errorf("%w: unknown curvature coords %q", ErrSerialization, coords)
	}

	doc := interchangeDoc{
		Pattern: interchangePattern{
			Panels:     make(map[string]interchangePanel, len(pat.Panels)),
			Stitches:   []Stitch{},
			PanelOrder: pat.PanelOrder(),
		},
		Properties: interchangeProperties{
			CurvatureCoords:           coords,
			NormalizePanelTranslation: false,
			UnitsInMeter:              100,
			NormalizedEdgeLoops:       true,
		},
		Parameters:      map[string]interface{}{},
		ParameterOrder:  []string{},
		Constraints:     map[string]interface{}{},
		ConstraintOrder: []string{},
	}
	doc.Pattern.Stitches = append(doc.Pattern.Stitches, pat.Stitches...)

	for _, p := range pat.Panels {
		jp := interchangePanel{
			Translation: p.Translation,
			Rotation:    p.Rotation,
			Vertices:    make([][2]float64, len(p.Vertices)),
			Edges:       make([]interchangeEdge, len(p.Edges)),
		}
		for i, v := range p.Vertices {
			jp.Vertices[i] = [2]float64{v.X, v.Y}
		}
		for i, e := range p.Edges {
			start, end := e.Ends()
			je := interchangeEdge{Endpoints: [2]int{start, end}}
			if c, ok := e.(*Curve); ok {
				var pc Point
				if coords == CurvatureRelative {
					pc = CurvatureToRelative(c.P0, c.P1, c.PC)
				} else {
					pc = c.PC.Round(5)
				}
				je.Curvature = &[2]float64{pc.X, pc.Y}
			}
			jp.Edges[i] = je
		}
		doc.Pattern.Panels[p.Name] = jp
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return data, nil
}

// ParseInterchange rebuilds a pattern from interchange JSON. Panels
// are restored in panel_order; panels absent from that list are
// appended in name order so the result is deterministic either way.
func ParseInterchange(data []byte) (*Pattern, error) {
	var doc interchangeDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}

	coords := doc.Properties.CurvatureCoords
	if coords != CurvatureRelative && coords != CurvatureAbsolute {
		return nil, fmt.Errorf("%w: unknown curvature coords %q", ErrSerialization, coords)
	}

	names := make([]string, 0, len(doc.Pattern.Panels))
	seen := make(map[string]bool, len(doc.Pattern.Panels))
	for _, name := range doc.Pattern.PanelOrder {
		if _, ok := doc.Pattern.Panels[name]; !ok {
			return nil, fmt.Errorf("%w: panel_order references missing panel %q", ErrSerialization, name)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	var extras []string
	for name := range doc.Pattern.Panels {
		if !seen[name] {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	names = append(names, extras...)

	pat := NewPattern()
	for _, name := range names {
		p, err := panelFromInterchange(name, doc.Pattern.Panels[name], coords)
		if err != nil {
			return nil, err
		}
		pat.AddPanel(p)
	}
	pat.Stitches = append(pat.Stitches, doc.Pattern.Stitches...)
	return pat, nil
}

func panelFromInterchange(name string, jp interchangePanel, coords CurvatureCoords) (*Panel, error) {
	p := NewPanel(name)
	p.Source = "interchange"
	p.Translation = jp.Translation
	p.Rotation = jp.Rotation
	p.Vertices = make([]Point, len(jp.Vertices))
	for i, v := range jp.Vertices {
		p.Vertices[i] = Pt(v[0], v[1])
	}

	for i, je := range jp.Edges {
		a, b := je.Endpoints[0], je.Endpoints[1]
		if a < 0 || a >= len(p.Vertices) || b < 0 || b >= len(p.Vertices) {
			return nil, fmt.Errorf("%w: panel %q edge %d endpoints %v outside vertex range",
				ErrSerialization, name, i, je.Endpoints)
		}
		p0, p1 := p.Vertices[a], p.Vertices[b]

		var e Edge
		if je.Curvature != nil {
			pc := Pt(je.Curvature[0], je.Curvature[1])
			if coords == CurvatureRelative {
				pc = CurvatureToAbsolute(p0, p1, pc)
			}
			e = NewCurve(p0, p1, pc)
		} else {
			e = NewLine(p0, p1)
		}
		e.SetEnds(a, b)
		p.Edges = append(p.Edges, e)
	}
	return p, nil
}
