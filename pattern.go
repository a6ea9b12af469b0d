package costumy

import "fmt"

// StitchSide references one half of a stitch as a panel name and an
// index into that panel's edge list.
type StitchSide struct {
	Panel string `json:"panel"`
	Edge  int    `json:"edge"`
}

// Stitch declares that two panel edges are sewn together.
type Stitch [2]StitchSide

// Mentions reports whether either side of the stitch references the
// named panel.
func (s Stitch) Mentions(panel string) bool {
	return s[0].Panel == panel || s[1].Panel == panel
}

// Pattern groups the panels of one garment together with the stitches
// that connect their edges. A t-shirt pattern would hold a front and a
// back panel and the stitches along their shared seams.
//
// Panels keep their insertion order. Panel names are treated as unique
// keys: adding a panel under an existing name replaces the previous
// panel in place.
type Pattern struct {
	Panels   []*Panel
	Stitches []Stitch

	// Source records where the pattern came from, such as a file path
	// or a design name. Informational only.
	Source string
}

// NewPattern returns an empty pattern.
func NewPattern() *Pattern {
	return &Pattern{}
}

// AddPanel inserts a panel, replacing any existing panel with the same
// name while keeping its position in the panel order.
func (pat *Pattern) AddPanel(p *Panel) {
	for i, existing := range pat.Panels {
		if existing.Name == p.Name {
			pat.Panels[i] = p
			return
		}
	}
	pat.Panels = append(pat.Panels, p)
}

// Panel returns the panel with the given name.
func (pat *Pattern) Panel(name string) (*Panel, bool) {
	for _, p := range pat.Panels {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// PanelOrder returns the panel names in insertion order.
func (pat *Pattern) PanelOrder() []string {
	names := make([]string, len(pat.Panels))
	for i, p := range pat.Panels {
		names[i] = p.Name
	}
	return names
}

// AddStitch declares a seam between edgeA of panelA and edgeB of
// panelB. Duplicate declarations are ignored. The referenced panels
// and edges must exist.
//
// Stitches index into each panel's current edge list, so they should
// be added after the panels' canonicalization is finished. Any later
// reordering or simplification of the edges invalidates them.
func (pat *Pattern) AddStitch(panelA string, edgeA int, panelB string, edgeB int) error {
	if err := pat.checkStitchSide(panelA, edgeA); err != nil {
		return err
	}
	if err := pat.checkStitchSide(panelB, edgeB); err != nil {
		return err
	}
	s := Stitch{{Panel: panelA, Edge: edgeA}, {Panel: panelB, Edge: edgeB}}
	for _, existing := range pat.Stitches {
		if existing == s {
			return nil
		}
	}
	pat.Stitches = append(pat.Stitches, s)
	return nil
}

func (pat *Pattern) checkStitchSide(panel string, edge int) error {
	p, ok := pat.Panel(panel)
	if !ok {
		return fmt.Errorf("%w: stitch references unknown panel %q", ErrConfigurationMismatch, panel)
	}
	if edge < 0 || edge >= len(p.Edges) {
		return fmt.Errorf("%w: stitch references edge %d of panel %q, which has %d edges",
			ErrConfigurationMismatch, edge, panel, len(p.Edges))
	}
	return nil
}

// RemovePanels deletes the named panels and every stitch mentioning
// any of them. Unknown names are ignored.
func (pat *Pattern) RemovePanels(names ...string) {
	if len(names) == 0 {
		return
	}
	doomed := make(map[string]bool, len(names))
	for _, n := range names {
		doomed[n] = true
	}

	kept := pat.Panels[:0]
	for _, p := range pat.Panels {
		if !doomed[p.Name] {
			kept = append(kept, p)
		}
	}
	for i := len(kept); i < len(pat.Panels); i++ {
		pat.Panels[i] = nil
	}
	pat.Panels = kept

	stitches := pat.Stitches[:0]
	for _, s := range pat.Stitches {
		if doomed[s[0].Panel] || doomed[s[1].Panel] {
			continue
		}
		stitches = append(stitches, s)
	}
	pat.Stitches = stitches
}

// NormalizeEdgeOrder canonicalizes every panel's edge loop. See
// Panel.NormalizeEdgeOrder. Existing stitches keep their indices, so
// call this before stitches are declared.
func (pat *Pattern) NormalizeEdgeOrder() {
	for _, p := range pat.Panels {
		p.NormalizeEdgeOrder()
	}
}

// Clone returns a deep copy of the pattern.
func (pat *Pattern) Clone() *Pattern {
	c := &Pattern{Source: pat.Source}
	c.Panels = make([]*Panel, len(pat.Panels))
	for i, p := range pat.Panels {
		c.Panels[i] = p.Clone()
	}
	c.Stitches = append([]Stitch(nil), pat.Stitches...)
	return c
}
