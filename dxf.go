package costumy

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/entity"
)

// Cutting-room and CAD tools exchange flat patterns as DXF outlines,
// one layer per piece. Curves are flattened by sampling; DXF consumers
// in this space do not agree on spline support, polylines always work.

const dxfCurveSamples = 10

// WriteDXFFile exports the pattern as a DXF drawing at path. Each
// panel becomes one layer holding a closed polyline of its outline,
// panels laid out side by side as in WriteSVG.
func WriteDXFFile(path string, pat *Pattern) error {
	d := dxf.NewDrawing()
	d.Header().LtScale = 1.0

	position := 0.0
	for _, p := range pat.Panels {
		if len(p.Edges) == 0 {
			continue
		}
		d.AddLayer(p.Name, color.Red, dxf.DefaultLineType, true)
		d.ChangeLayer(p.Name)

		box := p.BBox()
		pts := panelOutline(p)
		lwp := entity.NewLwPolyline(len(pts) + 1)
		for j, pt := range pts {
			lwp.Vertices[j] = []float64{position + pt.X - box.Min.X, pt.Y - box.Min.Y}
		}
		// Repeat the first vertex so the outline reads as closed.
		first := pts[0]
		lwp.Vertices[len(pts)] = []float64{position + first.X - box.Min.X, first.Y - box.Min.Y}
		d.AddEntity(lwp)

		position += p.Width() + 10
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("dxf export: %w", err)
	}
	return nil
}

// panelOutline flattens the edge loop into a point loop. Junction
// points shared by consecutive edges appear once.
func panelOutline(p *Panel) []Point {
	var pts []Point
	for _, e := range p.Edges {
		switch e.(type) {
		case *Curve:
			sampled := e.Sample(dxfCurveSamples)
			pts = append(pts, sampled[:len(sampled)-1]...)
		default:
			pts = append(pts, e.Start())
		}
	}
	return pts
}
