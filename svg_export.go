package costumy

import (
	"fmt"
	"io"
	"strings"
)

// SVGPathData returns the panel outline as the d attribute of an SVG
// path. The panel is flipped into SVG coordinates (Y down) and shifted
// so the outline sits against the origin. A straight closing edge is
// left to the Z command; a curved closing edge is written explicitly.
func (p *Panel) SVGPathData() string {
	if len(p.Edges) == 0 {
		return ""
	}
	q := p.Clone()
	q.Scale(1, -1)
	box := q.BBox()
	q.Move(-box.Min.X, -box.Min.Y)

	var b strings.Builder
	start := q.Edges[0].Start()
	fmt.Fprintf(&b, "M %s %s", formatFloat(start.X), formatFloat(start.Y))
	for i, e := range q.Edges {
		if i == len(q.Edges)-1 {
			if _, ok := e.(*Curve); !ok {
				break
			}
		}
		switch c := e.(type) {
		case *Curve:
			fmt.Fprintf(&b, " Q %s %s %s %s",
				formatFloat(c.PC.X), formatFloat(c.PC.Y),
				formatFloat(c.P1.X), formatFloat(c.P1.Y))
		default:
			end := e.End()
			fmt.Fprintf(&b, " L %s %s", formatFloat(end.X), formatFloat(end.Y))
		}
	}
	b.WriteString(" Z")
	return b.String()
}

// WriteSVG writes the pattern as a standalone SVG document. Panels are
// laid out side by side in panel order, each labeled with its name.
// Stitches and 3D placement do not appear in the output.
func WriteSVG(w io.Writer, pat *Pattern) error {
	const gap = 10.0

	var (
		body      strings.Builder
		position  float64
		maxHeight float64
	)
	for _, p := range pat.Panels {
		width := p.Width()
		height := p.Height()
		if height > maxHeight {
			maxHeight = height
		}

		fmt.Fprintf(&body, "  <g class=\"Panel\" id=\"%s\" transform=\"translate(%s 0)\">\n",
			xmlEscape(p.Name), formatFloat(position))
		fmt.Fprintf(&body, "    <path d=\"%s\" fill=\"gray\" fill-opacity=\"0.1\" stroke=\"gray\" stroke-width=\"0.5\"/>\n",
			p.SVGPathData())
		fmt.Fprintf(&body, "    <text x=\"%s\" y=\"%s\" font-size=\"4\" text-anchor=\"middle\">%s</text>\n",
			formatFloat(width/2), formatFloat(height/2), xmlEscape(p.Name))
		body.WriteString("  </g>\n")

		position += width + gap
	}

	_, err := fmt.Fprintf(w,
		"<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" viewBox=\"%s %s %s %s\">\n%s</svg>\n",
		formatFloat(-gap), formatFloat(-gap),
		formatFloat(position+gap), formatFloat(maxHeight+2*gap),
		body.String())
	return err
}

// WritePanelSVG writes a single panel as a standalone SVG document.
func WritePanelSVG(w io.Writer, p *Panel) error {
	_, err := fmt.Fprintf(w,
		"<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" viewBox=\"%s %s %s %s\">\n"+
			"  <path d=\"%s\" fill=\"gray\" fill-opacity=\"0.1\" stroke=\"gray\" stroke-width=\"0.5\"/>\n"+
			"</svg>\n",
		formatFloat(-10), formatFloat(-10),
		formatFloat(p.Width()+20), formatFloat(p.Height()+20),
		p.SVGPathData())
	return err
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func xmlEscape(s string) string {
	return xmlEscaper.Replace(s)
}
