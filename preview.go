package costumy

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Debug rendering. A preview shows the panels side by side with edge
// indices and provenance ids, which is how stitch declarations are
// authored: render, read the ids off, write the seam rules.

var previewPalette = []color.RGBA{
	{R: 0xd8, G: 0xe6, B: 0xf2, A: 0xff},
	{R: 0xdd, G: 0xf0, B: 0xdb, A: 0xff},
	{R: 0xf6, G: 0xe3, B: 0xd4, A: 0xff},
	{R: 0xef, G: 0xdc, B: 0xec, A: 0xff},
}

// WritePreviewPNG renders a debug view of the pattern as a PNG. Panels
// appear side by side in panel order; each edge is labeled at its
// center with its index, followed by its provenance id in parentheses
// when one is assigned. scale is in pixels per pattern unit; zero or
// negative picks a readable default.
func WritePreviewPNG(w io.Writer, pat *Pattern, scale float64) error {
	if scale <= 0 {
		scale = 4
	}
	const gap = 10.0

	type placed struct {
		panel   *Panel
		offsetX float64
	}
	var (
		layout    []placed
		position  float64
		maxHeight float64
	)
	for _, p := range pat.Panels {
		q := p.Clone()
		q.Scale(1, -1)
		box := q.BBox()
		q.Move(-box.Min.X, -box.Min.Y)
		layout = append(layout, placed{panel: q, offsetX: position})
		position += p.Width() + gap
		if h := p.Height(); h > maxHeight {
			maxHeight = h
		}
	}

	width := int(math.Ceil((position+gap)*scale)) + 1
	height := int(math.Ceil((maxHeight+2*gap)*scale)) + 1
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	toImage := func(pl placed, pt Point) (float64, float64) {
		return (pl.offsetX + gap/2 + pt.X) * scale, (gap + pt.Y) * scale
	}

	for i, pl := range layout {
		fillPanel(img, pl.panel, previewPalette[i%len(previewPalette)], func(pt Point) (float64, float64) {
			return toImage(pl, pt)
		})
	}

	labels := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{A: 0xff}),
		Face: basicfont.Face7x13,
	}
	for _, pl := range layout {
		p := pl.panel
		for _, v := range p.Vertices {
			x, y := toImage(pl, v)
			markVertex(img, int(math.Round(x)), int(math.Round(y)))
		}
		for i, e := range p.Edges {
			text := fmt.Sprintf("%d", i)
			if e.ID() != 0 {
				text = fmt.Sprintf("%d (%d)", i, e.ID())
			}
			x, y := toImage(pl, e.Center())
			labels.Dot = fixed.P(int(math.Round(x)), int(math.Round(y)))
			labels.DrawString(text)
		}

		box := p.BBox()
		x, y := toImage(pl, box.Center())
		labels.Dot = fixed.P(int(math.Round(x)), int(math.Round(y)))
		labels.DrawString(p.Name)
	}

	return png.Encode(w, img)
}

// fillPanel rasterizes the panel silhouette with the given color.
func fillPanel(img *image.RGBA, p *Panel, col color.RGBA, toImage func(Point) (float64, float64)) {
	if len(p.Edges) == 0 {
		return
	}
	ras := vector.NewRasterizer(img.Bounds().Dx(), img.Bounds().Dy())

	sx, sy := toImage(p.Edges[0].Start())
	ras.MoveTo(float32(sx), float32(sy))
	for _, e := range p.Edges {
		switch c := e.(type) {
		case *Curve:
			cx, cy := toImage(c.PC)
			ex, ey := toImage(c.P1)
			ras.QuadTo(float32(cx), float32(cy), float32(ex), float32(ey))
		default:
			ex, ey := toImage(e.End())
			ras.LineTo(float32(ex), float32(ey))
		}
	}
	ras.ClosePath()
	ras.Draw(img, img.Bounds(), image.NewUniform(col), image.Point{})
}

func markVertex(img *image.RGBA, x, y int) {
	black := color.RGBA{A: 0xff}
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			img.Set(x+dx, y+dy, black)
		}
	}
}
