// Package design turns body measurements into stitched patterns.
//
// A design is declared as data: a YAML Definition lists the
// measurements and options a generator understands, plus the assembly
// tables that clean up its output into a simulation-ready pattern.
// The drafting itself happens in an external generator process; this
// package drives it, rebuilds its SVG output into panels, unfolds half
// pieces, resolves seam rules and places the panels around a body.
//
//	def, err := design.LoadFile("aaron.yaml")
//	d := design.New(def, measurements)
//	d.Generator = &design.PipeGenerator{Command: "node", Args: []string{"draft.mjs"}}
//	pat, err := d.NewPattern(ctx)
package design
