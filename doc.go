// Package costumy turns 2D clothing patterns into simulation-ready
// geometry.
//
// # Overview
//
// A clothing pattern is a set of flat panels (front, back, sleeve)
// whose edges are sewn together along seams. costumy ingests panel
// outlines from SVG, normalizes them into a canonical stitchable
// topology, resolves abstract seam declarations into concrete edge
// pairs, and hands the result to the mesh package for triangulation
// and 3D placement.
//
// # Quick Start
//
//	import "github.com/zalo/Costumy"
//
//	f, _ := os.Open("shirt.svg")
//	pat, err := costumy.PatternFromSVG(ctx, f)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	pat.NormalizeEdgeOrder()
//	pat.AddStitch("front", 1, "back", 1)
//
//	data, _ := costumy.MarshalInterchange(pat, costumy.CurvatureRelative)
//	os.WriteFile("shirt.json", data, 0o644)
//
// # Geometry Model
//
// A Panel is a single closed loop of edges. Edges are straight lines
// or quadratic curves; cubic curves must be resolved by a
// PathApproximator before panel construction and are rejected
// otherwise. Panel space is cartesian:
//   - X increases right
//   - Y increases up
//   - canonical winding is counter-clockwise
//
// SVG sources use Y down; construction flips them.
//
// # Canonical Form
//
// NormalizeEdgeOrder rotates each panel's edge loop so the edge
// nearest the bounding-box minimum comes first and the loop winds
// counter-clockwise. Serialization, comparison and stitch indexing all
// assume this form.
//
// # Seams
//
// Stitches reference (panel, edge index) pairs. Because approximation
// and simplification reshuffle edge indices, seam declarations are
// authored against provenance ids instead and resolved with
// ResolveSeams once a panel's topology is final.
//
// # Interchange
//
// Patterns serialize to the GarmentPattern specification JSON, with
// curve control points in a relative curve-local frame by default.
// ParseInterchange restores them.
package costumy

// Version information
const (
	// Version is the current version of the library
	Version = "0.2.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 2

	// VersionPatch is the patch version
	VersionPatch = 0
)
