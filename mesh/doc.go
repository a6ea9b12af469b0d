// Package mesh turns a stitched pattern into a simulation-ready
// triangle mesh.
//
// Panel boundaries are subdivided to a common resolution, each panel
// interior is filled by an external triangulation engine, and the
// results are placed in 3D with seam edges connecting the stitched
// boundaries across panels. The output indices every cloth simulator
// needs are in one place: vertices, edges, faces and the seam pairs.
package mesh
