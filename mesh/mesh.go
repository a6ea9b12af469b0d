package mesh

// Mesh is the simulation-ready form of a pattern: the panel
// triangulations placed in 3D, joined by seam edges along the stitched
// boundaries. All indices refer to Vertices.
//
// Seam edges appear twice on purpose. They are appended to Edges so a
// simulator that only reads edges still pulls stitched boundaries
// together, and they are recorded in Seams for callers that need the
// correspondences on their own.
type Mesh struct {
	// Vertices are positions in the simulator convention
	// (X right, Y backward, Z up).
	Vertices [][3]float64

	// Edges holds the panel boundary and interior edges followed by
	// the seam edges.
	Edges [][2]int

	// Faces are the interior triangles.
	Faces [][3]int

	// Seams are the vertex pairs produced from the pattern's stitches,
	// one pair per matched boundary vertex.
	Seams [][2]int

	// Attempts records how many triangulation rounds Prepare needed.
	// Informational only.
	Attempts int
}
