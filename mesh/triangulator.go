package mesh

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	costumy "github.com/zalo/Costumy"
)

// Shape is the planar straight-line graph handed to a Triangulator:
// boundary points and the segments connecting them. Consecutive edges
// contribute their shared junction twice; the engine is expected to
// merge coincident points.
type Shape struct {
	Vertices [][2]float64 `json:"vertices"`
	Segments [][2]int     `json:"segments"`
}

// Triangulation is a triangulator's answer: the final point set, the
// input segments as recovered on it, the full edge set and the
// interior triangles. Indices refer to Vertices.
type Triangulation struct {
	Vertices  [][2]float64 `json:"vertices"`
	Segments  [][2]int     `json:"segments"`
	Edges     [][2]int     `json:"edges"`
	Triangles [][3]int     `json:"triangles"`
}

// Triangulator fills a boundary shape with quality triangles. quality
// is a constraint string in triangle's flag syntax, like "pqa0.05e".
type Triangulator interface {
	Triangulate(ctx context.Context, shape Shape, quality string) (*Triangulation, error)
}

// SuccessSentinel is the line a triangulator process must print after
// a completed run. The triangulation engine dies silently on some
// inputs, so only this line distinguishes success from a crash that
// still produced output.
const SuccessSentinel = "$$success$$"

// PipeTriangulator shells out to an external triangulation program for
// each panel. The quality flags are appended to Args as the final
// argument, the shape is written to standard input as JSON, and the
// response is read from standard output: the Triangulation as JSON
// followed by SuccessSentinel on its own line. Output without the
// sentinel counts as a failed run no matter the exit status.
type PipeTriangulator struct {
	Command string
	Args    []string
}

// Triangulate implements Triangulator.
func (t *PipeTriangulator) Triangulate(ctx context.Context, shape Shape, quality string) (*Triangulation, error) {
	payload, err := json.Marshal(shape)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding shape: %v", costumy.ErrSerialization, err)
	}

	args := make([]string, 0, len(t.Args)+1)
	args = append(args, t.Args...)
	args = append(args, quality)

	cmd := exec.CommandContext(ctx, t.Command, args...)
	cmd.Stdin = bytes.NewReader(payload)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", costumy.ErrExternalProcess, t.Command, err)
	}

	body, ok := splitSentinel(string(out))
	if !ok {
		return nil, fmt.Errorf("%w: %s finished without printing %s",
			costumy.ErrExternalProcess, t.Command, SuccessSentinel)
	}

	var tri Triangulation
	if err := json.Unmarshal([]byte(body), &tri); err != nil {
		return nil, fmt.Errorf("%w: %s: decoding response: %v", costumy.ErrExternalProcess, t.Command, err)
	}
	if len(tri.Vertices) == 0 {
		return nil, fmt.Errorf("%w: %s returned an empty triangulation", costumy.ErrExternalProcess, t.Command)
	}
	costumy.Logger().Debug("triangulated shape", "command", t.Command, "quality", quality,
		"in", len(shape.Vertices), "out", len(tri.Vertices), "faces", len(tri.Triangles))
	return &tri, nil
}

// splitSentinel looks for the success line and returns everything
// before it.
func splitSentinel(out string) (string, bool) {
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == SuccessSentinel {
			return strings.Join(lines[:i], "\n"), true
		}
	}
	return "", false
}
