package costumy

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// PathApproximator converts path data that may contain cubic segments
// into an equivalent path made only of move, line and quadratic
// segments, in absolute coordinates. Panel construction rejects cubic
// segments, so every path must pass through an approximator before it
// reaches PanelFromPath.
//
// The tolerance controls how aggressively curves are merged: a larger
// value yields fewer, coarser curves. Approximation quality depends on
// the absolute scale of the path, so rescale with ScalePathData before
// approximating when the source units are very small or very large.
type PathApproximator interface {
	ApproximatePath(ctx context.Context, d string, tolerance float64) (string, error)
}

// PipeApproximator shells out to an external approximation program for
// each path. The path data and the tolerance are appended to Args as
// the final two arguments, and the converted path is read from the
// program's standard output.
type PipeApproximator struct {
	Command string
	Args    []string
}

// ApproximatePath implements PathApproximator.
func (a *PipeApproximator) ApproximatePath(ctx context.Context, d string, tolerance float64) (string, error) {
	args := make([]string, 0, len(a.Args)+2)
	args = append(args, a.Args...)
	args = append(args, d, strconv.FormatFloat(tolerance, 'g', -1, 64))

	cmd := exec.CommandContext(ctx, a.Command, args...)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrExternalProcess, a.Command, err)
	}
	converted := strings.TrimSpace(strings.ReplaceAll(string(out), "\n", ""))
	if converted == "" {
		return "", fmt.Errorf("%w: %s returned no output", ErrExternalProcess, a.Command)
	}
	Logger().Debug("approximated path", "command", a.Command, "tolerance", tolerance,
		"in", len(d), "out", len(converted))
	return converted, nil
}

// RewriteNearQuadCubics replaces cubic segments that are quadratics in
// disguise. Pattern generators often emit every curve as a cubic even
// when a control handle is degenerate. Three shapes are recognized:
// the first handle sitting on the start point, the second handle
// sitting on the end point, and both handle lines meeting in a single
// point that reproduces the cubic within tolerance (maximum sampled
// deviation). Anything else is left for the approximator.
func RewriteNearQuadCubics(cmds []PathCommand, tolerance float64) []PathCommand {
	out := make([]PathCommand, len(cmds))
	var cur, start Point
	for i, cmd := range cmds {
		out[i] = cmd
		switch c := cmd.(type) {
		case MoveTo:
			cur, start = c.Point, c.Point
		case LineTo:
			cur = c.Point
		case QuadTo:
			cur = c.Point
		case ClosePath:
			cur = start
		case CubicTo:
			switch {
			case c.Control1 == cur:
				out[i] = QuadTo{Control: c.Control2, Point: c.Point}
			case c.Control2 == c.Point:
				out[i] = QuadTo{Control: c.Control1, Point: c.Point}
			default:
				if pc, ok := intersectLines(cur, c.Control1, c.Point, c.Control2); ok {
					if cubicQuadDeviation(cur, c, pc) <= tolerance {
						out[i] = QuadTo{Control: pc, Point: c.Point}
					}
				}
			}
			cur = c.Point
		}
	}
	return out
}

// intersectLines returns the intersection of the infinite lines
// through (a1,a2) and (b1,b2). ok is false for parallel lines.
func intersectLines(a1, a2, b1, b2 Point) (Point, bool) {
	da := a2.Sub(a1)
	db := b2.Sub(b1)
	denom := da.Cross(db)
	if denom == 0 {
		return Point{}, false
	}
	t := b1.Sub(a1).Cross(db) / denom
	return a1.Add(da.Mul(t)), true
}

func cubicQuadDeviation(p0 Point, c CubicTo, pc Point) float64 {
	const steps = 8
	var worst float64
	for i := 0; i <= steps; i++ {
		t := float64(i) / steps
		d := cubicPoint(p0, c.Control1, c.Control2, c.Point, t).
			Distance(quadPoint(p0, pc, c.Point, t))
		if d > worst {
			worst = d
		}
	}
	return worst
}
