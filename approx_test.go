package costumy

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
}

func TestPipeApproximatorEchoesInput(t *testing.T) {
	skipWithoutShell(t)
	a := &PipeApproximator{Command: "sh", Args: []string{"-c", `echo "$0"`}}
	got, err := a.ApproximatePath(context.Background(), "M 0,0 L 10,0", 2.5)
	if err != nil {
		t.Fatalf("ApproximatePath failed: %v", err)
	}
	if got != "M 0,0 L 10,0" {
		t.Errorf("ApproximatePath() = %q, want input echoed", got)
	}
}

func TestPipeApproximatorPassesTolerance(t *testing.T) {
	skipWithoutShell(t)
	a := &PipeApproximator{Command: "sh", Args: []string{"-c", `echo "$1"`}}
	got, err := a.ApproximatePath(context.Background(), "M 0,0", 2.5)
	if err != nil {
		t.Fatalf("ApproximatePath failed: %v", err)
	}
	if got != "2.5" {
		t.Errorf("tolerance argument = %q, want %q", got, "2.5")
	}
}

func TestPipeApproximatorJoinsLines(t *testing.T) {
	skipWithoutShell(t)
	a := &PipeApproximator{Command: "sh", Args: []string{"-c", `printf 'M 0 0\nL 5 5\n'`}}
	got, err := a.ApproximatePath(context.Background(), "M 0,0", 1)
	if err != nil {
		t.Fatalf("ApproximatePath failed: %v", err)
	}
	if got != "M 0 0L 5 5" {
		t.Errorf("ApproximatePath() = %q, want newlines stripped", got)
	}
}

func TestPipeApproximatorCommandFails(t *testing.T) {
	skipWithoutShell(t)
	a := &PipeApproximator{Command: "false"}
	_, err := a.ApproximatePath(context.Background(), "M 0,0", 1)
	if !errors.Is(err, ErrExternalProcess) {
		t.Errorf("ApproximatePath error = %v, want ErrExternalProcess", err)
	}
}

func TestPipeApproximatorEmptyOutput(t *testing.T) {
	skipWithoutShell(t)
	a := &PipeApproximator{Command: "true"}
	_, err := a.ApproximatePath(context.Background(), "M 0,0", 1)
	if !errors.Is(err, ErrExternalProcess) {
		t.Errorf("ApproximatePath error = %v, want ErrExternalProcess", err)
	}
}

func TestRewriteNearQuadCubics(t *testing.T) {
	tests := []struct {
		name string
		d    string
		want []PathCommand
	}{
		{
			"first handle on start point",
			"M 0,0 C 0,0 5,5 10,0",
			[]PathCommand{
				MoveTo{Pt(0, 0)},
				QuadTo{Pt(5, 5), Pt(10, 0)},
			},
		},
		{
			"second handle on end point",
			"M 0,0 C 5,5 10,0 10,0",
			[]PathCommand{
				MoveTo{Pt(0, 0)},
				QuadTo{Pt(5, 5), Pt(10, 0)},
			},
		},
		{
			"degree-elevated quadratic",
			"M 0,0 C 4,2 8,2 12,0",
			[]PathCommand{
				MoveTo{Pt(0, 0)},
				QuadTo{Pt(6, 3), Pt(12, 0)},
			},
		},
		{
			"parallel handles stay cubic",
			"M 0,0 C 0,10 10,-10 10,0",
			[]PathCommand{
				MoveTo{Pt(0, 0)},
				CubicTo{Pt(0, 10), Pt(10, -10), Pt(10, 0)},
			},
		},
		{
			"large deviation stays cubic",
			"M 0,0 C 2,8 6,-8 10,0",
			[]PathCommand{
				MoveTo{Pt(0, 0)},
				CubicTo{Pt(2, 8), Pt(6, -8), Pt(10, 0)},
			},
		},
		{
			"other commands untouched",
			"M 0,0 L 5,0 Q 6,1 7,0 Z",
			[]PathCommand{
				MoveTo{Pt(0, 0)},
				LineTo{Pt(5, 0)},
				QuadTo{Pt(6, 1), Pt(7, 0)},
				ClosePath{},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds, err := ParsePathData(tt.d)
			if err != nil {
				t.Fatalf("ParsePathData failed: %v", err)
			}
			got := RewriteNearQuadCubics(cmds, 1)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("RewriteNearQuadCubics(%q) mismatch (-want +got):\n%s", tt.d, diff)
			}
		})
	}
}
