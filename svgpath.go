package costumy

import (
	"fmt"
	"strconv"
	"strings"

	pstrconv "github.com/tdewolff/parse/v2/strconv"
)

// PathCommand is a single drawing command parsed from SVG path data.
type PathCommand interface {
	isPathCommand()
}

// MoveTo starts a new subpath at Point.
type MoveTo struct {
	Point Point
}

func (MoveTo) isPathCommand() {}

// LineTo draws a straight segment to Point.
type LineTo struct {
	Point Point
}

func (LineTo) isPathCommand() {}

// QuadTo draws a quadratic Bezier segment to Point.
type QuadTo struct {
	Control Point
	Point   Point
}

func (QuadTo) isPathCommand() {}

// CubicTo draws a cubic Bezier segment to Point. Panels reject cubics;
// the command exists so raw generator output can be inspected and
// rewritten before approximation.
type CubicTo struct {
	Control1 Point
	Control2 Point
	Point    Point
}

func (CubicTo) isPathCommand() {}

// ClosePath closes the current subpath.
type ClosePath struct{}

func (ClosePath) isPathCommand() {}

// pathScanner walks SVG path data byte by byte. Errors stick: after the
// first failure every read returns zero and the error is reported once
// at the end.
type pathScanner struct {
	data string
	pos  int
	err  error
}

func (s *pathScanner) done() bool {
	return s.err != nil || s.pos >= len(s.data)
}

func (s *pathScanner) peek() byte { return s.data[s.pos] }

func (s *pathScanner) skipSeparators() {
	for s.pos < len(s.data) {
		switch s.data[s.pos] {
		case ' ', '\t', '\n', '\r', ',':
			s.pos++
		default:
			return
		}
	}
}

func (s *pathScanner) number() float64 {
	if s.err != nil {
		return 0
	}
	s.skipSeparators()
	if s.pos >= len(s.data) {
		s.err = fmt.Errorf("unexpected end of path data at offset %d", s.pos)
		return 0
	}
	f, n := pstrconv.ParseFloat([]byte(s.data[s.pos:]))
	if n == 0 {
		s.err = fmt.Errorf("expected number at offset %d, found %q", s.pos, s.data[s.pos])
		return 0
	}
	s.pos += n
	return f
}

func (s *pathScanner) point() Point {
	x := s.number()
	y := s.number()
	return Pt(x, y)
}

func isCommandLetter(c byte) bool {
	return ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z')
}

// ParsePathData parses the d attribute of an SVG path element into
// commands with absolute coordinates. Supported commands are M, L, H,
// V, Q, C and Z in either case, with relative variants and repeated
// coordinate groups (including the implicit line-to after a move-to).
// Arcs and shorthand curves are rejected with ErrMalformedGeometry.
func ParsePathData(d string) ([]PathCommand, error) {
	s := pathScanner{data: d}
	var (
		cmds       []PathCommand
		cur, start Point
		cmd        byte
	)
	for {
		s.skipSeparators()
		if s.done() {
			break
		}
		if c := s.peek(); isCommandLetter(c) {
			cmd = c
			s.pos++
			if cmd == 'Z' || cmd == 'z' {
				cmds = append(cmds, ClosePath{})
				cur = start
				cmd = 0
				continue
			}
		} else if cmd == 0 {
			return nil, fmt.Errorf("%w: path data has coordinates outside any command", ErrMalformedGeometry)
		}

		rel := cmd >= 'a'
		switch cmd {
		case 'M', 'm':
			p := s.point()
			if rel {
				p = cur.Add(p)
			}
			cur, start = p, p
			cmds = append(cmds, MoveTo{Point: p})
			// Extra coordinate pairs after a move-to are line-tos.
			if rel {
				cmd = 'l'
			} else {
				cmd = 'L'
			}
		case 'L', 'l':
			p := s.point()
			if rel {
				p = cur.Add(p)
			}
			cmds = append(cmds, LineTo{Point: p})
			cur = p
		case 'H', 'h':
			x := s.number()
			if rel {
				x += cur.X
			}
			cur = Pt(x, cur.Y)
			cmds = append(cmds, LineTo{Point: cur})
		case 'V', 'v':
			y := s.number()
			if rel {
				y += cur.Y
			}
			cur = Pt(cur.X, y)
			cmds = append(cmds, LineTo{Point: cur})
		case 'Q', 'q':
			c1 := s.point()
			p := s.point()
			if rel {
				c1 = cur.Add(c1)
				p = cur.Add(p)
			}
			cmds = append(cmds, QuadTo{Control: c1, Point: p})
			cur = p
		case 'C', 'c':
			c1 := s.point()
			c2 := s.point()
			p := s.point()
			if rel {
				c1 = cur.Add(c1)
				c2 = cur.Add(c2)
				p = cur.Add(p)
			}
			cmds = append(cmds, CubicTo{Control1: c1, Control2: c2, Point: p})
			cur = p
		default:
			return nil, fmt.Errorf("%w: unsupported path command %q", ErrMalformedGeometry, string(cmd))
		}
		if s.err != nil {
			return nil, fmt.Errorf("%w: invalid path data: %v", ErrMalformedGeometry, s.err)
		}
	}
	if s.err != nil {
		return nil, fmt.Errorf("%w: invalid path data: %v", ErrMalformedGeometry, s.err)
	}
	return cmds, nil
}

// WritePathData serializes commands back into a d attribute with
// absolute coordinates.
func WritePathData(cmds []PathCommand) string {
	var b strings.Builder
	for i, cmd := range cmds {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch c := cmd.(type) {
		case MoveTo:
			b.WriteString("M ")
			writeCoords(&b, c.Point)
		case LineTo:
			b.WriteString("L ")
			writeCoords(&b, c.Point)
		case QuadTo:
			b.WriteString("Q ")
			writeCoords(&b, c.Control, c.Point)
		case CubicTo:
			b.WriteString("C ")
			writeCoords(&b, c.Control1, c.Control2, c.Point)
		case ClosePath:
			b.WriteString("Z")
		}
	}
	return b.String()
}

func writeCoords(b *strings.Builder, pts ...Point) {
	for i, p := range pts {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(formatFloat(p.X))
		b.WriteByte(' ')
		b.WriteString(formatFloat(p.Y))
	}
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// ScalePathData multiplies every number in a path string by factor,
// leaving command letters untouched. Curve approximation is sensitive
// to absolute scale, so generator output is rescaled with this before
// being handed to the approximator.
func ScalePathData(d string, factor float64) (string, error) {
	s := pathScanner{data: d}
	var parts []string
	for {
		s.skipSeparators()
		if s.done() {
			break
		}
		if c := s.peek(); isCommandLetter(c) {
			parts = append(parts, string(c))
			s.pos++
			continue
		}
		x := s.number()
		if s.err != nil {
			return "", fmt.Errorf("%w: invalid path data: %v", ErrMalformedGeometry, s.err)
		}
		parts = append(parts, formatFloat(x*factor))
	}
	return strings.Join(parts, " "), nil
}
