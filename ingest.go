package costumy

import (
	"context"
	"fmt"
	"io"
)

// IngestOption configures PatternFromSVG.
type IngestOption func(*ingestOptions)

type ingestOptions struct {
	approximator PathApproximator
	tolerance    float64
	rewriteNear  bool
	scale        float64
	groupPrefix  string
	groupNames   bool
}

func defaultIngestOptions() ingestOptions {
	return ingestOptions{
		tolerance: 10,
		scale:     1,
	}
}

// WithApproximator routes every ingested path through the given
// approximator so that cubic segments are resolved before panel
// construction. Without one, paths containing cubics are rejected.
func WithApproximator(a PathApproximator) IngestOption {
	return func(o *ingestOptions) {
		o.approximator = a
	}
}

// WithTolerance sets the approximation tolerance. Larger values
// produce fewer, coarser curves. The default is 10.
func WithTolerance(t float64) IngestOption {
	return func(o *ingestOptions) {
		o.tolerance = t
	}
}

// WithNearQuadRewrite rewrites cubics that are quadratics in disguise
// before approximation. See RewriteNearQuadCubics.
func WithNearQuadRewrite() IngestOption {
	return func(o *ingestOptions) {
		o.rewriteNear = true
	}
}

// WithPathScale multiplies every coordinate by f before any other
// processing, converting source units and giving the approximator
// geometry at a scale it handles well.
func WithPathScale(f float64) IngestOption {
	return func(o *ingestOptions) {
		o.scale = f
	}
}

// WithGroupNames names panels by their enclosing SVG group instead of
// per-path ids and labels, keeping only names starting with prefix.
// See SVGDocument.GroupNamedPaths.
func WithGroupNames(prefix string) IngestOption {
	return func(o *ingestOptions) {
		o.groupNames = true
		o.groupPrefix = prefix
	}
}

// PatternFromSVG builds a pattern from an SVG document, one panel per
// named path element.
//
// Example:
//
//	f, _ := os.Open("shirt.svg")
//	pat, err := costumy.PatternFromSVG(ctx, f,
//		costumy.WithApproximator(approx),
//		costumy.WithTolerance(50))
//
// The context bounds any external approximation calls.
func PatternFromSVG(ctx context.Context, r io.Reader, opts ...IngestOption) (*Pattern, error) {
	o := defaultIngestOptions()
	for _, opt := range opts {
		opt(&o)
	}

	doc, err := ParseSVGDocument(r)
	if err != nil {
		return nil, err
	}

	var named []NamedPath
	if o.groupNames {
		named = doc.GroupNamedPaths(o.groupPrefix)
	} else {
		named = doc.NamedPaths()
	}
	if len(named) == 0 {
		return nil, fmt.Errorf("%w: svg document contains no usable path elements", ErrMalformedGeometry)
	}

	pat := NewPattern()
	for _, np := range named {
		d := np.Data
		if o.scale != 1 {
			if d, err = ScalePathData(d, o.scale); err != nil {
				return nil, fmt.Errorf("panel %q: %w", np.Name, err)
			}
		}
		if o.rewriteNear {
			cmds, err := ParsePathData(d)
			if err != nil {
				return nil, fmt.Errorf("panel %q: %w", np.Name, err)
			}
			d = WritePathData(RewriteNearQuadCubics(cmds, o.tolerance))
		}
		if o.approximator != nil {
			if d, err = o.approximator.ApproximatePath(ctx, d, o.tolerance); err != nil {
				return nil, fmt.Errorf("panel %q: %w", np.Name, err)
			}
		}

		p, err := PanelFromSVG(np.Name, d)
		if err != nil {
			return nil, err
		}
		pat.AddPanel(p)
	}
	return pat, nil
}
