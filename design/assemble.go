package design

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	costumy "github.com/zalo/Costumy"
)

// simplifyThreshold drives curve straightening and line fusing during
// panel cleanup. Generated outlines are full of segments that are
// straight for all practical purposes but arrive as curves.
const simplifyThreshold = 0.9999

// Design binds a definition to a body and to the external programs
// that draft and approximate the pattern.
type Design struct {
	// Definition declares the design's measurements, options and
	// assembly tables.
	Definition *Definition

	// Measurements holds the current body measurements, keyed by the
	// generator's measurement names.
	Measurements map[string]float64

	// Generator drafts the SVG pattern. Required for NewPattern.
	Generator Generator

	// Approximator rewrites cubic path segments into quadratics.
	// Without one, assembly fails on any path that still carries
	// cubics after the near-quadratic rewrite.
	Approximator costumy.PathApproximator

	// ReferenceSets are complete measurement sets used to fill
	// missing measurements.
	ReferenceSets []MeasurementSet
}

// New binds a definition to a set of body measurements.
func New(def *Definition, measurements map[string]float64) *Design {
	return &Design{Definition: def, Measurements: measurements}
}

// MissingMeasurements lists required measurements absent from
// d.Measurements, sorted by name.
func (d *Design) MissingMeasurements() []string {
	var missing []string
	for _, name := range d.Definition.RequiredMeasurements {
		if _, ok := d.Measurements[name]; !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

// CompleteMeasurements fills missing required measurements from the
// reference set closest to the measurements already known, modifying
// d.Measurements in place.
func (d *Design) CompleteMeasurements() error {
	missing := d.MissingMeasurements()
	if len(missing) == 0 {
		return nil
	}
	best, ok := ClosestMeasurementSet(d.Measurements, d.ReferenceSets)
	if !ok {
		return fmt.Errorf("%w: %d measurements are missing and no reference sets are loaded",
			costumy.ErrConfigurationMismatch, len(missing))
	}
	if d.Measurements == nil {
		d.Measurements = make(map[string]float64, len(missing))
	}
	for _, name := range missing {
		value, ok := best.Measurements[name]
		if !ok {
			return fmt.Errorf("%w: reference set %q lacks measurement %q",
				costumy.ErrConfigurationMismatch, best.Name, name)
		}
		d.Measurements[name] = value
	}
	costumy.Logger().Info("completed missing measurements",
		"design", d.Definition.Name, "reference", best.Name, "filled", len(missing))
	return nil
}

// Option configures pattern assembly.
type Option func(*assembleOptions)

type assembleOptions struct {
	style           string
	options         map[string]float64
	tolerance       float64
	completeMissing bool
}

// WithStyle drafts one of the definition's named presets instead of
// the default options.
func WithStyle(name string) Option {
	return func(o *assembleOptions) {
		o.style = name
	}
}

// WithOptions drafts with an explicit option set, for example one from
// Definition.RandomOptions. Ignored when a style is also given.
func WithOptions(options map[string]float64) Option {
	return func(o *assembleOptions) {
		o.options = options
	}
}

// WithTolerance overrides the definition's curve approximation
// tolerance. Larger values produce fewer, coarser curves.
func WithTolerance(t float64) Option {
	return func(o *assembleOptions) {
		o.tolerance = t
	}
}

// WithoutCompletion fails assembly when required measurements are
// missing instead of filling them from reference sets.
func WithoutCompletion() Option {
	return func(o *assembleOptions) {
		o.completeMissing = false
	}
}

// NewPattern drafts a pattern for the current measurements and
// assembles it into stitched panels.
//
//	d := design.New(def, measurements)
//	d.Generator = &design.PipeGenerator{Command: "node", Args: []string{"draft.mjs"}}
//	d.Approximator = &costumy.PipeApproximator{Command: "node", Args: []string{"cubic2quad.mjs"}}
//	pat, err := d.NewPattern(ctx, design.WithStyle("croptop"))
func (d *Design) NewPattern(ctx context.Context, opts ...Option) (*costumy.Pattern, error) {
	o := d.newAssembleOptions(opts)

	measurements, err := d.resolveMeasurements(o)
	if err != nil {
		return nil, err
	}
	options, err := d.resolveOptions(o)
	if err != nil {
		return nil, err
	}

	if d.Generator == nil {
		return nil, fmt.Errorf("%w: design %q has no generator", costumy.ErrConfigurationMismatch, d.Definition.Name)
	}
	svg, err := d.Generator.Generate(ctx, measurements, options)
	if err != nil {
		return nil, err
	}

	doc, err := costumy.ParseSVGDocument(bytes.NewReader(svg))
	if err != nil {
		return nil, err
	}
	named := doc.GroupNamedPaths(d.Definition.PanelPrefix)
	if len(named) == 0 {
		return nil, fmt.Errorf("%w: generator output carries no %q panel groups",
			costumy.ErrMalformedGeometry, d.Definition.PanelPrefix)
	}
	return d.assemble(ctx, named, o)
}

// Assemble turns already-extracted panel path data into a stitched
// pattern, running the same cleanup pipeline NewPattern uses. Panels
// are assembled in sorted name order.
func (d *Design) Assemble(ctx context.Context, sources map[string]string, opts ...Option) (*costumy.Pattern, error) {
	o := d.newAssembleOptions(opts)
	named := make([]costumy.NamedPath, 0, len(sources))
	for name, data := range sources {
		named = append(named, costumy.NamedPath{Name: name, Data: data})
	}
	sort.Slice(named, func(i, j int) bool { return named[i].Name < named[j].Name })
	return d.assemble(ctx, named, o)
}

func (d *Design) newAssembleOptions(opts []Option) assembleOptions {
	o := assembleOptions{
		tolerance:       d.Definition.Tolerance,
		completeMissing: true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tolerance == 0 {
		o.tolerance = d.Definition.Tolerance
	}
	return o
}

func (d *Design) resolveMeasurements(o assembleOptions) (map[string]float64, error) {
	missing := d.MissingMeasurements()
	if len(missing) == 0 {
		return d.Measurements, nil
	}
	if !o.completeMissing {
		return nil, fmt.Errorf("%w: design %q is missing required measurements: %s",
			costumy.ErrConfigurationMismatch, d.Definition.Name, strings.Join(missing, ", "))
	}
	costumy.Logger().Warn("required measurements are missing, completing from reference sets",
		"design", d.Definition.Name, "missing", len(missing))
	if err := d.CompleteMeasurements(); err != nil {
		return nil, err
	}
	return d.Measurements, nil
}

func (d *Design) resolveOptions(o assembleOptions) (map[string]float64, error) {
	if o.style != "" {
		return d.Definition.StyleOptions(o.style)
	}
	if o.options != nil {
		return o.options, nil
	}
	return d.Definition.DefaultOptions(), nil
}

// assemble cleans every generated panel, restores placement rotations
// and resolves the seam rules.
func (d *Design) assemble(ctx context.Context, named []costumy.NamedPath, o assembleOptions) (*costumy.Pattern, error) {
	def := d.Definition
	pat := costumy.NewPattern()
	pat.Source = def.Name

	for _, np := range named {
		name := np.Name[strings.LastIndex(np.Name, ".")+1:]
		panel, err := d.buildPanel(ctx, name, np.Data, o.tolerance)
		if err != nil {
			return nil, fmt.Errorf("panel %q: %w", name, err)
		}
		pat.AddPanel(panel)
	}

	for _, p := range pat.Panels {
		if rot, ok := def.Rotation[p.Name]; ok {
			p.Rotation = rot
		}
	}

	if err := costumy.ResolveSeams(pat, def.Seams); err != nil {
		return nil, err
	}
	return pat, nil
}

// buildPanel runs one generated outline through the cleanup pipeline:
// rescale, sample the original segments for provenance, rewrite and
// approximate the curves, then simplify the panel until it is a clean
// stitchable loop.
func (d *Design) buildPanel(ctx context.Context, name, data string, tolerance float64) (*costumy.Panel, error) {
	scaled, err := costumy.ScalePathData(data, d.Definition.Scale)
	if err != nil {
		return nil, err
	}
	cmds, err := costumy.ParsePathData(scaled)
	if err != nil {
		return nil, err
	}

	// Provenance references come from the path as drafted, before any
	// approximation reshapes it.
	refs := costumy.ReferenceSegmentsFromPath(cmds)

	approxData := costumy.WritePathData(costumy.RewriteNearQuadCubics(cmds, tolerance))
	if d.Approximator != nil {
		approxData, err = d.Approximator.ApproximatePath(ctx, approxData, tolerance)
		if err != nil {
			return nil, err
		}
	}

	panel, err := costumy.PanelFromSVG(name, approxData)
	if err != nil {
		return nil, err
	}
	panel.StraightenCurves(simplifyThreshold)
	panel.RemakeVertices()
	costumy.AssignProvenance(panel, refs)

	if foldEdge, ok := d.Definition.Unfold[name]; ok {
		if err := panel.Unfold(foldEdge); err != nil {
			return nil, err
		}
	}

	panel.Recenter()
	panel.NormalizeEdgeOrder()
	panel.StraightenCurves(simplifyThreshold)
	panel.UnsplitLines(simplifyThreshold)
	return panel, nil
}
