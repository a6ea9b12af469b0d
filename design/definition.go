package design

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	costumy "github.com/zalo/Costumy"
)

// Definition declares everything a garment design needs beyond the
// generator itself: which measurements drive it, which options it
// exposes, and how the generated panels are folded, placed and sewn
// together. Definitions are plain data loaded from YAML, so adding a
// design does not require new code unless it needs a custom aligner.
type Definition struct {
	// Name identifies the design and becomes Pattern.Source.
	Name string `yaml:"name"`

	// Source is a free-form pointer to the design's documentation.
	Source string `yaml:"source,omitempty"`

	// RequiredMeasurements is the minimal measurement set the
	// generator needs. Missing entries can be filled from reference
	// sets, see Design.CompleteMeasurements.
	RequiredMeasurements []string `yaml:"required_measurements"`

	// OptionalMeasurements influence the generated pattern when
	// present but are never filled in automatically.
	OptionalMeasurements []string `yaml:"optional_measurements,omitempty"`

	// Options maps option names to their allowed range. The generator
	// falls back to its own defaults for options left out of a request,
	// so styles may reference names that are absent here.
	Options map[string]OptionRange `yaml:"options,omitempty"`

	// Styles are named option presets. An empty preset means the
	// generator's defaults.
	Styles map[string]map[string]float64 `yaml:"styles,omitempty"`

	// Seams declares which panel edges are sewn together, by panel
	// name and provenance id. Negative ids select mirrored edges of
	// unfolded panels.
	Seams []costumy.SeamRule `yaml:"seams,omitempty"`

	// Unfold lists panels drawn as half pieces against a fold line,
	// with the edge index of the fold.
	Unfold map[string]int `yaml:"unfold,omitempty"`

	// Rotation holds per-panel placement rotations in degrees.
	Rotation map[string][3]float64 `yaml:"rotation,omitempty"`

	// Anchor configures the provenance-based aligner, see
	// Definition.Aligner.
	Anchor *AnchorSpec `yaml:"anchor,omitempty"`

	// PanelPrefix filters generator output: only paths whose group id
	// starts with the prefix become panels. Defaults to "fs".
	PanelPrefix string `yaml:"panel_prefix,omitempty"`

	// Scale converts generator units into pattern units before any
	// other processing. Defaults to 0.1 (millimetres to centimetres).
	Scale float64 `yaml:"scale,omitempty"`

	// Tolerance is the curve approximation tolerance. Defaults to 0.8.
	Tolerance float64 `yaml:"tolerance,omitempty"`
}

// OptionRange bounds one generator option.
type OptionRange struct {
	Min     float64 `yaml:"min"`
	Default float64 `yaml:"default"`
	Max     float64 `yaml:"max"`
}

// Load reads a YAML design definition and applies defaults.
func Load(r io.Reader) (*Definition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read design definition: %w", err)
	}
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("%w: failed to parse design definition: %v", costumy.ErrSerialization, err)
	}
	if def.Name == "" {
		return nil, fmt.Errorf("%w: design definition has no name", costumy.ErrConfigurationMismatch)
	}
	if def.PanelPrefix == "" {
		def.PanelPrefix = "fs"
	}
	if def.Scale == 0 {
		def.Scale = 0.1
	}
	if def.Tolerance == 0 {
		def.Tolerance = 0.8
	}
	return &def, nil
}

// LoadFile reads a YAML design definition from disk.
func LoadFile(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: design definition %s", costumy.ErrMissingResource, path)
		}
		return nil, fmt.Errorf("failed to read design definition: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// DefaultOptions returns every declared option at its default value.
func (def *Definition) DefaultOptions() map[string]float64 {
	opts := make(map[string]float64, len(def.Options))
	for name, r := range def.Options {
		opts[name] = r.Default
	}
	return opts
}

// StyleOptions resolves a style name to its option preset. The preset
// is returned as a copy, so callers may tweak it freely.
func (def *Definition) StyleOptions(style string) (map[string]float64, error) {
	preset, ok := def.Styles[style]
	if !ok {
		names := make([]string, 0, len(def.Styles))
		for name := range def.Styles {
			names = append(names, name)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("%w: style %q not found in design %q, available styles are %s",
			costumy.ErrConfigurationMismatch, style, def.Name, strings.Join(names, ", "))
	}
	opts := make(map[string]float64, len(preset))
	for name, v := range preset {
		opts[name] = v
	}
	return opts, nil
}

// StyleNames lists the declared styles in sorted order.
func (def *Definition) StyleNames() []string {
	names := make([]string, 0, len(def.Styles))
	for name := range def.Styles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RandomOptions draws every declared option uniformly from its range.
// Extreme draws can produce patterns the seam rules cannot stitch.
func (def *Definition) RandomOptions(rng *rand.Rand) map[string]float64 {
	opts := make(map[string]float64, len(def.Options))
	for name, r := range def.Options {
		opts[name] = r.Min + rng.Float64()*(r.Max-r.Min)
	}
	return opts
}
