package design

import (
	"errors"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	costumy "github.com/zalo/Costumy"
)

func loadAaron(t *testing.T) *Definition {
	t.Helper()
	def, err := LoadFile(filepath.Join("testdata", "aaron.yaml"))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	return def
}

func TestLoadFile(t *testing.T) {
	def := loadAaron(t)

	if def.Name != "aaron" {
		t.Errorf("Name = %q, want %q", def.Name, "aaron")
	}
	if len(def.RequiredMeasurements) != 9 {
		t.Errorf("len(RequiredMeasurements) = %d, want 9", len(def.RequiredMeasurements))
	}
	if len(def.Options) != 10 {
		t.Errorf("len(Options) = %d, want 10", len(def.Options))
	}
	if len(def.Styles) != 3 {
		t.Errorf("len(Styles) = %d, want 3", len(def.Styles))
	}
	if len(def.Seams) != 4 {
		t.Errorf("len(Seams) = %d, want 4", len(def.Seams))
	}
	if def.Unfold["front"] != 0 || def.Unfold["back"] != 0 {
		t.Errorf("Unfold = %v, want fold edge 0 for front and back", def.Unfold)
	}
	if def.Rotation["back"] != [3]float64{0, 180, 0} {
		t.Errorf("Rotation[back] = %v, want [0 180 0]", def.Rotation["back"])
	}
	if def.Anchor == nil || def.Anchor.Panel != "front" || def.Anchor.ID != 6 {
		t.Errorf("Anchor = %+v, want front panel with id 6", def.Anchor)
	}

	seam := def.Seams[0]
	if seam.A != (costumy.SeamEnd{Panel: "front", ID: -3}) || seam.B != (costumy.SeamEnd{Panel: "back", ID: 3}) {
		t.Errorf("Seams[0] = %v, want (front,-3)-(back,3)", seam)
	}
}

func TestLoadDefaults(t *testing.T) {
	def := loadAaron(t)
	if def.PanelPrefix != "fs" {
		t.Errorf("PanelPrefix = %q, want %q", def.PanelPrefix, "fs")
	}
	if def.Scale != 0.1 {
		t.Errorf("Scale = %v, want 0.1", def.Scale)
	}
	if def.Tolerance != 0.8 {
		t.Errorf("Tolerance = %v, want 0.8", def.Tolerance)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join("testdata", "no_such_design.yaml"))
	if !errors.Is(err, costumy.ErrMissingResource) {
		t.Errorf("LoadFile error = %v, want ErrMissingResource", err)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"not yaml", "name: [unclosed", costumy.ErrSerialization},
		{"wrong types", "name: x\noptions: 12", costumy.ErrSerialization},
		{"no name", "scale: 1", costumy.ErrConfigurationMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.yaml))
			if !errors.Is(err, tt.want) {
				t.Errorf("Load error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	def := loadAaron(t)
	opts := def.DefaultOptions()
	if len(opts) != len(def.Options) {
		t.Fatalf("len(DefaultOptions) = %d, want %d", len(opts), len(def.Options))
	}
	if opts["hipsEase"] != 0.08 {
		t.Errorf("hipsEase = %v, want 0.08", opts["hipsEase"])
	}
	if opts["necklineBend"] != 1 {
		t.Errorf("necklineBend = %v, want 1", opts["necklineBend"])
	}
}

func TestStyleOptions(t *testing.T) {
	def := loadAaron(t)

	opts, err := def.StyleOptions("croptop")
	if err != nil {
		t.Fatalf("StyleOptions failed: %v", err)
	}
	if opts["lengthBonus"] != -0.13 {
		t.Errorf("croptop lengthBonus = %v, want -0.13", opts["lengthBonus"])
	}

	// The default style is an empty preset, on purpose: the generator
	// then drafts with its own defaults.
	opts, err = def.StyleOptions("default")
	if err != nil {
		t.Fatalf("StyleOptions failed: %v", err)
	}
	if len(opts) != 0 {
		t.Errorf("default style has %d options, want 0", len(opts))
	}

	// Presets may name options outside the declared ranges.
	opts, err = def.StyleOptions("sport")
	if err != nil {
		t.Fatalf("StyleOptions failed: %v", err)
	}
	if opts["armholeDepth"] != 0.058 {
		t.Errorf("sport armholeDepth = %v, want 0.058", opts["armholeDepth"])
	}
}

func TestStyleOptionsUnknown(t *testing.T) {
	def := loadAaron(t)
	_, err := def.StyleOptions("croptoop")
	if !errors.Is(err, costumy.ErrConfigurationMismatch) {
		t.Fatalf("StyleOptions error = %v, want ErrConfigurationMismatch", err)
	}
	for _, name := range []string{"croptop", "default", "sport"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not list style %q", err, name)
		}
	}
}

func TestStyleOptionsCopies(t *testing.T) {
	def := loadAaron(t)
	opts, err := def.StyleOptions("croptop")
	if err != nil {
		t.Fatalf("StyleOptions failed: %v", err)
	}
	opts["lengthBonus"] = 99

	again, err := def.StyleOptions("croptop")
	if err != nil {
		t.Fatalf("StyleOptions failed: %v", err)
	}
	if again["lengthBonus"] != -0.13 {
		t.Errorf("preset was modified through the returned map: lengthBonus = %v", again["lengthBonus"])
	}
}

func TestRandomOptions(t *testing.T) {
	def := loadAaron(t)
	rng := rand.New(rand.NewSource(7))
	opts := def.RandomOptions(rng)
	if len(opts) != len(def.Options) {
		t.Fatalf("len(RandomOptions) = %d, want %d", len(opts), len(def.Options))
	}
	for name, v := range opts {
		r := def.Options[name]
		if v < r.Min || v > r.Max {
			t.Errorf("option %s = %v outside [%v, %v]", name, v, r.Min, r.Max)
		}
	}
}

func TestStyleNames(t *testing.T) {
	def := loadAaron(t)
	names := def.StyleNames()
	want := []string{"croptop", "default", "sport"}
	if len(names) != len(want) {
		t.Fatalf("StyleNames = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("StyleNames[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}
