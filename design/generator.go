package design

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	costumy "github.com/zalo/Costumy"
)

// Generator produces an SVG pattern document from body measurements
// and design options. The document is expected to carry one path per
// panel, grouped under ids the definition's PanelPrefix selects.
type Generator interface {
	Generate(ctx context.Context, measurements, options map[string]float64) ([]byte, error)
}

// PipeGenerator shells out to an external pattern generator. The
// request is written to the program's standard input as JSON and the
// SVG document is read from its standard output.
type PipeGenerator struct {
	Command string
	Args    []string
}

// generatorRequest is the drafting request the generator understands.
// Sizing comes from measurements and options alone; the remaining
// fields pin down a bare drafting mode so the output stays parseable.
type generatorRequest struct {
	SeamAllowance float64            `json:"sa"`
	Scale         float64            `json:"scale"`
	Complete      bool               `json:"complete"`
	Paperless     bool               `json:"paperless"`
	Locale        string             `json:"locale"`
	Units         string             `json:"units"`
	Measurements  map[string]float64 `json:"measurements"`
	Options       map[string]float64 `json:"options"`
}

// Generate implements Generator.
func (g *PipeGenerator) Generate(ctx context.Context, measurements, options map[string]float64) ([]byte, error) {
	body, err := json.Marshal(generatorRequest{
		SeamAllowance: 10,
		Scale:         1,
		Locale:        "en",
		Units:         "metric",
		Measurements:  measurements,
		Options:       options,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode generator request: %v", costumy.ErrSerialization, err)
	}

	cmd := exec.CommandContext(ctx, g.Command, g.Args...)
	cmd.Stdin = bytes.NewReader(body)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", costumy.ErrExternalProcess, g.Command, err)
	}
	if len(bytes.TrimSpace(out)) == 0 {
		return nil, fmt.Errorf("%w: %s returned no output", costumy.ErrExternalProcess, g.Command)
	}
	costumy.Logger().Debug("generated pattern svg", "command", g.Command,
		"measurements", len(measurements), "options", len(options), "bytes", len(out))
	return out, nil
}
