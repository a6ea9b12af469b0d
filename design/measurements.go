package design

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	costumy "github.com/zalo/Costumy"
)

// MeasurementSet is one complete reference body. Designs fill missing
// measurements from the reference set closest to what was measured.
type MeasurementSet struct {
	Name         string
	Measurements map[string]float64
}

// LoadMeasurementSet reads a single {"measurements": {...}} JSON file.
// The file stem becomes the set name.
func LoadMeasurementSet(path string) (MeasurementSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return MeasurementSet{}, fmt.Errorf("%w: measurement set %s", costumy.ErrMissingResource, path)
		}
		return MeasurementSet{}, fmt.Errorf("failed to read measurement set: %w", err)
	}
	var doc struct {
		Measurements map[string]float64 `json:"measurements"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return MeasurementSet{}, fmt.Errorf("%w: failed to parse measurement set %s: %v",
			costumy.ErrSerialization, path, err)
	}
	if len(doc.Measurements) == 0 {
		return MeasurementSet{}, fmt.Errorf("%w: measurement set %s holds no measurements",
			costumy.ErrSerialization, path)
	}
	base := filepath.Base(path)
	return MeasurementSet{
		Name:         strings.TrimSuffix(base, filepath.Ext(base)),
		Measurements: doc.Measurements,
	}, nil
}

// LoadMeasurementSets reads every *.json measurement set in a
// directory, in file name order.
func LoadMeasurementSets(dir string) ([]MeasurementSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: measurement set directory %s", costumy.ErrMissingResource, dir)
		}
		return nil, fmt.Errorf("failed to read measurement set directory: %w", err)
	}
	var sets []MeasurementSet
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		set, err := LoadMeasurementSet(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, nil
}

// ClosestMeasurementSet picks the reference set most similar to the
// known measurements, by the sum of absolute differences over the keys
// both sides share. Ties keep the earlier set. ok is false when sets
// is empty.
func ClosestMeasurementSet(known map[string]float64, sets []MeasurementSet) (MeasurementSet, bool) {
	var best MeasurementSet
	bestDiff := math.Inf(1)
	found := false
	for _, set := range sets {
		diff := 0.0
		for name, value := range known {
			if ref, ok := set.Measurements[name]; ok {
				diff += math.Abs(ref - value)
			}
		}
		if diff < bestDiff {
			best = set
			bestDiff = diff
			found = true
		}
	}
	return best, found
}
