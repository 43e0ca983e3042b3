// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/relabs-tech/ntc_lut/internal/thermistor"
)

// ModelFile is the on-disk record of a fitted thermistor model plus the
// electrical context it was fitted under. The electrical parameters are
// stored so the monitor does not silently combine coefficients from one
// board with divider values from another.
type ModelFile struct {
	SchemaVersion int       `json:"schema_version"`
	FittedAt      string    `json:"fitted_at"` // RFC3339
	Powers        []int     `json:"powers"`
	Coefficients  []float64 `json:"coefficients"`

	ReferenceVoltage float64 `json:"reference_voltage"`
	PullUpResistance float64 `json:"pull_up_resistance"`
	SourceADCBits    int     `json:"source_adc_bits"`

	Measurements int `json:"measurements"`
}

// NewModelFile stamps a fitted model with the current time and the
// given electrical context.
func NewModelFile(m thermistor.Model, vref, pullup float64, bits, measurements int) ModelFile {
	return ModelFile{
		SchemaVersion:    1,
		FittedAt:         time.Now().Format(time.RFC3339),
		Powers:           m.Powers,
		Coefficients:     m.Coefficients,
		ReferenceVoltage: vref,
		PullUpResistance: pullup,
		SourceADCBits:    bits,
		Measurements:     measurements,
	}
}

// Model reconstructs the thermistor model from the file record.
func (f ModelFile) Model() thermistor.Model {
	return thermistor.Model{Coefficients: f.Coefficients, Powers: f.Powers}
}

// SaveModelFile writes the record as indented JSON.
func SaveModelFile(path string, f ModelFile) error {
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal model file: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write model file: %w", err)
	}
	return nil
}

// LoadModelFile reads a record back and validates the embedded model.
func LoadModelFile(path string) (ModelFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return ModelFile{}, fmt.Errorf("read model file: %w", err)
	}
	var f ModelFile
	if err := json.Unmarshal(b, &f); err != nil {
		return ModelFile{}, fmt.Errorf("parse model file %s: %w", path, err)
	}
	if err := f.Model().Validate(); err != nil {
		return ModelFile{}, fmt.Errorf("model file %s: %w", path, err)
	}
	return f, nil
}
