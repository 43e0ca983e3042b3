// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package lut assembles temperature lookup tables from a fitted
// thermistor model, for embedding in firmware that cannot afford
// runtime transcendental math.
package lut

import (
	"errors"
	"fmt"
	"math"

	"github.com/relabs-tech/ntc_lut/internal/divider"
	"github.com/relabs-tech/ntc_lut/internal/thermistor"
)

// Common errors
var (
	ErrNoSampleTemps = errors.New("lut: no sample temperatures")
	ErrBadRange      = errors.New("lut: invalid sample temperature range")
)

// ADCParams describes the target ADC and divider electronics for tables
// expressed in ADC codes. Not needed in pure-resistance mode.
type ADCParams struct {
	Bits             int
	ReferenceVoltage float64
	PullUpResistance float64
}

// Row is one lookup table entry. Value is a resistance in ohms or an ADC
// code depending on how the table was built. Converged and Iterations
// expose the root-finder outcome for the row: a false Converged means the
// value is the solver's best iterate, not a verified root.
type Row struct {
	Temperature float64
	Value       float64
	Converged   bool
	Iterations  int
}

// Table is an ordered sequence of rows. Row order always equals the
// sample-temperature order supplied by the caller; the table is never
// re-sorted internally.
type Table []Row

// Converged reports whether every row's root-finding converged.
func (t Table) Converged() bool {
	for _, row := range t {
		if !row.Converged {
			return false
		}
	}
	return true
}

// BuildResistanceTable inverts the model at each sample temperature and
// returns (temperature, resistance) rows. Every row starts from the same
// fixed initial guess in opts; there is no warm-starting between rows, so
// each row is independent of every other.
func BuildResistanceTable(sampleTemps []float64, m thermistor.Model, opts thermistor.InvertOptions) (Table, error) {
	if len(sampleTemps) == 0 {
		return nil, ErrNoSampleTemps
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	table := make(Table, 0, len(sampleTemps))
	for _, temp := range sampleTemps {
		res, err := m.Invert(temp, opts)
		if err != nil {
			return nil, fmt.Errorf("sample %g: %w", temp, err)
		}
		table = append(table, Row{
			Temperature: temp,
			Value:       res.Resistance,
			Converged:   res.Converged,
			Iterations:  res.Iterations,
		})
	}
	return table, nil
}

// BuildADCTable builds a (temperature, ADC code) table by piping each
// inverted resistance through the divider transform for the target ADC.
func BuildADCTable(sampleTemps []float64, m thermistor.Model, hw ADCParams, opts thermistor.InvertOptions) (Table, error) {
	if err := divider.CheckParams(hw.Bits, hw.ReferenceVoltage, hw.PullUpResistance); err != nil {
		return nil, err
	}

	table, err := BuildResistanceTable(sampleTemps, m, opts)
	if err != nil {
		return nil, err
	}
	for i := range table {
		code, err := divider.ToCode(table[i].Value, hw.Bits, hw.ReferenceVoltage, hw.PullUpResistance)
		if err != nil {
			return nil, fmt.Errorf("sample %g: %w", table[i].Temperature, err)
		}
		table[i].Value = float64(code)
	}
	return table, nil
}

// SampleRange expands an inclusive [start, end] range with the given step
// into an explicit sample temperature list. The end point is included
// when it lands on the grid (within a small epsilon, so that fractional
// steps do not drop it).
func SampleRange(start, end, step float64) ([]float64, error) {
	if step <= 0 {
		return nil, fmt.Errorf("%w: step %g", ErrBadRange, step)
	}
	if end < start {
		return nil, fmt.Errorf("%w: end %g below start %g", ErrBadRange, end, start)
	}
	n := int(math.Floor((end-start)/step+1e-9)) + 1
	temps := make([]float64, n)
	for i := range temps {
		temps[i] = start + float64(i)*step
	}
	return temps, nil
}
