// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package thermistor fits and evaluates Steinhart-Hart polynomial models
// for NTC thermistors.
//
// The model relates resistance to temperature through
//
//	1/T = sum_i c_i * ln(R)^p_i
//
// with T in kelvin, R in ohms, and a caller-chosen set of integer powers
// p_i (the classic Steinhart-Hart equation uses powers 0, 1 and 3).
package thermistor

import (
	"errors"
	"fmt"
	"math"
)

// KelvinOffset is the offset between Celsius and Kelvin.
const KelvinOffset = 273.15

// Common errors
var (
	ErrNoMeasurements   = errors.New("thermistor: no measurement pairs")
	ErrLengthMismatch   = errors.New("thermistor: temperature and resistance counts differ")
	ErrNoPowers         = errors.New("thermistor: power list must not be empty")
	ErrUnderdetermined  = errors.New("thermistor: fewer measurements than coefficients")
	ErrBadMeasurement   = errors.New("thermistor: resistance must be positive")
	ErrInvalidModel     = errors.New("thermistor: coefficient and power counts differ")
	ErrZeroDerivative   = errors.New("thermistor: zero model derivative, cannot take Newton step")
	ErrBadInvertOptions = errors.New("thermistor: invalid inversion options")
)

// Model is a fitted Steinhart-Hart polynomial. Coefficients are paired
// 1:1 with Powers; a coefficient vector is meaningless without the power
// list that produced it, so the two always travel together.
type Model struct {
	Coefficients []float64 `json:"coefficients"`
	Powers       []int     `json:"powers"`
}

// DefaultPowers returns the classic Steinhart-Hart power set {0, 1, 3}.
func DefaultPowers() []int {
	return []int{0, 1, 3}
}

// Validate reports whether the model is well formed.
func (m Model) Validate() error {
	if len(m.Powers) == 0 {
		return ErrNoPowers
	}
	if len(m.Coefficients) != len(m.Powers) {
		return fmt.Errorf("%w: %d coefficients, %d powers",
			ErrInvalidModel, len(m.Coefficients), len(m.Powers))
	}
	return nil
}

// invTemp evaluates the polynomial sum_i c_i * ln(r)^p_i, i.e. 1/T in 1/K.
func (m Model) invTemp(r float64) float64 {
	lr := math.Log(r)
	var sum float64
	for i, p := range m.Powers {
		sum += m.Coefficients[i] * math.Pow(lr, float64(p))
	}
	return sum
}

// Temperature evaluates the forward model at resistance r (ohms) and
// returns the temperature, in Celsius if celsius is true, otherwise in
// kelvin. The evaluation is best-effort: a degenerate model (polynomial
// summing to zero) yields +/-Inf rather than an error, matching the
// pure-function contract of the forward direction.
func (m Model) Temperature(r float64, celsius bool) float64 {
	t := 1.0 / m.invTemp(r)
	if celsius {
		t -= KelvinOffset
	}
	return t
}

// derivative computes dT/dR at resistance r.
//
// With P(r) = sum_i c_i * ln(r)^p_i and T = 1/P,
//
//	dT/dR = -P'(r) / P(r)^2
//	P'(r) = sum_i c_i * p_i * ln(r)^(p_i-1) / r
//
// Powers of zero contribute nothing to P' (their derivative is
// identically zero), which also avoids evaluating ln(r)^(-1) for them.
// The Kelvin/Celsius offset is additive and drops out of the derivative.
func (m Model) derivative(r float64) float64 {
	lr := math.Log(r)
	var dp float64
	for i, p := range m.Powers {
		if p > 0 {
			dp += m.Coefficients[i] * float64(p) * math.Pow(lr, float64(p-1)) / r
		}
	}
	sum := m.invTemp(r)
	return -dp / (sum * sum)
}
