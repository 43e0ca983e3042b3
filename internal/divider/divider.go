// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package divider converts between raw ADC codes and thermistor
// resistance for the standard pull-up voltage divider: the thermistor
// sits between the ADC input node and ground, with a fixed pull-up
// resistor to the reference voltage.
package divider

import (
	"errors"
	"fmt"
	"math"
)

// Common errors
var (
	ErrBadParams      = errors.New("divider: invalid electrical parameters")
	ErrCodeOutOfRange = errors.New("divider: adc code outside convertible range")
)

// CheckParams validates the electrical parameters shared by both
// conversion directions: at least 1 bit of resolution, positive reference
// voltage and positive pull-up resistance.
func CheckParams(bits int, vref, pullup float64) error {
	if bits < 1 {
		return fmt.Errorf("%w: adc resolution %d bits", ErrBadParams, bits)
	}
	if vref <= 0 {
		return fmt.Errorf("%w: reference voltage %g V", ErrBadParams, vref)
	}
	if pullup <= 0 {
		return fmt.Errorf("%w: pull-up resistance %g ohm", ErrBadParams, pullup)
	}
	return nil
}

// maxCode returns the full-scale ADC code 2^bits - 1.
func maxCode(bits int) float64 {
	return math.Pow(2, float64(bits)) - 1
}

// ToResistance converts a raw ADC code to thermistor resistance in ohms.
//
// The input voltage is code*vref/(2^bits - 1) and the divider gives
// R = V*pullup/(vref - V). A saturated code (>= 2^bits - 1) would put the
// node voltage at vref and divide by zero, so it is rejected; callers
// must guard against saturated readings before converting. Negative
// codes are equally non-physical and rejected.
func ToResistance(code float64, bits int, vref, pullup float64) (float64, error) {
	if err := CheckParams(bits, vref, pullup); err != nil {
		return 0, err
	}
	full := maxCode(bits)
	if code < 0 || code >= full {
		return 0, fmt.Errorf("%w: code %g with %d-bit resolution", ErrCodeOutOfRange, code, bits)
	}
	v := code * vref / full
	return v * pullup / (vref - v), nil
}

// ToCode converts a resistance in ohms to the nearest ADC code.
//
// The divider voltage is R*vref/(pullup + R); the code is that voltage
// scaled to the full-scale range and rounded half away from zero
// (math.Round), which for the non-negative values produced by physical
// resistances is round-half-up. Results are clamped to [0, 2^bits - 1]
// rather than silently overflowing, so non-physical inputs (negative
// resistance) map to the nearest boundary code.
func ToCode(resistance float64, bits int, vref, pullup float64) (int, error) {
	if err := CheckParams(bits, vref, pullup); err != nil {
		return 0, err
	}
	// The divider voltage is R*vref/(pullup+R); dividing back by vref
	// leaves the pure ratio R/(pullup+R), so vref cancels exactly and
	// does not smear the rounding boundary.
	full := maxCode(bits)
	code := math.Round(resistance / (pullup + resistance) * full)
	if code < 0 {
		code = 0
	}
	if code > full {
		code = full
	}
	return int(code), nil
}

// ToResistances converts a sequence of ADC codes elementwise. The first
// out-of-range code aborts the conversion.
func ToResistances(codes []float64, bits int, vref, pullup float64) ([]float64, error) {
	out := make([]float64, len(codes))
	for i, c := range codes {
		r, err := ToResistance(c, bits, vref, pullup)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = r
	}
	return out, nil
}

// ToCodes converts a sequence of resistances elementwise.
func ToCodes(resistances []float64, bits int, vref, pullup float64) ([]int, error) {
	out := make([]int, len(resistances))
	for i, r := range resistances {
		c, err := ToCode(r, bits, vref, pullup)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = c
	}
	return out, nil
}
