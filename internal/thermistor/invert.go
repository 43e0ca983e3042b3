// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package thermistor

import (
	"fmt"
	"math"
)

// InvertOptions configures the Newton-Raphson inversion of the model.
type InvertOptions struct {
	// InitialGuess is the starting resistance in ohms.
	InitialGuess float64
	// MinResistance floors every iterate. The clamp keeps the solver out
	// of the non-physical r <= 0 region where ln(r) is undefined, at the
	// cost of masking divergence: a run that keeps hitting the floor
	// still terminates normally via MaxIterations.
	MinResistance float64
	// MaxIterations bounds the iteration count and is the sole deadline;
	// there is no other cancellation path.
	MaxIterations int
	// Tolerance is the convergence threshold on |T(r) - target|.
	Tolerance float64
	// Celsius selects the unit of the target temperature.
	Celsius bool
}

// DefaultInvertOptions returns the solver defaults used across the tool:
// 1 ohm initial guess, 1e-6 ohm floor, 1000 iterations, 1e-6 tolerance,
// Celsius targets.
func DefaultInvertOptions() InvertOptions {
	return InvertOptions{
		InitialGuess:  1.0,
		MinResistance: 1e-6,
		MaxIterations: 1000,
		Tolerance:     1e-6,
		Celsius:       true,
	}
}

func (o InvertOptions) validate() error {
	if o.InitialGuess <= 0 {
		return fmt.Errorf("%w: initial guess %g", ErrBadInvertOptions, o.InitialGuess)
	}
	if o.MinResistance <= 0 {
		return fmt.Errorf("%w: min resistance %g", ErrBadInvertOptions, o.MinResistance)
	}
	if o.MaxIterations < 1 {
		return fmt.Errorf("%w: max iterations %d", ErrBadInvertOptions, o.MaxIterations)
	}
	if o.Tolerance <= 0 {
		return fmt.Errorf("%w: tolerance %g", ErrBadInvertOptions, o.Tolerance)
	}
	return nil
}

// InvertResult carries the outcome of one inversion. Non-convergence is
// deliberately not an error: the last iterate is still the best available
// value for a difficult sample point, and the caller decides what to do
// with the Converged flag.
type InvertResult struct {
	// Resistance is the final iterate in ohms.
	Resistance float64
	// Converged reports whether |T(r) - target| dropped below tolerance.
	Converged bool
	// Iterations is the number of Newton steps taken.
	Iterations int
}

// Invert recovers the resistance at which the model evaluates to the
// target temperature. The forward model has no closed-form inverse for
// polynomial order > 1, so the root of f(r) = T(r) - target is found by
// Newton-Raphson from opts.InitialGuess.
//
// An exactly-zero derivative (a flat forward curve at the current
// iterate) would divide by zero; that single evaluation fails with
// ErrZeroDerivative instead of propagating NaN into the table.
func (m Model) Invert(target float64, opts InvertOptions) (InvertResult, error) {
	if err := m.Validate(); err != nil {
		return InvertResult{}, err
	}
	if err := opts.validate(); err != nil {
		return InvertResult{}, err
	}

	r := opts.InitialGuess
	for i := 0; i < opts.MaxIterations; i++ {
		f := m.Temperature(r, opts.Celsius) - target
		if math.Abs(f) < opts.Tolerance {
			return InvertResult{Resistance: r, Converged: true, Iterations: i}, nil
		}
		df := m.derivative(r)
		if df == 0 {
			return InvertResult{}, fmt.Errorf("%w at r=%g ohm (target %g)", ErrZeroDerivative, r, target)
		}
		r = math.Max(r-f/df, opts.MinResistance)
	}
	return InvertResult{Resistance: r, Converged: false, Iterations: opts.MaxIterations}, nil
}
