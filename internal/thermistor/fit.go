// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package thermistor

import (
	"errors"
	"fmt"
	"log"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Fit computes Steinhart-Hart coefficients from measured (temperature,
// resistance) pairs by linear least squares.
//
// Each measurement contributes one equation: the design-matrix entry for
// power p is ln(R)^p and the target value is 1/T with T in kelvin
// (temperatures are shifted by KelvinOffset first when celsius is true).
// The system may be exactly determined or overdetermined; fewer
// measurements than powers is a precondition violation.
//
// The solve goes through gonum's QR factorization. An ill-conditioned
// design matrix (near-duplicate resistances) surfaces as a mat.Condition
// warning; the least-squares solution is still well defined in that case,
// so it is kept and the condition number logged rather than failing.
func Fit(temps, resistances []float64, powers []int, celsius bool) (Model, error) {
	if len(temps) == 0 {
		return Model{}, ErrNoMeasurements
	}
	if len(temps) != len(resistances) {
		return Model{}, fmt.Errorf("%w: %d temperatures, %d resistances",
			ErrLengthMismatch, len(temps), len(resistances))
	}
	if len(powers) == 0 {
		return Model{}, ErrNoPowers
	}
	if len(temps) < len(powers) {
		return Model{}, fmt.Errorf("%w: %d measurements for %d coefficients",
			ErrUnderdetermined, len(temps), len(powers))
	}
	for i, r := range resistances {
		if r <= 0 {
			return Model{}, fmt.Errorf("%w: measurement %d has resistance %g", ErrBadMeasurement, i, r)
		}
	}

	n, k := len(temps), len(powers)

	a := mat.NewDense(n, k, nil)
	invT := make([]float64, n)
	for i := 0; i < n; i++ {
		lr := math.Log(resistances[i])
		for j, p := range powers {
			a.Set(i, j, math.Pow(lr, float64(p)))
		}
		t := temps[i]
		if celsius {
			t += KelvinOffset
		}
		invT[i] = 1.0 / t
	}

	b := mat.NewVecDense(n, invT)
	c := mat.NewVecDense(k, nil)

	var qr mat.QR
	qr.Factorize(a)
	if err := qr.SolveVecTo(c, false, b); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return Model{}, fmt.Errorf("thermistor: least-squares solve: %w", err)
		}
		log.Printf("thermistor: design matrix is ill-conditioned (cond=%.3g), keeping least-squares solution", float64(cond))
	}

	coeffs := make([]float64, k)
	for j := range coeffs {
		coeffs[j] = c.AtVec(j)
	}
	return Model{
		Coefficients: coeffs,
		Powers:       append([]int(nil), powers...),
	}, nil
}
