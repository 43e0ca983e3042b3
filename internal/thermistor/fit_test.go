package thermistor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/ntc_lut/internal/thermistor"
)

// Measured calibration points for a generic 10k NTC bed thermistor.
var (
	calTemps       = []float64{25, 50, 100}
	calResistances = []float64{10000, 3600, 670}
)

// TestFit_ExactInterpolation verifies that fitting exactly three
// measurements with three coefficients reproduces the measured points:
// with equations == unknowns the least-squares solution interpolates.
func TestFit_ExactInterpolation(t *testing.T) {
	m, err := thermistor.Fit(calTemps, calResistances, thermistor.DefaultPowers(), true)
	require.NoError(t, err)
	require.Len(t, m.Coefficients, 3)

	for i, r := range calResistances {
		got := m.Temperature(r, true)
		assert.InDelta(t, calTemps[i], got, 0.01, "forward model at %g ohm", r)
	}
}

// TestFit_OrderIndependence verifies that reordering the measurement
// pairs does not change the fitted coefficients.
func TestFit_OrderIndependence(t *testing.T) {
	a, err := thermistor.Fit(calTemps, calResistances, thermistor.DefaultPowers(), true)
	require.NoError(t, err)

	shuffledTemps := []float64{100, 25, 50}
	shuffledRes := []float64{670, 10000, 3600}
	b, err := thermistor.Fit(shuffledTemps, shuffledRes, thermistor.DefaultPowers(), true)
	require.NoError(t, err)

	for i := range a.Coefficients {
		assert.InEpsilon(t, a.Coefficients[i], b.Coefficients[i], 1e-9, "coefficient %d", i)
	}
}

// TestFit_Overdetermined checks that more measurements than coefficients
// produce a model close to the generating one.
func TestFit_Overdetermined(t *testing.T) {
	gen := thermistor.Model{
		// Canonical 10k NTC Steinhart-Hart coefficients.
		Coefficients: []float64{1.009249522e-3, 2.378405444e-4, 2.019202697e-7},
		Powers:       []int{0, 1, 3},
	}

	resistances := []float64{500, 1000, 3300, 10000, 22000, 47000, 100000}
	temps := make([]float64, len(resistances))
	for i, r := range resistances {
		temps[i] = gen.Temperature(r, true)
	}

	m, err := thermistor.Fit(temps, resistances, gen.Powers, true)
	require.NoError(t, err)
	for i := range gen.Coefficients {
		assert.InEpsilon(t, gen.Coefficients[i], m.Coefficients[i], 1e-6, "coefficient %d", i)
	}
}

// TestFit_KelvinInput verifies the temperature unit flag: feeding the same
// data in kelvin with celsius=false must give the same model.
func TestFit_KelvinInput(t *testing.T) {
	kelvin := make([]float64, len(calTemps))
	for i, c := range calTemps {
		kelvin[i] = c + thermistor.KelvinOffset
	}

	a, err := thermistor.Fit(calTemps, calResistances, thermistor.DefaultPowers(), true)
	require.NoError(t, err)
	b, err := thermistor.Fit(kelvin, calResistances, thermistor.DefaultPowers(), false)
	require.NoError(t, err)

	for i := range a.Coefficients {
		assert.InEpsilon(t, a.Coefficients[i], b.Coefficients[i], 1e-12, "coefficient %d", i)
	}
}

// TestFit_Preconditions covers the fail-fast paths: empty input, length
// mismatch, empty power list, underdetermined system and non-positive
// resistances must all error before any numeric work.
func TestFit_Preconditions(t *testing.T) {
	powers := thermistor.DefaultPowers()

	_, err := thermistor.Fit(nil, nil, powers, true)
	assert.ErrorIs(t, err, thermistor.ErrNoMeasurements)

	_, err = thermistor.Fit([]float64{25, 50}, []float64{10000}, powers, true)
	assert.ErrorIs(t, err, thermistor.ErrLengthMismatch)

	_, err = thermistor.Fit(calTemps, calResistances, nil, true)
	assert.ErrorIs(t, err, thermistor.ErrNoPowers)

	_, err = thermistor.Fit([]float64{25, 50}, []float64{10000, 3600}, powers, true)
	assert.ErrorIs(t, err, thermistor.ErrUnderdetermined)

	_, err = thermistor.Fit([]float64{25, 50, 100}, []float64{10000, -1, 670}, powers, true)
	assert.ErrorIs(t, err, thermistor.ErrBadMeasurement)
}
