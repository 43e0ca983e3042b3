package thermistor_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/ntc_lut/internal/thermistor"
)

// ntc10k is a canonical 10k NTC model, monotone over the full resistance
// range, used for round-trip checks.
var ntc10k = thermistor.Model{
	Coefficients: []float64{1.009249522e-3, 2.378405444e-4, 2.019202697e-7},
	Powers:       []int{0, 1, 3},
}

// TestInvert_RoundTrip verifies that inverting the forward model recovers
// the original resistance across several orders of magnitude.
func TestInvert_RoundTrip(t *testing.T) {
	opts := thermistor.DefaultInvertOptions()

	for _, r := range []float64{10, 100, 1000, 10000, 100000, 1000000} {
		target := ntc10k.Temperature(r, true)
		res, err := ntc10k.Invert(target, opts)
		require.NoError(t, err, "r=%g", r)
		assert.True(t, res.Converged, "r=%g should converge", r)
		assert.InEpsilon(t, r, res.Resistance, 1e-3, "r=%g", r)
	}
}

// TestInvert_FittedScenario inverts a model fitted from real calibration
// points and checks it lands back on the measured resistances.
func TestInvert_FittedScenario(t *testing.T) {
	m, err := thermistor.Fit(calTemps, calResistances, thermistor.DefaultPowers(), true)
	require.NoError(t, err)

	opts := thermistor.DefaultInvertOptions()
	for i, temp := range calTemps {
		res, err := m.Invert(temp, opts)
		require.NoError(t, err)
		assert.True(t, res.Converged)
		assert.InEpsilon(t, calResistances[i], res.Resistance, 1e-2, "at %g C", temp)
	}
}

// TestInvert_OutsideMeasuredRange requests temperatures beyond the fitted
// data. The result must stay finite; extrapolation accuracy is not
// guaranteed but the solver must not blow up.
func TestInvert_OutsideMeasuredRange(t *testing.T) {
	m, err := thermistor.Fit(calTemps, calResistances, thermistor.DefaultPowers(), true)
	require.NoError(t, err)

	opts := thermistor.DefaultInvertOptions()
	for _, temp := range []float64{-20, 150} {
		res, err := m.Invert(temp, opts)
		require.NoError(t, err, "target %g C", temp)
		assert.False(t, math.IsNaN(res.Resistance), "target %g C", temp)
		assert.False(t, math.IsInf(res.Resistance, 0), "target %g C", temp)
		assert.GreaterOrEqual(t, res.Resistance, opts.MinResistance, "target %g C", temp)
	}
}

// TestInvert_KelvinTarget verifies the Celsius flag: the same physical
// target expressed in kelvin must invert to the same resistance.
func TestInvert_KelvinTarget(t *testing.T) {
	optsC := thermistor.DefaultInvertOptions()
	optsK := optsC
	optsK.Celsius = false

	resC, err := ntc10k.Invert(25, optsC)
	require.NoError(t, err)
	resK, err := ntc10k.Invert(25+thermistor.KelvinOffset, optsK)
	require.NoError(t, err)

	assert.InEpsilon(t, resC.Resistance, resK.Resistance, 1e-6)
}

// TestInvert_ZeroDerivative uses a constant model (single power-zero
// term), whose forward curve is flat everywhere. A target away from that
// constant must fail with ErrZeroDerivative instead of dividing by zero.
func TestInvert_ZeroDerivative(t *testing.T) {
	flat := thermistor.Model{Coefficients: []float64{0.0035}, Powers: []int{0}}

	_, err := flat.Invert(30, thermistor.DefaultInvertOptions())
	assert.ErrorIs(t, err, thermistor.ErrZeroDerivative)
}

// TestInvert_AlreadyConverged checks that an initial guess already within
// tolerance returns immediately with zero iterations.
func TestInvert_AlreadyConverged(t *testing.T) {
	flat := thermistor.Model{Coefficients: []float64{0.0035}, Powers: []int{0}}
	target := 1.0/0.0035 - thermistor.KelvinOffset

	opts := thermistor.DefaultInvertOptions()
	res, err := flat.Invert(target, opts)
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.Zero(t, res.Iterations)
	assert.Equal(t, opts.InitialGuess, res.Resistance)
}

// TestInvert_BadOptions covers the option validation paths.
func TestInvert_BadOptions(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*thermistor.InvertOptions)
	}{
		{"zero guess", func(o *thermistor.InvertOptions) { o.InitialGuess = 0 }},
		{"zero floor", func(o *thermistor.InvertOptions) { o.MinResistance = 0 }},
		{"no iterations", func(o *thermistor.InvertOptions) { o.MaxIterations = 0 }},
		{"zero tolerance", func(o *thermistor.InvertOptions) { o.Tolerance = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := thermistor.DefaultInvertOptions()
			tc.mutate(&opts)
			_, err := ntc10k.Invert(25, opts)
			assert.ErrorIs(t, err, thermistor.ErrBadInvertOptions)
		})
	}
}

// TestInvert_InvalidModel checks the coefficient/power pairing invariant.
func TestInvert_InvalidModel(t *testing.T) {
	broken := thermistor.Model{Coefficients: []float64{1e-3, 2e-4}, Powers: []int{0, 1, 3}}
	_, err := broken.Invert(25, thermistor.DefaultInvertOptions())
	assert.ErrorIs(t, err, thermistor.ErrInvalidModel)

	empty := thermistor.Model{}
	_, err = empty.Invert(25, thermistor.DefaultInvertOptions())
	assert.ErrorIs(t, err, thermistor.ErrNoPowers)
}
