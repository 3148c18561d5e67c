package pti

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// Property 5 (spec.md §8): scale/unscale is involutive over the declared
// intensity range.
func TestScaleUnscale_Involutive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		min := rapid.Float64Range(-100, 0).Draw(t, "min")
		max := min + rapid.Float64Range(0.01, 100).Draw(t, "span")
		v := rapid.Float64Range(min, max).Draw(t, "v")

		scaled := scale(v, min, max)
		assert.GreaterOrEqual(t, scaled, -1.0-1e-9)
		assert.LessOrEqual(t, scaled, 1.0+1e-9)
		assert.InDelta(t, v, unscale(scaled, min, max), 1e-9)
	})
}

func TestModalPhase_FindsDenseCluster(t *testing.T) {
	values := []float64{0, 0.01, 0.02, 0.5, 5.0, 5.1, 5.2, 5.15, 5.05}
	mode := modalPhase(values)
	// ceil(sqrt(9)) = 3 bins of width 5.2/3 over [0, 5.2]; the five values
	// near 5 fill the top bin, whose centre is 2.5 * 5.2/3 = 13/3.
	assert.InDelta(t, 13.0/3.0, mode, 1e-9)
}

func TestModalPhase_EmptyIsZero(t *testing.T) {
	assert.Zero(t, modalPhase(nil))
}

func TestEstimateOutputPhases_InsufficientData(t *testing.T) {
	samples := make([]PhaseScanSample, minValidSamples-1)
	_, _, err := EstimateOutputPhases(samples)
	require.Error(t, err)
	var ptiErr *Error
	require.ErrorAs(t, err, &ptiErr)
	assert.Equal(t, InsufficientData, ptiErr.Kind)
}

// TestEstimateOutputPhases_SyntheticSweep drives a full Lissajous-like sweep
// through all three stages and checks OutputPhase[0] stays fixed at the
// convention value and the engine terminates without error.
func TestEstimateOutputPhases_SyntheticSweep(t *testing.T) {
	const n = 4000
	samples := make([]PhaseScanSample, n)
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		samples[i] = PhaseScanSample{DC: [3]float64{
			math.Cos(angle),
			math.Cos(angle + math.Pi/2),
			math.Cos(angle + 4*math.Pi/3),
		}}
	}

	outputPhase, _, err := EstimateOutputPhases(samples)
	require.NoError(t, err)
	assert.Zero(t, outputPhase[0])
}
