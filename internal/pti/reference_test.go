package pti

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// squareWave builds a reference channel with period samples, low until the
// first rising edge at sample phaseShift (the last low sample before the
// first high one, as GenerateReferences indexes rising edges).
func squareWave(sampleCount, period, phaseShift int) []float64 {
	out := make([]float64, sampleCount)
	for s := 0; s < sampleCount; s++ {
		if mod(s-phaseShift-1, period) < period/2 {
			out[s] = 1.0
		} else {
			out[s] = 0.0
		}
	}
	return out
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func TestGenerateReferences_PeriodAndPhase(t *testing.T) {
	const period = 200
	const phaseShift = 37
	ref := squareWave(5000, period, phaseShift)

	result, err := GenerateReferences(ref)
	require.NoError(t, err)
	assert.InDelta(t, period, result.Period, 1.0)
	assert.Equal(t, phaseShift, result.PhaseShift)
	assert.Len(t, result.InPhase, len(ref))
	assert.Len(t, result.Quadrature, len(ref))
}

// Property 2 (spec.md §8): at the phase anchor the in-phase array is zero
// and increasing, the quadrature array is at its maximum.
func TestGenerateReferences_AnchorsAtPhaseShift(t *testing.T) {
	const period = 100
	const phaseShift = 12
	ref := squareWave(3000, period, phaseShift)

	result, err := GenerateReferences(ref)
	require.NoError(t, err)
	assert.InDelta(t, 0, result.InPhase[phaseShift], 1e-9)
	assert.InDelta(t, 1, result.Quadrature[phaseShift], 1e-9)
}

func TestGenerateReferences_NoModulation(t *testing.T) {
	flat := make([]float64, 1000)
	for i := range flat {
		flat[i] = 0.5
	}
	_, err := GenerateReferences(flat)
	require.Error(t, err)
	var ptiErr *Error
	require.ErrorAs(t, err, &ptiErr)
	assert.Equal(t, NoModulation, ptiErr.Kind)
}

func TestGenerateReferences_UnitAmplitude(t *testing.T) {
	ref := squareWave(4000, 150, 5)
	result, err := GenerateReferences(ref)
	require.NoError(t, err)
	for s := range result.InPhase {
		mag := math.Hypot(result.InPhase[s], result.Quadrature[s])
		assert.InDelta(t, 1, mag, 1e-9)
	}
}
