package pti

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Property 4 (spec.md §8): common-noise rejection is a no-op when total DC
// is zero, and otherwise redistributes the summed AC noise in proportion to
// each detector's share of total DC.
func TestRejectCommonNoise_NoOpOnZeroTotalDC(t *testing.T) {
	block := RawBlock{
		AC1: []float64{1, 2, 3},
		AC2: []float64{4, 5, 6},
		AC3: []float64{7, 8, 9},
	}
	want := RawBlock{
		AC1: append([]float64{}, block.AC1...),
		AC2: append([]float64{}, block.AC2...),
		AC3: append([]float64{}, block.AC3...),
	}

	RejectCommonNoise(block, [3]float64{0, 0, 0})

	assert.Equal(t, want.AC1, block.AC1)
	assert.Equal(t, want.AC2, block.AC2)
	assert.Equal(t, want.AC3, block.AC3)
}

func TestRejectCommonNoise_ProportionalSubtraction(t *testing.T) {
	block := RawBlock{
		Ref: []float64{0},
		AC1: []float64{3},
		AC2: []float64{3},
		AC3: []float64{3},
	}
	dcMean := [3]float64{1, 2, 3} // totalDC = 6

	RejectCommonNoise(block, dcMean)

	noise := 9.0 // sum of original AC at sample 0
	assert.InDelta(t, 3-(1.0/6.0)*noise, block.AC1[0], 1e-9)
	assert.InDelta(t, 3-(2.0/6.0)*noise, block.AC2[0], 1e-9)
	assert.InDelta(t, 3-(3.0/6.0)*noise, block.AC3[0], 1e-9)
}
