package pti

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func flatCalibration() Calibration {
	return Calibration{
		MinIntensity: [3]float64{-1, -1, -1},
		MaxIntensity: [3]float64{1, 1, 1},
		OutputPhase:  [3]float64{0, 2 * math.Pi / 3, 4 * math.Pi / 3},
		SystemPhase:  [3]float64{0, 2 * math.Pi / 3, 4 * math.Pi / 3},
	}
}

// Property 6 (spec.md §8): for DC triples generated exactly from a known
// interferometric phase via the forward model, invertPhase recovers that
// phase, compared modulo 2*pi.
func TestInvertPhase_RecoversForwardModelPhase(t *testing.T) {
	cal := flatCalibration()

	for _, truePhi := range []float64{0.3, 1.1, 2.4, -0.7, 3.0} {
		var dc [3]float64
		for i := 0; i < 3; i++ {
			dc[i] = math.Cos(truePhi - cal.OutputPhase[i])
		}

		got := invertPhase(dc, cal, func() {})
		diff := math.Abs(math.Atan2(math.Sin(got-truePhi), math.Cos(got-truePhi)))
		assert.Less(t, diff, 1e-6)
	}
}

func TestInvertPhase_ClampsOutOfRangeAndReportsNumericDomain(t *testing.T) {
	cal := flatCalibration()
	dc := [3]float64{1.5, 0.2, -1.5} // two channels outside [-1, 1]

	calls := 0
	_ = invertPhase(dc, cal, func() { calls++ })
	assert.Equal(t, 2, calls)
}

func TestInvert_DegenerateWeightWhenPhaseAtExtremum(t *testing.T) {
	cal := flatCalibration()
	// phi == OutputPhase[i] for every detector makes sin(phi-outputPhase)
	// zero for all three, driving weightSum to zero.
	cal.OutputPhase = [3]float64{0, 0, 0}
	row := DecimatedRow{DC1: 1, DC2: 1, DC3: 1}

	result, tallies := Invert([]DecimatedRow{row}, cal, PipelineOptions{})

	assert.Equal(t, 1, tallies.DegenerateWeight)
	assert.True(t, result.Degenerate[0])
	assert.True(t, math.IsNaN(result.PTISignal[0]))
}

func TestIngestRow_SwapsDetector2And3(t *testing.T) {
	row := DecimatedRow{DC1: 1, DC2: 2, DC3: 3, X2: 20, Y2: 21, X3: 30, Y3: 31}

	dc, ac := ingestRow(row, true)
	assert.Equal(t, [3]float64{1, 3, 2}, dc)
	assert.Equal(t, Phasor{X: 30, Y: 31}, ac[1])
	assert.Equal(t, Phasor{X: 20, Y: 21}, ac[2])

	dc, ac = ingestRow(row, false)
	assert.Equal(t, [3]float64{1, 2, 3}, dc)
	assert.Equal(t, Phasor{X: 20, Y: 21}, ac[1])
}

func TestInvert_VerboseModePopulatesChannels(t *testing.T) {
	cal := flatCalibration()
	row := DecimatedRow{DC1: 0.1, DC2: 0.2, DC3: -0.1, X1: 0.01, Y1: 0.02, X2: 0.03, Y2: -0.01, X3: 0.02, Y3: 0.01}

	result, _ := Invert([]DecimatedRow{row}, cal, PipelineOptions{Verbose: true})

	for _, ch := range result.Verbose {
		assert.Len(t, ch.R, 1)
		assert.Len(t, ch.Theta, 1)
		assert.Len(t, ch.Demod, 1)
	}
}
