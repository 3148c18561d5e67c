package pti

/*------------------------------------------------------------------
 *
 * Purpose:	Multiply AC channels by the two reference arrays,
 *		accumulate, and scale to produce the in-phase (X) and
 *		quadrature (Y) components; compute per-channel DC means.
 *
 *------------------------------------------------------------------*/

import "gonum.org/v1/gonum/floats"

// LockIn implements §4.3 and the DC mean half of §4.1's data flow: one
// phasor and one DC mean per detector, over the given block and reference
// pair. Accumulation order follows ascending sample index (§5).
func LockIn(block RawBlock, ref Reference) LockInResult {
	var result LockInResult

	scratch := make([]float64, block.SampleCount())
	for i, d := range Detectors {
		ac := block.ac(d)

		for s, v := range ac {
			scratch[s] = v * ref.InPhase[s]
		}
		x := floats.Sum(scratch) / (float64(block.SampleCount()) * Gain)

		for s, v := range ac {
			scratch[s] = v * ref.Quadrature[s]
		}
		y := floats.Sum(scratch) / (float64(block.SampleCount()) * Gain)

		result.Phasor[i] = Phasor{X: x, Y: y}
		result.DCMean[i] = floats.Sum(block.dc(d)) / float64(block.SampleCount())
	}

	return result
}
