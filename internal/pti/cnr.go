package pti

/*------------------------------------------------------------------
 *
 * Purpose:	Subtract a DC-weighted share of the total AC noise from
 *		each AC channel, before the lock-in accumulation.
 *
 *------------------------------------------------------------------*/

// RejectCommonNoise implements §4.4. It mutates block's AC channels in
// place and must run before LockIn per the ordering contract of §4.4.
func RejectCommonNoise(block RawBlock, dcMean [3]float64) {
	totalDC := dcMean[0] + dcMean[1] + dcMean[2]
	if totalDC == 0 {
		return
	}

	sampleCount := block.SampleCount()
	for s := 0; s < sampleCount; s++ {
		noise := block.AC1[s] + block.AC2[s] + block.AC3[s]
		block.AC1[s] -= (dcMean[0] / totalDC) * noise
		block.AC2[s] -= (dcMean[1] / totalDC) * noise
		block.AC3[s] -= (dcMean[2] / totalDC) * noise
	}
}
