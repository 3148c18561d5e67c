package pti

/*------------------------------------------------------------------
 *
 * Purpose:	From a long scaled DC sweep, enumerate candidate phase
 *		bands via inverse-cosine branches, filter by
 *		zero-crossing order, histogram, return modal phase per
 *		detector.
 *
 *------------------------------------------------------------------*/

import (
	"math"
)

// extremumTail is the implementation-defined trailing tail excluded from
// the min/max extremum search of §4.5 step 1 (reflecting a sensor settle
// artifact), grounded on original_source's OutputPhase::setSignal, which
// excludes the last 75000 samples of a ~multi-hundred-thousand sample sweep.
const extremumTail = 75000

// bandSampleCount is B, the number of leading samples used for band
// enumeration in §4.5 step 2.
const bandSampleCount = 2000

// minValidSamples is the InsufficientData threshold of §4.5's Failure
// clause.
const minValidSamples = 100

// scaleSweep implements §4.5 step 1: per-channel min/max over the sweep
// excluding the trailing extremumTail samples, then rescale every sample
// into [-1, 1].
func scaleSweep(samples []PhaseScanSample) ([3]float64, [3]float64, [][3]float64) {
	var minI, maxI [3]float64
	searchLen := len(samples) - extremumTail
	if searchLen < 1 {
		searchLen = len(samples)
	}

	for c := 0; c < 3; c++ {
		minI[c] = samples[0].DC[c]
		maxI[c] = samples[0].DC[c]
	}
	for i := 0; i < searchLen; i++ {
		for c := 0; c < 3; c++ {
			v := samples[i].DC[c]
			if v < minI[c] {
				minI[c] = v
			}
			if v > maxI[c] {
				maxI[c] = v
			}
		}
	}

	scaled := make([][3]float64, len(samples))
	for i, s := range samples {
		for c := 0; c < 3; c++ {
			scaled[i][c] = scale(s.DC[c], minI[c], maxI[c])
		}
	}
	return minI, maxI, scaled
}

// scale rescales v from [min, max] into [-1, 1] (§4.5 step 1).
func scale(v, min, max float64) float64 {
	return 2*(v-min)/(max-min) - 1
}

// unscale is the inverse of scale (§8 property 5, "Scale involutive"); only
// the scale/unscale property test calls it.
func unscale(v, min, max float64) float64 {
	return (v+1)/2*(max-min) + min
}

// EstimateOutputPhases implements §4.5 in full: scale, band enumeration,
// swap resolution, modal extraction. OutputPhase[0] is fixed at 0 by
// convention (§3).
func EstimateOutputPhases(samples []PhaseScanSample) (outputPhase [3]float64, swapped bool, err error) {
	if len(samples) < minValidSamples {
		return [3]float64{}, false, newError(InsufficientData, "phase-scan sweep has fewer than the minimum valid samples")
	}

	_, _, scaled := scaleSweep(samples)

	bandLen := bandSampleCount
	if bandLen > len(scaled) {
		bandLen = len(scaled)
	}

	var bands [3][]float64 // index 1, 2 used (detector 2 and 3); index 0 unused
	for s := 0; s < bandLen; s++ {
		dc1 := scaled[s][0]
		for _, detector := range []int{1, 2} { // Detector_2 - 1, Detector_3 - 1
			dcD := scaled[s][detector]
			for i := 0; i < 2; i++ {
				for j := 0; j < 2; j++ {
					phase := signedPow(i)*math.Acos(dc1) + signedPow(j)*math.Acos(dcD)
					if phase < 0 {
						phase += 2 * math.Pi
					}
					bands[detector] = append(bands[detector], phase)
				}
			}
		}
	}

	swapped, err = resolveSwap(scaled, bands[:])
	if err != nil {
		return [3]float64{}, false, err
	}

	outputPhase[0] = 0
	outputPhase[1] = modalPhase(bands[1])
	outputPhase[2] = modalPhase(bands[2])

	return outputPhase, swapped, nil
}

// signedPow returns (-1)^i for i in {0, 1}, avoiding a real math.Pow call
// for a two-valued exponent.
func signedPow(i int) float64 {
	if i%2 == 0 {
		return 1
	}
	return -1
}

// resolveSwap implements §4.5 step 3: find the first zero-crossing of
// detector 2 and detector 3's scaled DC; whichever crosses first decides
// the swap flag and which half of each band survives.
func resolveSwap(scaled [][3]float64, bands [][]float64) (bool, error) {
	index2, found2 := firstZeroCrossing(scaled, 1)
	index3, found3 := firstZeroCrossing(scaled, 2)
	if !found2 || !found3 {
		return false, newError(UnresolvableSwap, "phase-scan DC has no zero crossing")
	}

	swapped := index2 < index3

	if swapped {
		bands[1] = retainLE(bands[1], math.Pi)
		bands[2] = retainGT(bands[2], math.Pi)
	} else {
		bands[2] = retainLE(bands[2], math.Pi)
		bands[1] = retainGT(bands[1], math.Pi)
	}

	return swapped, nil
}

// firstZeroCrossing returns the first index i such that scaled[i][channel]
// and scaled[i+1][channel] have opposite signs.
func firstZeroCrossing(scaled [][3]float64, channel int) (int, bool) {
	for i := 0; i < len(scaled)-1; i++ {
		a, b := scaled[i][channel], scaled[i+1][channel]
		if (a > 0 && b < 0) || (a < 0 && b > 0) {
			return i, true
		}
	}
	return 0, false
}

// retainLE keeps only the values <= threshold (§4.5 step 3: "retain the
// selected half-range" — the intended semantics spec.md specifies in
// place of the original's discarded std::remove_if result).
func retainLE(values []float64, threshold float64) []float64 {
	out := values[:0:0]
	for _, v := range values {
		if v <= threshold {
			out = append(out, v)
		}
	}
	return out
}

// retainGT keeps only the values > threshold.
func retainGT(values []float64, threshold float64) []float64 {
	out := values[:0:0]
	for _, v := range values {
		if v > threshold {
			out = append(out, v)
		}
	}
	return out
}

// modalPhase implements §4.5 step 4: histogram with ceil(sqrt(N)) bins
// over [min, max], return the bucket centre with maximum count.
func modalPhase(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	numBins := int(math.Ceil(math.Sqrt(float64(len(values)))))
	if numBins < 1 {
		numBins = 1
	}
	binWidth := (max - min) / float64(numBins)

	counts := make([]int, numBins)
	for _, v := range values {
		bin := 0
		if binWidth > 0 {
			bin = int((v - min) / binWidth)
		}
		if bin >= numBins {
			bin = numBins - 1
		}
		if bin < 0 {
			bin = 0
		}
		counts[bin]++
	}

	best := 0
	for i, c := range counts {
		if c > counts[best] {
			best = i
		}
	}

	return min + binWidth*(float64(best)+0.5)
}
