package pti

/*------------------------------------------------------------------
 *
 * Purpose:	Scale DC signals; pick three mutually-consistent roots
 *		out of six candidates for (x,y); atan2 -> interferometric
 *		phase; combine with AC phasors into weighted PTI signal.
 *
 *------------------------------------------------------------------*/

import "math"

// signTriples enumerates the 2^3 = 8 sign combinations of §4.7 step 3.
var signTriples = [8][3]float64{
	{1, 1, 1}, {1, 1, -1}, {1, -1, 1}, {1, -1, -1},
	{-1, 1, 1}, {-1, 1, -1}, {-1, -1, 1}, {-1, -1, -1},
}

// candidateRoots computes the two sign-branches of x_d and y_d for one
// detector, per §4.7 step 2.
func candidateRoots(dc, outputPhase float64) (xPlus, xMinus, yPlus, yMinus float64) {
	root := math.Sqrt(math.Max(0, 1-dc*dc))
	cosP, sinP := math.Cos(outputPhase), math.Sin(outputPhase)
	xPlus = dc*cosP + root*sinP
	xMinus = dc*cosP - root*sinP
	yPlus = dc*sinP - root*cosP
	yMinus = dc*sinP + root*cosP
	return
}

// pairwiseDisagreement returns |a-b| + |b-c| + |a-c|, the metric §4.7
// step 3 minimizes independently for x and for y.
func pairwiseDisagreement(a, b, c float64) float64 {
	return math.Abs(a-b) + math.Abs(b-c) + math.Abs(a-c)
}

// invertPhase implements §4.7 steps 1-4 for a single decimated row's DC
// triple: scale, enumerate six candidate roots, pick the best-agreeing
// sign-triple independently for x and y, return the interferometric phase.
func invertPhase(dcRaw [3]float64, cal Calibration, onNumericDomain func()) (phi float64) {
	var xPlus, xMinus, yPlus, yMinus [3]float64
	for i := 0; i < 3; i++ {
		v := scale(dcRaw[i], cal.MinIntensity[i], cal.MaxIntensity[i])
		if v > 1 || v < -1 {
			onNumericDomain()
			v = clampUnit(v)
		}
		xPlus[i], xMinus[i], yPlus[i], yMinus[i] = candidateRoots(v, cal.OutputPhase[i])
	}

	bestXScore := math.Inf(1)
	bestYScore := math.Inf(1)
	var bestX, bestY [3]float64

	for _, triple := range signTriples {
		var x, y [3]float64
		for i := 0; i < 3; i++ {
			if triple[i] > 0 {
				x[i] = xPlus[i]
				y[i] = yPlus[i]
			} else {
				x[i] = xMinus[i]
				y[i] = yMinus[i]
			}
		}

		if score := pairwiseDisagreement(x[0], x[1], x[2]); score < bestXScore {
			bestXScore = score
			bestX = x
		}
		if score := pairwiseDisagreement(y[0], y[1], y[2]); score < bestYScore {
			bestYScore = score
			bestY = y
		}
	}

	meanX := (bestX[0] + bestX[1] + bestX[2]) / 3
	meanY := (bestY[0] + bestY[1] + bestY[2]) / 3

	return math.Atan2(meanY, meanX)
}

// Invert runs §4.7 over a full decimated sequence, applying the swap
// handling of §4.7's "Swap handling" clause on ingestion. It returns
// the interferometric phase and PTI signal series, a per-row degenerate
// flag, and (in verbose mode) the per-channel R/theta/demod series.
func Invert(rows []DecimatedRow, cal Calibration, opts PipelineOptions) (InversionResult, Tallies) {
	var tallies Tallies
	result := InversionResult{
		InterferometricPhase: make([]float64, len(rows)),
		PTISignal:            make([]float64, len(rows)),
		Degenerate:           make([]bool, len(rows)),
	}
	if opts.Verbose {
		for i := range result.Verbose {
			result.Verbose[i] = VerboseChannel{
				R:     make([]float64, len(rows)),
				Theta: make([]float64, len(rows)),
				Demod: make([]float64, len(rows)),
			}
		}
	}

	logger := opts.logger()

	for rowIndex, row := range rows {
		dc, ac := ingestRow(row, cal.Swapped)

		phi := invertPhase(dc, cal, func() {
			tallies.NumericDomain++
			logger.Warn("scaled DC outside unit range, clamping", "row", rowIndex)
		})
		result.InterferometricPhase[rowIndex] = phi

		var demodSum, weightSum float64
		for i := 0; i < 3; i++ {
			r := math.Hypot(ac[i].X, ac[i].Y)
			theta := math.Atan2(ac[i].Y, ac[i].X)
			demod := r * math.Cos(theta-cal.SystemPhase[i])
			sinTerm := math.Sin(phi - cal.OutputPhase[i])
			weight := (cal.MaxIntensity[i] - cal.MinIntensity[i]) / 2 * math.Abs(sinTerm)

			demodSum += demod * sign(sinTerm)
			weightSum += weight

			if opts.Verbose {
				result.Verbose[i].R[rowIndex] = r
				result.Verbose[i].Theta[rowIndex] = theta
				result.Verbose[i].Demod[rowIndex] = demod
			}
		}

		if weightSum == 0 {
			result.PTISignal[rowIndex] = math.NaN()
			result.Degenerate[rowIndex] = true
			tallies.DegenerateWeight++
			logger.Warn("degenerate weight, signal stationary at phase extremum", "row", rowIndex)
		} else {
			result.PTISignal[rowIndex] = -demodSum / weightSum
		}
	}

	return result, tallies
}

// ingestRow applies the swap handling of §4.7: when cal.Swapped, remap
// (DC3, X3, Y3) onto detector 2 and vice versa.
func ingestRow(row DecimatedRow, swapped bool) (dc [3]float64, ac [3]Phasor) {
	dc = [3]float64{row.DC1, row.DC2, row.DC3}
	ac = [3]Phasor{{row.X1, row.Y1}, {row.X2, row.Y2}, {row.X3, row.Y3}}
	if swapped {
		dc[1], dc[2] = dc[2], dc[1]
		ac[1], ac[2] = ac[2], ac[1]
	}
	return dc, ac
}
