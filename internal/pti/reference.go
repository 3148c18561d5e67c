package pti

/*------------------------------------------------------------------
 *
 * Purpose:	From the modulation reference channel, detect rising
 *		edges, estimate the average period and initial phase
 *		shift, emit sine/cosine reference arrays.
 *
 * Rationale:	Using the first rising edge as phase anchor fixes the
 *		sign of X and Y across blocks; averaging half-periods
 *		across many rising-falling pairs suppresses sub-sample
 *		jitter.
 *
 *------------------------------------------------------------------*/

import "math"

// GenerateReferences implements §4.2. It fails with NoModulation if the
// reference channel yields zero rising edges following a falling edge.
func GenerateReferences(ref []float64) (Reference, error) {
	sampleCount := len(ref)

	var (
		lastFall    int
		fallSeen    bool
		phaseShift  int
		haveFirst   bool
		periodTotal float64
		periodCount int
	)

	for s := 0; s < sampleCount-1; s++ {
		if ref[s] > 0.9 && ref[s+1] < 0.1 {
			lastFall = s
			fallSeen = true
		} else if ref[s] < 0.1 && ref[s+1] > 0.9 {
			if !haveFirst {
				phaseShift = s
				haveFirst = true
				fallSeen = false
				continue
			}
			if fallSeen {
				periodTotal += 2 * float64(s-lastFall)
				periodCount++
				fallSeen = false
			}
		}
	}

	if periodCount == 0 {
		return Reference{}, newError(NoModulation, "reference channel produced no rising edges following a falling edge")
	}

	period := periodTotal / float64(periodCount)

	inPhase := make([]float64, sampleCount)
	quadrature := make([]float64, sampleCount)
	for s := 0; s < sampleCount; s++ {
		angle := 2 * math.Pi / period * float64(s-phaseShift)
		inPhase[s] = math.Sin(angle)
		quadrature[s] = math.Cos(angle)
	}

	return Reference{
		InPhase:    inPhase,
		Quadrature: quadrature,
		Period:     period,
		PhaseShift: phaseShift,
	}, nil
}
