package pti

/*------------------------------------------------------------------
 *
 * Purpose:	Per-block loop that chains reader -> references -> CNR ->
 *		lock-in -> row output, and the calibration/inversion driver.
 *
 *------------------------------------------------------------------*/

import (
	"errors"
	"io"
)

// RunDecimation drives §4.1-§4.4 over an entire acquisition stream: read
// the global header once, then loop reading blocks, computing references,
// optionally rejecting common noise, running the lock-in filter, and
// writing one DecimatedRow per block via emit. It terminates cleanly on a
// clean end-of-stream and returns any fatal error from a stage otherwise.
//
// When opts.Offline is set, NoModulation on any block aborts the whole
// run; otherwise that block is logged and skipped and decimation goes on
// with the next one. opts.Online is not consulted.
func RunDecimation(r io.Reader, opts PipelineOptions, emit func(DecimatedRow) error) (Tallies, error) {
	var tallies Tallies
	logger := opts.logger()

	if err := ReadHeader(r); err != nil {
		return tallies, err
	}

	for {
		block, err := ReadBlock(r, opts.SampleCount)
		if errors.Is(err, io.EOF) {
			return tallies, nil
		}
		if err != nil {
			return tallies, err
		}

		row, err := processBlock(block, opts)
		if err != nil {
			var ptiErr *Error
			if errors.As(err, &ptiErr) && ptiErr.Kind == NoModulation && opts.Offline {
				return tallies, err
			}
			if errors.As(err, &ptiErr) && ptiErr.Kind == NoModulation {
				logger.Error("no modulation detected, skipping block", "err", err)
				continue
			}
			return tallies, err
		}

		if err := emit(row); err != nil {
			return tallies, wrapError(IOFailure, "writing decimated row", err)
		}
	}
}

// processBlock runs one block through §4.2-§4.4.
func processBlock(block RawBlock, opts PipelineOptions) (DecimatedRow, error) {
	ref, err := GenerateReferences(block.Ref)
	if err != nil {
		return DecimatedRow{}, err
	}

	dcMean := [3]float64{}
	for i, d := range Detectors {
		dcMean[i] = sumSlice(block.dc(d)) / float64(block.SampleCount())
	}

	if opts.RejectCommonNoise {
		RejectCommonNoise(block, dcMean)
	}

	lockIn := LockIn(block, ref)

	return DecimatedRow{
		DC1: lockIn.DCMean[0], DC2: lockIn.DCMean[1], DC3: lockIn.DCMean[2],
		X1: lockIn.Phasor[0].X, Y1: lockIn.Phasor[0].Y,
		X2: lockIn.Phasor[1].X, Y2: lockIn.Phasor[1].Y,
		X3: lockIn.Phasor[2].X, Y3: lockIn.Phasor[2].Y,
	}, nil
}

func sumSlice(v []float64) float64 {
	var total float64
	for _, x := range v {
		total += x
	}
	return total
}

// PhaseScanTrigger owns both calibration stages of §4.5 and §4.6 and
// assembles their results into a single Calibration record. It composes
// rather than inherits from the inversion engine (§9 Design Note: the
// source's forward-declared trigger-inherits-Inversion stub becomes an
// owned collaborator here): once a Calibration is ready, Run hands it to
// whatever inversion func the caller supplied, if any.
type PhaseScanTrigger struct {
	Samples       []PhaseScanSample
	OnCalibration func(Calibration) error
}

// Run drives the output-phase estimator and the system-phase optimizer
// over the same sweep and returns the assembled Calibration record.
func (t *PhaseScanTrigger) Run(opts PipelineOptions) (Calibration, Tallies, error) {
	var tallies Tallies
	logger := opts.logger()

	outputPhase, swapped, err := EstimateOutputPhases(t.Samples)
	if err != nil {
		return Calibration{}, tallies, err
	}

	minI, maxI, scaled := scaleSweep(t.Samples)

	intensity := [3][]float64{}
	for c := 0; c < 3; c++ {
		intensity[c] = make([]float64, len(scaled))
		for i, s := range scaled {
			intensity[c][i] = s[c]
		}
	}

	alpha, beta, converged := SystemPhaseOptimizer(intensity[0], intensity[1], intensity[2])
	if !converged {
		tallies.OptimizerNonConvergence++
		logger.Warn("system-phase optimizer hit iteration cap before gradient tolerance", "alpha", alpha, "beta", beta)
	}

	cal := Calibration{
		MinIntensity: minI,
		MaxIntensity: maxI,
		OutputPhase:  outputPhase,
		SystemPhase:  [3]float64{0, alpha, beta},
		Swapped:      swapped,
	}

	if t.OnCalibration != nil {
		if err := t.OnCalibration(cal); err != nil {
			return cal, tallies, err
		}
	}

	return cal, tallies, nil
}

// RunInversion drives §4.7 over a full decimated sequence. It never
// returns a fatal error itself - every recoverable condition it can hit
// is accounted in the returned Tallies per §7's policy - but keeps the
// (result, tallies, error) shape of the other two drivers for symmetry
// at the CLI boundary.
func RunInversion(rows []DecimatedRow, cal Calibration, opts PipelineOptions) (InversionResult, Tallies, error) {
	result, tallies := Invert(rows, cal, opts)
	return result, tallies, nil
}
