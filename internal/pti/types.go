// Package pti implements the signal-processing core of a three-detector
// Photothermal Interferometry measurement pipeline: decimation / lock-in
// amplification, phase-scan calibration, system-phase calibration and
// inversion. The package is single-threaded and synchronous (§5); every
// stage is a plain function over plain records, with no package-level
// mutable mode flags.
package pti

import (
	"math"

	"github.com/charmbracelet/log"
)

// Gain is the fixed lock-in scale factor of §4.3.
const Gain = 1000.0

// Detector identifies one of the three physical detector channels.
type Detector int

const (
	Detector1 Detector = 1
	Detector2 Detector = 2
	Detector3 Detector = 3
)

// Detectors lists the three detectors in canonical order, for range loops
// that need a stable iteration order (§5: "no parallel reductions").
var Detectors = [3]Detector{Detector1, Detector2, Detector3}

// RawBlock holds one acquisition block's seven channels, all of identical
// length S (§3).
type RawBlock struct {
	DC1, DC2, DC3 []float64
	Ref           []float64
	AC1, AC2, AC3 []float64
}

// SampleCount returns S, the per-channel sample length of the block.
func (b RawBlock) SampleCount() int {
	return len(b.Ref)
}

// dc returns the DC channel for the given detector.
func (b RawBlock) dc(d Detector) []float64 {
	switch d {
	case Detector1:
		return b.DC1
	case Detector2:
		return b.DC2
	default:
		return b.DC3
	}
}

// ac returns the AC channel for the given detector.
func (b RawBlock) ac(d Detector) []float64 {
	switch d {
	case Detector1:
		return b.AC1
	case Detector2:
		return b.AC2
	default:
		return b.AC3
	}
}

// Reference holds the self-locked demodulation reference pair of §4.2.
type Reference struct {
	InPhase    []float64
	Quadrature []float64
	Period     float64
	PhaseShift int
}

// Phasor is an (X, Y) lock-in amplitude/phase pair (§3 "AC phasor").
type Phasor struct {
	X, Y float64
}

// LockInResult is the per-block output of the lock-in filter and DC mean
// stages (§4.3): one phasor and one DC mean per detector.
type LockInResult struct {
	Phasor [3]Phasor  // indexed by Detector-1
	DCMean [3]float64 // indexed by Detector-1
}

// DecimatedRow is one row of the decimation CSV (§6.2): nine float64s in
// the fixed column order DC1,DC2,DC3,X1,Y1,X2,Y2,X3,Y3.
type DecimatedRow struct {
	DC1, DC2, DC3 float64
	X1, Y1        float64
	X2, Y2        float64
	X3, Y3        float64
}

// PhaseScanSample is one sample of a long phase-scan sweep: the three DC
// channels only (§4.5, §4.6 both consume DC alone).
type PhaseScanSample struct {
	DC [3]float64 // indexed by Detector-1
}

// Calibration is the per-detector calibration record of §3. OutputPhase[0]
// (detector 1) is always 0 by convention, as is SystemPhase[0].
type Calibration struct {
	MinIntensity [3]float64
	MaxIntensity [3]float64
	OutputPhase  [3]float64
	SystemPhase  [3]float64
	Swapped      bool
}

// PipelineOptions is the explicit, by-value replacement for the source's
// process-wide mode flag (§9 Design Note). Every stage takes it by value;
// no stage reads or writes package-level state.
type PipelineOptions struct {
	SampleCount       int    // S, the per-channel block length
	Delimiter         rune   // CSV field separator, default ','
	RejectCommonNoise bool   // whether CNR runs before the lock-in filter
	Online            bool   // read from config; no stage consults it (no live acquisition mode)
	Offline           bool   // NoModulation aborts the whole run when true
	Verbose           bool   // inversion also returns per-channel R, theta, demod series
	Logger            *log.Logger
}

// logger returns a non-nil logger, falling back to a discarding default so
// callers never need a nil check.
func (o PipelineOptions) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(nil)
}

// VerboseChannel holds the per-channel intermediate series returned by the
// inversion engine in verbose mode (§4.7 "Verbose mode").
type VerboseChannel struct {
	R     []float64
	Theta []float64
	Demod []float64
}

// InversionResult is the output of the inversion engine over a full
// decimated sequence (§4.7).
type InversionResult struct {
	InterferometricPhase []float64
	PTISignal            []float64
	Degenerate           []bool // parallel to the two slices above
	Verbose              [3]VerboseChannel
}

// sign implements the spec's sign(0) = +1 convention (§4.7 step 5).
func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// clampUnit clamps v into [-1, 1], used by the NumericDomain handling of
// §4.7 step 1 when calibration drift pushes a scaled DC value out of range.
func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
