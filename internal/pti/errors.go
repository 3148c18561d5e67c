package pti

import "fmt"

// Kind is a member of the error taxonomy of the PTI signal-processing core.
type Kind int

const (
	// ConfigMissing means a required configuration section/key, or the
	// requested variant of a present key, was absent.
	ConfigMissing Kind = iota
	// IOFailure covers read/write/open failures and short reads outside
	// a block boundary.
	IOFailure
	// TruncatedBlock means fewer than 7*S*8+8 bytes remained between a
	// block preamble and end of stream.
	TruncatedBlock
	// NoModulation means the reference channel produced zero rising
	// edges following a falling edge.
	NoModulation
	// UnresolvableSwap means a phase-scan sweep had no zero crossing to
	// resolve the detector-2/detector-3 swap.
	UnresolvableSwap
	// OptimizerNonConvergence means the system-phase optimizer hit its
	// iteration cap before the gradient tolerance was satisfied.
	OptimizerNonConvergence
	// DegenerateWeight means sigma w_d was zero on an inversion row.
	DegenerateWeight
	// NumericDomain means a scaled DC value left [-1, 1] after
	// calibration drift and had to be clamped.
	NumericDomain
	// InsufficientData means a phase-scan sweep had too few valid
	// samples to estimate an output phase.
	InsufficientData
)

func (k Kind) String() string {
	switch k {
	case ConfigMissing:
		return "ConfigMissing"
	case IOFailure:
		return "IOFailure"
	case TruncatedBlock:
		return "TruncatedBlock"
	case NoModulation:
		return "NoModulation"
	case UnresolvableSwap:
		return "UnresolvableSwap"
	case OptimizerNonConvergence:
		return "OptimizerNonConvergence"
	case DegenerateWeight:
		return "DegenerateWeight"
	case NumericDomain:
		return "NumericDomain"
	case InsufficientData:
		return "InsufficientData"
	default:
		return "Unknown"
	}
}

// Error is the single error type used across the core. Kind carries the
// taxonomy member; callers that care use errors.As to recover it rather
// than comparing messages.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func wrapError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Tallies accumulates the per-row recoverable conditions of §7's error
// taxonomy across a decimation, phase-scan or inversion run. It is returned alongside
// the primary output of every driver function; nothing in it is ever
// silently dropped.
type Tallies struct {
	OptimizerNonConvergence int
	DegenerateWeight        int
	NumericDomain           int
}

// Empty reports whether every counter is zero.
func (t Tallies) Empty() bool {
	return t.OptimizerNonConvergence == 0 && t.DegenerateWeight == 0 && t.NumericDomain == 0
}

func (t Tallies) String() string {
	return fmt.Sprintf("optimizer-non-convergence=%d degenerate-weight=%d numeric-domain=%d",
		t.OptimizerNonConvergence, t.DegenerateWeight, t.NumericDomain)
}
