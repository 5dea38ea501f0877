// Package analysis post-processes generated spike trains and rate matrices:
// channel averaging, windowed rates, inter-spike intervals, spike
// subsampling, deterministic refractoriness and PSTHs.
//
// Float results are *mat.Dense (gonum). Functions validate shapes up front
// and return ErrShape or ErrArgument without partial output.
package analysis

import "errors"

var (
	// ErrShape reports mismatched or empty matrix dimensions.
	ErrShape = errors.New("shape mismatch")
	// ErrArgument reports an out-of-range scalar argument.
	ErrArgument = errors.New("invalid argument")
)
