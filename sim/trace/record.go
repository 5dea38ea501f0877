// Package trace provides event recording for spike-train generation.
// This package has no dependencies on sim/; it stores plain data types.
package trace

// TerminationReason explains why a thinning fiber loop stopped.
type TerminationReason string

const (
	// TerminationBound means the next candidate time fell past the last bin.
	TerminationBound TerminationReason = "bound"
	// TerminationNonFinite means the candidate time became NaN or ±Inf.
	// Expected and benign; the fiber simply has no further candidates.
	TerminationNonFinite TerminationReason = "non_finite"
)

// ChannelRecord captures the dominating rate computed for one channel.
type ChannelRecord struct {
	Channel   int
	LambdaMax float64
	Skipped   bool // true when LambdaMax == 0 and no draws were made
}

// CandidateRecord captures one thinning candidate arrival.
type CandidateRecord struct {
	Row      int
	Time     float64 // fractional candidate time in bins
	Bin      int
	Occupied bool // a spike was already recorded in Bin; no acceptance draw made
	Accepted bool
}

// TerminationRecord captures the end of one fiber's thinning loop.
type TerminationRecord struct {
	Row    int
	Time   float64
	Reason TerminationReason
}

// RefractoryRecord captures one refractory window applied after a spike.
type RefractoryRecord struct {
	Row     int
	Bin     int // bin of the spike that opened the window
	Window  int // window length after clipping to the last bin
	Cleared int // spikes removed inside the window
}
