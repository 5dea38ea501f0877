package sim

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/auditory-periphery/anspike/sim/trace"
)

// ThinningGenerator simulates each fiber as an inhomogeneous Poisson process.
// Candidate arrivals are drawn at the channel's maximum rate and each is
// accepted with probability rate(bin)/maxRate. A candidate landing in a bin
// that already holds a spike for the same fiber is skipped without a draw.
type ThinningGenerator struct {
	Trace *trace.GenerationTrace // optional; nil disables recording
}

// Generate fills the fiber rows of channel c.
func (g *ThinningGenerator) Generate(rates *RateMatrix, c, fibers int, spikes *SpikeMatrix, src RandomSource) {
	lambdaMax := rates.MaxRate(c)
	skipped := lambdaMax == 0
	g.Trace.RecordChannel(trace.ChannelRecord{Channel: c, LambdaMax: lambdaMax, Skipped: skipped})
	if skipped {
		// Degenerate rate: all-false rows, and no division by zero below.
		logrus.Debugf("[channel %d] max rate is 0; %d fibers left silent", c, fibers)
		return
	}
	logrus.Debugf("[channel %d] lambdaMax=%g", c, lambdaMax)

	rate := rates.row(c)
	for row := c * fibers; row < (c+1)*fibers; row++ {
		g.fiber(rate, lambdaMax, spikes.Row(row), row, src)
	}
}

// fiber runs the candidate loop for one spike train.
func (g *ThinningGenerator) fiber(rate []float64, lambdaMax float64, train []bool, row int, src RandomSource) {
	tau := src.Exponential(lambdaMax)
	for candidateInRange(tau, len(train)) {
		bin := int(tau) // tau >= 0, truncation is floor
		occupied := train[bin]
		accepted := false
		if !occupied {
			accepted = rate[bin]/lambdaMax > src.Uniform()
			train[bin] = accepted
		}
		g.Trace.RecordCandidate(trace.CandidateRecord{Row: row, Time: tau, Bin: bin, Occupied: occupied, Accepted: accepted})
		tau += src.Exponential(lambdaMax)
	}

	reason := trace.TerminationBound
	if math.IsNaN(tau) || math.IsInf(tau, 0) || tau < 0 {
		reason = trace.TerminationNonFinite
	}
	g.Trace.RecordTermination(trace.TerminationRecord{Row: row, Time: tau, Reason: reason})
}

// candidateInRange reports whether tau is finite, non-negative and floors to
// a bin inside [0, bins). A non-finite tau ends the fiber normally.
func candidateInRange(tau float64, bins int) bool {
	if math.IsNaN(tau) || math.IsInf(tau, 0) {
		return false
	}
	return tau >= 0 && tau < float64(bins)
}
