package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/auditory-periphery/anspike/sim/trace"
)

// BinningGenerator approximates the Poisson process with one independent
// Bernoulli trial per bin, using the raw rate as probability.
//
// The rate is not clamped: rates >= 1 always fire and rates <= 0 never do.
// The approximation holds when rate ≪ 1 and drifts from thinning as rates
// approach one event per bin.
type BinningGenerator struct {
	Trace *trace.GenerationTrace // optional; nil disables recording
}

// Generate fills the fiber rows of channel c.
func (g *BinningGenerator) Generate(rates *RateMatrix, c, fibers int, spikes *SpikeMatrix, src RandomSource) {
	maxRate := rates.MaxRate(c)
	skipped := maxRate == 0
	g.Trace.RecordChannel(trace.ChannelRecord{Channel: c, LambdaMax: maxRate, Skipped: skipped})
	if skipped {
		// No bin can fire; skip the draws like thinning does.
		logrus.Debugf("[channel %d] max rate is 0; %d fibers left silent", c, fibers)
		return
	}

	rate := rates.row(c)
	for row := c * fibers; row < (c+1)*fibers; row++ {
		train := spikes.Row(row)
		for t, p := range rate {
			train[t] = p > src.Uniform()
		}
	}
}

// countAboveOne returns the number of rate entries a Bernoulli draw cannot
// represent faithfully.
func countAboveOne(rates *RateMatrix) int {
	n := 0
	for c := 0; c < rates.Channels(); c++ {
		for _, p := range rates.row(c) {
			if p > 1 {
				n++
			}
		}
	}
	return n
}
