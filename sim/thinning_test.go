package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auditory-periphery/anspike/sim/trace"
)

// fixedExponentialSource returns the same exponential variate forever.
type fixedExponentialSource struct {
	scriptedSource
	exp float64
}

func (s *fixedExponentialSource) Exponential(float64) float64 { return s.exp }

func runThinning(t *testing.T, rates *RateMatrix, fibers int, src RandomSource, tr *trace.GenerationTrace) *SpikeMatrix {
	t.Helper()
	spikes, err := NewSpikeMatrix(rates.Channels()*fibers, rates.Bins())
	require.NoError(t, err)
	gen := &ThinningGenerator{Trace: tr}
	for c := 0; c < rates.Channels(); c++ {
		gen.Generate(rates, c, fibers, spikes, src)
	}
	return spikes
}

func TestThinning_ScriptedCandidates(t *testing.T) {
	// GIVEN a constant rate of 0.5 over 4 bins and candidates at 0.5, 1.5, 4.5
	rates := mustRates(t, constantRow(0.5, 4))
	src := &scriptedSource{uniforms: []float64{
		expUniform(0.5, 0.5), 0.5,
		expUniform(1.0, 0.5), 0.5,
		expUniform(3.0, 0.5),
	}}

	// WHEN the fiber is generated
	spikes := runThinning(t, rates, 1, src, nil)

	// THEN both in-range candidates are accepted and the third ends the loop
	assert.Equal(t, "1100\n", spikes.String())
	assert.Equal(t, 5, src.ui, "one exponential per candidate plus one acceptance draw per free bin")
}

func TestThinning_OccupiedBinSkipsAcceptanceDraw(t *testing.T) {
	// GIVEN rates [0.2, 1, 0.2] and candidates at 0.5 (rejected), 1.2
	// (accepted), 1.7 (same bin), 2.1 (accepted) and 3.5 (out of range)
	rates := mustRates(t, []float64{0.2, 1.0, 0.2})
	src := &scriptedSource{uniforms: []float64{
		expUniform(0.5, 1), 0.5,
		expUniform(0.7, 1), 0.5,
		expUniform(0.5, 1),
		expUniform(0.4, 1), 0.1,
		expUniform(1.4, 1),
	}}
	tr := trace.NewGenerationTrace(trace.TraceConfig{Level: trace.TraceLevelEvents})

	// WHEN the fiber is generated
	spikes := runThinning(t, rates, 1, src, tr)

	// THEN bins 1 and 2 fire and the repeated bin-1 candidate draws nothing
	assert.Equal(t, "011\n", spikes.String())
	assert.Equal(t, 8, src.ui)
	assert.Equal(t, 4, tr.Counters.Candidates)
	assert.Equal(t, 1, tr.Counters.Occupied)
	assert.Equal(t, 2, tr.Counters.Accepted)
	assert.Equal(t, 1, tr.Counters.BoundTerminations)
	require.Len(t, tr.Candidates, 4)
	assert.True(t, tr.Candidates[2].Occupied)
	assert.Equal(t, 1, tr.Candidates[2].Bin)
}

func TestThinning_NonFiniteCandidateEndsFiber(t *testing.T) {
	for _, exp := range []float64{math.Inf(1), math.NaN()} {
		// GIVEN an exponential draw that is not finite
		rates := mustRates(t, constantRow(0.3, 5))
		src := &fixedExponentialSource{scriptedSource: scriptedSource{uniforms: []float64{0.5}}, exp: exp}
		tr := trace.NewGenerationTrace(trace.TraceConfig{Level: trace.TraceLevelSummary})

		// WHEN generating two fibers
		spikes := runThinning(t, rates, 2, src, tr)

		// THEN each fiber ends normally with no spikes and no acceptance draws
		assert.Equal(t, 0, spikes.Count())
		assert.Equal(t, 0, src.ui)
		assert.Equal(t, 2, tr.Counters.NonFiniteTerminations)
		assert.Equal(t, 0, tr.Counters.Candidates)
	}
}

func TestThinning_ZeroRateChannelConsumesNoDraws(t *testing.T) {
	// GIVEN one silent channel and one all-negative channel
	rates := mustRates(t, constantRow(0, 6), []float64{-0.1, -3, -0.5, -1, -1, -1})
	src := NewSource(1)
	tr := trace.NewGenerationTrace(trace.TraceConfig{Level: trace.TraceLevelSummary})

	// WHEN generating
	spikes := runThinning(t, rates, 4, src, tr)

	// THEN every row is empty, no draw was made and both channels are skipped
	assert.Equal(t, 0, spikes.Count())
	assert.Equal(t, int64(0), src.Draws())
	assert.Equal(t, 2, tr.Counters.SkippedChannels)
}

func TestThinning_NonPositiveBinsNeverFire(t *testing.T) {
	rates := mustRates(t, []float64{-1, 0.5, 0, 0.5})
	spikes := runThinning(t, rates, 500, NewSource(11), nil)
	for r := 0; r < spikes.Rows(); r++ {
		assert.False(t, spikes.At(r, 0), "row %d fired on a negative rate", r)
		assert.False(t, spikes.At(r, 2), "row %d fired on a zero rate", r)
	}
	assert.Greater(t, spikes.Count(), 0)
}

func TestThinning_ConstantRateMatchesPoisson(t *testing.T) {
	// GIVEN r=0.05 spikes/bin, 1000 fibers over 200 bins
	const r = 0.05
	rates := mustRates(t, constantRow(r, 200))

	// WHEN generating with a fixed seed
	spikes := runThinning(t, rates, 1000, NewSource(42), nil)

	// THEN the per-bin firing probability is 1 - exp(-r)
	got := spikeFrequency(spikes, 0, 1000, 0, 200)
	assert.InDelta(t, 1-math.Exp(-r), got, 0.002)
}

func TestThinning_InhomogeneousRateTracksEachSegment(t *testing.T) {
	// GIVEN a rate that steps from 0.02 to 0.2 halfway through
	row := append(constantRow(0.02, 100), constantRow(0.2, 100)...)
	rates := mustRates(t, row)

	// WHEN generating 1000 fibers
	spikes := runThinning(t, rates, 1000, NewSource(5), nil)

	// THEN each half fires at its own rate despite sharing lambdaMax
	assert.InDelta(t, 1-math.Exp(-0.02), spikeFrequency(spikes, 0, 1000, 0, 100), 0.003)
	assert.InDelta(t, 1-math.Exp(-0.2), spikeFrequency(spikes, 0, 1000, 100, 200), 0.006)
}

func TestThinning_FibersAreIndependentRealizations(t *testing.T) {
	rates := mustRates(t, constantRow(0.3, 50))
	spikes := runThinning(t, rates, 2, NewSource(8), nil)
	assert.NotEqual(t, spikes.Row(0), spikes.Row(1))
}

func TestCandidateInRange(t *testing.T) {
	tests := []struct {
		tau  float64
		want bool
	}{
		{0, true},
		{3.999, true},
		{4, false},
		{-0.1, false},
		{math.NaN(), false},
		{math.Inf(1), false},
		{math.Inf(-1), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, candidateInRange(tt.tau, 4), "tau=%v", tt.tau)
	}
}
