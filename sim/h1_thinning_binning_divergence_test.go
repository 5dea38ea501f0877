package sim

import (
	"fmt"
	"math"
	"testing"
)

// TestH1_ThinningBinningDivergence validates the hypothesis that binning
// overestimates the per-bin firing probability as rates approach one event
// per bin, and that refractoriness hides most of the gap. The experiment:
//  1. Generates constant-rate trains with both algorithms at rates 0.05 .. 1
//  2. Compares each observed frequency with r (binning) and 1-exp(-r) (thinning)
//  3. Repeats at r = 1 with a 5-bin refractory period
//
// Without refractoriness thinning fires in a bin with probability
// 1-exp(-r); binning fires with probability min(r, 1).
func TestH1_ThinningBinningDivergence(t *testing.T) {
	const (
		fibers = 200
		bins   = 500
		seed   = 42
	)
	freq := func(rate float64, algo Algorithm, absRef int) float64 {
		t.Helper()
		rates := mustRates(t, constantRow(rate, bins))
		spikes, err := Generate(rates, NewGenerationConfig(fibers, absRef, algo), NewSource(seed), nil)
		if err != nil {
			t.Fatalf("Generate(%v, %s): %v", rate, algo, err)
		}
		return spikeFrequency(spikes, 0, fibers, 0, bins)
	}

	fmt.Println("H1_RESULTS_START")
	fmt.Printf("%-6s | %8s | %8s | %8s | %8s\n", "rate", "thin", "1-e^-r", "bin", "gap")
	for _, r := range []float64{0.05, 0.2, 0.5, 1.0} {
		thin := freq(r, AlgorithmThinning, 0)
		bin := freq(r, AlgorithmBinning, 0)
		fmt.Printf("%-6.2f | %8.4f | %8.4f | %8.4f | %8.4f\n", r, thin, 1-math.Exp(-r), bin, bin-thin)

		if math.Abs(thin-(1-math.Exp(-r))) > 0.01 {
			t.Errorf("rate %.2f: thinning frequency %.4f, want ~%.4f", r, thin, 1-math.Exp(-r))
		}
		if math.Abs(bin-r) > 0.01 {
			t.Errorf("rate %.2f: binning frequency %.4f, want ~%.4f", r, bin, r)
		}
	}

	gapFree := freq(1, AlgorithmBinning, 0) - freq(1, AlgorithmThinning, 0)
	gapRef := freq(1, AlgorithmBinning, 5) - freq(1, AlgorithmThinning, 5)
	fmt.Printf("refractory=5: gap %.4f (was %.4f)\n", gapRef, gapFree)
	fmt.Println("H1_RESULTS_END")

	if math.Abs(gapRef) > 0.1*gapFree {
		t.Errorf("refractory gap %.4f should be under 10%% of the unconstrained gap %.4f", gapRef, gapFree)
	}
}
