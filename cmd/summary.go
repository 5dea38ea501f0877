package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"

	"github.com/auditory-periphery/anspike/sim"
	"github.com/auditory-periphery/anspike/sim/analysis"
	"github.com/auditory-periphery/anspike/sim/trace"
)

// RunSummary is the JSON report printed after generation.
type RunSummary struct {
	Algorithm      string              `json:"algorithm"`
	Seed           int64               `json:"seed"`
	Channels       int                 `json:"channels"`
	Fibers         int                 `json:"fibers"`
	Bins           int                 `json:"bins"`
	RefractoryBins int                 `json:"refractory_bins"`
	TotalSpikes    int                 `json:"total_spikes"`
	MeanRates      []float64           `json:"mean_rates"` // spikes per bin per fiber, by channel
	Trace          *trace.TraceSummary `json:"trace,omitempty"`
}

func newRunSummary(exp Experiment, spikes *sim.SpikeMatrix, psth *mat.Dense, tr *trace.GenerationTrace) *RunSummary {
	channels, bins := psth.Dims()
	summary := &RunSummary{
		Algorithm:      exp.Algorithm.String(),
		Seed:           exp.Seed,
		Channels:       channels,
		Fibers:         exp.Fibers,
		Bins:           bins,
		RefractoryBins: exp.RefractoryBins,
		TotalSpikes:    spikes.Count(),
		MeanRates:      analysis.MeanRates(psth),
	}
	if tr != nil {
		summary.Trace = trace.Summarize(tr)
	}
	return summary
}

// Print writes the summary header and indented JSON to w.
func (s *RunSummary) Print(w io.Writer) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "=== Generation Summary ===\n%s\n", data)
	return err
}
