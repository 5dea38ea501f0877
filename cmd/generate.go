package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/auditory-periphery/anspike/sim"
	"github.com/auditory-periphery/anspike/sim/analysis"
	"github.com/auditory-periphery/anspike/sim/stimulus"
	"github.com/auditory-periphery/anspike/sim/trace"
)

// runExperiment validates exp, generates spikes, writes the spike CSV when
// exp.Output is set and optionally plots PSTHs to w.
func runExperiment(ctx context.Context, exp Experiment, plot bool, w io.Writer) (*RunSummary, error) {
	if err := exp.Validate(); err != nil {
		return nil, err
	}
	rates, err := exp.loadRates()
	if err != nil {
		return nil, err
	}
	cfg := exp.GenerationConfig()
	tr := trace.NewGenerationTrace(trace.TraceConfig{Level: trace.TraceLevel(exp.Trace)})

	start := time.Now()
	var spikes *sim.SpikeMatrix
	if cfg.Workers == 1 {
		spikes, err = sim.Generate(rates, cfg, sim.NewSource(exp.Seed), tr)
	} else {
		spikes, err = sim.GenerateParallel(ctx, rates, cfg, sim.NewSimulationKey(exp.Seed), tr)
	}
	if err != nil {
		return nil, err
	}
	logrus.Debugf("generation took %v", time.Since(start))

	if exp.Output != "" {
		if err := writeSpikesFile(exp.Output, spikes); err != nil {
			return nil, err
		}
		logrus.Infof("Wrote %d spike trains to %s", spikes.Rows(), exp.Output)
	}

	psth, err := analysis.PSTH(spikes, cfg.Fibers)
	if err != nil {
		return nil, err
	}
	if plot {
		if err := plotChannels(w, psth); err != nil {
			return nil, err
		}
	}
	return newRunSummary(exp, spikes, psth, tr), nil
}

func writeSpikesFile(path string, spikes *sim.SpikeMatrix) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating spike output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return stimulus.WriteSpikesCSV(f, spikes)
}
