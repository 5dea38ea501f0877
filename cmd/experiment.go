package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/auditory-periphery/anspike/sim"
	"github.com/auditory-periphery/anspike/sim/stimulus"
	"github.com/auditory-periphery/anspike/sim/trace"
)

// Experiment is one generation run as described in an experiment YAML file.
// All fields must be listed to satisfy KnownFields(true) strict parsing.
type Experiment struct {
	Seed           int64                  `yaml:"seed"`
	Fibers         int                    `yaml:"fibers"`
	RefractoryBins int                    `yaml:"refractory_bins"`
	Algorithm      sim.Algorithm          `yaml:"algorithm"`
	Workers        int                    `yaml:"workers"` // 1 = sequential, 0 = GOMAXPROCS
	Trace          string                 `yaml:"trace,omitempty"`
	Rates          string                 `yaml:"rates,omitempty"` // CSV path, one channel per line
	Stimulus       *stimulus.StimulusSpec `yaml:"stimulus,omitempty"`
	Output         string                 `yaml:"output,omitempty"`
}

// defaultExperiment returns the values used when neither YAML nor flags set a field.
func defaultExperiment() Experiment {
	return Experiment{
		Seed:      42,
		Fibers:    1,
		Algorithm: sim.AlgorithmThinning,
		Workers:   1,
	}
}

// loadExperiment parses path over the defaults. Unknown keys are rejected.
func loadExperiment(path string) (Experiment, error) {
	exp := defaultExperiment()
	data, err := os.ReadFile(path)
	if err != nil {
		return exp, fmt.Errorf("reading experiment config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&exp); err != nil {
		return exp, fmt.Errorf("parsing experiment config: %w", err)
	}
	return exp, nil
}

// applyFlagOverrides copies explicitly set generate flags onto exp.
// Flags left at their defaults never override YAML values.
func applyFlagOverrides(cmd *cobra.Command, exp *Experiment) error {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		logrus.Infof("--seed %d overrides config seed %d", seed, exp.Seed)
		exp.Seed = seed
	}
	if flags.Changed("fibers") {
		exp.Fibers = fibers
	}
	if flags.Changed("refractory") {
		exp.RefractoryBins = refractoryBins
	}
	if flags.Changed("algorithm") {
		algo, err := sim.ParseAlgorithm(algorithmName)
		if err != nil {
			return err
		}
		exp.Algorithm = algo
	}
	if flags.Changed("workers") {
		exp.Workers = workers
	}
	if flags.Changed("trace") {
		exp.Trace = traceLevel
	}
	if flags.Changed("rates") {
		exp.Rates = ratesPath
		exp.Stimulus = nil
	}
	if flags.Changed("output") {
		exp.Output = outputPath
	}
	return nil
}

// Validate checks the fields generation does not validate itself.
func (e *Experiment) Validate() error {
	if !trace.IsValidTraceLevel(e.Trace) {
		return fmt.Errorf("unknown trace level %q; valid: none, summary, events", e.Trace)
	}
	if e.Rates == "" && e.Stimulus == nil {
		return fmt.Errorf("either rates (CSV path) or stimulus is required")
	}
	if e.Rates != "" && e.Stimulus != nil {
		return fmt.Errorf("rates and stimulus are mutually exclusive")
	}
	return nil
}

// GenerationConfig converts the experiment into the core configuration.
func (e *Experiment) GenerationConfig() sim.GenerationConfig {
	cfg := sim.NewGenerationConfig(e.Fibers, e.RefractoryBins, e.Algorithm)
	cfg.Workers = e.Workers
	return cfg
}

// loadRates resolves the experiment's rate source.
func (e *Experiment) loadRates() (*sim.RateMatrix, error) {
	if e.Rates != "" {
		return stimulus.LoadRateCSV(e.Rates)
	}
	return stimulus.Build(e.Stimulus)
}
