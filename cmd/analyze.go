package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/auditory-periphery/anspike/sim/analysis"
	"github.com/auditory-periphery/anspike/sim/stimulus"
)

var (
	// CLI flags shared by analyze subcommands
	analyzeInput  string // CSV input path ("-" = stdin)
	analyzeOutput string // CSV output path ("-" = stdout)

	nbFeatures        int       // average: number of output features
	subsampleFactor   int       // subsample: keep one spike in n
	windowStarts      []int     // rate: window start bins
	windowWeights     []float64 // rate, refractory: weights
	refractoryDt      float64   // refractory: bin width
	refractoryHorizon float64   // refractory: history horizon
	psthFibers        int       // psth: fibers per channel
)

// analyzeCmd groups the post-processing subcommands.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Post-process spike trains and rate matrices (CSV in, CSV out)",
}

// newAnalyzeCommand wires a CSV-in/CSV-out subcommand.
func newAnalyzeCommand(use, short string, run func(in io.Reader, out io.Writer) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Run: func(cmd *cobra.Command, args []string) {
			setupLogging()
			if err := withIO(analyzeInput, analyzeOutput, run); err != nil {
				logrus.Fatalf("%s: %v", use, err)
			}
		},
	}
}

// withIO opens in and out ("-" means stdin/stdout) around run.
func withIO(inPath, outPath string, run func(in io.Reader, out io.Writer) error) (err error) {
	var in io.Reader = os.Stdin
	if inPath != "-" {
		f, err := os.Open(inPath)
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer func() { _ = f.Close() }()
		in = f
	}
	var out io.Writer = os.Stdout
	if outPath != "-" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		out = f
	}
	return run(in, out)
}

func runAverage(in io.Reader, out io.Writer) error {
	features, err := stimulus.ReadDenseCSV(in)
	if err != nil {
		return err
	}
	avg, err := analysis.AverageChannels(features, nbFeatures)
	if err != nil {
		return err
	}
	return stimulus.WriteDenseCSV(out, avg)
}

func runISI(in io.Reader, out io.Writer) error {
	spikes, err := stimulus.ReadSpikesCSV(in)
	if err != nil {
		return err
	}
	return stimulus.WriteDenseCSV(out, analysis.ISI(spikes))
}

func runSubsample(in io.Reader, out io.Writer) error {
	spikes, err := stimulus.ReadSpikesCSV(in)
	if err != nil {
		return err
	}
	if err := analysis.Subsample(spikes, subsampleFactor); err != nil {
		return err
	}
	return stimulus.WriteSpikesCSV(out, spikes)
}

// runRate reads trains as CSV rows and transposes them into the column
// layout WindowedRate expects; the result has one row per train.
func runRate(in io.Reader, out io.Writer) error {
	trains, err := stimulus.ReadDenseCSV(in)
	if err != nil {
		return err
	}
	rate, err := analysis.WindowedRate(trains.T(), windowStarts, windowWeights)
	if err != nil {
		return err
	}
	return stimulus.WriteDenseCSV(out, rate.T())
}

func runRefractory(in io.Reader, out io.Writer) error {
	prob, err := stimulus.ReadDenseCSV(in)
	if err != nil {
		return err
	}
	res, err := analysis.DeterministicRefractory(prob, windowWeights, refractoryDt, refractoryHorizon)
	if err != nil {
		return err
	}
	return stimulus.WriteDenseCSV(out, res)
}

func runPSTH(in io.Reader, out io.Writer) error {
	spikes, err := stimulus.ReadSpikesCSV(in)
	if err != nil {
		return err
	}
	psth, err := analysis.PSTH(spikes, psthFibers)
	if err != nil {
		return err
	}
	return stimulus.WriteDenseCSV(out, psth)
}

func init() {
	analyzeCmd.PersistentFlags().StringVar(&analyzeInput, "input", "-", "Input CSV file (- for stdin)")
	analyzeCmd.PersistentFlags().StringVar(&analyzeOutput, "out", "-", "Output CSV file (- for stdout)")

	averageCmd := newAnalyzeCommand("average", "Average groups of feature rows", runAverage)
	averageCmd.Flags().IntVar(&nbFeatures, "features", 1, "Number of output features (must be below the row count)")

	isiCmd := newAnalyzeCommand("isi", "Encode spike trains as running inter-spike intervals", runISI)

	subsampleCmd := newAnalyzeCommand("subsample", "Keep one spike in n per train", runSubsample)
	subsampleCmd.Flags().IntVar(&subsampleFactor, "factor", 1, "Subsampling factor n")

	rateCmd := newAnalyzeCommand("rate", "Weighted spike counts in windows (one output row per train)", runRate)
	rateCmd.Flags().IntSliceVar(&windowStarts, "starts", nil, "Comma-separated window start bins")
	rateCmd.Flags().Float64SliceVar(&windowWeights, "weights", nil, "Comma-separated window weights")

	refractoryCmd := newAnalyzeCommand("refractory", "Apply deterministic refractoriness to firing probabilities", runRefractory)
	refractoryCmd.Flags().Float64SliceVar(&windowWeights, "weights", nil, "Comma-separated refractory weights, most recent bin first")
	refractoryCmd.Flags().Float64Var(&refractoryDt, "dt", 1, "Bin width")
	refractoryCmd.Flags().Float64Var(&refractoryHorizon, "horizon", 0, "Refractory history horizon (same unit as dt)")

	psthCmd := newAnalyzeCommand("psth", "Average fibers of each channel bin by bin", runPSTH)
	psthCmd.Flags().IntVar(&psthFibers, "fibers", 1, "Fibers per channel")

	analyzeCmd.AddCommand(averageCmd, isiCmd, subsampleCmd, rateCmd, refractoryCmd, psthCmd)
}
