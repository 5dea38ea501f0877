package cmd

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// CLI flags for generation
	configPath     string // Experiment YAML file
	ratesPath      string // Rate CSV, one channel per line
	seed           int64  // Seed for spike generation
	fibers         int    // Fibers per channel
	refractoryBins int    // Absolute refractory period in bins
	algorithmName  string // thinning|binning or 1|2
	workers        int    // Parallel channel tasks (1 = sequential)
	traceLevel     string // Trace verbosity
	outputPath     string // Spike CSV destination
	plotPSTH       bool   // Render per-channel PSTH to stdout
	logLevel       string // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "anspike",
	Short: "Auditory-nerve spike-train generator",
}

// generateCmd draws spike trains from a rate matrix
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate spike trains from per-channel firing rates",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		exp := defaultExperiment()
		if configPath != "" {
			loaded, err := loadExperiment(configPath)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			exp = loaded
		}
		if err := applyFlagOverrides(cmd, &exp); err != nil {
			logrus.Fatalf("%v", err)
		}

		summary, err := runExperiment(context.Background(), exp, plotPSTH, os.Stdout)
		if err != nil {
			logrus.Fatalf("Generation failed: %v", err)
		}
		if err := summary.Print(os.Stdout); err != nil {
			logrus.Fatalf("Writing summary: %v", err)
		}
		logrus.Info("Generation complete.")
	},
}

// setupLogging applies --log to the global logger.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	generateCmd.Flags().StringVar(&configPath, "config", "", "Experiment YAML file; explicit flags override its values")
	generateCmd.Flags().StringVar(&ratesPath, "rates", "", "Rate matrix CSV (rows = channels, columns = bins, spikes per bin)")
	generateCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for spike generation")
	generateCmd.Flags().IntVar(&fibers, "fibers", 1, "Independent fibers per channel")
	generateCmd.Flags().IntVar(&refractoryBins, "refractory", 0, "Absolute refractory period in bins (0 disables)")
	generateCmd.Flags().StringVar(&algorithmName, "algorithm", "thinning", "Generation algorithm: thinning (1) or binning (2)")
	generateCmd.Flags().IntVar(&workers, "workers", 1, "Parallel channel tasks (1 = sequential, 0 = GOMAXPROCS)")
	generateCmd.Flags().StringVar(&traceLevel, "trace", "", "Trace level: none, summary, events")
	generateCmd.Flags().StringVar(&outputPath, "output", "", "Write spike trains as 0/1 CSV to this file")
	generateCmd.Flags().BoolVar(&plotPSTH, "plot", false, "Plot each channel's PSTH in the terminal")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(analyzeCmd)
}
