package sim

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/auditory-periphery/anspike/sim/trace"
)

// Generator fills the spike trains of one channel.
type Generator interface {
	// Generate writes rows c*fibers .. (c+1)*fibers-1 of spikes from rate row c.
	// Rows are assumed all-false on entry.
	Generate(rates *RateMatrix, c, fibers int, spikes *SpikeMatrix, src RandomSource)
}

// NewGenerator creates the Generator for algorithm. tr may be nil.
func NewGenerator(algorithm Algorithm, tr *trace.GenerationTrace) (Generator, error) {
	switch algorithm {
	case AlgorithmThinning:
		return &ThinningGenerator{Trace: tr}, nil
	case AlgorithmBinning:
		return &BinningGenerator{Trace: tr}, nil
	default:
		return nil, fmt.Errorf("%w: algorithm must be 1 (thinning) or 2 (binning), got %d", ErrInvalidConfig, int(algorithm))
	}
}

// Generate runs the full pipeline on a single goroutine: validate, allocate
// a (channels*fibers)×bins SpikeMatrix, run the selected generator over every
// channel, then apply the RefractoryFilter when cfg.RefractoryBins >= 1.
//
// All draws come from src in a fixed order, so a seeded src reproduces the
// output exactly. tr may be nil. On error the returned matrix is nil.
func Generate(rates *RateMatrix, cfg GenerationConfig, src RandomSource, tr *trace.GenerationTrace) (*SpikeMatrix, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidConfig)
	}
	spikes, gen, err := prepare(rates, cfg, tr)
	if err != nil {
		return nil, err
	}

	for c := 0; c < rates.Channels(); c++ {
		gen.Generate(rates, c, cfg.Fibers, spikes, src)
	}
	NewRefractoryFilter(cfg.RefractoryBins, tr).Apply(spikes, src)

	logrus.Infof("Generated %d spikes across %d trains", spikes.Count(), spikes.Rows())
	return spikes, nil
}

// GenerateParallel runs one task per channel on up to cfg.Workers goroutines
// (0 = GOMAXPROCS). Each channel draws from its own stream derived from key
// via PartitionedRNG, so the output depends on key only, never on scheduling
// or worker count. Each task applies the RefractoryFilter to its own row block.
//
// Per-task traces are merged into tr in channel order. Cancelling ctx stops
// tasks that have not started; the returned matrix is then nil.
func GenerateParallel(ctx context.Context, rates *RateMatrix, cfg GenerationConfig, key SimulationKey, tr *trace.GenerationTrace) (*SpikeMatrix, error) {
	spikes, _, err := prepare(rates, cfg, tr)
	if err != nil {
		return nil, err
	}

	channels := rates.Channels()
	// PartitionedRNG is single-goroutine; derive every stream up front.
	prng := NewPartitionedRNG(key)
	sources := make([]*Source, channels)
	traces := make([]*trace.GenerationTrace, channels)
	for c := range sources {
		sources[c] = prng.SourceFor(SubsystemChannel(c))
		if tr != nil {
			traces[c] = trace.NewGenerationTrace(tr.Config)
		}
	}

	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	logrus.Debugf("parallel generation: %d channels on %d workers", channels, workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for c := 0; c < channels; c++ {
		c := c // per-iteration copy (pre-Go 1.22 loop semantics)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			gen, err := NewGenerator(cfg.Algorithm, traces[c])
			if err != nil {
				return err
			}
			gen.Generate(rates, c, cfg.Fibers, spikes, sources[c])
			NewRefractoryFilter(cfg.RefractoryBins, traces[c]).ApplyRows(spikes, c*cfg.Fibers, (c+1)*cfg.Fibers, sources[c])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, t := range traces {
		tr.Merge(t)
	}

	logrus.Infof("Generated %d spikes across %d trains", spikes.Count(), spikes.Rows())
	return spikes, nil
}

// prepare validates inputs, selects the generator and allocates the output.
func prepare(rates *RateMatrix, cfg GenerationConfig, tr *trace.GenerationTrace) (*SpikeMatrix, Generator, error) {
	if rates == nil {
		return nil, nil, fmt.Errorf("%w: nil rate matrix", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	gen, err := NewGenerator(cfg.Algorithm, tr)
	if err != nil {
		return nil, nil, err
	}

	channels, bins := rates.Dims()
	if cfg.Fibers > math.MaxInt32/channels {
		return nil, nil, fmt.Errorf("%w: %d channels x %d fibers exceeds the row limit", ErrInvalidConfig, channels, cfg.Fibers)
	}
	spikes, err := NewSpikeMatrix(channels*cfg.Fibers, bins)
	if err != nil {
		return nil, nil, err
	}

	logrus.Infof("Generating %d spike trains (%d channels x %d fibers, %d bins) with %s, refractory=%d bins",
		spikes.Rows(), channels, cfg.Fibers, bins, cfg.Algorithm, cfg.RefractoryBins)
	if cfg.Algorithm == AlgorithmBinning {
		if n := countAboveOne(rates); n > 0 {
			logrus.Warnf("binning: %d rate entries exceed 1 spike/bin and will always fire; thinning handles high rates exactly", n)
		}
	}
	return spikes, gen, nil
}
