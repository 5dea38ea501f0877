// Package sim generates auditory-nerve spike trains from per-channel firing rates.
//
// # Reading Guide
//
// Start with these files to understand the generation pipeline:
//   - matrix.go: RateMatrix (input, channels × bins) and SpikeMatrix (output, (channels·fibers) × bins)
//   - rng.go: RandomSource, the seeded Source, and PartitionedRNG for per-channel streams
//   - generator.go: Generate / GenerateParallel, the validate → generate → refractory pipeline
//
// # Algorithms
//
//   - thinning.go: exact inhomogeneous Poisson simulation by rejection against the channel's max rate
//   - binning.go: one Bernoulli trial per bin with the raw rate as probability
//   - refractory.go: stochastic absolute refractory period, one window per spike
//
// Rows c*fibers .. (c+1)*fibers-1 of the output are independent realizations
// of rate row c.
//
// # Sub-packages
//
//   - sim/trace/: optional per-event recording and summaries
//   - sim/analysis/: channel averaging, windowed rates, ISI, subsampling,
//     deterministic refractoriness and PSTH
//   - sim/stimulus/: rate matrices from YAML profiles and CSV files
package sim
