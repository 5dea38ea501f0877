package sim

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
)

// === RandomSource ===

// RandomSource supplies every random draw consumed by the generators and the
// refractory filter. Implementations are not required to be safe for
// concurrent use; parallel generation gives each task its own source.
type RandomSource interface {
	// Uniform returns a value strictly inside (0, 1).
	Uniform() float64
	// Exponential returns -ln(Uniform())/rate. Callers guarantee rate > 0.
	Exponential(rate float64) float64
	// RefractoryWindow returns an integer drawn uniformly from [minPeriod, 2*minPeriod).
	// Returns 0 when minPeriod <= 0.
	RefractoryWindow(minPeriod int) int
}

// Source is the default RandomSource, backed by a seeded *rand.Rand.
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type Source struct {
	rng   *rand.Rand
	draws int64
}

// NewSource creates a Source seeded with seed.
func NewSource(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// NewSourceFromRand wraps an existing *rand.Rand, e.g. one handed out by
// PartitionedRNG.ForSubsystem.
func NewSourceFromRand(rng *rand.Rand) *Source {
	return &Source{rng: rng}
}

// Uniform returns a value in (0, 1). rand.Float64 covers [0, 1); zero is
// rejected and redrawn so the exponential draw never sees -ln(0).
func (s *Source) Uniform() float64 {
	for {
		s.draws++
		if u := s.rng.Float64(); u > 0 {
			return u
		}
	}
}

// Exponential returns an exponential variate with the given rate.
func (s *Source) Exponential(rate float64) float64 {
	return -math.Log(s.Uniform()) / rate
}

// RefractoryWindow returns minPeriod + floor(U*minPeriod).
func (s *Source) RefractoryWindow(minPeriod int) int {
	if minPeriod <= 0 {
		return 0
	}
	return minPeriod + int(math.Floor(s.Uniform()*float64(minPeriod)))
}

// Draws returns the number of uniform variates consumed so far.
func (s *Source) Draws() int64 {
	return s.draws
}

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible generation run.
// Two runs with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical spike matrices.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem Constants ===

const (
	// SubsystemSpikes is the RNG subsystem for sequential generation.
	// Uses master seed directly so NewSource(seed) and the partitioned
	// stream agree.
	SubsystemSpikes = "spikes"
)

// SubsystemChannel returns the subsystem name for channel c.
// Used by parallel generation for per-channel RNG isolation.
func SubsystemChannel(c int) string {
	return fmt.Sprintf("channel_%d", c)
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula:
//   - For SubsystemSpikes: uses masterSeed directly
//   - For all other subsystems: masterSeed XOR fnv1a64(subsystemName)
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	var derivedSeed int64
	if name == SubsystemSpikes {
		derivedSeed = int64(p.key)
	} else {
		derivedSeed = int64(p.key) ^ fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// SourceFor wraps ForSubsystem(name) in a Source.
func (p *PartitionedRNG) SourceFor(name string) *Source {
	return NewSourceFromRand(p.ForSubsystem(name))
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
