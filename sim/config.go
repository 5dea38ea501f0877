package sim

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Algorithm selects the point-process simulation method.
type Algorithm int

const (
	// AlgorithmThinning simulates candidate arrivals at the channel's maximum
	// rate and accepts each with probability rate/maxRate. Default.
	AlgorithmThinning Algorithm = 1
	// AlgorithmBinning draws one Bernoulli trial per bin with the raw rate
	// as probability.
	AlgorithmBinning Algorithm = 2
)

// validAlgorithms maps accepted algorithm names.
var validAlgorithms = map[string]Algorithm{
	"thinning": AlgorithmThinning,
	"binning":  AlgorithmBinning,
}

func (a Algorithm) String() string {
	switch a {
	case AlgorithmThinning:
		return "thinning"
	case AlgorithmBinning:
		return "binning"
	default:
		return fmt.Sprintf("algorithm(%d)", int(a))
	}
}

// IsValid reports whether a is a known algorithm id.
func (a Algorithm) IsValid() bool {
	return a == AlgorithmThinning || a == AlgorithmBinning
}

// ParseAlgorithm accepts a name ("thinning", "binning") or a numeric id ("1", "2").
func ParseAlgorithm(s string) (Algorithm, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if a, ok := validAlgorithms[name]; ok {
		return a, nil
	}
	if id, err := strconv.Atoi(name); err == nil && Algorithm(id).IsValid() {
		return Algorithm(id), nil
	}
	return 0, fmt.Errorf("%w: unknown algorithm %q; valid: thinning (1), binning (2)", ErrInvalidConfig, s)
}

// UnmarshalYAML accepts either form ParseAlgorithm does.
func (a *Algorithm) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseAlgorithm(value.Value)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalYAML writes the algorithm name.
func (a Algorithm) MarshalYAML() (any, error) {
	return a.String(), nil
}

// GenerationConfig groups the parameters of one generation call.
// Constructed once per call and never mutated by the pipeline.
type GenerationConfig struct {
	Fibers         int       // independent fibers per channel (must be >= 1)
	RefractoryBins int       // absolute refractory period in bins (0 disables)
	Algorithm      Algorithm // AlgorithmThinning or AlgorithmBinning
	Workers        int       // parallel generation task limit (0 = GOMAXPROCS); ignored by Generate
}

// NewGenerationConfig creates a GenerationConfig for sequential generation.
func NewGenerationConfig(fibers, refractoryBins int, algorithm Algorithm) GenerationConfig {
	return GenerationConfig{
		Fibers:         fibers,
		RefractoryBins: refractoryBins,
		Algorithm:      algorithm,
	}
}

// Validate checks every field and returns the first violation.
func (c GenerationConfig) Validate() error {
	if !c.Algorithm.IsValid() {
		return fmt.Errorf("%w: algorithm must be 1 (thinning) or 2 (binning), got %d", ErrInvalidConfig, int(c.Algorithm))
	}
	if c.Fibers < 1 {
		return fmt.Errorf("%w: fibers must be >= 1, got %d", ErrInvalidConfig, c.Fibers)
	}
	if c.RefractoryBins < 0 {
		return fmt.Errorf("%w: refractory_bins must be non-negative, got %d", ErrInvalidConfig, c.RefractoryBins)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be non-negative, got %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}
