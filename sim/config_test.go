package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNewGenerationConfig_FieldEquivalence(t *testing.T) {
	got := NewGenerationConfig(10, 3, AlgorithmBinning)
	want := GenerationConfig{
		Fibers:         10,
		RefractoryBins: 3,
		Algorithm:      AlgorithmBinning,
	}
	assert.Equal(t, want, got)
}

func TestGenerationConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     GenerationConfig
		wantErr string
	}{
		{"thinning ok", NewGenerationConfig(1, 0, AlgorithmThinning), ""},
		{"binning ok", NewGenerationConfig(50, 10, AlgorithmBinning), ""},
		{"unknown algorithm", NewGenerationConfig(1, 0, Algorithm(3)), "algorithm must be 1 (thinning) or 2 (binning)"},
		{"zero algorithm", NewGenerationConfig(1, 0, Algorithm(0)), "algorithm must be"},
		{"zero fibers", NewGenerationConfig(0, 0, AlgorithmThinning), "fibers must be >= 1"},
		{"negative refractory", NewGenerationConfig(1, -1, AlgorithmThinning), "refractory_bins must be non-negative"},
		{"negative workers", GenerationConfig{Fibers: 1, Algorithm: AlgorithmThinning, Workers: -2}, "workers must be non-negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "error should wrap ErrInvalidConfig: %v", err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		in      string
		want    Algorithm
		wantErr bool
	}{
		{"thinning", AlgorithmThinning, false},
		{"Binning", AlgorithmBinning, false},
		{" 1 ", AlgorithmThinning, false},
		{"2", AlgorithmBinning, false},
		{"3", 0, true},
		{"poisson", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAlgorithm(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAlgorithm_String(t *testing.T) {
	assert.Equal(t, "thinning", AlgorithmThinning.String())
	assert.Equal(t, "binning", AlgorithmBinning.String())
	assert.Equal(t, "algorithm(7)", Algorithm(7).String())
}

func TestAlgorithm_YAMLRoundTrip(t *testing.T) {
	// GIVEN a struct carrying an Algorithm in either accepted form
	type doc struct {
		Algorithm Algorithm `yaml:"algorithm"`
	}
	var byName, byID doc
	require.NoError(t, yaml.Unmarshal([]byte("algorithm: binning\n"), &byName))
	require.NoError(t, yaml.Unmarshal([]byte("algorithm: 1\n"), &byID))

	// THEN both decode, and encoding writes the name
	assert.Equal(t, AlgorithmBinning, byName.Algorithm)
	assert.Equal(t, AlgorithmThinning, byID.Algorithm)
	out, err := yaml.Marshal(byName)
	require.NoError(t, err)
	assert.Equal(t, "algorithm: binning\n", string(out))

	// AND an unknown value is rejected
	var bad doc
	assert.Error(t, yaml.Unmarshal([]byte("algorithm: gamma\n"), &bad))
}
