// Package stimulus builds rate matrices for the spike generators, either from
// a YAML description of per-channel rate profiles or from CSV files.
package stimulus

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// StimulusSpec describes a rate matrix as one profile per channel.
// Loaded from YAML via LoadStimulusSpec(path).
type StimulusSpec struct {
	Bins     int           `yaml:"bins"`
	Channels []ChannelSpec `yaml:"channels"`
}

// ChannelSpec defines the rate profile of one channel, optionally repeated.
type ChannelSpec struct {
	Profile string             `yaml:"profile"`
	Params  map[string]float64 `yaml:"params,omitempty"`
	Repeat  int                `yaml:"repeat,omitempty"` // identical copies (0 = 1)
}

// profileParams lists required and optional parameters per profile.
var profileParams = map[string]struct {
	required []string
	optional []string
}{
	"constant":     {required: []string{"rate"}},
	"sine_squared": {required: []string{"amplitude", "step"}, optional: []string{"offset"}},
	"step":         {required: []string{"rate", "onset", "offset"}, optional: []string{"spont"}},
	"ramp":         {required: []string{"from", "to"}},
	"tone_burst":   {required: []string{"rate", "spont", "onset", "duration"}, optional: []string{"tau"}},
}

// validProfileNames returns the registered profile names, sorted.
func validProfileNames() []string {
	names := make([]string, 0, len(profileParams))
	for name := range profileParams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsValidProfile reports whether name is a registered rate profile.
func IsValidProfile(name string) bool {
	_, ok := profileParams[name]
	return ok
}

// LoadStimulusSpec reads and parses a YAML stimulus file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadStimulusSpec(path string) (*StimulusSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading stimulus spec: %w", err)
	}
	return ParseStimulusSpec(data)
}

// ParseStimulusSpec parses YAML bytes strictly.
func ParseStimulusSpec(data []byte) (*StimulusSpec, error) {
	var spec StimulusSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing stimulus spec: %w", err)
	}
	return &spec, nil
}

// Validate checks that all fields in the spec are valid.
func (s *StimulusSpec) Validate() error {
	if s.Bins < 1 {
		return fmt.Errorf("bins must be >= 1, got %d", s.Bins)
	}
	if len(s.Channels) == 0 {
		return fmt.Errorf("at least one channel required")
	}
	for i := range s.Channels {
		if err := validateChannel(&s.Channels[i], i); err != nil {
			return err
		}
	}
	return nil
}

// NumChannels returns the number of rate rows Build produces.
func (s *StimulusSpec) NumChannels() int {
	n := 0
	for _, c := range s.Channels {
		n += c.copies()
	}
	return n
}

func (c *ChannelSpec) copies() int {
	if c.Repeat == 0 {
		return 1
	}
	return c.Repeat
}

func validateChannel(c *ChannelSpec, idx int) error {
	prefix := fmt.Sprintf("channels[%d]", idx)
	def, ok := profileParams[c.Profile]
	if !ok {
		return fmt.Errorf("%s: unknown profile %q; valid: %s", prefix, c.Profile, strings.Join(validProfileNames(), ", "))
	}
	if c.Repeat < 0 {
		return fmt.Errorf("%s: repeat must be non-negative, got %d", prefix, c.Repeat)
	}
	allowed := make(map[string]bool, len(def.required)+len(def.optional))
	for _, name := range def.required {
		allowed[name] = true
		if _, ok := c.Params[name]; !ok {
			return fmt.Errorf("%s.params.%s is required for profile %q", prefix, name, c.Profile)
		}
	}
	for _, name := range def.optional {
		allowed[name] = true
	}
	for name, val := range c.Params {
		if !allowed[name] {
			return fmt.Errorf("%s.params.%s is not a parameter of profile %q", prefix, name, c.Profile)
		}
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return fmt.Errorf("%s.params.%s must be a finite number, got %f", prefix, name, val)
		}
	}
	for _, name := range []string{"onset", "offset", "duration", "tau"} {
		if v, ok := c.Params[name]; ok && v < 0 {
			return fmt.Errorf("%s.params.%s must be non-negative, got %f", prefix, name, v)
		}
	}
	return nil
}
