package stimulus

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/auditory-periphery/anspike/sim"
)

// Build validates spec and renders it as a RateMatrix, one row per channel
// copy, in declaration order. Rates are expected spikes per bin.
func Build(spec *StimulusSpec) (*sim.RateMatrix, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	rows := make([][]float64, 0, spec.NumChannels())
	for _, c := range spec.Channels {
		row := render(c.Profile, c.Params, spec.Bins)
		for k := 0; k < c.copies(); k++ {
			rows = append(rows, append([]float64(nil), row...))
		}
	}
	return sim.NewRateMatrix(rows)
}

// render evaluates one profile over bins. p has been validated.
func render(profile string, p map[string]float64, bins int) []float64 {
	row := make([]float64, bins)
	switch profile {
	case "constant":
		for t := range row {
			row[t] = p["rate"]
		}
	case "sine_squared":
		for t := range row {
			s := math.Sin(float64(t)*p["step"] + p["offset"])
			row[t] = p["amplitude"] * s * s
		}
	case "step":
		for t := range row {
			if x := float64(t); x >= p["onset"] && x < p["offset"] {
				row[t] = p["rate"]
			} else {
				row[t] = p["spont"]
			}
		}
	case "ramp":
		if bins == 1 {
			row[0] = p["from"]
		} else {
			floats.Span(row, p["from"], p["to"])
		}
	case "tone_burst":
		// Spontaneous rate outside the burst; inside, the driven rate with an
		// onset peak of twice the driven increment decaying with tau bins.
		onset, end := p["onset"], p["onset"]+p["duration"]
		driven := p["rate"] - p["spont"]
		for t := range row {
			x := float64(t)
			if x < onset || x >= end {
				row[t] = p["spont"]
				continue
			}
			gain := 1.0
			if tau := p["tau"]; tau > 0 {
				gain += math.Exp(-(x - onset) / tau)
			}
			row[t] = p["spont"] + driven*gain
		}
	}
	return row
}
