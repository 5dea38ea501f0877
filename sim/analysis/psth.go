package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/auditory-periphery/anspike/sim"
)

// PSTH averages the fibers of every channel bin by bin. spikes must hold
// channels*fibers rows laid out as the generators write them; the result is
// channels×bins with values in [0, 1].
func PSTH(spikes *sim.SpikeMatrix, fibers int) (*mat.Dense, error) {
	if spikes == nil {
		return nil, fmt.Errorf("%w: nil spike matrix", ErrShape)
	}
	if fibers < 1 {
		return nil, fmt.Errorf("%w: fibers must be >= 1, got %d", ErrArgument, fibers)
	}
	rows, bins := spikes.Dims()
	if rows%fibers != 0 {
		return nil, fmt.Errorf("%w: %d rows are not a multiple of %d fibers", ErrShape, rows, fibers)
	}

	channels := rows / fibers
	out := mat.NewDense(channels, bins, nil)
	for c := 0; c < channels; c++ {
		acc := out.RawRowView(c)
		for r := c * fibers; r < (c+1)*fibers; r++ {
			for t, v := range spikes.Row(r) {
				if v {
					acc[t]++
				}
			}
		}
		for t := range acc {
			acc[t] /= float64(fibers)
		}
	}
	return out, nil
}

// MeanRates returns the mean of every row of m, e.g. the average spikes per
// bin of each channel of a PSTH.
func MeanRates(m mat.Matrix) []float64 {
	rows, _ := m.Dims()
	out := make([]float64, rows)
	for r := range out {
		out[r] = stat.Mean(mat.Row(nil, r, m), nil)
	}
	return out
}

// SpikesToDense converts flags to a 0/1 matrix with the same shape.
func SpikesToDense(spikes *sim.SpikeMatrix) *mat.Dense {
	rows, cols := spikes.Dims()
	out := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		dst := out.RawRowView(r)
		for t, v := range spikes.Row(r) {
			if v {
				dst[t] = 1
			}
		}
	}
	return out
}
