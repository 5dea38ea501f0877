package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// DeterministicRefractory applies refractoriness to firing probabilities
// without sampling. prob is M×N with time along columns. Column 0 is copied;
// for t >= 1
//
//	out[r][t] = prob[r][t] · (1 - Σ_{b<h} weights[b] · out[r][t-1-b])
//
// where the history length h is t while t·dt < horizon and ⌊horizon/dt⌋
// afterwards. weights must cover the longest history reached.
func DeterministicRefractory(prob mat.Matrix, weights []float64, dt, horizon float64) (*mat.Dense, error) {
	if prob == nil {
		return nil, fmt.Errorf("%w: nil probability matrix", ErrShape)
	}
	rows, cols := prob.Dims()
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("%w: probability matrix has shape %dx%d", ErrShape, rows, cols)
	}
	if !(dt > 0) || math.IsInf(dt, 0) {
		return nil, fmt.Errorf("%w: dt must be positive and finite, got %v", ErrArgument, dt)
	}
	if !(horizon >= 0) || math.IsInf(horizon, 0) {
		return nil, fmt.Errorf("%w: horizon must be non-negative and finite, got %v", ErrArgument, horizon)
	}
	if need := historyLength(cols-1, dt, horizon); len(weights) < need {
		return nil, fmt.Errorf("%w: %d weights cannot cover a history of %d bins", ErrArgument, len(weights), need)
	}

	out := mat.DenseCopyOf(prob)
	for r := 0; r < rows; r++ {
		row := out.RawRowView(r)
		for t := 1; t < cols; t++ {
			h := historyLength(t, dt, horizon)
			sum := 0.0
			for b := 0; b < h; b++ {
				sum += weights[b] * row[t-1-b]
			}
			row[t] *= 1 - sum
		}
	}
	return out, nil
}

// historyLength returns how many previous bins bin t looks back at. It is
// non-decreasing in t, so the last bin gives the longest history.
func historyLength(t int, dt, horizon float64) int {
	if float64(t)*dt < horizon {
		return t
	}
	return int(horizon / dt)
}
