package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// WindowedRate convolves column spike trains with a weighting window at the
// given start bins. trains is M×N with time along rows; the result is
// len(starts)×N with
//
//	out[i][n] = Σ_k trains[starts[i]+k][n] · weights[k]
//
// Every window must fit inside the M rows.
func WindowedRate(trains mat.Matrix, starts []int, weights []float64) (*mat.Dense, error) {
	if trains == nil {
		return nil, fmt.Errorf("%w: nil spike trains", ErrShape)
	}
	m, n := trains.Dims()
	if m == 0 || n == 0 {
		return nil, fmt.Errorf("%w: spike trains have shape %dx%d", ErrShape, m, n)
	}
	if len(starts) == 0 {
		return nil, fmt.Errorf("%w: no window start indices", ErrArgument)
	}
	if len(weights) == 0 {
		return nil, fmt.Errorf("%w: empty weighting window", ErrArgument)
	}
	for i, s := range starts {
		if s < 0 || s+len(weights) > m {
			return nil, fmt.Errorf("%w: window %d at start %d with length %d exceeds %d bins", ErrArgument, i, s, len(weights), m)
		}
	}

	out := mat.NewDense(len(starts), n, nil)
	col := make([]float64, m)
	for j := 0; j < n; j++ {
		mat.Col(col, j, trains)
		for i, s := range starts {
			out.Set(i, j, floats.Dot(col[s:s+len(weights)], weights))
		}
	}
	return out, nil
}
