package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// AverageChannels collapses the M rows of features into nbFeat rows.
// Row i of the result is the mean of rows i*n .. i*n+n-1 with n = M/nbFeat
// (integer division); the last group also absorbs the M - nbFeat*n
// leftover rows. Columns are averaged independently.
func AverageChannels(features mat.Matrix, nbFeat int) (*mat.Dense, error) {
	if features == nil {
		return nil, fmt.Errorf("%w: nil features", ErrShape)
	}
	m, cols := features.Dims()
	if m == 0 || cols == 0 {
		return nil, fmt.Errorf("%w: features has shape %dx%d", ErrShape, m, cols)
	}
	if nbFeat < 1 {
		return nil, fmt.Errorf("%w: feature count must be >= 1, got %d", ErrArgument, nbFeat)
	}
	if nbFeat >= m {
		return nil, fmt.Errorf("%w: %d channels cannot be averaged into %d features", ErrArgument, m, nbFeat)
	}

	n := m / nbFeat
	out := mat.NewDense(nbFeat, cols, nil)
	group := make([]float64, 0, n+m-nbFeat*n)
	for i := 0; i < nbFeat; i++ {
		lo, hi := i*n, (i+1)*n
		if i == nbFeat-1 {
			hi = m
		}
		for j := 0; j < cols; j++ {
			group = group[:0]
			for r := lo; r < hi; r++ {
				group = append(group, features.At(r, j))
			}
			out.Set(i, j, stat.Mean(group, nil))
		}
	}
	return out, nil
}
