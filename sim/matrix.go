package sim

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// === RateMatrix ===

// RateMatrix holds per-channel, per-bin firing rates in expected spikes per bin.
// Rows are channels, columns are time bins. A RateMatrix owns a private copy
// of its data and is never mutated after construction, so it can be shared
// read-only across fibers and goroutines.
type RateMatrix struct {
	dense *mat.Dense
}

// NewRateMatrix builds a RateMatrix from one slice per channel.
// All rows must share the same non-zero length and every value must be finite.
// Negative values are accepted and read as zero rate.
func NewRateMatrix(rows [][]float64) (*RateMatrix, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: rate matrix has no channels", ErrInvalidConfig)
	}
	bins := len(rows[0])
	if bins == 0 {
		return nil, fmt.Errorf("%w: rate matrix has no time bins", ErrInvalidConfig)
	}
	data := make([]float64, 0, len(rows)*bins)
	for c, row := range rows {
		if len(row) != bins {
			return nil, fmt.Errorf("%w: rate matrix row %d has %d bins, want %d", ErrInvalidConfig, c, len(row), bins)
		}
		data = append(data, row...)
	}
	return newRateMatrix(mat.NewDense(len(rows), bins, data))
}

// NewRateMatrixFromDense copies m into a RateMatrix.
func NewRateMatrixFromDense(m mat.Matrix) (*RateMatrix, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil rate matrix", ErrInvalidConfig)
	}
	if d, ok := m.(*mat.Dense); ok && d.IsEmpty() {
		return nil, fmt.Errorf("%w: empty rate matrix", ErrInvalidConfig)
	}
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return nil, fmt.Errorf("%w: rate matrix has shape %dx%d", ErrInvalidConfig, r, c)
	}
	return newRateMatrix(mat.DenseCopyOf(m))
}

func newRateMatrix(d *mat.Dense) (*RateMatrix, error) {
	r, _ := d.Dims()
	for c := 0; c < r; c++ {
		for t, v := range d.RawRowView(c) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: rate[%d][%d] must be a finite number, got %f", ErrInvalidConfig, c, t, v)
			}
		}
	}
	return &RateMatrix{dense: d}, nil
}

// Dims returns the number of channels and time bins.
func (m *RateMatrix) Dims() (channels, bins int) {
	return m.dense.Dims()
}

// Channels returns the number of channels (rows).
func (m *RateMatrix) Channels() int {
	r, _ := m.dense.Dims()
	return r
}

// Bins returns the number of time bins (columns).
func (m *RateMatrix) Bins() int {
	_, c := m.dense.Dims()
	return c
}

// At returns the raw rate of channel c at bin t, negative values included.
func (m *RateMatrix) At(c, t int) float64 {
	return m.dense.At(c, t)
}

// Row returns a copy of channel c's rates.
func (m *RateMatrix) Row(c int) []float64 {
	return mat.Row(nil, c, m.dense)
}

// row returns a read-only view of channel c's rates.
func (m *RateMatrix) row(c int) []float64 {
	return m.dense.RawRowView(c)
}

// MaxRate returns max(0, max_t rate[c][t]), the dominating rate used by thinning.
func (m *RateMatrix) MaxRate(c int) float64 {
	return math.Max(0, floats.Max(m.row(c)))
}

// Dense returns a copy of the rates as a gonum matrix.
func (m *RateMatrix) Dense() *mat.Dense {
	return mat.DenseCopyOf(m.dense)
}

// === SpikeMatrix ===

// SpikeMatrix is a rows×bins grid of spike flags stored row-major.
// For generator output, row r belongs to channel r/fibers.
type SpikeMatrix struct {
	rows, cols int
	data       []bool
}

// NewSpikeMatrix allocates an all-false rows×cols SpikeMatrix.
func NewSpikeMatrix(rows, cols int) (*SpikeMatrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: spike matrix dimensions must be > 0, got %dx%d", ErrInvalidConfig, rows, cols)
	}
	return &SpikeMatrix{rows: rows, cols: cols, data: make([]bool, rows*cols)}, nil
}

// SpikeMatrixFromRows builds a SpikeMatrix from equal-length rows.
func SpikeMatrixFromRows(rows [][]bool) (*SpikeMatrix, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: spike matrix has no rows", ErrInvalidConfig)
	}
	m, err := NewSpikeMatrix(len(rows), len(rows[0]))
	if err != nil {
		return nil, err
	}
	for r, row := range rows {
		if len(row) != m.cols {
			return nil, fmt.Errorf("%w: spike matrix row %d has %d bins, want %d", ErrInvalidConfig, r, len(row), m.cols)
		}
		copy(m.Row(r), row)
	}
	return m, nil
}

// Dims returns the number of rows and bins.
func (m *SpikeMatrix) Dims() (rows, cols int) {
	return m.rows, m.cols
}

// Rows returns the number of spike trains.
func (m *SpikeMatrix) Rows() int { return m.rows }

// Cols returns the number of time bins.
func (m *SpikeMatrix) Cols() int { return m.cols }

// At reports whether row r has a spike at bin t.
func (m *SpikeMatrix) At(r, t int) bool {
	return m.data[r*m.cols+t]
}

// Set stores a spike flag at (r, t).
func (m *SpikeMatrix) Set(r, t int, v bool) {
	m.data[r*m.cols+t] = v
}

// Row returns a mutable view of row r.
func (m *SpikeMatrix) Row(r int) []bool {
	return m.data[r*m.cols : (r+1)*m.cols : (r+1)*m.cols]
}

// Count returns the total number of spikes.
func (m *SpikeMatrix) Count() int {
	n := 0
	for _, v := range m.data {
		if v {
			n++
		}
	}
	return n
}

// RowCount returns the number of spikes in row r.
func (m *SpikeMatrix) RowCount(r int) int {
	n := 0
	for _, v := range m.Row(r) {
		if v {
			n++
		}
	}
	return n
}

// Clone returns a deep copy.
func (m *SpikeMatrix) Clone() *SpikeMatrix {
	data := make([]bool, len(m.data))
	copy(data, m.data)
	return &SpikeMatrix{rows: m.rows, cols: m.cols, data: data}
}

// Equal reports whether both matrices have the same shape and flags.
func (m *SpikeMatrix) Equal(o *SpikeMatrix) bool {
	if o == nil || m.rows != o.rows || m.cols != o.cols {
		return false
	}
	for i, v := range m.data {
		if o.data[i] != v {
			return false
		}
	}
	return true
}

// String renders one line of 0/1 per row.
func (m *SpikeMatrix) String() string {
	var b strings.Builder
	for r := 0; r < m.rows; r++ {
		for _, v := range m.Row(r) {
			if v {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
