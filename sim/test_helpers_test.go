package sim

import (
	"math"
	"testing"
)

// scriptedSource replays fixed uniform draws and refractory windows, cycling
// when a script runs out. It counts every draw.
type scriptedSource struct {
	uniforms []float64
	windows  []int
	ui, wi   int
}

func (s *scriptedSource) Uniform() float64 {
	v := s.uniforms[s.ui%len(s.uniforms)]
	s.ui++
	return v
}

func (s *scriptedSource) Exponential(rate float64) float64 {
	return -math.Log(s.Uniform()) / rate
}

func (s *scriptedSource) RefractoryWindow(minPeriod int) int {
	if minPeriod <= 0 {
		return 0
	}
	w := s.windows[s.wi%len(s.windows)]
	s.wi++
	return w
}

// expUniform returns the uniform draw u for which -ln(u)/rate == gap.
func expUniform(gap, rate float64) float64 {
	return math.Exp(-gap * rate)
}

// mustRates builds a RateMatrix or fails the test.
func mustRates(t *testing.T, rows ...[]float64) *RateMatrix {
	t.Helper()
	m, err := NewRateMatrix(rows)
	if err != nil {
		t.Fatalf("NewRateMatrix: %v", err)
	}
	return m
}

// mustSpikes builds a SpikeMatrix from 0/1 rows or fails the test.
func mustSpikes(t *testing.T, rows ...[]int) *SpikeMatrix {
	t.Helper()
	bools := make([][]bool, len(rows))
	for r, row := range rows {
		bools[r] = make([]bool, len(row))
		for i, v := range row {
			bools[r][i] = v != 0
		}
	}
	m, err := SpikeMatrixFromRows(bools)
	if err != nil {
		t.Fatalf("SpikeMatrixFromRows: %v", err)
	}
	return m
}

// constantRow returns n copies of rate.
func constantRow(rate float64, n int) []float64 {
	row := make([]float64, n)
	for i := range row {
		row[i] = rate
	}
	return row
}

// minSpikeGap returns the smallest bin distance between consecutive spikes in
// any row, or math.MaxInt when no row has two spikes.
func minSpikeGap(m *SpikeMatrix) int {
	gap := math.MaxInt
	for r := 0; r < m.Rows(); r++ {
		prev := -1
		for t, v := range m.Row(r) {
			if !v {
				continue
			}
			if prev >= 0 && t-prev < gap {
				gap = t - prev
			}
			prev = t
		}
	}
	return gap
}

// spikeFrequency returns the fraction of true cells in rows [from, to) and bins [lo, hi).
func spikeFrequency(m *SpikeMatrix, from, to, lo, hi int) float64 {
	n := 0
	for r := from; r < to; r++ {
		for _, v := range m.Row(r)[lo:hi] {
			if v {
				n++
			}
		}
	}
	return float64(n) / float64((to-from)*(hi-lo))
}
