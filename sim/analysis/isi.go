package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/auditory-periphery/anspike/sim"
)

// ISI encodes every train as its running inter-spike interval. Each row is
// split into segments that start at bin 0 and at every spike and run up to
// the next spike; every bin of a segment holds the segment length.
//
// For the row 0 1 0 0 1 the result is 1 3 3 3 1.
func ISI(spikes *sim.SpikeMatrix) *mat.Dense {
	rows, cols := spikes.Dims()
	dst := mat.NewDense(rows, cols, nil)
	fillISI(dst, spikes)
	return dst
}

// ISIInto writes the ISI encoding of spikes into dst, which must have the
// same shape.
func ISIInto(dst *mat.Dense, spikes *sim.SpikeMatrix) error {
	if dst == nil || spikes == nil {
		return fmt.Errorf("%w: nil matrix", ErrShape)
	}
	dr, dc := dst.Dims()
	sr, sc := spikes.Dims()
	if dr != sr || dc != sc {
		return fmt.Errorf("%w: destination is %dx%d, spikes are %dx%d", ErrShape, dr, dc, sr, sc)
	}
	fillISI(dst, spikes)
	return nil
}

func fillISI(dst *mat.Dense, spikes *sim.SpikeMatrix) {
	for r := 0; r < spikes.Rows(); r++ {
		train := spikes.Row(r)
		out := dst.RawRowView(r)
		base := 0
		for base < len(train) {
			next := base + 1
			for next < len(train) && !train[next] {
				next++
			}
			isi := float64(next - base)
			for t := base; t < next; t++ {
				out[t] = isi
			}
			base = next
		}
	}
}
