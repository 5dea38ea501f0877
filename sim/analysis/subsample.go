package analysis

import (
	"fmt"

	"github.com/auditory-periphery/anspike/sim"
)

// Subsample thins every row of spikes in place, keeping one spike in n.
// Spikes are numbered 0, 1, 2, ... in encounter order within a row and only
// those with index divisible by n survive, so the first spike is always kept.
func Subsample(spikes *sim.SpikeMatrix, n int) error {
	if spikes == nil {
		return fmt.Errorf("%w: nil spike matrix", ErrShape)
	}
	if n < 1 {
		return fmt.Errorf("%w: subsampling factor must be >= 1, got %d", ErrArgument, n)
	}
	for r := 0; r < spikes.Rows(); r++ {
		k := 0
		train := spikes.Row(r)
		for t, v := range train {
			if !v {
				continue
			}
			train[t] = k%n == 0
			k++
		}
	}
	return nil
}
