package sim

import (
	"github.com/auditory-periphery/anspike/sim/trace"
)

// RefractoryFilter removes spikes that fall inside a stochastic dead time
// after a preceding spike.
//
// Each spike at bin t draws its own window w from [AbsRefInt, 2*AbsRefInt),
// clipped to min(w, T-1-t), and clears bins t+1..t+w. The next eligible bin is
// t+w+1. Cleared bins are false and never open a window of their own.
type RefractoryFilter struct {
	AbsRefInt int                    // minimum refractory period in bins; < 1 disables the filter
	Trace     *trace.GenerationTrace // optional; nil disables recording
}

// NewRefractoryFilter creates a RefractoryFilter.
func NewRefractoryFilter(absRefInt int, tr *trace.GenerationTrace) *RefractoryFilter {
	return &RefractoryFilter{AbsRefInt: absRefInt, Trace: tr}
}

// Apply filters every row of spikes in place.
func (f *RefractoryFilter) Apply(spikes *SpikeMatrix, src RandomSource) {
	f.ApplyRows(spikes, 0, spikes.Rows(), src)
}

// ApplyRows filters rows [from, to) in place.
func (f *RefractoryFilter) ApplyRows(spikes *SpikeMatrix, from, to int, src RandomSource) {
	if f.AbsRefInt < 1 {
		return
	}
	for row := from; row < to; row++ {
		f.applyRow(spikes.Row(row), row, src)
	}
}

func (f *RefractoryFilter) applyRow(train []bool, row int, src RandomSource) {
	last := len(train) - 1
	for t := 0; t <= last; t++ {
		if !train[t] {
			continue
		}
		window := src.RefractoryWindow(f.AbsRefInt)
		if t+window > last {
			window = last - t
		}
		cleared := 0
		for k := t + 1; k <= t+window; k++ {
			if train[k] {
				train[k] = false
				cleared++
			}
		}
		f.Trace.RecordRefractory(trace.RefractoryRecord{Row: row, Bin: t, Window: window, Cleared: cleared})
	}
}
