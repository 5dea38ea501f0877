package cmd

import (
	"fmt"
	"io"

	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/mat"
)

// plotChannels renders one PSTH chart per channel row of psth.
func plotChannels(w io.Writer, psth *mat.Dense) error {
	channels, _ := psth.Dims()
	for c := 0; c < channels; c++ {
		graph := asciigraph.Plot(mat.Row(nil, c, psth),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("channel %d PSTH (spikes/bin)", c)),
		)
		if _, err := fmt.Fprintf(w, "%s\n\n", graph); err != nil {
			return err
		}
	}
	return nil
}
