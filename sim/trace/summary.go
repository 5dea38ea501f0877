package trace

// TraceSummary aggregates statistics from a GenerationTrace.
type TraceSummary struct {
	Channels              int     `json:"channels"`
	SkippedChannels       int     `json:"skipped_channels"`
	Candidates            int     `json:"candidates"`
	Accepted              int     `json:"accepted"`
	AcceptanceRatio       float64 `json:"acceptance_ratio"`
	NonFiniteTerminations int     `json:"non_finite_terminations"`
	Windows               int     `json:"refractory_windows"`
	MeanWindow            float64 `json:"mean_refractory_window"`
	Suppressed            int     `json:"suppressed_spikes"`
}

// Summarize computes aggregate statistics from a GenerationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(gt *GenerationTrace) *TraceSummary {
	summary := &TraceSummary{}
	if gt == nil {
		return summary
	}

	c := gt.Counters
	summary.Channels = c.Channels
	summary.SkippedChannels = c.SkippedChannels
	summary.Candidates = c.Candidates
	summary.Accepted = c.Accepted
	summary.NonFiniteTerminations = c.NonFiniteTerminations
	summary.Windows = c.Windows
	summary.Suppressed = c.Suppressed

	// Occupied candidates never get an acceptance draw.
	if drawn := c.Candidates - c.Occupied; drawn > 0 {
		summary.AcceptanceRatio = float64(c.Accepted) / float64(drawn)
	}
	if c.Windows > 0 {
		summary.MeanWindow = float64(c.WindowBins) / float64(c.Windows)
	}
	return summary
}
