package trace

// TraceLevel controls the verbosity of generation tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelSummary keeps counters only.
	TraceLevelSummary TraceLevel = "summary"
	// TraceLevelEvents keeps counters and every per-event record.
	TraceLevelEvents TraceLevel = "events"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:    true,
	TraceLevelSummary: true,
	TraceLevelEvents:  true,
	"":                true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// Counters aggregates events regardless of whether records are kept.
type Counters struct {
	Channels              int
	SkippedChannels       int
	Candidates            int
	Occupied              int
	Accepted              int
	BoundTerminations     int
	NonFiniteTerminations int
	Windows               int
	WindowBins            int // sum of clipped window lengths
	Suppressed            int // spikes cleared by refractory windows
}

// GenerationTrace collects events during one generation call.
//
// All Record methods are safe on a nil *GenerationTrace, so callers pass nil
// to disable tracing. Not safe for concurrent use; parallel generation keeps
// one trace per task and merges them afterwards.
type GenerationTrace struct {
	Config       TraceConfig
	Counters     Counters
	Channels     []ChannelRecord
	Candidates   []CandidateRecord
	Terminations []TerminationRecord
	Refractory   []RefractoryRecord
}

// NewGenerationTrace creates a GenerationTrace ready for recording.
// Returns nil for TraceLevelNone and the empty level.
func NewGenerationTrace(config TraceConfig) *GenerationTrace {
	if config.Level == TraceLevelNone || config.Level == "" {
		return nil
	}
	return &GenerationTrace{
		Config:       config,
		Channels:     make([]ChannelRecord, 0),
		Candidates:   make([]CandidateRecord, 0),
		Terminations: make([]TerminationRecord, 0),
		Refractory:   make([]RefractoryRecord, 0),
	}
}

func (gt *GenerationTrace) keepEvents() bool {
	return gt.Config.Level == TraceLevelEvents
}

// RecordChannel appends a channel record.
func (gt *GenerationTrace) RecordChannel(record ChannelRecord) {
	if gt == nil {
		return
	}
	gt.Counters.Channels++
	if record.Skipped {
		gt.Counters.SkippedChannels++
	}
	if gt.keepEvents() {
		gt.Channels = append(gt.Channels, record)
	}
}

// RecordCandidate appends a thinning candidate record.
func (gt *GenerationTrace) RecordCandidate(record CandidateRecord) {
	if gt == nil {
		return
	}
	gt.Counters.Candidates++
	if record.Occupied {
		gt.Counters.Occupied++
	}
	if record.Accepted {
		gt.Counters.Accepted++
	}
	if gt.keepEvents() {
		gt.Candidates = append(gt.Candidates, record)
	}
}

// RecordTermination appends a fiber termination record.
func (gt *GenerationTrace) RecordTermination(record TerminationRecord) {
	if gt == nil {
		return
	}
	switch record.Reason {
	case TerminationNonFinite:
		gt.Counters.NonFiniteTerminations++
	default:
		gt.Counters.BoundTerminations++
	}
	if gt.keepEvents() {
		gt.Terminations = append(gt.Terminations, record)
	}
}

// RecordRefractory appends a refractory window record.
func (gt *GenerationTrace) RecordRefractory(record RefractoryRecord) {
	if gt == nil {
		return
	}
	gt.Counters.Windows++
	gt.Counters.WindowBins += record.Window
	gt.Counters.Suppressed += record.Cleared
	if gt.keepEvents() {
		gt.Refractory = append(gt.Refractory, record)
	}
}

// Merge appends other's counters and records onto gt, preserving order.
// A nil receiver or argument is a no-op.
func (gt *GenerationTrace) Merge(other *GenerationTrace) {
	if gt == nil || other == nil {
		return
	}
	c := &gt.Counters
	o := other.Counters
	c.Channels += o.Channels
	c.SkippedChannels += o.SkippedChannels
	c.Candidates += o.Candidates
	c.Occupied += o.Occupied
	c.Accepted += o.Accepted
	c.BoundTerminations += o.BoundTerminations
	c.NonFiniteTerminations += o.NonFiniteTerminations
	c.Windows += o.Windows
	c.WindowBins += o.WindowBins
	c.Suppressed += o.Suppressed
	if gt.keepEvents() {
		gt.Channels = append(gt.Channels, other.Channels...)
		gt.Candidates = append(gt.Candidates, other.Candidates...)
		gt.Terminations = append(gt.Terminations, other.Terminations...)
		gt.Refractory = append(gt.Refractory, other.Refractory...)
	}
}
