package trace

// TraceLevel controls the verbosity of transition tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelTransitions captures every customer state transition.
	TraceLevelTransitions TraceLevel = "transitions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:        true,
	TraceLevelTransitions: true,
	"":                    true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// Recorder collects transition records during a single simulation run.
type Recorder struct {
	Level       TraceLevel         `json:"level"`
	Transitions []TransitionRecord `json:"transitions"`
}

// NewRecorder creates a Recorder ready for recording.
// Returns nil for TraceLevelNone so callers can skip recording with a nil check.
func NewRecorder(level TraceLevel) *Recorder {
	if level == TraceLevelNone || level == "" {
		return nil
	}
	return &Recorder{
		Level:       level,
		Transitions: make([]TransitionRecord, 0),
	}
}

// RecordTransition appends a transition record. Safe on a nil Recorder.
func (r *Recorder) RecordTransition(record TransitionRecord) {
	if r == nil {
		return
	}
	r.Transitions = append(r.Transitions, record)
}
