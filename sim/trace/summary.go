package trace

// TraceSummary aggregates statistics from a Recorder.
type TraceSummary struct {
	TotalTransitions int
	ByState          map[string]int // target state → count
	MaxQueueDepth    int
	ImmediateStarts  int // customers that entered service at their arrival instant
}

// Summarize computes aggregate statistics from a Recorder.
// Safe for nil or empty recorders (returns zero-value fields).
func Summarize(r *Recorder) *TraceSummary {
	summary := &TraceSummary{
		ByState: make(map[string]int),
	}
	if r == nil {
		return summary
	}

	queuedAt := make(map[int]float64)
	for _, t := range r.Transitions {
		summary.TotalTransitions++
		summary.ByState[t.To]++
		if t.QueueDepth > summary.MaxQueueDepth {
			summary.MaxQueueDepth = t.QueueDepth
		}
		switch t.To {
		case "queued":
			queuedAt[t.CustomerID] = t.Clock
		case "in-service":
			if at, ok := queuedAt[t.CustomerID]; ok && at == t.Clock {
				summary.ImmediateStarts++
			}
		}
	}
	return summary
}
