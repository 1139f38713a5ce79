// Package trace provides per-customer transition recording for a simulation run.
// It does not import sim/; records are plain data.
package trace

// TransitionRecord captures one customer moving between lifecycle states.
// Server is set for the in-service and departed states. QueueDepth is the
// waiting room size right after the transition.
type TransitionRecord struct {
	CustomerID int     `json:"customerId"`
	Clock      float64 `json:"clock"`
	From       string  `json:"from"`
	To         string  `json:"to"`
	Server     int     `json:"server,omitempty"`
	QueueDepth int     `json:"queueDepth"`
	Priority   int     `json:"priority,omitempty"`
}
