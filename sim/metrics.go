// Tracks the queue metrics produced by the analytical calculator and the
// simulator, plus the per-run breakdowns derived from resolved customers.

package sim

import (
	"math"
	"sort"
)

// QueueMetrics is the common record produced by both the Erlang-C calculator
// and the simulator. Times are in simulated time units; Utilization and
// IdleTime are percentages.
type QueueMetrics struct {
	Lq          float64 `json:"lq"`          // average number waiting
	Ls          float64 `json:"ls"`          // average number in system
	Wq          float64 `json:"wq"`          // average time waiting
	Ws          float64 `json:"ws"`          // average time in system
	Utilization float64 `json:"utilization"` // 0-100
	IdleTime    float64 `json:"idleTime"`    // 0-100
	Rho         float64 `json:"rho"`         // lambda/(c*mu)
}

// Distribution captures statistical summary of a metric.
type Distribution struct {
	Mean  float64 `json:"mean"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// NewDistribution computes a Distribution from raw values.
// Returns zero-value Distribution for empty input.
func NewDistribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}

	return Distribution{
		Mean:  sum / float64(len(sorted)),
		P50:   percentile(sorted, 50),
		P95:   percentile(sorted, 95),
		P99:   percentile(sorted, 99),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		Count: len(sorted),
	}
}

// percentile computes the p-th percentile using linear interpolation.
// Input must be sorted.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100.0 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// ServerStats is the per-server share of the work in one run.
type ServerStats struct {
	Server      int     `json:"server"`
	Served      int     `json:"served"`
	BusyTime    float64 `json:"busyTime"`
	Utilization float64 `json:"utilization"` // busy time / makespan, 0-100
}

// PriorityStats averages the timing fields of one priority class.
type PriorityStats struct {
	Priority          int     `json:"priority"`
	Count             int     `json:"count"`
	AvgWaitTime       float64 `json:"avgWaitTime"`
	AvgTurnaroundTime float64 `json:"avgTurnaroundTime"`
	AvgResponseTime   float64 `json:"avgResponseTime"`
	AvgServiceTime    float64 `json:"avgServiceTime"`
}

// Summary holds the run-level averages and breakdowns behind QueueMetrics.
// ByPriority is empty unless priority mode was on; classes with no
// customers are omitted.
type Summary struct {
	AvgWaitTime       float64         `json:"avgWaitTime"`
	AvgTurnaroundTime float64         `json:"avgTurnaroundTime"`
	AvgResponseTime   float64         `json:"avgResponseTime"`
	AvgServiceTime    float64         `json:"avgServiceTime"`
	MaxEndTime        float64         `json:"maxEndTime"`
	Servers           []ServerStats   `json:"servers"`
	ByPriority        []PriorityStats `json:"byPriority,omitempty"`
	WaitTime          Distribution    `json:"waitTime"`
	TurnaroundTime    Distribution    `json:"turnaroundTime"`
}

// Aggregate derives empirical QueueMetrics from resolved customers using
// Little's law on the observed averages. Utilization is total busy time over
// (makespan * c). Rho restates lambda/(mu*c) from the inputs.
func Aggregate(customers []*Customer, lambda, mu float64, c int, usePriority bool) (QueueMetrics, Summary) {
	var s Summary
	n := len(customers)
	if n == 0 {
		return QueueMetrics{Rho: lambda / (mu * float64(c))}, s
	}

	waits := make([]float64, 0, n)
	turnarounds := make([]float64, 0, n)
	servers := make([]ServerStats, c)
	for i := range servers {
		servers[i].Server = i + 1
	}
	var totalWait, totalTurnaround, totalResponse, totalService float64
	for _, cu := range customers {
		totalWait += cu.WaitTime
		totalTurnaround += cu.TurnaroundTime
		totalResponse += cu.ResponseTime
		totalService += cu.ServiceTime
		waits = append(waits, cu.WaitTime)
		turnarounds = append(turnarounds, cu.TurnaroundTime)
		if cu.EndTime > s.MaxEndTime {
			s.MaxEndTime = cu.EndTime
		}
		if cu.Server >= 1 && cu.Server <= c {
			st := &servers[cu.Server-1]
			st.Served++
			st.BusyTime += cu.EndTime - cu.StartServiceTime
		}
	}

	s.AvgWaitTime = totalWait / float64(n)
	s.AvgTurnaroundTime = totalTurnaround / float64(n)
	s.AvgResponseTime = totalResponse / float64(n)
	s.AvgServiceTime = totalService / float64(n)
	s.WaitTime = NewDistribution(waits)
	s.TurnaroundTime = NewDistribution(turnarounds)

	totalBusy := 0.0
	for i := range servers {
		totalBusy += servers[i].BusyTime
		if s.MaxEndTime > 0 {
			servers[i].Utilization = servers[i].BusyTime / s.MaxEndTime * 100
		}
	}
	s.Servers = servers

	utilization := 0.0
	if s.MaxEndTime > 0 {
		utilization = totalBusy / (s.MaxEndTime * float64(c)) * 100
	}

	if usePriority {
		s.ByPriority = priorityBreakdown(customers)
	}

	m := QueueMetrics{
		Lq:          s.AvgWaitTime * lambda,
		Ls:          s.AvgTurnaroundTime * lambda,
		Wq:          s.AvgWaitTime,
		Ws:          s.AvgTurnaroundTime,
		Utilization: utilization,
		IdleTime:    100 - utilization,
		Rho:         lambda / (mu * float64(c)),
	}
	return m, s
}

func priorityBreakdown(customers []*Customer) []PriorityStats {
	var out []PriorityStats
	for p := HighestPriority; p <= LowestPriority; p++ {
		ps := PriorityStats{Priority: p}
		for _, cu := range customers {
			if cu.Priority != p {
				continue
			}
			ps.Count++
			ps.AvgWaitTime += cu.WaitTime
			ps.AvgTurnaroundTime += cu.TurnaroundTime
			ps.AvgResponseTime += cu.ResponseTime
			ps.AvgServiceTime += cu.ServiceTime
		}
		if ps.Count == 0 {
			continue
		}
		k := float64(ps.Count)
		ps.AvgWaitTime /= k
		ps.AvgTurnaroundTime /= k
		ps.AvgResponseTime /= k
		ps.AvgServiceTime /= k
		out = append(out, ps)
	}
	return out
}

// Comparison holds the relative deviation of simulated metrics from the
// analytical ones: (simulated - analytical) / analytical. A metric whose
// analytical value is zero is left out.
type Comparison struct {
	Available bool               `json:"available"`
	Deviation map[string]float64 `json:"deviation,omitempty"`
}

// Compare returns the per-metric relative deviation. Available is false when
// the analytical side is unstable.
func Compare(analytical SteadyState, simulated QueueMetrics) Comparison {
	if !analytical.Stable || analytical.Metrics == nil {
		return Comparison{}
	}
	a := analytical.Metrics
	pairs := []struct {
		name       string
		want, have float64
	}{
		{"lq", a.Lq, simulated.Lq},
		{"ls", a.Ls, simulated.Ls},
		{"wq", a.Wq, simulated.Wq},
		{"ws", a.Ws, simulated.Ws},
		{"utilization", a.Utilization, simulated.Utilization},
	}
	dev := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		if p.want == 0 {
			continue
		}
		dev[p.name] = (p.have - p.want) / p.want
	}
	return Comparison{Available: true, Deviation: dev}
}
