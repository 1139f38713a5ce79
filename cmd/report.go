package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	sim "github.com/inference-sim/mmcsim/sim"
	"github.com/inference-sim/mmcsim/sim/trace"
)

// RunOutput is the JSON document written by --output.
type RunOutput struct {
	Config     sim.Config            `json:"config"`
	Analytical sim.SteadyState       `json:"analytical"`
	Simulation *sim.SimulationResult `json:"simulation"`
	Comparison sim.Comparison        `json:"comparison"`
	Trace      *trace.Recorder       `json:"trace,omitempty"`
}

func f4(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// printInstabilityWarning is advisory: the simulation still runs.
func printInstabilityWarning(w io.Writer, cfg sim.Config) {
	warn := color.New(color.FgYellow, color.Bold)
	_, _ = warn.Fprintln(w, "Warning: Unstable Queue")
	_, _ = fmt.Fprintf(w, "The arrival rate exceeds service capacity (lambda=%.4f >= c*mu=%.4f). "+
		"The queue will grow indefinitely in theory.\n", cfg.Lambda(), float64(cfg.Servers)*cfg.Mu())
}

// printMetrics renders the analytical metrics and, when simulated is non-nil,
// the simulated ones with their relative deviation.
func printMetrics(w io.Writer, steady sim.SteadyState, simulated *sim.QueueMetrics) {
	fmt.Fprintln(w, "=== Queue Metrics ===")
	if !steady.Stable {
		fmt.Fprintf(w, "Analytical: UNSTABLE (rho=%.4f >= 1)\n", steady.Rho)
	} else {
		fmt.Fprintf(w, "P0 (all servers idle): %s\n", f4(steady.P0))
	}

	header := []string{"Metric", "Analytical"}
	if simulated != nil {
		header = append(header, "Simulated", "Deviation")
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)

	var cmp sim.Comparison
	if simulated != nil {
		cmp = sim.Compare(steady, *simulated)
	}
	rows := []struct {
		key, label string
		get        func(m *sim.QueueMetrics) float64
	}{
		{"lq", "Lq (avg in queue)", func(m *sim.QueueMetrics) float64 { return m.Lq }},
		{"ls", "Ls (avg in system)", func(m *sim.QueueMetrics) float64 { return m.Ls }},
		{"wq", "Wq (avg wait)", func(m *sim.QueueMetrics) float64 { return m.Wq }},
		{"ws", "Ws (avg time in system)", func(m *sim.QueueMetrics) float64 { return m.Ws }},
		{"utilization", "Utilization %", func(m *sim.QueueMetrics) float64 { return m.Utilization }},
		{"idleTime", "Idle %", func(m *sim.QueueMetrics) float64 { return m.IdleTime }},
		{"rho", "Rho", func(m *sim.QueueMetrics) float64 { return m.Rho }},
	}
	for _, r := range rows {
		analytical := "-"
		if steady.Stable && steady.Metrics != nil {
			analytical = f4(r.get(steady.Metrics))
		} else if r.key == "rho" {
			analytical = f4(steady.Rho)
		}
		row := []string{r.label, analytical}
		if simulated != nil {
			dev := "-"
			if d, ok := cmp.Deviation[r.key]; ok {
				dev = fmt.Sprintf("%+.2f%%", d*100)
			}
			row = append(row, f4(r.get(simulated)), dev)
		}
		table.Append(row)
	}
	table.Render()
}

func printServers(w io.Writer, s sim.Summary) {
	fmt.Fprintln(w, "=== Servers ===")
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Server", "Customers", "Busy Time", "Utilization %"})
	for _, st := range s.Servers {
		table.Append([]string{strconv.Itoa(st.Server), strconv.Itoa(st.Served), f4(st.BusyTime), f4(st.Utilization)})
	}
	table.Render()
}

func printPriorityBreakdown(w io.Writer, s sim.Summary) {
	fmt.Fprintln(w, "=== By Priority ===")
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Priority", "Count", "Avg Wait", "Avg Turnaround", "Avg Response", "Avg Service"})
	for _, p := range s.ByPriority {
		table.Append([]string{
			strconv.Itoa(p.Priority), strconv.Itoa(p.Count),
			f4(p.AvgWaitTime), f4(p.AvgTurnaroundTime), f4(p.AvgResponseTime), f4(p.AvgServiceTime),
		})
	}
	table.Render()
}

func printCustomers(w io.Writer, customers []*sim.Customer, usePriority bool) {
	fmt.Fprintln(w, "=== Customers ===")
	header := []string{"ID", "Arrival", "Service", "Start", "End", "Wait", "Turnaround", "Server"}
	if usePriority {
		header = append(header, "Priority")
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	for _, c := range customers {
		row := []string{
			strconv.Itoa(c.ID), f4(c.ArrivalTime), f4(c.ServiceTime), f4(c.StartServiceTime),
			f4(c.EndTime), f4(c.WaitTime), f4(c.TurnaroundTime), strconv.Itoa(c.Server),
		}
		if usePriority {
			row = append(row, strconv.Itoa(c.Priority))
		}
		table.Append(row)
	}
	table.Render()
}

func printTraceSummary(w io.Writer, ts *trace.TraceSummary) {
	fmt.Fprintln(w, "=== Transition Trace ===")
	fmt.Fprintf(w, "Transitions      : %d\n", ts.TotalTransitions)
	fmt.Fprintf(w, "Max queue depth  : %d\n", ts.MaxQueueDepth)
	fmt.Fprintf(w, "Immediate starts : %d\n", ts.ImmediateStarts)
}

// writeResults saves out as indented JSON.
func writeResults(path string, out RunOutput) error {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
