package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/inference-sim/mmcsim/sim"
	"github.com/inference-sim/mmcsim/sim/trace"
)

func TestPrintMetrics_AnalyticalOnly(t *testing.T) {
	steady, err := sim.ComputeSteadyStateMetrics(0.5, 1, 2)
	require.NoError(t, err)

	var buf bytes.Buffer
	printMetrics(&buf, steady, nil)
	out := buf.String()

	assert.Contains(t, out, "=== Queue Metrics ===")
	assert.Contains(t, out, "P0 (all servers idle): 0.6000")
	assert.Contains(t, out, "0.0333")
	assert.Contains(t, out, "ANALYTICAL")
	assert.NotContains(t, out, "SIMULATED")
}

func TestPrintMetrics_Unstable_WithSimulation(t *testing.T) {
	steady, err := sim.ComputeSteadyStateMetrics(3, 1, 2)
	require.NoError(t, err)

	var buf bytes.Buffer
	printMetrics(&buf, steady, &sim.QueueMetrics{Wq: 12.5, Rho: 1.5})
	out := buf.String()

	assert.Contains(t, out, "UNSTABLE (rho=1.5000")
	assert.Contains(t, out, "SIMULATED")
	assert.Contains(t, out, "12.5000")
}

func TestPrintInstabilityWarning(t *testing.T) {
	cfg := sim.DefaultConfig()
	cfg.ArrivalMean = 0.25

	var buf bytes.Buffer
	printInstabilityWarning(&buf, cfg)

	assert.Contains(t, buf.String(), "Warning: Unstable Queue")
	assert.Contains(t, buf.String(), "lambda=4.0000 >= c*mu=2.0000")
}

func TestPrintTables(t *testing.T) {
	cfg := sim.DefaultConfig()
	cfg.Customers = 10
	cfg.UsePriority = true
	res, _, err := sim.RunConfig(cfg)
	require.NoError(t, err)

	var buf bytes.Buffer
	printServers(&buf, res.Summary)
	printPriorityBreakdown(&buf, res.Summary)
	printCustomers(&buf, res.Customers, true)
	printTraceSummary(&buf, trace.Summarize(nil))
	out := buf.String()

	assert.Contains(t, out, "=== Servers ===")
	assert.Contains(t, out, "=== By Priority ===")
	assert.Contains(t, out, "=== Customers ===")
	assert.Contains(t, out, "TURNAROUND")
	assert.Contains(t, out, "PRIORITY")
	assert.Contains(t, out, "Transitions      : 0")
}

func TestWriteResults_JSONShape(t *testing.T) {
	cfg := sim.DefaultConfig()
	cfg.Customers = 5
	steady, err := sim.ComputeSteadyStateMetrics(cfg.Lambda(), cfg.Mu(), cfg.Servers)
	require.NoError(t, err)
	res, _, err := sim.RunConfig(cfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, writeResults(path, RunOutput{
		Config:     cfg,
		Analytical: steady,
		Simulation: res,
		Comparison: sim.Compare(steady, res.Metrics),
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))

	for _, key := range []string{"config", "analytical", "simulation", "comparison"} {
		assert.Contains(t, doc, key)
	}
	assert.NotContains(t, doc, "trace")

	var simDoc struct {
		Customers []map[string]any `json:"customers"`
	}
	require.NoError(t, json.Unmarshal(doc["simulation"], &simDoc))
	require.Len(t, simDoc.Customers, 5)
	assert.Contains(t, simDoc.Customers[0], "turnaroundTime")
	assert.Equal(t, "departed", simDoc.Customers[0]["state"])
}

func TestWriteResults_BadPath(t *testing.T) {
	err := writeResults(filepath.Join(t.TempDir(), "missing", "out.json"), RunOutput{})
	assert.Error(t, err)
}
