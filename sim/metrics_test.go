package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/mmcsim/sim/internal/testutil"
)

// resolved builds a departed customer with the given timing on server s.
func resolved(id int, arrival, start, service float64, s, priority int) *Customer {
	c := NewCustomer(id, arrival, service, priority)
	c.enqueue()
	c.startService(s, start, 0)
	c.depart()
	return c
}

func TestNewDistribution(t *testing.T) {
	d := NewDistribution([]float64{5, 1, 3, 2, 4})
	assert.Equal(t, 5, d.Count)
	assert.Equal(t, 3.0, d.Mean)
	assert.Equal(t, 3.0, d.P50)
	assert.Equal(t, 1.0, d.Min)
	assert.Equal(t, 5.0, d.Max)
	testutil.AssertFloat64Equal(t, "P95", 4.8, d.P95, 1e-12)
	testutil.AssertFloat64Equal(t, "P99", 4.96, d.P99, 1e-12)
}

func TestNewDistribution_EmptyAndSingle(t *testing.T) {
	assert.Equal(t, Distribution{}, NewDistribution(nil))

	d := NewDistribution([]float64{2.5})
	assert.Equal(t, 2.5, d.P50)
	assert.Equal(t, 2.5, d.P99)
}

func TestNewDistribution_DoesNotMutateInput(t *testing.T) {
	in := []float64{3, 1, 2}
	NewDistribution(in)
	assert.Equal(t, []float64{3, 1, 2}, in)
}

func TestAggregate_LittlesLaw(t *testing.T) {
	// GIVEN two customers on one server: c1 immediate, c2 waits 1
	customers := []*Customer{
		resolved(1, 0, 0, 2, 1, 1),
		resolved(2, 1, 2, 2, 1, 1),
	}
	lambda, mu := 0.5, 0.5

	m, s := Aggregate(customers, lambda, mu, 1, false)

	assert.Equal(t, 0.5, s.AvgWaitTime)
	assert.Equal(t, 2.5, s.AvgTurnaroundTime)
	assert.Equal(t, s.AvgWaitTime, s.AvgResponseTime)
	assert.Equal(t, 2.0, s.AvgServiceTime)
	assert.Equal(t, 4.0, s.MaxEndTime)
	assert.Equal(t, 0.5*lambda, m.Lq)
	assert.Equal(t, 2.5*lambda, m.Ls)
	assert.Equal(t, 100.0, m.Utilization)
	assert.Equal(t, 0.0, m.IdleTime)
	assert.Equal(t, 1.0, m.Rho)
	assert.Empty(t, s.ByPriority)
	assert.Equal(t, 2, s.WaitTime.Count)
}

func TestAggregate_ServerBreakdown(t *testing.T) {
	customers := []*Customer{
		resolved(1, 0, 0, 4, 1, 1),
		resolved(2, 0, 0, 1, 2, 1),
	}
	m, s := Aggregate(customers, 1, 1, 3, false)

	require.Len(t, s.Servers, 3)
	assert.Equal(t, ServerStats{Server: 1, Served: 1, BusyTime: 4, Utilization: 100}, s.Servers[0])
	assert.Equal(t, ServerStats{Server: 2, Served: 1, BusyTime: 1, Utilization: 25}, s.Servers[1])
	assert.Equal(t, ServerStats{Server: 3}, s.Servers[2])
	testutil.AssertFloat64Equal(t, "utilization", 5.0/12*100, m.Utilization, 1e-12)
}

func TestAggregate_PriorityBreakdown_SkipsEmptyClasses(t *testing.T) {
	customers := []*Customer{
		resolved(1, 0, 0, 1, 1, 1),
		resolved(2, 0, 1, 1, 1, 3),
		resolved(3, 0, 2, 1, 1, 3),
	}
	_, s := Aggregate(customers, 1, 1, 1, true)

	require.Len(t, s.ByPriority, 2)
	assert.Equal(t, PriorityStats{Priority: 1, Count: 1, AvgTurnaroundTime: 1, AvgServiceTime: 1}, s.ByPriority[0])
	assert.Equal(t, 3, s.ByPriority[1].Priority)
	assert.Equal(t, 2, s.ByPriority[1].Count)
	assert.Equal(t, 1.5, s.ByPriority[1].AvgWaitTime)
}

func TestAggregate_Empty(t *testing.T) {
	m, s := Aggregate(nil, 1, 2, 1, false)
	assert.Equal(t, QueueMetrics{Rho: 0.5}, m)
	assert.Empty(t, s.Servers)
}

func TestCompare(t *testing.T) {
	ss, err := ComputeSteadyStateMetrics(0.5, 1, 2)
	require.NoError(t, err)

	simulated := *ss.Metrics
	simulated.Ws *= 1.1
	cmp := Compare(ss, simulated)

	assert.True(t, cmp.Available)
	testutil.AssertFloat64Near(t, "ws", 0.1, cmp.Deviation["ws"], 1e-12)
	assert.Equal(t, 0.0, cmp.Deviation["lq"])
	assert.Len(t, cmp.Deviation, 5)
}

func TestCompare_Unstable_NotAvailable(t *testing.T) {
	ss, err := ComputeSteadyStateMetrics(3, 1, 2)
	require.NoError(t, err)
	cmp := Compare(ss, QueueMetrics{Wq: 10})
	assert.False(t, cmp.Available)
	assert.Nil(t, cmp.Deviation)
}
