package sim

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomer_Lifecycle(t *testing.T) {
	// GIVEN a customer arriving at 2 with 3 units of work
	c := NewCustomer(7, 2, 3, 2)
	assert.Equal(t, StateGenerated, c.State)
	assert.False(t, c.Resolved())

	c.enqueue()
	assert.Equal(t, StateQueued, c.State)

	// WHEN a server that frees at 4 picks it up at 5
	c.startService(2, 5, 4)

	// THEN every timing field is derived from the start instant
	assert.Equal(t, StateInService, c.State)
	assert.Equal(t, 3.0, c.WaitTime)
	assert.Equal(t, 5.0, c.StartServiceTime)
	assert.Equal(t, 8.0, c.EndTime)
	assert.Equal(t, 2, c.Server)
	assert.Equal(t, c.WaitTime, c.ResponseTime)
	assert.Equal(t, 6.0, c.TurnaroundTime)
	assert.True(t, c.Resolved())

	c.depart()
	assert.Equal(t, StateDeparted, c.State)
}

func TestCustomer_StartService_ImmediateStart(t *testing.T) {
	c := NewCustomer(1, 4, 1.5, 1)
	c.enqueue()
	c.startService(1, 4, 0)

	assert.Equal(t, 0.0, c.WaitTime)
	assert.Equal(t, 4.0, c.StartServiceTime)
	assert.Equal(t, 5.5, c.EndTime)
	assert.Equal(t, c.ServiceTime, c.TurnaroundTime)
}

func TestCustomer_IllegalTransitions_Panic(t *testing.T) {
	tests := []struct {
		name string
		fn   func(c *Customer)
	}{
		{"start before enqueue", func(c *Customer) { c.startService(1, 0, 0) }},
		{"depart before service", func(c *Customer) { c.enqueue(); c.depart() }},
		{"enqueue twice", func(c *Customer) { c.enqueue(); c.enqueue() }},
		{"depart twice", func(c *Customer) { c.enqueue(); c.startService(1, 0, 0); c.depart(); c.depart() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCustomer(1, 0, 1, 1)
			assert.Panics(t, func() { tt.fn(c) })
		})
	}
}

func TestCustomer_String(t *testing.T) {
	s := NewCustomer(3, 1.25, 1, 2).String()
	assert.True(t, strings.Contains(s, "ID: 3"), s)
	assert.True(t, strings.Contains(s, "State: generated"), s)
}
