// Defines the Customer struct that models one arrival in the M/M/c simulation.
// Tracks arrival, service demand, priority, and the timing fields resolved by the scheduler.

package sim

import (
	"fmt"
)

// CustomerState represents the lifecycle state of a customer.
type CustomerState string

const (
	StateGenerated CustomerState = "generated"
	StateQueued    CustomerState = "queued"
	StateInService CustomerState = "in-service"
	StateDeparted  CustomerState = "departed"
)

// Priority levels. Lower numbers are served first.
const (
	HighestPriority = 1
	LowestPriority  = 3
)

// Customer models a single customer's lifecycle in the simulation.
// Timing fields are zero until the scheduler assigns a server; after that
// they are fixed. Transitions only move forward:
// generated -> queued -> in-service -> departed.
type Customer struct {
	ID          int     `json:"id"`          // generation order, 1..n
	ArrivalTime float64 `json:"arrivalTime"` // absolute simulated time of arrival
	ServiceTime float64 `json:"serviceTime"` // drawn once at generation
	Priority    int     `json:"priority"`    // 1 (highest) .. 3, or 1 when priority is off

	WaitTime         float64 `json:"waitTime"`
	StartServiceTime float64 `json:"startServiceTime"`
	EndTime          float64 `json:"endTime"`
	Server           int     `json:"server"` // 1-based, 0 until assigned
	ResponseTime     float64 `json:"responseTime"`
	TurnaroundTime   float64 `json:"turnaroundTime"`

	State CustomerState `json:"state"`
}

// NewCustomer creates a customer in the generated state.
func NewCustomer(id int, arrivalTime, serviceTime float64, priority int) *Customer {
	return &Customer{
		ID:          id,
		ArrivalTime: arrivalTime,
		ServiceTime: serviceTime,
		Priority:    priority,
		State:       StateGenerated,
	}
}

func (c *Customer) mustBe(want CustomerState, op string) {
	if c.State != want {
		panic(fmt.Sprintf("%s: customer %d is %s, want %s", op, c.ID, c.State, want))
	}
}

// enqueue moves the customer into the waiting room.
func (c *Customer) enqueue() {
	c.mustBe(StateGenerated, "enqueue")
	c.State = StateQueued
}

// startService resolves every timing field for a service start on the given
// server at time now. serverFreeAt is the server's prior availability time.
func (c *Customer) startService(server int, now, serverFreeAt float64) {
	c.mustBe(StateQueued, "startService")
	c.WaitTime = max(0, now-c.ArrivalTime)
	c.StartServiceTime = max(now, serverFreeAt)
	c.EndTime = c.StartServiceTime + c.ServiceTime
	c.Server = server
	c.ResponseTime = c.StartServiceTime - c.ArrivalTime
	c.TurnaroundTime = c.EndTime - c.ArrivalTime
	c.State = StateInService
}

// depart marks the end of service. Timing fields are already final.
func (c *Customer) depart() {
	c.mustBe(StateInService, "depart")
	c.State = StateDeparted
}

// Resolved reports whether the customer has been assigned a server.
func (c *Customer) Resolved() bool {
	return c.Server > 0
}

// This method returns a human-readable string representation of a Customer.
func (c Customer) String() string {
	return fmt.Sprintf("Customer: (ID: %d, State: %s, Priority: %d, ArrivalTime: %.4f, Server: %d)",
		c.ID, c.State, c.Priority, c.ArrivalTime, c.Server)
}
