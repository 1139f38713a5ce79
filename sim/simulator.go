// sim/simulator.go
package sim

import (
	"errors"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/mmcsim/sim/trace"
)

// SimulationResult owns the resolved customers of one run and its metrics.
// Customers are sorted by arrival time; IDs keep generation order.
type SimulationResult struct {
	Customers []*Customer  `json:"customers"`
	Metrics   QueueMetrics `json:"metrics"`
	Summary   Summary      `json:"summary"`
}

// Simulator is the core object that holds simulation time, the waiting room
// and the server pool of a single run. A Simulator runs once.
type Simulator struct {
	Clock float64
	// WaitQ aka waiting room: arrived customers not yet in service
	WaitQ   WaitQueue
	Servers *ServerPool
	// Trace is nil unless transition tracing was requested
	Trace *trace.Recorder

	Lambda      float64
	Mu          float64
	UsePriority bool
	Drain       DrainPolicy

	ran bool
}

// NewSimulator creates a Simulator with c idle servers and an empty waiting room.
func NewSimulator(lambda, mu float64, c int, usePriority bool, drain DrainPolicy) (*Simulator, error) {
	if err := validateRates(lambda, mu, c); err != nil {
		return nil, err
	}
	if !ValidDrainPolicies[drain] {
		return nil, &ParameterError{Field: "drain", Value: drain, Reason: "unknown drain policy"}
	}
	if drain == "" {
		drain = DrainAtArrivals
	}
	return &Simulator{
		WaitQ:       NewWaitQueue(usePriority),
		Servers:     NewServerPool(c),
		Lambda:      lambda,
		Mu:          mu,
		UsePriority: usePriority,
		Drain:       drain,
	}, nil
}

// Run resolves every customer and aggregates the empirical metrics.
// customers is sorted in place by arrival time (ties by ID).
func (sim *Simulator) Run(customers []*Customer) (*SimulationResult, error) {
	if sim.ran {
		return nil, errors.New("simulator already ran; create a new one per run")
	}
	if len(customers) == 0 {
		return nil, &ParameterError{Field: "customers", Value: 0, Reason: "must be at least 1"}
	}
	sim.ran = true

	sort.SliceStable(customers, func(i, j int) bool {
		if customers[i].ArrivalTime != customers[j].ArrivalTime {
			return customers[i].ArrivalTime < customers[j].ArrivalTime
		}
		return customers[i].ID < customers[j].ID
	})

	logrus.Infof("Starting simulation: %d customers, %d servers, lambda=%.4f, mu=%.4f, priority=%v, drain=%s",
		len(customers), sim.Servers.Len(), sim.Lambda, sim.Mu, sim.UsePriority, sim.Drain)

	// Arrival-driven phase
	for _, c := range customers {
		if sim.Drain == DrainAtDepartures {
			sim.drainDeparturesBefore(c.ArrivalTime)
		}
		sim.Clock = c.ArrivalTime
		sim.enqueue(c)
		sim.drain(sim.Clock)
	}

	// Drain phase: every customer has arrived; follow server availability.
	for sim.WaitQ.Len() > 0 {
		sim.Clock = sim.Servers.NextAvailableTime()
		sim.drain(sim.Clock)
	}

	for _, s := range sim.Servers.Servers() {
		if prev := s.release(); prev != nil {
			sim.recordDeparture(prev)
		}
	}
	logrus.Infof("Simulation ended at %.4f", sim.Clock)

	metrics, summary := Aggregate(customers, sim.Lambda, sim.Mu, sim.Servers.Len(), sim.UsePriority)
	return &SimulationResult{Customers: customers, Metrics: metrics, Summary: summary}, nil
}

// enqueue moves an arriving customer into the waiting room.
func (sim *Simulator) enqueue(c *Customer) {
	c.enqueue()
	sim.WaitQ.Push(c)
	logrus.Debugf("<< Arrival: customer %d (priority %d) at %.4f, queue depth %d",
		c.ID, c.Priority, c.ArrivalTime, sim.WaitQ.Len())
	sim.Trace.RecordTransition(trace.TransitionRecord{
		CustomerID: c.ID,
		Clock:      c.ArrivalTime,
		From:       string(StateGenerated),
		To:         string(StateQueued),
		QueueDepth: sim.WaitQ.Len(),
		Priority:   c.Priority,
	})
}

// drain assigns queued customers to servers free at now, one at a time,
// until either the waiting room is empty or no server is free.
func (sim *Simulator) drain(now float64) {
	for sim.WaitQ.Len() > 0 {
		s := sim.Servers.FirstAvailable(now)
		if s == nil {
			return
		}
		c := sim.WaitQ.Pop()
		if prev := s.assign(c, now); prev != nil {
			sim.recordDeparture(prev)
		}
		logrus.Debugf("[%.4f] customer %d -> server %d, wait %.4f, ends %.4f",
			now, c.ID, s.Index, c.WaitTime, c.EndTime)
		sim.Trace.RecordTransition(trace.TransitionRecord{
			CustomerID: c.ID,
			Clock:      c.StartServiceTime,
			From:       string(StateQueued),
			To:         string(StateInService),
			Server:     s.Index,
			QueueDepth: sim.WaitQ.Len(),
			Priority:   c.Priority,
		})
	}
}

// drainDeparturesBefore drains at each server completion strictly before t.
func (sim *Simulator) drainDeparturesBefore(t float64) {
	for sim.WaitQ.Len() > 0 {
		next, ok := sim.Servers.NextDepartureAfter(sim.Clock)
		if !ok || next >= t {
			return
		}
		sim.Clock = next
		sim.drain(next)
	}
}

func (sim *Simulator) recordDeparture(c *Customer) {
	sim.Trace.RecordTransition(trace.TransitionRecord{
		CustomerID: c.ID,
		Clock:      c.EndTime,
		From:       string(StateInService),
		To:         string(StateDeparted),
		Server:     c.Server,
		QueueDepth: sim.WaitQ.Len(),
		Priority:   c.Priority,
	})
}

// RunQueueSimulation generates n customers and resolves them on c servers,
// draining at arrival instants. rng makes the run reproducible.
func RunQueueSimulation(lambda, mu float64, c int, usePriority bool, n int, rng *PartitionedRNG) (*SimulationResult, error) {
	customers, err := GeneratePopulation(lambda, mu, usePriority, n, rng)
	if err != nil {
		return nil, err
	}
	sim, err := NewSimulator(lambda, mu, c, usePriority, DrainAtArrivals)
	if err != nil {
		return nil, err
	}
	return sim.Run(customers)
}

// RunConfig runs the scenario described by cfg with its own seed and drain
// policy. The returned recorder is nil unless cfg.TraceLevel enables tracing.
func RunConfig(cfg Config) (*SimulationResult, *trace.Recorder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	rng := NewPartitionedRNG(NewSimulationKey(cfg.Seed))
	customers, err := GeneratePopulation(cfg.Lambda(), cfg.Mu(), cfg.UsePriority, cfg.Customers, rng)
	if err != nil {
		return nil, nil, err
	}
	sim, err := NewSimulator(cfg.Lambda(), cfg.Mu(), cfg.Servers, cfg.UsePriority, cfg.Drain)
	if err != nil {
		return nil, nil, err
	}
	sim.Trace = trace.NewRecorder(trace.TraceLevel(cfg.TraceLevel))
	res, err := sim.Run(customers)
	if err != nil {
		return nil, nil, err
	}
	return res, sim.Trace, nil
}
