// Package sim provides the M/M/c queue simulation engine and the Erlang-C
// analytical calculator.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - customer.go: Customer lifecycle (generated → queued → in-service → departed)
//   - generator.go: Poisson arrivals and exponential service draws
//   - simulator.go: the arrival-driven and drain phases of a run
//   - erlang.go: closed-form steady-state metrics
//
// # Architecture
//
// Both components consume lambda (arrival rate) and mu (per-server service
// rate) and produce a QueueMetrics record. The calculator is pure. The
// simulator owns its ServerPool, WaitQueue and customers for the duration of
// one Run; concurrent runs need separate Simulators and PartitionedRNGs.
//
// Sub-packages:
//   - sim/trace/: per-customer transition recording
//
// # Key Interfaces
//
//   - WaitQueue: the waiting room (FIFOQueue or PriorityQueue)
package sim
