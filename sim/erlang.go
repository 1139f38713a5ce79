// Closed-form steady-state metrics for the M/M/c queue (Erlang-C family).

package sim

import "math"

// SteadyState is the tagged result of the analytical calculator.
// When Stable is false the offered load saturates the servers (rho >= 1),
// Metrics is nil and P0 is zero. Callers MUST branch on Stable before
// reading Metrics.
type SteadyState struct {
	Stable  bool          `json:"stable"`
	Rho     float64       `json:"rho"`
	P0      float64       `json:"p0,omitempty"`
	Metrics *QueueMetrics `json:"metrics,omitempty"`
}

// factorial computes n! iteratively in float64.
// Overflows to +Inf for n > 170; callers with that many servers get NaN metrics.
func factorial(n int) float64 {
	res := 1.0
	for i := 2; i <= n; i++ {
		res *= float64(i)
	}
	return res
}

// ProbabilityAllIdle returns P0, the steady-state probability that all c
// servers are idle. ok is false when rho >= 1.
func ProbabilityAllIdle(lambda, mu float64, c int) (p0 float64, ok bool) {
	rho := lambda / (float64(c) * mu)
	if rho >= 1 {
		return 0, false
	}
	a := lambda / mu // offered load in Erlangs

	sum := 0.0
	for n := 0; n < c; n++ {
		sum += math.Pow(a, float64(n)) / factorial(n)
	}
	last := math.Pow(a, float64(c)) / (factorial(c) * (1 - rho))
	return 1 / (sum + last), true
}

// ErlangC returns the probability that an arriving customer has to wait.
// Returns 1 for an unstable configuration.
func ErlangC(lambda, mu float64, c int) float64 {
	p0, ok := ProbabilityAllIdle(lambda, mu, c)
	if !ok {
		return 1
	}
	rho := lambda / (float64(c) * mu)
	a := lambda / mu
	return p0 * math.Pow(a, float64(c)) / (factorial(c) * (1 - rho))
}

// ComputeSteadyStateMetrics evaluates Lq, Ls, Wq, Ws and utilization for an
// M/M/c queue. An unstable configuration is not an error: it returns
// SteadyState{Stable: false}. Only unusable inputs produce a *ParameterError.
// The function is pure.
func ComputeSteadyStateMetrics(lambda, mu float64, c int) (SteadyState, error) {
	if err := validateRates(lambda, mu, c); err != nil {
		return SteadyState{}, err
	}
	rho := lambda / (float64(c) * mu)
	p0, ok := ProbabilityAllIdle(lambda, mu, c)
	if !ok {
		return SteadyState{Stable: false, Rho: rho}, nil
	}

	a := lambda / mu
	lq := p0 * math.Pow(a, float64(c)) * rho / (factorial(c) * math.Pow(1-rho, 2))
	wq := lq / lambda
	m := &QueueMetrics{
		Lq:          lq,
		Ls:          lq + a,
		Wq:          wq,
		Ws:          wq + 1/mu,
		Utilization: rho * 100,
		IdleTime:    (1 - rho) * 100,
		Rho:         rho,
	}
	return SteadyState{Stable: true, Rho: rho, P0: p0, Metrics: m}, nil
}
