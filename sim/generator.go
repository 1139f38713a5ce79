package sim

import (
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// Exponential draws an exponentially distributed value with the given rate
// by inverse transform: -ln(1-U)/rate with U uniform in [0,1).
// Never returns a negative value; returns 0 only when U is exactly 0.
func Exponential(rng *rand.Rand, rate float64) float64 {
	u := rng.Float64()
	return -math.Log(1-u) / rate
}

// DrawPriority returns a class uniformly distributed over {1,2,3}.
func DrawPriority(rng *rand.Rand) int {
	return rng.Intn(LowestPriority-HighestPriority+1) + HighestPriority
}

// GeneratePopulation creates n customers whose arrival times accumulate
// independent exponential gaps with rate lambda from a clock starting at 0.
// Service times are exponential with rate mu. When usePriority is false every
// customer gets HighestPriority and the priority stream is never touched.
// Customer IDs follow generation order (1..n).
func GeneratePopulation(lambda, mu float64, usePriority bool, n int, rng *PartitionedRNG) ([]*Customer, error) {
	if err := positiveRate("lambda", lambda); err != nil {
		return nil, err
	}
	if err := positiveRate("mu", mu); err != nil {
		return nil, err
	}
	if err := positiveCount("customers", n); err != nil {
		return nil, err
	}

	arrivals := rng.ForSubsystem(SubsystemArrivals)
	service := rng.ForSubsystem(SubsystemService)

	customers := make([]*Customer, 0, n)
	clock := 0.0
	for i := 0; i < n; i++ {
		clock += Exponential(arrivals, lambda)
		priority := HighestPriority
		if usePriority {
			priority = DrawPriority(rng.ForSubsystem(SubsystemPriority))
		}
		customers = append(customers, NewCustomer(i+1, clock, Exponential(service, mu), priority))
	}
	logrus.Debugf("Generated %d customers, last arrival at %.4f", n, clock)
	return customers, nil
}
