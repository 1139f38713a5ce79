package sim

import (
	"math"
	"math/rand"
	"testing"
)

func TestSimulationKey_Creation(t *testing.T) {
	tests := []struct {
		name string
		seed int64
	}{
		{"positive seed", 42},
		{"zero seed", 0},
		{"negative seed", -1},
		{"max int64", math.MaxInt64},
		{"min int64", math.MinInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := NewSimulationKey(tt.seed)
			if int64(key) != tt.seed {
				t.Errorf("NewSimulationKey(%d) = %d, want %d", tt.seed, key, tt.seed)
			}
		})
	}
}

func TestPartitionedRNG_DeterministicDerivation(t *testing.T) {
	// GIVEN two RNGs built from the same key
	rng1 := NewPartitionedRNG(NewSimulationKey(42))
	rng2 := NewPartitionedRNG(NewSimulationKey(42))

	// THEN the service streams are identical
	for i := 0; i < 5; i++ {
		a := rng1.ForSubsystem(SubsystemService).Float64()
		b := rng2.ForSubsystem(SubsystemService).Float64()
		if a != b {
			t.Errorf("value %d: got %v and %v, want identical", i, a, b)
		}
	}
}

func TestPartitionedRNG_SubsystemIsolation(t *testing.T) {
	// GIVEN one RNG that draws heavily from the priority stream
	rngA := NewPartitionedRNG(NewSimulationKey(42))
	for i := 0; i < 10; i++ {
		rngA.ForSubsystem(SubsystemPriority).Intn(3)
	}

	// WHEN the arrival stream is read afterwards
	got := rngA.ForSubsystem(SubsystemArrivals).Float64()

	// THEN it matches the first arrival draw of a fresh RNG
	want := NewPartitionedRNG(NewSimulationKey(42)).ForSubsystem(SubsystemArrivals).Float64()
	if got != want {
		t.Errorf("arrival draw after priority draws = %v, want %v (isolation broken)", got, want)
	}
}

func TestPartitionedRNG_ArrivalsUseMasterSeed(t *testing.T) {
	for _, seed := range []int64{0, 42, math.MinInt64} {
		arrivals := NewPartitionedRNG(NewSimulationKey(seed)).ForSubsystem(SubsystemArrivals)
		direct := rand.New(rand.NewSource(seed))
		for i := 0; i < 10; i++ {
			if got, want := arrivals.Float64(), direct.Float64(); got != want {
				t.Errorf("seed %d value %d: arrivals RNG = %v, direct RNG = %v", seed, i, got, want)
			}
		}
	}
}

func TestPartitionedRNG_StreamsDiffer(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(7))
	a := rng.ForSubsystem(SubsystemArrivals).Float64()
	s := rng.ForSubsystem(SubsystemService).Float64()
	p := rng.ForSubsystem(SubsystemPriority).Float64()
	if a == s || s == p || a == p {
		t.Errorf("subsystem streams share a first value: arrivals=%v service=%v priority=%v", a, s, p)
	}
}

func TestPartitionedRNG_CachesInstance(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(42))
	if rng.ForSubsystem(SubsystemService) != rng.ForSubsystem(SubsystemService) {
		t.Error("ForSubsystem returned different instances for same name")
	}
}

func TestPartitionedRNG_Key(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(12345))
	if rng.Key() != SimulationKey(12345) {
		t.Errorf("Key() = %v, want 12345", rng.Key())
	}
}

func TestPartitionedRNG_LazyInitialization(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(42))
	if len(rng.subsystems) != 0 {
		t.Errorf("New PartitionedRNG has %d subsystems, want 0", len(rng.subsystems))
	}
	rng.ForSubsystem(SubsystemService)
	if len(rng.subsystems) != 1 {
		t.Errorf("After one ForSubsystem call, have %d subsystems, want 1", len(rng.subsystems))
	}
}

func TestFnv1a64_NoCollisionAcrossSubsystems(t *testing.T) {
	names := []string{SubsystemArrivals, SubsystemService, SubsystemPriority, ""}
	hashes := make(map[int64]string)
	for _, name := range names {
		h := fnv1a64(name)
		if existing, ok := hashes[h]; ok {
			t.Errorf("Hash collision: %q and %q both hash to %d", name, existing, h)
		}
		hashes[h] = name
	}
}

func BenchmarkPartitionedRNG_ForSubsystem_CacheHit(b *testing.B) {
	rng := NewPartitionedRNG(NewSimulationKey(42))
	rng.ForSubsystem(SubsystemService)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rng.ForSubsystem(SubsystemService)
	}
}
