package sim

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/mmcsim/sim/trace"
)

// DrainPolicy selects the instants at which queued customers are pulled onto
// free servers.
type DrainPolicy string

const (
	// DrainAtArrivals drains only at arrival instants and, once every
	// customer has arrived, at successive server availability times.
	DrainAtArrivals DrainPolicy = "arrivals"
	// DrainAtDepartures also drains at every server completion that happens
	// before the next arrival, so a queued customer starts the moment a
	// server frees.
	DrainAtDepartures DrainPolicy = "departures"
)

// ValidDrainPolicies is the set of recognized drain policy names.
// Empty string defaults to DrainAtArrivals.
var ValidDrainPolicies = map[DrainPolicy]bool{"": true, DrainAtArrivals: true, DrainAtDepartures: true}

// Config is one simulation scenario, loadable from a YAML file.
// Means are in simulated time units; rates are derived from them.
type Config struct {
	ArrivalMean float64     `yaml:"arrival_mean" json:"arrivalMean"`
	ServiceMean float64     `yaml:"service_mean" json:"serviceMean"`
	Servers     int         `yaml:"servers" json:"servers"`
	Customers   int         `yaml:"customers" json:"customers"`
	UsePriority bool        `yaml:"priority" json:"priority"`
	Seed        int64       `yaml:"seed" json:"seed"`
	Drain       DrainPolicy `yaml:"drain" json:"drain"`
	TraceLevel  string      `yaml:"trace" json:"trace"`
}

// DefaultConfig mirrors the CLI flag defaults.
func DefaultConfig() Config {
	return Config{
		ArrivalMean: 2,
		ServiceMean: 1,
		Servers:     2,
		Customers:   100,
		Seed:        42,
		Drain:       DrainAtArrivals,
		TraceLevel:  string(trace.TraceLevelNone),
	}
}

// Lambda returns the arrival rate 1/ArrivalMean.
func (c Config) Lambda() float64 { return 1 / c.ArrivalMean }

// Mu returns the per-server service rate 1/ServiceMean.
func (c Config) Mu() float64 { return 1 / c.ServiceMean }

// Unstable reports whether lambda >= c*mu. Advisory only: the simulator
// still runs, the analytical calculator reports Stable=false.
func (c Config) Unstable() bool {
	return c.Lambda() >= float64(c.Servers)*c.Mu()
}

// Validate checks that all fields are in range. Returns a *ParameterError
// naming the first offending field.
func (c Config) Validate() error {
	if err := positiveRate("arrival_mean", c.ArrivalMean); err != nil {
		return err
	}
	if err := positiveRate("service_mean", c.ServiceMean); err != nil {
		return err
	}
	if err := positiveCount("servers", c.Servers); err != nil {
		return err
	}
	if err := positiveCount("customers", c.Customers); err != nil {
		return err
	}
	if !ValidDrainPolicies[c.Drain] {
		return &ParameterError{Field: "drain", Value: c.Drain, Reason: "must be one of arrivals, departures"}
	}
	if !trace.IsValidTraceLevel(c.TraceLevel) {
		return &ParameterError{Field: "trace", Value: c.TraceLevel, Reason: "must be one of none, transitions"}
	}
	return nil
}

// LoadConfig reads a YAML scenario file on top of DefaultConfig.
// Unknown keys are rejected so typos surface as errors.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario config: %w", err)
	}
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing scenario config: %w", err)
	}
	return &cfg, nil
}
