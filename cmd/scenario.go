package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/inference-sim/mmcsim/sim"
)

// resolveConfig builds the scenario for cmd. Without --config every flag
// value is used. With --config the file wins except for flags the user set
// explicitly (checked via Changed, so file values are never clobbered by
// flag defaults).
func resolveConfig(cmd *cobra.Command) (sim.Config, error) {
	cfg := sim.DefaultConfig()
	if configPath != "" {
		loaded, err := sim.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = *loaded
		logrus.Infof("Loaded scenario from %s", configPath)
	}

	override := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && (configPath == "" || f.Changed)
	}
	if override("arrival-mean") {
		cfg.ArrivalMean = arrivalMean
	}
	if override("service-mean") {
		cfg.ServiceMean = serviceMean
	}
	if override("servers") {
		cfg.Servers = numServers
	}
	if override("customers") {
		cfg.Customers = numCustomer
	}
	if override("priority") {
		cfg.UsePriority = usePriority
	}
	if override("seed") {
		cfg.Seed = seed
	}
	if override("drain") {
		cfg.Drain = sim.DrainPolicy(drainPolicy)
	}
	if override("trace") {
		cfg.TraceLevel = traceLevel
	}
	return cfg, nil
}
