package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/inference-sim/mmcsim/sim"
	"github.com/inference-sim/mmcsim/sim/trace"
)

var (
	// CLI flags for the queue parameters
	arrivalMean float64 // Mean time between arrivals (1/lambda)
	serviceMean float64 // Mean service time per customer (1/mu)
	numServers  int     // Number of parallel servers (c)
	numCustomer int     // Number of customers to simulate
	usePriority bool    // Draw priority classes 1..3 and serve lower numbers first

	// CLI flags for the run itself
	seed          int64  // Seed for arrival, service and priority draws
	drainPolicy   string // When queued customers are pulled onto free servers
	logLevel      string // Log verbosity level
	configPath    string // YAML scenario file
	outputPath    string // JSON results file
	showCustomers bool   // Print the per-customer table
	traceLevel    string // Transition trace level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "mmcsim",
	Short: "M/M/c queue simulator and Erlang-C calculator",
}

// setupLogging applies the --log flag to the package-level logrus logger.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// runCmd computes the analytical metrics and runs the simulation
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the M/M/c simulation and compare it with the Erlang-C metrics",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg, err := resolveConfig(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("Rejected configuration: %v", err)
		}
		if cfg.Unstable() {
			printInstabilityWarning(os.Stderr, cfg)
		}

		steady, err := sim.ComputeSteadyStateMetrics(cfg.Lambda(), cfg.Mu(), cfg.Servers)
		if err != nil {
			logrus.Fatalf("Analytical calculation failed: %v", err)
		}

		result, rec, err := sim.RunConfig(cfg)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}

		printMetrics(os.Stdout, steady, &result.Metrics)
		printServers(os.Stdout, result.Summary)
		if cfg.UsePriority {
			printPriorityBreakdown(os.Stdout, result.Summary)
		}
		if showCustomers {
			printCustomers(os.Stdout, result.Customers, cfg.UsePriority)
		}
		if rec != nil {
			printTraceSummary(os.Stdout, trace.Summarize(rec))
		}

		if outputPath != "" {
			out := RunOutput{
				Config:     cfg,
				Analytical: steady,
				Simulation: result,
				Comparison: sim.Compare(steady, result.Metrics),
				Trace:      rec,
			}
			if err := writeResults(outputPath, out); err != nil {
				logrus.Fatalf("Writing results: %v", err)
			}
			logrus.Infof("Results written to %s", outputPath)
		}

		logrus.Info("Simulation complete.")
	},
}

// analyzeCmd computes the closed-form metrics only
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute the steady-state Erlang-C metrics without simulating",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg, err := resolveConfig(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("Rejected configuration: %v", err)
		}

		steady, err := sim.ComputeSteadyStateMetrics(cfg.Lambda(), cfg.Mu(), cfg.Servers)
		if err != nil {
			logrus.Fatalf("Analytical calculation failed: %v", err)
		}
		if !steady.Stable {
			printInstabilityWarning(os.Stderr, cfg)
		}
		printMetrics(os.Stdout, steady, nil)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerQueueFlags adds the flags shared by run and analyze.
func registerQueueFlags(cmd *cobra.Command) {
	def := sim.DefaultConfig()
	cmd.Flags().Float64Var(&arrivalMean, "arrival-mean", def.ArrivalMean, "Average time between arrivals (1/lambda)")
	cmd.Flags().Float64Var(&serviceMean, "service-mean", def.ServiceMean, "Average service time per customer (1/mu)")
	cmd.Flags().IntVar(&numServers, "servers", def.Servers, "Number of parallel servers (c)")
	cmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	cmd.Flags().StringVar(&configPath, "config", "", "YAML scenario file; explicit flags override its values")
}

// registerRunFlags adds the flags that only apply to run.
func registerRunFlags(cmd *cobra.Command) {
	def := sim.DefaultConfig()
	cmd.Flags().IntVar(&numCustomer, "customers", def.Customers, "Number of customers to simulate")
	cmd.Flags().BoolVar(&usePriority, "priority", false, "Assign random priority levels (1-3); lower numbers are served first")
	cmd.Flags().Int64Var(&seed, "seed", def.Seed, "Seed for arrival, service and priority draws")
	cmd.Flags().StringVar(&drainPolicy, "drain", string(def.Drain), "When queued customers start service: arrivals, departures")
	cmd.Flags().StringVar(&outputPath, "output", "", "Write config, metrics and customers as JSON to this file")
	cmd.Flags().BoolVar(&showCustomers, "customers-table", false, "Print the per-customer table")
	cmd.Flags().StringVar(&traceLevel, "trace", def.TraceLevel, "Transition trace level: none, transitions")
}

// init sets up CLI flags and subcommands
func init() {
	registerQueueFlags(runCmd)
	registerRunFlags(runCmd)
	registerQueueFlags(analyzeCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(analyzeCmd)
}
