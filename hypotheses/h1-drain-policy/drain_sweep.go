// H1 Drain-Policy Bias Sweep
//
// This program sweeps offered load across server counts and compares the
// simulated Wq under both drain policies with the Erlang-C Wq. Draining only
// at arrival instants leaves free servers idle while customers queue, so its
// Wq is expected to sit above Erlang-C; draining at departures should
// converge to it.
//
// Outputs h1_drain_policy.csv and h1_drain_policy.html (one line chart per
// server count).
//
// Usage: go run drain_sweep.go --customers 20000 --output-dir <dir>
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/inference-sim/mmcsim/sim"
)

var (
	serverCounts = []int{1, 2, 4, 8}
	loads        = []float64{0.2, 0.4, 0.6, 0.8, 0.9}
)

// cell is one (servers, rho) point of the sweep.
type cell struct {
	servers      int
	rho          float64
	erlangWq     float64
	arrivalsWq   float64
	departuresWq float64
}

func runCell(c int, rho float64, customers int, seed int64) (cell, error) {
	cfg := sim.DefaultConfig()
	cfg.Servers = c
	cfg.ServiceMean = 1
	cfg.ArrivalMean = 1 / (rho * float64(c))
	cfg.Customers = customers
	cfg.Seed = seed

	steady, err := sim.ComputeSteadyStateMetrics(cfg.Lambda(), cfg.Mu(), c)
	if err != nil {
		return cell{}, err
	}
	if !steady.Stable {
		return cell{}, fmt.Errorf("c=%d rho=%.2f is unstable", c, rho)
	}
	out := cell{servers: c, rho: rho, erlangWq: steady.Metrics.Wq}

	cfg.Drain = sim.DrainAtArrivals
	res, _, err := sim.RunConfig(cfg)
	if err != nil {
		return cell{}, err
	}
	out.arrivalsWq = res.Metrics.Wq

	cfg.Drain = sim.DrainAtDepartures
	if res, _, err = sim.RunConfig(cfg); err != nil {
		return cell{}, err
	}
	out.departuresWq = res.Metrics.Wq
	return out, nil
}

func writeCSV(path string, cells []cell) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	_ = w.Write([]string{"servers", "rho", "erlang_wq", "arrivals_wq", "departures_wq", "arrivals_bias", "departures_bias"})
	for _, c := range cells {
		_ = w.Write([]string{
			strconv.Itoa(c.servers),
			strconv.FormatFloat(c.rho, 'f', 2, 64),
			strconv.FormatFloat(c.erlangWq, 'f', 6, 64),
			strconv.FormatFloat(c.arrivalsWq, 'f', 6, 64),
			strconv.FormatFloat(c.departuresWq, 'f', 6, 64),
			strconv.FormatFloat(c.arrivalsWq-c.erlangWq, 'f', 6, 64),
			strconv.FormatFloat(c.departuresWq-c.erlangWq, 'f', 6, 64),
		})
	}
	w.Flush()
	return w.Error()
}

func writeChart(path string, cells []cell) error {
	page := components.NewPage()
	page.PageTitle = "H1 drain policy"

	for i, c := range serverCounts {
		row := cells[i*len(loads) : (i+1)*len(loads)]
		xs := make([]string, 0, len(row))
		var erlang, arrivals, departures []opts.LineData
		for _, p := range row {
			xs = append(xs, strconv.FormatFloat(p.rho, 'f', 2, 64))
			erlang = append(erlang, opts.LineData{Value: p.erlangWq})
			arrivals = append(arrivals, opts.LineData{Value: p.arrivalsWq})
			departures = append(departures, opts.LineData{Value: p.departuresWq})
		}

		line := charts.NewLine()
		line.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("Wq, c=%d", c)}),
			charts.WithXAxisOpts(opts.XAxis{Name: "rho"}),
			charts.WithYAxisOpts(opts.YAxis{Name: "Wq"}),
			charts.WithLegendOpts(opts.Legend{Orient: "vertical", Right: "0%", Top: "10%"}),
		)
		line.SetXAxis(xs).
			AddSeries("erlang-c", erlang).
			AddSeries("drain=arrivals", arrivals).
			AddSeries("drain=departures", departures)
		page.AddCharts(line)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return page.Render(f)
}

func main() {
	customers := pflag.Int("customers", 20000, "Customers per run")
	seed := pflag.Int64("seed", 42, "Seed shared by every run")
	outputDir := pflag.String("output-dir", ".", "Output directory for the CSV and HTML files")
	pflag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		logrus.Fatalf("creating output dir: %v", err)
	}

	// Each cell owns its Simulator and PartitionedRNG, so cells run in parallel.
	cells := make([]cell, len(serverCounts)*len(loads))
	eg, _ := errgroup.WithContext(context.Background())
	eg.SetLimit(runtime.NumCPU())
	for i, c := range serverCounts {
		for j, rho := range loads {
			c, rho := c, rho // per-iteration copies (pre-Go 1.22 loop semantics)
			idx := i*len(loads) + j
			eg.Go(func() error {
				out, err := runCell(c, rho, *customers, *seed)
				if err != nil {
					return err
				}
				cells[idx] = out
				logrus.Infof("c=%d rho=%.2f erlang=%.4f arrivals=%.4f departures=%.4f",
					c, rho, out.erlangWq, out.arrivalsWq, out.departuresWq)
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		logrus.Fatalf("sweep failed: %v", err)
	}

	csvPath := filepath.Join(*outputDir, "h1_drain_policy.csv")
	if err := writeCSV(csvPath, cells); err != nil {
		logrus.Fatalf("writing %s: %v", csvPath, err)
	}
	htmlPath := filepath.Join(*outputDir, "h1_drain_policy.html")
	if err := writeChart(htmlPath, cells); err != nil {
		logrus.Fatalf("writing %s: %v", htmlPath, err)
	}
	logrus.Infof("Wrote %s and %s", csvPath, htmlPath)
}
