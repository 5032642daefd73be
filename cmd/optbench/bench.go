// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/curioloop/optkit/optimize"
)

var (
	benchFunction string
	benchMethods  string
	benchIters    int
	benchWarmup   int
)

type wallClock struct {
	Min    float64 `json:"min"`
	Median float64 `json:"median"`
	P95    float64 `json:"p95"`
	Max    float64 `json:"max"`
}

type benchRecord struct {
	Node        string    `json:"node"`
	Function    string    `json:"function"`
	Iterations  int       `json:"iterations"`
	Warmup      int       `json:"warmup"`
	WallClockMs wallClock `json:"wall_clock_ms"`
	Correctness bool      `json:"correctness"`
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark the minimizers",
	Long: `Measures wall-clock time of each selected method on a test function
and emits one NDJSON record per method on stdout.`,
	RunE: runBench,
}

func init() {
	benchCmd.Flags().StringVar(&benchFunction, "function", "rosenbrock", "Test function name")
	benchCmd.Flags().StringVar(&benchMethods, "methods", "nelder-mead,bfgs,l-bfgs", "Comma-separated method list")
	benchCmd.Flags().IntVar(&benchIters, "iters", 100, "Timed repetitions per method")
	benchCmd.Flags().IntVar(&benchWarmup, "warmup", 10, "Untimed warmup repetitions")

	rootCmd.AddCommand(benchCmd)
}

func runBench(cmd *cobra.Command, args []string) error {
	tf, err := lookupFunction(benchFunction)
	if err != nil {
		return err
	}

	for _, name := range strings.Split(benchMethods, ",") {
		name = strings.TrimSpace(name)
		method, err := optimize.ParseMethod(name)
		if err != nil {
			return err
		}

		solve := func() *optimize.Result {
			r, _ := optimize.Minimize(tf.f, tf.start, tf.grad, method, nil)
			return r
		}

		correct := true
		if r := solve(); tf.minimum != nil {
			for i, m := range tf.minimum {
				if math.Abs(r.X[i]-m) > 0.01 {
					correct = false
				}
			}
		}
		if !correct {
			slog.Warn("Correctness check failed", "method", name, "function", tf.name)
		}

		for i := 0; i < benchWarmup; i++ {
			solve()
		}
		times := make([]float64, benchIters)
		for i := 0; i < benchIters; i++ {
			t0 := time.Now()
			solve()
			times[i] = float64(time.Since(t0).Nanoseconds()) / 1e6
		}
		sort.Float64s(times)

		rec := benchRecord{
			Node:       name,
			Function:   tf.name,
			Iterations: benchIters,
			Warmup:     benchWarmup,
			WallClockMs: wallClock{
				Min:    times[0],
				Median: times[len(times)/2],
				P95:    times[int(float64(len(times))*0.95)],
				Max:    times[len(times)-1],
			},
			Correctness: correct,
		}
		b, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(b))
	}
	return nil
}
