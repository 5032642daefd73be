// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/curioloop/optkit/optimize"
)

var (
	runFunction string
	runMethod   string
	runMaxIter  int
	runGradTol  float64
	runNumGrad  bool
)

type runReport struct {
	Function   string    `json:"function"`
	Method     string    `json:"method"`
	X          []float64 `json:"x"`
	F          float64   `json:"fun"`
	Iterations int       `json:"iterations"`
	FuncCalls  int       `json:"function_calls"`
	GradCalls  int       `json:"gradient_calls"`
	Converged  bool      `json:"converged"`
	Message    string    `json:"message"`
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single minimization",
	Long:  `Minimizes one of the built-in test functions and prints the result as JSON.`,
	RunE:  runMinimize,
}

func init() {
	runCmd.Flags().StringVar(&runFunction, "function", "rosenbrock", "Test function name")
	runCmd.Flags().StringVar(&runMethod, "method", "auto", "Minimization method")
	runCmd.Flags().IntVar(&runMaxIter, "max-iter", 0, "Iteration cap (0 = default)")
	runCmd.Flags().Float64Var(&runGradTol, "grad-tol", 0, "Gradient tolerance (0 = default)")
	runCmd.Flags().BoolVar(&runNumGrad, "numerical-gradient", false, "Ignore the analytic gradient")

	rootCmd.AddCommand(runCmd)
}

func runMinimize(cmd *cobra.Command, args []string) error {
	tf, err := lookupFunction(runFunction)
	if err != nil {
		return err
	}
	method, err := optimize.ParseMethod(runMethod)
	if err != nil {
		return err
	}

	grad := tf.grad
	if runNumGrad {
		grad = nil
	}
	opts := &optimize.Options{MaxIterations: runMaxIter, GradTol: runGradTol}

	slog.Info("Starting minimization", "function", tf.name, "method", method.String())
	r, err := optimize.Minimize(tf.f, tf.start, grad, method, opts)
	if err != nil {
		return err
	}

	report := runReport{
		Function: tf.name, Method: method.String(),
		X: r.X, F: r.F,
		Iterations: r.Iterations, FuncCalls: r.FuncCalls, GradCalls: r.GradCalls,
		Converged: r.Converged, Message: r.Message,
	}
	b, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(b))
	return nil
}
