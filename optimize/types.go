// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package optimize implements a self-contained family of unconstrained,
// box-constrained and general-constrained minimizers over dense in-memory
// vectors.
//
// Every solver is a pure synchronous call: it owns its working vectors for
// the duration of the call, keeps no global state and returns a fresh
// Result. Independent calls are therefore safe to run concurrently without
// locking. Non-convergence is reported as data (Result.Converged=false with
// a message), never as an error; only programmer mistakes (unknown method,
// mismatched dimensions) fail fast.
package optimize

import (
	"fmt"

	"github.com/curioloop/optkit/numdiff"
)

const (
	zero = 0.0
	one  = 1.0
	two  = 2.0
)

// Objective evaluates 𝒇(𝐱) : ℝⁿ → ℝ.
type Objective func(x []float64) float64

// Gradient evaluates 𝒇′(𝐱) : ℝⁿ → ℝⁿ.
type Gradient func(x []float64) []float64

// Hessian evaluates 𝒇″(𝐱) : ℝⁿ → ℝⁿˣⁿ in row-major order.
type Hessian func(x []float64) []float64

// Default tolerances shared by every solver.
const (
	DefaultGradTol       = 1e-8
	DefaultStepTol       = 1e-8
	DefaultFuncTol       = 1e-12
	DefaultMaxIterations = 1000
)

// Options specifies the stopping criteria shared by all solvers.
// Zero-valued fields select the documented defaults.
type Options struct {
	// The iteration stop when ‖𝐠ₖ‖∞ < GradTol (default 1e-8).
	GradTol float64
	// The iteration stop when ‖𝐱ₖ₊₁ - 𝐱ₖ‖∞ < StepTol (default 1e-8).
	StepTol float64
	// The iteration stop when |𝒇ₖ₊₁ - 𝒇ₖ| < FuncTol (default 1e-12).
	FuncTol float64
	// The iteration stop when the number of iteration exceeds limit
	// (default 1000).
	MaxIterations int
	// Optional trace logging; nil disables all output.
	Log *Logger
}

func (o *Options) sanitize() Options {
	s := Options{}
	if o != nil {
		s = *o
	}
	if s.GradTol <= zero {
		s.GradTol = DefaultGradTol
	}
	if s.StepTol <= zero {
		s.StepTol = DefaultStepTol
	}
	if s.FuncTol <= zero {
		s.FuncTol = DefaultFuncTol
	}
	if s.MaxIterations <= 0 {
		s.MaxIterations = DefaultMaxIterations
	}
	return s
}

// Result contains the final result of an optimization call.
type Result struct {
	X         []float64 // Final solution.
	F         float64   // Final function value.
	Gradient  []float64 // Final gradient, nil for derivative-free methods.
	Iterations int      // Number of iterations performed.
	FuncCalls int       // Number of objective evaluations.
	GradCalls int       // Number of gradient evaluations.
	Converged bool      // Whether a convergence criterion was satisfied.
	Message   string    // Human-readable termination report.
}

// Reason identifies which stopping criterion terminated an optimization.
type Reason int

const (
	// ReasonNone means no criterion is satisfied yet; keep iterating.
	ReasonNone Reason = iota
	ReasonGradient
	ReasonStep
	ReasonFunction
	ReasonMaxIterations
	ReasonLineSearchFailed
)

// Converged reports whether the reason implies success.
// Only gradient/step/function do; iteration caps and line-search
// failures terminate without converging.
func (r Reason) Converged() bool {
	switch r {
	case ReasonGradient, ReasonStep, ReasonFunction:
		return true
	}
	return false
}

// Message returns the human-readable report for the reason.
func (r Reason) Message() string {
	switch r {
	case ReasonGradient:
		return "Converged: gradient norm below tolerance"
	case ReasonStep:
		return "Converged: step size below tolerance"
	case ReasonFunction:
		return "Converged: function change below tolerance"
	case ReasonMaxIterations:
		return "Stopped: reached maximum iterations"
	case ReasonLineSearchFailed:
		return "Stopped: line search failed"
	}
	return fmt.Sprintf("Unknown convergence reason: %d", int(r))
}

// CheckConvergence tests the stopping criteria in fixed priority order:
// gradient norm, then step norm, then function change, then the iteration
// limit. The order is part of the contract: when several criteria hold
// simultaneously the gradient criterion wins.
func CheckConvergence(gradNorm, stepNorm, funcChange float64, iteration int, opts Options) Reason {
	switch {
	case gradNorm < opts.GradTol:
		return ReasonGradient
	case stepNorm < opts.StepTol:
		return ReasonStep
	case funcChange < opts.FuncTol:
		return ReasonFunction
	case iteration >= opts.MaxIterations:
		return ReasonMaxIterations
	}
	return ReasonNone
}

func maxIterMessage(n int) string {
	return fmt.Sprintf("Stopped: reached maximum iterations (%d)", n)
}

// gradientOr falls back to a forward-difference estimate when no analytic
// gradient is supplied.
func gradientOr(f Objective, grad Gradient) Gradient {
	if grad != nil {
		return grad
	}
	return func(x []float64) []float64 {
		return numdiff.Gradient(f, x, numdiff.Forward)
	}
}

// hessianOr falls back to a central-difference estimate when no analytic
// Hessian is supplied.
func hessianOr(f Objective, hess Hessian) Hessian {
	if hess != nil {
		return hess
	}
	return func(x []float64) []float64 {
		return numdiff.Hessian(f, x)
	}
}
