// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optimize

import (
	"math"

	"github.com/curioloop/optkit/linesearch"
	"github.com/curioloop/optkit/vecops"
)

// GradientDescent minimizes 𝒇 by steepest descent with a backtracking
// Armijo line search. When grad is nil the gradient is estimated by
// forward differences.
func GradientDescent(f Objective, x0 []float64, grad Gradient, opts *Options) *Result {
	o := opts.sanitize()
	gradFn := gradientOr(f, grad)

	x := vecops.Clone(x0)
	fx := f(x)
	gx := gradFn(x)
	funcCalls, gradCalls := 1, 1

	done := func(iter int, reason Reason, msg string) *Result {
		if msg == "" {
			msg = reason.Message()
		}
		r := &Result{
			X: vecops.Clone(x), F: fx, Gradient: vecops.Clone(gx),
			Iterations: iter, FuncCalls: funcCalls, GradCalls: gradCalls,
			Converged: reason.Converged(), Message: msg,
		}
		o.Log.final("GradientDescent", r)
		return r
	}

	if reason := CheckConvergence(vecops.NormInf(gx), math.Inf(1), math.Inf(1), 0, o); reason.Converged() {
		return done(0, reason, "")
	}

	for iteration := 1; iteration <= o.MaxIterations; iteration++ {
		d := vecops.Negate(gx)

		ls := linesearch.Backtracking(linesearch.Objective(f), x, d, fx, gx, nil)
		funcCalls += ls.FuncCalls
		if !ls.OK {
			return done(iteration, ReasonLineSearchFailed, "")
		}

		xNew := vecops.AddScaled(x, d, ls.Alpha)
		fNew := ls.F
		gNew := gradFn(xNew)
		gradCalls++

		stepNorm := vecops.NormInf(vecops.Sub(xNew, x))
		funcChange := math.Abs(fx - fNew)
		gradNorm := vecops.NormInf(gNew)

		x, fx, gx = xNew, fNew, gNew
		o.Log.trace("GradientDescent", iteration, fx, gradNorm)

		if reason := CheckConvergence(gradNorm, stepNorm, funcChange, iteration, o); reason != ReasonNone {
			return done(iteration, reason, "")
		}
	}
	return done(o.MaxIterations, ReasonMaxIterations, maxIterMessage(o.MaxIterations))
}
