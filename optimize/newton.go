// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optimize

import (
	"math"

	"github.com/curioloop/optkit/linesearch"
	"github.com/curioloop/optkit/vecops"
)

// Modified Newton regularization schedule: when the Hessian is not
// positive definite, add τI with τ growing geometrically until the
// Cholesky factorization succeeds.
const (
	newtonTau0     = 1e-8
	newtonTauGrow  = 10.0
	newtonTauTries = 20
)

// Newton minimizes 𝒇 by Newton's method with a strong Wolfe line search.
// Indefinite Hessians are handled by the modified Newton regularization
// H + τI, and any non-descent direction falls back to steepest descent.
// Nil grad or hess fall back to finite differences.
func Newton(f Objective, x0 []float64, grad Gradient, hess Hessian, opts *Options) *Result {
	o := opts.sanitize()
	gradFn := gradientOr(f, grad)
	hessFn := hessianOr(f, hess)

	n := len(x0)
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
		o.Log.final("Newton", r)
		return r
	}

	if reason := CheckConvergence(vecops.NormInf(gx), math.Inf(1), math.Inf(1), 0, o); reason.Converged() {
		return done(0, reason, "")
	}

	for iteration := 1; iteration <= o.MaxIterations; iteration++ {
		h := hessFn(x)
		negG := vecops.Negate(gx)

		d, ok := cholSolve(h, negG)
		if !ok {
			tau := newtonTau0
			for try := 0; try < newtonTauTries; try++ {
				hReg := make([]float64, len(h))
				copy(hReg, h)
				for i := 0; i < n; i++ {
					hReg[i*n+i] += tau
				}
				if d, ok = cholSolve(hReg, negG); ok {
					break
				}
				tau *= newtonTauGrow
			}
			if !ok {
				return done(iteration, ReasonNone, "Stopped: regularization failed")
			}
		}

		if vecops.Dot(d, gx) >= zero {
			d = vecops.Negate(gx)
		}

		ls := linesearch.Wolfe(linesearch.Objective(f), linesearch.Gradient(gradFn), x, d, fx, gx, nil)
		funcCalls += ls.FuncCalls
		gradCalls += ls.GradCalls
		if !ls.OK {
			return done(iteration, ReasonLineSearchFailed, "")
		}

		xNew := vecops.AddScaled(x, d, ls.Alpha)
		fNew := ls.F
		gNew := ls.G
		if gNew == nil {
			gNew = gradFn(xNew)
			gradCalls++
		}

		stepNorm := vecops.NormInf(vecops.Sub(xNew, x))
		funcChange := math.Abs(fx - fNew)
		gradNorm := vecops.NormInf(gNew)

		x, fx, gx = xNew, fNew, gNew
		o.Log.trace("Newton", iteration, fx, gradNorm)

		if reason := CheckConvergence(gradNorm, stepNorm, funcChange, iteration, o); reason != ReasonNone {
			return done(iteration, reason, "")
		}
	}
	return done(o.MaxIterations, ReasonMaxIterations, maxIterMessage(o.MaxIterations))
}
