// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optimize

import (
	"math"

	"github.com/curioloop/optkit/linesearch"
	"github.com/curioloop/optkit/vecops"
)

// Curvature threshold below which the quasi-Newton update is skipped to
// keep the inverse Hessian approximation positive definite.
const curvatureTol = 1e-10

// bfgsUpdate applies Hₖ₊₁ = (I - ρ𝐬𝐲ᵀ)Hₖ(I - ρ𝐲𝐬ᵀ) + ρ𝐬𝐬ᵀ in place of
// a fresh matrix, expanded so a single O(n²) pass suffices.
func bfgsUpdate(h []float64, s, y []float64, rho float64) []float64 {
	n := len(s)
	hy := matVec(h, y)
	yth := make([]float64, n)
	for j := 0; j < n; j++ {
		v := zero
		for i := 0; i < n; i++ {
			v += y[i] * h[i*n+j]
		}
		yth[j] = v
	}
	ythy := vecops.Dot(y, hy)

	hNew := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			hNew[i*n+j] = h[i*n+j] -
				rho*(s[i]*yth[j]+hy[i]*s[j]) +
				rho*(rho*ythy+one)*s[i]*s[j]
		}
	}
	return hNew
}

// BFGS minimizes 𝒇 by the full-memory BFGS quasi-Newton method with a
// strong Wolfe line search. The inverse Hessian approximation starts at
// the identity and is updated only when the curvature 𝐲ᵀ𝐬 is safely
// positive.
func BFGS(f Objective, x0 []float64, grad Gradient, opts *Options) *Result {
	o := opts.sanitize()
	gradFn := gradientOr(f, grad)

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
		o.Log.final("BFGS", r)
		return r
	}

	if reason := CheckConvergence(vecops.NormInf(gx), math.Inf(1), math.Inf(1), 0, o); reason.Converged() {
		return done(0, reason, "")
	}

	h := identity(n)

	for iteration := 1; iteration <= o.MaxIterations; iteration++ {
		d := vecops.Negate(matVec(h, gx))

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

		sk := vecops.Sub(xNew, x)
		yk := vecops.Sub(gNew, gx)
		if ys := vecops.Dot(yk, sk); ys > curvatureTol {
			h = bfgsUpdate(h, sk, yk, one/ys)
		}

		stepNorm := vecops.NormInf(sk)
		funcChange := math.Abs(fx - fNew)
		gradNorm := vecops.NormInf(gNew)

		x, fx, gx = xNew, fNew, gNew
		o.Log.trace("BFGS", iteration, fx, gradNorm)

		if reason := CheckConvergence(gradNorm, stepNorm, funcChange, iteration, o); reason != ReasonNone {
			return done(iteration, reason, "")
		}
	}
	return done(o.MaxIterations, ReasonMaxIterations, maxIterMessage(o.MaxIterations))
}
