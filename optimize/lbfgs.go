// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optimize

import (
	"math"

	"github.com/curioloop/optkit/linesearch"
	"github.com/curioloop/optkit/vecops"
)

// DefaultLBFGSMemory is the number of correction pairs retained.
const DefaultLBFGSMemory = 10

// LBFGS minimizes 𝒇 by limited-memory BFGS with the standard two-loop
// recursion and a strong Wolfe line search. memory pairs of corrections
// (𝐬ᵢ, 𝐲ᵢ) are retained; memory ≤ 0 selects the default of 10. The
// initial scaling γ = 𝐲ᵀ𝐬/𝐲ᵀ𝐲 follows Nocedal & Wright eq. 7.20.
func LBFGS(f Objective, x0 []float64, grad Gradient, opts *Options, memory int) *Result {
	o := opts.sanitize()
	gradFn := gradientOr(f, grad)
	if memory <= 0 {
		memory = DefaultLBFGSMemory
	}

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
		o.Log.final("LBFGS", r)
		return r
	}

	if reason := CheckConvergence(vecops.NormInf(gx), math.Inf(1), math.Inf(1), 0, o); reason.Converged() {
		return done(0, reason, "")
	}

	var (
		sHist, yHist [][]float64
		rhoHist      []float64
	)
	gamma := one

	for iteration := 1; iteration <= o.MaxIterations; iteration++ {
		var d []float64
		if len(sHist) == 0 {
			d = vecops.Negate(gx)
		} else {
			m := len(sHist)
			q := vecops.Clone(gx)
			alphas := make([]float64, m)
			for i := m - 1; i >= 0; i-- {
				alphas[i] = rhoHist[i] * vecops.Dot(sHist[i], q)
				q = vecops.AddScaled(q, yHist[i], -alphas[i])
			}
			r := vecops.Scale(q, gamma)
			for i := 0; i < m; i++ {
				beta := rhoHist[i] * vecops.Dot(yHist[i], r)
				r = vecops.AddScaled(r, sHist[i], alphas[i]-beta)
			}
			d = vecops.Negate(r)
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

		sk := vecops.Sub(xNew, x)
		yk := vecops.Sub(gNew, gx)
		if ys := vecops.Dot(yk, sk); ys > curvatureTol {
			if len(sHist) >= memory {
				sHist = sHist[1:]
				yHist = yHist[1:]
				rhoHist = rhoHist[1:]
			}
			sHist = append(sHist, sk)
			yHist = append(yHist, yk)
			rhoHist = append(rhoHist, one/ys)
			gamma = ys / vecops.Dot(yk, yk)
		}

		stepNorm := vecops.NormInf(sk)
		funcChange := math.Abs(fx - fNew)
		gradNorm := vecops.NormInf(gNew)

		x, fx, gx = xNew, fNew, gNew
		o.Log.trace("LBFGS", iteration, fx, gradNorm)

		if reason := CheckConvergence(gradNorm, stepNorm, funcChange, iteration, o); reason != ReasonNone {
			return done(iteration, reason, "")
		}
	}
	return done(o.MaxIterations, ReasonMaxIterations, maxIterMessage(o.MaxIterations))
}
