// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optimize

import (
	"math"

	"github.com/curioloop/optkit/linesearch"
	"github.com/curioloop/optkit/vecops"
)

const (
	cgEta     = 0.4
	cgMinDeno = 1e-30
)

// ConjugateGradientOptions tunes the nonlinear CG iteration.
// The zero value of any field selects its default.
type ConjugateGradientOptions struct {
	// Eta bounds the βᴴᶻ truncation η̄ₖ = -1/(‖𝐝‖·min(η,‖𝐠‖)) (default 0.4).
	Eta float64
	// RestartInterval forces a steepest descent restart every so many
	// iterations (default n, the problem dimension).
	RestartInterval int
}

// ConjugateGradient minimizes 𝒇 by nonlinear conjugate gradient with the
// Hager-Zhang β update and the Hager-Zhang approximate Wolfe line search.
// The direction is reset to steepest descent every RestartInterval
// iterations and whenever the update loses the descent property.
func ConjugateGradient(f Objective, x0 []float64, grad Gradient, opts *Options, cg *ConjugateGradientOptions) *Result {
	o := opts.sanitize()
	gradFn := gradientOr(f, grad)

	n := len(x0)
	eta := cgEta
	restart := n
	if cg != nil {
		if cg.Eta > zero {
			eta = cg.Eta
		}
		if cg.RestartInterval > 0 {
			restart = cg.RestartInterval
		}
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
		o.Log.final("ConjugateGradient", r)
		return r
	}

	if reason := CheckConvergence(vecops.NormInf(gx), math.Inf(1), math.Inf(1), 0, o); reason.Converged() {
		return done(0, reason, "")
	}

	d := vecops.Negate(gx)

	for iteration := 1; iteration <= o.MaxIterations; iteration++ {
		ls := linesearch.HagerZhang(linesearch.Objective(f), linesearch.Gradient(gradFn), x, d, fx, gx, nil)
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

		// Hager-Zhang β with the lower truncation that guarantees
		// convergence for general functions (Hager & Zhang 2005, eq. 1.3).
		yk := vecops.Sub(gNew, gx)
		dDotY := vecops.Dot(d, yk)

		beta := zero
		if math.Abs(dDotY) >= cgMinDeno {
			betaHZ := (vecops.Dot(yk, gNew) - two*vecops.Dot(yk, yk)*vecops.Dot(d, gNew)/dDotY) / dDotY
			etaK := -one / (vecops.Norm(d) * math.Min(eta, vecops.Norm(gx)))
			beta = math.Max(betaHZ, etaK)
		}
		if iteration%restart == 0 {
			beta = zero
		}

		dNew := make([]float64, n)
		for i := range dNew {
			dNew[i] = -gNew[i] + beta*d[i]
		}
		if vecops.Dot(dNew, gNew) >= zero {
			dNew = vecops.Negate(gNew)
		}

		stepNorm := vecops.NormInf(vecops.Sub(xNew, x))
		funcChange := math.Abs(fx - fNew)
		gradNorm := vecops.NormInf(gNew)

		x, fx, gx, d = xNew, fNew, gNew, dNew
		o.Log.trace("ConjugateGradient", iteration, fx, gradNorm)

		if reason := CheckConvergence(gradNorm, stepNorm, funcChange, iteration, o); reason != ReasonNone {
			return done(iteration, reason, "")
		}
	}
	return done(o.MaxIterations, ReasonMaxIterations, maxIterMessage(o.MaxIterations))
}
