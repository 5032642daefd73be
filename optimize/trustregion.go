// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optimize

import (
	"math"

	"github.com/curioloop/optkit/vecops"
)

const (
	trDelta0    = 1.0
	trDeltaMax  = 100.0
	trEta       = 0.1
	trRhoLower  = 0.25
	trRhoUpper  = 0.75
	trMinRadius = 1e-15
)

// TrustRegionOptions tunes the trust region radius control shared by the
// dogleg and Krylov solvers. The zero value of any field selects its
// default.
type TrustRegionOptions struct {
	// InitialRadius and MaxRadius bound Δ (defaults 1 and 100).
	InitialRadius, MaxRadius float64
	// Eta is the minimum ratio ρ of actual to predicted reduction for a
	// step to be accepted (default 0.1).
	Eta float64
}

func (o *TrustRegionOptions) sanitize() TrustRegionOptions {
	s := TrustRegionOptions{}
	if o != nil {
		s = *o
	}
	if s.InitialRadius <= zero {
		s.InitialRadius = trDelta0
	}
	if s.MaxRadius <= zero {
		s.MaxRadius = trDeltaMax
	}
	if s.Eta <= zero {
		s.Eta = trEta
	}
	return s
}

// doglegStep solves the trust region subproblem
//
//	min 𝐠ᵀ𝐩 + ½𝐩ᵀH𝐩  s.t. ‖𝐩‖ ≤ Δ
//
// by the dogleg path: the full Newton step when it fits, otherwise a
// walk from the Cauchy point toward the Newton point clipped at the
// boundary. Negative curvature along 𝐠 falls back to the scaled
// steepest descent direction.
func doglegStep(g, h []float64, delta float64) []float64 {
	negG := vecops.Negate(g)
	pN, pnOK := cholSolve(h, negG)
	if pnOK && vecops.Norm(pN) <= delta {
		return pN
	}

	hg := matVec(h, g)
	gHg := vecops.Dot(g, hg)
	gNormSq := vecops.Dot(g, g)

	if gHg <= zero {
		return vecops.Scale(g, -delta/math.Sqrt(gNormSq))
	}

	alphaC := gNormSq / gHg
	pC := vecops.Scale(g, -alphaC)
	pcNorm := vecops.Norm(pC)
	if pcNorm >= delta {
		return vecops.Scale(pC, delta/pcNorm)
	}
	if !pnOK {
		return pC
	}

	// Intersection of the second dogleg segment with the boundary.
	diff := vecops.Sub(pN, pC)
	a := vecops.Dot(diff, diff)
	b := two * vecops.Dot(pC, diff)
	c := vecops.Dot(pC, pC) - delta*delta
	disc := b*b - 4*a*c
	if disc < zero || a <= zero {
		return pC
	}
	tau := (-b + math.Sqrt(disc)) / (two * a)
	tau = math.Max(zero, math.Min(one, tau))
	return vecops.AddScaled(pC, diff, tau)
}

// NewtonTrustRegion minimizes 𝒇 by Newton's method globalized with a
// dogleg trust region. Nil grad or hess fall back to finite differences.
func NewtonTrustRegion(f Objective, x0 []float64, grad Gradient, hess Hessian, opts *Options, tr *TrustRegionOptions) *Result {
	o := opts.sanitize()
	t := tr.sanitize()
	gradFn := gradientOr(f, grad)
	hessFn := hessianOr(f, hess)

	x := vecops.Clone(x0)
	fx := f(x)
	gx := gradFn(x)
	funcCalls, gradCalls := 1, 1
	delta := t.InitialRadius

	done := func(iter int, reason Reason, msg string) *Result {
		if msg == "" {
			msg = reason.Message()
		}
		r := &Result{
			X: vecops.Clone(x), F: fx, Gradient: vecops.Clone(gx),
			Iterations: iter, FuncCalls: funcCalls, GradCalls: gradCalls,
			Converged: reason.Converged(), Message: msg,
		}
		o.Log.final("NewtonTrustRegion", r)
		return r
	}

	if reason := CheckConvergence(vecops.NormInf(gx), math.Inf(1), math.Inf(1), 0, o); reason.Converged() {
		return done(0, reason, "")
	}

	for iteration := 1; iteration <= o.MaxIterations; iteration++ {
		h := hessFn(x)
		p := doglegStep(gx, h, delta)

		xTrial := vecops.Add(x, p)
		fTrial := f(xTrial)
		funcCalls++

		hp := matVec(h, p)
		predicted := -(vecops.Dot(gx, p) + 0.5*vecops.Dot(p, hp))
		actual := fx - fTrial
		rho := zero
		if predicted > zero {
			rho = actual / predicted
		}

		pNorm := vecops.Norm(p)
		if rho < trRhoLower {
			delta = trRhoLower * pNorm
		} else if rho > trRhoUpper && pNorm >= 0.99*delta {
			delta = math.Min(two*delta, t.MaxRadius)
		}

		if rho > t.Eta {
			gNew := gradFn(xTrial)
			gradCalls++

			stepNorm := vecops.NormInf(vecops.Sub(xTrial, x))
			funcChange := math.Abs(actual)
			gradNorm := vecops.NormInf(gNew)

			x, fx, gx = xTrial, fTrial, gNew
			o.Log.trace("NewtonTrustRegion", iteration, fx, gradNorm)

			if reason := CheckConvergence(gradNorm, stepNorm, funcChange, iteration, o); reason != ReasonNone {
				return done(iteration, reason, "")
			}
		} else if delta < trMinRadius {
			return done(iteration, ReasonNone, "Stopped: trust region radius below minimum")
		}
	}
	return done(o.MaxIterations, ReasonMaxIterations, maxIterMessage(o.MaxIterations))
}
