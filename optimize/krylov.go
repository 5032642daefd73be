// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optimize

import (
	"math"

	"github.com/curioloop/optkit/numdiff"
	"github.com/curioloop/optkit/vecops"
)

const (
	krylovCGTol    = 0.01
	krylovInterior = 0.9
	krylovMinCurve = 1e-15
)

// boundaryTau returns τ ≥ 0 with ‖𝐳 + τ𝐝‖ = Δ.
func boundaryTau(z, d []float64, radius float64) float64 {
	a := vecops.Dot(d, d)
	b := two * vecops.Dot(z, d)
	c := vecops.Dot(z, z) - radius*radius
	disc := math.Max(zero, b*b-4*a*c)
	return (-b + math.Sqrt(disc)) / (two * a)
}

// steihaugCG approximately solves the trust region subproblem by the
// Steihaug-Toint truncated conjugate gradient iteration. The Hessian is
// never formed; curvature comes from finite-difference Hessian-vector
// products against the gradient. The walk stops at the boundary on
// negative curvature or radius violation, or interior on the relative
// residual test ‖𝐫‖/‖𝐫₀‖ < tol.
func steihaugCG(gradFn Gradient, x, gx []float64, radius, tol float64) (z []float64, mDecrease float64, gradCalls int) {
	n := len(x)
	z = make([]float64, n)
	r := vecops.Clone(gx)
	d := vecops.Negate(r)

	rho0 := vecops.Dot(r, r)
	rhoPrev := rho0

	for i := 0; i < n; i++ {
		hd := numdiff.HessVec(gradFn, x, d, gx)
		gradCalls++
		dHd := vecops.Dot(d, hd)
		if math.Abs(dHd) < krylovMinCurve {
			break
		}

		alpha := rhoPrev / dHd
		zTrial := vecops.AddScaled(z, d, alpha)
		if dHd < zero || vecops.Dot(zTrial, zTrial) >= radius*radius {
			z = vecops.AddScaled(z, d, boundaryTau(z, d, radius))
			break
		}
		z = zTrial

		r = vecops.AddScaled(r, hd, alpha)
		rhoNext := vecops.Dot(r, r)
		if rhoNext/rho0 < tol*tol {
			break
		}
		beta := rhoNext / rhoPrev
		for j := range d {
			d[j] = -r[j] + beta*d[j]
		}
		rhoPrev = rhoNext
	}

	hz := numdiff.HessVec(gradFn, x, z, gx)
	gradCalls++
	mDecrease = vecops.Dot(gx, z) + 0.5*vecops.Dot(z, hz)
	return z, mDecrease, gradCalls
}

// KrylovTrustRegion minimizes 𝒇 by a matrix-free trust region method:
// each subproblem is solved by Steihaug-Toint truncated CG using only
// Hessian-vector products, which keeps the per-iteration cost at O(n)
// gradient evaluations and O(n) memory. Suitable for large n where a
// dense Hessian is out of reach.
func KrylovTrustRegion(f Objective, x0 []float64, grad Gradient, opts *Options, tr *TrustRegionOptions) *Result {
	o := opts.sanitize()
	t := tr.sanitize()
	gradFn := gradientOr(f, grad)

	x := vecops.Clone(x0)
	fx := f(x)
	gx := gradFn(x)
	funcCalls, gradCalls := 1, 1
	radius := t.InitialRadius

	done := func(iter int, reason Reason, msg string) *Result {
		if msg == "" {
			msg = reason.Message()
		}
		r := &Result{
			X: vecops.Clone(x), F: fx, Gradient: vecops.Clone(gx),
			Iterations: iter, FuncCalls: funcCalls, GradCalls: gradCalls,
			Converged: reason.Converged(), Message: msg,
		}
		o.Log.final("KrylovTrustRegion", r)
		return r
	}

	if reason := CheckConvergence(vecops.NormInf(gx), math.Inf(1), math.Inf(1), 0, o); reason.Converged() {
		return done(0, reason, "")
	}

	for iteration := 1; iteration <= o.MaxIterations; iteration++ {
		s, mDecrease, gcalls := steihaugCG(gradFn, x, gx, radius, krylovCGTol)
		gradCalls += gcalls

		xNew := vecops.Add(x, s)
		fNew := f(xNew)
		funcCalls++

		actual := fx - fNew
		predicted := -mDecrease
		rho := zero
		if predicted > zero {
			rho = actual / predicted
		}

		sNorm := vecops.Norm(s)
		interior := sNorm < krylovInterior*radius

		if rho < trRhoLower {
			radius *= trRhoLower
		} else if rho > trRhoUpper && !interior {
			radius = math.Min(two*radius, t.MaxRadius)
		}

		if rho > t.Eta {
			fPrev := fx
			x, fx = xNew, fNew
			gx = gradFn(x)
			gradCalls++

			gradNorm := vecops.NormInf(gx)
			funcChange := math.Abs(fPrev - fx)
			o.Log.trace("KrylovTrustRegion", iteration, fx, gradNorm)

			if reason := CheckConvergence(gradNorm, sNorm, funcChange, iteration, o); reason != ReasonNone {
				return done(iteration, reason, "")
			}
		} else if radius < trMinRadius {
			return done(iteration, ReasonNone, "Trust region radius too small")
		}
	}
	return done(o.MaxIterations, ReasonMaxIterations, maxIterMessage(o.MaxIterations))
}
