// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

import (
	"math"

	"github.com/curioloop/optkit/vecops"
)

const (
	hzDelta   = 0.1
	hzSigma   = 0.9
	hzEps     = 1e-6
	hzTheta   = 0.5
	hzGamma   = 0.66
	hzRho     = 5.0
	hzExit    = 50
	hzMinGap  = 1e-14
	hzMinDeno = 1e-30
)

// HagerZhangOptions tunes the Hager-Zhang approximate Wolfe search.
// The zero value of any field selects its default.
type HagerZhangOptions struct {
	// Delta is the sufficient decrease tolerance (default 0.1).
	Delta float64
	// Sigma is the curvature tolerance (default 0.9).
	Sigma float64
	// Eps scales the approximate-Wolfe slack εₖ = ε|f(𝐱)| (default 1e-6).
	Eps float64
	// Theta splits the bracket on bisection fallback (default 0.5).
	Theta float64
	// Gamma is the minimum bracket shrink rate before falling back to
	// bisection (default 0.66).
	Gamma float64
	// Rho is the bracket expansion factor (default 5).
	Rho float64
	// BracketIter and SecantIter cap the two phases (default 50 each).
	BracketIter, SecantIter int
}

// HagerZhang finds λ satisfying either the standard Wolfe conditions or the
// approximate Wolfe conditions of Hager & Zhang (2005)
//
//	(2δ-1)·𝐠ᵀ𝐝 ≥ f′(λ) ≥ σ·𝐠ᵀ𝐝 with f(λ) ≤ f(0) + εₖ
//
// which tolerate the floating-point noise of f near a minimizer where the
// strict Armijo test becomes unreliable. Secant interpolation updates the
// bracket; bisection takes over when the bracket fails to shrink by γ.
func HagerZhang(f Objective, grad Gradient, x, d []float64, fx float64, gx []float64, opt *HagerZhangOptions) *Result {
	delta, sigma, eps, theta, gamma, rho := hzDelta, hzSigma, hzEps, hzTheta, hzGamma, hzRho
	bracketIter, secantIter := hzExit, hzExit
	if opt != nil {
		if opt.Delta > zero {
			delta = opt.Delta
		}
		if opt.Sigma > zero {
			sigma = opt.Sigma
		}
		if opt.Eps > zero {
			eps = opt.Eps
		}
		if opt.Theta > zero {
			theta = opt.Theta
		}
		if opt.Gamma > zero {
			gamma = opt.Gamma
		}
		if opt.Rho > zero {
			rho = opt.Rho
		}
		if opt.BracketIter > 0 {
			bracketIter = opt.BracketIter
		}
		if opt.SecantIter > 0 {
			secantIter = opt.SecantIter
		}
	}

	phi0 := fx
	dphi0 := vecops.Dot(gx, d)
	epsK := eps * math.Abs(phi0)

	funcCalls, gradCalls := 0, 0
	evalPhi := func(alpha float64) float64 {
		funcCalls++
		return f(vecops.AddScaled(x, d, alpha))
	}
	evalDphi := func(alpha float64) (float64, []float64) {
		gradCalls++
		g := grad(vecops.AddScaled(x, d, alpha))
		return vecops.Dot(g, d), g
	}

	satisfied := func(alpha, phiA, dphiA float64) bool {
		if dphiA < sigma*dphi0 {
			return false
		}
		if phiA <= phi0+delta*alpha*dphi0 { // standard Wolfe
			return true
		}
		return phiA <= phi0+epsK && dphiA <= (2*delta-1)*dphi0 // approximate Wolfe
	}

	done := func(alpha, phiA float64, g []float64, ok bool) *Result {
		return &Result{Alpha: alpha, F: phiA, G: g, FuncCalls: funcCalls, GradCalls: gradCalls, OK: ok}
	}

	// Bracket phase: expand until the modified Armijo test fails or the
	// derivative turns non-negative.
	c := one
	phiC := evalPhi(c)
	dphiC, gC := evalDphi(c)

	if satisfied(c, phiC, dphiC) {
		return done(c, phiC, gC, true)
	}

	aj, bj := zero, c
	dphiAj, dphiBj := dphi0, dphiC

	if !(phiC > phi0+epsK || dphiC >= zero) {
		found := false
		for i := 0; i < bracketIter; i++ {
			cPrev, dphiPrev := c, dphiC

			c = rho * c
			phiC = evalPhi(c)
			dphiC, gC = evalDphi(c)

			if satisfied(c, phiC, dphiC) {
				return done(c, phiC, gC, true)
			}
			if phiC > phi0+epsK || dphiC >= zero {
				aj, bj = cPrev, c
				dphiAj, dphiBj = dphiPrev, dphiC
				found = true
				break
			}
		}
		if !found {
			return done(c, phiC, gC, false)
		}
	}

	// Secant phase with bisection fallback on stalled shrink.
	update := func(cj, phiCj, dphiCj float64) {
		if phiCj > phi0+epsK || dphiCj >= zero {
			bj, dphiBj = cj, dphiCj
		} else {
			aj, dphiAj = cj, dphiCj
		}
	}

	lastWidth := bj - aj
	for i := 0; i < secantIter; i++ {
		width := bj - aj
		if width < hzMinGap {
			mid := (aj + bj) / two
			phiMid := evalPhi(mid)
			_, gMid := evalDphi(mid)
			return done(mid, phiMid, gMid, true)
		}

		var cj float64
		if denom := dphiBj - dphiAj; math.Abs(denom) > hzMinDeno {
			cj = aj - dphiAj*(bj-aj)/denom
			margin := hzMinGap * width
			cj = math.Max(aj+margin, math.Min(cj, bj-margin))
		} else {
			cj = aj + theta*(bj-aj)
		}

		phiCj := evalPhi(cj)
		dphiCj, gCj := evalDphi(cj)
		if satisfied(cj, phiCj, dphiCj) {
			return done(cj, phiCj, gCj, true)
		}
		update(cj, phiCj, dphiCj)

		if newWidth := bj - aj; newWidth > gamma*lastWidth {
			mid := aj + theta*(bj-aj)
			phiMid := evalPhi(mid)
			dphiMid, gMid := evalDphi(mid)
			if satisfied(mid, phiMid, dphiMid) {
				return done(mid, phiMid, gMid, true)
			}
			update(mid, phiMid, dphiMid)
		}
		lastWidth = bj - aj
	}

	bestPhi := evalPhi(aj)
	_, bestG := evalDphi(aj)
	return done(aj, bestPhi, bestG, false)
}
