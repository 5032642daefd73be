// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

import (
	"math"

	"github.com/curioloop/optkit/vecops"
)

const (
	wolfeC1       = 1e-4
	wolfeC2       = 0.9
	wolfeAlphaMax = 1e6
	wolfeExit     = 25
	wolfeZoomExit = 20
)

// WolfeOptions tunes the strong Wolfe bracket-and-zoom search.
// The zero value of any field selects its default.
type WolfeOptions struct {
	// C1 is the sufficient decrease tolerance (default 1e-4).
	C1 float64
	// C2 is the curvature tolerance (default 0.9).
	C2 float64
	// AlphaMax bounds the bracket expansion (default 1e6).
	AlphaMax float64
	// MaxIter caps the bracketing iterations (default 25).
	MaxIter int
}

// Wolfe finds λ satisfying the strong Wolfe conditions
//
//	f(𝐱+λ𝐝) ≤ f(𝐱) + c₁λ𝐠ᵀ𝐝 and |f′(𝐱+λ𝐝)ᵀ𝐝| ≤ c₂|𝐠ᵀ𝐝|
//
// by expanding λ until the sufficient decrease condition fails or the
// derivative turns non-negative, then bisecting within the bracket.
func Wolfe(f Objective, grad Gradient, x, d []float64, fx float64, gx []float64, opt *WolfeOptions) *Result {
	c1, c2, alphaMax, maxIter := wolfeC1, wolfeC2, wolfeAlphaMax, wolfeExit
	if opt != nil {
		if opt.C1 > zero {
			c1 = opt.C1
		}
		if opt.C2 > zero {
			c2 = opt.C2
		}
		if opt.AlphaMax > zero {
			alphaMax = opt.AlphaMax
		}
		if opt.MaxIter > 0 {
			maxIter = opt.MaxIter
		}
	}

	dg0 := vecops.Dot(gx, d)
	funcCalls, gradCalls := 0, 0

	phi := func(alpha float64) float64 {
		funcCalls++
		return f(vecops.AddScaled(x, d, alpha))
	}
	dphi := func(alpha float64) (float64, []float64) {
		gradCalls++
		g := grad(vecops.AddScaled(x, d, alpha))
		return vecops.Dot(g, d), g
	}

	// Bisect within [lo, hi] until both conditions hold.
	zoom := func(alphaLo, alphaHi, phiLo, phiHi, dphiLo float64) (float64, float64, []float64, bool) {
		for i := 0; i < wolfeZoomExit; i++ {
			alphaJ := (alphaLo + alphaHi) / two
			phiJ := phi(alphaJ)

			if phiJ > fx+c1*alphaJ*dg0 || phiJ >= phiLo {
				alphaHi = alphaJ
			} else {
				dphiJ, gJ := dphi(alphaJ)
				if math.Abs(dphiJ) <= c2*math.Abs(dg0) {
					return alphaJ, phiJ, gJ, true
				}
				if dphiJ*(alphaHi-alphaLo) >= zero {
					alphaHi = alphaLo
				}
				alphaLo, phiLo = alphaJ, phiJ
			}
		}
		_, gLo := dphi(alphaLo)
		return alphaLo, phi(alphaLo), gLo, false
	}

	alphaPrev, phiPrev := zero, fx
	alpha := one

	for i := 1; i <= maxIter; i++ {
		phiI := phi(alpha)

		if phiI > fx+c1*alpha*dg0 || (i > 1 && phiI >= phiPrev) {
			a, p, g, ok := zoom(alphaPrev, alpha, phiPrev, phiI, dg0)
			return &Result{Alpha: a, F: p, G: g, FuncCalls: funcCalls, GradCalls: gradCalls, OK: ok}
		}

		dphiI, gI := dphi(alpha)
		if math.Abs(dphiI) <= c2*math.Abs(dg0) {
			return &Result{Alpha: alpha, F: phiI, G: gI, FuncCalls: funcCalls, GradCalls: gradCalls, OK: true}
		}
		if dphiI >= zero {
			a, p, g, ok := zoom(alpha, alphaPrev, phiI, phiPrev, dphiI)
			return &Result{Alpha: a, F: p, G: g, FuncCalls: funcCalls, GradCalls: gradCalls, OK: ok}
		}

		alphaPrev, phiPrev = alpha, phiI
		alpha = math.Min(two*alpha, alphaMax)
	}

	g := grad(vecops.AddScaled(x, d, alpha))
	gradCalls++
	return &Result{Alpha: alpha, F: phi(alpha), G: g, FuncCalls: funcCalls, GradCalls: gradCalls, OK: false}
}
