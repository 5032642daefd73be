// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

import "github.com/curioloop/optkit/vecops"

const (
	backAlpha0 = 1.0
	backC1     = 1e-4
	backRho    = 0.5
	backExit   = 20
)

// BacktrackingOptions tunes the Armijo backtracking search.
// The zero value of any field selects its default.
type BacktrackingOptions struct {
	// Alpha0 is the initial trial step (default 1).
	Alpha0 float64
	// C1 is the sufficient decrease tolerance (default 1e-4).
	C1 float64
	// Rho is the geometric shrink factor applied on rejection (default 0.5).
	Rho float64
	// MaxIter caps the number of shrink steps (default 20).
	MaxIter int
}

// Backtracking finds λ satisfying the Armijo condition
//
//	f(𝐱+λ𝐝) ≤ f(𝐱) + c₁λ𝐠ᵀ𝐝
//
// by geometric shrinking λ ← ρλ. It never evaluates the gradient.
// When no admissible step is found within the iteration cap the search
// reports OK=false with the last trial step.
func Backtracking(f Objective, x, d []float64, fx float64, gx []float64, opt *BacktrackingOptions) *Result {
	alpha, c1, rho, maxIter := backAlpha0, backC1, backRho, backExit
	if opt != nil {
		if opt.Alpha0 > zero {
			alpha = opt.Alpha0
		}
		if opt.C1 > zero {
			c1 = opt.C1
		}
		if opt.Rho > zero {
			rho = opt.Rho
		}
		if opt.MaxIter > 0 {
			maxIter = opt.MaxIter
		}
	}

	dg := vecops.Dot(gx, d)
	calls := 0

	for i := 0; i < maxIter; i++ {
		fNew := f(vecops.AddScaled(x, d, alpha))
		calls++
		if fNew <= fx+c1*alpha*dg {
			return &Result{Alpha: alpha, F: fNew, FuncCalls: calls, OK: true}
		}
		alpha *= rho
	}

	fNew := f(vecops.AddScaled(x, d, alpha))
	return &Result{Alpha: alpha, F: fNew, FuncCalls: calls + 1, OK: false}
}
