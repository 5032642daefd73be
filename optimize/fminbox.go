// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optimize

import (
	"fmt"
	"math"

	"github.com/curioloop/optkit/vecops"
)

const (
	fminboxMuFactor   = 0.01
	fminboxOuterIters = 50
	fminboxOuterTol   = 1e-8
	fminboxEdge       = 1e-15
)

// FminboxOptions tunes the barrier outer loop.
// The zero value of any field selects its default.
type FminboxOptions struct {
	// Method selects the inner unconstrained solver. Zero selects LBFGS,
	// which also serves as the fallback for any method without a
	// gradient-based iteration.
	Method Method
	// Mu0 fixes the initial barrier coefficient; when zero it is chosen
	// from the gradient balance μ = MuFactor·‖∇f‖₁/‖∇B‖₁.
	Mu0 float64
	// MuFactor shrinks μ between outer iterations (default 0.01).
	MuFactor float64
	// OuterIterations caps the barrier continuation (default 50).
	OuterIterations int
	// OuterGradTol is the projected gradient tolerance (default 1e-8).
	OuterGradTol float64
}

func (o *FminboxOptions) sanitize() FminboxOptions {
	s := FminboxOptions{}
	if o != nil {
		s = *o
	}
	if s.MuFactor <= zero {
		s.MuFactor = fminboxMuFactor
	}
	if s.OuterIterations <= 0 {
		s.OuterIterations = fminboxOuterIters
	}
	if s.OuterGradTol <= zero {
		s.OuterGradTol = fminboxOuterTol
	}
	return s
}

// barrierValue is B(𝐱) = Σ -ln(xᵢ-lᵢ) - ln(uᵢ-xᵢ) over the finite
// bounds, +Inf outside the strict interior.
func barrierValue(x, lower, upper []float64) float64 {
	val := zero
	for i := range x {
		if !math.IsInf(lower[i], -1) {
			dxl := x[i] - lower[i]
			if dxl <= zero {
				return math.Inf(1)
			}
			val -= math.Log(dxl)
		}
		if !math.IsInf(upper[i], 1) {
			dxu := upper[i] - x[i]
			if dxu <= zero {
				return math.Inf(1)
			}
			val -= math.Log(dxu)
		}
	}
	return val
}

func barrierGradient(x, lower, upper []float64) []float64 {
	g := make([]float64, len(x))
	for i := range x {
		if !math.IsInf(lower[i], -1) {
			g[i] += -one / (x[i] - lower[i])
		}
		if !math.IsInf(upper[i], 1) {
			g[i] += one / (upper[i] - x[i])
		}
	}
	return g
}

// projectedGradNorm is ‖𝐱 - P(𝐱-𝐠)‖∞ where P clips to the box, the
// first-order optimality measure for bound constraints.
func projectedGradNorm(x, g, lower, upper []float64) float64 {
	maxVal := zero
	for i := range x {
		projected := x[i] - math.Max(lower[i], math.Min(upper[i], x[i]-g[i]))
		maxVal = math.Max(maxVal, math.Abs(projected))
	}
	return maxVal
}

// Fminbox minimizes 𝒇 subject to lower ≤ 𝐱 ≤ upper by logarithmic
// barrier continuation: a sequence of unconstrained solves of
// 𝒇(𝐱) + μB(𝐱) with μ shrinking geometrically, in the manner of
// Optim.jl's Fminbox. Nil lower or upper means unbounded on that side;
// entries may be ±Inf per coordinate. The start point is nudged into
// the strict interior when necessary.
func Fminbox(f Objective, x0 []float64, grad Gradient, lower, upper []float64, opts *Options, fb *FminboxOptions) *Result {
	o := opts.sanitize()
	b := fb.sanitize()
	gradFn := gradientOr(f, grad)

	n := len(x0)
	if lower == nil {
		lower = make([]float64, n)
		for i := range lower {
			lower[i] = math.Inf(-1)
		}
	}
	if upper == nil {
		upper = make([]float64, n)
		for i := range upper {
			upper[i] = math.Inf(1)
		}
	}

	for i := 0; i < n; i++ {
		if lower[i] >= upper[i] {
			return &Result{
				X: vecops.Clone(x0), F: f(x0), Gradient: gradFn(x0),
				FuncCalls: 1, GradCalls: 1,
				Converged: false, Message: "Invalid bounds: lower >= upper",
			}
		}
	}

	// Nudge x into the strict interior.
	x := vecops.Clone(x0)
	for i := 0; i < n; i++ {
		if x[i] > lower[i] && x[i] < upper[i] {
			continue
		}
		loFin, upFin := !math.IsInf(lower[i], -1), !math.IsInf(upper[i], 1)
		if x[i] <= lower[i] {
			switch {
			case loFin && upFin:
				x[i] = 0.99*lower[i] + 0.01*upper[i]
			case loFin:
				x[i] = lower[i] + one
			default:
				x[i] = zero
			}
		} else {
			switch {
			case loFin && upFin:
				x[i] = 0.01*lower[i] + 0.99*upper[i]
			case upFin:
				x[i] = upper[i] - one
			default:
				x[i] = zero
			}
		}
	}

	fx := f(x)
	gx := gradFn(x)
	funcCalls, gradCalls := 1, 1

	mu := b.Mu0
	if mu <= zero {
		objL1 := zero
		for _, gi := range gx {
			objL1 += math.Abs(gi)
		}
		barL1 := zero
		for _, gi := range barrierGradient(x, lower, upper) {
			barL1 += math.Abs(gi)
		}
		if barL1 > zero {
			mu = b.MuFactor * objL1 / barL1
		} else {
			mu = 1e-4
		}
	}

	done := func(iter int, converged bool, msg string) *Result {
		r := &Result{
			X: vecops.Clone(x), F: fx, Gradient: vecops.Clone(gx),
			Iterations: iter, FuncCalls: funcCalls, GradCalls: gradCalls,
			Converged: converged, Message: msg,
		}
		o.Log.final("Fminbox", r)
		return r
	}

	if projectedGradNorm(x, gx, lower, upper) <= b.OuterGradTol {
		return done(0, true, "Converged: projected gradient norm below tolerance")
	}

	inner := func(bf Objective, bg Gradient) *Result {
		innerOpts := o
		innerOpts.Log = nil
		switch b.Method {
		case MethodBFGS:
			return BFGS(bf, x, bg, &innerOpts)
		case MethodConjugateGradient:
			return ConjugateGradient(bf, x, bg, &innerOpts, nil)
		case MethodGradientDescent:
			return GradientDescent(bf, x, bg, &innerOpts)
		}
		return LBFGS(bf, x, bg, &innerOpts, 0)
	}

	outer := 0
	for outer = 1; outer <= b.OuterIterations; outer++ {
		currentMu := mu

		barrierF := func(xp []float64) float64 {
			bv := barrierValue(xp, lower, upper)
			if math.IsInf(bv, 1) {
				return math.Inf(1)
			}
			return f(xp) + currentMu*bv
		}
		barrierGrad := func(xp []float64) []float64 {
			gObj := gradFn(xp)
			gBar := barrierGradient(xp, lower, upper)
			return vecops.AddScaled(gObj, gBar, currentMu)
		}

		sub := inner(barrierF, barrierGrad)

		// The inner solve stays interior up to floating point noise;
		// clip back inside before evaluating the true objective.
		x = sub.X
		for i := 0; i < n; i++ {
			if !math.IsInf(lower[i], -1) {
				x[i] = math.Max(lower[i]+fminboxEdge, x[i])
			}
			if !math.IsInf(upper[i], 1) {
				x[i] = math.Min(upper[i]-fminboxEdge, x[i])
			}
		}

		fx = f(x)
		gx = gradFn(x)
		funcCalls += sub.FuncCalls + 1
		gradCalls += sub.GradCalls + 1

		pgn := projectedGradNorm(x, gx, lower, upper)
		o.Log.trace("Fminbox", outer, fx, pgn)
		if pgn <= b.OuterGradTol {
			return done(outer, true, "Converged: projected gradient norm below tolerance")
		}
		mu *= b.MuFactor
	}
	return done(b.OuterIterations, false,
		fmt.Sprintf("Stopped: reached maximum outer iterations (%d)", b.OuterIterations))
}
