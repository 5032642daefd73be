// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

import (
	"math"

	"github.com/curioloop/optkit/vecops"
)

const (
	three = 3.0
	p66   = 2.0 / 3.0
)

const (
	mtFTol     = 1e-4
	mtGTol     = 0.9
	mtXTol     = 1e-8
	mtAlphaMin = 1e-16
	mtAlphaMax = 65536.0
	mtMaxFev   = 100
)

// MoreThuenteOptions tunes the Moré-Thuente search.
// The zero value of any field selects its default.
type MoreThuenteOptions struct {
	// FTol is the sufficient decrease tolerance (default 1e-4).
	FTol float64
	// GTol is the curvature tolerance (default 0.9).
	GTol float64
	// XTol is the relative bracket width below which the search stops
	// (default 1e-8).
	XTol float64
	// AlphaMin and AlphaMax bound the step (defaults 1e-16, 65536).
	AlphaMin, AlphaMax float64
	// MaxEvals caps the function evaluations (default 100).
	MaxEvals int
}

// MoreThuente finds λ satisfying the strong Wolfe conditions using the
// safeguarded cubic interpolation of Moré & Thuente (1994).
//
// The search maintains an interval of uncertainty with endpoints stx and
// sty. During stage 1 the interval is chosen to contain a minimizer of the
// modified function ψ(λ) = f(λ) - f(0) - 𝚏𝚝𝚘𝚕·λ·f′(0); once ψ(λ) ≤ 0 and
// f′(λ) ≥ 0 for some step the interval tracks a minimizer of f itself.
func MoreThuente(f Objective, grad Gradient, x, d []float64, fx float64, gx []float64, opt *MoreThuenteOptions) *Result {
	ftol, gtol, xtol := mtFTol, mtGTol, mtXTol
	alphaMin, alphaMax := mtAlphaMin, mtAlphaMax
	maxFev := mtMaxFev
	if opt != nil {
		if opt.FTol > zero {
			ftol = opt.FTol
		}
		if opt.GTol > zero {
			gtol = opt.GTol
		}
		if opt.XTol > zero {
			xtol = opt.XTol
		}
		if opt.AlphaMin > zero {
			alphaMin = opt.AlphaMin
		}
		if opt.AlphaMax > zero {
			alphaMax = opt.AlphaMax
		}
		if opt.MaxEvals > 0 {
			maxFev = opt.MaxEvals
		}
	}

	dphi0 := vecops.Dot(gx, d)
	funcCalls, gradCalls := 0, 0

	eval := func(alpha float64) (float64, float64, []float64) {
		funcCalls++
		gradCalls++
		p := vecops.AddScaled(x, d, alpha)
		phi := f(p)
		g := grad(p)
		return phi, vecops.Dot(g, d), g
	}

	bracket := false
	stage1 := true
	dgtest := ftol * dphi0

	stx, fstx, dgx := zero, fx, dphi0
	sty, fsty, dgy := zero, fx, dphi0

	width := alphaMax - alphaMin
	width1 := two * width

	alpha := math.Max(alphaMin, math.Min(one, alphaMax))
	fAlpha, dgAlpha, gAlpha := eval(alpha)

	// Halve the step until the evaluation is finite.
	for i := 0; (math.IsNaN(fAlpha) || math.IsInf(fAlpha, 0) ||
		math.IsNaN(dgAlpha) || math.IsInf(dgAlpha, 0)) && i < 50; i++ {
		alpha /= two
		fAlpha, dgAlpha, gAlpha = eval(alpha)
		stx = (7.0 / 8.0) * alpha
	}

	infoStep := 1
	info := 0

	for iter := 0; iter < 1000; iter++ {
		var stMin, stMax float64
		if bracket {
			stMin = math.Min(stx, sty)
			stMax = math.Max(stx, sty)
		} else {
			stMin = stx
			stMax = alpha + 4.0*(alpha-stx)
		}
		stMin = math.Max(alphaMin, stMin)
		stMax = math.Min(alphaMax, stMax)

		alpha = math.Min(math.Max(alpha, alphaMin), alphaMax)

		// Fall back to the best step so far when the search cannot continue.
		if (bracket && (alpha <= stMin || alpha >= stMax)) ||
			funcCalls >= maxFev-1 || infoStep == 0 ||
			(bracket && stMax-stMin <= xtol*stMax) {
			alpha = stx
		}

		fAlpha, dgAlpha, gAlpha = eval(alpha)
		ftest1 := fx + alpha*dgtest

		if (bracket && (alpha <= stMin || alpha >= stMax)) || infoStep == 0 {
			info = 6
		}
		if alpha == alphaMax && fAlpha <= ftest1 && dgAlpha <= dgtest {
			info = 5
		}
		if alpha == alphaMin && (fAlpha > ftest1 || dgAlpha >= dgtest) {
			info = 4
		}
		if funcCalls >= maxFev {
			info = 3
		}
		if bracket && stMax-stMin <= xtol*stMax {
			info = 2
		}
		if fAlpha <= ftest1 && math.Abs(dgAlpha) <= -gtol*dphi0 {
			info = 1
		}
		if info != 0 {
			break
		}

		if stage1 && fAlpha <= ftest1 && dgAlpha >= math.Min(ftol, gtol)*dphi0 {
			stage1 = false
		}

		if stage1 && fAlpha <= fstx && fAlpha > ftest1 {
			// Stage 1 uses the modified function and derivative values.
			fm := fAlpha - alpha*dgtest
			fxm := fstx - stx*dgtest
			fym := fsty - sty*dgtest
			dgm := dgAlpha - dgtest
			dgxm := dgx - dgtest
			dgym := dgy - dgtest

			infoStep = cstep(&stx, &fxm, &dgxm, &sty, &fym, &dgym, &alpha, fm, dgm, &bracket, stMin, stMax)

			fstx = fxm + stx*dgtest
			fsty = fym + sty*dgtest
			dgx = dgxm + dgtest
			dgy = dgym + dgtest
		} else {
			infoStep = cstep(&stx, &fstx, &dgx, &sty, &fsty, &dgy, &alpha, fAlpha, dgAlpha, &bracket, stMin, stMax)
		}

		// Force sufficient decrease of the interval width.
		if bracket {
			if math.Abs(sty-stx) >= p66*width1 {
				alpha = stx + (sty-stx)/two
			}
			width1 = width
			width = math.Abs(sty - stx)
		}
	}

	return &Result{
		Alpha: alpha, F: fAlpha, G: gAlpha,
		FuncCalls: funcCalls, GradCalls: gradCalls,
		OK: info == 1,
	}
}

// Subroutine cstep (dcstep)
//
// This subroutine computes a safeguarded step for a search procedure and
// updates an interval that contains a step satisfying a sufficient
// decrease and a curvature condition.
//
// The parameter stx contains the step with the least function value. If
// bracket is set to true then a minimizer has been bracketed in an
// interval with endpoints stx and sty. The parameter stp contains the
// current step. The subroutine assumes that if bracket is true then
//
//	min(stx,sty) < stp < max(stx,sty),
//
// and that the derivative at stx is negative in the direction of the step.
// The returned info identifies which of the four interpolation cases of
// Moré & Thuente (1994) produced the trial step; info = 0 reports invalid
// input. Case 4 never brackets on its own: the interval update following
// the case analysis is the only place sty moves.
func cstep(
	stx, fx, dx *float64,
	sty, fy, dy *float64,
	stp *float64, fp, dp float64,
	bracket *bool, stpmin, stpmax float64) (info int) {

	var gamma, p, q, r, s, sgnd, stpc, stpf, stpq, theta float64

	if math.Abs(*dx) > zero {
		sgnd = dp * (*dx / math.Abs(*dx))
	}

	bound := false
	switch {
	case fp > *fx:
		// First case: A higher function value. The minimum is bracketed.
		// If the cubic step is closer to stx than the quadratic step, the
		// cubic step is taken, otherwise the average of the two.
		info = 1
		bound = true
		theta = three*(*fx-fp)/(*stp-*stx) + *dx + dp
		s = math.Max(math.Max(math.Abs(theta), math.Abs(*dx)), math.Abs(dp))
		gamma = s * math.Sqrt((theta/s)*(theta/s)-(*dx/s)*(dp/s))
		if *stp < *stx {
			gamma = -gamma
		}
		p = (gamma - *dx) + theta
		q = ((gamma - *dx) + gamma) + dp
		r = p / q
		stpc = *stx + r*(*stp-*stx)
		stpq = *stx + ((*dx/((*fx-fp)/(*stp-*stx)+*dx))/two)*(*stp-*stx)
		if math.Abs(stpc-*stx) < math.Abs(stpq-*stx) {
			stpf = stpc
		} else {
			stpf = stpc + (stpq-stpc)/two
		}
		*bracket = true

	case sgnd < zero:
		// Second case: A lower function value and derivatives of opposite
		// sign. The minimum is bracketed. If the cubic step is farther from
		// stp than the secant step, the cubic step is taken.
		info = 2
		theta = three*(*fx-fp)/(*stp-*stx) + *dx + dp
		s = math.Max(math.Max(math.Abs(theta), math.Abs(*dx)), math.Abs(dp))
		gamma = s * math.Sqrt((theta/s)*(theta/s)-(*dx/s)*(dp/s))
		if *stp > *stx {
			gamma = -gamma
		}
		p = (gamma - dp) + theta
		q = ((gamma - dp) + gamma) + *dx
		r = p / q
		stpc = *stp + r*(*stx-*stp)
		stpq = *stp + (dp/(dp-*dx))*(*stx-*stp)
		if math.Abs(stpc-*stp) > math.Abs(stpq-*stp) {
			stpf = stpc
		} else {
			stpf = stpq
		}
		*bracket = true

	case math.Abs(dp) < math.Abs(*dx):
		// Third case: A lower function value, derivatives of the same sign,
		// and the magnitude of the derivative decreases. The cubic step is
		// used only if it tends to infinity in the direction of the step or
		// its minimum is beyond stp; otherwise the secant step.
		info = 3
		bound = true
		theta = three*(*fx-fp)/(*stp-*stx) + *dx + dp
		s = math.Max(math.Max(math.Abs(theta), math.Abs(*dx)), math.Abs(dp))
		// The case gamma = 0 only arises if the cubic does not tend to
		// infinity in the direction of the step.
		gamma = s * math.Sqrt(math.Max(zero, (theta/s)*(theta/s)-(*dx/s)*(dp/s)))
		if *stp > *stx {
			gamma = -gamma
		}
		p = (gamma - dp) + theta
		q = (gamma + (*dx - dp)) + gamma
		r = p / q
		if r < zero && gamma != zero {
			stpc = *stp + r*(*stx-*stp)
		} else if *stp > *stx {
			stpc = stpmax
		} else {
			stpc = stpmin
		}
		stpq = *stp + (dp/(dp-*dx))*(*stx-*stp)
		if *bracket {
			if math.Abs(*stp-stpc) < math.Abs(*stp-stpq) {
				stpf = stpc
			} else {
				stpf = stpq
			}
		} else {
			if math.Abs(*stp-stpc) > math.Abs(*stp-stpq) {
				stpf = stpc
			} else {
				stpf = stpq
			}
		}

	default:
		// Fourth case: A lower function value, derivatives of the same
		// sign, and the magnitude of the derivative does not decrease. If
		// the minimum is not bracketed, the step is either stpmin or
		// stpmax, otherwise the cubic step is taken.
		info = 4
		if *bracket {
			theta = three*(fp-*fy)/(*sty-*stp) + *dy + dp
			s = math.Max(math.Max(math.Abs(theta), math.Abs(*dy)), math.Abs(dp))
			gamma = s * math.Sqrt((theta/s)*(theta/s)-(*dy/s)*(dp/s))
			if *stp > *sty {
				gamma = -gamma
			}
			p = (gamma - dp) + theta
			q = ((gamma - dp) + gamma) + *dy
			r = p / q
			stpf = *stp + r*(*sty-*stp)
		} else if *stp > *stx {
			stpf = stpmax
		} else {
			stpf = stpmin
		}
	}

	// Update the interval which contains a minimizer.
	if fp > *fx {
		*sty = *stp
		*fy = fp
		*dy = dp
	} else {
		if sgnd < zero {
			*sty = *stx
			*fy = *fx
			*dy = *dx
		}
		*stx = *stp
		*fx = fp
		*dx = dp
	}

	// Compute the new step and safeguard it.
	stpf = math.Min(stpmax, stpf)
	stpf = math.Max(stpmin, stpf)
	if *bracket && bound {
		if *sty > *stx {
			stpf = math.Min(*stx+p66*(*sty-*stx), stpf)
		} else {
			stpf = math.Max(*stx+p66*(*sty-*stx), stpf)
		}
	}
	*stp = stpf
	return
}
