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
	ipTau        = 0.995 // fraction-to-boundary
	ipSlackFloor = 1e-10
	ipDualFloor  = 1e-20
	ipDualCap    = 1e12
	ipMeritTries = 40
	ipMuCeil     = 1e-4 // μ must drop below this before KKT convergence
)

// ConstraintSet describes general nonlinear constraints
//
//	lower ≤ 𝐜(𝐱) ≤ upper
//
// where equal bounds declare an equality constraint. Jacobian returns one
// row of length n per constraint.
type ConstraintSet struct {
	C        func(x []float64) []float64
	Jacobian func(x []float64) [][]float64
	Lower    []float64
	Upper    []float64
}

// IPNewtonOptions tunes the primal-dual interior point iteration.
// The zero value of any field selects its default.
type IPNewtonOptions struct {
	// Lower and Upper are optional box bounds on 𝐱; equal entries pin a
	// coordinate. Nil means unbounded.
	Lower, Upper []float64
	// Constraints holds the general constraint set, if any.
	Constraints *ConstraintSet
	// Mu0 fixes the initial barrier parameter; when zero it is chosen
	// from the gradient/slack balance.
	Mu0 float64
	// KKTTol is the KKT residual tolerance (default GradTol).
	KKTTol float64
}

// indexed inequality cᵢ(𝐱)·σ ≥ σ·bound with σ = ±1 selecting the side.
type ipIneq struct {
	idx   int
	bound float64
	sigma float64
}

type ipEq struct {
	idx    int
	target float64
}

// IPNewton minimizes 𝒇 subject to box bounds and general nonlinear
// constraints by a primal-dual interior point Newton method: inequality
// constraints get slacks with a log barrier, equalities an augmented
// Lagrangian term in the ℓ₁ merit function, and the barrier parameter μ
// follows the Mehrotra predictor heuristic σ = (μ_aff/μ)³. Steps respect
// the fraction-to-boundary rule with τ = 0.995 and are globalized by
// backtracking on the merit function.
func IPNewton(f Objective, x0 []float64, grad Gradient, hess Hessian, opts *Options, ip *IPNewtonOptions) *Result {
	o := opts.sanitize()
	p := IPNewtonOptions{}
	if ip != nil {
		p = *ip
	}
	kktTol := p.KKTTol
	if kktTol <= zero {
		kktTol = o.GradTol
	}

	n := len(x0)
	gradFn := gradientOr(f, grad)
	hessFn := hessianOr(f, hess)

	boxLower, boxUpper := p.Lower, p.Upper
	if boxLower == nil {
		boxLower = make([]float64, n)
		for i := range boxLower {
			boxLower[i] = math.Inf(-1)
		}
	}
	if boxUpper == nil {
		boxUpper = make([]float64, n)
		for i := range boxUpper {
			boxUpper[i] = math.Inf(1)
		}
	}

	var conFn func([]float64) []float64
	var jacFn func([]float64) [][]float64
	var conLower, conUpper []float64
	if p.Constraints != nil {
		conFn = p.Constraints.C
		jacFn = p.Constraints.Jacobian
		conLower = p.Constraints.Lower
		conUpper = p.Constraints.Upper
	}

	// Split every bound into inequality and equality lists.
	var boxIneq []ipIneq
	var boxEq []ipEq
	for i := 0; i < n; i++ {
		if boxLower[i] == boxUpper[i] {
			boxEq = append(boxEq, ipEq{i, boxLower[i]})
			continue
		}
		if !math.IsInf(boxLower[i], -1) {
			boxIneq = append(boxIneq, ipIneq{i, boxLower[i], one})
		}
		if !math.IsInf(boxUpper[i], 1) {
			boxIneq = append(boxIneq, ipIneq{i, boxUpper[i], -one})
		}
	}
	var conIneq []ipIneq
	var conEq []ipEq
	for i := range conLower {
		if conLower[i] == conUpper[i] {
			conEq = append(conEq, ipEq{i, conLower[i]})
			continue
		}
		if !math.IsInf(conLower[i], -1) {
			conIneq = append(conIneq, ipIneq{i, conLower[i], one})
		}
		if !math.IsInf(conUpper[i], 1) {
			conIneq = append(conIneq, ipIneq{i, conUpper[i], -one})
		}
	}

	nIneq := len(boxIneq) + len(conIneq)
	nEq := len(boxEq) + len(conEq)
	hasConstraints := nIneq+nEq > 0

	// Move the start point safely inside the box.
	x := vecops.Clone(x0)
	for i := 0; i < n; i++ {
		lo, hi := boxLower[i], boxUpper[i]
		switch {
		case lo == hi:
			x[i] = lo
		case !math.IsInf(lo, -1) && !math.IsInf(hi, 1):
			margin := 0.01 * (hi - lo)
			x[i] = math.Max(lo+margin, math.Min(hi-margin, x[i]))
		case !math.IsInf(lo, -1):
			x[i] = math.Max(lo+0.01*math.Max(one, math.Abs(lo)), x[i])
		case !math.IsInf(hi, 1):
			x[i] = math.Min(hi-0.01*math.Max(one, math.Abs(hi)), x[i])
		}
	}

	fx := f(x)
	gx := gradFn(x)
	var cx []float64
	var jc [][]float64
	if conFn != nil {
		cx = conFn(x)
		jc = jacFn(x)
	}
	funcCalls, gradCalls := 1, 1

	done := func(iter int, xv []float64, fv float64, converged bool, msg string) *Result {
		r := &Result{
			X: vecops.Clone(xv), F: fv, Gradient: vecops.Clone(gx),
			Iterations: iter, FuncCalls: funcCalls, GradCalls: gradCalls,
			Converged: converged, Message: msg,
		}
		o.Log.final("IPNewton", r)
		return r
	}

	if !hasConstraints && vecops.NormInf(gx) < o.GradTol {
		return done(0, x, fx, true, ReasonGradient.Message())
	}

	computeSlacks := func(xv, cxv []float64) (sb, sc []float64) {
		sb = make([]float64, len(boxIneq))
		for i, q := range boxIneq {
			sb[i] = math.Max(q.sigma*(xv[q.idx]-q.bound), ipSlackFloor)
		}
		sc = make([]float64, len(conIneq))
		for i, q := range conIneq {
			sc[i] = math.Max(q.sigma*(cxv[q.idx]-q.bound), ipSlackFloor)
		}
		return sb, sc
	}

	slackBox, slackCon := computeSlacks(x, cx)

	mu := p.Mu0
	if mu <= zero {
		if nIneq > 0 {
			objL1 := zero
			for _, gi := range gx {
				objL1 += math.Abs(gi)
			}
			barL1 := zero
			for _, s := range slackBox {
				barL1 += one / math.Max(s, 1e-14)
			}
			for _, s := range slackCon {
				barL1 += one / math.Max(s, 1e-14)
			}
			if barL1 > zero {
				mu = 0.001 * objL1 / barL1
			} else {
				mu = 1e-4
			}
			mu = math.Min(math.Max(mu, 1e-10), one)
		} else {
			mu = zero
		}
	}

	lambdaBox := make([]float64, len(boxIneq))
	for i, s := range slackBox {
		lambdaBox[i] = mu / math.Max(s, 1e-14)
	}
	lambdaCon := make([]float64, len(conIneq))
	for i, s := range slackCon {
		lambdaCon[i] = mu / math.Max(s, 1e-14)
	}
	lambdaBoxEq := make([]float64, len(boxEq))
	lambdaConEq := make([]float64, len(conEq))

	penalty := 10.0 * math.Max(vecops.NormInf(gx), one)
	bestX := vecops.Clone(x)
	bestF := fx

	buildIneqJac := func(jcv [][]float64) [][]float64 {
		rows := make([][]float64, 0, nIneq)
		for _, q := range boxIneq {
			row := vecops.Zeros(n)
			row[q.idx] = q.sigma
			rows = append(rows, row)
		}
		for _, q := range conIneq {
			rows = append(rows, vecops.Scale(jcv[q.idx], q.sigma))
		}
		return rows
	}
	buildEqJac := func(jcv [][]float64) [][]float64 {
		rows := make([][]float64, 0, nEq)
		for _, q := range boxEq {
			row := vecops.Zeros(n)
			row[q.idx] = one
			rows = append(rows, row)
		}
		for _, q := range conEq {
			rows = append(rows, vecops.Clone(jcv[q.idx]))
		}
		return rows
	}
	eqResidual := func(xv, cxv []float64) []float64 {
		res := make([]float64, 0, nEq)
		for _, q := range boxEq {
			res = append(res, xv[q.idx]-q.target)
		}
		for _, q := range conEq {
			res = append(res, cxv[q.idx]-q.target)
		}
		return res
	}
	// Aᵀ𝐯 over a row-list Jacobian.
	matTVec := func(a [][]float64, v []float64) []float64 {
		out := vecops.Zeros(n)
		for i, row := range a {
			for j, rv := range row {
				out[j] += rv * v[i]
			}
		}
		return out
	}
	// AᵀDA with D diagonal, exploiting symmetry.
	matTDiagMat := func(a [][]float64, d []float64) []float64 {
		out := make([]float64, n*n)
		for i, row := range a {
			di := d[i]
			for p := 0; p < n; p++ {
				rp := row[p] * di
				for q := p; q < n; q++ {
					out[p*n+q] += rp * row[q]
				}
			}
		}
		for p := 0; p < n; p++ {
			for q := 0; q < p; q++ {
				out[p*n+q] = out[q*n+p]
			}
		}
		return out
	}
	merit := func(fv float64, sb, sc, eqRes []float64, muVal float64) float64 {
		val := fv
		for _, s := range sb {
			if s <= zero {
				return math.Inf(1)
			}
			val -= muVal * math.Log(s)
		}
		for _, s := range sc {
			if s <= zero {
				return math.Inf(1)
			}
			val -= muVal * math.Log(s)
		}
		for _, r := range eqRes {
			val += penalty * math.Abs(r)
		}
		return val
	}
	// Largest step in [0,1] keeping vals + α·dvals fraction-τ positive.
	maxFracBoundary := func(vals, dvals []float64) float64 {
		alpha := one
		for i := range vals {
			if dvals[i] < -ipDualFloor {
				if a := -ipTau * vals[i] / dvals[i]; a < alpha {
					alpha = a
				}
			}
		}
		return math.Max(alpha, zero)
	}

	for iteration := 1; iteration <= o.MaxIterations; iteration++ {
		h := hessFn(x)
		ji := buildIneqJac(jc)

		allSlack := append(append([]float64{}, slackBox...), slackCon...)
		allLambda := append(append([]float64{}, lambdaBox...), lambdaCon...)

		// Condensed primal-dual system: eliminate slacks and duals into
		// H̃ = H + JᵀΣJ with Σ = diag(λᵢ/sᵢ).
		sigmaVec := make([]float64, nIneq)
		for i := range sigmaVec {
			sigmaVec[i] = allLambda[i] / math.Max(allSlack[i], ipDualFloor)
		}
		htilde := make([]float64, n*n)
		copy(htilde, h)
		if nIneq > 0 {
			add := matTDiagMat(ji, sigmaVec)
			for i := range htilde {
				htilde[i] += add[i]
			}
		}

		correction := make([]float64, nIneq)
		for i, s := range allSlack {
			correction[i] = -mu / math.Max(s, ipDualFloor)
		}
		gtilde := vecops.Clone(gx)
		if nIneq > 0 {
			gtilde = vecops.Add(gtilde, matTVec(ji, correction))
		}

		var dx, dLambdaEq []float64
		if nEq > 0 {
			je := buildEqJac(jc)
			gEq := eqResidual(x, cx)
			allLambdaEq := append(append([]float64{}, lambdaBoxEq...), lambdaConEq...)
			gtilde = vecops.Sub(gtilde, matTVec(je, allLambdaEq))

			// Range-space solve: v = H̃⁻¹(-g̃), Y = H̃⁻¹JEᵀ, then the
			// small nEq×nEq system (JE·Y)Δλ = -(c_eq + JE·v).
			v := robustSolve(htilde, vecops.Negate(gtilde))
			y := make([][]float64, nEq)
			for j := 0; j < nEq; j++ {
				y[j] = robustSolve(htilde, je[j])
			}
			m := make([]float64, nEq*nEq)
			for i := 0; i < nEq; i++ {
				for j := 0; j < nEq; j++ {
					m[i*nEq+j] = vecops.Dot(je[i], y[j])
				}
			}
			rhs := make([]float64, nEq)
			for i := 0; i < nEq; i++ {
				rhs[i] = -(gEq[i] + vecops.Dot(je[i], v))
			}
			dLambdaEq = robustSolve(m, rhs)

			dx = vecops.Clone(v)
			for j := 0; j < nEq; j++ {
				dx = vecops.AddScaled(dx, y[j], dLambdaEq[j])
			}
		} else {
			dx = robustSolve(htilde, vecops.Negate(gtilde))
		}

		// Recover the slack and dual steps from Δ𝐱.
		dSlackBox := make([]float64, len(boxIneq))
		for i, q := range boxIneq {
			dSlackBox[i] = q.sigma * dx[q.idx]
		}
		dSlackCon := make([]float64, len(conIneq))
		for i := range conIneq {
			dSlackCon[i] = vecops.Dot(ji[len(boxIneq)+i], dx)
		}
		dLambdaBox := make([]float64, len(boxIneq))
		for i := range boxIneq {
			s := math.Max(slackBox[i], ipDualFloor)
			dLambdaBox[i] = (mu/s - lambdaBox[i]) - (lambdaBox[i]/s)*dSlackBox[i]
		}
		dLambdaCon := make([]float64, len(conIneq))
		for i := range conIneq {
			s := math.Max(slackCon[i], ipDualFloor)
			dLambdaCon[i] = (mu/s - lambdaCon[i]) - (lambdaCon[i]/s)*dSlackCon[i]
		}

		allDSlack := append(append([]float64{}, dSlackBox...), dSlackCon...)
		allDLambda := append(append([]float64{}, dLambdaBox...), dLambdaCon...)

		alphaPMax, alphaDMax := one, one
		if nIneq > 0 {
			alphaPMax = maxFracBoundary(allSlack, allDSlack)
			alphaDMax = maxFracBoundary(allLambda, allDLambda)
		}

		merit0 := merit(fx, slackBox, slackCon, eqResidual(x, cx), mu)

		// Backtrack the primal step on the ℓ₁ merit function.
		alphaP := alphaPMax
		xNew, fNew, cxNew := x, fx, cx
		for try := 0; try < ipMeritTries; try++ {
			xNew = vecops.AddScaled(x, dx, alphaP)
			for i := 0; i < n; i++ {
				lo, hi := boxLower[i], boxUpper[i]
				if lo == hi {
					xNew[i] = lo
					continue
				}
				if !math.IsInf(lo, -1) {
					xNew[i] = math.Max(lo+1e-14, xNew[i])
				}
				if !math.IsInf(hi, 1) {
					xNew[i] = math.Min(hi-1e-14, xNew[i])
				}
			}
			fNew = f(xNew)
			if conFn != nil {
				cxNew = conFn(xNew)
			}
			funcCalls++

			sbNew, scNew := computeSlacks(xNew, cxNew)
			meritNew := merit(fNew, sbNew, scNew, eqResidual(xNew, cxNew), mu)
			if !math.IsInf(meritNew, 1) && !math.IsNaN(meritNew) && meritNew < merit0+1e-8 {
				break
			}
			alphaP *= 0.5
		}

		xPrev, fPrev := x, fx
		x, fx, cx = xNew, fNew, cxNew

		if !math.IsNaN(fx) && !math.IsInf(fx, 0) && fx < bestF {
			bestX = vecops.Clone(x)
			bestF = fx
		}
		bad := math.IsNaN(fx) || math.IsInf(fx, 0)
		for _, v := range x {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				bad = true
			}
		}
		if bad {
			return done(iteration, bestX, bestF, false, "Stopped: numerical instability (NaN detected)")
		}

		slackBox, slackCon = computeSlacks(x, cx)

		for i := range lambdaBox {
			lambdaBox[i] = math.Max(math.Min(lambdaBox[i]+alphaDMax*dLambdaBox[i], ipDualCap), ipDualFloor)
		}
		for i := range lambdaCon {
			lambdaCon[i] = math.Max(math.Min(lambdaCon[i]+alphaDMax*dLambdaCon[i], ipDualCap), ipDualFloor)
		}
		if nEq > 0 {
			allEq := append(append([]float64{}, lambdaBoxEq...), lambdaConEq...)
			for i := range allEq {
				if i < len(dLambdaEq) {
					allEq[i] += alphaDMax * dLambdaEq[i]
				}
			}
			copy(lambdaBoxEq, allEq[:len(boxEq)])
			copy(lambdaConEq, allEq[len(boxEq):])
		}

		gx = gradFn(x)
		gradCalls++
		if jacFn != nil {
			jc = jacFn(x)
		}

		// Mehrotra predictor heuristic for μ.
		if nIneq > 0 {
			allS := append(append([]float64{}, slackBox...), slackCon...)
			allL := append(append([]float64{}, lambdaBox...), lambdaCon...)
			muCurrent := zero
			for i := range allS {
				muCurrent += allS[i] * allL[i]
			}
			muCurrent /= float64(nIneq)
			alphaS := maxFracBoundary(allS, allDSlack)
			alphaL := maxFracBoundary(allL, allDLambda)
			muAff := zero
			for i := range allS {
				muAff += (allS[i] + alphaS*allDSlack[i]) * (allL[i] + alphaL*allDLambda[i])
			}
			muAff /= float64(nIneq)
			ratio := muAff / math.Max(muCurrent, 1e-25)
			muNext := math.Max(ratio*ratio*ratio*muCurrent, muCurrent/10.0)
			mu = math.Max(math.Min(muNext, mu), ipDualFloor)
		}

		stepNorm := vecops.NormInf(vecops.Sub(x, xPrev))
		funcChange := math.Abs(fx - fPrev)
		o.Log.trace("IPNewton", iteration, fx, mu)

		if hasConstraints {
			eqRes := eqResidual(x, cx)
			eqViolation := zero
			for _, r := range eqRes {
				eqViolation = math.Max(eqViolation, math.Abs(r))
			}

			// ‖∇L‖∞ = ‖∇f - JIᵀλ + JEᵀλ_eq‖∞
			gradLag := vecops.Clone(gx)
			jiCur := buildIneqJac(jc)
			jeCur := buildEqJac(jc)
			allL := append(append([]float64{}, lambdaBox...), lambdaCon...)
			for i, row := range jiCur {
				gradLag = vecops.AddScaled(gradLag, row, -allL[i])
			}
			allLEq := append(append([]float64{}, lambdaBoxEq...), lambdaConEq...)
			for i, row := range jeCur {
				gradLag = vecops.AddScaled(gradLag, row, allLEq[i])
			}

			kktRes := math.Max(vecops.NormInf(gradLag), eqViolation)
			if kktRes < kktTol && mu < ipMuCeil {
				return done(iteration, x, fx, true,
					fmt.Sprintf("Converged: KKT residual %.2e below tolerance", kktRes))
			}
		} else if vecops.NormInf(gx) < o.GradTol {
			return done(iteration, x, fx, true, ReasonGradient.Message())
		}

		if stepNorm < o.StepTol {
			return done(iteration, x, fx, true, ReasonStep.Message())
		}
		if funcChange < o.FuncTol && iteration > 1 {
			return done(iteration, x, fx, true, ReasonFunction.Message())
		}
	}
	return done(o.MaxIterations, x, fx, false, maxIterMessage(o.MaxIterations))
}
