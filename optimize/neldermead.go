// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optimize

import (
	"math"
	"sort"

	"github.com/curioloop/optkit/vecops"
)

// Standard simplex coefficients (Nelder & Mead 1965).
const (
	nmAlpha = 1.0  // reflection
	nmGamma = 2.0  // expansion
	nmRho   = 0.5  // contraction
	nmSigma = 0.5  // shrink
	nmScale = 0.05 // initial simplex scale
)

// NelderMeadOptions tunes the simplex coefficients.
// The zero value of any field selects its default.
type NelderMeadOptions struct {
	Alpha float64 // Reflection coefficient (default 1).
	Gamma float64 // Expansion coefficient (default 2).
	Rho   float64 // Contraction coefficient (default 0.5).
	Sigma float64 // Shrink coefficient (default 0.5).
	// Scale sizes the initial simplex: vertex i offsets x₀ by
	// Scale·max(|x₀ᵢ|, 1) along eᵢ (default 0.05).
	Scale float64
}

func (o *NelderMeadOptions) sanitize() NelderMeadOptions {
	s := NelderMeadOptions{}
	if o != nil {
		s = *o
	}
	if s.Alpha <= zero {
		s.Alpha = nmAlpha
	}
	if s.Gamma <= zero {
		s.Gamma = nmGamma
	}
	if s.Rho <= zero {
		s.Rho = nmRho
	}
	if s.Sigma <= zero {
		s.Sigma = nmSigma
	}
	if s.Scale <= zero {
		s.Scale = nmScale
	}
	return s
}

// NelderMead minimizes 𝒇 by the derivative-free simplex method.
// It converges when either the function value spread over the simplex
// drops below FuncTol or the simplex diameter drops below StepTol.
// The returned Result carries a nil gradient and zero GradCalls.
func NelderMead(f Objective, x0 []float64, opts *Options, nm *NelderMeadOptions) *Result {
	o := opts.sanitize()
	c := nm.sanitize()
	n := len(x0)
	funcCalls := 0

	// Initial simplex: x₀ plus one perturbed vertex per coordinate.
	simplex := make([][]float64, n+1)
	fv := make([]float64, n+1)
	simplex[0] = vecops.Clone(x0)
	for i := 0; i < n; i++ {
		v := vecops.Clone(x0)
		v[i] += c.Scale * math.Max(math.Abs(x0[i]), one)
		simplex[i+1] = v
	}
	for i, v := range simplex {
		fv[i] = f(v)
		funcCalls++
	}

	order := func() {
		idx := make([]int, n+1)
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool { return fv[idx[a]] < fv[idx[b]] })
		sx := make([][]float64, n+1)
		sf := make([]float64, n+1)
		for i, j := range idx {
			sx[i], sf[i] = simplex[j], fv[j]
		}
		copy(simplex, sx)
		copy(fv, sf)
	}

	done := func(iter int, converged bool, msg string) *Result {
		r := &Result{
			X: vecops.Clone(simplex[0]), F: fv[0],
			Iterations: iter, FuncCalls: funcCalls,
			Converged: converged, Message: msg,
		}
		o.Log.final("NelderMead", r)
		return r
	}

	for iteration := 1; iteration <= o.MaxIterations; iteration++ {
		order()

		// Function value spread σ(f) over the simplex.
		mean := zero
		for _, v := range fv {
			mean += v
		}
		mean /= float64(n + 1)
		variance := zero
		for _, v := range fv {
			variance += (v - mean) * (v - mean)
		}
		std := math.Sqrt(variance / float64(n+1))
		o.Log.trace("NelderMead", iteration, fv[0], std)
		if std < o.FuncTol {
			return done(iteration, true, "Converged: function value spread below tolerance")
		}

		// Simplex diameter relative to the best vertex.
		maxDist := zero
		for i := 1; i <= n; i++ {
			maxDist = math.Max(maxDist, vecops.Norm(vecops.Sub(simplex[i], simplex[0])))
		}
		if maxDist < o.StepTol {
			return done(iteration, true, "Converged: simplex diameter below tolerance")
		}

		// Centroid of all vertices except the worst.
		centroid := vecops.Zeros(n)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				centroid[j] += simplex[i][j]
			}
		}
		centroid = vecops.Scale(centroid, one/float64(n))

		worst := simplex[n]
		reflected := vecops.AddScaled(centroid, vecops.Sub(centroid, worst), c.Alpha)
		fReflected := f(reflected)
		funcCalls++

		if fv[0] <= fReflected && fReflected < fv[n-1] {
			simplex[n], fv[n] = reflected, fReflected
			continue
		}

		if fReflected < fv[0] {
			expanded := vecops.AddScaled(centroid, vecops.Sub(reflected, centroid), c.Gamma)
			fExpanded := f(expanded)
			funcCalls++
			if fExpanded < fReflected {
				simplex[n], fv[n] = expanded, fExpanded
			} else {
				simplex[n], fv[n] = reflected, fReflected
			}
			continue
		}

		if fReflected < fv[n] {
			// Outside contraction toward the reflected point.
			contracted := vecops.AddScaled(centroid, vecops.Sub(reflected, centroid), c.Rho)
			fContracted := f(contracted)
			funcCalls++
			if fContracted <= fReflected {
				simplex[n], fv[n] = contracted, fContracted
				continue
			}
		} else {
			// Inside contraction toward the worst point.
			contracted := vecops.AddScaled(centroid, vecops.Sub(worst, centroid), c.Rho)
			fContracted := f(contracted)
			funcCalls++
			if fContracted < fv[n] {
				simplex[n], fv[n] = contracted, fContracted
				continue
			}
		}

		// Shrink everything toward the best vertex.
		for i := 1; i <= n; i++ {
			simplex[i] = vecops.AddScaled(simplex[0], vecops.Sub(simplex[i], simplex[0]), c.Sigma)
			fv[i] = f(simplex[i])
			funcCalls++
		}
	}

	order()
	return done(o.MaxIterations, false, maxIterMessage(o.MaxIterations))
}
