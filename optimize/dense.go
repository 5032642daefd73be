// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optimize

import "math"

// Dense kernels over row-major n×n matrices. These cover exactly what the
// second-order solvers need: a Cholesky solve for SPD systems, a
// regularized variant for the nearly singular ones, and a few trivial
// helpers.

func identity(n int) []float64 {
	m := make([]float64, n*n)
	for i := 0; i < n; i++ {
		m[i*n+i] = one
	}
	return m
}

func matVec(a []float64, x []float64) []float64 {
	n := len(x)
	if len(a) != n*n {
		panic("optimize: dimension mismatch")
	}
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		s := zero
		row := a[i*n : (i+1)*n]
		for j, v := range x {
			s += row[j] * v
		}
		y[i] = s
	}
	return y
}

// cholFactor computes the lower-triangular L with A = LLᵀ.
// It fails when A is not positive definite.
func cholFactor(a []float64, n int) (l []float64, ok bool) {
	l = make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			s := a[i*n+j]
			for k := 0; k < j; k++ {
				s -= l[i*n+k] * l[j*n+k]
			}
			if i == j {
				if s <= zero || math.IsNaN(s) {
					return nil, false
				}
				l[i*n+i] = math.Sqrt(s)
			} else {
				l[i*n+j] = s / l[j*n+j]
			}
		}
	}
	return l, true
}

// cholSolve solves A𝐱 = 𝐛 for symmetric positive definite A.
func cholSolve(a, b []float64) (x []float64, ok bool) {
	n := len(b)
	l, ok := cholFactor(a, n)
	if !ok {
		return nil, false
	}
	// L𝐲 = 𝐛 then Lᵀ𝐱 = 𝐲.
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		s := b[i]
		for k := 0; k < i; k++ {
			s -= l[i*n+k] * y[k]
		}
		y[i] = s / l[i*n+i]
	}
	x = make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		s := y[i]
		for k := i + 1; k < n; k++ {
			s -= l[k*n+i] * x[k]
		}
		x[i] = s / l[i*n+i]
	}
	return x, true
}

// robustSolve solves A𝐱 = 𝐛 by Cholesky, escalating a diagonal shift
// τI when A is not positive definite. As a final fallback it returns
// the normalized right-hand side so the caller always gets a usable
// direction.
func robustSolve(a, b []float64) []float64 {
	n := len(b)
	if n == 0 {
		return nil
	}
	if x, ok := cholSolve(a, b); ok {
		return x
	}
	tau := 1e-8
	for try := 0; try < 25; try++ {
		reg := make([]float64, len(a))
		copy(reg, a)
		for i := 0; i < n; i++ {
			reg[i*n+i] += tau
		}
		if x, ok := cholSolve(reg, b); ok {
			return x
		}
		tau *= 10
	}
	bNorm := zero
	for _, v := range b {
		bNorm = math.Max(bNorm, math.Abs(v))
	}
	x := make([]float64, n)
	if bNorm > zero {
		for i, v := range b {
			x[i] = v / bNorm
		}
	}
	return x
}
