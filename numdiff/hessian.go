// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package numdiff

import "math"

// Hessian estimates the full n×n Hessian of f at x by central differences,
// returned in row-major order. The step per component is h = ε^¼·𝚖𝚊𝚡(|xᵢ|,1).
//
// Cost is O(n²) function evaluations: one pair per diagonal entry and four
// per off-diagonal pair. Only the upper triangle is computed; the lower
// triangle is mirrored to keep the estimate symmetric.
func Hessian(f func(x []float64) float64, x []float64) []float64 {
	n := len(x)
	hess := make([]float64, n*n)
	fx := f(x)

	h := make([]float64, n)
	for i := range x {
		h[i] = quartEps * math.Max(math.Abs(x[i]), 1)
	}

	p := make([]float64, n)
	probe := func(di, dj int, hi, hj float64) float64 {
		copy(p, x)
		p[di] += hi
		if dj >= 0 {
			p[dj] += hj
		}
		return f(p)
	}

	for i := 0; i < n; i++ {
		fp := probe(i, -1, h[i], 0)
		fm := probe(i, -1, -h[i], 0)
		hess[i*n+i] = (fp - 2*fx + fm) / (h[i] * h[i])
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			fpp := probe(i, j, h[i], h[j])
			fpm := probe(i, j, h[i], -h[j])
			fmp := probe(i, j, -h[i], h[j])
			fmm := probe(i, j, -h[i], -h[j])
			v := (fpp - fpm - fmp + fmm) / (4 * h[i] * h[j])
			hess[i*n+j] = v
			hess[j*n+i] = v
		}
	}

	return hess
}

// HessVec approximates the Hessian-vector product H·𝐯 by differencing the
// gradient along the perturbed point x + h·𝐯, never forming H itself.
// gx must be the gradient already evaluated at x.
func HessVec(grad func(x []float64) []float64, x, v, gx []float64) []float64 {
	n := len(x)
	if n != len(v) || n != len(gx) {
		panic("numdiff: dimension mismatch")
	}

	vNorm := 0.0
	for _, vi := range v {
		vNorm += vi * vi
	}
	vNorm = math.Sqrt(vNorm)
	h := quartEps * math.Max(vNorm, 1)

	p := make([]float64, n)
	for i := range x {
		p[i] = x[i] + h*v[i]
	}
	gp := grad(p)

	hv := make([]float64, n)
	for i := range hv {
		hv[i] = (gp[i] - gx[i]) / h
	}
	return hv
}
