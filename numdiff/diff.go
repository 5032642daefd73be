// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package numdiff estimates derivatives of scalar functions by finite
// differences: forward and central gradients, a central-difference Hessian
// and a Hessian-vector product built from two gradient evaluations.
package numdiff

import "math"

var (
	sqrtEps  = math.Sqrt(math.Nextafter(1, 2) - 1)
	cubeEps  = math.Pow(math.Nextafter(1, 2)-1, float64(1)/3)
	quartEps = math.Pow(math.Nextafter(1, 2)-1, float64(1)/4)
)

type Method int

const (
	// Forward use the first order accuracy forward difference.
	Forward Method = iota
	// Central use the second order accuracy central difference.
	Central
)

// Gradient estimates the gradient of a scalar function by finite differences.
//
// The per-component step follows the scipy heuristic:
//   - Forward: h = √ε·𝚖𝚊𝚡(|xᵢ|,1), truncation error O(h)
//   - Central: h = ε^⅓·𝚖𝚊𝚡(|xᵢ|,1), truncation error O(h²)
//
// The point x is never mutated; each probe evaluates f on a fresh copy.
//
// # Reference:
//
//   - https://en.wikipedia.org/wiki/Finite_difference
//   - https://github.com/scipy/scipy/blob/main/scipy/optimize/_numdiff.py
func Gradient(f func(x []float64) float64, x []float64, method Method) []float64 {
	switch method {
	case Forward:
		return forwardGradient(f, x)
	case Central:
		return centralGradient(f, x)
	default:
		panic("numdiff: unknown method")
	}
}

func forwardGradient(f func(x []float64) float64, x []float64) []float64 {
	n := len(x)
	fx := f(x)
	g := make([]float64, n)
	p := make([]float64, n)
	for i := range x {
		h := sqrtEps * math.Max(math.Abs(x[i]), 1)
		copy(p, x)
		p[i] += h
		g[i] = (f(p) - fx) / h
	}
	return g
}

func centralGradient(f func(x []float64) float64, x []float64) []float64 {
	n := len(x)
	g := make([]float64, n)
	lo, hi := make([]float64, n), make([]float64, n)
	for i := range x {
		h := cubeEps * math.Max(math.Abs(x[i]), 1)
		copy(lo, x)
		copy(hi, x)
		lo[i] -= h
		hi[i] += h
		g[i] = (f(hi) - f(lo)) / (2 * h)
	}
	return g
}
