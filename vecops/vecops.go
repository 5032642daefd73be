// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vecops provides pure vector arithmetic for n-dimensional optimization.
//
// Every operation allocates a fresh result vector and leaves its inputs
// byte-for-byte unchanged. The whole suite relies on this purity for its
// step bookkeeping: vectors are never aliased across mutation boundaries.
package vecops

import "math"

// Dot returns the inner product 𝐚ᵀ𝐛.
func Dot(a, b []float64) float64 {
	if len(a) != len(b) {
		panic("vecops: dimension mismatch")
	}
	s := 0.0
	for i, v := range a {
		s += v * b[i]
	}
	return s
}

// Norm returns the Euclidean norm ‖𝐯‖₂.
func Norm(v []float64) float64 {
	return math.Sqrt(Dot(v, v))
}

// NormInf returns the infinity norm 𝚖𝚊𝚡ᵢ|𝐯ᵢ|.
func NormInf(v []float64) float64 {
	m := 0.0
	for _, x := range v {
		if a := math.Abs(x); a > m {
			m = a
		}
	}
	return m
}

// Scale returns s·𝐯.
func Scale(v []float64, s float64) []float64 {
	r := make([]float64, len(v))
	for i, x := range v {
		r[i] = x * s
	}
	return r
}

// Add returns 𝐚 + 𝐛.
func Add(a, b []float64) []float64 {
	if len(a) != len(b) {
		panic("vecops: dimension mismatch")
	}
	r := make([]float64, len(a))
	for i, v := range a {
		r[i] = v + b[i]
	}
	return r
}

// Sub returns 𝐚 - 𝐛.
func Sub(a, b []float64) []float64 {
	if len(a) != len(b) {
		panic("vecops: dimension mismatch")
	}
	r := make([]float64, len(a))
	for i, v := range a {
		r[i] = v - b[i]
	}
	return r
}

// Negate returns -𝐯.
func Negate(v []float64) []float64 {
	r := make([]float64, len(v))
	for i, x := range v {
		r[i] = -x
	}
	return r
}

// Clone returns a copy of 𝐯.
func Clone(v []float64) []float64 {
	r := make([]float64, len(v))
	copy(r, v)
	return r
}

// Zeros returns the zero vector of dimension n.
func Zeros(n int) []float64 {
	return make([]float64, n)
}

// AddScaled returns 𝐚 + s·𝐛 without an intermediate allocation.
func AddScaled(a, b []float64, s float64) []float64 {
	if len(a) != len(b) {
		panic("vecops: dimension mismatch")
	}
	r := make([]float64, len(a))
	for i, v := range a {
		r[i] = v + s*b[i]
	}
	return r
}
