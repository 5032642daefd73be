// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package linesearch provides interchangeable step-selection strategies for
// descent methods.
//
// Every search walks the ray 𝐱 + λ𝐝 for a descent direction 𝐝 (that is,
// 𝐠ᵀ𝐝 < 0; behaviour is undefined otherwise, callers guard with a
// steepest-descent fallback) and reports the accepted step together with
// the function and gradient evaluation counts so callers can attribute cost.
package linesearch

const (
	zero = 0.0
	one  = 1.0
	two  = 2.0
)

// Objective evaluates 𝒇(𝐱) : ℝⁿ → ℝ.
type Objective func(x []float64) float64

// Gradient evaluates 𝒇′(𝐱) : ℝⁿ → ℝⁿ.
type Gradient func(x []float64) []float64

// Result reports the outcome of a line search.
type Result struct {
	Alpha     float64   // Accepted step length λ.
	F         float64   // Function value at 𝐱 + λ𝐝.
	G         []float64 // Gradient at 𝐱 + λ𝐝, nil when never evaluated.
	FuncCalls int       // Number of objective evaluations.
	GradCalls int       // Number of gradient evaluations.
	OK        bool      // Whether the termination conditions were satisfied.
}
