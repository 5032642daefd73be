// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optimize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFminboxInteriorMinimum(t *testing.T) {
	r := Fminbox(sphere, []float64{0.5, 0.5}, sphereGrad,
		[]float64{-1, -1}, []float64{1, 1}, nil, nil)
	require.True(t, r.Converged)
	require.InDelta(t, 0, r.X[0], 0.01)
	require.InDelta(t, 0, r.X[1], 0.01)
	require.Less(t, r.F, 0.01)
}

func TestFminboxBoundaryMinimum(t *testing.T) {
	// Unconstrained minimum at the origin sits outside [2,5]; the
	// solution must land on the lower bound.
	f := func(x []float64) float64 { return x[0] * x[0] }
	g := func(x []float64) []float64 { return []float64{2 * x[0]} }
	r := Fminbox(f, []float64{3}, g, []float64{2}, []float64{5}, nil, nil)
	require.InDelta(t, 2.0, r.X[0], 0.01)
	require.InDelta(t, 4.0, r.F, 0.1)
}

func TestFminboxRosenbrockConstrained(t *testing.T) {
	// The box excludes the global minimum (1,1); the optimum is pushed
	// to the x₀ = 1.5 face.
	r := Fminbox(rosenbrock, []float64{2, 3}, rosenbrockGrad,
		[]float64{1.5, 1.5}, []float64{4, 4}, nil, nil)
	require.InDelta(t, 1.5, r.X[0], 0.1)
}

func TestFminboxInvalidBounds(t *testing.T) {
	r := Fminbox(sphere, []float64{0, 0}, sphereGrad,
		[]float64{1, 1}, []float64{-1, -1}, nil, nil)
	require.False(t, r.Converged)
	require.Contains(t, r.Message, "Invalid bounds")
}

func TestFminboxExteriorStart(t *testing.T) {
	// The start point is nudged into the strict interior.
	r := Fminbox(sphere, []float64{10, 10}, sphereGrad,
		[]float64{-1, -1}, []float64{1, 1}, nil, nil)
	require.True(t, r.Converged)
	require.InDelta(t, 0, r.X[0], 0.01)
}

func TestFminboxInnerMethods(t *testing.T) {
	for _, m := range []Method{MethodLBFGS, MethodBFGS, MethodConjugateGradient, MethodGradientDescent} {
		r := Fminbox(sphere, []float64{0.5, 0.5}, sphereGrad,
			[]float64{-1, -1}, []float64{1, 1}, nil, &FminboxOptions{Method: m})
		require.True(t, r.Converged, "method %v", m)
		require.Less(t, r.F, 0.01, "method %v", m)
	}
}

func TestBarrierValue(t *testing.T) {
	lower, upper := []float64{0, 0}, []float64{4, 4}
	v := barrierValue([]float64{2, 2}, lower, upper)
	require.InDelta(t, -4*math.Log(2), v, 1e-10)

	require.True(t, math.IsInf(barrierValue([]float64{-1, 2}, lower, upper), 1))

	inf := math.Inf(1)
	require.Zero(t, barrierValue([]float64{2, 2}, []float64{-inf, -inf}, []float64{inf, inf}))
}

func TestProjectedGradNorm(t *testing.T) {
	lower, upper := []float64{0, 0}, []float64{4, 4}
	// At the boundary with the gradient pushing outward the projected
	// gradient vanishes.
	pgn := projectedGradNorm([]float64{0, 0}, []float64{1, 1}, lower, upper)
	require.Zero(t, pgn)
	// In the interior it is just the gradient.
	pgn = projectedGradNorm([]float64{2, 2}, []float64{0.5, 0.25}, lower, upper)
	require.InDelta(t, 0.5, pgn, 1e-10)
}
