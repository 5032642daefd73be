// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optimize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewtonSphere(t *testing.T) {
	// The Newton step on a quadratic is exact: one step to the minimum.
	r := Newton(sphere, sphereStart, sphereGrad, sphereHess, nil)
	require.True(t, r.Converged)
	require.Less(t, r.F, 1e-14)
	require.LessOrEqual(t, r.Iterations, 2)
}

func TestNewtonBooth(t *testing.T) {
	r := Newton(booth, boothStart, boothGrad, boothHess, nil)
	require.True(t, r.Converged)
	require.InDelta(t, 1, r.X[0], 1e-6)
	require.InDelta(t, 3, r.X[1], 1e-6)
}

func TestNewtonRosenbrock(t *testing.T) {
	r := Newton(rosenbrock, rosenbrockStart, rosenbrockGrad, rosenbrockHess, nil)
	require.True(t, r.Converged)
	require.Less(t, r.F, 1e-10)
}

func TestNewtonFiniteDiffHessian(t *testing.T) {
	r := Newton(booth, boothStart, boothGrad, nil, nil)
	require.True(t, r.Converged)
}

func TestNewtonFiniteDiffAll(t *testing.T) {
	r := Newton(sphere, sphereStart, nil, nil, nil)
	require.True(t, r.Converged)
}

func TestNewtonAtMinimum(t *testing.T) {
	r := Newton(sphere, []float64{0, 0}, sphereGrad, sphereHess, nil)
	require.True(t, r.Converged)
	require.Zero(t, r.Iterations)
}

// Starting at a saddle-adjacent point with an indefinite Hessian forces
// the τI regularization path.
func TestNewtonSaddle(t *testing.T) {
	f := func(x []float64) float64 { return x[0]*x[0] - x[1]*x[1] + x[1]*x[1]*x[1]*x[1] }
	g := func(x []float64) []float64 {
		return []float64{2 * x[0], -2*x[1] + 4*x[1]*x[1]*x[1]}
	}
	h := func(x []float64) []float64 {
		return []float64{2, 0, 0, -2 + 12*x[1]*x[1]}
	}
	r := Newton(f, []float64{1, 0.1}, g, h, nil)
	require.True(t, r.Converged)
	require.Less(t, r.F, -0.2) // the minima sit at f = -1/4
}

func TestNewtonMaxIterations(t *testing.T) {
	r := Newton(rosenbrock, rosenbrockStart, rosenbrockGrad, rosenbrockHess, &Options{MaxIterations: 2})
	require.False(t, r.Converged)
	require.Contains(t, r.Message, "maximum iterations")
}
