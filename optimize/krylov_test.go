// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optimize

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/curioloop/optkit/vecops"
)

func TestSteihaugRespectsRadius(t *testing.T) {
	x := []float64{5, 5}
	gx := sphereGrad(x)
	for _, radius := range []float64{0.1, 1, 10} {
		z, _, _ := steihaugCG(sphereGrad, x, gx, radius, krylovCGTol)
		require.LessOrEqual(t, vecops.Norm(z), radius*(1+1e-10))
	}
}

func TestSteihaugModelDecrease(t *testing.T) {
	x := []float64{5, 5}
	gx := sphereGrad(x)
	_, mDecrease, _ := steihaugCG(sphereGrad, x, gx, 1.0, krylovCGTol)
	require.Negative(t, mDecrease)
}

func TestKrylovTrustRegionSphere(t *testing.T) {
	r := KrylovTrustRegion(sphere, sphereStart, sphereGrad, nil, nil)
	require.True(t, r.Converged)
	require.Less(t, r.F, 1e-6)
	require.InDelta(t, 0, r.X[0], 1e-3)
}

func TestKrylovTrustRegionRosenbrock(t *testing.T) {
	r := KrylovTrustRegion(rosenbrock, rosenbrockStart, rosenbrockGrad, nil, nil)
	require.True(t, r.Converged)
	require.Less(t, r.F, 1e-6)
}

// The solver never forms the Hessian, so high dimensions stay cheap.
func TestKrylovTrustRegionHighDimensional(t *testing.T) {
	n := 50
	f := func(x []float64) float64 {
		s := 0.0
		for _, v := range x {
			s += v * v
		}
		return s
	}
	g := func(x []float64) []float64 {
		out := make([]float64, n)
		for i, v := range x {
			out[i] = 2 * v
		}
		return out
	}
	x0 := make([]float64, n)
	for i := range x0 {
		x0[i] = 1
	}
	r := KrylovTrustRegion(f, x0, g, nil, nil)
	require.True(t, r.Converged)
	require.Less(t, r.F, 1e-8)
}

func TestKrylovTrustRegionBooth(t *testing.T) {
	r := KrylovTrustRegion(booth, boothStart, boothGrad, nil, nil)
	require.True(t, r.Converged)
	require.InDelta(t, 1, r.X[0], 0.01)
	require.InDelta(t, 3, r.X[1], 0.01)
}

// Negative curvature at the start must still produce monotone progress.
func TestKrylovTrustRegionNegativeCurvature(t *testing.T) {
	f := func(x []float64) float64 {
		return -x[0]*x[0] - x[1]*x[1] + x[0]*x[0]*x[0]*x[0] + x[1]*x[1]*x[1]*x[1]
	}
	g := func(x []float64) []float64 {
		return []float64{-2*x[0] + 4*x[0]*x[0]*x[0], -2*x[1] + 4*x[1]*x[1]*x[1]}
	}
	r := KrylovTrustRegion(f, []float64{0.1, 0.1}, g, nil, nil)
	require.LessOrEqual(t, r.F, f([]float64{0.1, 0.1}))
}

func TestKrylovTrustRegionAtMinimum(t *testing.T) {
	r := KrylovTrustRegion(sphere, []float64{0, 0}, sphereGrad, nil, nil)
	require.True(t, r.Converged)
	require.Zero(t, r.Iterations)
}
