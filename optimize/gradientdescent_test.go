// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optimize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGradientDescentSphere(t *testing.T) {
	r := GradientDescent(sphere, sphereStart, sphereGrad, nil)
	require.True(t, r.Converged)
	require.Less(t, r.F, 1e-6)
}

func TestGradientDescentBooth(t *testing.T) {
	r := GradientDescent(booth, boothStart, boothGrad, nil)
	require.True(t, r.Converged)
	require.InDelta(t, 1, r.X[0], 1e-3)
	require.InDelta(t, 3, r.X[1], 1e-3)
}

func TestGradientDescentFiniteDiff(t *testing.T) {
	r := GradientDescent(sphere, sphereStart, nil, nil)
	require.True(t, r.Converged)
	require.Less(t, r.F, 1e-6)
}

func TestGradientDescentAtMinimum(t *testing.T) {
	r := GradientDescent(sphere, []float64{0, 0}, sphereGrad, nil)
	require.True(t, r.Converged)
	require.Zero(t, r.Iterations)
	require.Equal(t, ReasonGradient.Message(), r.Message)
}

func TestGradientDescentMaxIterations(t *testing.T) {
	r := GradientDescent(rosenbrock, rosenbrockStart, rosenbrockGrad, &Options{MaxIterations: 3})
	require.False(t, r.Converged)
	require.LessOrEqual(t, r.Iterations, 3)
	require.Contains(t, r.Message, "maximum iterations")
}

// Every accepted step must decrease f.
func TestGradientDescentMonotone(t *testing.T) {
	var values []float64
	f := func(x []float64) float64 {
		v := rosenbrock(x)
		return v
	}
	r := GradientDescent(f, rosenbrockStart, func(x []float64) []float64 {
		values = append(values, rosenbrock(x))
		return rosenbrockGrad(x)
	}, &Options{MaxIterations: 50})
	require.NotNil(t, r)
	for i := 1; i < len(values); i++ {
		require.LessOrEqual(t, values[i], values[i-1])
	}
}
