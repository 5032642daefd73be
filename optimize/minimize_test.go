// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optimize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMinimizeAutoNoGrad(t *testing.T) {
	r, err := Minimize(sphere, sphereStart, nil, MethodAuto, nil)
	require.NoError(t, err)
	require.True(t, r.Converged)
	require.Zero(t, r.GradCalls) // nelder-mead
}

func TestMinimizeAutoWithGrad(t *testing.T) {
	r, err := Minimize(sphere, sphereStart, sphereGrad, MethodAuto, nil)
	require.NoError(t, err)
	require.True(t, r.Converged)
	require.Positive(t, r.GradCalls) // bfgs
}

func TestMinimizeDispatch(t *testing.T) {
	for _, m := range []Method{
		MethodNelderMead, MethodGradientDescent, MethodConjugateGradient,
		MethodBFGS, MethodLBFGS, MethodNewton,
		MethodNewtonTrustRegion, MethodKrylovTrustRegion,
	} {
		r, err := Minimize(sphere, sphereStart, sphereGrad, m, nil)
		require.NoError(t, err, "method %v", m)
		require.True(t, r.Converged, "method %v", m)
		require.Less(t, r.F, 1e-6, "method %v", m)
	}
}

func TestMinimizeRosenbrock(t *testing.T) {
	for _, m := range []Method{MethodBFGS, MethodLBFGS} {
		r, err := Minimize(rosenbrock, rosenbrockStart, rosenbrockGrad, m, nil)
		require.NoError(t, err)
		require.True(t, r.Converged, "method %v", m)
		require.Less(t, r.F, 1e-10, "method %v", m)
	}
}

func TestMinimizeUnknownMethod(t *testing.T) {
	r, err := Minimize(sphere, sphereStart, nil, Method(99), nil)
	require.Nil(t, r)
	require.ErrorIs(t, err, ErrUnknownMethod)
}

func TestMinimizeMaxIterations(t *testing.T) {
	r, err := Minimize(rosenbrock, rosenbrockStart, rosenbrockGrad, MethodBFGS,
		&Options{MaxIterations: 3})
	require.NoError(t, err)
	require.LessOrEqual(t, r.Iterations, 3)
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("l-bfgs")
	require.NoError(t, err)
	require.Equal(t, MethodLBFGS, m)

	m, err = ParseMethod("auto")
	require.NoError(t, err)
	require.Equal(t, MethodAuto, m)

	_, err = ParseMethod("simplex")
	require.ErrorIs(t, err, ErrUnknownMethod)
}

func TestMethodString(t *testing.T) {
	require.Equal(t, "nelder-mead", MethodNelderMead.String())
	require.Equal(t, "krylov-trust-region", MethodKrylovTrustRegion.String())
	require.Equal(t, "Method(99)", Method(99).String())
}
