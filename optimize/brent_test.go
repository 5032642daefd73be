// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optimize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBrentQuadratic(t *testing.T) {
	r := Brent(func(x float64) float64 { return (x - 2) * (x - 2) }, 0, 5, nil)
	require.True(t, r.Converged)
	require.InDelta(t, 2, r.X, 1e-6)
	require.Less(t, r.F, 1e-10)
}

func TestBrentReversedInterval(t *testing.T) {
	r := Brent(func(x float64) float64 { return (x - 2) * (x - 2) }, 5, 0, nil)
	require.True(t, r.Converged)
	require.InDelta(t, 2, r.X, 1e-6)
}

func TestBrentNonSmooth(t *testing.T) {
	r := Brent(func(x float64) float64 { return math.Abs(x - 1.5) }, 0, 4, nil)
	require.True(t, r.Converged)
	require.InDelta(t, 1.5, r.X, 1e-5)
}

func TestBrentBoundaryMinimum(t *testing.T) {
	// Monotone increasing on the interval: the minimizer is the left end.
	r := Brent(math.Exp, 0, 3, nil)
	require.True(t, r.Converged)
	require.InDelta(t, 0, r.X, 1e-4)
}

func TestBrentSinusoid(t *testing.T) {
	r := Brent(math.Sin, math.Pi, 2*math.Pi, nil)
	require.True(t, r.Converged)
	require.InDelta(t, 3*math.Pi/2, r.X, 1e-6)
	require.InDelta(t, -1, r.F, 1e-10)
}

func TestBrentMaxIterations(t *testing.T) {
	r := Brent(func(x float64) float64 { return (x - 2) * (x - 2) }, 0, 5,
		&BrentOptions{MaxIter: 2})
	require.False(t, r.Converged)
	require.Equal(t, "Maximum iterations exceeded", r.Message)
}
