// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optimize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCholSolveSPD(t *testing.T) {
	// A = [[4,2],[2,3]] is SPD; solve against a known product.
	a := []float64{4, 2, 2, 3}
	want := []float64{1, -2}
	b := matVec(a, want)
	x, ok := cholSolve(a, b)
	require.True(t, ok)
	require.InDelta(t, want[0], x[0], 1e-12)
	require.InDelta(t, want[1], x[1], 1e-12)
}

func TestCholSolveIndefinite(t *testing.T) {
	a := []float64{1, 0, 0, -1}
	_, ok := cholSolve(a, []float64{1, 1})
	require.False(t, ok)
}

func TestRobustSolveRegularizes(t *testing.T) {
	// Singular but symmetric: the shifted system must still produce a
	// finite solution.
	a := []float64{1, 1, 1, 1}
	x := robustSolve(a, []float64{2, 2})
	require.Len(t, x, 2)
	require.InDelta(t, x[0], x[1], 1e-6)
}

func TestMatVecIdentity(t *testing.T) {
	v := []float64{3, -4, 5}
	got := matVec(identity(3), v)
	require.Equal(t, v, got)
}

func TestMatVecDimensionMismatch(t *testing.T) {
	require.Panics(t, func() { matVec([]float64{1, 2, 3}, []float64{1, 2}) })
}
