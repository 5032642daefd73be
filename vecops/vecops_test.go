// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vecops_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/curioloop/optkit/vecops"
)

func TestDot(t *testing.T) {
	require.Equal(t, 32.0, vecops.Dot([]float64{1, 2, 3}, []float64{4, 5, 6}))
	require.Equal(t, 0.0, vecops.Dot(nil, nil))
}

func TestNorms(t *testing.T) {
	require.Equal(t, 5.0, vecops.Norm([]float64{3, 4}))
	require.Equal(t, 4.0, vecops.NormInf([]float64{-4, 3, 1}))
	require.Equal(t, 0.0, vecops.NormInf(nil))
}

func TestElementwise(t *testing.T) {
	a := []float64{1, 2}
	b := []float64{3, -4}
	require.Equal(t, []float64{4, -2}, vecops.Add(a, b))
	require.Equal(t, []float64{-2, 6}, vecops.Sub(a, b))
	require.Equal(t, []float64{-1, -2}, vecops.Negate(a))
	require.Equal(t, []float64{2, 4}, vecops.Scale(a, 2))
	require.Equal(t, []float64{7, -6}, vecops.AddScaled(a, b, 2))
	require.Equal(t, []float64{0, 0, 0}, vecops.Zeros(3))
}

// TestPurity verifies the system-wide invariant: no operation may mutate
// its inputs, and every result is freshly allocated.
func TestPurity(t *testing.T) {
	a := []float64{1.5, -2.25, 3.125}
	b := []float64{-0.5, 4.75, 9.0}
	wantA := vecops.Clone(a)
	wantB := vecops.Clone(b)

	_ = vecops.Dot(a, b)
	_ = vecops.Norm(a)
	_ = vecops.NormInf(a)
	_ = vecops.Scale(a, 7)
	_ = vecops.Add(a, b)
	_ = vecops.Sub(a, b)
	_ = vecops.Negate(a)
	_ = vecops.AddScaled(a, b, -3)
	c := vecops.Clone(a)
	c[0] = 99

	require.Equal(t, wantA, a)
	require.Equal(t, wantB, b)

	r := vecops.Add(a, b)
	r[0] = 42
	require.Equal(t, wantA, a, "result must not alias input")
}

func TestDimensionMismatch(t *testing.T) {
	require.Panics(t, func() { vecops.Dot([]float64{1}, []float64{1, 2}) })
	require.Panics(t, func() { vecops.Add([]float64{1}, []float64{1, 2}) })
	require.Panics(t, func() { vecops.AddScaled([]float64{1}, []float64{1, 2}, 1) })
}
