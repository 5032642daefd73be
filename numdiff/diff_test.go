// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package numdiff

import (
	"math"
	"testing"
)

func sphere(x []float64) float64 {
	s := 0.0
	for _, v := range x {
		s += v * v
	}
	return s
}

func rosenbrock(x []float64) float64 {
	a := 1 - x[0]
	b := x[1] - x[0]*x[0]
	return a*a + 100*b*b
}

func rosenbrockGrad(x []float64) []float64 {
	return []float64{
		-2*(1-x[0]) - 400*x[0]*(x[1]-x[0]*x[0]),
		200 * (x[1] - x[0]*x[0]),
	}
}

func maxAbsDiff(a, b []float64) float64 {
	m := 0.0
	for i := range a {
		if d := math.Abs(a[i] - b[i]); d > m {
			m = d
		}
	}
	return m
}

func TestGradientForward(t *testing.T) {
	x := []float64{3, -2}
	g := Gradient(sphere, x, Forward)
	want := []float64{6, -4}
	switch {
	case maxAbsDiff(g, want) > 1e-5:
		t.Fatalf("forward gradient error: got %v want %v", g, want)
	case x[0] != 3 || x[1] != -2:
		t.Fatal("input mutated")
	}
}

func TestGradientCentral(t *testing.T) {
	x := []float64{-1.2, 1.0}
	g := Gradient(rosenbrock, x, Central)
	want := rosenbrockGrad(x)
	if maxAbsDiff(g, want) > 1e-4 {
		t.Fatalf("central gradient error: got %v want %v", g, want)
	}

	// Central difference should beat forward on the same point.
	gf := Gradient(rosenbrock, x, Forward)
	if maxAbsDiff(g, want) > maxAbsDiff(gf, want) {
		t.Fatal("central difference less accurate than forward")
	}
}

func TestGradientUnknownMethod(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on unknown method")
		}
	}()
	Gradient(sphere, []float64{1}, Method(7))
}

func TestHessianQuadratic(t *testing.T) {
	// f = x² + 3xy + 5y² has constant Hessian [[2,3],[3,10]].
	f := func(x []float64) float64 {
		return x[0]*x[0] + 3*x[0]*x[1] + 5*x[1]*x[1]
	}
	h := Hessian(f, []float64{0.7, -1.3})
	want := []float64{2, 3, 3, 10}
	for i := range want {
		if math.Abs(h[i]-want[i]) > 1e-4 {
			t.Fatalf("hessian entry %d: got %v want %v", i, h[i], want[i])
		}
	}
	if h[1] != h[2] {
		t.Fatal("hessian not symmetrized")
	}
}

func TestHessVec(t *testing.T) {
	x := []float64{-1.2, 1.0}
	v := []float64{0.5, -0.25}
	gx := rosenbrockGrad(x)
	hv := HessVec(rosenbrockGrad, x, v, gx)

	// Analytic Hessian of Rosenbrock at x. The entries are O(500) here
	// and the forward differencing truncates at O(h·‖∇³f‖), so compare
	// relative to ‖want‖ rather than with an absolute bound.
	h11 := 2 - 400*(x[1]-x[0]*x[0]) + 800*x[0]*x[0]
	h12 := -400 * x[0]
	want := []float64{h11*v[0] + h12*v[1], h12*v[0] + 200*v[1]}

	wantNorm := math.Hypot(want[0], want[1])
	if maxAbsDiff(hv, want)/wantNorm > 1e-4 {
		t.Fatalf("hessian-vector product: got %v want %v", hv, want)
	}
}

func TestHessVecQuadratic(t *testing.T) {
	// f(x) = x₀² + x₀x₁ + 5x₁² has constant Hessian [[2,1],[1,10]].
	grad := func(x []float64) []float64 {
		return []float64{2*x[0] + x[1], x[0] + 10*x[1]}
	}
	x := []float64{3, -2}
	v := []float64{1, 2}
	hv := HessVec(grad, x, v, grad(x))
	want := []float64{2*v[0] + v[1], v[0] + 10*v[1]}
	if maxAbsDiff(hv, want) > 1e-6 {
		t.Fatalf("hessian-vector product: got %v want %v", hv, want)
	}
}
