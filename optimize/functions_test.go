// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optimize

// Standard benchmark functions with analytic derivatives.

var (
	sphere = func(x []float64) float64 {
		return x[0]*x[0] + x[1]*x[1]
	}
	sphereGrad = func(x []float64) []float64 {
		return []float64{2 * x[0], 2 * x[1]}
	}
	sphereHess = func(x []float64) []float64 {
		return []float64{2, 0, 0, 2}
	}
	sphereStart = []float64{5, 5}

	booth = func(x []float64) float64 {
		a := x[0] + 2*x[1] - 7
		b := 2*x[0] + x[1] - 5
		return a*a + b*b
	}
	boothGrad = func(x []float64) []float64 {
		a := x[0] + 2*x[1] - 7
		b := 2*x[0] + x[1] - 5
		return []float64{2*a + 4*b, 4*a + 2*b}
	}
	boothHess = func(x []float64) []float64 {
		return []float64{10, 8, 8, 10}
	}
	boothStart = []float64{0, 0}

	rosenbrock = func(x []float64) float64 {
		a := 1 - x[0]
		b := x[1] - x[0]*x[0]
		return a*a + 100*b*b
	}
	rosenbrockGrad = func(x []float64) []float64 {
		return []float64{
			-2*(1-x[0]) - 400*x[0]*(x[1]-x[0]*x[0]),
			200 * (x[1] - x[0]*x[0]),
		}
	}
	rosenbrockHess = func(x []float64) []float64 {
		return []float64{
			2 - 400*x[1] + 1200*x[0]*x[0], -400 * x[0],
			-400 * x[0], 200,
		}
	}
	rosenbrockStart = []float64{-1.2, 1}

	beale = func(x []float64) float64 {
		a := 1.5 - x[0] + x[0]*x[1]
		b := 2.25 - x[0] + x[0]*x[1]*x[1]
		c := 2.625 - x[0] + x[0]*x[1]*x[1]*x[1]
		return a*a + b*b + c*c
	}
	bealeGrad = func(x []float64) []float64 {
		a := 1.5 - x[0] + x[0]*x[1]
		b := 2.25 - x[0] + x[0]*x[1]*x[1]
		c := 2.625 - x[0] + x[0]*x[1]*x[1]*x[1]
		return []float64{
			2*a*(-1+x[1]) + 2*b*(-1+x[1]*x[1]) + 2*c*(-1+x[1]*x[1]*x[1]),
			2*a*x[0] + 2*b*2*x[0]*x[1] + 2*c*3*x[0]*x[1]*x[1],
		}
	}
	bealeStart = []float64{0, 0}

	himmelblau = func(x []float64) float64 {
		a := x[0]*x[0] + x[1] - 11
		b := x[0] + x[1]*x[1] - 7
		return a*a + b*b
	}
	himmelblauGrad = func(x []float64) []float64 {
		a := x[0]*x[0] + x[1] - 11
		b := x[0] + x[1]*x[1] - 7
		return []float64{4*x[0]*a + 2*b, 2*a + 4*x[1]*b}
	}
	himmelblauStart = []float64{0, 0}
)
