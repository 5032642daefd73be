// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optimize

import "math"

// Golden section ratio (3-√5)/2 ≈ 0.381966.
var brentGolden = (3.0 - math.Sqrt(5.0)) / 2.0

const (
	brentMaxIter = 500
	brentTolAdd  = 1e-10
)

// ScalarObjective evaluates 𝒇(x) : ℝ → ℝ.
type ScalarObjective func(x float64) float64

// ScalarResult is the outcome of a univariate minimization.
type ScalarResult struct {
	X          float64
	F          float64
	Iterations int
	FuncCalls  int
	Converged  bool
	Message    string
}

// BrentOptions tunes the univariate search.
// The zero value of any field selects its default.
type BrentOptions struct {
	// Tol is the relative tolerance (default √ε).
	Tol float64
	// MaxIter caps the iteration (default 500).
	MaxIter int
}

// Brent minimizes a univariate function on [a, b] by Brent's method:
// parabolic interpolation through the three best points, guarded by
// golden section steps whenever the parabola is untrustworthy. No
// derivatives are required and convergence is superlinear on smooth
// functions.
func Brent(f ScalarObjective, a, b float64, opt *BrentOptions) *ScalarResult {
	tol := math.Sqrt(math.Nextafter(one, two) - one)
	maxIter := brentMaxIter
	if opt != nil {
		if opt.Tol > zero {
			tol = opt.Tol
		}
		if opt.MaxIter > 0 {
			maxIter = opt.MaxIter
		}
	}
	if a > b {
		a, b = b, a
	}

	x := a + brentGolden*(b-a)
	w, v := x, x
	fx := f(x)
	fw, fv := fx, fx
	funcCalls := 1

	d, e := zero, zero

	for iteration := 1; iteration <= maxIter; iteration++ {
		midpoint := 0.5 * (a + b)
		tol1 := tol*math.Abs(x) + brentTolAdd
		tol2 := two * tol1

		if math.Abs(x-midpoint) <= tol2-0.5*(b-a) {
			return &ScalarResult{
				X: x, F: fx, Iterations: iteration, FuncCalls: funcCalls,
				Converged: true, Message: "Converged",
			}
		}

		useGolden := true
		if math.Abs(e) > tol1 {
			// Parabolic fit through (v,fv), (w,fw), (x,fx).
			r := (x - w) * (fx - fv)
			q := (x - v) * (fx - fw)
			p := (x-v)*q - (x-w)*r
			q = two * (q - r)
			if q > zero {
				p = -p
			} else {
				q = -q
			}
			if math.Abs(p) < math.Abs(0.5*q*e) && p > q*(a-x) && p < q*(b-x) {
				e = d
				d = p / q
				u := x + d
				// Keep the trial point away from the endpoints.
				if u-a < tol2 || b-u < tol2 {
					if x < midpoint {
						d = tol1
					} else {
						d = -tol1
					}
				}
				useGolden = false
			}
		}
		if useGolden {
			if x < midpoint {
				e = b - x
			} else {
				e = a - x
			}
			d = brentGolden * e
		}

		var u float64
		if math.Abs(d) >= tol1 {
			u = x + d
		} else if d > zero {
			u = x + tol1
		} else {
			u = x - tol1
		}

		fu := f(u)
		funcCalls++

		if fu <= fx {
			if u < x {
				b = x
			} else {
				a = x
			}
			v, fv = w, fw
			w, fw = x, fx
			x, fx = u, fu
		} else {
			if u < x {
				a = u
			} else {
				b = u
			}
			if fu <= fw || w == x {
				v, fv = w, fw
				w, fw = u, fu
			} else if fu <= fv || v == x || v == w {
				v, fv = u, fu
			}
		}
	}

	return &ScalarResult{
		X: x, F: fx, Iterations: maxIter, FuncCalls: funcCalls,
		Converged: false, Message: "Maximum iterations exceeded",
	}
}
