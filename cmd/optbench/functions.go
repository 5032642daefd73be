// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"sort"

	"github.com/curioloop/optkit/optimize"
)

// testFunction bundles a benchmark objective with its analytic gradient
// and the conventional starting point.
type testFunction struct {
	name    string
	f       optimize.Objective
	grad    optimize.Gradient
	start   []float64
	minimum []float64 // nil when several global minima exist
}

var testFunctions = map[string]testFunction{
	"sphere": {
		name: "sphere",
		f:    func(x []float64) float64 { return x[0]*x[0] + x[1]*x[1] },
		grad: func(x []float64) []float64 { return []float64{2 * x[0], 2 * x[1]} },
		start:   []float64{5, 5},
		minimum: []float64{0, 0},
	},
	"booth": {
		name: "booth",
		f: func(x []float64) float64 {
			a := x[0] + 2*x[1] - 7
			b := 2*x[0] + x[1] - 5
			return a*a + b*b
		},
		grad: func(x []float64) []float64 {
			a := x[0] + 2*x[1] - 7
			b := 2*x[0] + x[1] - 5
			return []float64{2*a + 4*b, 4*a + 2*b}
		},
		start:   []float64{0, 0},
		minimum: []float64{1, 3},
	},
	"rosenbrock": {
		name: "rosenbrock",
		f: func(x []float64) float64 {
			a := 1 - x[0]
			b := x[1] - x[0]*x[0]
			return a*a + 100*b*b
		},
		grad: func(x []float64) []float64 {
			return []float64{
				-2*(1-x[0]) - 400*x[0]*(x[1]-x[0]*x[0]),
				200 * (x[1] - x[0]*x[0]),
			}
		},
		start:   []float64{-1.2, 1},
		minimum: []float64{1, 1},
	},
	"himmelblau": {
		name: "himmelblau",
		f: func(x []float64) float64 {
			a := x[0]*x[0] + x[1] - 11
			b := x[0] + x[1]*x[1] - 7
			return a*a + b*b
		},
		grad: func(x []float64) []float64 {
			a := x[0]*x[0] + x[1] - 11
			b := x[0] + x[1]*x[1] - 7
			return []float64{4*x[0]*a + 2*b, 2*a + 4*x[1]*b}
		},
		start: []float64{0, 0},
	},
}

func lookupFunction(name string) (testFunction, error) {
	if tf, ok := testFunctions[name]; ok {
		return tf, nil
	}
	names := make([]string, 0, len(testFunctions))
	for n := range testFunctions {
		names = append(names, n)
	}
	sort.Strings(names)
	return testFunction{}, fmt.Errorf("unknown function %q (have %v)", name, names)
}
