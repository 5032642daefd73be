// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optimize

import (
	"errors"
	"fmt"
)

// ErrUnknownMethod reports a method name or value outside the supported set.
var ErrUnknownMethod = errors.New("optimize: unknown method")

// Method selects a minimization algorithm for Minimize.
type Method int

const (
	// MethodAuto picks NelderMead without a gradient and BFGS with one.
	MethodAuto Method = iota
	MethodNelderMead
	MethodGradientDescent
	MethodConjugateGradient
	MethodBFGS
	MethodLBFGS
	MethodNewton
	MethodNewtonTrustRegion
	MethodKrylovTrustRegion
	MethodSimulatedAnnealing
)

var methodNames = map[Method]string{
	MethodAuto:               "auto",
	MethodNelderMead:         "nelder-mead",
	MethodGradientDescent:    "gradient-descent",
	MethodConjugateGradient:  "conjugate-gradient",
	MethodBFGS:               "bfgs",
	MethodLBFGS:              "l-bfgs",
	MethodNewton:             "newton",
	MethodNewtonTrustRegion:  "newton-trust-region",
	MethodKrylovTrustRegion:  "krylov-trust-region",
	MethodSimulatedAnnealing: "simulated-annealing",
}

func (m Method) String() string {
	if s, ok := methodNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod resolves a method by its canonical kebab-case name.
func ParseMethod(name string) (Method, error) {
	for m, s := range methodNames {
		if s == name {
			return m, nil
		}
	}
	return MethodAuto, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
}

// Minimize dispatches to the selected algorithm. MethodAuto picks
// NelderMead when grad is nil and BFGS otherwise. The error is non-nil
// only for a method value outside the supported set; algorithmic
// failures are reported through the Result.
func Minimize(f Objective, x0 []float64, grad Gradient, method Method, opts *Options) (*Result, error) {
	if method == MethodAuto {
		if grad != nil {
			method = MethodBFGS
		} else {
			method = MethodNelderMead
		}
	}
	switch method {
	case MethodNelderMead:
		return NelderMead(f, x0, opts, nil), nil
	case MethodGradientDescent:
		return GradientDescent(f, x0, grad, opts), nil
	case MethodConjugateGradient:
		return ConjugateGradient(f, x0, grad, opts, nil), nil
	case MethodBFGS:
		return BFGS(f, x0, grad, opts), nil
	case MethodLBFGS:
		return LBFGS(f, x0, grad, opts, 0), nil
	case MethodNewton:
		return Newton(f, x0, grad, nil, opts), nil
	case MethodNewtonTrustRegion:
		return NewtonTrustRegion(f, x0, grad, nil, opts, nil), nil
	case MethodKrylovTrustRegion:
		return KrylovTrustRegion(f, x0, grad, opts, nil), nil
	case MethodSimulatedAnnealing:
		return SimulatedAnnealing(f, x0, opts, nil), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownMethod, int(method))
}
