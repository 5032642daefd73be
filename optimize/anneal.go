// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optimize

import (
	"fmt"
	"math"

	"github.com/curioloop/optkit/vecops"
)

// Rand yields uniform samples in [0, 1).
type Rand func() float64

// Temperature maps the iteration count to a cooling temperature.
type Temperature func(k int) float64

// Neighbor proposes a new point from the current one using the supplied
// random source.
type Neighbor func(x []float64, rng Rand) []float64

// mulberry32 is a tiny seeded 32-bit PRNG. The generator is fully
// determined by its seed, which keeps annealing runs reproducible across
// platforms.
func mulberry32(seed uint32) Rand {
	s := seed
	return func() float64 {
		s += 0x6D2B79F5
		t := s ^ (s >> 15)
		t *= 1 | s
		t += (t ^ (t >> 7)) * (61 | t)
		t ^= t >> 14
		return float64(t) / 4294967296.0
	}
}

// boxMullerNormal draws one standard normal sample.
func boxMullerNormal(rng Rand) float64 {
	u1 := rng()
	for u1 == zero {
		u1 = rng()
	}
	u2 := rng()
	return math.Sqrt(-two*math.Log(u1)) * math.Cos(two*math.Pi*u2)
}

// LogTemperature is the default logarithmic cooling schedule
// T(k) = 1/ln(k), with T = ∞ for k ≤ 1.
func LogTemperature(k int) float64 {
	if k <= 1 {
		return math.Inf(1)
	}
	return one / math.Log(float64(k))
}

// GaussianNeighbor perturbs every coordinate by independent N(0,1) noise.
func GaussianNeighbor(x []float64, rng Rand) []float64 {
	out := make([]float64, len(x))
	for i, xi := range x {
		out[i] = xi + boxMullerNormal(rng)
	}
	return out
}

// AnnealOptions tunes the annealing run. The zero value selects the
// logarithmic schedule, the Gaussian neighbor and seed 0.
type AnnealOptions struct {
	Temperature Temperature
	Neighbor    Neighbor
	// Seed for the internal PRNG. Runs with equal seeds are identical.
	Seed uint32
}

// SimulatedAnnealing minimizes 𝒇 by the Metropolis acceptance rule: a
// proposal that does not improve the current point is still accepted
// with probability exp(-Δf/T). The best point ever seen is tracked
// separately and returned. The run always performs exactly
// MaxIterations iterations; FuncCalls is MaxIterations+1.
func SimulatedAnnealing(f Objective, x0 []float64, opts *Options, sa *AnnealOptions) *Result {
	o := opts.sanitize()
	tempFn, neighborFn := Temperature(LogTemperature), Neighbor(GaussianNeighbor)
	var seed uint32
	if sa != nil {
		if sa.Temperature != nil {
			tempFn = sa.Temperature
		}
		if sa.Neighbor != nil {
			neighborFn = sa.Neighbor
		}
		seed = sa.Seed
	}
	rng := mulberry32(seed)

	xCurrent := vecops.Clone(x0)
	fCurrent := f(xCurrent)
	xBest := vecops.Clone(xCurrent)
	fBest := fCurrent
	funcCalls := 1

	for k := 1; k <= o.MaxIterations; k++ {
		t := tempFn(k)
		xProposal := neighborFn(xCurrent, rng)
		fProposal := f(xProposal)
		funcCalls++

		if fProposal <= fCurrent {
			xCurrent, fCurrent = xProposal, fProposal
			if fProposal < fBest {
				xBest = vecops.Clone(xProposal)
				fBest = fProposal
			}
		} else {
			p := zero
			if t > zero {
				p = math.Exp(-(fProposal - fCurrent) / t)
			}
			if rng() <= p {
				xCurrent, fCurrent = xProposal, fProposal
			}
		}
	}

	r := &Result{
		X: xBest, F: fBest,
		Iterations: o.MaxIterations, FuncCalls: funcCalls,
		Converged: true,
		Message:   fmt.Sprintf("Completed %d iterations", o.MaxIterations),
	}
	o.Log.final("SimulatedAnnealing", r)
	return r
}
