// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optimize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckConvergencePriority(t *testing.T) {
	opts := (&Options{}).sanitize()
	inf := math.Inf(1)

	// All criteria satisfied at once: gradient wins.
	require.Equal(t, ReasonGradient, CheckConvergence(0, 0, 0, 5000, opts))
	// Gradient out, step wins over function.
	require.Equal(t, ReasonStep, CheckConvergence(1, 0, 0, 5000, opts))
	require.Equal(t, ReasonFunction, CheckConvergence(1, 1, 0, 5000, opts))
	require.Equal(t, ReasonMaxIterations, CheckConvergence(1, 1, 1, 5000, opts))
	require.Equal(t, ReasonNone, CheckConvergence(1, 1, 1, 5, opts))

	// Strict inequality at the tolerance boundary.
	require.Equal(t, ReasonNone, CheckConvergence(opts.GradTol, inf, inf, 0, opts))
	require.Equal(t, ReasonGradient, CheckConvergence(opts.GradTol/2, inf, inf, 0, opts))
}

func TestReasonConverged(t *testing.T) {
	require.True(t, ReasonGradient.Converged())
	require.True(t, ReasonStep.Converged())
	require.True(t, ReasonFunction.Converged())
	require.False(t, ReasonNone.Converged())
	require.False(t, ReasonMaxIterations.Converged())
	require.False(t, ReasonLineSearchFailed.Converged())
}

func TestReasonMessages(t *testing.T) {
	require.Equal(t, "Converged: gradient norm below tolerance", ReasonGradient.Message())
	require.Equal(t, "Converged: step size below tolerance", ReasonStep.Message())
	require.Equal(t, "Converged: function change below tolerance", ReasonFunction.Message())
	require.Equal(t, "Stopped: reached maximum iterations", ReasonMaxIterations.Message())
	require.Equal(t, "Stopped: line search failed", ReasonLineSearchFailed.Message())
}

func TestOptionsDefaults(t *testing.T) {
	var o *Options
	s := o.sanitize()
	require.Equal(t, 1e-8, s.GradTol)
	require.Equal(t, 1e-8, s.StepTol)
	require.Equal(t, 1e-12, s.FuncTol)
	require.Equal(t, 1000, s.MaxIterations)

	// Explicit values survive.
	s = (&Options{GradTol: 1e-4, MaxIterations: 7}).sanitize()
	require.Equal(t, 1e-4, s.GradTol)
	require.Equal(t, 7, s.MaxIterations)
	require.Equal(t, 1e-8, s.StepTol)
}
