// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package optimize

import (
	"fmt"
	"io"
)

// LogLevel controls the verbosity of iteration tracing.
type LogLevel int

const (
	// LogNoop no output is generated (level < 0)
	LogNoop LogLevel = -1
	// LogLast print only one line at the last iteration
	LogLast LogLevel = 0
	// LogEval print f and the convergence measure every iteration
	LogEval LogLevel = 1
	// LogTrace print details of every iteration including x
	LogTrace LogLevel = 99
)

// Logger handles logging output for the solvers.
// Note the writer must be thread-safe when solvers run concurrently.
type Logger struct {
	Level LogLevel
	Msg   io.Writer // Writer to output log messages.
}

func (l *Logger) enable(level LogLevel) bool {
	return l != nil && l.Msg != nil && l.Level >= level
}

func (l *Logger) log(format string, a ...any) {
	if len(a) > 0 {
		_, _ = fmt.Fprintf(l.Msg, format, a...)
	} else {
		_, _ = fmt.Fprint(l.Msg, format)
	}
}

// trace prints one line per iteration at LogEval, and the final line at
// LogLast.
func (l *Logger) trace(method string, iter int, f, measure float64) {
	if l.enable(LogEval) {
		l.log("%s: iter %4d  f %.12e  conv %.6e\n", method, iter, f, measure)
	}
}

func (l *Logger) final(method string, r *Result) {
	if l.enable(LogLast) {
		l.log("%s: %s (iters %d, f %.12e, fev %d, gev %d)\n",
			method, r.Message, r.Iterations, r.F, r.FuncCalls, r.GradCalls)
	}
}
