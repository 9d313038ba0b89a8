// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fx

import (
	"fmt"

	"code.hybscloud.com/kont"
)

// Result is what a coroutine observes when resumed and what it finishes with.
//
// Err wrapping [ErrCancelled] asks the coroutine to unwind because its task
// is being cancelled. Err wrapping [ErrTerminated] asks it to unwind
// because the awaited value was terminated. Any other Err is a failure the
// coroutine may recover from. A coroutine that finishes with an unhandled
// failure aborts its task.
type Result struct {
	Value any
	Err   error
}

// Ok returns a successful result.
func Ok(v any) Result { return Result{Value: v} }

// Fail returns a failed result.
func Fail(err error) Result { return Result{Err: err} }

// Failed reports whether r carries an error of any kind.
func (r Result) Failed() bool { return r.Err != nil }

// Step is the outcome of resuming a coroutine once: either it suspended
// on Op, or it is Done with Result.
type Step struct {
	Op     Operation
	Result Result
	Done   bool
}

// Coroutine is a resumable computation driven by a task.
// The first Resume starts it and its input is ignored.
// Resume is never called after a Done step.
type Coroutine interface {
	Resume(in Result) Step
}

// yield is the single effect a coroutine performs: suspend on an
// Operation and resume with its settlement.
type yield struct {
	kont.Phantom[Result]
	op Operation
}

// routine steps a kont computation one yield at a time.
type routine struct {
	eff    kont.Eff[Result]
	expr   kont.Expr[Result]
	susp   *kont.Suspension[Result]
	isExpr bool
	begun  bool
}

// NewCoroutine returns a coroutine over a Cont-world computation.
func NewCoroutine(m kont.Eff[Result]) Coroutine {
	return &routine{eff: m}
}

// NewExprCoroutine returns a coroutine over an Expr-world computation.
func NewExprCoroutine(m kont.Expr[Result]) Coroutine {
	return &routine{expr: m, isExpr: true}
}

func (r *routine) Resume(in Result) Step {
	var res Result
	switch {
	case !r.begun:
		r.begun = true
		if in.Err != nil {
			return Step{Result: in, Done: true}
		}
		if r.isExpr {
			res, r.susp = kont.StepExpr(r.expr)
		} else {
			res, r.susp = kont.Step(r.eff)
		}
	case r.susp == nil:
		return Step{Result: in, Done: true}
	default:
		res, r.susp = r.susp.Resume(in)
	}
	if r.susp == nil {
		return Step{Result: res, Done: true}
	}
	y, ok := r.susp.Op().(yield)
	if !ok {
		op := r.susp.Op()
		r.susp.Discard()
		r.susp = nil
		return Step{Result: Fail(fmt.Errorf("%w: %T", ErrUnhandledEffect, op)), Done: true}
	}
	return Step{Op: y.op}
}
