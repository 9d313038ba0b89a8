// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fx

import (
	"time"

	"code.hybscloud.com/kont"
)

// Pre-allocated frame to avoid boxing an empty struct on every yield.
var exprReturnFrame kont.Frame = kont.ReturnFrame{}

// identityResume is the resume function for yield effect frames.
func identityResume(v kont.Erased) kont.Erased { return v }

// ExprYield suspends the coroutine on op and resumes with its settlement.
func ExprYield(op Operation) kont.Expr[Result] {
	ef := kont.AcquireEffectFrame()
	ef.Operation = yield{op: op}
	ef.Resume = identityResume
	ef.Next = exprReturnFrame
	return kont.ExprSuspend[Result](ef)
}

// ExprReturn finishes a coroutine with v.
func ExprReturn(v any) kont.Expr[Result] {
	return kont.ExprReturn(Ok(v))
}

// ExprThrow finishes a coroutine with err.
func ExprThrow(err error) kont.Expr[Result] {
	return kont.ExprReturn(Fail(err))
}

// ExprAwait yields op and passes its value to f.
// A failed settlement short-circuits past f.
func ExprAwait[T any](op Operation, f func(T) kont.Expr[Result]) kont.Expr[Result] {
	return kont.ExprBind(ExprYield(op), func(r Result) kont.Expr[Result] {
		if r.Err != nil {
			return kont.ExprReturn(r)
		}
		v, err := valueAs[T](r.Value)
		if err != nil {
			return kont.ExprReturn(Fail(err))
		}
		return f(v)
	})
}

// ExprThen yields op, discards its value, and continues with next.
func ExprThen(op Operation, next kont.Expr[Result]) kont.Expr[Result] {
	return kont.ExprBind(ExprYield(op), func(r Result) kont.Expr[Result] {
		if r.Err != nil {
			return kont.ExprReturn(r)
		}
		return next
	})
}

// ExprTry yields op and hands the full settlement to f.
func ExprTry(op Operation, f func(Result) kont.Expr[Result]) kont.Expr[Result] {
	return kont.ExprBind(ExprYield(op), f)
}

// ExprCatch runs m and recovers its failure with h.
func ExprCatch(m kont.Expr[Result], h func(error) kont.Expr[Result]) kont.Expr[Result] {
	return kont.ExprBind(m, func(r Result) kont.Expr[Result] {
		if !recoverable(r.Err) {
			return kont.ExprReturn(r)
		}
		return h(r.Err)
	})
}

// ExprFinally runs m, then the computation built by cleanup.
func ExprFinally(m kont.Expr[Result], cleanup func() kont.Expr[Result]) kont.Expr[Result] {
	return kont.ExprBind(m, func(r Result) kont.Expr[Result] {
		return kont.ExprMap(cleanup(), func(c Result) Result {
			if recoverable(c.Err) {
				return c
			}
			return r
		})
	})
}

// ExprTakeBind takes the next action matching pattern and passes it to f.
func ExprTakeBind(pattern any, f func(Action) kont.Expr[Result]) kont.Expr[Result] {
	return kont.ExprBind(ExprYield(Take(pattern)), func(r Result) kont.Expr[Result] {
		if r.Err != nil {
			return kont.ExprReturn(r)
		}
		a, _ := r.Value.(Action)
		return f(a)
	})
}

// ExprPutThen puts a on the task's channel and continues with next.
func ExprPutThen(a Action, next kont.Expr[Result]) kont.Expr[Result] {
	return ExprThen(Put(a), next)
}

// ExprDelayThen sleeps for d and continues with next.
func ExprDelayThen(d time.Duration, next kont.Expr[Result]) kont.Expr[Result] {
	return ExprThen(Delay(d), next)
}
