// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fx

import (
	"code.hybscloud.com/kont"
)

// next marks a loop body result that asks for another iteration.
type next[S any] struct {
	state S
}

// Continue finishes a loop body and runs it again with s.
func Continue[S any](s S) kont.Eff[Result] {
	return kont.Pure(Ok(next[S]{state: s}))
}

// ExprContinue is the Expr-world counterpart of [Continue].
func ExprContinue[S any](s S) kont.Expr[Result] {
	return kont.ExprReturn(Ok(next[S]{state: s}))
}

func continued[S any](r Result) (S, bool) {
	if r.Err != nil {
		var zero S
		return zero, false
	}
	n, ok := r.Value.(next[S])
	return n.state, ok
}

// Loop runs a recursive coroutine body (Cont-world).
// step finishes with Continue(s) to iterate, or with any other result to stop.
// Failures, including cancellation, stop the loop.
func Loop[S any](initial S, step func(S) kont.Eff[Result]) kont.Eff[Result] {
	return kont.Bind(step(initial), func(r Result) kont.Eff[Result] {
		if s, ok := continued[S](r); ok {
			return Loop(s, step)
		}
		return kont.Pure(r)
	})
}

// ExprLoop runs a recursive coroutine body (Expr-world).
// Fuses ExprBind inline to avoid the type-erasing wrapper closure.
func ExprLoop[S any](initial S, step func(S) kont.Expr[Result]) kont.Expr[Result] {
	m := step(initial)
	if _, ok := m.Frame.(kont.ReturnFrame); ok {
		if s, ok := continued[S](m.Value); ok {
			return ExprLoop(s, step)
		}
		return m
	}
	bf := kont.AcquireBindFrame()
	bf.F = func(a kont.Erased) kont.Expr[kont.Erased] {
		r := a.(Result)
		if s, ok := continued[S](r); ok {
			result := ExprLoop(s, step)
			return kont.Expr[kont.Erased]{Value: kont.Erased(result.Value), Frame: result.Frame}
		}
		return kont.Expr[kont.Erased]{Value: kont.Erased(r), Frame: kont.ReturnFrame{}}
	}
	bf.Next = kont.ReturnFrame{}
	return kont.Expr[Result]{
		Frame: kont.ChainFrames(m.Frame, bf),
	}
}

// Forever runs body until it fails or is cancelled.
func Forever(body func() kont.Eff[Result]) kont.Eff[Result] {
	return Loop(struct{}{}, func(struct{}) kont.Eff[Result] {
		return kont.Bind(body(), func(r Result) kont.Eff[Result] {
			if r.Err != nil {
				return kont.Pure(r)
			}
			return Continue(struct{}{})
		})
	})
}
