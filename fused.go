// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fx

import (
	"errors"
	"fmt"
	"time"

	"code.hybscloud.com/kont"
)

// Yield suspends the coroutine on op and resumes with its settlement.
func Yield(op Operation) kont.Eff[Result] {
	return kont.Perform(yield{op: op})
}

// Return finishes a coroutine with v.
func Return(v any) kont.Eff[Result] {
	return kont.Pure(Ok(v))
}

// Throw finishes a coroutine with err.
func Throw(err error) kont.Eff[Result] {
	return kont.Pure(Fail(err))
}

// Await yields op and passes its value to f.
// A failed settlement short-circuits past f, which is how cancellation
// unwinds a coroutine.
func Await[T any](op Operation, f func(T) kont.Eff[Result]) kont.Eff[Result] {
	return kont.Bind(Yield(op), func(r Result) kont.Eff[Result] {
		if r.Err != nil {
			return kont.Pure(r)
		}
		v, err := valueAs[T](r.Value)
		if err != nil {
			return kont.Pure(Fail(err))
		}
		return f(v)
	})
}

// Then yields op, discards its value, and continues with next.
func Then(op Operation, next kont.Eff[Result]) kont.Eff[Result] {
	return kont.Bind(Yield(op), func(r Result) kont.Eff[Result] {
		if r.Err != nil {
			return kont.Pure(r)
		}
		return next
	})
}

// Try yields op and hands the full settlement to f, failures included.
func Try(op Operation, f func(Result) kont.Eff[Result]) kont.Eff[Result] {
	return kont.Bind(Yield(op), f)
}

// Catch runs m and recovers its failure with h.
// Cancellation and termination are not failures and pass through.
func Catch(m kont.Eff[Result], h func(error) kont.Eff[Result]) kont.Eff[Result] {
	return kont.Bind(m, func(r Result) kont.Eff[Result] {
		if !recoverable(r.Err) {
			return kont.Pure(r)
		}
		return h(r.Err)
	})
}

// Finally runs m, then the computation built by cleanup, however m ended.
// The result of m is kept unless cleanup itself fails.
func Finally(m kont.Eff[Result], cleanup func() kont.Eff[Result]) kont.Eff[Result] {
	return kont.Bind(m, func(r Result) kont.Eff[Result] {
		return kont.Map(cleanup(), func(c Result) Result {
			if recoverable(c.Err) {
				return c
			}
			return r
		})
	})
}

// TakeBind takes the next action matching pattern and passes it to f.
// Fuses Take + Await.
func TakeBind(pattern any, f func(Action) kont.Eff[Result]) kont.Eff[Result] {
	return kont.Bind(Yield(Take(pattern)), func(r Result) kont.Eff[Result] {
		if r.Err != nil {
			return kont.Pure(r)
		}
		a, _ := r.Value.(Action)
		return f(a)
	})
}

// PutThen puts a on the task's channel and continues with next.
// Fuses Put + Then.
func PutThen(a Action, next kont.Eff[Result]) kont.Eff[Result] {
	return Then(Put(a), next)
}

// CancelledBind reports whether the calling task is being cancelled.
// Intended for cleanup passed to [Finally].
func CancelledBind(f func(bool) kont.Eff[Result]) kont.Eff[Result] {
	return Await(Cancelled(), f)
}

// DelayThen sleeps for d and continues with next.
func DelayThen(d time.Duration, next kont.Eff[Result]) kont.Eff[Result] {
	return Then(Delay(d), next)
}

// recoverable reports whether err is a failure rather than an unwind request.
func recoverable(err error) bool {
	return err != nil && !errors.Is(err, ErrCancelled) && !errors.Is(err, ErrTerminated)
}

func valueAs[T any](v any) (T, error) {
	var zero T
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: got %T, want %T", ErrResultType, v, zero)
	}
	return t, nil
}
