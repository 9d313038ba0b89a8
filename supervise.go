// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fx

import (
	"slices"

	"code.hybscloud.com/kont"
)

// TakeEvery forks worker for every action matching pattern.
// Workers receive args followed by the action and are owned by the
// supervising task, so cancelling the supervisor cancels them all.
func TakeEvery(pattern any, worker any, args ...any) kont.Eff[Result] {
	return Forever(func() kont.Eff[Result] {
		return TakeBind(pattern, func(a Action) kont.Eff[Result] {
			return Then(Fork(worker, withAction(args, a)...), Return(nil))
		})
	})
}

// TakeLatest forks worker for every action matching pattern and cancels
// the worker forked for the previous action.
func TakeLatest(pattern any, worker any, args ...any) kont.Eff[Result] {
	return Loop[*Task](nil, func(last *Task) kont.Eff[Result] {
		return TakeBind(pattern, func(a Action) kont.Eff[Result] {
			fork := Await(Fork(worker, withAction(args, a)...), func(t *Task) kont.Eff[Result] {
				return Continue(t)
			})
			if last == nil {
				return fork
			}
			return Then(Cancel(last), fork)
		})
	})
}

// TakeLeading calls worker for an action matching pattern and ignores
// matching actions until the worker settles.
func TakeLeading(pattern any, worker any, args ...any) kont.Eff[Result] {
	return Forever(func() kont.Eff[Result] {
		return TakeBind(pattern, func(a Action) kont.Eff[Result] {
			return Then(Call(worker, withAction(args, a)...), Return(nil))
		})
	})
}

func withAction(args []any, a Action) []any {
	return append(slices.Clone(args), a)
}
