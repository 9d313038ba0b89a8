// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fx

import (
	"code.hybscloud.com/kont"
)

// Operation is anything a task can drive:
//
//   - a coroutine: [Coroutine], kont.Eff[Result], kont.Expr[Result], or a
//     func() returning one of those, called when the task starts;
//   - a [*Future];
//   - an [Effect];
//   - a func() Operation, called when the task starts;
//   - any other value, which settles the task immediately.
type Operation = any

// newController picks the controller for op. The choice is made once.
func newController(t *Task, op Operation) controller {
	switch o := op.(type) {
	case Coroutine:
		return &coroutineController{task: t, co: o}
	case kont.Eff[Result]:
		if o == nil {
			break
		}
		return &coroutineController{task: t, factory: func() Coroutine { return NewCoroutine(o) }}
	case func() kont.Eff[Result]:
		if o == nil {
			break
		}
		return &coroutineController{task: t, factory: func() Coroutine { return NewCoroutine(o()) }}
	case kont.Expr[Result]:
		return &coroutineController{task: t, co: NewExprCoroutine(o)}
	case func() kont.Expr[Result]:
		if o == nil {
			break
		}
		return &coroutineController{task: t, factory: func() Coroutine { return NewExprCoroutine(o()) }}
	case func() Coroutine:
		if o == nil {
			break
		}
		return &coroutineController{task: t, factory: o}
	case *Future:
		if o == nil {
			break
		}
		return &futureController{task: t, future: o}
	case Effect:
		return &effectController{task: t, effect: o}
	case func() Operation:
		if o == nil {
			break
		}
		return &deferredController{task: t, fn: o}
	}
	return &valueController{task: t, value: op}
}

// isCoroutine reports whether op is driven by a coroutine controller.
func isCoroutine(op Operation) bool {
	switch op.(type) {
	case Coroutine, kont.Eff[Result], func() kont.Eff[Result],
		kont.Expr[Result], func() kont.Expr[Result], func() Coroutine:
		return true
	}
	return false
}
