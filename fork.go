// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fx

import (
	"code.hybscloud.com/kont"
)

// forkRoutine invokes the forked function and shapes its outcome as a
// coroutine. A synchronous failure becomes a coroutine that fails on its
// first step, so the forker is never unwound by its fork.
func forkRoutine(d *CallDescriptor) Operation {
	op, err := invoke(d.Fn, d.Args)
	switch {
	case err != nil:
		return Throw(err)
	case isCoroutine(op):
		return op
	}
	switch op.(type) {
	case *Future, Effect:
		return Yield(op)
	}
	return kont.Pure(Ok(op))
}

// runFork starts the child atomically and settles with its task handle.
//
// A non-detached child is linked to the coroutine that yielded the fork,
// not to the short-lived fork task, which settles right away.
func runFork(t *Task, e Effect, signal *Emitter) {
	d, err := callDescriptor(e)
	if err != nil {
		t.finished(Props{Value: err, State: StateErrored})
		return
	}
	co := forkRoutine(d)

	t.ch.scheduler.Immediately(func() {
		child := t.create(co)
		child.launch()

		if d.Detached {
			t.finished(Props{Value: child, State: StateCompleted})
			return
		}

		signal.Once(func(p Props) {
			child.Cancel(reasonOf(p.Value))
		})

		switch child.status {
		case StatusRunning:
			if t.createdBy != nil {
				t.createdBy.link(child)
			}
			t.finished(Props{Value: child, State: StateCompleted})
		case StatusAborted:
			t.abort(child.String() + " aborted")
			t.finished(Props{Value: child.err, State: StateAborted})
		default:
			t.finished(Props{Value: child, State: StateCompleted})
		}
	})
}
