// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fx

import (
	"fmt"
)

// runCancel cancels its targets and settles immediately.
// A string payload cancels the yielding coroutine with that reason.
func runCancel(t *Task, e Effect) {
	reason := fmt.Sprintf("[%d] cancel effect called", t.id)
	switch p := e.Payload.(type) {
	case string:
		if t.createdBy != nil {
			t.createdBy.Cancel(p)
		}
	case *Task:
		if p != nil && p.status == StatusRunning {
			p.Cancel(reason)
		}
	case []*Task:
		for _, target := range p {
			if target != nil {
				target.Cancel(reason)
			}
		}
	case nil:
		if t.createdBy != nil {
			t.createdBy.Cancel(SelfCancellation)
		}
	default:
		t.finished(Props{Value: fmt.Errorf("%w: cancel with %T", ErrInvalidPayload, e.Payload), State: StateErrored})
		return
	}
	t.finished(Props{State: StateCompleted})
}

// runCancelled reports whether the yielding coroutine is being cancelled.
func runCancelled(t *Task) {
	cancelled := t.createdBy != nil && t.createdBy.status == StatusCancelled
	t.finished(Props{Value: cancelled, State: StateCompleted})
}
