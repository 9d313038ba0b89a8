// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fx

import (
	"fmt"
)

func callDescriptor(e Effect) (*CallDescriptor, error) {
	d, ok := e.Payload.(*CallDescriptor)
	if !ok || d == nil {
		return nil, fmt.Errorf("%w: %s with %T", ErrInvalidPayload, e.Type, e.Payload)
	}
	return d, nil
}

// runCall invokes the function and forwards the settlement of whatever it
// returned. Cancellation of the call cancels that child.
func runCall(t *Task, e Effect, signal *Emitter) {
	d, err := callDescriptor(e)
	if err != nil {
		t.finished(Props{Value: err, State: StateErrored})
		return
	}
	op, err := invoke(d.Fn, d.Args)
	if err != nil {
		t.finished(Props{Value: err, State: StateErrored})
		return
	}
	child := t.create(op)
	signal.Once(func(p Props) {
		child.Cancel(reasonOf(p.Value))
	})
	child.Once(t.finished)
	child.launch()
}
