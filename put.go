// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fx

import (
	"fmt"
)

// runPut schedules the delivery on the target channel's scheduler, so a
// put issued during another delivery runs after it. Puts are not
// cancellable once scheduled. A panic raised by a taker fails the put.
func runPut(t *Task, e Effect) {
	d, ok := e.Payload.(PutDescriptor)
	if !ok {
		t.finished(Props{Value: fmt.Errorf("%w: put with %T", ErrInvalidPayload, e.Payload), State: StateErrored})
		return
	}
	ch := d.Channel
	if ch == nil {
		ch = t.ch
	}
	ch.scheduler.Asap(func() {
		if err := deliver(ch, d.Action); err != nil {
			t.finished(Props{Value: err, State: StateErrored})
			return
		}
		t.finished(Props{State: StateCompleted})
	})
}

func deliver(ch *Channel, a Action) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(r)
		}
	}()
	ch.deliver(a)
	return nil
}
