// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fx

import (
	"fmt"
)

// runTake registers a taker and settles with the first matching action,
// or with TerminateSignal once the channel is closed. Cancellation
// removes the registration.
func runTake(t *Task, e Effect, signal *Emitter) {
	d, ok := e.Payload.(TakeDescriptor)
	if !ok {
		t.finished(Props{Value: fmt.Errorf("%w: take with %T", ErrInvalidPayload, e.Payload), State: StateErrored})
		return
	}
	match, err := Match(d.Pattern)
	if err != nil {
		t.finished(Props{Value: err, State: StateErrored})
		return
	}
	ch := d.Channel
	if ch == nil {
		ch = t.ch
	}
	cancel := ch.Take(func(a Action) {
		if isEnd(a) {
			t.finished(Props{Value: TerminateSignal, State: StateCompleted})
			return
		}
		t.finished(Props{Value: a, State: StateCompleted})
	}, match)
	signal.Once(func(p Props) {
		cancel()
		t.finished(p)
	})
}
