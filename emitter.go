// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fx

// Listener observes a settlement.
type Listener func(Props)

// Emitter is a one-shot broadcast cell.
//
// Listeners registered with Once fire exactly once, in registration order,
// with the first emitted value. A listener registered after the emit fires
// immediately. Later emits are ignored. The zero value is ready to use.
type Emitter struct {
	listeners []Listener
	result    Props
	fired     bool
}

// Once registers l.
func (e *Emitter) Once(l Listener) {
	e.listeners = append(e.listeners, l)
	e.drain()
}

// Emit publishes p to every registered listener, unless a value was
// already emitted.
func (e *Emitter) Emit(p Props) {
	if e.fired {
		return
	}
	e.fired = true
	e.result = p
	e.drain()
}

// Emitted reports whether a value has been published.
func (e *Emitter) Emitted() bool { return e.fired }

func (e *Emitter) drain() {
	if !e.fired {
		return
	}
	for len(e.listeners) > 0 {
		l := e.listeners[0]
		e.listeners[0] = nil
		e.listeners = e.listeners[1:]
		l(e.result)
	}
}
