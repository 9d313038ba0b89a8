// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fx

import (
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/lfq"
)

// Future is a one-shot value settled from any goroutine and observed by
// the runtime's loop goroutine.
//
// The first Resolve or Reject wins; later calls are ignored. The
// settlement crosses to the loop through a bounded SPSC queue whose only
// producer is the winning settler, so no lock is taken on either side.
type Future struct {
	once  atomix.Uint32
	q     lfq.SPSC[Props]
	props Props
	ready bool
}

// NewFuture returns an unsettled future.
func NewFuture() *Future {
	f := &Future{}
	f.q.Init(2)
	return f
}

// Resolve settles f with v.
func (f *Future) Resolve(v any) {
	f.settle(Props{Value: v, State: StateCompleted})
}

// Reject settles f with err.
func (f *Future) Reject(err error) {
	f.settle(Props{Value: err, State: StateErrored})
}

func (f *Future) settle(p Props) {
	if f.once.Add(1) != 1 {
		return
	}
	_ = f.q.Enqueue(&p)
}

// poll reports the settlement if it has reached the loop goroutine.
// Called only from the loop goroutine.
func (f *Future) poll() (Props, bool) {
	if f.ready {
		return f.props, true
	}
	p, err := f.q.Dequeue()
	if err != nil {
		return Props{}, false
	}
	f.props, f.ready = p, true
	return p, true
}

// Resolved returns a future already settled with v.
func Resolved(v any) *Future {
	f := NewFuture()
	f.Resolve(v)
	return f
}

// Rejected returns a future already settled with err.
func Rejected(err error) *Future {
	f := NewFuture()
	f.Reject(err)
	return f
}

// After returns a future resolved with nil once d has elapsed.
func After(d time.Duration) *Future {
	f := NewFuture()
	time.AfterFunc(d, func() { f.Resolve(nil) })
	return f
}

// Go runs fn on a new goroutine and settles the returned future with
// its outcome. A panic in fn rejects the future.
func Go(fn func() (any, error)) *Future {
	f := NewFuture()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				f.Reject(recovered(r))
			}
		}()
		v, err := fn()
		if err != nil {
			f.Reject(err)
			return
		}
		f.Resolve(v)
	}()
	return f
}
