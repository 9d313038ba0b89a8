// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fx

import (
	"context"
	"slices"
	"sync"

	"code.hybscloud.com/iox"
	"github.com/google/uuid"
)

// Runtime wires a channel, a task id counter and a logger, and produces
// root tasks from operations.
//
// A runtime is cooperative and single-threaded: every task, channel and
// scheduler method must be called from the goroutine that drives it with
// Advance, Drive or Task.Wait. Other goroutines interact through
// [Future] settlement and Post.
type Runtime struct {
	id       uuid.UUID
	ch       *Channel
	log      Logger
	labels   Labels
	serials  serials
	maxDepth int
	depth    int
	watches  []*watch

	mu    sync.Mutex
	inbox []func()
}

type watch struct {
	f    *Future
	fn   func(Props)
	done bool
}

// New creates a runtime.
func New(optFns ...func(o *Options)) *Runtime {
	opts := Options{
		Logger:   NopLogger{},
		MaxDepth: DefaultMaxDepth,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Channel == nil {
		opts.Channel = NewChannel()
	}
	if opts.Logger == nil {
		opts.Logger = NopLogger{}
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &Runtime{
		id:       uuid.New(),
		ch:       opts.Channel,
		log:      opts.Logger,
		labels:   opts.Labels,
		maxDepth: opts.MaxDepth,
	}
}

// Run creates a runtime and starts op as its root task.
func Run(op Operation, optFns ...func(o *Options)) *Task {
	return New(optFns...).Run(op)
}

// ID identifies the runtime in diagnostics.
func (rt *Runtime) ID() uuid.UUID { return rt.id }

// Channel returns the channel shared by the runtime's tasks.
func (rt *Runtime) Channel() *Channel { return rt.ch }

// Run starts op as a root task. Its first step runs before Run returns.
func (rt *Runtime) Run(op Operation) *Task {
	labels := Labels{"name": "root"}
	for k, v := range rt.labels {
		labels[k] = v
	}
	t := newTask(rt, rt.ch, op, nil, labels)
	t.launch()
	return t
}

// Dispatch puts a on the runtime channel. Loop goroutine only.
func (rt *Runtime) Dispatch(a Action) {
	rt.ch.Put(a)
}

// Post queues fn to run on the loop goroutine during the next Advance.
// Safe for concurrent use.
func (rt *Runtime) Post(fn func()) {
	rt.mu.Lock()
	rt.inbox = append(rt.inbox, fn)
	rt.mu.Unlock()
}

// Advance runs posted callbacks and delivers settled futures.
// It reports whether anything ran.
func (rt *Runtime) Advance() bool {
	progress := false

	rt.mu.Lock()
	inbox := rt.inbox
	rt.inbox = nil
	rt.mu.Unlock()
	for _, fn := range inbox {
		fn()
		progress = true
	}

	if len(rt.watches) == 0 {
		return progress
	}
	for _, w := range slices.Clone(rt.watches) {
		if w.done {
			continue
		}
		p, ok := w.f.poll()
		if !ok {
			continue
		}
		w.done = true
		w.fn(p)
		progress = true
	}
	rt.watches = slices.DeleteFunc(rt.watches, func(w *watch) bool { return w.done })
	return progress
}

// Pending reports whether futures or posted callbacks are outstanding.
func (rt *Runtime) Pending() bool {
	rt.mu.Lock()
	n := len(rt.inbox)
	rt.mu.Unlock()
	return n > 0 || slices.ContainsFunc(rt.watches, func(w *watch) bool { return !w.done })
}

// Drive advances the runtime until until reports true or ctx is done.
// Waits with adaptive backoff (iox.Backoff) while nothing can progress,
// without spawning goroutines or creating channels.
func (rt *Runtime) Drive(ctx context.Context, until func() bool) error {
	var bo iox.Backoff
	for !until() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if rt.Advance() {
			bo.Reset()
			continue
		}
		bo.Wait()
	}
	return nil
}

// watchFuture calls fn on the loop goroutine once f settles.
func (rt *Runtime) watchFuture(f *Future, fn func(Props)) (unwatch func()) {
	w := &watch{f: f, fn: fn}
	rt.watches = append(rt.watches, w)
	return func() { w.done = true }
}
