// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fx

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// Task is one in-flight or settled operation.
//
// A task owns the children linked to it and never settles while any of
// them is alive. Cancellation flows down through children, youngest
// first; settlement flows up through Once listeners.
//
// Tasks belong to the loop goroutine of their runtime. Done may be
// observed from any goroutine.
type Task struct {
	rt        *Runtime
	ch        *Channel
	ctrl      controller
	createdBy *Task
	op        Operation
	labels    Labels
	children  []*Task
	emitter   Emitter
	result    Props
	value     any
	err       error
	done      chan struct{}
	id        Serial
	status    Status
	settled   bool
}

func newTask(rt *Runtime, ch *Channel, op Operation, createdBy *Task, labels Labels) *Task {
	if labels == nil {
		labels = Labels{}
	}
	t := &Task{
		rt:        rt,
		ch:        ch,
		createdBy: createdBy,
		op:        op,
		labels:    labels,
		done:      make(chan struct{}),
		id:        rt.serials.next(),
	}
	t.ctrl = newController(t, op)
	return t
}

// ID returns the task's runtime-unique serial.
func (t *Task) ID() Serial { return t.id }

// Status returns the lifecycle state.
func (t *Task) Status() Status { return t.status }

// Labels returns the diagnostic labels.
func (t *Task) Labels() Labels { return t.labels }

// Operation returns the operation the task was created for.
func (t *Task) Operation() Operation { return t.op }

// CreatedBy returns the task that created t, or nil for a root task.
func (t *Task) CreatedBy() *Task { return t.createdBy }

// Children returns a snapshot of the live children in creation order.
func (t *Task) Children() []*Task { return slices.Clone(t.children) }

// Kind names the controller driving the task: "coroutine", "future",
// "effect" or "value".
func (t *Task) Kind() string { return t.ctrl.kind() }

// Channel returns the channel shared with the task's runtime.
func (t *Task) Channel() *Channel { return t.ch }

// Runtime returns the runtime that created t.
func (t *Task) Runtime() *Runtime { return t.rt }

func (t *Task) String() string { return fmt.Sprintf("[Task %d]", t.id) }

// Create returns a new pending task for op created by t. The child is
// not owned by t; ownership is established by the effect that needs it.
func (t *Task) Create(op Operation) *Task {
	return t.create(op)
}

func (t *Task) create(op Operation) *Task {
	return newTask(t.rt, t.ch, op, t, nil)
}

// Start moves a pending task to running and takes its first step as one
// atomic unit of the scheduler.
func (t *Task) Start() error {
	if t.status != StatusPending {
		return fmt.Errorf("%w: %s is %s", ErrTaskNotPending, t, t.status)
	}
	t.launch()
	return nil
}

func (t *Task) launch() {
	t.ch.scheduler.Immediately(func() {
		if t.status != StatusPending {
			return
		}
		t.status = StatusRunning
		t.ctrl.start()
	})
}

// Cancel tears t down: its controller unwinds the operation and its
// children are cancelled one at a time, youngest first. Cancel is a
// no-op unless t is running. A cancelled task settles with CancelSignal.
func (t *Task) Cancel(reason string) {
	if t.status != StatusRunning {
		return
	}
	t.status = StatusCancelled
	t.ctrl.cancel(reason)
	t.shutdown(reason)
}

// Once registers l for t's settlement. If t has settled, l runs now.
func (t *Task) Once(l Listener) {
	t.emitter.Once(l)
}

// Done is closed once t has settled.
func (t *Task) Done() <-chan struct{} { return t.done }

// Settled reports whether t has settled.
func (t *Task) Settled() bool { return t.settled }

// Result returns the settlement of t. Aborted and errored tasks return
// their error; cancelled tasks return CancelSignal. Before t settles it
// returns (nil, nil).
func (t *Task) Result() (any, error) {
	return t.value, t.err
}

// Wait drives the runtime until t settles or ctx is done.
// Must be called from the loop goroutine.
func (t *Task) Wait(ctx context.Context) (any, error) {
	if err := t.rt.Drive(ctx, t.Settled); err != nil {
		return nil, err
	}
	return t.value, t.err
}

// finished records a settlement and, once no child is alive, publishes it.
func (t *Task) finished(p Props) {
	if t.settled {
		return
	}
	if err, ok := p.Value.(error); ok && errors.Is(err, ErrStackOverflow) {
		if !t.status.Terminal() {
			t.status = StatusAborted
		}
		t.result = Props{Value: err, State: StateAborted}
		t.rt.log.Warn("task aborted", "runtime", t.rt.id, "task", t.id, "error", err)
		t.emitter.Emit(t.result)
		t.shutdown("done")
		t.settle(nil, err)
		return
	}
	t.result = p
	if len(t.children) != 0 {
		// link re-enters once the last child settles.
		return
	}
	if t.status == StatusDone || p.State == StatePending {
		return
	}
	switch {
	case t.status.Terminal():
	case p.State == StateAborted:
		t.status = StatusAborted
	default:
		t.status = StatusDone
	}
	if p.State == StateAborted && t.createdBy == nil {
		t.rt.log.Warn("task aborted", "runtime", t.rt.id, "task", t.id, "error", p.Value)
	}
	t.emitter.Emit(p)
	t.shutdown("done")
	switch p.State {
	case StateAborted, StateErrored:
		t.settle(nil, asError(p.Value))
	case StateCancelled:
		t.settle(CancelSignal, nil)
	default:
		t.settle(p.Value, nil)
	}
}

func (t *Task) settle(v any, err error) {
	if t.settled {
		return
	}
	t.settled = true
	t.value, t.err = v, err
	close(t.done)
}

// abort marks t aborted after an unrecoverable failure. It does not
// cascade; the failure is reported upward through link.
func (t *Task) abort(reason string) {
	t.status = StatusAborted
	t.rt.log.Warn("task aborted", "runtime", t.rt.id, "task", t.id, "reason", reason)
}

// shutdown cancels children one at a time, youngest first, waiting for
// each to settle before cancelling the next.
func (t *Task) shutdown(reason string) {
	var last *Task
	var next Listener
	next = func(Props) {
		last = t.youngestExcept(last)
		if last == nil {
			return
		}
		last.Once(next)
		last.Cancel(reason)
	}
	next(Props{})
}

func (t *Task) youngestExcept(skip *Task) *Task {
	for i := len(t.children) - 1; i >= 0; i-- {
		if c := t.children[i]; c != skip {
			return c
		}
	}
	return nil
}

// link attaches an already running child to t. t does not settle until
// the child has. A failed child cancels t.
func (t *Task) link(child *Task) {
	if child.emitter.Emitted() || slices.Contains(t.children, child) {
		return
	}
	child.Once(func(p Props) {
		if t.status == StatusDone {
			return
		}
		t.children = slices.DeleteFunc(t.children, func(c *Task) bool { return c == child })
		if p.State == StateErrored || p.State == StateAborted {
			t.rt.log.Debug("linked task failed", "runtime", t.rt.id, "task", t.id, "child", child.id, "error", p.Value)
			t.Cancel(fmt.Sprintf("%s failed: %s", child, reasonOf(p.Value)))
		}
		t.finished(t.result)
	})
	t.children = append(t.children, child)
}
