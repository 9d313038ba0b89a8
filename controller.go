// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fx

import (
	"errors"
	"fmt"
)

// controller knows how to start and cancel one kind of operation.
// It is owned by exactly one task and chosen once at creation.
type controller interface {
	kind() string
	start()
	cancel(reason string)
}

// coroutineController drives a coroutine, creating one child task per
// yielded operation and resuming with that child's settlement.
//
// Stepping is trampolined: a child that settles while the coroutine is
// still being stepped is recorded in pending and picked up by the loop
// in next, so long chains of synchronous yields run in constant stack.
type coroutineController struct {
	task     *Task
	co       Coroutine
	factory  func() Coroutine
	nextTask *Task
	pending  *Props
	reason   string

	stepping  bool
	done      bool
	didCancel bool
	delivered bool
}

func (c *coroutineController) kind() string { return "coroutine" }

func (c *coroutineController) start() {
	c.next(Props{State: StateRunning})
}

func (c *coroutineController) cancel(reason string) {
	if c.didCancel {
		return
	}
	c.didCancel = true
	c.reason = reason
	switch {
	case c.done:
		// Finished but still waiting on forked children. An abort
		// already recorded is kept.
		if c.task.result.State != StateAborted {
			c.task.finished(Props{Value: CancelSignal, State: StateCancelled})
		}
	case c.pending != nil:
		// The next step already has a settlement; it will be replaced
		// by the cancellation when the trampoline picks it up.
	case c.nextTask != nil:
		c.nextTask.Cancel(reason)
	default:
		c.next(Props{Value: reason, State: StateCancelled})
	}
}

// onChild routes a yielded child's settlement back into the coroutine.
func (c *coroutineController) onChild(p Props) {
	// A cancelled child cancels its parent, which unifies cooperative
	// self-cancellation with cancellation from outside.
	if p.State == StateCancelled {
		c.task.Cancel(reasonOf(p.Value))
	}
	// Abort does not propagate as abort; the parent sees a catchable error.
	if p.State == StateAborted {
		p.State = StateErrored
	}
	c.next(p)
}

func (c *coroutineController) next(p Props) {
	if c.done {
		return
	}
	if c.stepping {
		c.pending = &p
		return
	}
	c.stepping = true
	defer func() { c.stepping = false }()
	for {
		c.step(p)
		if c.pending == nil || c.done {
			c.pending = nil
			return
		}
		p = *c.pending
		c.pending = nil
	}
}

// input maps a settlement to what the coroutine observes.
func (c *coroutineController) input(p Props) Result {
	if c.didCancel && !c.delivered {
		c.delivered = true
		return Result{Value: CancelSignal, Err: cancelError(c.reason)}
	}
	switch {
	case p.State == StateErrored:
		return Fail(asError(p.Value))
	case p.State == StateCancelled || p.Value == CancelSignal:
		return Result{Value: CancelSignal, Err: cancelError(reasonOf(p.Value))}
	case p.State == StateAborted || p.Value == TerminateSignal:
		return Result{Value: TerminateSignal, Err: ErrTerminated}
	default:
		return Ok(p.Value)
	}
}

func (c *coroutineController) step(p Props) {
	t := c.task
	rt := t.rt
	in := c.input(p)
	if rt.depth >= rt.maxDepth {
		c.done = true
		t.finished(Props{Value: fmt.Errorf("%w: task %d", ErrStackOverflow, t.id), State: StateAborted})
		return
	}
	rt.depth++
	defer func() { rt.depth-- }()
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		// Cancellation already owns the teardown.
		if t.status == StatusCancelled {
			panic(r)
		}
		c.done = true
		t.finished(Props{Value: recovered(r), State: StateAborted})
	}()

	if c.co == nil {
		c.co = c.factory()
	}
	s := c.co.Resume(in)
	if s.Done {
		c.done = true
		c.complete(s.Result)
		return
	}
	child := t.create(s.Op)
	c.nextTask = child
	child.Once(c.onChild)
	child.launch()
}

// complete maps a finished coroutine's result to its task settlement.
// A requested cancellation wins over whatever the coroutine returned.
func (c *coroutineController) complete(r Result) {
	t := c.task
	switch {
	case c.didCancel:
		t.finished(Props{Value: CancelSignal, State: StateCancelled})
	case r.Err == nil:
		t.finished(Props{Value: r.Value, State: StateCompleted})
	case errors.Is(r.Err, ErrTerminated):
		t.finished(Props{State: StateCompleted})
	case errors.Is(r.Err, ErrCancelled):
		t.finished(Props{Value: CancelSignal, State: StateCompleted})
	default:
		t.finished(Props{Value: r.Err, State: StateAborted})
	}
}

// futureController settles its task with a future's outcome.
type futureController struct {
	task    *Task
	future  *Future
	unwatch func()
}

func (c *futureController) kind() string { return "future" }

func (c *futureController) start() {
	c.unwatch = c.task.rt.watchFuture(c.future, c.task.finished)
}

func (c *futureController) cancel(reason string) {
	if c.unwatch != nil {
		c.unwatch()
	}
	c.task.finished(Props{Value: reason, State: StateCancelled})
}

// effectController dispatches an effect to its interpreter.
// signal carries the task's cancellation into the interpreter.
type effectController struct {
	task   *Task
	effect Effect
	signal Emitter
}

func (c *effectController) kind() string { return "effect" }

func (c *effectController) start() {
	t := c.task
	switch c.effect.Type {
	case EffectCall:
		runCall(t, c.effect, &c.signal)
	case EffectFork:
		runFork(t, c.effect, &c.signal)
	case EffectPut:
		runPut(t, c.effect)
	case EffectTake:
		runTake(t, c.effect, &c.signal)
	case EffectRace:
		runRace(t, c.effect, &c.signal)
	case EffectAll:
		runAll(t, c.effect, &c.signal)
	case EffectCancel:
		runCancel(t, c.effect)
	case EffectCancelled:
		runCancelled(t)
	default:
		t.rt.log.Error("effect not supported", "runtime", t.rt.id, "task", t.id, "type", c.effect.Type)
	}
}

func (c *effectController) cancel(reason string) {
	c.signal.Emit(Props{Value: reason, State: StateCancelled})
}

// valueController settles immediately with an already-known value.
type valueController struct {
	task  *Task
	value any
}

func (c *valueController) kind() string { return "value" }

func (c *valueController) start() {
	c.task.finished(Props{Value: c.value, State: StateCompleted})
}

func (c *valueController) cancel(reason string) {
	c.task.finished(Props{Value: reason, State: StateCancelled})
}

// deferredController calls a factory at start and drives what it returns.
type deferredController struct {
	task *Task
	fn   func() Operation
	ctrl controller
}

func (c *deferredController) kind() string {
	if c.ctrl == nil {
		return "deferred"
	}
	return c.ctrl.kind()
}

func (c *deferredController) start() {
	op, err := invoke(c.fn, nil)
	if err != nil {
		c.task.finished(Props{Value: err, State: StateAborted})
		return
	}
	c.ctrl = newController(c.task, op)
	c.ctrl.start()
}

func (c *deferredController) cancel(reason string) {
	if c.ctrl == nil {
		c.task.finished(Props{Value: reason, State: StateCancelled})
		return
	}
	c.ctrl.cancel(reason)
}
