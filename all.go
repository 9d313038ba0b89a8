// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fx

import (
	"fmt"
	"slices"
	"sort"
)

// branch is one operation of a combinator, addressed by key or index.
type branch struct {
	op    Operation
	key   string
	index int
}

// branches flattens a combinator payload. Named payloads are visited in
// key order so that start order is deterministic.
func branches(payload any) (bs []branch, named bool, err error) {
	switch p := payload.(type) {
	case []Operation:
		bs = make([]branch, len(p))
		for i, op := range p {
			bs[i] = branch{op: op, index: i}
		}
		return bs, false, nil
	case map[string]Operation:
		keys := make([]string, 0, len(p))
		for k := range p {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		bs = make([]branch, len(keys))
		for i, k := range keys {
			bs[i] = branch{op: p[k], key: k, index: i}
		}
		return bs, true, nil
	}
	return nil, false, fmt.Errorf("%w: combinator with %T", ErrInvalidPayload, payload)
}

// collect builds a combinator result shaped like its payload.
func collect(named bool, n int) (set func(b branch, v any), value any) {
	if named {
		m := make(map[string]any, n)
		return func(b branch, v any) { m[b.key] = v }, m
	}
	s := make([]any, n)
	return func(b branch, v any) { s[b.index] = v }, s
}

// stopAll cancels tasks and calls then once every one of them has settled.
func stopAll(tasks []*Task, reason string, then func()) {
	if len(tasks) == 0 {
		then()
		return
	}
	remaining := len(tasks)
	for _, s := range tasks {
		s.Once(func(Props) {
			remaining--
			if remaining == 0 {
				then()
			}
		})
		s.Cancel(reason)
	}
}

// triggers reports whether a branch settlement ends an All early.
func triggers(p Props) bool {
	switch p.State {
	case StateErrored, StateAborted, StateCancelled:
		return true
	}
	return isSignal(p.Value)
}

// runAll settles with every branch value once all complete. The first
// branch that fails, aborts or is cancelled stops the others and settles
// the All with its own settlement.
func runAll(t *Task, e Effect, signal *Emitter) {
	bs, named, err := branches(e.Payload)
	if err != nil {
		t.finished(Props{Value: err, State: StateErrored})
		return
	}
	set, results := collect(named, len(bs))
	if len(bs) == 0 {
		t.finished(Props{Value: results, State: StateCompleted})
		return
	}

	var (
		done     bool
		count    int
		siblings []*Task
	)
	stop := func(p Props) {
		stopAll(slices.Clone(siblings), reasonOf(p.Value), func() {
			t.finished(p)
		})
	}
	signal.Once(func(p Props) {
		if done {
			return
		}
		done = true
		stop(p)
	})

	for _, b := range bs {
		if done {
			break
		}
		child := t.create(b.op)
		siblings = append(siblings, child)
		child.Once(func(p Props) {
			if done {
				return
			}
			set(b, p.Value)
			count++
			if triggers(p) {
				done = true
				stop(p)
				return
			}
			siblings = slices.DeleteFunc(siblings, func(s *Task) bool { return s == child })
			if count == len(bs) {
				done = true
				t.finished(Props{Value: results, State: StateCompleted})
			}
		})
		child.launch()
	}
}
