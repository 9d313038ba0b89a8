// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fx

import (
	"slices"
)

// runRace settles with the first branch to settle, in any state. The
// losers are cancelled and awaited before the race settles, and only the
// winner appears in the result.
func runRace(t *Task, e Effect, signal *Emitter) {
	bs, named, err := branches(e.Payload)
	if err != nil {
		t.finished(Props{Value: err, State: StateErrored})
		return
	}
	if len(bs) == 0 {
		_, results := collect(named, 0)
		t.finished(Props{Value: results, State: StateCompleted})
		return
	}

	var (
		done     bool
		siblings []*Task
	)
	signal.Once(func(p Props) {
		if done {
			return
		}
		done = true
		stopAll(slices.Clone(siblings), reasonOf(p.Value), func() {
			t.finished(p)
		})
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
			done = true
			losers := slices.DeleteFunc(slices.Clone(siblings), func(s *Task) bool { return s == child })
			stopAll(losers, child.String()+" won the race", func() {
				if p.State != StateCompleted || isSignal(p.Value) {
					t.finished(p)
					return
				}
				set, results := collect(named, len(bs))
				set(b, p.Value)
				t.finished(Props{Value: results, State: StateCompleted})
			})
		})
		child.launch()
	}
}
