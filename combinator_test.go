// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fx_test

import (
	"errors"
	"maps"
	"slices"
	"testing"
	"time"

	"code.hybscloud.com/fx"
	"code.hybscloud.com/kont"
)

func TestRaceWinnerOnly(t *testing.T) {
	rt := fx.New()
	fa, fb := fx.NewFuture(), fx.NewFuture()
	var j journal
	loser := func() kont.Eff[fx.Result] {
		return fx.Finally(fx.Yield(fb), func() kont.Eff[fx.Result] {
			return fx.CancelledBind(func(c bool) kont.Eff[fx.Result] {
				if c {
					j.add("loser cancelled")
				}
				return fx.Return(nil)
			})
		})
	}
	task := rt.Run(func() kont.Eff[fx.Result] {
		return fx.Await(fx.Race(map[string]fx.Operation{"a": fa, "b": loser}), func(m map[string]any) kont.Eff[fx.Result] {
			return fx.Return(m)
		})
	})
	fa.Resolve("A")

	v, err := wait(t, task)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := map[string]any{"a": "A"}; !maps.Equal(v.(map[string]any), want) {
		t.Fatalf("got %v, want %v", v, want)
	}
	if !slices.Equal(j.events, []string{"loser cancelled"}) {
		t.Fatalf("got %v, want [loser cancelled]", j.events)
	}
}

func TestRaceSliceFirstToSettleWins(t *testing.T) {
	boom := errors.New("boom")
	task := fx.Run(func() kont.Eff[fx.Result] {
		return fx.Catch(
			fx.Yield(fx.RaceSlice(never, fx.Rejected(boom))),
			func(err error) kont.Eff[fx.Result] { return fx.Return(err) },
		)
	})
	v, err := wait(t, task)
	if err != nil || !errors.Is(v.(error), boom) {
		t.Fatalf("got (%v, %v), want (boom, nil)", v, err)
	}
}

func TestRaceAbortedWinnerCancelsLosers(t *testing.T) {
	boom := errors.New("boom")
	var j journal
	thrower := func() kont.Eff[fx.Result] { return fx.Throw(boom) }
	task := fx.Run(func() kont.Eff[fx.Result] {
		return fx.Catch(
			fx.Yield(fx.RaceSlice(guarded(&j, "loser"), thrower)),
			func(err error) kont.Eff[fx.Result] { return fx.Return(err) },
		)
	})
	v, err := wait(t, task)
	if err != nil || !errors.Is(v.(error), boom) {
		t.Fatalf("got (%v, %v), want (boom, nil)", v, err)
	}
	if !slices.Equal(j.events, []string{"loser:true"}) {
		t.Fatalf("got %v, want [loser:true]", j.events)
	}
}

func TestRaceSliceResultPosition(t *testing.T) {
	task := fx.Run(func() kont.Eff[fx.Result] {
		return fx.Yield(fx.RaceSlice(never, "second"))
	})
	v, err := wait(t, task)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := v.([]any); !slices.Equal(got, []any{nil, "second"}) {
		t.Fatalf("got %v, want [<nil> second]", got)
	}
}

func TestRaceTimeout(t *testing.T) {
	skipRace(t)
	task := fx.Run(func() kont.Eff[fx.Result] {
		return fx.Await(fx.Race(map[string]fx.Operation{
			"value":   never,
			"timeout": fx.Delay(10 * time.Millisecond),
		}), func(m map[string]any) kont.Eff[fx.Result] {
			_, timedOut := m["timeout"]
			return fx.Return(timedOut)
		})
	})
	if v, err := wait(t, task); err != nil || v != true {
		t.Fatalf("got (%v, %v), want (true, nil)", v, err)
	}
}

func TestAll(t *testing.T) {
	task := fx.Run(func() kont.Eff[fx.Result] {
		two := func() kont.Eff[fx.Result] { return fx.Return(2) }
		return fx.Yield(fx.All(fx.Resolved(1), two, 3))
	})
	v, err := wait(t, task)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := v.([]any); !slices.Equal(got, []any{1, 2, 3}) {
		t.Fatalf("got %v, want [1 2 3]", got)
	}
}

func TestAllMap(t *testing.T) {
	task := fx.Run(func() kont.Eff[fx.Result] {
		return fx.Yield(fx.AllMap(map[string]fx.Operation{
			"x": fx.Call(func() string { return "X" }),
			"y": "Y",
		}))
	})
	v, err := wait(t, task)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := map[string]any{"x": "X", "y": "Y"}; !maps.Equal(v.(map[string]any), want) {
		t.Fatalf("got %v, want %v", v, want)
	}
}

func TestAllEmpty(t *testing.T) {
	task := fx.Run(func() kont.Eff[fx.Result] {
		return fx.Yield(fx.All())
	})
	v, err := wait(t, task)
	if err != nil || len(v.([]any)) != 0 {
		t.Fatalf("got (%v, %v), want ([], nil)", v, err)
	}
}

func TestAllFirstErrorWins(t *testing.T) {
	boom := errors.New("boom")
	var j journal
	task := fx.Run(func() kont.Eff[fx.Result] {
		return fx.Catch(
			fx.Yield(fx.All(guarded(&j, "sibling"), fx.Rejected(boom), "ok")),
			func(err error) kont.Eff[fx.Result] { return fx.Return(err) },
		)
	})
	v, err := wait(t, task)
	if err != nil || !errors.Is(v.(error), boom) {
		t.Fatalf("got (%v, %v), want (boom, nil)", v, err)
	}
	if !slices.Equal(j.events, []string{"sibling:true"}) {
		t.Fatalf("got %v, want [sibling:true]", j.events)
	}
}

func TestAllCancelled(t *testing.T) {
	var j journal
	task := fx.Run(func() kont.Eff[fx.Result] {
		return fx.Yield(fx.All(guarded(&j, "a"), guarded(&j, "b")))
	})
	task.Cancel("stop")

	if v, err := wait(t, task); err != nil || v != fx.CancelSignal {
		t.Fatalf("got (%v, %v), want (CancelSignal, nil)", v, err)
	}
	if !slices.Equal(j.events, []string{"a:true", "b:true"}) {
		t.Fatalf("got %v, want [a:true b:true]", j.events)
	}
}
