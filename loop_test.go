// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fx_test

import (
	"slices"
	"testing"

	"code.hybscloud.com/fx"
	"code.hybscloud.com/kont"
)

func ticks(rt *fx.Runtime) *[]any {
	var got []any
	rt.Channel().Subscribe(func(a fx.Action) {
		if a.Type == "TICK" {
			got = append(got, a.Payload)
		}
	})
	return &got
}

func TestLoopCounter(t *testing.T) {
	rt := fx.New()
	got := ticks(rt)
	task := rt.Run(func() kont.Eff[fx.Result] {
		return fx.Loop(0, func(n int) kont.Eff[fx.Result] {
			if n == 3 {
				return fx.Return(n)
			}
			return fx.PutThen(act("TICK", n), fx.Continue(n+1))
		})
	})
	if v, err := wait(t, task); err != nil || v != 3 {
		t.Fatalf("got (%v, %v), want (3, nil)", v, err)
	}
	if want := []any{0, 1, 2}; !slices.Equal(*got, want) {
		t.Fatalf("got %v, want %v", *got, want)
	}
}

func TestExprLoopCounter(t *testing.T) {
	rt := fx.New()
	got := ticks(rt)
	task := rt.Run(func() kont.Expr[fx.Result] {
		return fx.ExprLoop(0, func(n int) kont.Expr[fx.Result] {
			if n == 3 {
				return fx.ExprReturn(n)
			}
			return fx.ExprPutThen(act("TICK", n), fx.ExprContinue(n+1))
		})
	})
	if v, err := wait(t, task); err != nil || v != 3 {
		t.Fatalf("got (%v, %v), want (3, nil)", v, err)
	}
	if want := []any{0, 1, 2}; !slices.Equal(*got, want) {
		t.Fatalf("got %v, want %v", *got, want)
	}
}

func TestExprLoopPure(t *testing.T) {
	// No yields: the loop runs to completion in the first step.
	task := fx.Run(func() kont.Expr[fx.Result] {
		return fx.ExprLoop(0, func(n int) kont.Expr[fx.Result] {
			if n == 100 {
				return fx.ExprReturn(n)
			}
			return fx.ExprContinue(n + 1)
		})
	})
	if v, err := wait(t, task); err != nil || v != 100 {
		t.Fatalf("got (%v, %v), want (100, nil)", v, err)
	}
}

func TestLoopAccumulatesTakes(t *testing.T) {
	rt := fx.New()
	task := rt.Run(func() kont.Eff[fx.Result] {
		return fx.Loop(0, func(sum int) kont.Eff[fx.Result] {
			return fx.TakeBind([]string{"ADD", "END"}, func(a fx.Action) kont.Eff[fx.Result] {
				if a.Type == "END" {
					return fx.Return(sum)
				}
				return fx.Continue(sum + a.Payload.(int))
			})
		})
	})
	for i := 1; i <= 4; i++ {
		rt.Dispatch(act("ADD", i))
	}
	rt.Dispatch(act("END", nil))
	if v, err := wait(t, task); err != nil || v != 10 {
		t.Fatalf("got (%v, %v), want (10, nil)", v, err)
	}
}

func TestForeverStopsOnCancel(t *testing.T) {
	rt := fx.New()
	var n int
	task := rt.Run(func() kont.Eff[fx.Result] {
		return fx.Forever(func() kont.Eff[fx.Result] {
			return fx.TakeBind("TICK", func(fx.Action) kont.Eff[fx.Result] {
				n++
				return fx.Return(nil)
			})
		})
	})
	rt.Dispatch(act("TICK", nil))
	rt.Dispatch(act("TICK", nil))
	task.Cancel("stop")
	rt.Dispatch(act("TICK", nil))

	if v, err := wait(t, task); err != nil || v != fx.CancelSignal {
		t.Fatalf("got (%v, %v), want (CancelSignal, nil)", v, err)
	}
	if n != 2 {
		t.Fatalf("ticks got %d, want 2", n)
	}
}
