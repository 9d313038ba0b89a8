// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fx_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"code.hybscloud.com/fx"
	"code.hybscloud.com/kont"
)

func TestFutureFirstSettlementWins(t *testing.T) {
	f := fx.NewFuture()
	f.Resolve(1)
	f.Reject(errors.New("late"))
	f.Resolve(2)

	task := fx.Run(f)
	if v, err := wait(t, task); err != nil || v != 1 {
		t.Fatalf("got (%v, %v), want (1, nil)", v, err)
	}
}

func TestFutureSettlesAsynchronously(t *testing.T) {
	rt := fx.New()
	task := rt.Run(fx.Resolved("v"))
	if task.Settled() {
		t.Fatal("future settled before the runtime advanced")
	}
	if !rt.Pending() {
		t.Fatal("runtime reports nothing pending")
	}
	if !rt.Advance() {
		t.Fatal("Advance made no progress")
	}
	if v, _ := task.Result(); v != "v" {
		t.Fatalf("got %v, want v", v)
	}
	if rt.Pending() {
		t.Fatal("runtime still pending")
	}
}

func TestRejectedFutureIsCatchable(t *testing.T) {
	boom := errors.New("boom")
	task := fx.Run(func() kont.Eff[fx.Result] {
		return fx.Catch(fx.Yield(fx.Rejected(boom)), func(err error) kont.Eff[fx.Result] {
			return fx.Return(errors.Is(err, boom))
		})
	})
	if v, err := wait(t, task); err != nil || v != true {
		t.Fatalf("got (%v, %v), want (true, nil)", v, err)
	}
}

func TestRejectedRootSettlesWithError(t *testing.T) {
	boom := errors.New("boom")
	task := fx.Run(fx.Rejected(boom))
	v, err := wait(t, task)
	if !errors.Is(err, boom) || v != nil {
		t.Fatalf("got (%v, %v), want (nil, boom)", v, err)
	}
}

func TestGo(t *testing.T) {
	skipRace(t)
	task := fx.Run(func() kont.Eff[fx.Result] {
		return fx.Await(fx.Call(fx.Go, func() (any, error) {
			time.Sleep(time.Millisecond)
			return "from goroutine", nil
		}), func(s string) kont.Eff[fx.Result] {
			return fx.Return(s)
		})
	})
	if v, err := wait(t, task); err != nil || v != "from goroutine" {
		t.Fatalf("got (%v, %v), want (from goroutine, nil)", v, err)
	}
}

func TestGoPanic(t *testing.T) {
	skipRace(t)
	task := fx.Run(fx.Go(func() (any, error) { panic("kaboom") }))
	_, err := wait(t, task)
	var pe *fx.PanicError
	if !errors.As(err, &pe) || pe.Value != "kaboom" {
		t.Fatalf("got %v, want PanicError(kaboom)", err)
	}
}

func TestDelay(t *testing.T) {
	skipRace(t)
	start := time.Now()
	task := fx.Run(func() kont.Eff[fx.Result] {
		return fx.DelayThen(20*time.Millisecond, fx.Return("slept"))
	})
	if v, err := wait(t, task); err != nil || v != "slept" {
		t.Fatalf("got (%v, %v), want (slept, nil)", v, err)
	}
	if d := time.Since(start); d < 20*time.Millisecond {
		t.Fatalf("settled after %v, want at least 20ms", d)
	}
}

func TestCancelFuture(t *testing.T) {
	f := fx.NewFuture()
	task := fx.Run(func() kont.Eff[fx.Result] {
		return fx.Yield(f)
	})
	task.Cancel("stop")
	f.Resolve("late")

	if v, err := wait(t, task); err != nil || v != fx.CancelSignal {
		t.Fatalf("got (%v, %v), want (CancelSignal, nil)", v, err)
	}
}

func TestCancelledFutureNotPending(t *testing.T) {
	rt := fx.New()
	f := fx.NewFuture()
	task := rt.Run(func() kont.Eff[fx.Result] {
		return fx.Yield(f)
	})
	if !rt.Pending() {
		t.Fatal("unsettled future not pending")
	}
	task.Cancel("stop")
	if rt.Pending() {
		t.Fatal("pending after its only future task was cancelled")
	}
}

func TestPostFromGoroutine(t *testing.T) {
	rt := fx.New()
	task := rt.Run(func() kont.Eff[fx.Result] {
		return fx.TakeBind("GO", func(a fx.Action) kont.Eff[fx.Result] {
			return fx.Return(a.Payload)
		})
	})
	go rt.Post(func() { rt.Dispatch(act("GO", "posted")) })

	if v, err := wait(t, task); err != nil || v != "posted" {
		t.Fatalf("got (%v, %v), want (posted, nil)", v, err)
	}
}

func TestWaitContextDone(t *testing.T) {
	task := fx.Run(never)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := task.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("got %v, want DeadlineExceeded", err)
	}
	if task.Settled() {
		t.Fatal("task settled without input")
	}
}
