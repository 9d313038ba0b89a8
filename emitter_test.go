// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fx_test

import (
	"slices"
	"testing"

	"code.hybscloud.com/fx"
)

func TestEmitterOnce(t *testing.T) {
	var e fx.Emitter
	var got []any
	e.Once(func(p fx.Props) { got = append(got, p.Value) })
	e.Once(func(p fx.Props) { got = append(got, p.Value) })

	e.Emit(fx.Props{Value: 1, State: fx.StateCompleted})
	e.Emit(fx.Props{Value: 2, State: fx.StateCompleted})

	if !slices.Equal(got, []any{1, 1}) {
		t.Fatalf("got %v, want [1 1]", got)
	}
	if !e.Emitted() {
		t.Fatal("Emitted got false, want true")
	}
}

func TestEmitterLateListener(t *testing.T) {
	var e fx.Emitter
	e.Emit(fx.Props{Value: "v", State: fx.StateErrored})

	var got fx.Props
	e.Once(func(p fx.Props) { got = p })
	if got.Value != "v" || got.State != fx.StateErrored {
		t.Fatalf("got %+v, want {v errored}", got)
	}
}

func TestEmitterListenerRegistersListener(t *testing.T) {
	var e fx.Emitter
	var order []string
	e.Once(func(fx.Props) {
		order = append(order, "first")
		e.Once(func(fx.Props) { order = append(order, "nested") })
	})
	e.Once(func(fx.Props) { order = append(order, "second") })
	e.Emit(fx.Props{State: fx.StateCompleted})

	want := []string{"first", "second", "nested"}
	if !slices.Equal(order, want) {
		t.Fatalf("got %v, want %v", order, want)
	}
}
