// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fx_test

import (
	"context"
	"testing"
	"time"

	"code.hybscloud.com/fx"
	"code.hybscloud.com/kont"
)

// wait drives task's runtime until it settles, failing the test after 5s.
func wait(tb testing.TB, task *fx.Task) (any, error) {
	tb.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	v, err := task.Wait(ctx)
	if ctx.Err() != nil {
		tb.Fatalf("%s did not settle: %v", task, ctx.Err())
	}
	return v, err
}

// act builds an action.
func act(typ string, payload any) fx.Action {
	return fx.Action{Type: typ, Payload: payload}
}

// never blocks on an action nobody puts.
func never() kont.Eff[fx.Result] {
	return fx.Yield(fx.Take("@@test/never"))
}

// journal records events in order.
type journal struct {
	events []string
}

func (j *journal) add(e string) {
	j.events = append(j.events, e)
}

// record returns a coroutine body that appends e when it runs and
// finishes with nil.
func (j *journal) record(e string) kont.Eff[fx.Result] {
	return kont.Map(kont.Pure(struct{}{}), func(struct{}) fx.Result {
		j.add(e)
		return fx.Ok(nil)
	})
}
