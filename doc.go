// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package fx provides a cooperative effects runtime: coroutines written as
// [code.hybscloud.com/kont] computations yield declarative effects, and a
// tree of tasks interprets them with structured cancellation.
//
// # Architecture
//
//   - Tasks: every yielded operation becomes a [Task] driven by a controller chosen from the operation's shape (coroutine, future, effect or plain value).
//   - Ownership: forked children are linked to the task that created them. A task never settles while a linked child is alive, and a failed child cancels its owner.
//   - Cancellation: [Task.Cancel] unwinds the operation first, then cancels children one at a time, youngest first. Cleanup registered with [Finally] observes [Cancelled] as true.
//   - Messaging: a [Channel] delivers [Action] values to pattern-filtered takers through a [Scheduler] that serializes re-entrant puts. The scheduler queue is a bounded [code.hybscloud.com/lfq] ring with an overflow tail.
//   - Concurrency: a [Runtime] is single-threaded. Other goroutines hand results back through [Future] and [Runtime.Post]; [Runtime.Drive] waits with [code.hybscloud.com/iox.Backoff].
//
// # API Topologies
//
//   - Effects: [Call], [Fork], [Spawn], [Put], [PutTo], [Take], [TakeFrom], [Race], [RaceSlice], [All], [AllMap], [Cancel], [CancelReason], [Cancelled], [Delay].
//   - Cont-world: [Yield], [Await], [Then], [Try], [Catch], [Finally], [TakeBind], [PutThen], [CancelledBind], [DelayThen], [Return], [Throw].
//   - Expr-world: defunctionalized variants like [ExprYield], [ExprAwait], [ExprTakeBind], etc. Bridge via [Reify] and [Reflect].
//   - Recursive: [Loop], [ExprLoop] and [Forever] for long-running coroutines.
//   - Supervisors: [TakeEvery], [TakeLatest] and [TakeLeading].
//
// # Integration
//
//   - Stepping: [Runtime.Advance] delivers settled futures and posted callbacks once, making the runtime easy to embed in an existing event loop.
//   - Blocking: [Task.Wait] and [Runtime.Drive] advance until a condition holds or the context ends.
//   - Diagnostics: [WithLogger] accepts any [Logger]; [NewSlogLogger] adapts [log/slog].
//
// # Example
//
//	rt := fx.New()
//	task := rt.Run(func() kont.Eff[fx.Result] {
//		return fx.TakeBind("PING", func(a fx.Action) kont.Eff[fx.Result] {
//			return fx.PutThen(fx.Action{Type: "PONG", Payload: a.Payload}, fx.Return(a.Payload))
//		})
//	})
//	rt.Dispatch(fx.Action{Type: "PING", Payload: 1})
//	v, err := task.Wait(context.Background()) // 1, nil
package fx
