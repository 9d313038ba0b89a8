// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fx

import (
	"time"
)

// EffectType enumerates the closed set of effects the runtime interprets.
type EffectType uint8

const (
	EffectCall EffectType = iota + 1
	EffectFork
	EffectPut
	EffectTake
	EffectRace
	EffectAll
	EffectCancel
	EffectCancelled
)

func (t EffectType) String() string {
	switch t {
	case EffectCall:
		return "call"
	case EffectFork:
		return "fork"
	case EffectPut:
		return "put"
	case EffectTake:
		return "take"
	case EffectRace:
		return "race"
	case EffectAll:
		return "all"
	case EffectCancel:
		return "cancel"
	case EffectCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Effect is an immutable descriptor interpreted by the runtime.
// Constructing an effect performs no work.
// Combinator is set for All and Race, whose payload is a collection
// of operations.
type Effect struct {
	Type       EffectType
	Payload    any
	Combinator bool
}

// CallDescriptor is the payload of Call and Fork.
// Fn is invoked with Args when the effect is interpreted.
type CallDescriptor struct {
	Fn       any
	Args     []any
	Detached bool
}

// PutDescriptor is the payload of Put. A nil Channel means the task's channel.
type PutDescriptor struct {
	Channel *Channel
	Action  Action
}

// TakeDescriptor is the payload of Take. A nil Channel means the task's channel.
type TakeDescriptor struct {
	Channel *Channel
	Pattern any
}

// Call invokes fn with args and runs whatever it returns as a child
// task, settling with that child's settlement.
//
// fn may return a coroutine (kont.Eff, kont.Expr or a [Coroutine]),
// a [*Future], an [Effect], or a plain value. A trailing error result
// or a panic fails the call.
func Call(fn any, args ...any) Effect {
	return Effect{Type: EffectCall, Payload: &CallDescriptor{Fn: fn, Args: args}}
}

// Fork starts fn as a child owned by the calling coroutine and settles
// immediately with its [*Task]. Cancelling the caller cancels the child,
// and the caller does not finish before the child does.
func Fork(fn any, args ...any) Effect {
	return Effect{Type: EffectFork, Payload: &CallDescriptor{Fn: fn, Args: args}}
}

// Spawn is a detached Fork: the child is owned by no one and survives
// cancellation of its creator.
func Spawn(fn any, args ...any) Effect {
	return Effect{Type: EffectFork, Payload: &CallDescriptor{Fn: fn, Args: args, Detached: true}}
}

// Put delivers a on the task's channel. It settles once the delivery is
// scheduled, whether or not a taker matched, and cannot be cancelled.
func Put(a Action) Effect {
	return Effect{Type: EffectPut, Payload: PutDescriptor{Action: a}}
}

// PutTo delivers a on ch.
func PutTo(ch *Channel, a Action) Effect {
	return Effect{Type: EffectPut, Payload: PutDescriptor{Channel: ch, Action: a}}
}

// Take waits for the next action matching pattern on the task's channel.
// See [Match] for the accepted patterns. A closed channel ends the take
// with [TerminateSignal].
func Take(pattern any) Effect {
	return Effect{Type: EffectTake, Payload: TakeDescriptor{Pattern: pattern}}
}

// TakeFrom waits for the next action matching pattern on ch.
func TakeFrom(ch *Channel, pattern any) Effect {
	return Effect{Type: EffectTake, Payload: TakeDescriptor{Channel: ch, Pattern: pattern}}
}

// Race runs every operation and settles with the first to settle,
// keyed by name. The others are cancelled before the race settles.
func Race(ops map[string]Operation) Effect {
	return Effect{Type: EffectRace, Payload: ops, Combinator: true}
}

// RaceSlice is the positional form of Race. Only the winner's index is set.
func RaceSlice(ops ...Operation) Effect {
	return Effect{Type: EffectRace, Payload: ops, Combinator: true}
}

// All runs every operation and settles with all their values in order.
// The first failure or cancellation cancels the rest and settles the All.
func All(ops ...Operation) Effect {
	return Effect{Type: EffectAll, Payload: ops, Combinator: true}
}

// AllMap is the named form of All.
func AllMap(ops map[string]Operation) Effect {
	return Effect{Type: EffectAll, Payload: ops, Combinator: true}
}

// Cancel cancels targets. With no targets it cancels the calling
// coroutine itself. It settles immediately.
func Cancel(targets ...*Task) Effect {
	switch len(targets) {
	case 0:
		return Effect{Type: EffectCancel, Payload: SelfCancellation}
	case 1:
		return Effect{Type: EffectCancel, Payload: targets[0]}
	default:
		return Effect{Type: EffectCancel, Payload: targets}
	}
}

// CancelReason cancels the calling coroutine with reason.
func CancelReason(reason string) Effect {
	return Effect{Type: EffectCancel, Payload: reason}
}

// Cancelled settles with whether the calling coroutine is being cancelled.
func Cancelled() Effect {
	return Effect{Type: EffectCancelled}
}

// Delay settles after d.
func Delay(d time.Duration) Effect {
	return Call(After, d)
}
