// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fx

import (
	"errors"
	"fmt"
)

var (
	// ErrCancelled is observed by a coroutine whose task is being torn down.
	// A coroutine that returns it (or any error wrapping it) finishes with
	// [CancelSignal] rather than failing.
	ErrCancelled = errors.New("fx: cancelled")

	// ErrTerminated is observed by a coroutine when the value it waited on
	// was terminated, e.g. a take on a closed channel.
	ErrTerminated = errors.New("fx: terminated")

	// ErrStackOverflow aborts a task whose synchronous nesting exceeded
	// the runtime's maximum depth. It is never delivered as a catchable error.
	ErrStackOverflow = errors.New("fx: maximum call depth exceeded")

	ErrTaskNotPending  = errors.New("fx: task is not pending")
	ErrInvalidPattern  = errors.New("fx: invalid pattern")
	ErrInvalidPayload  = errors.New("fx: invalid effect payload")
	ErrUnhandledEffect = errors.New("fx: unhandled effect")
	ErrResultType      = errors.New("fx: unexpected result type")
)

// PanicError carries a value recovered from a panic raised by user code.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("fx: panic: %v", e.Value)
}

// Unwrap exposes the recovered value when it is itself an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// asError normalizes a settlement value into an error.
func asError(v any) error {
	switch e := v.(type) {
	case nil:
		return nil
	case error:
		return e
	default:
		return &PanicError{Value: v}
	}
}

// recovered wraps a recover() value without double wrapping.
func recovered(r any) error {
	if pe, ok := r.(*PanicError); ok {
		return pe
	}
	return &PanicError{Value: r}
}

// reasonOf renders a settlement value as a cancellation reason.
func reasonOf(v any) string {
	switch r := v.(type) {
	case nil:
		return ""
	case string:
		return r
	case error:
		return r.Error()
	case fmt.Stringer:
		return r.String()
	default:
		return fmt.Sprint(r)
	}
}

// cancelError wraps ErrCancelled with a reason when one is known.
func cancelError(reason string) error {
	if reason == "" {
		return ErrCancelled
	}
	return fmt.Errorf("%w: %s", ErrCancelled, reason)
}
