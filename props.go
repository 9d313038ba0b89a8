// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fx

// State tags how a step or a task concluded.
type State uint8

const (
	StatePending State = iota
	StateRunning
	StateCompleted
	StateCancelled
	StateErrored
	StateAborted
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateErrored:
		return "errored"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Props is a settlement: the value a task or effect concluded with and how.
// Errored and aborted settlements carry an error as Value.
type Props struct {
	Value any
	State State
}

// Status is the lifecycle state of a [Task].
// Transitions are pending → running → {cancelled | aborted | done}.
type Status uint8

const (
	StatusPending Status = iota
	StatusRunning
	StatusCancelled
	StatusAborted
	StatusDone
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusCancelled:
		return "cancelled"
	case StatusAborted:
		return "aborted"
	case StatusDone:
		return "done"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
// A cancelled task may still be tearing down its children.
func (s Status) Terminal() bool {
	return s >= StatusCancelled
}

// Signal is a sentinel settlement value. Signals compare by identity.
type Signal struct {
	name string
}

func (s *Signal) String() string { return s.name }

var (
	// CancelSignal is the value a cancelled task settles with.
	CancelSignal = &Signal{name: "@@fx/cancel"}
	// TerminateSignal is delivered by a take on a closed channel.
	TerminateSignal = &Signal{name: "@@fx/terminate"}
)

// SelfCancellation is the reason used by [Cancel] with no targets.
const SelfCancellation = "@@fx/self_cancellation"

// isSignal reports whether v is one of the cancel or terminate sentinels.
func isSignal(v any) bool {
	s, ok := v.(*Signal)
	return ok && (s == CancelSignal || s == TerminateSignal)
}

// Labels annotate a task for diagnostics.
// Values are expected to be strings, numbers or booleans.
type Labels map[string]any
