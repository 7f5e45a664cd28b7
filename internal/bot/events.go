// ABOUTME: Observable dispatch outcomes and poll-loop states
// ABOUTME: Published on the bot's event bus; subscribers must not block

package bot

import (
	"fmt"
	"sync/atomic"
)

// EventKind classifies an Event.
type EventKind string

const (
	// EventInvoked: a handler ran and returned without error.
	EventInvoked EventKind = "invoked"
	// EventIgnored: the mention held no command, or an unknown one.
	EventIgnored EventKind = "ignored"
	// EventParseError: the mention could not be tokenized; the error was replied.
	EventParseError EventKind = "parse-error"
	// EventFailed: the handler returned an error or panicked.
	EventFailed EventKind = "failed"
	// EventState: the poll loop changed state.
	EventState EventKind = "state"
)

// Event reports one thing the bot did.
type Event struct {
	Kind           EventKind
	NotificationID string
	Command        string
	Args           []string
	Err            error
	State          State
}

// State is a poll-loop phase.
type State int32

const (
	StateIdle State = iota
	StateFetching
	StateDispatching
	StateClearing
	StateSleeping
	StateStopped
)

var stateNames = [...]string{
	StateIdle:        "idle",
	StateFetching:    "fetching",
	StateDispatching: "dispatching",
	StateClearing:    "clearing",
	StateSleeping:    "sleeping",
	StateStopped:     "stopped",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

type stateValue struct {
	v atomic.Int32
}

func (s *stateValue) load() State {
	return State(s.v.Load())
}

func (s *stateValue) store(st State) {
	s.v.Store(int32(st))
}

// State returns the poll loop's current phase.
func (b *Bot) State() State {
	return b.state.load()
}

func (b *Bot) setState(st State) {
	b.state.store(st)
	b.events.Publish(Event{Kind: EventState, State: st})
}

// PanicError wraps a value recovered from a panicking handler.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panicked: %v", e.Value)
}
