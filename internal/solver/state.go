package solver

import (
	"time"

	"bytsbot/internal/acquire"
	"bytsbot/internal/judge"
	"bytsbot/internal/types"
)

// State is a solve-loop phase.
type State string

const (
	StateAcquiring  State = "acquiring"
	StateInjecting  State = "injecting"
	StateRunning    State = "running"
	StateSubmitting State = "submitting"
	StateDebugging  State = "debugging"
	StateEscalating State = "escalating"
	StateDone       State = "done"
	StateExhausted  State = "exhausted"
	StateAborted    State = "aborted"
)

// Terminal reports whether the loop stops in s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateExhausted || s == StateAborted
}

// Session is the per-problem state threaded through the loop. It is
// discarded once the loop reaches a terminal state.
type Session struct {
	Problem        types.ProblemIdentity
	Origin         acquire.Origin
	Code           string
	Cycle          int // starts at 1 once code is acquired
	MaxDebugCycles int
	State          State

	// LastOutcome is the most recent failing (or final) run/submit outcome.
	LastOutcome *judge.TestOutcome

	Debugs      int
	Escalations int
	Submissions int
}

// Solved reports whether the session ended accepted.
func (s *Session) Solved() bool {
	return s.State == StateDone
}

// Event is one state transition.
type Event struct {
	Slug    string
	Cycle   int
	State   State
	Outcome *judge.TestOutcome
	Detail  string
	At      time.Time
}

// Observer receives every transition, in order, on the solving goroutine.
type Observer interface {
	Transition(ev Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ev Event)

// Transition implements Observer.
func (f ObserverFunc) Transition(ev Event) { f(ev) }

// nextRepair picks the phase after a failed cycle: debug until the last
// cycle, escalate once on it, then stop.
func nextRepair(cycle, maxCycles int) State {
	switch {
	case cycle > maxCycles:
		return StateExhausted
	case cycle == maxCycles:
		return StateEscalating
	default:
		return StateDebugging
	}
}
