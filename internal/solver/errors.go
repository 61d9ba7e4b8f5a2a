package solver

import (
	"errors"

	"bytsbot/internal/judge"
)

var (
	// ErrAcquisition: neither scraping nor generation produced code.
	ErrAcquisition = errors.New("acquisition failed")
	// ErrEnvironment: the page did not cooperate (injection, missing controls).
	ErrEnvironment = errors.New("environment fault")
	// ErrRepair: a debug or escalation request returned no code.
	ErrRepair = errors.New("repair returned no code")
	// ErrExhausted: the debug and escalation budget ran out.
	ErrExhausted = errors.New("repair budget exhausted")
)

// Fault is the failure class of a finished solve.
type Fault string

const (
	FaultNone        Fault = ""
	FaultEnvironment Fault = "environment"
	FaultJudgment    Fault = "judgment"
	FaultTimeout     Fault = "timeout"
	FaultAcquisition Fault = "acquisition"
	// FaultAuth is assigned by callers that find a login wall after an abort.
	FaultAuth Fault = "auth"
)

// FaultOf classifies the error returned by Loop.Solve together with the
// session's last outcome.
func FaultOf(s *Session, err error) Fault {
	switch {
	case err == nil:
		return FaultNone
	case errors.Is(err, ErrAcquisition), errors.Is(err, ErrRepair):
		return FaultAcquisition
	case errors.Is(err, ErrExhausted):
		if s != nil && s.LastOutcome != nil && s.LastOutcome.ErrorKind == judge.Timeout {
			return FaultTimeout
		}
		return FaultJudgment
	default:
		return FaultEnvironment
	}
}

// Retryable reports whether the whole problem is worth another attempt by
// the caller. Judgment failures already consumed their budget.
func (f Fault) Retryable() bool {
	return f == FaultEnvironment || f == FaultAuth
}
