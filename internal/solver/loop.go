// Package solver implements the agentic solve loop: acquire a candidate,
// inject it, run the sample tests, submit on a pass, and repair on failure
// through a bounded series of debug cycles ending in one escalation.
package solver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bytsbot/internal/acquire"
	"bytsbot/internal/config"
	"bytsbot/internal/judge"
	"bytsbot/internal/logging"
	"bytsbot/internal/types"
)

// Acquirer produces the first candidate.
type Acquirer interface {
	Acquire(ctx context.Context, id types.ProblemIdentity) (string, acquire.Origin, error)
}

// Editor prepares the editor and writes code into it.
type Editor interface {
	EnsureLanguage(ctx context.Context, language string) bool
	Inject(ctx context.Context, code string) bool
}

// Judge runs and submits the injected code.
type Judge interface {
	Run(ctx context.Context) (judge.TestOutcome, error)
	Submit(ctx context.Context) (judge.TestOutcome, error)
}

// Repairer asks a model to fix failing code. Escalate discards the approach.
type Repairer interface {
	Debug(ctx context.Context, title, code string, outcome judge.TestOutcome) (string, error)
	Escalate(ctx context.Context, title, code string, outcome judge.TestOutcome) (string, error)
}

// Options bound the loop.
type Options struct {
	Language       string
	MaxDebugCycles int
	CycleDelay     time.Duration // fixed pause before re-injecting repaired code
}

// OptionsFromConfig maps solver settings onto Options.
func OptionsFromConfig(cfg config.SolverConfig) Options {
	return Options{
		Language:       cfg.Language,
		MaxDebugCycles: cfg.MaxDebugCycles,
		CycleDelay:     cfg.GetCycleDelay(),
	}
}

// Loop is the solve-loop state machine. One Loop drives one tab and must not
// be used for two problems at once.
type Loop struct {
	acquirer Acquirer
	editor   Editor
	judge    Judge
	repairer Repairer
	observer Observer
	options  Options
}

// NewLoop wires the collaborators.
func NewLoop(a Acquirer, e Editor, j Judge, r Repairer, options Options) *Loop {
	if options.MaxDebugCycles < 1 {
		options.MaxDebugCycles = 1
	}
	return &Loop{acquirer: a, editor: e, judge: j, repairer: r, options: options}
}

// WithObserver sets the transition observer.
func (l *Loop) WithObserver(o Observer) *Loop {
	l.observer = o
	return l
}

// Solve runs the loop for one problem. It returns a nil error only when the
// submission was accepted; the session is returned in every case.
func (l *Loop) Solve(ctx context.Context, id types.ProblemIdentity) (*Session, error) {
	s := &Session{Problem: id, MaxDebugCycles: l.options.MaxDebugCycles}
	log := logging.Get(logging.CategorySolver).With("slug", id.Slug)

	l.enter(s, StateAcquiring, "")
	code, origin, err := l.acquirer.Acquire(ctx, id)
	if err != nil {
		return l.abort(s, fmt.Errorf("%w: %v", ErrAcquisition, err))
	}
	s.Code, s.Origin, s.Cycle = code, origin, 1
	log.Info("acquired %d chars (%s)", len(code), origin)

	for {
		if err := ctx.Err(); err != nil {
			return l.abort(s, err)
		}

		l.enter(s, StateInjecting, "")
		if !l.editor.EnsureLanguage(ctx, l.options.Language) {
			log.Warn("language %s not confirmed, continuing", l.options.Language)
		}
		if !l.editor.Inject(ctx, s.Code) {
			return l.abort(s, fmt.Errorf("%w: code injection failed on cycle %d", ErrEnvironment, s.Cycle))
		}

		l.enter(s, StateRunning, "")
		outcome, err := l.judge.Run(ctx)
		if err != nil {
			return l.abort(s, fmt.Errorf("%w: %v", ErrEnvironment, err))
		}
		if outcome.Passed {
			l.enter(s, StateSubmitting, "")
			verdict, err := l.judge.Submit(ctx)
			if err != nil {
				return l.abort(s, fmt.Errorf("%w: %v", ErrEnvironment, err))
			}
			s.Submissions++
			if verdict.Passed {
				s.LastOutcome = &verdict
				l.enter(s, StateDone, "")
				log.Info("accepted on cycle %d", s.Cycle)
				return s, nil
			}
			log.Warn("submission rejected: %s", verdict.ErrorKind)
			outcome = verdict
		}
		s.LastOutcome = &outcome

		next := nextRepair(s.Cycle, s.MaxDebugCycles)
		if next == StateExhausted {
			l.enter(s, StateExhausted, string(outcome.ErrorKind))
			return s, fmt.Errorf("%w: %s after %d cycles (%s)", ErrExhausted, id.Slug, s.MaxDebugCycles, outcome.ErrorKind)
		}

		l.enter(s, next, string(outcome.ErrorKind))
		var repaired string
		if next == StateEscalating {
			s.Escalations++
			log.Info("escalating on cycle %d/%d after %s", s.Cycle, s.MaxDebugCycles, outcome.ErrorKind)
			repaired, err = l.repairer.Escalate(ctx, id.Title, s.Code, outcome)
		} else {
			s.Debugs++
			log.Info("debugging cycle %d/%d after %s", s.Cycle, s.MaxDebugCycles, outcome.ErrorKind)
			repaired, err = l.repairer.Debug(ctx, id.Title, s.Code, outcome)
		}
		if err != nil {
			return l.abort(s, fmt.Errorf("%w: %s: %v", ErrRepair, next, err))
		}
		if strings.TrimSpace(repaired) == "" {
			return l.abort(s, fmt.Errorf("%w: %s", ErrRepair, next))
		}
		s.Code = repaired
		s.Cycle++

		if !pause(ctx, l.options.CycleDelay) {
			return l.abort(s, ctx.Err())
		}
	}
}

func (l *Loop) enter(s *Session, state State, detail string) {
	s.State = state
	logging.SolverDebug("%s: %s (cycle %d/%d) %s", s.Problem.Slug, state, s.Cycle, s.MaxDebugCycles, detail)
	if l.observer == nil {
		return
	}
	ev := Event{
		Slug:   s.Problem.Slug,
		Cycle:  s.Cycle,
		State:  state,
		Detail: detail,
		At:     time.Now(),
	}
	if s.LastOutcome != nil && (state == StateDebugging || state == StateEscalating || state.Terminal()) {
		o := *s.LastOutcome
		ev.Outcome = &o
	}
	l.observer.Transition(ev)
}

func (l *Loop) abort(s *Session, err error) (*Session, error) {
	l.enter(s, StateAborted, err.Error())
	logging.SolverError("%s: aborted: %v", s.Problem.Slug, err)
	return s, err
}

func pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
