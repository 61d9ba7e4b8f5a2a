// Package runner drives the batch: every course, unlocked chapter and
// problem, solving each through the solve loop and recording progress.
// A failing problem never stops the batch.
package runner

import (
	"context"
	"errors"
	"fmt"

	"bytsbot/internal/logging"
	"bytsbot/internal/portal"
	"bytsbot/internal/solver"
	"bytsbot/internal/types"
)

// Portal is the learning-portal capability.
type Portal interface {
	OpenCourse(ctx context.Context, key string) error
	Chapters(ctx context.Context) ([]portal.Chapter, error)
	OpenChapter(ctx context.Context, c portal.Chapter) error
	Problems(ctx context.Context, day int) ([]portal.Problem, error)
	OpenProblem(ctx context.Context, p portal.Problem) error
	ActivateIfPresent(ctx context.Context) bool
	TakeChallenge(ctx context.Context) error
	ConfirmContestDialog(ctx context.Context) error
	ReturnToProblem(ctx context.Context) error
	MarkComplete(ctx context.Context) error
}

// Authenticator detects and clears login walls.
type Authenticator interface {
	LoginRequired(ctx context.Context) bool
	EnsureLoggedIn(ctx context.Context) error
}

// Describer reads the open judge problem.
type Describer interface {
	Describe(ctx context.Context) (types.ProblemIdentity, error)
}

// Solver runs the solve loop on the open judge problem.
type Solver interface {
	Solve(ctx context.Context, id types.ProblemIdentity) (*solver.Session, error)
}

// Progress records solved and failed problems.
type Progress interface {
	IsCompleted(course, day, id string) bool
	MarkCompleted(course, day, id string) error
	MarkFailed(course, day, id string) error
}

// Navigator opens a judge URL directly.
type Navigator interface {
	Goto(ctx context.Context, url string) error
	WaitSettled(ctx context.Context) error
}

// Summary counts batch results.
type Summary struct {
	Solved  int `json:"solved"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Add merges o into s.
func (s *Summary) Add(o Summary) {
	s.Solved += o.Solved
	s.Skipped += o.Skipped
	s.Failed += o.Failed
}

// Runner wires the collaborators of one batch.
type Runner struct {
	portal    Portal
	auth      Authenticator
	describer Describer
	solver    Solver
	progress  Progress
	nav       Navigator
}

// New creates a runner.
func New(p Portal, a Authenticator, d Describer, s Solver, pr Progress, nav Navigator) *Runner {
	return &Runner{portal: p, auth: a, describer: d, solver: s, progress: pr, nav: nav}
}

// Run walks courses in order. It returns early only when ctx ends.
func (r *Runner) Run(ctx context.Context, courses []string) (Summary, error) {
	var total Summary
	for _, course := range courses {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		sum, err := r.runCourse(ctx, course)
		total.Add(sum)
		if err != nil {
			if ctx.Err() != nil {
				return total, ctx.Err()
			}
			logging.RunnerError("course %s: %v", course, err)
		}
	}
	logging.Runner("done: solved=%d skipped=%d failed=%d", total.Solved, total.Skipped, total.Failed)
	return total, nil
}

func (r *Runner) runCourse(ctx context.Context, course string) (Summary, error) {
	var sum Summary
	if err := r.withLogin(ctx, func() error { return r.portal.OpenCourse(ctx, course) }); err != nil {
		return sum, err
	}
	chapters, err := r.portal.Chapters(ctx)
	if err != nil {
		return sum, err
	}

	for _, ch := range chapters {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		if ch.Locked {
			logging.Runner("%s / %s is locked, skipping", course, ch.Label)
			continue
		}
		if err := r.portal.OpenChapter(ctx, ch); err != nil {
			logging.RunnerWarn("%s / %s: %v", course, ch.Label, err)
			continue
		}
		problems, err := r.portal.Problems(ctx, ch.Day)
		if err != nil {
			logging.RunnerWarn("%s / %s: %v", course, ch.Label, err)
			continue
		}

		for i, p := range problems {
			if err := ctx.Err(); err != nil {
				return sum, err
			}
			day := ch.Key()
			if p.Completed || r.progress.IsCompleted(course, day, p.ID) {
				logging.Runner("[%s %d/%d] already done: %s", ch.Label, i+1, len(problems), p.ID)
				sum.Skipped++
				continue
			}
			logging.Runner("[%s %d/%d] starting: %s", ch.Label, i+1, len(problems), p.Title)

			solved := r.problemWithRetry(ctx, course, ch, p)
			if solved {
				sum.Solved++
				if err := r.progress.MarkCompleted(course, day, p.ID); err != nil {
					logging.RunnerError("progress: %v", err)
				}
			} else {
				sum.Failed++
				if err := r.progress.MarkFailed(course, day, p.ID); err != nil {
					logging.RunnerError("progress: %v", err)
				}
			}
		}
	}
	return sum, nil
}

// problemWithRetry attempts p once more after a login wall is cleared.
func (r *Runner) problemWithRetry(ctx context.Context, course string, ch portal.Chapter, p portal.Problem) bool {
	solved, fault := r.guard(func() (bool, solver.Fault) { return r.problem(ctx, course, ch, p) })
	if solved || fault != solver.FaultAuth {
		return solved
	}
	logging.RunnerWarn("%s hit a login wall, logging in and retrying once", p.ID)
	if err := r.auth.EnsureLoggedIn(ctx); err != nil {
		logging.RunnerError("login failed: %v", err)
		return false
	}
	solved, _ = r.guard(func() (bool, solver.Fault) { return r.problem(ctx, course, ch, p) })
	return solved
}

// guard turns a panic in one problem into a failed attempt.
func (r *Runner) guard(fn func() (bool, solver.Fault)) (solved bool, fault solver.Fault) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.Get(logging.CategoryRunner).Error("PANIC RECOVERED: %v", rec)
			solved, fault = false, solver.FaultEnvironment
		}
	}()
	return fn()
}

// problem opens p from its chapter, solves it on the judge and marks it
// complete on the portal.
func (r *Runner) problem(ctx context.Context, course string, ch portal.Chapter, p portal.Problem) (bool, solver.Fault) {
	if err := r.reposition(ctx, course, ch, p); err != nil {
		logging.RunnerWarn("%s: %v", p.ID, err)
		return false, r.classify(ctx, err, nil)
	}
	r.portal.ActivateIfPresent(ctx)
	if err := r.portal.TakeChallenge(ctx); err != nil {
		logging.RunnerWarn("%s: %v", p.ID, err)
		return false, r.classify(ctx, err, nil)
	}
	if err := r.portal.ConfirmContestDialog(ctx); err != nil {
		logging.RunnerWarn("%s: contest dialog: %v", p.ID, err)
	}

	session, err := r.solveOpen(ctx)
	if err != nil {
		return false, r.classify(ctx, err, session)
	}

	if err := r.portal.ReturnToProblem(ctx); err != nil {
		logging.RunnerWarn("%s: %v", p.ID, err)
		if err := r.reposition(ctx, course, ch, p); err != nil {
			logging.RunnerWarn("%s: accepted but could not reopen the portal page: %v", p.ID, err)
			return true, solver.FaultNone
		}
	}
	if err := r.portal.MarkComplete(ctx); err != nil {
		logging.RunnerWarn("%s: %v", p.ID, err)
	}
	return true, solver.FaultNone
}

func (r *Runner) reposition(ctx context.Context, course string, ch portal.Chapter, p portal.Problem) error {
	if err := r.portal.OpenCourse(ctx, course); err != nil {
		return err
	}
	if err := r.portal.OpenChapter(ctx, ch); err != nil {
		return err
	}
	return r.portal.OpenProblem(ctx, p)
}

func (r *Runner) solveOpen(ctx context.Context) (*solver.Session, error) {
	id, err := r.describer.Describe(ctx)
	if err != nil {
		return nil, fmt.Errorf("describe: %w", err)
	}
	if id.Slug == "" {
		return nil, fmt.Errorf("%w: the open page is not a judge problem", solver.ErrEnvironment)
	}
	session, err := r.solver.Solve(ctx, id)
	if err != nil {
		return session, err
	}
	logging.Runner("accepted: %s (cycle %d, %s)", id.Slug, session.Cycle, session.Origin)
	return session, nil
}

// classify names the fault, promoting it to FaultAuth when a login wall
// is showing.
func (r *Runner) classify(ctx context.Context, err error, s *solver.Session) solver.Fault {
	if errors.Is(err, portal.ErrLoginRequired) {
		return solver.FaultAuth
	}
	fault := solver.FaultOf(s, err)
	if ctx.Err() == nil && fault.Retryable() && r.auth.LoginRequired(ctx) {
		return solver.FaultAuth
	}
	return fault
}

// withLogin runs fn and, if it fails behind a login wall, logs in and runs
// it once more.
func (r *Runner) withLogin(ctx context.Context, fn func() error) error {
	err := fn()
	if err == nil || ctx.Err() != nil || !r.auth.LoginRequired(ctx) {
		return err
	}
	if err := r.auth.EnsureLoggedIn(ctx); err != nil {
		return err
	}
	return fn()
}

// SolveURL solves a single judge problem outside any course.
func (r *Runner) SolveURL(ctx context.Context, url string) (*solver.Session, error) {
	open := func() error {
		if err := r.nav.Goto(ctx, url); err != nil {
			return err
		}
		return r.nav.WaitSettled(ctx)
	}
	if err := open(); err != nil {
		return nil, fmt.Errorf("open %s: %w", url, err)
	}

	session, err := r.solveOpen(ctx)
	if err == nil {
		return session, nil
	}
	if r.classify(ctx, err, session) != solver.FaultAuth {
		return session, err
	}
	logging.RunnerWarn("login wall while solving %s, logging in and retrying once", url)
	if lerr := r.auth.EnsureLoggedIn(ctx); lerr != nil {
		return session, lerr
	}
	if err := open(); err != nil {
		return nil, fmt.Errorf("open %s: %w", url, err)
	}
	return r.solveOpen(ctx)
}
