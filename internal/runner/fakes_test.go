package runner

import (
	"context"
	"fmt"
	"sync"

	"bytsbot/internal/portal"
	"bytsbot/internal/solver"
	"bytsbot/internal/types"
)

type fakePortal struct {
	mu       sync.Mutex
	chapters []portal.Chapter
	problems map[int][]portal.Problem
	current  string
	calls    []string

	OpenCourseFunc func(key string) error
}

func (f *fakePortal) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakePortal) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakePortal) OpenCourse(ctx context.Context, key string) error {
	f.record("course:" + key)
	if f.OpenCourseFunc != nil {
		return f.OpenCourseFunc(key)
	}
	return nil
}

func (f *fakePortal) Chapters(ctx context.Context) ([]portal.Chapter, error) {
	return f.chapters, nil
}

func (f *fakePortal) OpenChapter(ctx context.Context, c portal.Chapter) error {
	f.record("chapter:" + c.Label)
	return nil
}

func (f *fakePortal) Problems(ctx context.Context, day int) ([]portal.Problem, error) {
	return f.problems[day], nil
}

func (f *fakePortal) OpenProblem(ctx context.Context, p portal.Problem) error {
	f.record("problem:" + p.ID)
	f.mu.Lock()
	f.current = p.ID
	f.mu.Unlock()
	return nil
}

func (f *fakePortal) ActivateIfPresent(ctx context.Context) bool { return false }

func (f *fakePortal) TakeChallenge(ctx context.Context) error {
	f.record("challenge")
	return nil
}

func (f *fakePortal) ConfirmContestDialog(ctx context.Context) error { return nil }

func (f *fakePortal) ReturnToProblem(ctx context.Context) error {
	f.record("return")
	return nil
}

func (f *fakePortal) MarkComplete(ctx context.Context) error {
	f.record("complete")
	return nil
}

// open is the judge slug of the problem last opened on the portal.
func (f *fakePortal) open() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

type fakeAuth struct {
	required    func() bool
	ensureErr   error
	ensureCalls int
}

func (a *fakeAuth) LoginRequired(ctx context.Context) bool {
	return a.required != nil && a.required()
}

func (a *fakeAuth) EnsureLoggedIn(ctx context.Context) error {
	a.ensureCalls++
	return a.ensureErr
}

type fakeDescriber struct{ p *fakePortal }

func (d fakeDescriber) Describe(ctx context.Context) (types.ProblemIdentity, error) {
	slug := d.p.open()
	return types.NewProblemIdentity("https://leetcode.com/problems/"+slug+"/", "", ""), nil
}

type fakeSolver struct {
	calls     []string
	SolveFunc func(id types.ProblemIdentity, call int) (*solver.Session, error)
}

func (s *fakeSolver) Solve(ctx context.Context, id types.ProblemIdentity) (*solver.Session, error) {
	s.calls = append(s.calls, id.Slug)
	if s.SolveFunc != nil {
		return s.SolveFunc(id, len(s.calls))
	}
	return accepted(id), nil
}

func accepted(id types.ProblemIdentity) *solver.Session {
	return &solver.Session{Problem: id, State: solver.StateDone, Cycle: 1}
}

func aborted(id types.ProblemIdentity, err error) (*solver.Session, error) {
	return &solver.Session{Problem: id, State: solver.StateAborted}, err
}

type fakeNav struct {
	visited []string
}

func (n *fakeNav) Goto(ctx context.Context, url string) error {
	n.visited = append(n.visited, url)
	if url == "" {
		return fmt.Errorf("empty url")
	}
	return nil
}

func (n *fakeNav) WaitSettled(ctx context.Context) error { return nil }
