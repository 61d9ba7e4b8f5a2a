package solver

import (
	"context"
	"fmt"

	"bytsbot/internal/acquire"
	"bytsbot/internal/judge"
	"bytsbot/internal/types"
)

type mockAcquirer struct {
	AcquireFunc func(ctx context.Context, id types.ProblemIdentity) (string, acquire.Origin, error)
}

func (m *mockAcquirer) Acquire(ctx context.Context, id types.ProblemIdentity) (string, acquire.Origin, error) {
	if m.AcquireFunc != nil {
		return m.AcquireFunc(ctx, id)
	}
	return "class Solution { /* v1 */ }", acquire.FromGenerator, nil
}

type mockEditor struct {
	Injected   []string
	InjectFunc func(code string) bool
	Language   bool
}

func (m *mockEditor) EnsureLanguage(ctx context.Context, language string) bool { return m.Language }

func (m *mockEditor) Inject(ctx context.Context, code string) bool {
	m.Injected = append(m.Injected, code)
	if m.InjectFunc != nil {
		return m.InjectFunc(code)
	}
	return true
}

// mockJudge replays scripted run and submit outcomes; the last one repeats.
type mockJudge struct {
	Runs       []judge.TestOutcome
	Submits    []judge.TestOutcome
	SubmitErr  error
	RunErr     error
	runCalls   int
	subCalls   int
	passedRuns int
}

func (m *mockJudge) Run(ctx context.Context) (judge.TestOutcome, error) {
	m.runCalls++
	if m.RunErr != nil {
		return judge.TestOutcome{}, m.RunErr
	}
	o := pick(m.Runs, m.runCalls-1)
	if o.Passed {
		m.passedRuns++
	}
	return o, nil
}

func (m *mockJudge) Submit(ctx context.Context) (judge.TestOutcome, error) {
	if m.SubmitErr != nil {
		return judge.TestOutcome{}, m.SubmitErr
	}
	o := pick(m.Submits, m.subCalls)
	m.subCalls++
	return o, nil
}

func pick(script []judge.TestOutcome, i int) judge.TestOutcome {
	if len(script) == 0 {
		return judge.Pass()
	}
	if i >= len(script) {
		i = len(script) - 1
	}
	return script[i]
}

type repairCall struct {
	Kind    State
	Code    string
	Outcome judge.TestOutcome
}

type mockRepairer struct {
	Calls      []repairCall
	RepairFunc func(kind State, n int) (string, error)
}

func (m *mockRepairer) repair(kind State, code string, o judge.TestOutcome) (string, error) {
	m.Calls = append(m.Calls, repairCall{Kind: kind, Code: code, Outcome: o})
	if m.RepairFunc != nil {
		return m.RepairFunc(kind, len(m.Calls))
	}
	return fmt.Sprintf("class Solution { /* v%d */ }", len(m.Calls)+1), nil
}

func (m *mockRepairer) Debug(ctx context.Context, title, code string, o judge.TestOutcome) (string, error) {
	return m.repair(StateDebugging, code, o)
}

func (m *mockRepairer) Escalate(ctx context.Context, title, code string, o judge.TestOutcome) (string, error) {
	return m.repair(StateEscalating, code, o)
}

type recorder struct {
	events []Event
}

func (r *recorder) Transition(ev Event) { r.events = append(r.events, ev) }

func (r *recorder) states() []State {
	out := make([]State, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.State
	}
	return out
}
