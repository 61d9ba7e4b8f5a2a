package llm

import (
	"context"
	"errors"
	"fmt"

	"bytsbot/internal/acquire"
	"bytsbot/internal/judge"
	"bytsbot/internal/logging"
	"bytsbot/internal/types"
)

// ErrEmptyCompletion means the model answered with nothing usable.
var ErrEmptyCompletion = errors.New("llm: empty completion")

// Agent writes, repairs and rewrites solutions in one target language.
// It satisfies acquire.Generator and solver.Repairer.
type Agent struct {
	client  Client
	profile langProfile
}

// NewAgent creates an agent for language (as labelled by the judge).
func NewAgent(client Client, language string) *Agent {
	return &Agent{client: client, profile: profileFor(language)}
}

// Generate writes a fresh solution from the problem statement.
func (a *Agent) Generate(ctx context.Context, id types.ProblemIdentity) (string, error) {
	logging.LLM("generating %s solution for %s", a.profile.Name, id.Slug)
	return a.complete(ctx, "generate", generatePrompt(a.profile, id))
}

// Debug asks for a minimal fix of code given the failing outcome.
func (a *Agent) Debug(ctx context.Context, title, code string, outcome judge.TestOutcome) (string, error) {
	logging.LLM("debugging %q after %s", title, outcome.ErrorKind)
	return a.complete(ctx, "debug", debugPrompt(a.profile, title, code, outcome))
}

// Escalate asks for a solution built on a different approach.
func (a *Agent) Escalate(ctx context.Context, title, code string, outcome judge.TestOutcome) (string, error) {
	logging.LLM("escalating %q after %s", title, outcome.ErrorKind)
	return a.complete(ctx, "escalate", escalatePrompt(a.profile, title, code, outcome))
}

func (a *Agent) complete(ctx context.Context, phase, prompt string) (string, error) {
	raw, err := a.client.CompleteWithSystem(ctx, systemPrompt(a.profile), prompt)
	if err != nil {
		return "", fmt.Errorf("%s: %w", phase, err)
	}
	code := acquire.StripFences(raw)
	if code == "" {
		return "", fmt.Errorf("%s: %w", phase, ErrEmptyCompletion)
	}
	logging.LLMDebug("%s produced %d chars", phase, len(code))
	return code, nil
}
