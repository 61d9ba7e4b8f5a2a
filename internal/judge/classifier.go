package judge

import (
	"context"
	"fmt"
	"time"

	"bytsbot/internal/config"
	"bytsbot/internal/logging"
)

// TextSource yields the current raw result text on each poll.
type TextSource interface {
	ResultText(ctx context.Context) (string, error)
}

// TextSourceFunc adapts a function to TextSource.
type TextSourceFunc func(ctx context.Context) (string, error)

// ResultText implements TextSource.
func (f TextSourceFunc) ResultText(ctx context.Context) (string, error) { return f(ctx) }

// StaticText is a TextSource that always returns the same text.
type StaticText string

// ResultText implements TextSource.
func (s StaticText) ResultText(context.Context) (string, error) { return string(s), nil }

// Classifier polls a TextSource until ParseResult finds a signal.
type Classifier struct {
	PollBudget   int
	PollInterval time.Duration
	// FailClosed turns a missing Run control into an Unknown failure
	// instead of a pass.
	FailClosed bool
}

// NewClassifier builds a classifier from solver settings.
func NewClassifier(cfg config.SolverConfig) *Classifier {
	return &Classifier{
		PollBudget:   cfg.GetRunPollBudget(),
		PollInterval: cfg.GetRunPollInterval(),
		FailClosed:   cfg.FailClosed(),
	}
}

// Classify returns the outcome of a triggered run. When the run could not be
// triggered the result depends on FailClosed and src is never read.
func (c *Classifier) Classify(ctx context.Context, src TextSource, runTriggered bool) TestOutcome {
	if !runTriggered {
		if c.FailClosed {
			logging.JudgeWarn("run control missing, failing closed")
			return Failure(Unknown, "run control not found", "", "")
		}
		logging.JudgeWarn("run control missing, skipping local verification")
		return Pass()
	}

	budget := c.PollBudget
	if budget <= 0 {
		budget = 1
	}
	for poll := 1; poll <= budget; poll++ {
		text, err := src.ResultText(ctx)
		if err != nil {
			logging.JudgeDebug("poll %d/%d: %v", poll, budget, err)
		} else if outcome, ok := ParseResult(text); ok {
			logging.Judge("result after %d poll(s): %s", poll, outcome.ErrorKind)
			return outcome
		}
		if poll == budget {
			break
		}
		if !sleep(ctx, c.PollInterval) {
			break
		}
	}

	logging.JudgeWarn("no result within %d polls", budget)
	return Failure(Timeout, fmt.Sprintf("no result after %d polls", budget), "", "")
}

// sleep waits d or until ctx ends; it reports whether the full wait elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
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
