package judge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bytsbot/internal/browser"
	"bytsbot/internal/config"
	"bytsbot/internal/logging"
)

// Judge page controls, most specific first.
var (
	RunButtons = browser.Ranked{
		browser.CSS("[data-e2e-locator='console-run-button']"),
		browser.CSS("button[data-cy='run-code-btn']"),
		browser.WithText("button", "/^\\s*Run\\s*$/i"),
	}
	SubmitButtons = browser.Ranked{
		browser.CSS("[data-e2e-locator='console-submit-button']"),
		browser.CSS("button[data-cy='submit-code-btn']"),
		browser.WithText("button", "/^\\s*Submit\\s*$/i"),
	}
	// RunResultPanels hold the local run output.
	RunResultPanels = browser.Ranked{
		browser.CSS("[data-e2e-locator='console-result']"),
		browser.CSS("[data-layout-path*='testResult']"),
	}
	// SubmissionPanels hold the canonical submission verdict.
	SubmissionPanels = browser.Ranked{
		browser.CSS("[data-e2e-locator='submission-result']"),
		browser.CSS("[class*='submission-result']"),
	}
	// AcceptedBadges are the styled verdict used when no panel text renders.
	AcceptedBadges = browser.Ranked{
		browser.WithText("[class*='text-green-s']", "/Accepted/"),
		browser.WithText("[class*='text-green']", "/Accepted/"),
	}
)

// defaultStaleGrace is how long a result identical to the pre-click text is
// ignored when the panel never changes, so a verdict left over from the
// previous cycle is not re-read.
const defaultStaleGrace = 10 * time.Second

// Console clicks Run and Submit on the judge page and classifies the result.
type Console struct {
	d           browser.Driver
	classifier  *Classifier
	interval    time.Duration
	submitWait  time.Duration
	cssWait     time.Duration
	staleGrace  time.Duration
	elemTimeout time.Duration
}

// NewConsole creates a console over the judge tab.
func NewConsole(d browser.Driver, cfg config.SolverConfig, elemTimeout time.Duration) *Console {
	return &Console{
		d:           d,
		classifier:  NewClassifier(cfg),
		interval:    cfg.GetRunPollInterval(),
		submitWait:  cfg.GetSubmitWait(),
		cssWait:     cfg.GetCSSFallbackWait(),
		staleGrace:  defaultStaleGrace,
		elemTimeout: elemTimeout,
	}
}

// Run triggers a local run against the sample tests and classifies it. A
// missing Run control is left to the classifier's fallback policy; a control
// that is shown but cannot be clicked is returned as an error.
func (c *Console) Run(ctx context.Context) (TestOutcome, error) {
	before, _ := c.resultText(ctx)
	loc, err := RunButtons.FirstVisible(ctx, c.d, c.elemTimeout)
	if err != nil {
		logging.JudgeDebug("run: %v", err)
		return c.classifier.Classify(ctx, nil, false), nil
	}
	if err := c.press(ctx, loc); err != nil {
		return TestOutcome{}, fmt.Errorf("run: %w", err)
	}

	clicked := time.Now()
	changed := false
	src := TextSourceFunc(func(ctx context.Context) (string, error) {
		text, err := c.resultText(ctx)
		if err != nil {
			return "", err
		}
		if text != before {
			changed = true
		}
		// Unchanged text is no signal until the panel moves or the grace ends.
		if !changed && before != "" && time.Since(clicked) < c.staleGrace {
			return "", nil
		}
		return text, nil
	})
	return c.classifier.Classify(ctx, src, true), nil
}

// press clicks loc, retrying once after a poll interval.
func (c *Console) press(ctx context.Context, loc browser.Locator) error {
	err := c.d.Click(ctx, loc)
	if err == nil {
		return nil
	}
	logging.JudgeWarn("click %s failed, retrying: %v", loc, err)
	if !sleep(ctx, c.interval) {
		return ctx.Err()
	}
	if err := c.d.Click(ctx, loc); err != nil {
		return fmt.Errorf("click %s: %w", loc, err)
	}
	return nil
}

func (c *Console) resultText(ctx context.Context) (string, error) {
	if loc, ok := RunResultPanels.First(ctx, browser.Present(c.d, 0)); ok {
		if text, err := c.d.Text(ctx, loc); err == nil && strings.TrimSpace(text) != "" {
			return text, nil
		}
	}
	return c.d.PageText(ctx)
}

// Submit clicks Submit and waits for the verdict. A missing Submit control
// is an error; every other outcome is reported as a TestOutcome.
func (c *Console) Submit(ctx context.Context) (TestOutcome, error) {
	before := c.submissionText(ctx)
	if _, err := SubmitButtons.Click(ctx, c.d, c.elemTimeout); err != nil {
		return TestOutcome{}, fmt.Errorf("submit: %w", err)
	}
	logging.Judge("submitted, waiting up to %s for the verdict", c.submitWait)

	deadline := time.Now().Add(c.submitWait)
	for {
		text := c.submissionText(ctx)
		if text != "" && text != before {
			if outcome, ok := interpretSubmission(text); ok {
				return outcome, nil
			}
		}
		if time.Now().After(deadline) || !sleep(ctx, c.interval) {
			break
		}
	}

	if _, ok := AcceptedBadges.First(ctx, browser.Shown(c.d, c.cssWait)); ok {
		logging.Judge("verdict panel missing, accepted badge shown")
		return Pass(), nil
	}

	page, _ := c.d.PageText(ctx)
	if outcome, ok := ParseResult(page); ok && !outcome.Passed {
		return outcome, nil
	}
	logging.JudgeWarn("no submission verdict within %s", c.submitWait)
	return Failure(WrongAnswer, "submission verdict not shown", "", ""), nil
}

func (c *Console) submissionText(ctx context.Context) string {
	loc, ok := SubmissionPanels.First(ctx, browser.Present(c.d, 0))
	if !ok {
		return ""
	}
	text, err := c.d.Text(ctx, loc)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

// interpretSubmission reads a verdict panel. Failures without a recognised
// token become WrongAnswer so they enter the same repair budget.
func interpretSubmission(text string) (TestOutcome, bool) {
	if outcome, ok := ParseResult(text); ok && !outcome.Passed {
		return outcome, true
	}
	if strings.Contains(text, string(Accepted)) {
		return Pass(), true
	}
	lower := strings.ToLower(text)
	if strings.Contains(lower, "pending") || strings.Contains(lower, "judging") {
		return TestOutcome{}, false
	}
	first, _, _ := strings.Cut(text, "\n")
	return Failure(WrongAnswer, strings.TrimSpace(first), "", ""), true
}
