package scraper

import (
	"context"
	"time"

	"bytsbot/internal/browser"
	"bytsbot/internal/logging"
	"bytsbot/internal/types"
)

var (
	TitleLocators = browser.Ranked{
		browser.CSS("div[data-cy='question-title']"),
		browser.CSS("[class*='text-title']"),
		browser.CSS("a[href*='/problems/'][class*='truncate']"),
	}
	DescriptionLocators = browser.Ranked{
		browser.CSS("[data-track-load='description_content']"),
		browser.CSS("[class*='elfjS']"),
		browser.CSS("div[class*='question-content']"),
	}
)

// ProblemReader reads the problem statement from the open problem page.
type ProblemReader struct {
	d       browser.Driver
	timeout time.Duration
}

// NewProblemReader creates a reader waiting up to timeout per locator.
func NewProblemReader(d browser.Driver, timeout time.Duration) *ProblemReader {
	return &ProblemReader{d: d, timeout: timeout}
}

// Describe builds the problem identity from the page. A missing title falls
// back to one derived from the slug and a missing description is left empty.
func (r *ProblemReader) Describe(ctx context.Context) (types.ProblemIdentity, error) {
	u, err := r.d.CurrentURL(ctx)
	if err != nil {
		return types.ProblemIdentity{}, err
	}
	title, err := TitleLocators.Text(ctx, r.d, r.timeout)
	if err != nil {
		logging.ScraperDebug("title not found: %v", err)
	}
	desc, err := DescriptionLocators.Text(ctx, r.d, r.timeout)
	if err != nil {
		logging.ScraperWarn("description not found on %s", u)
	}

	id := types.NewProblemIdentity(u, title, desc)
	logging.ScraperDebug("problem %s %q (%d chars)", id.Slug, id.Title, len(id.Description))
	return id, nil
}
