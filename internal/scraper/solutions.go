// Package scraper reads problem statements and community solutions from
// the judge site.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"bytsbot/internal/acquire"
	"bytsbot/internal/browser"
	"bytsbot/internal/logging"
)

// ErrNoSolution means no community solution passed the validator.
var ErrNoSolution = errors.New("scraper: no usable community solution")

var problemURL = regexp.MustCompile(`^(https?://[^/]+/problems/[^/?#]+)`)

// CopyButtons locate a solution's copy-to-clipboard control.
var CopyButtons = browser.Ranked{
	browser.WithText("button", `^\s*Copy\s*$`),
	browser.CSS("[aria-label*='copy' i]"),
	browser.CSS("[title*='copy' i]"),
}

const (
	// readModelJS reads the first Monaco model on a read-only solution page.
	readModelJS = `() => {
		if (typeof monaco === 'undefined') return null;
		const models = monaco.editor.getModels();
		return models && models.length > 0 ? models[0].getValue() : null;
	}`
	readClipboardJS = `() => navigator.clipboard.readText()`
)

// SolutionScraper walks the community solutions of the current problem.
type SolutionScraper struct {
	d         browser.Driver
	language  string
	validator acquire.Validator

	NavTries    int
	NavPause    time.Duration
	MaxPages    int
	CopyTimeout time.Duration
	CopySettle  time.Duration
}

// NewSolutionScraper creates a scraper filtering by language.
func NewSolutionScraper(d browser.Driver, language string) *SolutionScraper {
	return &SolutionScraper{
		d:           d,
		language:    language,
		validator:   acquire.ValidatorFor(language),
		NavTries:    3,
		NavPause:    2 * time.Second,
		MaxPages:    10,
		CopyTimeout: 5 * time.Second,
		CopySettle:  500 * time.Millisecond,
	}
}

// SolutionsURL derives the language-filtered listing for a problem URL.
func SolutionsURL(problem, language string) (string, error) {
	m := problemURL.FindStringSubmatch(problem)
	if m == nil {
		return "", fmt.Errorf("scraper: not a problem URL: %q", problem)
	}
	tag := strings.ToLower(strings.TrimSpace(language))
	switch tag {
	case "c++":
		tag = "cpp"
	case "python":
		tag = "python3"
	}
	return m[1] + "/solutions/?languageTags=" + url.QueryEscape(tag), nil
}

// BestSolution returns the first community solution the validator accepts.
// Detail pages are tried from the second listing position onwards and the
// first one last. The page is returned to the problem afterwards.
func (s *SolutionScraper) BestSolution(ctx context.Context) (string, error) {
	problem, err := s.d.CurrentURL(ctx)
	if err != nil {
		return "", err
	}
	listing, err := SolutionsURL(problem, s.language)
	if err != nil {
		return "", err
	}
	defer s.restore(problem)

	if err := s.open(ctx, listing); err != nil {
		return "", err
	}

	page, err := s.d.PageHTML(ctx)
	if err != nil {
		return "", fmt.Errorf("scraper: read listing: %w", err)
	}
	base, _ := url.Parse(listing)
	links := SolutionLinks(page, base)
	if len(links) == 0 {
		logging.ScraperWarn("no solution links on %s", listing)
		if blocks := CodeBlocks(page); len(blocks) > 0 {
			logging.ScraperWarn("using the first code block on the listing page")
			return blocks[0], nil
		}
		return "", ErrNoSolution
	}

	order := visitOrder(len(links), s.MaxPages)
	logging.Scraper("found %d solution links, trying %d", len(links), len(order))
	for attempt, idx := range order {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		link := links[idx]
		logging.ScraperDebug("attempt %d (position %d): %s", attempt+1, idx+1, link)
		if err := s.d.Goto(ctx, link); err != nil {
			logging.ScraperDebug("navigation failed for %s: %v", link, err)
			continue
		}
		_ = s.d.WaitSettled(ctx)

		if code := s.extract(ctx); s.validator.IsUsable(code) {
			logging.Scraper("usable solution at position %d (%d chars)", idx+1, len(code))
			return code, nil
		}
	}
	return "", ErrNoSolution
}

// visitOrder is 1..n-1 then 0, capped at limit.
func visitOrder(n, limit int) []int {
	order := make([]int, 0, n)
	for i := 1; i < n; i++ {
		order = append(order, i)
	}
	order = append(order, 0)
	if limit > 0 && len(order) > limit {
		order = order[:limit]
	}
	return order
}

func (s *SolutionScraper) open(ctx context.Context, listing string) error {
	var err error
	for attempt := 1; attempt <= s.NavTries; attempt++ {
		if err = s.d.Goto(ctx, listing); err == nil {
			_ = s.d.WaitSettled(ctx)
			logging.ScraperDebug("opened %s", listing)
			return nil
		}
		logging.ScraperWarn("solutions navigation failed (attempt %d/%d): %v", attempt, s.NavTries, err)
		if attempt < s.NavTries && !sleep(ctx, s.NavPause) {
			return ctx.Err()
		}
	}
	return fmt.Errorf("scraper: open solutions: %w", err)
}

// extract reads code from a solution page: editor model, then HTML code
// blocks, then the copy button.
func (s *SolutionScraper) extract(ctx context.Context) string {
	if v, err := s.d.Evaluate(ctx, readModelJS); err == nil {
		if code, ok := v.(string); ok && len(strings.TrimSpace(code)) > minCodeLen {
			return strings.TrimSpace(code)
		}
	}

	if page, err := s.d.PageHTML(ctx); err == nil {
		for _, code := range CodeBlocks(page) {
			if s.validator.IsUsable(code) {
				return code
			}
		}
	}

	if _, err := CopyButtons.Click(ctx, s.d, s.CopyTimeout); err != nil {
		return ""
	}
	sleep(ctx, s.CopySettle)
	v, err := s.d.Evaluate(ctx, readClipboardJS)
	if err != nil {
		logging.ScraperDebug("clipboard read failed: %v", err)
		return ""
	}
	code, _ := v.(string)
	return strings.TrimSpace(code)
}

func (s *SolutionScraper) restore(problem string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.d.Goto(ctx, problem); err != nil {
		logging.ScraperWarn("could not return to %s: %v", problem, err)
		return
	}
	_ = s.d.WaitSettled(ctx)
}

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
