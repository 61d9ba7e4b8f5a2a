// Package acquire produces a candidate solution for a problem, preferring
// community solutions and falling back to model generation.
package acquire

import (
	"context"
	"errors"
	"fmt"

	"bytsbot/internal/logging"
	"bytsbot/internal/types"
)

// ErrNoCandidate is returned when neither scraping nor generation produced code.
var ErrNoCandidate = errors.New("no usable solution candidate")

// Scraper finds an existing solution for the problem on the current page.
type Scraper interface {
	BestSolution(ctx context.Context) (string, error)
}

// Generator writes a solution from the problem statement.
type Generator interface {
	Generate(ctx context.Context, id types.ProblemIdentity) (string, error)
}

// ScraperFunc adapts a function to Scraper.
type ScraperFunc func(ctx context.Context) (string, error)

// BestSolution implements Scraper.
func (f ScraperFunc) BestSolution(ctx context.Context) (string, error) { return f(ctx) }

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, id types.ProblemIdentity) (string, error)

// Generate implements Generator.
func (f GeneratorFunc) Generate(ctx context.Context, id types.ProblemIdentity) (string, error) {
	return f(ctx, id)
}

// Origin records where a candidate came from.
type Origin string

const (
	FromScraper   Origin = "scraped"
	FromGenerator Origin = "generated"
)

// Acquirer tries the scraper, then the generator.
type Acquirer struct {
	scraper   Scraper
	generator Generator
	validator Validator
}

// New creates an Acquirer. A nil scraper skips straight to generation.
func New(s Scraper, g Generator, v Validator) *Acquirer {
	return &Acquirer{scraper: s, generator: g, validator: v}
}

// Acquire returns a candidate and its origin, or ErrNoCandidate.
func (a *Acquirer) Acquire(ctx context.Context, id types.ProblemIdentity) (string, Origin, error) {
	if a.scraper != nil {
		code, err := a.scraper.BestSolution(ctx)
		switch {
		case err != nil:
			logging.ScraperWarn("scrape %s: %v", id.Slug, err)
		case a.validator.IsUsable(code):
			logging.Scraper("using community solution for %s (%d chars)", id.Slug, len(code))
			return code, FromScraper, nil
		case code != "":
			logging.ScraperDebug("scraped candidate for %s rejected (%d chars)", id.Slug, len(code))
		}
	}

	if a.generator == nil {
		return "", "", fmt.Errorf("%w: %s", ErrNoCandidate, id.Slug)
	}
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	logging.LLM("generating solution for %q", id.Title)
	code, err := a.generator.Generate(ctx, id)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s: generate: %v", ErrNoCandidate, id.Slug, err)
	}
	code = StripFences(code)
	if code == "" {
		return "", "", fmt.Errorf("%w: %s: empty generation", ErrNoCandidate, id.Slug)
	}
	if !a.validator.IsUsable(code) {
		// Generated code is trusted over an empty editor; the judge decides.
		logging.LLMWarn("generated code for %s looks incomplete (%d chars)", id.Slug, len(code))
	}
	return code, FromGenerator, nil
}
