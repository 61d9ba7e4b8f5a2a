// Package browser drives a single Chromium page through go-rod.
// Every component receives the page as a Driver; no package holds a
// global page handle.
package browser

import (
	"context"
	"time"
)

// Driver is the UI capability shared by the scraper, editor bridge, judge
// console and portal navigator. Implementations serialize access to one tab.
type Driver interface {
	Goto(ctx context.Context, url string) error
	CurrentURL(ctx context.Context) (string, error)
	WaitSettled(ctx context.Context) error

	// Exists and Visible wait up to timeout and never return errors.
	Exists(ctx context.Context, loc Locator, timeout time.Duration) bool
	Visible(ctx context.Context, loc Locator, timeout time.Duration) bool

	Click(ctx context.Context, loc Locator) error
	Text(ctx context.Context, loc Locator) (string, error)
	Texts(ctx context.Context, loc Locator) ([]string, error)
	PageText(ctx context.Context) (string, error)
	PageHTML(ctx context.Context) (string, error)

	// Evaluate runs a JS function expression with args and returns its
	// JSON-decoded result.
	Evaluate(ctx context.Context, script string, args ...any) (any, error)

	// ReplaceText focuses the element, selects all, deletes and types text.
	ReplaceText(ctx context.Context, loc Locator, text string) error
}
