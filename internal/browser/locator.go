package browser

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when no locator in a ranked set matches.
var ErrNotFound = errors.New("element not found")

// Locator describes one way of finding an element: a CSS selector,
// optionally narrowed by a JS regex over the element text ("/^Run$/i").
type Locator struct {
	Selector string
	Text     string
}

// CSS returns a selector-only locator.
func CSS(selector string) Locator {
	return Locator{Selector: selector}
}

// WithText returns a locator matching elements whose text matches the regex.
func WithText(selector, regex string) Locator {
	return Locator{Selector: selector, Text: regex}
}

func (l Locator) String() string {
	if l.Text == "" {
		return l.Selector
	}
	return l.Selector + " " + l.Text
}

// Predicate reports whether a locator satisfies some capability
// (present, visible, clickable) on the live page.
type Predicate func(ctx context.Context, loc Locator) bool

// Ranked is an ordered set of locators, most specific first.
type Ranked []Locator

// First returns the first locator satisfying pred.
func (r Ranked) First(ctx context.Context, pred Predicate) (Locator, bool) {
	for _, loc := range r {
		if ctx.Err() != nil {
			return Locator{}, false
		}
		if pred(ctx, loc) {
			return loc, true
		}
	}
	return Locator{}, false
}

// Present is a predicate satisfied by locators that attach within timeout.
func Present(d Driver, timeout time.Duration) Predicate {
	return func(ctx context.Context, loc Locator) bool {
		return d.Exists(ctx, loc, timeout)
	}
}

// Shown is a predicate satisfied by locators that become visible within timeout.
func Shown(d Driver, timeout time.Duration) Predicate {
	return func(ctx context.Context, loc Locator) bool {
		return d.Visible(ctx, loc, timeout)
	}
}

// FirstVisible returns the first locator visible within timeout.
func (r Ranked) FirstVisible(ctx context.Context, d Driver, timeout time.Duration) (Locator, error) {
	if loc, ok := r.First(ctx, Shown(d, timeout)); ok {
		return loc, nil
	}
	return Locator{}, fmt.Errorf("%w: none of %d locators visible", ErrNotFound, len(r))
}

// Click clicks the first visible locator.
func (r Ranked) Click(ctx context.Context, d Driver, timeout time.Duration) (Locator, error) {
	loc, err := r.FirstVisible(ctx, d, timeout)
	if err != nil {
		return Locator{}, err
	}
	if err := d.Click(ctx, loc); err != nil {
		return loc, fmt.Errorf("click %s: %w", loc, err)
	}
	return loc, nil
}

// Text reads the text of the first present locator that has non-empty text.
func (r Ranked) Text(ctx context.Context, d Driver, timeout time.Duration) (string, error) {
	var text string
	_, ok := r.First(ctx, func(ctx context.Context, loc Locator) bool {
		if !d.Exists(ctx, loc, timeout) {
			return false
		}
		t, err := d.Text(ctx, loc)
		if err != nil || t == "" {
			return false
		}
		text = t
		return true
	})
	if !ok {
		return "", fmt.Errorf("%w: no text under %d locators", ErrNotFound, len(r))
	}
	return text, nil
}
