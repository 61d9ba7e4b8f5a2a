package browser

import (
	"context"
	"fmt"
	"time"

	"bytsbot/internal/logging"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
)

// Session is the rod-backed Driver for one tab.
type Session struct {
	page        *rod.Page
	navTimeout  time.Duration
	elemTimeout time.Duration
}

var _ Driver = (*Session)(nil)

func newSession(page *rod.Page, nav, elem time.Duration) *Session {
	return &Session{page: page, navTimeout: nav, elemTimeout: elem}
}

// Page exposes the underlying rod page.
func (s *Session) Page() *rod.Page {
	return s.page
}

// Goto navigates and waits for the page to settle.
func (s *Session) Goto(ctx context.Context, url string) error {
	logging.BrowserDebug("goto %s", url)
	if err := s.page.Context(ctx).Timeout(s.navTimeout).Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return s.WaitSettled(ctx)
}

// CurrentURL returns the tab's URL.
func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	info, err := s.page.Context(ctx).Info()
	if err != nil {
		return "", fmt.Errorf("page info: %w", err)
	}
	return info.URL, nil
}

// WaitSettled waits for load, then briefly for JS idle. Single-page apps
// rarely go fully idle, so the idle wait is best effort.
func (s *Session) WaitSettled(ctx context.Context) error {
	p := s.page.Context(ctx).Timeout(s.navTimeout)
	defer p.CancelTimeout()
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("wait load: %w", err)
	}
	if err := s.page.Context(ctx).WaitIdle(2 * time.Second); err != nil {
		logging.BrowserDebug("page not idle: %v", err)
	}
	return nil
}

func (s *Session) find(ctx context.Context, loc Locator, timeout time.Duration) (*rod.Element, error) {
	if timeout <= 0 {
		return s.query(ctx, loc)
	}
	p := s.page.Context(ctx).Timeout(timeout)
	var (
		el  *rod.Element
		err error
	)
	if loc.Text != "" {
		el, err = p.ElementR(loc.Selector, loc.Text)
	} else {
		el, err = p.Element(loc.Selector)
	}
	if err != nil {
		p.CancelTimeout()
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, loc, err)
	}
	return el.CancelTimeout().Context(ctx), nil
}

// query looks loc up once without waiting. A zero page timeout would be an
// already-expired context, so no timeout is applied here.
func (s *Session) query(ctx context.Context, loc Locator) (*rod.Element, error) {
	p := s.page.Context(ctx)
	var (
		has bool
		el  *rod.Element
		err error
	)
	if loc.Text != "" {
		has, el, err = p.HasR(loc.Selector, loc.Text)
	} else {
		has, el, err = p.Has(loc.Selector)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, loc, err)
	}
	if !has {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, loc)
	}
	return el, nil
}

// Exists reports whether loc attaches within timeout.
func (s *Session) Exists(ctx context.Context, loc Locator, timeout time.Duration) bool {
	_, err := s.find(ctx, loc, timeout)
	return err == nil
}

// Visible reports whether loc is visible within timeout.
func (s *Session) Visible(ctx context.Context, loc Locator, timeout time.Duration) bool {
	start := time.Now()
	el, err := s.find(ctx, loc, timeout)
	if err != nil {
		return false
	}
	remaining := timeout - time.Since(start)
	if remaining <= 0 {
		ok, err := el.Visible()
		return err == nil && ok
	}
	return el.Timeout(remaining).WaitVisible() == nil
}

// Click scrolls loc into view and clicks it.
func (s *Session) Click(ctx context.Context, loc Locator) error {
	el, err := s.find(ctx, loc, s.elemTimeout)
	if err != nil {
		return err
	}
	_ = el.ScrollIntoView()
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %s: %w", loc, err)
	}
	return nil
}

// Text returns the visible text of loc.
func (s *Session) Text(ctx context.Context, loc Locator) (string, error) {
	el, err := s.find(ctx, loc, s.elemTimeout)
	if err != nil {
		return "", err
	}
	return el.Text()
}

// Texts returns the text of every element currently matching loc.Selector.
// It does not wait.
func (s *Session) Texts(ctx context.Context, loc Locator) ([]string, error) {
	els, err := s.page.Context(ctx).Elements(loc.Selector)
	if err != nil {
		return nil, fmt.Errorf("elements %s: %w", loc.Selector, err)
	}
	out := make([]string, 0, len(els))
	for _, el := range els {
		t, err := el.Text()
		if err != nil {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// PageText returns document.body.innerText.
func (s *Session) PageText(ctx context.Context) (string, error) {
	res, err := s.page.Context(ctx).Eval(`() => document.body ? document.body.innerText : ""`)
	if err != nil {
		return "", fmt.Errorf("page text: %w", err)
	}
	return res.Value.Str(), nil
}

// PageHTML returns the serialized document.
func (s *Session) PageHTML(ctx context.Context) (string, error) {
	html, err := s.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("page html: %w", err)
	}
	return html, nil
}

// Evaluate runs script with args, awaiting a returned promise.
func (s *Session) Evaluate(ctx context.Context, script string, args ...any) (any, error) {
	res, err := s.page.Context(ctx).Timeout(s.navTimeout).Evaluate(rod.Eval(script, args...).ByPromise())
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	if res == nil {
		return nil, nil
	}
	return res.Value.Val(), nil
}

// ReplaceText clears the focused element with Ctrl+A, Backspace and types text.
func (s *Session) ReplaceText(ctx context.Context, loc Locator, text string) error {
	if err := s.Click(ctx, loc); err != nil {
		return err
	}
	p := s.page.Context(ctx)
	if err := p.KeyActions().Press(input.ControlLeft).Type(input.KeyA).Release(input.ControlLeft).Do(); err != nil {
		return fmt.Errorf("select all: %w", err)
	}
	if err := p.KeyActions().Type(input.Backspace).Do(); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	if err := p.InsertText(text); err != nil {
		return fmt.Errorf("insert text: %w", err)
	}
	return nil
}
