// Package browsertest provides a scriptable in-memory browser.Driver for
// package tests.
package browsertest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bytsbot/internal/browser"
)

// Element is a fake DOM node addressed by its locator string.
type Element struct {
	Text    string
	Hidden  bool
	OnClick func(d *Driver)
}

// Driver is a fake browser.Driver. Zero value is usable; Func fields
// override the default behaviour when set.
type Driver struct {
	mu       sync.Mutex
	url      string
	body     string
	html     string
	pages    map[string]string
	elements map[string]*Element
	lists    map[string][]string

	visited []string
	clicked []string
	typed   []string

	GotoFunc     func(url string) error
	PageTextFunc func() (string, error)
	EvalFunc     func(script string, args []any) (any, error)
	ClickFunc    func(loc browser.Locator) error
	ReplaceFunc  func(loc browser.Locator, text string) error
}

var _ browser.Driver = (*Driver)(nil)

// New returns a fake positioned at url.
func New(url string) *Driver {
	return &Driver{url: url}
}

// Set places or replaces an element.
func (d *Driver) Set(loc browser.Locator, el Element) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.elements == nil {
		d.elements = make(map[string]*Element)
	}
	e := el
	d.elements[loc.String()] = &e
}

// Remove detaches an element.
func (d *Driver) Remove(loc browser.Locator) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.elements, loc.String())
}

// SetList sets the texts returned by Texts for a selector.
func (d *Driver) SetList(selector string, texts []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.lists == nil {
		d.lists = make(map[string][]string)
	}
	d.lists[selector] = texts
}

// SetBody sets the page text.
func (d *Driver) SetBody(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.body = text
}

// SetHTML sets the page HTML.
func (d *Driver) SetHTML(html string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.html = html
}

// SetPageHTML sets the HTML served while the fake is at url. It takes
// precedence over SetHTML.
func (d *Driver) SetPageHTML(url, html string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pages == nil {
		d.pages = make(map[string]string)
	}
	d.pages[url] = html
}

// SetURL moves the fake to url without recording a visit.
func (d *Driver) SetURL(url string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.url = url
}

// Visited returns every URL passed to Goto.
func (d *Driver) Visited() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.visited...)
}

// Clicked returns the locator strings clicked so far.
func (d *Driver) Clicked() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.clicked...)
}

// Typed returns the texts passed to ReplaceText.
func (d *Driver) Typed() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.typed...)
}

func (d *Driver) Goto(ctx context.Context, url string) error {
	d.mu.Lock()
	d.visited = append(d.visited, url)
	fn := d.GotoFunc
	d.mu.Unlock()
	if fn != nil {
		if err := fn(url); err != nil {
			return err
		}
	}
	d.SetURL(url)
	return nil
}

func (d *Driver) CurrentURL(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.url, nil
}

func (d *Driver) WaitSettled(ctx context.Context) error { return ctx.Err() }

func (d *Driver) lookup(loc browser.Locator) (*Element, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, ok := d.elements[loc.String()]
	return el, ok
}

// Exists polls the fake until timeout so tests can attach elements late.
func (d *Driver) Exists(ctx context.Context, loc browser.Locator, timeout time.Duration) bool {
	return d.poll(ctx, timeout, func() bool {
		_, ok := d.lookup(loc)
		return ok
	})
}

func (d *Driver) Visible(ctx context.Context, loc browser.Locator, timeout time.Duration) bool {
	return d.poll(ctx, timeout, func() bool {
		el, ok := d.lookup(loc)
		return ok && !el.Hidden
	})
}

func (d *Driver) poll(ctx context.Context, timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for {
		if cond() {
			return true
		}
		if time.Now().After(deadline) || ctx.Err() != nil {
			return false
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func (d *Driver) Click(ctx context.Context, loc browser.Locator) error {
	el, ok := d.lookup(loc)
	if !ok {
		return fmt.Errorf("%w: %s", browser.ErrNotFound, loc)
	}
	d.mu.Lock()
	fn := d.ClickFunc
	d.mu.Unlock()
	if fn != nil {
		if err := fn(loc); err != nil {
			return err
		}
	}
	d.mu.Lock()
	d.clicked = append(d.clicked, loc.String())
	d.mu.Unlock()
	if el.OnClick != nil {
		el.OnClick(d)
	}
	return nil
}

func (d *Driver) Text(ctx context.Context, loc browser.Locator) (string, error) {
	el, ok := d.lookup(loc)
	if !ok {
		return "", fmt.Errorf("%w: %s", browser.ErrNotFound, loc)
	}
	return el.Text, nil
}

func (d *Driver) Texts(ctx context.Context, loc browser.Locator) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.lists[loc.Selector]...), nil
}

func (d *Driver) PageText(ctx context.Context) (string, error) {
	d.mu.Lock()
	fn := d.PageTextFunc
	body := d.body
	d.mu.Unlock()
	if fn != nil {
		return fn()
	}
	return body, nil
}

func (d *Driver) PageHTML(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if html, ok := d.pages[d.url]; ok {
		return html, nil
	}
	return d.html, nil
}

func (d *Driver) Evaluate(ctx context.Context, script string, args ...any) (any, error) {
	d.mu.Lock()
	fn := d.EvalFunc
	d.mu.Unlock()
	if fn == nil {
		return nil, fmt.Errorf("evaluate: no page script support")
	}
	return fn(script, args)
}

func (d *Driver) ReplaceText(ctx context.Context, loc browser.Locator, text string) error {
	if _, ok := d.lookup(loc); !ok {
		return fmt.Errorf("%w: %s", browser.ErrNotFound, loc)
	}
	d.mu.Lock()
	d.typed = append(d.typed, text)
	fn := d.ReplaceFunc
	d.mu.Unlock()
	if fn != nil {
		return fn(loc, text)
	}
	return nil
}
