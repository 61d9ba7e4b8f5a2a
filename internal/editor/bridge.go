// Package editor selects the judge's language and writes code into its
// Monaco editor.
package editor

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode"

	"bytsbot/internal/browser"
	"bytsbot/internal/logging"
)

const languageAttempts = 3

var (
	// LanguageButtons open the language picker and show the current label.
	LanguageButtons = browser.Ranked{
		browser.CSS("[data-e2e-locator='console-language-button']"),
		browser.CSS("#editor button[aria-haspopup='dialog']"),
		browser.CSS("button[id^='headlessui-popover-button']"),
	}
	// Surfaces receive keyboard input on the fallback path.
	Surfaces = browser.Ranked{
		browser.CSS(".monaco-editor textarea.inputarea"),
		browser.CSS(".monaco-editor textarea"),
		browser.CSS(".monaco-editor .view-lines"),
	}
	viewLines = browser.CSS(".monaco-editor .view-lines")
)

const setModelJS = `(code) => {
	if (typeof monaco === 'undefined' || !monaco.editor) return null;
	const models = monaco.editor.getModels();
	if (!models.length) return null;
	models[0].setValue(code);
	return models[0].getValue();
}`

const readModelJS = `() => {
	if (typeof monaco === 'undefined' || !monaco.editor) return null;
	const models = monaco.editor.getModels();
	return models.length ? models[0].getValue() : null;
}`

// Bridge drives the editor surface of the judge tab.
type Bridge struct {
	d       browser.Driver
	timeout time.Duration
}

// NewBridge creates a bridge; timeout bounds each locator wait.
func NewBridge(d browser.Driver, timeout time.Duration) *Bridge {
	return &Bridge{d: d, timeout: timeout}
}

// LanguageMatches compares a language label with a target by whole token,
// ignoring case. "JavaScript" does not match "Java".
func LanguageMatches(label, target string) bool {
	want := strings.ToLower(strings.TrimSpace(target))
	if want == "" {
		return false
	}
	for _, tok := range strings.FieldsFunc(strings.ToLower(label), isLabelSeparator) {
		if tok == want {
			return true
		}
	}
	return false
}

func isLabelSeparator(r rune) bool {
	return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#')
}

// CurrentLanguage reads the selected language label.
func (b *Bridge) CurrentLanguage(ctx context.Context) (string, error) {
	label, err := LanguageButtons.Text(ctx, b.d, b.timeout)
	return strings.TrimSpace(label), err
}

// EnsureLanguage selects target in the picker. It returns false after three
// failed attempts and never errors; callers inject regardless.
func (b *Bridge) EnsureLanguage(ctx context.Context, target string) bool {
	if label, err := b.CurrentLanguage(ctx); err == nil && LanguageMatches(label, target) {
		logging.EditorDebug("language already %s", label)
		return true
	}

	options := languageOptions(target)
	for attempt := 1; attempt <= languageAttempts; attempt++ {
		if ctx.Err() != nil {
			break
		}
		if _, err := LanguageButtons.Click(ctx, b.d, b.timeout); err != nil {
			logging.EditorDebug("language attempt %d: picker: %v", attempt, err)
			continue
		}
		if _, err := options.Click(ctx, b.d, b.timeout); err != nil {
			logging.EditorDebug("language attempt %d: option: %v", attempt, err)
			continue
		}
		if label, err := b.CurrentLanguage(ctx); err == nil && LanguageMatches(label, target) {
			logging.Editor("language set to %s (attempt %d)", label, attempt)
			return true
		}
	}
	logging.EditorWarn("could not select %s after %d attempts, injecting anyway", target, languageAttempts)
	return false
}

// languageOptions matches picker entries whose whole text is target.
func languageOptions(target string) browser.Ranked {
	exact := "/^\\s*" + regexp.QuoteMeta(target) + "\\s*$/i"
	return browser.Ranked{
		browser.WithText("[role='option']", exact),
		browser.WithText("[role='menuitem']", exact),
		browser.WithText("div[class*='cursor-pointer']", exact),
		browser.WithText("li", exact),
	}
}

// Inject writes code into the editor and verifies it. The model path sets
// the value directly and requires an exact read-back; the keyboard path only
// requires the code to appear, since auto-indent may alter whitespace.
func (b *Bridge) Inject(ctx context.Context, code string) bool {
	got, err := b.d.Evaluate(ctx, setModelJS, code)
	if err == nil {
		if s, ok := got.(string); ok && normalizeNewlines(s) == normalizeNewlines(code) {
			logging.EditorDebug("injected %d chars via editor model", len(code))
			return true
		}
		logging.EditorDebug("editor model unavailable or read-back mismatch")
	} else {
		logging.EditorDebug("editor model: %v", err)
	}

	loc, err := Surfaces.FirstVisible(ctx, b.d, b.timeout)
	if err != nil {
		logging.EditorWarn("no editor surface: %v", err)
		return false
	}
	if err := b.d.ReplaceText(ctx, loc, code); err != nil {
		logging.EditorWarn("typing into editor: %v", err)
		return false
	}
	if strings.Contains(squash(b.readBack(ctx)), squash(code)) {
		logging.Editor("injected %d chars via keyboard", len(code))
		return true
	}
	logging.EditorWarn("keyboard injection could not be verified")
	return false
}

func (b *Bridge) readBack(ctx context.Context) string {
	if v, err := b.d.Evaluate(ctx, readModelJS); err == nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	text, _ := b.d.Text(ctx, viewLines)
	return text
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// squash drops all whitespace.
func squash(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
