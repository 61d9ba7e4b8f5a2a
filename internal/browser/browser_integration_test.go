//go:build integration

package browser_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bytsbot/internal/browser"
	"bytsbot/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headlessConfig(t *testing.T) config.BrowserConfig {
	cfg := config.DefaultConfig().Browser
	cfg.Headless = true
	cfg.SlowMotion = ""
	cfg.ProfileDir = t.TempDir()
	cfg.NavigationTimeout = "10s"
	cfg.ElementTimeout = "2s"
	return cfg
}

func TestSessionManager_Navigation_Integration(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintln(w, "<html><body><h1>Hello World</h1></body></html>")
	}))
	defer ts.Close()

	sm := browser.NewSessionManager(headlessConfig(t))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	defer func() {
		if err := sm.Shutdown(context.Background()); err != nil {
			t.Logf("Shutdown error: %v", err)
		}
	}()

	s, err := sm.Session(ctx)
	require.NoError(t, err, "Failed to open session")
	require.True(t, sm.IsConnected())

	target := ts.URL + "/problems/two-sum/"
	require.NoError(t, s.Goto(ctx, target))

	url, err := s.CurrentURL(ctx)
	require.NoError(t, err)
	assert.Equal(t, target, url)

	text, err := s.PageText(ctx)
	require.NoError(t, err)
	assert.Contains(t, text, "Hello World")

	html, err := s.PageHTML(ctx)
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Hello World</h1>")
}

func TestSessionManager_Interaction_Integration(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintln(w, `
			<html>
			<body>
				<button id="btn1" onclick="document.getElementById('out').textContent='clicked'">Click Me</button>
				<span id="out"></span>
				<textarea id="inp1">old text</textarea>
			</body>
			</html>
		`)
	}))
	defer ts.Close()

	sm := browser.NewSessionManager(headlessConfig(t))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	defer func() { _ = sm.Shutdown(context.Background()) }()

	s, err := sm.Session(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Goto(ctx, ts.URL))

	buttons := browser.Ranked{browser.CSS("#missing"), browser.WithText("button", "/click me/i")}
	_, err = buttons.Click(ctx, s, time.Second)
	require.NoError(t, err, "Failed to click button")

	out, err := s.Text(ctx, browser.CSS("#out"))
	require.NoError(t, err)
	assert.Equal(t, "clicked", out)

	require.NoError(t, s.ReplaceText(ctx, browser.CSS("#inp1"), "hello"))
	v, err := s.Evaluate(ctx, `() => document.getElementById('inp1').value`)
	require.NoError(t, err)
	assert.Equal(t, "hello", v)

	sum, err := s.Evaluate(ctx, `(a, b) => a + b`, 2, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 5, sum)

	assert.False(t, s.Exists(ctx, browser.CSS("#nope"), 200*time.Millisecond))
}

func TestSession_ZeroTimeoutQueriesOnce_Integration(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintln(w, `<html><body><div data-e2e-locator="submission-result">Accepted</div></body></html>`)
	}))
	defer ts.Close()

	sm := browser.NewSessionManager(headlessConfig(t))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	defer func() { _ = sm.Shutdown(context.Background()) }()

	s, err := sm.Session(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Goto(ctx, ts.URL))

	panel := browser.CSS("[data-e2e-locator='submission-result']")
	assert.True(t, s.Exists(ctx, panel, 0))
	assert.True(t, s.Exists(ctx, browser.WithText("div", "/accepted/i"), 0))
	assert.True(t, s.Visible(ctx, panel, 0))
	assert.False(t, s.Exists(ctx, browser.CSS("#nope"), 0))

	loc, ok := browser.Ranked{browser.CSS("#nope"), panel}.First(ctx, browser.Present(s, 0))
	require.True(t, ok)
	assert.Equal(t, panel, loc)
}
