package portal

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"bytsbot/internal/browser"
	"bytsbot/internal/config"
	"bytsbot/internal/logging"
)

// ErrLoginRequired means a login wall is up and no manual login arrived.
var ErrLoginRequired = errors.New("portal: login required")

var (
	// PortalSignedIn are present only for a signed-in portal session.
	PortalSignedIn = browser.Ranked{
		browser.WithText("button", `Courses`),
		browser.CSS("[class*='sidebar']"),
		browser.CSS("nav"),
	}
	// JudgeSignedIn are present only for a signed-in judge session.
	JudgeSignedIn = browser.Ranked{
		browser.CSS("[class*='nav-user-icon']"),
		browser.CSS("img[alt='avatar']"),
		browser.CSS("a[href*='/u/']"),
		browser.CSS("#navbar-right"),
		browser.CSS(".nav-user-icon-base"),
	}
	// JudgeSignIn is the judge's sign-in affordance.
	JudgeSignIn = browser.Ranked{
		browser.CSS("a[href*='/accounts/login']"),
		browser.WithText("button", `(?i)^\s*Sign in\s*$`),
		browser.WithText("a", `(?i)^\s*Sign in\s*$`),
	}
)

// Auth detects login walls and waits for the user to sign in by hand in
// the headed browser.
type Auth struct {
	d         browser.Driver
	portalURL string
	judgeURL  string
	wait      time.Duration

	Probe        time.Duration
	PollInterval time.Duration
}

// NewAuth creates an Auth for the configured portal and judge.
func NewAuth(d browser.Driver, portal config.PortalConfig, judge config.JudgeConfig) *Auth {
	return &Auth{
		d:            d,
		portalURL:    portal.CoursesURL,
		judgeURL:     judge.BaseURL,
		wait:         portal.GetLoginWait(),
		Probe:        3 * time.Second,
		PollInterval: 2 * time.Second,
	}
}

// LoginRequired reports whether the current page is behind a login wall.
func (a *Auth) LoginRequired(ctx context.Context) bool {
	u, err := a.d.CurrentURL(ctx)
	if err != nil {
		return false
	}
	if isLoginURL(u) {
		return true
	}
	switch {
	case sameHost(u, a.judgeURL):
		return !a.judgeSignedIn(ctx, u)
	case sameHost(u, a.portalURL):
		_, err := PortalSignedIn.FirstVisible(ctx, a.d, a.Probe)
		return err != nil
	}
	return false
}

// EnsureLoggedIn visits the portal and the judge in turn and, for each
// one showing a login wall, waits for a manual login.
func (a *Auth) EnsureLoggedIn(ctx context.Context) error {
	for _, site := range []struct{ name, url string }{
		{"portal", a.portalURL},
		{"judge", a.judgeURL},
	} {
		if err := a.d.Goto(ctx, site.url); err != nil {
			return fmt.Errorf("portal: open %s: %w", site.name, err)
		}
		_ = a.d.WaitSettled(ctx)
		if !a.LoginRequired(ctx) {
			logging.Portal("%s: already logged in", site.name)
			continue
		}
		if err := a.waitForLogin(ctx, site.name); err != nil {
			return err
		}
	}
	return nil
}

func (a *Auth) waitForLogin(ctx context.Context, site string) error {
	logging.PortalWarn("ACTION REQUIRED: log in to the %s in the browser window (waiting up to %v)", site, a.wait)
	deadline := time.Now().Add(a.wait)
	for time.Now().Before(deadline) {
		t := time.NewTimer(a.PollInterval)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		if !a.LoginRequired(ctx) {
			logging.Portal("%s login detected", site)
			return nil
		}
		logging.PortalDebug("still waiting for %s login", site)
	}
	return fmt.Errorf("%w: timed out waiting for %s login", ErrLoginRequired, site)
}

// judgeSignedIn trusts a signed-in marker, then the absence of a sign-in
// control on a non-login judge page.
func (a *Auth) judgeSignedIn(ctx context.Context, u string) bool {
	if _, err := JudgeSignedIn.FirstVisible(ctx, a.d, a.Probe); err == nil {
		return true
	}
	_, err := JudgeSignIn.FirstVisible(ctx, a.d, a.Probe)
	return err != nil && !isLoginURL(u)
}

func isLoginURL(u string) bool {
	l := strings.ToLower(u)
	return strings.Contains(l, "/accounts/login") || strings.Contains(l, "/login") || strings.Contains(l, "/signin")
}

func sameHost(a, b string) bool {
	ua, err := url.Parse(a)
	if err != nil || ua.Host == "" {
		return false
	}
	ub, err := url.Parse(b)
	if err != nil {
		return false
	}
	return strings.TrimPrefix(ua.Host, "www.") == strings.TrimPrefix(ub.Host, "www.")
}
