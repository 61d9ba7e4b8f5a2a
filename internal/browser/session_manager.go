package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"bytsbot/internal/config"
	"bytsbot/internal/logging"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
)

// SessionManager owns the Chrome instance and the single automation tab.
type SessionManager struct {
	cfg        config.BrowserConfig
	mu         sync.Mutex
	browser    *rod.Browser
	launch     *launcher.Launcher
	session    *Session
	controlURL string // WebSocket URL for DevTools
}

// NewSessionManager creates a new session manager.
func NewSessionManager(cfg config.BrowserConfig) *SessionManager {
	return &SessionManager{cfg: cfg}
}

// Start connects to an existing Chrome or launches a new one with a
// persistent profile so portal and judge logins survive restarts.
func (m *SessionManager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// If we already have a browser, verify it's still alive
	if m.browser != nil {
		if _, err := m.browser.Version(); err == nil {
			return nil
		}
		logging.BrowserWarn("stale browser connection detected, reconnecting")
		_ = m.browser.Close()
		m.browser = nil
		m.session = nil
		m.controlURL = ""
	}

	controlURL := m.cfg.DebuggerURL
	if controlURL == "" {
		l := m.newLauncher()
		url, err := l.Launch()
		if err != nil {
			return fmt.Errorf("launch chrome: %w", err)
		}
		m.launch = l
		controlURL = url
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if d := m.cfg.GetSlowMotion(); d > 0 {
		b = b.SlowMotion(d)
	}
	if err := b.Connect(); err != nil {
		return fmt.Errorf("connect to chrome: %w", err)
	}

	m.browser = b
	m.controlURL = controlURL
	logging.Browser("browser connected (headless=%v profile=%q)", m.cfg.Headless, m.cfg.ProfileDir)
	return nil
}

func (m *SessionManager) newLauncher() *launcher.Launcher {
	l := launcher.New().Headless(m.cfg.Headless)
	if m.cfg.Bin != "" {
		l = l.Bin(m.cfg.Bin)
	}
	if m.cfg.ProfileDir != "" {
		l = l.UserDataDir(m.cfg.ProfileDir)
	}
	if m.cfg.ViewportWidth > 0 && m.cfg.ViewportHeight > 0 {
		l = l.Set(flags.Flag("window-size"), fmt.Sprintf("%d,%d", m.cfg.ViewportWidth, m.cfg.ViewportHeight))
	}
	for _, rawFlag := range m.cfg.Flags {
		flagStr := strings.TrimLeft(rawFlag, "-")
		name, val, hasVal := strings.Cut(flagStr, "=")
		if hasVal {
			l = l.Set(flags.Flag(name), val)
		} else {
			l = l.Set(flags.Flag(name))
		}
	}
	return l
}

// Session returns the automation tab, opening it on first use. The first
// existing tab is reused so a headed user sees a single window.
func (m *SessionManager) Session(ctx context.Context) (*Session, error) {
	if err := m.Start(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session != nil {
		return m.session, nil
	}
	if m.browser == nil {
		return nil, errors.New("browser not connected")
	}

	var page *rod.Page
	pages, err := m.browser.Pages()
	if err == nil && len(pages) > 0 {
		page = pages.First()
	} else {
		page, err = m.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
		if err != nil {
			return nil, fmt.Errorf("create page: %w", err)
		}
	}

	if m.cfg.ViewportWidth > 0 && m.cfg.ViewportHeight > 0 {
		if err := (proto.EmulationSetDeviceMetricsOverride{
			Width:             m.cfg.ViewportWidth,
			Height:            m.cfg.ViewportHeight,
			DeviceScaleFactor: 1.0,
			Mobile:            false,
		}).Call(page); err != nil {
			logging.BrowserWarn("failed to set viewport: %v", err)
		}
	}

	// The scraper's copy-button path reads the clipboard.
	if err := (proto.BrowserGrantPermissions{
		Permissions: []proto.BrowserPermissionType{
			proto.BrowserPermissionTypeClipboardReadWrite,
			proto.BrowserPermissionTypeClipboardSanitizedWrite,
		},
	}).Call(m.browser); err != nil {
		logging.BrowserDebug("clipboard permission not granted: %v", err)
	}

	m.session = newSession(page, m.cfg.GetNavigationTimeout(), m.cfg.GetElementTimeout())
	return m.session, nil
}

// ControlURL returns the WebSocket debugger URL.
func (m *SessionManager) ControlURL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.controlURL
}

// IsConnected returns whether the browser is connected.
func (m *SessionManager) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.browser != nil
}

// Shutdown closes a launched browser. An attached browser (debugger_url) is
// left running, and the profile directory is never removed.
func (m *SessionManager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var err error
	if m.browser != nil {
		if m.launch != nil {
			err = m.browser.Close()
		}
		m.browser = nil
	}
	m.launch = nil
	m.session = nil
	m.controlURL = ""
	logging.Browser("browser shut down")
	return err
}
