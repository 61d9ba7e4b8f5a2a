package config

import "time"

// BrowserConfig configures the Chromium instance driven through go-rod.
type BrowserConfig struct {
	Headless          bool     `yaml:"headless"`     // headed by default so a human can complete login
	SlowMotion        string   `yaml:"slow_motion"`  // delay between input actions
	ProfileDir        string   `yaml:"profile_dir"`  // persistent user-data dir (cookies survive runs)
	Bin               string   `yaml:"bin"`          // explicit browser binary; empty = rod download/lookup
	DebuggerURL       string   `yaml:"debugger_url"` // attach to a running browser instead of launching
	Flags             []string `yaml:"flags"`        // extra launch flags, "name" or "name=value"
	ViewportWidth     int      `yaml:"viewport_width"`
	ViewportHeight    int      `yaml:"viewport_height"`
	NavigationTimeout string   `yaml:"navigation_timeout"`
	ElementTimeout    string   `yaml:"element_timeout"` // per-locator wait
}

// GetNavigationTimeout returns the navigation timeout.
func (c BrowserConfig) GetNavigationTimeout() time.Duration {
	return parseDuration(c.NavigationTimeout, 60*time.Second)
}

// GetElementTimeout returns the per-locator wait.
func (c BrowserConfig) GetElementTimeout() time.Duration {
	return parseDuration(c.ElementTimeout, 5*time.Second)
}

// GetSlowMotion returns the input slow-motion delay.
func (c BrowserConfig) GetSlowMotion() time.Duration {
	return parseDuration(c.SlowMotion, 0)
}
