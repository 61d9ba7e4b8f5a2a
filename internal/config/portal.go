package config

import (
	"strings"
	"time"
)

// PortalConfig configures the learning portal.
type PortalConfig struct {
	CoursesURL   string            `yaml:"courses_url"`
	CoursesOrder []string          `yaml:"courses_order"` // processed in this order
	CourseTitles map[string]string `yaml:"course_titles"` // course key -> card title fragment
	MaxDay       int               `yaml:"max_day"`       // highest chapter number walked
	Email        string            `yaml:"email"`         // account hint shown while waiting for login
	LoginWait    string            `yaml:"login_wait"`    // how long to wait for a manual login
}

// GetLoginWait returns the manual-login wait budget.
func (c PortalConfig) GetLoginWait() time.Duration {
	return parseDuration(c.LoginWait, 5*time.Minute)
}

// JudgeConfig configures the coding-judge site.
type JudgeConfig struct {
	BaseURL string `yaml:"base_url"`
	Email   string `yaml:"email"`
}

// GetMaxDay returns the highest chapter walked, defaulting to 6.
func (c PortalConfig) GetMaxDay() int {
	if c.MaxDay <= 0 {
		return 6
	}
	return c.MaxDay
}

// CourseTitle returns the card title fragment for a course key. Unknown
// keys map to themselves with underscores as spaces.
func (c PortalConfig) CourseTitle(key string) string {
	if t, ok := c.CourseTitles[key]; ok && t != "" {
		return t
	}
	return strings.ReplaceAll(key, "_", " ")
}
