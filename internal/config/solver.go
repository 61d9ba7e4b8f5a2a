package config

import (
	"fmt"
	"time"
)

// Run fallback policies for judges that expose no local Run control.
const (
	RunFallbackPass = "pass" // treat the missing run as passed; submission is the only check
	RunFallbackFail = "fail" // treat the missing run as an Unknown failure
)

// SolverConfig configures the agentic solve loop.
type SolverConfig struct {
	Language        string `yaml:"language"`          // editor language label, e.g. "Java"
	MaxDebugCycles  int    `yaml:"max_debug_cycles"`  // escalation happens at the last cycle
	CycleDelay      string `yaml:"cycle_delay"`       // fixed pause between repair cycles
	RunPollBudget   int    `yaml:"run_poll_budget"`   // result polls after Run
	RunPollInterval string `yaml:"run_poll_interval"` // pause between result polls
	SubmitWait      string `yaml:"submit_wait"`       // wait for the submission result panel
	CSSFallbackWait string `yaml:"css_fallback_wait"` // wait for the styled accepted badge
	RunFallback     string `yaml:"run_fallback"`      // pass | fail
}

// GetCycleDelay returns the fixed inter-cycle delay.
func (c SolverConfig) GetCycleDelay() time.Duration {
	return parseDuration(c.CycleDelay, 2*time.Second)
}

// GetRunPollInterval returns the pause between result polls.
func (c SolverConfig) GetRunPollInterval() time.Duration {
	return parseDuration(c.RunPollInterval, time.Second)
}

// GetSubmitWait returns the submission panel wait budget.
func (c SolverConfig) GetSubmitWait() time.Duration {
	return parseDuration(c.SubmitWait, 30*time.Second)
}

// GetCSSFallbackWait returns the styled-badge wait budget.
func (c SolverConfig) GetCSSFallbackWait() time.Duration {
	return parseDuration(c.CSSFallbackWait, 3*time.Second)
}

// GetRunPollBudget returns the poll budget, defaulting to 40.
func (c SolverConfig) GetRunPollBudget() int {
	if c.RunPollBudget <= 0 {
		return 40
	}
	return c.RunPollBudget
}

// FailClosed reports whether a missing Run control counts as a failure.
func (c SolverConfig) FailClosed() bool {
	return c.RunFallback == RunFallbackFail
}

// Validate checks the loop bounds.
func (c SolverConfig) Validate() error {
	if c.MaxDebugCycles < 1 {
		return fmt.Errorf("solver.max_debug_cycles must be >= 1, got %d", c.MaxDebugCycles)
	}
	if c.Language == "" {
		return fmt.Errorf("solver.language must be set")
	}
	switch c.RunFallback {
	case "", RunFallbackPass, RunFallbackFail:
	default:
		return fmt.Errorf("solver.run_fallback must be %q or %q, got %q", RunFallbackPass, RunFallbackFail, c.RunFallback)
	}
	return nil
}
