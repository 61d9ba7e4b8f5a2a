package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all bytsbot configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Browser driving (go-rod)
	Browser BrowserConfig `yaml:"browser"`

	// LLM provider used for generation, debugging and escalation
	LLM LLMConfig `yaml:"llm"`

	// Agentic solve loop policy
	Solver SolverConfig `yaml:"solver"`

	// Learning portal and judge sites
	Portal PortalConfig `yaml:"portal"`
	Judge  JudgeConfig  `yaml:"judge"`

	// Persistence
	Progress ProgressConfig `yaml:"progress"`
	Journal  JournalConfig  `yaml:"journal"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ProgressConfig configures the JSON progress file.
type ProgressConfig struct {
	File string `yaml:"file"`
}

// JournalConfig configures the SQLite attempt journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "bytsbot",
		Version: "0.3.0",

		Browser: BrowserConfig{
			Headless:          false,
			SlowMotion:        "100ms",
			ProfileDir:        "browser_profile",
			ViewportWidth:     1440,
			ViewportHeight:    900,
			NavigationTimeout: "60s",
			ElementTimeout:    "5s",
			Flags: []string{
				"disable-blink-features=AutomationControlled",
				"no-first-run",
				"no-default-browser-check",
			},
		},

		LLM: LLMConfig{
			Provider:       "openrouter",
			Model:          "minimax/minimax-m2.5",
			BaseURL:        "https://openrouter.ai/api/v1",
			Timeout:        "120s",
			Temperature:    0.2,
			MaxTokens:      4096,
			MaxRetries:     3,
			RetryBaseDelay: "2s",
		},

		Solver: SolverConfig{
			Language:        "Java",
			MaxDebugCycles:  3,
			CycleDelay:      "2s",
			RunPollBudget:   40,
			RunPollInterval: "1s",
			SubmitWait:      "30s",
			CSSFallbackWait: "3s",
			RunFallback:     RunFallbackPass,
		},

		Portal: PortalConfig{
			CoursesURL:   "https://www.bytsone.com/home/courses",
			CoursesOrder: []string{"class_problems", "task_problems"},
			CourseTitles: map[string]string{
				"class_problems": "Class Problems",
				"task_problems":  "Task Problems",
			},
			MaxDay:    6,
			LoginWait: "5m",
		},

		Judge: JudgeConfig{
			BaseURL: "https://leetcode.com",
		},

		Progress: ProgressConfig{File: "progress.json"},
		Journal:  JournalConfig{Enabled: true, Path: "data/attempts.db"},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			File:   "logs/automation.log",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
// Later keys win: OPENROUTER > GEMINI > ANTHROPIC > OPENAI.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = "openai"
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = "anthropic"
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = "gemini"
	}
	if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = "openrouter"
	}

	if v := os.Getenv("BYTSBOT_HEADLESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Browser.Headless = b
		}
	}
	if path := os.Getenv("BYTSBOT_PROGRESS_FILE"); path != "" {
		c.Progress.File = path
	}
	if v := os.Getenv("BYTSBOT_MAX_DEBUG_CYCLES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Solver.MaxDebugCycles = n
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.LLM.Validate(); err != nil {
		return err
	}
	if err := c.Solver.Validate(); err != nil {
		return err
	}
	if c.Progress.File == "" {
		return fmt.Errorf("progress.file must be set")
	}
	if c.Journal.Enabled && c.Journal.Path == "" {
		return fmt.Errorf("journal.path must be set when the journal is enabled")
	}
	return nil
}

// parseDuration parses s, returning def for empty or malformed values.
func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return def
	}
	return d
}
