// Package logging provides config-driven categorized logging for bytsbot.
// Every subsystem logs through its own category so a noisy area (browser,
// scraper) can be silenced without losing the solver trail.
// Until Initialize is called every logger is a no-op, which keeps package
// tests quiet.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot     Category = "boot"     // Startup, config, shutdown
	CategoryBrowser  Category = "browser"  // Browser launch, page driving
	CategoryPortal   Category = "portal"   // Learning portal navigation
	CategoryScraper  Category = "scraper"  // Community solution scraping
	CategoryEditor   Category = "editor"   // Language selection, code injection
	CategoryJudge    Category = "judge"    // Run/submit and result classification
	CategorySolver   Category = "solver"   // Agentic solve loop
	CategoryLLM      Category = "llm"      // Model provider calls
	CategoryProgress Category = "progress" // Progress persistence
	CategoryStore    Category = "store"    // Attempt journal
	CategoryRunner   Category = "runner"   // Batch orchestration
)

// AllCategories lists every known category in display order.
var AllCategories = []Category{
	CategoryBoot, CategoryBrowser, CategoryPortal, CategoryScraper, CategoryEditor,
	CategoryJudge, CategorySolver, CategoryLLM, CategoryProgress, CategoryStore, CategoryRunner,
}

// Options mirrors config.LoggingConfig to avoid an import cycle.
type Options struct {
	Level      string          // debug, info, warn, error
	Format     string          // text, json
	File       string          // optional file sink, appended to
	Categories map[string]bool // nil = all enabled
}

// Logger is a category-scoped printf-style logger.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex
	base      = zap.NewNop()
	opts      Options
	closers   []func() error
)

// Initialize builds the shared zap core. Safe to call more than once; the
// last call wins and cached category loggers are rebuilt.
func Initialize(o Options) error {
	level, err := parseLevel(o.Level)
	if err != nil {
		return err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	switch strings.ToLower(o.Format) {
	case "json":
		enc = zapcore.NewJSONEncoder(encCfg)
	case "", "text", "console":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	default:
		return fmt.Errorf("unknown log format %q (valid: text, json)", o.Format)
	}

	sinks := []zapcore.WriteSyncer{zapcore.Lock(os.Stderr)}
	var newClosers []func() error
	if o.File != "" {
		if err := os.MkdirAll(filepath.Dir(o.File), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(o.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		sinks = append(sinks, zapcore.AddSync(f))
		newClosers = append(newClosers, f.Close)
	}

	core := zapcore.NewCore(enc, zapcore.NewMultiWriteSyncer(sinks...), level)
	InitializeWithLogger(zap.New(core), o)

	loggersMu.Lock()
	closers = append(closers, newClosers...)
	loggersMu.Unlock()

	Get(CategoryBoot).Debug("logging initialized: level=%s format=%s file=%q", o.Level, o.Format, o.File)
	return nil
}

// InitializeWithLogger installs an existing zap logger as the base (used by
// the CLI and by tests that want an observer core).
func InitializeWithLogger(l *zap.Logger, o Options) {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	base = l
	opts = o
	loggers = make(map[Category]*Logger)
}

func parseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	loggersMu.RLock()
	defer loggersMu.RUnlock()
	return categoryEnabledLocked(category)
}

func categoryEnabledLocked(category Category) bool {
	if opts.Categories == nil {
		return true
	}
	enabled, exists := opts.Categories[string(category)]
	if !exists {
		return true // Enable by default if not specified
	}
	return enabled
}

// Get returns (or creates) a logger for the given category.
// Disabled categories get a no-op logger.
func Get(category Category) *Logger {
	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}

	z := zap.NewNop()
	if categoryEnabledLocked(category) {
		z = base.With(zap.String("cat", string(category)))
	}
	l := &Logger{category: category, sugar: z.Sugar()}
	loggers[category] = l
	return l
}

// Zap exposes the structured logger for call sites that want typed fields.
func (l *Logger) Zap() *zap.Logger {
	return l.sugar.Desugar()
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }

// Info logs an informational message.
func (l *Logger) Info(format string, args ...interface{}) { l.sugar.Infof(format, args...) }

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) { l.sugar.Warnf(format, args...) }

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }

// With returns a child logger carrying key-value context.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{category: l.category, sugar: l.sugar.With(keysAndValues...)}
}

// CloseAll flushes the base logger and closes file sinks (call at shutdown).
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	_ = base.Sync()
	for _, c := range closers {
		_ = c()
	}
	closers = nil
}

// =============================================================================
// CONVENIENCE FUNCTIONS - Quick logging without getting a logger first
// =============================================================================

func Boot(format string, args ...interface{})      { Get(CategoryBoot).Info(format, args...) }
func BootDebug(format string, args ...interface{}) { Get(CategoryBoot).Debug(format, args...) }
func BootWarn(format string, args ...interface{})  { Get(CategoryBoot).Warn(format, args...) }

func Browser(format string, args ...interface{})      { Get(CategoryBrowser).Info(format, args...) }
func BrowserDebug(format string, args ...interface{}) { Get(CategoryBrowser).Debug(format, args...) }
func BrowserWarn(format string, args ...interface{})  { Get(CategoryBrowser).Warn(format, args...) }

func Portal(format string, args ...interface{})      { Get(CategoryPortal).Info(format, args...) }
func PortalDebug(format string, args ...interface{}) { Get(CategoryPortal).Debug(format, args...) }
func PortalWarn(format string, args ...interface{})  { Get(CategoryPortal).Warn(format, args...) }

func Scraper(format string, args ...interface{})      { Get(CategoryScraper).Info(format, args...) }
func ScraperDebug(format string, args ...interface{}) { Get(CategoryScraper).Debug(format, args...) }
func ScraperWarn(format string, args ...interface{})  { Get(CategoryScraper).Warn(format, args...) }

func Editor(format string, args ...interface{})      { Get(CategoryEditor).Info(format, args...) }
func EditorDebug(format string, args ...interface{}) { Get(CategoryEditor).Debug(format, args...) }
func EditorWarn(format string, args ...interface{})  { Get(CategoryEditor).Warn(format, args...) }

func Judge(format string, args ...interface{})      { Get(CategoryJudge).Info(format, args...) }
func JudgeDebug(format string, args ...interface{}) { Get(CategoryJudge).Debug(format, args...) }
func JudgeWarn(format string, args ...interface{})  { Get(CategoryJudge).Warn(format, args...) }

func Solver(format string, args ...interface{})      { Get(CategorySolver).Info(format, args...) }
func SolverDebug(format string, args ...interface{}) { Get(CategorySolver).Debug(format, args...) }
func SolverWarn(format string, args ...interface{})  { Get(CategorySolver).Warn(format, args...) }
func SolverError(format string, args ...interface{}) { Get(CategorySolver).Error(format, args...) }

func LLM(format string, args ...interface{})      { Get(CategoryLLM).Info(format, args...) }
func LLMDebug(format string, args ...interface{}) { Get(CategoryLLM).Debug(format, args...) }
func LLMWarn(format string, args ...interface{})  { Get(CategoryLLM).Warn(format, args...) }
func LLMError(format string, args ...interface{}) { Get(CategoryLLM).Error(format, args...) }

func Progress(format string, args ...interface{})     { Get(CategoryProgress).Info(format, args...) }
func ProgressWarn(format string, args ...interface{}) { Get(CategoryProgress).Warn(format, args...) }

func Store(format string, args ...interface{})     { Get(CategoryStore).Info(format, args...) }
func StoreWarn(format string, args ...interface{}) { Get(CategoryStore).Warn(format, args...) }

func Runner(format string, args ...interface{})      { Get(CategoryRunner).Info(format, args...) }
func RunnerWarn(format string, args ...interface{})  { Get(CategoryRunner).Warn(format, args...) }
func RunnerError(format string, args ...interface{}) { Get(CategoryRunner).Error(format, args...) }
