package main

import (
	"context"
	"fmt"
	"time"

	"bytsbot/internal/acquire"
	"bytsbot/internal/browser"
	"bytsbot/internal/config"
	"bytsbot/internal/editor"
	"bytsbot/internal/judge"
	"bytsbot/internal/llm"
	"bytsbot/internal/portal"
	"bytsbot/internal/progress"
	"bytsbot/internal/runner"
	"bytsbot/internal/scraper"
	"bytsbot/internal/solver"
	"bytsbot/internal/store"

	"go.uber.org/zap"
)

// bot is the fully wired automation stack for one command invocation.
type bot struct {
	browser  *browser.SessionManager
	journal  *store.Journal
	progress *progress.Store
	runner   *runner.Runner
}

// newBot validates cfg, connects the browser, and wires every component
// onto its single tab.
func newBot(ctx context.Context, cfg *config.Config) (*bot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client, err := llm.NewClientFromConfig(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}
	agent := llm.NewAgent(client, cfg.Solver.Language)

	b := &bot{browser: browser.NewSessionManager(cfg.Browser)}
	tab, err := b.browser.Session(ctx)
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("browser: %w", err)
	}

	elem := cfg.Browser.GetElementTimeout()
	acq := acquire.New(
		scraper.NewSolutionScraper(tab, cfg.Solver.Language),
		agent,
		acquire.ValidatorFor(cfg.Solver.Language),
	)
	loop := solver.NewLoop(
		acq,
		editor.NewBridge(tab, elem),
		judge.NewConsole(tab, cfg.Solver, elem),
		agent,
		solver.OptionsFromConfig(cfg.Solver),
	)

	if cfg.Journal.Enabled {
		b.journal, err = store.OpenJournal(cfg.Journal.Path)
		if err != nil {
			b.Close()
			return nil, err
		}
		loop.WithObserver(b.journal)
		logger.Debug("journal opened", zap.String("path", cfg.Journal.Path), zap.String("run_id", b.journal.RunID()))
	}

	b.progress = progress.Open(cfg.Progress.File)
	b.runner = runner.New(
		portal.NewNavigator(tab, cfg.Portal),
		portal.NewAuth(tab, cfg.Portal, cfg.Judge),
		scraper.NewProblemReader(tab, elem),
		loop,
		b.progress,
		tab,
	)
	return b, nil
}

// Close releases the journal and any launched browser.
func (b *bot) Close() {
	if b.journal != nil {
		if err := b.journal.Close(); err != nil {
			logger.Warn("journal close failed", zap.Error(err))
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := b.browser.Shutdown(ctx); err != nil {
		logger.Warn("browser shutdown failed", zap.Error(err))
	}
}
