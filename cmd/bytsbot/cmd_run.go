package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"bytsbot/internal/runner"
	"bytsbot/internal/solver"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var courses []string

// runCmd processes every configured course.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Solve every unsolved problem in the configured courses",
	Long: `Walks each course in order, skipping locked chapters and problems
already ticked on the portal or recorded in the progress file. A failing
problem is recorded and the batch moves on.`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

// solveCmd solves one judge problem by URL.
var solveCmd = &cobra.Command{
	Use:   "solve <problem-url>",
	Short: "Solve a single LeetCode problem",
	Args:  cobra.ExactArgs(1),
	RunE:  runSolve,
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	b, err := newBot(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	list := courses
	if len(list) == 0 {
		list = cfg.Portal.CoursesOrder
	}
	logger.Info("starting batch", zap.Strings("courses", list))

	var sum runner.Summary
	err = supervise(ctx, func(ctx context.Context) error {
		var rerr error
		sum, rerr = b.runner.Run(ctx, list)
		return rerr
	})

	out := cmd.OutOrStdout()
	renderSummary(out, sum)
	renderStats(out, b.progress.Stats())
	if errors.Is(err, context.Canceled) {
		logger.Info("batch interrupted")
		return nil
	}
	return err
}

func runSolve(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	b, err := newBot(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	var session *solver.Session
	err = supervise(ctx, func(ctx context.Context) error {
		var serr error
		session, serr = b.runner.SolveURL(ctx, args[0])
		return serr
	})
	renderSession(cmd.OutOrStdout(), session, err)
	return err
}

// supervise runs work until it returns, cancelling it on SIGINT or SIGTERM.
func supervise(ctx context.Context, work func(ctx context.Context) error) error {
	workCtx, stop := context.WithCancel(ctx)
	defer stop()

	g, gctx := errgroup.WithContext(workCtx)
	g.Go(func() error {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		select {
		case s := <-sigCh:
			logger.Info("received shutdown signal", zap.String("signal", s.String()))
			stop()
		case <-gctx.Done():
		}
		return nil
	})
	g.Go(func() error {
		defer stop()
		return work(gctx)
	})
	return g.Wait()
}
