package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"bytsbot/internal/judge"
	"bytsbot/internal/progress"
	"bytsbot/internal/store"

	"github.com/spf13/cobra"
)

var historyLimit int

// classifyCmd runs the result classifier over saved judge text.
var classifyCmd = &cobra.Command{
	Use:   "classify [file]",
	Short: "Classify judge result text from a file or stdin",
	Long: `Runs the result classifier over text copied from the judge's result
panel and prints the structured outcome. Reads stdin when no file is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClassify,
}

// progressCmd prints the progress file.
var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show solved and failed problems per course and day",
	Args:  cobra.NoArgs,
	RunE:  runProgress,
}

// historyCmd prints journaled transitions.
var historyCmd = &cobra.Command{
	Use:   "history [slug]",
	Short: "Show journaled solve-loop transitions",
	Long:  `Prints the most recent journal rows, newest first. Without a slug, rows for every problem are shown.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func runClassify(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("read result text: %w", err)
	}

	outcome, ok := judge.ParseResult(string(data))
	renderOutcome(cmd.OutOrStdout(), outcome, ok)
	return nil
}

func runProgress(cmd *cobra.Command, args []string) error {
	s := progress.Open(cfg.Progress.File)
	out := cmd.OutOrStdout()
	renderProgress(out, s)
	renderStats(out, s.Stats())
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	if cfg.Journal.Path == "" {
		return errors.New("journal.path is not set")
	}
	if _, err := os.Stat(cfg.Journal.Path); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(cmd.OutOrStdout(), "No journal found.")
			return nil
		}
		return err
	}

	j, err := store.OpenJournal(cfg.Journal.Path)
	if err != nil {
		return err
	}
	defer j.Close()

	slug := ""
	if len(args) == 1 {
		slug = args[0]
	}
	rows, err := j.Recent(slug, historyLimit)
	if err != nil {
		return err
	}
	renderHistory(cmd.OutOrStdout(), rows)
	return nil
}
