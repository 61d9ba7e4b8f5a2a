package main

import (
	"fmt"
	"io"
	"strings"

	"bytsbot/internal/judge"
	"bytsbot/internal/progress"
	"bytsbot/internal/runner"
	"bytsbot/internal/solver"
	"bytsbot/internal/store"
	"bytsbot/internal/types"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorSuccess = lipgloss.Color("#8BC34A")
	colorFailure = lipgloss.Color("#e53935")
	colorWarning = lipgloss.Color("#FFC107")
	colorInfo    = lipgloss.Color("#2196F3")
	colorMuted   = lipgloss.Color("#d6dae0")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorInfo)
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(colorSuccess)
	failureStyle = lipgloss.NewStyle().Bold(true).Foreground(colorFailure)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorInfo).
			Padding(0, 1)
)

func renderSummary(w io.Writer, s runner.Summary) {
	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Batch summary"),
		successStyle.Render(fmt.Sprintf("solved:  %d", s.Solved)),
		mutedStyle.Render(fmt.Sprintf("skipped: %d", s.Skipped)),
		failureStyle.Render(fmt.Sprintf("failed:  %d", s.Failed)),
	)
	fmt.Fprintln(w, boxStyle.Render(body))
}

func renderStats(w io.Writer, s progress.Stats) {
	fmt.Fprintf(w, "Progress file: %d completed, %d failed\n", s.Completed, s.Failed)
}

func renderSession(w io.Writer, s *solver.Session, err error) {
	if s == nil {
		fmt.Fprintln(w, failureStyle.Render("not solved: "+errString(err)))
		return
	}
	var status string
	if s.Solved() {
		status = successStyle.Render("ACCEPTED")
	} else {
		status = failureStyle.Render(strings.ToUpper(string(s.State)))
	}
	lines := []string{
		titleStyle.Render(s.Problem.Title) + " " + mutedStyle.Render("("+s.Problem.Slug+")"),
		"status:      " + status,
		fmt.Sprintf("origin:      %s", s.Origin),
		fmt.Sprintf("cycles:      %d/%d", s.Cycle, s.MaxDebugCycles),
		fmt.Sprintf("debugs:      %d, escalations: %d, submissions: %d", s.Debugs, s.Escalations, s.Submissions),
	}
	if s.LastOutcome != nil && !s.LastOutcome.Passed {
		lines = append(lines, "last result: "+warningStyle.Render(string(s.LastOutcome.ErrorKind)))
	}
	if err != nil {
		lines = append(lines, fmt.Sprintf("fault:       %s (%s)", solver.FaultOf(s, err), errString(err)))
	}
	fmt.Fprintln(w, boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
}

func renderOutcome(w io.Writer, o judge.TestOutcome, ok bool) {
	if !ok {
		fmt.Fprintln(w, warningStyle.Render("no verdict found"))
		return
	}
	if o.Passed {
		fmt.Fprintln(w, successStyle.Render(string(o.ErrorKind)))
		return
	}
	fmt.Fprintln(w, failureStyle.Render(string(o.ErrorKind)))
	if o.ErrorMessage != "" {
		fmt.Fprintf(w, "message:  %s\n", o.ErrorMessage)
	}
	if o.Expected != "" {
		fmt.Fprintf(w, "expected: %s\n", o.Expected)
	}
	if o.Actual != "" {
		fmt.Fprintf(w, "actual:   %s\n", o.Actual)
	}
}

func renderProgress(w io.Writer, s *progress.Store) {
	courses := s.Courses()
	if len(courses) == 0 {
		fmt.Fprintln(w, "No progress recorded yet.")
		return
	}
	lines := []string{titleStyle.Render(fmt.Sprintf("%-20s %-8s %9s %6s", "COURSE", "DAY", "COMPLETED", "FAILED"))}
	for _, course := range courses {
		for _, day := range s.Days(course) {
			done := len(s.Completed(course, day))
			failed := len(s.Failed(course, day))
			row := fmt.Sprintf("%-20s %-8s %9d %6d", course, day, done, failed)
			if failed > 0 {
				row = warningStyle.Render(row)
			}
			lines = append(lines, row)
		}
	}
	fmt.Fprintln(w, boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
}

func renderHistory(w io.Writer, rows []store.Attempt) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No attempts recorded.")
		return
	}
	for _, a := range rows {
		state := string(a.State)
		switch a.State {
		case solver.StateDone:
			state = successStyle.Render(state)
		case solver.StateExhausted, solver.StateAborted:
			state = failureStyle.Render(state)
		}
		line := fmt.Sprintf("%s  %-8s %-28s cycle %d  %s",
			a.At.Local().Format("2006-01-02 15:04:05"), shortID(a.RunID), a.Slug, a.Cycle, state)
		if a.ErrorKind != "" {
			line += "  " + warningStyle.Render(string(a.ErrorKind))
		}
		if a.Detail != "" {
			line += "  " + mutedStyle.Render(types.Truncate(a.Detail, 80))
		}
		fmt.Fprintln(w, line)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func errString(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
