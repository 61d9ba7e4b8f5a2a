// Package portal drives the learning portal: courses, day chapters,
// problems, the challenge hand-off to the judge and completion marking.
package portal

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"bytsbot/internal/browser"
	"bytsbot/internal/config"
	"bytsbot/internal/logging"
)

var (
	ActivateButtons = browser.Ranked{
		browser.WithText("button", `^\s*Activate\s*$`),
		browser.WithText("a", `^\s*Activate\s*$`),
		browser.CSS("[class*='activate']"),
	}
	TakeChallengeButtons = browser.Ranked{
		browser.WithText("button", `Take Challenge`),
		browser.WithText("a", `Take Challenge`),
	}
	DialogContinueButtons = browser.Ranked{
		browser.WithText("button", `^\s*Continue\s*$`),
	}
	StartContestButtons = browser.Ranked{
		browser.WithText("button", `Start Contest`),
		browser.WithText("button", `^\s*Start\s*$`),
		browser.WithText("a", `Start Contest`),
	}
	MarkCompleteButtons = browser.Ranked{
		browser.WithText("button", `Mark as Complete`),
		browser.WithText("a", `Mark as Complete`),
	}
)

// Navigator walks one course at a time. Not safe for concurrent use.
type Navigator struct {
	d   browser.Driver
	cfg config.PortalConfig

	returnURL string

	ShortWait time.Duration // optional controls
	LongWait  time.Duration // required controls
}

// NewNavigator creates a navigator over d.
func NewNavigator(d browser.Driver, cfg config.PortalConfig) *Navigator {
	return &Navigator{d: d, cfg: cfg, ShortWait: 5 * time.Second, LongWait: 15 * time.Second}
}

// OpenCourse opens the curriculum of course key from the courses list.
func (n *Navigator) OpenCourse(ctx context.Context, key string) error {
	title := n.cfg.CourseTitle(key)
	logging.Portal("opening course %q", title)

	if err := n.d.Goto(ctx, n.cfg.CoursesURL); err != nil {
		return fmt.Errorf("portal: open courses: %w", err)
	}
	_ = n.d.WaitSettled(ctx)

	v, err := n.d.Evaluate(ctx, openCourseJS, title)
	if err != nil {
		return fmt.Errorf("portal: open course %q: %w", title, err)
	}
	switch v {
	case "missing":
		return fmt.Errorf("portal: course card %q: %w", title, browser.ErrNotFound)
	case "card":
		logging.PortalWarn("Continue Learning not found, clicked the card itself")
	}
	_ = n.d.WaitSettled(ctx)

	u, err := n.d.CurrentURL(ctx)
	if err != nil {
		return err
	}
	if !strings.Contains(u, "/home/course/") && strings.Contains(u, "/home/courses") {
		return fmt.Errorf("portal: still on the courses list after opening %q", title)
	}
	logging.Portal("opened %q at %s", title, u)
	return nil
}

// Chapters lists the day chapters of the open course, sorted by day.
func (n *Navigator) Chapters(ctx context.Context) ([]Chapter, error) {
	_ = n.d.WaitSettled(ctx)
	v, err := n.d.Evaluate(ctx, chapterRowsJS)
	if err != nil {
		return nil, fmt.Errorf("portal: read chapters: %w", err)
	}
	rows, err := decodeRows(v)
	if err != nil {
		return nil, fmt.Errorf("portal: decode chapters: %w", err)
	}
	chapters := parseChapters(rows, n.cfg.GetMaxDay())

	labels := make([]string, 0, len(chapters))
	for _, c := range chapters {
		lock := ""
		if c.Locked {
			lock = " locked"
		}
		labels = append(labels, fmt.Sprintf("%s(%d%%%s)", c.Label, c.Progress, lock))
	}
	logging.Portal("chapters: %s", strings.Join(labels, ", "))
	return chapters, nil
}

// OpenChapter clicks the row of c.
func (n *Navigator) OpenChapter(ctx context.Context, c Chapter) error {
	loc := browser.Ranked{
		browser.WithText("li", fmt.Sprintf(`^\s*Day\s+%d\b`, c.Day)),
		browser.WithText("a", fmt.Sprintf(`^\s*Day\s+%d\b`, c.Day)),
		browser.WithText("div", fmt.Sprintf(`^\s*Day\s+%d\b`, c.Day)),
	}
	if _, err := loc.Click(ctx, n.d, n.ShortWait); err != nil {
		return fmt.Errorf("portal: open %s: %w", c.Label, err)
	}
	_ = n.d.WaitSettled(ctx)
	return nil
}

// Problems lists the items of the open chapter.
func (n *Navigator) Problems(ctx context.Context, day int) ([]Problem, error) {
	v, err := n.d.Evaluate(ctx, problemRowsJS, day)
	if err != nil {
		return nil, fmt.Errorf("portal: read day %d: %w", day, err)
	}
	rows, err := decodeRows(v)
	if err != nil {
		return nil, fmt.Errorf("portal: decode day %d: %w", day, err)
	}
	problems := parseProblems(rows)
	if len(problems) == 0 {
		logging.PortalWarn("no problems under the Day %d heading, falling back to list items", day)
		if v, err = n.d.Evaluate(ctx, listItemsJS); err != nil {
			return nil, fmt.Errorf("portal: read list items: %w", err)
		}
		if rows, err = decodeRows(v); err != nil {
			return nil, fmt.Errorf("portal: decode list items: %w", err)
		}
		problems = parseProblems(rows)
	}
	logging.Portal("Day %d: %d problems", day, len(problems))
	return problems, nil
}

// OpenProblem clicks the item titled p.Title.
func (n *Navigator) OpenProblem(ctx context.Context, p Problem) error {
	exact := `^\s*` + regexp.QuoteMeta(p.Title) + `\s*$`
	loc := browser.Ranked{
		browser.WithText("li", exact),
		browser.WithText("a", exact),
		browser.WithText("div", exact),
	}
	if _, err := loc.Click(ctx, n.d, n.ShortWait); err != nil {
		return fmt.Errorf("portal: open problem %q: %w", p.Title, err)
	}
	_ = n.d.WaitSettled(ctx)
	return nil
}

// ActivateIfPresent clicks Activate on problems that were never attempted.
// A missing button means the problem is already active.
func (n *Navigator) ActivateIfPresent(ctx context.Context) bool {
	if _, err := ActivateButtons.Click(ctx, n.d, n.ShortWait); err != nil {
		logging.PortalDebug("no Activate button")
		return false
	}
	logging.Portal("activated problem")
	_ = n.d.WaitSettled(ctx)
	return true
}

// TakeChallenge remembers the current portal page and hands off to the
// judge.
func (n *Navigator) TakeChallenge(ctx context.Context) error {
	u, err := n.d.CurrentURL(ctx)
	if err != nil {
		return err
	}
	n.returnURL = u
	if _, err := TakeChallengeButtons.Click(ctx, n.d, n.LongWait); err != nil {
		return fmt.Errorf("portal: take challenge: %w", err)
	}
	logging.Portal("took challenge from %s", u)
	_ = n.d.WaitSettled(ctx)
	return nil
}

// ConfirmContestDialog walks the judge's contest dialog: an optional
// Continue, the consent checkbox, then Start.
func (n *Navigator) ConfirmContestDialog(ctx context.Context) error {
	if _, err := DialogContinueButtons.Click(ctx, n.d, n.ShortWait); err == nil {
		logging.PortalDebug("dialog: Continue clicked")
	}
	if v, err := n.d.Evaluate(ctx, checkboxJS); err != nil || v != true {
		logging.PortalWarn("dialog checkbox not found, trying Start anyway")
	}
	if _, err := StartContestButtons.Click(ctx, n.d, n.LongWait); err != nil {
		return fmt.Errorf("portal: start contest: %w", err)
	}
	logging.Portal("contest dialog confirmed")
	_ = n.d.WaitSettled(ctx)
	return nil
}

// ErrNoReturnURL means TakeChallenge was not called from a portal page.
var ErrNoReturnURL = errors.New("portal: no saved problem page")

// ReturnToProblem navigates back to the page TakeChallenge left from.
func (n *Navigator) ReturnToProblem(ctx context.Context) error {
	if n.returnURL == "" || !sameHost(n.returnURL, n.cfg.CoursesURL) {
		return ErrNoReturnURL
	}
	if err := n.d.Goto(ctx, n.returnURL); err != nil {
		return fmt.Errorf("portal: return to problem: %w", err)
	}
	_ = n.d.WaitSettled(ctx)
	return nil
}

// MarkComplete clicks Mark as Complete on the problem page.
func (n *Navigator) MarkComplete(ctx context.Context) error {
	if _, err := MarkCompleteButtons.Click(ctx, n.d, n.LongWait); err != nil {
		return fmt.Errorf("portal: mark complete: %w", err)
	}
	logging.Portal("marked complete")
	return nil
}
