package portal

import (
	"context"
	"errors"
	"testing"
	"time"

	"bytsbot/internal/browser"
	"bytsbot/internal/browser/browsertest"
	"bytsbot/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	coursesURL = "https://www.bytsone.com/home/courses"
	courseURL  = "https://www.bytsone.com/home/course/dsa-101"
	lessonURL  = "https://www.bytsone.com/home/course/dsa-101/lesson/7"
)

func testNavigator(d *browsertest.Driver) *Navigator {
	cfg := config.DefaultConfig().Portal
	n := NewNavigator(d, cfg)
	n.ShortWait = 10 * time.Millisecond
	n.LongWait = 10 * time.Millisecond
	return n
}

func TestOpenCourse(t *testing.T) {
	d := browsertest.New("about:blank")
	var fragment any
	d.EvalFunc = func(script string, args []any) (any, error) {
		require.Equal(t, openCourseJS, script)
		fragment = args[0]
		d.SetURL(courseURL)
		return "continue", nil
	}

	require.NoError(t, testNavigator(d).OpenCourse(context.Background(), "class_problems"))
	assert.Equal(t, "Class Problems", fragment)
	assert.Equal(t, []string{coursesURL}, d.Visited())
}

func TestOpenCourse_Failures(t *testing.T) {
	t.Run("missing card", func(t *testing.T) {
		d := browsertest.New("about:blank")
		d.EvalFunc = func(string, []any) (any, error) { return "missing", nil }
		err := testNavigator(d).OpenCourse(context.Background(), "task_problems")
		assert.ErrorIs(t, err, browser.ErrNotFound)
	})
	t.Run("still on list", func(t *testing.T) {
		d := browsertest.New("about:blank")
		d.EvalFunc = func(string, []any) (any, error) { return "card", nil }
		err := testNavigator(d).OpenCourse(context.Background(), "task_problems")
		assert.ErrorContains(t, err, "still on the courses list")
	})
}

func TestChapters(t *testing.T) {
	d := browsertest.New(courseURL)
	d.EvalFunc = func(script string, _ []any) (any, error) {
		return []any{
			map[string]any{"text": "Day 2\n0%", "lock": false},
			map[string]any{"text": "Day 1\n100%", "lock": false},
			map[string]any{"text": "Dashboard", "lock": false},
		}, nil
	}

	chapters, err := testNavigator(d).Chapters(context.Background())
	require.NoError(t, err)
	require.Len(t, chapters, 2)
	assert.Equal(t, 1, chapters[0].Day)
	assert.True(t, chapters[0].Completed)
}

func TestProblems_FallsBackToListItems(t *testing.T) {
	d := browsertest.New(courseURL)
	var scripts []string
	d.EvalFunc = func(script string, args []any) (any, error) {
		scripts = append(scripts, script)
		if script == problemRowsJS {
			assert.Equal(t, []any{3}, args)
			return nil, nil
		}
		return []any{map[string]any{"text": "Merge Intervals"}, map[string]any{"text": "Log out"}}, nil
	}

	problems, err := testNavigator(d).Problems(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []Problem{{Title: "Merge Intervals", ID: "merge-intervals"}}, problems)
	assert.Equal(t, []string{problemRowsJS, listItemsJS}, scripts)
}

func TestOpenChapterAndProblem(t *testing.T) {
	d := browsertest.New(courseURL)
	day := browser.WithText("a", `^\s*Day\s+2\b`)
	item := browser.WithText("li", `^\s*Two Sum \(easy\)\s*$`)
	d.Set(day, browsertest.Element{Text: "Day 2"})
	d.Set(item, browsertest.Element{Text: "Two Sum (easy)"})

	n := testNavigator(d)
	require.NoError(t, n.OpenChapter(context.Background(), Chapter{Day: 2, Label: "Day 2"}))
	require.NoError(t, n.OpenProblem(context.Background(), Problem{Title: "Two Sum (easy)"}))
	assert.Equal(t, []string{day.String(), item.String()}, d.Clicked())

	err := n.OpenProblem(context.Background(), Problem{Title: "Missing"})
	assert.ErrorIs(t, err, browser.ErrNotFound)
}

func TestChallengeRoundTrip(t *testing.T) {
	d := browsertest.New(lessonURL)
	d.Set(TakeChallengeButtons[0], browsertest.Element{OnClick: func(d *browsertest.Driver) {
		d.SetURL("https://leetcode.com/contest/bytsone-7/problems/two-sum/")
	}})
	d.Set(StartContestButtons[0], browsertest.Element{})
	d.Set(MarkCompleteButtons[0], browsertest.Element{})
	checked := false
	d.EvalFunc = func(script string, _ []any) (any, error) {
		if script == checkboxJS {
			checked = true
			return true, nil
		}
		return nil, errors.New("unexpected script")
	}

	n := testNavigator(d)
	ctx := context.Background()
	assert.False(t, n.ActivateIfPresent(ctx))
	require.NoError(t, n.TakeChallenge(ctx))
	require.NoError(t, n.ConfirmContestDialog(ctx))
	assert.True(t, checked)

	require.NoError(t, n.ReturnToProblem(ctx))
	u, _ := d.CurrentURL(ctx)
	assert.Equal(t, lessonURL, u)
	require.NoError(t, n.MarkComplete(ctx))
}

func TestReturnToProblem_WithoutChallenge(t *testing.T) {
	d := browsertest.New(lessonURL)
	assert.ErrorIs(t, testNavigator(d).ReturnToProblem(context.Background()), ErrNoReturnURL)
}

func TestConfirmContestDialog_NoStart(t *testing.T) {
	d := browsertest.New("https://leetcode.com/contest/x")
	err := testNavigator(d).ConfirmContestDialog(context.Background())
	assert.ErrorIs(t, err, browser.ErrNotFound)
}
