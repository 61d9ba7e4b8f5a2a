package portal

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	dayPrefix = regexp.MustCompile(`^Day\s+(\d+)`)
	percent   = regexp.MustCompile(`(\d+)%`)
	nonSlug   = regexp.MustCompile(`[^a-z0-9\s-]`)
	spaces    = regexp.MustCompile(`\s+`)
)

// navLabels are portal sidebar entries that look like list items.
var navLabels = map[string]bool{
	"dashboard": true, "overall report": true, "assessments": true,
	"contest calendar": true, "mentoring support": true,
	"global platform assessments": true, "courses": true, "dsa sheets": true,
	"explore": true, "certificates": true, "live session": true, "ide": true,
	"ai interview": true, "ai interview (new)": true, "resume builder": true,
	"gps leaderboard": true, "log out": true, "back": true, "completed": true,
}

// Chapter is one "Day N" row of a course.
type Chapter struct {
	Day       int
	Label     string
	Progress  int
	Locked    bool
	Completed bool
}

// Key is the progress-store day key.
func (c Chapter) Key() string { return "day_" + strconv.Itoa(c.Day) }

// Problem is one item of a chapter.
type Problem struct {
	Title     string
	ID        string
	Completed bool
}

type row struct {
	Text string `json:"text"`
	Lock bool   `json:"lock"`
	Done bool   `json:"done"`
}

// decodeRows converts a page-script result into rows.
func decodeRows(v any) ([]row, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var rows []row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// parseChapters keeps rows that carry a progress percentage or a lock,
// numbered 1..maxDay, first occurrence per day, sorted by day. Sidebar
// entries never carry either marker.
func parseChapters(rows []row, maxDay int) []Chapter {
	seen := make(map[int]bool)
	var out []Chapter
	for _, r := range rows {
		m := dayPrefix.FindStringSubmatch(strings.TrimSpace(r.Text))
		if m == nil {
			continue
		}
		day, _ := strconv.Atoi(m[1])
		if day < 1 || day > maxDay || seen[day] {
			continue
		}
		pct := percent.FindStringSubmatch(r.Text)
		if pct == nil && !r.Lock {
			continue
		}
		progress := 0
		if pct != nil {
			progress, _ = strconv.Atoi(pct[1])
		}
		seen[day] = true
		out = append(out, Chapter{
			Day:       day,
			Label:     "Day " + m[1],
			Progress:  progress,
			Locked:    r.Lock && pct == nil,
			Completed: progress == 100,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// parseProblems drops headers, progress rows, sidebar labels and duplicates.
func parseProblems(rows []row) []Problem {
	seen := make(map[string]bool)
	var out []Problem
	for _, r := range rows {
		text := strings.TrimSpace(spaces.ReplaceAllString(r.Text, " "))
		if len(text) < 3 || len(text) > 120 {
			continue
		}
		if dayPrefix.MatchString(text) || percent.MatchString(text) {
			continue
		}
		if navLabels[strings.ToLower(text)] || seen[text] {
			continue
		}
		seen[text] = true
		out = append(out, Problem{Title: text, ID: Slugify(text), Completed: r.Done})
	}
	return out
}

// Slugify turns a portal title into a stable progress id.
func Slugify(text string) string {
	s := nonSlug.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), "")
	return strings.Trim(spaces.ReplaceAllString(s, "-"), "-")
}
