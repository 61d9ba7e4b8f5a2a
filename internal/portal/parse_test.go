package portal

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChapters(t *testing.T) {
	rows := []row{
		{Text: "Dashboard"},
		{Text: "Day 2\n40%"},
		{Text: "Day 1\n100%"},
		{Text: "Day 3", Lock: true},
		{Text: "Day 1\n100%"},
		{Text: "Day 4 overview"},
		{Text: "Day 9\n10%"},
	}

	got := parseChapters(rows, 6)
	want := []Chapter{
		{Day: 1, Label: "Day 1", Progress: 100, Completed: true},
		{Day: 2, Label: "Day 2", Progress: 40},
		{Day: 3, Label: "Day 3", Locked: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseChapters mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "day_2", got[1].Key())
}

func TestParseProblems(t *testing.T) {
	rows := []row{
		{Text: "Day 1"},
		{Text: "Two  Sum", Done: true},
		{Text: "  Valid Anagram "},
		{Text: "Courses"},
		{Text: "50% done"},
		{Text: "ab"},
		{Text: "Two Sum"},
	}

	got := parseProblems(rows)
	want := []Problem{
		{Title: "Two Sum", ID: "two-sum", Completed: true},
		{Title: "Valid Anagram", ID: "valid-anagram"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseProblems mismatch (-want +got):\n%s", diff)
	}
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "best-time-to-buy-and-sell-stock-ii", Slugify("Best Time to Buy and Sell Stock II!"))
	assert.Equal(t, "lru-cache", Slugify("  LRU   Cache "))
}

func TestDecodeRows(t *testing.T) {
	rows, err := decodeRows([]any{
		map[string]any{"text": "Day 1\n20%", "lock": false},
		map[string]any{"text": "Two Sum", "done": true},
	})
	require.NoError(t, err)
	assert.Equal(t, []row{{Text: "Day 1\n20%"}, {Text: "Two Sum", Done: true}}, rows)

	rows, err = decodeRows(nil)
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = decodeRows("not rows")
	assert.Error(t, err)
}
