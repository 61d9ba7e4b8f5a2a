package types

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSlugFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://leetcode.com/problems/two-sum/", "two-sum"},
		{"https://leetcode.com/problems/two-sum/description/?envType=daily", "two-sum"},
		{"https://leetcode.com/problems/add-two-numbers/solutions/", "add-two-numbers"},
		{"/problems/valid-parentheses", "valid-parentheses"},
		{"https://leetcode.com/problemset/", ""},
		{"https://leetcode.com/problems/", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SlugFromURL(tt.url), tt.url)
	}
}

func TestTitleFromSlug(t *testing.T) {
	assert.Equal(t, "Two Sum", TitleFromSlug("two-sum"))
	assert.Equal(t, "Lru Cache", TitleFromSlug("LRU-cache"))
	assert.Equal(t, "", TitleFromSlug(""))
}

func TestNewProblemIdentity(t *testing.T) {
	id := NewProblemIdentity("https://leetcode.com/problems/two-sum/", "", "  Given an array  ")
	assert.Equal(t, ProblemIdentity{Slug: "two-sum", Title: "Two Sum", Description: "Given an array"}, id)

	id = NewProblemIdentity("https://leetcode.com/problems/two-sum/", "1. Two Sum", "")
	assert.Equal(t, "1. Two Sum", id.Title)
}

func TestNewProblemIdentity_CapsDescription(t *testing.T) {
	long := strings.Repeat("é", MaxDescriptionLen+500)
	id := NewProblemIdentity("/problems/x", "", long)
	assert.Equal(t, MaxDescriptionLen, utf8.RuneCountInString(id.Description))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "ab", Truncate("ab", 3))
	assert.Equal(t, "", Truncate("ab", 0))
}
