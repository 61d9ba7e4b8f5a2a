package scraper

import (
	"context"
	"strings"
	"testing"
	"time"

	"bytsbot/internal/browser/browsertest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe_ReadsTitleAndDescription(t *testing.T) {
	d := browsertest.New("https://leetcode.com/problems/two-sum/description/")
	d.Set(TitleLocators[1], browsertest.Element{Text: "1. Two Sum"})
	d.Set(DescriptionLocators[0], browsertest.Element{Text: "Given an array of integers nums..."})

	id, err := NewProblemReader(d, 10*time.Millisecond).Describe(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "two-sum", id.Slug)
	assert.Equal(t, "1. Two Sum", id.Title)
	assert.Equal(t, "Given an array of integers nums...", id.Description)
}

func TestDescribe_FallsBackToSlugTitle(t *testing.T) {
	d := browsertest.New("https://leetcode.com/problems/merge-k-sorted-lists/")
	d.Set(DescriptionLocators[1], browsertest.Element{Text: strings.Repeat("x", 5000)})

	id, err := NewProblemReader(d, 10*time.Millisecond).Describe(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Merge K Sorted Lists", id.Title)
	assert.Len(t, id.Description, 3000)
}
