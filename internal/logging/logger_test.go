package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T, o Options) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	InitializeWithLogger(zap.New(core), o)
	t.Cleanup(func() { InitializeWithLogger(zap.NewNop(), Options{}) })
	return logs
}

func TestGet_TagsCategory(t *testing.T) {
	logs := observe(t, Options{})

	Solver("cycle %d/%d", 1, 3)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "cycle 1/3", entries[0].Message)
	assert.Equal(t, "solver", entries[0].ContextMap()["cat"])
}

func TestGet_DisabledCategoryIsSilent(t *testing.T) {
	logs := observe(t, Options{Categories: map[string]bool{"scraper": false}})

	Scraper("hidden")
	Judge("visible")

	require.Len(t, logs.All(), 1)
	assert.Equal(t, "visible", logs.All()[0].Message)
	assert.False(t, IsCategoryEnabled(CategoryScraper))
	assert.True(t, IsCategoryEnabled(CategoryJudge))
}

func TestWith_CarriesFields(t *testing.T) {
	logs := observe(t, Options{})

	Get(CategoryRunner).With("slug", "two-sum").Warn("retrying")

	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "two-sum", entry.ContextMap()["slug"])
}

func TestInitialize_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "bot.log")
	require.NoError(t, Initialize(Options{Level: "debug", Format: "json", File: path}))
	t.Cleanup(func() {
		CloseAll()
		InitializeWithLogger(zap.NewNop(), Options{})
	})

	Progress("saved %s", "two-sum")
	CloseAll()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"msg":"saved two-sum"`), string(data))
}

func TestInitialize_RejectsBadOptions(t *testing.T) {
	assert.Error(t, Initialize(Options{Level: "loud"}))
	assert.Error(t, Initialize(Options{Format: "xml"}))
}
