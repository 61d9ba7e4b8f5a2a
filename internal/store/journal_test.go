package store

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"bytsbot/internal/judge"
	"bytsbot/internal/solver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := OpenJournal(filepath.Join(t.TempDir(), "data", "attempts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournal_RecordsTransitions(t *testing.T) {
	j := openTestJournal(t)
	wa := judge.Failure(judge.WrongAnswer, "Wrong Answer", "[0,1]", "[1,0]")
	at := time.UnixMilli(1_700_000_000_000)

	j.Transition(solver.Event{Slug: "two-sum", Cycle: 1, State: solver.StateRunning, At: at})
	j.Transition(solver.Event{Slug: "two-sum", Cycle: 1, State: solver.StateDebugging, Outcome: &wa, Detail: "Wrong Answer", At: at})
	j.Transition(solver.Event{Slug: "lru-cache", Cycle: 1, State: solver.StateRunning, At: at})

	got, err := j.Recent("two-sum", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, solver.StateDebugging, got[0].State)
	assert.Equal(t, judge.WrongAnswer, got[0].ErrorKind)
	assert.Equal(t, "Wrong Answer", got[0].Message)
	assert.Equal(t, j.RunID(), got[0].RunID)
	assert.True(t, at.Equal(got[0].At))
	assert.Equal(t, solver.StateRunning, got[1].State)
	assert.Empty(t, got[1].ErrorKind)
}

func TestJournal_RecentLimitAndAll(t *testing.T) {
	j := openTestJournal(t)
	for i := 1; i <= 5; i++ {
		require.NoError(t, j.Record(solver.Event{Slug: "p", Cycle: i, State: solver.StateRunning}))
	}
	require.NoError(t, j.Record(solver.Event{Slug: "q", Cycle: 1, State: solver.StateDone}))

	got, err := j.Recent("p", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 5, got[0].Cycle)
	assert.Equal(t, 4, got[1].Cycle)

	all, err := j.Recent("", 0)
	require.NoError(t, err)
	assert.Len(t, all, 6)
	assert.Equal(t, "q", all[0].Slug)
}

func TestJournal_RunIDsDifferAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attempts.db")

	first, err := OpenJournal(path)
	require.NoError(t, err)
	require.NoError(t, first.Record(solver.Event{Slug: "p", State: solver.StateAborted}))
	require.NoError(t, first.Close())

	second, err := OpenJournal(path)
	require.NoError(t, err)
	defer second.Close()
	require.NoError(t, second.Record(solver.Event{Slug: "p", State: solver.StateDone}))

	got, err := second.Recent("p", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.NotEqual(t, got[0].RunID, got[1].RunID)
	assert.Equal(t, second.RunID(), got[0].RunID)
}

func TestJournal_ConcurrentWrites(t *testing.T) {
	j := openTestJournal(t)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			j.Transition(solver.Event{Slug: "p", Cycle: i, State: solver.StateRunning})
		}(i)
	}
	wg.Wait()

	got, err := j.Recent("p", 100)
	require.NoError(t, err)
	assert.Len(t, got, 10)
}
