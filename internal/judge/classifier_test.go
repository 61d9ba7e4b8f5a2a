package judge

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"bytsbot/internal/config"

	"github.com/stretchr/testify/assert"
)

func fastClassifier() *Classifier {
	return &Classifier{PollBudget: 5, PollInterval: time.Millisecond}
}

func TestClassify_RunNotTriggeredPasses(t *testing.T) {
	called := false
	src := TextSourceFunc(func(context.Context) (string, error) {
		called = true
		return "", nil
	})

	got := fastClassifier().Classify(context.Background(), src, false)
	assert.True(t, got.Passed)
	assert.Equal(t, Accepted, got.ErrorKind)
	assert.False(t, called, "source must not be polled")
}

func TestClassify_RunNotTriggeredFailClosed(t *testing.T) {
	c := fastClassifier()
	c.FailClosed = true

	got := c.Classify(context.Background(), StaticText("Accepted Runtime"), false)
	assert.False(t, got.Passed)
	assert.Equal(t, Unknown, got.ErrorKind)
}

func TestClassify_WaitsForSignal(t *testing.T) {
	var polls atomic.Int32
	src := TextSourceFunc(func(context.Context) (string, error) {
		if polls.Add(1) < 3 {
			return "Pending", nil
		}
		return "Wrong Answer\nOutput\n1\nExpected\n2", nil
	})

	got := fastClassifier().Classify(context.Background(), src, true)
	assert.Equal(t, WrongAnswer, got.ErrorKind)
	assert.Equal(t, "1", got.Actual)
	assert.Equal(t, "2", got.Expected)
	assert.Equal(t, int32(3), polls.Load())
}

func TestClassify_SourceErrorsAreRetried(t *testing.T) {
	var polls atomic.Int32
	src := TextSourceFunc(func(context.Context) (string, error) {
		if polls.Add(1) == 1 {
			return "", errors.New("detached")
		}
		return "Accepted Runtime: 1 ms", nil
	})

	got := fastClassifier().Classify(context.Background(), src, true)
	assert.True(t, got.Passed)
}

func TestClassify_BudgetExhaustedIsTimeout(t *testing.T) {
	var polls atomic.Int32
	src := TextSourceFunc(func(context.Context) (string, error) {
		polls.Add(1)
		return "Pending", nil
	})

	got := fastClassifier().Classify(context.Background(), src, true)
	assert.False(t, got.Passed)
	assert.Equal(t, Timeout, got.ErrorKind)
	assert.Empty(t, got.Expected)
	assert.Empty(t, got.Actual)
	assert.Equal(t, int32(5), polls.Load())
}

func TestClassify_CancelledContextStopsPolling(t *testing.T) {
	c := &Classifier{PollBudget: 1000, PollInterval: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	got := c.Classify(ctx, StaticText(""), true)
	assert.Equal(t, Timeout, got.ErrorKind)
	assert.Less(t, time.Since(start), time.Second)
}

func TestNewClassifier_FromConfig(t *testing.T) {
	cfg := config.DefaultConfig().Solver
	c := NewClassifier(cfg)
	assert.Equal(t, 40, c.PollBudget)
	assert.Equal(t, time.Second, c.PollInterval)
	assert.False(t, c.FailClosed)

	cfg.RunFallback = config.RunFallbackFail
	assert.True(t, NewClassifier(cfg).FailClosed)
}
