package portal

import (
	"context"
	"testing"
	"time"

	"bytsbot/internal/browser/browsertest"
	"bytsbot/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuth(d *browsertest.Driver, wait time.Duration) *Auth {
	cfg := config.DefaultConfig()
	cfg.Portal.LoginWait = wait.String()
	a := NewAuth(d, cfg.Portal, cfg.Judge)
	a.Probe = 5 * time.Millisecond
	a.PollInterval = 5 * time.Millisecond
	return a
}

func TestLoginRequired(t *testing.T) {
	ctx := context.Background()

	t.Run("judge login page", func(t *testing.T) {
		d := browsertest.New("https://leetcode.com/accounts/login/?next=/problems/two-sum/")
		assert.True(t, testAuth(d, time.Second).LoginRequired(ctx))
	})
	t.Run("judge with avatar", func(t *testing.T) {
		d := browsertest.New("https://leetcode.com/problems/two-sum/")
		d.Set(JudgeSignedIn[1], browsertest.Element{})
		assert.False(t, testAuth(d, time.Second).LoginRequired(ctx))
	})
	t.Run("judge with sign in link", func(t *testing.T) {
		d := browsertest.New("https://leetcode.com/problems/two-sum/")
		d.Set(JudgeSignIn[0], browsertest.Element{})
		assert.True(t, testAuth(d, time.Second).LoginRequired(ctx))
	})
	t.Run("judge without either marker", func(t *testing.T) {
		d := browsertest.New("https://leetcode.com/problems/two-sum/")
		assert.False(t, testAuth(d, time.Second).LoginRequired(ctx))
	})
	t.Run("portal without sidebar", func(t *testing.T) {
		d := browsertest.New("https://www.bytsone.com/home/courses")
		assert.True(t, testAuth(d, time.Second).LoginRequired(ctx))
	})
	t.Run("portal with sidebar", func(t *testing.T) {
		d := browsertest.New("https://www.bytsone.com/home/courses")
		d.Set(PortalSignedIn[1], browsertest.Element{})
		assert.False(t, testAuth(d, time.Second).LoginRequired(ctx))
	})
	t.Run("unrelated site", func(t *testing.T) {
		d := browsertest.New("https://example.com/")
		assert.False(t, testAuth(d, time.Second).LoginRequired(ctx))
	})
}

func TestEnsureLoggedIn_WaitsForManualLogin(t *testing.T) {
	d := browsertest.New("about:blank")
	d.Set(JudgeSignedIn[0], browsertest.Element{})

	go func() {
		time.Sleep(30 * time.Millisecond)
		d.Set(PortalSignedIn[2], browsertest.Element{})
	}()

	require.NoError(t, testAuth(d, 5*time.Second).EnsureLoggedIn(context.Background()))
	assert.Equal(t, []string{"https://www.bytsone.com/home/courses", "https://leetcode.com"}, d.Visited())
}

func TestEnsureLoggedIn_TimesOut(t *testing.T) {
	d := browsertest.New("about:blank")

	err := testAuth(d, 30*time.Millisecond).EnsureLoggedIn(context.Background())
	assert.ErrorIs(t, err, ErrLoginRequired)
}

func TestEnsureLoggedIn_Cancelled(t *testing.T) {
	d := browsertest.New("about:blank")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := testAuth(d, time.Minute).EnsureLoggedIn(ctx)
	assert.Error(t, err)
}
