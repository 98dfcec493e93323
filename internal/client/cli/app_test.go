package cli

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/authgate/internal/client/client"
	"github.com/dmitrijs2005/authgate/internal/client/models"
	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/logging"
)

func TestIsLoggedIn(t *testing.T) {
	assert.False(t, newTestEnv(t, anonymous()).app.isLoggedIn())
	assert.True(t, newTestEnv(t, models.Succeeded(alice)).app.isLoggedIn())
}

func TestSetMode_ChangesAndLogsOnce(t *testing.T) {
	env := newTestEnv(t, anonymous())
	var buf bytes.Buffer
	env.app.log = logging.New(&buf, slog.LevelInfo)

	env.app.setMode(ModeOnline)
	assert.Equal(t, ModeOnline, env.app.Mode())
	assert.Contains(t, buf.String(), "mode=online")

	buf.Reset()
	env.app.setMode(ModeOnline)
	assert.Empty(t, buf.String(), "no log when the mode does not change")

	env.app.setMode(ModeOffline)
	assert.Equal(t, ModeOffline, env.app.Mode())
	assert.Contains(t, buf.String(), "mode=offline")
}

func TestGetStatus(t *testing.T) {
	env := newTestEnv(t, anonymous())
	assert.Equal(t, common.PathLogin, env.app.getStatus())

	env = newTestEnv(t, models.Succeeded(alice))
	env.app.nav.Replace(common.PathDashboard)
	assert.Equal(t, "(alice) /dashboard", env.app.getStatus())

	env.app.setMode(ModeOffline)
	assert.Equal(t, "(alice offline) /dashboard", env.app.getStatus())
}

func TestCheckSession(t *testing.T) {
	env := newTestEnv(t, models.Succeeded(alice))
	ctx := context.Background()

	env.client.setCheck(models.Failed(client.MsgUnavailable, client.ErrUnavailable))
	env.app.checkSession(ctx)
	assert.Equal(t, ModeOffline, env.app.Mode())
	assert.True(t, env.store.IsAuthenticated(), "an unreachable server keeps the session")

	env.client.setCheck(models.Succeeded(alice))
	env.app.checkSession(ctx)
	assert.Equal(t, ModeOnline, env.app.Mode())

	env.client.setCheck(models.AuthResult{Cause: fmt.Errorf("%w: status 401", client.ErrUnauthorized)})
	env.app.checkSession(ctx)
	assert.False(t, env.store.IsAuthenticated())
}

func TestCheckSession_AnonymousIsSkipped(t *testing.T) {
	env := newTestEnv(t, anonymous())
	env.client.setCheck(models.Succeeded(alice))

	env.app.checkSession(context.Background())

	assert.False(t, env.store.IsAuthenticated())
	assert.Equal(t, Mode(""), env.app.Mode())
}

func TestStartSessionWatcher(t *testing.T) {
	env := newTestEnv(t, models.Succeeded(alice))
	env.client.setCheck(models.Failed(client.MsgUnavailable, client.ErrUnavailable))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		env.app.StartSessionWatcher(ctx, 5*time.Millisecond)
	}()

	require.Eventually(t, func() bool { return env.app.Mode() == ModeOffline }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}
