package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/authgate/internal/client/client"
	"github.com/dmitrijs2005/authgate/internal/client/models"
	"github.com/dmitrijs2005/authgate/internal/common"
)

var alice = &models.User{ID: "u-1", Username: "alice", Email: "alice@example.com", IsVerified: true}

func anonymous() models.AuthResult { return models.AuthResult{} }

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t, anonymous())
	env.client.LoginRet = models.Succeeded(alice)
	stubInputs(t, []string{"alice@example.com"}, []string{"secret"})

	require.NoError(t, env.app.Login(env.ctx))

	assert.True(t, env.store.IsAuthenticated())
	assert.Equal(t, "secret", env.client.LastPassword)
	assert.Contains(t, env.out.String(), "Welcome, alice!")
	assert.Equal(t, common.PathDashboard, env.app.nav.Current())
	assert.Equal(t, ModeOnline, env.app.Mode())
	assert.Equal(t, "alice@example.com", env.auth.lastEmail)
}

func TestLogin_UsesRememberedEmail(t *testing.T) {
	env := newTestEnv(t, anonymous())
	env.auth.lastEmail = "remembered@example.com"
	env.client.LoginRet = models.Succeeded(alice)
	stubInputs(t, []string{""}, []string{"secret"})

	require.NoError(t, env.app.Login(env.ctx))
	assert.Equal(t, "remembered@example.com", env.client.LastEmail)
}

func TestLogin_Failure(t *testing.T) {
	tests := []struct {
		name string
		ret  models.AuthResult
		want string
	}{
		{name: "server message", ret: models.Failed("Invalid credentials", client.ErrRejected), want: "Error: Invalid credentials"},
		{name: "fallback", ret: models.AuthResult{}, want: "Error: Login failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, anonymous())
			env.client.LoginRet = tt.ret
			stubInputs(t, []string{"a@b.com"}, []string{"pw"})

			require.NoError(t, env.app.Login(env.ctx))

			assert.Contains(t, env.out.String(), tt.want)
			assert.False(t, env.store.IsAuthenticated())
			assert.Equal(t, common.PathLogin, env.app.nav.Current())
		})
	}
}

func TestLogin_InputError(t *testing.T) {
	env := newTestEnv(t, anonymous())
	stubInputs(t, nil, nil)

	require.Error(t, env.app.Login(env.ctx))
}

func TestScreens_RefuseWhileLoading(t *testing.T) {
	env := newTestEnv(t, anonymous())
	env.store.Reset()
	stubInputs(t, []string{"a@b.com"}, []string{"pw"})

	require.NoError(t, env.app.Login(env.ctx))
	require.NoError(t, env.app.ForgotPassword(env.ctx))

	assert.Contains(t, env.out.String(), "Please wait, another request is in progress")
	assert.Empty(t, env.client.LastEmail, "no request may be sent while busy")
}

func TestScreens_OutsideStoreScopePanics(t *testing.T) {
	env := newTestEnv(t, anonymous())

	assert.Panics(t, func() { _ = env.app.Login(context.Background()) })
	assert.Panics(t, func() { _ = env.app.Logout(context.Background()) })
}

func TestSignup(t *testing.T) {
	env := newTestEnv(t, anonymous())
	env.client.SignupRet = models.Succeeded(&models.User{ID: "new"})
	stubInputs(t, []string{"bob", "bob@example.com"}, []string{"pw1", "pw1"})

	require.NoError(t, env.app.Signup(env.ctx))

	assert.Equal(t, "bob", env.client.LastUsername)
	assert.Equal(t, "pw1", env.client.LastConfirm)
	assert.False(t, env.store.IsAuthenticated(), "signup must not log in")
	assert.Contains(t, env.out.String(), "Account created")
	assert.Equal(t, common.PathVerifyEmail, env.app.nav.Current())
}

func TestSignup_Failure(t *testing.T) {
	env := newTestEnv(t, anonymous())
	env.client.SignupRet = models.Failed("Passwords do not match", client.ErrRejected)
	stubInputs(t, []string{"bob", "bob@example.com"}, []string{"pw1", "pw2"})

	require.NoError(t, env.app.Signup(env.ctx))
	assert.Contains(t, env.out.String(), "Error: Passwords do not match")
	assert.Equal(t, common.PathSignup, env.app.nav.Current())
}

func TestVerifyEmail(t *testing.T) {
	t.Run("token from command line", func(t *testing.T) {
		env := newTestEnv(t, anonymous())
		env.client.VerifyRet = models.Succeeded(nil)
		stubInputs(t, nil, nil)

		require.NoError(t, env.app.VerifyEmail(env.ctx, "tok-1"))
		assert.Equal(t, "tok-1", env.client.LastToken)
		assert.Contains(t, env.out.String(), "Email verified")
		assert.Equal(t, common.PathLogin, env.app.nav.Current())
	})

	t.Run("prompted token, failure", func(t *testing.T) {
		env := newTestEnv(t, anonymous())
		env.client.VerifyRet = models.AuthResult{}
		stubInputs(t, []string{"tok-2"}, nil)

		require.NoError(t, env.app.VerifyEmail(env.ctx, ""))
		assert.Equal(t, "tok-2", env.client.LastToken)
		assert.Contains(t, env.out.String(), "Error: "+client.MsgVerifyEmailFailed)
	})
}

func TestForgotPassword(t *testing.T) {
	env := newTestEnv(t, anonymous())
	env.client.ForgotRet = models.Succeeded(nil)
	stubInputs(t, []string{"a@b.com"}, nil)

	require.NoError(t, env.app.ForgotPassword(env.ctx))
	assert.Equal(t, "a@b.com", env.client.LastEmail)
	assert.Contains(t, env.out.String(), "password reset link")

	env.client.ForgotRet = models.Failed("Too many requests", client.ErrRejected)
	stubInputs(t, []string{"a@b.com"}, nil)
	require.NoError(t, env.app.ForgotPassword(env.ctx))
	assert.Contains(t, env.out.String(), "Error: Too many requests")
}

func TestResetPassword(t *testing.T) {
	env := newTestEnv(t, anonymous())
	env.client.ResetRet = models.Succeeded(nil)
	stubInputs(t, nil, []string{"new-pw", "new-pw"})

	require.NoError(t, env.app.ResetPassword(env.ctx, "rst"))

	assert.Equal(t, "rst", env.client.LastToken)
	assert.Equal(t, "new-pw", env.client.LastConfirm)
	assert.Contains(t, env.out.String(), "Password updated")
	assert.Equal(t, common.PathLogin, env.app.nav.Current())
}

func TestLogout(t *testing.T) {
	t.Run("not logged in", func(t *testing.T) {
		env := newTestEnv(t, anonymous())
		require.NoError(t, env.app.Logout(env.ctx))
		assert.Contains(t, env.out.String(), "You are not logged in")
	})

	t.Run("remote failure still logs out", func(t *testing.T) {
		env := newTestEnv(t, models.Succeeded(alice))
		env.app.nav.Replace(common.PathDashboard)
		env.client.LogoutRet = models.Failed(client.MsgUnavailable, client.ErrUnavailable)

		require.NoError(t, env.app.Logout(env.ctx))

		assert.False(t, env.store.IsAuthenticated())
		assert.Empty(t, env.store.Snapshot().Error)
		assert.Contains(t, env.out.String(), "Logged out")
		assert.Equal(t, common.PathLogin, env.app.nav.Current())
	})
}

func TestForgetMe(t *testing.T) {
	env := newTestEnv(t, models.Succeeded(alice))
	env.auth.lastEmail = "alice@example.com"
	env.client.LogoutRet = models.Succeeded(nil)

	require.NoError(t, env.app.ForgetMe(env.ctx))

	assert.True(t, env.auth.forgotten)
	assert.False(t, env.store.IsAuthenticated())
	assert.Contains(t, env.out.String(), "Local data removed")
}
