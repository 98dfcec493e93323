package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/dmitrijs2005/authgate/internal/client/config"
	"github.com/dmitrijs2005/authgate/internal/client/models"
	"github.com/dmitrijs2005/authgate/internal/client/services"
	"github.com/dmitrijs2005/authgate/internal/client/session"
)

// fakeClient implements client.Client with canned results.
type fakeClient struct {
	mu sync.Mutex

	CheckRet  models.AuthResult
	LoginRet  models.AuthResult
	SignupRet models.AuthResult
	LogoutRet models.AuthResult
	VerifyRet models.AuthResult
	ForgotRet models.AuthResult
	ResetRet  models.AuthResult

	LastEmail    string
	LastPassword string
	LastToken    string
	LastConfirm  string
	LastUsername string
}

func (f *fakeClient) CheckSession(context.Context) models.AuthResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.CheckRet
}
func (f *fakeClient) Login(_ context.Context, email, password string) models.AuthResult {
	f.LastEmail, f.LastPassword = email, password
	return f.LoginRet
}
func (f *fakeClient) Signup(_ context.Context, username, email, password, confirm string) models.AuthResult {
	f.LastUsername, f.LastEmail, f.LastPassword, f.LastConfirm = username, email, password, confirm
	return f.SignupRet
}
func (f *fakeClient) Logout(context.Context) models.AuthResult { return f.LogoutRet }
func (f *fakeClient) VerifyEmail(_ context.Context, token string) models.AuthResult {
	f.LastToken = token
	return f.VerifyRet
}
func (f *fakeClient) ForgotPassword(_ context.Context, email string) models.AuthResult {
	f.LastEmail = email
	return f.ForgotRet
}
func (f *fakeClient) ResetPassword(_ context.Context, token, password, confirm string) models.AuthResult {
	f.LastToken, f.LastPassword, f.LastConfirm = token, password, confirm
	return f.ResetRet
}

func (f *fakeClient) setCheck(r models.AuthResult) {
	f.mu.Lock()
	f.CheckRet = r
	f.mu.Unlock()
}

// fakeAuth implements services.AuthService on top of a real store.
type fakeAuth struct {
	store     *session.Store
	lastEmail string
	forgotten bool
	ForgetErr error
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) bool {
	ok := f.store.Login(ctx, email, password)
	if ok {
		f.lastEmail = email
	}
	return ok
}
func (f *fakeAuth) LastEmail(context.Context) (string, error) { return f.lastEmail, nil }
func (f *fakeAuth) ClearSession(context.Context) error        { return nil }
func (f *fakeAuth) LogoutHook(context.Context)                {}
func (f *fakeAuth) ForgetMe(context.Context) error {
	f.forgotten = true
	f.lastEmail = ""
	return f.ForgetErr
}

type fakeDashboard struct {
	Ret   *models.Dashboard
	Err   error
	calls int
}

func (f *fakeDashboard) Summary(context.Context) (*models.Dashboard, error) {
	f.calls++
	return f.Ret, f.Err
}

var (
	_ services.AuthService      = (*fakeAuth)(nil)
	_ services.DashboardService = (*fakeDashboard)(nil)
)

type testEnv struct {
	app    *App
	client *fakeClient
	auth   *fakeAuth
	dash   *fakeDashboard
	store  *session.Store
	out    *bytes.Buffer
	ctx    context.Context
}

// newTestEnv builds an App over fakes with a bootstrapped store. check is
// the bootstrap answer.
func newTestEnv(t *testing.T, check models.AuthResult) *testEnv {
	t.Helper()
	fc := &fakeClient{CheckRet: check}
	store := session.NewStore(fc)
	auth := &fakeAuth{store: store}
	dash := &fakeDashboard{Ret: &models.Dashboard{Data: map[string]any{"projects": 2, "alerts": 0}}}

	cfg := &config.Config{}
	cfg.LoadDefaults()

	app := newApp(cfg, store, auth, dash, nil)
	out := &bytes.Buffer{}
	app.out = out

	ctx := session.NewContext(context.Background(), store)
	store.Bootstrap(ctx)

	return &testEnv{app: app, client: fc, auth: auth, dash: dash, store: store, out: out, ctx: ctx}
}

// stubInputs feeds text answers and passwords from queues.
func stubInputs(t *testing.T, texts []string, passwords []string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})

	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(texts) == 0 {
			return "", io.EOF
		}
		v := texts[0]
		texts = texts[1:]
		return v, nil
	}
	getPassword = func(_ io.Writer, _ string) ([]byte, error) {
		if len(passwords) == 0 {
			return nil, io.EOF
		}
		v := passwords[0]
		passwords = passwords[1:]
		return []byte(v), nil
	}
}
