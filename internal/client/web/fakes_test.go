package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/authgate/internal/client/config"
	"github.com/dmitrijs2005/authgate/internal/client/models"
	"github.com/dmitrijs2005/authgate/internal/client/services"
	"github.com/dmitrijs2005/authgate/internal/client/session"
)

var alice = &models.User{ID: "u-1", Username: "alice", Email: "alice@example.com", IsVerified: true}

type fakeClient struct {
	mu sync.Mutex

	CheckRet  models.AuthResult
	LoginRet  models.AuthResult
	SignupRet models.AuthResult
	LogoutRet models.AuthResult
	VerifyRet models.AuthResult
	ForgotRet models.AuthResult
	ResetRet  models.AuthResult

	LastEmail   string
	LastToken   string
	LogoutCalls int
}

func (f *fakeClient) CheckSession(context.Context) models.AuthResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.CheckRet
}
func (f *fakeClient) Login(_ context.Context, email, _ string) models.AuthResult {
	f.LastEmail = email
	return f.LoginRet
}
func (f *fakeClient) Signup(_ context.Context, _, email, _, _ string) models.AuthResult {
	f.LastEmail = email
	return f.SignupRet
}
func (f *fakeClient) Logout(context.Context) models.AuthResult {
	f.LogoutCalls++
	return f.LogoutRet
}
func (f *fakeClient) VerifyEmail(_ context.Context, token string) models.AuthResult {
	f.LastToken = token
	return f.VerifyRet
}
func (f *fakeClient) ForgotPassword(_ context.Context, email string) models.AuthResult {
	f.LastEmail = email
	return f.ForgotRet
}
func (f *fakeClient) ResetPassword(_ context.Context, token, _, _ string) models.AuthResult {
	f.LastToken = token
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
	f.lastEmail = ""
	return nil
}

type fakeDashboard struct {
	Ret   *models.Dashboard
	Err   error
	Calls int
}

func (f *fakeDashboard) Summary(context.Context) (*models.Dashboard, error) {
	f.Calls++
	return f.Ret, f.Err
}

var (
	_ services.AuthService      = (*fakeAuth)(nil)
	_ services.DashboardService = (*fakeDashboard)(nil)
)

type testEnv struct {
	client *fakeClient
	store  *session.Store
	auth   *fakeAuth
	dash   *fakeDashboard
	app    *App
}

// newTestEnv builds an App over fakes. The store is bootstrapped with
// check unless bootstrap is false.
func newTestEnv(t *testing.T, check models.AuthResult, bootstrap bool) *testEnv {
	t.Helper()
	fc := &fakeClient{CheckRet: check}
	store := session.NewStore(fc)
	auth := &fakeAuth{store: store}
	dash := &fakeDashboard{}

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.WebListenAddr = "127.0.0.1:0"
	cfg.SessionCheckInterval = 0

	if bootstrap {
		store.Bootstrap(context.Background())
	}
	return &testEnv{client: fc, store: store, auth: auth, dash: dash, app: newApp(cfg, store, auth, dash, nil)}
}

func (e *testEnv) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func (e *testEnv) post(t *testing.T, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	e.app.Handler().ServeHTTP(rec, req)
	return rec
}

func requireRedirect(t *testing.T, rec *httptest.ResponseRecorder, status int, location string) {
	t.Helper()
	require.Equal(t, status, rec.Code)
	require.Equal(t, location, rec.Header().Get("Location"))
}
