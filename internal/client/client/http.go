package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/authgate/internal/client/models"
	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/logging"
)

const maxResponseBody = 1 << 20

// Endpoint paths relative to the API base URL.
const (
	PathCheckSession   = "/auth/me"
	PathLogin          = "/auth/login"
	PathSignup         = "/auth/signup"
	PathLogout         = "/auth/logout"
	PathVerifyEmail    = "/auth/verify-email"
	PathForgotPassword = "/auth/forgot-password"
	PathResetPassword  = "/auth/reset-password"
)

// HTTPClient talks to the identity API over JSON. The session credential
// lives in the underlying http.Client's cookie jar and is never read here.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	log        logging.Logger
}

// Option customizes an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient sets the http.Client used for requests. It should carry
// a cookie jar; without one the session cannot be kept between calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) {
		if l != nil {
			c.log = l
		}
	}
}

// NewHTTPClient constructs an HTTPClient for the API rooted at baseURL,
// e.g. "http://localhost:8080/api".
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        logging.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// apiResponse is the envelope every identity endpoint answers with.
type apiResponse struct {
	Success *bool        `json:"success"`
	User    *models.User `json:"user"`
	Error   string       `json:"error"`
	Message string       `json:"message"`
}

func (r *apiResponse) message(fallback string) string {
	if r == nil {
		return fallback
	}
	if s := strings.TrimSpace(r.Error); s != "" {
		return s
	}
	if s := strings.TrimSpace(r.Message); s != "" {
		return s
	}
	return fallback
}

func (r *apiResponse) rejected() bool {
	return r.Success != nil && !*r.Success
}

func isSuccessStatus(code int) bool {
	return code >= 200 && code < 300
}

func statusCause(code int) error {
	if code == http.StatusUnauthorized || code == http.StatusForbidden {
		return fmt.Errorf("%w: status %d", ErrUnauthorized, code)
	}
	return fmt.Errorf("%w: status %d", ErrRejected, code)
}

// do performs a single request. The returned response is never nil; when
// the body is empty or cannot be decoded it is the zero envelope. Transport
// failures are wrapped with ErrUnavailable, undecodable bodies with
// ErrMalformedResponse.
func (c *HTTPClient) do(ctx context.Context, method, path string, payload any) (int, *apiResponse, error) {
	resp := &apiResponse{}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, resp, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, resp, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, requestID)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return 0, resp, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBody))
	if err != nil {
		return res.StatusCode, resp, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	c.log.Debug(ctx, "identity api call", "method", method, "path", path, "status", res.StatusCode, "request_id", requestID)

	if len(bytes.TrimSpace(raw)) == 0 {
		return res.StatusCode, resp, nil
	}
	if err := json.Unmarshal(raw, resp); err != nil {
		return res.StatusCode, &apiResponse{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return res.StatusCode, resp, nil
}

// call runs a mutating identity operation and normalizes its outcome.
func (c *HTTPClient) call(ctx context.Context, method, path string, payload any, fallback string) (result models.AuthResult) {
	defer func() {
		if p := recover(); p != nil {
			c.log.Error(ctx, "identity api call panicked", "path", path, "panic", fmt.Sprint(p))
			result = models.Failed(MsgUnexpected, fmt.Errorf("panic: %v", p))
		}
	}()

	status, resp, err := c.do(ctx, method, path, payload)
	switch {
	case errors.Is(err, ErrUnavailable):
		c.log.Warn(ctx, "identity api unreachable", "path", path, "error", err)
		return models.Failed(MsgUnavailable, err)
	case status == 0 && err != nil:
		return models.Failed(MsgUnexpected, err)
	case !isSuccessStatus(status):
		return normalize(models.Failed(resp.message(fallback), statusCause(status)))
	case err != nil:
		return models.Failed(MsgMalformed, err)
	case resp.rejected():
		return normalize(models.Failed(resp.message(fallback), ErrRejected))
	default:
		return normalize(models.Succeeded(resp.User))
	}
}

// normalize enforces the result invariant: success carries no error,
// failure carries an error and no user.
func normalize(r models.AuthResult) models.AuthResult {
	if r.Success {
		r.Error = ""
		r.Cause = nil
		return r
	}
	r.User = nil
	if strings.TrimSpace(r.Error) == "" {
		r.Error = MsgUnexpected
	}
	return r
}

func invalid(err error) models.AuthResult {
	return models.Failed(err.Error(), fmt.Errorf("%w: %v", ErrInvalidInput, err))
}

// CheckSession asks whether the cookie jar holds a live session. Any
// non-2xx answer means "anonymous" and leaves Error empty. A transport
// failure still reports Error so the caller can log it.
func (c *HTTPClient) CheckSession(ctx context.Context) (result models.AuthResult) {
	defer func() {
		if p := recover(); p != nil {
			result = models.Failed(MsgUnexpected, fmt.Errorf("panic: %v", p))
		}
	}()

	status, resp, err := c.do(ctx, http.MethodGet, PathCheckSession, nil)
	switch {
	case errors.Is(err, ErrUnavailable):
		return models.Failed(MsgUnavailable, err)
	case status == 0 && err != nil:
		return models.Failed(MsgUnexpected, err)
	case !isSuccessStatus(status):
		return models.AuthResult{Success: false, Cause: statusCause(status)}
	case err != nil:
		return models.Failed(MsgMalformed, err)
	case resp.rejected() || resp.User == nil:
		return models.AuthResult{Success: false}
	default:
		return models.Succeeded(resp.User)
	}
}

// Login authenticates with email and password.
func (c *HTTPClient) Login(ctx context.Context, email, password string) models.AuthResult {
	req := loginRequest{Email: email, Password: password}
	if err := req.Validate(); err != nil {
		return invalid(err)
	}
	return c.call(ctx, http.MethodPost, PathLogin, req, MsgLoginFailed)
}

// Signup registers a new account. A successful signup does not open a
// session; the account has to be verified by email first.
func (c *HTTPClient) Signup(ctx context.Context, username, email, password, confirmPassword string) models.AuthResult {
	req := signupRequest{Username: username, Email: email, Password: password, ConfirmPassword: confirmPassword}
	r := c.call(ctx, http.MethodPost, PathSignup, req, MsgSignupFailed)
	r.User = nil
	return r
}

// Logout invalidates the server-side session.
func (c *HTTPClient) Logout(ctx context.Context) models.AuthResult {
	return c.call(ctx, http.MethodPost, PathLogout, nil, MsgLogoutFailed)
}

// VerifyEmail confirms an account with the token sent by email.
func (c *HTTPClient) VerifyEmail(ctx context.Context, token string) models.AuthResult {
	req := tokenRequest{Token: token}
	if err := req.Validate(); err != nil {
		return invalid(err)
	}
	return c.call(ctx, http.MethodPost, PathVerifyEmail, req, MsgVerifyEmailFailed)
}

// ForgotPassword requests a password reset email.
func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) models.AuthResult {
	req := forgotPasswordRequest{Email: email}
	if err := req.Validate(); err != nil {
		return invalid(err)
	}
	return c.call(ctx, http.MethodPost, PathForgotPassword, req, MsgForgotPasswordFailed)
}

// ResetPassword sets a new password using a reset token.
func (c *HTTPClient) ResetPassword(ctx context.Context, token, password, confirmPassword string) models.AuthResult {
	req := resetPasswordRequest{Token: token, Password: password, ConfirmPassword: confirmPassword}
	if err := req.Validate(); err != nil {
		return invalid(err)
	}
	return c.call(ctx, http.MethodPost, PathResetPassword, req, MsgResetPasswordFailed)
}

var _ Client = (*HTTPClient)(nil)
