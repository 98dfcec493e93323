package client

import "errors"

var (
	ErrUnavailable       = errors.New("server unavailable")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrRejected          = errors.New("request rejected")
	ErrMalformedResponse = errors.New("malformed response")
	ErrInvalidInput      = errors.New("invalid input")
)

// User-facing messages used when the server does not supply its own.
const (
	MsgUnavailable = "Unable to reach the server, please try again"
	MsgMalformed   = "Unexpected response from server"
	MsgUnexpected  = "Unexpected error, please try again"

	MsgLoginFailed          = "Login failed"
	MsgSignupFailed         = "Signup failed"
	MsgLogoutFailed         = "Logout failed"
	MsgVerifyEmailFailed    = "Email verification failed"
	MsgForgotPasswordFailed = "Failed to send password reset email"
	MsgResetPasswordFailed  = "Password reset failed"
)
