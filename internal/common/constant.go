// Package common contains small helpers and constants shared by the authgate
// client packages.
package common

// RequestIDHeaderName is the HTTP header carrying a per-request correlation ID
// on outbound identity API calls.
const RequestIDHeaderName = "X-Request-ID"

// Navigation paths shared by the CLI and the web shell.
const (
	PathLogin          = "/login"
	PathSignup         = "/signup"
	PathVerifyEmail    = "/verify-email"
	PathForgotPassword = "/forgot-password"
	PathResetPassword  = "/reset-password"
	PathDashboard      = "/dashboard"
	PathProfile        = "/profile"
)
