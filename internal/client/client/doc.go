// Package client contains the transport side of the authgate client.
//
// # Overview
//
// The package provides:
//  1. The session client contract (see the Client interface) covering the
//     identity operations: CheckSession, Login, Signup, Logout, VerifyEmail,
//     ForgotPassword and ResetPassword.
//  2. A concrete JSON-over-HTTP implementation (see HTTPClient) that relies on
//     the http.Client's cookie jar for the session credential and folds every
//     failure into a models.AuthResult.
//  3. A cookie jar persisted to SQLite (see PersistentJar) so a session
//     survives process restarts, and NewAuthorizedHTTPClient, which reports
//     401/403 answers from any other API call.
//  4. Local persistence bootstrap (InitDatabase, RunMigrations) applying the
//     embedded goose migrations.
//
// # Error Handling
//
// Failures are classified with sentinel errors carried in AuthResult.Cause:
// ErrUnavailable, ErrUnauthorized, ErrRejected, ErrMalformedResponse and
// ErrInvalidInput. Match them with errors.Is.
//
// Concurrency & Contexts
//
// HTTPClient and PersistentJar are safe for concurrent use. All network
// operations accept a context.Context and honor cancellation and deadlines;
// a cancelled call is reported like any other transport failure.
package client
