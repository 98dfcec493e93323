package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/authgate/internal/client/client"
	"github.com/dmitrijs2005/authgate/internal/client/session"
	"github.com/dmitrijs2005/authgate/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// busy reports, and tells the user, when a request is already in flight.
func (a *App) busy(st *session.Store) bool {
	if st.Snapshot().Loading {
		fmt.Fprintln(a.out, "Please wait, another request is in progress")
		return true
	}
	return false
}

// reportFailure prints the store's error verbatim, or fallback if it has none.
func (a *App) reportFailure(st *session.Store, fallback string) {
	msg := st.Snapshot().Error
	if msg == "" {
		msg = fallback
	}
	fmt.Fprintln(a.out, "Error:", msg)
}

func (a *App) lastEmail(ctx context.Context) string {
	email, err := a.auth.LastEmail(ctx)
	if err != nil {
		a.log.Warn(ctx, "read last email failed", "error", err)
	}
	return email
}

// Login prompts for credentials and logs in. The email prompt is
// pre-filled with the last one that worked. On success the dashboard
// becomes the current view.
func (a *App) Login(ctx context.Context) error {
	st := session.MustFromContext(ctx)
	if a.busy(st) {
		return nil
	}
	a.nav.Push(common.PathLogin)

	email, err := GetTextOr(a.reader, "Enter email", a.lastEmail(ctx), a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if !a.auth.Login(ctx, email, string(password)) {
		a.reportFailure(st, client.MsgLoginFailed)
		return nil
	}

	a.setMode(ModeOnline)
	if u := st.Snapshot().User; u != nil {
		fmt.Fprintf(a.out, "Welcome, %s!\n", u.DisplayName())
	}
	a.nav.Replace(common.PathDashboard)
	return nil
}

// Signup registers an account. It does not log in: the account has to be
// verified first, so the verify screen comes next.
func (a *App) Signup(ctx context.Context) error {
	st := session.MustFromContext(ctx)
	if a.busy(st) {
		return nil
	}
	a.nav.Push(common.PathSignup)

	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	confirm, err := getPassword(a.out, "Confirm password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if !st.Signup(ctx, username, email, string(password), string(confirm)) {
		a.reportFailure(st, client.MsgSignupFailed)
		return nil
	}

	fmt.Fprintln(a.out, "Account created. Check your email for the verification link, then run 'verify <token>'.")
	a.nav.Replace(common.PathVerifyEmail)
	return nil
}

// VerifyEmail confirms an account. token may come from the command line;
// when empty it is prompted for.
func (a *App) VerifyEmail(ctx context.Context, token string) error {
	st := session.MustFromContext(ctx)
	if a.busy(st) {
		return nil
	}
	a.nav.Push(common.PathVerifyEmail)

	if token == "" {
		var err error
		if token, err = getSimpleText(a.reader, "Enter verification token", a.out); err != nil {
			return err
		}
	}

	if !st.VerifyEmail(ctx, token) {
		a.reportFailure(st, client.MsgVerifyEmailFailed)
		return nil
	}

	fmt.Fprintln(a.out, "Email verified. You can now log in.")
	a.nav.Replace(common.PathLogin)
	return nil
}

// ForgotPassword asks the server for a reset email.
func (a *App) ForgotPassword(ctx context.Context) error {
	st := session.MustFromContext(ctx)
	if a.busy(st) {
		return nil
	}
	a.nav.Push(common.PathForgotPassword)

	email, err := GetTextOr(a.reader, "Enter email", a.lastEmail(ctx), a.out)
	if err != nil {
		return err
	}

	if !st.ForgotPassword(ctx, email) {
		a.reportFailure(st, client.MsgForgotPasswordFailed)
		return nil
	}
	fmt.Fprintln(a.out, "If the account exists, a password reset link is on its way.")
	return nil
}

// ResetPassword sets a new password with the emailed token.
func (a *App) ResetPassword(ctx context.Context, token string) error {
	st := session.MustFromContext(ctx)
	if a.busy(st) {
		return nil
	}
	a.nav.Push(common.PathResetPassword)

	if token == "" {
		var err error
		if token, err = getSimpleText(a.reader, "Enter reset token", a.out); err != nil {
			return err
		}
	}
	password, err := getPassword(a.out, "Enter new password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	confirm, err := getPassword(a.out, "Confirm new password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if !st.ResetPassword(ctx, token, string(password), string(confirm)) {
		a.reportFailure(st, client.MsgResetPasswordFailed)
		return nil
	}

	fmt.Fprintln(a.out, "Password updated. You can now log in.")
	a.nav.Replace(common.PathLogin)
	return nil
}

// Logout ends the session. The local user is forgotten even when the
// server cannot be reached.
func (a *App) Logout(ctx context.Context) error {
	st := session.MustFromContext(ctx)
	if !st.IsAuthenticated() {
		fmt.Fprintln(a.out, "You are not logged in")
		return nil
	}
	if a.busy(st) {
		return nil
	}

	st.Logout(ctx)
	a.nav.Replace(common.PathLogin)
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// ForgetMe logs out and wipes everything stored locally.
func (a *App) ForgetMe(ctx context.Context) error {
	st := session.MustFromContext(ctx)
	if a.busy(st) {
		return nil
	}
	if st.IsAuthenticated() {
		st.Logout(ctx)
		a.nav.Replace(common.PathLogin)
	}
	if err := a.auth.ForgetMe(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Local data removed")
	return nil
}
