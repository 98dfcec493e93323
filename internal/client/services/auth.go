// Package services holds the client-side use cases layered over the
// session store and the local database.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/authgate/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/authgate/internal/client/session"
	"github.com/dmitrijs2005/authgate/internal/logging"
)

// CookieClearer forgets the stored session credential.
type CookieClearer interface {
	Clear(ctx context.Context) error
}

// AuthService adds local bookkeeping around the session store.
//
//   - Login: log in through the store and remember the email on success.
//   - LastEmail: the email of the last successful login, "" if none.
//   - ClearSession: drop the persisted session cookies (used as the store's
//     logout hook).
//   - LogoutHook: ClearSession in the shape session.WithLogoutHook wants,
//     logging instead of returning the error.
//   - ForgetMe: ClearSession plus every remembered fact.
type AuthService interface {
	Login(ctx context.Context, email, password string) bool
	LastEmail(ctx context.Context) (string, error)
	ClearSession(ctx context.Context) error
	LogoutHook(ctx context.Context)
	ForgetMe(ctx context.Context) error
}

type authService struct {
	store    *session.Store
	metadata metadata.Repository
	cookies  CookieClearer
	log      logging.Logger
}

// NewAuthService builds an AuthService over store.
func NewAuthService(store *session.Store, meta metadata.Repository, cookies CookieClearer, log logging.Logger) AuthService {
	if log == nil {
		log = logging.NewNop()
	}
	return &authService{store: store, metadata: meta, cookies: cookies, log: log}
}

// Login forwards to the store. Failing to remember the email is logged and
// does not fail the login.
func (a *authService) Login(ctx context.Context, email, password string) bool {
	if !a.store.Login(ctx, email, password) {
		return false
	}
	if err := a.metadata.Set(ctx, metadata.KeyLastEmail, []byte(email)); err != nil {
		a.log.Warn(ctx, "remember last email failed", "error", err)
	}
	return true
}

func (a *authService) LastEmail(ctx context.Context) (string, error) {
	v, err := a.metadata.Get(ctx, metadata.KeyLastEmail)
	if err != nil {
		return "", fmt.Errorf("get last email: %w", err)
	}
	return string(v), nil
}

func (a *authService) ClearSession(ctx context.Context) error {
	if err := a.cookies.Clear(ctx); err != nil {
		return fmt.Errorf("clear session cookies: %w", err)
	}
	return nil
}

func (a *authService) LogoutHook(ctx context.Context) {
	if err := a.ClearSession(ctx); err != nil {
		a.log.Warn(ctx, "wipe local session failed", "error", err)
	}
}

func (a *authService) ForgetMe(ctx context.Context) error {
	if err := a.ClearSession(ctx); err != nil {
		return err
	}
	if err := a.metadata.Clear(ctx); err != nil {
		return fmt.Errorf("clear metadata: %w", err)
	}
	return nil
}

var _ AuthService = (*authService)(nil)
