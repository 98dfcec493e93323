package client

import (
	"context"

	"github.com/dmitrijs2005/authgate/internal/client/models"
)

// Client is the session client contract. Implementations never return raw
// transport errors: every outcome is folded into a models.AuthResult.
type Client interface {
	CheckSession(ctx context.Context) models.AuthResult
	Login(ctx context.Context, email, password string) models.AuthResult
	Signup(ctx context.Context, username, email, password, confirmPassword string) models.AuthResult
	Logout(ctx context.Context) models.AuthResult
	VerifyEmail(ctx context.Context, token string) models.AuthResult
	ForgotPassword(ctx context.Context, email string) models.AuthResult
	ResetPassword(ctx context.Context, token, password, confirmPassword string) models.AuthResult
}
