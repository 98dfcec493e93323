// Package cookies persists the HTTP cookies that carry the remote session,
// so a restarted client can resume it.
package cookies

import (
	"context"
	"net/http"
	"time"
)

// Repository stores cookies keyed by (host, name, path).
//
// Save upserts live cookies and deletes the ones the server expired
// (MaxAge < 0 or an Expires in the past). Load drops anything already
// expired at now before returning the rest.
type Repository interface {
	Load(ctx context.Context, host string, now time.Time) ([]*http.Cookie, error)
	Save(ctx context.Context, host string, cookies []*http.Cookie) error
	Clear(ctx context.Context) error
}
