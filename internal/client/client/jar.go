package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/dmitrijs2005/authgate/internal/logging"
)

// CookieStore persists cookies per host.
type CookieStore interface {
	Load(ctx context.Context, host string, now time.Time) ([]*http.Cookie, error)
	Save(ctx context.Context, host string, cookies []*http.Cookie) error
	Clear(ctx context.Context) error
}

// PersistentJar is an http.CookieJar that keeps cookies in memory (RFC 6265
// rules via net/http/cookiejar) and writes them through to a CookieStore.
type PersistentJar struct {
	mu    sync.RWMutex
	mem   *cookiejar.Jar
	store CookieStore
	log   logging.Logger
}

func newMemJar() (*cookiejar.Jar, error) {
	return cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
}

// NewPersistentJar creates a jar and seeds it with the unexpired cookies
// previously stored for origin's host.
func NewPersistentJar(ctx context.Context, store CookieStore, origin *url.URL, log logging.Logger) (*PersistentJar, error) {
	mem, err := newMemJar()
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	if log == nil {
		log = logging.NewNop()
	}

	saved, err := store.Load(ctx, origin.Host, time.Now())
	if err != nil {
		return nil, fmt.Errorf("load cookies: %w", err)
	}
	if len(saved) > 0 {
		mem.SetCookies(origin, saved)
		log.Debug(ctx, "restored cookies", "host", origin.Host, "count", len(saved))
	}

	return &PersistentJar{mem: mem, store: store, log: log}, nil
}

// SetCookies implements http.CookieJar.
func (j *PersistentJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.RLock()
	mem := j.mem
	j.mu.RUnlock()

	mem.SetCookies(u, cookies)
	if err := j.store.Save(context.Background(), u.Host, cookies); err != nil {
		j.log.Warn(context.Background(), "persist cookies failed", "host", u.Host, "error", err)
	}
}

// Cookies implements http.CookieJar.
func (j *PersistentJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.mem.Cookies(u)
}

// Clear forgets every cookie, in memory and in the store.
func (j *PersistentJar) Clear(ctx context.Context) error {
	mem, err := newMemJar()
	if err != nil {
		return fmt.Errorf("create cookie jar: %w", err)
	}
	j.mu.Lock()
	j.mem = mem
	j.mu.Unlock()

	if err := j.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear cookies: %w", err)
	}
	return nil
}

var _ http.CookieJar = (*PersistentJar)(nil)
