package cookies

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/authgate/internal/dbx"
)

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) Load(ctx context.Context, host string, now time.Time) ([]*http.Cookie, error) {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM cookies WHERE host = ? AND expires != 0 AND expires <= ?`, host, now.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to purge expired cookies[%s]: %w", host, err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT name, value, path, domain, expires, secure, http_only, same_site
		FROM cookies WHERE host = ? ORDER BY name, path`, host)
	if err != nil {
		return nil, fmt.Errorf("failed to load cookies[%s]: %w", host, err)
	}
	defer rows.Close()

	var result []*http.Cookie
	for rows.Next() {
		var (
			c                http.Cookie
			expires          int64
			secure, httpOnly bool
			sameSite         int
		)
		if err := rows.Scan(&c.Name, &c.Value, &c.Path, &c.Domain, &expires, &secure, &httpOnly, &sameSite); err != nil {
			return nil, fmt.Errorf("failed to scan cookie row: %w", err)
		}
		if expires != 0 {
			c.Expires = time.Unix(expires, 0)
		}
		c.Secure = secure
		c.HttpOnly = httpOnly
		c.SameSite = http.SameSite(sameSite)
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cookie rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, host string, cookies []*http.Cookie) error {
	if len(cookies) == 0 {
		return nil
	}
	now := r.now()

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, c := range cookies {
			expires, expired := expiry(c, now)
			if expired {
				if _, err := tx.ExecContext(ctx,
					`DELETE FROM cookies WHERE host = ? AND name = ? AND path = ?`, host, c.Name, c.Path); err != nil {
					return fmt.Errorf("failed to delete cookie[%s]: %w", c.Name, err)
				}
				continue
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO cookies (host, name, path, value, domain, expires, secure, http_only, same_site)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(host, name, path) DO UPDATE SET
					value = excluded.value,
					domain = excluded.domain,
					expires = excluded.expires,
					secure = excluded.secure,
					http_only = excluded.http_only,
					same_site = excluded.same_site
			`, host, c.Name, c.Path, c.Value, c.Domain, expires, c.Secure, c.HttpOnly, int(c.SameSite)); err != nil {
				return fmt.Errorf("failed to save cookie[%s]: %w", c.Name, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cookies`); err != nil {
		return fmt.Errorf("failed to clear cookies: %w", err)
	}
	return nil
}

// expiry returns the unix expiry to store (0 for session cookies) and
// whether the cookie is a deletion.
func expiry(c *http.Cookie, now time.Time) (int64, bool) {
	switch {
	case c.MaxAge < 0:
		return 0, true
	case c.MaxAge > 0:
		return now.Add(time.Duration(c.MaxAge) * time.Second).Unix(), false
	case !c.Expires.IsZero():
		if !c.Expires.After(now) {
			return 0, true
		}
		return c.Expires.Unix(), false
	default:
		return 0, false
	}
}
