package services

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/authgate/internal/client/client"
	"github.com/dmitrijs2005/authgate/internal/client/config"
	"github.com/dmitrijs2005/authgate/internal/client/repositories/cookies"
	"github.com/dmitrijs2005/authgate/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/authgate/internal/client/session"
	"github.com/dmitrijs2005/authgate/internal/filex"
	"github.com/dmitrijs2005/authgate/internal/logging"
)

// Runtime is the set of long-lived objects a front end needs: the local
// database, one session store and the services built around it.
type Runtime struct {
	DB        *sql.DB
	Store     *session.Store
	Auth      AuthService
	Dashboard DashboardService
}

// NewRuntime opens the local database, restores the persisted cookie jar
// and wires the session store, the auth service and the dashboard service.
// Any 401/403 seen by the dashboard service invalidates the store.
func NewRuntime(ctx context.Context, c *config.Config, log logging.Logger) (*Runtime, error) {
	if log == nil {
		log = logging.NewNop()
	}

	origin, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}

	if _, err := filex.EnsureParentDir(c.DatabasePath); err != nil {
		return nil, fmt.Errorf("prepare database dir: %w", err)
	}
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	jar, err := client.NewPersistentJar(ctx, cookies.NewSQLiteRepository(db), origin, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	hc := &http.Client{Jar: jar, Timeout: c.RequestTimeout}
	api := client.NewHTTPClient(c.APIBaseURL, client.WithHTTPClient(hc), client.WithLogger(log))

	var auth AuthService
	store := session.NewStore(api,
		session.WithLogger(log),
		session.WithLogoutHook(func(ctx context.Context) { auth.LogoutHook(ctx) }),
	)
	auth = NewAuthService(store, metadata.NewSQLiteRepository(db), jar, log)

	authorized := client.NewAuthorizedHTTPClient(hc, func(status int) {
		store.Invalidate(fmt.Sprintf("api answered %d", status))
	})

	return &Runtime{
		DB:        db,
		Store:     store,
		Auth:      auth,
		Dashboard: NewDashboardService(c.APIBaseURL, authorized, store, log),
	}, nil
}

// Close releases the local database.
func (r *Runtime) Close() error {
	if r == nil || r.DB == nil {
		return nil
	}
	return r.DB.Close()
}
