package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/authgate/internal/client/client"
	"github.com/dmitrijs2005/authgate/internal/client/config"
	"github.com/dmitrijs2005/authgate/internal/client/gate"
	"github.com/dmitrijs2005/authgate/internal/client/services"
	"github.com/dmitrijs2005/authgate/internal/client/session"
	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// protectedPaths are the views that need a logged-in user.
var protectedPaths = []string{common.PathDashboard, common.PathProfile}

type App struct {
	config    *config.Config
	db        *sql.DB
	store     *session.Store
	auth      services.AuthService
	dashboard services.DashboardService
	nav       *History
	guard     *gate.Guard
	log       logging.Logger

	reader *bufio.Reader
	out    io.Writer

	modeMu sync.RWMutex
	mode   Mode
}

// NewApp opens the local database, restores the persisted cookie jar and
// wires the session store, services and gate around it.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	rt, err := services.NewRuntime(ctx, c, log)
	if err != nil {
		return nil, err
	}
	a := newApp(c, rt.Store, rt.Auth, rt.Dashboard, log)
	a.db = rt.DB
	return a, nil
}

func newApp(c *config.Config, store *session.Store, auth services.AuthService, dash services.DashboardService, log logging.Logger) *App {
	if log == nil {
		log = logging.NewNop()
	}
	nav := NewHistory(common.PathLogin)
	return &App{
		config:    c,
		store:     store,
		auth:      auth,
		dashboard: dash,
		nav:       nav,
		guard:     gate.NewGuard(store, nav, common.PathLogin, protectedPaths, log),
		log:       log,
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
	}
}

// Close releases the local database.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) Mode() Mode {
	a.modeMu.RLock()
	defer a.modeMu.RUnlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		a.log.Info(context.Background(), "switched mode", "mode", mode)
	}
}

func (a *App) isLoggedIn() bool {
	return a.store.IsAuthenticated()
}

func (a *App) getStatus() string {
	s := ""
	if u := a.store.Snapshot().User; u != nil {
		s = u.DisplayName()
		if m := a.Mode(); m != "" {
			s += " " + string(m)
		}
		s = fmt.Sprintf("(%s) ", s)
	}
	return s + a.nav.Current()
}

// Run bootstraps the session and runs the REPL until the user exits or
// ctx ends. The store is placed in the context every screen receives.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	ctx = session.NewContext(ctx, a.store)
	fmt.Fprintln(a.out, "Welcome to authgate (type 'help' for commands)")

	a.store.Bootstrap(ctx)
	stop := a.guard.Watch()
	defer stop()

	if a.store.IsAuthenticated() {
		a.setMode(ModeOnline)
		a.nav.Replace(common.PathDashboard)
		fmt.Fprintf(a.out, "Resumed session for %s\n", a.store.Snapshot().User.DisplayName())
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if interval := a.config.SessionCheckInterval; interval > 0 {
		go a.StartSessionWatcher(watchCtx, interval)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

// StartSessionWatcher revalidates the session every interval and tracks
// whether the API is reachable. A session the server no longer honors is
// dropped by the store, which moves the gate off protected views.
func (a *App) StartSessionWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkSession(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkSession(ctx context.Context) {
	if !a.store.IsAuthenticated() {
		return
	}

	timeout := 3 * time.Second
	if a.config != nil && a.config.RequestTimeout > 0 {
		timeout = a.config.RequestTimeout
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	err := a.store.Refresh(cctx)
	cancel()

	switch {
	case errors.Is(err, session.ErrBusy):
	case errors.Is(err, client.ErrUnavailable):
		a.setMode(ModeOffline)
	case err != nil:
		a.log.Warn(ctx, "session check failed", "error", err)
	default:
		a.setMode(ModeOnline)
	}
}
