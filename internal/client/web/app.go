package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/authgate/internal/client/client"
	"github.com/dmitrijs2005/authgate/internal/client/config"
	"github.com/dmitrijs2005/authgate/internal/client/services"
	"github.com/dmitrijs2005/authgate/internal/client/session"
	"github.com/dmitrijs2005/authgate/internal/logging"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config  *config.Config
	runtime *services.Runtime
	store   *session.Store
	handler http.Handler
	log     logging.Logger

	// listen is swapped in tests.
	listen func(network, addr string) (net.Listener, error)
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.NewNop()
	}
	rt, err := services.NewRuntime(ctx, c, log)
	if err != nil {
		return nil, err
	}
	a := newApp(c, rt.Store, rt.Auth, rt.Dashboard, log)
	a.runtime = rt
	return a, nil
}

func newApp(c *config.Config, store *session.Store, auth services.AuthService, dash services.DashboardService, log logging.Logger) *App {
	if log == nil {
		log = logging.NewNop()
	}
	return &App{
		config:  c,
		store:   store,
		handler: NewRouter(store, NewHandler(auth, dash, log), log),
		log:     log,
		listen:  net.Listen,
	}
}

// Handler returns the shell's router.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run serves the shell until ctx ends. The session bootstraps in the
// background; until it settles, guarded pages answer 503.
func (a *App) Run(ctx context.Context) error {
	defer a.runtime.Close()

	ln, err := a.listen("tcp", a.config.WebListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.config.WebListenAddr, err)
	}

	srv := &http.Server{
		Handler:           a.handler,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.store.Bootstrap(session.NewContext(gctx, a.store))
		return nil
	})

	g.Go(func() error {
		a.log.Info(gctx, "web shell listening", "address", ln.Addr().String())
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.log.Info(context.Background(), "stopping web shell")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if interval := a.config.SessionCheckInterval; interval > 0 {
		g.Go(func() error {
			a.watchSession(gctx, interval)
			return nil
		})
	}

	return g.Wait()
}

// watchSession revalidates the session every interval until ctx ends.
func (a *App) watchSession(ctx context.Context, interval time.Duration) {
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
	timeout := a.config.RequestTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	switch err := a.store.Refresh(cctx); {
	case err == nil, errors.Is(err, session.ErrBusy):
	case errors.Is(err, client.ErrUnavailable):
		a.log.Warn(ctx, "identity api unreachable", "error", err)
	default:
		a.log.Warn(ctx, "session check failed", "error", err)
	}
}
