// Package gate decides whether a protected view may render for a given
// session state, and keeps a navigator in line with that decision as the
// state changes.
package gate

import (
	"context"

	"github.com/dmitrijs2005/authgate/internal/client/session"
	"github.com/dmitrijs2005/authgate/internal/logging"
)

// Outcome is the verdict of Decide.
type Outcome int

const (
	// Wait means the session is still bootstrapping: show a neutral
	// placeholder, neither the protected content nor a redirect.
	Wait Outcome = iota
	// Redirect means there is no user: go to the login entry point,
	// replacing the current history entry.
	Redirect
	// Allow means the protected content may render.
	Allow
)

func (o Outcome) String() string {
	switch o {
	case Wait:
		return "wait"
	case Redirect:
		return "redirect"
	case Allow:
		return "allow"
	default:
		return "unknown"
	}
}

// Decision is the full result of Decide. Location and Replace are only
// meaningful for Redirect.
type Decision struct {
	Outcome  Outcome
	Location string
	Replace  bool
}

// Decide is a pure function of st.
func Decide(st session.State, loginPath string) Decision {
	switch {
	case !st.Bootstrapped:
		return Decision{Outcome: Wait}
	case st.User == nil:
		return Decision{Outcome: Redirect, Location: loginPath, Replace: true}
	default:
		return Decision{Outcome: Allow}
	}
}

// Navigator is the routing primitive the gate drives.
type Navigator interface {
	// Current returns the path of the current history entry.
	Current() string
	// Replace swaps the current history entry for path.
	Replace(path string)
}

// Guard applies Decide to a set of protected paths.
type Guard struct {
	store     *session.Store
	nav       Navigator
	loginPath string
	protected map[string]struct{}
	log       logging.Logger
}

// NewGuard builds a Guard over store. protected lists the paths that
// require a user.
func NewGuard(store *session.Store, nav Navigator, loginPath string, protected []string, log logging.Logger) *Guard {
	if log == nil {
		log = logging.NewNop()
	}
	p := make(map[string]struct{}, len(protected))
	for _, path := range protected {
		p[path] = struct{}{}
	}
	return &Guard{store: store, nav: nav, loginPath: loginPath, protected: p, log: log}
}

// IsProtected reports whether path requires a user.
func (g *Guard) IsProtected(path string) bool {
	_, ok := g.protected[path]
	return ok
}

// Render evaluates the gate for path against the current state. On Allow
// it calls render and on Redirect it replaces the current entry with the
// login path. Unprotected paths always render. The decision is returned
// so callers can show a placeholder on Wait.
func (g *Guard) Render(path string, render func()) Decision {
	if !g.IsProtected(path) {
		render()
		return Decision{Outcome: Allow}
	}

	d := Decide(g.store.Snapshot(), g.loginPath)
	switch d.Outcome {
	case Allow:
		render()
	case Redirect:
		g.log.Debug(context.Background(), "route gated", "path", path, "to", d.Location)
		g.nav.Replace(d.Location)
	}
	return d
}

// Watch re-evaluates the current entry on every state change and moves the
// navigator off a protected path as soon as the user is gone. The returned
// func stops watching.
func (g *Guard) Watch() (stop func()) {
	return g.store.Subscribe(func(st session.State) {
		cur := g.nav.Current()
		if !g.IsProtected(cur) {
			return
		}
		if d := Decide(st, g.loginPath); d.Outcome == Redirect {
			g.log.Info(context.Background(), "session lost on protected view", "path", cur)
			g.nav.Replace(d.Location)
		}
	})
}
