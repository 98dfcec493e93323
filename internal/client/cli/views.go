package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/authgate/internal/client/client"
	"github.com/dmitrijs2005/authgate/internal/client/gate"
	"github.com/dmitrijs2005/authgate/internal/client/session"
	"github.com/dmitrijs2005/authgate/internal/common"
)

func (a *App) Dashboard(ctx context.Context) error {
	a.nav.Push(common.PathDashboard)
	return a.show(ctx)
}

func (a *App) Profile(ctx context.Context) error {
	a.nav.Push(common.PathProfile)
	return a.show(ctx)
}

// Back returns to the previous view.
func (a *App) Back(ctx context.Context) error {
	if !a.nav.Back() {
		fmt.Fprintln(a.out, "Nothing to go back to")
		return nil
	}
	return a.show(ctx)
}

// show renders the current view through the gate.
func (a *App) show(ctx context.Context) error {
	path := a.nav.Current()

	var err error
	d := a.guard.Render(path, func() { err = a.render(ctx, path) })
	switch d.Outcome {
	case gate.Wait:
		fmt.Fprintln(a.out, "Checking your session, please wait...")
	case gate.Redirect:
		fmt.Fprintln(a.out, "Please log in to continue")
	}
	return err
}

func (a *App) render(ctx context.Context, path string) error {
	switch path {
	case common.PathDashboard:
		return a.renderDashboard(ctx)
	case common.PathProfile:
		a.renderProfile(ctx)
	default:
		fmt.Fprintf(a.out, "[%s]\n", path)
	}
	return nil
}

func (a *App) renderDashboard(ctx context.Context) error {
	d, err := a.dashboard.Summary(ctx)
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		fmt.Fprintln(a.out, "Your session has ended, please log in again")
		return nil
	case errors.Is(err, client.ErrUnavailable):
		a.setMode(ModeOffline)
		fmt.Fprintln(a.out, client.MsgUnavailable)
		return nil
	case err != nil:
		return fmt.Errorf("load dashboard: %w", err)
	}

	fmt.Fprintln(a.out, "Dashboard")
	keys := make([]string, 0, len(d.Data))
	for k := range d.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(a.out, "  %s: %v\n", k, d.Data[k])
	}
	return nil
}

func (a *App) renderProfile(ctx context.Context) {
	u := session.MustFromContext(ctx).Snapshot().User
	if u == nil {
		return
	}

	fmt.Fprintln(a.out, "Profile")
	fmt.Fprintf(a.out, "  Username: %s\n", u.Username)
	fmt.Fprintf(a.out, "  Email:    %s\n", u.Email)
	if u.FirstName != nil || u.LastName != nil {
		fmt.Fprintf(a.out, "  Name:     %s\n", u.DisplayName())
	}
	if u.Phone != nil {
		fmt.Fprintf(a.out, "  Phone:    %s\n", *u.Phone)
	}
	fmt.Fprintf(a.out, "  Verified: %t\n", u.IsVerified)
	if u.IsAdmin {
		fmt.Fprintln(a.out, "  Role:     admin")
	}
	if !u.CreatedAt.IsZero() {
		fmt.Fprintf(a.out, "  Member since %s\n", u.CreatedAt.Format("2006-01-02"))
	}
}
