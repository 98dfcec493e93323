package web

import (
	"errors"
	"net/http"
	"sort"

	"github.com/dmitrijs2005/authgate/internal/client/client"
	"github.com/dmitrijs2005/authgate/internal/client/services"
	"github.com/dmitrijs2005/authgate/internal/client/session"
	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/logging"
)

const msgBusy = "Please wait, another request is in progress"

type Handler struct {
	auth      services.AuthService
	dashboard services.DashboardService
	log       logging.Logger
}

func NewHandler(auth services.AuthService, dash services.DashboardService, log logging.Logger) *Handler {
	if log == nil {
		log = logging.NewNop()
	}
	return &Handler{auth: auth, dashboard: dash, log: log.With("module", "web")}
}

// busy renders tmpl with the busy message when an operation is in flight.
// Forms are not submitted while the store is Loading.
func busy(w http.ResponseWriter, st *session.Store, tmpl string, p page) bool {
	if !st.Snapshot().Loading {
		return false
	}
	p.Error = msgBusy
	render(w, http.StatusConflict, tmpl, p)
	return true
}

// failure returns the store's error verbatim, or fallback if it has none.
func failure(st *session.Store, fallback string) string {
	if msg := st.Snapshot().Error; msg != "" {
		return msg
	}
	return fallback
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, common.PathDashboard, http.StatusFound)
}

func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := session.MustFromContext(ctx)
	if st.IsAuthenticated() {
		http.Redirect(w, r, common.PathDashboard, http.StatusSeeOther)
		return
	}

	email, err := h.auth.LastEmail(ctx)
	if err != nil {
		h.log.Warn(ctx, "read last email failed", "error", err)
	}
	render(w, http.StatusOK, "login", page{Title: "Log in", Email: email, Notice: r.URL.Query().Get("notice")})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := session.MustFromContext(ctx)

	email := r.PostFormValue("email")
	p := page{Title: "Log in", Email: email}
	if busy(w, st, "login", p) {
		return
	}

	if !h.auth.Login(ctx, email, r.PostFormValue("password")) {
		p.Error = failure(st, client.MsgLoginFailed)
		render(w, http.StatusUnauthorized, "login", p)
		return
	}
	http.Redirect(w, r, common.PathDashboard, http.StatusSeeOther)
}

func (h *Handler) SignupForm(w http.ResponseWriter, r *http.Request) {
	render(w, http.StatusOK, "signup", page{Title: "Sign up"})
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := session.MustFromContext(ctx)

	email := r.PostFormValue("email")
	p := page{Title: "Sign up", Email: email}
	if busy(w, st, "signup", p) {
		return
	}

	ok := st.Signup(ctx, r.PostFormValue("username"), email,
		r.PostFormValue("password"), r.PostFormValue("confirmPassword"))
	if !ok {
		p.Error = failure(st, client.MsgSignupFailed)
		render(w, http.StatusUnprocessableEntity, "signup", p)
		return
	}
	render(w, http.StatusOK, "verify", page{
		Title:  "Verify your email",
		Notice: "Account created. Check your email for the verification link.",
	})
}

// VerifyForm verifies at once when the emailed link carries the token,
// otherwise it asks for one.
func (h *Handler) VerifyForm(w http.ResponseWriter, r *http.Request) {
	if token := r.URL.Query().Get("token"); token != "" {
		h.verify(w, r, token)
		return
	}
	render(w, http.StatusOK, "verify", page{Title: "Verify your email"})
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	h.verify(w, r, r.PostFormValue("token"))
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request, token string) {
	ctx := r.Context()
	st := session.MustFromContext(ctx)

	p := page{Title: "Verify your email", Token: token}
	if busy(w, st, "verify", p) {
		return
	}
	if !st.VerifyEmail(ctx, token) {
		p.Error = failure(st, client.MsgVerifyEmailFailed)
		render(w, http.StatusUnprocessableEntity, "verify", p)
		return
	}
	render(w, http.StatusOK, "message", page{Title: "Email verified", Notice: "Email verified. You can now log in."})
}

func (h *Handler) ForgotForm(w http.ResponseWriter, r *http.Request) {
	render(w, http.StatusOK, "forgot", page{Title: "Forgot password"})
}

func (h *Handler) Forgot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := session.MustFromContext(ctx)

	email := r.PostFormValue("email")
	p := page{Title: "Forgot password", Email: email}
	if busy(w, st, "forgot", p) {
		return
	}
	if !st.ForgotPassword(ctx, email) {
		p.Error = failure(st, client.MsgForgotPasswordFailed)
		render(w, http.StatusUnprocessableEntity, "forgot", p)
		return
	}
	p.Notice = "If the account exists, a password reset link is on its way."
	render(w, http.StatusOK, "forgot", p)
}

func (h *Handler) ResetForm(w http.ResponseWriter, r *http.Request) {
	render(w, http.StatusOK, "reset", page{Title: "Reset password", Token: r.URL.Query().Get("token")})
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := session.MustFromContext(ctx)

	token := r.PostFormValue("token")
	p := page{Title: "Reset password", Token: token}
	if busy(w, st, "reset", p) {
		return
	}
	if !st.ResetPassword(ctx, token, r.PostFormValue("password"), r.PostFormValue("confirmPassword")) {
		p.Error = failure(st, client.MsgResetPasswordFailed)
		render(w, http.StatusUnprocessableEntity, "reset", p)
		return
	}
	render(w, http.StatusOK, "message", page{Title: "Password updated", Notice: "Password updated. You can now log in."})
}

// Logout always ends on the login page: the local session is gone even if
// the server could not be told.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session.MustFromContext(ctx).Logout(ctx)
	http.Redirect(w, r, common.PathLogin+"?notice=Logged+out", http.StatusSeeOther)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := session.MustFromContext(ctx)

	d, err := h.dashboard.Summary(ctx)
	switch {
	case errors.Is(err, client.ErrUnauthorized), errors.Is(err, services.ErrNotLoggedIn):
		// The authorized client has already invalidated the store.
		http.Redirect(w, r, common.PathLogin, http.StatusSeeOther)
		return
	case errors.Is(err, client.ErrUnavailable):
		render(w, http.StatusBadGateway, "message", page{Title: "Dashboard", Error: client.MsgUnavailable})
		return
	case err != nil:
		h.log.Error(ctx, "dashboard failed", "error", err)
		render(w, http.StatusBadGateway, "message", page{Title: "Dashboard", Error: client.MsgUnexpected})
		return
	}

	keys := make([]string, 0, len(d.Data))
	for k := range d.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	items := make([]item, 0, len(keys))
	for _, k := range keys {
		items = append(items, item{Key: k, Value: d.Data[k]})
	}
	render(w, http.StatusOK, "dashboard", page{Title: "Dashboard", User: st.Snapshot().User, Items: items})
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	st := session.MustFromContext(r.Context())
	render(w, http.StatusOK, "profile", page{Title: "Profile", User: st.Snapshot().User})
}

// SessionJSON reports the session state as JSON. It is not gated so a
// page script can poll it while the session bootstraps.
func (h *Handler) SessionJSON(w http.ResponseWriter, r *http.Request) {
	st := session.MustFromContext(r.Context()).Snapshot()
	writeJSON(w, http.StatusOK, sessionView{
		Authenticated: st.IsAuthenticated(),
		Bootstrapped:  st.Bootstrapped,
		Loading:       st.Loading,
		Error:         st.Error,
		User:          st.User,
	})
}
