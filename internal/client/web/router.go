package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/authgate/internal/client/session"
	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/logging"
)

// PathSession is the unguarded JSON view of the session state.
const PathSession = "/session"

// NewRouter mounts the shell's routes. Every request runs inside store's
// scope; /dashboard and /profile are guarded.
func NewRouter(store *session.Store, h *Handler, log logging.Logger) http.Handler {
	if log == nil {
		log = logging.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(AccessLog(log))
	r.Use(WithSession(store))

	r.Get("/", h.Home)
	r.Get(PathSession, h.SessionJSON)

	r.Get(common.PathLogin, h.LoginForm)
	r.Post(common.PathLogin, h.Login)
	r.Post("/logout", h.Logout)
	r.Get(common.PathSignup, h.SignupForm)
	r.Post(common.PathSignup, h.Signup)
	r.Get(common.PathVerifyEmail, h.VerifyForm)
	r.Post(common.PathVerifyEmail, h.Verify)
	r.Get(common.PathForgotPassword, h.ForgotForm)
	r.Post(common.PathForgotPassword, h.Forgot)
	r.Get(common.PathResetPassword, h.ResetForm)
	r.Post(common.PathResetPassword, h.Reset)

	r.Group(func(r chi.Router) {
		r.Use(RequireSession(common.PathLogin))
		r.Get(common.PathDashboard, h.Dashboard)
		r.Get(common.PathProfile, h.Profile)
	})

	return r
}
