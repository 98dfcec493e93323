package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/authgate/internal/client/gate"
	"github.com/dmitrijs2005/authgate/internal/client/session"
	"github.com/dmitrijs2005/authgate/internal/logging"
)

// retryAfterSeconds is advertised while the session is still bootstrapping.
const retryAfterSeconds = 1

// WithSession places store in every request context so handlers can use
// session.MustFromContext.
func WithSession(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), store)))
		})
	}
}

// RequireSession guards the routes below it with gate.Decide:
//
//   - Wait: 503 with Retry-After and a placeholder page.
//   - Redirect: 303 to loginPath. A 303 makes the browser replace the
//     protected page with a GET of the login page.
//   - Allow: the next handler runs.
//
// The store is taken from the request context, so WithSession must run
// first.
func RequireSession(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st := session.MustFromContext(r.Context())

			d := gate.Decide(st.Snapshot(), loginPath)
			switch d.Outcome {
			case gate.Wait:
				w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
				render(w, http.StatusServiceUnavailable, "wait", page{Title: "Please wait"})
			case gate.Redirect:
				http.Redirect(w, r, d.Location, http.StatusSeeOther)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// AccessLog logs one line per request at Info.
func AccessLog(log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			log.Info(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
