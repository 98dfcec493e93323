// Package web serves a small local HTML shell over the session store.
//
// The shell holds one session for the machine it runs on, the same one the
// CLI uses: both read the cookie jar persisted in the local database.
// Protected pages go through RequireSession, which asks gate.Decide before
// the handler runs.
package web
