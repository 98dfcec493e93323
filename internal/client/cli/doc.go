// Package cli provides the interactive authgate command-line client.
//
// App wires configuration, the local SQLite database, the persisted cookie
// jar, the session store and the route gate, then runs a REPL over them.
// Typical flow: bootstrap the stored session, start the background session
// watcher, and execute user commands until "exit".
//
// Commands:
//   - login, signup (register), verify, forgot, reset, logout, forget
//   - dashboard and profile, which are protected views behind the gate
//   - back, help, exit (quit)
//
// Every screen reads the store from the context (session.MustFromContext)
// and refuses to start a request while another one is in flight.
package cli
