// Package session owns the client's authentication state.
//
// A single Store is created at application start and injected wherever the
// session is read or changed (directly, or through NewContext/FromContext).
// The Store is the only writer of State; everything else reads Snapshots or
// subscribes to changes.
//
// State machine
//
//	Unresolved --Bootstrap--> Idle-Authenticated | Idle-Anonymous
//	Idle-*     --operation--> Busy --done--> Idle-*
//
// Every operation clears Error and sets Loading on entry and always clears
// Loading on exit, including when the session client panics. Logout is
// fail-open: User is cleared whatever happens to the remote call.
//
// Authenticated API callers outside the identity endpoints report 401/403
// answers through Invalidate, which drops the user immediately.
package session
