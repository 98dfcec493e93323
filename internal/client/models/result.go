package models

// AuthResult is the uniform outcome of every identity operation.
//
// Success == true implies Error is empty. Success == false implies Error is
// set and User is nil, except for the session check where a failure only
// means "no active session".
//
// Cause is a Go-side classification of a failure (see the sentinel errors
// in package client) and is never sent over the wire.
type AuthResult struct {
	Success bool   `json:"success"`
	User    *User  `json:"user,omitempty"`
	Error   string `json:"error,omitempty"`
	Cause   error  `json:"-"`
}

// Failed builds a failed result with the given message and cause.
func Failed(msg string, cause error) AuthResult {
	return AuthResult{Success: false, Error: msg, Cause: cause}
}

// Succeeded builds a successful result carrying u (which may be nil).
func Succeeded(u *User) AuthResult {
	return AuthResult{Success: true, User: u}
}
