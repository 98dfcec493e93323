package session

import "github.com/dmitrijs2005/authgate/internal/client/models"

// State is the session as seen by the rest of the client.
//
// Before the first bootstrap completes the state is Unresolved:
// Loading is true, Bootstrapped is false, User is nil and Error is empty.
// Afterwards Loading is true only while an operation is in flight.
// An empty Error means "no error".
type State struct {
	User         *models.User
	Loading      bool
	Error        string
	Bootstrapped bool
}

// IsAuthenticated reports whether a user is set.
func (s State) IsAuthenticated() bool {
	return s.User != nil
}

// Unresolved reports whether the initial bootstrap has not finished yet.
func (s State) Unresolved() bool {
	return !s.Bootstrapped
}

func unresolved() State {
	return State{Loading: true}
}

func (s State) clone() State {
	s.User = s.User.Clone()
	return s
}
