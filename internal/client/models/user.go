// Package models defines client-side data models used by the authgate client.
package models

import (
	"strings"
	"time"
)

// User is the authenticated identity as reported by the identity API.
// The client never constructs one on its own; it only receives it from
// an AuthResult and replaces it wholesale.
type User struct {
	// ID is an opaque server-assigned identifier.
	ID string `json:"id"`

	Username string `json:"username"`
	Email    string `json:"email"`

	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Phone     *string `json:"phone,omitempty"`

	// IsAdmin marks administrator accounts.
	IsAdmin bool `json:"isAdmin"`

	// IsVerified is true once the account's email address was confirmed.
	IsVerified bool `json:"isVerified"`

	CreatedAt time.Time `json:"createdAt"`
}

// Clone returns a deep copy of u, or nil when u is nil.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.FirstName = cloneString(u.FirstName)
	c.LastName = cloneString(u.LastName)
	c.Phone = cloneString(u.Phone)
	return &c
}

// DisplayName returns "First Last" when any name part is known and falls
// back to the username otherwise.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	var parts []string
	if u.FirstName != nil && strings.TrimSpace(*u.FirstName) != "" {
		parts = append(parts, strings.TrimSpace(*u.FirstName))
	}
	if u.LastName != nil && strings.TrimSpace(*u.LastName) != "" {
		parts = append(parts, strings.TrimSpace(*u.LastName))
	}
	if len(parts) == 0 {
		return u.Username
	}
	return strings.Join(parts, " ")
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
