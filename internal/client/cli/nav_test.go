package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/authgate/internal/client/gate"
)

var _ gate.Navigator = (*History)(nil)

func TestHistory(t *testing.T) {
	h := NewHistory("/login")
	assert.Equal(t, "/login", h.Current())
	assert.False(t, h.Back(), "cannot go back from the first entry")

	h.Push("/dashboard")
	h.Push("/dashboard")
	h.Push("/profile")
	assert.Equal(t, []string{"/login", "/dashboard", "/profile"}, h.Entries())

	h.Replace("/login")
	assert.Equal(t, []string{"/login", "/dashboard", "/login"}, h.Entries())

	assert.True(t, h.Back())
	assert.Equal(t, "/dashboard", h.Current())
}
