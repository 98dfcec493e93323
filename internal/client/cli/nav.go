package cli

import "sync"

// History is an in-memory navigation stack. It implements gate.Navigator.
type History struct {
	mu      sync.Mutex
	entries []string
}

// NewHistory returns a history whose only entry is start.
func NewHistory(start string) *History {
	return &History{entries: []string{start}}
}

// Current returns the top entry.
func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[len(h.entries)-1]
}

// Push adds path on top unless it already is the current entry.
func (h *History) Push(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.entries[len(h.entries)-1] == path {
		return
	}
	h.entries = append(h.entries, path)
}

// Replace swaps the top entry for path.
func (h *History) Replace(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[len(h.entries)-1] = path
}

// Back pops the top entry. It reports false, leaving the history as is,
// when there is nothing to go back to.
func (h *History) Back() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) < 2 {
		return false
	}
	h.entries = h.entries[:len(h.entries)-1]
	return true
}

// Entries returns a copy of the stack, oldest first.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.entries...)
}
