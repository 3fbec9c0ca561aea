package route

import "sync"

// Navigator is a history stack of locations. It always holds at least
// one entry.
type Navigator struct {
	mu    sync.Mutex
	stack []string
}

// NewNavigator creates a history starting at start ("/" when empty).
func NewNavigator(start string) *Navigator {
	if start == "" {
		start = PathRoot
	}
	return &Navigator{stack: []string{start}}
}

// Navigate pushes a location.
func (n *Navigator) Navigate(location string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stack = append(n.stack, location)
}

// Replace swaps the current location, leaving no history entry for it.
func (n *Navigator) Replace(location string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stack[len(n.stack)-1] = location
}

// Back pops the current location. It reports false, and does nothing,
// at the first entry.
func (n *Navigator) Back() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.stack) == 1 {
		return false
	}
	n.stack = n.stack[:len(n.stack)-1]
	return true
}

// Current returns the location on top of the stack.
func (n *Navigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stack[len(n.stack)-1]
}

// History returns a copy of the stack, oldest first.
func (n *Navigator) History() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.stack...)
}
