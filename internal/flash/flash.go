// Package flash holds a one-shot message carried across a navigation,
// such as the confirmation shown on the login page after a password
// update.
package flash

import "sync"

// Store holds at most one pending message.
type Store struct {
	mu  sync.Mutex
	msg string
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// Set replaces the pending message.
func (s *Store) Set(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msg = msg
}

// Pop returns the pending message and clears it, so each message is
// shown exactly once.
func (s *Store) Pop() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.msg
	s.msg = ""
	return msg
}
