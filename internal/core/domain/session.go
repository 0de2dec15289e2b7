package domain

import (
	"sync"
	"time"
)

// Session holds the client-side authentication state. A session is active
// iff a token is present. Durable sessions survive client restarts and are
// exempt from inactivity expiry.
//
// Exactly one Session exists per client instance; components receive it by
// reference and read the current token through it.
type Session struct {
	mu             sync.Mutex
	token          string
	durable        bool
	lastActivityAt int64 // Unix milliseconds, 0 before first activity
}

// NewSession creates an anonymous session.
func NewSession() *Session {
	return &Session{}
}

// Active reports whether a token is present.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}

// Token returns the current bearer token, or "" when anonymous.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Durable reports whether the session was marked durable at login.
func (s *Session) Durable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.durable
}

// Begin transitions the session to active with the given token and
// durability choice, and records the transition as activity.
func (s *Session) Begin(token string, durable bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.durable = durable
	s.lastActivityAt = time.Now().UnixMilli()
}

// End transitions the session to anonymous.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.durable = false
}

// Touch records a user-activity signal.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActivityAt = time.Now().UnixMilli()
}

// LastActivityAt returns the last recorded activity time.
// Returns the zero time before any activity.
func (s *Session) LastActivityAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastActivityAt == 0 {
		return time.Time{}
	}
	return time.UnixMilli(s.lastActivityAt)
}
