package credstore

import (
	"os"
	"path/filepath"

	"github.com/nesirat/MCP/internal/telemetry/logger"
)

// Backend is a single token storage location.
type Backend interface {
	// Write stores the token, replacing any previous value.
	Write(token string) error

	// Read returns the stored token, or "" if none is stored.
	Read() (string, error)

	// Delete removes the stored token. Deleting an empty backend is a no-op.
	Delete() error
}

// Store coordinates the durable and volatile backends so the token
// lives in exactly one of them.
type Store struct {
	durable  Backend
	volatile Backend
	log      logger.Logger
}

// New creates a Store over the given backends.
func New(durable, volatile Backend) *Store {
	return &Store{
		durable:  durable,
		volatile: volatile,
		log:      logger.Default(),
	}
}

// NewDefault creates a Store with the file-backed durable backend under
// the MCP home directory and an in-memory volatile backend.
func NewDefault() *Store {
	return New(NewFileBackend(DefaultDir()), NewMemoryBackend())
}

// DefaultDir returns the MCP home directory (~/.mcp).
func DefaultDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".mcp")
}

// Save writes the token to the chosen scope and clears the other, so a
// stale copy can never shadow the live one.
func (s *Store) Save(token string, durable bool) {
	var write, clear Backend
	if durable {
		write, clear = s.durable, s.volatile
	} else {
		write, clear = s.volatile, s.durable
	}

	if err := write.Write(token); err != nil {
		s.log.Warn("credential store write failed", "durable", durable, "error", err)
	}
	if err := clear.Delete(); err != nil {
		s.log.Warn("credential store cleanup failed", "error", err)
	}
}

// Load returns the stored token, preferring the durable scope, and
// whether it came from the durable scope. A backend failure is treated
// as "no token found".
func (s *Store) Load() (token string, durable bool) {
	if tok, err := s.durable.Read(); err == nil && tok != "" {
		return tok, true
	} else if err != nil {
		s.log.Debug("durable credential read failed", "error", err)
	}

	if tok, err := s.volatile.Read(); err == nil && tok != "" {
		return tok, false
	} else if err != nil {
		s.log.Debug("volatile credential read failed", "error", err)
	}

	return "", false
}

// Clear removes the token from both scopes.
func (s *Store) Clear() {
	if err := s.durable.Delete(); err != nil {
		s.log.Warn("durable credential delete failed", "error", err)
	}
	if err := s.volatile.Delete(); err != nil {
		s.log.Warn("volatile credential delete failed", "error", err)
	}
}
