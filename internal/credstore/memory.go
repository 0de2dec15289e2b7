package credstore

import "sync"

// MemoryBackend is the volatile storage scope. It holds the token in
// process memory only, so a non-durable session never outlives the
// client instance that created it.
type MemoryBackend struct {
	mu    sync.Mutex
	token string
}

// NewMemoryBackend creates an empty volatile backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// Write stores the token.
func (m *MemoryBackend) Write(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

// Read returns the stored token, or "" if none.
func (m *MemoryBackend) Read() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

// Delete removes the stored token.
func (m *MemoryBackend) Delete() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
