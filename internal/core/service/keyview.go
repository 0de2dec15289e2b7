package service

import (
	"sync"

	"github.com/nesirat/MCP/internal/core/domain"
)

// KeyListView is the ordered in-memory mirror of the server's key
// collection for the authenticated principal. It is rebuilt wholesale
// from list responses, except immediately after a create, where the new
// key is appended from the creation response itself.
type KeyListView struct {
	mu   sync.RWMutex
	keys []domain.APIKey
}

// NewKeyListView creates an empty view.
func NewKeyListView() *KeyListView {
	return &KeyListView{}
}

// ReplaceAll rebuilds the view from a full list response.
func (v *KeyListView) ReplaceAll(keys []domain.APIKey) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.keys = make([]domain.APIKey, len(keys))
	copy(v.keys, keys)
}

// Append adds a freshly created key to the end of the view. No
// re-sorting, no deduplication; the next ReplaceAll reconciles.
func (v *KeyListView) Append(key domain.APIKey) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.keys = append(v.keys, key)
}

// Reset empties the view. Called on logout and forced expiry.
func (v *KeyListView) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.keys = nil
}

// Keys returns a copy of the current view.
func (v *KeyListView) Keys() []domain.APIKey {
	v.mu.RLock()
	defer v.mu.RUnlock()
	keys := make([]domain.APIKey, len(v.keys))
	copy(keys, v.keys)
	return keys
}

// Len returns the number of keys in the view.
func (v *KeyListView) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.keys)
}
