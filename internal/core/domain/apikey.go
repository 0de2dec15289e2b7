package domain

import (
	"strings"
	"time"
)

// APIKey constraints.
const (
	MaxKeyNameLength        = 128
	MaxKeyDescriptionLength = 256
)

// APIKey represents an API access key as returned by the server.
//
// The server mints ID and Key (the secret value); the client never
// generates or edits them. Revocation flips IsActive to false and is
// irreversible from the client side.
type APIKey struct {
	// ID is the server-assigned unique identifier.
	ID int64 `json:"id"`

	// Name is the human-readable name for the key.
	Name string `json:"name"`

	// Description is an optional description.
	Description string `json:"description,omitempty"`

	// Key is the server-assigned secret value, shown once per
	// creation or listing.
	Key string `json:"key"`

	// IsActive is false once the key has been revoked.
	IsActive bool `json:"is_active"`

	// CreatedAt is the creation timestamp.
	CreatedAt time.Time `json:"created_at"`
}

// ValidateCreate validates the client-supplied fields for key creation.
// Name is required and non-empty; description is optional.
func ValidateCreate(name, description string) error {
	var violations []string

	if strings.TrimSpace(name) == "" {
		violations = append(violations, "name is required")
	}
	if len(name) > MaxKeyNameLength {
		violations = append(violations, "name exceeds 128 characters")
	}
	if len(description) > MaxKeyDescriptionLength {
		violations = append(violations, "description exceeds 256 characters")
	}

	if len(violations) > 0 {
		return ErrValidationFailed.WithDetails(strings.Join(violations, "; "))
	}
	return nil
}

// Status returns a display status for the key.
func (k *APIKey) Status() string {
	if k.IsActive {
		return "active"
	}
	return "revoked"
}

// MaskKey masks a key secret for safe logging.
// Format: first 4 chars + "..." + last 4 chars.
func MaskKey(secret string) string {
	if len(secret) < 12 {
		return "***REDACTED***"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
