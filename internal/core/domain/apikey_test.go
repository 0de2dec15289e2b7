package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateCreate(t *testing.T) {
	tests := []struct {
		name        string
		keyName     string
		description string
		wantErr     bool
	}{
		{"valid", "deploy-key", "CI deployments", false},
		{"valid no description", "K1", "", false},
		{"empty name", "", "", true},
		{"whitespace name", "   ", "", true},
		{"name too long", strings.Repeat("a", 129), "", true},
		{"description too long", "k", strings.Repeat("d", 257), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCreate(tt.keyName, tt.description)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCreate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidationFailed) {
				t.Errorf("error should be ErrValidationFailed, got %v", err)
			}
		})
	}
}

func TestAPIKey_Status(t *testing.T) {
	k := &APIKey{IsActive: true}
	if k.Status() != "active" {
		t.Errorf("Status() = %q, want %q", k.Status(), "active")
	}

	k.IsActive = false
	if k.Status() != "revoked" {
		t.Errorf("Status() = %q, want %q", k.Status(), "revoked")
	}
}

func TestMaskKey(t *testing.T) {
	masked := MaskKey("mcp_0123456789abcdef")
	if masked != "mcp_...cdef" {
		t.Errorf("MaskKey() = %q, want %q", masked, "mcp_...cdef")
	}
	if strings.Contains(masked, "0123456789") {
		t.Error("masked key must not contain the secret body")
	}

	if MaskKey("short") != "***REDACTED***" {
		t.Errorf("short secrets should be fully redacted, got %q", MaskKey("short"))
	}
}
