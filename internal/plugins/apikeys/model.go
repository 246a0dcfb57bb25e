// Package apikeys issues and validates the API keys that protect
// state-changing endpoints. Keys are random, shown once at creation, and
// stored only as bcrypt hashes; a short prefix is kept for display.
package apikeys

import "time"

// APIKey is a registered key for write access to the API.
type APIKey struct {
	ID         int        `json:"id"`
	KeyHash    string     `json:"-"` // Never exposed in JSON.
	KeyPrefix  string     `json:"key_prefix"`
	Name       string     `json:"name"`
	IsActive   bool       `json:"is_active"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// IsExpired returns true if the key has passed its expiry date.
func (k *APIKey) IsExpired() bool {
	if k.ExpiresAt == nil {
		return false
	}
	return time.Now().After(*k.ExpiresAt)
}

// CreateKeyInput is the validated input for creating a new API key.
type CreateKeyInput struct {
	Name      string     `json:"name"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// CreateKeyResult is returned after key creation. RawKey is the plaintext
// key, shown exactly once and never stored.
type CreateKeyResult struct {
	Key    *APIKey `json:"key"`
	RawKey string  `json:"raw_key"`
}
