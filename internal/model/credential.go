// Package model defines domain entities for the application.
package model

import "time"

// CredentialPrefixLen is how many characters of a stored key are shown
// back to the user (enough to recognize "AIza..." keys, never the secret).
const CredentialPrefixLen = 8

// GeminiKeyPrefix is the prefix all Google AI Studio keys carry.
// Used as a cheap format check before accepting a key.
const GeminiKeyPrefix = "AIza"

// Credential holds a user's Gemini API key.
// Invariant: at most one credential per user, enforced by a UNIQUE
// constraint on user_id in the store.
type Credential struct {
	UserID    string    `json:"user_id"`
	APIKey    Secret    `json:"-"` // Redacting type; excluded from serialization anyway
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CredentialResponse describes a stored credential without exposing it.
type CredentialResponse struct {
	Configured bool       `json:"configured"`
	KeyPrefix  string     `json:"key_prefix,omitempty"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

// ToResponse converts a Credential to CredentialResponse.
func (c *Credential) ToResponse() CredentialResponse {
	if c == nil || c.APIKey.IsZero() {
		return CredentialResponse{Configured: false}
	}
	updatedAt := c.UpdatedAt
	return CredentialResponse{
		Configured: true,
		KeyPrefix:  c.APIKey.Prefix(CredentialPrefixLen),
		UpdatedAt:  &updatedAt,
	}
}
