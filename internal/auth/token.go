// Package auth provides password hashing and session token utilities.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
)

// Session token format: ct_{secret}
// Example: ct_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b
//
// Tokens are opaque: the server never decodes them, it only looks up
// the Redis record stored under QuickHash(token).
const (
	// TokenSecretLen is the secret length (hex encoded 32 bytes).
	TokenSecretLen = 64
)

var (
	// ErrInvalidTokenFormat indicates the bearer token format is invalid.
	ErrInvalidTokenFormat = errors.New("invalid session token format")
	// tokenFormatRegex validates the token format.
	tokenFormatRegex = regexp.MustCompile(`^ct_[a-f0-9]{64}$`)
)

// GenerateSessionToken creates a new opaque bearer token.
// The plaintext is handed to the client once; only its hash ever
// appears server-side as a Redis key.
func GenerateSessionToken() (string, error) {
	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		return "", fmt.Errorf("generate token secret: %w", err)
	}

	return "ct_" + hex.EncodeToString(secretBytes), nil
}

// ValidateTokenFormat checks if the token matches the expected format.
// A cheap pre-check before any store lookup.
func ValidateTokenFormat(token string) bool {
	return tokenFormatRegex.MatchString(token)
}
