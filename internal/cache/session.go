package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cuistot/cuistot/internal/model"
)

// sessionPrefix is the Redis key prefix for login sessions.
// Sessions are keyed by a hash of the bearer token, never the token itself.
const sessionPrefix = "session:"

// StoredSession represents a login session stored in Redis.
type StoredSession struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// SetSession stores a login session under the hashed token with the given TTL.
// Redis is the authority for sessions: expiry here IS logout by inactivity.
func (c *Cache) SetSession(ctx context.Context, tokenHash string, auth *model.AuthContext, ttl time.Duration) error {
	key := sessionPrefix + tokenHash

	stored := StoredSession{
		UserID: auth.UserID,
		Email:  auth.Email,
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

// GetSession retrieves a login session by hashed token.
// Returns nil if not found (expired or never issued).
func (c *Cache) GetSession(ctx context.Context, tokenHash string) (*model.AuthContext, error) {
	key := sessionPrefix + tokenHash

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// Missing session is not an error: the token is simply invalid
		return nil, nil //nolint:nilerr
	}

	var stored StoredSession
	if err := json.Unmarshal(data, &stored); err != nil {
		// Corrupted entry - treat as invalid
		return nil, nil //nolint:nilerr
	}

	return &model.AuthContext{
		UserID: stored.UserID,
		Email:  stored.Email,
	}, nil
}

// DeleteSession removes a login session. Used on logout.
func (c *Cache) DeleteSession(ctx context.Context, tokenHash string) error {
	key := sessionPrefix + tokenHash
	return c.client.Del(ctx, key).Err()
}
