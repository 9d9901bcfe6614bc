package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cuistot/cuistot/internal/model"
)

// Common errors for credential repository operations.
var (
	ErrCredentialNotFound = errors.New("credential not found")
)

// UpsertCredential stores or replaces a user's Gemini API key.
// Idempotent: the UNIQUE constraint on user_id guarantees at most one
// row per user, so a second save overwrites the first.
func (r *Repository) UpsertCredential(ctx context.Context, cred *model.Credential) error {
	query := `
		INSERT INTO user_credentials (user_id, gemini_api_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET gemini_api_key = EXCLUDED.gemini_api_key, updated_at = EXCLUDED.updated_at
	`

	now := time.Now().UTC()
	if cred.CreatedAt.IsZero() {
		cred.CreatedAt = now
	}
	cred.UpdatedAt = now

	_, err := r.pool.Exec(ctx, query,
		cred.UserID,
		cred.APIKey.Reveal(),
		cred.CreatedAt,
		cred.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert credential: %w", err)
	}

	return nil
}

// GetCredentialByUserID retrieves a user's stored Gemini API key.
// Returns ErrCredentialNotFound when the user has no stored key.
func (r *Repository) GetCredentialByUserID(ctx context.Context, userID string) (*model.Credential, error) {
	query := `
		SELECT user_id, gemini_api_key, created_at, updated_at
		FROM user_credentials
		WHERE user_id = $1
	`

	var (
		cred   model.Credential
		rawKey string
	)
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&cred.UserID,
		&rawKey,
		&cred.CreatedAt,
		&cred.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCredentialNotFound
		}
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}

	cred.APIKey = model.NewSecret(rawKey)
	return &cred, nil
}

// DeleteCredential removes a user's stored key.
// Returns ErrCredentialNotFound when there was nothing to delete.
func (r *Repository) DeleteCredential(ctx context.Context, userID string) error {
	query := `
		DELETE FROM user_credentials
		WHERE user_id = $1
	`

	result, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrCredentialNotFound
	}

	return nil
}
