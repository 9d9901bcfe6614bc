package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/cuistot/cuistot/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 730731

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// resetSchema applies the down then up migration for one schema.
func resetSchema(ctx context.Context, pool *pgxpool.Pool, down, up string) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	downSQL, err := os.ReadFile(filepath.Join(root, "migrations", down))
	if err != nil {
		return fmt.Errorf("read down migration: %w", err)
	}
	if _, err := pool.Exec(ctx, string(downSQL)); err != nil {
		return fmt.Errorf("apply down migration: %w", err)
	}

	upSQL, err := os.ReadFile(filepath.Join(root, "migrations", up))
	if err != nil {
		return fmt.Errorf("read up migration: %w", err)
	}
	if _, err := pool.Exec(ctx, string(upSQL)); err != nil {
		return fmt.Errorf("apply up migration: %w", err)
	}

	return nil
}

// ResetUsersSchema drops and recreates the users schema for tests.
func ResetUsersSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return resetSchema(ctx, pool, "000001_users.down.sql", "000001_users.up.sql")
}

// ResetCredentialsSchema drops and recreates the user_credentials schema for tests.
func ResetCredentialsSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return resetSchema(ctx, pool, "000002_user_credentials.down.sql", "000002_user_credentials.up.sql")
}

// ResetRecipesSchema drops and recreates the recipes schema for tests.
func ResetRecipesSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return resetSchema(ctx, pool, "000003_recipes.down.sql", "000003_recipes.up.sql")
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestUser creates a test user with sensible defaults.
func NewTestUser(t testing.TB, email string) *model.User {
	t.Helper()
	now := time.Now().UTC()
	return &model.User{
		ID:           fmt.Sprintf("user-%d", now.UnixNano()),
		Email:        email,
		PasswordHash: fmt.Sprintf("$argon2id$test-hash-%d", now.UnixNano()),
		CreatedAt:    now,
	}
}

// NewTestCredential creates a test credential with sensible defaults.
func NewTestCredential(t testing.TB, userID string) *model.Credential {
	t.Helper()
	now := time.Now().UTC()
	return &model.Credential{
		UserID:    userID,
		APIKey:    model.NewSecret(fmt.Sprintf("AIzaTest%d", now.UnixNano())),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestRecipe creates a test recipe with sensible defaults.
func NewTestRecipe(t testing.TB, userID string) *model.Recipe {
	t.Helper()
	now := time.Now().UTC()
	return &model.Recipe{
		ID:          fmt.Sprintf("recipe-%d", now.UnixNano()),
		UserID:      userID,
		Title:       "Poulet basquaise",
		PrepTime:    "45 minutes",
		Difficulty:  model.DifficultyMedium,
		Ingredients: []string{"poulet", "poivrons", "tomates", "oignon", "ail"},
		Steps:       []string{"Dorer le poulet", "Ajouter les légumes", "Mijoter 30 minutes"},
		CreatedAt:   now,
	}
}

// NewTestDraft creates a generated recipe draft for tests.
func NewTestDraft(t testing.TB) *model.RecipeDraft {
	t.Helper()
	return &model.RecipeDraft{
		Title:       "Riz sauté aux tomates",
		PrepTime:    "25 minutes",
		Difficulty:  model.DifficultyEasy,
		Ingredients: []string{"riz", "tomates", "oignon", "huile d'olive", "sel"},
		Steps:       []string{"Cuire le riz", "Faire revenir l'oignon", "Ajouter les tomates", "Mélanger au riz", "Assaisonner"},
	}
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// UniqueEmail generates a unique email address for tests.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.test", prefix, time.Now().UnixNano())
}
