package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/cuistot/cuistot/internal/model"
)

// Common errors for recipe repository operations.
var (
	ErrRecipeNotFound = errors.New("recipe not found")
)

// CreateRecipe inserts a saved recipe.
func (r *Repository) CreateRecipe(ctx context.Context, recipe *model.Recipe) error {
	query := `
		INSERT INTO recipes (id, user_id, titre, temps, difficulte, ingredients, etapes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		recipe.ID,
		recipe.UserID,
		recipe.Title,
		recipe.PrepTime,
		recipe.Difficulty,
		pq.Array(recipe.Ingredients),
		pq.Array(recipe.Steps),
		recipe.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}

	return nil
}

// GetRecipeByID retrieves a recipe owned by the given user.
// Foreign rows are indistinguishable from missing rows.
func (r *Repository) GetRecipeByID(ctx context.Context, id, userID string) (*model.Recipe, error) {
	query := `
		SELECT id, user_id, titre, temps, difficulte, ingredients, etapes, created_at
		FROM recipes
		WHERE id = $1 AND user_id = $2
	`

	return r.scanRecipe(r.pool.QueryRow(ctx, query, id, userID))
}

// ListRecipesByUserID retrieves all recipes owned by a user,
// most recent first.
func (r *Repository) ListRecipesByUserID(ctx context.Context, userID string) ([]*model.Recipe, error) {
	query := `
		SELECT id, user_id, titre, temps, difficulte, ingredients, etapes, created_at
		FROM recipes
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []*model.Recipe
	for rows.Next() {
		recipe, err := r.scanRecipeFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipes: %w", err)
	}

	return recipes, nil
}

// DeleteRecipe deletes a recipe owned by the given user.
// Returns ErrRecipeNotFound when zero rows were affected so callers
// can surface the failure instead of reporting a silent success.
func (r *Repository) DeleteRecipe(ctx context.Context, id, userID string) error {
	query := `
		DELETE FROM recipes
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrRecipeNotFound
	}

	return nil
}

// scanRecipe scans a single row into a Recipe model.
func (r *Repository) scanRecipe(row pgx.Row) (*model.Recipe, error) {
	var recipe model.Recipe
	var ingredients, steps []string

	err := row.Scan(
		&recipe.ID,
		&recipe.UserID,
		&recipe.Title,
		&recipe.PrepTime,
		&recipe.Difficulty,
		pq.Array(&ingredients),
		pq.Array(&steps),
		&recipe.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to scan recipe: %w", err)
	}

	recipe.Ingredients = ingredients
	recipe.Steps = steps
	return &recipe, nil
}

// scanRecipeFromRows scans a row from pgx.Rows into a Recipe model.
func (r *Repository) scanRecipeFromRows(rows pgx.Rows) (*model.Recipe, error) {
	var recipe model.Recipe
	var ingredients, steps []string

	err := rows.Scan(
		&recipe.ID,
		&recipe.UserID,
		&recipe.Title,
		&recipe.PrepTime,
		&recipe.Difficulty,
		pq.Array(&ingredients),
		pq.Array(&steps),
		&recipe.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	recipe.Ingredients = ingredients
	recipe.Steps = steps
	return &recipe, nil
}
