package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cuistot/cuistot/internal/metrics"
	"github.com/cuistot/cuistot/internal/model"
	"github.com/cuistot/cuistot/internal/repository"
)

// Recipe errors.
var (
	ErrRecipeNotFound   = errors.New("recipe not found")
	ErrIncompleteRecipe = errors.New("recipe is missing required fields")
)

// RecipeStore is the persistence surface RecipeService needs.
// Satisfied by *repository.Repository.
type RecipeStore interface {
	CreateRecipe(ctx context.Context, recipe *model.Recipe) error
	GetRecipeByID(ctx context.Context, id, userID string) (*model.Recipe, error)
	ListRecipesByUserID(ctx context.Context, userID string) ([]*model.Recipe, error)
	DeleteRecipe(ctx context.Context, id, userID string) error
}

// RecipeService handles saved-recipe business logic.
type RecipeService struct {
	store   RecipeStore
	metrics metrics.Recorder
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(store RecipeStore, recorder metrics.Recorder) *RecipeService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &RecipeService{
		store:   store,
		metrics: recorder,
	}
}

// Save persists a generated draft for the given user. The server
// assigns identity and timestamp; clients never control either.
func (s *RecipeService) Save(ctx context.Context, userID string, draft *model.RecipeDraft) (*model.Recipe, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	recipe := &model.Recipe{
		ID:          ulid.Make().String(),
		UserID:      userID,
		Title:       draft.Title,
		PrepTime:    draft.PrepTime,
		Difficulty:  draft.Difficulty,
		Ingredients: draft.Ingredients,
		Steps:       draft.Steps,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.store.CreateRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}

	s.metrics.IncRecipeSaved()
	return recipe, nil
}

// List returns the user's saved recipes, newest first.
func (s *RecipeService) List(ctx context.Context, userID string) ([]*model.Recipe, error) {
	recipes, err := s.store.ListRecipesByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

// Get returns one recipe, scoped to its owner.
func (s *RecipeService) Get(ctx context.Context, id, userID string) (*model.Recipe, error) {
	recipe, err := s.store.GetRecipeByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return recipe, nil
}

// Delete removes a recipe. Deleting something that does not exist (or
// belongs to someone else) fails loudly with ErrRecipeNotFound.
func (s *RecipeService) Delete(ctx context.Context, id, userID string) error {
	if err := s.store.DeleteRecipe(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return ErrRecipeNotFound
		}
		return fmt.Errorf("delete recipe: %w", err)
	}

	s.metrics.IncRecipeDeleted()
	return nil
}

// validateDraft checks the five recipe fields are all present.
// Partial drafts (including the empty draft a failed generation
// produces) are not worth saving.
func validateDraft(draft *model.RecipeDraft) error {
	if draft == nil ||
		draft.Title == "" ||
		draft.PrepTime == "" ||
		draft.Difficulty == "" ||
		len(draft.Ingredients) == 0 ||
		len(draft.Steps) == 0 {
		return ErrIncompleteRecipe
	}
	return nil
}
