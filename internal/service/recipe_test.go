package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cuistot/cuistot/internal/model"
	"github.com/cuistot/cuistot/internal/repository"
)

type fakeRecipeStore struct {
	created   []*model.Recipe
	recipes   map[string]*model.Recipe
	createErr error
	getErr    error
	deleteErr error
}

func newFakeRecipeStore() *fakeRecipeStore {
	return &fakeRecipeStore{recipes: make(map[string]*model.Recipe)}
}

func (f *fakeRecipeStore) CreateRecipe(ctx context.Context, recipe *model.Recipe) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, recipe)
	f.recipes[recipe.ID] = recipe
	return nil
}

func (f *fakeRecipeStore) GetRecipeByID(ctx context.Context, id, userID string) (*model.Recipe, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	r, ok := f.recipes[id]
	if !ok || r.UserID != userID {
		return nil, repository.ErrRecipeNotFound
	}
	return r, nil
}

func (f *fakeRecipeStore) ListRecipesByUserID(ctx context.Context, userID string) ([]*model.Recipe, error) {
	var out []*model.Recipe
	for _, r := range f.recipes {
		r := r
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRecipeStore) DeleteRecipe(ctx context.Context, id, userID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	r, ok := f.recipes[id]
	if !ok || r.UserID != userID {
		return repository.ErrRecipeNotFound
	}
	delete(f.recipes, id)
	return nil
}

func TestRecipeSave_AssignsIdentity(t *testing.T) {
	t.Parallel()

	store := newFakeRecipeStore()
	svc := NewRecipeService(store, nil)

	before := time.Now().UTC()
	recipe, err := svc.Save(context.Background(), "user-1", testDraft())
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if recipe.ID == "" {
		t.Error("Save should assign an ID")
	}
	if recipe.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", recipe.UserID)
	}
	if recipe.CreatedAt.Before(before) {
		t.Error("CreatedAt should be set by the server")
	}
	if len(store.created) != 1 {
		t.Fatalf("expected 1 stored recipe, got %d", len(store.created))
	}
}

func TestRecipeSave_UniqueIDs(t *testing.T) {
	t.Parallel()

	svc := NewRecipeService(newFakeRecipeStore(), nil)

	first, err := svc.Save(context.Background(), "user-1", testDraft())
	if err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	second, err := svc.Save(context.Background(), "user-1", testDraft())
	if err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	if first.ID == second.ID {
		t.Error("each save should get a distinct ID")
	}
}

func TestRecipeSave_IncompleteDraft(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		draft *model.RecipeDraft
	}{
		{"nil draft", nil},
		{"empty draft", &model.RecipeDraft{}},
		{"missing title", &model.RecipeDraft{PrepTime: "10 min", Difficulty: "facile", Ingredients: []string{"a"}, Steps: []string{"b"}}},
		{"missing time", &model.RecipeDraft{Title: "T", Difficulty: "facile", Ingredients: []string{"a"}, Steps: []string{"b"}}},
		{"missing difficulty", &model.RecipeDraft{Title: "T", PrepTime: "10 min", Ingredients: []string{"a"}, Steps: []string{"b"}}},
		{"no ingredients", &model.RecipeDraft{Title: "T", PrepTime: "10 min", Difficulty: "facile", Steps: []string{"b"}}},
		{"no steps", &model.RecipeDraft{Title: "T", PrepTime: "10 min", Difficulty: "facile", Ingredients: []string{"a"}}},
	}

	svc := NewRecipeService(newFakeRecipeStore(), nil)

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.Save(context.Background(), "user-1", tt.draft)
			if !errors.Is(err, ErrIncompleteRecipe) {
				t.Errorf("expected ErrIncompleteRecipe, got: %v", err)
			}
		})
	}
}

func TestRecipeGet_MapsNotFound(t *testing.T) {
	t.Parallel()

	svc := NewRecipeService(newFakeRecipeStore(), nil)

	_, err := svc.Get(context.Background(), "missing", "user-1")
	if !errors.Is(err, ErrRecipeNotFound) {
		t.Errorf("expected ErrRecipeNotFound, got: %v", err)
	}
}

func TestRecipeDelete_Success(t *testing.T) {
	t.Parallel()

	store := newFakeRecipeStore()
	svc := NewRecipeService(store, nil)

	recipe, err := svc.Save(context.Background(), "user-1", testDraft())
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := svc.Delete(context.Background(), recipe.ID, "user-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := svc.Get(context.Background(), recipe.ID, "user-1"); !errors.Is(err, ErrRecipeNotFound) {
		t.Error("recipe should be gone after delete")
	}
}

func TestRecipeDelete_NotFoundIsLoud(t *testing.T) {
	t.Parallel()

	svc := NewRecipeService(newFakeRecipeStore(), nil)

	err := svc.Delete(context.Background(), "missing", "user-1")
	if !errors.Is(err, ErrRecipeNotFound) {
		t.Errorf("deleting a missing recipe must fail, got: %v", err)
	}
}

func TestRecipeDelete_WrongOwner(t *testing.T) {
	t.Parallel()

	store := newFakeRecipeStore()
	svc := NewRecipeService(store, nil)

	recipe, err := svc.Save(context.Background(), "user-1", testDraft())
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := svc.Delete(context.Background(), recipe.ID, "user-2"); !errors.Is(err, ErrRecipeNotFound) {
		t.Errorf("foreign delete should report not found, got: %v", err)
	}
}
