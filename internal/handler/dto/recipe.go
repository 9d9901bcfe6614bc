package dto

import "github.com/cuistot/cuistot/internal/model"

// GenerateRequest represents the request body for generating a recipe.
// Ingredients is free text, exactly as the user typed it.
type GenerateRequest struct {
	Ingredients string `json:"ingredients"`
	Type        string `json:"type,omitempty"`
}

// GenerateResponse wraps the generated draft.
type GenerateResponse struct {
	Recipe *model.RecipeDraft `json:"recipe"`
}

// RecipeListResponse represents the user's saved recipes, newest first.
type RecipeListResponse struct {
	Data []*model.Recipe `json:"data"`
}
