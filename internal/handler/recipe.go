package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cuistot/cuistot/internal/auth"
	"github.com/cuistot/cuistot/internal/handler/dto"
	"github.com/cuistot/cuistot/internal/model"
	"github.com/cuistot/cuistot/internal/service"
)

// RecipeHandler handles HTTP requests for saved recipes.
type RecipeHandler struct {
	svc    *service.RecipeService
	logger *slog.Logger
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(svc *service.RecipeService, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{
		svc:    svc,
		logger: logger,
	}
}

// Save handles POST /api/v1/recipes. The body is a draft as returned
// by generation; the server assigns identity and timestamp.
func (h *RecipeHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustAuthFromContext(r.Context()).UserID

	var draft model.RecipeDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	recipe, err := h.svc.Save(r.Context(), userID, &draft)
	if err != nil {
		h.handleRecipeError(w, err)
		return
	}

	h.logger.Info("recipe_saved",
		"recipe_id", recipe.ID,
		"user_id", userID,
	)

	writeJSON(w, http.StatusCreated, recipe)
}

// List handles GET /api/v1/recipes.
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustAuthFromContext(r.Context()).UserID

	recipes, err := h.svc.List(r.Context(), userID)
	if err != nil {
		h.handleRecipeError(w, err)
		return
	}

	if recipes == nil {
		recipes = []*model.Recipe{}
	}
	writeJSON(w, http.StatusOK, dto.RecipeListResponse{Data: recipes})
}

// Get handles GET /api/v1/recipes/{id}.
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustAuthFromContext(r.Context()).UserID

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Recipe ID is required")
		return
	}

	recipe, err := h.svc.Get(r.Context(), id, userID)
	if err != nil {
		h.handleRecipeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recipe)
}

// Delete handles DELETE /api/v1/recipes/{id}.
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustAuthFromContext(r.Context()).UserID

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Recipe ID is required")
		return
	}

	if err := h.svc.Delete(r.Context(), id, userID); err != nil {
		h.handleRecipeError(w, err)
		return
	}

	h.logger.Info("recipe_deleted", "recipe_id", id, "user_id", userID)

	w.WriteHeader(http.StatusNoContent)
}

// handleRecipeError maps recipe service errors to HTTP responses.
func (h *RecipeHandler) handleRecipeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrRecipeNotFound):
		writeError(w, http.StatusNotFound, "RECIPE_NOT_FOUND", "Recette introuvable")
	case errors.Is(err, service.ErrIncompleteRecipe):
		writeError(w, http.StatusUnprocessableEntity, "INCOMPLETE_RECIPE", "La recette est incomplète")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
