package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cuistot/cuistot/internal/auth"
	"github.com/cuistot/cuistot/internal/gemini"
	"github.com/cuistot/cuistot/internal/handler/dto"
	"github.com/cuistot/cuistot/internal/service"
)

// GenerateHandler handles HTTP requests for recipe generation.
type GenerateHandler struct {
	svc    *service.GeneratorService
	logger *slog.Logger
}

// NewGenerateHandler creates a new GenerateHandler.
func NewGenerateHandler(svc *service.GeneratorService, logger *slog.Logger) *GenerateHandler {
	return &GenerateHandler{
		svc:    svc,
		logger: logger,
	}
}

// Generate handles POST /api/v1/generate.
// One synchronous generation per request; the draft is returned to the
// client and nothing is persisted.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustAuthFromContext(r.Context()).UserID

	var req dto.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	draft, err := h.svc.Generate(r.Context(), userID, service.GenerateInput{
		Ingredients: req.Ingredients,
		Type:        req.Type,
	})
	if err != nil {
		h.handleGenerateError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.GenerateResponse{Recipe: draft})
}

// handleGenerateError maps generation errors to HTTP responses.
// The distinction between "you have no key" (403, fixable in settings)
// and "something broke" (500) is the whole point of this mapping.
func (h *GenerateHandler) handleGenerateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNoIngredients):
		writeError(w, http.StatusBadRequest, "MISSING_INGREDIENTS", "Veuillez indiquer des ingrédients")
	case errors.Is(err, service.ErrCredentialMissing):
		writeError(w, http.StatusForbidden, "API_KEY_MISSING",
			"Clé API Gemini non configurée. Ajoutez votre clé dans les réglages.")
	case errors.Is(err, service.ErrStoreUnavailable):
		h.logger.Error("credential_store_unavailable", "error", err)
		writeErrorDetails(w, http.StatusInternalServerError, "STORE_UNAVAILABLE",
			"Erreur serveur", err.Error())
	case errors.Is(err, gemini.ErrProviderAuth):
		h.logger.Warn("provider_rejected_key", "error", err)
		writeErrorDetails(w, http.StatusInternalServerError, "PROVIDER_KEY_REJECTED",
			"Erreur serveur", "La clé API a été refusée par le fournisseur")
	case errors.Is(err, gemini.ErrProviderQuota):
		h.logger.Warn("provider_quota_exhausted", "error", err)
		writeErrorDetails(w, http.StatusInternalServerError, "PROVIDER_QUOTA",
			"Erreur serveur", "Quota du fournisseur épuisé")
	default:
		h.logger.Error("generation_failed", "error", err)
		writeErrorDetails(w, http.StatusInternalServerError, "UPSTREAM_ERROR",
			"Erreur serveur", err.Error())
	}
}
