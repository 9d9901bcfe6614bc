package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cuistot/cuistot/internal/auth"
	"github.com/cuistot/cuistot/internal/handler/dto"
	"github.com/cuistot/cuistot/internal/service"
)

// SettingsHandler handles HTTP requests for the user's Gemini API key.
type SettingsHandler struct {
	svc    *service.AccountService
	logger *slog.Logger
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(svc *service.AccountService, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{
		svc:    svc,
		logger: logger,
	}
}

// PutAPIKey handles PUT /api/v1/settings/api-key.
// Storing a key is an idempotent upsert: the new key replaces any
// previous one.
func (h *SettingsHandler) PutAPIKey(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustAuthFromContext(r.Context()).UserID

	var req dto.SetAPIKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := h.svc.SetAPIKey(r.Context(), userID, req.APIKey); err != nil {
		if errors.Is(err, service.ErrInvalidAPIKey) {
			writeError(w, http.StatusBadRequest, "INVALID_API_KEY", "Format de clé API invalide (doit commencer par AIza)")
			return
		}
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetAPIKey handles GET /api/v1/settings/api-key.
// It reports whether a key is configured and its display prefix. The
// key itself is never returned.
func (h *SettingsHandler) GetAPIKey(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustAuthFromContext(r.Context()).UserID

	resp, err := h.svc.GetAPIKey(r.Context(), userID)
	if err != nil {
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// DeleteAPIKey handles DELETE /api/v1/settings/api-key.
func (h *SettingsHandler) DeleteAPIKey(w http.ResponseWriter, r *http.Request) {
	userID := auth.MustAuthFromContext(r.Context()).UserID

	if err := h.svc.DeleteAPIKey(r.Context(), userID); err != nil {
		if errors.Is(err, service.ErrCredentialMissing) {
			writeError(w, http.StatusNotFound, "API_KEY_NOT_FOUND", "Aucune clé API enregistrée")
			return
		}
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	h.logger.Info("api_key_deleted", "user_id", userID)
	w.WriteHeader(http.StatusNoContent)
}
