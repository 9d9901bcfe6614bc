package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cuistot/cuistot/internal/handler/dto"
	"github.com/cuistot/cuistot/internal/service"
)

// AuthHandler handles HTTP requests for signup, login and logout.
type AuthHandler struct {
	svc    *service.AccountService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AccountService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger,
	}
}

// Signup handles POST /api/v1/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	user, token, err := h.svc.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleAccountError(w, err)
		return
	}

	h.logger.Info("signup", "user_id", user.ID)

	writeJSON(w, http.StatusCreated, dto.AuthResponse{
		Token: token,
		User:  user.ToResponse(),
	})
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	user, token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleAccountError(w, err)
		return
	}

	h.logger.Info("login", "user_id", user.ID)

	writeJSON(w, http.StatusOK, dto.AuthResponse{
		Token: token,
		User:  user.ToResponse(),
	})
}

// Logout handles POST /api/v1/auth/logout. It revokes whatever bearer
// token the request carries; a missing or dead token still gets a 204.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token != "" {
		if err := h.svc.Logout(r.Context(), token); err != nil {
			h.logger.Error("logout_failed", "error", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAccountError maps account service errors to HTTP responses.
func (h *AuthHandler) handleAccountError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "INVALID_EMAIL", "Adresse e-mail invalide")
	case errors.Is(err, service.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, "WEAK_PASSWORD", "Le mot de passe doit contenir au moins 8 caractères")
	case errors.Is(err, service.ErrEmailExists):
		writeError(w, http.StatusConflict, "EMAIL_EXISTS", "Un compte existe déjà avec cette adresse")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "E-mail ou mot de passe incorrect")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// bearerToken extracts the token from an Authorization header.
// Returns "" when the header is absent or not a bearer scheme.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
