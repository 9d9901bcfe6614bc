// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import "github.com/cuistot/cuistot/internal/model"

// SignupRequest represents the request body for creating an account.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for logging in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries a session token and the account it belongs to.
type AuthResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

// SetAPIKeyRequest represents the request body for storing a Gemini key.
type SetAPIKeyRequest struct {
	APIKey string `json:"api_key"`
}

// ErrorResponse represents an API error. Details is only populated for
// server-side failures where the client can show something actionable.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
