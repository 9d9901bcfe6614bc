// Package model defines domain entities for the application.
package model

// AuthContext holds authenticated request context.
// This is injected into the request context by auth middleware.
type AuthContext struct {
	UserID string
	Email  string
}
