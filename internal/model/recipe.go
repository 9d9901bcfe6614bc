// Package model defines domain entities for the application.
package model

import "time"

// Difficulty values the generation schema steers the model toward.
// Stored as free text; these are the expected values, not an enum.
const (
	DifficultyEasy   = "facile"
	DifficultyMedium = "moyen"
	DifficultyHard   = "difficile"
)

// RecipeDraft is the transient five-field shape returned by generation.
// It is never persisted by the gateway; saving is a separate,
// client-initiated action. JSON keys match the generation schema the
// provider is constrained to, in schema order.
type RecipeDraft struct {
	Title       string   `json:"titre"`
	PrepTime    string   `json:"temps"`
	Difficulty  string   `json:"difficulte"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"etapes"`
}

// IsEmpty reports whether the draft carries no content at all,
// which happens when the provider returned an unparseable payload.
func (d *RecipeDraft) IsEmpty() bool {
	return d.Title == "" && d.PrepTime == "" && d.Difficulty == "" &&
		len(d.Ingredients) == 0 && len(d.Steps) == 0
}

// Recipe is a saved recipe owned by a single user.
// Immutable after save except via delete.
type Recipe struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"titre"`
	PrepTime    string    `json:"temps"`
	Difficulty  string    `json:"difficulte"`
	Ingredients []string  `json:"ingredients"`
	Steps       []string  `json:"etapes"`
	CreatedAt   time.Time `json:"created_at"`
}

// Draft returns the transient shape of a saved recipe, used when a
// client re-opens a stored recipe in the detail view.
func (r *Recipe) Draft() RecipeDraft {
	return RecipeDraft{
		Title:       r.Title,
		PrepTime:    r.PrepTime,
		Difficulty:  r.Difficulty,
		Ingredients: r.Ingredients,
		Steps:       r.Steps,
	}
}
