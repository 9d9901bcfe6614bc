// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cuistot/cuistot/internal/gemini"
	"github.com/cuistot/cuistot/internal/metrics"
	"github.com/cuistot/cuistot/internal/model"
	"github.com/cuistot/cuistot/internal/repository"
)

// Service errors.
var (
	ErrCredentialMissing = errors.New("no Gemini API key configured for this account")
	ErrStoreUnavailable  = errors.New("credential store unavailable")
	ErrNoIngredients     = errors.New("ingredients are required")
)

// CredentialReader resolves stored API keys. Satisfied by
// *repository.Repository.
type CredentialReader interface {
	GetCredentialByUserID(ctx context.Context, userID string) (*model.Credential, error)
}

// DraftGenerator produces a recipe draft from a prompt. Satisfied by
// *gemini.Client.
type DraftGenerator interface {
	GenerateRecipe(ctx context.Context, apiKey model.Secret, prompt string) (*model.RecipeDraft, error)
}

// GeneratorService orchestrates one generation: resolve the caller's
// stored API key, build the prompt, call the model. It never persists
// anything; saving is an explicit separate action.
type GeneratorService struct {
	creds   CredentialReader
	ai      DraftGenerator
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewGeneratorService creates a new GeneratorService.
func NewGeneratorService(creds CredentialReader, ai DraftGenerator, recorder metrics.Recorder, logger *slog.Logger) *GeneratorService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &GeneratorService{
		creds:   creds,
		ai:      ai,
		metrics: recorder,
		logger:  logger,
	}
}

// GenerateInput defines input for generating a recipe.
type GenerateInput struct {
	Ingredients string
	Type        string
}

// Generate runs one synchronous generation for the given user.
// Exactly three round trips on the happy path: credential lookup,
// model call, and whatever the caller does with the draft.
func (s *GeneratorService) Generate(ctx context.Context, userID string, input GenerateInput) (*model.RecipeDraft, error) {
	if input.Ingredients == "" {
		return nil, ErrNoIngredients
	}

	cred, err := s.creds.GetCredentialByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			s.metrics.IncGeneration(metrics.OutcomeCredentialMissing)
			return nil, ErrCredentialMissing
		}
		// A store failure is not the same thing as a missing key
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	prompt := buildPrompt(input)

	start := time.Now()
	draft, err := s.ai.GenerateRecipe(ctx, cred.APIKey, prompt)
	s.metrics.ObserveGenerationDuration(time.Since(start))

	if err != nil {
		s.metrics.IncGeneration(classifyOutcome(err))
		return nil, err
	}

	if draft.IsEmpty() {
		s.metrics.IncGeneration(metrics.OutcomeEmptyDraft)
	} else {
		s.metrics.IncGeneration(metrics.OutcomeSuccess)
	}

	s.logger.Info("recipe generated",
		"user_id", userID,
		"empty", draft.IsEmpty(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return draft, nil
}

// buildPrompt assembles the French generation prompt. Wording matches
// the product copy; the difficulty instruction pins the model to the
// three values the UI knows how to display.
func buildPrompt(input GenerateInput) string {
	dishType := input.Type
	if dishType == "" {
		dishType = "plat principal"
	}
	return fmt.Sprintf(
		`Génère une délicieuse recette de cuisine de type "%s" en utilisant ces ingrédients : %s. La difficulté doit être "facile", "moyen" ou "difficile".`,
		dishType, input.Ingredients,
	)
}

func classifyOutcome(err error) string {
	switch {
	case errors.Is(err, gemini.ErrProviderAuth):
		return metrics.OutcomeProviderAuth
	case errors.Is(err, gemini.ErrProviderQuota):
		return metrics.OutcomeProviderQuota
	default:
		return metrics.OutcomeUnavailable
	}
}
