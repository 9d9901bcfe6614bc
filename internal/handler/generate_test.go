package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cuistot/cuistot/internal/auth"
	"github.com/cuistot/cuistot/internal/handler/dto"
	"github.com/cuistot/cuistot/internal/model"
	"github.com/cuistot/cuistot/internal/repository"
	"github.com/cuistot/cuistot/internal/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubCredentialReader struct {
	cred *model.Credential
	err  error
}

func (s *stubCredentialReader) GetCredentialByUserID(ctx context.Context, userID string) (*model.Credential, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.cred, nil
}

type stubDraftGenerator struct {
	draft  *model.RecipeDraft
	err    error
	called bool
}

func (s *stubDraftGenerator) GenerateRecipe(ctx context.Context, apiKey model.Secret, prompt string) (*model.RecipeDraft, error) {
	s.called = true
	if s.err != nil {
		return nil, s.err
	}
	return s.draft, nil
}

// authedRequest builds a request that already passed auth middleware.
func authedRequest(method, target, body string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := auth.ContextWithAuth(r.Context(), &model.AuthContext{
		UserID: "user-1",
		Email:  "chef@example.test",
	})
	return r.WithContext(ctx)
}

func sampleDraft() *model.RecipeDraft {
	return &model.RecipeDraft{
		Title:       "Riz sauté aux tomates",
		PrepTime:    "25 minutes",
		Difficulty:  model.DifficultyEasy,
		Ingredients: []string{"riz", "tomates"},
		Steps:       []string{"Cuire le riz", "Ajouter les tomates"},
	}
}

func newGenerateHandler(creds service.CredentialReader, ai service.DraftGenerator) *GenerateHandler {
	svc := service.NewGeneratorService(creds, ai, nil, testLogger())
	return NewGenerateHandler(svc, testLogger())
}

func TestGenerate_OK(t *testing.T) {
	creds := &stubCredentialReader{cred: &model.Credential{
		UserID: "user-1",
		APIKey: model.NewSecret("AIzaSyTestKey123456789"),
	}}
	h := newGenerateHandler(creds, &stubDraftGenerator{draft: sampleDraft()})

	req := authedRequest(http.MethodPost, "/api/v1/generate", `{"ingredients":"riz, tomates","type":"plat principal"}`)
	rec := httptest.NewRecorder()

	h.Generate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.GenerateResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Recipe == nil || resp.Recipe.Title != "Riz sauté aux tomates" {
		t.Errorf("unexpected recipe: %+v", resp.Recipe)
	}
}

func TestGenerate_MissingAPIKey(t *testing.T) {
	ai := &stubDraftGenerator{draft: sampleDraft()}
	h := newGenerateHandler(&stubCredentialReader{err: repository.ErrCredentialNotFound}, ai)

	req := authedRequest(http.MethodPost, "/api/v1/generate", `{"ingredients":"riz"}`)
	rec := httptest.NewRecorder()

	h.Generate(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Clé API Gemini non configurée") {
		t.Errorf("403 body must name the missing key, got: %s", rec.Body.String())
	}
	if ai.called {
		t.Error("model must not be called without a stored key")
	}
}

func TestGenerate_StoreFailure(t *testing.T) {
	creds := &stubCredentialReader{err: io.ErrUnexpectedEOF}
	h := newGenerateHandler(creds, &stubDraftGenerator{draft: sampleDraft()})

	req := authedRequest(http.MethodPost, "/api/v1/generate", `{"ingredients":"riz"}`)
	rec := httptest.NewRecorder()

	h.Generate(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Code != "STORE_UNAVAILABLE" {
		t.Errorf("expected STORE_UNAVAILABLE, got %q", resp.Code)
	}
	if resp.Details == "" {
		t.Error("500 responses should carry details")
	}
}

func TestGenerate_BadJSON(t *testing.T) {
	h := newGenerateHandler(&stubCredentialReader{}, &stubDraftGenerator{})

	req := authedRequest(http.MethodPost, "/api/v1/generate", `{not json`)
	rec := httptest.NewRecorder()

	h.Generate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestGenerate_NoIngredients(t *testing.T) {
	h := newGenerateHandler(&stubCredentialReader{}, &stubDraftGenerator{})

	req := authedRequest(http.MethodPost, "/api/v1/generate", `{"ingredients":""}`)
	rec := httptest.NewRecorder()

	h.Generate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestGenerate_EmptyDraftStillOK(t *testing.T) {
	creds := &stubCredentialReader{cred: &model.Credential{
		UserID: "user-1",
		APIKey: model.NewSecret("AIzaSyTestKey123456789"),
	}}
	h := newGenerateHandler(creds, &stubDraftGenerator{draft: &model.RecipeDraft{}})

	req := authedRequest(http.MethodPost, "/api/v1/generate", `{"ingredients":"riz"}`)
	rec := httptest.NewRecorder()

	h.Generate(rec, req)

	// Unparseable provider output degrades to an empty draft, not a 500
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp dto.GenerateResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Recipe == nil || !resp.Recipe.IsEmpty() {
		t.Errorf("expected empty recipe, got: %+v", resp.Recipe)
	}
}
