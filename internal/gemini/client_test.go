package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cuistot/cuistot/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestClient points a Client at a local httptest server.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "gemini-2.0-flash-exp", 5*time.Second, testLogger())
}

// candidateResponse wraps text the way generateContent replies do.
func candidateResponse(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{
				"content": map[string]any{
					"parts": []map[string]any{
						{"text": text},
					},
				},
			},
		},
	}
}

func TestGenerateRecipe_Success(t *testing.T) {
	t.Parallel()

	recipeJSON := `{"titre":"Omelette aux herbes","temps":"15 minutes","difficulte":"facile","ingredients":["oeufs","ciboulette","beurre"],"etapes":["Battre les oeufs","Cuire au beurre"]}`

	var gotPath, gotKey string
	var gotBody generateRequest

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(candidateResponse(recipeJSON))
	})

	draft, err := client.GenerateRecipe(context.Background(), model.NewSecret("AIzaTestKey"), "une recette avec des oeufs")
	if err != nil {
		t.Fatalf("GenerateRecipe failed: %v", err)
	}

	if gotPath != "/v1beta/models/gemini-2.0-flash-exp:generateContent" {
		t.Errorf("unexpected path: %s", gotPath)
	}
	if gotKey != "AIzaTestKey" {
		t.Errorf("API key not injected in header, got %q", gotKey)
	}
	if gotBody.GenerationConfig.ResponseMIMEType != "application/json" {
		t.Errorf("expected JSON response mime type, got %q", gotBody.GenerationConfig.ResponseMIMEType)
	}
	if len(gotBody.Contents) != 1 || gotBody.Contents[0].Parts[0].Text != "une recette avec des oeufs" {
		t.Error("prompt should be forwarded verbatim")
	}

	if draft.Title != "Omelette aux herbes" {
		t.Errorf("Title = %q", draft.Title)
	}
	if draft.Difficulty != model.DifficultyEasy {
		t.Errorf("Difficulty = %q", draft.Difficulty)
	}
	if len(draft.Ingredients) != 3 || len(draft.Steps) != 2 {
		t.Errorf("unexpected draft shape: %+v", draft)
	}
}

func TestGenerateRecipe_SchemaOrdering(t *testing.T) {
	t.Parallel()

	var gotBody generateRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(candidateResponse("{}"))
	})

	_, err := client.GenerateRecipe(context.Background(), model.NewSecret("k"), "prompt")
	if err != nil {
		t.Fatalf("GenerateRecipe failed: %v", err)
	}

	want := []string{"titre", "temps", "difficulte", "ingredients", "etapes"}
	got := gotBody.GenerationConfig.ResponseSchema.PropertyOrdering
	if len(got) != len(want) {
		t.Fatalf("propertyOrdering length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("propertyOrdering[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestGenerateRecipe_AuthErrors(t *testing.T) {
	t.Parallel()

	// AI Studio reports bad keys as 400 as often as 401/403
	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})

		_, err := client.GenerateRecipe(context.Background(), model.NewSecret("bad"), "prompt")
		if !errors.Is(err, ErrProviderAuth) {
			t.Errorf("status %d: expected ErrProviderAuth, got: %v", status, err)
		}
	}
}

func TestGenerateRecipe_QuotaError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.GenerateRecipe(context.Background(), model.NewSecret("k"), "prompt")
	if !errors.Is(err, ErrProviderQuota) {
		t.Errorf("expected ErrProviderQuota, got: %v", err)
	}
}

func TestGenerateRecipe_ServerError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.GenerateRecipe(context.Background(), model.NewSecret("k"), "prompt")
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got: %v", err)
	}
}

func TestGenerateRecipe_ConnectionRefused(t *testing.T) {
	t.Parallel()

	// Closed server: the dial fails
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := New(url, "gemini-2.0-flash-exp", time.Second, testLogger())

	_, err := client.GenerateRecipe(context.Background(), model.NewSecret("k"), "prompt")
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got: %v", err)
	}
}

func TestGenerateRecipe_MalformedRecipeJSON(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(candidateResponse("this is not json {"))
	})

	// A successful call with garbage text is not an error: empty draft
	draft, err := client.GenerateRecipe(context.Background(), model.NewSecret("k"), "prompt")
	if err != nil {
		t.Fatalf("expected no error for unparseable recipe text, got: %v", err)
	}
	if !draft.IsEmpty() {
		t.Errorf("expected empty draft, got %+v", draft)
	}
}

func TestGenerateRecipe_NoCandidates(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	})

	draft, err := client.GenerateRecipe(context.Background(), model.NewSecret("k"), "prompt")
	if err != nil {
		t.Fatalf("expected no error for empty candidates, got: %v", err)
	}
	if !draft.IsEmpty() {
		t.Errorf("expected empty draft, got %+v", draft)
	}
}
