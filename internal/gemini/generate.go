package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cuistot/cuistot/internal/model"
)

// maxResponseBytes caps how much of an upstream response we will read.
const maxResponseBytes = 1 << 20 // 1 MiB

// apiKeyHeader carries the user's key. Header injection keeps keys out
// of URLs, so they never land in access logs.
const apiKeyHeader = "x-goog-api-key"

type schemaProperty struct {
	Type  string          `json:"type"`
	Items *schemaProperty `json:"items,omitempty"`
}

type responseSchema struct {
	Type             string                    `json:"type"`
	Properties       map[string]schemaProperty `json:"properties"`
	PropertyOrdering []string                  `json:"propertyOrdering"`
}

// recipeSchema constrains the model's output to the recipe shape.
// propertyOrdering matters: Gemini emits fields in this order, which
// keeps streaming-friendly clients stable.
var recipeSchema = responseSchema{
	Type: "OBJECT",
	Properties: map[string]schemaProperty{
		"titre":       {Type: "STRING"},
		"temps":       {Type: "STRING"},
		"difficulte":  {Type: "STRING"},
		"ingredients": {Type: "ARRAY", Items: &schemaProperty{Type: "STRING"}},
		"etapes":      {Type: "ARRAY", Items: &schemaProperty{Type: "STRING"}},
	},
	PropertyOrdering: []string{"titre", "temps", "difficulte", "ingredients", "etapes"},
}

type generationConfig struct {
	ResponseMIMEType string         `json:"responseMimeType"`
	ResponseSchema   responseSchema `json:"responseSchema"`
}

type requestPart struct {
	Text string `json:"text"`
}

type requestContent struct {
	Parts []requestPart `json:"parts"`
}

type generateRequest struct {
	Contents         []requestContent `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []requestPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateRecipe sends the prompt to the generateContent endpoint using
// the given API key and parses the structured JSON reply into a draft.
//
// A reply that is not valid recipe JSON is NOT an error: the upstream
// call succeeded, the model just produced garbage. We log it and return
// an empty draft so the caller can surface "nothing usable" to the user.
func (c *Client) GenerateRecipe(ctx context.Context, apiKey model.Secret, prompt string) (*model.RecipeDraft, error) {
	payload := generateRequest{
		Contents: []requestContent{
			{Parts: []requestPart{{Text: prompt}}},
		},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   recipeSchema,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal generate request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, apiKey.Reveal())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrProviderUnavailable, err)
	}

	if err := classifyStatus(resp.StatusCode); err != nil {
		c.logger.Warn("gemini request failed",
			"status", resp.StatusCode,
			"model", c.model,
		)
		return nil, err
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("%w: malformed response envelope: %v", ErrProviderUnavailable, err)
	}

	text := firstCandidateText(&parsed)
	if text == "" {
		c.logger.Warn("gemini returned no candidates", "model", c.model)
		return &model.RecipeDraft{}, nil
	}

	var draft model.RecipeDraft
	if err := json.Unmarshal([]byte(text), &draft); err != nil {
		c.logger.Warn("gemini returned unparseable recipe JSON",
			"model", c.model,
			"error", err,
		)
		return &model.RecipeDraft{}, nil
	}

	return &draft, nil
}

// classifyStatus maps upstream HTTP statuses to failure classes.
// 400 is treated as an auth failure: AI Studio reports malformed keys
// as 400 INVALID_ARGUMENT rather than 401.
func classifyStatus(status int) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusBadRequest,
		status == http.StatusUnauthorized,
		status == http.StatusForbidden:
		return fmt.Errorf("%w (status %d)", ErrProviderAuth, status)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w (status %d)", ErrProviderQuota, status)
	default:
		return fmt.Errorf("%w (status %d)", ErrProviderUnavailable, status)
	}
}

func firstCandidateText(resp *generateResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return ""
	}
	return parts[0].Text
}
