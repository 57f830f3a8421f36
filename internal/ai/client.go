// Package ai generates recipes through the OpenRouter chat-completions
// API. The model response is treated as untrusted text: a candidate
// JSON object is extracted leniently, defaults are backfilled, and the
// result is validated strictly before anything is returned.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/chefgpt/chefgpt-api/internal/apperr"
	"github.com/chefgpt/chefgpt-api/internal/config"
)

const defaultBaseURL = "https://openrouter.ai/api/v1"

const systemPrompt = "You are the most creative chef in the world. You are a master of multiple cuisine."

// Client calls the OpenRouter chat-completions endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	validate   *validatorv10.Validate
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (used by tests).
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(url, "/") }
}

// WithHTTPClient overrides the transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient returns a Client configured for the given model and key.
func NewClient(cfg config.AIConfig, opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    defaultBaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		validate:   validatorv10.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate synthesizes a recipe from the ingredients and cuisine.
func (c *Client) Generate(ctx context.Context, ingredients []string, cuisine string) (*GeneratedRecipe, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt(ingredients, cuisine)},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, apperr.Mark(fmt.Errorf("marshal chat request: %w", err), apperr.ErrUpstream)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, apperr.Mark(fmt.Errorf("build chat request: %w", err), apperr.ErrUpstream)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Mark(fmt.Errorf("call chat completions: %w", err), apperr.ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, apperr.Mark(
			fmt.Errorf("chat completions returned %d: %s", resp.StatusCode, string(body)),
			apperr.ErrUpstream,
		)
	}

	var envelope chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, apperr.Mark(fmt.Errorf("decode response envelope: %w", err), apperr.ErrMalformedAIResponse)
	}
	if len(envelope.Choices) == 0 {
		return nil, apperr.Mark(errors.New("response has no choices"), apperr.ErrMalformedAIResponse)
	}

	return c.parseContent(envelope.Choices[0].Message.Content)
}

// parseContent runs the extract-then-validate pipeline over the
// assistant's text output.
func (c *Client) parseContent(content string) (*GeneratedRecipe, error) {
	candidate, err := extractJSON(content)
	if err != nil {
		return nil, err
	}

	var payload recipePayload
	if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
		return nil, apperr.Mark(fmt.Errorf("parse AI response: %w", err), apperr.ErrMalformedAIResponse)
	}

	recipe := payload.withDefaults()
	if err := c.validate.Struct(recipe); err != nil {
		return nil, apperr.Mark(fmt.Errorf("AI returned invalid recipe format: %w", err), apperr.ErrInvalidRecipeFormat)
	}

	return &recipe, nil
}

// userPrompt enumerates the ingredients and cuisine and pins down the
// exact output schema. The model still drops fields often enough that
// withDefaults has to backfill.
func userPrompt(ingredients []string, cuisine string) string {
	return fmt.Sprintf(`Generate a %s recipe using these ingredients: %s.

IMPORTANT: You MUST include ALL fields in your response. Return ONLY valid JSON (no markdown, no code blocks) with this EXACT structure:
{
  "title": "Recipe Name",
  "description": "Brief description of the recipe",
  "cuisine": "%s",
  "ingredients": [{"item": "ingredient name", "amount": "measurement"}],
  "instructions": ["step 1", "step 2", "step 3"],
  "servingSize": 4,
  "prepTime": 15,
  "cookTime": 30,
  "tags": ["easy", "quick", "healthy"]
}

REQUIRED FIELDS:
- servingSize: MUST be a number (e.g., 2, 4, 6)
- prepTime: MUST be a number in minutes (e.g., 15, 30)
- cookTime: MUST be a number in minutes (e.g., 20, 45)
- tags: MUST be an array of strings (e.g., ["vegetarian", "spicy"])

Do not skip any fields. Return only the complete JSON object.`, cuisine, strings.Join(ingredients, ", "), cuisine)
}
