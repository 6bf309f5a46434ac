package engine

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// GeminiClient wraps the genai SDK for schema-constrained buzz scoring.
type GeminiClient struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

// buzzReportSchema constrains Gemini output to the BuzzReport shape.
var buzzReportSchema = map[string]any{
	"type":     "object",
	"required": []string{"score", "verdict", "hook", "summary"},
	"properties": map[string]any{
		"score": map[string]any{
			"type":        "integer",
			"description": "Viral potential score from 0 to 100.",
		},
		"verdict": map[string]any{
			"type":        "string",
			"description": "One of: low, moderate, high, viral.",
		},
		"hook": map[string]any{
			"type":        "string",
			"description": "Analysis of the first 3 seconds hook.",
		},
		"strengths": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"weaknesses": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"improvements": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"summary": map[string]any{
			"type":        "string",
			"description": "2-3 sentence assessment of the reel's buzz potential.",
		},
	},
}

// NewGeminiClient creates a Gemini client for structured scoring.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiClient{
		client: client,
		model:  model,
		config: &genai.GenerateContentConfig{
			ResponseMIMEType:   "application/json",
			ResponseJsonSchema: buzzReportSchema,
		},
	}, nil
}

// ScoreJSON sends a scoring prompt and returns the raw JSON response text.
func (g *GeminiClient) ScoreJSON(ctx context.Context, prompt string) (string, error) {
	if err := waitLLMBudget(ctx); err != nil {
		return "", err
	}
	metrics.GeminiCalls.Add(1)
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.config)
	if err != nil {
		metrics.GeminiErrors.Add(1)
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	raw := stripFences(result.Text())
	if raw == "" {
		metrics.GeminiErrors.Add(1)
		return "", errors.New("gemini: empty response")
	}
	return raw, nil
}
