package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/carelink-health/carelink/internal/models"
)

// ErrBadModelOutput marks a reply the model produced but we could not parse.
// Callers substitute a fallback rather than failing the whole request.
var ErrBadModelOutput = errors.New("unparseable model output")

type Client struct {
	client *openai.Client
	model  string
}

func New(apiKey, baseURL, model string) *Client {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (c *Client) SetModel(model string) {
	c.model = model
}

// JSON Schema for structured symptom analysis output
var symptomAnalysisSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"isValidSymptom": {
			"type": "boolean",
			"description": "False when the input does not describe genuine medical symptoms"
		},
		"possibleConditions": {
			"type": "array",
			"items": {"type": "string"},
			"description": "Most likely conditions given the symptoms and patient profile"
		},
		"severity": {
			"type": "string",
			"enum": ["low", "medium", "high", "emergency"],
			"description": "Assessed severity level"
		},
		"recommendations": {
			"type": "object",
			"properties": {
				"immediate": {"type": "array", "items": {"type": "string"}},
				"general": {"type": "array", "items": {"type": "string"}},
				"whenToSeekHelp": {"type": "string"}
			},
			"required": ["immediate", "general", "whenToSeekHelp"],
			"additionalProperties": false
		},
		"warningSigns": {
			"type": "array",
			"items": {"type": "string"},
			"description": "Signs that require immediate medical attention"
		},
		"disclaimer": {"type": "string"}
	},
	"required": ["isValidSymptom", "possibleConditions", "severity", "recommendations", "warningSigns", "disclaimer"],
	"additionalProperties": false
}`)

// AnalyzeSymptoms sends the assembled prompt and returns the structured
// analysis plus the raw model reply. A reply that cannot be decoded returns
// ErrBadModelOutput with the raw text still populated.
func (c *Client) AnalyzeSymptoms(ctx context.Context, prompt string) (*models.SymptomAnalysis, string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "symptom_analysis",
				Schema: symptomAnalysisSchema,
				Strict: true,
			},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to call AI API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, "", fmt.Errorf("no response from AI")
	}

	content := resp.Choices[0].Message.Content
	analysis := &models.SymptomAnalysis{}
	if err := json.Unmarshal([]byte(stripFences(content)), analysis); err != nil {
		return nil, content, fmt.Errorf("%w: %v", ErrBadModelOutput, err)
	}

	return analysis, content, nil
}

// GenerateHealthTips sends the category-shaped prompt and returns the model
// reply as raw JSON. The shape varies per category, so no schema is imposed
// beyond "a JSON object".
func (c *Client) GenerateHealthTips(ctx context.Context, prompt string) (json.RawMessage, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call AI API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from AI")
	}

	content := stripFences(resp.Choices[0].Message.Content)
	if !json.Valid([]byte(content)) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrBadModelOutput)
	}

	return json.RawMessage(content), nil
}

// stripFences removes markdown code fences some models wrap JSON in.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
