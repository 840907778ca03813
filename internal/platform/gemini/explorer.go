package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mcollier/waypoint-api/internal/config"
	"github.com/mcollier/waypoint-api/internal/generation"
	"google.golang.org/genai"
)

// Explorer implements the generation.Explorer interface using Google's
// Gemini API. It performs a single model call per request; retrying is the
// task queue's responsibility.
type Explorer struct {
	logger *slog.Logger
	client *genai.Client
	model  string
}

// NewExplorer creates a new Explorer with the provided dependencies.
func NewExplorer(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Explorer, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &Explorer{
		logger: logger.With("component", "gemini_explorer"),
		client: client,
		model:  cfg.ModelName,
	}, nil
}

// Explore generates exploration content for the given request.
//
// Transport failures are surfaced as generation.ErrTransientFailure so the
// task queue retries them; safety blocks and malformed responses are
// permanent and wrapped accordingly.
func (e *Explorer) Explore(ctx context.Context, req generation.Request) (*generation.Result, error) {
	prompt, err := buildPrompt(req.Kind, req.Passage)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidConfig, err)
	}

	e.logger.DebugContext(ctx, "calling Gemini",
		"model", e.model,
		"kind", req.Kind,
		"prompt_length", len(prompt))

	resp, err := e.client.Models.GenerateContent(ctx, e.model, genai.Text(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}

	content, err := extractText(resp)
	if err != nil {
		return nil, err
	}

	e.logger.DebugContext(ctx, "Gemini call succeeded",
		"model", e.model,
		"content_length", len(content))

	return &generation.Result{
		Content: content,
		Model:   e.model,
	}, nil
}

// extractText pulls the generated prose out of the API response and
// classifies empty or blocked responses.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: finish reason safety", generation.ErrContentBlocked)
	}
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		sb.WriteString(part.Text)
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("%w: response contained no text", generation.ErrInvalidResponse)
	}
	return text, nil
}

// statically assert the interface is satisfied
var _ generation.Explorer = (*Explorer)(nil)
