package repository

import (
	"context"
	"fmt"

	"golang-portfolio-advisor/internal/advisor/config"
	"golang-portfolio-advisor/pkg/logger"

	"google.golang.org/genai"
)

// GenerateRequest is a single chat-style completion request.
type GenerateRequest struct {
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int
}

// AIRepository generates free text from a system instruction and a user prompt.
// The returned text is untrusted and may or may not contain the requested JSON.
type AIRepository interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// NewAIRepository builds the provider selected by ai.provider.
func NewAIRepository(ctx context.Context, cfg *config.Config, log *logger.Logger) (AIRepository, error) {
	switch cfg.AI.Provider {
	case "gemini":
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.Gemini.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		return NewGeminiAIRepository(cfg, log, client), nil
	case "openai", "":
		return NewOpenAIRepository(cfg, log), nil
	default:
		return nil, fmt.Errorf("unsupported ai provider %q", cfg.AI.Provider)
	}
}
