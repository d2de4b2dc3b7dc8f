package repository

import (
	"context"
	"fmt"
	"time"

	"golang-portfolio-advisor/internal/advisor/config"
	"golang-portfolio-advisor/pkg/logger"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// openaiAIRepository talks to any OpenAI compatible chat completion endpoint.
type openaiAIRepository struct {
	client         *openai.Client
	model          string
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

func NewOpenAIRepository(cfg *config.Config, log *logger.Logger) AIRepository {
	clientCfg := openai.DefaultConfig(cfg.OpenAI.APIKey)
	if cfg.OpenAI.BaseURL != "" {
		clientCfg.BaseURL = cfg.OpenAI.BaseURL
	}

	limit := rate.Inf
	if cfg.OpenAI.MaxRequestPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.OpenAI.MaxRequestPerMinute))
	}

	return &openaiAIRepository{
		client:         openai.NewClientWithConfig(clientCfg),
		model:          cfg.OpenAI.Model,
		logger:         log,
		requestLimiter: rate.NewLimiter(limit, 1),
	}
}

func (r *openaiAIRepository) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		r.logger.Error("failed to wait for request limit", logger.ErrorField(err))
		return "", fmt.Errorf("failed to wait for request limit: %w", err)
	}

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}

	r.logger.Debug("OpenAI usage",
		logger.IntField("prompt_tokens", resp.Usage.PromptTokens),
		logger.IntField("completion_tokens", resp.Usage.CompletionTokens),
	)
	return resp.Choices[0].Message.Content, nil
}
