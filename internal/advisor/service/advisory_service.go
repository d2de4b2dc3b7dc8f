package service

import (
	"context"
	"strings"

	"golang-portfolio-advisor/internal/advisor/dto"
	"golang-portfolio-advisor/internal/advisor/repository"
	"golang-portfolio-advisor/internal/entity"
	"golang-portfolio-advisor/pkg/llmjson"
	"golang-portfolio-advisor/pkg/logger"

	"github.com/shopspring/decimal"
)

const maxReasonRunes = 280

// AdvisoryService asks the text model for Buy/Sell/Hold guidance on positions.
type AdvisoryService interface {
	Analyze(ctx context.Context, positions []entity.Position) ([]dto.Recommendation, error)
}

type advisoryService struct {
	aiRepo repository.AIRepository
	logger *logger.Logger
}

func NewAdvisoryService(aiRepo repository.AIRepository, log *logger.Logger) AdvisoryService {
	return &advisoryService{aiRepo: aiRepo, logger: log}
}

// Analyze returns an empty result for malformed model output. An error is returned only
// when the model could not be reached.
func (s *advisoryService) Analyze(ctx context.Context, positions []entity.Position) ([]dto.Recommendation, error) {
	if len(positions) == 0 {
		return []dto.Recommendation{}, nil
	}

	raw, err := s.aiRepo.Generate(ctx, repository.GenerateRequest{
		System:      repository.SystemPortfolioAnalyst,
		Prompt:      repository.BuildPortfolioPrompt(positions),
		Temperature: 0.7,
		MaxTokens:   1000,
	})
	if err != nil {
		return []dto.Recommendation{}, err
	}

	decoded := llmjson.DecodeArray[dto.AIRecommendation](raw)
	if !decoded.OK() {
		s.logger.WarnContext(ctx, "Discarding unparseable portfolio analysis",
			logger.ErrorField(decoded.Cause), logger.StringField("response", truncate(raw, 500)))
		return []dto.Recommendation{}, nil
	}
	if decoded.Skipped > 0 {
		s.logger.WarnContext(ctx, "Dropped malformed recommendations", logger.IntField("count", decoded.Skipped))
	}

	recommendations := make([]dto.Recommendation, 0, len(decoded.Value))
	for _, item := range decoded.Value {
		rec, ok := s.sanitize(ctx, item)
		if ok {
			recommendations = append(recommendations, rec)
		}
	}
	return recommendations, nil
}

func (s *advisoryService) sanitize(ctx context.Context, item dto.AIRecommendation) (dto.Recommendation, bool) {
	symbol := entity.NormalizeSymbol(item.Symbol)
	if symbol == "" {
		return dto.Recommendation{}, false
	}
	action, err := entity.ParseAction(item.Action)
	if err != nil {
		s.logger.WarnContext(ctx, "Dropping recommendation with unknown action",
			logger.StringField("symbol", symbol), logger.ErrorField(err))
		return dto.Recommendation{}, false
	}

	rec := dto.Recommendation{
		Symbol: symbol,
		Action: action,
		Reason: truncate(strings.TrimSpace(item.Reason), maxReasonRunes),
	}
	if item.TargetPrice.Valid && item.TargetPrice.Value > 0 {
		rec.TargetPrice = decimal.NewNullDecimal(decimal.NewFromFloat(item.TargetPrice.Value).Round(2))
	}
	return rec, true
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
