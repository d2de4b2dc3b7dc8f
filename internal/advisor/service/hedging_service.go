package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"golang-portfolio-advisor/internal/advisor/dto"
	"golang-portfolio-advisor/internal/advisor/repository"
	"golang-portfolio-advisor/internal/entity"
	"golang-portfolio-advisor/pkg/llmjson"
	"golang-portfolio-advisor/pkg/logger"
)

const (
	optionAdviceUnavailable = "Analysis unavailable"
	optionAdviceFailed      = "Unable to analyze at this time"
)

// HedgingService proposes option hedges for a portfolio and reviews held options.
type HedgingService interface {
	AnalyzeHedging(ctx context.Context, userID string) ([]dto.HedgingAnalysis, error)
	AnalyzeOption(ctx context.Context, userID, optionID string) (*dto.OptionAdvice, error)
}

type hedgingService struct {
	positionRepo    repository.PositionRepository
	optionRepo      repository.OptionRepository
	analysisLogRepo repository.AnalysisLogRepository
	aiRepo          repository.AIRepository
	now             func() time.Time
	logger          *logger.Logger
}

// NewHedgingService creates a hedging service. analysisLogRepo may be nil.
func NewHedgingService(
	positionRepo repository.PositionRepository,
	optionRepo repository.OptionRepository,
	analysisLogRepo repository.AnalysisLogRepository,
	aiRepo repository.AIRepository,
	log *logger.Logger,
) HedgingService {
	return &hedgingService{
		positionRepo:    positionRepo,
		optionRepo:      optionRepo,
		analysisLogRepo: analysisLogRepo,
		aiRepo:          aiRepo,
		now:             time.Now,
		logger:          log,
	}
}

func (s *hedgingService) AnalyzeHedging(ctx context.Context, userID string) ([]dto.HedgingAnalysis, error) {
	positions, err := s.positionRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load positions: %w", err)
	}
	if len(positions) == 0 {
		return []dto.HedgingAnalysis{}, nil
	}
	options, err := s.optionRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load options: %w", err)
	}

	raw, err := s.aiRepo.Generate(ctx, repository.GenerateRequest{
		System:      repository.SystemHedgingAnalyst,
		Prompt:      repository.BuildHedgingPrompt(positions, options),
		Temperature: 0.7,
		MaxTokens:   2000,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate hedging analysis: %w", err)
	}

	decoded := llmjson.DecodeObject[dto.AIHedgingResponse](raw)
	if !decoded.OK() {
		s.logger.WarnContext(ctx, "Discarding unparseable hedging analysis",
			logger.StringField("user_id", userID), logger.ErrorField(decoded.Cause))
		return []dto.HedgingAnalysis{}, nil
	}

	analyses := make([]dto.HedgingAnalysis, 0, len(decoded.Value.Analyses))
	for _, item := range decoded.Value.Analyses {
		analyses = append(analyses, sanitizeHedgingAnalysis(item))
	}

	if s.analysisLogRepo != nil {
		if err := s.analysisLogRepo.Append(ctx, userID, entity.AnalysisKindHedging, analyses); err != nil {
			s.logger.WarnContext(ctx, "Failed to store hedging analysis log", logger.ErrorField(err))
		}
	}
	return analyses, nil
}

func sanitizeHedgingAnalysis(item dto.AIHedgingAnalysis) dto.HedgingAnalysis {
	out := dto.HedgingAnalysis{
		StockID:         item.StockID,
		Symbol:          entity.NormalizeSymbol(item.Symbol),
		PortfolioRisk:   item.PortfolioRisk,
		OverallStrategy: item.OverallStrategy,
		Recommendations: make([]dto.HedgingRecommendation, 0, len(item.Recommendations)),
	}
	for _, rec := range item.Recommendations {
		strategy, err := entity.ParseStrategy(rec.Strategy)
		if err != nil {
			continue
		}
		optionType, err := entity.ParseOptionType(rec.OptionType)
		if err != nil {
			continue
		}
		expiryDays := int(math.Round(rec.ExpiryDays.Value))
		quantity := int(math.Round(rec.Quantity.Value))
		if !rec.StrikePrice.Valid || rec.StrikePrice.Value <= 0 ||
			!rec.ExpiryDays.Valid || expiryDays <= 0 ||
			!rec.Quantity.Valid || quantity <= 0 {
			continue
		}
		out.Recommendations = append(out.Recommendations, dto.HedgingRecommendation{
			Strategy:     strategy,
			OptionType:   optionType,
			StrikePrice:  rec.StrikePrice.Value,
			ExpiryDays:   expiryDays,
			Quantity:     quantity,
			Reasoning:    rec.Reasoning,
			RiskLevel:    entity.RiskLevelOrDefault(rec.RiskLevel),
			ExpectedCost: rec.ExpectedCost.Value,
		})
	}
	return out
}

func (s *hedgingService) AnalyzeOption(ctx context.Context, userID, optionID string) (*dto.OptionAdvice, error) {
	option, err := s.optionRepo.FindByID(ctx, optionID)
	if err != nil {
		return nil, translateNotFound(err)
	}
	if option.UserID != userID {
		return nil, ErrForbidden
	}

	related, err := s.relatedPosition(ctx, option)
	if err != nil {
		return nil, err
	}

	now := s.now()
	advice := s.adviseOption(ctx, *option, related, now)

	rec := advice.Recommendation
	reason := advice.Reason
	at := now.UTC()
	option.AIRecommendation = &rec
	option.AIReason = &reason
	option.LastAIAnalysis = &at
	if err := s.optionRepo.Update(ctx, option); err != nil {
		return nil, fmt.Errorf("failed to store option analysis: %w", err)
	}

	if s.analysisLogRepo != nil {
		if err := s.analysisLogRepo.Append(ctx, userID, entity.AnalysisKindOption, advice); err != nil {
			s.logger.WarnContext(ctx, "Failed to store option analysis log", logger.ErrorField(err))
		}
	}
	return &advice, nil
}

// relatedPosition prefers the linked position, then the user's first position on the same symbol.
func (s *hedgingService) relatedPosition(ctx context.Context, option *entity.Option) (*entity.Position, error) {
	if option.LinkedPositionID != nil {
		position, err := s.positionRepo.FindByID(ctx, *option.LinkedPositionID)
		if err == nil && position.UserID == option.UserID {
			return position, nil
		}
	}

	positions, err := s.positionRepo.FindByUserID(ctx, option.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load positions: %w", err)
	}
	for i := range positions {
		if positions[i].Symbol == option.UnderlyingSymbol {
			return &positions[i], nil
		}
	}
	return nil, nil
}

func (s *hedgingService) adviseOption(ctx context.Context, option entity.Option, related *entity.Position, now time.Time) dto.OptionAdvice {
	raw, err := s.aiRepo.Generate(ctx, repository.GenerateRequest{
		System:      repository.SystemOptionAnalyst,
		Prompt:      repository.BuildOptionPrompt(option, related, now),
		Temperature: 0.7,
		MaxTokens:   500,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to analyze option",
			logger.StringField("option_id", option.ID), logger.ErrorField(err))
		return dto.OptionAdvice{Recommendation: entity.OptionAdviceHold, Reason: optionAdviceFailed}
	}

	decoded := llmjson.DecodeObject[dto.AIOptionAdvice](raw)
	if !decoded.OK() {
		s.logger.WarnContext(ctx, "Discarding unparseable option analysis",
			logger.StringField("option_id", option.ID), logger.ErrorField(decoded.Cause))
		return dto.OptionAdvice{Recommendation: entity.OptionAdviceHold, Reason: optionAdviceFailed}
	}

	advice := dto.OptionAdvice{Recommendation: entity.OptionAdviceHold, Reason: decoded.Value.Reason}
	if rec, err := entity.ParseOptionAdvice(decoded.Value.Recommendation); err == nil {
		advice.Recommendation = rec
	}
	if strings.TrimSpace(advice.Reason) == "" {
		advice.Reason = optionAdviceUnavailable
	}
	return advice
}
