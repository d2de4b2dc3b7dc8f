package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang-portfolio-advisor/internal/advisor/dto"
	"golang-portfolio-advisor/internal/advisor/repository"
	"golang-portfolio-advisor/internal/entity"
	"golang-portfolio-advisor/pkg/logger"
)

// PortfolioService refreshes prices and runs the AI and alert steps for one user.
type PortfolioService interface {
	// RunForUser refreshes quotes, writes back AI guidance and records alerts.
	// A user without positions is a no-op.
	RunForUser(ctx context.Context, userID string) (*dto.AnalyzeResult, error)
	// RefreshPrices only refreshes quotes and returns the reloaded positions.
	RefreshPrices(ctx context.Context, userID string) ([]entity.Position, error)
}

type portfolioService struct {
	positionRepo    repository.PositionRepository
	analysisLogRepo repository.AnalysisLogRepository
	quoteSvc        QuoteService
	advisorySvc     AdvisoryService
	alertSvc        AlertService
	now             func() time.Time
	logger          *logger.Logger
}

// NewPortfolioService creates a portfolio service. analysisLogRepo may be nil.
func NewPortfolioService(
	positionRepo repository.PositionRepository,
	analysisLogRepo repository.AnalysisLogRepository,
	quoteSvc QuoteService,
	advisorySvc AdvisoryService,
	alertSvc AlertService,
	log *logger.Logger,
) PortfolioService {
	return &portfolioService{
		positionRepo:    positionRepo,
		analysisLogRepo: analysisLogRepo,
		quoteSvc:        quoteSvc,
		advisorySvc:     advisorySvc,
		alertSvc:        alertSvc,
		now:             time.Now,
		logger:          log,
	}
}

func (s *portfolioService) RefreshPrices(ctx context.Context, userID string) ([]entity.Position, error) {
	positions, err := s.positionRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load positions: %w", err)
	}
	if len(positions) == 0 {
		return positions, nil
	}

	if err := s.refresh(ctx, positions); err != nil {
		return nil, err
	}
	return s.reload(ctx, userID)
}

func (s *portfolioService) RunForUser(ctx context.Context, userID string) (*dto.AnalyzeResult, error) {
	ctx = logger.WithFields(ctx, logger.StringField("user_id", userID))

	positions, err := s.positionRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load positions: %w", err)
	}
	if len(positions) == 0 {
		return &dto.AnalyzeResult{Positions: []entity.Position{}, Recommendations: []dto.Recommendation{}}, nil
	}

	if err := s.refresh(ctx, positions); err != nil {
		return nil, err
	}

	positions, err = s.reload(ctx, userID)
	if err != nil {
		return nil, err
	}

	recommendations, err := s.advisorySvc.Analyze(ctx, positions)
	if err != nil {
		s.logger.ErrorContext(ctx, "Advisory step failed, keeping previous AI state", logger.ErrorField(err))
		recommendations = []dto.Recommendation{}
	}
	if err := s.applyRecommendations(ctx, positions, recommendations); err != nil {
		return nil, err
	}
	s.logAnalysis(ctx, userID, recommendations)

	positions, err = s.reload(ctx, userID)
	if err != nil {
		return nil, err
	}

	created, alertErr := s.evaluateAlerts(ctx, positions)

	final, err := s.reload(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &dto.AnalyzeResult{
		Positions:       final,
		Recommendations: recommendations,
		AlertsCreated:   created,
	}
	if alertErr != nil {
		return result, fmt.Errorf("failed to record alerts: %w", alertErr)
	}
	return result, nil
}

// refresh writes back prices for positions whose symbol resolved. Others keep their last known price.
func (s *portfolioService) refresh(ctx context.Context, positions []entity.Position) error {
	symbols := make([]string, 0, len(positions))
	for _, p := range positions {
		symbols = append(symbols, p.Symbol)
	}
	quotes := s.quoteSvc.GetQuotes(ctx, symbols)

	now := s.now().UTC()
	updated := 0
	for _, p := range positions {
		quote, ok := quotes[p.Symbol]
		if !ok {
			continue
		}
		price := decimalFromQuote(quote)
		if err := s.positionRepo.UpdatePrice(ctx, p.ID, price, now); err != nil {
			return fmt.Errorf("failed to update price for %s: %w", p.Symbol, err)
		}
		updated++
	}

	s.logger.DebugContext(ctx, "Prices refreshed",
		logger.IntField("positions", len(positions)),
		logger.IntField("quotes", len(quotes)),
		logger.IntField("updated", updated))
	return nil
}

func (s *portfolioService) applyRecommendations(ctx context.Context, positions []entity.Position, recommendations []dto.Recommendation) error {
	if len(recommendations) == 0 {
		return nil
	}

	bySymbol := make(map[string]dto.Recommendation, len(recommendations))
	for _, rec := range recommendations {
		if _, exists := bySymbol[rec.Symbol]; !exists {
			bySymbol[rec.Symbol] = rec
		}
	}

	now := s.now().UTC()
	for _, p := range positions {
		rec, ok := bySymbol[entity.NormalizeSymbol(p.Symbol)]
		if !ok {
			continue
		}
		if err := s.positionRepo.UpdateAIAnalysis(ctx, p.ID, rec.Action, rec.Reason, rec.TargetPrice, now); err != nil {
			return fmt.Errorf("failed to write AI analysis for %s: %w", p.Symbol, err)
		}
	}
	return nil
}

func (s *portfolioService) evaluateAlerts(ctx context.Context, positions []entity.Position) (int, error) {
	var (
		created int
		errs    []error
	)
	for _, p := range positions {
		check := s.alertSvc.Derive(p)
		if !check.Trigger {
			continue
		}
		ok, err := s.alertSvc.RecordIfNew(ctx, p, check)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Symbol, err))
			continue
		}
		if ok {
			created++
		}
	}
	return created, errors.Join(errs...)
}

func (s *portfolioService) logAnalysis(ctx context.Context, userID string, recommendations []dto.Recommendation) {
	if s.analysisLogRepo == nil || len(recommendations) == 0 {
		return
	}
	if err := s.analysisLogRepo.Append(ctx, userID, entity.AnalysisKindPortfolio, recommendations); err != nil {
		s.logger.WarnContext(ctx, "Failed to store analysis log", logger.ErrorField(err))
	}
}

func (s *portfolioService) reload(ctx context.Context, userID string) ([]entity.Position, error) {
	positions, err := s.positionRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload positions: %w", err)
	}
	return positions, nil
}
