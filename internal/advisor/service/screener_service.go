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
	"golang-portfolio-advisor/pkg/common"
	"golang-portfolio-advisor/pkg/llmjson"
	"golang-portfolio-advisor/pkg/logger"

	"github.com/patrickmn/go-cache"
)

const (
	screenerCacheTTL          = 15 * time.Minute
	maxOptionsRecommendations = 10
	defaultHeadlineLimit      = 10
)

// popularNSESymbols are the liquid names priced into the options prompt.
var popularNSESymbols = []string{
	"RELIANCE.NS", "TCS.NS", "INFY.NS", "HDFCBANK.NS", "HINDUNILVR.NS",
	"ICICIBANK.NS", "SBIN.NS", "BHARTIARTL.NS", "ITC.NS", "WIPRO.NS",
}

// ScreenerService generates trade ideas that are priced against live quotes.
type ScreenerService interface {
	SwingTrades(ctx context.Context, marketCap string) ([]dto.SwingTrade, error)
	Multibaggers(ctx context.Context, marketCap string) ([]dto.Multibagger, error)
	OptionsRecommendations(ctx context.Context, params dto.OptionsRecommendationParams) ([]dto.OptionsRecommendation, error)
}

type screenerService struct {
	aiRepo        repository.AIRepository
	newsRepo      repository.NewsRepository
	quoteSvc      QuoteService
	inmemoryCache *cache.Cache
	headlineLimit int
	now           func() time.Time
	logger        *logger.Logger
}

// NewScreenerService creates a screener service. newsRepo may be nil.
func NewScreenerService(aiRepo repository.AIRepository, newsRepo repository.NewsRepository, quoteSvc QuoteService, headlineLimit int, log *logger.Logger) ScreenerService {
	if headlineLimit <= 0 {
		headlineLimit = defaultHeadlineLimit
	}
	return &screenerService{
		aiRepo:        aiRepo,
		newsRepo:      newsRepo,
		quoteSvc:      quoteSvc,
		inmemoryCache: cache.New(screenerCacheTTL, 2*screenerCacheTTL),
		headlineLimit: headlineLimit,
		now:           time.Now,
		logger:        log,
	}
}

func cacheKey(format, marketCap string) string {
	return fmt.Sprintf(format, strings.ToLower(strings.TrimSpace(marketCap)))
}

func (s *screenerService) SwingTrades(ctx context.Context, marketCap string) ([]dto.SwingTrade, error) {
	key := cacheKey(common.CacheKeySwingTrades, marketCap)
	if cached, ok := s.inmemoryCache.Get(key); ok {
		return cached.([]dto.SwingTrade), nil
	}

	raw, err := s.aiRepo.Generate(ctx, repository.GenerateRequest{
		System:      repository.SystemSwingTrader,
		Prompt:      repository.BuildSwingTradePrompt(marketCap),
		Temperature: 0.7,
		MaxTokens:   3000,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate swing trades: %w", err)
	}

	decoded := llmjson.DecodeArray[dto.AISwingTrade](raw)
	if !decoded.OK() {
		s.logger.WarnContext(ctx, "Discarding unparseable swing trades", logger.ErrorField(decoded.Cause))
	}

	candidates := make([]dto.AISwingTrade, 0, len(decoded.Value))
	symbols := make([]string, 0, len(decoded.Value))
	for _, item := range decoded.Value {
		item.Symbol = entity.NormalizeSymbol(item.Symbol)
		if !isIndianListing(item.Symbol) {
			continue
		}
		candidates = append(candidates, item)
		symbols = append(symbols, item.Symbol)
	}
	quotes := s.quoteSvc.GetQuotes(ctx, symbols)

	trades := make([]dto.SwingTrade, 0, len(candidates))
	for _, item := range candidates {
		quote, ok := quotes[item.Symbol]
		if !ok {
			continue
		}
		trade, ok := priceSwingTrade(item, quote.Price)
		if ok {
			trades = append(trades, trade)
		}
	}

	s.inmemoryCache.Set(key, trades, cache.DefaultExpiration)
	return trades, nil
}

// priceSwingTrade turns percentage targets into prices. Targets above 50% or stops above 20% are rejected.
func priceSwingTrade(item dto.AISwingTrade, current float64) (dto.SwingTrade, bool) {
	target := item.TargetPricePercent
	stop := item.StopLossPercent
	if !target.Valid || target.Value <= 0 || target.Value > 50 {
		return dto.SwingTrade{}, false
	}
	if !stop.Valid || stop.Value <= 0 || stop.Value > 20 {
		return dto.SwingTrade{}, false
	}

	return dto.SwingTrade{
		Symbol:       item.Symbol,
		Volatility:   entity.RiskLevelOrDefault(item.Volatility),
		CurrentPrice: round2(current),
		EntryPrice:   round2(current),
		TargetPrice:  round2(current * (1 + target.Value/100)),
		StopLoss:     round2(current * (1 - stop.Value/100)),
		Timeframe:    item.Timeframe,
		Reason:       item.Reason,
		RiskLevel:    entity.RiskLevelOrDefault(item.RiskLevel),
	}, true
}

func (s *screenerService) Multibaggers(ctx context.Context, marketCap string) ([]dto.Multibagger, error) {
	key := cacheKey(common.CacheKeyMultibaggers, marketCap)
	if cached, ok := s.inmemoryCache.Get(key); ok {
		return cached.([]dto.Multibagger), nil
	}

	raw, err := s.aiRepo.Generate(ctx, repository.GenerateRequest{
		System:      repository.SystemValueInvestor,
		Prompt:      repository.BuildMultibaggerPrompt(marketCap, s.headlines(ctx)),
		Temperature: 0.7,
		MaxTokens:   3000,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate multibaggers: %w", err)
	}

	decoded := llmjson.DecodeArray[dto.AIMultibagger](raw)
	if !decoded.OK() {
		s.logger.WarnContext(ctx, "Discarding unparseable multibaggers", logger.ErrorField(decoded.Cause))
	}

	candidates := make([]dto.AIMultibagger, 0, len(decoded.Value))
	symbols := make([]string, 0, len(decoded.Value))
	for _, item := range decoded.Value {
		item.Symbol = entity.NormalizeSymbol(item.Symbol)
		if !isIndianListing(item.Symbol) {
			continue
		}
		candidates = append(candidates, item)
		symbols = append(symbols, item.Symbol)
	}
	quotes := s.quoteSvc.GetQuotes(ctx, symbols)

	picks := make([]dto.Multibagger, 0, len(candidates))
	for _, item := range candidates {
		quote, ok := quotes[item.Symbol]
		if !ok {
			continue
		}
		multiple := item.TargetMultiple
		if !multiple.Valid || multiple.Value < 2 || multiple.Value > 20 {
			continue
		}
		picks = append(picks, dto.Multibagger{
			Symbol:           item.Symbol,
			CompanyName:      item.CompanyName,
			Sector:           item.Sector,
			CurrentPrice:     round2(quote.Price),
			TargetPrice5Year: round2(quote.Price * multiple.Value),
			ExpectedReturn:   item.ExpectedReturn,
			GrowthDrivers:    nonNil(item.GrowthDrivers),
			Risks:            nonNil(item.Risks),
			InvestmentThesis: item.InvestmentThesis,
			ConfidenceLevel:  entity.RiskLevelOrDefault(item.ConfidenceLevel),
		})
	}

	s.inmemoryCache.Set(key, picks, cache.DefaultExpiration)
	return picks, nil
}

func (s *screenerService) headlines(ctx context.Context) []dto.Headline {
	if s.newsRepo == nil {
		return nil
	}
	headlines, err := s.newsRepo.LatestHeadlines(ctx, s.headlineLimit)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to fetch market headlines", logger.ErrorField(err))
		return nil
	}
	return headlines
}

func (s *screenerService) OptionsRecommendations(ctx context.Context, params dto.OptionsRecommendationParams) ([]dto.OptionsRecommendation, error) {
	if params.RiskTolerance == "" {
		params.RiskTolerance = entity.RiskToleranceModerate
	}
	quotes := s.quoteSvc.GetQuotes(ctx, popularNSESymbols)

	raw, err := s.aiRepo.Generate(ctx, repository.GenerateRequest{
		System:      repository.SystemOptionsAdvisor,
		Prompt:      repository.BuildOptionsRecommendationPrompt(params, quotes, popularNSESymbols, s.now()),
		Temperature: 0.8,
		MaxTokens:   3000,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate options recommendations: %w", err)
	}

	decoded := llmjson.DecodeArray[dto.AIOptionsRecommendation](raw)
	if !decoded.OK() {
		s.logger.WarnContext(ctx, "Discarding unparseable options recommendations", logger.ErrorField(decoded.Cause))
	}

	recommendations := make([]dto.OptionsRecommendation, 0, len(decoded.Value))
	for _, item := range decoded.Value {
		if len(recommendations) == maxOptionsRecommendations {
			break
		}
		rec, ok := sanitizeOptionsRecommendation(item, quotes)
		if ok {
			recommendations = append(recommendations, rec)
		}
	}
	return recommendations, nil
}

func sanitizeOptionsRecommendation(item dto.AIOptionsRecommendation, quotes map[string]dto.Quote) (dto.OptionsRecommendation, bool) {
	strategy, err := entity.ParseStrategy(item.Strategy)
	if err != nil {
		return dto.OptionsRecommendation{}, false
	}

	legs := make([]dto.StrategyLeg, 0, len(item.Legs))
	for _, leg := range item.Legs {
		action, err := entity.ParseLegAction(leg.Action)
		if err != nil {
			continue
		}
		optionType, err := entity.ParseOptionType(leg.OptionType)
		if err != nil {
			continue
		}
		legs = append(legs, dto.StrategyLeg{
			Action:      action,
			OptionType:  optionType,
			StrikePrice: leg.StrikePrice.Value,
			Premium:     leg.Premium.Value,
			Quantity:    int(math.Round(leg.Quantity.Value)),
		})
	}
	if len(legs) == 0 {
		return dto.OptionsRecommendation{}, false
	}

	symbol := entity.NormalizeSymbol(item.StockSymbol)
	current := item.CurrentPrice.Value
	if quote, ok := quotes[symbol]; ok {
		current = quote.Price
	}

	return dto.OptionsRecommendation{
		StockSymbol:   symbol,
		StockName:     item.StockName,
		CurrentPrice:  round2(current),
		ExpiryDate:    item.ExpiryDate,
		Strategy:      strategy,
		Legs:          legs,
		Reasoning:     item.Reasoning,
		RiskLevel:     entity.RiskLevelOrDefault(item.RiskLevel),
		TargetProfit:  item.TargetProfit,
		MaxLoss:       item.MaxLoss,
		NetCost:       item.NetCost.Value,
		MarketOutlook: item.MarketOutlook,
	}, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
