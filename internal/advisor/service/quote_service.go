package service

import (
	"context"
	"sync"

	"golang-portfolio-advisor/internal/advisor/dto"
	"golang-portfolio-advisor/internal/advisor/repository"
	"golang-portfolio-advisor/internal/entity"
	"golang-portfolio-advisor/pkg/logger"
)

// QuoteService defines the interface for best-effort quote lookups.
type QuoteService interface {
	// GetQuote returns false when no usable quote exists.
	GetQuote(ctx context.Context, symbol string) (*dto.Quote, bool)
	// GetQuotes fetches all symbols concurrently. Only resolved symbols appear in the result.
	GetQuotes(ctx context.Context, symbols []string) map[string]dto.Quote
	// GetCachedQuote serves the last cached quote, falling back to a live lookup.
	GetCachedQuote(ctx context.Context, symbol string) (*dto.Quote, bool)
}

type quoteService struct {
	yahooRepo  repository.YahooFinanceRepository
	priceCache repository.PriceCacheRepository
	logger     *logger.Logger
}

// NewQuoteService creates a quote service. priceCache may be nil.
func NewQuoteService(yahooRepo repository.YahooFinanceRepository, priceCache repository.PriceCacheRepository, log *logger.Logger) QuoteService {
	return &quoteService{yahooRepo: yahooRepo, priceCache: priceCache, logger: log}
}

func (s *quoteService) GetQuote(ctx context.Context, symbol string) (*dto.Quote, bool) {
	quote, err := s.yahooRepo.GetQuote(ctx, symbol)
	if err != nil || quote == nil {
		s.logger.DebugContext(ctx, "Quote unavailable", logger.StringField("symbol", symbol), logger.ErrorField(err))
		return nil, false
	}

	if s.priceCache != nil {
		if err := s.priceCache.Set(ctx, *quote); err != nil {
			s.logger.WarnContext(ctx, "Failed to cache last price", logger.StringField("symbol", symbol), logger.ErrorField(err))
		}
	}
	return quote, true
}

func (s *quoteService) GetQuotes(ctx context.Context, symbols []string) map[string]dto.Quote {
	unique := make(map[string]struct{}, len(symbols))
	for _, symbol := range symbols {
		unique[symbol] = struct{}{}
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		quotes = make(map[string]dto.Quote, len(unique))
	)
	for symbol := range unique {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					s.logger.ErrorContext(ctx, "Panic while fetching quote", logger.StringField("symbol", symbol), logger.Field("panic", r))
				}
			}()

			quote, ok := s.GetQuote(ctx, symbol)
			if !ok {
				return
			}
			mu.Lock()
			quotes[symbol] = *quote
			mu.Unlock()
		}(symbol)
	}
	wg.Wait()

	return quotes
}

func (s *quoteService) GetCachedQuote(ctx context.Context, symbol string) (*dto.Quote, bool) {
	symbol = entity.NormalizeSymbol(symbol)
	if s.priceCache != nil {
		cached, err := s.priceCache.Get(ctx, symbol)
		if err != nil {
			s.logger.WarnContext(ctx, "Failed to read cached price", logger.StringField("symbol", symbol), logger.ErrorField(err))
		}
		if cached != nil {
			return cached, true
		}
	}
	return s.GetQuote(ctx, symbol)
}
