package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang-portfolio-advisor/internal/advisor/config"
	"golang-portfolio-advisor/internal/advisor/dto"
	"golang-portfolio-advisor/pkg/logger"

	"golang.org/x/time/rate"
)

// ErrNoQuote means the provider had no usable price for the symbol.
var ErrNoQuote = errors.New("no quote available")

// YahooFinanceRepository fetches quotes from the Yahoo chart API.
type YahooFinanceRepository interface {
	GetQuote(ctx context.Context, symbol string) (*dto.Quote, error)
}

type yahooFinanceRepository struct {
	client         *http.Client
	baseURL        string
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

// NewYahooFinanceRepository creates a Yahoo quote repository.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger) YahooFinanceRepository {
	limit := rate.Inf
	if cfg.YahooFinance.MaxRequestPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.YahooFinance.MaxRequestPerMinute))
	}
	timeout := cfg.YahooFinance.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &yahooFinanceRepository{
		client:         &http.Client{Timeout: timeout},
		baseURL:        strings.TrimRight(cfg.YahooFinance.BaseURL, "/"),
		logger:         log,
		requestLimiter: rate.NewLimiter(limit, 1),
	}
}

func (r *yahooFinanceRepository) GetQuote(ctx context.Context, symbol string) (*dto.Quote, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	apiURL := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", r.baseURL, url.PathEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request quote for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: yahoo returned %d for %s: %s", ErrNoQuote, resp.StatusCode, symbol, string(body))
	}

	var chart dto.YahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("%w: malformed payload for %s: %v", ErrNoQuote, symbol, err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrNoQuote, chart.Chart.Error.Code, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: empty result for %s", ErrNoQuote, symbol)
	}

	meta := chart.Chart.Result[0].Meta
	if meta.RegularMarketPrice <= 0 {
		return nil, fmt.Errorf("%w: no market price for %s", ErrNoQuote, symbol)
	}

	previousClose := meta.PreviousClose
	if previousClose == 0 {
		previousClose = meta.ChartPreviousClose
	}

	quote := &dto.Quote{Symbol: symbol, Price: meta.RegularMarketPrice}
	if previousClose > 0 {
		quote.Change = meta.RegularMarketPrice - previousClose
		quote.ChangePercent = quote.Change / previousClose * 100
	}
	return quote, nil
}
