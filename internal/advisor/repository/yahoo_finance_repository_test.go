package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang-portfolio-advisor/internal/advisor/config"
	"golang-portfolio-advisor/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newYahooTestRepo(t *testing.T, handler http.HandlerFunc) YahooFinanceRepository {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.YahooFinance.BaseURL = srv.URL
	return NewYahooFinanceRepository(cfg, logger.NewNop())
}

func TestYahooFinanceRepository_GetQuote(t *testing.T) {
	repo := newYahooTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/TCS.NS", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.Equal(t, "1d", r.URL.Query().Get("range"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"chart":{"result":[{"meta":{"symbol":"TCS.NS","regularMarketPrice":3715.0,"previousClose":3700.0}}],"error":null}}`))
	})

	quote, err := repo.GetQuote(context.Background(), "TCS.NS")
	require.NoError(t, err)
	assert.Equal(t, 3715.0, quote.Price)
	assert.InDelta(t, 15.0, quote.Change, 1e-9)
	assert.InDelta(t, 0.405405, quote.ChangePercent, 1e-5)
}

func TestYahooFinanceRepository_FallsBackToChartPreviousClose(t *testing.T) {
	repo := newYahooTestRepo(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"chart":{"result":[{"meta":{"regularMarketPrice":110,"chartPreviousClose":100}}]}}`))
	})

	quote, err := repo.GetQuote(context.Background(), "INFY.NS")
	require.NoError(t, err)
	assert.InDelta(t, 10.0, quote.ChangePercent, 1e-9)
}

func TestYahooFinanceRepository_NoQuote(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"non 200": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		},
		"malformed": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		},
		"empty result": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"chart":{"result":[]}}`))
		},
		"zero price": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"chart":{"result":[{"meta":{"regularMarketPrice":0}}]}}`))
		},
		"provider error": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
		},
	}

	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			repo := newYahooTestRepo(t, handler)
			quote, err := repo.GetQuote(context.Background(), "BAD.NS")
			assert.Nil(t, quote)
			assert.ErrorIs(t, err, ErrNoQuote)
		})
	}
}
