package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"golang-portfolio-advisor/internal/advisor/dto"
	"golang-portfolio-advisor/internal/advisor/repository"
	"golang-portfolio-advisor/internal/entity"
	"golang-portfolio-advisor/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubNews struct {
	headlines []dto.Headline
	err       error
}

func (s stubNews) LatestHeadlines(context.Context, int) ([]dto.Headline, error) {
	return s.headlines, s.err
}

func newScreener(ai repository.AIRepository, news repository.NewsRepository, prices map[string]float64) ScreenerService {
	log := logger.NewNop()
	return NewScreenerService(ai, news, NewQuoteService(&fakeYahoo{prices: prices}, nil, log), 5, log)
}

func TestScreenerService_SwingTrades(t *testing.T) {
	ai := &mockAIRepository{}
	ai.On("Generate", mock.Anything, mock.Anything).Return(`[
		{"symbol":"SAIL.NS","volatility":"high","targetPricePercent":"8%","stopLossPercent":3,"timeframe":"3-5 days","reason":"Breakout","riskLevel":"high"},
		{"symbol":"AAPL","volatility":"high","targetPricePercent":5,"stopLossPercent":2,"riskLevel":"low"},
		{"symbol":"NOPRICE.NS","volatility":"medium","targetPricePercent":5,"stopLossPercent":2,"riskLevel":"low"},
		{"symbol":"TATAMOTORS.NS","volatility":"medium","targetPricePercent":75,"stopLossPercent":2,"riskLevel":"low"},
		{"symbol":"IRFC.BO","volatility":"wild","targetPricePercent":5,"stopLossPercent":25,"riskLevel":"low"}
	]`, nil).Once()
	svc := newScreener(ai, nil, map[string]float64{"SAIL.NS": 100, "TATAMOTORS.NS": 700, "IRFC.BO": 120, "AAPL": 200})
	ctx := context.Background()

	trades, err := svc.SwingTrades(ctx, "Small Cap")
	require.NoError(t, err)
	require.Len(t, trades, 1)

	trade := trades[0]
	assert.Equal(t, "SAIL.NS", trade.Symbol)
	assert.Equal(t, 100.0, trade.EntryPrice)
	assert.Equal(t, 108.0, trade.TargetPrice)
	assert.Equal(t, 97.0, trade.StopLoss)
	assert.Equal(t, entity.RiskHigh, trade.Volatility)

	cached, err := svc.SwingTrades(ctx, " small cap ")
	require.NoError(t, err)
	assert.Equal(t, trades, cached)
	ai.AssertNumberOfCalls(t, "Generate", 1)
}

func TestScreenerService_Multibaggers(t *testing.T) {
	ai := &mockAIRepository{}
	ai.On("Generate", mock.Anything, mock.MatchedBy(func(req repository.GenerateRequest) bool {
		return strings.Contains(req.Prompt, "RBI holds rates")
	})).Return(`[
		{"symbol":"DIXON.NS","companyName":"Dixon","sector":"Electronics","targetMultiple":"5x","confidenceLevel":"High","growthDrivers":["PLI"]},
		{"symbol":"TINY.NS","targetMultiple":1.5},
		{"symbol":"MOON.NS","targetMultiple":50}
	]`, nil).Once()
	news := stubNews{headlines: []dto.Headline{{Title: "RBI holds rates", Published: "01 Oct"}}}
	svc := newScreener(ai, news, map[string]float64{"DIXON.NS": 1000, "TINY.NS": 50, "MOON.NS": 10})

	picks, err := svc.Multibaggers(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, picks, 1)
	assert.Equal(t, "DIXON.NS", picks[0].Symbol)
	assert.Equal(t, 5000.0, picks[0].TargetPrice5Year)
	assert.Equal(t, entity.RiskHigh, picks[0].ConfidenceLevel)
	assert.Equal(t, []string{}, picks[0].Risks)
	ai.AssertExpectations(t)
}

func TestScreenerService_MultibaggersWithoutHeadlines(t *testing.T) {
	ai := &mockAIRepository{}
	ai.On("Generate", mock.Anything, mock.MatchedBy(func(req repository.GenerateRequest) bool {
		return !strings.Contains(req.Prompt, "Recent market headlines")
	})).Return(`not json`, nil).Once()
	svc := newScreener(ai, stubNews{err: fmt.Errorf("feed down")}, nil)

	picks, err := svc.Multibaggers(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, picks)
	ai.AssertExpectations(t)
}

func TestScreenerService_OptionsRecommendations(t *testing.T) {
	var items []string
	items = append(items,
		`{"stockSymbol":"INFY.NS","stockName":"Infosys","currentPrice":1400,"expiryDate":"2025-10-28","strategy":"Bear Put Spread",
		  "legs":[{"action":"buy","optionType":"put","strikePrice":1460,"premium":28,"quantity":2},
		          {"action":"sell","optionType":"put","strikePrice":1420,"premium":"12.5","quantity":2},
		          {"action":"hold","optionType":"put","strikePrice":1400,"premium":1,"quantity":1}],
		  "riskLevel":"moderate","netCost":31}`,
		`{"stockSymbol":"TCS.NS","strategy":"butterfly","legs":[{"action":"buy","optionType":"call","strikePrice":3800,"premium":10,"quantity":1}]}`,
		`{"stockSymbol":"SBIN.NS","strategy":"straddle","legs":[{"action":"buy","optionType":"future","strikePrice":800,"premium":10,"quantity":1}]}`,
	)
	for i := 0; i < 12; i++ {
		items = append(items, `{"stockSymbol":"ITC.NS","strategy":"covered_call","legs":[{"action":"sell","optionType":"call","strikePrice":460,"premium":5,"quantity":1}]}`)
	}

	ai := &mockAIRepository{}
	ai.On("Generate", mock.Anything, mock.MatchedBy(func(req repository.GenerateRequest) bool {
		return req.Temperature == 0.8 && req.MaxTokens == 3000 &&
			strings.Contains(req.Prompt, "INFY.NS: ₹1471.50") &&
			strings.Contains(req.Prompt, "Risk Tolerance: moderate")
	})).Return("["+strings.Join(items, ",")+"]", nil).Once()
	svc := newScreener(ai, nil, map[string]float64{"INFY.NS": 1471.5})

	recs, err := svc.OptionsRecommendations(context.Background(), dto.OptionsRecommendationParams{})
	require.NoError(t, err)
	require.Len(t, recs, maxOptionsRecommendations)
	ai.AssertExpectations(t)

	first := recs[0]
	assert.Equal(t, entity.StrategyBearPutSpread, first.Strategy)
	assert.Equal(t, 1471.5, first.CurrentPrice)
	require.Len(t, first.Legs, 2)
	assert.Equal(t, entity.LegSell, first.Legs[1].Action)
	assert.Equal(t, 12.5, first.Legs[1].Premium)
	assert.Equal(t, entity.RiskMedium, first.RiskLevel)

	for _, rec := range recs[1:] {
		assert.Equal(t, entity.StrategyCoveredCall, rec.Strategy)
	}
}
