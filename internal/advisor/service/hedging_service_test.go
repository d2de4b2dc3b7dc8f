package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang-portfolio-advisor/internal/advisor/dto"
	"golang-portfolio-advisor/internal/advisor/repository"
	"golang-portfolio-advisor/internal/entity"
	"golang-portfolio-advisor/pkg/llmjson"
	"golang-portfolio-advisor/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type hedgingFixture struct {
	positionRepo repository.PositionRepository
	optionRepo   repository.OptionRepository
	logRepo      repository.AnalysisLogRepository
	ai           *mockAIRepository
	svc          HedgingService
}

func newHedgingFixture(t *testing.T) *hedgingFixture {
	t.Helper()
	db := newTestDB(t)
	f := &hedgingFixture{
		positionRepo: repository.NewPositionRepository(db),
		optionRepo:   repository.NewOptionRepository(db),
		logRepo:      repository.NewAnalysisLogRepository(db),
		ai:           &mockAIRepository{},
	}
	svc := NewHedgingService(f.positionRepo, f.optionRepo, f.logRepo, f.ai, logger.NewNop()).(*hedgingService)
	svc.now = func() time.Time { return time.Date(2025, 10, 1, 4, 30, 0, 0, time.UTC) }
	f.svc = svc
	return f
}

func (f *hedgingFixture) seedOption(t *testing.T, o entity.Option) *entity.Option {
	t.Helper()
	if o.OptionType == "" {
		o.OptionType = entity.OptionTypePut
	}
	if o.Quantity == 0 {
		o.Quantity = 1
	}
	o.StrikePrice = decimal.NewFromInt(3600)
	o.Premium = decimal.NewFromInt(40)
	o.ExpiryDate = time.Date(2025, 10, 28, 0, 0, 0, 0, time.UTC)
	require.NoError(t, f.optionRepo.Create(context.Background(), &o))
	return &o
}

func TestHedgingService_NoPositionsSkipsModel(t *testing.T) {
	f := newHedgingFixture(t)

	analyses, err := f.svc.AnalyzeHedging(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, analyses)
	f.ai.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestHedgingService_SanitizesProposals(t *testing.T) {
	f := newHedgingFixture(t)
	ctx := context.Background()
	seedPosition(t, f.positionRepo, entity.Position{UserID: "user-1", Symbol: "TCS.NS", CurrentPrice: price("3715")})

	f.ai.On("Generate", mock.Anything, mock.Anything).Return(`Here you go:
{"analyses":[{"stockId":"p1","symbol":"tcs.ns","portfolioRisk":"Medium","overallStrategy":"Protect gains",
"recommendations":[
 {"strategy":"Protective Put","optionType":"PUT","strikePrice":"3,600","expiryDays":"30","quantity":1,"reasoning":"Lock gains","riskLevel":"extreme","expectedCost":"₹45"},
 {"strategy":"butterfly","optionType":"call","strikePrice":3800,"expiryDays":30,"quantity":1,"riskLevel":"low"},
 {"strategy":"covered_call","optionType":"straddle","strikePrice":3800,"expiryDays":30,"quantity":1,"riskLevel":"low"}
]}]}`, nil)

	analyses, err := f.svc.AnalyzeHedging(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, analyses, 1)
	assert.Equal(t, "TCS.NS", analyses[0].Symbol)
	require.Len(t, analyses[0].Recommendations, 1)

	rec := analyses[0].Recommendations[0]
	assert.Equal(t, entity.StrategyProtectivePut, rec.Strategy)
	assert.Equal(t, entity.OptionTypePut, rec.OptionType)
	assert.Equal(t, 3600.0, rec.StrikePrice)
	assert.Equal(t, 30, rec.ExpiryDays)
	assert.Equal(t, entity.RiskMedium, rec.RiskLevel)
	assert.Equal(t, 45.0, rec.ExpectedCost)

	logs, err := f.logRepo.FindLatest(ctx, "user-1", 5)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.AnalysisKindHedging, logs[0].Kind)
}

func TestHedgingService_MalformedOutputIsEmpty(t *testing.T) {
	f := newHedgingFixture(t)
	seedPosition(t, f.positionRepo, entity.Position{UserID: "user-1", Symbol: "TCS.NS"})
	f.ai.On("Generate", mock.Anything, mock.Anything).Return(`{"analyses": [ oops`, nil)

	analyses, err := f.svc.AnalyzeHedging(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, analyses)
}

func TestHedgingService_AnalyzeOptionOwnership(t *testing.T) {
	f := newHedgingFixture(t)
	option := f.seedOption(t, entity.Option{UserID: "user-1", UnderlyingSymbol: "TCS.NS"})

	_, err := f.svc.AnalyzeOption(context.Background(), "user-2", option.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.AnalyzeOption(context.Background(), "user-1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	f.ai.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestHedgingService_AnalyzeOption(t *testing.T) {
	tests := []struct {
		name       string
		reply      string
		replyErr   error
		wantAdvice entity.OptionAdvice
		wantReason string
	}{
		{
			name:       "valid advice",
			reply:      `{"recommendation":"Close","reason":"Deep OTM with 3 days left."}`,
			wantAdvice: entity.OptionAdviceClose,
			wantReason: "Deep OTM with 3 days left.",
		},
		{
			name:       "provider failure",
			replyErr:   errors.New("timeout"),
			wantAdvice: entity.OptionAdviceHold,
			wantReason: "Unable to analyze at this time",
		},
		{
			name:       "no object",
			reply:      "no idea",
			wantAdvice: entity.OptionAdviceHold,
			wantReason: "Unable to analyze at this time",
		},
		{
			name:       "missing reason",
			reply:      `{"recommendation":"roll"}`,
			wantAdvice: entity.OptionAdviceRoll,
			wantReason: "Analysis unavailable",
		},
		{
			name:       "unknown recommendation",
			reply:      `{"recommendation":"exercise","reason":"Deep ITM."}`,
			wantAdvice: entity.OptionAdviceHold,
			wantReason: "Deep ITM.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHedgingFixture(t)
			ctx := context.Background()
			position := seedPosition(t, f.positionRepo, entity.Position{UserID: "user-1", Symbol: "TCS.NS", CurrentPrice: price("3715")})
			option := f.seedOption(t, entity.Option{UserID: "user-1", UnderlyingSymbol: "TCS.NS", LinkedPositionID: &position.ID})
			f.ai.On("Generate", mock.Anything, mock.Anything).Return(tt.reply, tt.replyErr)

			advice, err := f.svc.AnalyzeOption(ctx, "user-1", option.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAdvice, advice.Recommendation)
			assert.Equal(t, tt.wantReason, advice.Reason)

			stored, err := f.optionRepo.FindByID(ctx, option.ID)
			require.NoError(t, err)
			require.NotNil(t, stored.AIRecommendation)
			assert.Equal(t, tt.wantAdvice, *stored.AIRecommendation)
			require.NotNil(t, stored.AIReason)
			assert.Equal(t, tt.wantReason, *stored.AIReason)
			assert.NotNil(t, stored.LastAIAnalysis)
		})
	}
}

func TestSanitizeHedgingAnalysis_DropsIncompleteProposals(t *testing.T) {
	flex := func(v float64) llmjson.FlexFloat { return llmjson.FlexFloat{Value: v, Valid: true} }
	valid := dto.AIHedgingRecommendation{
		Strategy:    "protective_put",
		OptionType:  "put",
		StrikePrice: flex(3600),
		ExpiryDays:  flex(30),
		Quantity:    flex(1),
	}
	missingStrike := valid
	missingStrike.StrikePrice = llmjson.FlexFloat{}
	zeroQuantity := valid
	zeroQuantity.Quantity = flex(0)
	negativeExpiry := valid
	negativeExpiry.ExpiryDays = flex(-5)

	out := sanitizeHedgingAnalysis(dto.AIHedgingAnalysis{
		Symbol:          "TCS.NS",
		Recommendations: []dto.AIHedgingRecommendation{missingStrike, zeroQuantity, negativeExpiry, valid},
	})

	require.Len(t, out.Recommendations, 1)
	assert.Equal(t, 3600.0, out.Recommendations[0].StrikePrice)
	assert.Equal(t, 1, out.Recommendations[0].Quantity)
	assert.Equal(t, 30, out.Recommendations[0].ExpiryDays)
}
