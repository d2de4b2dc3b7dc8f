package dto

import (
	"golang-portfolio-advisor/internal/entity"
	"golang-portfolio-advisor/pkg/llmjson"
)

// AIHedgingResponse is the object the hedging prompt asks for.
type AIHedgingResponse struct {
	Analyses []AIHedgingAnalysis `json:"analyses"`
}

type AIHedgingAnalysis struct {
	StockID         string                    `json:"stockId"`
	Symbol          string                    `json:"symbol"`
	Recommendations []AIHedgingRecommendation `json:"recommendations"`
	PortfolioRisk   string                    `json:"portfolioRisk"`
	OverallStrategy string                    `json:"overallStrategy"`
}

type AIHedgingRecommendation struct {
	Strategy     string            `json:"strategy"`
	OptionType   string            `json:"optionType"`
	StrikePrice  llmjson.FlexFloat `json:"strikePrice"`
	ExpiryDays   llmjson.FlexFloat `json:"expiryDays"`
	Quantity     llmjson.FlexFloat `json:"quantity"`
	Reasoning    string            `json:"reasoning"`
	RiskLevel    string            `json:"riskLevel"`
	ExpectedCost llmjson.FlexFloat `json:"expectedCost"`
}

// HedgingAnalysis is the sanitized hedging view of one stock position.
type HedgingAnalysis struct {
	StockID         string                  `json:"stock_id"`
	Symbol          string                  `json:"symbol"`
	Recommendations []HedgingRecommendation `json:"recommendations"`
	PortfolioRisk   string                  `json:"portfolio_risk"`
	OverallStrategy string                  `json:"overall_strategy"`
}

type HedgingRecommendation struct {
	Strategy     entity.Strategy   `json:"strategy"`
	OptionType   entity.OptionType `json:"option_type"`
	StrikePrice  float64           `json:"strike_price"`
	ExpiryDays   int               `json:"expiry_days"`
	Quantity     int               `json:"quantity"`
	Reasoning    string            `json:"reasoning"`
	RiskLevel    entity.RiskLevel  `json:"risk_level"`
	ExpectedCost float64           `json:"expected_cost"`
}

// AIOptionAdvice is the single-option reply as the model wrote it.
type AIOptionAdvice struct {
	Recommendation string `json:"recommendation"`
	Reason         string `json:"reason"`
}

// OptionAdvice is the sanitized recommendation for one held option.
type OptionAdvice struct {
	Recommendation entity.OptionAdvice `json:"recommendation"`
	Reason         string              `json:"reason"`
}
