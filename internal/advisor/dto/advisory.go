package dto

import (
	"golang-portfolio-advisor/internal/entity"
	"golang-portfolio-advisor/pkg/llmjson"

	"github.com/shopspring/decimal"
)

// PortfolioPromptItem is one position as presented to the model.
type PortfolioPromptItem struct {
	Symbol            string  `json:"symbol"`
	Quantity          int     `json:"quantity"`
	BuyPrice          float64 `json:"buyPrice"`
	CurrentPrice      float64 `json:"currentPrice"`
	ProfitLossPercent float64 `json:"profitLossPercent"`
}

// AIRecommendation is a recommendation exactly as the model wrote it.
type AIRecommendation struct {
	Symbol      string            `json:"symbol"`
	Action      string            `json:"action"`
	TargetPrice llmjson.FlexFloat `json:"targetPrice"`
	Reason      string            `json:"reason"`
}

// Recommendation is a sanitized per-symbol guidance entry.
type Recommendation struct {
	Symbol      string              `json:"symbol"`
	Action      entity.Action       `json:"action"`
	TargetPrice decimal.NullDecimal `json:"target_price"`
	Reason      string              `json:"reason"`
}

// AlertCheck is the outcome of evaluating one position against its targets.
type AlertCheck struct {
	Trigger     bool             `json:"trigger"`
	Message     string           `json:"message"`
	Type        entity.AlertType `json:"type"`
	TargetPrice decimal.Decimal  `json:"target_price"`
}

// AnalyzeResult is returned by a user-scoped refresh and analysis run.
type AnalyzeResult struct {
	Positions       []entity.Position `json:"stocks"`
	Recommendations []Recommendation  `json:"recommendations"`
	AlertsCreated   int               `json:"alerts_created"`
}
