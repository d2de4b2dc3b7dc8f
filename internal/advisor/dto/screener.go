package dto

import (
	"golang-portfolio-advisor/internal/entity"
	"golang-portfolio-advisor/pkg/llmjson"
)

type AISwingTrade struct {
	Symbol             string            `json:"symbol"`
	Volatility         string            `json:"volatility"`
	TargetPricePercent llmjson.FlexFloat `json:"targetPricePercent"`
	StopLossPercent    llmjson.FlexFloat `json:"stopLossPercent"`
	Timeframe          string            `json:"timeframe"`
	Reason             string            `json:"reason"`
	RiskLevel          string            `json:"riskLevel"`
}

// SwingTrade is a short-term idea priced off the live quote.
type SwingTrade struct {
	Symbol       string           `json:"symbol"`
	Volatility   entity.RiskLevel `json:"volatility"`
	CurrentPrice float64          `json:"current_price"`
	EntryPrice   float64          `json:"entry_price"`
	TargetPrice  float64          `json:"target_price"`
	StopLoss     float64          `json:"stop_loss"`
	Timeframe    string           `json:"timeframe"`
	Reason       string           `json:"reason"`
	RiskLevel    entity.RiskLevel `json:"risk_level"`
}

type AIMultibagger struct {
	Symbol           string            `json:"symbol"`
	CompanyName      string            `json:"companyName"`
	Sector           string            `json:"sector"`
	TargetMultiple   llmjson.FlexFloat `json:"targetMultiple"`
	ExpectedReturn   string            `json:"expectedReturn"`
	GrowthDrivers    []string          `json:"growthDrivers"`
	Risks            []string          `json:"risks"`
	InvestmentThesis string            `json:"investmentThesis"`
	ConfidenceLevel  string            `json:"confidenceLevel"`
}

// Multibagger is a long-horizon pick priced off the live quote.
type Multibagger struct {
	Symbol           string           `json:"symbol"`
	CompanyName      string           `json:"company_name"`
	Sector           string           `json:"sector"`
	CurrentPrice     float64          `json:"current_price"`
	TargetPrice5Year float64          `json:"target_price_5_year"`
	ExpectedReturn   string           `json:"expected_return"`
	GrowthDrivers    []string         `json:"growth_drivers"`
	Risks            []string         `json:"risks"`
	InvestmentThesis string           `json:"investment_thesis"`
	ConfidenceLevel  entity.RiskLevel `json:"confidence_level"`
}

// OptionsRecommendationParams narrows the generated option trade ideas.
type OptionsRecommendationParams struct {
	Budget             float64
	RiskTolerance      entity.RiskTolerance
	StrategyPreference entity.StrategyPreference
}

type AIStrategyLeg struct {
	Action      string            `json:"action"`
	OptionType  string            `json:"optionType"`
	StrikePrice llmjson.FlexFloat `json:"strikePrice"`
	Premium     llmjson.FlexFloat `json:"premium"`
	Quantity    llmjson.FlexFloat `json:"quantity"`
}

type AIOptionsRecommendation struct {
	StockSymbol   string            `json:"stockSymbol"`
	StockName     string            `json:"stockName"`
	CurrentPrice  llmjson.FlexFloat `json:"currentPrice"`
	ExpiryDate    string            `json:"expiryDate"`
	Strategy      string            `json:"strategy"`
	Legs          []AIStrategyLeg   `json:"legs"`
	Reasoning     string            `json:"reasoning"`
	RiskLevel     string            `json:"riskLevel"`
	TargetProfit  string            `json:"targetProfit"`
	MaxLoss       string            `json:"maxLoss"`
	NetCost       llmjson.FlexFloat `json:"netCost"`
	MarketOutlook string            `json:"marketOutlook"`
}

type StrategyLeg struct {
	Action      entity.LegAction  `json:"action"`
	OptionType  entity.OptionType `json:"option_type"`
	StrikePrice float64           `json:"strike_price"`
	Premium     float64           `json:"premium"`
	Quantity    int               `json:"quantity"`
}

// OptionsRecommendation is a generated multi-leg trade idea.
type OptionsRecommendation struct {
	StockSymbol   string           `json:"stock_symbol"`
	StockName     string           `json:"stock_name"`
	CurrentPrice  float64          `json:"current_price"`
	ExpiryDate    string           `json:"expiry_date"`
	Strategy      entity.Strategy  `json:"strategy"`
	Legs          []StrategyLeg    `json:"legs"`
	Reasoning     string           `json:"reasoning"`
	RiskLevel     entity.RiskLevel `json:"risk_level"`
	TargetProfit  string           `json:"target_profit"`
	MaxLoss       string           `json:"max_loss"`
	NetCost       float64          `json:"net_cost"`
	MarketOutlook string           `json:"market_outlook"`
}

// Headline is a market news item used as prompt context.
type Headline struct {
	Title     string `json:"title"`
	Published string `json:"published"`
}
