package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ErrorResponse represents a generic error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type CreatePositionRequest struct {
	Symbol          string           `json:"symbol" validate:"required,max=32"`
	Quantity        int              `json:"quantity" validate:"required,gt=0"`
	BuyPrice        decimal.Decimal  `json:"buy_price"`
	TargetSellPrice *decimal.Decimal `json:"target_sell_price"`
	TargetBuyPrice  *decimal.Decimal `json:"target_buy_price"`
}

// UpdatePositionRequest carries user-editable fields. A nil field is left unchanged.
type UpdatePositionRequest struct {
	Quantity        *int             `json:"quantity" validate:"omitempty,gt=0"`
	BuyPrice        *decimal.Decimal `json:"buy_price"`
	TargetSellPrice *decimal.Decimal `json:"target_sell_price"`
	TargetBuyPrice  *decimal.Decimal `json:"target_buy_price"`
}

type CreateOptionRequest struct {
	UnderlyingSymbol string              `json:"underlying_symbol" validate:"required,max=32"`
	OptionType       string              `json:"option_type" validate:"required"`
	StrikePrice      decimal.Decimal     `json:"strike_price"`
	ExpiryDate       time.Time           `json:"expiry_date"`
	Quantity         int                 `json:"quantity" validate:"required,gt=0"`
	Premium          decimal.Decimal     `json:"premium"`
	CurrentPrice     decimal.NullDecimal `json:"current_price"`
	Strategy         *string             `json:"strategy"`
	LinkedPositionID *string             `json:"linked_position_id"`
}

type UpdateOptionRequest struct {
	Quantity         *int             `json:"quantity" validate:"omitempty,gt=0"`
	Premium          *decimal.Decimal `json:"premium"`
	CurrentPrice     *decimal.Decimal `json:"current_price"`
	ExpiryDate       *time.Time       `json:"expiry_date"`
	Strategy         *string          `json:"strategy"`
	LinkedPositionID *string          `json:"linked_position_id"`
}

type ScreenerRequest struct {
	MarketCap string `json:"market_cap" validate:"omitempty,max=64"`
}

type OptionsRecommendationsQuery struct {
	Budget             float64 `query:"budget" validate:"gte=0"`
	RiskTolerance      string  `query:"riskTolerance"`
	StrategyPreference string  `query:"strategyPreference"`
}
