package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Option is a held options contract.
type Option struct {
	ID               string              `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID           string              `gorm:"type:varchar(128);not null;index" json:"user_id"`
	UnderlyingSymbol string              `gorm:"type:varchar(32);not null" json:"underlying_symbol"`
	OptionType       OptionType          `gorm:"type:varchar(4);not null" json:"option_type"`
	StrikePrice      decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"strike_price"`
	ExpiryDate       time.Time           `gorm:"not null" json:"expiry_date"`
	Quantity         int                 `gorm:"not null" json:"quantity"`
	Premium          decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"premium"`
	CurrentPrice     decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"current_price"`
	Strategy         *Strategy           `gorm:"type:varchar(32)" json:"strategy"`
	LinkedPositionID *string             `gorm:"type:varchar(36);index" json:"linked_position_id"`
	AIRecommendation *OptionAdvice       `gorm:"column:ai_recommendation;type:varchar(8)" json:"ai_recommendation"`
	AIReason         *string             `gorm:"column:ai_reason;type:text" json:"ai_reason"`
	LastPriceUpdate  *time.Time          `json:"last_price_update"`
	LastAIAnalysis   *time.Time          `gorm:"column:last_ai_analysis" json:"last_ai_analysis"`
	CreatedAt        time.Time           `gorm:"autoCreateTime" json:"created_at"`
}

func (Option) TableName() string {
	return "options"
}

func (o *Option) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	o.UnderlyingSymbol = NormalizeSymbol(o.UnderlyingSymbol)
	return nil
}

// ProfitLossPercent compares the current price with the premium paid, zero while no price is known.
func (o Option) ProfitLossPercent() float64 {
	if !o.CurrentPrice.Valid || o.Premium.IsZero() {
		return 0
	}
	pct, _ := o.CurrentPrice.Decimal.Sub(o.Premium).Div(o.Premium).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}

// StrategyOrStandalone returns the tagged strategy, defaulting to standalone.
func (o Option) StrategyOrStandalone() Strategy {
	if o.Strategy == nil {
		return StrategyStandalone
	}
	return *o.Strategy
}
