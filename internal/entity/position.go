package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Position is a user's stock holding.
type Position struct {
	ID              string              `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID          string              `gorm:"type:varchar(128);not null;index" json:"user_id"`
	Symbol          string              `gorm:"type:varchar(32);not null" json:"symbol"`
	Quantity        int                 `gorm:"not null" json:"quantity"`
	BuyPrice        decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"buy_price"`
	TargetSellPrice decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"target_sell_price"`
	TargetBuyPrice  decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"target_buy_price"`
	CurrentPrice    decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"current_price"`
	AIAction        *Action             `gorm:"column:ai_action;type:varchar(8)" json:"ai_action"`
	AIReason        *string             `gorm:"column:ai_reason;type:text" json:"ai_reason"`
	AITargetPrice   decimal.NullDecimal `gorm:"column:ai_target_price;type:decimal(12,2)" json:"ai_target_price"`
	LastPriceUpdate *time.Time          `json:"last_price_update"`
	LastAIAnalysis  *time.Time          `gorm:"column:last_ai_analysis" json:"last_ai_analysis"`
	CreatedAt       time.Time           `gorm:"autoCreateTime" json:"created_at"`
}

func (Position) TableName() string {
	return "positions"
}

func (p *Position) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.Symbol = NormalizeSymbol(p.Symbol)
	return nil
}

// ProfitLossPercent is the unrealized return against the buy price, zero while no price is known.
func (p Position) ProfitLossPercent() float64 {
	if !p.CurrentPrice.Valid || p.BuyPrice.IsZero() {
		return 0
	}
	pct, _ := p.CurrentPrice.Decimal.Sub(p.BuyPrice).Div(p.BuyPrice).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}

// MarketValue uses the current price when known, otherwise the buy price.
func (p Position) MarketValue() decimal.Decimal {
	price := p.BuyPrice
	if p.CurrentPrice.Valid {
		price = p.CurrentPrice.Decimal
	}
	return price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// NormalizeSymbol trims and upper-cases a ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
