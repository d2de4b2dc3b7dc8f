package service

import (
	"testing"

	"golang-portfolio-advisor/internal/entity"
	"golang-portfolio-advisor/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDeriveAlert(t *testing.T) {
	sell := entity.ActionSell
	hold := entity.ActionHold

	tests := []struct {
		name        string
		position    entity.Position
		wantTrigger bool
		wantType    entity.AlertType
		wantTarget  string
		wantMessage string
	}{
		{
			name:     "no current price",
			position: entity.Position{TargetSellPrice: price("3720")},
			wantType: entity.AlertTypeInfo,
		},
		{
			name: "sell target within threshold",
			position: entity.Position{
				CurrentPrice:    price("3705"),
				TargetSellPrice: price("3720"),
			},
			wantTrigger: true,
			wantType:    entity.AlertTypeSell,
			wantTarget:  "3720",
			wantMessage: "Stock approaching your sell target of ₹3,720.00. Consider taking profits.",
		},
		{
			name: "sell target just outside threshold",
			position: entity.Position{
				CurrentPrice:    price("3700"),
				TargetSellPrice: price("3720"),
			},
			wantType: entity.AlertTypeInfo,
		},
		{
			name: "buy target within threshold",
			position: entity.Position{
				CurrentPrice:   price("1010"),
				TargetBuyPrice: price("1005"),
			},
			wantTrigger: true,
			wantType:    entity.AlertTypeBuy,
			wantTarget:  "1005",
			wantMessage: "Stock approaching your buy target of ₹1,005.00. Consider adding to position.",
		},
		{
			name: "AI target wins over sell target",
			position: entity.Position{
				CurrentPrice:    price("3715"),
				TargetSellPrice: price("3720"),
				AITargetPrice:   price("3720"),
				AIAction:        &sell,
				AIReason:        utils.ToPointer("Near resistance"),
			},
			wantTrigger: true,
			wantType:    entity.AlertTypeSell,
			wantTarget:  "3720",
			wantMessage: "Stock is near ₹3,720.00 (Sell Target). AI Suggests: Near resistance",
		},
		{
			name: "AI hold with empty reason",
			position: entity.Position{
				CurrentPrice:  price("500"),
				AITargetPrice: price("501"),
				AIAction:      &hold,
				AIReason:      utils.ToPointer(""),
			},
			wantTrigger: true,
			wantType:    entity.AlertTypeInfo,
			wantTarget:  "501",
			wantMessage: "Stock is near ₹501.00 (Hold Target). AI Suggests: Review position",
		},
		{
			name: "AI target without action is ignored",
			position: entity.Position{
				CurrentPrice:   price("500"),
				AITargetPrice:  price("500"),
				TargetBuyPrice: price("400"),
			},
			wantType: entity.AlertTypeInfo,
		},
		{
			name: "AI target far away falls through to sell target",
			position: entity.Position{
				CurrentPrice:    price("3715"),
				TargetSellPrice: price("3720"),
				AITargetPrice:   price("4000"),
				AIAction:        &sell,
			},
			wantTrigger: true,
			wantType:    entity.AlertTypeSell,
			wantTarget:  "3720",
			wantMessage: "Stock approaching your sell target of ₹3,720.00. Consider taking profits.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveAlert(tt.position)
			assert.Equal(t, tt.wantTrigger, got.Trigger)
			assert.Equal(t, tt.wantType, got.Type)
			if tt.wantTrigger {
				assert.True(t, decimal.RequireFromString(tt.wantTarget).Equal(got.TargetPrice))
				assert.Equal(t, tt.wantMessage, got.Message)
			}
		})
	}
}

func TestNewAlertRules_Fallbacks(t *testing.T) {
	rules := NewAlertRules(0, "nope")
	assert.Equal(t, DefaultCurrency, rules.Currency)
	assert.True(t, decimal.NewFromFloat(DefaultProximityThreshold).Equal(rules.Threshold))

	wide := NewAlertRules(0.02, "inr")
	check := wide.Derive(entity.Position{CurrentPrice: price("3650"), TargetSellPrice: price("3720")})
	assert.True(t, check.Trigger)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "₹3,720.00", FormatMoney(decimal.RequireFromString("3720"), "INR"))
	assert.Equal(t, "₹0.50", FormatMoney(decimal.RequireFromString("0.499"), "INR"))
}
