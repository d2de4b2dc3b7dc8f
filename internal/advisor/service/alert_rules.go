package service

import (
	"fmt"
	"strings"

	"golang-portfolio-advisor/internal/advisor/dto"
	"golang-portfolio-advisor/internal/entity"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const (
	DefaultProximityThreshold = 0.005
	DefaultCurrency           = money.INR
)

// AlertRules decides when a price is close enough to a target to alert.
type AlertRules struct {
	Threshold decimal.Decimal
	Currency  string
}

func DefaultAlertRules() AlertRules {
	return NewAlertRules(DefaultProximityThreshold, DefaultCurrency)
}

// NewAlertRules falls back to the defaults for a non-positive threshold or an unknown currency.
func NewAlertRules(threshold float64, currency string) AlertRules {
	if threshold <= 0 {
		threshold = DefaultProximityThreshold
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if cur := money.New(0, currency).Currency(); currency == "" || cur == nil || cur.Template == "" {
		currency = DefaultCurrency
	}
	return AlertRules{Threshold: decimal.NewFromFloat(threshold), Currency: currency}
}

// DeriveAlert evaluates a position with the default rules.
func DeriveAlert(position entity.Position) dto.AlertCheck {
	return DefaultAlertRules().Derive(position)
}

// Derive checks the AI target, then the sell target, then the buy target and reports
// the first one within the threshold. It never evaluates later targets once one matches.
func (r AlertRules) Derive(position entity.Position) dto.AlertCheck {
	noAlert := dto.AlertCheck{Type: entity.AlertTypeInfo}
	if !position.CurrentPrice.Valid {
		return noAlert
	}
	current := position.CurrentPrice.Decimal

	if position.AITargetPrice.Valid && position.AIAction != nil {
		target := position.AITargetPrice.Decimal
		if r.within(current, target) {
			reason := "Review position"
			if position.AIReason != nil && *position.AIReason != "" {
				reason = *position.AIReason
			}
			return dto.AlertCheck{
				Trigger:     true,
				Message:     fmt.Sprintf("Stock is near %s (%s Target). AI Suggests: %s", r.format(target), *position.AIAction, reason),
				Type:        position.AIAction.AlertType(),
				TargetPrice: target,
			}
		}
	}

	if position.TargetSellPrice.Valid {
		target := position.TargetSellPrice.Decimal
		if r.within(current, target) {
			return dto.AlertCheck{
				Trigger:     true,
				Message:     fmt.Sprintf("Stock approaching your sell target of %s. Consider taking profits.", r.format(target)),
				Type:        entity.AlertTypeSell,
				TargetPrice: target,
			}
		}
	}

	if position.TargetBuyPrice.Valid {
		target := position.TargetBuyPrice.Decimal
		if r.within(current, target) {
			return dto.AlertCheck{
				Trigger:     true,
				Message:     fmt.Sprintf("Stock approaching your buy target of %s. Consider adding to position.", r.format(target)),
				Type:        entity.AlertTypeBuy,
				TargetPrice: target,
			}
		}
	}

	return noAlert
}

func (r AlertRules) within(current, target decimal.Decimal) bool {
	if !target.IsPositive() {
		return false
	}
	return current.Sub(target).Abs().Div(target).LessThanOrEqual(r.Threshold)
}

func (r AlertRules) format(amount decimal.Decimal) string {
	return FormatMoney(amount, r.Currency)
}

// FormatMoney renders an amount with currency symbol and grouping, e.g. ₹3,720.00.
func FormatMoney(amount decimal.Decimal, currency string) string {
	minor := amount.Shift(2).Round(0).IntPart()
	return money.New(minor, currency).Display()
}
