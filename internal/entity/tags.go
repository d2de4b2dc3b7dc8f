package entity

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTag is returned when a tag value is outside its closed set.
var ErrUnknownTag = errors.New("unknown tag")

func normalizeTag(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

func unknown(kind, value string) error {
	return fmt.Errorf("%w: %s %q", ErrUnknownTag, kind, value)
}

// Action is the AI guidance for a position.
type Action string

const (
	ActionBuy  Action = "Buy"
	ActionSell Action = "Sell"
	ActionHold Action = "Hold"
)

// ParseAction accepts buy/sell/hold in any case.
func ParseAction(s string) (Action, error) {
	switch normalizeTag(s) {
	case "buy":
		return ActionBuy, nil
	case "sell":
		return ActionSell, nil
	case "hold":
		return ActionHold, nil
	}
	return "", unknown("action", s)
}

// AlertType maps the action onto the alert it produces. Hold yields info.
func (a Action) AlertType() AlertType {
	switch a {
	case ActionBuy:
		return AlertTypeBuy
	case ActionSell:
		return AlertTypeSell
	default:
		return AlertTypeInfo
	}
}

type AlertType string

const (
	AlertTypeBuy  AlertType = "buy"
	AlertTypeSell AlertType = "sell"
	AlertTypeInfo AlertType = "info"
)

type OptionType string

const (
	OptionTypeCall OptionType = "call"
	OptionTypePut  OptionType = "put"
)

func ParseOptionType(s string) (OptionType, error) {
	switch normalizeTag(s) {
	case "call", "ce":
		return OptionTypeCall, nil
	case "put", "pe":
		return OptionTypePut, nil
	}
	return "", unknown("option type", s)
}

// Strategy names a multi-leg options construction.
type Strategy string

const (
	StrategyProtectivePut  Strategy = "protective_put"
	StrategyCoveredCall    Strategy = "covered_call"
	StrategyCollar         Strategy = "collar"
	StrategyStraddle       Strategy = "straddle"
	StrategyStrangle       Strategy = "strangle"
	StrategyIronCondor     Strategy = "iron_condor"
	StrategyBullCallSpread Strategy = "bull_call_spread"
	StrategyBearPutSpread  Strategy = "bear_put_spread"
	StrategyStandalone     Strategy = "standalone"
)

var strategies = map[Strategy]struct{}{
	StrategyProtectivePut:  {},
	StrategyCoveredCall:    {},
	StrategyCollar:         {},
	StrategyStraddle:       {},
	StrategyStrangle:       {},
	StrategyIronCondor:     {},
	StrategyBullCallSpread: {},
	StrategyBearPutSpread:  {},
	StrategyStandalone:     {},
}

// ParseStrategy accepts the snake_case tag or its spaced/hyphenated spelling ("Iron Condor").
func ParseStrategy(s string) (Strategy, error) {
	st := Strategy(normalizeTag(s))
	if _, ok := strategies[st]; ok {
		return st, nil
	}
	return "", unknown("strategy", s)
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

func ParseRiskLevel(s string) (RiskLevel, error) {
	switch normalizeTag(s) {
	case "low":
		return RiskLow, nil
	case "medium", "moderate":
		return RiskMedium, nil
	case "high":
		return RiskHigh, nil
	}
	return "", unknown("risk level", s)
}

// RiskLevelOrDefault falls back to medium for unknown values.
func RiskLevelOrDefault(s string) RiskLevel {
	if r, err := ParseRiskLevel(s); err == nil {
		return r
	}
	return RiskMedium
}

// OptionAdvice is the recommendation for a single held option.
type OptionAdvice string

const (
	OptionAdviceHold  OptionAdvice = "hold"
	OptionAdviceClose OptionAdvice = "close"
	OptionAdviceRoll  OptionAdvice = "roll"
	OptionAdviceAdd   OptionAdvice = "add"
)

func ParseOptionAdvice(s string) (OptionAdvice, error) {
	switch normalizeTag(s) {
	case "hold":
		return OptionAdviceHold, nil
	case "close":
		return OptionAdviceClose, nil
	case "roll":
		return OptionAdviceRoll, nil
	case "add":
		return OptionAdviceAdd, nil
	}
	return "", unknown("option advice", s)
}

// LegAction is the side of one leg in a multi-leg strategy.
type LegAction string

const (
	LegBuy  LegAction = "buy"
	LegSell LegAction = "sell"
)

func ParseLegAction(s string) (LegAction, error) {
	switch normalizeTag(s) {
	case "buy":
		return LegBuy, nil
	case "sell":
		return LegSell, nil
	}
	return "", unknown("leg action", s)
}

type RiskTolerance string

const (
	RiskToleranceConservative RiskTolerance = "conservative"
	RiskToleranceModerate     RiskTolerance = "moderate"
	RiskToleranceAggressive   RiskTolerance = "aggressive"
)

func ParseRiskTolerance(s string) (RiskTolerance, error) {
	switch normalizeTag(s) {
	case "conservative":
		return RiskToleranceConservative, nil
	case "moderate":
		return RiskToleranceModerate, nil
	case "aggressive":
		return RiskToleranceAggressive, nil
	}
	return "", unknown("risk tolerance", s)
}

type StrategyPreference string

const (
	PreferenceMixed      StrategyPreference = ""
	PreferenceHedging    StrategyPreference = "hedging"
	PreferenceIncome     StrategyPreference = "income"
	PreferenceVolatility StrategyPreference = "volatility"
	PreferenceSpreads    StrategyPreference = "spreads"
)

// ParseStrategyPreference maps unknown or empty input to the mixed preference.
func ParseStrategyPreference(s string) StrategyPreference {
	switch p := StrategyPreference(normalizeTag(s)); p {
	case PreferenceHedging, PreferenceIncome, PreferenceVolatility, PreferenceSpreads:
		return p
	}
	return PreferenceMixed
}

type AnalysisKind string

const (
	AnalysisKindPortfolio AnalysisKind = "portfolio"
	AnalysisKindHedging   AnalysisKind = "hedging"
	AnalysisKindOption    AnalysisKind = "option"
)
