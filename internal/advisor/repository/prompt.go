package repository

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang-portfolio-advisor/internal/advisor/dto"
	"golang-portfolio-advisor/internal/entity"
	"golang-portfolio-advisor/pkg/utils"
)

const (
	SystemPortfolioAnalyst = "You are a financial analysis AI. Always respond with valid JSON only, no additional text."
	SystemHedgingAnalyst   = "You are an expert options trading analyst for Indian markets. Always respond with valid JSON only."
	SystemOptionAnalyst    = "You are an expert options trading analyst. Always respond with valid JSON only."
	SystemSwingTrader      = "You are an expert swing trader specializing in the Indian stock market (NSE/BSE). You have deep knowledge of technical analysis, volatility patterns, and short-term price movements in Indian stocks. Always respond with valid JSON only. Work with Indian stock symbols that have .NS or .BO suffix."
	SystemValueInvestor    = "You are a legendary value investor specializing in the Indian stock market (NSE/BSE). You have expertise in identifying long-term compounders and multibagger stocks from India. Always respond with valid JSON only. NEVER recommend US stocks - only Indian stocks with .NS or .BO suffix."
	SystemOptionsAdvisor   = "You are an expert Indian stock options trading advisor. Provide specific, actionable trade recommendations with realistic parameters for NSE stocks. Always return valid JSON only."
)

// BuildPortfolioPrompt asks for one Buy/Sell/Hold entry per position.
func BuildPortfolioPrompt(positions []entity.Position) string {
	items := make([]dto.PortfolioPromptItem, 0, len(positions))
	for _, p := range positions {
		buy, _ := p.BuyPrice.Float64()
		current := 0.0
		if p.CurrentPrice.Valid {
			current, _ = p.CurrentPrice.Decimal.Float64()
		}
		items = append(items, dto.PortfolioPromptItem{
			Symbol:            p.Symbol,
			Quantity:          p.Quantity,
			BuyPrice:          buy,
			CurrentPrice:      current,
			ProfitLossPercent: p.ProfitLossPercent(),
		})
	}
	portfolioJSON, _ := json.MarshalIndent(items, "", "  ")

	return fmt.Sprintf(`Analyze this stock portfolio and provide trading recommendations:
%s

For each stock, suggest whether to Buy, Sell, or Hold based on:
- Current profit/loss percentage
- General market principles (RSI concepts, moving averages, market sentiment)
- Risk management

Provide a JSON array with this exact structure:
[
  {
    "symbol": "STOCK_SYMBOL",
    "action": "Buy|Sell|Hold",
    "targetPrice": <number>,
    "reason": "<brief explanation>"
  }
]

Keep reasons concise (under 50 characters). Be conservative with recommendations.`, string(portfolioJSON))
}

// BuildHedgingPrompt lists stock positions and existing option hedges.
func BuildHedgingPrompt(positions []entity.Position, options []entity.Option) string {
	var portfolio strings.Builder
	for _, p := range positions {
		current := p.BuyPrice
		if p.CurrentPrice.Valid {
			current = p.CurrentPrice.Decimal
		}
		portfolio.WriteString(fmt.Sprintf("- %s (id %s): %d shares at ₹%s (bought at ₹%s, P/L: %.2f%%, Value: ₹%s)\n",
			p.Symbol, p.ID, p.Quantity, current.StringFixed(2), p.BuyPrice.StringFixed(2), p.ProfitLossPercent(), p.MarketValue().StringFixed(2)))
	}

	existing := "None\n"
	if len(options) > 0 {
		var sb strings.Builder
		for _, o := range options {
			sb.WriteString(fmt.Sprintf("- %s %s %s (Strike: ₹%s, Expiry: %s)\n",
				o.UnderlyingSymbol, o.OptionType, o.StrategyOrStandalone(), o.StrikePrice.StringFixed(2), o.ExpiryDate.Format("2006-01-02")))
		}
		existing = sb.String()
	}

	return fmt.Sprintf(`You are an expert options trader specializing in hedging strategies for the Indian stock market (NSE/BSE).

Analyze this portfolio and recommend hedging strategies:

Portfolio:
%s
Existing Options Positions:
%s
For EACH stock, recommend appropriate hedging strategies. For each recommendation, provide:
- strategy: one of protective_put, covered_call, collar, straddle, strangle, iron_condor, bull_call_spread, bear_put_spread
- optionType: "call" or "put"
- strikePrice: recommended strike in rupees
- expiryDays: days until expiry (7, 14, 30, 60, 90)
- quantity: number of contracts (usually matches stock quantity/lot size)
- reasoning: why this hedge makes sense (2-3 sentences)
- riskLevel: "low", "medium", or "high"
- expectedCost: estimated cost in rupees per contract

Consider current market volatility, each stock's profit/loss status, existing hedges to avoid over-hedging,
cost-effectiveness, and Indian options lot sizes (typically 25-100).

Respond in JSON format:
{
  "analyses": [
    {
      "stockId": "stock_id_here",
      "symbol": "SYMBOL",
      "recommendations": [
        {
          "strategy": "protective_put",
          "optionType": "put",
          "strikePrice": 1450,
          "expiryDays": 30,
          "quantity": 50,
          "reasoning": "Stock is up 15%%, secure profits with downside protection",
          "riskLevel": "low",
          "expectedCost": 45
        }
      ],
      "portfolioRisk": "Medium - concentrated in tech sector",
      "overallStrategy": "Focus on protective strategies due to recent gains"
    }
  ]
}`, portfolio.String(), existing)
}

// BuildOptionPrompt asks for a hold/close/roll/add call on one option.
func BuildOptionPrompt(option entity.Option, related *entity.Position, now time.Time) string {
	current := option.Premium
	if option.CurrentPrice.Valid {
		current = option.CurrentPrice.Decimal
	}

	underlying := ""
	if related != nil {
		price := "unknown"
		if related.CurrentPrice.Valid {
			price = "₹" + related.CurrentPrice.Decimal.StringFixed(2)
		}
		underlying = fmt.Sprintf("\nUnderlying Stock:\n- Current Price: %s\n- Position: %d shares at ₹%s\n",
			price, related.Quantity, related.BuyPrice.StringFixed(2))
	}

	return fmt.Sprintf(`You are an expert options trader for Indian markets (NSE/BSE).

Analyze this options position and provide a recommendation:

Option Details:
- Symbol: %s
- Type: %s
- Strike Price: ₹%s
- Premium Paid: ₹%s
- Current Price: ₹%s
- P/L: %.2f%%
- Quantity: %d contracts
- Days to Expiry: %d
- Strategy: %s
%s
Provide:
1. recommendation: "hold", "close", "roll", or "add"
2. reason: 2-3 sentence explanation considering time decay (theta), moneyness (ITM/ATM/OTM), days to expiry, current P/L and strategy effectiveness

Respond in JSON format:
{
  "recommendation": "hold",
  "reason": "Option is ITM with 15 days to expiry. Time decay is accelerating but still has intrinsic value."
}`,
		option.UnderlyingSymbol,
		strings.ToUpper(string(option.OptionType)),
		option.StrikePrice.StringFixed(2),
		option.Premium.StringFixed(2),
		current.StringFixed(2),
		option.ProfitLossPercent(),
		option.Quantity,
		utils.DaysUntil(now, option.ExpiryDate),
		option.StrategyOrStandalone(),
		underlying,
	)
}

func marketCapText(marketCap string) string {
	if strings.TrimSpace(marketCap) == "" {
		return "any market cap"
	}
	return marketCap
}

// BuildSwingTradePrompt asks for percentage based one-week swing setups.
func BuildSwingTradePrompt(marketCap string) string {
	return fmt.Sprintf(`You are a professional swing trader and technical analyst specializing in the Indian stock market (NSE/BSE). Identify the BEST swing trading opportunities that can be bought AT CURRENT MARKET PRICES for the next 1 week.

CRITICAL REQUIREMENTS:
- ONLY recommend stocks listed on NSE or BSE, using symbols with .NS or .BO suffix (e.g. RELIANCE.NS, TATAMOTORS.NS, SAIL.NS)
- DO NOT recommend any US stocks
- Focus on HIGH VOLATILITY Indian stocks suitable for swing trading, actionable NOW

Market cap preference: %s

IMPORTANT: targetPricePercent and stopLossPercent are PERCENTAGE gains/losses from CURRENT PRICE.
For 8%% expected upside set targetPricePercent: 8. For a stop 3%% below current set stopLossPercent: 3.
Recommend stocks across different price ranges (under ₹100, ₹100-500, ₹500-1000, ₹1000-5000, above ₹5000).

Return a JSON array with 12-15 opportunities:
[
  {
    "symbol": "STOCK.NS",
    "volatility": "high" | "medium",
    "targetPricePercent": 5.0,
    "stopLossPercent": 2.0,
    "timeframe": "3-5 days" or "5-7 days",
    "reason": "Brief technical reason (max 100 words)",
    "riskLevel": "high" | "medium" | "low"
  }
]`, marketCapText(marketCap))
}

// BuildMultibaggerPrompt asks for growth multiples over a 5-10 year horizon.
func BuildMultibaggerPrompt(marketCap string, headlines []dto.Headline) string {
	news := ""
	if len(headlines) > 0 {
		var sb strings.Builder
		sb.WriteString("\nRecent market headlines for context:\n")
		for _, h := range headlines {
			sb.WriteString(fmt.Sprintf("- [%s] %s\n", h.Published, h.Title))
		}
		news = sb.String()
	}

	return fmt.Sprintf(`You are a long-term value investor and growth stock analyst specializing in the INDIAN STOCK MARKET (NSE/BSE). Identify potential multibagger stocks (stocks that can return 3x-10x) for a 5-10 year investment horizon.

CRITICAL REQUIREMENTS:
- ONLY recommend stocks listed on NSE or BSE, using symbols with .NS or .BO suffix (e.g. RELIANCE.NS, TCS.NS, INFY.NS)
- DO NOT recommend any US stocks
- Focus on Indian companies operating primarily in India

Market cap preference: %s
%s
Instead of absolute target prices, provide a GROWTH MULTIPLE (targetMultiple: 3 for 3x, 10 for 10x).
The target price is computed as current price × targetMultiple.

Return a JSON array with 12-15 candidates across budget ranges:
[
  {
    "symbol": "STOCK.NS",
    "companyName": "Company Name",
    "sector": "Technology",
    "targetMultiple": 3.0,
    "expectedReturn": "3x-5x",
    "growthDrivers": ["driver 1", "driver 2"],
    "risks": ["risk 1", "risk 2"],
    "investmentThesis": "Why this stock can be a multibagger (max 150 words)",
    "confidenceLevel": "high" | "medium" | "low"
  }
]`, marketCapText(marketCap), news)
}

var strategyFocus = map[entity.StrategyPreference]string{
	entity.PreferenceMixed:      "mix of hedging strategies and income generation",
	entity.PreferenceHedging:    "HEDGING & PROTECTION ONLY - protective puts, collars, bear put spreads for downside protection",
	entity.PreferenceIncome:     "income generation - covered calls, iron condors for premium collection",
	entity.PreferenceVolatility: "volatility plays - straddles, strangles for event-driven opportunities",
	entity.PreferenceSpreads:    "spread strategies - bull call spreads, bear put spreads for directional plays",
}

// BuildOptionsRecommendationPrompt asks for multi-leg trade ideas on liquid NSE names.
func BuildOptionsRecommendationPrompt(params dto.OptionsRecommendationParams, prices map[string]dto.Quote, symbols []string, now time.Time) string {
	budget := "₹50,000 to ₹1,00,000"
	if params.Budget > 0 {
		budget = fmt.Sprintf("₹%.0f", params.Budget)
	}
	risk := params.RiskTolerance
	if risk == "" {
		risk = entity.RiskToleranceModerate
	}

	var priceParts []string
	for _, s := range symbols {
		if q, ok := prices[s]; ok {
			priceParts = append(priceParts, fmt.Sprintf("%s: ₹%.2f", s, q.Price))
		}
	}
	priceContext := "Unable to fetch current prices"
	if len(priceParts) > 0 {
		priceContext = strings.Join(priceParts, ", ")
	}

	focus := "- Portfolio protection strategies (at least 40% of recommendations should be hedging-focused)\n- Mix of protective and income-generating strategies"
	if params.StrategyPreference == entity.PreferenceHedging {
		focus = "- ALL recommendations must be hedging/protection strategies ONLY\n- Prioritize protective puts, collars, bear put spreads"
	}

	return fmt.Sprintf(`You are an expert options trading advisor for Indian stock markets (NSE/BSE) specializing in hedging strategies.

Provide 5-7 specific options trading recommendations for today (%s).

CURRENT STOCK PRICES (LIVE NSE DATA):
%s

Parameters:
- Budget: %s
- Risk Tolerance: %s
- Strategy Focus: %s
- Market: NSE (National Stock Exchange of India)

Spread strategies must have MULTIPLE LEGS:
- Bear Put Spread: [BUY higher strike put, SELL lower strike put]
- Bull Call Spread: [BUY lower strike call, SELL higher strike call]
- Collar: [BUY put, SELL call]
- Iron Condor: [SELL lower put, BUY even lower put, SELL higher call, BUY even higher call]
- Single strategies (Protective Put, Covered Call): ONE leg only

Expiry dates must be Tuesdays (YYYY-MM-DD). Strikes must be realistic NSE strikes relative to the live price.
Strategy must be one of protective_put, covered_call, collar, straddle, strangle, iron_condor, bull_call_spread, bear_put_spread, standalone.

Focus on:
%s
- Liquid, high-volume NSE stocks (Nifty 50 components preferred)
- Clear risk-reward profiles

Return ONLY a valid JSON array with no markdown formatting, each element like:
{
  "stockSymbol": "INFY.NS",
  "stockName": "Infosys",
  "currentPrice": 1471.50,
  "expiryDate": "2025-10-28",
  "strategy": "bear_put_spread",
  "legs": [
    {"action": "buy", "optionType": "put", "strikePrice": 1460, "premium": 28.00, "quantity": 2},
    {"action": "sell", "optionType": "put", "strikePrice": 1420, "premium": 12.50, "quantity": 2}
  ],
  "reasoning": "Bear put spread protects against 3-4%% downside with limited cost.",
  "riskLevel": "medium",
  "targetProfit": "₹8,000-₹10,000",
  "maxLoss": "₹3,100",
  "netCost": 31,
  "marketOutlook": "bearish"
}`, now.Format("02/01/2006"), priceContext, budget, risk, strategyFocus[params.StrategyPreference], focus)
}
