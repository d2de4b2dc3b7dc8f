package service

import (
	"strings"

	"golang-portfolio-advisor/internal/advisor/dto"
	"golang-portfolio-advisor/pkg/common"

	"github.com/shopspring/decimal"
)

func decimalFromQuote(q dto.Quote) decimal.Decimal {
	return decimal.NewFromFloat(q.Price).Round(2)
}

func isIndianListing(symbol string) bool {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	return strings.HasSuffix(s, common.ExchangeSuffixNSE) || strings.HasSuffix(s, common.ExchangeSuffixBSE)
}
