package telegram

import (
	"fmt"
	"strings"

	"golang-portfolio-advisor/internal/entity"
	"golang-portfolio-advisor/pkg/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// FormatPriceAlertMessage formats a recorded proximity alert as Markdown.
// Prices are passed preformatted in the account currency.
func FormatPriceAlertMessage(alert *entity.Alert, currentPrice, targetPrice string) string {
	var title, emoji string
	switch alert.Type {
	case entity.AlertTypeSell:
		title = "Sell Zone"
		emoji = "🔴"
	case entity.AlertTypeBuy:
		title = "Buy Zone"
		emoji = "🟢"
	default:
		title = "Price Alert"
		emoji = "🔔"
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%s *[%s] %s*\n", emoji, tgbotapi.EscapeText(tgbotapi.ModeMarkdown, alert.Symbol), title))
	builder.WriteString(fmt.Sprintf("💰 Price: %s (target: %s)\n", currentPrice, targetPrice))
	builder.WriteString(fmt.Sprintf("💬 %s\n", tgbotapi.EscapeText(tgbotapi.ModeMarkdown, alert.Message)))
	builder.WriteString(utils.PrettyDate(alert.CreatedAt))
	return builder.String()
}
