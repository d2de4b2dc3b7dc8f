package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// Telegram rejects bursts above roughly one message per second to the same chat.
const defaultMessagesPerSecond = 1

// Notifier delivers alert text to a chat.
type Notifier interface {
	SendMessage(ctx context.Context, text string) error
}

type client struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	limiter *rate.Limiter
}

// NewClient creates a Markdown notifier bound to a single chat.
func NewClient(botToken string, chatID int64) (Notifier, error) {
	if chatID == 0 {
		return nil, fmt.Errorf("telegram chat id is required")
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &client{
		bot:     bot,
		chatID:  chatID,
		limiter: rate.NewLimiter(rate.Limit(defaultMessagesPerSecond), 3),
	}, nil
}

func (c *client) SendMessage(ctx context.Context, text string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram send cancelled: %w", err)
	}
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	if _, err := c.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message to %d: %w", c.chatID, err)
	}
	return nil
}

// NopNotifier drops every message. Used when no bot token is configured.
type NopNotifier struct{}

func (NopNotifier) SendMessage(context.Context, string) error { return nil }
