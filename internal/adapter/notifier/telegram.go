package notifier

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/snakewatch-io/api-service/internal/domain/entity"
)

// TelegramNotifier sends alerts to a Telegram chat
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier creates a Telegram notifier. Returns an error when the
// token is invalid or Telegram is unreachable.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

// NotifyClassification sends a one-line alert with species, confidence and risk
func (n *TelegramNotifier) NotifyClassification(_ context.Context, c *entity.Classification) error {
	text := fmt.Sprintf("⚠️ Snake alert: %s (confidence %.0f%%, risk %s)",
		c.Species, c.Confidence*100, c.RiskLevel)
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}
