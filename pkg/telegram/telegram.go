package telegram

import (
	"context"

	"rsi-sma-trading/config"
	"rsi-sma-trading/pkg/logger"

	"golang.org/x/time/rate"
	"gopkg.in/telebot.v3"
)

// Sender pushes plain-text messages to a Telegram chat behind a global rate
// limit. Telegram caps bots at ~30 messages per second; exceeding it gets the
// token throttled.
type Sender struct {
	cfg           *config.TelegramConfig
	log           *logger.Logger
	bot           *telebot.Bot
	globalLimiter *rate.Limiter
}

func NewSender(cfg *config.TelegramConfig, log *logger.Logger, bot *telebot.Bot) *Sender {
	return &Sender{
		cfg:           cfg,
		log:           log,
		bot:           bot,
		globalLimiter: rate.NewLimiter(rate.Limit(cfg.MaxGlobalRequestPerSecond), cfg.MaxGlobalRequestPerSecond),
	}
}

// SendMessage delivers a text message to the given chat. It blocks until the
// rate limiter admits the request or the context is cancelled.
func (s *Sender) SendMessage(ctx context.Context, chatID int64, message string, opts ...interface{}) error {
	if err := s.globalLimiter.Wait(ctx); err != nil {
		s.log.ErrorContext(ctx, "Failed to wait for telegram rate limit", logger.ErrorField(err))
		return err
	}

	_, err := s.bot.Send(&telebot.User{ID: chatID}, message, opts...)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to send telegram message", logger.ErrorField(err))
		return err
	}
	return nil
}
