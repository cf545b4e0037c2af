package cmd

import (
	"context"

	"rsi-sma-trading/config"
	"rsi-sma-trading/internal/notifier"
	"rsi-sma-trading/internal/strategy"
	"rsi-sma-trading/pkg/cache"
	"rsi-sma-trading/pkg/logger"
	"rsi-sma-trading/pkg/telegram"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gopkg.in/telebot.v3"
)

type AppDependency struct {
	cfg       *config.Config
	log       *logger.Logger
	validator *goValidator.Validate
	echo      *echo.Echo
	cache     cache.Cache
	telegram  *telegram.Sender
	notifier  strategy.Notifier
}

func NewAppDependency(ctx context.Context) (*AppDependency, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}

	// Telegram is optional: without a bot token the app runs with alerts off.
	var sender *telegram.Sender
	var alertNotifier strategy.Notifier = strategy.NoopNotifier{}
	if cfg.Telegram.BotToken != "" {
		bot, err := telebot.NewBot(telebot.Settings{
			Token: cfg.Telegram.BotToken,
			OnError: func(err error, c telebot.Context) {
				log.Error("Telegram bot error", zap.Error(err))
			},
		})
		if err != nil {
			log.Error("Failed to create telegram bot", zap.Error(err))
			return nil, err
		}
		sender = telegram.NewSender(&cfg.Telegram, log, bot)
		if cfg.Strategy.SendAlerts {
			alertNotifier = notifier.NewTelegramNotifier(log, sender, cfg.Telegram.ChatID)
		}
	}

	return &AppDependency{
		cfg:       cfg,
		log:       log,
		validator: goValidator.New(),
		echo:      echo.New(),
		cache:     cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval),
		telegram:  sender,
		notifier:  alertNotifier,
	}, nil
}

func (d *AppDependency) Close() error {
	d.log.Info("Closing app dependency")
	return nil
}
