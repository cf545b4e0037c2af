package notifier

import (
	"context"
	"fmt"

	"rsi-sma-trading/internal/strategy"
	"rsi-sma-trading/pkg/logger"
	"rsi-sma-trading/pkg/telegram"
	"rsi-sma-trading/pkg/utils"
)

// TelegramNotifier delivers strategy events to a single Telegram chat.
// Delivery is best-effort: errors are logged and reported back to the caller,
// which is expected to swallow them.
type TelegramNotifier struct {
	log    *logger.Logger
	sender *telegram.Sender
	chatID int64
}

func NewTelegramNotifier(log *logger.Logger, sender *telegram.Sender, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{
		log:    log,
		sender: sender,
		chatID: chatID,
	}
}

func (n *TelegramNotifier) Notify(ctx context.Context, event strategy.Event) error {
	message := formatEvent(event)
	if message == "" {
		return nil
	}

	if err := n.sender.SendMessage(ctx, n.chatID, message); err != nil {
		n.log.WarnContext(ctx, "Failed to deliver strategy alert",
			logger.StringField("event", string(event.Kind)),
			logger.StringField("symbol", event.Symbol),
			logger.ErrorField(err),
		)
		return err
	}
	return nil
}

func formatEvent(event strategy.Event) string {
	date := event.Date.Format("2006-01-02")

	switch event.Kind {
	case strategy.EventBuyOpened:
		return fmt.Sprintf("📈 Buy signal [%s] %s / entry: %s",
			event.Symbol, date, utils.FormatPrice(event.Price))
	case strategy.EventSellClosed:
		msg := fmt.Sprintf("📉 Position closed [%s] %s / exit: %s",
			event.Symbol, date, utils.FormatPrice(event.Price))
		if event.ReturnPct != nil {
			msg += " / return: " + utils.FormatPercentage(*event.ReturnPct)
		}
		return msg
	case strategy.EventLiveBuy:
		return fmt.Sprintf("📈 Live buy signal [%s] %s / price: %s",
			event.Symbol, date, utils.FormatPrice(event.Price))
	case strategy.EventLiveSell:
		return fmt.Sprintf("📉 Live sell signal [%s] %s / price: %s",
			event.Symbol, date, utils.FormatPrice(event.Price))
	case strategy.EventLiveNoSignal:
		return fmt.Sprintf("⏹️ No signal [%s] %s", event.Symbol, date)
	case strategy.EventBacktestSummary:
		if event.Summary == nil {
			return ""
		}
		if event.Summary.TotalTrades == 0 {
			return fmt.Sprintf("✅ Backtest completed: %s\nNo trades in period", event.Symbol)
		}
		return fmt.Sprintf("✅ Backtest completed: %s\n📊 Trades: %d | Avg return: %s",
			event.Symbol, event.Summary.TotalTrades, utils.FormatPercentage(event.Summary.AvgReturnPct))
	default:
		return ""
	}
}
