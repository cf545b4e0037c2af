package strategy

import (
	"context"
	"time"

	"rsi-sma-trading/internal/dto"
)

type EventKind string

const (
	EventBuyOpened       EventKind = "buy_opened"
	EventSellClosed      EventKind = "sell_closed"
	EventLiveBuy         EventKind = "live_buy"
	EventLiveSell        EventKind = "live_sell"
	EventLiveNoSignal    EventKind = "live_no_signal"
	EventBacktestSummary EventKind = "backtest_summary"
)

// Event is the structured payload sent to the notification sink at the
// engine's extension points: a trade opening, a trade closing, a live-mode
// verdict, or a finished backtest.
type Event struct {
	Kind      EventKind
	Symbol    string
	Date      time.Time
	Price     float64
	ReturnPct *float64
	Summary   *dto.BacktestSummary
}

// Notifier is the outbound messaging port. Implementations are expected to be
// best-effort: a returned error is logged by the caller and never alters
// simulation state.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// NoopNotifier discards every event. Used when alerts are switched off.
type NoopNotifier struct{}

func (NoopNotifier) Notify(ctx context.Context, event Event) error {
	return nil
}
