package strategy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rsi-sma-trading/internal/dto"
	"rsi-sma-trading/pkg/logger"
	"rsi-sma-trading/pkg/utils"
)

// ErrOutOfOrder reports a simulator input that is not strictly chronological.
// It signals an upstream data-shape bug, not a recoverable condition.
var ErrOutOfOrder = errors.New("price series is not in strict chronological order")

// Simulator walks a signal series in bar order and maintains the long-only
// single-position state machine: flat until a buy signal opens a trade, then
// holding until a sell signal (honoring the minimum hold guard) closes it.
// At most one trade is ever open; that invariant is the whole point of the
// simulator and depends on in-order processing.
type Simulator struct {
	cfg      Config
	log      *logger.Logger
	notifier Notifier
}

func NewSimulator(cfg Config, log *logger.Logger, notifier Notifier) *Simulator {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &Simulator{
		cfg:      cfg,
		log:      log,
		notifier: notifier,
	}
}

// Run folds the signal rows into a trade ledger. A trade still open after the
// last bar stays in the ledger with its sell fields unset.
func (s *Simulator) Run(ctx context.Context, symbol string, rows []dto.SignalRow) (dto.TradeLedger, error) {
	if err := checkOrdering(rows); err != nil {
		return nil, err
	}

	ledger := dto.TradeLedger{}
	holding := false

	for i := range rows {
		row := &rows[i]

		if holding {
			// Buy signals are ignored while a position is open.
			if !row.SellSignal {
				continue
			}
			open := ledger.OpenTrade()
			if !s.heldLongEnough(open.BuyDate, row.Date) {
				s.log.DebugContext(ctx, "Sell signal deferred by minimum hold period",
					logger.StringField("symbol", symbol),
					logger.StringField("date", row.Date.Format("2006-01-02")),
					logger.IntField("min_hold_days", s.cfg.MinHoldDays),
				)
				continue
			}
			closeTrade(open, row.Date, row.Close)
			holding = false
			s.emit(ctx, Event{
				Kind:      EventSellClosed,
				Symbol:    symbol,
				Date:      row.Date,
				Price:     row.Close,
				ReturnPct: open.ReturnPct,
			})
		} else if row.BuySignal {
			ledger = append(ledger, dto.Trade{
				Symbol:   symbol,
				BuyDate:  row.Date,
				BuyPrice: row.Close,
			})
			holding = true
			s.emit(ctx, Event{
				Kind:   EventBuyOpened,
				Symbol: symbol,
				Date:   row.Date,
				Price:  row.Close,
			})
		}
	}

	return ledger, nil
}

func (s *Simulator) heldLongEnough(buyDate, sellDate time.Time) bool {
	return sellDate.Sub(buyDate) >= time.Duration(s.cfg.MinHoldDays)*24*time.Hour
}

func closeTrade(t *dto.Trade, date time.Time, price float64) {
	t.SellDate = utils.ToPointer(date)
	t.SellPrice = utils.ToPointer(price)
	t.ReturnPct = utils.ToPointer((price - t.BuyPrice) / t.BuyPrice * 100)
}

// emit delivers a transition event fire-and-forget; delivery failure must
// never abort the simulation.
func (s *Simulator) emit(ctx context.Context, event Event) {
	if err := s.notifier.Notify(ctx, event); err != nil {
		s.log.WarnContext(ctx, "Notification delivery failed",
			logger.StringField("event", string(event.Kind)),
			logger.StringField("symbol", event.Symbol),
			logger.ErrorField(err),
		)
	}
}

func checkOrdering(rows []dto.SignalRow) error {
	for i := 1; i < len(rows); i++ {
		if !rows[i].Date.After(rows[i-1].Date) {
			return fmt.Errorf("%w: %s followed by %s",
				ErrOutOfOrder,
				rows[i-1].Date.Format("2006-01-02"),
				rows[i].Date.Format("2006-01-02"),
			)
		}
	}
	return nil
}
