package strategy

import (
	"context"
	"errors"
	"testing"
	"time"

	"rsi-sma-trading/internal/dto"
	"rsi-sma-trading/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testLogger() *logger.Logger {
	return &logger.Logger{Logger: zap.NewNop()}
}

type captureNotifier struct {
	events []Event
	err    error
}

func (c *captureNotifier) Notify(ctx context.Context, event Event) error {
	c.events = append(c.events, event)
	return c.err
}

func sigRow(day int, close float64, buy, sell bool) dto.SignalRow {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return dto.SignalRow{
		IndicatorRow: dto.IndicatorRow{
			PriceBar: dto.PriceBar{Date: base.AddDate(0, 0, day), Open: close, High: close, Low: close, Close: close},
		},
		BuySignal:  buy,
		SellSignal: sell,
	}
}

func TestSimulator_RoundTrip(t *testing.T) {
	rows := []dto.SignalRow{
		sigRow(0, 10, false, false),
		sigRow(1, 10, true, false),
		sigRow(2, 10.5, false, false),
		sigRow(3, 11, false, true),
		sigRow(4, 11.2, false, false),
	}

	sim := NewSimulator(DefaultConfig(), testLogger(), nil)
	ledger, err := sim.Run(context.Background(), "TEST", rows)
	require.NoError(t, err)
	require.Len(t, ledger, 1)

	trade := ledger[0]
	require.True(t, trade.Closed())
	assert.Equal(t, rows[1].Date, trade.BuyDate)
	assert.Equal(t, 10.0, trade.BuyPrice)
	assert.Equal(t, rows[3].Date, *trade.SellDate)
	assert.Equal(t, 11.0, *trade.SellPrice)
	assert.InDelta(t, 10.0, *trade.ReturnPct, 1e-9)
}

func TestSimulator_BuyIgnoredWhileHolding(t *testing.T) {
	rows := []dto.SignalRow{
		sigRow(0, 10, true, false),
		sigRow(1, 11, true, false), // ignored, already holding
		sigRow(2, 12, false, true),
		sigRow(3, 11, true, false), // flat again, opens second trade
	}

	sim := NewSimulator(DefaultConfig(), testLogger(), nil)
	ledger, err := sim.Run(context.Background(), "TEST", rows)
	require.NoError(t, err)
	require.Len(t, ledger, 2)

	// At most one open position at any prefix of the ledger.
	for i, trade := range ledger {
		if i < len(ledger)-1 {
			assert.True(t, trade.Closed(), "only the last trade may be open")
		}
	}
	assert.Equal(t, rows[0].Date, ledger[0].BuyDate)
	assert.Equal(t, rows[3].Date, ledger[1].BuyDate)
	assert.False(t, ledger[1].Closed())
}

func TestSimulator_OpenTradeAtEndOfSeries(t *testing.T) {
	rows := []dto.SignalRow{
		sigRow(0, 10, false, false),
		sigRow(1, 10, true, false),
	}

	sim := NewSimulator(DefaultConfig(), testLogger(), nil)
	ledger, err := sim.Run(context.Background(), "TEST", rows)
	require.NoError(t, err)
	require.Len(t, ledger, 1)

	trade := ledger[0]
	assert.False(t, trade.Closed())
	assert.Nil(t, trade.SellDate)
	assert.Nil(t, trade.SellPrice)
	assert.Nil(t, trade.ReturnPct)
}

func TestSimulator_MinHoldDaysDefersSell(t *testing.T) {
	rows := []dto.SignalRow{
		sigRow(0, 10, true, false),
		sigRow(1, 9, false, true), // one day held: deferred
		sigRow(2, 8, false, false),
		sigRow(3, 7, false, true), // three days held: honored
	}

	cfg := DefaultConfig()
	cfg.MinHoldDays = 2

	sim := NewSimulator(cfg, testLogger(), nil)
	ledger, err := sim.Run(context.Background(), "TEST", rows)
	require.NoError(t, err)
	require.Len(t, ledger, 1)

	trade := ledger[0]
	require.True(t, trade.Closed())
	assert.Equal(t, rows[3].Date, *trade.SellDate)
	assert.Equal(t, 7.0, *trade.SellPrice)
}

func TestSimulator_MinHoldDaysExactBoundary(t *testing.T) {
	rows := []dto.SignalRow{
		sigRow(0, 10, true, false),
		sigRow(2, 9, false, true), // exactly two days held: honored
	}

	cfg := DefaultConfig()
	cfg.MinHoldDays = 2

	sim := NewSimulator(cfg, testLogger(), nil)
	ledger, err := sim.Run(context.Background(), "TEST", rows)
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.True(t, ledger[0].Closed())
}

func TestSimulator_BothSignalsSameBar(t *testing.T) {
	// Flat: buy takes priority. Holding: the sell path is evaluated.
	rows := []dto.SignalRow{
		sigRow(0, 10, true, true),
		sigRow(1, 11, true, true),
	}

	sim := NewSimulator(DefaultConfig(), testLogger(), nil)
	ledger, err := sim.Run(context.Background(), "TEST", rows)
	require.NoError(t, err)
	require.Len(t, ledger, 1)

	trade := ledger[0]
	assert.Equal(t, rows[0].Date, trade.BuyDate)
	require.True(t, trade.Closed())
	assert.Equal(t, rows[1].Date, *trade.SellDate)
}

func TestSimulator_RejectsOutOfOrderSeries(t *testing.T) {
	tests := []struct {
		name string
		rows []dto.SignalRow
	}{
		{
			name: "descending dates",
			rows: []dto.SignalRow{sigRow(1, 10, false, false), sigRow(0, 11, false, false)},
		},
		{
			name: "duplicate dates",
			rows: []dto.SignalRow{sigRow(0, 10, false, false), sigRow(0, 11, false, false)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := NewSimulator(DefaultConfig(), testLogger(), nil)
			_, err := sim.Run(context.Background(), "TEST", tt.rows)
			assert.ErrorIs(t, err, ErrOutOfOrder)
		})
	}
}

func TestSimulator_EmitsTransitionEvents(t *testing.T) {
	rows := []dto.SignalRow{
		sigRow(0, 10, true, false),
		sigRow(1, 12, false, true),
	}

	capture := &captureNotifier{}
	sim := NewSimulator(DefaultConfig(), testLogger(), capture)
	_, err := sim.Run(context.Background(), "TEST", rows)
	require.NoError(t, err)

	require.Len(t, capture.events, 2)
	assert.Equal(t, EventBuyOpened, capture.events[0].Kind)
	assert.Equal(t, "TEST", capture.events[0].Symbol)
	assert.Equal(t, 10.0, capture.events[0].Price)
	assert.Nil(t, capture.events[0].ReturnPct)

	assert.Equal(t, EventSellClosed, capture.events[1].Kind)
	require.NotNil(t, capture.events[1].ReturnPct)
	assert.InDelta(t, 20.0, *capture.events[1].ReturnPct, 1e-9)
}

func TestSimulator_NotifierFailureDoesNotAbort(t *testing.T) {
	rows := []dto.SignalRow{
		sigRow(0, 10, true, false),
		sigRow(1, 12, false, true),
	}

	capture := &captureNotifier{err: errors.New("telegram is down")}
	sim := NewSimulator(DefaultConfig(), testLogger(), capture)
	ledger, err := sim.Run(context.Background(), "TEST", rows)

	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.True(t, ledger[0].Closed())
}
