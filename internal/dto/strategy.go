package dto

import (
	"encoding/json"
	"math"
	"time"
)

// OptFloat is a float64 that may carry no value. Indicator columns are
// undefined during their warm-up window; those cells render as JSON null and
// every predicate built on them evaluates to false instead of erroring.
type OptFloat float64

// Undefined returns the "no value" sentinel.
func Undefined() OptFloat {
	return OptFloat(math.NaN())
}

func (f OptFloat) Defined() bool {
	return !math.IsNaN(float64(f))
}

func (f OptFloat) Float() float64 {
	return float64(f)
}

func (f OptFloat) MarshalJSON() ([]byte, error) {
	if !f.Defined() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(f))
}

func (f *OptFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = Undefined()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = OptFloat(v)
	return nil
}

// IndicatorRow is a PriceBar extended with the derived indicator columns.
type IndicatorRow struct {
	PriceBar
	MA5       OptFloat `json:"ma5"`
	MA10      OptFloat `json:"ma10"`
	RSI14     OptFloat `json:"rsi14"`
	PrevOpen  OptFloat `json:"prev_open"`
	PrevClose OptFloat `json:"prev_close"`
}

// SignalRow is an IndicatorRow extended with the composed buy/sell signals.
type SignalRow struct {
	IndicatorRow
	BuySignal  bool `json:"buy_signal"`
	SellSignal bool `json:"sell_signal"`
}

// Trade is one round-trip position. Sell fields stay nil while the position is
// open; a still-open trade at the end of a backtest keeps them unset.
type Trade struct {
	Symbol    string     `json:"symbol"`
	BuyDate   time.Time  `json:"buy_date"`
	BuyPrice  float64    `json:"buy_price"`
	SellDate  *time.Time `json:"sell_date"`
	SellPrice *float64   `json:"sell_price"`
	ReturnPct *float64   `json:"return_pct"`
}

func (t *Trade) Closed() bool {
	return t.SellDate != nil
}

// TradeLedger is the ordered record of all trades from one simulation run,
// insertion order matching the chronological order of the buy events.
type TradeLedger []Trade

// OpenTrade returns the single currently open trade, or nil. Only the last
// entry can ever be open.
func (l TradeLedger) OpenTrade() *Trade {
	if len(l) == 0 {
		return nil
	}
	last := &l[len(l)-1]
	if last.Closed() {
		return nil
	}
	return last
}

// BacktestSummary aggregates the closed trades of one backtest.
type BacktestSummary struct {
	TotalTrades    int     `json:"total_trades"`
	ClosedTrades   int     `json:"closed_trades"`
	WinningTrades  int     `json:"winning_trades"`
	TotalReturnPct float64 `json:"total_return_pct"`
	AvgReturnPct   float64 `json:"avg_return_pct"`
}

// StrategyRequest is the inbound API/CLI payload; dates arrive as strings and
// are validated before any data is fetched.
type StrategyRequest struct {
	Symbol    string `json:"symbol" validate:"required"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
	Mode      string `json:"mode" validate:"required,oneof=backtest live"`
}

// StrategyParams is the parsed form handed to the orchestrator.
type StrategyParams struct {
	Symbol    string
	StartDate time.Time
	EndDate   time.Time
	Mode      Mode
}

type StrategyResult struct {
	Symbol  string           `json:"symbol"`
	Mode    Mode             `json:"mode"`
	Series  []SignalRow      `json:"series"`
	Trades  TradeLedger      `json:"trades"`
	Summary *BacktestSummary `json:"summary,omitempty"`
}
