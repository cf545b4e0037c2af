package strategy

import "rsi-sma-trading/internal/dto"

// ComposeSignals turns indicator rows into buy/sell signal rows.
//
// Buy fires on a genuine upward MA5/MA10 crossover (above now, at-or-below on
// the previous bar) with RSI under the configured threshold and, unless
// disabled, a bullish reversal candle. Sell fires on the downward crossover
// alone. Any undefined operand forces the predicate to false; signals are
// never errors.
func ComposeSignals(rows []dto.IndicatorRow, cfg Config) []dto.SignalRow {
	out := make([]dto.SignalRow, len(rows))
	for i := range rows {
		sr := dto.SignalRow{IndicatorRow: rows[i]}
		if i == 0 {
			out[i] = sr
			continue
		}

		cur, prev := rows[i], rows[i-1]
		if cur.MA5.Defined() && cur.MA10.Defined() && prev.MA5.Defined() && prev.MA10.Defined() {
			crossedUp := cur.MA5.Float() > cur.MA10.Float() && prev.MA5.Float() <= prev.MA10.Float()
			crossedDown := cur.MA5.Float() < cur.MA10.Float() && prev.MA5.Float() >= prev.MA10.Float()

			sr.SellSignal = crossedDown

			buy := crossedUp && cur.RSI14.Defined() && cur.RSI14.Float() < cfg.RSIBuyThreshold
			if cfg.RequireBullishCandle {
				buy = buy && bullishCandle(cur)
			}
			sr.BuySignal = buy
		}

		out[i] = sr
	}
	return out
}

// bullishCandle reports a bar that closes above its open right after a bar
// that closed below its open. False when the previous bar is unknown.
func bullishCandle(row dto.IndicatorRow) bool {
	if !row.PrevOpen.Defined() || !row.PrevClose.Defined() {
		return false
	}
	return row.Close > row.Open && row.PrevClose.Float() < row.PrevOpen.Float()
}
