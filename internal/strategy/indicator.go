package strategy

import (
	"errors"

	"rsi-sma-trading/internal/dto"
)

const (
	maFastPeriod = 5
	maSlowPeriod = 10
	rsiPeriod    = 14
)

// ErrInsufficientData is returned when the input series is empty.
var ErrInsufficientData = errors.New("insufficient data: empty price series")

// ComputeIndicators derives MA5, MA10, RSI14 and the previous bar's open/close
// for every bar of a chronological series. Columns stay undefined until their
// trailing window is filled: MA5 from index 4, MA10 from index 9, RSI14 from
// index 14 (the first delta only exists at index 1). RSI is also undefined on
// any bar whose trailing average loss is exactly zero, since the gain/loss
// ratio is not computable there.
func ComputeIndicators(bars []dto.PriceBar) ([]dto.IndicatorRow, error) {
	if len(bars) == 0 {
		return nil, ErrInsufficientData
	}

	rows := make([]dto.IndicatorRow, len(bars))
	for i, bar := range bars {
		row := dto.IndicatorRow{
			PriceBar:  bar,
			MA5:       dto.Undefined(),
			MA10:      dto.Undefined(),
			RSI14:     dto.Undefined(),
			PrevOpen:  dto.Undefined(),
			PrevClose: dto.Undefined(),
		}

		if i > 0 {
			row.PrevOpen = dto.OptFloat(bars[i-1].Open)
			row.PrevClose = dto.OptFloat(bars[i-1].Close)
		}
		if i >= maFastPeriod-1 {
			row.MA5 = dto.OptFloat(trailingMean(bars, i, maFastPeriod))
		}
		if i >= maSlowPeriod-1 {
			row.MA10 = dto.OptFloat(trailingMean(bars, i, maSlowPeriod))
		}
		if i >= rsiPeriod {
			row.RSI14 = relativeStrengthIndex(bars, i)
		}

		rows[i] = row
	}
	return rows, nil
}

func trailingMean(bars []dto.PriceBar, end, period int) float64 {
	sum := 0.0
	for i := end - period + 1; i <= end; i++ {
		sum += bars[i].Close
	}
	return sum / float64(period)
}

// relativeStrengthIndex computes RSI(14) at index end using simple trailing
// means of gains and losses over the last 14 close-to-close deltas.
func relativeStrengthIndex(bars []dto.PriceBar, end int) dto.OptFloat {
	var gainSum, lossSum float64
	for i := end - rsiPeriod + 1; i <= end; i++ {
		delta := bars[i].Close - bars[i-1].Close
		if delta > 0 {
			gainSum += delta
		} else {
			lossSum -= delta
		}
	}

	avgGain := gainSum / float64(rsiPeriod)
	avgLoss := lossSum / float64(rsiPeriod)
	if avgLoss == 0 {
		// Ratio is not computable; the value is absent, not infinite.
		return dto.Undefined()
	}

	rs := avgGain / avgLoss
	return dto.OptFloat(100 - 100/(1+rs))
}
