package strategy

import (
	"encoding/json"
	"testing"
	"time"

	"rsi-sma-trading/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func barSeries(closes []float64) []dto.PriceBar {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]dto.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = dto.PriceBar{
			Date:  base.AddDate(0, 0, i),
			Open:  c + 0.5,
			High:  c + 1,
			Low:   c - 1,
			Close: c,
		}
	}
	return bars
}

func TestComputeIndicators_EmptySeries(t *testing.T) {
	_, err := ComputeIndicators(nil)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = ComputeIndicators([]dto.PriceBar{})
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestComputeIndicators_MovingAverageWarmup(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = float64(i + 1) // 1, 2, ..., 20
	}

	rows, err := ComputeIndicators(barSeries(closes))
	require.NoError(t, err)
	require.Len(t, rows, 20)

	for i := 0; i < 4; i++ {
		assert.False(t, rows[i].MA5.Defined(), "ma5 should be undefined at index %d", i)
	}
	for i := 0; i < 9; i++ {
		assert.False(t, rows[i].MA10.Defined(), "ma10 should be undefined at index %d", i)
	}

	// mean of 1..5 and mean of 1..10
	assert.InDelta(t, 3.0, rows[4].MA5.Float(), 1e-9)
	assert.InDelta(t, 5.5, rows[9].MA10.Float(), 1e-9)
	// trailing windows keep sliding
	assert.InDelta(t, 18.0, rows[19].MA5.Float(), 1e-9)
	assert.InDelta(t, 15.5, rows[19].MA10.Float(), 1e-9)
}

func TestComputeIndicators_PreviousBarColumns(t *testing.T) {
	rows, err := ComputeIndicators(barSeries([]float64{10, 11, 12}))
	require.NoError(t, err)

	assert.False(t, rows[0].PrevOpen.Defined())
	assert.False(t, rows[0].PrevClose.Defined())
	assert.InDelta(t, 10.5, rows[1].PrevOpen.Float(), 1e-9)
	assert.InDelta(t, 10.0, rows[1].PrevClose.Float(), 1e-9)
	assert.InDelta(t, 11.0, rows[2].PrevClose.Float(), 1e-9)
}

func TestComputeIndicators_RSIWarmupAndValue(t *testing.T) {
	// Alternating +2 / -1 deltas. At index 14 the trailing 14 deltas are
	// seven gains of 2 and seven losses of 1: avgGain 1, avgLoss 0.5,
	// RS 2, RSI 100 - 100/3.
	closes := make([]float64, 16)
	closes[0] = 100
	for i := 1; i < len(closes); i++ {
		if i%2 == 1 {
			closes[i] = closes[i-1] + 2
		} else {
			closes[i] = closes[i-1] - 1
		}
	}

	rows, err := ComputeIndicators(barSeries(closes))
	require.NoError(t, err)

	for i := 0; i < 14; i++ {
		assert.False(t, rows[i].RSI14.Defined(), "rsi should be undefined at index %d", i)
	}
	require.True(t, rows[14].RSI14.Defined())
	assert.InDelta(t, 100-100.0/3.0, rows[14].RSI14.Float(), 1e-9)
}

func TestComputeIndicators_RSIUndefinedOnZeroLoss(t *testing.T) {
	// Strictly rising series: every delta is a gain, the trailing average
	// loss is zero and the ratio is not computable. The cell must be
	// absent, not infinite and not an error.
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	rows, err := ComputeIndicators(barSeries(closes))
	require.NoError(t, err)

	for i := range rows {
		assert.False(t, rows[i].RSI14.Defined(), "rsi should be undefined at index %d", i)
	}
}

func TestComputeIndicators_FlatSeries(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 50
	}

	rows, err := ComputeIndicators(barSeries(closes))
	require.NoError(t, err)

	for i := 9; i < len(rows); i++ {
		assert.InDelta(t, rows[i].MA10.Float(), rows[i].MA5.Float(), 1e-9, "flat series must have ma5 == ma10 at index %d", i)
		assert.False(t, rows[i].RSI14.Defined(), "flat series has zero average loss at index %d", i)
	}
}

func TestComputeIndicators_Idempotent(t *testing.T) {
	closes := []float64{10, 12, 11, 13, 15, 14, 16, 15, 17, 18, 16, 15, 17, 19, 18, 20, 21, 19}
	bars := barSeries(closes)

	first, err := ComputeIndicators(bars)
	require.NoError(t, err)
	second, err := ComputeIndicators(bars)
	require.NoError(t, err)

	// Compare through JSON so undefined cells (null) compare equal.
	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(firstJSON), string(secondJSON))
}
