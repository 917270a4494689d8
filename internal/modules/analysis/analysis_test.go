package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/stockpitch/internal/clients/yahoo"
)

func makePrices(start, step float64, n int) []yahoo.HistoricalPrice {
	prices := make([]yahoo.HistoricalPrice, n)
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range prices {
		close := start + step*float64(i)
		prices[i] = yahoo.HistoricalPrice{
			Date:  base.AddDate(0, 0, i),
			Open:  close,
			High:  close + 1,
			Low:   close - 1,
			Close: close,
		}
	}
	return prices
}

func TestAnalyze_RisingSeries(t *testing.T) {
	svc := NewService(zerolog.Nop())

	snapshot := svc.Analyze(makePrices(100, 0.5, 250))

	require.NotNil(t, snapshot.SMA20)
	require.NotNil(t, snapshot.SMA50)
	require.NotNil(t, snapshot.SMA200)
	require.NotNil(t, snapshot.RSI14)
	require.NotNil(t, snapshot.MACD)
	require.NotNil(t, snapshot.Bollinger)

	// Rising series: price above both averages, short above long
	assert.Equal(t, "uptrend", snapshot.Trend)
	assert.Greater(t, *snapshot.RSI14, 60.0)

	require.NotNil(t, snapshot.PeriodReturn)
	expectedReturn := (100+0.5*249)/100 - 1
	assert.InDelta(t, expectedReturn, *snapshot.PeriodReturn, 1e-9)

	require.NotNil(t, snapshot.RangePosition)
	assert.InDelta(t, 1.0, *snapshot.RangePosition, 1e-9) // last close is the high

	require.NotNil(t, snapshot.AnnualizedVolatility)
	assert.Greater(t, *snapshot.AnnualizedVolatility, 0.0)
}

func TestAnalyze_FallingSeries(t *testing.T) {
	svc := NewService(zerolog.Nop())

	snapshot := svc.Analyze(makePrices(300, -0.5, 250))

	assert.Equal(t, "downtrend", snapshot.Trend)
	require.NotNil(t, snapshot.RangePosition)
	assert.InDelta(t, 0.0, *snapshot.RangePosition, 1e-9) // last close is the low
	require.NotNil(t, snapshot.PeriodReturn)
	assert.Less(t, *snapshot.PeriodReturn, 0.0)
}

func TestAnalyze_ShortSeriesDegrades(t *testing.T) {
	svc := NewService(zerolog.Nop())

	// 30 bars: enough for RSI and Bollinger, not for SMA50/SMA200/MACD
	snapshot := svc.Analyze(makePrices(100, 1, 30))

	assert.Nil(t, snapshot.SMA50)
	assert.Nil(t, snapshot.SMA200)
	assert.Nil(t, snapshot.MACD)
	assert.NotNil(t, snapshot.SMA20)
	assert.NotNil(t, snapshot.RSI14)
	assert.NotNil(t, snapshot.Bollinger)
	assert.NotNil(t, snapshot.PeriodReturn)
	assert.Empty(t, snapshot.Trend)
}

func TestAnalyze_EmptyAndTinySeries(t *testing.T) {
	svc := NewService(zerolog.Nop())

	empty := svc.Analyze(nil)
	assert.Nil(t, empty.PeriodReturn)
	assert.Nil(t, empty.RangePosition)

	single := svc.Analyze(makePrices(100, 0, 1))
	assert.Nil(t, single.PeriodReturn)
}

func TestAnalyze_FlatSeriesHasNoRangePosition(t *testing.T) {
	svc := NewService(zerolog.Nop())

	snapshot := svc.Analyze(makePrices(100, 0, 60))

	// Zero range: position undefined, volatility zero
	assert.Nil(t, snapshot.RangePosition)
	require.NotNil(t, snapshot.AnnualizedVolatility)
	assert.InDelta(t, 0.0, *snapshot.AnnualizedVolatility, 1e-12)
}

func TestAnalyze_SkipsNonPositiveCloses(t *testing.T) {
	svc := NewService(zerolog.Nop())

	prices := makePrices(100, 1, 10)
	prices[3].Close = 0 // bad bar dropped, not propagated as a return spike

	snapshot := svc.Analyze(prices)
	require.NotNil(t, snapshot.PeriodReturn)
	assert.False(t, math.IsNaN(*snapshot.PeriodReturn))
}
