package formulas

import (
	"math"

	"github.com/markcheno/go-talib"
)

// BollingerBands represents Bollinger Bands values
type BollingerBands struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// MACDResult holds the last MACD line, signal line and histogram values
type MACDResult struct {
	MACD      float64 `json:"macd"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

func isNaN(f float64) bool {
	return math.IsNaN(f)
}

// lastValid returns the last non-NaN value of a talib output series.
func lastValid(series []float64) *float64 {
	for i := len(series) - 1; i >= 0; i-- {
		if !isNaN(series[i]) && series[i] != 0 {
			v := series[i]
			return &v
		}
	}
	return nil
}

// CalculateSMA calculates the simple moving average over the given period
// and returns the most recent value, or nil if there is insufficient data.
func CalculateSMA(closes []float64, length int) *float64 {
	if len(closes) < length {
		return nil
	}

	sma := talib.Sma(closes, length)
	return lastValid(sma)
}

// CalculateEMA calculates the exponential moving average over the given
// period and returns the most recent value.
func CalculateEMA(closes []float64, length int) *float64 {
	if len(closes) < length {
		return nil
	}

	ema := talib.Ema(closes, length)
	return lastValid(ema)
}

// CalculateRSI calculates the Relative Strength Index (Wilder smoothing)
// and returns the most recent value. Needs at least length+1 closes.
func CalculateRSI(closes []float64, length int) *float64 {
	if len(closes) < length+1 {
		return nil
	}

	rsi := talib.Rsi(closes, length)
	return lastValid(rsi)
}

// CalculateMACD calculates MACD(fast, slow, signal) and returns the most
// recent line, signal and histogram values.
func CalculateMACD(closes []float64, fast, slow, signal int) *MACDResult {
	if len(closes) < slow+signal {
		return nil
	}

	macd, macdSignal, hist := talib.Macd(closes, fast, slow, signal)

	last := len(macd) - 1
	if last < 0 || isNaN(macd[last]) || isNaN(macdSignal[last]) {
		return nil
	}

	return &MACDResult{
		MACD:      macd[last],
		Signal:    macdSignal[last],
		Histogram: hist[last],
	}
}

// CalculateBollingerBands calculates Bollinger Bands
//
// Bollinger Bands Formula:
//
//	Middle Band = N-day SMA
//	Upper Band = Middle + (multiplier × std deviation)
//	Lower Band = Middle - (multiplier × std deviation)
//
// Returns the most recent band values or nil if insufficient data.
func CalculateBollingerBands(closes []float64, length int, stdDevMultiplier float64) *BollingerBands {
	if len(closes) < length {
		return nil
	}

	// Parameters: inReal, inTimePeriod, inNbDevUp, inNbDevDn, inMAType
	// MAType 0 = SMA (Simple Moving Average)
	upper, middle, lower := talib.BBands(closes, length, stdDevMultiplier, stdDevMultiplier, 0)

	if len(upper) > 0 && !isNaN(upper[len(upper)-1]) {
		return &BollingerBands{
			Upper:  upper[len(upper)-1],
			Middle: middle[len(middle)-1],
			Lower:  lower[len(lower)-1],
		}
	}

	return nil
}
