package analysis

import (
	"github.com/rs/zerolog"

	"github.com/aristath/stockpitch/internal/clients/yahoo"
	"github.com/aristath/stockpitch/pkg/formulas"
)

// Snapshot summarizes price action over the analysis window. Pointer
// fields are nil when the window is too short for the indicator.
type Snapshot struct {
	SMA20     *float64                 `json:"sma_20,omitempty"`
	SMA50     *float64                 `json:"sma_50,omitempty"`
	SMA200    *float64                 `json:"sma_200,omitempty"`
	RSI14     *float64                 `json:"rsi_14,omitempty"`
	MACD      *formulas.MACDResult     `json:"macd,omitempty"`
	Bollinger *formulas.BollingerBands `json:"bollinger,omitempty"`

	PeriodReturn         *float64 `json:"period_return,omitempty"`
	AnnualizedVolatility *float64 `json:"annualized_volatility,omitempty"`

	// Where the latest close sits in the period's range, 0 at the low
	// and 1 at the high
	RangePosition *float64 `json:"range_position,omitempty"`

	Trend string `json:"trend,omitempty"` // "uptrend", "downtrend", "sideways"
}

// Service computes technical and performance statistics from a price
// history series
type Service struct {
	log zerolog.Logger
}

// NewService creates a new analysis service
func NewService(log zerolog.Logger) *Service {
	return &Service{
		log: log.With().Str("component", "analysis").Logger(),
	}
}

// Analyze computes the snapshot for a price series ordered oldest to
// newest. Every indicator degrades independently: a short series
// simply produces fewer fields.
func (s *Service) Analyze(prices []yahoo.HistoricalPrice) Snapshot {
	closes := make([]float64, 0, len(prices))
	for _, p := range prices {
		if p.Close > 0 {
			closes = append(closes, p.Close)
		}
	}

	snapshot := Snapshot{}
	if len(closes) < 2 {
		s.log.Debug().Int("bars", len(closes)).Msg("Too few bars for analysis")
		return snapshot
	}

	snapshot.SMA20 = formulas.CalculateSMA(closes, 20)
	snapshot.SMA50 = formulas.CalculateSMA(closes, 50)
	snapshot.SMA200 = formulas.CalculateSMA(closes, 200)
	snapshot.RSI14 = formulas.CalculateRSI(closes, 14)
	snapshot.MACD = formulas.CalculateMACD(closes, 12, 26, 9)
	snapshot.Bollinger = formulas.CalculateBollingerBands(closes, 20, 2.0)

	last := closes[len(closes)-1]

	periodReturn := last/closes[0] - 1
	snapshot.PeriodReturn = &periodReturn

	returns := formulas.CalculateReturns(closes)
	if len(returns) > 1 {
		vol := formulas.AnnualizedVolatility(returns)
		snapshot.AnnualizedVolatility = &vol
	}

	if pos := rangePosition(closes, last); pos != nil {
		snapshot.RangePosition = pos
	}

	snapshot.Trend = classifyTrend(last, snapshot.SMA50, snapshot.SMA200)

	return snapshot
}

func rangePosition(closes []float64, last float64) *float64 {
	low, high := closes[0], closes[0]
	for _, c := range closes {
		if c < low {
			low = c
		}
		if c > high {
			high = c
		}
	}
	if high <= low {
		return nil
	}
	pos := (last - low) / (high - low)
	return &pos
}

// classifyTrend compares the latest close against its moving averages
func classifyTrend(last float64, sma50, sma200 *float64) string {
	switch {
	case sma50 == nil:
		return ""
	case sma200 != nil && last > *sma50 && *sma50 > *sma200:
		return "uptrend"
	case sma200 != nil && last < *sma50 && *sma50 < *sma200:
		return "downtrend"
	case sma200 == nil && last > *sma50:
		return "uptrend"
	case sma200 == nil && last < *sma50:
		return "downtrend"
	default:
		return "sideways"
	}
}
