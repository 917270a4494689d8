package valuation

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/stockpitch/internal/clients/yahoo"
	"github.com/aristath/stockpitch/internal/config"
)

// Service runs the valuation pipeline: assumptions, WACC, DCF, ratios,
// recommendation. Each call is independent; the service holds no state
// beyond configuration.
type Service struct {
	defaults config.ValuationDefaults
	log      zerolog.Logger
}

// NewService creates a new valuation service
func NewService(defaults config.ValuationDefaults, log zerolog.Logger) *Service {
	return &Service{
		defaults: defaults,
		log:      log.With().Str("component", "valuation").Logger(),
	}
}

// Analyze produces a complete valuation report for one company
func (s *Service) Analyze(bundle *yahoo.FinancialBundle, overrides Overrides) (*Report, error) {
	if bundle.Market.CurrentPrice <= 0 {
		return nil, ErrNoValuation
	}

	assumptions, err := ResolveAssumptions(bundle, overrides, s.defaults)
	if err != nil {
		return nil, err
	}

	wacc := ComputeWACC(assumptions)
	if wacc.Clamped {
		s.log.Warn().
			Str("ticker", bundle.Profile.Symbol).
			Float64("unclamped", wacc.UnclampedValue).
			Float64("clamped", wacc.Value).
			Msg("WACC outside sane bounds, clamped")
	}

	dcf, err := ProjectDCF(assumptions, wacc.Value)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Ticker:         bundle.Profile.Symbol,
		CompanyName:    bundle.Profile.LongName,
		GeneratedAt:    time.Now().UTC(),
		CurrentPrice:   bundle.Market.CurrentPrice,
		Currency:       bundle.Profile.Currency,
		Assumptions:    assumptions,
		WACC:           wacc,
		DCF:            dcf,
		Ratios:         ComputeRatios(bundle),
		Recommendation: Recommend(dcf.FairValuePerShare, bundle.Market.CurrentPrice, assumptions.BuyThreshold, assumptions.SellThreshold),
	}

	s.log.Info().
		Str("ticker", report.Ticker).
		Float64("fair_value", dcf.FairValuePerShare).
		Float64("price", report.CurrentPrice).
		Float64("upside", report.Recommendation.Upside).
		Str("action", string(report.Recommendation.Action)).
		Msg("Valuation complete")

	return report, nil
}
