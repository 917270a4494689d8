package valuation

import (
	"fmt"
	"math"
)

// ProjectDCF runs a two-stage discounted cash flow model.
//
// Stage one projects free cash flow over the explicit horizon with a
// growth rate decaying linearly from the starting rate toward the
// terminal rate. Stage two is a Gordon terminal value on the final
// projected year. The terminal formula diverges when the discount rate
// does not exceed terminal growth, so that case is rejected up front.
func ProjectDCF(a Assumptions, wacc float64) (DCFResult, error) {
	if wacc <= a.TerminalGrowth {
		return DCFResult{}, fmt.Errorf("%w: discount rate %.4f must exceed terminal growth %.4f",
			ErrInvalidAssumptions, wacc, a.TerminalGrowth)
	}
	if a.ProjectionYears < 1 {
		return DCFResult{}, fmt.Errorf("%w: projection horizon must be at least 1 year", ErrInvalidAssumptions)
	}
	if a.SharesOutstanding <= 0 {
		return DCFResult{}, fmt.Errorf("%w: shares outstanding unknown or zero", ErrNoValuation)
	}

	result := DCFResult{
		Projections: make([]YearProjection, 0, a.ProjectionYears),
	}

	fcf := a.BaseFCF
	for year := 1; year <= a.ProjectionYears; year++ {
		growth := decayedGrowth(a.GrowthRate, a.TerminalGrowth, year, a.ProjectionYears)
		fcf *= 1 + growth

		pv := fcf / math.Pow(1+wacc, float64(year))
		result.Projections = append(result.Projections, YearProjection{
			Year:         year,
			GrowthRate:   growth,
			FCF:          fcf,
			PresentValue: pv,
		})
		result.PVExplicit += pv
	}

	finalFCF := result.Projections[len(result.Projections)-1].FCF
	result.TerminalValue = finalFCF * (1 + a.TerminalGrowth) / (wacc - a.TerminalGrowth)
	result.PVTerminal = result.TerminalValue / math.Pow(1+wacc, float64(a.ProjectionYears))

	result.EnterpriseValue = result.PVExplicit + result.PVTerminal
	result.EquityValue = result.EnterpriseValue + a.TotalCash - a.TotalDebt
	result.FairValuePerShare = result.EquityValue / a.SharesOutstanding

	return result, nil
}

// decayedGrowth interpolates linearly from the starting growth rate in
// year 1 down to the terminal rate in the final year.
func decayedGrowth(start, terminal float64, year, horizon int) float64 {
	if horizon <= 1 {
		return start
	}
	fraction := float64(year-1) / float64(horizon-1)
	return start + (terminal-start)*fraction
}
