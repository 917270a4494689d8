package valuation

import "github.com/aristath/stockpitch/pkg/formulas"

// ComputeWACC calculates the weighted average cost of capital from a
// resolved assumption set.
//
// Cost of equity follows CAPM: riskFree + beta × marketRiskPremium.
// Weights use market values: E = market cap, D = total debt. With no
// debt the WACC collapses to the cost of equity. The result is clamped
// to [WACCFloor, WACCCeiling] and flagged when clamping fired, since
// pathological inputs otherwise produce nonsensical discount rates.
func ComputeWACC(a Assumptions) WACCBreakdown {
	costOfEquity := a.RiskFreeRate + a.Beta*a.MarketRiskPremium
	afterTaxDebt := a.CostOfDebt * (1 - a.TaxRate)

	breakdown := WACCBreakdown{
		CostOfEquity: costOfEquity,
		CostOfDebt:   a.CostOfDebt,
		AfterTaxDebt: afterTaxDebt,
		TaxRate:      a.TaxRate,
	}

	total := a.MarketEquity + a.TotalDebt
	if a.TotalDebt <= 0 || total <= 0 {
		// All-equity capital structure
		breakdown.EquityWeight = 1
		breakdown.DebtWeight = 0
		breakdown.UnclampedValue = costOfEquity
	} else {
		breakdown.EquityWeight = a.MarketEquity / total
		breakdown.DebtWeight = a.TotalDebt / total
		breakdown.UnclampedValue = breakdown.EquityWeight*costOfEquity + breakdown.DebtWeight*afterTaxDebt
	}

	breakdown.Value = formulas.Clamp(breakdown.UnclampedValue, a.WACCFloor, a.WACCCeiling)
	breakdown.Clamped = breakdown.Value != breakdown.UnclampedValue

	return breakdown
}
