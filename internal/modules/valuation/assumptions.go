package valuation

import (
	"fmt"
	"math"

	"github.com/aristath/stockpitch/internal/clients/yahoo"
	"github.com/aristath/stockpitch/internal/config"
	"github.com/aristath/stockpitch/pkg/formulas"
)

// Bounds for caller-supplied overrides. Anything outside these is a
// typo or an attempt to force a degenerate model.
const (
	maxRiskFreeRate      = 0.20
	maxMarketRiskPremium = 0.20
	minTerminalGrowth    = -0.05
	maxTerminalGrowth    = 0.10
	maxProjectionYears   = 30
	maxCostOfDebt        = 0.50
)

// Plausibility window for a cost of debt derived from the statements;
// outside it the interest expense figure is treated as unreliable.
const (
	derivedCostOfDebtMin = 0.001
	derivedCostOfDebtMax = 0.25
)

// Tax rates derived from statements outside this window fall back to
// the configured default.
const derivedTaxRateMax = 0.60

// ResolveAssumptions merges configured defaults, caller overrides and
// figures derived from the company's statements into a complete
// assumption set.
//
// Structural gaps abort the valuation: a company with no shares
// outstanding or no positive base free cash flow cannot be valued with
// a per-share DCF and yields ErrNoValuation.
func ResolveAssumptions(bundle *yahoo.FinancialBundle, overrides Overrides, defaults config.ValuationDefaults) (Assumptions, error) {
	if err := validateOverrides(overrides, defaults); err != nil {
		return Assumptions{}, err
	}

	a := Assumptions{
		RiskFreeRate:      pick(overrides.RiskFreeRate, defaults.RiskFreeRate),
		MarketRiskPremium: pick(overrides.MarketRiskPremium, defaults.MarketRiskPremium),
		TerminalGrowth:    pick(overrides.TerminalGrowth, defaults.TerminalGrowth),
		ProjectionYears:   defaults.ProjectionYears,
		WACCFloor:         defaults.WACCFloor,
		WACCCeiling:       defaults.WACCCeiling,
		BuyThreshold:      defaults.BuyThreshold,
		SellThreshold:     defaults.SellThreshold,
	}
	if overrides.ProjectionYears != nil {
		a.ProjectionYears = *overrides.ProjectionYears
	}

	// Beta defaults to the market when Yahoo does not report one
	if bundle.Market.Beta != nil && *bundle.Market.Beta > 0 {
		a.Beta = *bundle.Market.Beta
	} else {
		a.Beta = 1.0
		a.BetaDefaulted = true
	}

	resolveCapitalStructure(&a, bundle)
	resolveCostOfDebt(&a, bundle, overrides, defaults)
	resolveTaxRate(&a, bundle, defaults)
	resolveGrowth(&a, bundle, overrides, defaults)

	if a.SharesOutstanding <= 0 {
		return Assumptions{}, fmt.Errorf("%w: shares outstanding unknown or zero", ErrNoValuation)
	}
	if a.BaseFCF <= 0 {
		return Assumptions{}, fmt.Errorf("%w: no positive free cash flow to project", ErrNoValuation)
	}

	return a, nil
}

func resolveCapitalStructure(a *Assumptions, bundle *yahoo.FinancialBundle) {
	s := bundle.Statements

	if s.SharesOutstanding != nil {
		a.SharesOutstanding = *s.SharesOutstanding
	}
	if s.TotalDebt != nil && *s.TotalDebt > 0 {
		a.TotalDebt = *s.TotalDebt
	}
	if s.TotalCash != nil && *s.TotalCash > 0 {
		a.TotalCash = *s.TotalCash
	}
	if s.FreeCashFlow != nil {
		a.BaseFCF = *s.FreeCashFlow
	}

	// Market value of equity: reported market cap, else price × shares
	if bundle.Market.MarketCap != nil && *bundle.Market.MarketCap > 0 {
		a.MarketEquity = *bundle.Market.MarketCap
	} else if a.SharesOutstanding > 0 && bundle.Market.CurrentPrice > 0 {
		a.MarketEquity = a.SharesOutstanding * bundle.Market.CurrentPrice
	}
}

func resolveCostOfDebt(a *Assumptions, bundle *yahoo.FinancialBundle, overrides Overrides, defaults config.ValuationDefaults) {
	if overrides.CostOfDebt != nil {
		a.CostOfDebt = *overrides.CostOfDebt
		a.CostOfDebtSource = "override"
		return
	}

	s := bundle.Statements
	if s.InterestExpense != nil && a.TotalDebt > 0 {
		// Yahoo reports interest expense as a negative line item
		derived := math.Abs(*s.InterestExpense) / a.TotalDebt
		if derived >= derivedCostOfDebtMin && derived <= derivedCostOfDebtMax {
			a.CostOfDebt = derived
			a.CostOfDebtSource = "interest_expense"
			return
		}
	}

	a.CostOfDebt = defaults.DefaultCostOfDebt
	a.CostOfDebtSource = "default"
}

func resolveTaxRate(a *Assumptions, bundle *yahoo.FinancialBundle, defaults config.ValuationDefaults) {
	s := bundle.Statements
	if s.TaxProvision != nil && s.PretaxIncome != nil && *s.PretaxIncome > 0 {
		derived := *s.TaxProvision / *s.PretaxIncome
		if derived >= 0 && derived <= derivedTaxRateMax {
			a.TaxRate = derived
			a.TaxRateSource = "statements"
			return
		}
	}

	a.TaxRate = defaults.DefaultTaxRate
	a.TaxRateSource = "default"
}

func resolveGrowth(a *Assumptions, bundle *yahoo.FinancialBundle, overrides Overrides, defaults config.ValuationDefaults) {
	if overrides.GrowthRate != nil {
		a.GrowthRate = *overrides.GrowthRate
		a.GrowthSource = "override"
		return
	}

	raw, source := historicalGrowth(bundle)
	if source == "" {
		a.GrowthRate = defaults.DefaultGrowth
		a.GrowthSource = "default"
		return
	}

	a.GrowthRate = formulas.Clamp(raw, defaults.GrowthFloor, defaults.GrowthCeiling)
	a.GrowthClamped = a.GrowthRate != raw
	a.GrowthSource = source
}

// historicalGrowth derives a growth rate from the trailing free cash
// flow series, falling back to revenue when the FCF series is unusable.
func historicalGrowth(bundle *yahoo.FinancialBundle) (float64, string) {
	if g := formulas.AnnualGrowthCAGR(annualValues(bundle.Statements.FCFHistory)); g != nil {
		return *g, "fcf_history"
	}
	if g := formulas.AnnualGrowthCAGR(annualValues(bundle.Statements.RevenueHistory)); g != nil {
		return *g, "revenue_history"
	}
	return 0, ""
}

func annualValues(history []yahoo.AnnualValue) []float64 {
	values := make([]float64, 0, len(history))
	for _, h := range history {
		values = append(values, h.Value)
	}
	return values
}

func validateOverrides(o Overrides, defaults config.ValuationDefaults) error {
	if o.RiskFreeRate != nil && (*o.RiskFreeRate < 0 || *o.RiskFreeRate > maxRiskFreeRate) {
		return fmt.Errorf("%w: risk-free rate %.4f outside [0, %.2f]", ErrInvalidAssumptions, *o.RiskFreeRate, maxRiskFreeRate)
	}
	if o.MarketRiskPremium != nil && (*o.MarketRiskPremium < 0 || *o.MarketRiskPremium > maxMarketRiskPremium) {
		return fmt.Errorf("%w: market risk premium %.4f outside [0, %.2f]", ErrInvalidAssumptions, *o.MarketRiskPremium, maxMarketRiskPremium)
	}
	if o.TerminalGrowth != nil && (*o.TerminalGrowth < minTerminalGrowth || *o.TerminalGrowth > maxTerminalGrowth) {
		return fmt.Errorf("%w: terminal growth %.4f outside [%.2f, %.2f]", ErrInvalidAssumptions, *o.TerminalGrowth, minTerminalGrowth, maxTerminalGrowth)
	}
	if o.ProjectionYears != nil && (*o.ProjectionYears < 1 || *o.ProjectionYears > maxProjectionYears) {
		return fmt.Errorf("%w: projection years %d outside [1, %d]", ErrInvalidAssumptions, *o.ProjectionYears, maxProjectionYears)
	}
	if o.CostOfDebt != nil && (*o.CostOfDebt < 0 || *o.CostOfDebt > maxCostOfDebt) {
		return fmt.Errorf("%w: cost of debt %.4f outside [0, %.2f]", ErrInvalidAssumptions, *o.CostOfDebt, maxCostOfDebt)
	}
	if o.GrowthRate != nil && (*o.GrowthRate < defaults.GrowthFloor || *o.GrowthRate > defaults.GrowthCeiling) {
		return fmt.Errorf("%w: growth rate %.4f outside [%.2f, %.2f]", ErrInvalidAssumptions, *o.GrowthRate, defaults.GrowthFloor, defaults.GrowthCeiling)
	}
	return nil
}

func pick(override *float64, fallback float64) float64 {
	if override != nil {
		return *override
	}
	return fallback
}
