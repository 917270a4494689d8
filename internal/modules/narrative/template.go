package narrative

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aristath/stockpitch/internal/modules/valuation"
)

// TemplateProvider produces a deterministic, rule-based narrative from
// the valuation report. It is the free path and the fallback when the
// premium provider is unavailable.
type TemplateProvider struct {
	log zerolog.Logger
}

// NewTemplateProvider creates a new template narrative provider
func NewTemplateProvider(log zerolog.Logger) *TemplateProvider {
	return &TemplateProvider{
		log: log.With().Str("component", "narrative-template").Logger(),
	}
}

// Mode returns the provider identifier
func (p *TemplateProvider) Mode() string { return ModeTemplate }

// Generate builds the narrative. It never fails: every sentence is a
// pure function of the report.
func (p *TemplateProvider) Generate(_ context.Context, input Input) (*Narrative, error) {
	r := input.Report

	return &Narrative{
		ExecutiveSummary: executiveSummary(r),
		InvestmentThesis: investmentThesis(r),
		Highlights:       highlights(input),
		Risks:            risks(input),
		DetailedAnalysis: detailedAnalysis(r),
		Mode:             ModeTemplate,
	}, nil
}

func pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func executiveSummary(r *valuation.Report) string {
	rec := r.Recommendation
	return fmt.Sprintf(
		"%s (%s) trades at %.2f against an estimated fair value of %.2f per share, implying %s %s. Our DCF model, discounted at a WACC of %s, supports a %s rating.",
		r.CompanyName, r.Ticker, r.CurrentPrice, rec.FairValue,
		pct(absFloat(rec.Upside)), upsideWord(rec.Upside),
		pct(r.WACC.Value), rec.Action,
	)
}

func upsideWord(upside float64) string {
	if upside >= 0 {
		return "upside"
	}
	return "downside"
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func investmentThesis(r *valuation.Report) string {
	var b strings.Builder

	switch r.Recommendation.Action {
	case valuation.ActionBuy:
		fmt.Fprintf(&b, "The market is pricing %s below its intrinsic value. ", r.Ticker)
	case valuation.ActionSell:
		fmt.Fprintf(&b, "The current price of %s runs ahead of what its cash flows support. ", r.Ticker)
	default:
		fmt.Fprintf(&b, "%s appears fairly priced relative to its cash generation. ", r.Ticker)
	}

	fmt.Fprintf(&b, "Projected free cash flow grows at %s initially, decaying to a %s terminal rate over %d years.",
		pct(r.Assumptions.GrowthRate), pct(r.Assumptions.TerminalGrowth), r.Assumptions.ProjectionYears)

	if pe := r.Ratios.TrailingPE; pe != nil {
		if *pe < 15 {
			fmt.Fprintf(&b, " A trailing P/E of %.1f suggests an undemanding valuation.", *pe)
		} else if *pe > 30 {
			fmt.Fprintf(&b, " A trailing P/E of %.1f already embeds high expectations.", *pe)
		}
	}

	return b.String()
}

func highlights(input Input) []string {
	r := input.Report
	var out []string

	if mc := r.Assumptions.MarketEquity; mc > 0 {
		switch {
		case mc >= 10e9:
			out = append(out, fmt.Sprintf("Large-cap company (market cap %s) with established market position", formatMoney(mc)))
		case mc >= 2e9:
			out = append(out, fmt.Sprintf("Mid-cap company (market cap %s) with room to scale", formatMoney(mc)))
		default:
			out = append(out, fmt.Sprintf("Small-cap company (market cap %s) with higher growth potential", formatMoney(mc)))
		}
	}

	if g := r.Assumptions.GrowthRate; g > 0.08 {
		out = append(out, fmt.Sprintf("Free cash flow compounding at %s historically", pct(g)))
	}
	if y := r.Ratios.FCFYield; y != nil && *y > 0.05 {
		out = append(out, fmt.Sprintf("Free cash flow yield of %s on current market cap", pct(*y)))
	}
	if dy := r.Ratios.DividendYield; dy != nil && *dy > 0.02 {
		out = append(out, fmt.Sprintf("Dividend yield of %s provides income support", pct(*dy)))
	}
	if pe := r.Ratios.TrailingPE; pe != nil && *pe < 15 {
		out = append(out, fmt.Sprintf("Trades at %.1fx trailing earnings, below typical market multiples", *pe))
	}
	if beta := r.Assumptions.Beta; !r.Assumptions.BetaDefaulted && beta < 0.8 {
		out = append(out, fmt.Sprintf("Low beta of %.2f adds defensive characteristics", beta))
	}

	if pos := input.Technicals.RangePosition; pos != nil {
		switch {
		case *pos < 0.3:
			out = append(out, "Trading near the lower end of its range, a potential entry point")
		case *pos > 0.7 && *pos <= 0.95:
			out = append(out, "Strong price momentum in the upper part of its range")
		}
	}
	if input.Technicals.Trend == "uptrend" {
		out = append(out, "Price holds above its major moving averages")
	}

	if len(out) == 0 {
		out = append(out, "Valuation rests on stable projected free cash flow")
	}

	return out
}

func risks(input Input) []string {
	r := input.Report
	var out []string

	if beta := r.Assumptions.Beta; beta > 1.5 {
		out = append(out, fmt.Sprintf("Beta of %.2f implies materially higher volatility than the market", beta))
	} else if beta > 1.2 {
		out = append(out, fmt.Sprintf("Beta of %.2f makes the stock more volatile than the market", beta))
	}

	if pe := r.Ratios.TrailingPE; pe != nil && *pe > 30 {
		out = append(out, fmt.Sprintf("Elevated P/E of %.1f leaves little margin for execution missteps", *pe))
	}
	if de := r.Ratios.DebtToEquity; de != nil && *de > 100 {
		out = append(out, "High leverage increases sensitivity to rate and refinancing conditions")
	}
	if r.Assumptions.GrowthRate < 0 {
		out = append(out, "Historical cash flow has been shrinking; the model assumes the decline moderates")
	}
	if r.Assumptions.GrowthClamped {
		out = append(out, "Historical growth was clamped to the model's bounds and may not persist")
	}
	if r.WACC.Clamped {
		out = append(out, "Discount rate was clamped to a sane bound; inputs are unusual for this company")
	}

	if pos := input.Technicals.RangePosition; pos != nil && *pos > 0.95 {
		out = append(out, "Price sits at the top of its range, limiting near-term upside")
	}
	if vol := input.Technicals.AnnualizedVolatility; vol != nil && *vol > 0.40 {
		out = append(out, fmt.Sprintf("Annualized volatility of %s demands position sizing discipline", pct(*vol)))
	}

	// Always present: the model itself is a risk
	out = append(out, "DCF outputs are sensitive to growth and discount-rate assumptions")

	return out
}

func detailedAnalysis(r *valuation.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## Discounted Cash Flow\n\n")
	fmt.Fprintf(&b, "| Year | Growth | Projected FCF | Present Value |\n")
	fmt.Fprintf(&b, "|------|--------|---------------|---------------|\n")
	for _, p := range r.DCF.Projections {
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", p.Year, pct(p.GrowthRate), formatMoney(p.FCF), formatMoney(p.PresentValue))
	}
	fmt.Fprintf(&b, "\nTerminal value of %s contributes %s after discounting. ", formatMoney(r.DCF.TerminalValue), formatMoney(r.DCF.PVTerminal))
	fmt.Fprintf(&b, "Enterprise value of %s adjusts to an equity value of %s after net debt.\n\n", formatMoney(r.DCF.EnterpriseValue), formatMoney(r.DCF.EquityValue))

	fmt.Fprintf(&b, "## Cost of Capital\n\n")
	fmt.Fprintf(&b, "Cost of equity %s (risk-free %s, beta %.2f, market premium %s); ",
		pct(r.WACC.CostOfEquity), pct(r.Assumptions.RiskFreeRate), r.Assumptions.Beta, pct(r.Assumptions.MarketRiskPremium))
	fmt.Fprintf(&b, "after-tax cost of debt %s at %s tax. ", pct(r.WACC.AfterTaxDebt), pct(r.WACC.TaxRate))
	fmt.Fprintf(&b, "Weights: %s equity, %s debt. WACC %s.\n",
		pct(r.WACC.EquityWeight), pct(r.WACC.DebtWeight), pct(r.WACC.Value))

	return b.String()
}

func formatMoney(v float64) string {
	abs := absFloat(v)
	switch {
	case abs >= 1e12:
		return fmt.Sprintf("$%.2fT", v/1e12)
	case abs >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("$%.2fK", v/1e3)
	default:
		return fmt.Sprintf("$%.2f", v)
	}
}
