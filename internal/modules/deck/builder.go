package deck

import (
	"fmt"
	"strings"
	"time"

	"github.com/aristath/stockpitch/internal/clients/yahoo"
	"github.com/aristath/stockpitch/internal/modules/analysis"
	"github.com/aristath/stockpitch/internal/modules/narrative"
	"github.com/aristath/stockpitch/internal/modules/valuation"
)

const disclaimerText = `This presentation was generated automatically from public market data. ` +
	`It is not investment advice. Valuation models rest on assumptions that may prove wrong; ` +
	`past performance does not predict future results. Do your own research before investing.`

// Build assembles the slide deck from the valuation report, the
// narrative text and the technical snapshot
func Build(report *valuation.Report, n *narrative.Narrative, tech analysis.Snapshot, profile yahoo.CompanyProfile) *Deck {
	d := &Deck{
		Ticker:      report.Ticker,
		CompanyName: report.CompanyName,
		GeneratedAt: report.GeneratedAt,
		Mode:        n.Mode,
		Downgraded:  n.Downgraded,
	}

	d.Slides = append(d.Slides, titleSlide(report, n))
	d.Slides = append(d.Slides, execSummarySlide(report, n))
	d.Slides = append(d.Slides, companySlide(report, profile, tech))
	d.Slides = append(d.Slides, financialsSlide(report, tech))
	d.Slides = append(d.Slides, dcfSlide(n))
	d.Slides = append(d.Slides, thesisSlide(n))
	d.Slides = append(d.Slides, risksSlide(n))
	d.Slides = append(d.Slides, recommendationSlide(report, n))
	d.Slides = append(d.Slides, Slide{
		Kind:  SlideDisclaimer,
		Title: "Disclaimer",
		Body:  disclaimerText,
	})

	return d
}

func titleSlide(report *valuation.Report, n *narrative.Narrative) Slide {
	subtitle := fmt.Sprintf("Investment Analysis - %s\n%s", report.CompanyName, report.GeneratedAt.Format("January 2, 2006"))

	body := ""
	if n.Downgraded {
		body = "_" + n.DowngradeReason + "_"
	}

	return Slide{
		Kind:     SlideTitle,
		Title:    fmt.Sprintf("%s Stock Pitch", report.Ticker),
		Subtitle: subtitle,
		Body:     body,
	}
}

func execSummarySlide(report *valuation.Report, n *narrative.Narrative) Slide {
	var b strings.Builder
	b.WriteString(n.ExecutiveSummary)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "- **Current price**: %.2f %s\n", report.CurrentPrice, report.Currency)
	fmt.Fprintf(&b, "- **Fair value**: %.2f %s\n", report.DCF.FairValuePerShare, report.Currency)
	fmt.Fprintf(&b, "- **Upside**: %.1f%%\n", report.Recommendation.Upside*100)
	fmt.Fprintf(&b, "- **WACC**: %.2f%%\n", report.WACC.Value*100)
	fmt.Fprintf(&b, "- **Recommendation**: %s\n", report.Recommendation.Action)

	return Slide{Kind: SlideExecSummary, Title: "Executive Summary", Body: b.String()}
}

func companySlide(report *valuation.Report, profile yahoo.CompanyProfile, tech analysis.Snapshot) Slide {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s** (%s)\n\n", report.CompanyName, report.Ticker)
	if profile.Industry != "" {
		fmt.Fprintf(&b, "- Industry: %s\n", profile.Industry)
	}
	if profile.Country != "" {
		fmt.Fprintf(&b, "- Country: %s\n", profile.Country)
	}
	if profile.Exchange != "" {
		fmt.Fprintf(&b, "- Exchange: %s\n", profile.Exchange)
	}
	if report.Assumptions.MarketEquity > 0 {
		fmt.Fprintf(&b, "- Market cap: %s\n", money(report.Assumptions.MarketEquity))
	}
	if tech.Trend != "" {
		fmt.Fprintf(&b, "- Price trend: %s\n", strings.ReplaceAll(tech.Trend, "_", " "))
	}
	if tech.PeriodReturn != nil {
		fmt.Fprintf(&b, "- Return over analysis period: %.1f%%\n", *tech.PeriodReturn*100)
	}

	return Slide{Kind: SlideCompany, Title: "Company Overview", Body: b.String()}
}

func financialsSlide(report *valuation.Report, tech analysis.Snapshot) Slide {
	var b strings.Builder

	b.WriteString("### Key Ratios\n\n")
	writeRatio(&b, "Trailing P/E", report.Ratios.TrailingPE, "%.1f")
	writeRatio(&b, "Forward P/E", report.Ratios.ForwardPE, "%.1f")
	writeRatio(&b, "Price / Book", report.Ratios.PriceToBook, "%.2f")
	writeRatio(&b, "Debt / Equity", report.Ratios.DebtToEquity, "%.1f")
	writeRatio(&b, "Current ratio", report.Ratios.CurrentRatio, "%.2f")
	writeRatio(&b, "Quick ratio", report.Ratios.QuickRatio, "%.2f")
	writeRatioPct(&b, "Return on equity", report.Ratios.ReturnOnEquity)
	writeRatioPct(&b, "Return on assets", report.Ratios.ReturnOnAssets)
	writeRatioPct(&b, "Gross margin", report.Ratios.GrossMargin)
	writeRatioPct(&b, "Operating margin", report.Ratios.OperatingMargin)
	writeRatioPct(&b, "Profit margin", report.Ratios.ProfitMargin)
	writeRatioPct(&b, "Net margin", report.Ratios.NetMargin)
	writeRatio(&b, "Asset turnover", report.Ratios.AssetTurnover, "%.2f")
	writeRatioPct(&b, "Dividend yield", report.Ratios.DividendYield)
	writeRatioPct(&b, "FCF yield", report.Ratios.FCFYield)

	b.WriteString("\n### Technicals\n\n")
	writeRatio(&b, "RSI (14)", tech.RSI14, "%.1f")
	writeRatio(&b, "SMA 50", tech.SMA50, "%.2f")
	writeRatio(&b, "SMA 200", tech.SMA200, "%.2f")
	writeRatioPct(&b, "Annualized volatility", tech.AnnualizedVolatility)
	if tech.RangePosition != nil {
		fmt.Fprintf(&b, "- Range position: %.0f%% of period range\n", *tech.RangePosition*100)
	}

	return Slide{Kind: SlideFinancials, Title: "Financial Analysis", Body: b.String()}
}

func writeRatio(b *strings.Builder, label string, v *float64, format string) {
	if v == nil {
		return
	}
	fmt.Fprintf(b, "- %s: "+format+"\n", label, *v)
}

func writeRatioPct(b *strings.Builder, label string, v *float64) {
	if v == nil {
		return
	}
	fmt.Fprintf(b, "- %s: %.1f%%\n", label, *v*100)
}

func dcfSlide(n *narrative.Narrative) Slide {
	return Slide{Kind: SlideDCF, Title: "Valuation Detail", Body: n.DetailedAnalysis}
}

func thesisSlide(n *narrative.Narrative) Slide {
	var b strings.Builder
	b.WriteString(n.InvestmentThesis)
	if len(n.Highlights) > 0 {
		b.WriteString("\n\n### Key Highlights\n\n")
		for _, h := range n.Highlights {
			fmt.Fprintf(&b, "- %s\n", h)
		}
	}

	return Slide{Kind: SlideThesis, Title: "Investment Thesis", Body: b.String()}
}

func risksSlide(n *narrative.Narrative) Slide {
	var b strings.Builder
	for _, r := range n.Risks {
		fmt.Fprintf(&b, "- %s\n", r)
	}

	return Slide{Kind: SlideRisks, Title: "Risk Analysis", Body: b.String()}
}

func recommendationSlide(report *valuation.Report, n *narrative.Narrative) Slide {
	rec := report.Recommendation

	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", rec.Action)
	fmt.Fprintf(&b, "Fair value %.2f vs. market price %.2f: %.1f%% %s.\n\n",
		rec.FairValue, rec.CurrentPrice, absVal(rec.Upside)*100, directionWord(rec.Upside))
	fmt.Fprintf(&b, "Policy: BUY above %.0f%% upside, SELL below %.0f%%.\n",
		rec.BuyThreshold*100, rec.SellThreshold*100)

	return Slide{Kind: SlideRecommendation, Title: "Investment Recommendation", Body: b.String()}
}

func directionWord(upside float64) string {
	if upside >= 0 {
		return "upside"
	}
	return "downside"
}

func absVal(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func money(v float64) string {
	abs := absVal(v)
	switch {
	case abs >= 1e12:
		return fmt.Sprintf("$%.2fT", v/1e12)
	case abs >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

// Filename builds the output filename for a deck
func Filename(ticker string, generatedAt time.Time, suffix string) string {
	return fmt.Sprintf("%s_stock_pitch_%s_%s.html", ticker, generatedAt.Format("20060102_150405"), suffix)
}
