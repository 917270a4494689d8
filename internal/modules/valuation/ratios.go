package valuation

import "github.com/aristath/stockpitch/internal/clients/yahoo"

// ComputeRatios assembles the supporting ratio set from whatever the
// bundle provides. A ratio whose inputs are missing is omitted rather
// than reported as zero.
func ComputeRatios(bundle *yahoo.FinancialBundle) RatioSet {
	m := bundle.Market
	s := bundle.Statements

	ratios := RatioSet{
		TrailingPE:      positive(m.TrailingPE),
		ForwardPE:       positive(m.ForwardPE),
		PriceToBook:     positive(m.PriceToBook),
		DebtToEquity:    positive(m.DebtToEquity),
		CurrentRatio:    positive(m.CurrentRatio),
		QuickRatio:      positive(m.QuickRatio),
		ReturnOnEquity:  m.ReturnOnEquity,
		ReturnOnAssets:  m.ReturnOnAssets,
		ProfitMargin:    m.ProfitMargins,
		GrossMargin:     m.GrossMargins,
		OperatingMargin: m.OperatingMargins,
		DividendYield:   positive(m.DividendYield),
	}

	// Net margin from the newest income statement year
	if n := len(s.NetIncomeHistory); n > 0 && len(s.RevenueHistory) > 0 {
		revenue := s.RevenueHistory[len(s.RevenueHistory)-1].Value
		if revenue > 0 {
			margin := s.NetIncomeHistory[n-1].Value / revenue
			ratios.NetMargin = &margin
		}
	}

	// Asset turnover from the newest revenue year
	if len(s.RevenueHistory) > 0 && s.TotalAssets != nil && *s.TotalAssets > 0 {
		turnover := s.RevenueHistory[len(s.RevenueHistory)-1].Value / *s.TotalAssets
		ratios.AssetTurnover = &turnover
	}

	// Free cash flow yield against market cap
	if s.FreeCashFlow != nil && m.MarketCap != nil && *m.MarketCap > 0 {
		y := *s.FreeCashFlow / *m.MarketCap
		ratios.FCFYield = &y
	}

	return ratios
}

// positive filters out zero and negative values for ratios where they
// carry no meaning (a negative P/E is reported by Yahoo as absent).
func positive(v *float64) *float64 {
	if v == nil || *v <= 0 {
		return nil
	}
	out := *v
	return &out
}
