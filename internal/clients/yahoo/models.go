package yahoo

import "time"

// HistoricalPrice represents a single OHLCV bar
type HistoricalPrice struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	Volume   int64     `json:"volume"`
	AdjClose float64   `json:"adj_close"`
}

// AnnualValue is one fiscal-year data point from a financial statement,
// ordered oldest to newest in the slices that carry them.
type AnnualValue struct {
	EndDate time.Time `json:"end_date"`
	Value   float64   `json:"value"`
}

// CompanyProfile holds descriptive company information
type CompanyProfile struct {
	Symbol    string `json:"symbol"`
	LongName  string `json:"long_name"`
	ShortName string `json:"short_name,omitempty"`
	Industry  string `json:"industry,omitempty"`
	Country   string `json:"country,omitempty"`
	Exchange  string `json:"exchange,omitempty"`
	Currency  string `json:"currency,omitempty"`
}

// MarketSnapshot holds current market data for a symbol.
// Optional fields are pointers; nil means Yahoo did not report the value.
type MarketSnapshot struct {
	CurrentPrice     float64  `json:"current_price"`
	MarketCap        *float64 `json:"market_cap,omitempty"`
	Beta             *float64 `json:"beta,omitempty"`
	TrailingPE       *float64 `json:"trailing_pe,omitempty"`
	ForwardPE        *float64 `json:"forward_pe,omitempty"`
	PriceToBook      *float64 `json:"price_to_book,omitempty"`
	DividendYield    *float64 `json:"dividend_yield,omitempty"`
	FiftyTwoWeekHigh *float64 `json:"fifty_two_week_high,omitempty"`
	FiftyTwoWeekLow  *float64 `json:"fifty_two_week_low,omitempty"`
	ReturnOnEquity   *float64 `json:"return_on_equity,omitempty"`
	ReturnOnAssets   *float64 `json:"return_on_assets,omitempty"`
	ProfitMargins    *float64 `json:"profit_margins,omitempty"`
	GrossMargins     *float64 `json:"gross_margins,omitempty"`
	OperatingMargins *float64 `json:"operating_margins,omitempty"`
	DebtToEquity     *float64 `json:"debt_to_equity,omitempty"`
	CurrentRatio     *float64 `json:"current_ratio,omitempty"`
	QuickRatio       *float64 `json:"quick_ratio,omitempty"`
}

// Statements holds the balance-sheet, income and cash-flow figures the
// valuation model consumes. Histories are ordered oldest to newest.
type Statements struct {
	SharesOutstanding *float64 `json:"shares_outstanding,omitempty"`
	TotalDebt         *float64 `json:"total_debt,omitempty"`
	TotalCash         *float64 `json:"total_cash,omitempty"`
	TotalEquity       *float64 `json:"total_equity,omitempty"`
	TotalAssets       *float64 `json:"total_assets,omitempty"`
	FreeCashFlow      *float64 `json:"free_cash_flow,omitempty"`
	InterestExpense   *float64 `json:"interest_expense,omitempty"`
	TaxProvision      *float64 `json:"tax_provision,omitempty"`
	PretaxIncome      *float64 `json:"pretax_income,omitempty"`

	FCFHistory       []AnnualValue `json:"fcf_history,omitempty"`
	RevenueHistory   []AnnualValue `json:"revenue_history,omitempty"`
	NetIncomeHistory []AnnualValue `json:"net_income_history,omitempty"`
}

// FinancialBundle aggregates everything a pitch needs for one company
type FinancialBundle struct {
	Profile    CompanyProfile  `json:"profile"`
	Market     MarketSnapshot  `json:"market"`
	Statements Statements      `json:"statements"`
	FetchedAt  time.Time       `json:"fetched_at"`
}
