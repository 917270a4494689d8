package valuation

import "time"

// Action is the investment recommendation
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionHold Action = "HOLD"
	ActionSell Action = "SELL"
)

// Overrides are caller-supplied assumption overrides. Nil fields fall
// back to configured defaults or values derived from the financials.
type Overrides struct {
	RiskFreeRate      *float64 `json:"risk_free_rate,omitempty"`
	MarketRiskPremium *float64 `json:"market_risk_premium,omitempty"`
	TerminalGrowth    *float64 `json:"terminal_growth,omitempty"`
	ProjectionYears   *int     `json:"projection_years,omitempty"`
	CostOfDebt        *float64 `json:"cost_of_debt,omitempty"`
	GrowthRate        *float64 `json:"growth_rate,omitempty"`
}

// Assumptions is the fully resolved input set for a single valuation.
// It merges configured defaults, caller overrides and values derived
// from the company's own financials; wacc and dcf computations are pure
// functions of this struct.
type Assumptions struct {
	RiskFreeRate      float64 `json:"risk_free_rate"`
	MarketRiskPremium float64 `json:"market_risk_premium"`
	TerminalGrowth    float64 `json:"terminal_growth"`
	ProjectionYears   int     `json:"projection_years"`

	Beta             float64 `json:"beta"`
	BetaDefaulted    bool    `json:"beta_defaulted"`
	CostOfDebt       float64 `json:"cost_of_debt"`
	CostOfDebtSource string  `json:"cost_of_debt_source"` // "override", "interest_expense", "default"
	TaxRate          float64 `json:"tax_rate"`
	TaxRateSource    string  `json:"tax_rate_source"` // "statements", "default"

	GrowthRate    float64 `json:"growth_rate"`
	GrowthSource  string  `json:"growth_source"` // "override", "fcf_history", "revenue_history", "default"
	GrowthClamped bool    `json:"growth_clamped"`

	// Company inputs
	BaseFCF           float64 `json:"base_fcf"`
	TotalDebt         float64 `json:"total_debt"`
	TotalCash         float64 `json:"total_cash"`
	MarketEquity      float64 `json:"market_equity"`
	SharesOutstanding float64 `json:"shares_outstanding"`

	// Bounds carried through from configuration
	WACCFloor     float64 `json:"wacc_floor"`
	WACCCeiling   float64 `json:"wacc_ceiling"`
	BuyThreshold  float64 `json:"buy_threshold"`
	SellThreshold float64 `json:"sell_threshold"`
}

// WACCBreakdown is the weighted average cost of capital with its
// components, so the deck can show how the discount rate was built.
type WACCBreakdown struct {
	CostOfEquity    float64 `json:"cost_of_equity"`
	CostOfDebt      float64 `json:"cost_of_debt"`
	AfterTaxDebt    float64 `json:"after_tax_cost_of_debt"`
	EquityWeight    float64 `json:"equity_weight"`
	DebtWeight      float64 `json:"debt_weight"`
	TaxRate         float64 `json:"tax_rate"`
	Value           float64 `json:"value"`
	Clamped         bool    `json:"clamped"`
	UnclampedValue  float64 `json:"unclamped_value"`
}

// YearProjection is one explicit projection year of the DCF
type YearProjection struct {
	Year         int     `json:"year"`
	GrowthRate   float64 `json:"growth_rate"`
	FCF          float64 `json:"fcf"`
	PresentValue float64 `json:"present_value"`
}

// DCFResult holds the discounted cash flow outputs
type DCFResult struct {
	Projections       []YearProjection `json:"projections"`
	PVExplicit        float64          `json:"pv_explicit"`
	TerminalValue     float64          `json:"terminal_value"`
	PVTerminal        float64          `json:"pv_terminal"`
	EnterpriseValue   float64          `json:"enterprise_value"`
	EquityValue       float64          `json:"equity_value"`
	FairValuePerShare float64          `json:"fair_value_per_share"`
}

// RatioSet holds supporting ratios. Nil means the inputs required to
// compute the ratio were missing; absent ratios are omitted from output
// rather than reported as zero.
type RatioSet struct {
	TrailingPE      *float64 `json:"trailing_pe,omitempty"`
	ForwardPE       *float64 `json:"forward_pe,omitempty"`
	PriceToBook     *float64 `json:"price_to_book,omitempty"`
	DebtToEquity    *float64 `json:"debt_to_equity,omitempty"`
	CurrentRatio    *float64 `json:"current_ratio,omitempty"`
	QuickRatio      *float64 `json:"quick_ratio,omitempty"`
	ReturnOnEquity  *float64 `json:"return_on_equity,omitempty"`
	ReturnOnAssets  *float64 `json:"return_on_assets,omitempty"`
	ProfitMargin    *float64 `json:"profit_margin,omitempty"`
	GrossMargin     *float64 `json:"gross_margin,omitempty"`
	OperatingMargin *float64 `json:"operating_margin,omitempty"`
	NetMargin       *float64 `json:"net_margin,omitempty"`
	AssetTurnover   *float64 `json:"asset_turnover,omitempty"`
	DividendYield   *float64 `json:"dividend_yield,omitempty"`
	FCFYield        *float64 `json:"fcf_yield,omitempty"`
}

// Recommendation is the output of the threshold policy. Rationale is
// structured so both narrative modes can render it consistently.
type Recommendation struct {
	Action        Action  `json:"action"`
	Upside        float64 `json:"upside"`
	Direction     string  `json:"direction"` // "undervalued", "overvalued", "fairly_valued"
	FairValue     float64 `json:"fair_value"`
	CurrentPrice  float64 `json:"current_price"`
	BuyThreshold  float64 `json:"buy_threshold"`
	SellThreshold float64 `json:"sell_threshold"`
}

// Report is the complete valuation output for one company. It is
// created once per analysis and treated as immutable afterwards.
type Report struct {
	Ticker         string         `json:"ticker"`
	CompanyName    string         `json:"company_name"`
	GeneratedAt    time.Time      `json:"generated_at"`
	CurrentPrice   float64        `json:"current_price"`
	Currency       string         `json:"currency,omitempty"`
	Assumptions    Assumptions    `json:"assumptions"`
	WACC           WACCBreakdown  `json:"wacc"`
	DCF            DCFResult      `json:"dcf"`
	Ratios         RatioSet       `json:"ratios"`
	Recommendation Recommendation `json:"recommendation"`
}
