package yahoo

// Response structures for the Yahoo Finance v10 quoteSummary endpoint.
// Yahoo wraps every numeric field in an object with a "raw" value, so
// optional fields are pointers; absent means Yahoo did not report it.

type rawNumber struct {
	Raw float64 `json:"raw"`
}

type rawDate struct {
	Raw int64  `json:"raw"`
	Fmt string `json:"fmt"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []quoteSummaryResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

type quoteSummaryResult struct {
	Price struct {
		Symbol             string     `json:"symbol"`
		LongName           string     `json:"longName"`
		ShortName          string     `json:"shortName"`
		Currency           string     `json:"currency"`
		ExchangeName       string     `json:"exchangeName"`
		RegularMarketPrice *rawNumber `json:"regularMarketPrice"`
		MarketCap          *rawNumber `json:"marketCap"`
	} `json:"price"`

	SummaryProfile struct {
		Industry string `json:"industry"`
		Country  string `json:"country"`
	} `json:"summaryProfile"`

	SummaryDetail struct {
		TrailingPE       *rawNumber `json:"trailingPE"`
		DividendYield    *rawNumber `json:"dividendYield"`
		FiftyTwoWeekHigh *rawNumber `json:"fiftyTwoWeekHigh"`
		FiftyTwoWeekLow  *rawNumber `json:"fiftyTwoWeekLow"`
		Beta             *rawNumber `json:"beta"`
	} `json:"summaryDetail"`

	DefaultKeyStatistics struct {
		SharesOutstanding *rawNumber `json:"sharesOutstanding"`
		Beta              *rawNumber `json:"beta"`
		ForwardPE         *rawNumber `json:"forwardPE"`
		PriceToBook       *rawNumber `json:"priceToBook"`
	} `json:"defaultKeyStatistics"`

	FinancialData struct {
		CurrentPrice     *rawNumber `json:"currentPrice"`
		TotalCash        *rawNumber `json:"totalCash"`
		TotalDebt        *rawNumber `json:"totalDebt"`
		FreeCashflow     *rawNumber `json:"freeCashflow"`
		ReturnOnEquity   *rawNumber `json:"returnOnEquity"`
		ReturnOnAssets   *rawNumber `json:"returnOnAssets"`
		ProfitMargins    *rawNumber `json:"profitMargins"`
		GrossMargins     *rawNumber `json:"grossMargins"`
		OperatingMargins *rawNumber `json:"operatingMargins"`
		DebtToEquity     *rawNumber `json:"debtToEquity"`
		CurrentRatio     *rawNumber `json:"currentRatio"`
		QuickRatio       *rawNumber `json:"quickRatio"`
	} `json:"financialData"`

	IncomeStatementHistory struct {
		IncomeStatementHistory []struct {
			EndDate         rawDate    `json:"endDate"`
			TotalRevenue    *rawNumber `json:"totalRevenue"`
			NetIncome       *rawNumber `json:"netIncome"`
			InterestExpense *rawNumber `json:"interestExpense"`
			IncomeTaxExpense *rawNumber `json:"incomeTaxExpense"`
			IncomeBeforeTax *rawNumber `json:"incomeBeforeTax"`
		} `json:"incomeStatementHistory"`
	} `json:"incomeStatementHistory"`

	BalanceSheetHistory struct {
		BalanceSheetStatements []struct {
			EndDate                rawDate    `json:"endDate"`
			TotalStockholderEquity *rawNumber `json:"totalStockholderEquity"`
			TotalAssets            *rawNumber `json:"totalAssets"`
		} `json:"balanceSheetStatements"`
	} `json:"balanceSheetHistory"`

	CashflowStatementHistory struct {
		CashflowStatements []struct {
			EndDate                          rawDate    `json:"endDate"`
			TotalCashFromOperatingActivities *rawNumber `json:"totalCashFromOperatingActivities"`
			CapitalExpenditures              *rawNumber `json:"capitalExpenditures"`
			FreeCashFlow                     *rawNumber `json:"freeCashFlow"`
		} `json:"cashflowStatements"`
	} `json:"cashflowStatementHistory"`
}

func (r *rawNumber) value() *float64 {
	if r == nil {
		return nil
	}
	v := r.Raw
	return &v
}
