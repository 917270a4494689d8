package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wnjoon/go-yfinance/pkg/models"
	"github.com/wnjoon/go-yfinance/pkg/ticker"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// Modules requested from the quoteSummary endpoint
const quoteSummaryModules = "price,summaryProfile,summaryDetail,defaultKeyStatistics,financialData,incomeStatementHistory,balanceSheetHistory,cashflowStatementHistory"

// Ticker validation pattern: letters, digits, dots and dashes, max 10 chars
var tickerPattern = regexp.MustCompile(`^[A-Z0-9.\-]{1,10}$`)

// NormalizeTicker trims, uppercases and validates a ticker symbol
func NormalizeTicker(symbol string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(symbol))
	if !tickerPattern.MatchString(normalized) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTicker, symbol)
	}
	return normalized, nil
}

// Config holds Yahoo client configuration
type Config struct {
	BaseURL    string // Override for tests, defaults to query1.finance.yahoo.com
	MaxRetries int
	Timeout    time.Duration
}

// Client fetches company financial data from Yahoo Finance.
// Quotes and price history go through the go-yfinance library; statement
// data comes from the quoteSummary endpoint directly.
type Client struct {
	log        zerolog.Logger
	httpClient *http.Client
	baseURL    string
	maxRetries int
}

// NewClient creates a new Yahoo Finance client
func NewClient(cfg Config, log zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	return &Client{
		log:        log.With().Str("client", "yahoo").Logger(),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		maxRetries: cfg.MaxRetries,
	}
}

// GetBundle fetches the full set of company data needed for a pitch
func (c *Client) GetBundle(ctx context.Context, symbol string) (*FinancialBundle, error) {
	normalized, err := NormalizeTicker(symbol)
	if err != nil {
		return nil, err
	}

	result, err := c.fetchQuoteSummary(ctx, normalized)
	if err != nil {
		return nil, err
	}

	bundle := &FinancialBundle{
		Profile: CompanyProfile{
			Symbol:    normalized,
			LongName:  result.Price.LongName,
			ShortName: result.Price.ShortName,
			Industry:  result.SummaryProfile.Industry,
			Country:   result.SummaryProfile.Country,
			Exchange:  result.Price.ExchangeName,
			Currency:  result.Price.Currency,
		},
		FetchedAt: time.Now().UTC(),
	}
	if bundle.Profile.LongName == "" {
		bundle.Profile.LongName = normalized
	}

	c.fillMarket(bundle, result)
	c.fillStatements(bundle, result)

	// Statement fetch can succeed while the price object is empty; the
	// library quote is the fallback before giving up.
	if bundle.Market.CurrentPrice <= 0 {
		price, err := c.getQuotePrice(normalized)
		if err != nil {
			c.log.Warn().Err(err).Str("symbol", normalized).Msg("Quote fallback failed")
		} else {
			bundle.Market.CurrentPrice = price
		}
	}
	if bundle.Market.CurrentPrice <= 0 {
		return nil, fmt.Errorf("%w: no market price for %s", ErrNotFound, normalized)
	}

	c.log.Debug().
		Str("symbol", normalized).
		Float64("price", bundle.Market.CurrentPrice).
		Int("fcf_years", len(bundle.Statements.FCFHistory)).
		Msg("Fetched financial bundle")

	return bundle, nil
}

func (c *Client) fillMarket(bundle *FinancialBundle, result *quoteSummaryResult) {
	m := &bundle.Market

	if p := result.FinancialData.CurrentPrice.value(); p != nil && *p > 0 {
		m.CurrentPrice = *p
	} else if p := result.Price.RegularMarketPrice.value(); p != nil && *p > 0 {
		m.CurrentPrice = *p
	}

	m.MarketCap = result.Price.MarketCap.value()
	m.TrailingPE = result.SummaryDetail.TrailingPE.value()
	m.ForwardPE = result.DefaultKeyStatistics.ForwardPE.value()
	m.PriceToBook = result.DefaultKeyStatistics.PriceToBook.value()
	m.DividendYield = result.SummaryDetail.DividendYield.value()
	m.FiftyTwoWeekHigh = result.SummaryDetail.FiftyTwoWeekHigh.value()
	m.FiftyTwoWeekLow = result.SummaryDetail.FiftyTwoWeekLow.value()
	m.ReturnOnEquity = result.FinancialData.ReturnOnEquity.value()
	m.ReturnOnAssets = result.FinancialData.ReturnOnAssets.value()
	m.ProfitMargins = result.FinancialData.ProfitMargins.value()
	m.GrossMargins = result.FinancialData.GrossMargins.value()
	m.OperatingMargins = result.FinancialData.OperatingMargins.value()
	m.DebtToEquity = result.FinancialData.DebtToEquity.value()
	m.CurrentRatio = result.FinancialData.CurrentRatio.value()
	m.QuickRatio = result.FinancialData.QuickRatio.value()

	// Beta lives under summaryDetail for most tickers and under key
	// statistics for the rest
	if b := result.SummaryDetail.Beta.value(); b != nil {
		m.Beta = b
	} else {
		m.Beta = result.DefaultKeyStatistics.Beta.value()
	}
}

func (c *Client) fillStatements(bundle *FinancialBundle, result *quoteSummaryResult) {
	s := &bundle.Statements

	s.SharesOutstanding = result.DefaultKeyStatistics.SharesOutstanding.value()
	s.TotalDebt = result.FinancialData.TotalDebt.value()
	s.TotalCash = result.FinancialData.TotalCash.value()
	s.FreeCashFlow = result.FinancialData.FreeCashflow.value()

	// Income statement history arrives newest first
	for _, is := range result.IncomeStatementHistory.IncomeStatementHistory {
		endDate := time.Unix(is.EndDate.Raw, 0).UTC()
		if rev := is.TotalRevenue.value(); rev != nil {
			s.RevenueHistory = append(s.RevenueHistory, AnnualValue{EndDate: endDate, Value: *rev})
		}
		if ni := is.NetIncome.value(); ni != nil {
			s.NetIncomeHistory = append(s.NetIncomeHistory, AnnualValue{EndDate: endDate, Value: *ni})
		}
	}
	if len(result.IncomeStatementHistory.IncomeStatementHistory) > 0 {
		latest := result.IncomeStatementHistory.IncomeStatementHistory[0]
		s.InterestExpense = latest.InterestExpense.value()
		s.TaxProvision = latest.IncomeTaxExpense.value()
		s.PretaxIncome = latest.IncomeBeforeTax.value()
	}

	// Balance sheet history arrives newest first
	for _, bs := range result.BalanceSheetHistory.BalanceSheetStatements {
		if s.TotalEquity == nil {
			s.TotalEquity = bs.TotalStockholderEquity.value()
		}
		if s.TotalAssets == nil {
			s.TotalAssets = bs.TotalAssets.value()
		}
		if s.TotalEquity != nil && s.TotalAssets != nil {
			break
		}
	}

	for _, cf := range result.CashflowStatementHistory.CashflowStatements {
		endDate := time.Unix(cf.EndDate.Raw, 0).UTC()
		if fcf := cf.FreeCashFlow.value(); fcf != nil {
			s.FCFHistory = append(s.FCFHistory, AnnualValue{EndDate: endDate, Value: *fcf})
			continue
		}
		// Derive FCF from operating cash flow when Yahoo omits it.
		// Capital expenditures are reported as a negative number.
		opCF := cf.TotalCashFromOperatingActivities.value()
		capex := cf.CapitalExpenditures.value()
		if opCF != nil && capex != nil {
			s.FCFHistory = append(s.FCFHistory, AnnualValue{EndDate: endDate, Value: *opCF + *capex})
		}
	}

	sortAnnual(s.RevenueHistory)
	sortAnnual(s.NetIncomeHistory)
	sortAnnual(s.FCFHistory)

	if s.FreeCashFlow == nil && len(s.FCFHistory) > 0 {
		latest := s.FCFHistory[len(s.FCFHistory)-1].Value
		s.FreeCashFlow = &latest
	}
}

func sortAnnual(values []AnnualValue) {
	sort.Slice(values, func(i, j int) bool {
		return values[i].EndDate.Before(values[j].EndDate)
	})
}

// fetchQuoteSummary fetches company fundamentals with retries and
// exponential backoff
func (c *Client) fetchQuoteSummary(ctx context.Context, symbol string) (*quoteSummaryResult, error) {
	url := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s", c.baseURL, symbol, quoteSummaryModules)

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			waitTime := time.Duration(1<<uint(attempt-1)) * time.Second
			c.log.Warn().
				Err(lastErr).
				Str("symbol", symbol).
				Int("attempt", attempt+1).
				Dur("wait", waitTime).
				Msg("Retrying quote summary fetch")
			select {
			case <-time.After(waitTime):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := c.doQuoteSummary(ctx, url, symbol)
		if err == nil {
			return result, nil
		}
		// Invalid tickers never become valid on retry
		if isNotFound(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%w: %v", ErrUpstream, lastErr)
}

func (c *Client) doQuoteSummary(ctx context.Context, url, symbol string) (*quoteSummaryResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, symbol)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var apiResp quoteSummaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if apiResp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("%w: %s (%s)", ErrNotFound, symbol, apiResp.QuoteSummary.Error.Code)
	}
	if len(apiResp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, symbol)
	}

	return &apiResp.QuoteSummary.Result[0], nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// getQuotePrice fetches the current price through the go-yfinance library
func (c *Client) getQuotePrice(symbol string) (float64, error) {
	t, err := ticker.New(symbol)
	if err != nil {
		return 0, fmt.Errorf("failed to create ticker: %w", err)
	}
	defer t.Close()

	quote, err := t.Quote()
	if err == nil && quote != nil && quote.RegularMarketPrice > 0 {
		return quote.RegularMarketPrice, nil
	}

	info, err := t.Info()
	if err != nil {
		return 0, fmt.Errorf("failed to get info: %w", err)
	}
	if info.CurrentPrice > 0 {
		return info.CurrentPrice, nil
	}
	if info.RegularMarketPreviousClose > 0 {
		return info.RegularMarketPreviousClose, nil
	}

	return 0, fmt.Errorf("no valid price for %s", symbol)
}

// GetHistory fetches historical OHLCV data for technical analysis
func (c *Client) GetHistory(symbol, period, interval string) ([]HistoricalPrice, error) {
	normalized, err := NormalizeTicker(symbol)
	if err != nil {
		return nil, err
	}

	t, err := ticker.New(normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticker: %w", err)
	}
	defer t.Close()

	params := models.HistoryParams{
		Period:     period,
		Interval:   interval,
		AutoAdjust: true,
	}

	bars, err := t.History(params)
	if err != nil {
		return nil, fmt.Errorf("failed to get historical prices: %w", err)
	}

	prices := make([]HistoricalPrice, 0, len(bars))
	for _, bar := range bars {
		prices = append(prices, HistoricalPrice{
			Date:     bar.Date,
			Open:     bar.Open,
			High:     bar.High,
			Low:      bar.Low,
			Close:    bar.Close,
			Volume:   int64(bar.Volume),
			AdjClose: bar.AdjClose,
		})
	}

	return prices, nil
}
