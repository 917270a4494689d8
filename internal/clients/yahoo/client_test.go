package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTicker(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"simple", "AAPL", "AAPL", false},
		{"lowercase", "msft", "MSFT", false},
		{"whitespace", "  nvda ", "NVDA", false},
		{"class share", "BRK.B", "BRK.B", false},
		{"exchange suffix", "VOD.L", "VOD.L", false},
		{"dash", "BTC-USD", "BTC-USD", false},
		{"empty", "", "", true},
		{"too long", "ABCDEFGHIJK", "", true},
		{"spaces inside", "AA PL", "", true},
		{"special chars", "AAPL;DROP", "", true},
		{"unicode", "ÅAPL", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeTicker(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTicker)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

const sampleQuoteSummary = `{
  "quoteSummary": {
    "result": [{
      "price": {
        "symbol": "ACME",
        "longName": "Acme Corporation",
        "shortName": "Acme",
        "currency": "USD",
        "exchangeName": "NasdaqGS",
        "regularMarketPrice": {"raw": 120.5},
        "marketCap": {"raw": 5000000000}
      },
      "summaryProfile": {"industry": "Industrial Machinery", "country": "United States"},
      "summaryDetail": {
        "trailingPE": {"raw": 18.2},
        "dividendYield": {"raw": 0.021},
        "fiftyTwoWeekHigh": {"raw": 150.0},
        "fiftyTwoWeekLow": {"raw": 90.0},
        "beta": {"raw": 1.15}
      },
      "defaultKeyStatistics": {
        "sharesOutstanding": {"raw": 41000000},
        "forwardPE": {"raw": 15.4},
        "priceToBook": {"raw": 3.1}
      },
      "financialData": {
        "currentPrice": {"raw": 120.5},
        "totalCash": {"raw": 800000000},
        "totalDebt": {"raw": 600000000},
        "freeCashflow": {"raw": 250000000},
        "returnOnEquity": {"raw": 0.22},
        "profitMargins": {"raw": 0.12},
        "debtToEquity": {"raw": 45.0},
        "currentRatio": {"raw": 1.8}
      },
      "incomeStatementHistory": {
        "incomeStatementHistory": [
          {"endDate": {"raw": 1703980800}, "totalRevenue": {"raw": 2000000000}, "netIncome": {"raw": 240000000}, "interestExpense": {"raw": -30000000}, "incomeTaxExpense": {"raw": 60000000}, "incomeBeforeTax": {"raw": 300000000}},
          {"endDate": {"raw": 1672444800}, "totalRevenue": {"raw": 1800000000}, "netIncome": {"raw": 200000000}},
          {"endDate": {"raw": 1640908800}, "totalRevenue": {"raw": 1600000000}, "netIncome": {"raw": 180000000}}
        ]
      },
      "balanceSheetHistory": {
        "balanceSheetStatements": [
          {"endDate": {"raw": 1703980800}, "totalStockholderEquity": {"raw": 1300000000}}
        ]
      },
      "cashflowStatementHistory": {
        "cashflowStatements": [
          {"endDate": {"raw": 1703980800}, "totalCashFromOperatingActivities": {"raw": 320000000}, "capitalExpenditures": {"raw": -70000000}},
          {"endDate": {"raw": 1672444800}, "freeCashFlow": {"raw": 220000000}},
          {"endDate": {"raw": 1640908800}, "totalCashFromOperatingActivities": {"raw": 260000000}, "capitalExpenditures": {"raw": -60000000}}
        ]
      }
    }],
    "error": null
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc, maxRetries int) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Config{
		BaseURL:    srv.URL,
		MaxRetries: maxRetries,
		Timeout:    5 * time.Second,
	}, zerolog.Nop())
}

func TestGetBundle_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v10/finance/quoteSummary/ACME")
		assert.Contains(t, r.URL.RawQuery, "cashflowStatementHistory")
		fmt.Fprint(w, sampleQuoteSummary)
	}, 1)

	bundle, err := client.GetBundle(context.Background(), "acme")
	require.NoError(t, err)

	assert.Equal(t, "ACME", bundle.Profile.Symbol)
	assert.Equal(t, "Acme Corporation", bundle.Profile.LongName)
	assert.Equal(t, "Industrial Machinery", bundle.Profile.Industry)
	assert.Equal(t, "USD", bundle.Profile.Currency)

	assert.InDelta(t, 120.5, bundle.Market.CurrentPrice, 1e-9)
	require.NotNil(t, bundle.Market.Beta)
	assert.InDelta(t, 1.15, *bundle.Market.Beta, 1e-9)
	require.NotNil(t, bundle.Market.MarketCap)
	assert.InDelta(t, 5e9, *bundle.Market.MarketCap, 1)
	require.NotNil(t, bundle.Market.TrailingPE)
	assert.InDelta(t, 18.2, *bundle.Market.TrailingPE, 1e-9)

	require.NotNil(t, bundle.Statements.SharesOutstanding)
	assert.InDelta(t, 41e6, *bundle.Statements.SharesOutstanding, 1)
	require.NotNil(t, bundle.Statements.TotalDebt)
	assert.InDelta(t, 600e6, *bundle.Statements.TotalDebt, 1)
	require.NotNil(t, bundle.Statements.FreeCashFlow)
	assert.InDelta(t, 250e6, *bundle.Statements.FreeCashFlow, 1)

	// Latest-year tax figures come from the newest income statement
	require.NotNil(t, bundle.Statements.TaxProvision)
	assert.InDelta(t, 60e6, *bundle.Statements.TaxProvision, 1)
	require.NotNil(t, bundle.Statements.PretaxIncome)
	assert.InDelta(t, 300e6, *bundle.Statements.PretaxIncome, 1)

	// Histories are re-ordered oldest to newest
	require.Len(t, bundle.Statements.RevenueHistory, 3)
	assert.InDelta(t, 1.6e9, bundle.Statements.RevenueHistory[0].Value, 1)
	assert.InDelta(t, 2.0e9, bundle.Statements.RevenueHistory[2].Value, 1)

	// FCF derived from opCF + capex where Yahoo omits freeCashFlow
	require.Len(t, bundle.Statements.FCFHistory, 3)
	assert.InDelta(t, 200e6, bundle.Statements.FCFHistory[0].Value, 1) // 260M - 60M
	assert.InDelta(t, 220e6, bundle.Statements.FCFHistory[1].Value, 1)
	assert.InDelta(t, 250e6, bundle.Statements.FCFHistory[2].Value, 1) // 320M - 70M
}

func TestGetBundle_InvalidTicker(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1", MaxRetries: 1}, zerolog.Nop())

	_, err := client.GetBundle(context.Background(), "not a ticker!!")
	assert.ErrorIs(t, err, ErrInvalidTicker)
}

func TestGetBundle_NotFound(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}, 3)

	_, err := client.GetBundle(context.Background(), "ZZZZ")
	assert.ErrorIs(t, err, ErrNotFound)
	// Not-found responses are not retried
	assert.Equal(t, 1, calls)
}

func TestGetBundle_APIErrorObject(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"quoteSummary": {"result": [], "error": {"code": "Not Found", "description": "Quote not found"}}}`)
	}, 1)

	_, err := client.GetBundle(context.Background(), "ZZZZ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetBundle_UpstreamFailureAfterRetries(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}, 2)

	_, err := client.GetBundle(context.Background(), "ACME")
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Equal(t, 2, calls)
}

func TestGetBundle_RetriesThenSucceeds(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, sampleQuoteSummary)
	}, 3)

	bundle, err := client.GetBundle(context.Background(), "ACME")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "ACME", bundle.Profile.Symbol)
}

func TestGetBundle_ContextCancelledDuringBackoff(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, 3)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := client.GetBundle(ctx, "ACME")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrUpstream))
}

func TestGetHistory_InvalidTicker(t *testing.T) {
	client := NewClient(Config{}, zerolog.Nop())

	_, err := client.GetHistory("bad ticker", "1y", "1d")
	assert.ErrorIs(t, err, ErrInvalidTicker)
}
