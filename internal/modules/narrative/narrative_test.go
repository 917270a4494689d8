package narrative

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/stockpitch/internal/modules/analysis"
	"github.com/aristath/stockpitch/internal/modules/valuation"
)

func ptr(v float64) *float64 { return &v }

func sampleReport() *valuation.Report {
	return &valuation.Report{
		Ticker:       "ACME",
		CompanyName:  "Acme Corporation",
		GeneratedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		CurrentPrice: 30,
		Currency:     "USD",
		Assumptions: valuation.Assumptions{
			RiskFreeRate:      0.045,
			MarketRiskPremium: 0.065,
			TerminalGrowth:    0.025,
			ProjectionYears:   5,
			Beta:              1.1,
			GrowthRate:        0.10,
			GrowthSource:      "fcf_history",
			MarketEquity:      1.5e9,
			SharesOutstanding: 50e6,
		},
		WACC: valuation.WACCBreakdown{
			CostOfEquity: 0.1165,
			EquityWeight: 0.9,
			DebtWeight:   0.1,
			Value:        0.108,
		},
		DCF: valuation.DCFResult{
			Projections: []valuation.YearProjection{
				{Year: 1, GrowthRate: 0.10, FCF: 133.1e6, PresentValue: 121e6},
			},
			TerminalValue:     2.1e9,
			PVTerminal:        1.3e9,
			EnterpriseValue:   1.85e9,
			EquityValue:       1.8e9,
			FairValuePerShare: 36.25,
		},
		Ratios: valuation.RatioSet{
			TrailingPE: ptr(12.5),
			FCFYield:   ptr(0.08),
		},
		Recommendation: valuation.Recommendation{
			Action:       valuation.ActionBuy,
			Upside:       0.2083,
			Direction:    "undervalued",
			FairValue:    36.25,
			CurrentPrice: 30,
		},
	}
}

func sampleInput() Input {
	pos := 0.4
	return Input{
		Report:     sampleReport(),
		Technicals: analysis.Snapshot{RangePosition: &pos, Trend: "uptrend"},
		Industry:   "Industrial Machinery",
	}
}

func TestTemplateProvider_Generate(t *testing.T) {
	provider := NewTemplateProvider(zerolog.Nop())

	narrative, err := provider.Generate(context.Background(), sampleInput())
	require.NoError(t, err)

	assert.Equal(t, ModeTemplate, narrative.Mode)
	assert.False(t, narrative.Downgraded)

	assert.Contains(t, narrative.ExecutiveSummary, "Acme Corporation")
	assert.Contains(t, narrative.ExecutiveSummary, "ACME")
	assert.Contains(t, narrative.ExecutiveSummary, "BUY")
	assert.Contains(t, narrative.ExecutiveSummary, "upside")

	assert.Contains(t, narrative.InvestmentThesis, "below its intrinsic value")
	assert.Contains(t, narrative.InvestmentThesis, "12.5") // low P/E mention

	assert.NotEmpty(t, narrative.Highlights)
	assert.NotEmpty(t, narrative.Risks)
	// The model-sensitivity risk is always present
	assert.Contains(t, narrative.Risks[len(narrative.Risks)-1], "sensitive")

	assert.Contains(t, narrative.DetailedAnalysis, "## Discounted Cash Flow")
	assert.Contains(t, narrative.DetailedAnalysis, "## Cost of Capital")
}

func TestTemplateProvider_Deterministic(t *testing.T) {
	provider := NewTemplateProvider(zerolog.Nop())

	first, err := provider.Generate(context.Background(), sampleInput())
	require.NoError(t, err)
	second, err := provider.Generate(context.Background(), sampleInput())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestTemplateProvider_RiskRules(t *testing.T) {
	input := sampleInput()
	input.Report.Assumptions.Beta = 1.8
	input.Report.Ratios.TrailingPE = ptr(42.0)
	input.Report.Ratios.DebtToEquity = ptr(180.0)
	highPos := 0.97
	input.Technicals.RangePosition = &highPos

	provider := NewTemplateProvider(zerolog.Nop())
	narrative, err := provider.Generate(context.Background(), input)
	require.NoError(t, err)

	joined := ""
	for _, r := range narrative.Risks {
		joined += r + "\n"
	}
	assert.Contains(t, joined, "1.80")
	assert.Contains(t, joined, "42.0")
	assert.Contains(t, joined, "leverage")
	assert.Contains(t, joined, "top of its range")
}

func TestTemplateProvider_SellThesis(t *testing.T) {
	input := sampleInput()
	input.Report.Recommendation.Action = valuation.ActionSell
	input.Report.Recommendation.Upside = -0.25

	provider := NewTemplateProvider(zerolog.Nop())
	narrative, err := provider.Generate(context.Background(), input)
	require.NoError(t, err)

	assert.Contains(t, narrative.InvestmentThesis, "runs ahead")
	assert.Contains(t, narrative.ExecutiveSummary, "downside")
}

// --- Fallback ---

type failingProvider struct{}

func (failingProvider) Generate(context.Context, Input) (*Narrative, error) {
	return nil, errors.New("remote unavailable")
}
func (failingProvider) Mode() string { return ModePremium }

func TestFallbackProvider_DowngradesOnFailure(t *testing.T) {
	provider := NewFallbackProvider(failingProvider{}, NewTemplateProvider(zerolog.Nop()), zerolog.Nop())

	narrative, err := provider.Generate(context.Background(), sampleInput())
	require.NoError(t, err)

	assert.True(t, narrative.Downgraded)
	assert.NotEmpty(t, narrative.DowngradeReason)
	assert.Equal(t, ModeTemplate, narrative.Mode)
	assert.NotEmpty(t, narrative.ExecutiveSummary)
}

func TestFallbackProvider_PrimarySucceeds(t *testing.T) {
	provider := NewFallbackProvider(NewTemplateProvider(zerolog.Nop()), failingProvider{}, zerolog.Nop())

	narrative, err := provider.Generate(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.False(t, narrative.Downgraded)
}

// --- OpenAI provider ---

type stubChatClient struct {
	response string
	err      error
	lastReq  openai.ChatCompletionRequest
}

func (s *stubChatClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.lastReq = req
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: s.response}},
		},
	}, nil
}

func newStubbedOpenAIProvider(stub *stubChatClient) *OpenAIProvider {
	return &OpenAIProvider{
		client:      stub,
		model:       "gpt-4",
		maxTokens:   2000,
		temperature: 0.7,
		timeout:     5 * time.Second,
		log:         zerolog.Nop(),
	}
}

func TestOpenAIProvider_Generate(t *testing.T) {
	stub := &stubChatClient{
		response: "```json\n{\"executive_summary\": \"A strong buy.\", \"investment_thesis\": \"Cash flows are undervalued.\", \"highlights\": [\"h1\"], \"risks\": [\"r1\"], \"detailed_analysis\": \"## Detail\"}\n```",
	}
	provider := newStubbedOpenAIProvider(stub)

	narrative, err := provider.Generate(context.Background(), sampleInput())
	require.NoError(t, err)

	assert.Equal(t, ModePremium, narrative.Mode)
	assert.Equal(t, "A strong buy.", narrative.ExecutiveSummary)
	assert.Equal(t, []string{"h1"}, narrative.Highlights)

	// The request carries the report payload, never the credential
	assert.Equal(t, "gpt-4", stub.lastReq.Model)
	require.Len(t, stub.lastReq.Messages, 2)
	assert.Contains(t, stub.lastReq.Messages[1].Content, "ACME")
}

func TestOpenAIProvider_RemoteError(t *testing.T) {
	provider := newStubbedOpenAIProvider(&stubChatClient{err: errors.New("rate limited")})

	_, err := provider.Generate(context.Background(), sampleInput())
	assert.Error(t, err)
}

func TestOpenAIProvider_MalformedCompletion(t *testing.T) {
	provider := newStubbedOpenAIProvider(&stubChatClient{response: "sorry, I cannot help"})

	_, err := provider.Generate(context.Background(), sampleInput())
	assert.Error(t, err)
}

func TestParseCompletion(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"plain json", `{"executive_summary": "s", "investment_thesis": "t"}`, false},
		{"fenced json", "```json\n{\"executive_summary\": \"s\", \"investment_thesis\": \"t\"}\n```", false},
		{"prose around json", "Here you go: {\"executive_summary\": \"s\", \"investment_thesis\": \"t\"} enjoy", false},
		{"no json", "no structured content", true},
		{"empty fields", `{"highlights": []}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			narrative, err := parseCompletion(tt.content)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "s", narrative.ExecutiveSummary)
		})
	}
}
