package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/aristath/stockpitch/internal/config"
)

const systemPrompt = `You are an equity research analyst writing a concise stock pitch.
Given a valuation report as JSON, respond with JSON only, matching this shape:
{"executive_summary": "...", "investment_thesis": "...", "highlights": ["..."], "risks": ["..."], "detailed_analysis": "markdown text"}
Ground every claim in the numbers provided. Do not invent figures.`

// chatClient is the slice of the OpenAI client the provider needs,
// extracted so tests can stub the remote call.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIProvider generates narrative text with a chat completion call.
// The credential is held by the underlying client and never appears in
// logs or generated artifacts.
type OpenAIProvider struct {
	client      chatClient
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
	log         zerolog.Logger
}

// NewOpenAIProvider creates a premium narrative provider
func NewOpenAIProvider(cfg config.NarrativeConfig, log zerolog.Logger) *OpenAIProvider {
	return &OpenAIProvider{
		client:      openai.NewClient(cfg.APIKey),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: float32(cfg.Temperature),
		timeout:     time.Duration(cfg.TimeoutSecs) * time.Second,
		log:         log.With().Str("component", "narrative-openai").Logger(),
	}
}

// Mode returns the provider identifier
func (p *OpenAIProvider) Mode() string { return ModePremium }

// Generate serializes the report, sends it for completion and parses
// the structured response. The call is bounded by the configured
// timeout.
func (p *OpenAIProvider) Generate(ctx context.Context, input Input) (*Narrative, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"report":     input.Report,
		"technicals": input.Technicals,
		"industry":   input.Industry,
		"country":    input.Country,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize report: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: string(payload)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	narrative, err := parseCompletion(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	narrative.Mode = ModePremium

	p.log.Debug().
		Str("ticker", input.Report.Ticker).
		Str("model", p.model).
		Int("highlights", len(narrative.Highlights)).
		Msg("Premium narrative generated")

	return narrative, nil
}

// parseCompletion extracts the JSON body from the model response,
// tolerating markdown code fences around it
func parseCompletion(content string) (*Narrative, error) {
	content = strings.TrimSpace(content)
	if start := strings.Index(content, "{"); start >= 0 {
		if end := strings.LastIndex(content, "}"); end > start {
			content = content[start : end+1]
		}
	}

	var narrative Narrative
	if err := json.Unmarshal([]byte(content), &narrative); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}
	if narrative.ExecutiveSummary == "" && narrative.InvestmentThesis == "" {
		return nil, fmt.Errorf("completion missing narrative fields")
	}

	return &narrative, nil
}
