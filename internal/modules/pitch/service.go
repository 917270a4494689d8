package pitch

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/stockpitch/internal/clients/yahoo"
	"github.com/aristath/stockpitch/internal/config"
	"github.com/aristath/stockpitch/internal/modules/analysis"
	"github.com/aristath/stockpitch/internal/modules/deck"
	"github.com/aristath/stockpitch/internal/modules/narrative"
	"github.com/aristath/stockpitch/internal/modules/valuation"
)

// marketData is the slice of the Yahoo client the service needs
type marketData interface {
	GetBundle(ctx context.Context, symbol string) (*yahoo.FinancialBundle, error)
	GetHistory(symbol, period, interval string) ([]yahoo.HistoricalPrice, error)
}

type valuer interface {
	Analyze(bundle *yahoo.FinancialBundle, overrides valuation.Overrides) (*valuation.Report, error)
}

type technicals interface {
	Analyze(prices []yahoo.HistoricalPrice) analysis.Snapshot
}

type deckWriter interface {
	Write(d *deck.Deck, report *valuation.Report) (string, error)
}

// Service orchestrates a full pitch run: fetch financials, run the
// valuation, analyze price action, generate narrative text and write
// the deck.
type Service struct {
	cfg      *config.Config
	data     marketData
	valuer   valuer
	tech     technicals
	decks    deckWriter
	premium  narrative.Provider // nil when no API credential is configured
	template narrative.Provider
	log      zerolog.Logger
}

// NewService creates a new pitch service. premium may be nil; the
// service then serves every request with the template provider.
func NewService(cfg *config.Config, data marketData, valuer valuer, tech technicals, decks deckWriter, premium, template narrative.Provider, log zerolog.Logger) *Service {
	return &Service{
		cfg:      cfg,
		data:     data,
		valuer:   valuer,
		tech:     tech,
		decks:    decks,
		premium:  premium,
		template: template,
		log:      log.With().Str("component", "pitch").Logger(),
	}
}

// Generate runs the full pipeline for one ticker
func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	provider, requestedPremium, err := s.selectProvider(req.Mode)
	if err != nil {
		return nil, err
	}

	bundle, err := s.data.GetBundle(ctx, req.Ticker)
	if err != nil {
		return nil, err
	}

	report, err := s.valuer.Analyze(bundle, req.Overrides)
	if err != nil {
		return nil, err
	}

	// Price history is best effort; a failed fetch degrades the
	// technicals slide, it does not fail the pitch
	var snapshot analysis.Snapshot
	history, err := s.data.GetHistory(report.Ticker, s.cfg.AnalysisPeriod, s.cfg.AnalysisInterval)
	if err != nil {
		s.log.Warn().Err(err).Str("ticker", report.Ticker).Msg("Price history unavailable, skipping technicals")
	} else {
		snapshot = s.tech.Analyze(history)
	}

	text, err := provider.Generate(ctx, narrative.Input{
		Report:     report,
		Technicals: snapshot,
		Industry:   bundle.Profile.Industry,
		Country:    bundle.Profile.Country,
	})
	if err != nil {
		return nil, fmt.Errorf("generating narrative: %w", err)
	}
	if requestedPremium && s.premium == nil {
		text.Downgraded = true
		text.DowngradeReason = "premium mode not configured, using rule-based text"
	}

	d := deck.Build(report, text, snapshot, bundle.Profile)
	path, err := s.decks.Write(d, report)
	if err != nil {
		return nil, fmt.Errorf("writing deck: %w", err)
	}

	s.log.Info().
		Str("ticker", report.Ticker).
		Str("mode", text.Mode).
		Bool("downgraded", text.Downgraded).
		Str("deck", path).
		Msg("Pitch generated")

	return &Result{
		Ticker:      report.Ticker,
		GeneratedAt: time.Now().UTC(),
		Report:      report,
		Narrative:   text,
		Technicals:  snapshot,
		DeckPath:    path,
	}, nil
}

// selectProvider maps the requested mode onto an available provider.
// A premium request without a configured credential degrades to the
// template provider instead of failing.
func (s *Service) selectProvider(mode string) (narrative.Provider, bool, error) {
	switch mode {
	case "", narrative.ModePremium:
		if s.premium != nil {
			return s.premium, true, nil
		}
		return s.template, mode == narrative.ModePremium, nil
	case narrative.ModeTemplate, "free":
		return s.template, false, nil
	default:
		return nil, false, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}
