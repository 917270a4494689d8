package narrative

import (
	"context"

	"github.com/rs/zerolog"
)

// FallbackProvider tries the primary provider and degrades to the
// fallback when it fails. The degradation never surfaces as an error;
// the produced narrative carries a visible downgrade notice instead.
type FallbackProvider struct {
	primary  Provider
	fallback Provider
	log      zerolog.Logger
}

// NewFallbackProvider wraps a primary provider with a fallback
func NewFallbackProvider(primary, fallback Provider, log zerolog.Logger) *FallbackProvider {
	return &FallbackProvider{
		primary:  primary,
		fallback: fallback,
		log:      log.With().Str("component", "narrative-fallback").Logger(),
	}
}

// Mode reports the primary mode; the actual mode used is recorded on
// the narrative itself
func (p *FallbackProvider) Mode() string { return p.primary.Mode() }

// Generate runs the primary provider, falling back on any error
func (p *FallbackProvider) Generate(ctx context.Context, input Input) (*Narrative, error) {
	narrative, err := p.primary.Generate(ctx, input)
	if err == nil {
		return narrative, nil
	}

	p.log.Warn().
		Err(err).
		Str("ticker", input.Report.Ticker).
		Str("primary", p.primary.Mode()).
		Msg("Primary narrative provider failed, falling back")

	narrative, fbErr := p.fallback.Generate(ctx, input)
	if fbErr != nil {
		return nil, fbErr
	}

	narrative.Downgraded = true
	narrative.DowngradeReason = "premium narrative unavailable, using rule-based text"

	return narrative, nil
}
