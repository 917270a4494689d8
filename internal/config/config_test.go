package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "./output", cfg.OutputDir)
	assert.Equal(t, 30, cfg.DeckRetentionDays)
	assert.Equal(t, "1y", cfg.AnalysisPeriod)

	assert.InDelta(t, 0.045, cfg.Valuation.RiskFreeRate, 1e-9)
	assert.InDelta(t, 0.065, cfg.Valuation.MarketRiskPremium, 1e-9)
	assert.InDelta(t, 0.025, cfg.Valuation.TerminalGrowth, 1e-9)
	assert.Equal(t, 5, cfg.Valuation.ProjectionYears)
	assert.InDelta(t, 0.05, cfg.Valuation.DefaultGrowth, 1e-9)
	assert.InDelta(t, -0.10, cfg.Valuation.GrowthFloor, 1e-9)
	assert.InDelta(t, 0.20, cfg.Valuation.GrowthCeiling, 1e-9)
	assert.InDelta(t, 0.15, cfg.Valuation.BuyThreshold, 1e-9)
	assert.InDelta(t, -0.15, cfg.Valuation.SellThreshold, 1e-9)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RISK_FREE_RATE", "0.05")
	t.Setenv("PROJECTION_YEARS", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.InDelta(t, 0.05, cfg.Valuation.RiskFreeRate, 1e-9)
	assert.Equal(t, 10, cfg.Valuation.ProjectionYears)
}

func TestLoad_InvalidEnvFallsBackToDefault(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("RISK_FREE_RATE", "abc")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.InDelta(t, 0.045, cfg.Valuation.RiskFreeRate, 1e-9)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load()
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"zero port", func(c *Config) { c.Port = 0 }, true},
		{"zero projection years", func(c *Config) { c.Valuation.ProjectionYears = 0 }, true},
		{"inverted growth clamp", func(c *Config) { c.Valuation.GrowthFloor = 0.5 }, true},
		{"inverted wacc clamp", func(c *Config) { c.Valuation.WACCFloor = 0.5 }, true},
		{"inverted thresholds", func(c *Config) { c.Valuation.SellThreshold = 0.5 }, true},
		{"negative retention", func(c *Config) { c.DeckRetentionDays = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPremiumEnabled(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.PremiumEnabled())

	cfg.Narrative.APIKey = "sk-test"
	assert.True(t, cfg.PremiumEnabled())
}
