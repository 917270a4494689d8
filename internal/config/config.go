package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      int
	LogLevel  string
	DevMode   bool
	OutputDir string // Directory where generated decks are written

	// Deck retention (cleanup job removes decks older than this)
	DeckRetentionDays int

	// Market data fetching
	YahooMaxRetries  int
	YahooTimeoutSecs int
	AnalysisPeriod   string // Price history window, e.g. "1y"
	AnalysisInterval string // Bar interval, e.g. "1d"

	Valuation ValuationDefaults
	Narrative NarrativeConfig
}

// ValuationDefaults holds the model assumptions applied when a company's
// own financials cannot supply a value.
type ValuationDefaults struct {
	RiskFreeRate      float64 // 10-year treasury proxy
	MarketRiskPremium float64
	TerminalGrowth    float64
	ProjectionYears   int
	DefaultGrowth     float64 // Used when no historical FCF growth can be derived
	GrowthFloor       float64 // Lower clamp on historical growth
	GrowthCeiling     float64 // Upper clamp on historical growth
	DefaultTaxRate    float64
	DefaultCostOfDebt float64
	WACCFloor         float64
	WACCCeiling       float64
	BuyThreshold      float64 // Upside above this => BUY
	SellThreshold     float64 // Upside below this => SELL
}

// NarrativeConfig holds language-model narrative settings.
// APIKey must never be logged or embedded in generated artifacts.
type NarrativeConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	TimeoutSecs int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:      getEnvAsInt("PORT", 8080),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		DevMode:   getEnvAsBool("DEV_MODE", false),
		OutputDir: getEnv("OUTPUT_DIR", "./output"),

		DeckRetentionDays: getEnvAsInt("DECK_RETENTION_DAYS", 30),

		YahooMaxRetries:  getEnvAsInt("YAHOO_MAX_RETRIES", 3),
		YahooTimeoutSecs: getEnvAsInt("YAHOO_TIMEOUT_SECS", 15),
		AnalysisPeriod:   getEnv("ANALYSIS_PERIOD", "1y"),
		AnalysisInterval: getEnv("ANALYSIS_INTERVAL", "1d"),

		Valuation: ValuationDefaults{
			RiskFreeRate:      getEnvAsFloat("RISK_FREE_RATE", 0.045),
			MarketRiskPremium: getEnvAsFloat("MARKET_RISK_PREMIUM", 0.065),
			TerminalGrowth:    getEnvAsFloat("TERMINAL_GROWTH", 0.025),
			ProjectionYears:   getEnvAsInt("PROJECTION_YEARS", 5),
			DefaultGrowth:     getEnvAsFloat("DEFAULT_GROWTH", 0.05),
			GrowthFloor:       getEnvAsFloat("GROWTH_FLOOR", -0.10),
			GrowthCeiling:     getEnvAsFloat("GROWTH_CEILING", 0.20),
			DefaultTaxRate:    getEnvAsFloat("DEFAULT_TAX_RATE", 0.25),
			DefaultCostOfDebt: getEnvAsFloat("DEFAULT_COST_OF_DEBT", 0.05),
			WACCFloor:         getEnvAsFloat("WACC_FLOOR", 0.01),
			WACCCeiling:       getEnvAsFloat("WACC_CEILING", 0.30),
			BuyThreshold:      getEnvAsFloat("BUY_THRESHOLD", 0.15),
			SellThreshold:     getEnvAsFloat("SELL_THRESHOLD", -0.15),
		},

		Narrative: NarrativeConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			Model:       getEnv("OPENAI_MODEL", "gpt-4"),
			MaxTokens:   getEnvAsInt("OPENAI_MAX_TOKENS", 2000),
			Temperature: getEnvAsFloat("OPENAI_TEMPERATURE", 0.7),
			TimeoutSecs: getEnvAsInt("OPENAI_TIMEOUT_SECS", 60),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is internally consistent
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.Valuation.ProjectionYears < 1 {
		return fmt.Errorf("projection years must be at least 1, got %d", c.Valuation.ProjectionYears)
	}
	if c.Valuation.GrowthFloor > c.Valuation.GrowthCeiling {
		return fmt.Errorf("growth floor %.4f exceeds ceiling %.4f", c.Valuation.GrowthFloor, c.Valuation.GrowthCeiling)
	}
	if c.Valuation.WACCFloor > c.Valuation.WACCCeiling {
		return fmt.Errorf("wacc floor %.4f exceeds ceiling %.4f", c.Valuation.WACCFloor, c.Valuation.WACCCeiling)
	}
	if c.Valuation.SellThreshold > c.Valuation.BuyThreshold {
		return fmt.Errorf("sell threshold %.4f exceeds buy threshold %.4f", c.Valuation.SellThreshold, c.Valuation.BuyThreshold)
	}
	if c.DeckRetentionDays < 0 {
		return fmt.Errorf("deck retention days cannot be negative: %d", c.DeckRetentionDays)
	}

	// Narrative API key is optional, the template provider covers the
	// free path when it is absent
	return nil
}

// PremiumEnabled reports whether language-model narratives can be attempted
func (c *Config) PremiumEnabled() bool {
	return c.Narrative.APIKey != ""
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
