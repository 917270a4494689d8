package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aristath/stockpitch/internal/clients/yahoo"
	"github.com/aristath/stockpitch/internal/config"
	"github.com/aristath/stockpitch/internal/modules/analysis"
	"github.com/aristath/stockpitch/internal/modules/deck"
	"github.com/aristath/stockpitch/internal/modules/narrative"
	"github.com/aristath/stockpitch/internal/modules/pitch"
	"github.com/aristath/stockpitch/internal/modules/valuation"
	"github.com/aristath/stockpitch/pkg/logger"
)

type cliFlags struct {
	mode           string
	output         string
	logLevel       string
	growthRate     float64
	terminalGrowth float64
	riskFreeRate   float64
	costOfDebt     float64
	years          int
}

func main() {
	flags := &cliFlags{}

	rootCmd := &cobra.Command{
		Use:   "pitch <ticker>",
		Short: "Generate a stock pitch presentation for a ticker",
		Long: `Fetches financial data, runs a discounted cash flow valuation,
derives a BUY/HOLD/SELL recommendation and writes a slide-deck
presentation as a self-contained HTML file.

With OPENAI_API_KEY set the narrative text is written by a language
model; without it a deterministic rule-based narrative is used.`,
		Example: `  pitch AAPL
  pitch MSFT --mode template --output ./decks
  pitch VOD.L --growth 0.06 --years 7`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPitch(cmd, args[0], flags)
		},
		SilenceUsage: true,
	}

	rootCmd.Flags().StringVar(&flags.mode, "mode", "", "narrative mode: template or premium (default: best available)")
	rootCmd.Flags().StringVarP(&flags.output, "output", "o", "", "output directory for the deck")
	rootCmd.Flags().StringVar(&flags.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	rootCmd.Flags().Float64Var(&flags.growthRate, "growth", 0, "override initial FCF growth rate (e.g. 0.08)")
	rootCmd.Flags().Float64Var(&flags.terminalGrowth, "terminal-growth", 0, "override terminal growth rate")
	rootCmd.Flags().Float64Var(&flags.riskFreeRate, "risk-free", 0, "override risk-free rate")
	rootCmd.Flags().Float64Var(&flags.costOfDebt, "cost-of-debt", 0, "override pre-tax cost of debt")
	rootCmd.Flags().IntVar(&flags.years, "years", 0, "override explicit projection years")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runPitch(cmd *cobra.Command, ticker string, flags *cliFlags) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if flags.output != "" {
		cfg.OutputDir = flags.output
	}

	log := logger.New(logger.Config{Level: flags.logLevel, Pretty: true})

	yahooClient := yahoo.NewClient(yahoo.Config{
		MaxRetries: cfg.YahooMaxRetries,
		Timeout:    time.Duration(cfg.YahooTimeoutSecs) * time.Second,
	}, log)
	valuationSvc := valuation.NewService(cfg.Valuation, log)
	analysisSvc := analysis.NewService(log)
	deckWriter := deck.NewWriter(cfg.OutputDir, log)

	templateProvider := narrative.NewTemplateProvider(log)
	var premiumProvider narrative.Provider
	if cfg.PremiumEnabled() {
		premiumProvider = narrative.NewFallbackProvider(
			narrative.NewOpenAIProvider(cfg.Narrative, log),
			templateProvider,
			log,
		)
	}

	svc := pitch.NewService(cfg, yahooClient, valuationSvc, analysisSvc, deckWriter, premiumProvider, templateProvider, log)

	ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Minute)
	defer cancel()

	result, err := svc.Generate(ctx, pitch.Request{
		Ticker:    ticker,
		Mode:      flags.mode,
		Overrides: buildOverrides(cmd, flags),
	})
	if err != nil {
		return err
	}

	printSummary(cmd, result)
	return nil
}

// buildOverrides maps only the flags the user actually set
func buildOverrides(cmd *cobra.Command, flags *cliFlags) valuation.Overrides {
	var o valuation.Overrides
	if cmd.Flags().Changed("growth") {
		o.GrowthRate = &flags.growthRate
	}
	if cmd.Flags().Changed("terminal-growth") {
		o.TerminalGrowth = &flags.terminalGrowth
	}
	if cmd.Flags().Changed("risk-free") {
		o.RiskFreeRate = &flags.riskFreeRate
	}
	if cmd.Flags().Changed("cost-of-debt") {
		o.CostOfDebt = &flags.costOfDebt
	}
	if cmd.Flags().Changed("years") {
		o.ProjectionYears = &flags.years
	}
	return o
}

func printSummary(cmd *cobra.Command, result *pitch.Result) {
	report := result.Report
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "\n%s (%s)\n", report.CompanyName, report.Ticker)
	fmt.Fprintf(out, "  Current price:   %.2f %s\n", report.CurrentPrice, report.Currency)
	fmt.Fprintf(out, "  Fair value:      %.2f %s\n", report.DCF.FairValuePerShare, report.Currency)
	fmt.Fprintf(out, "  Upside:          %+.1f%%\n", report.Recommendation.Upside*100)
	fmt.Fprintf(out, "  WACC:            %.2f%%\n", report.WACC.Value*100)
	fmt.Fprintf(out, "  Recommendation:  %s\n", report.Recommendation.Action)
	fmt.Fprintf(out, "  Narrative mode:  %s", result.Narrative.Mode)
	if result.Narrative.Downgraded {
		fmt.Fprintf(out, " (downgraded)")
	}
	fmt.Fprintf(out, "\n\nDeck written to %s\n", result.DeckPath)
}
