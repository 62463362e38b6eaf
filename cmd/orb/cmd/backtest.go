package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rustyeddy/orb/backtest"
	"github.com/rustyeddy/orb/binance"
	"github.com/rustyeddy/orb/config"
	"github.com/rustyeddy/orb/journal"
	"github.com/rustyeddy/orb/market"
	"github.com/rustyeddy/orb/sim"
	"github.com/spf13/cobra"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run the ORB strategy over a historical window",
	Long: `Backtest replays historical candles through the ORB day simulator.

Candles come either from a CSV file (--candles) or are fetched from Binance
futures for the requested number of days. Each date's opening range, trend
and leverage are derived from the data; results print as a daily table plus
a summary.

Example:
  orb backtest --days 30 --adaptive-leverage --trace-date 2025-06-12`,
	RunE: runBacktest,
}

var (
	btConfigPath  string
	btCandlesPath string
	btDays        int
	btSymbol      string
	btDBPath      string
	btMorningOnly bool
	btMinRange    float64
	btMaxRange    float64
	btTrendFilter string
	btAdaptive    bool
	btTraceDate   string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btConfigPath, "config", "c", "", "path to YAML/JSON config")
	backtestCmd.Flags().StringVar(&btCandlesPath, "candles", "", "path to candle CSV (skips network fetch)")
	backtestCmd.Flags().IntVar(&btDays, "days", 30, "number of days to backtest")
	backtestCmd.Flags().StringVarP(&btSymbol, "symbol", "s", "", "instrument symbol (overrides config)")
	backtestCmd.Flags().StringVarP(&btDBPath, "db", "d", "", "path to SQLite journal DB (overrides config)")

	backtestCmd.Flags().BoolVar(&btMorningOnly, "morning-only", false, "trade only the morning session")
	backtestCmd.Flags().Float64Var(&btMinRange, "min-range", 0, "minimum range width to trade")
	backtestCmd.Flags().Float64Var(&btMaxRange, "max-range", 0, "maximum range width to trade (0 = unlimited)")
	backtestCmd.Flags().StringVar(&btTrendFilter, "trend-filter", "", "only trade 'with' or 'against' the trend")
	backtestCmd.Flags().BoolVar(&btAdaptive, "adaptive-leverage", false, "reduce leverage after a losing day")
	backtestCmd.Flags().StringVar(&btTraceDate, "trace-date", "", "trace trades for a date (YYYY-MM-DD)")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	candles, err := loadCandles(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("candles: %w", err)
	}

	session, err := cfg.MakeSession()
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	settings, err := cfg.Settings()
	if err != nil {
		return fmt.Errorf("settings: %w", err)
	}

	j, err := openJournal(cfg)
	if err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	if j != nil {
		defer j.Close()
	}

	runner := &backtest.Runner{
		Symbol:   cfg.Market.Symbol,
		Session:  session,
		Engine:   sim.NewEngine(settings),
		Policy:   cfg.Policy(),
		MinRange: cfg.Strategy.MinRange,
		MaxRange: cfg.Strategy.MaxRange,
		Journal:  j,
	}

	res, err := runner.Run(candles)
	if err != nil {
		return err
	}

	backtest.PrintReport(os.Stdout, res, cfg.Policy())

	if btTraceDate != "" {
		date, err := market.ParseDate(btTraceDate)
		if err != nil {
			return err
		}
		backtest.PrintTrace(os.Stdout, res, date)
	}

	return nil
}

// loadConfig reads the config file (or the defaults) and applies flag
// overrides for flags the user actually set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if btConfigPath != "" {
		loaded, err := config.LoadFromFile(btConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if btSymbol != "" {
		cfg.Market.Symbol = btSymbol
	}
	if cmd.Flags().Changed("morning-only") {
		cfg.Session.MorningOnly = btMorningOnly
	}
	if cmd.Flags().Changed("min-range") {
		cfg.Strategy.MinRange = btMinRange
	}
	if cmd.Flags().Changed("max-range") {
		cfg.Strategy.MaxRange = btMaxRange
	}
	if cmd.Flags().Changed("trend-filter") {
		cfg.Strategy.TrendFilter = btTrendFilter
	}
	if cmd.Flags().Changed("adaptive-leverage") {
		cfg.Leverage.Adaptive = btAdaptive
	}
	if btDBPath != "" {
		cfg.Journal.Type = "sqlite"
		cfg.Journal.DBPath = btDBPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadCandles(ctx context.Context, cfg *config.Config) ([]market.Candle, error) {
	if btCandlesPath != "" {
		return market.ReadCandlesCSV(btCandlesPath)
	}

	if ctx == nil {
		ctx = context.Background()
	}

	client := &binance.Client{
		BaseURL: os.Getenv("BINANCE_BASE_URL"),
		APIKey:  os.Getenv("BINANCE_API_KEY"),
	}

	// Two extra days: one to seed the trend baseline, one for clock skew.
	now := time.Now().UTC()
	fmt.Printf("Fetching %s %s candles for %d days...\n", cfg.Market.Symbol, cfg.Market.Interval, btDays)
	candles, err := client.FetchCandles(ctx, binance.KlinesOptions{
		Symbol:   cfg.Market.Symbol,
		Interval: cfg.Market.Interval,
		From:     now.AddDate(0, 0, -(btDays + 2)),
		To:       now,
	})
	if err != nil {
		return nil, err
	}
	fmt.Printf("Fetched %d candles\n\n", len(candles))
	return candles, nil
}

func openJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	case "csv":
		return journal.NewCSV(cfg.Journal.TradesFile, cfg.Journal.DaysFile)
	}
	return nil, nil
}
