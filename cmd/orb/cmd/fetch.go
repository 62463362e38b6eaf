package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rustyeddy/orb/binance"
	"github.com/rustyeddy/orb/market"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download historical candles from Binance futures to CSV",
	Long: `Fetch downloads klines from the Binance USD-M futures API and writes
them as a canonical candle CSV, suitable for 'orb backtest --candles'.

Example:
  orb fetch -s BTCUSDT -i 5m --days 30 -o btcusdt_5m.csv`,
	RunE: runFetch,
}

var (
	fetchSymbol   string
	fetchInterval string
	fetchDays     int
	fetchOut      string
)

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVarP(&fetchSymbol, "symbol", "s", "BTCUSDT", "instrument symbol")
	fetchCmd.Flags().StringVarP(&fetchInterval, "interval", "i", "5m", "candle interval")
	fetchCmd.Flags().IntVar(&fetchDays, "days", 30, "number of days to download")
	fetchCmd.Flags().StringVarP(&fetchOut, "out", "o", "", "output CSV path (required)")

	fetchCmd.MarkFlagRequired("out")
}

func runFetch(cmd *cobra.Command, args []string) error {
	client := &binance.Client{
		BaseURL: os.Getenv("BINANCE_BASE_URL"),
		APIKey:  os.Getenv("BINANCE_API_KEY"),
	}

	now := time.Now().UTC()
	candles, err := client.FetchCandles(cmd.Context(), binance.KlinesOptions{
		Symbol:   fetchSymbol,
		Interval: fetchInterval,
		From:     now.AddDate(0, 0, -fetchDays),
		To:       now,
	})
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}

	f, err := os.Create(fetchOut)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := market.WriteCandlesCSV(f, candles)
	if err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	fmt.Printf("Wrote %d candles to %s\n", n, fetchOut)
	return nil
}
