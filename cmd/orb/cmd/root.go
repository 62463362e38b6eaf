package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "orb",
	Short: "Opening-Range-Breakout strategy backtester",
	Long: `Orb evaluates an Opening Range Breakout trading strategy against
historical price candles and reports its hypothetical profit and loss.

It provides tools for:
  - Backtesting the ORB strategy over a historical window
  - Downloading candle data from Binance futures to CSV
  - Journaling trades and daily results to SQLite or CSV
  - Tracing every trade of a specific date`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Optional .env with BINANCE_API_KEY etc.
		_ = godotenv.Load()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
