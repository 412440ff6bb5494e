package cmd

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/trendtrader/config"
	"github.com/rustyeddy/trendtrader/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "trendtrader",
	Short: "A trend-following backtester for leveraged ETFs",
	Long: `Trendtrader evaluates a daily moving-average trend rule against
historical price history.

It provides tools for:
  - Backtesting the trend rule with per-symbol CSV price data
  - Checking today's signal without running a full backtest
  - Sweeping lookback windows across independent runs
  - Journaling equity curves and trade logs to CSV or SQLite`,
}

var (
	cfgFile  string
	logLevel string
	dataDir  string

	log zerolog.Logger
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(func() {
		// A .env next to the binary may carry DATA_DIR and friends;
		// missing is fine.
		_ = godotenv.Load()
		log = logging.New(logLevel)
	})

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "directory of per-symbol CSV files (overrides config)")
}

// loadConfig resolves the effective configuration: file if given,
// defaults otherwise, with the --data override applied last.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		loaded, err := config.LoadFromFile(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if dataDir != "" {
		cfg.Data.Dir = dataDir
	}
	return cfg, nil
}
