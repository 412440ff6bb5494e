package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/trendtrader/backtest"
	"github.com/rustyeddy/trendtrader/config"
	"github.com/rustyeddy/trendtrader/journal"
	"github.com/rustyeddy/trendtrader/market"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run the trend rule against historical data",
	Long: `Backtest replays the configured signal index through the rolling-average
trend rule and simulates holding the leveraged ETF, reporting total
return, CAGR, max drawdown, Sharpe ratio, win rate, and trade count,
alongside a buy-and-hold comparison.

Example:
  trendtrader backtest --data ./data --lookback 250 --from 2015-01-01`,
	RunE: runBacktest,
}

var (
	btLookback int
	btSignal   string
	btBull     string
	btBear     string
	btShorts   bool
	btCapital  float64
	btCost     float64
	btRF       float64
	btFrom     string
	btTo       string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().IntVarP(&btLookback, "lookback", "l", 0, "rolling-average window in trading days (overrides config)")
	backtestCmd.Flags().StringVar(&btSignal, "signal", "", "signal index symbol (overrides config)")
	backtestCmd.Flags().StringVar(&btBull, "bull", "", "leveraged bull ETF symbol (overrides config)")
	backtestCmd.Flags().StringVar(&btBear, "bear", "", "leveraged bear ETF symbol (implies --shorts)")
	backtestCmd.Flags().BoolVar(&btShorts, "shorts", false, "hold the bear ETF instead of cash below the average")
	backtestCmd.Flags().Float64VarP(&btCapital, "capital", "b", 0, "starting capital (overrides config)")
	backtestCmd.Flags().Float64Var(&btCost, "cost", -1, "transaction cost fraction per transition (overrides config)")
	backtestCmd.Flags().Float64Var(&btRF, "risk-free", 0, "annualized risk-free rate")
	backtestCmd.Flags().StringVar(&btFrom, "from", "", "start date YYYY-MM-DD (default: all data)")
	backtestCmd.Flags().StringVar(&btTo, "to", "", "end date YYYY-MM-DD (default: all data)")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyStrategyFlags(cfg)

	from, to, err := parseRange(btFrom, btTo)
	if err != nil {
		return err
	}

	runner := backtest.Runner{
		Provider: market.NewCSVProvider(cfg.Data.Dir),
		Config:   cfg,
		Log:      log,
	}

	var closer interface{ Close() error }
	switch cfg.Journal.Type {
	case "csv":
		j, err := journal.NewCSV(cfg.Journal.TradesFile, cfg.Journal.EquityFile)
		if err != nil {
			return fmt.Errorf("open csv journal: %w", err)
		}
		runner.Journal, closer = j, j
	case "sqlite":
		j, err := journal.NewSQLite(cfg.Journal.DBPath)
		if err != nil {
			return fmt.Errorf("open sqlite journal: %w", err)
		}
		runner.Journal, closer = j, j
	}
	if closer != nil {
		defer closer.Close()
	}

	summary, err := runner.Run(from, to)
	if err != nil {
		return err
	}

	name := fmt.Sprintf("%s vs SMA(%d) trading %s",
		cfg.Strategy.SignalSymbol, cfg.Strategy.Lookback, cfg.Strategy.BullSymbol)
	backtest.PrintReport(os.Stdout, name, summary.Result.Report, &summary.BuyHold.Report)
	fmt.Printf("Run ID: %s\n", summary.RunID)

	return nil
}

func applyStrategyFlags(cfg *config.Config) {
	if btLookback > 0 {
		cfg.Strategy.Lookback = btLookback
	}
	if btSignal != "" {
		cfg.Strategy.SignalSymbol = btSignal
	}
	if btBull != "" {
		cfg.Strategy.BullSymbol = btBull
	}
	if btBear != "" {
		cfg.Strategy.BearSymbol = btBear
		cfg.Strategy.ShortsEnabled = true
	}
	if btShorts {
		cfg.Strategy.ShortsEnabled = true
	}
	if btCapital > 0 {
		cfg.Account.InitialCapital = btCapital
	}
	if btCost >= 0 {
		cfg.Strategy.CostFraction = btCost
	}
	if btRF != 0 {
		cfg.Strategy.RiskFreeRate = btRF
	}
}

func parseRange(fromStr, toStr string) (from, to time.Time, err error) {
	if fromStr != "" {
		from, err = time.Parse(time.DateOnly, fromStr)
		if err != nil {
			return from, to, fmt.Errorf("bad --from %q: %w", fromStr, err)
		}
	}
	if toStr != "" {
		to, err = time.Parse(time.DateOnly, toStr)
		if err != nil {
			return from, to, fmt.Errorf("bad --to %q: %w", toStr, err)
		}
	}
	return from, to, nil
}
