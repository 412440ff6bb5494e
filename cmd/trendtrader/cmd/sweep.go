package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/trendtrader/backtest"
	"github.com/rustyeddy/trendtrader/market"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Backtest a range of lookback windows",
	Long: `Sweep runs one independent backtest per lookback window over the same
aligned history and prints a comparison table. Runs share no state and
execute in parallel.`,
	RunE: runSweep,
}

var (
	swMin  int
	swMax  int
	swStep int
)

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().IntVar(&swMin, "min", 50, "smallest lookback window")
	sweepCmd.Flags().IntVar(&swMax, "max", 300, "largest lookback window")
	sweepCmd.Flags().IntVar(&swStep, "step", 50, "window increment")
}

func runSweep(cmd *cobra.Command, args []string) error {
	if swMin < 2 || swMax < swMin || swStep < 1 {
		return fmt.Errorf("bad sweep range: min=%d max=%d step=%d", swMin, swMax, swStep)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	provider := market.NewCSVProvider(cfg.Data.Dir)
	var all []market.Series
	for _, sym := range cfg.Symbols() {
		s, err := provider.Daily(sym, time.Time{}, time.Time{})
		if err != nil {
			return fmt.Errorf("load %s: %w", sym, err)
		}
		all = append(all, s)
	}

	table, err := market.Align(all...)
	if err != nil {
		return err
	}
	log.Info().Int("rows", table.Len()).Msg("aligned price table")

	var lookbacks []int
	for lb := swMin; lb <= swMax; lb += swStep {
		lookbacks = append(lookbacks, lb)
	}

	rows := backtest.Sweep(table, backtest.OptionsFromConfig(cfg), lookbacks)

	fmt.Printf("%-10s %12s %10s %10s %8s %8s\n",
		"Lookback", "TotalRet", "CAGR", "MaxDD", "Sharpe", "Trades")
	for _, row := range rows {
		if row.Err != nil {
			fmt.Printf("%-10d %s\n", row.Lookback, row.Err)
			continue
		}
		r := row.Report
		fmt.Printf("%-10d %11.2f%% %9.2f%% %9.2f%% %8.2f %8d\n",
			row.Lookback, r.TotalReturn*100, r.CAGR*100, r.MaxDrawdown*100, r.Sharpe, r.Trades)
	}

	return nil
}
