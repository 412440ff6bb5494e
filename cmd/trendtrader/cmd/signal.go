package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/trendtrader/market"
	"github.com/rustyeddy/trendtrader/position"
	"github.com/rustyeddy/trendtrader/signal"
)

var signalCmd = &cobra.Command{
	Use:   "signal",
	Short: "Print today's trend signal without running a backtest",
	Long: `Signal answers the daily "what should I hold" question: it computes the
most recent rolling-average sample for the configured signal index and
maps it to the target holding.`,
	RunE: runSignal,
}

func init() {
	rootCmd.AddCommand(signalCmd)
}

func runSignal(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	provider := market.NewCSVProvider(cfg.Data.Dir)
	series, err := provider.Daily(cfg.Strategy.SignalSymbol, time.Time{}, time.Time{})
	if err != nil {
		return err
	}

	snap, err := signal.Latest(series, cfg.Strategy.Lookback)
	if err != nil {
		return err
	}

	target := position.Target(snap.Trend, cfg.Strategy.ShortsEnabled)
	holding := "CASH"
	switch target {
	case position.Bull:
		holding = cfg.Strategy.BullSymbol
	case position.Bear:
		holding = cfg.Strategy.BearSymbol
	}

	fmt.Printf("Date:             %s\n", snap.Date.Format(time.DateOnly))
	fmt.Printf("%s close:       %.2f\n", cfg.Strategy.SignalSymbol, snap.Close)
	fmt.Printf("SMA(%d):         %.2f\n", cfg.Strategy.Lookback, snap.Ref)
	fmt.Printf("Distance from MA: %.2f%%\n", snap.DistancePct)
	fmt.Printf("Trend:            %s\n", snap.Trend)
	switch {
	case snap.CrossedUp:
		fmt.Println("Crossover:        price crossed ABOVE the average")
	case snap.CrossedDown:
		fmt.Println("Crossover:        price crossed BELOW the average")
	}
	fmt.Printf("Hold:             %s\n", holding)

	return nil
}
