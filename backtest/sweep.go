package backtest

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rustyeddy/trendtrader/market"
)

// SweepRow is the outcome of one lookback candidate.
type SweepRow struct {
	Lookback int
	Report   Report
	Err      error
}

// Sweep runs one independent backtest per lookback window over the same
// immutable table, one worker per run. Runs share nothing mutable, so the
// parallelism lives entirely out here; each engine stays sequential.
func Sweep(table *market.Table, base Options, lookbacks []int) []SweepRow {
	rows := make([]SweepRow, len(lookbacks))

	var wg sync.WaitGroup
	for i, lb := range lookbacks {
		wg.Add(1)
		go func(i, lb int) {
			defer wg.Done()
			rows[i] = sweepOne(table, base, lb)
		}(i, lb)
	}
	wg.Wait()

	sort.Slice(rows, func(i, j int) bool { return rows[i].Lookback < rows[j].Lookback })
	return rows
}

func sweepOne(table *market.Table, base Options, lookback int) SweepRow {
	opts := base
	opts.Lookback = lookback

	engine, err := NewEngine(table, opts)
	if err != nil {
		return SweepRow{Lookback: lookback, Err: fmt.Errorf("lookback %d: %w", lookback, err)}
	}
	res, err := engine.Run()
	if err != nil {
		return SweepRow{Lookback: lookback, Err: fmt.Errorf("lookback %d: %w", lookback, err)}
	}
	return SweepRow{Lookback: lookback, Report: res.Report}
}
