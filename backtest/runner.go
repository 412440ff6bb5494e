package backtest

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/trendtrader/config"
	"github.com/rustyeddy/trendtrader/market"
	"github.com/rustyeddy/trendtrader/pkg/id"
)

// Journal persists a finished run. Implementations live in the journal
// package; the engine only needs this one method, so a run can be recorded
// to CSV, SQLite, or nothing at all.
type Journal interface {
	RecordResult(runID string, opts Options, res *Result) error
}

// Runner wires the price provider, configuration, and journal around one
// engine invocation.
type Runner struct {
	Provider market.Provider
	Config   *config.Config
	Journal  Journal // optional
	Log      zerolog.Logger
}

// RunSummary is what a completed runner invocation hands back.
type RunSummary struct {
	RunID   string
	Result  *Result
	BuyHold *Result
}

// Run loads and aligns the configured symbols over [from, to] (zero times
// mean unbounded), runs the engine, scores buy-and-hold over the same
// window, and journals the run.
func (r *Runner) Run(from, to time.Time) (*RunSummary, error) {
	if r.Provider == nil {
		return nil, fmt.Errorf("backtest: Provider is required")
	}
	if r.Config == nil {
		return nil, fmt.Errorf("backtest: Config is required")
	}
	if err := r.Config.Validate(); err != nil {
		return nil, err
	}

	var all []market.Series
	for _, sym := range r.Config.Symbols() {
		s, err := r.Provider.Daily(sym, from, to)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", sym, err)
		}
		r.Log.Debug().Str("symbol", sym).Int("days", s.Len()).Msg("loaded series")
		all = append(all, s)
	}

	table, err := market.Align(all...)
	if err != nil {
		return nil, err
	}
	r.Log.Info().
		Int("rows", table.Len()).
		Time("start", table.Start()).
		Time("end", table.End()).
		Msg("aligned price table")

	engine, err := NewEngine(table, OptionsFromConfig(r.Config))
	if err != nil {
		return nil, err
	}

	res, err := engine.Run()
	if err != nil {
		return nil, err
	}

	bh, err := engine.BuyHold()
	if err != nil {
		return nil, err
	}

	runID := id.New()
	r.Log.Info().
		Str("run_id", runID).
		Float64("total_return", res.Report.TotalReturn).
		Float64("max_drawdown", res.Report.MaxDrawdown).
		Int("trades", res.Report.Trades).
		Msg("backtest complete")

	if r.Journal != nil {
		if err := r.Journal.RecordResult(runID, OptionsFromConfig(r.Config), res); err != nil {
			return nil, fmt.Errorf("journal run %s: %w", runID, err)
		}
	}

	return &RunSummary{RunID: runID, Result: res, BuyHold: bh}, nil
}
