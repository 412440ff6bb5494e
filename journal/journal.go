// Package journal persists backtest runs: the equity curve, the trade log,
// and the summary report, to CSV files or SQLite.
package journal

import (
	"time"

	"github.com/rustyeddy/trendtrader/backtest"
)

// Run mirrors one row of the runs table: the configuration snapshot plus
// the computed report, keyed by a ULID run ID.
type Run struct {
	RunID   string
	Created time.Time

	Lookback      int
	SignalSymbol  string
	BullSymbol    string
	BearSymbol    string
	ShortsEnabled bool

	InitialCapital float64
	CostFraction   float64
	RiskFreeRate   float64

	Start time.Time
	End   time.Time

	FinalValue  float64
	TotalReturn float64
	CAGR        float64
	MaxDrawdown float64
	Sharpe      float64
	AnnualVol   float64
	WinRate     float64
	Trades      int
}

// NewRun snapshots options and report into a Run record.
func NewRun(runID string, opts backtest.Options, rep backtest.Report) Run {
	return Run{
		RunID:   runID,
		Created: time.Now().UTC(),

		Lookback:      opts.Lookback,
		SignalSymbol:  opts.SignalSymbol,
		BullSymbol:    opts.BullSymbol,
		BearSymbol:    opts.BearSymbol,
		ShortsEnabled: opts.ShortsEnabled,

		InitialCapital: opts.InitialCapital,
		CostFraction:   opts.CostFraction,
		RiskFreeRate:   opts.RiskFreeRate,

		Start: rep.Start,
		End:   rep.End,

		FinalValue:  rep.FinalValue,
		TotalReturn: rep.TotalReturn,
		CAGR:        rep.CAGR,
		MaxDrawdown: rep.MaxDrawdown,
		Sharpe:      rep.Sharpe,
		AnnualVol:   rep.AnnualVol,
		WinRate:     rep.WinRate,
		Trades:      rep.Trades,
	}
}
