// Package backtest replays daily price history through the trend rule and
// scores the result.
package backtest

import (
	"fmt"
	"math"
	"time"

	"github.com/rustyeddy/trendtrader/config"
	"github.com/rustyeddy/trendtrader/market"
	"github.com/rustyeddy/trendtrader/position"
	"github.com/rustyeddy/trendtrader/signal"
)

// EquityPoint is one day of the portfolio value curve.
type EquityPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Options are the engine knobs for one run. They are immutable once the
// engine is built; nothing reads ambient globals.
type Options struct {
	Lookback       int
	SignalSymbol   string
	BullSymbol     string
	BearSymbol     string
	ShortsEnabled  bool
	InitialCapital float64
	CostFraction   float64

	// RiskFreeRate is annualized; cash earns it daily at rate/252 and the
	// Sharpe ratio subtracts the same daily offset.
	RiskFreeRate float64
}

// OptionsFromConfig maps the static configuration onto engine options.
func OptionsFromConfig(c *config.Config) Options {
	return Options{
		Lookback:       c.Strategy.Lookback,
		SignalSymbol:   c.Strategy.SignalSymbol,
		BullSymbol:     c.Strategy.BullSymbol,
		BearSymbol:     c.Strategy.BearSymbol,
		ShortsEnabled:  c.Strategy.ShortsEnabled,
		InitialCapital: c.Account.InitialCapital,
		CostFraction:   c.Strategy.CostFraction,
		RiskFreeRate:   c.Strategy.RiskFreeRate,
	}
}

// Result is everything one run produces: the full equity curve, the
// append-only trade log, and the summary report. A failed run returns no
// Result at all, never a truncated one.
type Result struct {
	Equity []EquityPoint
	Trades []position.Trade
	Report Report
}

// Engine runs one backtest over an aligned table. It is single-threaded
// and deterministic; independent engines over the same (immutable) table
// may run in parallel.
type Engine struct {
	table *market.Table
	opts  Options

	signalCloses []float64
	bullCloses   []float64
	bearCloses   []float64
}

// NewEngine validates options and table up front, so every failure
// surfaces before any simulation starts.
func NewEngine(table *market.Table, opts Options) (*Engine, error) {
	if opts.Lookback < 2 {
		return nil, fmt.Errorf("backtest: lookback must be >= 2, got %d", opts.Lookback)
	}
	if opts.InitialCapital <= 0 {
		return nil, fmt.Errorf("backtest: initial capital must be positive, got %v", opts.InitialCapital)
	}
	if opts.CostFraction < 0 || opts.CostFraction >= 1 {
		return nil, fmt.Errorf("backtest: cost fraction must be in [0, 1), got %v", opts.CostFraction)
	}
	if table == nil {
		return nil, fmt.Errorf("backtest: nil table")
	}
	if table.Len() <= opts.Lookback {
		return nil, fmt.Errorf("backtest: lookback %d needs more than %d rows, table has %d",
			opts.Lookback, opts.Lookback, table.Len())
	}

	e := &Engine{table: table, opts: opts}

	var err error
	if e.signalCloses, err = table.Column(opts.SignalSymbol); err != nil {
		return nil, fmt.Errorf("backtest: signal series: %w", err)
	}
	if e.bullCloses, err = table.Column(opts.BullSymbol); err != nil {
		return nil, fmt.Errorf("backtest: bull series: %w", err)
	}
	if opts.ShortsEnabled {
		if opts.BearSymbol == "" {
			return nil, fmt.Errorf("backtest: shorts enabled but no bear symbol")
		}
		if e.bearCloses, err = table.Column(opts.BearSymbol); err != nil {
			return nil, fmt.Errorf("backtest: bear series: %w", err)
		}
	} else if opts.BearSymbol != "" {
		return nil, fmt.Errorf("backtest: bear symbol %s set but shorts disabled", opts.BearSymbol)
	}

	return e, nil
}

// Run replays the table once, forward in time.
//
// Ordering is the anti-look-ahead contract: the signal for day i is
// observed at that day's close, the resulting position change happens at
// the end-of-day boundary, and the new position first earns day i+1's
// return. Day i's own return always belongs to the position decided the
// day before.
func (e *Engine) Run() (*Result, error) {
	gen, err := signal.NewGenerator(e.table, e.opts.SignalSymbol, e.opts.Lookback)
	if err != nil {
		return nil, err
	}

	first := e.opts.Lookback - 1 // row of the first valid signal
	n := e.table.Len()

	held := position.Cash
	var trades []position.Trade
	pendingCost := false

	value := e.opts.InitialCapital
	equity := make([]EquityPoint, 0, n-first)
	equity = append(equity, EquityPoint{Date: e.table.Date(first), Value: value})

	// Decide from the first signal before any return is applied.
	s, ok := gen.Next()
	if !ok {
		return nil, fmt.Errorf("backtest: signal generator produced no samples")
	}
	held, trades, pendingCost = e.decide(held, s, trades, pendingCost)

	dailyRF := e.opts.RiskFreeRate / 252

	for i := first + 1; i < n; i++ {
		r, err := e.dailyReturn(held, i, dailyRF)
		if err != nil {
			return nil, err
		}

		value *= 1 + r
		if pendingCost {
			value *= 1 - e.opts.CostFraction
			pendingCost = false
		}
		equity = append(equity, EquityPoint{Date: e.table.Date(i), Value: value})

		// Today's close completes today's signal; any change starts
		// earning tomorrow.
		s, ok := gen.Next()
		if !ok {
			return nil, fmt.Errorf("backtest: signal ended early at row %d", i)
		}
		held, trades, pendingCost = e.decide(held, s, trades, pendingCost)
	}

	report, err := ComputeReport(equity, trades, e.opts.InitialCapital, e.opts.RiskFreeRate)
	if err != nil {
		return nil, err
	}

	return &Result{
		Equity: equity,
		Trades: trades,
		Report: report,
	}, nil
}

func (e *Engine) decide(held position.Position, s signal.Sample,
	trades []position.Trade, pendingCost bool) (position.Position, []position.Trade, bool) {

	target := position.Target(s.Trend, e.opts.ShortsEnabled)
	next, trade := position.Transition(held, target, s.Date, e.opts.CostFraction)
	if trade != nil {
		trades = append(trades, *trade)
		if e.opts.CostFraction > 0 {
			pendingCost = true
		}
	}
	return next, trades, pendingCost
}

// dailyReturn is the held position's own instrument return from row i-1 to
// row i. The tradable ETF's actual closes carry the leverage decay; the
// signal index is never used for P&L.
func (e *Engine) dailyReturn(held position.Position, i int, dailyRF float64) (float64, error) {
	var closes []float64
	switch held {
	case position.Bull:
		closes = e.bullCloses
	case position.Bear:
		closes = e.bearCloses
	default:
		return dailyRF, nil
	}

	prev := closes[i-1]
	if prev == 0 || math.IsNaN(prev) || math.IsInf(prev, 0) {
		return 0, fmt.Errorf("backtest: bad prior close %v for %s at %s",
			prev, held, e.table.Date(i-1).Format("2006-01-02"))
	}
	return closes[i]/prev - 1, nil
}
