package backtest

import "github.com/rustyeddy/trendtrader/position"

// BuyHold scores holding the bull ETF continuously over the same simulated
// range, as the comparison baseline for the trend rule. It shares the
// engine's aligned table and date window, so both reports cover identical
// calendar spans.
func (e *Engine) BuyHold() (*Result, error) {
	first := e.opts.Lookback - 1
	n := e.table.Len()

	value := e.opts.InitialCapital
	equity := make([]EquityPoint, 0, n-first)
	equity = append(equity, EquityPoint{Date: e.table.Date(first), Value: value})

	for i := first + 1; i < n; i++ {
		r, err := e.dailyReturn(position.Bull, i, 0)
		if err != nil {
			return nil, err
		}
		value *= 1 + r
		equity = append(equity, EquityPoint{Date: e.table.Date(i), Value: value})
	}

	report, err := ComputeReport(equity, nil, e.opts.InitialCapital, e.opts.RiskFreeRate)
	if err != nil {
		return nil, err
	}

	return &Result{Equity: equity, Report: report}, nil
}
