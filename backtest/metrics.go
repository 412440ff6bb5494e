package backtest

import (
	"fmt"
	"math"
	"time"

	"github.com/rustyeddy/trendtrader/position"
)

// Report is the read-only performance snapshot computed once at the end of
// a run. Degenerate metrics (zero-variance returns, no completed round
// trips) come back as NaN, never as a crash: a backtest with no trades is
// a valid, reportable outcome.
type Report struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	InitialCapital float64 `json:"initial_capital"`
	FinalValue     float64 `json:"final_value"`

	TotalReturn float64 `json:"total_return"`
	CAGR        float64 `json:"cagr"`
	MaxDrawdown float64 `json:"max_drawdown"` // <= 0, fraction from peak
	Sharpe      float64 `json:"sharpe"`
	AnnualVol   float64 `json:"annual_volatility"`
	WinRate     float64 `json:"win_rate"`
	Trades      int     `json:"trades"`
}

// ComputeReport scores a finished equity curve and trade log. It is a pure
// function: callers can re-run it over a journaled curve and get an
// identical report.
func ComputeReport(equity []EquityPoint, trades []position.Trade,
	initial float64, rfAnnual float64) (Report, error) {

	if len(equity) < 2 {
		return Report{}, fmt.Errorf("metrics: need at least 2 equity points, got %d", len(equity))
	}
	if initial <= 0 {
		return Report{}, fmt.Errorf("metrics: initial capital must be positive, got %v", initial)
	}

	start := equity[0].Date
	end := equity[len(equity)-1].Date
	final := equity[len(equity)-1].Value

	r := Report{
		Start:          start,
		End:            end,
		InitialCapital: initial,
		FinalValue:     final,
		TotalReturn:    final/initial - 1,
		Trades:         len(trades),
	}

	// CAGR over the actual calendar span, not trading-day count.
	days := end.Sub(start).Hours() / 24
	if days <= 0 {
		r.CAGR = math.NaN()
	} else {
		r.CAGR = math.Pow(final/initial, 365.25/days) - 1
	}

	r.MaxDrawdown = maxDrawdown(equity)
	r.Sharpe, r.AnnualVol = sharpe(equity, rfAnnual)
	r.WinRate = winRate(equity, trades)

	return r, nil
}

// maxDrawdown is the worst decline from the running peak, as a fraction
// <= 0. A monotonically non-decreasing curve reports exactly 0.
func maxDrawdown(equity []EquityPoint) float64 {
	peak := equity[0].Value
	worst := 0.0
	for _, p := range equity {
		if p.Value > peak {
			peak = p.Value
		}
		if dd := p.Value/peak - 1; dd < worst {
			worst = dd
		}
	}
	return worst
}

// sharpe annualizes with sqrt(252) after subtracting the daily risk-free
// offset. Zero variance yields NaN, not an error.
func sharpe(equity []EquityPoint, rfAnnual float64) (ratio, annualVol float64) {
	rets := dailyReturns(equity)
	if len(rets) < 2 {
		return math.NaN(), math.NaN()
	}

	dailyRF := rfAnnual / 252
	mean := 0.0
	for i := range rets {
		rets[i] -= dailyRF
		mean += rets[i]
	}
	mean /= float64(len(rets))

	variance := 0.0
	for _, x := range rets {
		d := x - mean
		variance += d * d
	}
	variance /= float64(len(rets) - 1)
	sd := math.Sqrt(variance)

	annualVol = sd * math.Sqrt(252)
	if sd == 0 {
		return math.NaN(), annualVol
	}
	return mean / sd * math.Sqrt(252), annualVol
}

func dailyReturns(equity []EquityPoint) []float64 {
	out := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		out = append(out, equity[i].Value/equity[i-1].Value-1)
	}
	return out
}

// winRate scores completed round trips only: a trade entering a non-cash
// position, later exited by the next trade. The realized segment return is
// read off the equity curve between the two trade dates, so costs are
// included. A position still open at the end of the run is excluded, not
// counted as a loss. No completed round trips reports NaN.
func winRate(equity []EquityPoint, trades []position.Trade) float64 {
	valueAt := make(map[time.Time]float64, len(equity))
	for _, p := range equity {
		valueAt[p.Date] = p.Value
	}

	wins, completed := 0, 0
	for i := 0; i+1 < len(trades); i++ {
		if trades[i].To == position.Cash {
			continue
		}
		entry, okIn := valueAt[trades[i].Date]
		exit, okOut := valueAt[trades[i+1].Date]
		if !okIn || !okOut || entry == 0 {
			continue
		}
		completed++
		if exit/entry-1 > 0 {
			wins++
		}
	}

	if completed == 0 {
		return math.NaN()
	}
	return float64(wins) / float64(completed)
}
