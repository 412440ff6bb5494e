package backtest

import (
	"fmt"
	"io"
	"math"
	"time"
)

// PrintReport writes the strategy report, and optionally the buy-and-hold
// comparison, as a plain-text summary.
func PrintReport(w io.Writer, name string, r Report, buyHold *Report) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, " Backtest Result: %s\n", name)
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Start:           %s\n", r.Start.Format(time.DateOnly))
	fmt.Fprintf(w, "End:             %s\n", r.End.Format(time.DateOnly))
	years := r.End.Sub(r.Start).Hours() / 24 / 365.25
	fmt.Fprintf(w, "Span:            %.2f years\n", years)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Strategy Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Initial Capital: %.2f\n", r.InitialCapital)
	fmt.Fprintf(w, "Final Value:     %.2f\n", r.FinalValue)
	fmt.Fprintf(w, "Total Return:    %.2f%%\n", r.TotalReturn*100)
	fmt.Fprintf(w, "CAGR:            %.2f%%\n", r.CAGR*100)
	fmt.Fprintf(w, "Annual Vol:      %.2f%%\n", r.AnnualVol*100)
	fmt.Fprintf(w, "Sharpe Ratio:    %s\n", f2(r.Sharpe))
	fmt.Fprintf(w, "Max Drawdown:    %.2f%%\n", r.MaxDrawdown*100)
	fmt.Fprintf(w, "Win Rate:        %s\n", pct(r.WinRate))
	fmt.Fprintf(w, "Trades:          %d\n", r.Trades)

	if buyHold != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Buy & Hold Comparison")
		fmt.Fprintln(w, "--------------------------------------------------")
		fmt.Fprintf(w, "Final Value:     %.2f\n", buyHold.FinalValue)
		fmt.Fprintf(w, "Total Return:    %.2f%%\n", buyHold.TotalReturn*100)
		fmt.Fprintf(w, "CAGR:            %.2f%%\n", buyHold.CAGR*100)
		fmt.Fprintf(w, "Max Drawdown:    %.2f%%\n", buyHold.MaxDrawdown*100)

		diff := (r.TotalReturn - buyHold.TotalReturn) * 100
		if diff >= 0 {
			fmt.Fprintf(w, "Strategy outperformed by %.2f%%\n", diff)
		} else {
			fmt.Fprintf(w, "Strategy underperformed by %.2f%%\n", -diff)
		}
	}

	fmt.Fprintln(w)
}

func f2(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

func pct(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", v*100)
}
