// Package signal classifies each day of the reference series as above or
// below its rolling average.
package signal

import (
	"fmt"
	"time"

	"github.com/rustyeddy/trendtrader/indicators"
	"github.com/rustyeddy/trendtrader/market"
)

// Trend is the binary state of the reference close versus its rolling
// average.
type Trend int

const (
	// Below means close <= average. Equality resolves to Below on purpose:
	// it is the out-of-market side of the rule, and the tie-break must be
	// deterministic.
	Below Trend = iota
	Above
)

func (t Trend) String() string {
	if t == Above {
		return "ABOVE"
	}
	return "BELOW"
}

// Sample is one day's signal: the close, the rolling reference average
// ending at that day, and the resulting trend. Ref never includes a close
// dated after Date.
type Sample struct {
	Date  time.Time
	Close float64
	Ref   float64
	Trend Trend
}

// Classify applies the tie-break policy: Above only on a strict break of
// the average.
func Classify(close, ref float64) Trend {
	if close > ref {
		return Above
	}
	return Below
}

// Generator lazily emits one Sample per date from the period-th date of the
// aligned table onward. It is restartable and has no side effects on the
// table.
type Generator struct {
	closes []float64
	table  *market.Table
	symbol string
	period int

	sma *indicators.SMA
	idx int
}

// NewGenerator validates the inputs up front: the symbol must be in the
// table and the table must span at least period rows, otherwise no sample
// could ever be produced.
func NewGenerator(t *market.Table, symbol string, period int) (*Generator, error) {
	if period < 2 {
		return nil, fmt.Errorf("signal: period must be >= 2, got %d", period)
	}
	closes, err := t.Column(symbol)
	if err != nil {
		return nil, fmt.Errorf("signal: %w", err)
	}
	if t.Len() < period {
		return nil, fmt.Errorf("signal: need at least %d rows of %s, got %d",
			period, symbol, t.Len())
	}

	return &Generator{
		closes: closes,
		table:  t,
		symbol: symbol,
		period: period,
		sma:    indicators.NewSMA(period),
	}, nil
}

// Period returns the lookback window length.
func (g *Generator) Period() int { return g.period }

// Reset restarts the sequence from the beginning of the table.
func (g *Generator) Reset() {
	g.sma.Reset()
	g.idx = 0
}

// Next returns the next Sample, or ok=false when the table is exhausted.
// The first period-1 days produce nothing: their window is not filled.
func (g *Generator) Next() (Sample, bool) {
	for g.idx < g.table.Len() {
		i := g.idx
		g.idx++

		g.sma.Push(g.closes[i])
		if !g.sma.Ready() {
			continue
		}

		ref := g.sma.Value()
		c := g.closes[i]
		return Sample{
			Date:  g.table.Date(i),
			Close: c,
			Ref:   ref,
			Trend: Classify(c, ref),
		}, true
	}
	return Sample{}, false
}

// All drains the generator into a slice. Length is always
// table rows - period + 1.
func (g *Generator) All() []Sample {
	g.Reset()
	out := make([]Sample, 0, g.table.Len()-g.period+1)
	for {
		s, ok := g.Next()
		if !ok {
			return out
		}
		out = append(out, s)
	}
}
