package signal

import (
	"fmt"

	"github.com/rustyeddy/trendtrader/indicators"
	"github.com/rustyeddy/trendtrader/market"
)

// Snapshot is the live "what should I hold today" answer: the most recent
// Sample plus context a daily check wants to see.
type Snapshot struct {
	Sample

	// DistancePct is how far the close sits from the average, in percent
	// of the average.
	DistancePct float64

	// CrossedUp / CrossedDown report whether the latest day moved through
	// the average relative to the prior day.
	CrossedUp   bool
	CrossedDown bool
}

// Latest computes the single most recent Sample for a series without
// running a backtest. It consumes the same rolling-average logic as the
// Generator, so live answers and simulated ones can never disagree.
func Latest(s market.Series, period int) (Snapshot, error) {
	if period < 2 {
		return Snapshot{}, fmt.Errorf("signal: period must be >= 2, got %d", period)
	}
	if err := s.Validate(); err != nil {
		return Snapshot{}, err
	}
	if s.Len() < period {
		return Snapshot{}, fmt.Errorf("signal: need at least %d days of %s, got %d",
			period, s.Symbol, s.Len())
	}

	sma := indicators.NewSMA(period)

	var prev Sample
	havePrev := false
	var last Sample

	for _, p := range s.Points {
		sma.Update(p)
		if !sma.Ready() {
			continue
		}
		if !last.Date.IsZero() {
			prev = last
			havePrev = true
		}
		ref := sma.Value()
		last = Sample{
			Date:  p.Date,
			Close: p.Close,
			Ref:   ref,
			Trend: Classify(p.Close, ref),
		}
	}

	snap := Snapshot{
		Sample:      last,
		DistancePct: (last.Close - last.Ref) / last.Ref * 100,
	}
	if havePrev {
		snap.CrossedUp = last.Trend == Above && prev.Trend == Below
		snap.CrossedDown = last.Trend == Below && prev.Trend == Above
	}
	return snap, nil
}
