// Package indicators provides streaming technical indicators for the
// signal engine.
package indicators

import "github.com/rustyeddy/trendtrader/market"

// Indicator computes a single streaming value from daily closes.
// It is deterministic and safe to use in live queries and backtests.
type Indicator interface {
	// Name returns a stable identifier like "SMA(250)".
	Name() string

	// Warmup returns how many updates are needed before Ready() can be true.
	Warmup() int

	// Reset clears all internal state.
	Reset()

	// Update consumes the next *closed* daily price and updates state.
	Update(p market.PricePoint)

	// Ready reports whether Value() is meaningful (warmup completed).
	Ready() bool

	// Value returns the current indicator value. If !Ready(), it returns 0;
	// callers should always check Ready().
	Value() float64
}
