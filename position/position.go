// Package position maps trend signals to target holdings with a pure,
// independently testable transition function.
package position

import (
	"time"

	"github.com/rustyeddy/trendtrader/signal"
)

// Position is the single holding the strategy can be in. Exactly one is
// held at any time; changes are atomic at the end-of-day boundary.
type Position int

const (
	Cash Position = iota
	Bull          // long the leveraged bull ETF
	Bear          // long the leveraged bear ETF (shorts enabled only)
)

func (p Position) String() string {
	switch p {
	case Bull:
		return "BULL"
	case Bear:
		return "BEAR"
	default:
		return "CASH"
	}
}

// ParsePosition is the inverse of String, used when reloading journaled
// trade logs.
func ParsePosition(s string) Position {
	switch s {
	case "BULL":
		return Bull
	case "BEAR":
		return Bear
	default:
		return Cash
	}
}

// Trade records one transition between holdings. Immutable once recorded;
// the trade log is append-only.
type Trade struct {
	Date time.Time
	From Position
	To   Position

	// Cost is the transaction-cost fraction applied for this transition.
	Cost float64
}

// Target maps a trend state to the desired holding. Below maps to the bear
// ETF only when shorts are enabled, otherwise to cash.
func Target(t signal.Trend, shortsEnabled bool) Position {
	if t == signal.Above {
		return Bull
	}
	if shortsEnabled {
		return Bear
	}
	return Cash
}

// Transition compares the held position against the target and returns the
// new state plus a Trade when they differ. A self-transition returns no
// Trade. cost is the configured transaction-cost fraction stamped on the
// Trade; applying it to equity is the simulator's job.
func Transition(held, target Position, date time.Time, cost float64) (Position, *Trade) {
	if held == target {
		return held, nil
	}
	return target, &Trade{
		Date: date,
		From: held,
		To:   target,
		Cost: cost,
	}
}
