// Package market holds daily price series and the aligned table the
// backtest engine consumes.
package market

import (
	"fmt"
	"math"
	"time"
)

// PricePoint is one daily observation: the calendar day and the close.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// Series is an ordered sequence of daily closes for one instrument.
type Series struct {
	Symbol string
	Points []PricePoint
}

// Day truncates t to UTC midnight. All series dates are normalized with it
// so two providers reporting the same calendar day always compare equal.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s Series) Len() int { return len(s.Points) }

// First and Last return the series endpoints. Callers must check Len() > 0.
func (s Series) First() PricePoint { return s.Points[0] }
func (s Series) Last() PricePoint  { return s.Points[len(s.Points)-1] }

// Validate checks the series invariants: dates strictly increasing with no
// duplicates, every close positive and finite.
func (s Series) Validate() error {
	if s.Symbol == "" {
		return fmt.Errorf("series has no symbol")
	}
	if len(s.Points) == 0 {
		return fmt.Errorf("%s: empty series", s.Symbol)
	}

	var prev time.Time
	for i, p := range s.Points {
		if p.Close <= 0 || math.IsNaN(p.Close) || math.IsInf(p.Close, 0) {
			return &AlignmentError{
				Symbol: s.Symbol,
				Date:   p.Date,
				Reason: fmt.Sprintf("non-positive or non-finite close %v", p.Close),
			}
		}
		if i > 0 && !p.Date.After(prev) {
			return &AlignmentError{
				Symbol: s.Symbol,
				Date:   p.Date,
				Reason: "dates not strictly increasing",
			}
		}
		prev = p.Date
	}
	return nil
}

// Closes returns the close column.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Close
	}
	return out
}
