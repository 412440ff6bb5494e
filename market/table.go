package market

import (
	"fmt"
	"sort"
	"time"
)

// AlignmentError reports the instrument and date that broke alignment or
// series validation. It is the fatal input-validation error of the engine:
// a run never starts on a table that failed to align.
type AlignmentError struct {
	Symbol string
	Date   time.Time
	Reason string
}

func (e *AlignmentError) Error() string {
	if e.Date.IsZero() {
		return fmt.Sprintf("align %s: %s", e.Symbol, e.Reason)
	}
	return fmt.Sprintf("align %s at %s: %s", e.Symbol, e.Date.Format("2006-01-02"), e.Reason)
}

// Table is the aligned, date-indexed close table shared by every engine
// stage. All symbols cover the identical date index; rows are immutable
// once built.
type Table struct {
	dates  []time.Time
	closes map[string][]float64
}

// Align merges per-instrument series into one table covering the common
// date range. Within that range every instrument must have every date any
// other instrument has; a hole is an *AlignmentError, never a silent drop.
func Align(series ...Series) (*Table, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("align: no series")
	}

	for _, s := range series {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}

	// Common range: latest first date through earliest last date.
	start := series[0].First().Date
	end := series[0].Last().Date
	for _, s := range series[1:] {
		if f := s.First().Date; f.After(start) {
			start = f
		}
		if l := s.Last().Date; l.Before(end) {
			end = l
		}
	}
	if end.Before(start) {
		return nil, fmt.Errorf("align: series date ranges do not overlap")
	}

	// Union of dates inside the common range.
	seen := map[time.Time]bool{}
	bysym := make(map[string]map[time.Time]float64, len(series))
	for _, s := range series {
		if _, dup := bysym[s.Symbol]; dup {
			return nil, fmt.Errorf("align: duplicate symbol %s", s.Symbol)
		}
		m := make(map[time.Time]float64, len(s.Points))
		for _, p := range s.Points {
			if p.Date.Before(start) || p.Date.After(end) {
				continue
			}
			m[p.Date] = p.Close
			seen[p.Date] = true
		}
		bysym[s.Symbol] = m
	}

	dates := make([]time.Time, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	t := &Table{
		dates:  dates,
		closes: make(map[string][]float64, len(series)),
	}
	for _, s := range series {
		col := make([]float64, len(dates))
		m := bysym[s.Symbol]
		for i, d := range dates {
			c, ok := m[d]
			if !ok {
				return nil, &AlignmentError{
					Symbol: s.Symbol,
					Date:   d,
					Reason: "missing date present in other series",
				}
			}
			col[i] = c
		}
		t.closes[s.Symbol] = col
	}

	return t, nil
}

func (t *Table) Len() int { return len(t.dates) }

func (t *Table) Date(i int) time.Time { return t.dates[i] }

// Start and End return the table's date endpoints.
func (t *Table) Start() time.Time { return t.dates[0] }
func (t *Table) End() time.Time   { return t.dates[len(t.dates)-1] }

// Close returns the close for symbol on row i.
func (t *Table) Close(symbol string, i int) (float64, error) {
	col, ok := t.closes[symbol]
	if !ok {
		return 0, fmt.Errorf("table: unknown symbol %s", symbol)
	}
	return col[i], nil
}

// Column returns the close column for symbol. The returned slice is the
// table's backing array; callers must not mutate it.
func (t *Table) Column(symbol string) ([]float64, error) {
	col, ok := t.closes[symbol]
	if !ok {
		return nil, fmt.Errorf("table: unknown symbol %s", symbol)
	}
	return col, nil
}

func (t *Table) Has(symbol string) bool {
	_, ok := t.closes[symbol]
	return ok
}

func (t *Table) Symbols() []string {
	syms := make([]string, 0, len(t.closes))
	for s := range t.closes {
		syms = append(syms, s)
	}
	sort.Strings(syms)
	return syms
}

// Slice returns the sub-table covering [from, to] inclusive. The result
// shares backing arrays with the receiver.
func (t *Table) Slice(from, to time.Time) (*Table, error) {
	lo := sort.Search(len(t.dates), func(i int) bool { return !t.dates[i].Before(from) })
	hi := sort.Search(len(t.dates), func(i int) bool { return t.dates[i].After(to) })
	if lo >= hi {
		return nil, fmt.Errorf("table: empty slice %s..%s",
			from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	out := &Table{
		dates:  t.dates[lo:hi],
		closes: make(map[string][]float64, len(t.closes)),
	}
	for sym, col := range t.closes {
		out.closes[sym] = col[lo:hi]
	}
	return out, nil
}

// SeriesFor reconstructs the aligned series for one symbol, mainly for the
// live signal path and for exporting.
func (t *Table) SeriesFor(symbol string) (Series, error) {
	col, err := t.Column(symbol)
	if err != nil {
		return Series{}, err
	}
	pts := make([]PricePoint, len(col))
	for i, c := range col {
		pts[i] = PricePoint{Date: t.dates[i], Close: c}
	}
	return Series{Symbol: symbol, Points: pts}, nil
}
