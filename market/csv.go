package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// CSVProvider serves daily series from a directory of per-symbol CSV files
// (<dir>/<SYMBOL>.csv, rows of "date,close", optional header). Index
// symbols like ^NDX are stored with the caret stripped.
type CSVProvider struct {
	Dir string
}

func NewCSVProvider(dir string) *CSVProvider {
	return &CSVProvider{Dir: dir}
}

func (p *CSVProvider) path(symbol string) string {
	name := strings.TrimPrefix(symbol, "^")
	return filepath.Join(p.Dir, name+".csv")
}

// Daily implements Provider. Zero from/to means unbounded on that side.
func (p *CSVProvider) Daily(symbol string, from, to time.Time) (Series, error) {
	f, err := os.Open(p.path(symbol))
	if err != nil {
		return Series{}, fmt.Errorf("csv provider %s: %w", symbol, err)
	}
	defer f.Close()

	s, err := ReadSeriesCSV(f, symbol)
	if err != nil {
		return Series{}, err
	}

	if !from.IsZero() || !to.IsZero() {
		pts := s.Points[:0:0]
		for _, pt := range s.Points {
			if !from.IsZero() && pt.Date.Before(from) {
				continue
			}
			if !to.IsZero() && pt.Date.After(to) {
				continue
			}
			pts = append(pts, pt)
		}
		s.Points = pts
	}
	if len(s.Points) == 0 {
		return Series{}, fmt.Errorf("csv provider %s: no rows in range", symbol)
	}
	return s, nil
}

// ReadSeriesCSV parses "date,close" rows. A first row whose date column
// does not parse is treated as a header and skipped.
func ReadSeriesCSV(r io.Reader, symbol string) (Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	s := Series{Symbol: symbol}
	line := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Series{}, fmt.Errorf("read %s: %w", symbol, err)
		}
		line++
		if len(row) < 2 {
			return Series{}, fmt.Errorf("read %s line %d: need date,close", symbol, line)
		}

		d, err := parseDay(strings.TrimSpace(row[0]))
		if err != nil {
			if line == 1 {
				continue // header
			}
			return Series{}, fmt.Errorf("read %s line %d: bad date %q: %w", symbol, line, row[0], err)
		}

		c, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return Series{}, fmt.Errorf("read %s line %d: bad close %q: %w", symbol, line, row[1], err)
		}

		s.Points = append(s.Points, PricePoint{Date: d, Close: c})
	}

	if err := s.Validate(); err != nil {
		return Series{}, err
	}
	return s, nil
}

func parseDay(v string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return Day(t), nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}
