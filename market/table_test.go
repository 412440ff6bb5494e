package market

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dailySeries(symbol string, start time.Time, closes ...float64) Series {
	s := Series{Symbol: symbol}
	for i, c := range closes {
		s.Points = append(s.Points, PricePoint{
			Date:  Day(start.AddDate(0, 0, i)),
			Close: c,
		})
	}
	return s
}

func TestSeriesValidate(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("valid", func(t *testing.T) {
		s := dailySeries("NDX", start, 100, 101, 102)
		assert.NoError(t, s.Validate())
	})

	t.Run("non-positive close", func(t *testing.T) {
		s := dailySeries("NDX", start, 100, 0, 102)
		err := s.Validate()
		require.Error(t, err)

		var ae *AlignmentError
		require.True(t, errors.As(err, &ae))
		assert.Equal(t, "NDX", ae.Symbol)
		assert.Equal(t, Day(start.AddDate(0, 0, 1)), ae.Date)
	})

	t.Run("duplicate date", func(t *testing.T) {
		s := dailySeries("NDX", start, 100, 101)
		s.Points = append(s.Points, s.Points[1])
		var ae *AlignmentError
		require.True(t, errors.As(s.Validate(), &ae))
		assert.Contains(t, ae.Reason, "strictly increasing")
	})

	t.Run("empty", func(t *testing.T) {
		assert.Error(t, Series{Symbol: "NDX"}.Validate())
	})
}

func TestAlign(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("trims to common range", func(t *testing.T) {
		ndx := dailySeries("NDX", start, 100, 101, 102, 103, 104)
		// TQQQ starts one day later, ends one day earlier.
		tqqq := dailySeries("TQQQ", start.AddDate(0, 0, 1), 50, 51, 52)

		tbl, err := Align(ndx, tqqq)
		require.NoError(t, err)
		assert.Equal(t, 3, tbl.Len())
		assert.Equal(t, Day(start.AddDate(0, 0, 1)), tbl.Start())
		assert.Equal(t, Day(start.AddDate(0, 0, 3)), tbl.End())

		c, err := tbl.Close("NDX", 0)
		require.NoError(t, err)
		assert.Equal(t, 101.0, c)
	})

	t.Run("missing date is fatal", func(t *testing.T) {
		ndx := dailySeries("NDX", start, 100, 101, 102, 103)
		tqqq := dailySeries("TQQQ", start, 50, 51, 52, 53)
		// Punch a hole in TQQQ inside the common range.
		tqqq.Points = append(tqqq.Points[:2], tqqq.Points[3])

		_, err := Align(ndx, tqqq)
		var ae *AlignmentError
		require.True(t, errors.As(err, &ae))
		assert.Equal(t, "TQQQ", ae.Symbol)
		assert.Equal(t, Day(start.AddDate(0, 0, 2)), ae.Date)
	})

	t.Run("disjoint ranges", func(t *testing.T) {
		a := dailySeries("A", start, 1, 2)
		b := dailySeries("B", start.AddDate(0, 1, 0), 1, 2)
		_, err := Align(a, b)
		assert.ErrorContains(t, err, "do not overlap")
	})

	t.Run("duplicate symbol", func(t *testing.T) {
		a := dailySeries("A", start, 1, 2)
		_, err := Align(a, a)
		assert.ErrorContains(t, err, "duplicate symbol")
	})
}

func TestTableSlice(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tbl, err := Align(dailySeries("NDX", start, 100, 101, 102, 103, 104))
	require.NoError(t, err)

	sub, err := tbl.Slice(Day(start.AddDate(0, 0, 1)), Day(start.AddDate(0, 0, 3)))
	require.NoError(t, err)
	assert.Equal(t, 3, sub.Len())
	assert.Equal(t, Day(start.AddDate(0, 0, 1)), sub.Start())

	_, err = tbl.Slice(Day(start.AddDate(0, 1, 0)), Day(start.AddDate(0, 2, 0)))
	assert.Error(t, err)
}

func TestReadSeriesCSV(t *testing.T) {
	t.Run("with header", func(t *testing.T) {
		in := "date,close\n2024-01-01,100.5\n2024-01-02,101.25\n"
		s, err := ReadSeriesCSV(strings.NewReader(in), "TQQQ")
		require.NoError(t, err)
		assert.Equal(t, 2, s.Len())
		assert.Equal(t, 100.5, s.Points[0].Close)
	})

	t.Run("bad close", func(t *testing.T) {
		in := "2024-01-01,abc\n"
		_, err := ReadSeriesCSV(strings.NewReader(in), "TQQQ")
		assert.ErrorContains(t, err, "bad close")
	})

	t.Run("bad date past header", func(t *testing.T) {
		in := "2024-01-01,100\nnot-a-date,101\n"
		_, err := ReadSeriesCSV(strings.NewReader(in), "TQQQ")
		assert.ErrorContains(t, err, "bad date")
	})
}
