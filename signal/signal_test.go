package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/trendtrader/market"
)

func series(symbol string, start time.Time, closes ...float64) market.Series {
	s := market.Series{Symbol: symbol}
	for i, c := range closes {
		s.Points = append(s.Points, market.PricePoint{
			Date:  market.Day(start.AddDate(0, 0, i)),
			Close: c,
		})
	}
	return s
}

func table(t *testing.T, s market.Series) *market.Table {
	t.Helper()
	tbl, err := market.Align(s)
	require.NoError(t, err)
	return tbl
}

func TestClassify(t *testing.T) {
	assert.Equal(t, Above, Classify(101, 100))
	assert.Equal(t, Below, Classify(99, 100))

	// Equality is Below: the conservative, out-of-market side.
	assert.Equal(t, Below, Classify(100, 100))
}

func TestGenerator(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("sample count is rows minus period plus one", func(t *testing.T) {
		tbl := table(t, series("NDX", start, 100, 101, 102, 103, 104, 105))
		g, err := NewGenerator(tbl, "NDX", 3)
		require.NoError(t, err)

		samples := g.All()
		assert.Len(t, samples, 4)
		// First sample lands on the day the window fills.
		assert.Equal(t, market.Day(start.AddDate(0, 0, 2)), samples[0].Date)
		assert.InDelta(t, (100.0+101.0+102.0)/3.0, samples[0].Ref, 1e-9)
	})

	t.Run("no look-ahead", func(t *testing.T) {
		base := series("NDX", start, 100, 100, 100, 100, 100)
		g, err := NewGenerator(table(t, base), "NDX", 3)
		require.NoError(t, err)
		plain := g.All()

		// Make every future close an extreme outlier; the early samples
		// must be byte-identical.
		spiked := series("NDX", start, 100, 100, 100, 100, 100, 1e6, 1e6, 1e6)
		g2, err := NewGenerator(table(t, spiked), "NDX", 3)
		require.NoError(t, err)
		withFuture := g2.All()

		require.GreaterOrEqual(t, len(withFuture), len(plain))
		for i, s := range plain {
			assert.Equal(t, s, withFuture[i], "sample %d changed when future data changed", i)
		}
	})

	t.Run("restartable", func(t *testing.T) {
		tbl := table(t, series("NDX", start, 100, 101, 102, 103))
		g, err := NewGenerator(tbl, "NDX", 2)
		require.NoError(t, err)

		first := g.All()
		second := g.All()
		assert.Equal(t, first, second)
	})

	t.Run("window longer than series", func(t *testing.T) {
		tbl := table(t, series("NDX", start, 100, 101))
		_, err := NewGenerator(tbl, "NDX", 5)
		assert.ErrorContains(t, err, "at least 5 rows")
	})

	t.Run("period below two", func(t *testing.T) {
		tbl := table(t, series("NDX", start, 100, 101))
		_, err := NewGenerator(tbl, "NDX", 1)
		assert.Error(t, err)
	})

	t.Run("unknown symbol", func(t *testing.T) {
		tbl := table(t, series("NDX", start, 100, 101, 102))
		_, err := NewGenerator(tbl, "SPX", 2)
		assert.Error(t, err)
	})

	t.Run("deterministic across runs", func(t *testing.T) {
		tbl := table(t, series("NDX", start, 100, 100, 100, 101, 99, 100))
		g1, err := NewGenerator(tbl, "NDX", 3)
		require.NoError(t, err)
		g2, err := NewGenerator(tbl, "NDX", 3)
		require.NoError(t, err)
		assert.Equal(t, g1.All(), g2.All())
	})
}

func TestLatest(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("flat then jump crosses up", func(t *testing.T) {
		closes := make([]float64, 0, 11)
		for i := 0; i < 10; i++ {
			closes = append(closes, 100)
		}
		closes = append(closes, 110)
		snap, err := Latest(series("NDX", start, closes...), 10)
		require.NoError(t, err)

		assert.Equal(t, Above, snap.Trend)
		assert.True(t, snap.CrossedUp)
		assert.False(t, snap.CrossedDown)
		assert.InDelta(t, 101.0, snap.Ref, 1e-9) // (9*100 + 110) / 10
		assert.Greater(t, snap.DistancePct, 0.0)
	})

	t.Run("flat series stays below", func(t *testing.T) {
		snap, err := Latest(series("NDX", start, 100, 100, 100, 100), 3)
		require.NoError(t, err)
		assert.Equal(t, Below, snap.Trend)
		assert.False(t, snap.CrossedUp)
		assert.False(t, snap.CrossedDown)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := Latest(series("NDX", start, 100, 101), 5)
		assert.ErrorContains(t, err, "at least 5 days")
	})
}
