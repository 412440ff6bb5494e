package indicators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/trendtrader/market"
)

func TestSMAStreaming(t *testing.T) {
	baseTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	points := []market.PricePoint{
		{Date: baseTime, Close: 102},
		{Date: baseTime.AddDate(0, 0, 1), Close: 105},
		{Date: baseTime.AddDate(0, 0, 2), Close: 106},
		{Date: baseTime.AddDate(0, 0, 3), Close: 108},
		{Date: baseTime.AddDate(0, 0, 4), Close: 110},
	}

	t.Run("basic functionality", func(t *testing.T) {
		ma := NewSMA(3)
		assert.Equal(t, "SMA(3)", ma.Name())
		assert.Equal(t, 3, ma.Warmup())
		assert.False(t, ma.Ready())
		assert.Equal(t, 0.0, ma.Value())

		ma.Update(points[0])
		assert.False(t, ma.Ready())
		ma.Update(points[1])
		assert.False(t, ma.Ready())

		ma.Update(points[2])
		assert.True(t, ma.Ready())
		assert.InDelta(t, (102.0+105.0+106.0)/3.0, ma.Value(), 1e-9)

		// Oldest close drops out of the window.
		ma.Update(points[3])
		assert.InDelta(t, (105.0+106.0+108.0)/3.0, ma.Value(), 1e-9)

		ma.Update(points[4])
		assert.InDelta(t, (106.0+108.0+110.0)/3.0, ma.Value(), 1e-9)
	})

	t.Run("reset functionality", func(t *testing.T) {
		ma := NewSMA(2)
		ma.Update(points[0])
		ma.Update(points[1])
		assert.True(t, ma.Ready())

		ma.Reset()
		assert.False(t, ma.Ready())
		assert.Equal(t, 0.0, ma.Value())

		// Usable again after Reset.
		ma.Update(points[2])
		ma.Update(points[3])
		assert.InDelta(t, (106.0+108.0)/2.0, ma.Value(), 1e-9)
	})

	t.Run("matches naive resum over long stream", func(t *testing.T) {
		const period = 7
		ma := NewSMA(period)

		var closes []float64
		for i := 0; i < 500; i++ {
			c := 100.0 + float64(i%17) - float64(i%5)*0.25
			closes = append(closes, c)
			ma.Push(c)

			if i+1 < period {
				assert.False(t, ma.Ready())
				continue
			}
			sum := 0.0
			for _, v := range closes[len(closes)-period:] {
				sum += v
			}
			assert.InDelta(t, sum/period, ma.Value(), 1e-9)
		}
	})

	t.Run("period one tracks the close", func(t *testing.T) {
		ma := NewSMA(1)
		ma.Push(42)
		assert.True(t, ma.Ready())
		assert.Equal(t, 42.0, ma.Value())
		ma.Push(7)
		assert.Equal(t, 7.0, ma.Value())
	})
}

func TestIndicatorInterface(t *testing.T) {
	var _ Indicator = &SMA{}
}
