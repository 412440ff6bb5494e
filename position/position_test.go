package position

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/trendtrader/signal"
)

func TestTarget(t *testing.T) {
	tests := []struct {
		name   string
		trend  signal.Trend
		shorts bool
		want   Position
	}{
		{"above goes bull", signal.Above, false, Bull},
		{"above goes bull with shorts", signal.Above, true, Bull},
		{"below goes cash", signal.Below, false, Cash},
		{"below goes bear with shorts", signal.Below, true, Bear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Target(tt.trend, tt.shorts))
		})
	}
}

func TestTransition(t *testing.T) {
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	t.Run("change records a trade", func(t *testing.T) {
		next, tr := Transition(Cash, Bull, day, 0.001)
		assert.Equal(t, Bull, next)
		require.NotNil(t, tr)
		assert.Equal(t, Cash, tr.From)
		assert.Equal(t, Bull, tr.To)
		assert.Equal(t, day, tr.Date)
		assert.Equal(t, 0.001, tr.Cost)
	})

	t.Run("self-transition records nothing", func(t *testing.T) {
		next, tr := Transition(Bull, Bull, day, 0.001)
		assert.Equal(t, Bull, next)
		assert.Nil(t, tr)
	})

	t.Run("reversal bull to bear", func(t *testing.T) {
		next, tr := Transition(Bull, Bear, day, 0)
		assert.Equal(t, Bear, next)
		require.NotNil(t, tr)
		assert.Equal(t, Bull, tr.From)
		assert.Equal(t, Bear, tr.To)
	})
}

func TestParsePosition(t *testing.T) {
	for _, p := range []Position{Cash, Bull, Bear} {
		assert.Equal(t, p, ParsePosition(p.String()))
	}
	assert.Equal(t, Cash, ParsePosition("whatever"))
}
