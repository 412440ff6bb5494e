package indicators

import (
	"fmt"

	"github.com/rustyeddy/trendtrader/market"
)

// SMA is a streaming Simple Moving Average over the last `period` closes.
//
// It keeps a fixed-capacity ring buffer plus a running sum, so Update is
// O(1) regardless of period: the newest close replaces the oldest and the
// sum is adjusted by the difference. That keeps multi-decade daily
// histories cheap even at long windows like 250.
type SMA struct {
	period int
	buf    []float64
	head   int
	count  int
	sum    float64
}

// NewSMA creates a streaming SMA. period must be >= 1.
func NewSMA(period int) *SMA {
	if period < 1 {
		period = 1
	}
	return &SMA{
		period: period,
		buf:    make([]float64, period),
	}
}

func (m *SMA) Name() string {
	return fmt.Sprintf("SMA(%d)", m.period)
}

func (m *SMA) Warmup() int {
	return m.period
}

func (m *SMA) Reset() {
	m.head = 0
	m.count = 0
	m.sum = 0
	for i := range m.buf {
		m.buf[i] = 0
	}
}

func (m *SMA) Update(p market.PricePoint) {
	m.Push(p.Close)
}

// Push adds a raw close, evicting the oldest once the window is full.
func (m *SMA) Push(close float64) {
	m.sum += close - m.buf[m.head]
	m.buf[m.head] = close
	m.head = (m.head + 1) % m.period
	if m.count < m.period {
		m.count++
	}
}

func (m *SMA) Ready() bool {
	return m.count >= m.period
}

func (m *SMA) Value() float64 {
	if !m.Ready() {
		return 0
	}
	return m.sum / float64(m.period)
}
