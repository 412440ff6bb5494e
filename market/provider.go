package market

import "time"

// Provider hands back an ordered daily close series for one symbol. Gaps
// and transport failures surface as errors; retry/backoff, if any, lives
// behind the implementation, never in the engine.
type Provider interface {
	Daily(symbol string, from, to time.Time) (Series, error)
}
