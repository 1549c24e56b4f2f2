package model

// MetricRecord holds the per-instrument factors computed for one run.
// Recomputed fresh each screen; never persisted on its own.
type MetricRecord struct {
	Instrument    Instrument
	Volatility    float64 // annualized 12-month volatility, percent
	Momentum      float64 // 12-1 month momentum, percent
	DividendYield float64 // trailing annual yield, percent
	Observations  int
}
