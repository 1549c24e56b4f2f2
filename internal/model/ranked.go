package model

import "time"

// ExclusionReason explains why an instrument was dropped from a run.
type ExclusionReason string

const (
	ReasonInsufficientData     ExclusionReason = "insufficient data"
	ReasonInsufficientMomentum ExclusionReason = "insufficient data for momentum"
	ReasonInvalidPrices        ExclusionReason = "invalid price data"
	ReasonHighVolatility       ExclusionReason = "volatility above cutoff"
	ReasonWeakMomentum         ExclusionReason = "momentum below cutoff"
	ReasonFetchFailed          ExclusionReason = "fetch failed"
)

// Exclusion records an instrument that did not make it into the ranking.
type Exclusion struct {
	Ticker string          `json:"ticker"`
	Reason ExclusionReason `json:"reason"`
}

// RankedEntry is one row of the final top-N list.
type RankedEntry struct {
	Instrument    Instrument
	Rank          int // 1-based
	Volatility    float64
	Momentum      float64
	DividendYield float64
	Score         float64
}

// RunResult is the full outcome of one screen: the ordered ranking plus
// every instrument that fell out, with its reason.
type RunResult struct {
	Entries       []RankedEntry
	Excluded      []Exclusion
	UniverseCount int // instruments with usable metrics before filtering
	GeneratedAt   time.Time
}
