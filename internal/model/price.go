package model

import "time"

// Instrument identifies a listed security in the screen universe.
type Instrument struct {
	Ticker string
	Name   string
	Sector string
}

// PriceObservation is a single dated closing price.
type PriceObservation struct {
	Date  time.Time
	Close float64
}

// PriceHistory holds one instrument's chronological daily closes plus the
// profile fields used by the yield factor.
type PriceHistory struct {
	Instrument    Instrument
	Observations  []PriceObservation
	DividendYield float64 // trailing annual yield in percent, 0 if unknown
	FetchedAt     time.Time
}
