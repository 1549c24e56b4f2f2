package collector

import (
	"context"

	"github.com/alex30free/swedish-stock-screener/internal/model"
)

// Fetcher defines the interface for fetching market data for one ticker.
type Fetcher interface {
	// FetchDailyHistory returns chronological daily closes covering roughly
	// the trailing lookbackDays calendar days.
	FetchDailyHistory(ctx context.Context, ticker string, lookbackDays int) ([]model.PriceObservation, error)
	// FetchProfile returns the instrument's display name and sector plus its
	// trailing dividend yield in percent. Providers without profile data
	// return zero values.
	FetchProfile(ctx context.Context, ticker string) (model.Instrument, float64, error)
	Name() string
}
