package screener

import (
	"fmt"

	"github.com/alex30free/swedish-stock-screener/internal/calculator"
)

// DefaultMomentumWindowDays is the observation count a full 12-1 momentum
// window needs, roughly eleven months of trading days.
const DefaultMomentumWindowDays = 220

// Config holds the screen parameters. Weights follow the van Vliet
// composite: lower volatility rank scores higher, with momentum and
// dividend-yield tilts.
type Config struct {
	LookbackDays    int // calendar days of price history per instrument
	MinObservations int // minimum valid closes to include an instrument
	TopN            int

	WVolatility float64
	WMomentum   float64
	WYield      float64

	// MomentumWindowDays is the minimum observation count before the
	// momentum factor is computed; shorter series are excluded. Zero means
	// DefaultMomentumWindowDays.
	MomentumWindowDays int

	// Optional pre-filters. Zero disables.
	VolatilityPercentile float64 // keep instruments at or below this volatility quantile
	MomentumCutoff       float64 // drop instruments below this momentum quantile
}

// DefaultConfig returns the published methodology: 13 months of history,
// bottom 30% by volatility, bottom 25% momentum removed, composite
// 0.40 vol / 0.35 momentum / 0.25 yield, top 10.
func DefaultConfig() Config {
	return Config{
		LookbackDays:         400,
		MinObservations:      50,
		TopN:                 10,
		WVolatility:          0.40,
		WMomentum:            0.35,
		WYield:               0.25,
		MomentumWindowDays:   DefaultMomentumWindowDays,
		VolatilityPercentile: 0.30,
		MomentumCutoff:       0.25,
	}
}

// Validate rejects the configuration before any per-instrument work runs.
func (c Config) Validate() error {
	if c.LookbackDays <= 0 {
		return fmt.Errorf("%w: lookback_days must be positive, got %d", ErrInvalidConfig, c.LookbackDays)
	}
	if c.MinObservations <= 1 {
		return fmt.Errorf("%w: min_observations must be greater than 1, got %d", ErrInvalidConfig, c.MinObservations)
	}
	if c.TopN <= 0 {
		return fmt.Errorf("%w: top_n must be positive, got %d", ErrInvalidConfig, c.TopN)
	}
	if c.WVolatility < 0 || c.WMomentum < 0 || c.WYield < 0 {
		return fmt.Errorf("%w: factor weights must not be negative", ErrInvalidConfig)
	}
	if c.WVolatility+c.WMomentum+c.WYield == 0 {
		return fmt.Errorf("%w: factor weights must not sum to zero", ErrInvalidConfig)
	}
	if c.MomentumWindowDays < 0 {
		return fmt.Errorf("%w: momentum_window_days must not be negative, got %d", ErrInvalidConfig, c.MomentumWindowDays)
	}
	if c.VolatilityPercentile < 0 || c.VolatilityPercentile >= 1 {
		return fmt.Errorf("%w: volatility_percentile must be in [0,1), got %g", ErrInvalidConfig, c.VolatilityPercentile)
	}
	if c.MomentumCutoff < 0 || c.MomentumCutoff >= 1 {
		return fmt.Errorf("%w: momentum_cutoff must be in [0,1), got %g", ErrInvalidConfig, c.MomentumCutoff)
	}
	return nil
}

// momentumRequired reports whether the screen needs the momentum factor at
// all; with a zero weight and no cutoff, short series are not penalized
// for it.
func (c Config) momentumRequired() bool {
	return c.WMomentum > 0 || c.MomentumCutoff > 0
}

// momentumWindow resolves the minimum observation count for the momentum
// factor. It is never allowed below what the skip period itself needs.
func (c Config) momentumWindow() int {
	w := c.MomentumWindowDays
	if w == 0 {
		w = DefaultMomentumWindowDays
	}
	if min := calculator.MomentumSkipDays + 2; w < min {
		w = min
	}
	return w
}
