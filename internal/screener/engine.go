// Package screener ranks instruments by a low-volatility composite score.
//
// The engine is pure: it consumes fully materialized price histories,
// computes annualized volatility, 12-1 momentum and dividend yield per
// instrument, normalizes each factor to percentile ranks across the
// surviving set, combines them with the configured weights and returns the
// top N. Instruments that cannot be scored are reported as exclusions with
// a reason, never silently dropped.
package screener

import (
	"math"
	"sort"
	"time"

	"github.com/alex30free/swedish-stock-screener/internal/calculator"
	"github.com/alex30free/swedish-stock-screener/internal/model"
)

// Engine applies one Config to price histories. Construct with New.
type Engine struct {
	cfg Config
}

// New validates the configuration and returns a ready engine.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Screen ranks the given histories. The returned result is deterministic
// for identical input and configuration. When fewer instruments qualify
// than the configured top-N, the short result is returned together with a
// *UniverseError so the caller can decide how to proceed.
func (e *Engine) Screen(histories map[string]*model.PriceHistory) (*model.RunResult, error) {
	result := &model.RunResult{GeneratedAt: time.Now().UTC()}

	tickers := make([]string, 0, len(histories))
	for t := range histories {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	metrics := make([]model.MetricRecord, 0, len(tickers))
	for _, ticker := range tickers {
		rec, reason := e.measure(ticker, histories[ticker])
		if reason != "" {
			result.Excluded = append(result.Excluded, model.Exclusion{Ticker: ticker, Reason: reason})
			continue
		}
		metrics = append(metrics, rec)
	}
	result.UniverseCount = len(metrics)

	survivors := e.applyFilters(metrics, result)
	result.Entries = e.rank(survivors)

	sort.Slice(result.Excluded, func(i, j int) bool {
		return result.Excluded[i].Ticker < result.Excluded[j].Ticker
	})

	if len(survivors) < e.cfg.TopN {
		return result, &UniverseError{Qualifying: len(survivors), Requested: e.cfg.TopN}
	}
	return result, nil
}

// measure computes the factor record for one instrument, or the exclusion
// reason that disqualifies it. A bad instrument never fails the run.
func (e *Engine) measure(ticker string, h *model.PriceHistory) (model.MetricRecord, model.ExclusionReason) {
	if h == nil || len(h.Observations) == 0 {
		return model.MetricRecord{}, model.ReasonInsufficientData
	}

	obs, badPrices := sanitize(h.Observations)
	obs = trimLookback(obs, e.cfg.LookbackDays)
	if len(obs) < e.cfg.MinObservations {
		// Blame the bad points only when they are what pushed the series
		// below the threshold.
		if badPrices > 0 && len(obs)+badPrices >= e.cfg.MinObservations {
			return model.MetricRecord{}, model.ReasonInvalidPrices
		}
		return model.MetricRecord{}, model.ReasonInsufficientData
	}

	closes := make([]float64, len(obs))
	for i, o := range obs {
		closes[i] = o.Close
	}

	minReturns := e.cfg.MinObservations - 1
	if minReturns < 2 {
		minReturns = 2
	}
	vol, err := calculator.AnnualizedVolatility(closes, minReturns)
	if err != nil {
		return model.MetricRecord{}, model.ReasonInsufficientData
	}

	var mom float64
	if e.cfg.momentumRequired() {
		mom, err = calculator.Momentum(closes, e.cfg.momentumWindow())
		if err != nil {
			return model.MetricRecord{}, model.ReasonInsufficientMomentum
		}
	}

	inst := h.Instrument
	if inst.Ticker == "" {
		inst.Ticker = ticker
	}
	return model.MetricRecord{
		Instrument:    inst,
		Volatility:    vol,
		Momentum:      mom,
		DividendYield: h.DividendYield,
		Observations:  len(obs),
	}, ""
}

// applyFilters runs the optional volatility and momentum percentile
// pre-filters, recording everything they remove as exclusions.
func (e *Engine) applyFilters(metrics []model.MetricRecord, result *model.RunResult) []model.MetricRecord {
	survivors := metrics

	if e.cfg.VolatilityPercentile > 0 && len(survivors) > 0 {
		vols := make([]float64, len(survivors))
		for i, m := range survivors {
			vols[i] = m.Volatility
		}
		threshold, err := calculator.Quantile(vols, e.cfg.VolatilityPercentile)
		if err == nil {
			kept := survivors[:0:0]
			for _, m := range survivors {
				if m.Volatility <= threshold {
					kept = append(kept, m)
				} else {
					result.Excluded = append(result.Excluded, model.Exclusion{
						Ticker: m.Instrument.Ticker, Reason: model.ReasonHighVolatility,
					})
				}
			}
			survivors = kept
		}
	}

	if e.cfg.MomentumCutoff > 0 && len(survivors) > 0 {
		moms := make([]float64, len(survivors))
		for i, m := range survivors {
			moms[i] = m.Momentum
		}
		threshold, err := calculator.Quantile(moms, e.cfg.MomentumCutoff)
		if err == nil {
			kept := survivors[:0:0]
			for _, m := range survivors {
				if m.Momentum >= threshold {
					kept = append(kept, m)
				} else {
					result.Excluded = append(result.Excluded, model.Exclusion{
						Ticker: m.Instrument.Ticker, Reason: model.ReasonWeakMomentum,
					})
				}
			}
			survivors = kept
		}
	}

	return survivors
}

// rank normalizes each factor to percentile ranks across the survivors,
// combines them into the composite score and returns the ordered top N.
func (e *Engine) rank(metrics []model.MetricRecord) []model.RankedEntry {
	if len(metrics) == 0 {
		return nil
	}

	vols := make([]float64, len(metrics))
	moms := make([]float64, len(metrics))
	yields := make([]float64, len(metrics))
	for i, m := range metrics {
		vols[i] = m.Volatility
		moms[i] = m.Momentum
		yields[i] = m.DividendYield
	}

	// Percentile rank per factor: low volatility ranks first, high momentum
	// and yield rank first. A low rank means a high composite contribution.
	volRank := calculator.PercentileRanks(vols, true)
	momRank := calculator.PercentileRanks(moms, false)
	yieldRank := calculator.PercentileRanks(yields, false)

	entries := make([]model.RankedEntry, len(metrics))
	for i, m := range metrics {
		score := (100-volRank[i])*e.cfg.WVolatility +
			(100-momRank[i])*e.cfg.WMomentum +
			(100-yieldRank[i])*e.cfg.WYield
		entries[i] = model.RankedEntry{
			Instrument:    m.Instrument,
			Volatility:    m.Volatility,
			Momentum:      m.Momentum,
			DividendYield: m.DividendYield,
			Score:         score,
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Instrument.Ticker < entries[j].Instrument.Ticker
	})

	if len(entries) > e.cfg.TopN {
		entries = entries[:e.cfg.TopN]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// sanitize returns the observations sorted by date with duplicate dates and
// non-finite or non-positive closes removed, plus the number of points
// dropped for bad prices. Duplicate dates are collapsed silently, they are
// redundant rather than invalid.
func sanitize(obs []model.PriceObservation) ([]model.PriceObservation, int) {
	clean := make([]model.PriceObservation, 0, len(obs))
	badPrices := 0
	for _, o := range obs {
		if math.IsNaN(o.Close) || math.IsInf(o.Close, 0) || o.Close <= 0 {
			badPrices++
			continue
		}
		clean = append(clean, o)
	}
	sort.SliceStable(clean, func(i, j int) bool { return clean[i].Date.Before(clean[j].Date) })

	deduped := clean[:0:0]
	for i, o := range clean {
		if i > 0 && o.Date.Equal(clean[i-1].Date) {
			continue
		}
		deduped = append(deduped, o)
	}
	return deduped, badPrices
}

// trimLookback drops observations older than lookbackDays before the most
// recent observation.
func trimLookback(obs []model.PriceObservation, lookbackDays int) []model.PriceObservation {
	if len(obs) == 0 {
		return obs
	}
	cutoff := obs[len(obs)-1].Date.AddDate(0, 0, -lookbackDays)
	for i, o := range obs {
		if !o.Date.Before(cutoff) {
			return obs[i:]
		}
	}
	return obs[:0]
}
