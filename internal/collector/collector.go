package collector

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/alex30free/swedish-stock-screener/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Histories map[string][]model.PriceObservation
	Profiles  map[string]model.Instrument
	Yields    map[string]float64
	Errs      map[string]error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyHistory(_ context.Context, ticker string, _ int) ([]model.PriceObservation, error) {
	if err, ok := m.Errs[ticker]; ok {
		return nil, err
	}
	return m.Histories[ticker], nil
}

func (m *MockFetcher) FetchProfile(_ context.Context, ticker string) (model.Instrument, float64, error) {
	inst, ok := m.Profiles[ticker]
	if !ok {
		inst = model.Instrument{Ticker: ticker, Name: ticker, Sector: "Unknown"}
	}
	return inst, m.Yields[ticker], nil
}

// Collector walks the configured universe, fetching each instrument's price
// history and profile behind a rate limiter. A failed ticker is reported as
// an exclusion candidate and never aborts the run.
type Collector struct {
	Fetcher      Fetcher
	Universe     []string
	LookbackDays int

	limiter *rate.Limiter
	log     *logrus.Entry
}

// NewCollector creates a Collector. requestsPerSecond throttles provider
// calls; zero or negative disables throttling.
func NewCollector(fetcher Fetcher, universe []string, lookbackDays int, requestsPerSecond float64, log *logrus.Entry) *Collector {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return &Collector{
		Fetcher:      fetcher,
		Universe:     universe,
		LookbackDays: lookbackDays,
		limiter:      limiter,
		log:          log,
	}
}

// Collect fetches the full universe. It returns the histories keyed by
// ticker plus an exclusion entry for every ticker that could not be
// fetched. Only context cancellation produces an error.
func (c *Collector) Collect(ctx context.Context) (map[string]*model.PriceHistory, []model.Exclusion, error) {
	histories := make(map[string]*model.PriceHistory, len(c.Universe))
	var failed []model.Exclusion

	for i, ticker := range c.Universe {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, nil, err
		}

		obs, err := c.Fetcher.FetchDailyHistory(ctx, ticker, c.LookbackDays)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, ctx.Err()
			}
			c.log.WithError(err).WithField("ticker", ticker).Warn("fetch history failed")
			failed = append(failed, model.Exclusion{Ticker: ticker, Reason: model.ReasonFetchFailed})
			continue
		}

		inst, yield, err := c.Fetcher.FetchProfile(ctx, ticker)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, ctx.Err()
			}
			// Profile data only feeds display name and the yield tilt.
			c.log.WithError(err).WithField("ticker", ticker).Debug("fetch profile failed")
			inst = model.Instrument{Ticker: ticker, Name: ticker, Sector: "Unknown"}
			yield = 0
		}

		histories[ticker] = &model.PriceHistory{
			Instrument:    inst,
			Observations:  obs,
			DividendYield: yield,
			FetchedAt:     time.Now().UTC(),
		}
		c.log.WithFields(logrus.Fields{
			"ticker":       ticker,
			"observations": len(obs),
			"progress":     i + 1,
			"universe":     len(c.Universe),
		}).Debug("fetched instrument")
	}

	c.log.WithFields(logrus.Fields{
		"fetched": len(histories),
		"failed":  len(failed),
		"source":  c.Fetcher.Name(),
	}).Info("universe collected")
	return histories, failed, nil
}
