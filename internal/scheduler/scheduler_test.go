package scheduler

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alex30free/swedish-stock-screener/internal/collector"
	"github.com/alex30free/swedish-stock-screener/internal/model"
	"github.com/alex30free/swedish-stock-screener/internal/output"
	"github.com/alex30free/swedish-stock-screener/internal/recorder"
	"github.com/alex30free/swedish-stock-screener/internal/screener"
)

func testLog() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log.WithField("component", "test")
}

func obsSeries(n int, base float64, wobble float64) []model.PriceObservation {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	obs := make([]model.PriceObservation, n)
	for i := range obs {
		c := base
		if i%2 == 1 {
			c *= 1 + wobble
		}
		obs[i] = model.PriceObservation{Date: start.AddDate(0, 0, i), Close: c}
	}
	return obs
}

func TestRunScreen_EndToEnd(t *testing.T) {
	fetcher := &collector.MockFetcher{
		Histories: map[string][]model.PriceObservation{
			"AAK.ST":   obsSeries(60, 100, 0.002),
			"AXFO.ST":  obsSeries(60, 200, 0.008),
			"TELIA.ST": obsSeries(60, 30, 0.004),
			"SHORT.ST": obsSeries(3, 50, 0),
		},
		Yields: map[string]float64{"TELIA.ST": 6.5},
	}
	universe := []string{"AAK.ST", "AXFO.ST", "TELIA.ST", "SHORT.ST"}

	eng, err := screener.New(screener.Config{
		LookbackDays:       400,
		MinObservations:    20,
		TopN:               2,
		WVolatility:        0.40,
		WMomentum:          0.35,
		WYield:             0.25,
		MomentumWindowDays: 40,
	})
	require.NoError(t, err)

	outPath := filepath.Join(t.TempDir(), "data.json")
	col := collector.NewCollector(fetcher, universe, 400, 0, testLog())
	sched := NewScheduler(context.Background(), col, eng, recorder.NewNoopRecorder(), outPath, testLog())

	require.NoError(t, sched.RunScreen())

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var doc output.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, 3, doc.UniverseCount)
	require.Len(t, doc.Stocks, 2)
	assert.Equal(t, 1, doc.Stocks[0].Rank)
	// TELIA wins on the yield tilt plus mid-pack volatility; AAK takes the
	// volatility factor; AXFO drops out of the top 2.
	assert.Equal(t, "TELIA", doc.Stocks[0].Ticker)
	assert.Equal(t, "AAK", doc.Stocks[1].Ticker)
}

func TestRunScreen_ShortUniverseStillPublishes(t *testing.T) {
	fetcher := &collector.MockFetcher{
		Histories: map[string][]model.PriceObservation{
			"AAK.ST": obsSeries(60, 100, 0.002),
		},
	}

	eng, err := screener.New(screener.Config{
		LookbackDays:    400,
		MinObservations: 20,
		TopN:            10,
		WVolatility:     1,
	})
	require.NoError(t, err)

	outPath := filepath.Join(t.TempDir(), "data.json")
	col := collector.NewCollector(fetcher, []string{"AAK.ST"}, 400, 0, testLog())
	sched := NewScheduler(context.Background(), col, eng, recorder.NewNoopRecorder(), outPath, testLog())

	// A short universe is a warning, not a failure.
	require.NoError(t, sched.RunScreen())

	var doc output.Document
	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Len(t, doc.Stocks, 1)
}

type captureRecorder struct {
	snap *recorder.RunSnapshot
}

func (c *captureRecorder) RecordRun(s *recorder.RunSnapshot) error { c.snap = s; return nil }
func (c *captureRecorder) Close() error                            { return nil }

func TestRunScreen_ExclusionsSortedAfterFetchFailures(t *testing.T) {
	fetcher := &collector.MockFetcher{
		Histories: map[string][]model.PriceObservation{
			"OK.ST":    obsSeries(60, 100, 0.002),
			"SHORT.ST": obsSeries(3, 50, 0),
		},
		Errs: map[string]error{"AAA.ST": io.ErrUnexpectedEOF},
	}

	eng, err := screener.New(screener.Config{
		LookbackDays:    400,
		MinObservations: 20,
		TopN:            1,
		WVolatility:     1,
	})
	require.NoError(t, err)

	rec := &captureRecorder{}
	outPath := filepath.Join(t.TempDir(), "data.json")
	col := collector.NewCollector(fetcher, []string{"OK.ST", "SHORT.ST", "AAA.ST"}, 400, 0, testLog())
	sched := NewScheduler(context.Background(), col, eng, rec, outPath, testLog())

	require.NoError(t, sched.RunScreen())
	require.NotNil(t, rec.snap)

	// Fetch failures and engine exclusions end up in one ticker-sorted list.
	excluded := rec.snap.Result.Excluded
	require.Len(t, excluded, 2)
	assert.Equal(t, "AAA.ST", excluded[0].Ticker)
	assert.Equal(t, model.ReasonFetchFailed, excluded[0].Reason)
	assert.Equal(t, "SHORT.ST", excluded[1].Ticker)
	assert.Equal(t, model.ReasonInsufficientData, excluded[1].Reason)
}

func TestRegisterAll_BadCron(t *testing.T) {
	sched := NewScheduler(context.Background(), nil, nil, recorder.NewNoopRecorder(), "", testLog())
	assert.Error(t, sched.RegisterAll("not a cron expression"))
	assert.NoError(t, sched.RegisterAll("0 0 6 * * 1"))
}
