package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alex30free/swedish-stock-screener/internal/model"
)

func TestSQLiteRecorder_RecordRun(t *testing.T) {
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "screener.db"))
	require.NoError(t, err)
	defer rec.Close()

	snap := &RunSnapshot{
		Provider: "mock",
		Duration: 1500 * time.Millisecond,
		Result: &model.RunResult{
			GeneratedAt:   time.Date(2026, 8, 24, 6, 0, 0, 0, time.UTC),
			UniverseCount: 3,
			Entries: []model.RankedEntry{
				{Instrument: model.Instrument{Ticker: "TELIA.ST", Name: "Telia"}, Rank: 1, Volatility: 11.2, Score: 91},
				{Instrument: model.Instrument{Ticker: "AXFO.ST", Name: "Axfood"}, Rank: 2, Volatility: 13.8, Score: 80},
			},
			Excluded: []model.Exclusion{{Ticker: "X.ST", Reason: model.ReasonInsufficientData}},
		},
	}
	require.NoError(t, rec.RecordRun(snap))
	require.NoError(t, rec.RecordRun(snap))

	var runs, entries, exclusions int
	require.NoError(t, rec.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&runs))
	require.NoError(t, rec.db.QueryRow(`SELECT COUNT(*) FROM ranked_entries`).Scan(&entries))
	require.NoError(t, rec.db.QueryRow(`SELECT COUNT(*) FROM exclusions`).Scan(&exclusions))
	assert.Equal(t, 2, runs)
	assert.Equal(t, 4, entries)
	assert.Equal(t, 2, exclusions)

	var ticker string
	var score float64
	require.NoError(t, rec.db.QueryRow(
		`SELECT ticker, score FROM ranked_entries WHERE rank = 1 ORDER BY id LIMIT 1`,
	).Scan(&ticker, &score))
	assert.Equal(t, "TELIA.ST", ticker)
	assert.Equal(t, 91.0, score)
}

func TestNoopRecorder(t *testing.T) {
	rec := NewNoopRecorder()
	assert.NoError(t, rec.RecordRun(&RunSnapshot{Result: &model.RunResult{}}))
	assert.NoError(t, rec.Close())
}
