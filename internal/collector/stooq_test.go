package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStooqCSV(t *testing.T) {
	csv := `Date,Open,High,Low,Close,Volume
2026-01-07,101,103,100,102.5,12000
2026-01-05,100,102,99,101.25,10000
2026-01-06,garbage,0,0,not-a-number,0
2026-01-08,102,104,101,0,9000
`
	obs, err := parseStooqCSV(strings.NewReader(csv))
	require.NoError(t, err)

	// Bad close and zero close rows are skipped, rows come back date-sorted.
	require.Len(t, obs, 2)
	assert.Equal(t, 101.25, obs[0].Close)
	assert.Equal(t, 102.5, obs[1].Close)
	assert.True(t, obs[0].Date.Before(obs[1].Date))
}

func TestParseStooqCSV_NoRows(t *testing.T) {
	_, err := parseStooqCSV(strings.NewReader("Date,Open,High,Low,Close,Volume\n"))
	assert.Error(t, err)

	_, err = parseStooqCSV(strings.NewReader("Ticker,Price\nX,1\n"))
	assert.Error(t, err)
}

func TestStooqFetchDailyHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/q/d/l/", r.URL.Path)
		assert.Equal(t, "telia.st", r.URL.Query().Get("s"))
		w.Write([]byte("Date,Open,High,Low,Close,Volume\n2026-01-05,100,102,99,101,10000\n"))
	}))
	defer srv.Close()

	f := NewStooqFetcher(srv.URL, "")
	obs, err := f.FetchDailyHistory(context.Background(), "TELIA.ST", 400)
	require.NoError(t, err)
	require.Len(t, obs, 1)
	assert.Equal(t, 101.0, obs[0].Close)
}

func TestStooqProfileIsNeutral(t *testing.T) {
	f := NewStooqFetcher("", "")
	inst, yield, err := f.FetchProfile(context.Background(), "TELIA.ST")
	require.NoError(t, err)
	assert.Equal(t, "TELIA.ST", inst.Name)
	assert.Zero(t, yield)
}
