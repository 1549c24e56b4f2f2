package collector

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alex30free/swedish-stock-screener/internal/model"
)

// StooqFetcher implements Fetcher using Stooq's daily CSV endpoint. Stooq
// serves no profile data, so name falls back to the ticker and the yield
// factor reads zero.
type StooqFetcher struct {
	Client  *http.Client
	BaseURL string
}

// NewStooqFetcher creates a Stooq fetcher. An empty baseURL selects the
// public endpoint.
func NewStooqFetcher(baseURL, proxyURL string) *StooqFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = "https://stooq.com"
	}
	return &StooqFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		BaseURL: baseURL,
	}
}

func (f *StooqFetcher) Name() string { return "stooq" }

func (f *StooqFetcher) FetchDailyHistory(ctx context.Context, ticker string, lookbackDays int) ([]model.PriceObservation, error) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -lookbackDays)

	u := fmt.Sprintf("%s/q/d/l/?s=%s&d1=%s&d2=%s&i=d",
		f.BaseURL,
		url.QueryEscape(strings.ToLower(ticker)),
		start.Format("20060102"), end.Format("20060102"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stooq fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("stooq: status %d, body: %s", resp.StatusCode, string(body))
	}

	return parseStooqCSV(resp.Body)
}

// parseStooqCSV reads Stooq's Date,Open,High,Low,Close,Volume daily export.
func parseStooqCSV(r io.Reader) ([]model.PriceObservation, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("stooq parse csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("stooq: no data rows")
	}

	header := records[0]
	dateCol, closeCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "date":
			dateCol = i
		case "close":
			closeCol = i
		}
	}
	if dateCol < 0 || closeCol < 0 {
		return nil, fmt.Errorf("stooq: unexpected header %v", header)
	}

	obs := make([]model.PriceObservation, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) <= dateCol || len(rec) <= closeCol {
			continue
		}
		date, err := time.Parse("2006-01-02", rec[dateCol])
		if err != nil {
			continue
		}
		c, err := strconv.ParseFloat(rec[closeCol], 64)
		if err != nil || c <= 0 {
			continue
		}
		obs = append(obs, model.PriceObservation{Date: date, Close: c})
	}
	if len(obs) == 0 {
		return nil, fmt.Errorf("stooq: no usable rows")
	}

	sort.Slice(obs, func(i, j int) bool { return obs[i].Date.Before(obs[j].Date) })
	return obs, nil
}

func (f *StooqFetcher) FetchProfile(_ context.Context, ticker string) (model.Instrument, float64, error) {
	return model.Instrument{Ticker: ticker, Name: ticker, Sector: "Unknown"}, 0, nil
}
