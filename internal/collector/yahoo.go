package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/alex30free/swedish-stock-screener/internal/model"
)

// YahooFetcher implements Fetcher using the Yahoo Finance public API.
type YahooFetcher struct {
	Client  *http.Client
	BaseURL string
}

// NewYahooFetcher creates a Yahoo Finance fetcher with optional proxy
// support.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		BaseURL: "https://query1.finance.yahoo.com",
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure of the Yahoo chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []interface{} `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// yahooNum is Yahoo's {"raw": x, "fmt": "..."} number wrapper.
type yahooNum struct {
	Raw float64 `json:"raw"`
}

// yahooSummary is the slice of the quoteSummary response this fetcher uses.
type yahooSummary struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				ShortName          string   `json:"shortName"`
				LongName           string   `json:"longName"`
				RegularMarketPrice yahooNum `json:"regularMarketPrice"`
			} `json:"price"`
			SummaryDetail struct {
				TrailingAnnualDividendRate  yahooNum `json:"trailingAnnualDividendRate"`
				TrailingAnnualDividendYield yahooNum `json:"trailingAnnualDividendYield"`
			} `json:"summaryDetail"`
			AssetProfile struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
			} `json:"assetProfile"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

// chartRange maps a calendar-day lookback onto Yahoo's fixed range tokens.
func chartRange(days int) string {
	switch {
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	case days <= 365:
		return "1y"
	default:
		return "2y"
	}
}

func (f *YahooFetcher) get(ctx context.Context, u string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("yahoo decode: %w", err)
	}
	return nil
}

func (f *YahooFetcher) FetchDailyHistory(ctx context.Context, ticker string, lookbackDays int) ([]model.PriceObservation, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		f.BaseURL, url.PathEscape(ticker), chartRange(lookbackDays))

	var chart yahooChart
	if err := f.get(ctx, u, &chart); err != nil {
		return nil, err
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned for %s", ticker)
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no quote data for %s", ticker)
	}
	quote := result.Indicators.Quote[0]

	obs := make([]model.PriceObservation, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) {
			break
		}
		c := toFloat(quote.Close[i])
		if c == 0 {
			continue // null bars on holidays
		}
		obs = append(obs, model.PriceObservation{
			Date:  time.Unix(ts, 0).UTC(),
			Close: c,
		})
	}

	sort.Slice(obs, func(i, j int) bool { return obs[i].Date.Before(obs[j].Date) })
	return obs, nil
}

func (f *YahooFetcher) FetchProfile(ctx context.Context, ticker string) (model.Instrument, float64, error) {
	inst := model.Instrument{Ticker: ticker}

	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=price,summaryDetail,assetProfile",
		f.BaseURL, url.PathEscape(ticker))

	var summary yahooSummary
	if err := f.get(ctx, u, &summary); err != nil {
		return inst, 0, err
	}
	if summary.QuoteSummary.Error != nil {
		return inst, 0, fmt.Errorf("yahoo api error: %s", summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return inst, 0, fmt.Errorf("yahoo: no profile for %s", ticker)
	}

	r := summary.QuoteSummary.Result[0]
	inst.Name = r.Price.ShortName
	if inst.Name == "" {
		inst.Name = r.Price.LongName
	}
	if inst.Name == "" {
		inst.Name = ticker
	}
	inst.Sector = r.AssetProfile.Sector
	if inst.Sector == "" {
		inst.Sector = r.AssetProfile.Industry
	}
	if inst.Sector == "" {
		inst.Sector = "Unknown"
	}

	return inst, dividendYield(
		r.SummaryDetail.TrailingAnnualDividendRate.Raw,
		r.Price.RegularMarketPrice.Raw,
		r.SummaryDetail.TrailingAnnualDividendYield.Raw,
	), nil
}

// dividendYield computes a sane trailing yield in percent. Yahoo sometimes
// reports raw SEK amounts in the yield field, so the rate/price ratio is
// preferred and anything outside 0-20% is discarded.
func dividendYield(rate, price, reportedYield float64) float64 {
	if rate > 0 && price > 0 {
		dy := rate / price * 100
		if dy > 0 && dy < 20 {
			return math.Round(dy*100) / 100
		}
	}
	if reportedYield > 0 && reportedYield < 0.20 {
		return math.Round(reportedYield*100*100) / 100
	}
	return 0
}
