// Package output serializes a screen result to the data.json document the
// static site renders. Field names are a published contract; changing them
// breaks the page.
package output

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alex30free/swedish-stock-screener/internal/model"
)

// Document is the on-disk shape of data.json.
type Document struct {
	Updated       string  `json:"updated"`
	UniverseCount int     `json:"universe_count"`
	Stocks        []Stock `json:"stocks"`
}

// Stock is one ranked row.
type Stock struct {
	Rank       int     `json:"rank"`
	Ticker     string  `json:"ticker"`
	Name       string  `json:"name"`
	Sector     string  `json:"sector"`
	Volatility float64 `json:"volatility"`
	Momentum   float64 `json:"momentum"`
	DivYield   float64 `json:"div_yield"`
	Score      int     `json:"score"`
}

// Build maps a run result onto the document. Tickers drop the exchange
// suffix for display, numbers round to two decimals and the score to an
// integer, matching what the page expects.
func Build(res *model.RunResult) *Document {
	doc := &Document{
		Updated:       res.GeneratedAt.UTC().Format(time.RFC3339),
		UniverseCount: res.UniverseCount,
		Stocks:        make([]Stock, 0, len(res.Entries)),
	}
	for _, e := range res.Entries {
		doc.Stocks = append(doc.Stocks, Stock{
			Rank:       e.Rank,
			Ticker:     strings.TrimSuffix(e.Instrument.Ticker, ".ST"),
			Name:       e.Instrument.Name,
			Sector:     e.Instrument.Sector,
			Volatility: round2(e.Volatility),
			Momentum:   round2(e.Momentum),
			DivYield:   round2(e.DividendYield),
			Score:      int(math.Round(e.Score)),
		})
	}
	return doc
}

// WriteFile writes the document atomically (temp file + rename) so the
// page never reads a half-written JSON.
func WriteFile(path string, res *model.RunResult) error {
	data, err := json.MarshalIndent(Build(res), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".data-*.json")
	if err != nil {
		return fmt.Errorf("create temp output: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close output: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
