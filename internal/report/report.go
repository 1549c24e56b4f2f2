// Package report renders a screen result as a plain-text run summary for
// the log and the terminal.
package report

import (
	"fmt"
	"strings"

	"github.com/alex30free/swedish-stock-screener/internal/model"
)

// Format renders the ranked list and exclusion summary. shortfall > 0 adds
// a warning that fewer instruments qualified than requested.
func Format(res *model.RunResult, shortfall int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Low-Volatility Screen | %s\n", res.GeneratedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Universe: %d qualifying, %d excluded\n\n", res.UniverseCount, len(res.Excluded)))

	if len(res.Entries) == 0 {
		b.WriteString("No instruments ranked.\n")
	}
	for _, e := range res.Entries {
		b.WriteString(fmt.Sprintf("  #%2d %-14s Vol=%5.1f%%  Mom=%+6.1f%%  Yield=%4.1f%%  Score=%.0f\n",
			e.Rank, e.Instrument.Ticker, e.Volatility, e.Momentum, e.DividendYield, e.Score))
	}

	if shortfall > 0 {
		b.WriteString(fmt.Sprintf("\nWARNING: only %d instruments qualified, %d requested\n",
			len(res.Entries), len(res.Entries)+shortfall))
	}

	if len(res.Excluded) > 0 {
		counts := make(map[model.ExclusionReason]int)
		for _, x := range res.Excluded {
			counts[x.Reason]++
		}
		b.WriteString("\nExclusions:\n")
		for _, reason := range []model.ExclusionReason{
			model.ReasonFetchFailed,
			model.ReasonInsufficientData,
			model.ReasonInsufficientMomentum,
			model.ReasonInvalidPrices,
			model.ReasonHighVolatility,
			model.ReasonWeakMomentum,
		} {
			if n := counts[reason]; n > 0 {
				b.WriteString(fmt.Sprintf("  %-32s %d\n", reason, n))
			}
		}
	}

	return b.String()
}
