// Package pipeline joins both source results into one snapshot and
// persists it atomically.
package pipeline

import (
	"sort"
	"time"

	"traderdeck/internal/models"
	"traderdeck/internal/quotes"
	"traderdeck/internal/scraper"
)

// Merge combines the quote fetcher's result and the scraper's result
// into one MarketSnapshot. Pure and synchronous: source failures arrive
// as status markers and surface in the document's source_status, never
// as errors. A failed quotes source omits the quotes section entirely;
// a failed or skipped portfolio source omits portfolios.
func Merge(q quotes.Result, s scraper.Result, breadth map[string]any, now time.Time, sortSectorsByWeek bool) models.MarketSnapshot {
	snap := models.MarketSnapshot{
		GeneratedAt: now.UTC(),
		Breadth:     breadth,
		SourceStatus: models.SnapshotStatus{
			Quotes:     q.Status,
			Portfolios: s.Status,
		},
	}

	if q.Status == models.SourceStatusOK {
		board := &models.QuoteBoard{}
		for _, rec := range q.Records {
			board.Add(rec)
		}
		if sortSectorsByWeek {
			sortByWeekChange(board.Sectors)
		}
		snap.Quotes = board
	}

	if s.Status == models.SourceStatusOK {
		snap.Portfolios = s.Tables
		if snap.Portfolios == nil {
			snap.Portfolios = []models.PortfolioTable{}
		}
	}

	return snap
}

// sortByWeekChange ranks records by 1-week performance, best first.
// Records without a value sink to the bottom; the sort is stable so
// configured order breaks ties.
func sortByWeekChange(recs []models.QuoteRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i].Chg1W, recs[j].Chg1W
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a > *b
	})
}
