// Package models defines data structures for the traderdeck pipeline.
package models

import (
	"time"
)

// SourceStatus reports the health of one upstream source in a snapshot.
type SourceStatus string

const (
	SourceStatusOK      SourceStatus = "ok"
	SourceStatusFailed  SourceStatus = "failed"
	SourceStatusSkipped SourceStatus = "skipped"
)

// Category buckets a symbol into one of the fixed dashboard groups.
type Category string

const (
	CategoryFuture Category = "future"
	CategoryIndex  Category = "index"
	CategorySector Category = "sector"
	CategoryOther  Category = "other"
)

// SymbolSpec describes one configured symbol. Defined in deployment
// configuration and immutable for the duration of a run.
type SymbolSpec struct {
	Ticker   string   `toml:"ticker" json:"ticker"`
	Name     string   `toml:"name" json:"name"`
	Category Category `toml:"category" json:"category"`
}

// QuoteRecord holds one symbol's quote with derived change fields.
// Numeric fields are pointers: a symbol the provider could not price
// serializes as JSON null so the front-end renders "N/A" instead of
// crashing on a missing key.
type QuoteRecord struct {
	Ticker    string    `json:"ticker"`
	Name      string    `json:"name"`
	Category  Category  `json:"category"`
	LastPrice *float64  `json:"last_price"`
	ChangePct *float64  `json:"change_pct"`
	Chg1W     *float64  `json:"chg_1w"`
	ChgYTD    *float64  `json:"chg_ytd"`
	Chg52WHi  *float64  `json:"chg_52w_hi"`
	Spark     []float64 `json:"spark,omitempty"`
	AsOf      time.Time `json:"as_of"`
}

// HasPrice reports whether the provider returned usable price data.
func (q QuoteRecord) HasPrice() bool {
	return q.LastPrice != nil
}

// QuoteBoard groups quote records into the fixed category buckets.
// Order within each bucket follows the configured symbol order.
type QuoteBoard struct {
	Futures []QuoteRecord `json:"future,omitempty"`
	Indices []QuoteRecord `json:"index,omitempty"`
	Sectors []QuoteRecord `json:"sector,omitempty"`
	Other   []QuoteRecord `json:"other,omitempty"`
}

// Bucket returns the records for a category.
func (b *QuoteBoard) Bucket(c Category) []QuoteRecord {
	switch c {
	case CategoryFuture:
		return b.Futures
	case CategoryIndex:
		return b.Indices
	case CategorySector:
		return b.Sectors
	default:
		return b.Other
	}
}

// Add appends a record to its category bucket.
func (b *QuoteBoard) Add(rec QuoteRecord) {
	switch rec.Category {
	case CategoryFuture:
		b.Futures = append(b.Futures, rec)
	case CategoryIndex:
		b.Indices = append(b.Indices, rec)
	case CategorySector:
		b.Sectors = append(b.Sectors, rec)
	default:
		b.Other = append(b.Other, rec)
	}
}

// Position is the normalized view of one portfolio row, produced by
// fuzzy-matching the scraped column headers onto canonical fields.
// Fields the table does not carry stay nil.
type Position struct {
	Ticker        string   `json:"ticker"`
	Name          string   `json:"name"`
	Shares        *float64 `json:"shares"`
	AvgCost       *float64 `json:"avg_cost"`
	CurrPrice     *float64 `json:"curr_price"`
	MarketValue   *float64 `json:"market_value"`
	UnrealizedPnL *float64 `json:"unrealized_pnl"`
	PctReturn     *float64 `json:"pct_return"`
	Weight        *float64 `json:"weight"`
	StopLoss      *float64 `json:"stop_loss"`
	BuyUpTo       *float64 `json:"buy_up_to"`
	EntryDate     string   `json:"entry_date,omitempty"`
}

// PortfolioTable holds one scraped portfolio. The upstream page does not
// fix its column set, so Columns is inferred from the header row at run
// time and each row keeps the header-to-value association.
type PortfolioTable struct {
	Name      string              `json:"name"`
	Columns   []string            `json:"columns"`
	Rows      []map[string]string `json:"rows"`
	Positions []Position          `json:"positions,omitempty"`
}

// SnapshotStatus carries per-source health flags inside the snapshot,
// letting consumers distinguish "feature unused" from "fetch failed".
type SnapshotStatus struct {
	Quotes     SourceStatus `json:"quotes"`
	Portfolios SourceStatus `json:"portfolios"`
}

// MarketSnapshot is the single merged document published for the
// dashboard front-end. Always valid and renderable even when a source
// failed: the failed section is omitted and flagged in SourceStatus.
type MarketSnapshot struct {
	GeneratedAt  time.Time        `json:"generated_at"`
	Quotes       *QuoteBoard      `json:"quotes,omitempty"`
	Breadth      map[string]any   `json:"breadth,omitempty"`
	Portfolios   []PortfolioTable `json:"portfolios,omitempty"`
	SourceStatus SnapshotStatus   `json:"source_status"`
}
