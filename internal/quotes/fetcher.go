// Package quotes fetches EOD quote data from the public provider and
// derives the dashboard's change fields.
package quotes

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"traderdeck/internal/common"
	"traderdeck/internal/config"
	"traderdeck/internal/models"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"

// Result is the fetcher's contribution to the snapshot. Records always
// hold one entry per requested symbol in input order, except when every
// symbol failed: then Records is nil and Status is failed so the quotes
// section is omitted rather than filled with nulls.
type Result struct {
	Records []models.QuoteRecord
	Status  models.SourceStatus
}

// Fetcher retrieves quotes for a fixed symbol list from the Yahoo
// Finance chart API.
type Fetcher struct {
	client *resty.Client
	cfg    config.QuotesConfig
	logger *common.Logger
}

// NewFetcher creates a Fetcher. One retry on transport errors and 5xx
// responses; client errors (bad ticker) are never retried.
func NewFetcher(cfg config.QuotesConfig, logger *common.Logger) *Fetcher {
	client := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second).
		SetHeader("User-Agent", userAgent).
		SetRetryCount(1).
		SetRetryWaitTime(500 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() >= 500
		})

	return &Fetcher{client: client, cfg: cfg, logger: logger}
}

// Fetch returns one QuoteRecord per symbol, preserving input order.
// A symbol's failure never aborts the others.
func (f *Fetcher) Fetch(ctx context.Context, symbols []models.SymbolSpec) Result {
	records := make([]models.QuoteRecord, 0, len(symbols))
	failures := 0

	for _, spec := range symbols {
		rec, err := f.fetchSymbol(ctx, spec)
		if err != nil {
			failures++
			f.logger.Warn().
				Str("ticker", spec.Ticker).
				Str("error", err.Error()).
				Msg("quote fetch failed, emitting null record")
			rec = nullRecord(spec)
		}
		records = append(records, rec)
	}

	if len(symbols) > 0 && failures == len(symbols) {
		f.logger.Error().Int("symbols", len(symbols)).Msg("all quote fetches failed, marking quotes source failed")
		return Result{Status: models.SourceStatusFailed}
	}

	f.logger.Info().
		Int("ok", len(symbols)-failures).
		Int("failed", failures).
		Msg("quote fetch complete")
	return Result{Records: records, Status: models.SourceStatusOK}
}

func (f *Fetcher) fetchSymbol(ctx context.Context, spec models.SymbolSpec) (models.QuoteRecord, error) {
	var body chartResponse
	resp, err := f.client.R().
		SetContext(ctx).
		SetResult(&body).
		SetQueryParams(map[string]string{
			"range":    f.cfg.Range,
			"interval": f.cfg.Interval,
		}).
		Get("/v8/finance/chart/" + url.PathEscape(spec.Ticker))
	if err != nil {
		return models.QuoteRecord{}, fmt.Errorf("request %s: %w", spec.Ticker, err)
	}
	if resp.IsError() {
		return models.QuoteRecord{}, fmt.Errorf("provider returned %d for %s", resp.StatusCode(), spec.Ticker)
	}
	if body.Chart.Error != nil {
		return models.QuoteRecord{}, fmt.Errorf("provider error for %s: %s", spec.Ticker, body.Chart.Error.Code)
	}
	if len(body.Chart.Result) == 0 {
		return models.QuoteRecord{}, fmt.Errorf("empty chart result for %s", spec.Ticker)
	}

	closes, stamps := body.Chart.Result[0].closeSeries()
	if len(closes) < 2 {
		return models.QuoteRecord{}, fmt.Errorf("not enough price history for %s (%d closes)", spec.Ticker, len(closes))
	}

	return deriveRecord(spec, closes, stamps), nil
}

// deriveRecord computes the dashboard change fields from a close series:
// 1-day and 1-week percentage change, distance from the 52-week high,
// year-to-date change, and the trailing five-day sparkline of
// day-over-day changes.
func deriveRecord(spec models.SymbolSpec, closes []float64, stamps []int64) models.QuoteRecord {
	n := len(closes)
	closeToday := closes[n-1]
	close1d := closes[n-2]
	close1w := close1d
	if n >= 6 {
		close1w = closes[n-6]
	}
	close52w := closes[0]
	for _, c := range closes {
		if c > close52w {
			close52w = c
		}
	}
	closeYTD := closes[0]

	asOf := time.Now().UTC()
	if len(stamps) == n && stamps[n-1] > 0 {
		asOf = time.Unix(stamps[n-1], 0).UTC()
	}

	var spark []float64
	sparkCloses := closes
	if n >= 6 {
		sparkCloses = closes[n-6 : n-1]
	}
	for i := 1; i < len(sparkCloses); i++ {
		spark = append(spark, round(pctChange(sparkCloses[i], sparkCloses[i-1]), 2))
	}

	return models.QuoteRecord{
		Ticker:    spec.Ticker,
		Name:      spec.Name,
		Category:  spec.Category,
		LastPrice: ptr(round(closeToday, 4)),
		ChangePct: ptr(round(pctChange(closeToday, close1d), 2)),
		Chg1W:     ptr(round(pctChange(closeToday, close1w), 2)),
		ChgYTD:    ptr(round(pctChange(closeToday, closeYTD), 2)),
		Chg52WHi:  ptr(round(pctChange(closeToday, close52w), 2)),
		Spark:     spark,
		AsOf:      asOf,
	}
}

// nullRecord keeps the symbol present in the output with null numeric
// fields so the front-end can render "N/A".
func nullRecord(spec models.SymbolSpec) models.QuoteRecord {
	return models.QuoteRecord{
		Ticker:   spec.Ticker,
		Name:     spec.Name,
		Category: spec.Category,
		AsOf:     time.Now().UTC(),
	}
}

func pctChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

func round(v float64, places int) float64 {
	scale := math.Pow10(places)
	return math.Round(v*scale) / scale
}

func ptr(v float64) *float64 { return &v }
