package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"traderdeck/internal/common"
	"traderdeck/internal/config"
	"traderdeck/internal/models"
)

func testConfig(endpoint string) config.QuotesConfig {
	return config.QuotesConfig{
		Endpoint:       endpoint,
		Range:          "1y",
		Interval:       "1d",
		TimeoutSeconds: 5,
	}
}

// chartJSON builds a provider response with the given close series,
// one timestamp per close.
func chartJSON(ticker string, closes []float64) string {
	stamps := make([]int64, len(closes))
	for i := range closes {
		stamps[i] = 1756300000 + int64(i)*86400
	}
	doc := map[string]any{
		"chart": map[string]any{
			"result": []any{map[string]any{
				"meta":       map[string]any{"symbol": ticker},
				"timestamp":  stamps,
				"indicators": map[string]any{"quote": []any{map[string]any{"close": closes}}},
			}},
			"error": nil,
		},
	}
	b, _ := json.Marshal(doc)
	return string(b)
}

func tickerFromPath(path string) string {
	parts := strings.Split(path, "/")
	return parts[len(parts)-1]
}

func TestFetchPreservesOrderOneRecordPerSymbol(t *testing.T) {
	series := map[string][]float64{
		"ES=F": {4300, 4350, 4400, 4420, 4450, 4513.79, 4500.25},
		"XLK":  {200, 205, 210, 211, 212, 213, 212.44},
		"^VIX": {14, 15, 16, 15.5, 15.2, 15.1, 15.8},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ticker := tickerFromPath(r.URL.Path)
		closes, ok := series[ticker]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chartJSON(ticker, closes))
	}))
	defer srv.Close()

	symbols := []models.SymbolSpec{
		{Ticker: "ES=F", Name: "E-mini S&P 500", Category: models.CategoryFuture},
		{Ticker: "^VIX", Name: "VIX Index", Category: models.CategoryIndex},
		{Ticker: "XLK", Name: "Technology", Category: models.CategorySector},
	}

	f := NewFetcher(testConfig(srv.URL), common.NewSilentLogger())
	res := f.Fetch(context.Background(), symbols)

	if res.Status != models.SourceStatusOK {
		t.Fatalf("expected ok, got %s", res.Status)
	}
	if len(res.Records) != len(symbols) {
		t.Fatalf("expected %d records, got %d", len(symbols), len(res.Records))
	}
	for i, spec := range symbols {
		if res.Records[i].Ticker != spec.Ticker {
			t.Errorf("position %d: got %s, want %s", i, res.Records[i].Ticker, spec.Ticker)
		}
		if !res.Records[i].HasPrice() {
			t.Errorf("record %s should have a price", spec.Ticker)
		}
	}
}

func TestFetchDerivesChangeFields(t *testing.T) {
	// Previous close 4513.79 -> last 4500.25 is a -0.3% one-day change.
	closes := []float64{4300, 4350, 4400, 4420, 4450, 4513.79, 4500.25}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chartJSON("ES=F", closes))
	}))
	defer srv.Close()

	f := NewFetcher(testConfig(srv.URL), common.NewSilentLogger())
	res := f.Fetch(context.Background(), []models.SymbolSpec{
		{Ticker: "ES=F", Name: "E-mini S&P 500", Category: models.CategoryFuture},
	})

	if res.Status != models.SourceStatusOK {
		t.Fatalf("expected ok, got %s", res.Status)
	}
	rec := res.Records[0]

	if rec.LastPrice == nil || *rec.LastPrice != 4500.25 {
		t.Fatalf("last price = %v, want 4500.25", rec.LastPrice)
	}
	if rec.ChangePct == nil || *rec.ChangePct != -0.3 {
		t.Errorf("change pct = %v, want -0.3", rec.ChangePct)
	}
	// 1-week change against closes[len-6] = 4350.
	wantWeek := 3.45 // (4500.25-4350)/4350*100 rounded
	if rec.Chg1W == nil || *rec.Chg1W != wantWeek {
		t.Errorf("1w change = %v, want %v", rec.Chg1W, wantWeek)
	}
	// 52w high is 4513.79.
	if rec.Chg52WHi == nil || *rec.Chg52WHi != -0.3 {
		t.Errorf("52w-high change = %v, want -0.3", rec.Chg52WHi)
	}
	// YTD against the first close 4300.
	if rec.ChgYTD == nil || *rec.ChgYTD != 4.66 {
		t.Errorf("ytd change = %v, want 4.66", rec.ChgYTD)
	}
	// Spark covers the five closes before the last: 4350,4400,4420,4450,4513.79.
	if len(rec.Spark) != 4 {
		t.Fatalf("spark length = %d, want 4", len(rec.Spark))
	}
	if rec.Spark[0] != 1.15 { // 4350 -> 4400
		t.Errorf("spark[0] = %v, want 1.15", rec.Spark[0])
	}
}

func TestFetchNullCloseEntriesDropped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"chart":{"result":[{"meta":{"symbol":"ES=F"},"timestamp":[1,2,3,4],"indicators":{"quote":[{"close":[4400,null,4450,4500]}]}}],"error":null}}`)
	}))
	defer srv.Close()

	f := NewFetcher(testConfig(srv.URL), common.NewSilentLogger())
	res := f.Fetch(context.Background(), []models.SymbolSpec{{Ticker: "ES=F", Name: "es", Category: models.CategoryFuture}})

	if res.Status != models.SourceStatusOK {
		t.Fatalf("expected ok, got %s", res.Status)
	}
	rec := res.Records[0]
	if rec.LastPrice == nil || *rec.LastPrice != 4500 {
		t.Errorf("last price = %v, want 4500", rec.LastPrice)
	}
	if rec.ChangePct == nil || *rec.ChangePct != 1.12 { // 4450 -> 4500
		t.Errorf("change pct = %v, want 1.12", rec.ChangePct)
	}
}

func TestFetchBadTickerYieldsNullRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if tickerFromPath(r.URL.Path) == "BOGUS" {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
			return
		}
		fmt.Fprint(w, chartJSON("ES=F", []float64{4400, 4450, 4500}))
	}))
	defer srv.Close()

	symbols := []models.SymbolSpec{
		{Ticker: "ES=F", Name: "es", Category: models.CategoryFuture},
		{Ticker: "BOGUS", Name: "broken", Category: models.CategoryOther},
	}
	f := NewFetcher(testConfig(srv.URL), common.NewSilentLogger())
	res := f.Fetch(context.Background(), symbols)

	if res.Status != models.SourceStatusOK {
		t.Fatalf("one bad ticker must not fail the source, got %s", res.Status)
	}
	if len(res.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(res.Records))
	}
	bad := res.Records[1]
	if bad.Ticker != "BOGUS" {
		t.Errorf("order not preserved: %+v", res.Records)
	}
	if bad.HasPrice() || bad.ChangePct != nil {
		t.Errorf("bad ticker should carry null numerics: %+v", bad)
	}
	if bad.Name != "broken" {
		t.Errorf("null record should keep display name, got %q", bad.Name)
	}
}

func TestFetchAllSymbolsFailedMarksSourceFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	symbols := []models.SymbolSpec{
		{Ticker: "A", Name: "a", Category: models.CategoryOther},
		{Ticker: "B", Name: "b", Category: models.CategoryOther},
	}
	f := NewFetcher(testConfig(srv.URL), common.NewSilentLogger())
	res := f.Fetch(context.Background(), symbols)

	if res.Status != models.SourceStatusFailed {
		t.Errorf("expected failed, got %s", res.Status)
	}
	if len(res.Records) != 0 {
		t.Errorf("failed source must omit records, got %d", len(res.Records))
	}
}

func TestFetchProviderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	symbols := []models.SymbolSpec{
		{Ticker: "ES=F", Name: "es", Category: models.CategoryFuture},
		{Ticker: "XLK", Name: "tech", Category: models.CategorySector},
	}
	f := NewFetcher(testConfig(endpoint), common.NewSilentLogger())
	res := f.Fetch(context.Background(), symbols)

	if res.Status != models.SourceStatusFailed {
		t.Errorf("unreachable provider should mark quotes failed, got %s", res.Status)
	}
	if len(res.Records) != 0 {
		t.Errorf("unreachable provider should omit records, got %d", len(res.Records))
	}
}

func TestFetchRetriesOnServerError(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chartJSON("ES=F", []float64{4400, 4450, 4500}))
	}))
	defer srv.Close()

	f := NewFetcher(testConfig(srv.URL), common.NewSilentLogger())
	res := f.Fetch(context.Background(), []models.SymbolSpec{{Ticker: "ES=F", Name: "es", Category: models.CategoryFuture}})

	if res.Status != models.SourceStatusOK {
		t.Fatalf("transient 5xx should be retried once, got status %s", res.Status)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
	if !res.Records[0].HasPrice() {
		t.Errorf("record should have price after retry: %+v", res.Records[0])
	}
}
