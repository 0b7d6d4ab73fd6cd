package scraper

import (
	"strconv"
	"strings"

	"traderdeck/internal/models"
)

// normalizeRows fuzzy-matches scraped column headers onto canonical
// position fields. Matching is substring-based over lowercased headers,
// scanned in column order so the same column wins on every run.
func normalizeRows(columns []string, rows []map[string]string) []models.Position {
	var out []models.Position
	for _, row := range rows {
		get := func(keys ...string) string {
			for _, key := range keys {
				for _, col := range columns {
					if strings.Contains(strings.ToLower(strings.TrimSpace(col)), key) {
						if v, ok := row[col]; ok && v != "" {
							return v
						}
					}
				}
			}
			return ""
		}

		ticker := get("ticker", "symbol", "stock")
		if ticker == "" {
			continue
		}
		name := get("company", "name", "description")
		if name == "" {
			name = ticker
		}

		out = append(out, models.Position{
			Ticker:        strings.ToUpper(strings.TrimSpace(ticker)),
			Name:          name,
			Shares:        cleanNum(get("shares", "qty", "quantity")),
			AvgCost:       cleanNum(get("avg", "cost", "entry", "basis")),
			CurrPrice:     cleanNum(get("current", "price", "last")),
			MarketValue:   cleanNum(get("market", "value", "mkt")),
			UnrealizedPnL: cleanNum(get("unrealized", "gain", "p&l", "pnl")),
			PctReturn:     cleanNum(get("return", "change", "gain%")),
			Weight:        cleanNum(get("weight", "alloc")),
			StopLoss:      cleanNum(get("stop")),
			BuyUpTo:       cleanNum(get("buy up", "target")),
			EntryDate:     get("date", "entry date"),
		})
	}
	return out
}

// cleanNum parses a display value into a float: strips $ , % and
// whitespace, treats parentheses as a negative sign. Unparseable values
// come back nil rather than zero.
func cleanNum(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	r := strings.NewReplacer("$", "", ",", "", "%", "", "(", "-", ")", "")
	s = strings.TrimSpace(r.Replace(s))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
