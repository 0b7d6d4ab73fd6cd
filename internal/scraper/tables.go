package scraper

import (
	"strings"

	"traderdeck/internal/models"
)

// extractTablesJS serializes every table on the page. Headers come from
// thead cells with a first-row fallback; data rows are the tbody cells.
// The column set is not contractually stable upstream, so nothing here
// assumes specific header names.
const extractTablesJS = `(() => {
	const cellText = c => (c.innerText || '').trim();
	return Array.from(document.querySelectorAll('table')).map(t => {
		let headers = Array.from(t.querySelectorAll('thead th, thead td')).map(cellText);
		if (headers.length === 0) {
			const first = t.querySelector('tr');
			headers = first ? Array.from(first.querySelectorAll('td,th')).map(cellText) : [];
		}
		const rows = Array.from(t.querySelectorAll('tbody tr'))
			.map(r => Array.from(r.querySelectorAll('td,th')).map(cellText));
		return { headers: headers, rows: rows };
	});
})()`

// rawTable mirrors the JSON shape produced by extractTablesJS.
type rawTable struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// pickBest selects the table with the most data rows. Pages carry
// layout tables alongside the portfolio table; row count is the
// discriminator the upstream markup actually supports.
func pickBest(tables []rawTable) (rawTable, bool) {
	best := rawTable{}
	found := false
	for _, t := range tables {
		if len(t.Rows) > len(best.Rows) || (!found && len(t.Rows) > 0) {
			best = t
			found = true
		}
	}
	return best, found && len(best.Rows) > 0
}

// buildTable maps raw rows onto header-keyed mappings. Rows whose cell
// count does not match the header count are skipped, as are rows with
// only empty cells.
func buildTable(name string, raw rawTable) models.PortfolioTable {
	table := models.PortfolioTable{
		Name:    name,
		Columns: raw.Headers,
		Rows:    []map[string]string{},
	}

	for _, cells := range raw.Rows {
		if len(cells) != len(raw.Headers) {
			continue
		}
		empty := true
		for _, c := range cells {
			if strings.TrimSpace(c) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}
		row := make(map[string]string, len(cells))
		for i, c := range cells {
			row[raw.Headers[i]] = c
		}
		table.Rows = append(table.Rows, row)
	}

	table.Positions = normalizeRows(table.Columns, table.Rows)
	return table
}
