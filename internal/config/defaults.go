package config

import "traderdeck/internal/models"

// NewDefaultConfig creates a configuration with default values.
// The symbol list mirrors the dashboard's fixed board: index futures,
// volatility and global indices, the eleven S&P sector ETFs, and a
// handful of commodity and crypto tickers.
func NewDefaultConfig() *Config {
	return &Config{
		Quotes: QuotesConfig{
			Endpoint:          "https://query1.finance.yahoo.com",
			Range:             "1y",
			Interval:          "1d",
			TimeoutSeconds:    10,
			SortSectorsByWeek: true,
		},
		Scraper: ScraperConfig{
			LoginURL: "https://carnivoretradedesk.com/login",
			Pages: []ScraperPage{
				{Label: "sector_rotation", URL: "https://carnivoretradedesk.com/sector-heaters"},
				{Label: "long_term", URL: "https://carnivoretradedesk.com/longterm", AltURL: "https://carnivoretradedesk.com/long-term"},
			},
			Headless:         true,
			FieldWaitSeconds: 8,
			AuthWaitSeconds:  20,
			PageWaitSeconds:  30,
			SettleMillis:     3000,
		},
		Output: OutputConfig{
			SnapshotPath:   "data/market_data.json",
			DiagnosticsDir: "data",
			BreadthFile:    "",
		},
		Logging: LoggingConfig{
			Level:   "info",
			Outputs: []string{"console"},
		},
		Symbols: defaultSymbols(),
	}
}

func defaultSymbols() []models.SymbolSpec {
	return []models.SymbolSpec{
		// US index futures
		{Ticker: "ES=F", Name: "E-mini S&P 500", Category: models.CategoryFuture},
		{Ticker: "NQ=F", Name: "E-mini Nasdaq 100", Category: models.CategoryFuture},
		{Ticker: "YM=F", Name: "E-mini Dow Jones", Category: models.CategoryFuture},
		{Ticker: "RTY=F", Name: "E-mini Russell 2000", Category: models.CategoryFuture},

		// Volatility and global indices
		{Ticker: "^VIX", Name: "VIX Index", Category: models.CategoryIndex},
		{Ticker: "^FTSE", Name: "FTSE 100", Category: models.CategoryIndex},
		{Ticker: "^GDAXI", Name: "DAX", Category: models.CategoryIndex},
		{Ticker: "^N225", Name: "Nikkei 225", Category: models.CategoryIndex},
		{Ticker: "^HSI", Name: "Hang Seng", Category: models.CategoryIndex},
		{Ticker: "^TNX", Name: "10Y Treasury", Category: models.CategoryIndex},

		// S&P sector ETFs
		{Ticker: "XLK", Name: "Technology", Category: models.CategorySector},
		{Ticker: "XLF", Name: "Financials", Category: models.CategorySector},
		{Ticker: "XLV", Name: "Health Care", Category: models.CategorySector},
		{Ticker: "XLY", Name: "Consumer Disc.", Category: models.CategorySector},
		{Ticker: "XLP", Name: "Consumer Staples", Category: models.CategorySector},
		{Ticker: "XLE", Name: "Energy", Category: models.CategorySector},
		{Ticker: "XLI", Name: "Industrials", Category: models.CategorySector},
		{Ticker: "XLB", Name: "Materials", Category: models.CategorySector},
		{Ticker: "XLRE", Name: "Real Estate", Category: models.CategorySector},
		{Ticker: "XLU", Name: "Utilities", Category: models.CategorySector},
		{Ticker: "XLC", Name: "Comm. Services", Category: models.CategorySector},

		// Commodities, dollar, crypto
		{Ticker: "GC=F", Name: "Gold Futures", Category: models.CategoryOther},
		{Ticker: "SI=F", Name: "Silver Futures", Category: models.CategoryOther},
		{Ticker: "CL=F", Name: "WTI Crude Oil", Category: models.CategoryOther},
		{Ticker: "NG=F", Name: "Natural Gas", Category: models.CategoryOther},
		{Ticker: "DX-Y.NYB", Name: "US Dollar Index", Category: models.CategoryOther},
		{Ticker: "BTC-USD", Name: "Bitcoin", Category: models.CategoryOther},
		{Ticker: "ETH-USD", Name: "Ethereum", Category: models.CategoryOther},
	}
}
