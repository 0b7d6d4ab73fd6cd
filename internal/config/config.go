package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"traderdeck/internal/models"
)

// Config represents the pipeline configuration.
type Config struct {
	Quotes  QuotesConfig        `toml:"quotes"`
	Scraper ScraperConfig       `toml:"scraper"`
	Output  OutputConfig        `toml:"output"`
	Logging LoggingConfig       `toml:"logging"`
	Symbols []models.SymbolSpec `toml:"symbols"`

	// Credentials come from the environment only, never from TOML.
	Credentials models.Credentials `toml:"-" json:"-"`
}

// QuotesConfig contains quote provider settings.
type QuotesConfig struct {
	Endpoint          string `toml:"endpoint"`
	Range             string `toml:"range"`
	Interval          string `toml:"interval"`
	TimeoutSeconds    int    `toml:"timeout_seconds"`
	SortSectorsByWeek bool   `toml:"sort_sectors_by_week"`
}

// ScraperPage identifies one authenticated page carrying a portfolio table.
type ScraperPage struct {
	Label  string `toml:"label"`
	URL    string `toml:"url"`
	AltURL string `toml:"alt_url"`
}

// ScraperConfig contains authenticated-source scraper settings.
type ScraperConfig struct {
	LoginURL         string        `toml:"login_url"`
	Pages            []ScraperPage `toml:"pages"`
	Headless         bool          `toml:"headless"`
	FieldWaitSeconds int           `toml:"field_wait_seconds"`
	AuthWaitSeconds  int           `toml:"auth_wait_seconds"`
	PageWaitSeconds  int           `toml:"page_wait_seconds"`
	SettleMillis     int           `toml:"settle_millis"`
}

// OutputConfig contains snapshot and diagnostics paths.
type OutputConfig struct {
	SnapshotPath   string `toml:"snapshot_path"`
	DiagnosticsDir string `toml:"diagnostics_dir"`
	BreadthFile    string `toml:"breadth_file"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies TRADERDECK_* environment variable overrides,
// plus the CARNIVORE_* credential pair.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("TRADERDECK_QUOTES_ENDPOINT"); v != "" {
		config.Quotes.Endpoint = v
	}
	if v := os.Getenv("TRADERDECK_SNAPSHOT_PATH"); v != "" {
		config.Output.SnapshotPath = v
	}
	if v := os.Getenv("TRADERDECK_DIAGNOSTICS_DIR"); v != "" {
		config.Output.DiagnosticsDir = v
	}
	if v := os.Getenv("TRADERDECK_BREADTH_FILE"); v != "" {
		config.Output.BreadthFile = v
	}
	if v := os.Getenv("TRADERDECK_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("TRADERDECK_SCRAPER_HEADLESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Scraper.Headless = b
		}
	}

	config.Credentials = models.Credentials{
		Email:    os.Getenv("CARNIVORE_EMAIL"),
		Password: os.Getenv("CARNIVORE_PASSWORD"),
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, snapshotPath string, skipPortfolios bool) {
	if snapshotPath != "" {
		config.Output.SnapshotPath = snapshotPath
	}
	if skipPortfolios {
		config.Credentials = models.Credentials{}
	}
}

// Validate checks mandatory fields and returns a list of issues.
// An empty list means the configuration is usable.
func (c *Config) Validate() []string {
	var issues []string

	if c.Output.SnapshotPath == "" {
		issues = append(issues, "output.snapshot_path is required")
	}
	if c.Quotes.Endpoint == "" {
		issues = append(issues, "quotes.endpoint is required")
	}
	if len(c.Symbols) == 0 {
		issues = append(issues, "at least one [[symbols]] entry is required")
	}

	seen := make(map[string]bool, len(c.Symbols))
	for _, s := range c.Symbols {
		if s.Ticker == "" {
			issues = append(issues, "symbol with empty ticker")
			continue
		}
		if seen[s.Ticker] {
			issues = append(issues, fmt.Sprintf("duplicate symbol ticker %q", s.Ticker))
		}
		seen[s.Ticker] = true
		switch s.Category {
		case models.CategoryFuture, models.CategoryIndex, models.CategorySector, models.CategoryOther:
		default:
			issues = append(issues, fmt.Sprintf("symbol %s has unknown category %q", s.Ticker, s.Category))
		}
	}

	for _, p := range c.Scraper.Pages {
		if p.Label == "" || p.URL == "" {
			issues = append(issues, "scraper page entries need both label and url")
		}
	}

	return issues
}
