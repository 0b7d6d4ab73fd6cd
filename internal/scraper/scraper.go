// Package scraper drives a headless browser through the authenticated
// portfolio source: login, table extraction, and diagnostic dumps when
// the unversioned upstream page drifts.
package scraper

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"

	"traderdeck/internal/common"
	"traderdeck/internal/config"
	"traderdeck/internal/models"
)

// State names one step of the login/extract state machine.
type State string

const (
	StateLaunch            State = "launch"
	StateNavigateLogin     State = "navigate_login"
	StateAwaitFields       State = "await_fields"
	StateSubmitCredentials State = "submit_credentials"
	StateAwaitPostLogin    State = "await_post_login"
	StateExtractTables     State = "extract_tables"
	StateDone              State = "done"
	StateLoginFailed       State = "login_failed"
)

// Result is the scraper's contribution to the snapshot. Reaching an
// authenticated state always reports ok, even with zero tables: an
// unexpected-but-authenticated layout is a diagnosable condition, not a
// failure.
type Result struct {
	Tables []models.PortfolioTable
	Status models.SourceStatus
	State  State
}

// Scraper runs one scrape session against the authenticated source.
type Scraper struct {
	cfg    config.ScraperConfig
	creds  models.Credentials
	diag   *Diagnostics
	logger *common.Logger
	state  State
}

func New(cfg config.ScraperConfig, creds models.Credentials, diag *Diagnostics, logger *common.Logger) *Scraper {
	return &Scraper{cfg: cfg, creds: creds, diag: diag, logger: logger}
}

// State returns the last state the machine reached.
func (s *Scraper) State() State { return s.state }

func (s *Scraper) setState(st State) {
	s.state = st
	s.logger.Debug().Str("state", string(st)).Msg("scraper state")
}

// Run executes the full session. Without credentials it returns skipped
// immediately: no browser is launched and no dump is written. Any
// failure degrades to a reported status; the browser is torn down on
// every exit path.
func (s *Scraper) Run(ctx context.Context) Result {
	if s.creds.IsZero() {
		s.logger.Info().Msg("no credentials supplied, skipping portfolio source")
		return Result{Status: models.SourceStatusSkipped}
	}

	s.logger.Info().Str("account", s.creds.MaskedEmail()).Msg("starting authenticated scrape")

	total := time.Duration(s.cfg.FieldWaitSeconds+s.cfg.AuthWaitSeconds+s.cfg.PageWaitSeconds*(len(s.cfg.Pages)+2)) * time.Second
	bctx, cancel := newBrowserContext(ctx, s.cfg, total)
	defer cancel()

	s.setState(StateLaunch)

	if !s.login(bctx) {
		return Result{Status: models.SourceStatusFailed, State: s.state}
	}

	s.setState(StateExtractTables)
	tables := s.extractAll(bctx)

	s.setState(StateDone)
	return Result{Tables: tables, Status: models.SourceStatusOK, State: s.state}
}

// login walks NavigateLogin -> AwaitFields -> SubmitCredentials ->
// AwaitPostLogin. Returns false (state LoginFailed) on any terminal
// failure, dumping the page for operator follow-up.
func (s *Scraper) login(ctx context.Context) bool {
	s.setState(StateNavigateLogin)

	pageWait := time.Duration(s.cfg.PageWaitSeconds) * time.Second
	navCtx, cancel := context.WithTimeout(ctx, pageWait)
	defer cancel()

	err := chromedp.Run(navCtx,
		chromedp.Navigate(s.cfg.LoginURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(time.Duration(s.cfg.SettleMillis)*time.Millisecond),
	)
	if err != nil {
		s.logger.Error().Str("url", s.cfg.LoginURL).Str("error", err.Error()).Msg("login page navigation failed")
		s.fail(ctx, "login_failed")
		return false
	}

	var loc string
	if err := chromedp.Run(ctx, chromedp.Location(&loc)); err == nil && !onLoginPage(loc) {
		s.logger.Info().Str("url", loc).Msg("already authenticated")
		return true
	}

	s.setState(StateAwaitFields)
	fields, err := s.awaitFields(ctx)
	if err != nil {
		s.logger.Error().Str("error", err.Error()).Msg("login fields not found")
		s.fail(ctx, "no_email_field")
		return false
	}

	s.setState(StateSubmitCredentials)
	if err := s.fillAndSubmit(ctx, fields.Password); err != nil {
		s.logger.Error().Str("error", err.Error()).Msg("credential submit failed")
		s.fail(ctx, "login_failed")
		return false
	}

	s.setState(StateAwaitPostLogin)
	if !s.awaitAuth(ctx) {
		s.logger.Error().Msg("no authentication signal within wait window")
		s.fail(ctx, "login_failed")
		return false
	}

	return true
}

// extractAll visits each configured page and extracts its portfolio
// table. Every page dump is written regardless of outcome; a page that
// bounces back to the login URL or carries no table contributes nothing
// without failing the run.
func (s *Scraper) extractAll(ctx context.Context) []models.PortfolioTable {
	tables := []models.PortfolioTable{}
	for _, page := range s.cfg.Pages {
		t, ok := s.scrapePage(ctx, page.Label, page.URL)
		if !ok && page.AltURL != "" {
			t, ok = s.scrapePage(ctx, page.Label+"_alt", page.AltURL)
		}
		if ok {
			tables = append(tables, t)
		}
	}
	s.logger.Info().Int("tables", len(tables)).Msg("table extraction complete")
	return tables
}

func (s *Scraper) scrapePage(ctx context.Context, label, url string) (models.PortfolioTable, bool) {
	pageWait := time.Duration(s.cfg.PageWaitSeconds) * time.Second
	navCtx, cancel := context.WithTimeout(ctx, pageWait)
	defer cancel()

	err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(time.Duration(s.cfg.SettleMillis)*time.Millisecond),
	)
	if err != nil {
		s.logger.Warn().Str("label", label).Str("error", err.Error()).Msg("page load failed")
		s.fail(ctx, label)
		return models.PortfolioTable{}, false
	}

	var loc string
	if err := chromedp.Run(ctx, chromedp.Location(&loc)); err == nil && onLoginPage(loc) {
		s.logger.Warn().Str("label", label).Str("url", loc).Msg("redirected back to login")
		s.dumpCurrent(ctx, label+"_redirect", loc)
		return models.PortfolioTable{}, false
	}

	s.dumpCurrent(ctx, label, loc)

	var raws []rawTable
	if err := chromedp.Run(ctx, chromedp.Evaluate(extractTablesJS, &raws)); err != nil {
		s.logger.Warn().Str("label", label).Str("error", err.Error()).Msg("table extraction failed")
		return models.PortfolioTable{}, false
	}

	best, ok := pickBest(raws)
	if !ok {
		s.logger.Warn().Str("label", label).Int("tables_seen", len(raws)).Msg("no populated table found")
		return models.PortfolioTable{}, false
	}

	t := buildTable(label, best)
	s.logger.Info().
		Str("label", label).
		Int("columns", len(t.Columns)).
		Int("rows", len(t.Rows)).
		Msg("table extracted")
	return t, true
}

// fail marks the terminal failure state and dumps the current page.
func (s *Scraper) fail(ctx context.Context, label string) {
	s.setState(StateLoginFailed)
	var loc string
	_ = chromedp.Run(ctx, chromedp.Location(&loc))
	s.dumpCurrent(ctx, label, loc)
}

func (s *Scraper) dumpCurrent(ctx context.Context, label, url string) {
	body, err := s.bodyText(ctx)
	if err != nil {
		s.logger.Warn().Str("label", label).Str("error", err.Error()).Msg("could not read page text for dump")
	}
	s.diag.Dump(label, url, body)
}

func (s *Scraper) bodyText(ctx context.Context) (string, error) {
	var body string
	err := chromedp.Run(ctx, chromedp.Evaluate(`document.body ? document.body.innerText : ''`, &body))
	return body, err
}
