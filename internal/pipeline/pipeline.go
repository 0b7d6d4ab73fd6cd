package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"traderdeck/internal/common"
	"traderdeck/internal/config"
	"traderdeck/internal/quotes"
	"traderdeck/internal/scraper"
)

// Runner executes one snapshot run: both sources in parallel, merge,
// atomic write. A run is a short-lived batch; the external scheduler
// owns retry and cadence.
type Runner struct {
	cfg    *config.Config
	logger *common.Logger
}

func New(cfg *config.Config, logger *common.Logger) *Runner {
	return &Runner{cfg: cfg, logger: logger}
}

// Run returns an error only when the snapshot could not be persisted.
// Source failures degrade the document instead of failing the run.
func (r *Runner) Run(ctx context.Context) error {
	runID := uuid.NewString()
	logger := r.logger.WithCorrelationId(runID)

	logger.Info().
		Int("symbols", len(r.cfg.Symbols)).
		Int("portfolio_pages", len(r.cfg.Scraper.Pages)).
		Msg("snapshot run starting")

	fetcher := quotes.NewFetcher(r.cfg.Quotes, logger)
	diag := scraper.NewDiagnostics(r.cfg.Output.DiagnosticsDir, r.cfg.Credentials, logger)
	scr := scraper.New(r.cfg.Scraper, r.cfg.Credentials, diag, logger)

	// The two sources are independent; neither failure blocks the other.
	var (
		wg   sync.WaitGroup
		qres quotes.Result
		sres scraper.Result
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		qres = fetcher.Fetch(ctx, r.cfg.Symbols)
	}()
	go func() {
		defer wg.Done()
		sres = scr.Run(ctx)
	}()
	wg.Wait()

	breadth := LoadBreadth(r.cfg.Output.BreadthFile, logger)

	snap := Merge(qres, sres, breadth, time.Now().UTC(), r.cfg.Quotes.SortSectorsByWeek)

	if err := WriteSnapshot(r.cfg.Output.SnapshotPath, snap); err != nil {
		logger.Error().Str("path", r.cfg.Output.SnapshotPath).Str("error", err.Error()).Msg("snapshot write failed")
		return err
	}

	logger.Info().
		Str("path", r.cfg.Output.SnapshotPath).
		Str("quotes", string(snap.SourceStatus.Quotes)).
		Str("portfolios", string(snap.SourceStatus.Portfolios)).
		Msg("snapshot published")
	return nil
}
