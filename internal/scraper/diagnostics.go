package scraper

import (
	"fmt"
	"os"
	"path/filepath"

	"traderdeck/internal/common"
	"traderdeck/internal/models"
)

// dumpLimit caps how much page text a single dump keeps.
const dumpLimit = 5000

// Diagnostics writes raw page dumps for manual debugging of selector
// drift. Dumps are write-only output: the pipeline never reads them
// back, and each run truncates the previous dump for the same label.
type Diagnostics struct {
	dir    string
	creds  models.Credentials
	logger *common.Logger
}

func NewDiagnostics(dir string, creds models.Credentials, logger *common.Logger) *Diagnostics {
	return &Diagnostics{dir: dir, creds: creds, logger: logger}
}

// Dump persists the page's visible text under debug_<label>.txt,
// credential values scrubbed.
func (d *Diagnostics) Dump(label, pageURL, bodyText string) {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		d.logger.Warn().Str("error", err.Error()).Msg("diagnostics dir create failed")
		return
	}

	if len(bodyText) > dumpLimit {
		bodyText = bodyText[:dumpLimit]
	}
	content := d.creds.Scrub(fmt.Sprintf("URL: %s\n\n%s", pageURL, bodyText))

	path := filepath.Join(d.dir, "debug_"+label+".txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		d.logger.Warn().Str("path", path).Str("error", err.Error()).Msg("diagnostic dump failed")
		return
	}
	d.logger.Info().Str("path", path).Msg("diagnostic dump saved")
}
