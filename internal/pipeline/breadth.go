package pipeline

import (
	"encoding/json"
	"os"

	"traderdeck/internal/common"
)

// LoadBreadth reads the optional manually-maintained breadth file: a
// flat JSON mapping of metric name to value, passed through to the
// snapshot unmodified. Anything wrong with it drops the section with a
// warning; breadth problems never fail a run.
func LoadBreadth(path string, logger *common.Logger) map[string]any {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn().Str("path", path).Str("error", err.Error()).Msg("breadth file unreadable, omitting breadth")
		return nil
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		logger.Warn().Str("path", path).Str("error", err.Error()).Msg("breadth file unparseable, omitting breadth")
		return nil
	}
	if !flatMapping(m) {
		logger.Warn().Str("path", path).Msg("breadth file is not a flat mapping, omitting breadth")
		return nil
	}
	return m
}

// flatMapping reports whether every value is a JSON scalar.
func flatMapping(m map[string]any) bool {
	for _, v := range m {
		switch v.(type) {
		case map[string]any, []any:
			return false
		}
	}
	return true
}
