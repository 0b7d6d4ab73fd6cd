package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"traderdeck/internal/models"
)

// renameFile is swapped out in tests to simulate a fault between the
// temp write and the final replace.
var renameFile = os.Rename

// WriteSnapshot serializes the snapshot and replaces the published file
// atomically: the document is written to a temp file in the target
// directory, fsynced, then renamed into place. A reader fetching
// mid-write never observes a partial file, and any failure leaves the
// previously published snapshot untouched.
func WriteSnapshot(path string, snap models.MarketSnapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := renameFile(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot %s: %w", path, err)
	}
	return nil
}
