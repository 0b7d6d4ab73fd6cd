package pipeline

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"traderdeck/internal/models"
)

func testSnapshot() models.MarketSnapshot {
	return models.MarketSnapshot{
		GeneratedAt:  time.Date(2026, 8, 29, 1, 0, 0, 0, time.UTC),
		SourceStatus: models.SnapshotStatus{Quotes: models.SourceStatusOK, Portfolios: models.SourceStatusSkipped},
	}
}

func TestWriteSnapshotCreatesValidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "market_data.json")

	if err := WriteSnapshot(path, testSnapshot()); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded models.MarketSnapshot
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("published file is not valid JSON: %v", err)
	}
	if decoded.SourceStatus.Portfolios != models.SourceStatusSkipped {
		t.Errorf("content mangled: %+v", decoded.SourceStatus)
	}
}

func TestWriteSnapshotReplacesPrior(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "market_data.json")

	if err := WriteSnapshot(path, testSnapshot()); err != nil {
		t.Fatal(err)
	}

	second := testSnapshot()
	second.SourceStatus.Portfolios = models.SourceStatusOK
	second.Portfolios = []models.PortfolioTable{{Name: "long_term", Columns: []string{"Ticker"}, Rows: []map[string]string{}}}
	if err := WriteSnapshot(path, second); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "long_term") {
		t.Errorf("replacement content missing: %s", data)
	}

	// No temp residue.
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestWriteSnapshotFaultBeforeRenameLeavesPriorIntact(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "market_data.json")

	if err := WriteSnapshot(path, testSnapshot()); err != nil {
		t.Fatal(err)
	}
	prior, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	renameFile = func(_, _ string) error { return errors.New("simulated crash before rename") }
	defer func() { renameFile = os.Rename }()

	second := testSnapshot()
	second.SourceStatus.Quotes = models.SourceStatusFailed
	if err := WriteSnapshot(path, second); err == nil {
		t.Fatal("expected write to fail")
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(prior, after) {
		t.Error("prior snapshot modified by failed write")
	}

	// Failed temp file is cleaned up.
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temp files left behind after failed write: %v", entries)
	}
}

func TestWriteSnapshotBadTargetDir(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "data")
	if err := os.WriteFile(blocker, []byte("not a directory"), 0o644); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(blocker, "market_data.json")
	if err := WriteSnapshot(path, testSnapshot()); err == nil {
		t.Error("expected error when target dir is a file")
	}
}
