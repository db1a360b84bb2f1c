package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/junhoyeo/docs-archiver/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *CrawlDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, dbFileName)); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		opts := Options{CreateIfNotExists: false, EnableWAL: true}
		if _, err := Open(filepath.Join(t.TempDir(), "missing"), opts); err == nil {
			t.Error("expected error opening nonexistent database")
		}
	})

	t.Run("reopens existing database", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		if _, err := db.InsertRun(context.Background(), "docs.example.com", "https://docs.example.com"); err != nil {
			t.Fatalf("InsertRun() error = %v", err)
		}
		if err := db.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}

		reopened, err := Open(dbDir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		defer reopened.Close()

		run, err := reopened.LatestRun(context.Background(), "docs.example.com")
		if err != nil {
			t.Fatalf("LatestRun() error = %v", err)
		}
		if run == nil {
			t.Fatal("LatestRun() = nil after reopen, want stored run")
		}
	})
}

func TestRunLifecycle(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	runID, err := db.InsertRun(ctx, "docs.example.com", "https://docs.example.com")
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}

	summary := &model.CrawlSummary{
		Site:       "docs.example.com",
		StartURL:   "https://docs.example.com",
		FinishedAt: time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
		Pages: []model.PageResult{
			{URL: "https://docs.example.com", Status: model.StatusArchived},
			{URL: "https://docs.example.com/a", Status: model.StatusSkipped},
			{URL: "https://docs.example.com/b", Status: model.StatusFailed},
		},
	}
	if err := db.FinishRun(ctx, runID, summary); err != nil {
		t.Fatalf("FinishRun() error = %v", err)
	}

	run, err := db.LatestRun(ctx, "docs.example.com")
	if err != nil {
		t.Fatalf("LatestRun() error = %v", err)
	}
	if run == nil {
		t.Fatal("LatestRun() = nil, want run record")
	}
	if run.ID != runID {
		t.Errorf("run ID = %d, want %d", run.ID, runID)
	}
	if run.Archived != 1 || run.Skipped != 1 || run.Failed != 1 {
		t.Errorf("run counts = %d/%d/%d, want 1/1/1", run.Archived, run.Skipped, run.Failed)
	}
	if run.FinishedAt.IsZero() {
		t.Error("FinishedAt is zero after FinishRun")
	}
}

func TestLatestRunUnknownSite(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)

	run, err := db.LatestRun(context.Background(), "nowhere.example.com")
	if err != nil {
		t.Fatalf("LatestRun() error = %v", err)
	}
	if run != nil {
		t.Errorf("LatestRun() = %+v, want nil for unknown site", run)
	}
}

func TestPageRecords(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	runID, err := db.InsertRun(ctx, "docs.example.com", "https://docs.example.com")
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}

	results := []model.PageResult{
		{
			URL:         "https://docs.example.com",
			Site:        "docs.example.com",
			FileName:    "index.md",
			Status:      model.StatusArchived,
			ContentHash: model.ContentHash("# Welcome"),
			ArchivedAt:  time.Now(),
		},
		{
			URL:        "https://docs.example.com/broken",
			Site:       "docs.example.com",
			FileName:   "broken.md",
			Status:     model.StatusFailed,
			Error:      "embedded data block not found",
			ArchivedAt: time.Now(),
		},
	}
	for _, result := range results {
		if err := db.InsertPageRecord(ctx, runID, result); err != nil {
			t.Fatalf("InsertPageRecord() error = %v", err)
		}
	}

	stored, err := db.PageRecords(ctx, runID)
	if err != nil {
		t.Fatalf("PageRecords() error = %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("PageRecords() returned %d records, want 2", len(stored))
	}
	if stored[0].URL != results[0].URL || stored[0].Status != model.StatusArchived {
		t.Errorf("first record = %+v, want archived %s", stored[0], results[0].URL)
	}
	if stored[1].Error != results[1].Error {
		t.Errorf("failed record error = %q, want %q", stored[1].Error, results[1].Error)
	}
}

func TestRunRecorder(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	runID, err := db.InsertRun(ctx, "docs.example.com", "https://docs.example.com")
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}

	recorder := NewRunRecorder(db, runID)
	result := model.PageResult{
		URL:        "https://docs.example.com/a",
		Site:       "docs.example.com",
		FileName:   "a.md",
		Status:     model.StatusArchived,
		ArchivedAt: time.Now(),
	}
	if err := recorder.RecordPage(ctx, result); err != nil {
		t.Fatalf("RecordPage() error = %v", err)
	}

	stored, err := db.PageRecords(ctx, runID)
	if err != nil {
		t.Fatalf("PageRecords() error = %v", err)
	}
	if len(stored) != 1 || stored[0].FileName != "a.md" {
		t.Errorf("stored records = %+v, want single a.md record", stored)
	}
}

func TestListSites(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	for _, site := range []string{"b.example.com", "a.example.com", "b.example.com"} {
		if _, err := db.InsertRun(ctx, site, "https://"+site); err != nil {
			t.Fatalf("InsertRun() error = %v", err)
		}
	}

	sites, err := db.ListSites(ctx)
	if err != nil {
		t.Fatalf("ListSites() error = %v", err)
	}
	want := []string{"a.example.com", "b.example.com"}
	if len(sites) != len(want) || sites[0] != want[0] || sites[1] != want[1] {
		t.Errorf("ListSites() = %v, want %v", sites, want)
	}
}

func TestLatestContentHash(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	hash, err := db.LatestContentHash(ctx, "docs.example.com", "https://docs.example.com/a")
	if err != nil {
		t.Fatalf("LatestContentHash() error = %v", err)
	}
	if hash != "" {
		t.Errorf("LatestContentHash() = %q for unknown URL, want empty", hash)
	}

	runID, err := db.InsertRun(ctx, "docs.example.com", "https://docs.example.com")
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}

	first := model.ContentHash("v1")
	second := model.ContentHash("v2")
	for _, h := range []string{first, second} {
		result := model.PageResult{
			URL:         "https://docs.example.com/a",
			Site:        "docs.example.com",
			FileName:    "a.md",
			Status:      model.StatusArchived,
			ContentHash: h,
			ArchivedAt:  time.Now(),
		}
		if err := db.InsertPageRecord(ctx, runID, result); err != nil {
			t.Fatalf("InsertPageRecord() error = %v", err)
		}
	}

	hash, err = db.LatestContentHash(ctx, "docs.example.com", "https://docs.example.com/a")
	if err != nil {
		t.Fatalf("LatestContentHash() error = %v", err)
	}
	if hash != second {
		t.Errorf("LatestContentHash() = %q, want most recent hash %q", hash, second)
	}
}
