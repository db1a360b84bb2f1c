package database

import (
	"context"

	"github.com/junhoyeo/docs-archiver/internal/model"
)

// RunRecorder streams per-page outcomes into the database under a single
// run ID. It satisfies the crawl engine's Recorder interface.
type RunRecorder struct {
	db    *CrawlDB
	runID int64
}

// NewRunRecorder creates a recorder for the given run.
func NewRunRecorder(db *CrawlDB, runID int64) *RunRecorder {
	return &RunRecorder{db: db, runID: runID}
}

// RecordPage inserts one page outcome under the recorder's run.
func (r *RunRecorder) RecordPage(ctx context.Context, result model.PageResult) error {
	return r.db.InsertPageRecord(ctx, r.runID, result)
}
