package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/junhoyeo/docs-archiver/internal/model"
)

// dbFileName is the SQLite file created inside the data directory.
const dbFileName = "docs-archiver.db"

// CrawlDB provides SQLite-based storage for crawl history.
// It manages connection pooling and provides methods for recording runs
// and querying past outcomes.
//
// Design decision: We use a single database file covering all sites rather
// than one file per site. This keeps cross-site queries (the report
// command's site listing, change detection) simple and makes backup a
// single-file copy.
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CrawlDB in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw refuses to create a
	// new file, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; a single connection avoids
	// SQLITE_BUSY churn during a crawl's steady insert stream.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	-- One row per crawl run over one site
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		site TEXT NOT NULL,
		start_url TEXT NOT NULL,
		started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		finished_at DATETIME,
		archived INTEGER NOT NULL DEFAULT 0,
		skipped INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_site ON runs(site);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- One row per processed URL within a run
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id),
		url TEXT NOT NULL,
		site TEXT NOT NULL,
		file_name TEXT,
		status TEXT NOT NULL,
		content_hash TEXT,
		error TEXT,
		archived_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_pages_run ON pages(run_id);
	CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(site, url);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord is a stored crawl run.
type RunRecord struct {
	ID         int64
	Site       string
	StartURL   string
	StartedAt  time.Time
	FinishedAt time.Time
	Archived   int
	Skipped    int
	Failed     int
}

// InsertRun records the start of a crawl run and returns its ID.
func (cdb *CrawlDB) InsertRun(ctx context.Context, site, startURL string) (int64, error) {
	result, err := cdb.db.ExecContext(ctx,
		`INSERT INTO runs (site, start_url) VALUES (?, ?)`, site, startURL)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return result.LastInsertId()
}

// FinishRun stores a completed run's aggregate counts.
func (cdb *CrawlDB) FinishRun(ctx context.Context, runID int64, summary *model.CrawlSummary) error {
	query := `
	UPDATE runs
	SET finished_at = ?, archived = ?, skipped = ?, failed = ?
	WHERE id = ?
	`

	_, err := cdb.db.ExecContext(ctx, query,
		summary.FinishedAt.UTC().Format(time.RFC3339),
		summary.Archived(),
		summary.Skipped(),
		summary.Failed(),
		runID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// InsertPageRecord records one page outcome under a run.
func (cdb *CrawlDB) InsertPageRecord(ctx context.Context, runID int64, result model.PageResult) error {
	query := `
	INSERT INTO pages (run_id, url, site, file_name, status, content_hash, error, archived_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := cdb.db.ExecContext(ctx, query,
		runID,
		result.URL,
		result.Site,
		result.FileName,
		string(result.Status),
		result.ContentHash,
		result.Error,
		result.ArchivedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert page record: %w", err)
	}
	return nil
}

// LatestRun returns the most recent run for a site, or nil when the site
// has never been crawled.
func (cdb *CrawlDB) LatestRun(ctx context.Context, site string) (*RunRecord, error) {
	query := `
	SELECT id, site, start_url, started_at, finished_at, archived, skipped, failed
	FROM runs
	WHERE site = ?
	ORDER BY id DESC
	LIMIT 1
	`

	var record RunRecord
	var startedAt string
	var finishedAt sql.NullString

	err := cdb.db.QueryRowContext(ctx, query, site).Scan(
		&record.ID,
		&record.Site,
		&record.StartURL,
		&startedAt,
		&finishedAt,
		&record.Archived,
		&record.Skipped,
		&record.Failed,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}

	record.StartedAt = parseTimestamp(startedAt)
	if finishedAt.Valid {
		record.FinishedAt = parseTimestamp(finishedAt.String)
	}
	return &record, nil
}

// PageRecords returns every page outcome recorded under a run, in
// processing order.
func (cdb *CrawlDB) PageRecords(ctx context.Context, runID int64) ([]model.PageResult, error) {
	query := `
	SELECT url, site, file_name, status, content_hash, error, archived_at
	FROM pages
	WHERE run_id = ?
	ORDER BY id
	`

	rows, err := cdb.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query page records: %w", err)
	}
	defer rows.Close()

	var results []model.PageResult
	for rows.Next() {
		var result model.PageResult
		var status string
		var archivedAt string

		err := rows.Scan(
			&result.URL,
			&result.Site,
			&result.FileName,
			&status,
			&result.ContentHash,
			&result.Error,
			&archivedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan page record: %w", err)
		}

		result.Status = model.PageStatus(status)
		result.ArchivedAt = parseTimestamp(archivedAt)
		results = append(results, result)
	}

	return results, rows.Err()
}

// ListSites returns every site that has at least one recorded run.
func (cdb *CrawlDB) ListSites(ctx context.Context) ([]string, error) {
	rows, err := cdb.db.QueryContext(ctx,
		`SELECT DISTINCT site FROM runs ORDER BY site`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	defer rows.Close()

	var sites []string
	for rows.Next() {
		var site string
		if err := rows.Scan(&site); err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		sites = append(sites, site)
	}

	return sites, rows.Err()
}

// LatestContentHash returns the most recent recorded content hash for a
// URL, or empty when the URL has never been archived. Used for change
// detection across runs.
func (cdb *CrawlDB) LatestContentHash(ctx context.Context, site, url string) (string, error) {
	query := `
	SELECT content_hash FROM pages
	WHERE site = ? AND url = ? AND status = ? AND content_hash != ''
	ORDER BY id DESC
	LIMIT 1
	`

	var hash string
	err := cdb.db.QueryRowContext(ctx, query, site, url, string(model.StatusArchived)).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get content hash: %w", err)
	}
	return hash, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
