package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pevans/voyager/article"
)

// Custom errors for run operations
var (
	ErrRunNotFound    = errors.New("run not found")
	ErrInvalidRunKind = errors.New("run kind must be articles, metadata or reconcile")
)

// Run kinds recorded by the CLI.
const (
	KindArticles  = "articles"
	KindMetadata  = "metadata"
	KindReconcile = "reconcile"
)

// RunStore records crawl runs and the article metadata they produced using
// SQLite.
type RunStore struct {
	db *sql.DB
}

// Run is a single crawl invocation.
type Run struct {
	RunID        uuid.UUID `json:"run_id"`
	Kind         string    `json:"kind"`
	StartURL     string    `json:"start_url"`
	CreatedAt    time.Time `json:"created_at"`
	ArticleCount int       `json:"article_count"`
}

// NewRunStore opens (creating if needed) the run database at dbPath.
func NewRunStore(dbPath string) (*RunStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &RunStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the runs and articles tables if they don't exist.
func (s *RunStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		start_url TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS articles (
		run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		url TEXT NOT NULL,
		title TEXT NOT NULL,
		contributors TEXT NOT NULL,
		publication_year TEXT NOT NULL,
		volume TEXT NOT NULL,
		issue TEXT NOT NULL,
		doi TEXT NOT NULL,
		keywords TEXT NOT NULL,
		full_text_url TEXT NOT NULL,
		PRIMARY KEY (run_id, position)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *RunStore) Close() error {
	return s.db.Close()
}

// CreateRun records the start of a run.
func (s *RunStore) CreateRun(kind, startURL string) (*Run, error) {
	if kind != KindArticles && kind != KindMetadata && kind != KindReconcile {
		return nil, ErrInvalidRunKind
	}

	run := &Run{
		RunID:     uuid.New(),
		Kind:      kind,
		StartURL:  startURL,
		CreatedAt: time.Now().UTC().Truncate(0),
	}

	_, err := s.db.Exec(
		`INSERT INTO runs (run_id, kind, start_url, created_at) VALUES (?, ?, ?, ?)`,
		run.RunID.String(), run.Kind, run.StartURL, formatTime(run.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert run: %w", err)
	}

	return run, nil
}

// SaveArticles stores records for a run, keeping their order. Records
// already saved for the run are replaced.
func (s *RunStore) SaveArticles(runID uuid.UUID, records []article.Metadata) error {
	if _, err := s.GetRun(runID); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM articles WHERE run_id = ?", runID.String()); err != nil {
		return fmt.Errorf("failed to clear articles: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO articles (
			run_id, position, url, title, contributors, publication_year,
			volume, issue, doi, keywords, full_text_url
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		contributors := r.Contributors
		if contributors == nil {
			contributors = []string{}
		}
		data, err := json.Marshal(contributors)
		if err != nil {
			return fmt.Errorf("failed to marshal contributors: %w", err)
		}

		_, err = stmt.Exec(
			runID.String(), i, r.URL, r.Title, string(data), r.PublicationYear,
			r.Volume, r.Issue, r.DOI, r.Keywords, r.FullTextURL,
		)
		if err != nil {
			return fmt.Errorf("failed to insert article %s: %w", r.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit articles: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *RunStore) GetRun(runID uuid.UUID) (*Run, error) {
	query := `
		SELECT r.run_id, r.kind, r.start_url, r.created_at,
		       (SELECT COUNT(*) FROM articles a WHERE a.run_id = r.run_id)
		FROM runs r
		WHERE r.run_id = ?
	`

	run, err := scanRun(s.db.QueryRow(query, runID.String()))
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	return run, nil
}

// ListRuns lists every run, newest first.
func (s *RunStore) ListRuns() ([]Run, error) {
	query := `
		SELECT r.run_id, r.kind, r.start_url, r.created_at,
		       (SELECT COUNT(*) FROM articles a WHERE a.run_id = r.run_id)
		FROM runs r
		ORDER BY r.created_at DESC, r.rowid DESC
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}
	return runs, nil
}

// ListArticles returns the records saved for a run, in saved order.
func (s *RunStore) ListArticles(runID uuid.UUID) ([]article.Metadata, error) {
	if _, err := s.GetRun(runID); err != nil {
		return nil, err
	}

	query := `
		SELECT url, title, contributors, publication_year,
		       volume, issue, doi, keywords, full_text_url
		FROM articles
		WHERE run_id = ?
		ORDER BY position
	`

	rows, err := s.db.Query(query, runID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	records := []article.Metadata{}
	for rows.Next() {
		var r article.Metadata
		var contributors string

		err := rows.Scan(
			&r.URL, &r.Title, &contributors, &r.PublicationYear,
			&r.Volume, &r.Issue, &r.DOI, &r.Keywords, &r.FullTextURL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}

		if err := json.Unmarshal([]byte(contributors), &r.Contributors); err != nil {
			return nil, fmt.Errorf("failed to unmarshal contributors: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read articles: %w", err)
	}
	return records, nil
}

// DeleteRun deletes a run and its articles.
func (s *RunStore) DeleteRun(runID uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM articles WHERE run_id = ?", runID.String()); err != nil {
		return fmt.Errorf("failed to delete articles: %w", err)
	}

	result, err := tx.Exec("DELETE FROM runs WHERE run_id = ?", runID.String())
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrRunNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var runIDStr, kind, startURL, createdAtStr string
	var count int

	if err := row.Scan(&runIDStr, &kind, &startURL, &createdAtStr, &count); err != nil {
		return nil, err
	}

	runID, err := uuid.Parse(runIDStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse run ID: %w", err)
	}

	return &Run{
		RunID:        runID,
		Kind:         kind,
		StartURL:     startURL,
		CreatedAt:    parseTime(createdAtStr),
		ArticleCount: count,
	}, nil
}

// Fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	// RFC3339Nano first, RFC3339 for rows written without fractions
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t
}
