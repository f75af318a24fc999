// Package database provides SQLite implementation of the Store interface.
package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/factchecker/truthlens/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store using SQLite. Rows keep their insertion
// sequence so listings follow append order rather than timestamps.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Migrate runs database migrations.
func (s *SQLiteStore) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS scans (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT UNIQUE NOT NULL,
			type TEXT NOT NULL,
			content TEXT NOT NULL,
			filename TEXT NOT NULL,
			credibility INTEGER NOT NULL,
			explanation TEXT NOT NULL,
			sources TEXT NOT NULL,
			fact_check TEXT NOT NULL,
			timestamp TEXT NOT NULL,
			status TEXT NOT NULL,
			api_source TEXT NOT NULL,
			error TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS user_reports (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT UNIQUE NOT NULL,
			content TEXT NOT NULL,
			type TEXT NOT NULL,
			description TEXT NOT NULL,
			rating TEXT NOT NULL,
			timestamp TEXT NOT NULL,
			status TEXT NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// AppendScan stores an analysis report.
func (s *SQLiteStore) AppendScan(ctx context.Context, r *models.AnalysisReport) error {
	explanation, err := json.Marshal(r.Explanation)
	if err != nil {
		return fmt.Errorf("failed to encode explanation: %w", err)
	}
	sources, err := json.Marshal(r.Sources)
	if err != nil {
		return fmt.Errorf("failed to encode sources: %w", err)
	}
	factCheck, err := json.Marshal(r.FactCheck)
	if err != nil {
		return fmt.Errorf("failed to encode fact check: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scans (id, type, content, filename, credibility, explanation, sources,
			fact_check, timestamp, status, api_source, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Type, r.Content, r.Filename, r.Credibility, string(explanation), string(sources),
		string(factCheck), r.Timestamp, r.Status, r.APISource, r.Error,
	)
	return err
}

const scanColumns = `id, type, content, filename, credibility, explanation, sources,
	fact_check, timestamp, status, api_source, error`

// GetScan retrieves a report by ID.
func (s *SQLiteStore) GetScan(ctx context.Context, id string) (*models.AnalysisReport, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+scanColumns+` FROM scans WHERE id = ?`, id)

	r, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListScans returns reports in append order or its reverse.
func (s *SQLiteStore) ListScans(ctx context.Context, limit int, order Order) ([]*models.AnalysisReport, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+scanColumns+` FROM scans ORDER BY seq `+direction(order)+` LIMIT ?`, sqlLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []*models.AnalysisReport{}
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// AppendReport stores a user report.
func (s *SQLiteStore) AppendReport(ctx context.Context, r *models.UserReport) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_reports (id, content, type, description, rating, timestamp, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Content, r.Type, r.Description, string(r.Rating), r.Timestamp, r.Status)
	return err
}

// ListReports returns user reports in append order or its reverse.
func (s *SQLiteStore) ListReports(ctx context.Context, limit int, order Order) ([]*models.UserReport, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, type, description, rating, timestamp, status
		FROM user_reports ORDER BY seq `+direction(order)+` LIMIT ?`, sqlLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := []*models.UserReport{}
	for rows.Next() {
		var (
			r      models.UserReport
			rating string
		)
		if err := rows.Scan(&r.ID, &r.Content, &r.Type, &r.Description,
			&rating, &r.Timestamp, &r.Status); err != nil {
			return nil, err
		}
		if rating != "" {
			r.Rating = json.RawMessage(rating)
		}
		reports = append(reports, &r)
	}
	return reports, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*models.AnalysisReport, error) {
	var r models.AnalysisReport
	var explanation, sources, factCheck string
	if err := row.Scan(&r.ID, &r.Type, &r.Content, &r.Filename, &r.Credibility,
		&explanation, &sources, &factCheck, &r.Timestamp, &r.Status,
		&r.APISource, &r.Error); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(explanation), &r.Explanation); err != nil {
		return nil, fmt.Errorf("failed to decode explanation: %w", err)
	}
	if err := json.Unmarshal([]byte(sources), &r.Sources); err != nil {
		return nil, fmt.Errorf("failed to decode sources: %w", err)
	}
	if err := json.Unmarshal([]byte(factCheck), &r.FactCheck); err != nil {
		return nil, fmt.Errorf("failed to decode fact check: %w", err)
	}
	return &r, nil
}

func direction(order Order) string {
	if order == NewestFirst {
		return "DESC"
	}
	return "ASC"
}

// sqlLimit maps "no limit" to SQLite's -1.
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}
