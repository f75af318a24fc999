// Package database provides the history store with support for multiple backends.
package database

import (
	"context"
	"fmt"

	"github.com/factchecker/truthlens/internal/config"
	"github.com/factchecker/truthlens/internal/models"
)

// Order selects the listing direction of a history query.
type Order int

const (
	OldestFirst Order = iota
	NewestFirst
)

// Store is an append-only history of analysis reports and user reports.
// A limit <= 0 means no limit; with NewestFirst the limit keeps the most
// recent entries.
type Store interface {
	// Scans
	AppendScan(ctx context.Context, report *models.AnalysisReport) error
	GetScan(ctx context.Context, id string) (*models.AnalysisReport, error)
	ListScans(ctx context.Context, limit int, order Order) ([]*models.AnalysisReport, error)

	// User reports
	AppendReport(ctx context.Context, report *models.UserReport) error
	ListReports(ctx context.Context, limit int, order Order) ([]*models.UserReport, error)

	// Lifecycle
	Close() error
	Migrate() error
}

// Open creates the store selected by the database configuration.
func Open(cfg config.DatabaseConfig) (Store, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return NewSQLiteStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}
