package database

import (
	"context"
	"slices"
	"sync"

	"github.com/factchecker/truthlens/internal/models"
)

// MemoryStore implements Store with process-local slices. Nothing survives a
// restart and nothing is evicted.
type MemoryStore struct {
	mu      sync.RWMutex
	scans   []*models.AnalysisReport
	reports []*models.UserReport
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Migrate is a no-op for the in-memory store.
func (s *MemoryStore) Migrate() error { return nil }

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }

// AppendScan stores a copy of the report.
func (s *MemoryStore) AppendScan(ctx context.Context, report *models.AnalysisReport) error {
	cp := cloneScan(report)
	s.mu.Lock()
	s.scans = append(s.scans, cp)
	s.mu.Unlock()
	return nil
}

// GetScan returns the report with the given id, or nil if there is none.
func (s *MemoryStore) GetScan(ctx context.Context, id string) (*models.AnalysisReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.scans {
		if r.ID == id {
			return cloneScan(r), nil
		}
	}
	return nil, nil
}

// ListScans returns stored reports in the requested order.
func (s *MemoryStore) ListScans(ctx context.Context, limit int, order Order) ([]*models.AnalysisReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return window(s.scans, limit, order, cloneScan), nil
}

// AppendReport stores a copy of the user report.
func (s *MemoryStore) AppendReport(ctx context.Context, report *models.UserReport) error {
	cp := cloneReport(report)
	s.mu.Lock()
	s.reports = append(s.reports, cp)
	s.mu.Unlock()
	return nil
}

// ListReports returns stored user reports in the requested order.
func (s *MemoryStore) ListReports(ctx context.Context, limit int, order Order) ([]*models.UserReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return window(s.reports, limit, order, cloneReport), nil
}

// window copies the tail (NewestFirst) or head (OldestFirst) of items.
func window[T any](items []*T, limit int, order Order, clone func(*T) *T) []*T {
	n := len(items)
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]*T, 0, n)
	if order == NewestFirst {
		for i := len(items) - 1; i >= len(items)-n; i-- {
			out = append(out, clone(items[i]))
		}
		return out
	}
	for i := 0; i < n; i++ {
		out = append(out, clone(items[i]))
	}
	return out
}

// cloneScan deep-copies r so stored reports share no slices with callers.
func cloneScan(r *models.AnalysisReport) *models.AnalysisReport {
	cp := *r
	cp.Explanation = slices.Clone(r.Explanation)
	cp.Sources = slices.Clone(r.Sources)
	cp.FactCheck.Details = slices.Clone(r.FactCheck.Details)
	return &cp
}

func cloneReport(r *models.UserReport) *models.UserReport {
	cp := *r
	cp.Rating = slices.Clone(r.Rating)
	return &cp
}
