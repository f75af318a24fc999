package database

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/factchecker/truthlens/internal/config"
	"github.com/factchecker/truthlens/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := NewSQLiteStore(filepath.Join(t.TempDir(), "data", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func sampleScan(i int) *models.AnalysisReport {
	return &models.AnalysisReport{
		ID:          fmt.Sprintf("scan-%02d", i),
		Type:        models.KindText,
		Content:     fmt.Sprintf("content %d", i),
		Credibility: 40 + i,
		Explanation: []models.ExplanationItem{{Title: "Source Verification", Status: "Unverified", Confidence: 60}},
		Sources:     []models.SourceRef{{Name: "Reuters", Credibility: "High", URL: "https://reuters.com"}},
		FactCheck:   models.FactCheckSummary{Status: "Unverified", Summary: "s", Details: []string{"a", "b"}},
		Timestamp:   "2026-10-18T10:00:00.000Z",
		Status:      models.StatusCompleted,
		APISource:   models.SourceMock,
	}
}

func TestStoreScans(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for i := 1; i <= 12; i++ {
				require.NoError(t, store.AppendScan(ctx, sampleScan(i)))
			}

			got, err := store.GetScan(ctx, "scan-03")
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, sampleScan(3), got)

			missing, err := store.GetScan(ctx, "nope")
			require.NoError(t, err)
			assert.Nil(t, missing)

			recent, err := store.ListScans(ctx, 10, NewestFirst)
			require.NoError(t, err)
			require.Len(t, recent, 10)
			assert.Equal(t, "scan-12", recent[0].ID)
			assert.Equal(t, "scan-03", recent[9].ID)

			all, err := store.ListScans(ctx, 0, OldestFirst)
			require.NoError(t, err)
			require.Len(t, all, 12)
			assert.Equal(t, "scan-01", all[0].ID)

			head, err := store.ListScans(ctx, 2, OldestFirst)
			require.NoError(t, err)
			assert.Equal(t, []string{"scan-01", "scan-02"}, []string{head[0].ID, head[1].ID})
		})
	}
}

func TestStoreReports(t *testing.T) {
	ctx := context.Background()
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			empty, err := store.ListReports(ctx, 0, OldestFirst)
			require.NoError(t, err)
			assert.Empty(t, empty)

			for i := 0; i < 3; i++ {
				require.NoError(t, store.AppendReport(ctx, &models.UserReport{
					ID:          fmt.Sprintf("r%d", i),
					Content:     "claim",
					Type:        "text",
					Description: "looks fake",
					Rating:      json.RawMessage(`"negative"`),
					Timestamp:   "2026-10-18T10:00:00.000Z",
					Status:      models.StatusSubmitted,
				}))
			}

			all, err := store.ListReports(ctx, 0, OldestFirst)
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, "r0", all[0].ID)
			assert.JSONEq(t, `"negative"`, string(all[0].Rating))

			newest, err := store.ListReports(ctx, 1, NewestFirst)
			require.NoError(t, err)
			require.Len(t, newest, 1)
			assert.Equal(t, "r2", newest[0].ID)
		})
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.AppendScan(ctx, sampleScan(1)))

	got, err := store.GetScan(ctx, "scan-01")
	require.NoError(t, err)
	got.Credibility = 0

	again, err := store.GetScan(ctx, "scan-01")
	require.NoError(t, err)
	assert.Equal(t, 41, again.Credibility)
}

func TestMemoryStoreCopiesSlices(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	scan := sampleScan(1)
	require.NoError(t, store.AppendScan(ctx, scan))
	scan.Explanation[0].Title = "changed"
	scan.Sources[0].Name = "changed"
	scan.FactCheck.Details[0] = "changed"

	got, err := store.GetScan(ctx, "scan-01")
	require.NoError(t, err)
	got.FactCheck.Details[1] = "changed"

	listed, err := store.ListScans(ctx, 0, OldestFirst)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Source Verification", listed[0].Explanation[0].Title)
	assert.Equal(t, "Reuters", listed[0].Sources[0].Name)
	assert.Equal(t, []string{"a", "b"}, listed[0].FactCheck.Details)

	report := &models.UserReport{ID: "r1", Rating: json.RawMessage(`"up"`)}
	require.NoError(t, store.AppendReport(ctx, report))
	report.Rating[1] = 'x'

	reports, err := store.ListReports(ctx, 0, OldestFirst)
	require.NoError(t, err)
	assert.Equal(t, `"up"`, string(reports[0].Rating))
}

func TestMemoryStoreConcurrentAppend(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.AppendScan(ctx, sampleScan(i))
			_, _ = store.ListScans(ctx, 10, NewestFirst)
		}(i)
	}
	wg.Wait()

	all, err := store.ListScans(ctx, 0, OldestFirst)
	require.NoError(t, err)
	assert.Len(t, all, 50)
}

func TestOpen(t *testing.T) {
	s, err := Open(config.DatabaseConfig{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = Open(config.DatabaseConfig{Driver: "postgres"})
	assert.Error(t, err)
}
