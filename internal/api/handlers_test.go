package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/factchecker/truthlens/internal/analysis"
	"github.com/factchecker/truthlens/internal/config"
	"github.com/factchecker/truthlens/internal/database"
	"github.com/factchecker/truthlens/internal/models"
	"github.com/factchecker/truthlens/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Delays = config.DelayConfig{}
	cfg.RateLimits.RequestsPerMinute = 0
	return cfg
}

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	svc := analysis.NewService(cfg, database.NewMemoryStore(), scoring.NewScorer(nil), nil)
	return NewRouter(cfg, svc)
}

func do(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func postFile(t *testing.T, path, field, filename string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "no file"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["error"]
}

func TestHealthCheck(t *testing.T) {
	rec := do(t, newTestRouter(t, testConfig()), httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, map[string]string{"status": "OK", "message": "TruthLens API is running"},
		decode[map[string]string](t, rec))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDPropagated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := do(t, newTestRouter(t, testConfig()), req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestAnalyzeTextValidation(t *testing.T) {
	router := newTestRouter(t, testConfig())

	for _, body := range []string{`{}`, `{"content":"","url":""}`, ``} {
		rec := do(t, router, postJSON("/api/analyze/text", body))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
		assert.Equal(t, "Content or URL is required", errorMessage(t, rec))
	}
}

func TestAnalyzeTextMalformedJSON(t *testing.T) {
	rec := do(t, newTestRouter(t, testConfig()), postJSON("/api/analyze/text", `{"content":`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", errorMessage(t, rec))
}

func TestAnalyzeTextRoundTrip(t *testing.T) {
	router := newTestRouter(t, testConfig())

	rec := do(t, router, postJSON("/api/analyze/text", `{"content":"According to Reuters, the study published today was confirmed."}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decode[models.AnalysisReport](t, rec)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.KindText, created.Type)
	assert.GreaterOrEqual(t, created.Credibility, scoring.MinScore)
	assert.LessOrEqual(t, created.Credibility, scoring.MaxScore)
	assert.Equal(t, models.SourceMock, created.APISource)
	assert.Equal(t, models.StatusCompleted, created.Status)

	rec = do(t, router, httptest.NewRequest(http.MethodGet, "/api/scans/"+created.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[models.AnalysisReport](t, rec)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Type, got.Type)
	assert.Equal(t, created.Credibility, got.Credibility)

	rec = do(t, router, httptest.NewRequest(http.MethodGet, "/api/scans", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	scans := decode[[]models.AnalysisReport](t, rec)
	require.Len(t, scans, 1)
	assert.Equal(t, created.ID, scans[0].ID)
}

func TestReportJSONShape(t *testing.T) {
	rec := do(t, newTestRouter(t, testConfig()), postJSON("/api/analyze/text", `{"url":"https://example.com"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	raw := decode[map[string]any](t, rec)
	for _, key := range []string{"id", "type", "content", "credibility", "explanation", "sources", "factCheck", "timestamp", "status", "apiSource"} {
		assert.Contains(t, raw, key)
	}
	assert.NotContains(t, raw, "filename")
	assert.NotContains(t, raw, "error")
	assert.Equal(t, "URL: https://example.com", raw["content"])
}

func TestGetScanNotFound(t *testing.T) {
	rec := do(t, newTestRouter(t, testConfig()), httptest.NewRequest(http.MethodGet, "/api/scans/does-not-exist", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Scan not found", errorMessage(t, rec))
}

func TestListScansEmpty(t *testing.T) {
	rec := do(t, newTestRouter(t, testConfig()), httptest.NewRequest(http.MethodGet, "/api/scans", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestAnalyzeUploads(t *testing.T) {
	tests := []struct {
		path    string
		field   string
		kind    models.ContentKind
		missing string
	}{
		{"/api/analyze/image", "image", models.KindImage, "Image file is required"},
		{"/api/analyze/video", "video", models.KindVideo, "Video file is required"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			router := newTestRouter(t, testConfig())

			rec := do(t, router, postFile(t, tt.path, tt.field, "sample.bin", []byte("bytes")))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			report := decode[models.AnalysisReport](t, rec)
			assert.Equal(t, tt.kind, report.Type)
			assert.Equal(t, "sample.bin", report.Filename)
			assert.Empty(t, report.Content)
			assert.Len(t, report.Explanation, 3)

			rec = do(t, router, postFile(t, tt.path, "", "", nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.missing, errorMessage(t, rec))

			rec = do(t, router, postFile(t, tt.path, "wrong", "sample.bin", []byte("bytes")))
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			rec = do(t, router, postJSON(tt.path, `{}`))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.missing, errorMessage(t, rec))
		})
	}
}

func TestUploadTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.Server.MaxUploadBytes = 1024

	rec := do(t, newTestRouter(t, cfg), postFile(t, "/api/analyze/image", "image", "big.png", bytes.Repeat([]byte("x"), 4096)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "File too large", errorMessage(t, rec))
}

func TestUploadSizeLimitAppliesToFile(t *testing.T) {
	router := newTestRouter(t, testConfig())
	limit := testConfig().Server.MaxUploadBytes

	rec := do(t, router, postFile(t, "/api/analyze/image", "image", "exact.png", bytes.Repeat([]byte("x"), int(limit))))
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, router, postFile(t, "/api/analyze/image", "image", "over.png", bytes.Repeat([]byte("x"), int(limit)+1)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "File too large", errorMessage(t, rec))
}

func TestDetectDeepfake(t *testing.T) {
	router := newTestRouter(t, testConfig())

	for i := 0; i < 20; i++ {
		rec := do(t, router, postFile(t, "/api/deepfake/detect", "media", "face.mp4", []byte("frames")))
		require.Equal(t, http.StatusOK, rec.Code)
		result := decode[models.DeepfakeResult](t, rec)

		assert.Equal(t, "face.mp4", result.Filename)
		assert.GreaterOrEqual(t, result.Confidence, 60)
		assert.LessOrEqual(t, result.Confidence, 100)
		for _, sub := range []int{
			result.Analysis.FacialConsistency, result.Analysis.AudioSync,
			result.Analysis.LightingConsistency, result.Analysis.TemporalConsistency,
		} {
			assert.GreaterOrEqual(t, sub, 0)
			assert.LessOrEqual(t, sub, 100)
		}
		assert.Equal(t, scoring.Recommendations(result.IsManipulated), result.Recommendations)
	}

	rec := do(t, router, postFile(t, "/api/deepfake/detect", "", "", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Media file is required", errorMessage(t, rec))

	rec = do(t, router, httptest.NewRequest(http.MethodGet, "/api/scans", nil))
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestReports(t *testing.T) {
	router := newTestRouter(t, testConfig())

	rec := do(t, router, postJSON("/api/reports", `{"content":"Fake quote","type":"text","description":"Never said","rating":"negative"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	receipt := decode[models.ReportReceipt](t, rec)
	assert.Equal(t, "Report submitted successfully", receipt.Message)
	assert.NotEmpty(t, receipt.ReportID)

	rec = do(t, router, postJSON("/api/reports", `not json`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, httptest.NewRequest(http.MethodGet, "/api/reports", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	reports := decode[[]models.UserReport](t, rec)
	require.Len(t, reports, 1)
	assert.Equal(t, receipt.ReportID, reports[0].ID)
	assert.JSONEq(t, `"negative"`, string(reports[0].Rating))
	assert.Equal(t, models.StatusSubmitted, reports[0].Status)
}

func TestReportRatingAnyJSON(t *testing.T) {
	router := newTestRouter(t, testConfig())

	rec := do(t, router, postJSON("/api/reports", `{"content":"Claim","rating":4}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = do(t, router, postJSON("/api/reports", `{"content":"No rating"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, httptest.NewRequest(http.MethodGet, "/api/reports", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var reports []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reports))
	require.Len(t, reports, 2)
	assert.Equal(t, float64(4), reports[0]["rating"])
	assert.NotContains(t, reports[1], "rating")
}

func TestLearn(t *testing.T) {
	rec := do(t, newTestRouter(t, testConfig()), httptest.NewRequest(http.MethodGet, "/api/learn", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	content := decode[LearnContent](t, rec)
	require.Len(t, content.Topics, 2)
	assert.Equal(t, "Understanding Misinformation", content.Topics[0].Title)
	assert.Len(t, content.Topics[0].Cards, 2)
	assert.Equal(t, "Deepfake Detection", content.Topics[1].Title)
	for _, topic := range content.Topics {
		for _, card := range topic.Cards {
			assert.Less(t, card.Quiz.Correct, len(card.Quiz.Options))
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/analyze/text", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := do(t, newTestRouter(t, testConfig()), req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimits.RequestsPerMinute = 2
	router := newTestRouter(t, cfg)

	for i := 0; i < 2; i++ {
		rec := do(t, router, httptest.NewRequest(http.MethodGet, "/api/scans", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := do(t, router, httptest.NewRequest(http.MethodGet, "/api/scans", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Rate limit exceeded", errorMessage(t, rec))

	rec = do(t, router, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code, "health is not rate limited")
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, testConfig())
	do(t, router, postJSON("/api/analyze/text", `{"content":"hello"}`))

	rec := do(t, router, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "truthlens_analysis_reports_total")
	assert.Contains(t, rec.Body.String(), "truthlens_http_request_duration_seconds")
}
