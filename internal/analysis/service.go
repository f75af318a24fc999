// Package analysis runs credibility analyses: it picks the remote or local
// scoring path, normalizes the result into a report and records it.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/factchecker/truthlens/internal/config"
	"github.com/factchecker/truthlens/internal/database"
	"github.com/factchecker/truthlens/internal/fetch"
	"github.com/factchecker/truthlens/internal/metrics"
	"github.com/factchecker/truthlens/internal/models"
	"github.com/factchecker/truthlens/internal/remote"
	"github.com/factchecker/truthlens/internal/scoring"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RecentScanLimit is the number of scans returned by RecentScans.
const RecentScanLimit = 10

// ValidationError reports missing or malformed input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports an unknown record id.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// PageFetcher returns the readable text of a web page.
type PageFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// Option customizes a Service.
type Option func(*Service)

// WithFetcher sets the page fetcher used for URL-only text submissions.
func WithFetcher(f PageFetcher) Option {
	return func(s *Service) { s.fetcher = f }
}

// WithClock overrides the time source used for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides the id source.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// Service orchestrates analysis requests.
type Service struct {
	store     database.Store
	scorer    *scoring.Scorer
	providers *remote.Providers
	delays    config.DelayConfig
	fetcher   PageFetcher
	now       func() time.Time
	newID     func() string
}

// NewService creates a new analysis service. A nil scorer uses the default
// random source; nil providers means local scoring only.
func NewService(cfg *config.Config, store database.Store, scorer *scoring.Scorer, providers *remote.Providers, opts ...Option) *Service {
	if scorer == nil {
		scorer = scoring.NewScorer(nil)
	}
	if providers == nil {
		providers = &remote.Providers{}
	}

	s := &Service{
		store:     store,
		scorer:    scorer,
		providers: providers,
		delays:    cfg.Delays,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
	if cfg.Fetch.Enabled {
		s.fetcher = fetch.New(cfg.Fetch.Timeout, cfg.Fetch.MaxBytes)
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnalyzeText scores submitted text, or a URL when no text is given.
func (s *Service) AnalyzeText(ctx context.Context, req models.TextRequest) (*models.AnalysisReport, error) {
	content := strings.TrimSpace(req.Content)
	url := strings.TrimSpace(req.URL)
	if content == "" && url == "" {
		return nil, &ValidationError{Message: "Content or URL is required"}
	}

	subject := req.Content
	if content == "" {
		subject = "URL: " + url
		if s.fetcher != nil {
			text, err := s.fetcher.FetchText(ctx, url)
			if err != nil {
				log.Warn().Err(err).Str("url", url).Msg("Page fetch failed, scoring URL only")
			} else {
				subject += "\n\n" + text
			}
		}
	}

	var remoteStage func() (models.Assessment, error)
	if p := s.providers.Sentiment; p != nil {
		remoteStage = func() (models.Assessment, error) {
			sentiment, err := p.AnalyzeSentiment(ctx, subject)
			if err != nil {
				return models.Assessment{}, err
			}
			return SentimentAssessment(sentiment), nil
		}
	}

	report := s.assess(models.KindText, subject, remoteStage)
	return s.record(ctx, report, s.delays.Text)
}

// AnalyzeImage scores an uploaded image. Local scoring only sees the filename.
func (s *Service) AnalyzeImage(ctx context.Context, up *models.Upload) (*models.AnalysisReport, error) {
	if up == nil {
		return nil, &ValidationError{Message: "Image file is required"}
	}

	var remoteStage func() (models.Assessment, error)
	if p := s.providers.Vision; p != nil {
		remoteStage = func() (models.Assessment, error) {
			signals, err := p.Annotate(ctx, up.Data)
			if err != nil {
				return models.Assessment{}, err
			}
			return VisionAssessment(signals), nil
		}
	}

	report := s.assess(models.KindImage, up.Filename, remoteStage)
	return s.record(ctx, report, s.delays.Image)
}

// AnalyzeVideo scores an uploaded video. Local scoring only sees the filename.
func (s *Service) AnalyzeVideo(ctx context.Context, up *models.Upload) (*models.AnalysisReport, error) {
	if up == nil {
		return nil, &ValidationError{Message: "Video file is required"}
	}

	var remoteStage func() (models.Assessment, error)
	if p := s.providers.Video; p != nil {
		remoteStage = func() (models.Assessment, error) {
			score, err := p.ScoreVideo(ctx, up.Filename, up.Data)
			if err != nil {
				return models.Assessment{}, err
			}
			return VideoAssessment(score), nil
		}
	}

	report := s.assess(models.KindVideo, up.Filename, remoteStage)
	return s.record(ctx, report, s.delays.Video)
}

// assess runs the remote stage when one is configured and falls back to local
// scoring on any failure, keeping the failure message on the report.
func (s *Service) assess(kind models.ContentKind, subject string, remoteStage func() (models.Assessment, error)) *models.AnalysisReport {
	id := s.newID()

	if remoteStage == nil {
		return newAnalysisReport(id, kind, subject, s.scorer.Analyze(subject, kind), models.SourceMock, "", s.now())
	}

	a, err := remoteStage()
	if err == nil {
		return newAnalysisReport(id, kind, subject, a, models.SourceReal, "", s.now())
	}

	log.Warn().Err(err).Str("type", string(kind)).Msg("Remote analysis failed, falling back to local scoring")
	metrics.RemoteFallbacksTotal.WithLabelValues(string(kind)).Inc()

	return newAnalysisReport(id, kind, subject, s.scorer.Analyze(subject, kind), models.SourceMockFallback, err.Error(), s.now())
}

// record stores a report and then holds the response for the configured delay.
func (s *Service) record(ctx context.Context, report *models.AnalysisReport, delay time.Duration) (*models.AnalysisReport, error) {
	if err := s.store.AppendScan(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to store scan: %w", err)
	}

	metrics.AnalysesTotal.WithLabelValues(string(report.Type), string(report.APISource)).Inc()

	log.Info().
		Str("id", report.ID).
		Str("type", string(report.Type)).
		Str("api_source", string(report.APISource)).
		Str("subject", truncate(report.Subject(), 100)).
		Int("credibility", report.Credibility).
		Str("status", report.FactCheck.Status).
		Msg("Analysis complete")

	if err := wait(ctx, delay); err != nil {
		return nil, err
	}
	return report, nil
}

// DetectDeepfake checks uploaded media for manipulation. Results are not
// added to scan history.
func (s *Service) DetectDeepfake(ctx context.Context, up *models.Upload) (*models.DeepfakeResult, error) {
	if up == nil {
		return nil, &ValidationError{Message: "Media file is required"}
	}

	result := &models.DeepfakeResult{
		ID:       s.newID(),
		Filename: up.Filename,
	}

	var remoteErr error
	if p := s.providers.Deepfake; p != nil {
		signals, err := p.DetectDeepfake(ctx, up.Filename, up.Data)
		if err == nil {
			applyDeepfakeSignals(result, signals)
			result.APISource = models.SourceReal
		} else {
			remoteErr = err
		}
	}

	if result.APISource == "" {
		verdict := s.scorer.DetectDeepfake()
		result.IsManipulated = verdict.IsManipulated
		result.Confidence = verdict.Confidence
		result.Analysis = verdict.Analysis
		result.Recommendations = verdict.Recommendations
		result.APISource = models.SourceMock

		if remoteErr != nil {
			log.Warn().Err(remoteErr).Msg("Remote deepfake detection failed, falling back to local detector")
			metrics.RemoteFallbacksTotal.WithLabelValues("deepfake").Inc()
			result.APISource = models.SourceMockFallback
			result.Error = remoteErr.Error()
		}
	}
	result.Timestamp = FormatTimestamp(s.now())

	verdict := "authentic"
	if result.IsManipulated {
		verdict = "manipulated"
	}
	metrics.DeepfakeChecksTotal.WithLabelValues(verdict).Inc()

	log.Info().
		Str("id", result.ID).
		Str("filename", result.Filename).
		Bool("manipulated", result.IsManipulated).
		Int("confidence", result.Confidence).
		Str("api_source", string(result.APISource)).
		Msg("Deepfake check complete")

	if err := wait(ctx, s.delays.Deepfake); err != nil {
		return nil, err
	}
	return result, nil
}

func applyDeepfakeSignals(r *models.DeepfakeResult, sig remote.DeepfakeSignals) {
	r.IsManipulated = sig.IsManipulated
	r.Confidence = scoring.ClampConfidence(sig.Confidence)
	r.Analysis = models.DeepfakeAnalysis{
		FacialConsistency:   scoring.ClampPercent(sig.FacialConsistency),
		AudioSync:           scoring.ClampPercent(sig.AudioSync),
		LightingConsistency: scoring.ClampPercent(sig.LightingConsistency),
		TemporalConsistency: scoring.ClampPercent(sig.TemporalConsistency),
	}
	r.Recommendations = sig.Recommendations
	if len(r.Recommendations) == 0 {
		r.Recommendations = scoring.Recommendations(sig.IsManipulated)
	}
}

// SubmitReport stores user feedback. No field is required.
func (s *Service) SubmitReport(ctx context.Context, req models.ReportRequest) (*models.ReportReceipt, error) {
	report := &models.UserReport{
		ID:          s.newID(),
		Content:     req.Content,
		Type:        req.Type,
		Description: req.Description,
		Rating:      req.Rating,
		Timestamp:   FormatTimestamp(s.now()),
		Status:      models.StatusSubmitted,
	}
	if err := s.store.AppendReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to store report: %w", err)
	}

	metrics.UserReportsTotal.Inc()
	log.Info().Str("id", report.ID).Str("type", report.Type).Msg("User report submitted")

	return &models.ReportReceipt{
		Message:  "Report submitted successfully",
		ReportID: report.ID,
	}, nil
}

// RecentScans returns the latest scans, newest first.
func (s *Service) RecentScans(ctx context.Context) ([]*models.AnalysisReport, error) {
	scans, err := s.store.ListScans(ctx, RecentScanLimit, database.NewestFirst)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	if scans == nil {
		scans = []*models.AnalysisReport{}
	}
	return scans, nil
}

// GetScan returns one scan by id.
func (s *Service) GetScan(ctx context.Context, id string) (*models.AnalysisReport, error) {
	scan, err := s.store.GetScan(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get scan: %w", err)
	}
	if scan == nil {
		return nil, &NotFoundError{Message: "Scan not found"}
	}
	return scan, nil
}

// Reports returns every submitted user report, oldest first.
func (s *Service) Reports(ctx context.Context) ([]*models.UserReport, error) {
	reports, err := s.store.ListReports(ctx, 0, database.OldestFirst)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	if reports == nil {
		reports = []*models.UserReport{}
	}
	return reports, nil
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
