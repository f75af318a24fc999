package analysis

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/factchecker/truthlens/internal/models"
	"github.com/factchecker/truthlens/internal/remote"
	"github.com/factchecker/truthlens/internal/scoring"
)

// TimestampLayout is RFC 3339 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

const (
	visionBaseline         = 80
	veryLikelyPenalty      = 40
	likelyPenalty          = 20
	sentimentNeutralBand   = 0.1
	safetyConfidence       = 90
	imageLabelConfidence   = 85
	visionProviderURL      = "https://cloud.google.com/vision"
	visionProviderName     = "Google Cloud Vision API"
	likelihoodVeryLikely   = "VERY_LIKELY"
	likelihoodLikely       = "LIKELY"
	factCheckAnalyzed      = "Analyzed"
	factCheckRequireReview = "Requires Review"
)

// SentimentAssessment maps a document sentiment onto a credibility report.
// Credibility is round((score+1)*50) clamped to the scoring bounds.
func SentimentAssessment(s remote.Sentiment) models.Assessment {
	credibility := scoring.Clamp(int(math.Round((s.Score + 1) * 50)))

	tone := "Neutral"
	switch {
	case s.Score > sentimentNeutralBand:
		tone = "Positive"
	case s.Score < -sentimentNeutralBand:
		tone = "Negative"
	}

	quality := [...]string{"Low Quality", "Medium Quality", "High Quality"}[scoring.BandOf(credibility)]

	return models.Assessment{
		Credibility: credibility,
		Explanation: []models.ExplanationItem{
			{
				Title:       "Sentiment Analysis",
				Status:      tone,
				Description: fmt.Sprintf("%s sentiment analysis: %.2f", s.Provider, s.Score),
				Confidence:  scoring.ClampPercent(int(math.Round(math.Abs(s.Score) * 100))),
			},
			{
				Title:       "Content Quality",
				Status:      quality,
				Description: fmt.Sprintf("Content analyzed using %s", s.Provider),
				Confidence:  credibility,
			},
		},
		Sources: []models.SourceRef{
			{Name: s.Provider, Credibility: models.CredibilityHigh, URL: s.ProviderURL},
		},
		FactCheck: models.FactCheckSummary{
			Status:  factCheckStatus(credibility),
			Summary: fmt.Sprintf("Content analyzed using %s. Sentiment score: %.2f", s.Provider, s.Score),
			Details: []string{
				fmt.Sprintf("Analyzed using %s", s.Provider),
				fmt.Sprintf("Sentiment magnitude: %g", s.Magnitude),
				"Content processed for emotional tone and language patterns",
			},
		},
	}
}

// VisionAssessment maps image annotation signals onto a credibility report.
// Credibility starts at 80 and drops by 40 for a very likely adult or violent
// flag, or by 20 for a likely one.
func VisionAssessment(v remote.VisionSignals) models.Assessment {
	veryLikely := v.Adult == likelihoodVeryLikely || v.Violence == likelihoodVeryLikely
	likely := v.Adult == likelihoodLikely || v.Violence == likelihoodLikely

	credibility := visionBaseline
	switch {
	case veryLikely:
		credibility -= veryLikelyPenalty
	case likely:
		credibility -= likelyPenalty
	}
	credibility = scoring.Clamp(credibility)

	safety := "Safe"
	if veryLikely {
		safety = "Unsafe"
	}
	labelStatus := "No Labels Detected"
	if len(v.Labels) > 0 {
		labelStatus = "Analyzed"
	}

	return models.Assessment{
		Credibility: credibility,
		Explanation: []models.ExplanationItem{
			{
				Title:       "Content Safety",
				Status:      safety,
				Description: "Google Cloud safe search analysis completed",
				Confidence:  safetyConfidence,
			},
			{
				Title:       "Image Analysis",
				Status:      labelStatus,
				Description: fmt.Sprintf("Detected %d content labels using Google Cloud Vision", len(v.Labels)),
				Confidence:  imageLabelConfidence,
			},
		},
		Sources: []models.SourceRef{
			{Name: visionProviderName, Credibility: models.CredibilityHigh, URL: visionProviderURL},
		},
		FactCheck: models.FactCheckSummary{
			Status:  factCheckStatus(credibility),
			Summary: fmt.Sprintf("Image analyzed using Google Cloud Vision API. Safety score: %d%%", credibility),
			Details: []string{
				"Analyzed using Google Cloud Vision API",
				"Detected labels: " + strings.Join(v.Labels, ", "),
				fmt.Sprintf("Safe search: Adult=%s, Violence=%s", v.Adult, v.Violence),
			},
		},
	}
}

// VideoAssessment renders the local video templates around a remote score.
func VideoAssessment(v remote.VideoScore) models.Assessment {
	return scoring.BuildReport(scoring.Clamp(v.Credibility), models.KindVideo)
}

func factCheckStatus(credibility int) string {
	if credibility >= scoring.HighThreshold {
		return factCheckAnalyzed
	}
	return factCheckRequireReview
}

// newAnalysisReport stamps an assessment with its identity and provenance.
func newAnalysisReport(id string, kind models.ContentKind, subject string, a models.Assessment,
	source models.APISource, errMsg string, at time.Time) *models.AnalysisReport {
	r := &models.AnalysisReport{
		ID:          id,
		Type:        kind,
		Credibility: a.Credibility,
		Explanation: a.Explanation,
		Sources:     a.Sources,
		FactCheck:   a.FactCheck,
		Timestamp:   FormatTimestamp(at),
		Status:      models.StatusCompleted,
		APISource:   source,
		Error:       errMsg,
	}
	if kind == models.KindText {
		r.Content = subject
	} else {
		r.Filename = subject
	}
	return r
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
