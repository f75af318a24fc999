// Package remote provides clients for the third-party AI services that can
// replace local scoring: sentiment for text, vision annotation for images,
// and generic media endpoints for video and deepfake checks.
package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// ProviderError reports a failed remote call: a network error, a non-2xx
// status or a response that could not be interpreted.
type ProviderError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s API call failed: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// IsProviderError reports whether err is, or wraps, a *ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// Sentiment is a document-level sentiment signal.
type Sentiment struct {
	Score       float64 // [-1, 1]
	Magnitude   float64
	Provider    string
	ProviderURL string
}

// SentimentAnalyzer scores the emotional tone of text.
type SentimentAnalyzer interface {
	AnalyzeSentiment(ctx context.Context, text string) (Sentiment, error)
	Name() string
}

// VisionSignals are the fields read from an image annotation.
type VisionSignals struct {
	Labels    []string
	TextCount int
	Adult     string // safe-search likelihood, e.g. VERY_LIKELY
	Violence  string
}

// ImageAnnotator extracts labels and safe-search flags from an image.
type ImageAnnotator interface {
	Annotate(ctx context.Context, image []byte) (VisionSignals, error)
}

// VideoScore is the credibility reported by a remote video endpoint.
type VideoScore struct {
	Credibility int
}

// DeepfakeSignals is the verdict reported by a remote deepfake endpoint.
type DeepfakeSignals struct {
	IsManipulated       bool
	Confidence          int
	FacialConsistency   int
	AudioSync           int
	LightingConsistency int
	TemporalConsistency int
	Recommendations     []string
}

// VideoScorer rates an uploaded video.
type VideoScorer interface {
	ScoreVideo(ctx context.Context, filename string, data []byte) (VideoScore, error)
}

// DeepfakeDetector checks uploaded media for manipulation.
type DeepfakeDetector interface {
	DetectDeepfake(ctx context.Context, filename string, data []byte) (DeepfakeSignals, error)
}

func newHTTPClient() *resty.Client {
	return resty.New().
		SetHeader("User-Agent", "truthlens/1.0").
		SetHeader("Accept", "application/json")
}

// checkResponse turns transport errors, error statuses and non-JSON bodies
// into a *ProviderError and returns the parsed body otherwise.
func checkResponse(provider string, resp *resty.Response, err error) (gjson.Result, error) {
	if err != nil {
		return gjson.Result{}, &ProviderError{Provider: provider, Err: err}
	}
	if !resp.IsSuccess() {
		return gjson.Result{}, &ProviderError{
			Provider:   provider,
			StatusCode: resp.StatusCode(),
			Err:        errors.New(resp.Status()),
		}
	}

	body := resp.Body()
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, &ProviderError{
			Provider:   provider,
			StatusCode: resp.StatusCode(),
			Err:        errors.New("response is not valid JSON"),
		}
	}
	return gjson.ParseBytes(body), nil
}
