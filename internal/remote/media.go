package remote

import (
	"bytes"
	"context"
	"errors"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const (
	videoProvider    = "Video analysis"
	deepfakeProvider = "Deepfake detection"
)

// MediaClient uploads files as multipart forms with bearer authentication.
// The video endpoint must answer with a numeric "credibility"; the deepfake
// endpoint with "isManipulated" and "confidence", plus optional "analysis"
// sub-scores and "recommendations".
type MediaClient struct {
	videoEndpoint    string
	deepfakeEndpoint string
	apiKey           string
	http             *resty.Client
}

// NewMediaClient creates a media client. An empty endpoint disables that call.
func NewMediaClient(videoEndpoint, deepfakeEndpoint, apiKey string) *MediaClient {
	return &MediaClient{
		videoEndpoint:    videoEndpoint,
		deepfakeEndpoint: deepfakeEndpoint,
		apiKey:           apiKey,
		http:             newHTTPClient(),
	}
}

func (c *MediaClient) upload(ctx context.Context, provider, endpoint, field, filename string, data []byte) (gjson.Result, error) {
	if endpoint == "" {
		return gjson.Result{}, &ProviderError{Provider: provider, Err: errors.New("no endpoint configured")}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetFileReader(field, filename, bytes.NewReader(data)).
		Post(endpoint)

	return checkResponse(provider, resp, err)
}

// ScoreVideo uploads a video in the "video" form field.
func (c *MediaClient) ScoreVideo(ctx context.Context, filename string, data []byte) (VideoScore, error) {
	body, err := c.upload(ctx, videoProvider, c.videoEndpoint, "video", filename, data)
	if err != nil {
		return VideoScore{}, err
	}

	cred := body.Get("credibility")
	if cred.Type != gjson.Number {
		return VideoScore{}, &ProviderError{Provider: videoProvider, Err: errors.New("response has no numeric credibility")}
	}
	return VideoScore{Credibility: int(cred.Int())}, nil
}

// DetectDeepfake uploads media in the "media" form field.
func (c *MediaClient) DetectDeepfake(ctx context.Context, filename string, data []byte) (DeepfakeSignals, error) {
	body, err := c.upload(ctx, deepfakeProvider, c.deepfakeEndpoint, "media", filename, data)
	if err != nil {
		return DeepfakeSignals{}, err
	}

	manipulated := body.Get("isManipulated")
	confidence := body.Get("confidence")
	isBool := manipulated.Type == gjson.True || manipulated.Type == gjson.False
	if !isBool || confidence.Type != gjson.Number {
		return DeepfakeSignals{}, &ProviderError{
			Provider: deepfakeProvider,
			Err:      errors.New("response is missing isManipulated or confidence"),
		}
	}

	signals := DeepfakeSignals{
		IsManipulated:       manipulated.Bool(),
		Confidence:          int(confidence.Int()),
		FacialConsistency:   int(body.Get("analysis.facialConsistency").Int()),
		AudioSync:           int(body.Get("analysis.audioSync").Int()),
		LightingConsistency: int(body.Get("analysis.lightingConsistency").Int()),
		TemporalConsistency: int(body.Get("analysis.temporalConsistency").Int()),
	}
	for _, r := range body.Get("recommendations").Array() {
		signals.Recommendations = append(signals.Recommendations, r.String())
	}
	return signals, nil
}
