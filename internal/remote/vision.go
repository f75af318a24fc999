package remote

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/go-resty/resty/v2"
)

const visionProvider = "Google Cloud Vision"

// VisionClient calls the Google Cloud Vision images:annotate API.
type VisionClient struct {
	endpoint string
	apiKey   string
	http     *resty.Client
}

// NewVisionClient creates a client for the given endpoint and API key.
func NewVisionClient(endpoint, apiKey string) *VisionClient {
	return &VisionClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     newHTTPClient(),
	}
}

type visionFeature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults,omitempty"`
}

type visionImageRequest struct {
	Image struct {
		Content string `json:"content"`
	} `json:"image"`
	Features []visionFeature `json:"features"`
}

type visionRequest struct {
	Requests []visionImageRequest `json:"requests"`
}

// Annotate requests label, text and safe-search detection for one image.
func (c *VisionClient) Annotate(ctx context.Context, image []byte) (VisionSignals, error) {
	req := visionImageRequest{
		Features: []visionFeature{
			{Type: "LABEL_DETECTION", MaxResults: 10},
			{Type: "TEXT_DETECTION", MaxResults: 10},
			{Type: "SAFE_SEARCH_DETECTION"},
		},
	}
	req.Image.Content = base64.StdEncoding.EncodeToString(image)

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(visionRequest{Requests: []visionImageRequest{req}}).
		Post(c.endpoint)

	body, err := checkResponse(visionProvider, resp, err)
	if err != nil {
		return VisionSignals{}, err
	}

	first := body.Get("responses.0")
	if msg := first.Get("error.message"); msg.Exists() {
		return VisionSignals{}, &ProviderError{
			Provider:   visionProvider,
			StatusCode: resp.StatusCode(),
			Err:        errors.New(msg.String()),
		}
	}

	signals := VisionSignals{
		TextCount: len(first.Get("textAnnotations").Array()),
		Adult:     first.Get("safeSearchAnnotation.adult").String(),
		Violence:  first.Get("safeSearchAnnotation.violence").String(),
	}
	for _, l := range first.Get("labelAnnotations.#.description").Array() {
		signals.Labels = append(signals.Labels, l.String())
	}
	return signals, nil
}
