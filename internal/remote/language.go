package remote

import (
	"context"

	"github.com/go-resty/resty/v2"
)

const languageProvider = "Google Cloud Natural Language"

// LanguageClient calls the Google Cloud Natural Language analyzeSentiment API.
type LanguageClient struct {
	endpoint string
	apiKey   string
	http     *resty.Client
}

// NewLanguageClient creates a client for the given endpoint and API key.
func NewLanguageClient(endpoint, apiKey string) *LanguageClient {
	return &LanguageClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     newHTTPClient(),
	}
}

// Name returns the provider name.
func (c *LanguageClient) Name() string {
	return languageProvider
}

type languageDocument struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}

type languageRequest struct {
	Document     languageDocument `json:"document"`
	EncodingType string           `json:"encodingType"`
}

// AnalyzeSentiment returns the document sentiment of text. Missing score or
// magnitude fields read as zero.
func (c *LanguageClient) AnalyzeSentiment(ctx context.Context, text string) (Sentiment, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(languageRequest{
			Document:     languageDocument{Content: text, Type: "PLAIN_TEXT"},
			EncodingType: "UTF8",
		}).
		Post(c.endpoint)

	body, err := checkResponse(languageProvider, resp, err)
	if err != nil {
		return Sentiment{}, err
	}

	return Sentiment{
		Score:       body.Get("documentSentiment.score").Float(),
		Magnitude:   body.Get("documentSentiment.magnitude").Float(),
		Provider:    languageProvider,
		ProviderURL: "https://cloud.google.com/natural-language",
	}, nil
}
