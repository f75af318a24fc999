package remote

import (
	"context"
	"errors"
	"strings"

	"github.com/go-resty/resty/v2"
)

const ollamaProvider = "Ollama"

// OllamaSentiment asks a local Ollama model for a sentiment score.
type OllamaSentiment struct {
	baseURL string
	model   string
	http    *resty.Client
}

// NewOllamaSentiment creates a new Ollama sentiment provider.
func NewOllamaSentiment(baseURL, model string) *OllamaSentiment {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3"
	}

	return &OllamaSentiment{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		http:    newHTTPClient(),
	}
}

// Name returns the provider name.
func (p *OllamaSentiment) Name() string {
	return ollamaProvider
}

type ollamaGenerateRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	System  string `json:"system,omitempty"`
	Format  string `json:"format,omitempty"`
	Stream  bool   `json:"stream"`
	Options struct {
		Temperature float64 `json:"temperature"`
	} `json:"options"`
}

// AnalyzeSentiment returns the model's sentiment rating of text.
func (p *OllamaSentiment) AnalyzeSentiment(ctx context.Context, text string) (Sentiment, error) {
	reqBody := ollamaGenerateRequest{
		Model:  p.model,
		Prompt: text,
		System: sentimentPrompt,
		Format: "json",
	}

	resp, err := p.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(reqBody).
		Post(p.baseURL + "/api/generate")

	body, err := checkResponse(ollamaProvider, resp, err)
	if err != nil {
		return Sentiment{}, err
	}

	if msg := body.Get("error"); msg.Exists() {
		return Sentiment{}, &ProviderError{Provider: ollamaProvider, StatusCode: resp.StatusCode(), Err: errors.New(msg.String())}
	}

	return parseSentimentReply(ollamaProvider, "https://ollama.com", body.Get("response").String())
}
