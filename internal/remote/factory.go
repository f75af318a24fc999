package remote

import (
	"fmt"

	"github.com/factchecker/truthlens/internal/config"
)

// Providers bundles the remote clients used when real API mode is enabled.
// A nil field means that content kind always uses local scoring.
type Providers struct {
	Sentiment SentimentAnalyzer
	Vision    ImageAnnotator
	Video     VideoScorer
	Deepfake  DeepfakeDetector
}

// NewProviders builds the remote clients from configuration. It returns an
// empty bundle when real API mode is disabled.
func NewProviders(cfg config.RemoteConfig) (*Providers, error) {
	p := &Providers{}
	if !cfg.UseRealAPI {
		return p, nil
	}

	sentiment, err := NewSentimentAnalyzer(cfg)
	if err != nil {
		return nil, err
	}
	p.Sentiment = sentiment

	if cfg.ImageEndpoint != "" {
		p.Vision = NewVisionClient(cfg.ImageEndpoint, cfg.APIKey)
	}

	media := NewMediaClient(cfg.VideoEndpoint, cfg.DeepfakeEndpoint, cfg.APIKey)
	if cfg.VideoEndpoint != "" {
		p.Video = media
	}
	if cfg.DeepfakeEndpoint != "" {
		p.Deepfake = media
	}
	return p, nil
}

// NewSentimentAnalyzer creates the text provider selected by configuration.
func NewSentimentAnalyzer(cfg config.RemoteConfig) (SentimentAnalyzer, error) {
	switch cfg.TextProvider {
	case "", "google":
		return NewLanguageClient(cfg.TextEndpoint, cfg.APIKey), nil
	case "openai":
		return NewOpenAISentiment(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	case "ollama":
		return NewOllamaSentiment(cfg.OllamaURL, cfg.OllamaModel), nil
	default:
		return nil, fmt.Errorf("unsupported text provider: %s", cfg.TextProvider)
	}
}
