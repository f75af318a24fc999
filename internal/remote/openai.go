package remote

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/tidwall/gjson"
)

const openAIProvider = "OpenAI"

const sentimentPrompt = `You are a sentiment analysis service. Rate the overall emotional tone of the user's text.

Respond with a JSON object:
{
  "score": -1.0 to 1.0,
  "magnitude": 0.0 or greater
}

score is negative for negative tone, positive for positive tone and near zero for neutral text.
magnitude is the overall strength of emotion regardless of direction.

Only respond with the JSON object, no other text.`

var codeFence = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// OpenAISentiment asks an OpenAI chat model for a sentiment score.
type OpenAISentiment struct {
	client *openai.Client
	model  string
}

// NewOpenAISentiment creates a new OpenAI sentiment provider. baseURL may be
// empty to use the public API.
func NewOpenAISentiment(apiKey, model, baseURL string) (*OpenAISentiment, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	if model == "" {
		model = "gpt-4o-mini"
	}

	return &OpenAISentiment{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

// Name returns the provider name.
func (p *OpenAISentiment) Name() string {
	return openAIProvider
}

// AnalyzeSentiment returns the model's sentiment rating of text.
func (p *OpenAISentiment) AnalyzeSentiment(ctx context.Context, text string) (Sentiment, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: sentimentPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		MaxTokens:   64,
		Temperature: 0,
	})
	if err != nil {
		pe := &ProviderError{Provider: openAIProvider, Err: err}
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			pe.StatusCode = apiErr.HTTPStatusCode
		}
		return Sentiment{}, pe
	}

	if len(resp.Choices) == 0 {
		return Sentiment{}, &ProviderError{Provider: openAIProvider, Err: errors.New("no choices returned")}
	}

	return parseSentimentReply(openAIProvider, "https://platform.openai.com", resp.Choices[0].Message.Content)
}

// parseSentimentReply reads the score and magnitude a chat model was asked
// to return. The score is clamped to [-1, 1].
func parseSentimentReply(provider, providerURL, reply string) (Sentiment, error) {
	obj, err := extractJSON(reply)
	if err != nil {
		return Sentiment{}, &ProviderError{Provider: provider, Err: err}
	}

	score := obj.Get("score")
	if score.Type != gjson.Number {
		return Sentiment{}, &ProviderError{Provider: provider, Err: errors.New("response has no numeric score")}
	}

	return Sentiment{
		Score:       max(-1, min(1, score.Float())),
		Magnitude:   max(0, obj.Get("magnitude").Float()),
		Provider:    provider,
		ProviderURL: providerURL,
	}, nil
}

// extractJSON pulls a JSON object out of a model reply, tolerating markdown
// fences and surrounding prose.
func extractJSON(reply string) (gjson.Result, error) {
	reply = strings.TrimSpace(reply)

	if strings.HasPrefix(reply, "```") {
		if m := codeFence.FindStringSubmatch(reply); len(m) > 1 {
			reply = m[1]
		}
	}

	if !gjson.Valid(reply) {
		start := strings.Index(reply, "{")
		end := strings.LastIndex(reply, "}")
		if start < 0 || end <= start {
			return gjson.Result{}, errors.New("no JSON found in response")
		}
		reply = reply[start : end+1]
		if !gjson.Valid(reply) {
			return gjson.Result{}, errors.New("invalid JSON in response")
		}
	}

	obj := gjson.Parse(reply)
	if !obj.IsObject() {
		return gjson.Result{}, errors.New("response is not a JSON object")
	}
	return obj, nil
}
