// Package config handles application configuration from YAML files and environment variables.
package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default remote endpoints (Google Cloud AI).
const (
	DefaultTextEndpoint     = "https://language.googleapis.com/v1/documents:analyzeSentiment"
	DefaultImageEndpoint    = "https://vision.googleapis.com/v1/images:annotate"
	DefaultVideoEndpoint    = "https://videointelligence.googleapis.com/v1/videos:annotate"
	DefaultDeepfakeEndpoint = "https://vision.googleapis.com/v1/images:annotate"
)

// Config represents the application configuration.
type Config struct {
	Server     ServerConfig    `yaml:"server"`
	Database   DatabaseConfig  `yaml:"database"`
	Remote     RemoteConfig    `yaml:"remote"`
	Delays     DelayConfig     `yaml:"delays"`
	Fetch      FetchConfig     `yaml:"fetch"`
	RateLimits RateLimitConfig `yaml:"rate_limits"`
	Logging    LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	MaxUploadBytes int64    `yaml:"max_upload_bytes"`
	CORSOrigins    []string `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // memory, sqlite
	Path   string `yaml:"path"`   // for sqlite
}

// RemoteConfig selects and configures the third-party AI providers.
type RemoteConfig struct {
	UseRealAPI       bool   `yaml:"use_real_api"`
	TextProvider     string `yaml:"text_provider"` // google, openai, ollama
	APIKey           string `yaml:"api_key"`
	TextEndpoint     string `yaml:"text_endpoint"`
	ImageEndpoint    string `yaml:"image_endpoint"`
	VideoEndpoint    string `yaml:"video_endpoint"`
	DeepfakeEndpoint string `yaml:"deepfake_endpoint"`
	OpenAIAPIKey     string `yaml:"openai_api_key"`
	OpenAIModel      string `yaml:"openai_model"`
	OpenAIBaseURL    string `yaml:"openai_base_url"`
	OllamaURL        string `yaml:"ollama_url"`
	OllamaModel      string `yaml:"ollama_model"`
}

// DelayConfig holds the artificial per-endpoint response latency.
type DelayConfig struct {
	Text     time.Duration `yaml:"text"`
	Image    time.Duration `yaml:"image"`
	Video    time.Duration `yaml:"video"`
	Deepfake time.Duration `yaml:"deepfake"`
}

// FetchConfig controls page retrieval for URL-only text submissions.
type FetchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Timeout  time.Duration `yaml:"timeout"`
	MaxBytes int64         `yaml:"max_bytes"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           5000,
			MaxUploadBytes: 10 << 20,
			CORSOrigins:    []string{"*"},
		},
		Database: DatabaseConfig{
			Driver: "memory",
			Path:   "./data/truthlens.db",
		},
		Remote: RemoteConfig{
			TextProvider:     "google",
			TextEndpoint:     DefaultTextEndpoint,
			ImageEndpoint:    DefaultImageEndpoint,
			VideoEndpoint:    DefaultVideoEndpoint,
			DeepfakeEndpoint: DefaultDeepfakeEndpoint,
			OpenAIModel:      "gpt-4o-mini",
			OllamaURL:        "http://localhost:11434",
			OllamaModel:      "llama3",
		},
		Delays: DelayConfig{
			Text:     1500 * time.Millisecond,
			Image:    2 * time.Second,
			Video:    3 * time.Second,
			Deepfake: 2500 * time.Millisecond,
		},
		Fetch: FetchConfig{
			Enabled:  false,
			Timeout:  15 * time.Second,
			MaxBytes: 2 << 20,
		},
		RateLimits: RateLimitConfig{
			RequestsPerMinute: 120,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from a YAML file, then applies environment
// overrides. An empty path skips the file and starts from defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("config file not found: %s (run with --generate-config to create one)", path)
			}
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Interpolate environment variables
		content := interpolateEnvVars(string(data))

		if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides fields from the environment variables the server
// has always honored. Unset or empty variables leave the field untouched.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := getenv("USE_REAL_API"); v != "" {
		c.Remote.UseRealAPI = v == "true"
	}

	strs := []struct {
		name string
		dst  *string
	}{
		{"API_KEY", &c.Remote.APIKey},
		{"TEXT_PROVIDER", &c.Remote.TextProvider},
		{"TEXT_ANALYSIS_API", &c.Remote.TextEndpoint},
		{"IMAGE_ANALYSIS_API", &c.Remote.ImageEndpoint},
		{"VIDEO_ANALYSIS_API", &c.Remote.VideoEndpoint},
		{"DEEPFAKE_API", &c.Remote.DeepfakeEndpoint},
		{"OPENAI_API_KEY", &c.Remote.OpenAIAPIKey},
		{"OPENAI_MODEL", &c.Remote.OpenAIModel},
		{"OLLAMA_URL", &c.Remote.OllamaURL},
		{"OLLAMA_MODEL", &c.Remote.OllamaModel},
		{"DATABASE_DRIVER", &c.Database.Driver},
		{"DATABASE_PATH", &c.Database.Path},
		{"LOG_LEVEL", &c.Logging.Level},
		{"LOG_FORMAT", &c.Logging.Format},
	}
	for _, s := range strs {
		if v := getenv(s.name); v != "" {
			*s.dst = v
		}
	}
	return nil
}

// GenerateSample creates a sample configuration file.
func GenerateSample(path string) error {
	sample := `# TruthLens Configuration
# Environment variables (PORT, USE_REAL_API, API_KEY, TEXT_ANALYSIS_API,
# IMAGE_ANALYSIS_API, VIDEO_ANALYSIS_API, DEEPFAKE_API) override these values.

server:
  port: 5000
  max_upload_bytes: 10485760
  cors_origins: ["*"]

database:
  driver: memory  # memory or sqlite
  path: ./data/truthlens.db

remote:
  use_real_api: false
  text_provider: google  # google, openai or ollama
  api_key: ${API_KEY}
  text_endpoint: https://language.googleapis.com/v1/documents:analyzeSentiment
  image_endpoint: https://vision.googleapis.com/v1/images:annotate
  video_endpoint: https://videointelligence.googleapis.com/v1/videos:annotate
  deepfake_endpoint: https://vision.googleapis.com/v1/images:annotate

  # For OpenAI sentiment:
  # text_provider: openai
  # openai_api_key: ${OPENAI_API_KEY}
  # openai_model: gpt-4o-mini

  # For a local Ollama model:
  # text_provider: ollama
  # ollama_url: http://localhost:11434
  # ollama_model: llama3

delays:
  text: 1.5s
  image: 2s
  video: 3s
  deepfake: 2.5s

fetch:
  enabled: false  # fetch page text for URL-only submissions
  timeout: 15s
  max_bytes: 2097152

rate_limits:
  requests_per_minute: 120

logging:
  level: info  # debug, info, warn, error
  format: json # json or text
`
	return os.WriteFile(path, []byte(sample), 0644)
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("invalid max upload size: %d", c.Server.MaxUploadBytes)
	}

	if c.Database.Driver != "memory" && c.Database.Driver != "sqlite" {
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	if c.Database.Driver == "sqlite" && c.Database.Path == "" {
		return fmt.Errorf("database path is required for sqlite")
	}

	switch c.Remote.TextProvider {
	case "google":
	case "openai":
		if c.Remote.UseRealAPI && c.Remote.OpenAIAPIKey == "" {
			return fmt.Errorf("OpenAI API key is required")
		}
	case "ollama":
		if c.Remote.OllamaURL == "" {
			return fmt.Errorf("ollama_url is required for the ollama text provider")
		}
	default:
		return fmt.Errorf("unsupported text provider: %s", c.Remote.TextProvider)
	}

	endpoints := map[string]string{
		"text_endpoint":     c.Remote.TextEndpoint,
		"image_endpoint":    c.Remote.ImageEndpoint,
		"video_endpoint":    c.Remote.VideoEndpoint,
		"deepfake_endpoint": c.Remote.DeepfakeEndpoint,
	}
	for name, raw := range endpoints {
		if raw == "" {
			continue
		}
		u, err := url.ParseRequestURI(raw)
		if err != nil || u.Host == "" {
			return fmt.Errorf("invalid %s: %q", name, raw)
		}
	}

	if c.Delays.Text < 0 || c.Delays.Image < 0 || c.Delays.Video < 0 || c.Delays.Deepfake < 0 {
		return fmt.Errorf("delays must not be negative")
	}

	if c.RateLimits.RequestsPerMinute < 0 {
		return fmt.Errorf("invalid requests per minute: %d", c.RateLimits.RequestsPerMinute)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("unsupported log level: %s", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("unsupported log format: %s", c.Logging.Format)
	}

	return nil
}

// interpolateEnvVars replaces ${VAR_NAME} with environment variable values.
func interpolateEnvVars(content string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(content, func(match string) string {
		varName := strings.TrimPrefix(strings.TrimSuffix(match, "}"), "${")
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match // Keep original if not set
	})
}
