package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxUploadBytes)
	assert.False(t, cfg.Remote.UseRealAPI)
	assert.Equal(t, 1500*time.Millisecond, cfg.Delays.Text)
	assert.Equal(t, 2500*time.Millisecond, cfg.Delays.Deepfake)
}

func TestApplyEnv(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.ApplyEnv(envMap(map[string]string{
		"PORT":              "8081",
		"USE_REAL_API":      "true",
		"API_KEY":           "k",
		"TEXT_ANALYSIS_API": "http://localhost:9000/sentiment",
	}))
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.True(t, cfg.Remote.UseRealAPI)
	assert.Equal(t, "k", cfg.Remote.APIKey)
	assert.Equal(t, "http://localhost:9000/sentiment", cfg.Remote.TextEndpoint)
	assert.Equal(t, DefaultImageEndpoint, cfg.Remote.ImageEndpoint)
}

func TestApplyEnvProviders(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv(envMap(map[string]string{
		"TEXT_PROVIDER": "ollama",
		"OLLAMA_URL":    "http://gpu-box:11434",
		"OLLAMA_MODEL":  "mistral",
		"LOG_LEVEL":     "debug",
	})))
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "ollama", cfg.Remote.TextProvider)
	assert.Equal(t, "http://gpu-box:11434", cfg.Remote.OllamaURL)
	assert.Equal(t, "mistral", cfg.Remote.OllamaModel)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestApplyEnvUseRealAPIOnlyTrue(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Remote.UseRealAPI = true
	require.NoError(t, cfg.ApplyEnv(envMap(map[string]string{"USE_REAL_API": "yes"})))
	assert.False(t, cfg.Remote.UseRealAPI)
}

func TestApplyEnvBadPort(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.ApplyEnv(envMap(map[string]string{"PORT": "abc"})))
}

func TestLoadFile(t *testing.T) {
	t.Setenv("TRUTHLENS_TEST_KEY", "secret")
	t.Setenv("PORT", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 7000
remote:
  use_real_api: true
  api_key: ${TRUTHLENS_TEST_KEY}
delays:
  text: 0s
  video: 250ms
logging:
  format: text
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "secret", cfg.Remote.APIKey)
	assert.True(t, cfg.Remote.UseRealAPI)
	assert.Equal(t, time.Duration(0), cfg.Delays.Text)
	assert.Equal(t, 250*time.Millisecond, cfg.Delays.Video)
	assert.Equal(t, 2*time.Second, cfg.Delays.Image)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--generate-config")
}

func TestGenerateSampleLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.yaml")
	require.NoError(t, GenerateSample(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, DefaultTextEndpoint, cfg.Remote.TextEndpoint)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"bad driver", func(c *Config) { c.Database.Driver = "postgres" }},
		{"sqlite without path", func(c *Config) { c.Database.Driver = "sqlite"; c.Database.Path = "" }},
		{"bad provider", func(c *Config) { c.Remote.TextProvider = "azure" }},
		{"openai without key", func(c *Config) { c.Remote.TextProvider = "openai"; c.Remote.UseRealAPI = true }},
		{"ollama without url", func(c *Config) { c.Remote.TextProvider = "ollama"; c.Remote.OllamaURL = "" }},
		{"relative endpoint", func(c *Config) { c.Remote.ImageEndpoint = "/annotate" }},
		{"negative delay", func(c *Config) { c.Delays.Video = -time.Second }},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }},
		{"no upload size", func(c *Config) { c.Server.MaxUploadBytes = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
