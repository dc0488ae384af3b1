package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("empty path gives defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "lmstudio", cfg.LLM.Provider)
		assert.Equal(t, "http://localhost:1234/v1", cfg.LLM.ServerURL)
		assert.Equal(t, 4096, cfg.LLM.MaxTokens)
		assert.Equal(t, 0.7, cfg.LLM.Temperature)
		assert.Equal(t, 120, cfg.LLM.TimeoutSeconds)
		assert.Equal(t, "info", cfg.Logging.Level)
	})

	t.Run("named missing file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("file overlays defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
llm:
  provider: ollama
  server_url: http://localhost:11434
  model: llama3
logging:
  level: debug
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "ollama", cfg.LLM.Provider)
		assert.Equal(t, "llama3", cfg.LLM.Model)
		assert.Equal(t, "debug", cfg.Logging.Level)
		// untouched defaults survive
		assert.Equal(t, 4096, cfg.LLM.MaxTokens)
	})

	t.Run("invalid yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("llm: ["), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestApplyEnv(t *testing.T) {
	t.Run("env variables override config", func(t *testing.T) {
		t.Setenv("LLM_PROVIDER", "ollama")
		t.Setenv("LLM_SERVER_URL", "http://example:9999")
		t.Setenv("LLM_MODEL", "mistral")
		t.Setenv("LLM_MAX_TOKENS", "2048")
		t.Setenv("LLM_TEMPERATURE", "0.2")

		cfg := Default()
		cfg.ApplyEnv()

		assert.Equal(t, "ollama", cfg.LLM.Provider)
		assert.Equal(t, "http://example:9999", cfg.LLM.ServerURL)
		assert.Equal(t, "mistral", cfg.LLM.Model)
		assert.Equal(t, 2048, cfg.LLM.MaxTokens)
		assert.Equal(t, 0.2, cfg.LLM.Temperature)
	})

	t.Run("invalid numeric values are ignored", func(t *testing.T) {
		t.Setenv("LLM_MAX_TOKENS", "lots")
		t.Setenv("LLM_TEMPERATURE", "hot")

		cfg := Default()
		cfg.ApplyEnv()

		assert.Equal(t, 4096, cfg.LLM.MaxTokens)
		assert.Equal(t, 0.7, cfg.LLM.Temperature)
	})
}
