package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LLMConfig defines how to reach the local inference server.
type LLMConfig struct {
	Provider       string  `yaml:"provider"`
	ServerURL      string  `yaml:"server_url"`
	Model          string  `yaml:"model"`
	MaxTokens      int     `yaml:"max_tokens"`
	Temperature    float64 `yaml:"temperature"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

// OutputConfig defines optional on-disk outputs.
type OutputConfig struct {
	Dir       string `yaml:"dir"`
	LLMLogDir string `yaml:"llm_log_dir"`
}

// LoggingConfig defines the diagnostic logging setup.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the top-level configuration struct.
type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// Default returns the built-in configuration, matching a stock local
// LM Studio install.
func Default() Config {
	return Config{
		LLM: LLMConfig{
			Provider:       "lmstudio",
			ServerURL:      "http://localhost:1234/v1",
			MaxTokens:      4096,
			Temperature:    0.7,
			TimeoutSeconds: 120,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML config file over the defaults. A missing file is
// not an error when path is empty; a named file must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("could not read config file at %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("could not parse config file at %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays LLM_* environment variables on the configuration.
// Invalid numeric values are ignored rather than fatal.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("LLM_SERVER_URL"); v != "" {
		c.LLM.ServerURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("LLM_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.LLM.MaxTokens = n
		}
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.LLM.Temperature = f
		}
	}
}
