package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// LMStudio talks to a local LM Studio server through its
// OpenAI-compatible chat completions endpoint.
type LMStudio struct {
	serverURL   string
	model       string
	maxTokens   int
	temperature float64
	client      *http.Client
}

// NewLMStudio creates a client for the given server URL (e.g.
// "http://localhost:1234/v1"). Model may be empty to use whatever the
// server has loaded.
func NewLMStudio(serverURL, model string, maxTokens int, temperature float64, timeout time.Duration) *LMStudio {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &LMStudio{
		serverURL:   strings.TrimRight(serverURL, "/"),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		client:      &http.Client{Timeout: timeout},
	}
}

func (l *LMStudio) Generate(prompt string) (string, error) {
	body := map[string]interface{}{
		"messages": []map[string]string{
			{"role": "system", "content": systemMessage},
			{"role": "user", "content": prompt},
		},
		"max_tokens":  l.maxTokens,
		"temperature": l.temperature,
		"stream":      false,
	}
	if l.model != "" {
		body["model"] = l.model
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", l.serverURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("LM Studio request failed (is the server running at %s?): %w", l.serverURL, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("LM Studio API error (status %d): %s", resp.StatusCode, string(respBytes))
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBytes, &completion); err != nil {
		return "", err
	}
	if completion.Error.Message != "" {
		return "", fmt.Errorf("LM Studio API error: %s", completion.Error.Message)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("empty response from LM Studio")
	}
	return completion.Choices[0].Message.Content, nil
}

// Model returns the configured model name, if any.
func (l *LMStudio) Model() string { return l.model }
