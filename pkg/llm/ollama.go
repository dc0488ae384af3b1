package llm

import (
	"fmt"
	"net/url"

	ollama "github.com/JexSrs/go-ollama"
)

// Ollama adapts a local Ollama server to the Client interface, for
// setups that run models through Ollama instead of LM Studio.
type Ollama struct {
	client *ollama.Ollama
	model  string
}

// NewOllama creates a client for an Ollama server, e.g.
// "http://localhost:11434".
func NewOllama(host, model string) (*Ollama, error) {
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama server URL %q: %w", host, err)
	}
	if model == "" {
		return nil, fmt.Errorf("the ollama provider requires a model name")
	}
	return &Ollama{
		client: ollama.New(*u),
		model:  model,
	}, nil
}

func (o *Ollama) Generate(prompt string) (string, error) {
	res, err := o.client.Generate(
		o.client.Generate.WithModel(o.model),
		o.client.Generate.WithSystem(systemMessage),
		o.client.Generate.WithPrompt(prompt),
	)
	if err != nil {
		return "", fmt.Errorf("Ollama generate failed: %w", err)
	}

	if !res.Done {
		return "", fmt.Errorf("Ollama response not complete (unexpected streaming behavior)")
	}
	if res.Response == "" {
		return "", fmt.Errorf("empty response from Ollama")
	}
	return res.Response, nil
}

// Model returns the configured model name.
func (o *Ollama) Model() string { return o.model }
