package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

const (
	defaultOpenAIModel   = "gpt-4o-mini"
	narrativeTemperature = 0.7
	narrativeMaxTokens   = 1500
	maxErrorBodyBytes    = 4 << 10
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Generator is the external text-generation service behind the narrative.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// OpenAIGenerator calls an OpenAI-compatible chat-completions endpoint in
// JSON mode. It never retries; the narrative service falls back instead.
type OpenAIGenerator struct {
	client   HTTPClient
	endpoint string
	apiKey   string
	model    string
}

func NewOpenAIGenerator(client HTTPClient, base, apiKey, model string) *OpenAIGenerator {
	if client == nil {
		client = http.DefaultClient
	}
	if strings.TrimSpace(model) == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIGenerator{
		client:   client,
		endpoint: normalizeOpenAIEndpoint(base),
		apiKey:   strings.TrimSpace(apiKey),
		model:    model,
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", NewConfigError("openai api key not configured")
	}
	payload := map[string]any{
		"model":       g.model,
		"temperature": narrativeTemperature,
		"max_tokens":  narrativeMaxTokens,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": prompt},
		},
		"response_format": map[string]string{"type": "json_object"},
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(pb))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	resp, err := g.client.Do(req)
	if err != nil {
		return "", NewBadGatewayError(err.Error())
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return "", NewBadGatewayError(string(b))
	}
	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&cc); err != nil {
		return "", NewBadGatewayError(err.Error())
	}
	if len(cc.Choices) == 0 {
		return "", NewBadGatewayError("no choices")
	}
	return cc.Choices[0].Message.Content, nil
}

func normalizeOpenAIEndpoint(base string) string {
	endpoint := strings.TrimRight(strings.TrimSpace(base), "/")
	if endpoint == "" {
		endpoint = "https://api.openai.com"
	}
	switch {
	case strings.HasSuffix(endpoint, "/chat/completions"):
		return endpoint
	case strings.HasSuffix(endpoint, "/v1"):
		return endpoint + "/chat/completions"
	default:
		return endpoint + "/v1/chat/completions"
	}
}
