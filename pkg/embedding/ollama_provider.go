package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"navi-be/pkg/inference"
)

// OllamaProvider implements Provider against a local Ollama server
// (e.g. nomic-embed-text).
type OllamaProvider struct {
	BaseURL string
	Model   string
	Client  *http.Client
}

var _ Provider = &OllamaProvider{}

func NewOllamaProvider(baseURL, model string) *OllamaProvider {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "nomic-embed-text"
	}
	return &OllamaProvider{
		BaseURL: baseURL,
		Model:   model,
		Client: &http.Client{
			// First call can be slow while the model loads
			Timeout: 120 * time.Second,
		},
	}
}

type embeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// The flat shape is what Ollama returns; the nested shape covers
// Gemini-style gateways that wrap the vector in an object.
type embeddingResponse struct {
	Embedding json.RawMessage `json:"embedding"`
}

type nestedEmbedding struct {
	Values []float64 `json:"values"`
}

func (p *OllamaProvider) Generate(ctx context.Context, text string) ([]float32, error) {
	endpoint := p.BaseURL + "/api/embeddings"

	payload, err := json.Marshal(embeddingRequest{Model: p.Model, Prompt: text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &inference.ConnectivityError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &inference.ConnectivityError{Endpoint: endpoint, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &inference.ConnectivityError{Endpoint: endpoint, Status: resp.StatusCode}
	}

	var decoded embeddingResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &inference.MalformedResponseError{Endpoint: endpoint, Reason: "body is not valid JSON"}
	}
	if len(decoded.Embedding) == 0 {
		return nil, &inference.MalformedResponseError{Endpoint: endpoint, Reason: "missing embedding field"}
	}

	values, err := parseVector(decoded.Embedding)
	if err != nil {
		return nil, &inference.MalformedResponseError{Endpoint: endpoint, Reason: err.Error()}
	}
	if len(values) == 0 {
		return nil, &inference.MalformedResponseError{Endpoint: endpoint, Reason: "embedding is empty"}
	}

	// pgvector columns and the ranker both work in float32
	vec := make([]float32, len(values))
	for i, v := range values {
		vec[i] = float32(v)
	}
	return vec, nil
}

var errNotNumericList = errors.New("embedding field is not a numeric list")

func parseVector(raw json.RawMessage) ([]float64, error) {
	var flat []float64
	if err := json.Unmarshal(raw, &flat); err == nil {
		return flat, nil
	}

	var nested nestedEmbedding
	if err := json.Unmarshal(raw, &nested); err == nil && nested.Values != nil {
		return nested.Values, nil
	}

	return nil, errNotNumericList
}
