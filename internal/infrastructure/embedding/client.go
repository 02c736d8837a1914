package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"StockAssistant/internal/config"
	"StockAssistant/internal/ports"
)

// Client implements ports.Embedder against an Ollama-style embeddings
// endpoint. The returned dimension must match the vector store's.
type Client struct {
	url        string
	model      string
	dimension  int
	httpClient *http.Client
}

var _ ports.Embedder = (*Client)(nil)

// NewClient builds an embedder from configuration.
func NewClient(cfg config.EmbeddingConfig) *Client {
	return &Client{
		url:       cfg.URL,
		model:     cfg.Model,
		dimension: cfg.Dimension,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Embed encodes the text into a fixed-dimension vector.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Model: c.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("marshal embed payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call embedder: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("embedder error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode embedder response: %w", err)
	}

	if c.dimension > 0 && len(parsed.Embedding) != c.dimension {
		return nil, fmt.Errorf("expected embedding dimension %d, got %d", c.dimension, len(parsed.Embedding))
	}

	return parsed.Embedding, nil
}
