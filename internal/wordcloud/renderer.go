package wordcloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Renderer turns a word-frequency table into a PNG image.
type Renderer interface {
	Render(ctx context.Context, freqs map[string]int, colormap string) ([]byte, error)
}

// HTTPRenderer renders clouds through the model server's wordcloud endpoint.
type HTTPRenderer struct {
	BaseURL string
	client  *http.Client
}

// NewHTTPRenderer creates a renderer against the given base URL.
func NewHTTPRenderer(baseURL string) *HTTPRenderer {
	return &HTTPRenderer{
		BaseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type renderRequest struct {
	Frequencies map[string]int `json:"frequencies"`
	Colormap    string         `json:"colormap"`
}

// Render posts the frequency table and returns the PNG bytes.
func (r *HTTPRenderer) Render(ctx context.Context, freqs map[string]int, colormap string) ([]byte, error) {
	if len(freqs) == 0 {
		return nil, fmt.Errorf("empty frequency table")
	}
	body, err := json.Marshal(renderRequest{Frequencies: freqs, Colormap: colormap})
	if err != nil {
		return nil, fmt.Errorf("marshaling render request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.BaseURL+"/v1/wordcloud", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating render request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rendering word cloud: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("render request failed with status %d: %s", resp.StatusCode, string(detail))
	}
	png, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading render response: %w", err)
	}
	if len(png) == 0 {
		return nil, fmt.Errorf("renderer returned an empty image")
	}
	return png, nil
}
