package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the local model server that hosts the pretrained
// classifier, summarizer, and instruction models.
type Client struct {
	BaseURL         string
	ClassifierModel string
	SummarizerModel string
	GeneratorModel  string
	client          *http.Client
}

// NewClient creates a model-server client.
func NewClient(baseURL, classifierModel, summarizerModel, generatorModel string) *Client {
	return &Client{
		BaseURL:         strings.TrimRight(baseURL, "/"),
		ClassifierModel: classifierModel,
		SummarizerModel: summarizerModel,
		GeneratorModel:  generatorModel,
		client:          &http.Client{Timeout: 120 * time.Second},
	}
}

// IsConfigured checks whether the model server is reachable.
func (c *Client) IsConfigured() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"/v1/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Classify returns per-class sentiment probabilities for a text.
func (c *Client) Classify(ctx context.Context, text string) (Scores, error) {
	body := map[string]any{
		"model": c.ClassifierModel,
		"text":  text,
	}

	var result struct {
		Scores struct {
			Positive float64 `json:"positive"`
			Negative float64 `json:"negative"`
			Neutral  float64 `json:"neutral"`
		} `json:"scores"`
	}
	if err := c.post(ctx, "/v1/sentiment", body, &result); err != nil {
		return Scores{}, err
	}

	return Scores{
		Positive: result.Scores.Positive,
		Negative: result.Scores.Negative,
		Neutral:  result.Scores.Neutral,
	}, nil
}

// Summarize joins the input texts and returns one abstractive summary,
// bounded by maxLength/minLength tokens. Oversized input is truncated
// server-side.
func (c *Client) Summarize(ctx context.Context, texts []string, maxLength, minLength int) (string, error) {
	if len(texts) == 0 {
		return "", fmt.Errorf("summarize: no input texts")
	}

	body := map[string]any{
		"model":      c.SummarizerModel,
		"text":       strings.Join(texts, "\n\n"),
		"max_length": maxLength,
		"min_length": minLength,
		"truncation": true,
	}

	var result struct {
		Summary string `json:"summary"`
	}
	if err := c.post(ctx, "/v1/summarize", body, &result); err != nil {
		return "", err
	}
	return result.Summary, nil
}

// Generate sends one instruction prompt to the text model.
func (c *Client) Generate(ctx context.Context, prompt string, maxLength int) (string, error) {
	body := map[string]any{
		"model":      c.GeneratorModel,
		"prompt":     prompt,
		"max_length": maxLength,
		"truncation": true,
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := c.post(ctx, "/v1/generate", body, &result); err != nil {
		return "", err
	}
	return result.Text, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("model server error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("model server returned %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
