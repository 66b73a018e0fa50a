// Package sourcery is the Go client SDK for the Sourcery API. The composer
// overlay uses it to call the template-generation endpoint; any other
// integration can use it the same way.
package sourcery

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

// Config holds the configuration for the Sourcery client.
type Config struct {
	// BaseURL is the root URL of the Sourcery server.
	// Examples: "https://api.sourcery.io" or "https://api.sourcery.io/api/v1"
	// The "/api/v1" suffix is appended automatically if missing.
	BaseURL string

	// Token is the bearer credential sent with every request: the
	// extension's anon key, or a user access token.
	Token string

	// HTTPClient is an optional custom HTTP client.
	// If nil, a default client with 10s timeout is used.
	HTTPClient *http.Client
}

func (c *Config) defaults() {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	if !strings.HasSuffix(c.BaseURL, "/api/v1") {
		c.BaseURL = c.BaseURL + "/api/v1"
	}
}

// Client is the Sourcery SDK client.
type Client struct {
	cfg Config
}

// NewClient creates a new Sourcery client with the given configuration.
func NewClient(cfg Config) *Client {
	cfg.defaults()
	return &Client{cfg: cfg}
}

// GenerateTemplate asks the server to classify the prompt and resolve a
// template variant, avoiding the variant indices in exclude. An empty
// prompt is rejected by the server with a 400 before any resolution work.
func (c *Client) GenerateTemplate(ctx context.Context, prompt string, exclude []int) (*GeneratedTemplate, error) {
	body, err := c.post(ctx, "/templates/generate", GenerateRequest{
		Prompt:  prompt,
		Exclude: exclude,
	})
	if err != nil {
		return nil, err
	}

	var tpl GeneratedTemplate
	if err := json.Unmarshal(body, &tpl); err != nil {
		return nil, fmt.Errorf("sourcery: failed to parse template: %w", err)
	}
	return &tpl, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("sourcery: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("sourcery: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sourcery: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("sourcery: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, parseAPIError(resp.StatusCode, body)
	}
	return body, nil
}
