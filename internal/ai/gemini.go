// Package ai wraps the external generative-text service behind the narrow
// contract the quote form needs: text in, one descriptive sentence out,
// fallible. Failures never corrupt form state; callers surface them as a
// single alert and keep the prior description.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	model          = "gemini-2.5-flash"

	// Generation parameters are fixed constants, not user-configurable.
	temperature     = 0.7
	maxOutputTokens = 100
)

// ErrNotConfigured is returned when no API key is present; the rest of the
// app is unaffected.
var ErrNotConfigured = errors.New("ai: API key is not configured")

// Client calls the generative-text service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Option overrides client defaults.
type Option func(*Client)

// WithBaseURL points the client at a different endpoint (used in tests).
func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") } }

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.httpClient = h } }

// NewClient builds a client. An empty apiKey yields a client whose calls
// fail with ErrNotConfigured.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{httpClient: http.DefaultClient, baseURL: defaultBaseURL, apiKey: apiKey}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c.apiKey != "" }

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// GenerateDescription produces one concise, professional line-item
// description from a short free-text prompt. Wrapping quote characters are
// stripped from the model output.
func (c *Client) GenerateDescription(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	instruction := fmt.Sprintf(
		"Based on the user input %q, generate a concise, professional, and commercially appealing "+
			"product or service description suitable for a formal quotation. The description should be "+
			"a single, complete sentence. Do not add any introductory phrases like \"Here is the description:\".",
		prompt)
	body, err := json.Marshal(generateRequest{
		Contents:         []content{{Parts: []part{{Text: instruction}}}},
		GenerationConfig: generationConfig{Temperature: temperature, MaxOutputTokens: maxOutputTokens},
	})
	if err != nil {
		return "", fmt.Errorf("ai: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ai: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai: call generative service: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ai: generative service returned status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("ai: decode response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("ai: empty response from generative service")
	}

	text := strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text)
	text = strings.TrimPrefix(text, `"`)
	text = strings.TrimSuffix(text, `"`)
	return text, nil
}
