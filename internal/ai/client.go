// Package ai is a Gemini REST client for text completion and image
// identification. The key is passed explicitly; an unset key makes every
// call fail fast so callers can fall back.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = fmt.Errorf("gemini api key is not configured")

type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

// NewClient creates a Gemini client. baseURL points at the
// generativelanguage v1beta API; model is the default text model.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// Part is one content part of a generateContent request: plain text or
// base64-encoded inline data (images).
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

type InlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"` // base64
}

type generateContentReq struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []Part `json:"parts"`
}

type generateContentResp struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateContent calls models/<model>:generateContent with the given parts
// and returns the concatenated text of the first candidate.
func (c *Client) GenerateContent(ctx context.Context, model string, parts []Part) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}
	if model == "" {
		model = c.model
	}

	body := generateContentReq{Contents: []content{{Parts: parts}}}
	b, _ := json.Marshal(body)

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini http %d: %s", resp.StatusCode, string(raw))
	}

	var gr generateContentResp
	if err := json.Unmarshal(raw, &gr); err != nil {
		return "", fmt.Errorf("gemini decode error: %w", err)
	}
	if gr.Error != nil {
		return "", fmt.Errorf("gemini error %d: %s", gr.Error.Code, gr.Error.Message)
	}
	if len(gr.Candidates) == 0 {
		return "", fmt.Errorf("gemini: empty candidates")
	}
	var text string
	for _, p := range gr.Candidates[0].Content.Parts {
		text += p.Text
	}
	if text == "" {
		return "", fmt.Errorf("gemini: empty response text")
	}
	return text, nil
}

// Complete sends a single text prompt to the default model. Satisfies
// scheduling.Completer.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	return c.GenerateContent(ctx, c.model, []Part{{Text: prompt}})
}
