// Package huggingface calls text-to-image models on Hugging Face inference.
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"charforge/pkg/provider"
)

const (
	defaultBaseURL = "https://router.huggingface.co/hf-inference/models"
	defaultModel   = "stabilityai/stable-diffusion-xl-base-1.0"
)

// Option configures a Client.
type Option func(*Client)

// WithModel sets the model repository id.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL overrides the inference endpoint root.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("huggingface: %w", provider.ErrMissingAPIKey)
	}
	c := &Client{
		apiKey:     apiKey,
		model:      defaultModel,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

type textToImageRequest struct {
	Inputs     string     `json:"inputs"`
	Parameters parameters `json:"parameters,omitzero"`
}

type parameters struct {
	NegativePrompt string `json:"negative_prompt,omitempty"`
}

// TextToImage submits prompt and returns the raw reply. The body is either
// image bytes or a JSON status envelope; interpreting it is left to the caller.
func (c *Client) TextToImage(ctx context.Context, prompt, negativePrompt string) (*provider.Response, error) {
	body, err := json.Marshal(textToImageRequest{
		Inputs:     prompt,
		Parameters: parameters{NegativePrompt: negativePrompt},
	})
	if err != nil {
		return nil, fmt.Errorf("huggingface: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+c.model, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("huggingface: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "image/png")

	resp, err := provider.Do(ctx, c.httpClient, req)
	if err != nil {
		return nil, fmt.Errorf("huggingface: %w", err)
	}
	return resp, nil
}
