// Package elevenlabs provides the ElevenLabs voice-design and music clients.
// Both return the raw provider reply; callers decide how to read it.
package elevenlabs

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
	defaultBaseURL    = "https://api.elevenlabs.io"
	designPath        = "/v1/text-to-voice/design"
	musicPath         = "/v1/music"
	defaultVoiceModel = "eleven_multilingual_ttv_v2"
	defaultMusicModel = "music_v1"
	musicOutputFormat = "mp3_44100_128"
)

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithVoiceModel sets the text-to-voice model id.
func WithVoiceModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.voiceModel = model
		}
	}
}

// WithBaseURL overrides the API root, mainly for tests.
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
	baseURL    string
	voiceModel string
	httpClient *http.Client
}

// New creates a Client. apiKey must be non-empty.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("elevenlabs: %w", provider.ErrMissingAPIKey)
	}
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		voiceModel: defaultVoiceModel,
		httpClient: &http.Client{},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

type designRequest struct {
	VoiceDescription string `json:"voice_description"`
	Text             string `json:"text"`
	ModelID          string `json:"model_id"`
}

// Preview is one candidate voice returned by the design endpoint.
type Preview struct {
	AudioBase64      string  `json:"audio_base_64"`
	GeneratedVoiceID string  `json:"generated_voice_id"`
	MediaType        string  `json:"media_type"`
	DurationSecs     float64 `json:"duration_secs"`
	Language         string  `json:"language"`
}

// Design is the decoded body of a successful design call.
type Design struct {
	Previews []Preview `json:"previews"`
	Text     string    `json:"text"`
}

// DesignVoice asks for candidate voices matching description, each speaking text.
func (c *Client) DesignVoice(ctx context.Context, description, text string) (*provider.Response, error) {
	return c.post(ctx, designPath, designRequest{
		VoiceDescription: description,
		Text:             text,
		ModelID:          c.voiceModel,
	})
}

// DecodeDesign reads the previews out of a design reply body.
func DecodeDesign(body []byte) (*Design, error) {
	var d Design
	if err := json.Unmarshal(body, &d); err != nil {
		return nil, fmt.Errorf("elevenlabs: decode design: %w", err)
	}
	return &d, nil
}

type musicRequest struct {
	Prompt        string `json:"prompt"`
	MusicLengthMS int    `json:"music_length_ms"`
	ModelID       string `json:"model_id"`
}

// ComposeMusic generates a track for prompt lasting lengthMS milliseconds.
func (c *Client) ComposeMusic(ctx context.Context, prompt string, lengthMS int) (*provider.Response, error) {
	return c.post(ctx, musicPath+"?output_format="+musicOutputFormat, musicRequest{
		Prompt:        prompt,
		MusicLengthMS: lengthMS,
		ModelID:       defaultMusicModel,
	})
}

func (c *Client) post(ctx context.Context, path string, payload any) (*provider.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: build request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := provider.Do(ctx, c.httpClient, req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: %w", err)
	}
	return resp, nil
}
