package inference

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"
)

type GeminiInferencer struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiInferencer creates an inferencer backed by the Gemini API. An empty
// baseURL keeps the SDK default endpoint.
func NewGeminiInferencer(ctx context.Context, apiKey, model, baseURL string) (*GeminiInferencer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiInferencer{
		client: client,
		model:  cmp.Or(model, "gemini-2.5-flash"),
	}, nil
}

// SetTimeout bounds every generation request; zero leaves no extra deadline.
func (g *GeminiInferencer) SetTimeout(d time.Duration) {
	g.timeout = d
}

func (g *GeminiInferencer) Name() string {
	return "gemini"
}

// Infer maps the chat-completion params onto a Gemini generation request.
// Only the model, token limit and temperature are honored.
func (g *GeminiInferencer) Infer(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string) (string, error) {
	if params == nil {
		params = new(openai.ChatCompletionNewParams)
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		MaxOutputTokens:   int32(cmp.Or(params.MaxCompletionTokens.Value, 1024)),
		Temperature:       genai.Ptr(float32(cmp.Or(params.Temperature.Value, 0.3))),
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	result, err := g.client.Models.GenerateContent(
		ctx,
		cmp.Or(params.Model, g.model),
		genai.Text(user),
		config,
	)
	if err != nil {
		return "", fmt.Errorf("gemini inference error: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", errors.New("empty completion content")
	}
	return text, nil
}
