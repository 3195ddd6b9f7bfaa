package inference

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
)

const (
	grokBaseURL     = "https://api.x.ai/v1"
	moonshotBaseURL = "https://api.moonshot.ai/v1"
)

// OpenAIInferencer implements Inferencer using OpenAI's official Go SDK. It
// also serves OpenAI-compatible endpoints through a different base URL.
type OpenAIInferencer struct {
	client  *openai.Client
	apiKey  string
	model   string
	name    string
	timeout time.Duration
}

// NewOpenAIInferencer creates a new inferencer instance using OpenAI client.
func NewOpenAIInferencer(apiKey string, model string) *OpenAIInferencer {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIInferencer{
		client: &client,
		apiKey: apiKey,
		model:  cmp.Or(model, "gpt-4o-mini"),
		name:   "openai",
	}
}

// NewGrokInferencer targets xAI's OpenAI-compatible API.
func NewGrokInferencer(apiKey string, model string) *OpenAIInferencer {
	o := NewOpenAIInferencer(apiKey, cmp.Or(model, "grok-4-fast-non-reasoning"))
	o.ChangeBaseURL(grokBaseURL)
	o.name = "grok"
	return o
}

// NewMoonshotInferencer targets Moonshot AI's OpenAI-compatible API.
func NewMoonshotInferencer(apiKey string, model string) *OpenAIInferencer {
	o := NewOpenAIInferencer(apiKey, cmp.Or(model, "kimi-k2-5"))
	o.ChangeBaseURL(moonshotBaseURL)
	o.name = "moonshot"
	return o
}

func (o *OpenAIInferencer) ChangeBaseURL(baseURL string) {
	client := openai.NewClient(
		option.WithAPIKey(o.apiKey),
		option.WithBaseURL(baseURL),
	)
	o.client = &client
}

func (o *OpenAIInferencer) SetModel(model string) {
	o.model = model
}

// SetTimeout bounds every completion request; zero leaves the SDK default.
func (o *OpenAIInferencer) SetTimeout(d time.Duration) {
	o.timeout = d
}

func (o *OpenAIInferencer) Name() string {
	return o.name
}

// Infer sends text to the chat completion endpoint and returns the output.
func (o *OpenAIInferencer) Infer(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string) (string, error) {
	var p openai.ChatCompletionNewParams
	if params != nil {
		p = *params
	}
	p.Model = cmp.Or(p.Model, o.model)
	p.Messages = []openai.ChatCompletionMessageParamUnion{
		{
			OfSystem: &openai.ChatCompletionSystemMessageParam{
				Role: "system",
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: param.Opt[string]{Value: system},
				},
			}},
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Role: "user",
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfString: param.Opt[string]{Value: user},
				},
			},
		},
	}

	p.MaxCompletionTokens = openai.Int(cmp.Or(p.MaxCompletionTokens.Value, 1024))
	p.Temperature = openai.Float(cmp.Or(p.Temperature.Value, 0.3))
	p.TopP = openai.Float(cmp.Or(p.TopP.Value, 1.0))

	var opts []option.RequestOption
	if o.timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(o.timeout))
	}

	resp, err := o.client.Chat.Completions.New(ctx, p, opts...)
	if err != nil {
		return "", fmt.Errorf("%s inference error: %w", o.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices returned")
	}
	if resp.Choices[0].Message.Content == "" {
		return "", errors.New("empty completion content")
	}

	return resp.Choices[0].Message.Content, nil
}
