package inference

import (
	"context"

	"github.com/openai/openai-go/v3"
)

// Inferencer is the text-analysis provider: it takes a system and user prompt
// and returns the model's raw text reply. params may be nil; implementations
// fill in their own model and sampling defaults.
type Inferencer interface {
	Infer(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string) (string, error)
}
