package compose

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/v3"

	"charforge/pkg/inference"
	"charforge/pkg/schema"
	"charforge/pkg/utils"
)

// Intent selects the framing of a generated image.
type Intent string

const (
	IntentPortrait Intent = "portrait"
	IntentFullBody Intent = "full_body"
	IntentScene    Intent = "scene"
)

// ParseIntent maps a request value to an Intent, defaulting to portrait.
func ParseIntent(s string) Intent {
	switch Intent(s) {
	case IntentFullBody, IntentScene:
		return Intent(s)
	default:
		return IntentPortrait
	}
}

func (i Intent) suffix() string {
	switch i {
	case IntentFullBody:
		return ", full-body"
	case IntentScene:
		return ", scenic"
	default:
		return ", portrait"
	}
}

func (i Intent) composition() string {
	switch i {
	case IntentFullBody:
		return "full-body shot, character standing, head to toe in frame"
	case IntentScene:
		return "wide scenic shot, character placed within an environment"
	default:
		return "head-and-shoulders portrait, centered, shallow depth of field"
	}
}

type ImageOptions struct {
	Intent string `json:"intent"`
}

// ImagePrompt is the text sent to the image provider.
type ImagePrompt struct {
	Prompt         string
	NegativePrompt string
	// Source names the strategy that produced the prompt.
	Source string
}

type imageHints struct {
	Gender        string   `json:"gender"`
	Emotion       string   `json:"emotion"`
	VisualSummary string   `json:"visual_summary"`
	StyleTags     []string `json:"style_tags"`
	Composition   string   `json:"composition"`
}

// BuildImagePrompt asks the model for an image prompt and falls back to
// FallbackImagePrompt when the call fails or its reply has no prompt. It
// always returns a usable prompt.
func BuildImagePrompt(ctx context.Context, inf inference.Inferencer, p schema.CharacterProfile, opts ImageOptions) ImagePrompt {
	intent := ParseIntent(opts.Intent)

	chain := Chain[ImagePrompt]{
		{Name: "model", Run: func(ctx context.Context) (ImagePrompt, bool, error) {
			return modelImagePrompt(ctx, inf, p, intent)
		}},
		Static("fallback", func() ImagePrompt {
			return ImagePrompt{
				Prompt:         FallbackImagePrompt(p, intent),
				NegativePrompt: DefaultNegativePrompt,
			}
		}),
	}

	// the static step cannot decline, so err is always nil here
	out, source, _ := chain.Run(ctx)
	out.Source = source
	return out
}

func modelImagePrompt(ctx context.Context, inf inference.Inferencer, p schema.CharacterProfile, intent Intent) (ImagePrompt, bool, error) {
	if inf == nil {
		return ImagePrompt{}, false, nil
	}

	hints, err := json.Marshal(imageHints{
		Gender:        p.Gender,
		Emotion:       p.Emotion,
		VisualSummary: p.VisualSummary,
		StyleTags:     p.StyleTags,
		Composition:   intent.composition(),
	})
	if err != nil {
		return ImagePrompt{}, false, fmt.Errorf("encode image hints: %w", err)
	}
	user := fmt.Sprintf("Character description:\n%s\n\nHints:\n%s", p.SourceText, hints)
	logPromptSize("image prompt", imagePromptSystem, user)

	reply, err := inf.Infer(ctx, &openai.ChatCompletionNewParams{
		MaxCompletionTokens: openai.Int(400),
		Temperature:         openai.Float(0.6),
	}, imagePromptSystem, user)
	if err != nil {
		return ImagePrompt{}, false, err
	}

	obj, _ := utils.ParseObject(reply)
	prompt, ok := utils.StringField(obj, "image_prompt")
	if !ok {
		prompt, ok = utils.StringField(obj, "prompt")
	}
	if !ok {
		return ImagePrompt{}, false, nil
	}

	negative, ok := utils.StringField(obj, "negative_prompt")
	if !ok {
		negative = DefaultNegativePrompt
	}
	return ImagePrompt{Prompt: prompt, NegativePrompt: negative}, true, nil
}

func logPromptSize(name, system, user string) {
	if log.GetLevel() > log.DebugLevel {
		return
	}
	n, err := utils.NumTokens(system + "\n" + user)
	if err != nil {
		log.Debug("could not estimate prompt size", "prompt", name, "error", err)
		return
	}
	log.Debug("prompt size", "prompt", name, "tokens", n)
}
