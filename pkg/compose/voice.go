package compose

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go/v3"

	"charforge/pkg/inference"
	"charforge/pkg/schema"
	"charforge/pkg/utils"
)

// VoiceDraft is the model's take on how a character should sound.
type VoiceDraft struct {
	Description string
	Language    string
	SampleText  string
}

// DraftVoiceDescription asks the model for a voice-design description. A
// reply without a description is returned as-is with an empty Description;
// only a failed model call is an error. Falling back is the caller's job.
func DraftVoiceDescription(ctx context.Context, inf inference.Inferencer, p schema.CharacterProfile) (VoiceDraft, error) {
	if inf == nil {
		return VoiceDraft{}, fmt.Errorf("no text-analysis provider configured")
	}

	profile, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return VoiceDraft{}, fmt.Errorf("encode profile: %w", err)
	}
	user := fmt.Sprintf(voiceDescriptionUser, profile)
	logPromptSize("voice description", voiceDescriptionSystem, user)

	reply, err := inf.Infer(ctx, &openai.ChatCompletionNewParams{
		MaxCompletionTokens: openai.Int(600),
		Temperature:         openai.Float(0.5),
	}, voiceDescriptionSystem, user)
	if err != nil {
		return VoiceDraft{}, fmt.Errorf("voice description inference: %w", err)
	}

	obj, _ := utils.ParseObject(reply)
	draft := VoiceDraft{Language: p.Language}
	draft.Description, _ = obj["voice_description"].(string)
	if lang, ok := utils.StringField(obj, "language"); ok {
		draft.Language = lang
	}
	draft.SampleText, _ = obj["sample_text"].(string)
	return draft, nil
}
