package schema

import (
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
)

// ProfileDraft is the shape the analyze model is asked to return. It is only
// used to describe the expected output; replies are still normalized from an
// untyped map since models do not always honor the schema.
type ProfileDraft struct {
	Gender        string   `json:"gender" jsonschema:"enum=male,enum=female,enum=child,enum=unspecified" jsonschema_description:"Apparent gender or age group of the character"`
	Emotion       string   `json:"emotion" jsonschema:"enum=serious,enum=calm,enum=excited,enum=mysterious,enum=sad,enum=sinister,enum=happy,enum=tragic,enum=neutral" jsonschema_description:"Dominant emotional register"`
	Language      string   `json:"language" jsonschema:"enum=english,enum=spanish,enum=ukrainian,enum=german" jsonschema_description:"Language the character speaks"`
	Accent        string   `json:"accent" jsonschema:"enum=british,enum=american,enum=spanish,enum=ukrainian,enum=none" jsonschema_description:"Accent of the character's speech, none if unclear"`
	VisualSummary string   `json:"visual_summary" jsonschema_description:"Appearance in at most 25 words, suitable for an image generator"`
	StyleTags     []string `json:"style_tags" jsonschema_description:"Up to three short visual style tags"`
	VoiceStyle    string   `json:"voice_style" jsonschema_description:"Short phrase describing how the voice sounds"`
	MusicMood     string   `json:"music_mood" jsonschema:"enum=dark orchestral,enum=mystical ambient,enum=heroic epic,enum=melancholic piano,enum=adventurous soundtrack,enum=electronic futuristic,enum=calm acoustic,enum=default" jsonschema_description:"Soundtrack mood that fits the character"`
}

func generateSchema[T any]() any {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return r.Reflect(v)
}

var ProfileDraftSchema = generateSchema[ProfileDraft]()

func StructuredOutputsResponseFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	p := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "character_profile",
		Description: openai.String("Voice, visual and soundtrack traits of a fictional character"),
		Schema:      ProfileDraftSchema,
		Strict:      openai.Bool(true),
	}
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: p},
	}
}
