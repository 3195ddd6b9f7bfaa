package schema

import "slices"

const SchemaVersion = 1

const maxStyleTags = 3

const (
	DefaultGender     = "unspecified"
	DefaultEmotion    = "neutral"
	DefaultLanguage   = "english"
	DefaultAccent     = "none"
	DefaultMusicMood  = "default"
	DefaultVoiceStyle = "natural and clear"
)

var (
	Genders    = []string{"male", "female", "child", DefaultGender}
	Emotions   = []string{"serious", "calm", "excited", "mysterious", "sad", "sinister", "happy", "tragic", DefaultEmotion}
	Languages  = []string{DefaultLanguage, "spanish", "ukrainian", "german"}
	Accents    = []string{"british", "american", "spanish", "ukrainian", DefaultAccent}
	MusicMoods = []string{
		"dark orchestral",
		"mystical ambient",
		"heroic epic",
		"melancholic piano",
		"adventurous soundtrack",
		"electronic futuristic",
		"calm acoustic",
		DefaultMusicMood,
	}
)

// CharacterProfile is the normalized trait record shared by every generation step.
type CharacterProfile struct {
	SchemaVersion int      `json:"schema_version"`
	SourceText    string   `json:"source_text"`
	Gender        string   `json:"gender"`
	Emotion       string   `json:"emotion"`
	Language      string   `json:"language"`
	Accent        string   `json:"accent"`
	VisualSummary string   `json:"visual_summary"`
	StyleTags     []string `json:"style_tags"`
	VoiceStyle    string   `json:"voice_style"`
	MusicMood     string   `json:"music_mood"`
}

// Normalize coerces untrusted model output into a CharacterProfile. Enum fields
// outside their allowed set fall back to the field default and style_tags is
// capped at three entries. sourceText always comes from the caller.
func Normalize(raw map[string]any, sourceText string) CharacterProfile {
	return CharacterProfile{
		SchemaVersion: SchemaVersion,
		SourceText:    sourceText,
		Gender:        pick(raw["gender"], Genders, DefaultGender),
		Emotion:       pick(raw["emotion"], Emotions, DefaultEmotion),
		Language:      pick(raw["language"], Languages, DefaultLanguage),
		Accent:        pick(raw["accent"], Accents, DefaultAccent),
		VisualSummary: str(raw["visual_summary"], ""),
		StyleTags:     tags(raw["style_tags"]),
		VoiceStyle:    str(raw["voice_style"], DefaultVoiceStyle),
		MusicMood:     pick(raw["music_mood"], MusicMoods, DefaultMusicMood),
	}
}

// IsMusicMood reports whether mood is one of the supported soundtrack moods.
func IsMusicMood(mood string) bool {
	return slices.Contains(MusicMoods, mood)
}

func pick(v any, allowed []string, def string) string {
	s, ok := v.(string)
	if !ok || !slices.Contains(allowed, s) {
		return def
	}
	return s
}

func str(v any, def string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return def
}

func tags(v any) []string {
	out := make([]string, 0, maxStyleTags)
	switch list := v.(type) {
	case []any:
		for _, t := range list {
			if len(out) == maxStyleTags {
				break
			}
			if s, ok := t.(string); ok {
				out = append(out, s)
			}
		}
	case []string:
		out = append(out, list[:min(len(list), maxStyleTags)]...)
	}
	return out
}
