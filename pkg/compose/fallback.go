package compose

import (
	"strings"
	"unicode"

	"charforge/pkg/schema"
	"charforge/pkg/utils"
)

const (
	DefaultNegativePrompt = "blurry, distorted, deformed, extra limbs, low resolution"
	VoiceQualitySuffix    = "Studio-quality recording, natural pacing, clear articulation."

	genericSubject = "a character"
)

// VoiceTraits is the reduced trait set the deterministic voice builder reads.
type VoiceTraits struct {
	Gender   string
	Tone     string
	Mood     string
	Emotion  string
	Accent   string
	Language string
}

var (
	genderClauses = map[string]string{
		"male":   "A mature male voice",
		"female": "A mature female voice",
		"child":  "A young child's voice",
	}
	toneClauses = map[string]string{
		"deep":  " with deep, resonant timbre",
		"soft":  " with soft, gentle timbre",
		"sharp": " with sharp, crisp timbre",
	}
	moodClauses = map[string]string{
		"serious":    ", serious and professional",
		"calm":       ", calm and composed",
		"excited":    ", excited and energetic",
		"mysterious": ", mysterious and intriguing",
		"sad":        ", melancholic and somber",
		"sinister":   ", dark and ominous",
		"happy":      ", cheerful and upbeat",
	}
	emotionClauses = map[string]string{
		"tragic":    " with tragic undertones",
		"emotional": " with strong emotional depth",
		"playful":   " with playful whimsy",
	}
	accentClauses = map[string]string{
		"british":   ", British accent",
		"american":  ", American accent",
		"spanish":   ", Spanish accent",
		"ukrainian": ", Ukrainian accent",
	}
)

// BuildVoiceDescription renders traits into a voice-design sentence using exact
// lookups. Unknown or empty traits select the neutral clause or none at all.
func BuildVoiceDescription(t VoiceTraits) string {
	var b strings.Builder

	if g, ok := genderClauses[t.Gender]; ok {
		b.WriteString(g)
	} else {
		b.WriteString("A natural voice")
	}

	if tone, ok := toneClauses[t.Tone]; ok {
		b.WriteString(tone)
	} else {
		b.WriteString(" with neutral timbre")
	}

	b.WriteString(moodClauses[t.Mood])
	b.WriteString(emotionClauses[t.Emotion])
	b.WriteString(accentClauses[t.Accent])

	if t.Language != "" && t.Language != "english" && t.Language != "default" {
		b.WriteString(", speaking ")
		b.WriteString(t.Language)
	}

	b.WriteString(". ")
	b.WriteString(VoiceQualitySuffix)
	return b.String()
}

// TraitsFromProfile reduces a profile to voice traits. Tone is read from
// keywords in voice_style; the profile's emotion feeds both the mood and the
// undertone clauses.
func TraitsFromProfile(p schema.CharacterProfile) VoiceTraits {
	tone := "neutral"
	style := strings.ToLower(p.VoiceStyle)
	for _, kw := range []string{"deep", "soft", "sharp"} {
		if strings.Contains(style, kw) {
			tone = kw
			break
		}
	}
	return VoiceTraits{
		Gender:   p.Gender,
		Tone:     tone,
		Mood:     p.Emotion,
		Emotion:  p.Emotion,
		Accent:   p.Accent,
		Language: p.Language,
	}
}

// FallbackImagePrompt builds an image prompt without a model call.
func FallbackImagePrompt(p schema.CharacterProfile, intent Intent) string {
	subject := strings.TrimSpace(p.VisualSummary)
	if subject == "" {
		subject = genericSubject
	}

	prompt := subject + intent.suffix()

	tags := make([]string, 0, len(p.StyleTags))
	for _, t := range p.StyleTags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) > 0 {
		prompt += ", " + strings.Join(tags, ", ")
	}
	return prompt
}

const fixedFiller = " Every word is spoken clearly so the voice can be heard in full."

var sampleFillers = []string{
	" I have travelled a long road to stand where I am today.",
	" Listen closely, because what I say next matters.",
	" There is more to my story than anyone has guessed.",
}

// SynthesizeSample builds a sample utterance of at least minChars runes from
// the profile's visual summary, or a generic opening when there is none.
func SynthesizeSample(p schema.CharacterProfile, minChars int) string {
	text := strings.TrimSpace(p.VisualSummary)
	if text == "" {
		text = "Let me tell you who I am."
	} else {
		text = "I am " + lowerFirst(strings.TrimSuffix(text, ".")) + "."
	}

	for _, f := range sampleFillers {
		if utils.RuneLen(text) >= minChars {
			break
		}
		text += f
	}
	for utils.RuneLen(text) < minChars {
		text += fixedFiller
	}
	return text
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	// keep acronyms intact
	if len(r) > 1 && unicode.IsUpper(r[1]) {
		return s
	}
	return strings.ToLower(string(r[:1])) + string(r[1:])
}
