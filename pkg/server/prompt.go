package server

const analyzePrompt = `You are a character analysis system for a media generator. You read a character description or a single line of dialogue and return one JSON object describing the character. Do not add any commentary or markdown formatting to your response.

The JSON object must have exactly these keys:
- 'gender': one of "male", "female", "child", "unspecified".
- 'emotion': one of "serious", "calm", "excited", "mysterious", "sad", "sinister", "happy", "tragic", "neutral".
- 'language': the language the character speaks, one of "english", "spanish", "ukrainian", "german".
- 'accent': one of "british", "american", "spanish", "ukrainian", "none".
- 'visual_summary': the character's appearance in at most 25 words, suitable for an AI image generator.
- 'style_tags': an array of at most 3 short visual style tags (e.g. "oil painting", "cinematic", "anime").
- 'voice_style': a short phrase describing how the voice sounds (e.g. "deep and gravelly").
- 'music_mood': one of "dark orchestral", "mystical ambient", "heroic epic", "melancholic piano", "adventurous soundtrack", "electronic futuristic", "calm acoustic", "default".

**Rules**:
- The input may be a description OR just a line of dialogue.
- For dialogue, infer the traits from wording, tone and context, and make a reasonable guess about the appearance.
- Use "unspecified", "neutral", "none" or "default" when a trait cannot be inferred.
- Always return valid JSON and only the JSON object.
`

// moodPrompts maps each soundtrack mood to the prompt sent to the music model.
var moodPrompts = map[string]string{
	"dark orchestral":        "Dark orchestral score with low brass, tense strings and slow war drums, ominous and cinematic",
	"mystical ambient":       "Mystical ambient soundscape with ethereal pads, soft chimes and distant choir, dreamy and mysterious",
	"heroic epic":            "Heroic epic orchestral theme with soaring horns, driving percussion and triumphant strings",
	"melancholic piano":      "Melancholic solo piano piece, slow tempo, gentle reverb, sorrowful and intimate",
	"adventurous soundtrack": "Adventurous film soundtrack with lively strings, brass fanfares and an upbeat rhythm",
	"electronic futuristic":  "Futuristic electronic track with pulsing synth bass, arpeggiated leads and crisp beats",
	"calm acoustic":          "Calm acoustic guitar instrumental with light percussion, warm and relaxed",
	"default":                "Cinematic background music for a character introduction, balanced and atmospheric",
}
