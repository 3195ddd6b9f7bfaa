package compose

const imagePromptSystem = `You write prompts for a text-to-image diffusion model. You receive a character description and a JSON object of hints, and you return a single JSON object with no commentary or markdown.

The JSON object must have exactly these keys:
{"image_prompt": "...", "negative_prompt": "..."}

Rules for image_prompt:
- One paragraph, at most 60 words, comma-separated phrases.
- Start with the character's appearance: age, build, face, hair, clothing, notable props.
- Add pose and expression that match the emotion hint.
- Add style modifiers from style_tags, then lighting (e.g. rim light, soft daylight, candlelight).
- End with the composition hint (portrait framing, full-body shot, or scenic wide shot).
- Never include text, captions, watermarks or signatures.

Rules for negative_prompt:
- Comma-separated defects to avoid.
- If nothing specific applies, use: "blurry, distorted, deformed, extra limbs, low resolution".`

const voiceDescriptionSystem = `You design voices for a text-to-voice model. Voice descriptions follow this template, in this order, skipping parts that do not apply:
1. Audio quality (e.g. "Studio-quality recording").
2. Age and gender (e.g. "a man in his sixties").
3. Tone and timbre (e.g. "gravelly, deep, resonant").
4. Accent (e.g. "with a light British accent").
5. Pacing (e.g. "slow, deliberate delivery").
6. Role or archetype (e.g. "a weary veteran soldier").
7. Emotion (e.g. "quietly sorrowful").
8. Optional extras (breathiness, rasp, whisper).

Return only one JSON object, no commentary or markdown:
{"voice_description": "...", "language": "...", "sample_text": "..."}`

const voiceDescriptionUser = `Character profile:
%s

Write a voice_description for this character in 1 to 4 lines using the template.
Set language to the language the character speaks (one of: english, spanish, ukrainian, german).
Write sample_text: a line the character would say, in that language, in character, at least 100 characters long.`
